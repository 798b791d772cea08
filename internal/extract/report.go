// Package extract implements the adaptive book-structure extraction engine:
// a heuristics-driven classifier and multi-strategy extractor that infers a
// book's type from sparse text samples, then uses that inference to tune
// pattern-matching strategies for locating a table of contents and tabular
// data in free-flowing page text. Everything here is best-effort: heuristic
// failures narrow the output instead of aborting the run.
package extract

// PageText is the raw extracted text of a single page.
// Page numbers are 1-indexed.
type PageText struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
	CharCount  int    `json:"char_count"`
}

// IndexEntry is one parsed table-of-contents entry.
type IndexEntry struct {
	EntryNumber   string `json:"entry_number,omitempty"` // "1", "IV", "chapter 3"; empty for unnumbered headings
	Title         string `json:"title"`
	PageReference *int   `json:"page_reference,omitempty"`
}

// IndexResult holds a located and parsed table of contents.
// It exists only when the entry count reached the configured minimum;
// extraction returns nil otherwise.
type IndexResult struct {
	PageNumber int          `json:"page_number"` // anchor page where the index starts
	Pages      []int        `json:"pages"`       // all contributing pages, in order
	Entries    []IndexEntry `json:"entries"`
	RawText    string       `json:"raw_text"`
}

// RawGrid is a 2-D grid of cell strings as produced by the table-detection
// layer for one page. Blank cells are empty strings. The engine treats grids
// as input only; validation decides whether a grid becomes a StructuredTable.
type RawGrid [][]string

// StructuredTable is a validated, normalized table. Every data row has
// exactly ColumnCount cells (padded or truncated to the header width).
type StructuredTable struct {
	PageNumber  int        `json:"page_number"`
	TableIndex  int        `json:"table_index"` // 1-based within the page
	Header      []string   `json:"header"`
	Data        [][]string `json:"data"`
	RowCount    int        `json:"row_count"`
	ColumnCount int        `json:"column_count"`
}

// TextExtraction is the page-by-page full-text result.
type TextExtraction struct {
	TotalPages      int        `json:"total_pages"`
	Pages           []PageText `json:"pages"`
	FullText        string     `json:"full_text"`
	TotalCharacters int        `json:"total_characters"`
}

// Summary holds the counters reported alongside a full extraction run.
type Summary struct {
	TotalPages        int      `json:"total_pages"`
	BookType          BookType `json:"book_type"`
	FirstContentPage  *int     `json:"first_content_page"`
	TotalTextPages    int      `json:"total_text_pages"`
	IndexFound        bool     `json:"index_found"`
	IndexEntriesCount int      `json:"index_entries_count"`
	TablesCount       int      `json:"tables_count"`
	TotalCharacters   int      `json:"total_characters"`
}

// Report aggregates everything extracted from one document.
// Built once per run; immutable after construction.
type Report struct {
	TotalPages       int               `json:"total_pages"`
	BookType         BookType          `json:"book_type"`
	FirstContentPage *int              `json:"first_content_page"`
	TextExtraction   TextExtraction    `json:"text_extraction"`
	Index            *IndexResult      `json:"index"`
	Tables           []StructuredTable `json:"tables"`
	Summary          Summary           `json:"summary"`
}
