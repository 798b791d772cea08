package extract

import (
	"log/slog"
	"strings"
)

// Document is the minimal page-indexed view of an open book source. Page
// numbers are 1-indexed. The engine consumes whatever a PDF text layer
// already materializes into this interface; it never parses PDF binary
// format itself.
type Document interface {
	TotalPages() int
	PageText(page int) (string, error)
	PageRawTables(page int) ([]RawGrid, error)
}

// sampleCharLimit truncates each classification sample to its first chunk;
// full pages would let one dense page dominate the score.
const sampleCharLimit = 1000

// Processor owns an open document and sequences classification, index
// extraction, table extraction, and plain full-text extraction into one
// report. Pages are processed strictly in order because continuation
// absorption and the running entry builder depend on sequential state.
type Processor struct {
	doc        Document
	totalPages int
	cfg        ExtractionConfig
	bookType   BookType
	index      *IndexExtractor
	tables     *TableExtractor
	log        *slog.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithConfig supplies an explicit extraction configuration, skipping
// book-type auto-detection.
func WithConfig(cfg ExtractionConfig) ProcessorOption {
	return func(p *Processor) {
		p.cfg = cfg.withDefaults()
	}
}

// WithBookType forces a book type, adopting its pre-tuned configuration
// without sampling.
func WithBookType(bt BookType) ProcessorOption {
	return func(p *Processor) {
		p.cfg = ConfigForType(bt)
		p.bookType = bt
	}
}

// WithLogger sets the logger used for per-page diagnostics.
func WithLogger(log *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.log = log
	}
}

// NewProcessor wraps an open document. Without an explicit config it samples
// a handful of pages, classifies the book, and adopts the matching
// configuration; sampling failure silently falls back to defaults with book
// type unknown, never an error.
func NewProcessor(doc Document, opts ...ProcessorOption) *Processor {
	p := &Processor{
		doc:        doc,
		totalPages: doc.TotalPages(),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.cfg.MaxIndexPages == 0 { // no explicit config supplied
		p.autoConfigure()
	}
	if p.bookType == "" {
		p.bookType = BookTypeUnknown
	}
	p.index = NewIndexExtractor(p.cfg)
	p.tables = NewTableExtractor(p.cfg)
	return p
}

// autoConfigure samples representative pages, classifies the book type, and
// adopts its configuration.
func (p *Processor) autoConfigure() {
	samples := p.samplePages()
	if len(samples) == 0 {
		p.bookType = BookTypeUnknown
		p.cfg = DefaultExtractionConfig()
		p.log.Warn("could not sample pages for classification, using defaults")
		return
	}

	p.bookType = AnalyzeBookType(samples, p.totalPages)
	p.cfg = ConfigForType(p.bookType)
	p.log.Info("detected book type", "book_type", p.bookType, "samples", len(samples))
}

// samplePages reads up to 5 representative pages: the first, an early page,
// a mid-early page, the midpoint, and a near-final page, each clipped to the
// valid range and truncated to the sample limit.
func (p *Processor) samplePages() []string {
	if p.totalPages == 0 {
		return nil
	}
	indices := []int{
		1,
		clipPage(6, p.totalPages),
		clipPage(11, p.totalPages),
		clipPage(p.totalPages/2, p.totalPages),
		clipPage(p.totalPages-4, p.totalPages),
	}

	var samples []string
	sampled := make(map[int]bool)
	for _, idx := range indices {
		if sampled[idx] {
			continue
		}
		sampled[idx] = true

		text, err := p.doc.PageText(idx)
		if err != nil || text == "" {
			continue
		}
		if len(text) > sampleCharLimit {
			text = text[:sampleCharLimit]
		}
		samples = append(samples, text)
	}
	return samples
}

func clipPage(page, total int) int {
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// BookType returns the detected (or forced) book type.
func (p *Processor) BookType() BookType { return p.bookType }

// Config returns the active extraction configuration.
func (p *Processor) Config() ExtractionConfig { return p.cfg }

// TotalPages returns the document's page count.
func (p *Processor) TotalPages() int { return p.totalPages }

// ExtractAllText reads every page in order, tolerating per-page failures:
// an unreadable page becomes an empty placeholder entry rather than
// aborting the document.
func (p *Processor) ExtractAllText() TextExtraction {
	result := TextExtraction{
		TotalPages: p.totalPages,
		Pages:      make([]PageText, 0, p.totalPages),
	}

	var parts []string
	for page := 1; page <= p.totalPages; page++ {
		text, err := p.doc.PageText(page)
		if err != nil {
			p.log.Warn("failed to extract page text", "page", page, "error", err)
			text = ""
		}
		trimmed := strings.TrimSpace(text)
		result.Pages = append(result.Pages, PageText{
			PageNumber: page,
			Text:       trimmed,
			CharCount:  len(text),
		})
		result.TotalCharacters += len(text)
		parts = append(parts, trimmed)
	}
	result.FullText = strings.Join(parts, "\n\n")
	return result
}

// FirstContentPage identifies the first content page after cover and front
// matter. The primary scan requires substantial text plus a content
// indicator, with a substantial-content fallback for books lacking explicit
// section words on their opening page; a second pass takes the first page
// anywhere with enough text, and failing that the page right after the skip
// boundary.
func (p *Processor) FirstContentPage() int {
	minLen := p.cfg.MinContentLength
	skip := p.cfg.SkipInitialPages
	start := clipPage(skip+1, p.totalPages)

	for page := start; page <= p.totalPages; page++ {
		text, err := p.doc.PageText(page)
		if err != nil {
			continue
		}
		lower := strings.ToLower(strings.TrimSpace(text))
		if len(lower) < minLen {
			continue
		}

		for _, re := range p.cfg.ContentIndicators {
			if re.MatchString(lower) {
				p.log.Debug("first content page identified", "page", page, "rule", "indicator")
				return page
			}
		}
		if page > skip+2 && float64(len(lower)) > float64(minLen)*1.5 {
			p.log.Debug("first content page identified", "page", page, "rule", "substantial")
			return page
		}
	}

	for page := start; page <= p.totalPages; page++ {
		text, err := p.doc.PageText(page)
		if err != nil {
			continue
		}
		if len(strings.TrimSpace(text)) > minLen {
			p.log.Debug("first content page identified", "page", page, "rule", "fallback")
			return page
		}
	}

	return start
}

// ExtractIndex locates and parses the table of contents. Returns nil when
// no index is found or the parsed entries stay below the configured
// minimum; that is a valid absent result, not an error.
func (p *Processor) ExtractIndex() *IndexResult {
	maxPages := p.cfg.MaxIndexPages
	limit := clipPage(maxPages, p.totalPages)

	pages := make([]PageText, 0, limit)
	for page := 1; page <= limit; page++ {
		text, err := p.doc.PageText(page)
		if err != nil {
			p.log.Warn("failed to read page for index scan", "page", page, "error", err)
			continue
		}
		if text == "" {
			continue
		}
		pages = append(pages, PageText{PageNumber: page, Text: text, CharCount: len(text)})
	}

	return p.index.Extract(pages, maxPages)
}

// ExtractTables runs table extraction over a page range, accumulating
// accepted tables and tolerating per-page failures. A zero or out-of-range
// bound clips to the document.
func (p *Processor) ExtractTables(startPage, endPage int) []StructuredTable {
	if startPage < 1 {
		startPage = 1
	}
	if endPage < 1 || endPage > p.totalPages {
		endPage = p.totalPages
	}

	var tables []StructuredTable
	for page := startPage; page <= endPage; page++ {
		grids, err := p.doc.PageRawTables(page)
		if err != nil {
			p.log.Warn("failed to extract tables", "page", page, "error", err)
			continue
		}
		tables = append(tables, p.tables.Extract(grids, page)...)
	}

	if len(tables) > 0 {
		p.log.Info("extracted tables", "count", len(tables), "start_page", startPage, "end_page", endPage)
	}
	return tables
}

// ExtractStructured runs every extraction in one pass and assembles the
// report with its summary counters.
func (p *Processor) ExtractStructured() *Report {
	text := p.ExtractAllText()
	firstPage := p.FirstContentPage()
	index := p.ExtractIndex()
	tables := p.ExtractTables(1, p.totalPages)

	return p.BuildReport(text, &firstPage, index, tables)
}

// BuildReport assembles a report from individually extracted parts. Nil
// parts are reported as absent.
func (p *Processor) BuildReport(text TextExtraction, firstPage *int, index *IndexResult, tables []StructuredTable) *Report {
	textPages := 0
	for _, pg := range text.Pages {
		if pg.Text != "" {
			textPages++
		}
	}

	indexEntries := 0
	if index != nil {
		indexEntries = len(index.Entries)
	}

	return &Report{
		TotalPages:       p.totalPages,
		BookType:         p.bookType,
		FirstContentPage: firstPage,
		TextExtraction:   text,
		Index:            index,
		Tables:           tables,
		Summary: Summary{
			TotalPages:        p.totalPages,
			BookType:          p.bookType,
			FirstContentPage:  firstPage,
			TotalTextPages:    textPages,
			IndexFound:        index != nil,
			IndexEntriesCount: indexEntries,
			TablesCount:       len(tables),
			TotalCharacters:   text.TotalCharacters,
		},
	}
}
