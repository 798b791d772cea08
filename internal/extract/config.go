package extract

import "regexp"

// EntryPattern matches one table-of-contents entry line. Submatch indices
// map capture groups onto the entry fields; an index of 0 means the pattern
// does not capture that field.
type EntryPattern struct {
	Re         *regexp.Regexp
	NumGroup   int // entry number/label
	TitleGroup int
	PageGroup  int // trailing page reference
}

// ExtractionConfig holds the tunable thresholds and precompiled pattern sets
// for one extraction run. Created once per document, read-only afterward.
// Zero-value fields are filled from defaults by withDefaults.
type ExtractionConfig struct {
	// Index extraction
	IndexKeywords   []*regexp.Regexp
	IndexPatterns   []EntryPattern
	MaxIndexPages   int
	MinIndexEntries int

	// First content page detection
	ContentIndicators []*regexp.Regexp
	MinContentLength  int
	SkipInitialPages  int

	// Table extraction
	MinTableRows     int
	MinTableCols     int
	MinTableCellFill float64
	MaxCellLength    int
}

var (
	defaultIndexKeywords = compileAll(
		`(?i)\btable\s+of\s+contents\b`,
		`(?i)\bcontents\b`,
		`(?i)\bindex\b`,
		`(?i)\btoc\b`,
		`(?i)\boverview\b`,
		`(?i)\bchapters?\b`,
	)

	defaultIndexPatterns = []EntryPattern{
		// "1. Title .... 5", "IV) Title", "Chapter 3  Title ... 45"
		{
			Re:         regexp.MustCompile(`(?i)^\s*([IVX]+[.)]?|\d+[.)]?|chapter\s+\d+|part\s+\d+)\s+(.+?)(?:\s*\.{2,}\s*(\d+))?\s*$`),
			NumGroup:   1,
			TitleGroup: 2,
			PageGroup:  3,
		},
		// Enumerated entry without a page reference
		{
			Re:         regexp.MustCompile(`(?i)^\s*([IVX]+[.)]?|\d+[.)]?)\s+(.+?)\s*$`),
			NumGroup:   1,
			TitleGroup: 2,
		},
		// Capitalized heading with optional dot leader and page number
		{
			Re:         regexp.MustCompile(`^\s*([A-Z][^.]{3,50}?)(?:\s*\.{2,}\s*(\d+))?\s*$`),
			TitleGroup: 1,
			PageGroup:  2,
		},
	}

	defaultContentIndicators = compileAll(
		`(?i)\bintroduction\b`,
		`(?i)\bchapter\s+[1i]`,
		`(?i)\bpreface\b`,
		`(?i)\bforeword\b`,
		`(?i)\bprologue\b`,
		`(?i)\bpart\s+[1i]`,
		`(?i)\bchapter\s+one\b`,
		`(?i)\bchapter\s+first\b`,
	)
)

// DefaultExtractionConfig returns the library-default configuration.
// Every field is populated; callers may override individual thresholds.
func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		IndexKeywords:     defaultIndexKeywords,
		IndexPatterns:     defaultIndexPatterns,
		MaxIndexPages:     15,
		MinIndexEntries:   3,
		ContentIndicators: defaultContentIndicators,
		MinContentLength:  200,
		SkipInitialPages:  0,
		MinTableRows:      2,
		MinTableCols:      2,
		MinTableCellFill:  0.3,
		MaxCellLength:     500,
	}
}

// withDefaults fills any zero-value field from the library defaults so a
// sparse override config is always usable.
func (c ExtractionConfig) withDefaults() ExtractionConfig {
	d := DefaultExtractionConfig()
	if len(c.IndexKeywords) == 0 {
		c.IndexKeywords = d.IndexKeywords
	}
	if len(c.IndexPatterns) == 0 {
		c.IndexPatterns = d.IndexPatterns
	}
	if c.MaxIndexPages == 0 {
		c.MaxIndexPages = d.MaxIndexPages
	}
	if c.MinIndexEntries == 0 {
		c.MinIndexEntries = d.MinIndexEntries
	}
	if len(c.ContentIndicators) == 0 {
		c.ContentIndicators = d.ContentIndicators
	}
	if c.MinContentLength == 0 {
		c.MinContentLength = d.MinContentLength
	}
	if c.MinTableRows == 0 {
		c.MinTableRows = d.MinTableRows
	}
	if c.MinTableCols == 0 {
		c.MinTableCols = d.MinTableCols
	}
	if c.MinTableCellFill == 0 {
		c.MinTableCellFill = d.MinTableCellFill
	}
	if c.MaxCellLength == 0 {
		c.MaxCellLength = d.MaxCellLength
	}
	return c
}

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return res
}
