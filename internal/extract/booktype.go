package extract

import (
	"regexp"
	"strings"
)

// BookType is the coarse genre/structure classification of a document.
// It drives which extraction thresholds get applied.
type BookType string

const (
	BookTypeAcademic BookType = "academic"
	BookTypeNovel    BookType = "novel"
	BookTypeTextbook BookType = "textbook"
	BookTypeManual   BookType = "manual"
	BookTypeUnknown  BookType = "unknown"
)

// ParseBookType converts a string to a BookType.
// Returns BookTypeUnknown if the string is not recognized.
func ParseBookType(s string) BookType {
	switch BookType(strings.ToLower(s)) {
	case BookTypeAcademic, BookTypeNovel, BookTypeTextbook, BookTypeManual:
		return BookType(strings.ToLower(s))
	default:
		return BookTypeUnknown
	}
}

// Keyword families scored against sampled page text. The textbook tier has
// no family of its own; it reuses academic signals at a lower threshold.
var (
	academicIndicators = compileAll(
		`\breferences\b`, `\bbibliography\b`, `\bcitation\b`,
		`\babstract\b`, `\bintroduction\b`, `\bconclusion\b`,
		`\bfigure\s+\d+`, `\btable\s+\d+`, `\bequation\b`,
	)
	novelIndicators = compileAll(
		`\bchapter\s+\d+`, `\bpart\s+\d+`, `\bepilogue\b`,
		`"[^"]{20,}"`, `\bhe\s+said\b`, `\bshe\s+said\b`,
	)
	manualIndicators = compileAll(
		`\bstep\s+\d+`, `\bprocedure\b`, `\binstruction\b`,
		`\bhow\s+to\b`, `\btutorial\b`, `\bguide\b`,
	)
)

// AnalyzeBookType classifies a book from sampled page text. The decision
// order is a deliberate tie-break: academic signals dominate because
// scholarly indicators are the least ambiguous, and novel detection requires
// page-count corroboration so short academic excerpts containing dialogue
// quotes don't classify as fiction. Deterministic for identical input.
func AnalyzeBookType(samples []string, totalPages int) BookType {
	combined := strings.ToLower(strings.Join(samples, " "))

	academic := scoreIndicators(academicIndicators, combined)
	novel := scoreIndicators(novelIndicators, combined)
	manual := scoreIndicators(manualIndicators, combined)

	switch {
	case academic >= 3:
		return BookTypeAcademic
	case novel >= 2 && totalPages > 100:
		return BookTypeNovel
	case manual >= 2:
		return BookTypeManual
	case academic >= 2:
		return BookTypeTextbook
	default:
		return BookTypeUnknown
	}
}

// scoreIndicators counts how many patterns in a family match at least once.
func scoreIndicators(family []*regexp.Regexp, text string) int {
	score := 0
	for _, re := range family {
		if re.MatchString(text) {
			score++
		}
	}
	return score
}

// ConfigForType returns the pre-tuned extraction configuration for a book
// type. Novels get a short index window and skip front matter, since they
// rarely carry a substantial front-matter index; academic books and
// textbooks widen the window and raise table fill thresholds because their
// tables are denser and more likely legitimate. Unknown maps to defaults.
func ConfigForType(bt BookType) ExtractionConfig {
	switch bt {
	case BookTypeAcademic:
		return ExtractionConfig{
			MaxIndexPages:    20,
			MinIndexEntries:  5,
			MinContentLength: 300,
			MinTableCellFill: 0.4,
		}.withDefaults()
	case BookTypeTextbook:
		return ExtractionConfig{
			MaxIndexPages:    25,
			MinIndexEntries:  10,
			MinContentLength: 250,
			MinTableCellFill: 0.35,
		}.withDefaults()
	case BookTypeNovel:
		return ExtractionConfig{
			MaxIndexPages:    5,
			MinIndexEntries:  1,
			MinContentLength: 100,
			SkipInitialPages: 3,
		}.withDefaults()
	case BookTypeManual:
		return ExtractionConfig{
			MaxIndexPages:    15,
			MinIndexEntries:  3,
			MinContentLength: 150,
			MinTableCellFill: 0.3,
		}.withDefaults()
	default:
		return DefaultExtractionConfig()
	}
}
