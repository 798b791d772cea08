package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Shared line heuristics for index location and entry parsing.
var (
	// Roman-numeral or digit enumerators like "IV." or "12)".
	enumeratorRe = regexp.MustCompile(`[IVX]+[.)]|\d+[.)]`)

	// Prose openers: a common English function word followed by lowercase
	// text signals body content rather than an index entry.
	sentenceStartRe = regexp.MustCompile(`(?i)^(this|the|we|it|in|on|at|as|to|for|of|a|an)\s+[a-z]`)

	// Entries whose title still opens with a long function-word-led phrase
	// after parsing are leftover prose; a second defensive check.
	prosePhraseRe = regexp.MustCompile(`^(this|the|we|it|in|on|at|as|to|for|of|a|an)\s+[a-z]{10,}`)
)

// Short function words used by the continuation test to spot prose pages.
var sentenceStarters = []string{"this", "the", "we", "it", "in", "on", "at"}

// Closing-section vocabulary recognized as unnumbered index entries.
var knownHeadings = []string{
	"epilogue", "notes", "suggestions", "about", "appendix",
	"bibliography", "references", "prologue", "preface",
}

// Header/footer vocabulary skipped during entry parsing unless the line is
// part of an already-open entry.
var skipVocabulary = []string{"copyright", "all rights reserved", "title page", "dedication", "epigraph"}

// IndexExtractor locates and parses a table of contents or index from page
// text using cascading strategies tuned by an ExtractionConfig.
type IndexExtractor struct {
	cfg ExtractionConfig
}

// NewIndexExtractor creates an index extractor for the given configuration.
func NewIndexExtractor(cfg ExtractionConfig) *IndexExtractor {
	return &IndexExtractor{cfg: cfg.withDefaults()}
}

// locateStrategy finds the pages holding the index within a page window.
// An empty result hands off to the next strategy in the cascade.
type locateStrategy func(pages []PageText) []PageText

// Extract runs the three-tier locator cascade over the first
// min(maxPages, len(pages)) pages, then parses entries from the located
// pages. Returns nil when no tier finds index pages or the parsed entry
// count stays below the configured minimum.
func (e *IndexExtractor) Extract(pages []PageText, maxPages int) *IndexResult {
	if maxPages <= 0 {
		maxPages = e.cfg.MaxIndexPages
	}
	window := pages
	if maxPages < len(window) {
		window = window[:maxPages]
	}

	strategies := []locateStrategy{
		e.locateByKeywords,
		e.locateByPatterns,
		e.locateByStatistics,
	}

	var located []PageText
	for _, strategy := range strategies {
		if located = strategy(window); len(located) > 0 {
			break
		}
	}
	if len(located) == 0 {
		return nil
	}

	entries := e.parseEntries(located)
	if len(entries) < e.cfg.MinIndexEntries {
		return nil
	}

	result := &IndexResult{
		PageNumber: located[0].PageNumber,
		Entries:    entries,
	}
	var raw []string
	for _, p := range located {
		result.Pages = append(result.Pages, p.PageNumber)
		raw = append(raw, p.Text)
	}
	result.RawText = strings.Join(raw, "\n")
	return result
}

// locateByKeywords scans for a page matching an index keyword, then greedily
// absorbs up to 2 immediately-following continuation pages.
func (e *IndexExtractor) locateByKeywords(pages []PageText) []PageText {
	for i, page := range pages {
		if !e.matchesKeyword(strings.ToLower(page.Text)) {
			continue
		}
		located := []PageText{page}
		for j := i + 1; j < len(pages) && j <= i+2; j++ {
			if !e.looksLikeContinuation(pages[j].Text) {
				break
			}
			located = append(located, pages[j])
		}
		return located
	}
	return nil
}

// locateByPatterns scans for a page with at least 3 enumerator lines and
// absorbs up to 1 continuation page.
func (e *IndexExtractor) locateByPatterns(pages []PageText) []PageText {
	for i, page := range pages {
		numbered := 0
		for _, line := range strings.Split(page.Text, "\n") {
			if enumeratorRe.MatchString(line) {
				numbered++
			}
		}
		if numbered < 3 {
			continue
		}
		located := []PageText{page}
		if i+1 < len(pages) && e.looksLikeContinuation(pages[i+1].Text) {
			located = append(located, pages[i+1])
		}
		return located
	}
	return nil
}

// locateByStatistics checks only the first 10 pages for one whose line
// population profiles like an index: dominated by short lines, few long
// ones, low average line length.
func (e *IndexExtractor) locateByStatistics(pages []PageText) []PageText {
	limit := len(pages)
	if limit > 10 {
		limit = 10
	}
	for _, page := range pages[:limit] {
		lines := nonEmptyLines(page.Text)
		if len(lines) < 5 {
			continue
		}

		totalLen, short, long := 0, 0, 0
		for _, l := range lines {
			n := len(l)
			totalLen += n
			if n > 10 && n < 80 {
				short++
			}
			if n > 150 {
				long++
			}
		}
		avg := float64(totalLen) / float64(len(lines))

		if short > len(lines)/2 && float64(long) < float64(len(lines))*0.2 && avg < 60 {
			return []PageText{page}
		}
	}
	return nil
}

// looksLikeContinuation reports whether a page extends a multi-page index
// rather than starting new content. Requires enumerated or mostly-short
// lines, and guards against prose pages that merely open with short lines.
func (e *IndexExtractor) looksLikeContinuation(text string) bool {
	lines := nonEmptyLines(text)
	if len(lines) < 3 {
		return false
	}

	numbered, short, prose := 0, 0, 0
	for _, l := range lines {
		if enumeratorRe.MatchString(l) {
			numbered++
		}
		if len(l) > 5 && len(l) < 100 {
			short++
		}
		lower := strings.ToLower(l)
		for _, starter := range sentenceStarters {
			if strings.HasPrefix(lower, starter+" ") {
				prose++
				break
			}
		}
	}

	return (numbered >= 2 || float64(short) > float64(len(lines))*0.6) && prose < 2
}

// parseEntries walks the concatenated text of the located pages and builds
// the deduplicated entry list. Collection starts only after a keyword header
// line has been seen; the header itself is not an entry.
func (e *IndexExtractor) parseEntries(located []PageText) []IndexEntry {
	var raw []string
	for _, p := range located {
		raw = append(raw, p.Text)
	}
	lines := strings.Split(strings.Join(raw, "\n"), "\n")

	var entries []IndexEntry
	var current *IndexEntry
	seen := make(map[string]bool)
	collecting := false

	commit := func() {
		if current == nil {
			return
		}
		key := strings.ToLower(strings.TrimSpace(current.Title))
		if len(key) > 2 && len(key) < 300 && !seen[key] {
			entries = append(entries, *current)
			seen[key] = true
		}
		current = nil
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			commit()
			continue
		}

		if !collecting {
			if e.matchesKeyword(line) {
				collecting = true
			}
			continue
		}

		if e.isContentLine(line, len(entries)) {
			if len(entries) >= e.cfg.MinIndexEntries {
				break
			}
			continue
		}

		// Skip common boilerplate unless it wraps an open entry.
		if current == nil && containsAny(strings.ToLower(line), skipVocabulary) {
			continue
		}

		if entry, ok := e.matchEntry(line); ok {
			commit()
			current = entry
			continue
		}

		if current != nil {
			// Wrapped continuation of the open entry's title.
			if len(line) < 150 && len(current.Title)+len(line) < 300 {
				if !strings.EqualFold(strings.TrimSpace(line), strings.TrimSpace(current.Title)) {
					current.Title += " " + line
				}
				continue
			}
			commit()
		}

		if heading, ok := matchUnnumberedHeading(line); ok {
			key := strings.ToLower(heading)
			if !seen[key] {
				entries = append(entries, IndexEntry{Title: heading})
				seen[key] = true
			}
		}
	}
	commit()

	return filterEntries(entries)
}

// matchEntry tries each configured entry pattern in order; the first match
// wins. Titles outside the 3-300 char window are rejected; duplicate titles
// are left to the commit-time dedup.
func (e *IndexExtractor) matchEntry(line string) (*IndexEntry, bool) {
	for _, p := range e.cfg.IndexPatterns {
		m := p.Re.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		title := line
		if p.TitleGroup > 0 && p.TitleGroup < len(m) && m[p.TitleGroup] != "" {
			title = m[p.TitleGroup]
		}
		title = collapseDoubledTitle(strings.TrimSpace(title))
		if len(title) <= 2 || len(title) >= 300 {
			continue
		}

		entry := &IndexEntry{Title: title}
		if p.NumGroup > 0 && p.NumGroup < len(m) && m[p.NumGroup] != "" {
			entry.EntryNumber = normalizeEntryNumber(m[p.NumGroup])
		}
		if p.PageGroup > 0 && p.PageGroup < len(m) && m[p.PageGroup] != "" {
			if n, err := strconv.Atoi(m[p.PageGroup]); err == nil {
				entry.PageReference = &n
			}
		}
		return entry, true
	}
	return nil, false
}

// matchUnnumberedHeading tests a line against the closing-section
// vocabulary (Epilogue, Notes, Appendix, ...) or a short non-sentence-like
// capitalized heading.
func matchUnnumberedHeading(line string) (string, bool) {
	if len(line) <= 2 || len(line) >= 80 {
		return "", false
	}
	runes := []rune(line)
	if !unicode.IsUpper(runes[0]) || line == strings.ToUpper(line) {
		return "", false
	}
	if enumeratorRe.MatchString(line) {
		return "", false
	}

	lower := strings.ToLower(line)
	for _, h := range knownHeadings {
		if strings.HasPrefix(lower, h) {
			return line, true
		}
	}
	if len(strings.Fields(line)) <= 4 && !sentenceStartRe.MatchString(line) {
		return line, true
	}
	return "", false
}

// isContentLine judges whether a line is body content rather than an index
// entry, halting the scan early to prevent runaway absorption of narrative
// text misidentified as an index.
func (e *IndexExtractor) isContentLine(line string, entryCount int) bool {
	if len(line) > 250 {
		return true
	}
	if sentenceStartRe.MatchString(line) && entryCount >= e.cfg.MinIndexEntries {
		return true
	}
	return false
}

// filterEntries is the final defensive pass: it drops entries whose title
// still opens with a long function-word-led phrase and re-checks length
// bounds and case-insensitive uniqueness (continuation lines may have grown
// a title past the limit).
func filterEntries(entries []IndexEntry) []IndexEntry {
	filtered := make([]IndexEntry, 0, len(entries))
	seen := make(map[string]bool)
	for _, entry := range entries {
		key := strings.ToLower(strings.TrimSpace(entry.Title))
		if len(key) <= 2 || len(key) >= 300 || seen[key] {
			continue
		}
		if prosePhraseRe.MatchString(key) {
			continue
		}
		filtered = append(filtered, entry)
		seen[key] = true
	}
	return filtered
}

func (e *IndexExtractor) matchesKeyword(text string) bool {
	for _, re := range e.cfg.IndexKeywords {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// collapseDoubledTitle collapses titles that are an exact word-for-word
// repeat of themselves split in half, a common text-layer rendering
// artifact ("Title Page Title Page" -> "Title Page").
func collapseDoubledTitle(title string) string {
	words := strings.Fields(title)
	if len(words) < 2 || len(words)%2 != 0 {
		return title
	}
	half := len(words) / 2
	for i := 0; i < half; i++ {
		if words[i] != words[half+i] {
			return title
		}
	}
	return strings.Join(words[:half], " ")
}

// normalizeEntryNumber strips trailing enumerator punctuation: "1." -> "1".
func normalizeEntryNumber(num string) string {
	return strings.TrimRight(strings.TrimSpace(num), ".)")
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
