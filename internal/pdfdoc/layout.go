package pdfdoc

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jackzampolin/spine/internal/extract"
)

// Layout thresholds in PDF points.
const (
	// rowTolerance groups text runs onto the same visual row.
	rowTolerance = 3.0
	// wordGap inserts a space between runs on the same row.
	wordGap = 1.0
	// cellGap splits a row into separate table cells.
	cellGap = 14.0
	// minGridRows is the smallest run of multi-cell rows worth reporting
	// as a candidate grid.
	minGridRows = 2
)

// textRow is one visual row of text runs, sorted left to right.
type textRow struct {
	y    float64
	runs []pdf.Text
}

// renderRows reconstructs page text with one line per visual row, inserting
// spaces at word gaps. PDFs emit text runs in arbitrary order, so runs are
// grouped by Y position and sorted by X within each row.
func renderRows(p pdf.Page) string {
	rows := groupRows(p.Content().Text)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var b strings.Builder
		var prev *pdf.Text
		for i := range row.runs {
			run := &row.runs[i]
			if prev != nil && run.X-(prev.X+prev.W) > wordGap {
				b.WriteByte(' ')
			}
			b.WriteString(run.S)
			prev = run
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(lines, "\n")
}

// groupRows buckets text runs into visual rows by Y position within
// rowTolerance, ordered top of page first.
func groupRows(texts []pdf.Text) []textRow {
	filtered := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if s := strings.TrimSpace(t.S); s != "" && s != "\n" {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	// PDF Y grows upward; sort top-down, then left-right.
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Y != filtered[j].Y {
			return filtered[i].Y > filtered[j].Y
		}
		return filtered[i].X < filtered[j].X
	})

	var rows []textRow
	for _, t := range filtered {
		if len(rows) > 0 && rows[len(rows)-1].y-t.Y <= rowTolerance {
			rows[len(rows)-1].runs = append(rows[len(rows)-1].runs, t)
			continue
		}
		rows = append(rows, textRow{y: t.Y, runs: []pdf.Text{t}})
	}

	for i := range rows {
		sort.SliceStable(rows[i].runs, func(a, b int) bool {
			return rows[i].runs[a].X < rows[i].runs[b].X
		})
	}
	return rows
}

// detectGrids finds candidate table grids: consecutive visual rows that
// split into 2+ cells at large horizontal gaps. Single-cell rows terminate
// a candidate; blocks shorter than minGridRows are dropped here, everything
// else is left to the extractor's validation.
func detectGrids(texts []pdf.Text) []extract.RawGrid {
	rows := groupRows(texts)

	var grids []extract.RawGrid
	var current extract.RawGrid
	flush := func() {
		if len(current) >= minGridRows {
			grids = append(grids, current)
		}
		current = nil
	}

	for _, row := range rows {
		cells := splitCells(row.runs)
		if len(cells) < 2 {
			flush()
			continue
		}
		current = append(current, cells)
	}
	flush()
	return grids
}

// splitCells breaks a row of left-to-right runs into cells wherever the
// horizontal gap between adjacent runs exceeds cellGap.
func splitCells(runs []pdf.Text) []string {
	var cells []string
	var b strings.Builder
	var prev *pdf.Text
	for i := range runs {
		run := &runs[i]
		if prev != nil {
			gap := run.X - (prev.X + prev.W)
			if gap > cellGap {
				cells = append(cells, strings.TrimSpace(b.String()))
				b.Reset()
			} else if gap > wordGap {
				b.WriteByte(' ')
			}
		}
		b.WriteString(run.S)
		prev = run
	}
	if b.Len() > 0 {
		cells = append(cells, strings.TrimSpace(b.String()))
	}
	return cells
}
