package extract

import "strings"

// TableExtractor validates and normalizes raw table grids into structured
// records. Rejected grids are silently dropped: the engine scans every page
// indiscriminately, so an absent table is expected behavior, not an error.
type TableExtractor struct {
	cfg ExtractionConfig
}

// NewTableExtractor creates a table extractor for the given configuration.
func NewTableExtractor(cfg ExtractionConfig) *TableExtractor {
	return &TableExtractor{cfg: cfg.withDefaults()}
}

// Extract validates each raw grid detected on one page and returns the
// accepted tables, numbered sequentially per page starting at 1. The same
// input always yields identical output.
func (e *TableExtractor) Extract(grids []RawGrid, pageNum int) []StructuredTable {
	var tables []StructuredTable
	for _, grid := range grids {
		rows := dropEmptyRows(grid)
		if !e.validate(rows) {
			continue
		}
		if st, ok := structureTable(rows, pageNum, len(tables)+1); ok {
			tables = append(tables, st)
		}
	}
	return tables
}

// validate applies the acceptance checks to the non-empty rows of a grid:
// minimum row and column counts, cell fill ratio, and a long-cell check that
// rejects mis-detected prose blocks.
func (e *TableExtractor) validate(rows []RawGridRow) bool {
	// MinTableRows counts data rows; the first row becomes the header.
	if len(rows)-1 < e.cfg.MinTableRows {
		return false
	}

	maxCols := 0
	totalCells := 0
	filledCells := 0
	longCellRows := 0
	for _, row := range rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
		totalCells += len(row)
		hasLong := false
		for _, cell := range row {
			trimmed := strings.TrimSpace(cell)
			if trimmed != "" {
				filledCells++
			}
			if len(trimmed) > e.cfg.MaxCellLength {
				hasLong = true
			}
		}
		if hasLong {
			longCellRows++
		}
	}

	if maxCols < e.cfg.MinTableCols {
		return false
	}
	if totalCells == 0 {
		return false
	}
	if float64(filledCells)/float64(totalCells) < e.cfg.MinTableCellFill {
		return false
	}
	// More than half the rows carrying an oversized cell signals a
	// formatted text block, not a table.
	if longCellRows*2 > len(rows) {
		return false
	}
	return true
}

// RawGridRow is one row of a raw grid after empty-row filtering.
type RawGridRow []string

// dropEmptyRows trims cells and removes rows with no content.
func dropEmptyRows(grid RawGrid) []RawGridRow {
	var rows []RawGridRow
	for _, row := range grid {
		cleaned := make(RawGridRow, len(row))
		hasContent := false
		for i, cell := range row {
			cleaned[i] = strings.TrimSpace(cell)
			if cleaned[i] != "" {
				hasContent = true
			}
		}
		if hasContent {
			rows = append(rows, cleaned)
		}
	}
	return rows
}

// structureTable promotes the first row to a header and normalizes every
// data row to exactly the header's column count, padding with empty strings
// or truncating as needed.
func structureTable(rows []RawGridRow, pageNum, tableIdx int) (StructuredTable, bool) {
	if len(rows) < 2 {
		return StructuredTable{}, false
	}

	header := []string(rows[0])
	width := len(header)
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		normalized := make([]string, width)
		copy(normalized, row)
		data = append(data, normalized)
	}

	return StructuredTable{
		PageNumber:  pageNum,
		TableIndex:  tableIdx,
		Header:      header,
		Data:        data,
		RowCount:    len(data),
		ColumnCount: width,
	}, true
}
