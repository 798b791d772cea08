// Package pdfdoc adapts a PDF file's text layer to the extraction engine's
// Document interface. It reads page text from positioned text runs and
// derives raw table grids from their layout; it performs no OCR and no
// visual analysis beyond what the text layer already provides.
package pdfdoc

import (
	"errors"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
	pdfcpu "github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/jackzampolin/spine/internal/extract"
)

// ErrNoSource indicates the source PDF does not exist. This is the only
// fatal condition in the extraction error taxonomy.
var ErrNoSource = errors.New("source PDF not found")

// Doc is an open PDF document. The file handle is held for the lifetime of
// the Doc and released by Close on every exit path.
type Doc struct {
	path       string
	f          *os.File
	r          *pdf.Reader
	totalPages int
}

var _ extract.Document = (*Doc)(nil)

// Open validates and opens a PDF for page-indexed reading.
func Open(path string) (*Doc, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSource, path)
	}

	// Cross-check the page count with pdfcpu before handing the file to
	// the text-layer reader; a structurally broken PDF fails here with a
	// clearer error than a mid-iteration panic.
	cpuCount, cpuErr := pageCount(path)

	f, r, err := pdf.Open(path)
	if err != nil {
		if cpuErr != nil {
			return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to open PDF text layer %s: %w", path, err)
	}

	total := r.NumPage()
	if total == 0 && cpuErr == nil {
		total = cpuCount
	}

	return &Doc{path: path, f: f, r: r, totalPages: total}, nil
}

func pageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return pdfcpu.PageCount(f, nil)
}

// Close releases the underlying file handle.
func (d *Doc) Close() error {
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}

// Path returns the source file path.
func (d *Doc) Path() string { return d.path }

// TotalPages returns the document's page count.
func (d *Doc) TotalPages() int { return d.totalPages }

// PageText extracts the text of one page, one line per visual row. The
// underlying reader panics on some malformed pages; those are recovered
// into per-page errors, which callers tolerate as empty pages.
func (d *Doc) PageText(page int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: text extraction panicked: %v", page, r)
		}
	}()

	if page < 1 || page > d.totalPages {
		return "", fmt.Errorf("page %d out of range 1-%d", page, d.totalPages)
	}

	p := d.r.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	return renderRows(p), nil
}

// PageRawTables derives candidate table grids from the page's positioned
// text runs. The grids are raw input for the table extractor, which decides
// whether they are legitimate tables.
func (d *Doc) PageRawTables(page int) (grids []extract.RawGrid, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: table detection panicked: %v", page, r)
		}
	}()

	if page < 1 || page > d.totalPages {
		return nil, fmt.Errorf("page %d out of range 1-%d", page, d.totalPages)
	}

	p := d.r.Page(page)
	if p.V.IsNull() {
		return nil, nil
	}
	return detectGrids(p.Content().Text), nil
}
