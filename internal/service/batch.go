package service

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
)

// BatchItem is the outcome of one document in a batch run.
type BatchItem struct {
	PDFPath string  `json:"pdf_path"`
	Result  *Result `json:"result,omitempty"`
	Err     error   `json:"-"`
	Error   string  `json:"error,omitempty"`
}

// ExtractBatch processes multiple PDFs concurrently. Documents are fully
// independent of each other (pages within one document stay sequential), so
// the batch fans out up to maxWorkers documents at a time. One failed
// document does not stop the others; results come back in input order.
func (s *Service) ExtractBatch(ctx context.Context, paths []string, maxWorkers int, base Request) []BatchItem {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	type indexed struct {
		idx  int
		item BatchItem
	}

	results := make(chan indexed, len(paths))
	sem := make(chan struct{}, maxWorkers)

	for i, path := range paths {
		sem <- struct{}{} // acquire
		go func(idx int, pdfPath string) {
			defer func() { <-sem }() // release

			req := base
			req.PDFPath = pdfPath
			req.JobID = "" // each document gets its own job

			res, err := s.Extract(ctx, req)
			item := BatchItem{PDFPath: pdfPath, Result: res, Err: err}
			if err != nil {
				item.Error = err.Error()
				s.log.Warn("batch document failed", "pdf", filepath.Base(pdfPath), "error", err)
			}
			results <- indexed{idx: idx, item: item}
		}(i, path)
	}

	collected := make([]indexed, 0, len(paths))
	for range paths {
		collected = append(collected, <-results)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].idx < collected[j].idx })

	items := make([]BatchItem, len(collected))
	for i, c := range collected {
		items[i] = c.item
	}
	return items
}

// BatchSummary reports the outcome counts of a batch run.
func BatchSummary(items []BatchItem) (succeeded, failed int) {
	for _, item := range items {
		if item.Err != nil {
			failed++
		} else {
			succeeded++
		}
	}
	return succeeded, failed
}

// FirstBatchError returns an error describing the first failure, or nil.
func FirstBatchError(items []BatchItem) error {
	for _, item := range items {
		if item.Err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(item.PDFPath), item.Err)
		}
	}
	return nil
}
