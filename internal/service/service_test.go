package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/spine/internal/extract"
	"github.com/jackzampolin/spine/internal/home"
	"github.com/jackzampolin/spine/internal/pdfdoc"
)

func testService(t *testing.T) *Service {
	t.Helper()
	dir, err := home.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create home: %v", err)
	}
	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("failed to ensure home: %v", err)
	}
	return New(dir, nil)
}

func sampleResult() *Result {
	page := 4
	ref := 5
	return &Result{
		JobID:       "job-1",
		PDFPath:     "/books/survey.pdf",
		PDFFilename: "survey.pdf",
		Report: &extract.Report{
			TotalPages:       6,
			BookType:         extract.BookTypeUnknown,
			FirstContentPage: &page,
			TextExtraction: extract.TextExtraction{
				TotalPages:      6,
				FullText:        "The Field Survey Handbook\n\nChapter 1",
				TotalCharacters: 36,
			},
			Index: &extract.IndexResult{
				PageNumber: 2,
				Pages:      []int{2},
				Entries: []extract.IndexEntry{
					{EntryNumber: "1", Title: "Origins", PageReference: &ref},
					{Title: "Epilogue"},
				},
			},
			Tables: []extract.StructuredTable{{
				PageNumber:  5,
				TableIndex:  1,
				Header:      []string{"Season", "Crews"},
				Data:        [][]string{{"first", "2"}, {"second", "3"}},
				RowCount:    2,
				ColumnCount: 2,
			}},
		},
	}
}

func TestWriteOutputs(t *testing.T) {
	s := testService(t)
	result := sampleResult()

	if err := s.writeOutputs(result.JobID, result); err != nil {
		t.Fatalf("writeOutputs failed: %v", err)
	}

	t.Run("full text", func(t *testing.T) {
		data, err := os.ReadFile(result.OutputFiles.FullText)
		if err != nil {
			t.Fatalf("failed to read full text: %v", err)
		}
		if string(data) != result.Report.TextExtraction.FullText {
			t.Errorf("full text mismatch: %q", data)
		}
	})

	t.Run("index file", func(t *testing.T) {
		data, err := os.ReadFile(result.OutputFiles.Index)
		if err != nil {
			t.Fatalf("failed to read index: %v", err)
		}
		text := string(data)
		if !strings.HasPrefix(text, "Index (Page 2):\n\n") {
			t.Errorf("unexpected index header: %q", text)
		}
		if !strings.Contains(text, "1 Origins ... 5\n") {
			t.Errorf("numbered entry missing: %q", text)
		}
		if !strings.Contains(text, " Epilogue ... \n") {
			t.Errorf("unnumbered entry missing: %q", text)
		}
	})

	t.Run("table csv", func(t *testing.T) {
		path := filepath.Join(result.OutputFiles.TablesDir, "page_5_table_1.csv")
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("failed to open csv: %v", err)
		}
		defer f.Close()

		records, err := csv.NewReader(f).ReadAll()
		if err != nil {
			t.Fatalf("failed to parse csv: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header + 2 rows, got %d records", len(records))
		}
		if records[0][0] != "Season" || records[2][1] != "3" {
			t.Errorf("unexpected csv contents: %v", records)
		}
	})

	t.Run("json report", func(t *testing.T) {
		data, err := os.ReadFile(result.OutputFiles.JSON)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("report is not valid JSON: %v", err)
		}
		if decoded["job_id"] != "job-1" {
			t.Errorf("expected job_id job-1, got %v", decoded["job_id"])
		}
		// The report is written last so it records every sidecar path.
		files, ok := decoded["output_files"].(map[string]any)
		if !ok {
			t.Fatal("output_files missing from report")
		}
		for _, key := range []string{"json", "full_text", "index", "tables_directory"} {
			if files[key] == "" || files[key] == nil {
				t.Errorf("output_files.%s not recorded", key)
			}
		}
	})
}

func TestWriteOutputs_NoIndexNoTables(t *testing.T) {
	s := testService(t)
	result := sampleResult()
	result.Report.Index = nil
	result.Report.Tables = nil

	if err := s.writeOutputs(result.JobID, result); err != nil {
		t.Fatalf("writeOutputs failed: %v", err)
	}
	if result.OutputFiles.Index != "" {
		t.Errorf("expected no index file, got %s", result.OutputFiles.Index)
	}
	if result.OutputFiles.TablesDir != "" {
		t.Errorf("expected no tables directory, got %s", result.OutputFiles.TablesDir)
	}
	if result.OutputFiles.JSON == "" || result.OutputFiles.FullText == "" {
		t.Error("report and full text should always be written")
	}
}

func TestExtractMissingSource(t *testing.T) {
	s := testService(t)

	_, err := s.Extract(context.Background(), Request{PDFPath: filepath.Join(t.TempDir(), "absent.pdf")})
	if err == nil {
		t.Fatal("expected an error for a missing source")
	}
	if !errors.Is(err, pdfdoc.ErrNoSource) {
		t.Errorf("expected ErrNoSource, got %v", err)
	}
}

func TestExtractEmptyPath(t *testing.T) {
	s := testService(t)
	if _, err := s.Extract(context.Background(), Request{}); err == nil {
		t.Fatal("expected an error for an empty path")
	}
}

func TestBatchSummary(t *testing.T) {
	items := []BatchItem{
		{PDFPath: "a.pdf"},
		{PDFPath: "b.pdf", Err: errors.New("boom")},
		{PDFPath: "c.pdf"},
	}
	succeeded, failed := BatchSummary(items)
	if succeeded != 2 || failed != 1 {
		t.Errorf("expected 2/1, got %d/%d", succeeded, failed)
	}
}

func TestFirstBatchError(t *testing.T) {
	boom := errors.New("boom")
	items := []BatchItem{
		{PDFPath: "/books/a.pdf"},
		{PDFPath: "/books/b.pdf", Err: boom},
		{PDFPath: "/books/c.pdf", Err: errors.New("later")},
	}
	err := FirstBatchError(items)
	if !errors.Is(err, boom) {
		t.Errorf("expected the first failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "b.pdf") {
		t.Errorf("expected the failing filename, got %v", err)
	}

	if err := FirstBatchError(items[:1]); err != nil {
		t.Errorf("expected nil for all-success items, got %v", err)
	}
}

func TestExtractBatch_MissingSources(t *testing.T) {
	s := testService(t)
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "one.pdf"),
		filepath.Join(dir, "two.pdf"),
	}

	items := s.ExtractBatch(context.Background(), paths, 2, Request{})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for i, item := range items {
		if item.PDFPath != paths[i] {
			t.Errorf("item %d: expected input order preserved, got %s", i, item.PDFPath)
		}
		if item.Err == nil || item.Error == "" {
			t.Errorf("item %d: expected a recorded failure", i)
		}
	}
}
