// Package service drives full extraction runs: it opens the source
// document, runs the extraction engine, and writes the JSON report plus
// plain-text and CSV sidecar files into a per-job output directory.
package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/jackzampolin/spine/internal/extract"
	"github.com/jackzampolin/spine/internal/home"
	"github.com/jackzampolin/spine/internal/pdfdoc"
)

// openAttempts covers sources that are still syncing when a job fires.
const openAttempts = 3

// Request contains the parameters for one extraction run.
type Request struct {
	PDFPath string
	JobID   string // optional; generated when empty

	// Skip flags disable individual extractions; zero value runs everything.
	SkipTables    bool
	SkipIndex     bool
	SkipFirstPage bool

	// BookType forces a classification, adopting its tuned thresholds
	// without sampling. Empty auto-detects.
	BookType extract.BookType

	// Config supplies explicit engine thresholds, skipping book-type
	// auto-detection. Nil auto-detects. Threshold values take precedence
	// over BookType's tuned ones.
	Config *extract.ExtractionConfig

	Logger *slog.Logger // optional logger for progress updates
}

// OutputFiles records where the sidecar outputs were written.
type OutputFiles struct {
	JSON      string `json:"json"`
	FullText  string `json:"full_text"`
	Index     string `json:"index,omitempty"`
	TablesDir string `json:"tables_directory,omitempty"`
}

// Result is the outcome of one extraction run.
type Result struct {
	JobID               string          `json:"job_id"`
	PDFPath             string          `json:"pdf_path"`
	PDFFilename         string          `json:"pdf_filename"`
	ExtractionTimestamp string          `json:"extraction_timestamp"`
	*extract.Report
	OutputFiles OutputFiles `json:"output_files"`
}

// Service runs extractions and manages their output directories.
type Service struct {
	home *home.Dir
	log  *slog.Logger
}

// New creates an extraction service rooted at the given home directory.
func New(homeDir *home.Dir, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{home: homeDir, log: log}
}

// Extract runs a full extraction for one PDF. A missing source document is
// the only fatal condition; every heuristic failure inside the run narrows
// the output instead of aborting it.
func (s *Service) Extract(ctx context.Context, req Request) (*Result, error) {
	log := req.Logger
	if log == nil {
		log = s.log
	}

	if req.PDFPath == "" {
		return nil, fmt.Errorf("no PDF path provided")
	}

	jobID := req.JobID
	if jobID == "" {
		jobID = uuid.New().String()
	}

	log.Info("starting extraction", "pdf", filepath.Base(req.PDFPath), "job_id", jobID)

	// The source may still be syncing when the job fires; retry transient
	// open failures. A missing file fails immediately.
	var doc *pdfdoc.Doc
	err := retry.Do(
		func() error {
			var openErr error
			doc, openErr = pdfdoc.Open(req.PDFPath)
			return openErr
		},
		retry.Context(ctx),
		retry.Attempts(openAttempts),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, pdfdoc.ErrNoSource)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", req.PDFPath, err)
	}
	defer doc.Close()

	opts := []extract.ProcessorOption{extract.WithLogger(log)}
	if req.BookType != "" && req.BookType != extract.BookTypeUnknown {
		opts = append(opts, extract.WithBookType(req.BookType))
	}
	if req.Config != nil {
		opts = append(opts, extract.WithConfig(*req.Config))
	}
	processor := extract.NewProcessor(doc, opts...)

	text := processor.ExtractAllText()

	var firstPage *int
	if !req.SkipFirstPage {
		fp := processor.FirstContentPage()
		firstPage = &fp
	}

	var index *extract.IndexResult
	if !req.SkipIndex {
		index = processor.ExtractIndex()
	}

	var tables []extract.StructuredTable
	if !req.SkipTables {
		tables = processor.ExtractTables(1, processor.TotalPages())
	}

	report := processor.BuildReport(text, firstPage, index, tables)

	result := &Result{
		JobID:               jobID,
		PDFPath:             req.PDFPath,
		PDFFilename:         filepath.Base(req.PDFPath),
		ExtractionTimestamp: time.Now().UTC().Format(time.RFC3339),
		Report:              report,
	}

	if err := s.writeOutputs(jobID, result); err != nil {
		return nil, fmt.Errorf("failed to write outputs: %w", err)
	}

	log.Info("extraction complete",
		"job_id", jobID,
		"book_type", report.BookType,
		"index_entries", report.Summary.IndexEntriesCount,
		"tables", report.Summary.TablesCount)

	return result, nil
}

// writeOutputs writes the JSON report and the sidecar files for a run, and
// records their paths on the result.
func (s *Service) writeOutputs(jobID string, result *Result) error {
	if err := s.home.EnsureJobDir(jobID); err != nil {
		return fmt.Errorf("failed to create job directory: %w", err)
	}

	textPath := s.home.FullTextPath(jobID)
	if err := os.WriteFile(textPath, []byte(result.Report.TextExtraction.FullText), 0o644); err != nil {
		return fmt.Errorf("failed to write full text: %w", err)
	}
	result.OutputFiles.FullText = textPath

	if result.Report.Index != nil {
		indexPath := s.home.IndexPath(jobID)
		if err := writeIndexFile(indexPath, result.Report.Index); err != nil {
			return fmt.Errorf("failed to write index: %w", err)
		}
		result.OutputFiles.Index = indexPath
	}

	if len(result.Report.Tables) > 0 {
		if err := s.home.EnsureTablesDir(jobID); err != nil {
			return fmt.Errorf("failed to create tables directory: %w", err)
		}
		for _, table := range result.Report.Tables {
			path := s.home.TablePath(jobID, table.PageNumber, table.TableIndex)
			if err := writeTableCSV(path, table); err != nil {
				return fmt.Errorf("failed to write table csv: %w", err)
			}
		}
		result.OutputFiles.TablesDir = s.home.TablesDir(jobID)
	}

	// The JSON report goes last so it can include every output path.
	jsonPath := s.home.ReportPath(jobID)
	result.OutputFiles.JSON = jsonPath
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// writeIndexFile renders the index as plain text, one entry per line.
func writeIndexFile(path string, index *extract.IndexResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "Index (Page %d):\n\n", index.PageNumber); err != nil {
		return err
	}
	for _, entry := range index.Entries {
		pageRef := ""
		if entry.PageReference != nil {
			pageRef = fmt.Sprintf("%d", *entry.PageReference)
		}
		if _, err := fmt.Fprintf(f, "%s %s ... %s\n", entry.EntryNumber, entry.Title, pageRef); err != nil {
			return err
		}
	}
	return nil
}

// writeTableCSV writes one structured table as a CSV file, header first.
func writeTableCSV(path string, table extract.StructuredTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Header); err != nil {
		return err
	}
	for _, row := range table.Data {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
