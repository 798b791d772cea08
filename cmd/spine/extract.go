package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/spine/internal/api"
	"github.com/jackzampolin/spine/internal/extract"
	"github.com/jackzampolin/spine/internal/service"
)

var (
	extractJobID     string
	extractBookType  string
	extractSkipTabs  bool
	extractSkipIndex bool
	extractSkipFirst bool
	extractWorkers   int
)

var extractCmd = &cobra.Command{
	Use:   "extract <book.pdf> [more.pdf...]",
	Short: "Extract structured content from PDF books",
	Long: `Extract runs the full pipeline on each PDF: book-type classification,
page-by-page text extraction, table of contents parsing, table extraction,
and first-content-page detection. Each document gets a job directory under
the home output dir with the JSON report, full text, rendered index, and
one CSV per accepted table.

Multiple PDFs are processed concurrently; documents are independent of each
other.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := setupHome()
		if err != nil {
			return err
		}
		cm, err := loadConfig(dir)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		svc := service.New(dir, slog.Default())

		base := service.Request{
			SkipTables:    extractSkipTabs,
			SkipIndex:     extractSkipIndex,
			SkipFirstPage: extractSkipFirst,
		}
		if extractBookType != "" {
			bt := extract.ParseBookType(extractBookType)
			if bt == extract.BookTypeUnknown {
				return fmt.Errorf("unknown book type: %s", extractBookType)
			}
			engineCfg := cfg.ForBookType(bt)
			base.BookType = bt
			base.Config = &engineCfg
		} else if !cfg.Extraction.IsZero() {
			engineCfg := cfg.Extraction.ToEngineConfig(extract.DefaultExtractionConfig())
			base.Config = &engineCfg
		}

		if len(args) == 1 {
			req := base
			req.PDFPath = args[0]
			req.JobID = extractJobID
			result, err := svc.Extract(cmd.Context(), req)
			if err != nil {
				return err
			}
			return api.Output(extractSummary(result))
		}

		workers := extractWorkers
		if workers == 0 {
			workers = cfg.Batch.MaxWorkers
		}
		items := svc.ExtractBatch(cmd.Context(), args, workers, base)

		summaries := make([]any, 0, len(items))
		for _, item := range items {
			if item.Err != nil {
				summaries = append(summaries, map[string]any{
					"pdf": item.PDFPath, "error": item.Error,
				})
				continue
			}
			summaries = append(summaries, extractSummary(item.Result))
		}
		if err := api.Output(summaries); err != nil {
			return err
		}

		succeeded, failed := service.BatchSummary(items)
		if failed > 0 {
			return fmt.Errorf("%d of %d documents failed: %w",
				failed, succeeded+failed, service.FirstBatchError(items))
		}
		return nil
	},
}

// extractSummary trims a result down to what's useful on a terminal; the
// full report lives in the job's JSON file.
func extractSummary(r *service.Result) map[string]any {
	return map[string]any{
		"job_id":             r.JobID,
		"pdf":                r.PDFFilename,
		"total_pages":        r.Report.TotalPages,
		"book_type":          r.Report.BookType,
		"first_content_page": r.Report.FirstContentPage,
		"index_found":        r.Report.Summary.IndexFound,
		"index_entries":      r.Report.Summary.IndexEntriesCount,
		"tables":             r.Report.Summary.TablesCount,
		"total_characters":   r.Report.Summary.TotalCharacters,
		"output_files":       r.OutputFiles,
	}
}

func init() {
	extractCmd.Flags().StringVar(&extractJobID, "job-id", "", "job ID for the output directory (single PDF only)")
	extractCmd.Flags().StringVar(&extractBookType, "book-type", "", "force a book type: academic, novel, textbook, manual")
	extractCmd.Flags().BoolVar(&extractSkipTabs, "skip-tables", false, "skip table extraction")
	extractCmd.Flags().BoolVar(&extractSkipIndex, "skip-index", false, "skip index extraction")
	extractCmd.Flags().BoolVar(&extractSkipFirst, "skip-first-page", false, "skip first-content-page detection")
	extractCmd.Flags().IntVar(&extractWorkers, "workers", 0, "max concurrent documents (default from config)")

	rootCmd.AddCommand(extractCmd)
}
