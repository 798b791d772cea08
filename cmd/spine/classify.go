package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/spine/internal/api"
	"github.com/jackzampolin/spine/internal/extract"
	"github.com/jackzampolin/spine/internal/pdfdoc"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <book.pdf>",
	Short: "Classify a book's type and show the thresholds it selects",
	Long: `Classify samples a handful of pages, runs the book-type analyzer, and
prints the detected type with the extraction thresholds that type would
tune. Nothing is extracted or written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := pdfdoc.Open(args[0])
		if err != nil {
			return err
		}
		defer doc.Close()

		p := extract.NewProcessor(doc)
		cfg := p.Config()

		return api.Output(map[string]any{
			"pdf":         args[0],
			"total_pages": doc.TotalPages(),
			"book_type":   p.BookType(),
			"thresholds": map[string]any{
				"max_index_pages":     cfg.MaxIndexPages,
				"min_index_entries":   cfg.MinIndexEntries,
				"min_content_length":  cfg.MinContentLength,
				"skip_initial_pages":  cfg.SkipInitialPages,
				"min_table_rows":      cfg.MinTableRows,
				"min_table_cols":      cfg.MinTableCols,
				"min_table_cell_fill": cfg.MinTableCellFill,
				"max_cell_length":     cfg.MaxCellLength,
			},
		})
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
