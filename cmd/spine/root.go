package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/spine/internal/api"
	"github.com/jackzampolin/spine/internal/config"
	"github.com/jackzampolin/spine/internal/home"
	"github.com/jackzampolin/spine/version"
)

var (
	cfgFile      string
	homePath     string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "spine",
	Short: "Book structure extraction for the narration pipeline",
	Long: `Spine converts PDF books into structured data as the first stage of a
video-narration pipeline. It infers a book's type from sparse text samples
and uses that inference to tune heuristic extraction of:

  - Full page-by-page text
  - Table of contents / index entries
  - Tables embedded in free-flowing page text
  - The first content page after cover and front matter

Extraction is best-effort: heuristic misses narrow the output, they never
fail the run.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.spine/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homePath, "home", "", "spine home directory (default: ~/.spine)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// setupHome resolves the home directory and makes sure it exists.
func setupHome() (*home.Dir, error) {
	dir, err := home.New(homePath)
	if err != nil {
		return nil, err
	}
	if err := dir.EnsureExists(); err != nil {
		return nil, fmt.Errorf("failed to create home directory: %w", err)
	}
	return dir, nil
}

// loadConfig loads configuration, preferring --config, then the home
// directory's config file, then defaults. The config file is watched;
// edits are logged and visible to later Get calls.
func loadConfig(dir *home.Dir) (*config.Manager, error) {
	path := cfgFile
	if path == "" && dir.ConfigExists() {
		path = dir.ConfigPath()
	}
	cm, err := config.NewManager(path)
	if err != nil {
		return nil, err
	}
	cm.OnChange(func(cfg *config.Config) {
		slog.Info("config reloaded", "max_workers", cfg.Batch.MaxWorkers)
	})
	cm.WatchConfig()
	return cm, nil
}
