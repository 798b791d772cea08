// Package home manages the spine home directory layout.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the spine home directory.
	DefaultDirName = ".spine"

	// OutputDirName is the subdirectory for extraction job output.
	OutputDirName = "output"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the spine home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.spine).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// OutputPath returns the path to the output directory.
func (d *Dir) OutputPath() string {
	return filepath.Join(d.path, OutputDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.OutputPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// JobDir returns the output directory for one extraction job.
func (d *Dir) JobDir(jobID string) string {
	return filepath.Join(d.OutputPath(), jobID)
}

// EnsureJobDir creates the output directory for an extraction job.
func (d *Dir) EnsureJobDir(jobID string) error {
	return os.MkdirAll(d.JobDir(jobID), 0o755)
}

// ReportPath returns the path to a job's JSON extraction report.
func (d *Dir) ReportPath(jobID string) string {
	return filepath.Join(d.JobDir(jobID), fmt.Sprintf("%s_extraction.json", jobID))
}

// FullTextPath returns the path to a job's plain-text output.
func (d *Dir) FullTextPath(jobID string) string {
	return filepath.Join(d.JobDir(jobID), fmt.Sprintf("%s_full_text.txt", jobID))
}

// IndexPath returns the path to a job's rendered index file.
func (d *Dir) IndexPath(jobID string) string {
	return filepath.Join(d.JobDir(jobID), fmt.Sprintf("%s_index.txt", jobID))
}

// TablesDir returns the directory for a job's extracted table CSVs.
func (d *Dir) TablesDir(jobID string) string {
	return filepath.Join(d.JobDir(jobID), "tables")
}

// EnsureTablesDir creates the tables directory for an extraction job.
func (d *Dir) EnsureTablesDir(jobID string) error {
	return os.MkdirAll(d.TablesDir(jobID), 0o755)
}

// TablePath returns the CSV path for one extracted table.
// Page and table numbers are 1-indexed.
func (d *Dir) TablePath(jobID string, pageNum, tableIdx int) string {
	return filepath.Join(d.TablesDir(jobID), fmt.Sprintf("page_%d_table_%d.csv", pageNum, tableIdx))
}
