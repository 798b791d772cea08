package config

import "github.com/jackzampolin/spine/internal/extract"

// Config holds spine configuration.
// Stored at: {home}/config.yaml
type Config struct {
	OutputDir  string                   `mapstructure:"output_dir" yaml:"output_dir"`   // extraction output root ("" = {home}/output)
	Extraction ExtractionCfg            `mapstructure:"extraction" yaml:"extraction"`   // baseline threshold overrides
	BookTypes  map[string]ExtractionCfg `mapstructure:"book_types" yaml:"book_types"`   // per-book-type threshold overrides
	Batch      BatchCfg                 `mapstructure:"batch" yaml:"batch"`
}

// ExtractionCfg overrides engine thresholds. Zero-value fields keep the
// engine defaults (or the detected book type's tuned values).
type ExtractionCfg struct {
	MaxIndexPages    int     `mapstructure:"max_index_pages" yaml:"max_index_pages"`
	MinIndexEntries  int     `mapstructure:"min_index_entries" yaml:"min_index_entries"`
	MinContentLength int     `mapstructure:"min_content_length" yaml:"min_content_length"`
	SkipInitialPages int     `mapstructure:"skip_initial_pages" yaml:"skip_initial_pages"`
	MinTableRows     int     `mapstructure:"min_table_rows" yaml:"min_table_rows"`
	MinTableCols     int     `mapstructure:"min_table_cols" yaml:"min_table_cols"`
	MinTableCellFill float64 `mapstructure:"min_table_cell_fill" yaml:"min_table_cell_fill"`
	MaxCellLength    int     `mapstructure:"max_cell_length" yaml:"max_cell_length"`
}

// BatchCfg configures multi-document processing.
type BatchCfg struct {
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers"` // concurrent documents (0 = NumCPU)
}

// DefaultConfig returns configuration with sensible defaults. Extraction
// thresholds default to zero so the engine's own defaults and book-type
// tuning apply unless explicitly overridden.
func DefaultConfig() *Config {
	return &Config{
		BookTypes: map[string]ExtractionCfg{},
		Batch: BatchCfg{
			MaxWorkers: 4,
		},
	}
}

// ToEngineConfig applies the overrides onto an engine configuration.
func (e ExtractionCfg) ToEngineConfig(base extract.ExtractionConfig) extract.ExtractionConfig {
	if e.MaxIndexPages > 0 {
		base.MaxIndexPages = e.MaxIndexPages
	}
	if e.MinIndexEntries > 0 {
		base.MinIndexEntries = e.MinIndexEntries
	}
	if e.MinContentLength > 0 {
		base.MinContentLength = e.MinContentLength
	}
	if e.SkipInitialPages > 0 {
		base.SkipInitialPages = e.SkipInitialPages
	}
	if e.MinTableRows > 0 {
		base.MinTableRows = e.MinTableRows
	}
	if e.MinTableCols > 0 {
		base.MinTableCols = e.MinTableCols
	}
	if e.MinTableCellFill > 0 {
		base.MinTableCellFill = e.MinTableCellFill
	}
	if e.MaxCellLength > 0 {
		base.MaxCellLength = e.MaxCellLength
	}
	return base
}

// IsZero reports whether no override is set.
func (e ExtractionCfg) IsZero() bool {
	return e == ExtractionCfg{}
}

// ForBookType returns the engine configuration for a detected book type
// with the file-level overrides applied: baseline overrides first, then the
// per-type block when present.
func (c *Config) ForBookType(bt extract.BookType) extract.ExtractionConfig {
	cfg := c.Extraction.ToEngineConfig(extract.ConfigForType(bt))
	if override, ok := c.BookTypes[string(bt)]; ok {
		cfg = override.ToEngineConfig(cfg)
	}
	return cfg
}
