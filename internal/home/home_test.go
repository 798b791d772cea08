package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		d, err := New("/tmp/spine-test")
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if d.Path() != "/tmp/spine-test" {
			t.Errorf("expected /tmp/spine-test, got %s", d.Path())
		}
	})

	t.Run("default path under user home", func(t *testing.T) {
		d, err := New("")
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if filepath.Base(d.Path()) != DefaultDirName {
			t.Errorf("expected a %s directory, got %s", DefaultDirName, d.Path())
		}
	})
}

func TestDirLayout(t *testing.T) {
	root := t.TempDir()
	d, err := New(root)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"output", d.OutputPath(), filepath.Join(root, "output")},
		{"config", d.ConfigPath(), filepath.Join(root, "config.yaml")},
		{"job dir", d.JobDir("j1"), filepath.Join(root, "output", "j1")},
		{"report", d.ReportPath("j1"), filepath.Join(root, "output", "j1", "j1_extraction.json")},
		{"full text", d.FullTextPath("j1"), filepath.Join(root, "output", "j1", "j1_full_text.txt")},
		{"index", d.IndexPath("j1"), filepath.Join(root, "output", "j1", "j1_index.txt")},
		{"tables dir", d.TablesDir("j1"), filepath.Join(root, "output", "j1", "tables")},
		{"table csv", d.TablePath("j1", 5, 2), filepath.Join(root, "output", "j1", "tables", "page_5_table_2.csv")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, tt.got)
			}
		})
	}
}

func TestEnsureExists(t *testing.T) {
	root := filepath.Join(t.TempDir(), "fresh")
	d, err := New(root)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if d.Exists() {
		t.Error("directory should not exist yet")
	}
	if err := d.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}
	if !d.Exists() {
		t.Error("directory should exist")
	}
	if info, err := os.Stat(d.OutputPath()); err != nil || !info.IsDir() {
		t.Errorf("output directory missing: %v", err)
	}
}

func TestEnsureJobDirs(t *testing.T) {
	d, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := d.EnsureJobDir("j1"); err != nil {
		t.Fatalf("EnsureJobDir failed: %v", err)
	}
	if err := d.EnsureTablesDir("j1"); err != nil {
		t.Fatalf("EnsureTablesDir failed: %v", err)
	}
	if info, err := os.Stat(d.TablesDir("j1")); err != nil || !info.IsDir() {
		t.Errorf("tables directory missing: %v", err)
	}
}
