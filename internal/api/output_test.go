package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestOutputTo(t *testing.T) {
	data := map[string]any{"book_type": "novel", "tables": 2}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatJSON, data); err != nil {
			t.Fatalf("OutputTo failed: %v", err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded["book_type"] != "novel" {
			t.Errorf("unexpected output: %v", decoded)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatYAML, data); err != nil {
			t.Fatalf("OutputTo failed: %v", err)
		}
		if !strings.Contains(buf.String(), "book_type: novel") {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormat("toml"), data); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestSetOutputFormat(t *testing.T) {
	t.Cleanup(func() { SetOutputFormat("yaml") })

	SetOutputFormat("json")
	if globalOutputFormat != OutputFormatJSON {
		t.Errorf("expected json, got %s", globalOutputFormat)
	}
	SetOutputFormat("yaml")
	if globalOutputFormat != OutputFormatYAML {
		t.Errorf("expected yaml, got %s", globalOutputFormat)
	}
	// Unrecognized values fall back to the default.
	SetOutputFormat("toml")
	if globalOutputFormat != DefaultOutput {
		t.Errorf("expected the default, got %s", globalOutputFormat)
	}
}
