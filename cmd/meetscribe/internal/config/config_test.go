package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutputDir != "output" {
		t.Fatalf("output dir = %q, want default", cfg.OutputDir)
	}
	if cfg.Align != "trim" {
		t.Fatalf("align = %q, want trim", cfg.Align)
	}
	if cfg.Transcriber.Backend != "openai" {
		t.Fatalf("backend = %q, want openai", cfg.Transcriber.Backend)
	}
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
output_dir: /tmp/meetings
align: pad
gap_tolerance: 1.5
transcriber:
  backend: faster-whisper
  model: small
  language: it
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutputDir != "/tmp/meetings" {
		t.Fatalf("output dir = %q", cfg.OutputDir)
	}
	if cfg.Align != "pad" {
		t.Fatalf("align = %q", cfg.Align)
	}
	if cfg.GapTolerance != 1.5 {
		t.Fatalf("gap tolerance = %v", cfg.GapTolerance)
	}
	if cfg.Transcriber.Backend != "faster-whisper" || cfg.Transcriber.Language != "it" {
		t.Fatalf("transcriber = %+v", cfg.Transcriber)
	}
}

func TestLoadFromBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("output_dir: [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("want parse error")
	}
}

func TestResolveAPIKey(t *testing.T) {
	tr := Transcriber{APIKey: "from-config"}
	if got := tr.ResolveAPIKey(); got != "from-config" {
		t.Fatalf("key = %q", got)
	}

	t.Setenv("OPENAI_API_KEY", "from-env")
	tr.APIKey = ""
	if got := tr.ResolveAPIKey(); got != "from-env" {
		t.Fatalf("key = %q", got)
	}
}
