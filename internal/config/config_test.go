package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadMissingPathErrors(t *testing.T) {
	if _, _, _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for explicitly named missing config")
	}
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
output_dir = "/tmp/out"
log_level = "DEBUG"

[export]
tokenization = "word_punct"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Fatalf("output_dir = %q", cfg.OutputDir)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log_level = %q, want normalized lowercase", cfg.LogLevel)
	}
	if cfg.Export.Tokenization != "word_punct" {
		t.Fatalf("tokenization = %q", cfg.Export.Tokenization)
	}
	// Untouched keys keep their defaults.
	if cfg.Export.TagScheme != "bio" {
		t.Fatalf("tag_scheme = %q, want default bio", cfg.Export.TagScheme)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`log_format = "xml"`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "log_format") {
		t.Fatalf("err = %v, want log_format validation error", err)
	}
}

func TestSampleConfigParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(SampleConfig()), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("sample config must load cleanly: %v", err)
	}
	if *cfg != Default() {
		t.Fatalf("sample config = %+v, want the defaults", cfg)
	}
}
