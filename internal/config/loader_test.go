package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromPathMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Tags) != len(Default().Tags) {
		t.Fatalf("expected defaults for missing file, got %v", cfg.Tags)
	}
}

func TestLoadFromPathReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "tags: [\"one\", \"two\"]\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Tags) != 2 || cfg.Tags[1] != "two" {
		t.Fatalf("expected tags from file, got %v", cfg.Tags)
	}
}

func TestLoadFromPathRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tags: []\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected validation error for empty tags")
	}
}
