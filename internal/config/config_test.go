package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FeedTimeout != 10*time.Second {
		t.Fatalf("unexpected feed timeout: %v", cfg.FeedTimeout)
	}
	if cfg.MarkupTimeout != 15*time.Second {
		t.Fatalf("unexpected markup timeout: %v", cfg.MarkupTimeout)
	}
	if cfg.HTTPAddr != ":8000" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTPAddr)
	}
	if !cfg.MarkupInsecureTLS {
		t.Fatalf("expected markup TLS verification to be skipped by default")
	}
	if cfg.MarkupUserAgent != DefaultMarkupUserAgent {
		t.Fatalf("unexpected user agent: %s", cfg.MarkupUserAgent)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FEED_TIMEOUT_SECONDS", "3")
	t.Setenv("HTTP_ADDR", "127.0.0.1:9090")
	t.Setenv("SOURCES_FILE", " ./configs/sources.yaml ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FeedTimeout != 3*time.Second {
		t.Fatalf("expected 3s feed timeout, got %v", cfg.FeedTimeout)
	}
	if cfg.HTTPAddr != "127.0.0.1:9090" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTPAddr)
	}
	if cfg.SourcesFile != "./configs/sources.yaml" {
		t.Fatalf("expected trimmed sources file, got %q", cfg.SourcesFile)
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("MARKUP_TIMEOUT_SECONDS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero markup timeout")
	}
}

func TestLoadRejectsUnknownLogOutput(t *testing.T) {
	t.Setenv("LOG_OUTPUT", "syslog")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown log output")
	}
}
