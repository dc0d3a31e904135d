package config

import (
	"testing"
	"time"

	"github.com/okrause/elaborate/internal/service/prompt"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CAPTION_MAX_CHARS", "")
	t.Setenv("CAPTION_MAX_WORDS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}
	if cfg.Caption.Retention != 20*time.Second {
		t.Fatalf("unexpected retention: %v", cfg.Caption.Retention)
	}
	if cfg.Caption.PollInterval != 500*time.Millisecond {
		t.Fatalf("unexpected poll interval: %v", cfg.Caption.PollInterval)
	}
	if cfg.Caption.MaxChars != 500 {
		t.Fatalf("unexpected max chars: %d", cfg.Caption.MaxChars)
	}
	if cfg.Gesture.Shortcut != "ctrl+shift+space" {
		t.Fatalf("unexpected shortcut: %q", cfg.Gesture.Shortcut)
	}
	if cfg.Assistant.Timeout != 0 {
		t.Fatalf("unexpected timeout: %v", cfg.Assistant.Timeout)
	}
	if cfg.Prompts.Initial != prompt.DefaultInitial {
		t.Fatalf("unexpected initial prompt")
	}
	if !cfg.Overlay.ShowBanner || cfg.Overlay.PersistSession {
		t.Fatalf("unexpected overlay config: %+v", cfg.Overlay)
	}
}

func TestLoadWordBudgetOverridesChars(t *testing.T) {
	t.Setenv("CAPTION_MAX_CHARS", "900")
	t.Setenv("CAPTION_MAX_WORDS", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Caption.MaxChars != 400 {
		t.Fatalf("expected 400 chars from word budget, got %d", cfg.Caption.MaxChars)
	}
}

func TestLoadBarePortGetsColon(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}
}

func TestLoadRejectsMalformedInt(t *testing.T) {
	t.Setenv("CAPTION_RETENTION_MS", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed CAPTION_RETENTION_MS")
	}
}
