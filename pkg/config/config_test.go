package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Backend != "auto" {
		t.Errorf("expected backend auto, got %q", cfg.Backend)
	}
	if cfg.Stream.Port != 9000 {
		t.Errorf("expected stream port 9000, got %d", cfg.Stream.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %q", cfg.LogLevel)
	}
	if !cfg.Annotate {
		t.Error("expected annotation enabled by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nalshow.yaml")

	content := `
input: clip.h264
backend: ffmpeg
out_dir: /tmp/pics
stream:
  port: 9100
discovery:
  instance: bench-1
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.InputPath != "clip.h264" {
		t.Errorf("expected input clip.h264, got %q", cfg.InputPath)
	}
	if cfg.Backend != "ffmpeg" {
		t.Errorf("expected backend ffmpeg, got %q", cfg.Backend)
	}
	if cfg.Stream.Port != 9100 {
		t.Errorf("expected stream port 9100, got %d", cfg.Stream.Port)
	}
	// Unset fields keep their defaults.
	if cfg.Stream.IntervalMs != 33 {
		t.Errorf("expected default interval, got %d", cfg.Stream.IntervalMs)
	}
	if cfg.Discovery.Instance != "bench-1" {
		t.Errorf("expected instance bench-1, got %q", cfg.Discovery.Instance)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.LogLevel)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/nalshow.yaml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestToOrchestratorConfig(t *testing.T) {
	cfg := Defaults()
	cfg.InputPath = "clip.h264"
	cfg.ReportPath = "report.md"
	cfg.Backend = "openh264"

	t.Run("configured paths", func(t *testing.T) {
		oc := cfg.ToOrchestratorConfig("", "")
		if oc.InputPath != "clip.h264" || oc.ReportPath != "report.md" || oc.Backend != "openh264" {
			t.Errorf("unexpected orchestrator config: %+v", oc)
		}
	})

	t.Run("arguments take precedence", func(t *testing.T) {
		oc := cfg.ToOrchestratorConfig("other.h264", "other.md")
		if oc.InputPath != "other.h264" || oc.ReportPath != "other.md" {
			t.Errorf("unexpected orchestrator config: %+v", oc)
		}
	})
}
