package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/sketchviz/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.InputCollection != "graphs" || cfg.Roughness != 1.5 || cfg.Bowing != 1.0 {
		t.Errorf("Default() = %+v", cfg)
	}
	if !cfg.Output.Inline.Styled || cfg.Output.Filesystem.Styled {
		t.Error("inline output should be styled, filesystem output plain")
	}
	classes := cfg.Output.Inline.CSSClasses
	if classes != (CSSClasses{"sketchviz", "sketchviz-bg", "sketchviz-node", "sketchviz-edge"}) {
		t.Errorf("CSSClasses = %+v", classes)
	}
	if cfg.Executable.Dot != "dot" || cfg.Executable.Engine != EngineExec {
		t.Errorf("Executable = %+v", cfg.Executable)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), DefaultFile, `
roughness = 2.5

[output.inline.css_classes]
svg = "diagram"

[executable]
dot = "neato"
timeout = "5s"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Roughness != 2.5 || cfg.Bowing != 1.0 {
		t.Errorf("roughness/bowing = %v/%v", cfg.Roughness, cfg.Bowing)
	}
	if cfg.Output.Inline.CSSClasses.SVG != "diagram" || cfg.Output.Inline.CSSClasses.Edge != "sketchviz-edge" {
		t.Errorf("css classes not merged: %+v", cfg.Output.Inline.CSSClasses)
	}
	if cfg.Executable.Dot != "neato" || cfg.Executable.Timeout != 5*time.Second {
		t.Errorf("Executable = %+v", cfg.Executable)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"unknown key", "roughnes = 2", errors.ErrCodeInvalidConfig},
		{"syntax", "roughness = ", errors.ErrCodeInvalidConfig},
		{"empty executable", "[executable]\ndot = \"\"", errors.ErrCodeInvalidConfig},
		{"bad engine", "[executable]\nengine = \"cloud\"", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".toml", tt.content)
			if _, err := Load(path); !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
	cfg, err := LoadOptional(filepath.Join(dir, "missing.toml"))
	if err != nil || cfg != Default() {
		t.Errorf("LoadOptional() = %+v, %v", cfg, err)
	}
}

func TestValidateClamps(t *testing.T) {
	cfg := Default()
	cfg.Roughness, cfg.Bowing = -3, -0.5
	cfg.Executable.Timeout = 0
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Roughness != 0 || cfg.Bowing != 0 {
		t.Errorf("not clamped: %v/%v", cfg.Roughness, cfg.Bowing)
	}
	if cfg.Executable.Timeout != Default().Executable.Timeout {
		t.Errorf("Timeout = %v", cfg.Executable.Timeout)
	}

	cfg.Executable = Executable{Engine: EngineEmbedded}
	if err := cfg.Validate(); err != nil {
		t.Errorf("embedded engine needs no executable: %v", err)
	}
}

func TestCollectionDir(t *testing.T) {
	got := Default().CollectionDir("site")
	if want := filepath.Join("site", "_graphs"); got != want {
		t.Errorf("CollectionDir() = %q, want %q", got, want)
	}
}
