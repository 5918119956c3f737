// Package config holds sketchviz settings.
//
// A [Config] starts from [Default], is overlaid by a TOML file with [Load],
// then by command line flags, and finally by inline tag parameters (see
// [ParseTag] and [Config.Apply]). [Config.Validate] runs once after loading
// and normalizes what it can: negative roughness and bowing are clamped to 0.
//
// An example sketchviz.toml:
//
//	input_collection = "graphs"
//	roughness = 2.0
//
//	[output.inline]
//	styled = true
//
//	[output.inline.css_classes]
//	svg = "diagram"
//
//	[executable]
//	dot = "/usr/local/bin/dot"
//	timeout = "10s"
package config

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sketchviz/pkg/errors"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "sketchviz.toml"

// Compiler engines.
const (
	EngineExec     = "exec"
	EngineEmbedded = "embedded"
)

// Config is the full sketchviz configuration.
type Config struct {
	// InputCollection names the directory holding .dot files, without the
	// leading underscore.
	InputCollection string     `toml:"input_collection" json:"input_collection"`
	Output          Output     `toml:"output" json:"output"`
	Roughness       float64    `toml:"roughness" json:"roughness"`
	Bowing          float64    `toml:"bowing" json:"bowing"`
	Seed            uint64     `toml:"seed" json:"seed"`
	Executable      Executable `toml:"executable" json:"executable"`
}

// Output configures how rendered diagrams are emitted.
type Output struct {
	Inline     Inline     `toml:"inline" json:"inline"`
	Filesystem Filesystem `toml:"filesystem" json:"filesystem"`
}

// Inline configures diagrams embedded into HTML.
type Inline struct {
	Styled     bool       `toml:"styled" json:"styled"`
	CSSClasses CSSClasses `toml:"css_classes" json:"css_classes"`
}

// CSSClasses are the class names applied to inline diagrams.
type CSSClasses struct {
	SVG        string `toml:"svg" json:"svg"`
	Background string `toml:"background" json:"background"`
	Node       string `toml:"node" json:"node"`
	Edge       string `toml:"edge" json:"edge"`
}

// Filesystem configures diagrams written as files.
type Filesystem struct {
	Styled bool   `toml:"styled" json:"styled"`
	Path   string `toml:"path" json:"path"`
}

// Executable configures the Graphviz compiler.
type Executable struct {
	Dot     string        `toml:"dot" json:"dot"`
	Engine  string        `toml:"engine" json:"engine"`
	Layout  string        `toml:"layout" json:"layout"`
	Timeout time.Duration `toml:"timeout" json:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		InputCollection: "graphs",
		Output: Output{
			Inline: Inline{
				Styled: true,
				CSSClasses: CSSClasses{
					SVG:        "sketchviz",
					Background: "sketchviz-bg",
					Node:       "sketchviz-node",
					Edge:       "sketchviz-edge",
				},
			},
			Filesystem: Filesystem{Styled: false, Path: "graphs"},
		},
		Roughness: 1.5,
		Bowing:    1.0,
		Executable: Executable{
			Dot:     "dot",
			Engine:  EngineExec,
			Layout:  "dot",
			Timeout: 30 * time.Second,
		},
	}
}

// Load decodes the TOML file at path over [Default] and validates the
// result. Unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOptional loads path if it exists and returns [Default] otherwise.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Validate normalizes c in place and reports settings that cannot work.
func (c *Config) Validate() error {
	c.Roughness = max(c.Roughness, 0)
	c.Bowing = max(c.Bowing, 0)

	def := Default()
	if c.Output.Inline.CSSClasses.SVG == "" {
		c.Output.Inline.CSSClasses.SVG = def.Output.Inline.CSSClasses.SVG
	}
	if c.Executable.Timeout <= 0 {
		c.Executable.Timeout = def.Executable.Timeout
	}
	if c.Executable.Engine == "" {
		c.Executable.Engine = EngineExec
	}

	switch {
	case strings.TrimSpace(c.InputCollection) == "":
		return errors.New(errors.ErrCodeInvalidConfig, "input_collection cannot be empty")
	case c.Executable.Engine != EngineExec && c.Executable.Engine != EngineEmbedded:
		return errors.New(errors.ErrCodeInvalidConfig, "executable.engine must be %q or %q, got %q", EngineExec, EngineEmbedded, c.Executable.Engine)
	case c.Executable.Engine == EngineExec && strings.TrimSpace(c.Executable.Dot) == "":
		return errors.New(errors.ErrCodeInvalidConfig, "executable.dot cannot be empty")
	}
	return nil
}

// CollectionDir returns the directory holding diagrams below site root.
// Collections are stored in an underscore-prefixed directory.
func (c Config) CollectionDir(root string) string {
	return filepath.Join(root, "_"+c.InputCollection)
}
