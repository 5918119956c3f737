// Package pipeline provides the DOT to sketch pipeline for sketchviz.
//
// This package implements the complete compile → validate → render →
// serialize pipeline used by the CLI and the HTTP server. By centralizing
// this logic, every entry point produces byte-identical output for the same
// source, style and seed.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Compile: Run a [dot.Compiler] over the DOT source
//  2. Validate: Parse the compiler output and require an <svg> root
//  3. Render: Redraw every primitive with hand-drawn strokes (skipped when
//     Options.Plain is set)
//  4. Serialize: Write the document and export the requested formats
//
// A failure at any stage ends the run; nothing is written by the pipeline
// itself. Callers decide whether to write files or embed the output inline.
//
// # Usage
//
//	runner := pipeline.NewRunner(dot.NewExecCompiler("dot"), logger)
//	src, err := dot.ParseSource("flow.dot", data)
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, src, pipeline.Options{Seed: 7})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("flow.svg", result.Artifacts[pipeline.FormatSVG], 0o644)
//
// Already-compiled SVG can skip the compile stage with [Runner.Roughify].
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sketchviz/pkg/config"
	"github.com/matzehuels/sketchviz/pkg/dot"
	"github.com/matzehuels/sketchviz/pkg/errors"
	"github.com/matzehuels/sketchviz/pkg/sketch"
	"github.com/matzehuels/sketchviz/pkg/svg"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Style sketch.Style `json:"style"`
	Seed  uint64       `json:"seed,omitempty"`

	// Plain skips the sketch stage and emits the compiler's SVG unchanged
	// apart from serialization.
	Plain bool `json:"plain,omitempty"`

	// Classes, when non-nil, are added to the Graphviz groups for styling.
	Classes *config.CSSClasses `json:"classes,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// FromConfig derives options from a validated configuration. CSS classes
// are attached when the configuration styles the chosen output kind.
func FromConfig(c config.Config, inline bool) Options {
	style := sketch.DefaultStyle()
	style.Roughness = c.Roughness
	style.Bowing = c.Bowing
	opts := Options{Style: style, Seed: c.Seed}

	styled := c.Output.Filesystem.Styled
	if inline {
		styled = c.Output.Inline.Styled
	}
	if styled {
		classes := c.Output.Inline.CSSClasses
		opts.Classes = &classes
	}
	return opts
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Name is the source name.
	Name string

	// Document is the final SVG tree.
	Document *svg.Element

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Report lists the primitives that were redrawn or left as-is.
	Report sketch.Report

	// Stats contains timing and size information.
	Stats Stats
}

// SVG returns the serialized SVG artifact.
func (r *Result) SVG() []byte { return r.Artifacts[FormatSVG] }

// Stats contains pipeline execution statistics.
type Stats struct {
	Primitives  int
	Replaced    int
	Skipped     int
	CompileTime time.Duration
	RenderTime  time.Duration
	ExportTime  time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields. A zero style means the default style.
func (o *Options) SetDefaults() {
	if o.Style == (sketch.Style{}) {
		o.Style = sketch.DefaultStyle()
	}
	if o.Style.FillStyle == "" {
		o.Style.FillStyle = sketch.DefaultStyle().FillStyle
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate sets defaults and checks the options.
func (o *Options) Validate() error {
	o.SetDefaults()
	if o.Style.Roughness < 0 || o.Style.Bowing < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "roughness and bowing must not be negative")
	}
	return ValidateFormats(o.Formats)
}

// WithOverrides applies per-diagram front matter settings.
func (o Options) WithOverrides(ov dot.Overrides) Options {
	if ov.Roughness != nil {
		o.Style.Roughness = max(*ov.Roughness, 0)
	}
	if ov.Bowing != nil {
		o.Style.Bowing = max(*ov.Bowing, 0)
	}
	if ov.Seed != nil {
		o.Seed = *ov.Seed
	}
	return o
}

func (o Options) String() string {
	return fmt.Sprintf("roughness=%g bowing=%g seed=%d plain=%t formats=%v",
		o.Style.Roughness, o.Style.Bowing, o.Seed, o.Plain, o.Formats)
}
