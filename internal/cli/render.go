package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchviz/pkg/pipeline"
)

// stdoutPath selects standard output instead of a file.
const stdoutPath = "-"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file path, base path for multiple formats, or "-"
	formats []string // output formats: "svg", "pdf", "png"
	inline  bool     // wrap the SVG in an HTML div
	class   string   // CSS class of the inline wrapper
}

// renderCommand creates the render command for sketching a single diagram.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		style      styleFlags
		scale      float64
	)
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [file.dot]",
		Short: "Render a DOT diagram to hand-drawn SVG, PNG or PDF",
		Long: `Render a DOT diagram to hand-drawn SVG, PNG or PDF.

The diagram is compiled with Graphviz, validated, and every shape is redrawn
with rough strokes. Front matter at the top of the file may override
roughness, bowing and seed:

  +++
  roughness = 2.5
  +++
  digraph { a -> b }

Without --output the result is written next to the input (flow.dot → flow.svg).
Use --output - to write to standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			popts := pipeline.FromConfig(cfg, opts.inline)
			style.apply(cmd, &popts)
			popts.Formats = parseFormats(formatsStr)
			popts.Scale = scale
			popts.Logger = c.Logger
			if err := pipeline.ValidateFormats(popts.Formats); err != nil {
				return err
			}
			if opts.inline && (len(popts.Formats) != 1 || popts.Formats[0] != pipeline.FormatSVG) {
				return fmt.Errorf("--inline only supports svg output")
			}
			opts.formats = popts.Formats
			opts.class = cfg.Output.Inline.CSSClasses.SVG
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), c.newRunner(cfg), args[0], popts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.inline, "inline", false, "wrap the SVG in an HTML div for embedding")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	style.register(cmd)

	return cmd
}

// runRender loads input, runs the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, stdout io.Writer, runner *pipeline.Runner, input string, popts pipeline.Options, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	toStdout := opts.output == stdoutPath
	if toStdout && len(opts.formats) > 1 {
		return fmt.Errorf("cannot write %d formats to stdout", len(opts.formats))
	}

	src, err := pipeline.LoadSource(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded diagram", "diagram", input, "front_matter", src.FrontMatter != "", "options", popts.String())

	sp := newSpinnerWithContext(ctx, fmt.Sprintf("Sketching %s...", filepath.Base(input)))
	sp.Start()
	p := newProgress(logger)

	res, err := runner.Execute(ctx, src, popts)
	sp.Stop()
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Sketched %s", input))

	if opts.inline {
		html := pipeline.Inline(res.Document, opts.class) + "\n"
		if toStdout || opts.output == "" {
			_, err := io.WriteString(stdout, html)
			return err
		}
		if err := writeOutput(opts.output, []byte(html)); err != nil {
			return err
		}
		printFile(opts.output)
		return nil
	}

	if !toStdout {
		printStats(res.Stats.Primitives, res.Stats.Replaced, res.Stats.Skipped, popts.Plain)
	}

	for _, format := range opts.formats {
		data := res.Artifacts[format]
		if toStdout {
			if _, err := stdout.Write(data); err != nil {
				return err
			}
			continue
		}
		path := outputPath(opts.output, input, format, len(opts.formats) > 1)
		if err := writeOutput(path, data); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// outputPath derives the output file for format. A single format uses
// output verbatim when given; otherwise the extension is replaced.
func outputPath(output, input, format string, multiple bool) string {
	if output != "" && !multiple {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
