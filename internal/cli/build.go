package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchviz/pkg/config"
	"github.com/matzehuels/sketchviz/pkg/errors"
	"github.com/matzehuels/sketchviz/pkg/pipeline"
)

// defaultSiteDir is the generated site root that build writes below.
const defaultSiteDir = "_site"

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output   string
	formats  []string
	failFast bool
}

// buildCommand creates the build command, which sketches every diagram of
// the input collection.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		formatsStr string
		style      styleFlags
	)
	opts := buildOpts{}

	cmd := &cobra.Command{
		Use:   "build [dir]",
		Short: "Sketch every diagram in the input collection",
		Long: `Sketch every .dot and .gv file in the input collection.

Without a directory argument the collection named by input_collection is used
(e.g. ./_graphs). Results are written below _site/<output.filesystem.path>,
mirroring the collection layout. A failing diagram is reported and skipped
unless --fail-fast is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			popts := pipeline.FromConfig(cfg, false)
			style.apply(cmd, &popts)
			popts.Formats = parseFormats(formatsStr)
			popts.Logger = c.Logger
			if err := pipeline.ValidateFormats(popts.Formats); err != nil {
				return err
			}
			opts.formats = popts.Formats

			input := cfg.CollectionDir(".")
			if len(args) == 1 {
				input = args[0]
			}
			if opts.output == "" {
				opts.output = filepath.Join(defaultSiteDir, cfg.Output.Filesystem.Path)
			}
			return c.runBuild(cmd.Context(), c.newRunner(cfg), cfg, input, popts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default _site/<output.filesystem.path>)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "stop at the first failing diagram")
	style.register(cmd)

	return cmd
}

// runBuild renders every source below input in lexical order. Failures are
// counted; the command fails if any diagram did.
func (c *CLI) runBuild(ctx context.Context, runner *pipeline.Runner, cfg config.Config, input string, popts pipeline.Options, opts buildOpts) error {
	logger := loggerFromContext(ctx)

	sources, err := pipeline.FindSources(input)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		printWarning("No diagrams found in %s", input)
		return nil
	}
	logger.Debug("building collection", "collection", cfg.InputCollection, "input", input, "output", opts.output, "diagrams", len(sources))

	p := newProgress(logger)
	sp := newSpinnerWithContext(ctx, "")
	sp.Start()
	defer sp.Stop()

	var built, failed int
	for i, path := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		sp.Update(fmt.Sprintf("Sketching %d/%d %s...", i+1, len(sources), filepath.Base(path)))
		written, err := c.buildOne(ctx, runner, input, path, popts, opts)
		sp.Print(func() {
			for _, out := range written {
				printFile(out)
			}
			if err != nil {
				printError("%s: %s", path, errors.UserMessage(err))
			}
		})
		if err != nil {
			failed++
			logger.Debug("diagram failed", "diagram", path, "err", err)
			if opts.failFast {
				return err
			}
			continue
		}
		built++
	}
	sp.Stop()

	p.done(fmt.Sprintf("Built %d of %d diagrams", built, len(sources)))
	if failed > 0 {
		return fmt.Errorf("%d of %d diagrams failed", failed, len(sources))
	}
	printSuccess("Built %d diagrams into %s", built, opts.output)
	return nil
}

// buildOne sketches path and returns the files written, which may be
// partial on error.
func (c *CLI) buildOne(ctx context.Context, runner *pipeline.Runner, input, path string, popts pipeline.Options, opts buildOpts) ([]string, error) {
	src, err := pipeline.LoadSource(path)
	if err != nil {
		return nil, err
	}
	res, err := runner.Execute(ctx, src, popts)
	if err != nil {
		return nil, err
	}
	var written []string
	for _, format := range opts.formats {
		out, err := pipeline.OutputName(input, opts.output, path, format)
		if err != nil {
			return written, err
		}
		if err := writeOutput(out, res.Artifacts[format]); err != nil {
			return written, err
		}
		written = append(written, out)
	}
	return written, nil
}
