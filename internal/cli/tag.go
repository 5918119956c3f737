package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchviz/pkg/config"
	"github.com/matzehuels/sketchviz/pkg/errors"
	"github.com/matzehuels/sketchviz/pkg/pipeline"
)

// tagCommand creates the tag command, which expands inline tag markup into
// embeddable HTML.
func (c *CLI) tagCommand() *cobra.Command {
	var root, collection string

	cmd := &cobra.Command{
		Use:   "tag <markup>",
		Short: "Expand inline tag markup to embeddable HTML",
		Long: `Expand inline tag markup to embeddable HTML.

The markup names a diagram in the input collection, optionally followed by
key: value parameters that override the configuration:

  sketchviz tag '"flow.dot", roughness: 2.5, styled: false'

Failures never abort a page build: they are printed as an error placeholder
instead of the diagram.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if collection != "" {
				cfg.InputCollection = collection
			}
			out := c.expandTag(cmd.Context(), cfg, root, args[0])
			_, err = io.WriteString(cmd.OutOrStdout(), out+"\n")
			return err
		},
	}

	cmd.Flags().StringVar(&root, "source", ".", "site source directory containing the input collection")
	cmd.Flags().StringVar(&collection, "collection", "", "input collection name (overrides input_collection)")
	return cmd
}

// expandTag renders markup to an inline div, or to an error marker when any
// step fails.
func (c *CLI) expandTag(ctx context.Context, cfg config.Config, root, markup string) string {
	html, err := c.renderTag(ctx, cfg, root, markup)
	if err != nil {
		c.Logger.Error("tag failed", "markup", markup, "err", errors.UserMessage(err))
		return pipeline.ErrorMarker(err)
	}
	return html
}

func (c *CLI) renderTag(ctx context.Context, cfg config.Config, root, markup string) (string, error) {
	tag, err := config.ParseTag(markup)
	if err != nil {
		return "", err
	}
	if err := cfg.Apply(tag); err != nil {
		return "", err
	}
	c.Logger.Debug(config.Debug(cfg, tag))

	path, err := cfg.Resolve(root, tag)
	if err != nil {
		return "", err
	}
	src, err := pipeline.LoadSource(path)
	if err != nil {
		return "", err
	}
	opts := pipeline.FromConfig(cfg, true)
	opts.Logger = c.Logger
	res, err := c.newRunner(cfg).Execute(ctx, src, opts)
	if err != nil {
		return "", err
	}
	return pipeline.Inline(res.Document, cfg.Output.Inline.CSSClasses.SVG), nil
}

// debugCommand creates the debug command, which prints the configuration a
// tag would render with.
func (c *CLI) debugCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "debug <markup>",
		Short: "Show the configuration merged with tag parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			tag, err := config.ParseTag(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), config.Debug(cfg, tag))
			return err
		},
	}
}
