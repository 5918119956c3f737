package cli

import (
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchviz/pkg/errors"
	"github.com/matzehuels/sketchviz/pkg/pipeline"
	"github.com/matzehuels/sketchviz/pkg/sketch"
)

// RoughifyUsage is reported when roughify is called without an input file.
const RoughifyUsage = "Usage: roughify <path-to-svg> [--roughness=<value>] [--bowing=<value>]"

// RoughifyCommand creates the roughify command, which redraws an existing
// SVG file and writes the result to standard output. It is registered as a
// subcommand and also run on its own by the roughify binary.
func (c *CLI) RoughifyCommand() *cobra.Command {
	var style styleFlags

	cmd := &cobra.Command{
		Use:   "roughify <path-to-svg>",
		Short: "Redraw an SVG file with hand-drawn strokes",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New(errors.ErrCodeInvalidInput, "%s", RoughifyUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if stderrors.Is(err, fs.ErrNotExist) {
				return errors.New(errors.ErrCodeFileNotFound, "File not found: %s", path)
			}
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
			}

			opts := pipeline.Options{Style: sketch.DefaultStyle(), Logger: c.Logger}
			style.apply(cmd, &opts)

			res, err := pipeline.NewRunner(nil, c.Logger).Roughify(cmd.Context(), path, data, opts)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(res.SVG())
			return err
		},
	}

	style.register(cmd)
	return cmd
}
