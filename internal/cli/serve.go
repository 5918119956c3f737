package cli

import (
	"context"
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchviz/internal/server"
	"github.com/matzehuels/sketchviz/pkg/observability"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render, roughify and classify API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			observability.SetHTTPHooks(logHooks{logger: c.Logger})

			srv := server.New(c.newRunner(cfg), cfg, c.Logger)
			printInfo("Serving on %s", StyleHighlight.Render(addr))
			err = srv.ListenAndServe(cmd.Context(), addr)
			if stderrors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	return cmd
}
