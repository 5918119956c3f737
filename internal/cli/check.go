package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchviz/pkg/config"
	"github.com/matzehuels/sketchviz/pkg/dot"
	"github.com/matzehuels/sketchviz/pkg/render"
)

// checkCommand creates the check command, which verifies the configured
// Graphviz installation.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the Graphviz installation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			if cfg.Executable.Engine == config.EngineEmbedded {
				printSuccess("Using embedded Graphviz (%s)", dot.NewEmbeddedCompiler(cfg.Executable.Layout, cfg.Executable.Timeout).Executable())
			} else {
				banner, err := dot.CheckExecutable(cmd.Context(), cfg.Executable.Dot)
				if err != nil {
					printError("%s is not a usable Graphviz executable", cfg.Executable.Dot)
					printNextStep("Install Graphviz or run without it", "sketchviz render --engine embedded <file.dot>")
					return err
				}
				printSuccess("Found %s", StyleHighlight.Render(cfg.Executable.Dot))
				printDetail("%s", strings.TrimSpace(banner))
			}

			if render.Available() {
				printSuccess("PNG and PDF export available")
			} else {
				printWarning("rsvg-convert not found: only SVG output is available")
			}
			return nil
		},
	}
}
