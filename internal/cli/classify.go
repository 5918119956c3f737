package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchviz/pkg/classify"
	"github.com/matzehuels/sketchviz/pkg/observability"
)

// classifyCommand creates the classify command, which decides which of two
// SVG files is the hand-drawn one.
func (c *CLI) classifyCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify <a.svg> <b.svg>",
		Short: "Tell which of two SVG files looks hand-drawn",
		Long: `Compare two SVG files and report which one looks hand-drawn.

A document is considered rough when it has more paths and no more polygons
than the other. When neither dominates, the verdict is Indeterminate.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			res := classify.CompareFiles(args[0], args[1])
			observability.Classify().OnClassify(cmd.Context(), res.Outcome(), time.Since(start))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
				return res.Err()
			}
			if err := res.Err(); err != nil {
				return err
			}
			printClassification(res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func printClassification(res classify.Result) {
	v := res.Verdict
	if !v.Decided() {
		printWarning("%s", v.Reason)
	} else {
		printSuccess("%s is rough, %s is simple", StyleHighlight.Render(v.Rough.Name), v.Simple.Name)
		printDetail("%s", v.Reason)
	}
	for i, t := range res.Counts {
		printKeyValue(fmt.Sprintf("input %d", i+1), fmt.Sprintf("%d g · %d polygon · %d path · %d text", t.G, t.Polygon, t.Path, t.Text))
	}
}
