// Command roughify redraws an SVG file with hand-drawn strokes and prints
// the result to standard output.
//
//	roughify <path-to-svg> [--roughness=<value>] [--bowing=<value>] [--seed=<value>]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/matzehuels/sketchviz/internal/cli"
	"github.com/matzehuels/sketchviz/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cmd := cli.New(os.Stderr, cli.LogInfo).RoughifyCommand()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errors.UserMessage(err))
		os.Exit(1)
	}
}
