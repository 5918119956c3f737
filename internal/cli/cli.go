package cli

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchviz/pkg/buildinfo"
	"github.com/matzehuels/sketchviz/pkg/config"
	"github.com/matzehuels/sketchviz/pkg/dot"
	"github.com/matzehuels/sketchviz/pkg/observability"
	"github.com/matzehuels/sketchviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "sketchviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Persistent flags shared by every command.
	configPath string
	dotExe     string
	engine     string
	layout     string
	timeout    time.Duration
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Sketchviz renders Graphviz diagrams in a hand-drawn style",
		Long: `Sketchviz compiles Graphviz DOT files to SVG and redraws every shape with
rough, multi-stroke lines so diagrams look sketched by hand.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			observability.SetPipelineHooks(logHooks{logger: c.Logger})
			observability.SetClassifyHooks(logHooks{logger: c.Logger})
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	flags.StringVar(&c.dotExe, "dot", "", "Graphviz executable (overrides executable.dot)")
	flags.StringVar(&c.engine, "engine", "", "compiler engine: exec (default), embedded")
	flags.StringVar(&c.layout, "layout", "", "Graphviz layout engine, e.g. neato")
	flags.DurationVar(&c.timeout, "timeout", 0, "compile timeout (default 30s)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.RoughifyCommand())
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.tagCommand())
	root.AddCommand(c.debugCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the config file and applies persistent flag overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadOptional(config.DefaultFile)
	}
	if err != nil {
		return config.Config{}, err
	}

	if c.dotExe != "" {
		cfg.Executable.Dot = c.dotExe
	}
	if c.engine != "" {
		cfg.Executable.Engine = c.engine
	}
	if c.layout != "" {
		cfg.Executable.Layout = c.layout
	}
	if c.timeout > 0 {
		cfg.Executable.Timeout = c.timeout
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded configuration", "config", c.configPath, "engine", cfg.Executable.Engine, "dot", cfg.Executable.Dot)
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cfg config.Config) *pipeline.Runner {
	return pipeline.NewRunner(newCompiler(cfg), c.Logger)
}

// newCompiler builds the compiler selected by cfg.
func newCompiler(cfg config.Config) dot.Compiler {
	if cfg.Executable.Engine == config.EngineEmbedded {
		return dot.NewEmbeddedCompiler(cfg.Executable.Layout, cfg.Executable.Timeout)
	}
	opts := []dot.ExecOption{dot.WithTimeout(cfg.Executable.Timeout)}
	if l := cfg.Executable.Layout; l != "" && l != "dot" {
		opts = append(opts, dot.WithArgs("-K"+l))
	}
	return dot.NewExecCompiler(cfg.Executable.Dot, opts...)
}

// =============================================================================
// Options Helpers
// =============================================================================

// styleFlags are the sketch flags shared by render, build, roughify and tag.
type styleFlags struct {
	roughness float64
	bowing    float64
	seed      uint64
	plain     bool
}

func (s *styleFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&s.roughness, "roughness", 1.5, "how far strokes stray from the true shape")
	cmd.Flags().Float64Var(&s.bowing, "bowing", 1.0, "how much straight lines bend")
	cmd.Flags().Uint64Var(&s.seed, "seed", 0, "random seed (default 42)")
	cmd.Flags().BoolVar(&s.plain, "plain", false, "skip sketching and emit plain Graphviz SVG")
}

// apply overrides opts with the flags the user set explicitly.
func (s *styleFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	if cmd.Flags().Changed("roughness") {
		opts.Style.Roughness = s.roughness
	}
	if cmd.Flags().Changed("bowing") {
		opts.Style.Bowing = s.bowing
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed = s.seed
	}
	opts.Plain = s.plain
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
