package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sketchviz/pkg/dot"
	"github.com/matzehuels/sketchviz/pkg/errors"
	"github.com/matzehuels/sketchviz/pkg/observability"
	"github.com/matzehuels/sketchviz/pkg/sketch"
	"github.com/matzehuels/sketchviz/pkg/svg"
)

// Runner executes the pipeline with a fixed compiler.
//
// The Runner is stateless except for the compiler and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options; each run builds its own generator and
// spawns its own compiler process.
type Runner struct {
	Compiler dot.Compiler
	Logger   *log.Logger
}

// NewRunner creates a runner with the given compiler.
// If compiler is nil, the dot executable on PATH is used.
func NewRunner(compiler dot.Compiler, logger *log.Logger) *Runner {
	if compiler == nil {
		compiler = dot.NewExecCompiler(dot.DefaultExecutable)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Compiler: compiler,
		Logger:   logger,
	}
}

// Execute runs the complete compile → validate → render → serialize
// pipeline. Front matter overrides in src take precedence over opts.
func (r *Runner) Execute(ctx context.Context, src dot.Source, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.WithOverrides(src.Overrides)

	// Stage 1: Compile
	compileStart := time.Now()
	raw, err := r.Compile(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	compileTime := time.Since(compileStart)

	opts.Logger.Debug("compiled diagram",
		"diagram", src.Name,
		"bytes", len(raw),
		"duration", compileTime)

	result, err := r.process(ctx, src.Name, string(raw), opts)
	if err != nil {
		return nil, err
	}
	result.Stats.CompileTime = compileTime
	return result, nil
}

// Roughify runs the validate → render → serialize stages over SVG text that
// was produced elsewhere.
func (r *Runner) Roughify(ctx context.Context, name string, data []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return r.process(ctx, name, string(data), opts)
}

// Compile runs the compiler and turns a non-zero exit into a
// COMPILER_FAILURE error wrapping *dot.ExitError.
func (r *Runner) Compile(ctx context.Context, src dot.Source, opts Options) ([]byte, error) {
	r.applyLogger(&opts)
	hooks := observability.Pipeline()
	name := compilerName(r.Compiler)

	hooks.OnCompileStart(ctx, src.Name, name)
	start := time.Now()

	res, err := r.Compiler.Compile(ctx, src)
	if err == nil {
		err = res.Err(name)
		if err != nil {
			err = errors.Wrap(errors.ErrCodeCompilerFailure, err, "compile %s", src.Name)
		}
	}
	if err != nil {
		hooks.OnCompileComplete(ctx, src.Name, 0, time.Since(start), err)
		if opts.Logger != nil {
			opts.Logger.Debug("compile failed", "diagram", src.Name, "compiler", name, "err", err)
		}
		return nil, err
	}

	hooks.OnCompileComplete(ctx, src.Name, len(res.SVG), time.Since(start), nil)
	return res.SVG, nil
}

func (r *Runner) process(ctx context.Context, name, text string, opts Options) (*Result, error) {
	// Stage 2: Validate
	doc, err := svg.Validate(text)
	if err != nil {
		return nil, err
	}

	result := &Result{Name: name, Artifacts: make(map[string][]byte)}

	// Stage 3: Render
	counts := sketch.Count(doc)
	for _, n := range counts {
		result.Stats.Primitives += n
	}

	renderStart := time.Now()
	if !opts.Plain {
		hooks := observability.Pipeline()
		hooks.OnRenderStart(ctx, name, result.Stats.Primitives)
		doc, result.Report = sketch.RenderWithReport(doc, opts.Style, opts.Seed)
		result.Stats.Replaced = result.Report.Replaced
		result.Stats.Skipped = len(result.Report.Skipped)
		hooks.OnRenderComplete(ctx, name, result.Stats.Replaced, result.Stats.Skipped, time.Since(renderStart), nil)

		for _, skipped := range result.Report.Skipped {
			opts.Logger.Warn("left primitive unchanged", "diagram", name, "reason", errors.UserMessage(skipped))
		}
	}
	if opts.Classes != nil {
		doc = ApplyClasses(doc, *opts.Classes)
	}
	result.Document = doc
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Debug("rendered sketch",
		"diagram", name,
		"primitives", sketch.Summary(counts),
		"replaced", result.Stats.Replaced,
		"duration", result.Stats.RenderTime)

	// Stage 4: Serialize
	exportStart := time.Now()
	if err := export(ctx, doc, opts, result.Artifacts); err != nil {
		return nil, err
	}
	result.Stats.ExportTime = time.Since(exportStart)
	return result, nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// compilerName returns the executable name reported by c, if any.
func compilerName(c dot.Compiler) string {
	if n, ok := c.(interface{ Executable() string }); ok {
		return n.Executable()
	}
	return "compiler"
}
