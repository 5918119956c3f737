package dot

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/matzehuels/sketchviz/pkg/errors"
)

const (
	// DefaultExecutable is the Graphviz tool used when none is configured.
	DefaultExecutable = "dot"
	// DefaultTimeout bounds a single compilation.
	DefaultTimeout = 30 * time.Second

	// waitDelay is how long Wait waits for output pipes after the child is
	// killed.
	waitDelay = 2 * time.Second
)

// Locator resolves an executable name to a path. exec.LookPath is the
// default.
type Locator func(name string) (string, error)

// ExecCompiler runs an external Graphviz executable.
type ExecCompiler struct {
	executable string
	locate     Locator
	timeout    time.Duration
	args       []string
}

// ExecOption configures an ExecCompiler.
type ExecOption func(*ExecCompiler)

// WithLocator sets how the executable is resolved.
func WithLocator(l Locator) ExecOption {
	return func(c *ExecCompiler) {
		if l != nil {
			c.locate = l
		}
	}
}

// WithTimeout bounds each compilation. Non-positive values keep the default.
func WithTimeout(d time.Duration) ExecOption {
	return func(c *ExecCompiler) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithArgs appends extra command line arguments, e.g. "-Kneato".
func WithArgs(args ...string) ExecOption {
	return func(c *ExecCompiler) {
		c.args = append(c.args, args...)
	}
}

// NewExecCompiler returns a compiler that runs executable. An empty name
// selects [DefaultExecutable].
func NewExecCompiler(executable string, opts ...ExecOption) *ExecCompiler {
	if strings.TrimSpace(executable) == "" {
		executable = DefaultExecutable
	}
	c := &ExecCompiler{
		executable: executable,
		locate:     exec.LookPath,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Executable returns the configured executable name.
func (c *ExecCompiler) Executable() string { return c.executable }

// Compile runs "<exe> -Tsvg" with src on stdin and returns the SVG written to
// stdout.
func (c *ExecCompiler) Compile(ctx context.Context, src Source) (*Result, error) {
	return c.run(ctx, src, "-Tsvg")
}

// CompileFile runs "<exe> -Tsvg -o outputPath" and lets the compiler write
// the file. The returned result carries no SVG.
func (c *ExecCompiler) CompileFile(ctx context.Context, src Source, outputPath string) (*Result, error) {
	if strings.TrimSpace(outputPath) == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "no output path")
	}
	return c.run(ctx, src, "-Tsvg", "-o", outputPath)
}

func (c *ExecCompiler) run(ctx context.Context, src Source, args ...string) (*Result, error) {
	if src.Empty() {
		return nil, errors.New(errors.ErrCodeEmptyInput, "%s: no DOT source", src.Name)
	}

	path, err := c.locate(c.executable)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompilerFailure, err, "locate %s", c.executable)
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, path, append(args, c.args...)...)
	cmd.WaitDelay = waitDelay
	cmd.Stdin = strings.NewReader(src.Text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	// The deadline check comes first: a killed child also reports an
	// ExitError.
	if err := interrupted(ctx, runCtx, fmt.Sprintf("%s: compile %s", c.executable, src.Name), c.timeout); err != nil {
		return nil, err
	}

	res := &Result{SVG: stdout.Bytes(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if !stderrors.As(err, &exitErr) {
			return nil, errors.Wrap(errors.ErrCodeCompilerFailure, err, "start %s", c.executable)
		}
		res.ExitCode = exitErr.ExitCode()
		res.SVG = nil
	}
	return res, nil
}
