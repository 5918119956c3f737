package dot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/sketchviz/pkg/errors"
)

// Compiler turns a DOT source into SVG.
type Compiler interface {
	Compile(ctx context.Context, src Source) (*Result, error)
}

// Result is the outcome of one compilation.
type Result struct {
	SVG      []byte
	ExitCode int
	Stderr   string
}

// Success reports whether the compiler exited cleanly.
func (r *Result) Success() bool { return r.ExitCode == 0 }

// ExitError describes a compiler that ran but exited non-zero.
type ExitError struct {
	Executable string
	ExitCode   int
	Stderr     string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Executable, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Err returns an *ExitError for a failed result, or nil.
func (r *Result) Err(executable string) error {
	if r.Success() {
		return nil
	}
	return &ExitError{Executable: executable, ExitCode: r.ExitCode, Stderr: r.Stderr}
}

// interrupted classifies a compilation stopped by its contexts, or returns
// nil while run is live. A cancelled parent is a COMPILER_FAILURE; only the
// compiler's own deadline is a COMPILER_TIMEOUT.
func interrupted(parent, run context.Context, what string, timeout time.Duration) error {
	if run.Err() == nil {
		return nil
	}
	if err := parent.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeCompilerFailure, err, "%s", what)
	}
	return errors.Wrap(errors.ErrCodeCompilerTimeout, run.Err(), "%s: exceeded %s", what, timeout)
}
