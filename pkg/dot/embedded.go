package dot

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sketchviz/pkg/errors"
)

// EmbeddedName is the executable name reported for the embedded compiler.
const EmbeddedName = "go-graphviz"

// EmbeddedCompiler renders DOT in-process with the WebAssembly build of
// Graphviz. Parse and layout failures are reported as a Result with exit
// code 1, matching what the dot executable would do.
type EmbeddedCompiler struct {
	Layout  graphviz.Layout
	Timeout time.Duration // per compilation; DefaultTimeout when zero
}

// NewEmbeddedCompiler returns a compiler using layout, or dot if empty.
// A non-positive timeout selects [DefaultTimeout].
func NewEmbeddedCompiler(layout string, timeout time.Duration) *EmbeddedCompiler {
	if layout == "" {
		layout = string(graphviz.DOT)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &EmbeddedCompiler{Layout: graphviz.Layout(layout), Timeout: timeout}
}

// Executable returns [EmbeddedName] and the layout engine.
func (c *EmbeddedCompiler) Executable() string { return EmbeddedName + "/" + string(c.Layout) }

// Compile lays out src and renders it to SVG within the compiler's timeout.
func (c *EmbeddedCompiler) Compile(ctx context.Context, src Source) (*Result, error) {
	if src.Empty() {
		return nil, errors.New(errors.ErrCodeEmptyInput, "%s: no DOT source", src.Name)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	what := fmt.Sprintf("%s: compile %s", c.Executable(), src.Name)
	if err := interrupted(ctx, runCtx, what, timeout); err != nil {
		return nil, err
	}

	gv, err := graphviz.New(runCtx)
	if err != nil {
		if ierr := interrupted(ctx, runCtx, what, timeout); ierr != nil {
			return nil, ierr
		}
		return nil, errors.Wrap(errors.ErrCodeCompilerFailure, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(c.Layout)

	g, err := graphviz.ParseBytes([]byte(src.Text))
	if err != nil {
		return &Result{ExitCode: 1, Stderr: err.Error()}, nil
	}
	defer g.Close()

	var buf bytes.Buffer
	err = gv.Render(runCtx, g, graphviz.SVG, &buf)
	// As with the executable, an expired deadline wins over any result.
	if ierr := interrupted(ctx, runCtx, what, timeout); ierr != nil {
		return nil, ierr
	}
	if err != nil {
		return &Result{ExitCode: 1, Stderr: err.Error()}, nil
	}
	return &Result{SVG: buf.Bytes()}, nil
}
