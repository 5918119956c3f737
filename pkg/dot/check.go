package dot

import (
	"context"
	"os/exec"
	"strings"

	"github.com/matzehuels/sketchviz/pkg/errors"
)

// CheckExecutable verifies that exe runs and identifies itself as a Graphviz
// tool. Graphviz prints its version banner to stderr, so both streams are
// inspected.
func CheckExecutable(ctx context.Context, exe string) (string, error) {
	return checkWith(ctx, exe, exec.LookPath)
}

func checkWith(ctx context.Context, exe string, locate Locator) (string, error) {
	if strings.TrimSpace(exe) == "" {
		return "", errors.New(errors.ErrCodeInvalidConfig, "no Graphviz executable configured")
	}
	path, err := locate(exe)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeCompilerFailure, err, "locate %s", exe)
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "-V").CombinedOutput()
	banner := strings.TrimSpace(string(out))
	if err != nil {
		return banner, errors.Wrap(errors.ErrCodeCompilerFailure, err, "%s -V", exe)
	}
	if !strings.Contains(strings.ToLower(banner), "graphviz") {
		return banner, errors.New(errors.ErrCodeCompilerFailure, "%s does not look like Graphviz: %q", exe, banner)
	}
	return banner, nil
}
