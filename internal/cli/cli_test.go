package cli

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchviz/pkg/classify"
	"github.com/matzehuels/sketchviz/pkg/config"
	"github.com/matzehuels/sketchviz/pkg/dot"
	"github.com/matzehuels/sketchviz/pkg/errors"
	"github.com/matzehuels/sketchviz/pkg/observability"
	"github.com/matzehuels/sketchviz/pkg/pipeline"
	"github.com/matzehuels/sketchviz/pkg/sketch"
	"github.com/matzehuels/sketchviz/pkg/svg"
)

const graphvizSVG = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg">
<g id="graph0" class="graph" transform="translate(4 112)">
<polygon fill="white" stroke="none" points="-4,4 -4,-112 58,-112 58,4 -4,4"/>
<g id="node1" class="node">
<title>a</title>
<ellipse fill="none" stroke="black" cx="27" cy="-90" rx="27" ry="18"/>
<text text-anchor="middle" x="27" y="-86.3">a</text>
</g>
<g id="edge1" class="edge">
<path fill="none" stroke="black" d="M27,-71.7C27,-63.98 27,-54.71 27,-46.11"/>
<polygon fill="black" stroke="black" points="30.5,-46.1 27,-36.1 23.5,-46.1 30.5,-46.1"/>
</g>
</g>
</svg>
`

func quietCLI() *CLI {
	return New(io.Discard, LogInfo)
}

// run executes the root command with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(observability.Reset)
	root := quietCLI().RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// fakeDot writes a shell script that ignores its input and prints graphvizSVG.
func fakeDot(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "fake-dot")
	script := "#!/bin/sh\ncat >/dev/null\ncat <<'EOF'\n" + graphvizSVG + "EOF\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func mustParse(t *testing.T, s string) *svg.Element {
	t.Helper()
	root, err := svg.Parse([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewCompilerTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.Executable.Engine = config.EngineEmbedded
	cfg.Executable.Timeout = 3 * time.Second

	c, ok := newCompiler(cfg).(*dot.EmbeddedCompiler)
	if !ok {
		t.Fatalf("newCompiler() = %T, want *dot.EmbeddedCompiler", newCompiler(cfg))
	}
	if c.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", c.Timeout)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		input    string
		format   string
		multiple bool
		want     string
	}{
		{"derived from input", "", "graphs/flow.dot", "svg", false, "graphs/flow.svg"},
		{"explicit single", "out.svg", "flow.dot", "svg", false, "out.svg"},
		{"explicit without ext", "out", "flow.dot", "png", false, "out"},
		{"multiple strips format ext", "out.svg", "flow.dot", "pdf", true, "out.pdf"},
		{"multiple keeps base", "out/flow", "flow.gv", "png", true, "out/flow.png"},
		{"multiple derived", "", "flow.gv", "png", true, "flow.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, tt.input, tt.format, tt.multiple); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStyleFlagsApplyOnlyChanged(t *testing.T) {
	var s styleFlags
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	s.register(cmd)
	if err := cmd.ParseFlags([]string{"--bowing=3", "--plain"}); err != nil {
		t.Fatal(err)
	}

	opts := pipeline.Options{Style: sketch.Style{Roughness: 0.5, Bowing: 1}, Seed: 9}
	s.apply(cmd, &opts)

	if opts.Style.Roughness != 0.5 {
		t.Errorf("roughness = %v, want unchanged 0.5", opts.Style.Roughness)
	}
	if opts.Style.Bowing != 3 {
		t.Errorf("bowing = %v, want 3", opts.Style.Bowing)
	}
	if opts.Seed != 9 {
		t.Errorf("seed = %d, want unchanged 9", opts.Seed)
	}
	if !opts.Plain {
		t.Error("plain not applied")
	}
}

func TestRoughifyUsage(t *testing.T) {
	cmd := quietCLI().RoughifyCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(nil)

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected usage error")
	}
	if got := errors.UserMessage(err); got != RoughifyUsage {
		t.Errorf("message = %q, want %q", got, RoughifyUsage)
	}
}

func TestRoughifyCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.svg")
	writeFile(t, path, graphvizSVG)

	sketchOnce := func() string {
		cmd := quietCLI().RoughifyCommand()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{path, "--roughness=2", "--seed=5"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("roughify: %v", err)
		}
		return out.String()
	}

	first := sketchOnce()
	if !strings.Contains(first, `data-sketch="ellipse"`) {
		t.Errorf("output not sketched:\n%s", first)
	}
	if second := sketchOnce(); second != first {
		t.Error("roughify is not deterministic for a fixed seed")
	}

	res := classify.CompareSVG([]byte(graphvizSVG), []byte(first))
	if !res.Verdict.Decided() || res.Verdict.Rough.Name != "input2" {
		t.Errorf("roughified output not classified as rough: %+v", res.Verdict)
	}
}

func TestRoughifyMissingFile(t *testing.T) {
	cmd := quietCLI().RoughifyCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	missing := filepath.Join(t.TempDir(), "nope.svg")
	cmd.SetArgs([]string{missing})

	err := cmd.Execute()
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("err = %v, want FILE_NOT_FOUND", err)
	}
	if got, want := errors.UserMessage(err), "File not found: "+missing; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestClassifyCommand(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.svg")
	rough := filepath.Join(dir, "rough.svg")
	writeFile(t, plain, graphvizSVG)
	writeFile(t, rough, sketch.Render(mustParse(t, graphvizSVG), sketch.DefaultStyle(), 1).String())

	out, err := run(t, "classify", plain, rough, "--json")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	var res classify.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	if res.Verdict.Rough == nil || res.Verdict.Rough.Name != rough {
		t.Errorf("verdict = %+v, want %s rough", res.Verdict, rough)
	}

	_, err = run(t, "classify", plain, filepath.Join(dir, "missing.svg"))
	if !errors.Is(err, errors.ErrCodeClassificationInput) {
		t.Errorf("missing file err = %v, want CLASSIFICATION_INPUT_INVALID", err)
	}
}

func TestTagCommandErrorMarker(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"missing file", `"nope.dot"`, "File not found: " + filepath.Join(dir, "_graphs", "nope.dot")},
		{"missing name", `"", roughness: 2`, "Missing file name in Sketchviz tag"},
		{"not a diagram", `"notes.txt"`, `diagram must have a .dot or .gv extension: "notes.txt"`},
		{"malformed param", `"a.dot", roughness`, `Malformed parameter: "roughness" (missing value)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "tag", tt.markup, "--source", dir)
			if err != nil {
				t.Fatalf("tag should not fail: %v", err)
			}
			want := "<div class='error'>" + pipeline.ErrorPrefix
			if !strings.HasPrefix(out, want) {
				t.Errorf("output = %q, want prefix %q", out, want)
			}
			if !strings.Contains(out, html.EscapeString(tt.want)) {
				t.Errorf("output = %q, want it to mention %q", out, tt.want)
			}
		})
	}
}

func TestTagCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "_diagrams", "flow.dot"), "digraph { a -> b }\n")

	out, err := run(t, "tag", `"flow.dot", roughness: 2.5`, "--source", dir, "--collection", "diagrams", "--dot", fakeDot(t))
	if err != nil {
		t.Fatalf("tag: %v", err)
	}
	if !strings.HasPrefix(out, "<div class='sketchviz'><svg") {
		t.Errorf("output = %.80q", out)
	}
	if !strings.Contains(out, "sketchviz-node") {
		t.Error("styled inline output lacks node class")
	}
}

func TestDebugCommand(t *testing.T) {
	out, err := run(t, "debug", `"flow.dot", roughness: 3`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "Sketchviz Configuration: {") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, `"roughness":3`) || !strings.Contains(out, `Tag Parameters: "flow.dot", roughness: 3`) {
		t.Errorf("output = %q", out)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "flow.dot")
	writeFile(t, in, "+++\nseed = 3\n+++\ndigraph { a -> b }\n")

	if _, err := run(t, "render", in, "--dot", fakeDot(t)); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "flow.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("<?xml")) || !bytes.Contains(data, []byte("data-sketch")) {
		t.Errorf("unexpected output:\n%s", data)
	}

	out, err := run(t, "render", in, "--dot", fakeDot(t), "-o", "-")
	if err != nil {
		t.Fatalf("render to stdout: %v", err)
	}
	if out != string(data) {
		t.Error("stdout output differs from file output")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "flow.dot")
	writeFile(t, in, "digraph { a -> b }\n")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing input", []string{"render", filepath.Join(dir, "nope.dot")}, errors.ErrCodeFileNotFound},
		{"bad format", []string{"render", in, "--format", "gif"}, errors.ErrCodeInvalidFormat},
		{"bad engine", []string{"render", in, "--engine", "wasm"}, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "_graphs")
	out := filepath.Join(dir, "site")
	writeFile(t, filepath.Join(in, "a.dot"), "digraph { a -> b }\n")
	writeFile(t, filepath.Join(in, "sub", "b.gv"), "digraph { b -> c }\n")
	writeFile(t, filepath.Join(in, "broken.dot"), "")
	writeFile(t, filepath.Join(in, "notes.txt"), "ignored")

	_, err := run(t, "build", in, "-o", out, "--dot", fakeDot(t))
	if err == nil || !strings.Contains(err.Error(), "1 of 3 diagrams failed") {
		t.Fatalf("err = %v, want one failed diagram", err)
	}

	for _, name := range []string{"a.svg", filepath.Join("sub", "b.svg")} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "notes.svg")); err == nil {
		t.Error("non-diagram file was rendered")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", LogInfo, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", LogInfo, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", LogDebug, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatal("debug logged at info level")
	}
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("debug not logged after SetLogLevel")
	}
}
