// Package dot compiles Graphviz DOT sources into SVG.
//
// # Compilers
//
// Two [Compiler] implementations share one contract: given a [Source], return
// a [Result] holding the SVG bytes, the exit code and the captured stderr.
//
//   - [ExecCompiler] runs an external Graphviz executable ("dot" by default)
//     as a single child process, writing the source to stdin and reading SVG
//     from stdout. The executable is resolved through a [Locator], never a
//     shell.
//   - [EmbeddedCompiler] uses the WebAssembly build of Graphviz shipped with
//     [github.com/goccy/go-graphviz], so no external binary is needed.
//
// A non-zero exit status is reported in the [Result], not as a Go error.
// Errors are reserved for conditions where no result exists: empty input,
// spawn failure and timeout.
//
// # Sources
//
// [ParseSource] strips a leading front matter block before compilation:
//
//	+++
//	roughness = 2.5
//	seed = 7
//	+++
//	digraph { a -> b }
//
// TOML front matter (between "+++" lines) is decoded into [Overrides]. YAML
// front matter (between "---" lines) is kept verbatim in [Source.FrontMatter]
// but not interpreted.
//
// # Checking the executable
//
// [CheckExecutable] runs "<exe> -V" and accepts any Graphviz tool that
// identifies itself as part of Graphviz, so "neato" or "fdp" can stand in for
// "dot".
package dot
