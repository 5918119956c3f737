// Package pkg provides the core libraries for Sketchviz hand-drawn diagrams.
//
// # Overview
//
// Sketchviz compiles Graphviz DOT sources to SVG and redraws every shape
// with rough, multi-stroke lines. The pkg directory is organized into these
// areas:
//
//  1. [dot] - DOT sources, front matter and the Graphviz compilers
//  2. [svg] - SVG document tree: parsing, validation and serialization
//  3. [rough] - Seeded hand-drawn geometry (lines, curves, fills)
//  4. [sketch] - Replacement of SVG primitives with rough groups
//  5. [classify] - Deciding which of two documents is the rough one
//  6. [pipeline] - Orchestration (compile → validate → render → serialize)
//  7. [config] - Site configuration and inline tag parameters
//
// Supporting packages are [errors] (coded errors), [observability] (hooks),
// [render] (PNG/PDF export) and [buildinfo] (version stamping).
//
// # Architecture
//
// The typical data flow through Sketchviz:
//
//	DOT file (+ optional front matter)
//	         ↓
//	    [dot] package (compile with dot or embedded Graphviz)
//	         ↓
//	    [svg] package (parse + validate the <svg> root)
//	         ↓
//	    [sketch] package (redraw primitives using [rough])
//	         ↓
//	    SVG/PNG/PDF output or inline HTML
//
// # Quick Start
//
//	src, _ := pipeline.LoadSource("flow.dot")
//	runner := pipeline.NewRunner(nil, logger)
//	result, err := runner.Execute(ctx, src, pipeline.Options{Seed: 7})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("flow.svg", result.SVG(), 0o644)
//
// # Determinism
//
// The same source, style and seed always produce byte-identical output.
// Every run builds its own random generator, so concurrent runs never share
// state.
package pkg
