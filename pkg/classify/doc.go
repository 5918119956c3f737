// Package classify decides which of two SVG documents looks hand-drawn.
//
// # Overview
//
// The classifier tallies four element kinds in each document (g, polygon,
// path and text) and applies a single rule. A document is "rough" and the
// other "simple" when it has strictly more paths and no more polygons:
// sketch rendering turns every polygon into several paths, so a sketched
// rendering of a diagram gains paths and loses polygons relative to the
// original.
//
//	res := classify.CompareSVG(original, sketched)
//	if res.Verdict.Decided() {
//	    fmt.Println(res.Verdict.Rough.Name, "is rough:", res.Verdict.Reason)
//	}
//
// # Limits
//
// This is a heuristic oracle, not a proof. It is order-sensitive in
// presentation only: swapping the inputs swaps the count slots but the
// verdict still names the same document, because it refers to documents
// rather than positions. It returns [Indeterminate] whenever neither
// document dominates, for example when both are plain Graphviz output, both
// are already sketched, or neither contains any paths.
//
// # Namespaces
//
// Elements count when they are in the SVG namespace or in no namespace at
// all, so hand-written fragments such as "<svg><path/></svg>" classify the
// same way as full documents.
//
// Classification is pure and safe for concurrent use.
package classify
