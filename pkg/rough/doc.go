// Package rough generates hand-drawn approximations of geometric shapes.
//
// # Overview
//
// A [Generator] turns exact geometry (lines, polylines, polygons, rectangles,
// ellipses and SVG path data) into a [Drawable]: a list of [OpSet] values
// made of move, line and cubic Bézier operations. Every drawable carries
// exactly two outline passes drawn with different jitter, which produces the
// characteristic double-stroke look. Closed shapes with fill enabled also
// carry a fill set, either hachure lines or a solid roughened polygon.
//
// # Reproducible Randomness
//
// Generators are seeded explicitly:
//
//	g := rough.New(42) // same seed, same wobble
//	d := g.Rectangle(10, 10, 80, 40, rough.DefaultOptions())
//	for _, set := range d.Sets {
//	    fmt.Println(set.Type, set.PathData())
//	}
//
// The output is a pure function of (geometry, options, seed and call
// order). A Generator is not safe for concurrent use; create one per render.
//
// # Parameters
//
// Roughness scales every random offset; 0 produces clean strokes that still
// follow the two-pass structure. Bowing scales the perpendicular
// displacement of line midpoints. Long lines are roughened less than short
// ones so that large diagrams stay legible.
//
// # Path Data
//
// [ParsePath] accepts the full SVG path grammar, including relative commands,
// implicit repeats and compact number and arc-flag forms. [Absolutize] and
// [Normalize] reduce a path to M, L, C and Z segments, converting
// quadratic curves and elliptical arcs to cubic Béziers.
package rough
