// Package sketch rewrites the drawable primitives of an SVG document into
// hand-drawn approximations.
//
// # Overview
//
// [Render] walks a validated document and replaces every circle, rect,
// ellipse, line, polygon, polyline and path with a <g> group built by package
// rough. The group keeps the original element's presentation attributes
// (class, id, transform, ...) and adds a data-sketch attribute naming the
// replaced tag. Its children are the fill path, if the shape has a visible
// fill, followed by exactly two outline passes:
//
//	<g fill="lightgrey" data-sketch="ellipse">
//	  <path d="M..." stroke="lightgrey" stroke-width="0.5" fill="none"/>
//	  <path d="M..." stroke="black" stroke-width="1" fill="none"/>
//	  <path d="M..." stroke="black" stroke-width="1" fill="none"/>
//	</g>
//
// The first path is the hachure fill, stroked in the fill color. With the
// solid fill style it is a filled, unstroked region instead.
//
// Every other element, text and comment is copied unchanged, in the same
// position.
//
// # Purity
//
// Render never modifies its input. It returns a new tree and is a pure
// function of (document, style, seed):
//
//	out := sketch.Render(doc, sketch.DefaultStyle(), 42)
//
// # Unsupported Geometry
//
// A primitive whose required attributes are missing or not numeric cannot be
// redrawn. It is copied as-is and reported through [RenderWithReport]; it
// never aborts the render.
package sketch
