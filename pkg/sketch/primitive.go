package sketch

import (
	stderrors "errors"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/sketchviz/pkg/errors"
	"github.com/matzehuels/sketchviz/pkg/rough"
	"github.com/matzehuels/sketchviz/pkg/svg"
)

// Primitive is an SVG shape the renderer knows how to redraw.
type Primitive interface {
	// Tag is the SVG element name the primitive was read from.
	Tag() string
	// Draw generates the rough approximation of the shape.
	Draw(g *rough.Generator, o rough.Options) (rough.Drawable, error)
}

// geometryAttrs lists the attributes each primitive consumes. They are not
// copied onto the replacement group.
var geometryAttrs = map[string][]string{
	"circle":   {"cx", "cy", "r"},
	"rect":     {"x", "y", "width", "height", "rx", "ry"},
	"ellipse":  {"cx", "cy", "rx", "ry"},
	"line":     {"x1", "y1", "x2", "y2"},
	"polygon":  {"points"},
	"polyline": {"points"},
	"path":     {"d"},
}

// Supported reports whether tag names a primitive the renderer redraws.
func Supported(tag string) bool {
	_, ok := geometryAttrs[tag]
	return ok
}

// Circle is a <circle>: center and radius.
type Circle struct{ CX, CY, R float64 }

// Tag returns "circle".
func (c Circle) Tag() string { return "circle" }

// Draw sketches the circle with diameter 2R.
func (c Circle) Draw(g *rough.Generator, o rough.Options) (rough.Drawable, error) {
	return g.Circle(c.CX, c.CY, 2*c.R, o), nil
}

// Rect is a <rect>. Corner radii are ignored.
type Rect struct{ X, Y, Width, Height float64 }

// Tag returns "rect".
func (r Rect) Tag() string { return "rect" }

// Draw sketches the rectangle outline.
func (r Rect) Draw(g *rough.Generator, o rough.Options) (rough.Drawable, error) {
	return g.Rectangle(r.X, r.Y, r.Width, r.Height, o), nil
}

// Ellipse is an <ellipse>: center and radii.
type Ellipse struct{ CX, CY, RX, RY float64 }

// Tag returns "ellipse".
func (e Ellipse) Tag() string { return "ellipse" }

// Draw sketches the ellipse.
func (e Ellipse) Draw(g *rough.Generator, o rough.Options) (rough.Drawable, error) {
	return g.Ellipse(e.CX, e.CY, 2*e.RX, 2*e.RY, o), nil
}

// Line is a <line> between two points.
type Line struct{ X1, Y1, X2, Y2 float64 }

// Tag returns "line".
func (l Line) Tag() string { return "line" }

// Draw sketches the segment.
func (l Line) Draw(g *rough.Generator, o rough.Options) (rough.Drawable, error) {
	return g.Line(l.X1, l.Y1, l.X2, l.Y2, o), nil
}

// Poly is a polygon (Closed) or polyline.
type Poly struct {
	Points []rough.Point
	Closed bool
}

// Tag returns "polygon" or "polyline".
func (p Poly) Tag() string {
	if p.Closed {
		return "polygon"
	}
	return "polyline"
}

// Draw sketches the closed polygon or open polyline.
func (p Poly) Draw(g *rough.Generator, o rough.Options) (rough.Drawable, error) {
	if p.Closed {
		return g.Polygon(p.Points, o), nil
	}
	return g.LinearPath(p.Points, o), nil
}

// Path is a <path> with its raw d attribute.
type Path struct{ D string }

// Tag returns "path".
func (p Path) Tag() string { return "path" }

// Draw sketches the path. Malformed data is UNSUPPORTED_GEOMETRY.
func (p Path) Draw(g *rough.Generator, o rough.Options) (rough.Drawable, error) {
	d, err := g.Path(p.D, o)
	if err != nil {
		return d, errors.Wrap(errors.ErrCodeUnsupportedGeometry, err, "<path>: attribute d")
	}
	return d, nil
}

// FromElement reads the geometry of e. ok is false for elements that are not
// primitives. For primitives with missing or non-numeric geometry, err
// carries [errors.ErrCodeUnsupportedGeometry].
//
// Positions (x, y, cx, cy) default to 0 as in SVG; sizes, line endpoints,
// points and path data are required.
func FromElement(e *svg.Element) (p Primitive, ok bool, err error) {
	tag := e.Name.Local
	if !Supported(tag) || !e.Is(tag) {
		return nil, false, nil
	}
	a := attrReader{el: e}
	switch tag {
	case "circle":
		p = Circle{CX: a.optional("cx"), CY: a.optional("cy"), R: a.size("r")}
	case "rect":
		p = Rect{X: a.optional("x"), Y: a.optional("y"), Width: a.size("width"), Height: a.size("height")}
	case "ellipse":
		p = Ellipse{CX: a.optional("cx"), CY: a.optional("cy"), RX: a.size("rx"), RY: a.size("ry")}
	case "line":
		p = Line{X1: a.required("x1"), Y1: a.required("y1"), X2: a.required("x2"), Y2: a.required("y2")}
	case "polygon", "polyline":
		p = Poly{Points: a.points(), Closed: tag == "polygon"}
	case "path":
		p = Path{D: a.pathData()}
	}
	if a.err != nil {
		return nil, true, a.err
	}
	return p, true, nil
}

// attrReader parses attributes and keeps the first error.
type attrReader struct {
	el  *svg.Element
	err error
}

func (a *attrReader) fail(name, format string, args ...any) {
	if a.err == nil {
		args = append([]any{a.el.Name.Local, name}, args...)
		a.err = errors.New(errors.ErrCodeUnsupportedGeometry, "<%s>: attribute %s: "+format, args...)
	}
}

func (a *attrReader) number(name string, required bool) float64 {
	v, present := a.el.Attr(name)
	v = strings.TrimSpace(v)
	if !present || v == "" {
		if required {
			a.fail(name, "missing")
		}
		return 0
	}
	f, err := parseLength(v)
	if err != nil {
		a.fail(name, "not a finite number: %q", v)
		return 0
	}
	return f
}

func (a *attrReader) optional(name string) float64 { return a.number(name, false) }
func (a *attrReader) required(name string) float64 { return a.number(name, true) }

func (a *attrReader) size(name string) float64 {
	f := a.number(name, true)
	if f < 0 {
		a.fail(name, "negative value %s", rough.FormatNumber(f))
	}
	return f
}

func (a *attrReader) points() []rough.Point {
	v, _ := a.el.Attr("points")
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) == 0 {
		a.fail("points", "missing")
		return nil
	}
	if len(fields)%2 != 0 || len(fields) < 4 {
		a.fail("points", "need at least two coordinate pairs, got %d numbers", len(fields))
		return nil
	}
	pts := make([]rough.Point, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		x, errX := parseFinite(fields[i])
		y, errY := parseFinite(fields[i+1])
		if errX != nil || errY != nil {
			a.fail("points", "not a finite number pair: %q,%q", fields[i], fields[i+1])
			return nil
		}
		pts = append(pts, rough.Point{X: x, Y: y})
	}
	return pts
}

func (a *attrReader) pathData() string {
	d, _ := a.el.Attr("d")
	if strings.TrimSpace(d) == "" {
		a.fail("d", "missing")
		return ""
	}
	if _, err := rough.ParsePath(d); err != nil {
		a.fail("d", "%v", err)
		return ""
	}
	return d
}

var errNotFinite = stderrors.New("not a finite number")

// parseLength accepts a plain number or one with a "px" suffix.
func parseLength(v string) (float64, error) {
	return parseFinite(strings.TrimSuffix(v, "px"))
}

// parseFinite rejects Inf and NaN, which ParseFloat accepts.
func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errNotFinite
	}
	return f, nil
}
