package rough

import (
	"math"
	"strconv"
	"strings"
)

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// OpKind is a drawing operation.
type OpKind int

const (
	OpMove OpKind = iota
	OpLineTo
	OpCurveTo // cubic Bézier: c1x c1y c2x c2y x y
)

// Op is a single drawing operation with its coordinates.
type Op struct {
	Kind OpKind
	Data []float64
}

// SetType tells a renderer how to paint an [OpSet].
type SetType int

const (
	// SetStroke is an outline pass, stroked with the shape's stroke.
	SetStroke SetType = iota
	// SetFillPath is a closed region, filled with the shape's fill color.
	SetFillPath
	// SetFillSketch is a set of hachure lines, stroked with the fill color.
	SetFillSketch
)

func (t SetType) String() string {
	switch t {
	case SetStroke:
		return "stroke"
	case SetFillPath:
		return "fillPath"
	case SetFillSketch:
		return "fillSketch"
	}
	return "unknown"
}

// OpSet is a sequence of operations painted together.
type OpSet struct {
	Type SetType
	Ops  []Op
}

// PathData renders the set as an SVG path "d" attribute with coordinates
// rounded to two decimals.
func (s OpSet) PathData() string {
	var b strings.Builder
	for _, op := range s.Ops {
		switch op.Kind {
		case OpMove:
			b.WriteString("M")
			writeCoords(&b, op.Data[0:2])
		case OpLineTo:
			b.WriteString("L")
			writeCoords(&b, op.Data[0:2])
		case OpCurveTo:
			b.WriteString("C")
			writeCoords(&b, op.Data[0:2])
			b.WriteString(", ")
			writeCoords(&b, op.Data[2:4])
			b.WriteString(", ")
			writeCoords(&b, op.Data[4:6])
		}
		b.WriteByte(' ')
	}
	return strings.TrimSpace(b.String())
}

func writeCoords(b *strings.Builder, xy []float64) {
	b.WriteString(FormatNumber(xy[0]))
	b.WriteByte(' ')
	b.WriteString(FormatNumber(xy[1]))
}

// FormatNumber formats v with at most two decimals and no trailing zeros.
func FormatNumber(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Passes is the number of outline passes in every [Drawable].
const Passes = 2

// Drawable is the generated approximation of one shape.
type Drawable struct {
	Shape   string
	Options Options
	Sets    []OpSet // fills first, then exactly Passes stroke sets
}

// Strokes returns the outline passes.
func (d Drawable) Strokes() []OpSet {
	var out []OpSet
	for _, s := range d.Sets {
		if s.Type == SetStroke {
			out = append(out, s)
		}
	}
	return out
}

// Fills returns the fill sets, if any.
func (d Drawable) Fills() []OpSet {
	var out []OpSet
	for _, s := range d.Sets {
		if s.Type != SetStroke {
			out = append(out, s)
		}
	}
	return out
}
