package rough

import (
	"math"
	"math/rand/v2"
)

// Generator produces drawables from a seeded random source.
type Generator struct {
	seed uint64
	rng  *rand.Rand
}

// New creates a generator seeded with seed.
func New(seed uint64) *Generator {
	return &Generator{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^0xdeadbeef)),
	}
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() uint64 { return g.seed }

// Line draws a straight line.
func (g *Generator) Line(x1, y1, x2, y2 float64, o Options) Drawable {
	o = o.resolve()
	return g.outline("line", o, nil, func(pass int) []Op {
		return g.line(x1, y1, x2, y2, o, pass == 1)
	})
}

// LinearPath draws an open polyline.
func (g *Generator) LinearPath(points []Point, o Options) Drawable {
	o = o.resolve()
	return g.outline("linearPath", o, nil, func(pass int) []Op {
		return g.linearPath(points, false, o, pass)
	})
}

// Polygon draws a closed polygon, filled when o.Fill is set.
func (g *Generator) Polygon(points []Point, o Options) Drawable {
	o = o.resolve()
	fills := g.fillPolygons([][]Point{points}, o)
	return g.outline("polygon", o, fills, func(pass int) []Op {
		return g.linearPath(points, true, o, pass)
	})
}

// Rectangle draws an axis-aligned rectangle.
func (g *Generator) Rectangle(x, y, w, h float64, o Options) Drawable {
	d := g.Polygon([]Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}, o)
	d.Shape = "rectangle"
	return d
}

// Circle draws a circle of the given diameter centered on (cx, cy).
func (g *Generator) Circle(cx, cy, diameter float64, o Options) Drawable {
	d := g.Ellipse(cx, cy, diameter, diameter, o)
	d.Shape = "circle"
	return d
}

// Ellipse draws an ellipse of the given width and height centered on
// (cx, cy).
func (g *Generator) Ellipse(cx, cy, w, h float64, o Options) Drawable {
	o = o.resolve()
	p := g.ellipseParams(w, h, o)

	overlap := p.increment * g.offset(0.1, g.offset(0.4, 1, o, 1), o, 1)
	first, core := g.ellipsePoints(p.increment, cx, cy, p.rx, p.ry, 1, overlap, o)
	firstOps := g.curve(first, o)

	var fills []OpSet
	if o.Fill {
		if o.FillStyle == FillSolid {
			fills = []OpSet{{Type: SetFillPath, Ops: firstOps}}
		} else {
			fills = g.fillPolygons([][]Point{core}, o)
		}
	}

	second, _ := g.ellipsePoints(p.increment, cx, cy, p.rx, p.ry, 1.5, 0, o)
	secondOps := g.curve(second, o)

	return Drawable{
		Shape:   "ellipse",
		Options: o,
		Sets: append(fills,
			OpSet{Type: SetStroke, Ops: firstOps},
			OpSet{Type: SetStroke, Ops: secondOps},
		),
	}
}

// Path draws SVG path data. Malformed data is returned as an error.
func (g *Generator) Path(d string, o Options) (Drawable, error) {
	segs, err := ParsePath(d)
	if err != nil {
		return Drawable{}, err
	}
	o = o.resolve()
	norm := Normalize(Absolutize(segs))

	var fills []OpSet
	if o.Fill {
		fills = g.fillPolygons(Flatten(norm), o)
	}
	return g.outline("path", o, fills, func(pass int) []Op {
		return g.svgPath(norm, o, pass)
	}), nil
}

func (g *Generator) outline(shape string, o Options, fills []OpSet, pass func(int) []Op) Drawable {
	d := Drawable{Shape: shape, Options: o, Sets: fills}
	for i := range Passes {
		d.Sets = append(d.Sets, OpSet{Type: SetStroke, Ops: pass(i)})
	}
	return d
}

func (g *Generator) random() float64 {
	return g.rng.Float64()
}

// offset returns a random value in [lo, hi) scaled by roughness and gain.
func (g *Generator) offset(lo, hi float64, o Options, gain float64) float64 {
	return o.Roughness * gain * (g.random()*(hi-lo) + lo)
}

func (g *Generator) offsetOpt(x float64, o Options, gain float64) float64 {
	return g.offset(-x, x, o, gain)
}

// line draws one pass of a single segment. The overlay pass uses half the
// offset of the first so the two strokes stay close together.
func (g *Generator) line(x1, y1, x2, y2 float64, o Options, overlay bool) []Op {
	lengthSq := (x1-x2)*(x1-x2) + (y1-y2)*(y1-y2)
	length := math.Sqrt(lengthSq)

	gain := 1.0
	switch {
	case length > 500:
		gain = 0.4
	case length >= 200:
		gain = -0.0016668*length + 1.233334
	}

	offset := o.MaxRandomnessOffset
	if offset*offset*100 > lengthSq {
		offset = length / 10
	}
	if overlay {
		offset /= 2
	}

	diverge := 0.2 + g.random()*0.2
	midX := g.offsetOpt(o.Bowing*o.MaxRandomnessOffset*(y2-y1)/200, o, gain)
	midY := g.offsetOpt(o.Bowing*o.MaxRandomnessOffset*(x1-x2)/200, o, gain)
	jitter := func() float64 { return g.offsetOpt(offset, o, gain) }

	return []Op{
		{Kind: OpMove, Data: []float64{x1 + jitter(), y1 + jitter()}},
		{Kind: OpCurveTo, Data: []float64{
			midX + x1 + (x2-x1)*diverge + jitter(),
			midY + y1 + (y2-y1)*diverge + jitter(),
			midX + x1 + 2*(x2-x1)*diverge + jitter(),
			midY + y1 + 2*(y2-y1)*diverge + jitter(),
			x2 + jitter(),
			y2 + jitter(),
		}},
	}
}

func (g *Generator) linearPath(points []Point, closed bool, o Options, pass int) []Op {
	n := len(points)
	if n < 2 {
		return nil
	}
	if n == 2 {
		return g.line(points[0].X, points[0].Y, points[1].X, points[1].Y, o, pass == 1)
	}
	var ops []Op
	for i := 0; i < n-1; i++ {
		ops = append(ops, g.line(points[i].X, points[i].Y, points[i+1].X, points[i+1].Y, o, pass == 1)...)
	}
	if closed {
		ops = append(ops, g.line(points[n-1].X, points[n-1].Y, points[0].X, points[0].Y, o, pass == 1)...)
	}
	return ops
}

// maxCurveSteps bounds the samples per ellipse pass, which otherwise grow
// with the radius.
const maxCurveSteps = 1000

type ellipseParams struct {
	increment float64
	rx, ry    float64
}

func (g *Generator) ellipseParams(w, h float64, o Options) ellipseParams {
	psq := math.Sqrt(math.Pi * 2 * math.Sqrt((math.Pow(w/2, 2)+math.Pow(h/2, 2))/2))
	steps := math.Ceil(math.Max(o.CurveStepCount, o.CurveStepCount/math.Sqrt(200)*psq))
	if math.IsNaN(steps) || steps > maxCurveSteps {
		steps = maxCurveSteps
	}
	rx := math.Abs(w / 2)
	ry := math.Abs(h / 2)
	fit := 1 - o.CurveFitting
	rx += g.offsetOpt(rx*fit, o, 1)
	ry += g.offsetOpt(ry*fit, o, 1)
	return ellipseParams{increment: math.Pi * 2 / steps, rx: rx, ry: ry}
}

// ellipsePoints samples the outline of one pass. The returned core points
// lie on the ellipse; all points add the overlap used to close the stroke.
func (g *Generator) ellipsePoints(inc, cx, cy, rx, ry, offset, overlap float64, o Options) (all, core []Point) {
	at := func(scale, angle float64) Point {
		return Point{cx + scale*rx*math.Cos(angle), cy + scale*ry*math.Sin(angle)}
	}

	if o.Roughness == 0 {
		inc /= 4
		all = append(all, at(1, -inc))
		for angle := 0.0; angle <= math.Pi*2; angle += inc {
			p := at(1, angle)
			core = append(core, p)
			all = append(all, p)
		}
		all = append(all, at(1, 0), at(1, inc))
		return all, core
	}

	jittered := func(scale, angle float64) Point {
		p := at(scale, angle)
		p.X += g.offsetOpt(offset, o, 1)
		p.Y += g.offsetOpt(offset, o, 1)
		return p
	}

	rad := g.offsetOpt(0.5, o, 1) - math.Pi/2
	all = append(all, jittered(0.9, rad-inc))
	end := math.Pi*2 + rad - 0.01
	for angle := rad; angle < end; angle += inc {
		p := jittered(1, angle)
		core = append(core, p)
		all = append(all, p)
	}
	all = append(all,
		jittered(1, rad+math.Pi*2+overlap*0.5),
		jittered(0.98, rad+overlap),
		jittered(0.9, rad+overlap*0.5),
	)
	return all, core
}

// curve fits a Catmull-Rom spline through points.
func (g *Generator) curve(points []Point, o Options) []Op {
	n := len(points)
	switch {
	case n > 3:
		s := 1 - o.CurveTightness
		ops := []Op{{Kind: OpMove, Data: []float64{points[1].X, points[1].Y}}}
		for i := 1; i+2 < n; i++ {
			prev, cur, next, after := points[i-1], points[i], points[i+1], points[i+2]
			ops = append(ops, Op{Kind: OpCurveTo, Data: []float64{
				cur.X + (s*next.X-s*prev.X)/6,
				cur.Y + (s*next.Y-s*prev.Y)/6,
				next.X + (s*cur.X-s*after.X)/6,
				next.Y + (s*cur.Y-s*after.Y)/6,
				next.X,
				next.Y,
			}})
		}
		return ops
	case n == 3:
		return []Op{
			{Kind: OpMove, Data: []float64{points[1].X, points[1].Y}},
			{Kind: OpCurveTo, Data: []float64{points[1].X, points[1].Y, points[2].X, points[2].Y, points[2].X, points[2].Y}},
		}
	case n == 2:
		return g.line(points[0].X, points[0].Y, points[1].X, points[1].Y, o, true)
	}
	return nil
}

// bezierTo draws one pass of a cubic segment starting at cur.
func (g *Generator) bezierTo(x1, y1, x2, y2, x, y float64, cur Point, o Options, pass int) []Op {
	base := o.MaxRandomnessOffset
	if base == 0 {
		base = 1
	}
	ros := [Passes]float64{base, base + 0.3}

	var ops []Op
	if pass == 0 {
		ops = append(ops, Op{Kind: OpMove, Data: []float64{cur.X, cur.Y}})
	} else {
		ops = append(ops, Op{Kind: OpMove, Data: []float64{
			cur.X + g.offsetOpt(ros[0], o, 1),
			cur.Y + g.offsetOpt(ros[0], o, 1),
		}})
	}
	r := ros[pass]
	fx := x + g.offsetOpt(r, o, 1)
	fy := y + g.offsetOpt(r, o, 1)
	return append(ops, Op{Kind: OpCurveTo, Data: []float64{
		x1 + g.offsetOpt(r, o, 1),
		y1 + g.offsetOpt(r, o, 1),
		x2 + g.offsetOpt(r, o, 1),
		y2 + g.offsetOpt(r, o, 1),
		fx,
		fy,
	}})
}

// svgPath draws one pass of normalized path segments.
func (g *Generator) svgPath(segs []Segment, o Options, pass int) []Op {
	var ops []Op
	var first, cur Point
	for _, seg := range segs {
		a := seg.Args
		switch seg.Cmd {
		case 'M':
			cur = Point{a[0], a[1]}
			first = cur
		case 'L':
			ops = append(ops, g.line(cur.X, cur.Y, a[0], a[1], o, pass == 1)...)
			cur = Point{a[0], a[1]}
		case 'C':
			ops = append(ops, g.bezierTo(a[0], a[1], a[2], a[3], a[4], a[5], cur, o, pass)...)
			cur = Point{a[4], a[5]}
		case 'Z':
			ops = append(ops, g.line(cur.X, cur.Y, first.X, first.Y, o, pass == 1)...)
			cur = first
		}
	}
	return ops
}
