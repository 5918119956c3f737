package rough

import (
	"math"
	"slices"
)

// fillPolygons builds the fill set for closed outlines, or nil when filling
// is off or there is nothing to fill.
func (g *Generator) fillPolygons(polys [][]Point, o Options) []OpSet {
	if !o.Fill {
		return nil
	}
	var set OpSet
	if o.FillStyle == FillSolid {
		set = g.solidFill(polys, o)
	} else {
		set = g.hachureFill(polys, o)
	}
	if len(set.Ops) == 0 {
		return nil
	}
	return []OpSet{set}
}

func (g *Generator) solidFill(polys [][]Point, o Options) OpSet {
	set := OpSet{Type: SetFillPath}
	off := o.MaxRandomnessOffset
	for _, pts := range polys {
		if len(pts) < 3 {
			continue
		}
		for i, p := range pts {
			kind := OpLineTo
			if i == 0 {
				kind = OpMove
			}
			set.Ops = append(set.Ops, Op{Kind: kind, Data: []float64{
				p.X + g.offsetOpt(off, o, 1),
				p.Y + g.offsetOpt(off, o, 1),
			}})
		}
	}
	return set
}

func (g *Generator) hachureFill(polys [][]Point, o Options) OpSet {
	set := OpSet{Type: SetFillSketch}
	gap := math.Max(o.HachureGap, 0.1)
	for _, l := range hachureLines(polys, gap, o.HachureAngle+90) {
		set.Ops = append(set.Ops, g.line(l[0].X, l[0].Y, l[1].X, l[1].Y, o, false)...)
		set.Ops = append(set.Ops, g.line(l[0].X, l[0].Y, l[1].X, l[1].Y, o, true)...)
	}
	return set
}

type edge struct {
	ymin, ymax float64
	x          float64 // x at ymin
	slope      float64 // dx/dy
}

// maxHachureLines bounds the scan lines of one fill. Wider shapes get a
// proportionally wider gap.
const maxHachureLines = 2000

// hachureLines intersects the polygons with parallel scan lines gap apart,
// running at angle degrees. Polygons are filled with the even-odd rule.
func hachureLines(polys [][]Point, gap, angle float64) [][2]Point {
	rad := angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	rotate := func(p Point, c, s float64) Point {
		return Point{p.X*c - p.Y*s, p.X*s + p.Y*c}
	}

	var edges []edge
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		for i := range poly {
			a := rotate(poly[i], cos, -sin)
			b := rotate(poly[(i+1)%len(poly)], cos, -sin)
			if a.Y == b.Y {
				continue
			}
			if a.Y > b.Y {
				a, b = b, a
			}
			edges = append(edges, edge{ymin: a.Y, ymax: b.Y, x: a.X, slope: (b.X - a.X) / (b.Y - a.Y)})
		}
	}
	if len(edges) == 0 {
		return nil
	}

	ymin, ymax := edges[0].ymin, edges[0].ymax
	for _, e := range edges[1:] {
		ymin = math.Min(ymin, e.ymin)
		ymax = math.Max(ymax, e.ymax)
	}

	span := ymax - ymin
	if math.IsInf(span, 0) || math.IsNaN(span) {
		return nil
	}
	if span/gap > maxHachureLines {
		gap = span / maxHachureLines
	}

	var lines [][2]Point
	var xs []float64
	for n, y := 0, ymin+gap/2; n < maxHachureLines && y < ymax; n, y = n+1, y+gap {
		xs = xs[:0]
		for _, e := range edges {
			if y >= e.ymin && y < e.ymax {
				xs = append(xs, e.x+(y-e.ymin)*e.slope)
			}
		}
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			lines = append(lines, [2]Point{
				rotate(Point{xs[i], y}, cos, sin),
				rotate(Point{xs[i+1], y}, cos, sin),
			})
		}
	}
	return lines
}
