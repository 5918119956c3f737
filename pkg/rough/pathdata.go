package rough

import (
	"fmt"
	"math"
	"slices"
	"strconv"
)

// Segment is one path-data command with its arguments. Cmd keeps the case
// it was written in until [Absolutize].
type Segment struct {
	Cmd  byte
	Args []float64
}

var argCounts = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1,
	'C': 6, 'S': 4, 'Q': 4, 'T': 2,
	'A': 7, 'Z': 0,
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func isCommand(c byte) bool {
	_, ok := argCounts[upper(c)]
	return ok
}

// ParsePath tokenizes SVG path data. Repeated argument groups after a
// command are split into separate segments; extra pairs after a moveto
// become linetos.
func ParsePath(d string) ([]Segment, error) {
	s := &pathScanner{src: d}
	var segs []Segment
	var cmd byte
	for {
		s.skipSeparators()
		if s.eof() {
			break
		}
		c := s.src[s.pos]
		switch {
		case isCommand(c):
			cmd = c
			s.pos++
			if upper(cmd) == 'Z' {
				segs = append(segs, Segment{Cmd: cmd})
				continue
			}
		case cmd == 0:
			return nil, fmt.Errorf("path data must start with a command, found %q at offset %d", c, s.pos)
		case upper(cmd) == 'Z':
			return nil, fmt.Errorf("unexpected %q after closepath at offset %d", c, s.pos)
		}

		args := make([]float64, argCounts[upper(cmd)])
		for i := range args {
			s.skipSeparators()
			var err error
			if upper(cmd) == 'A' && (i == 3 || i == 4) {
				args[i], err = s.flag()
			} else {
				args[i], err = s.number()
			}
			if err != nil {
				return nil, err
			}
		}
		segs = append(segs, Segment{Cmd: cmd, Args: args})

		switch cmd {
		case 'M':
			cmd = 'L'
		case 'm':
			cmd = 'l'
		}
	}
	if len(segs) > 0 && upper(segs[0].Cmd) != 'M' {
		return nil, fmt.Errorf("path data must begin with a moveto, found %q", segs[0].Cmd)
	}
	return segs, nil
}

type pathScanner struct {
	src string
	pos int
}

func (s *pathScanner) eof() bool { return s.pos >= len(s.src) }

func (s *pathScanner) skipSeparators() {
	for !s.eof() {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			s.pos++
		default:
			return
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (s *pathScanner) digits() int {
	n := 0
	for !s.eof() && isDigit(s.src[s.pos]) {
		s.pos++
		n++
	}
	return n
}

// number scans the longest valid number at the cursor, so "0.5.5" is two
// numbers and "10-5" is 10 followed by -5.
func (s *pathScanner) number() (float64, error) {
	start := s.pos
	if !s.eof() && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
		s.pos++
	}
	n := s.digits()
	if !s.eof() && s.src[s.pos] == '.' {
		s.pos++
		n += s.digits()
	}
	if n == 0 {
		s.pos = start
		return 0, fmt.Errorf("expected number at offset %d in %q", start, s.src)
	}
	if !s.eof() && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		mark := s.pos
		s.pos++
		if !s.eof() && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
			s.pos++
		}
		if s.digits() == 0 {
			s.pos = mark
		}
	}
	return strconv.ParseFloat(s.src[start:s.pos], 64)
}

// flag scans a single-character arc flag, which needs no separator.
func (s *pathScanner) flag() (float64, error) {
	if s.eof() || (s.src[s.pos] != '0' && s.src[s.pos] != '1') {
		return 0, fmt.Errorf("expected arc flag at offset %d in %q", s.pos, s.src)
	}
	v := float64(s.src[s.pos] - '0')
	s.pos++
	return v, nil
}

// Absolutize converts every segment to its absolute, upper-case form.
func Absolutize(segs []Segment) []Segment {
	out := make([]Segment, 0, len(segs))
	var cx, cy, sx, sy float64
	for _, seg := range segs {
		a := slices.Clone(seg.Args)
		cmd := upper(seg.Cmd)
		if seg.Cmd != cmd {
			switch cmd {
			case 'M', 'L', 'T':
				a[0] += cx
				a[1] += cy
			case 'H':
				a[0] += cx
			case 'V':
				a[0] += cy
			case 'C', 'S', 'Q':
				for i := 0; i < len(a); i += 2 {
					a[i] += cx
					a[i+1] += cy
				}
			case 'A':
				a[5] += cx
				a[6] += cy
			}
		}
		switch cmd {
		case 'M':
			cx, cy = a[0], a[1]
			sx, sy = cx, cy
		case 'Z':
			cx, cy = sx, sy
		case 'H':
			cx = a[0]
		case 'V':
			cy = a[0]
		default:
			cx, cy = a[len(a)-2], a[len(a)-1]
		}
		out = append(out, Segment{Cmd: cmd, Args: a})
	}
	return out
}

// Normalize reduces absolute segments to M, L, C and Z.
func Normalize(segs []Segment) []Segment {
	out := make([]Segment, 0, len(segs))
	var cur, start, ctrl Point
	var prev byte
	for _, seg := range segs {
		a := seg.Args
		switch seg.Cmd {
		case 'M':
			cur = Point{a[0], a[1]}
			start = cur
			out = append(out, Segment{Cmd: 'M', Args: []float64{cur.X, cur.Y}})
		case 'L', 'H', 'V':
			switch seg.Cmd {
			case 'L':
				cur = Point{a[0], a[1]}
			case 'H':
				cur.X = a[0]
			case 'V':
				cur.Y = a[0]
			}
			out = append(out, Segment{Cmd: 'L', Args: []float64{cur.X, cur.Y}})
		case 'C':
			out = append(out, Segment{Cmd: 'C', Args: slices.Clone(a)})
			ctrl = Point{a[2], a[3]}
			cur = Point{a[4], a[5]}
		case 'S':
			c1 := cur
			if prev == 'C' || prev == 'S' {
				c1 = Point{2*cur.X - ctrl.X, 2*cur.Y - ctrl.Y}
			}
			out = append(out, Segment{Cmd: 'C', Args: []float64{c1.X, c1.Y, a[0], a[1], a[2], a[3]}})
			ctrl = Point{a[0], a[1]}
			cur = Point{a[2], a[3]}
		case 'Q', 'T':
			q := cur
			end := Point{a[len(a)-2], a[len(a)-1]}
			if seg.Cmd == 'Q' {
				q = Point{a[0], a[1]}
			} else if prev == 'Q' || prev == 'T' {
				q = Point{2*cur.X - ctrl.X, 2*cur.Y - ctrl.Y}
			}
			out = append(out, Segment{Cmd: 'C', Args: quadToCubic(cur, q, end)})
			ctrl = q
			cur = end
		case 'A':
			end := Point{a[5], a[6]}
			if a[0] == 0 || a[1] == 0 {
				out = append(out, Segment{Cmd: 'L', Args: []float64{end.X, end.Y}})
			} else if cubics := arcToCubics(cur, a[0], a[1], a[2], a[3] != 0, a[4] != 0, end); cubics != nil {
				for _, c := range cubics {
					out = append(out, Segment{Cmd: 'C', Args: c})
				}
			} else if cur != end {
				out = append(out, Segment{Cmd: 'L', Args: []float64{end.X, end.Y}})
			}
			cur = end
		case 'Z':
			out = append(out, Segment{Cmd: 'Z'})
			cur = start
		}
		prev = seg.Cmd
	}
	return out
}

func quadToCubic(p0, q, p Point) []float64 {
	return []float64{
		p0.X + 2.0/3.0*(q.X-p0.X),
		p0.Y + 2.0/3.0*(q.Y-p0.Y),
		p.X + 2.0/3.0*(q.X-p.X),
		p.Y + 2.0/3.0*(q.Y-p.Y),
		p.X,
		p.Y,
	}
}

// arcToCubics converts an endpoint-parameterized elliptical arc to cubic
// Bézier segments of at most 90 degrees each.
func arcToCubics(p1 Point, rx, ry, phiDeg float64, large, sweep bool, p2 Point) [][]float64 {
	if p1 == p2 {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	phi := phiDeg * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	dx, dy := (p1.X-p2.X)/2, (p1.Y-p2.Y)/2
	x1p := cosPhi*dx + sinPhi*dy
	y1p := -sinPhi*dx + cosPhi*dy

	if lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := math.Sqrt(math.Max(0, num/den))
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx
	cx := cosPhi*cxp - sinPhi*cyp + (p1.X+p2.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (p1.Y+p2.Y)/2

	ux, uy := (x1p-cxp)/rx, (y1p-cyp)/ry
	vx, vy := (-x1p-cxp)/rx, (-y1p-cyp)/ry
	theta := vectorAngle(1, 0, ux, uy)
	delta := vectorAngle(ux, uy, vx, vy)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	if math.IsNaN(delta) || math.IsNaN(cx) || math.IsNaN(cy) {
		// Overflowed radii.
		return nil
	}
	n := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	step := delta / float64(n)
	t := 4.0 / 3.0 * math.Tan(step/4)
	toUser := func(u, v float64) (float64, float64) {
		return cx + rx*u*cosPhi - ry*v*sinPhi, cy + rx*u*sinPhi + ry*v*cosPhi
	}

	curves := make([][]float64, 0, n)
	for i := range n {
		a1 := theta + float64(i)*step
		a2 := a1 + step
		c1, s1 := math.Cos(a1), math.Sin(a1)
		c2, s2 := math.Cos(a2), math.Sin(a2)
		x1, y1 := toUser(c1-t*s1, s1+t*c1)
		x2, y2 := toUser(c2+t*s2, s2-t*c2)
		x, y := toUser(c2, s2)
		if i == n-1 {
			x, y = p2.X, p2.Y
		}
		curves = append(curves, []float64{x1, y1, x2, y2, x, y})
	}
	return curves
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}

// curveSamples is the number of points each cubic is flattened to.
const curveSamples = 10

// Flatten converts normalized segments into closed polygons for filling.
// Subpaths with fewer than three points are dropped.
func Flatten(segs []Segment) [][]Point {
	var polys [][]Point
	var cur []Point
	var pos, start Point
	flush := func() {
		if len(cur) >= 3 {
			polys = append(polys, cur)
		}
		cur = nil
	}
	for _, seg := range segs {
		a := seg.Args
		switch seg.Cmd {
		case 'M':
			flush()
			pos = Point{a[0], a[1]}
			start = pos
			cur = []Point{pos}
		case 'L':
			pos = Point{a[0], a[1]}
			cur = append(cur, pos)
		case 'C':
			c1, c2, end := Point{a[0], a[1]}, Point{a[2], a[3]}, Point{a[4], a[5]}
			for i := 1; i <= curveSamples; i++ {
				cur = append(cur, cubicAt(pos, c1, c2, end, float64(i)/curveSamples))
			}
			pos = end
		case 'Z':
			flush()
			pos = start
			cur = []Point{start}
		}
	}
	flush()
	return polys
}

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return Point{
		a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}
