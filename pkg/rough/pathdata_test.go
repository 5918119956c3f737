package rough

import (
	"math"
	"reflect"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Segment
	}{
		{
			name: "compact negative",
			in:   "M0,0L10-5",
			want: []Segment{{'M', []float64{0, 0}}, {'L', []float64{10, -5}}},
		},
		{
			name: "implicit lineto",
			in:   "M1 2 3 4",
			want: []Segment{{'M', []float64{1, 2}}, {'L', []float64{3, 4}}},
		},
		{
			name: "implicit relative lineto",
			in:   "m1 2 3 4",
			want: []Segment{{'m', []float64{1, 2}}, {'l', []float64{3, 4}}},
		},
		{
			name: "chained decimals",
			in:   "M0.5.5",
			want: []Segment{{'M', []float64{0.5, 0.5}}},
		},
		{
			name: "exponent",
			in:   "M1e2-3",
			want: []Segment{{'M', []float64{100, -3}}},
		},
		{
			name: "compact arc flags",
			in:   "M0 0a1 1 0 00.5.5",
			want: []Segment{{'M', []float64{0, 0}}, {'a', []float64{1, 1, 0, 0, 0, 0.5, 0.5}}},
		},
		{
			name: "repeated curve",
			in:   "M0 0 C1 1 2 2 3 3 4 4 5 5 6 6 z",
			want: []Segment{
				{'M', []float64{0, 0}},
				{'C', []float64{1, 1, 2, 2, 3, 3}},
				{'C', []float64{4, 4, 5, 5, 6, 6}},
				{'z', nil},
			},
		},
		{
			name: "empty",
			in:   "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			if err != nil {
				t.Fatalf("ParsePath(%q) error: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePath(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, in := range []string{
		"L1 2",
		"x",
		"M1",
		"M0 0 A1 1 0 2 0 1 1",
		"M0 0 Z 5",
		"M0 0 L1 .",
	} {
		if _, err := ParsePath(in); err == nil {
			t.Errorf("ParsePath(%q) succeeded, want error", in)
		}
	}
}

func mustNormalize(t *testing.T, d string) []Segment {
	t.Helper()
	segs, err := ParsePath(d)
	if err != nil {
		t.Fatal(err)
	}
	return Normalize(Absolutize(segs))
}

func near(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestAbsolutize(t *testing.T) {
	segs, err := ParsePath("m10 10 l5 5 h5 v-5 z m1 1 c1 1 2 2 3 3")
	if err != nil {
		t.Fatal(err)
	}
	want := []Segment{
		{'M', []float64{10, 10}},
		{'L', []float64{15, 15}},
		{'H', []float64{20}},
		{'V', []float64{10}},
		{'Z', nil},
		{'M', []float64{11, 11}},
		{'C', []float64{12, 12, 13, 13, 14, 14}},
	}
	if got := Absolutize(segs); !reflect.DeepEqual(got, want) {
		t.Errorf("Absolutize() = %v, want %v", got, want)
	}
}

func TestNormalizeLines(t *testing.T) {
	got := mustNormalize(t, "M0 0 H10 V10 h-10 z")
	want := []Segment{
		{'M', []float64{0, 0}},
		{'L', []float64{10, 0}},
		{'L', []float64{10, 10}},
		{'L', []float64{0, 10}},
		{'Z', nil},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}
}

func TestNormalizeCurves(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want []float64 // args of the last segment
	}{
		{"quadratic", "M0 0 Q3 3 6 0", []float64{2, 2, 4, 2, 6, 0}},
		{"smooth cubic", "M0 0 C1 1 2 1 3 0 S5 -1 6 0", []float64{4, -1, 5, -1, 6, 0}},
		{"smooth cubic without predecessor", "M0 0 S5 -1 6 0", []float64{0, 0, 5, -1, 6, 0}},
		{"smooth quadratic", "M0 0 Q1 1 2 0 T4 0", []float64{2 + 2.0/3, -2.0 / 3, 4 - 2.0/3, -2.0 / 3, 4, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := mustNormalize(t, tt.d)
			last := segs[len(segs)-1]
			if last.Cmd != 'C' || !near(last.Args, tt.want) {
				t.Errorf("last = %c %v, want C %v", last.Cmd, last.Args, tt.want)
			}
		})
	}
}

func TestNormalizeArc(t *testing.T) {
	segs := mustNormalize(t, "M0 0 A5 5 0 0 1 10 0")
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want M + 2 cubics: %v", len(segs), segs)
	}
	mid, end := segs[1].Args, segs[2].Args
	if !near(mid[4:], []float64{5, -5}) {
		t.Errorf("quarter point = %v, want (5, -5)", mid[4:])
	}
	if end[4] != 10 || end[5] != 0 {
		t.Errorf("end = %v, want exactly (10, 0)", end[4:])
	}
}

func TestNormalizeDegenerateArcs(t *testing.T) {
	segs := mustNormalize(t, "M0 0 A0 5 0 0 1 10 0 A5 5 0 0 1 10 0")
	want := []Segment{{'M', []float64{0, 0}}, {'L', []float64{10, 0}}}
	if !reflect.DeepEqual(segs, want) {
		t.Errorf("Normalize() = %v, want %v", segs, want)
	}
}

func TestNormalizeOverflowingArc(t *testing.T) {
	segs := mustNormalize(t, "M0 0 A1e308 1e308 0 0 1 1e308 -1e308")
	want := []Segment{{'M', []float64{0, 0}}, {'L', []float64{1e308, -1e308}}}
	if !reflect.DeepEqual(segs, want) {
		t.Errorf("Normalize() = %v, want %v", segs, want)
	}
}

func TestNormalizeScalesUndersizedArc(t *testing.T) {
	segs := mustNormalize(t, "M0 0 A1 1 0 0 1 10 0")
	last := segs[len(segs)-1].Args
	if last[4] != 10 || last[5] != 0 {
		t.Errorf("end = %v, want (10, 0)", last[4:])
	}
	for _, s := range segs[1:] {
		for _, v := range s.Args {
			if math.IsNaN(v) {
				t.Fatalf("NaN in %v", s.Args)
			}
		}
	}
}

func TestFlatten(t *testing.T) {
	polys := Flatten(mustNormalize(t, "M0 0 L10 0 L10 10 L0 10 Z M20 20 L21 21"))
	if len(polys) != 1 {
		t.Fatalf("got %d polygons, want 1", len(polys))
	}
	if len(polys[0]) != 4 {
		t.Errorf("got %d points, want 4", len(polys[0]))
	}

	curved := Flatten(mustNormalize(t, "M0 0 C0 10 10 10 10 0"))
	if len(curved) != 1 || len(curved[0]) != 1+curveSamples {
		t.Fatalf("curve flattened to %v", curved)
	}
	if p := curved[0][len(curved[0])-1]; p != (Point{10, 0}) {
		t.Errorf("last sample = %v, want (10, 0)", p)
	}
}
