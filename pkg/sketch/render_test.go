package sketch

import (
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/sketchviz/pkg/errors"
	"github.com/matzehuels/sketchviz/pkg/rough"
	"github.com/matzehuels/sketchviz/pkg/svg"
)

const ns = `xmlns="http://www.w3.org/2000/svg"`

func mustValidate(t *testing.T, s string) *svg.Element {
	t.Helper()
	root, err := svg.Validate(s)
	if err != nil {
		t.Fatalf("Validate(%q): %v", s, err)
	}
	return root
}

func children(e *svg.Element) []*svg.Element {
	var out []*svg.Element
	for _, c := range e.Children {
		if el, ok := c.(*svg.Element); ok {
			out = append(out, el)
		}
	}
	return out
}

func TestRenderCircleRoughnessZero(t *testing.T) {
	doc := mustValidate(t, `<svg `+ns+`><circle cx="10" cy="10" r="5"/></svg>`)
	style := DefaultStyle()
	style.Roughness = 0

	out := Render(doc, style, 1)
	g := children(out)[0]
	if g.Name.Local != "g" {
		t.Fatalf("circle replaced by <%s>, want <g>", g.Name)
	}
	if v, _ := g.Attr(AttrSketch); v != "circle" {
		t.Errorf("%s = %q, want circle", AttrSketch, v)
	}

	passes := children(g)
	if len(passes) != 2 {
		t.Fatalf("got %d paths, want 2 stroke passes", len(passes))
	}
	for i, p := range passes {
		if p.Name.Local != "path" {
			t.Errorf("pass %d is <%s>", i, p.Name)
		}
		for attr, want := range map[string]string{"stroke": "black", "stroke-width": "1", "fill": "none"} {
			if v, _ := p.Attr(attr); v != want {
				t.Errorf("pass %d %s = %q, want %q", i, attr, v, want)
			}
		}
		if d, _ := p.Attr("d"); !strings.HasPrefix(d, "M") {
			t.Errorf("pass %d d = %q", i, d)
		}
	}
}

func TestRenderPreservesPresentation(t *testing.T) {
	doc := mustValidate(t, `<svg `+ns+`><rect class="node" x="1" y="2" width="30" height="20" stroke="red" fill="blue" stroke-width="2"/></svg>`)
	g := children(Render(doc, DefaultStyle(), 3))[0]

	for _, geom := range []string{"x", "y", "width", "height"} {
		if _, ok := g.Attr(geom); ok {
			t.Errorf("geometry attribute %s copied onto the group", geom)
		}
	}
	if v, _ := g.Attr("class"); v != "node" {
		t.Errorf("class = %q, want node", v)
	}

	paths := children(g)
	if len(paths) != 3 {
		t.Fatalf("got %d paths, want fill + 2 strokes", len(paths))
	}
	hachure := paths[0]
	if v, _ := hachure.Attr("stroke"); v != "blue" {
		t.Errorf("hachure stroke = %q, want the fill color", v)
	}
	if v, _ := hachure.Attr("stroke-width"); v != "1" {
		t.Errorf("hachure stroke-width = %q, want half the stroke width", v)
	}
	for _, p := range paths[1:] {
		if v, _ := p.Attr("stroke"); v != "red" {
			t.Errorf("outline stroke = %q, want red", v)
		}
		if v, _ := p.Attr("stroke-width"); v != "2" {
			t.Errorf("outline stroke-width = %q, want 2", v)
		}
	}
}

func TestRenderSolidFill(t *testing.T) {
	doc := mustValidate(t, `<svg `+ns+`><polygon points="0,0 10,0 10,10" fill="#ff0000"/></svg>`)
	style := DefaultStyle()
	style.FillStyle = rough.FillSolid

	fill := children(children(Render(doc, style, 1))[0])[0]
	if v, _ := fill.Attr("fill"); v != "#ff0000" {
		t.Errorf("fill = %q", v)
	}
	if v, _ := fill.Attr("stroke"); v != "none" {
		t.Errorf("stroke = %q, want none", v)
	}
}

func TestRenderTransparentFillSkipped(t *testing.T) {
	for _, fill := range []string{"none", "transparent", ""} {
		doc := mustValidate(t, `<svg `+ns+`><ellipse rx="20" ry="10" fill="`+fill+`"/></svg>`)
		if n := len(children(children(Render(doc, DefaultStyle(), 1))[0])); n != 2 {
			t.Errorf("fill=%q: got %d paths, want 2", fill, n)
		}
	}
}

func TestRenderDoesNotMutateInput(t *testing.T) {
	doc := mustValidate(t, graphvizDoc)
	before := doc.String()
	_ = Render(doc, DefaultStyle(), 9)
	if doc.String() != before {
		t.Error("Render modified its input")
	}
}

func TestRenderDeterministic(t *testing.T) {
	doc := mustValidate(t, graphvizDoc)
	a := Render(doc, DefaultStyle(), 5).String()
	b := Render(doc, DefaultStyle(), 5).String()
	c := Render(doc, DefaultStyle(), 6).String()
	if a != b {
		t.Error("same seed produced different output")
	}
	if a == c {
		t.Error("different seeds produced identical output")
	}
}

func TestRenderNeverShrinks(t *testing.T) {
	for _, style := range []Style{DefaultStyle(), {Roughness: 0}, {Roughness: 4, Bowing: 3, FillStyle: rough.FillSolid}} {
		doc := mustValidate(t, graphvizDoc)
		in := doc.Stats()

		once := Render(doc, style, 1)
		first := once.Stats()
		if first.Elements < in.Elements {
			t.Errorf("elements %d -> %d", in.Elements, first.Elements)
		}
		if first.Attributes <= in.Attributes {
			t.Errorf("attributes %d -> %d, want strictly more", in.Attributes, first.Attributes)
		}

		twice := Render(once, style, 2).Stats()
		if twice.Elements < first.Elements || twice.Attributes < first.Attributes {
			t.Errorf("second render shrank the document: %+v -> %+v", first, twice)
		}

		revalidated := mustValidate(t, once.String())
		if !svg.Equal(revalidated, once) {
			t.Error("rendered output does not round-trip through Validate")
		}
	}
}

func TestRenderPassThrough(t *testing.T) {
	doc := mustValidate(t, `<svg `+ns+`><title>G</title><!-- c --><text x="1" y="2">a &amp; b</text><image href="x.png"/></svg>`)
	out, report := RenderWithReport(doc, DefaultStyle(), 1)
	if out.String() != doc.String() {
		t.Errorf("document without primitives changed:\n%s\n%s", doc, out)
	}
	if report.Replaced != 0 || len(report.Skipped) != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestRenderUnsupportedGeometry(t *testing.T) {
	doc := mustValidate(t, `<svg `+ns+`><rect width="abc" height="1"/><circle r="2"/></svg>`)
	out, report := RenderWithReport(doc, DefaultStyle(), 1)

	if report.Replaced != 1 || len(report.Skipped) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if !errors.Is(report.Skipped[0], errors.ErrCodeUnsupportedGeometry) {
		t.Errorf("skip error = %v", report.Skipped[0])
	}
	kids := children(out)
	if kids[0].String() != `<rect width="abc" height="1"/>` {
		t.Errorf("unsupported rect changed: %s", kids[0])
	}
	if kids[1].Name.Local != "g" {
		t.Errorf("valid circle not replaced: %s", kids[1])
	}
}

func TestRenderHugeGeometry(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		replaced int
	}{
		{"huge circle", `<circle r="1e200"/>`, 1},
		{"huge filled rect", `<rect width="1e17" height="1e17" fill="red"/>`, 1},
		{"far filled rect", `<rect x="1e17" y="1e17" width="1024" height="1024" fill="red"/>`, 1},
		{"infinite radius", `<circle r="Inf"/>`, 0},
		{"NaN width", `<rect width="NaN" height="1" fill="red"/>`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustValidate(t, `<svg `+ns+`>`+tt.markup+`</svg>`)
			done := make(chan Report, 1)
			go func() {
				_, report := RenderWithReport(doc, DefaultStyle(), 1)
				done <- report
			}()

			select {
			case report := <-done:
				if report.Replaced != tt.replaced {
					t.Errorf("Replaced = %d, want %d", report.Replaced, tt.replaced)
				}
				if tt.replaced == 0 && (len(report.Skipped) != 1 || !errors.Is(report.Skipped[0], errors.ErrCodeUnsupportedGeometry)) {
					t.Errorf("Skipped = %v, want one UNSUPPORTED_GEOMETRY", report.Skipped)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("render did not finish")
			}
		})
	}
}

func TestRenderKeepsPrefixAndTitle(t *testing.T) {
	doc := mustValidate(t, `<s:svg xmlns:s="http://www.w3.org/2000/svg"><s:rect width="4" height="4"><s:title>tip</s:title></s:rect></s:svg>`)
	g := children(Render(doc, DefaultStyle(), 1))[0]
	if g.Name.String() != "s:g" || g.Space != svg.Namespace {
		t.Errorf("group = %s in %q", g.Name, g.Space)
	}
	kids := children(g)
	if kids[0].Name.Local != "title" {
		t.Errorf("first child = %s, want title", kids[0].Name)
	}
	for _, k := range kids[1:] {
		if k.Name.String() != "s:path" {
			t.Errorf("pass = %s, want s:path", k.Name)
		}
	}
}

func TestRenderIgnoresForeignNamespace(t *testing.T) {
	doc := mustValidate(t, `<svg `+ns+` xmlns:x="urn:x"><x:rect width="1" height="1"/></svg>`)
	out := Render(doc, DefaultStyle(), 1)
	if out.String() != doc.String() {
		t.Errorf("foreign rect rewritten: %s", out)
	}
}

func TestCountAndSummary(t *testing.T) {
	doc := mustValidate(t, graphvizDoc)
	counts := Count(doc)
	if counts["polygon"] != 2 || counts["ellipse"] != 2 || counts["path"] != 1 {
		t.Errorf("Count() = %v", counts)
	}
	if got := Summary(counts); got != "ellipse=2 path=1 polygon=2" {
		t.Errorf("Summary() = %q", got)
	}
}

const graphvizDoc = `<svg width="62pt" height="116pt" viewBox="0 0 62 116" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
<g id="graph0" class="graph" transform="translate(4 112)">
<title>G</title>
<polygon fill="white" stroke="none" points="-4,4 -4,-112 58,-112 58,4 -4,4"/>
<g id="node1" class="node">
<title>a</title>
<ellipse fill="none" stroke="black" cx="27" cy="-90" rx="27" ry="18"/>
<text text-anchor="middle" x="27" y="-85.8">a</text>
</g>
<g id="node2" class="node">
<title>b</title>
<ellipse fill="none" stroke="black" cx="27" cy="-18" rx="27" ry="18"/>
<text text-anchor="middle" x="27" y="-13.8">b</text>
</g>
<g id="edge1" class="edge">
<title>a&#45;&gt;b</title>
<path fill="none" stroke="black" d="M27,-71.7C27,-63.98 27,-54.71 27,-46.11"/>
<polygon fill="black" stroke="black" points="30.5,-46.1 27,-36.1 23.5,-46.1 30.5,-46.1"/>
</g>
</g>
</svg>`
