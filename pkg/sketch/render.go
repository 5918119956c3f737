package sketch

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/sketchviz/pkg/rough"
	"github.com/matzehuels/sketchviz/pkg/svg"
)

// AttrSketch marks a group produced by the renderer. Its value is the tag of
// the replaced element.
const AttrSketch = "data-sketch"

// Report describes what a render did.
type Report struct {
	Replaced int     // primitives redrawn
	Skipped  []error // UNSUPPORTED_GEOMETRY errors, one per primitive left as-is
}

// Render returns a copy of doc with every supported primitive redrawn.
func Render(doc *svg.Element, style Style, seed uint64) *svg.Element {
	out, _ := RenderWithReport(doc, style, seed)
	return out
}

// RenderWithReport is [Render] plus a report of replaced and skipped
// primitives.
func RenderWithReport(doc *svg.Element, style Style, seed uint64) (*svg.Element, Report) {
	r := &renderer{gen: rough.New(seed), style: style}
	return r.rewrite(doc), r.report
}

type renderer struct {
	gen    *rough.Generator
	style  Style
	report Report
}

func (r *renderer) rewrite(e *svg.Element) *svg.Element {
	p, ok, err := FromElement(e)
	if ok {
		if err == nil {
			var g *svg.Element
			if g, err = r.draw(e, p); err == nil {
				r.report.Replaced++
				return g
			}
		}
		r.report.Skipped = append(r.report.Skipped, err)
		return e.Clone()
	}

	out := &svg.Element{Name: e.Name, Space: e.Space, Attrs: slices.Clone(e.Attrs)}
	if len(e.Children) > 0 {
		out.Children = make([]svg.Node, len(e.Children))
		for i, child := range e.Children {
			if el, isEl := child.(*svg.Element); isEl {
				out.Children[i] = r.rewrite(el)
			} else {
				out.Children[i] = child
			}
		}
	}
	return out
}

func (r *renderer) draw(e *svg.Element, p Primitive) (*svg.Element, error) {
	stroke := e.AttrOr("stroke", "black")
	fill := e.AttrOr("fill", "none")
	width := strokeWidth(e)

	d, err := p.Draw(r.gen, r.style.options(width, visible(fill)))
	if err != nil {
		return nil, err
	}

	group := &svg.Element{Name: svg.Name{Prefix: e.Name.Prefix, Local: "g"}, Space: e.Space}
	geometry := geometryAttrs[p.Tag()]
	for _, a := range e.Attrs {
		if a.Name.Prefix == "" && slices.Contains(geometry, a.Name.Local) {
			continue
		}
		group.Attrs = append(group.Attrs, a)
	}
	group.SetAttr(AttrSketch, p.Tag())

	// Children of a shape are metadata such as <title>; they stay first so
	// tooltips keep working.
	for _, child := range e.Children {
		if el, ok := child.(*svg.Element); ok {
			group.Append(el.Clone())
		} else {
			group.Append(child)
		}
	}

	for _, set := range d.Sets {
		path := &svg.Element{Name: svg.Name{Prefix: e.Name.Prefix, Local: "path"}, Space: e.Space}
		path.SetAttr("d", set.PathData())
		switch set.Type {
		case rough.SetStroke:
			path.SetAttr("stroke", stroke)
			path.SetAttr("stroke-width", rough.FormatNumber(width))
			path.SetAttr("fill", "none")
		case rough.SetFillSketch:
			path.SetAttr("stroke", fill)
			path.SetAttr("stroke-width", rough.FormatNumber(d.Options.FillWeight))
			path.SetAttr("fill", "none")
		case rough.SetFillPath:
			path.SetAttr("stroke", "none")
			path.SetAttr("stroke-width", "0")
			path.SetAttr("fill", fill)
		}
		group.Append(path)
	}
	return group, nil
}

// strokeWidth reads stroke-width, falling back to 1 for absent, zero or
// unparsable values.
func strokeWidth(e *svg.Element) float64 {
	v, _ := e.Attr("stroke-width")
	w, err := parseLength(strings.TrimSpace(v))
	if err != nil || w <= 0 {
		return 1
	}
	return w
}

func visible(fill string) bool {
	switch strings.ToLower(strings.TrimSpace(fill)) {
	case "", "none", "transparent":
		return false
	}
	return true
}

// Count tallies the supported primitives in a tree by tag.
func Count(root *svg.Element) map[string]int {
	counts := make(map[string]int)
	for el := range root.All() {
		if Supported(el.Name.Local) && el.Is(el.Name.Local) {
			counts[el.Name.Local]++
		}
	}
	return counts
}

// Summary formats counts as "path=3 polygon=1" in tag order.
func Summary(counts map[string]int) string {
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = tag + "=" + strconv.Itoa(counts[tag])
	}
	return strings.Join(parts, " ")
}
