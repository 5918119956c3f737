package pipeline

import (
	"slices"
	"strings"

	"github.com/matzehuels/sketchviz/pkg/config"
	"github.com/matzehuels/sketchviz/pkg/sketch"
	"github.com/matzehuels/sketchviz/pkg/svg"
)

// ApplyClasses returns a copy of doc with CSS classes added for styling:
// the root gets classes.SVG, Graphviz node and edge groups get classes.Node
// and classes.Edge, and the first polygon of the top graph group (the
// background) gets classes.Background. Empty class names are skipped.
func ApplyClasses(doc *svg.Element, classes config.CSSClasses) *svg.Element {
	out := doc.Clone()
	addClass(out, classes.SVG)

	background := false
	for el := range out.All() {
		if !el.Is("g") {
			continue
		}
		groupClasses := strings.Fields(el.AttrOr("class", ""))
		switch {
		case slices.Contains(groupClasses, "node"):
			addClass(el, classes.Node)
		case slices.Contains(groupClasses, "edge"):
			addClass(el, classes.Edge)
		case slices.Contains(groupClasses, "graph") && !background:
			if bg := firstBackground(el); bg != nil {
				addClass(bg, classes.Background)
				background = true
			}
		}
	}
	return out
}

// firstBackground returns the first direct child of g that draws the
// background: a polygon, or a group the renderer made from one.
func firstBackground(g *svg.Element) *svg.Element {
	for _, child := range g.Children {
		el, ok := child.(*svg.Element)
		if !ok {
			continue
		}
		if el.Is("polygon") || (el.Is("g") && el.AttrOr(sketch.AttrSketch, "") == "polygon") {
			return el
		}
	}
	return nil
}

func addClass(el *svg.Element, class string) {
	if class == "" {
		return
	}
	existing := strings.Fields(el.AttrOr("class", ""))
	if slices.Contains(existing, class) {
		return
	}
	el.SetAttr("class", strings.Join(append(existing, class), " "))
}
