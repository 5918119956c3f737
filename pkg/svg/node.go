package svg

import (
	"iter"
	"slices"
)

// Namespace is the SVG namespace URI.
const Namespace = "http://www.w3.org/2000/svg"

// XLinkNamespace is the XLink namespace URI used by href attributes in
// Graphviz output.
const XLinkNamespace = "http://www.w3.org/1999/xlink"

// Node is a child of an [Element]: *Element, Text or Comment.
type Node interface {
	node()
}

// Text is character data. It is stored unescaped.
type Text string

// Comment is the content of an XML comment, without the delimiters.
type Comment string

func (Text) node()     {}
func (Comment) node()  {}
func (*Element) node() {}

// Name is a possibly prefixed XML name as written in the source.
type Name struct {
	Prefix string
	Local  string
}

// String returns the qualified name ("xlink:href", "svg").
func (n Name) String() string {
	if n.Prefix == "" {
		return n.Local
	}
	return n.Prefix + ":" + n.Local
}

// Attr is a single attribute. Order is significant and preserved.
type Attr struct {
	Name  Name
	Value string
}

// Element is an XML element in an SVG document.
type Element struct {
	Name     Name
	Space    string // resolved namespace URI ("" when unbound)
	Attrs    []Attr
	Children []Node
}

// NewElement creates an element with the given local name in space.
func NewElement(space, local string) *Element {
	return &Element{Name: Name{Local: local}, Space: space}
}

// Is reports whether e has the given local name and lives in the SVG
// namespace or in no namespace at all.
func (e *Element) Is(local string) bool {
	return e.Name.Local == local && (e.Space == Namespace || e.Space == "")
}

// Attr returns the value of the unprefixed attribute named local.
func (e *Element) Attr(local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Prefix == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the value of the attribute named local, or def when the
// attribute is absent or empty.
func (e *Element) AttrOr(local, def string) string {
	if v, ok := e.Attr(local); ok && v != "" {
		return v
	}
	return def
}

// SetAttr sets an unprefixed attribute, replacing an existing value in place
// or appending a new attribute at the end.
func (e *Element) SetAttr(local, value string) {
	for i, a := range e.Attrs {
		if a.Name.Prefix == "" && a.Name.Local == local {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: Name{Local: local}, Value: value})
}

// Append adds children to e and returns e for chaining.
func (e *Element) Append(children ...Node) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// Clone returns a deep copy of e.
func (e *Element) Clone() *Element {
	c := &Element{
		Name:  e.Name,
		Space: e.Space,
		Attrs: slices.Clone(e.Attrs),
	}
	if len(e.Children) > 0 {
		c.Children = make([]Node, len(e.Children))
		for i, child := range e.Children {
			if el, ok := child.(*Element); ok {
				c.Children[i] = el.Clone()
			} else {
				c.Children[i] = child
			}
		}
	}
	return c
}

// All yields e and every descendant element in document order.
func (e *Element) All() iter.Seq[*Element] {
	return func(yield func(*Element) bool) {
		e.walk(yield)
	}
}

func (e *Element) walk(yield func(*Element) bool) bool {
	if !yield(e) {
		return false
	}
	for _, child := range e.Children {
		if el, ok := child.(*Element); ok {
			if !el.walk(yield) {
				return false
			}
		}
	}
	return true
}

// Count returns how many elements in the tree rooted at e (including e)
// satisfy Is(local).
func (e *Element) Count(local string) int {
	n := 0
	for el := range e.All() {
		if el.Is(local) {
			n++
		}
	}
	return n
}

// Stats summarizes the size of a tree.
type Stats struct {
	Elements   int
	Attributes int
}

// Stats counts elements and attributes in the tree rooted at e.
func (e *Element) Stats() Stats {
	var s Stats
	for el := range e.All() {
		s.Elements++
		s.Attributes += len(el.Attrs)
	}
	return s
}
