package svg

import (
	"strings"

	"github.com/matzehuels/sketchviz/pkg/errors"
)

// Validation failure reasons that are not parser messages.
const (
	ReasonEmpty       = "empty"
	ReasonMissingRoot = "missing svg root"
)

// Validate parses text as compiler output and returns its svg root.
//
// Whitespace-only input fails with reason [ReasonEmpty], malformed XML with
// the parser's syntax message and a document whose root is not an svg
// element in the SVG namespace with [ReasonMissingRoot]. All failures carry
// [errors.ErrCodeInvalidSVG].
//
// Validate is idempotent: validating the String() of a returned root yields
// a structurally equal tree.
func Validate(text string) (*Element, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New(errors.ErrCodeInvalidSVG, ReasonEmpty)
	}
	root, err := Parse([]byte(text))
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidSVG, "%s", err.Error())
	}
	if root.Name.Local != "svg" || root.Space != Namespace {
		return nil, errors.New(errors.ErrCodeInvalidSVG, ReasonMissingRoot)
	}
	return root, nil
}

// Equal reports whether two trees are structurally equal: same names,
// namespaces, attributes in order and children in order.
func Equal(a, b *Element) bool {
	if a.Name != b.Name || a.Space != b.Space || len(a.Attrs) != len(b.Attrs) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Attrs {
		if a.Attrs[i] != b.Attrs[i] {
			return false
		}
	}
	for i := range a.Children {
		switch ca := a.Children[i].(type) {
		case *Element:
			cb, ok := b.Children[i].(*Element)
			if !ok || !Equal(ca, cb) {
				return false
			}
		default:
			if a.Children[i] != b.Children[i] {
				return false
			}
		}
	}
	return true
}
