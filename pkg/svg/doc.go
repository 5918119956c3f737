// Package svg provides an in-memory model of SVG documents.
//
// # Overview
//
// A document is a tree of [Element] values. Each element keeps its tag name
// (with the prefix it was written with), the namespace URI that prefix
// resolves to, an ordered attribute list and an ordered list of children.
// Children are elements, [Text] or [Comment] nodes.
//
// Namespace declarations (xmlns, xmlns:xlink, ...) are stored as ordinary
// attributes, so a parsed document serializes back to equivalent markup and a
// validated root can be embedded into another document on its own.
//
// # Parsing and Validation
//
// [Parse] is a strict well-formedness parse: mismatched or unclosed tags,
// more than one root element and unbound prefixes are syntax errors.
// [Validate] additionally requires the root to be an svg element in the SVG
// namespace and reports failures as INVALID_SVG errors:
//
//	root, err := svg.Validate(string(output))
//	if err != nil {
//	    return err // errors.UserMessage(err) is "empty", "missing svg root", ...
//	}
//	fmt.Println(root.String())
//
// # Immutability
//
// Nothing in this package mutates a tree behind the caller's back. Stages
// that transform a document (see package sketch) build a new tree with
// [Element.Clone] and the constructors here rather than editing the input.
package svg
