package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// Parse reads a complete XML document and returns its root element.
//
// The parse is strict: the document must contain exactly one root element,
// every end tag must match its start tag, attribute names must be unique and
// every prefix must be bound. Failures are returned as *xml.SyntaxError.
// Processing instructions, doctype declarations and comments outside the
// root are discarded.
//
// Parse does not check that the root is an svg element; see [Validate].
func Parse(data []byte) (*Element, error) {
	p := &parser{d: xml.NewDecoder(bytes.NewReader(data))}
	p.d.Strict = true
	return p.run()
}

type parser struct {
	d      *xml.Decoder
	root   *Element
	stack  []*Element
	scopes []map[string]string
}

func (p *parser) run() (*Element, error) {
	for {
		tok, err := p.d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := p.token(tok); err != nil {
			return nil, err
		}
	}
	if len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		return nil, p.syntaxError("unexpected EOF: element <%s> not closed", top.Name)
	}
	if p.root == nil {
		return nil, p.syntaxError("no root element")
	}
	return p.root, nil
}

func (p *parser) token(tok xml.Token) error {
	switch t := tok.(type) {
	case xml.StartElement:
		return p.start(t)
	case xml.EndElement:
		return p.end(t)
	case xml.CharData:
		if len(p.stack) == 0 {
			if len(bytes.TrimSpace(t)) > 0 {
				return p.syntaxError("text outside root element")
			}
			return nil
		}
		p.top().Children = append(p.top().Children, Text(string(t)))
	case xml.Comment:
		if len(p.stack) > 0 {
			p.top().Children = append(p.top().Children, Comment(string(t)))
		}
	}
	return nil
}

func (p *parser) start(t xml.StartElement) error {
	if len(p.stack) == 0 && p.root != nil {
		name := Name{Prefix: t.Name.Space, Local: t.Name.Local}
		return p.syntaxError("multiple root elements: <%s> after <%s>", name, p.root.Name)
	}

	scope := make(map[string]string)
	seen := make(map[Name]bool, len(t.Attr))
	el := &Element{Name: Name{Prefix: t.Name.Space, Local: t.Name.Local}}
	for _, a := range t.Attr {
		name := Name{Prefix: a.Name.Space, Local: a.Name.Local}
		if seen[name] {
			return p.syntaxError("duplicate attribute %s on <%s>", name, el.Name)
		}
		seen[name] = true
		switch {
		case name.Prefix == "" && name.Local == "xmlns":
			scope[""] = a.Value
		case name.Prefix == "xmlns":
			scope[name.Local] = a.Value
		}
		el.Attrs = append(el.Attrs, Attr{Name: name, Value: a.Value})
	}
	p.scopes = append(p.scopes, scope)

	space, ok := p.resolve(el.Name.Prefix)
	if !ok {
		return p.syntaxError("unbound prefix %q on <%s>", el.Name.Prefix, el.Name)
	}
	el.Space = space
	for _, a := range el.Attrs {
		if a.Name.Prefix == "" || a.Name.Prefix == "xmlns" {
			continue
		}
		if _, ok := p.resolve(a.Name.Prefix); !ok {
			return p.syntaxError("unbound prefix %q on attribute %s", a.Name.Prefix, a.Name)
		}
	}

	if len(p.stack) == 0 {
		p.root = el
	} else {
		p.top().Children = append(p.top().Children, el)
	}
	p.stack = append(p.stack, el)
	return nil
}

func (p *parser) end(t xml.EndElement) error {
	name := Name{Prefix: t.Name.Space, Local: t.Name.Local}
	if len(p.stack) == 0 {
		return p.syntaxError("unexpected end element </%s>", name)
	}
	top := p.top()
	if top.Name != name {
		return p.syntaxError("element <%s> closed by </%s>", top.Name, name)
	}
	p.stack = p.stack[:len(p.stack)-1]
	p.scopes = p.scopes[:len(p.scopes)-1]
	return nil
}

func (p *parser) top() *Element {
	return p.stack[len(p.stack)-1]
}

// resolve looks prefix up through the open scopes, innermost first. The
// default namespace may be unbound; a named prefix may not.
func (p *parser) resolve(prefix string) (string, bool) {
	if prefix == "xml" {
		return xmlNamespace, true
	}
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if uri, ok := p.scopes[i][prefix]; ok {
			return uri, true
		}
	}
	return "", prefix == ""
}

func (p *parser) syntaxError(format string, args ...any) *xml.SyntaxError {
	line, _ := p.d.InputPos()
	return &xml.SyntaxError{Msg: fmt.Sprintf(format, args...), Line: line}
}
