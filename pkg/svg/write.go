package svg

import (
	"bufio"
	"io"
	"strings"
)

// Header is the XML declaration written by [Document].
const Header = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>` + "\n"

// String serializes e and its subtree.
func (e *Element) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

// WriteTo serializes e to w.
func (e *Element) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}
	e.write(cw)
	if err := cw.w.Flush(); err != nil && cw.err == nil {
		cw.err = err
	}
	return cw.n, cw.err
}

// Document serializes root as a standalone file: XML declaration, markup and
// a trailing newline.
func Document(root *Element) []byte {
	var b strings.Builder
	b.WriteString(Header)
	root.write(&b)
	b.WriteByte('\n')
	return []byte(b.String())
}

type stringWriter interface {
	WriteString(string) (int, error)
}

func (e *Element) write(w stringWriter) {
	w.WriteString("<")
	w.WriteString(e.Name.String())
	for _, a := range e.Attrs {
		w.WriteString(" ")
		w.WriteString(a.Name.String())
		w.WriteString(`="`)
		w.WriteString(attrEscaper.Replace(a.Value))
		w.WriteString(`"`)
	}
	if len(e.Children) == 0 {
		w.WriteString("/>")
		return
	}
	w.WriteString(">")
	for _, child := range e.Children {
		switch c := child.(type) {
		case *Element:
			c.write(w)
		case Text:
			w.WriteString(textEscaper.Replace(string(c)))
		case Comment:
			w.WriteString("<!--")
			w.WriteString(string(c))
			w.WriteString("-->")
		}
	}
	w.WriteString("</")
	w.WriteString(e.Name.String())
	w.WriteString(">")
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		`"`, "&quot;",
		"\n", "&#xA;",
		"\r", "&#xD;",
		"\t", "&#x9;",
	)
)

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) WriteString(s string) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.WriteString(s)
	c.n += int64(n)
	c.err = err
	return n, err
}
