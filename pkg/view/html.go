package view

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
)

// voidElements have no closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// HTML renders n to a string. A nil node renders as "".
func HTML(n *Node) string {
	var buf bytes.Buffer
	// bytes.Buffer never fails
	_ = RenderHTML(&buf, n)
	return buf.String()
}

// RenderHTML streams n to w.
func RenderHTML(w io.Writer, n *Node) error {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case KindText:
		_, err := io.WriteString(w, escapeHTML(n.Text))
		return err
	case KindRaw:
		_, err := io.WriteString(w, n.Text)
		return err
	case KindFragment:
		return renderChildren(w, n.Children)
	case KindElement:
		return renderElement(w, n)
	default:
		return fmt.Errorf("view: unknown node kind %d", n.Kind)
	}
}

func renderElement(w io.Writer, n *Node) error {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(n.Tag)

	names := make([]string, 0, len(n.Attrs))
	for name := range n.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		switch v := n.Attrs[name].(type) {
		case nil:
			continue
		case bool:
			if v {
				b.WriteByte(' ')
				b.WriteString(name)
			}
		default:
			b.WriteByte(' ')
			b.WriteString(name)
			b.WriteString(`="`)
			b.WriteString(escapeAttr(fmt.Sprint(v)))
			b.WriteByte('"')
		}
	}
	b.WriteByte('>')

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	if voidElements[n.Tag] {
		return nil
	}
	if err := renderChildren(w, n.Children); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</"+n.Tag+">")
	return err
}

func renderChildren(w io.Writer, children []*Node) error {
	for _, c := range children {
		if err := RenderHTML(w, c); err != nil {
			return err
		}
	}
	return nil
}

var (
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

func escapeHTML(s string) string { return htmlEscaper.Replace(s) }
func escapeAttr(s string) string { return attrEscaper.Replace(s) }
