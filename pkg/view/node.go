package view

import "fmt"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <span>, etc.
	KindText                 // Escaped text
	KindFragment             // Children without a wrapper
	KindRaw                  // Unescaped HTML
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// Attrs holds element attributes. Boolean true renders the bare attribute
// name, false and nil omit it.
type Attrs map[string]any

// Node is a render tree node.
type Node struct {
	Kind     Kind
	Tag      string
	Attrs    Attrs
	Children []*Node
	Text     string
}

// El creates an element. Nil children are dropped.
func El(tag string, attrs Attrs, children ...*Node) *Node {
	return &Node{
		Kind:     KindElement,
		Tag:      tag,
		Attrs:    attrs,
		Children: compact(children),
	}
}

// Text creates an escaped text node.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// Textf creates a text node from a format string.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// Fragment groups children without a wrapper element.
func Fragment(children ...*Node) *Node {
	return &Node{Kind: KindFragment, Children: compact(children)}
}

// Raw inserts s without escaping. Only use it for trusted markup.
func Raw(s string) *Node {
	return &Node{Kind: KindRaw, Text: s}
}

func Div(attrs Attrs, children ...*Node) *Node    { return El("div", attrs, children...) }
func Span(attrs Attrs, children ...*Node) *Node   { return El("span", attrs, children...) }
func P(attrs Attrs, children ...*Node) *Node      { return El("p", attrs, children...) }
func H1(attrs Attrs, children ...*Node) *Node     { return El("h1", attrs, children...) }
func Ul(attrs Attrs, children ...*Node) *Node     { return El("ul", attrs, children...) }
func Li(attrs Attrs, children ...*Node) *Node     { return El("li", attrs, children...) }
func Button(attrs Attrs, children ...*Node) *Node { return El("button", attrs, children...) }

func compact(nodes []*Node) []*Node {
	if len(nodes) == 0 {
		return nil
	}
	out := nodes[:0:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
