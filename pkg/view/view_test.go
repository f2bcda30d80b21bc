package view

import (
	"errors"
	"testing"
)

func TestHTML(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"nil", nil, ""},
		{"text", Text("hi"), "hi"},
		{"escaped text", Text(`<b>"x"&'y'</b>`), "&lt;b&gt;&quot;x&quot;&amp;&#39;y&#39;&lt;/b&gt;"},
		{"raw", Raw("<b>x</b>"), "<b>x</b>"},
		{"element", Div(nil, Text("1"), Text(","), Text("")), "<div>1,</div>"},
		{
			"sorted attrs",
			Div(Attrs{"id": "a", "class": "b", "hidden": true, "disabled": false, "title": nil}),
			`<div class="b" hidden id="a"></div>`,
		},
		{"attr escaping", Span(Attrs{"title": "a\"b\nc"}), `<span title="a&quot;b&#10;c"></span>`},
		{"void", El("br", nil), "<br>"},
		{"fragment", Fragment(Li(nil, Text("a")), nil, Li(nil, Text("b"))), "<li>a</li><li>b</li>"},
		{"textf", P(nil, Textf("%d items", 3)), "<p>3 items</p>"},
		{"nested", Ul(Attrs{"class": "l"}, Li(nil, Button(nil, Text("go")))), `<ul class="l"><li><button>go</button></li></ul>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTML(tt.node); got != tt.want {
				t.Errorf("HTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRenderHTML_WriterError(t *testing.T) {
	if err := RenderHTML(failWriter{}, Div(nil, Text("x"))); err == nil {
		t.Error("RenderHTML() error = nil, want writer error")
	}
}

func TestRenderHTML_UnknownKind(t *testing.T) {
	if err := RenderHTML(failWriter{}, &Node{Kind: Kind(99)}); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestKind_String(t *testing.T) {
	if KindElement.String() != "Element" || KindRaw.String() != "Raw" || Kind(9).String() != "Unknown" {
		t.Error("unexpected Kind strings")
	}
}
