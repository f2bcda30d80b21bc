package host

import (
	"github.com/vango-dev/streambind/pkg/bind"
	"github.com/vango-dev/streambind/pkg/view"
)

// Component is the interface for renderable components.
type Component interface {
	// Render returns the node tree for the current state.
	Render() *view.Node
}

// WillMounter is called before the first render.
type WillMounter interface {
	WillMount()
}

// DidMounter is called after the first render.
type DidMounter interface {
	DidMount()
}

// PropsReceiver is called with the next props before they replace the
// current ones.
type PropsReceiver interface {
	WillReceiveProps(next bind.Props)
}

// WillUnmounter is called when the component leaves the tree.
type WillUnmounter interface {
	WillUnmount()
}

// Updater lets a component request a re-render.
type Updater interface {
	ForceUpdate()
}

// PropsHolder is implemented by components that read props at render time.
// Root calls SetProps after WillReceiveProps returns.
type PropsHolder interface {
	SetProps(props bind.Props)
}

// Factory creates a component instance for a root.
type Factory func(props bind.Props, u Updater) Component

// FuncComponent wraps a render function as a Component.
type FuncComponent func() *view.Node

// Render calls the wrapped function.
func (f FuncComponent) Render() *view.Node {
	return f()
}
