// Package streaming wraps render functions into host components whose
// re-renders follow the streams passed to them as props.
//
//	Counter := streaming.Wrap(func(p bind.Props) *view.Node {
//	    count := p.Value("count").(*stream.Stream[int])
//	    return view.Div(nil, view.Textf("%d", count.Get()))
//	})
//
//	root.Mount(Counter, bind.Props{bind.P("count", count)})
//	count.Set(1) // root re-renders
//
// Values are never copied out of the streams: the render function reads the
// streams themselves, so it always sees the latest value.
package streaming

import (
	"github.com/vango-dev/streambind/pkg/bind"
	"github.com/vango-dev/streambind/pkg/host"
	"github.com/vango-dev/streambind/pkg/view"
)

// RenderFunc renders a component from its props.
type RenderFunc func(props bind.Props) *view.Node

// Component is a host component driven by one bind.Manager.
type Component struct {
	render  RenderFunc
	props   bind.Props
	manager *bind.Manager
}

var (
	_ host.Component     = (*Component)(nil)
	_ host.WillMounter   = (*Component)(nil)
	_ host.PropsReceiver = (*Component)(nil)
	_ host.PropsHolder   = (*Component)(nil)
	_ host.WillUnmounter = (*Component)(nil)
)

// New creates a streaming component bound to u.
func New(render RenderFunc, props bind.Props, u host.Updater, opts ...bind.Option) *Component {
	return &Component{
		render:  render,
		props:   props,
		manager: bind.NewManager(props, u.ForceUpdate, opts...),
	}
}

// Wrap turns a render function into a host factory.
func Wrap(render RenderFunc, opts ...bind.Option) host.Factory {
	return func(props bind.Props, u host.Updater) host.Component {
		return New(render, props, u, opts...)
	}
}

// Render implements host.Component.
func (c *Component) Render() *view.Node {
	if c.render == nil {
		return nil
	}
	return c.render(c.props)
}

// WillMount starts watching streams.
func (c *Component) WillMount() {
	c.manager.Mount()
}

// WillReceiveProps rebuilds the subscription when the number of streams in
// next differs from the watched set.
func (c *Component) WillReceiveProps(next bind.Props) {
	c.manager.PropsChanged(next)
}

// SetProps stores the props used by the next render.
func (c *Component) SetProps(props bind.Props) {
	c.props = props
}

// WillUnmount stops watching streams.
func (c *Component) WillUnmount() {
	c.manager.Unmount()
}

// AddStreams watches additional streams. See bind.Manager.AddStreams.
func (c *Component) AddStreams(candidates any) error {
	return c.manager.AddStreams(candidates)
}

// SetStreams replaces the watched streams. See bind.Manager.SetStreams.
func (c *Component) SetStreams(candidates any) error {
	return c.manager.SetStreams(candidates)
}

// ClearStreams stops watching every stream.
func (c *Component) ClearStreams() {
	c.manager.ClearStreams()
}

// Manager exposes the underlying manager.
func (c *Component) Manager() *bind.Manager {
	return c.manager
}

// Props returns the props used by the next render.
func (c *Component) Props() bind.Props {
	return c.props
}
