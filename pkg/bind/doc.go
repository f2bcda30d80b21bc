// Package bind connects reactive streams to a component's re-render lifecycle.
//
// A Manager is owned by one component instance. It keeps the set of streams
// the component watches, one combined subscription over that set, and a
// mounted flag. Whenever a watched stream emits while the component is
// mounted, the manager calls the host's force-update function. Stream values
// are never copied into the component: render reads the streams directly.
//
// The manager's lifecycle mirrors the host's:
//
//	m := bind.NewManager(props, root.ForceUpdate) // streams extracted from props
//	m.Mount()                                     // subscription built
//	m.PropsChanged(next)                          // rebuilt if the stream count changed
//	m.Unmount()                                   // subscription released, updates inert
//
// Every mutation of the stream set (AddStreams, SetStreams) passes through
// Rebuild, which ends the previous subscription before creating the next one,
// so there is never more than one live subscription per manager.
//
// # Limitations
//
// PropsChanged compares stream counts only. Swapping one stream for another
// while keeping the count the same is not detected; call SetStreams or
// ClearStreams explicitly in that case.
package bind
