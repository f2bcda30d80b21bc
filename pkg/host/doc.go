// Package host is a minimal component host: it mounts one component, calls
// its lifecycle hooks in the conventional order and re-renders it on demand.
//
// Hook order for a Root:
//
//	Mount:     WillMount → Render → DidMount
//	SetProps:  WillReceiveProps → Render
//	Unmount:   WillUnmount
//
// Every render produces a Frame that is handed to the root's Sink. Roots are
// single-threaded; drive them from a Loop, which runs submitted work on one
// goroutine and lets stream producers post emissions onto it.
package host
