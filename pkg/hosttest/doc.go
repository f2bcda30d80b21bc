// Package hosttest provides testing helpers for host components.
//
// The hosttest package reduces boilerplate when testing stream-bound
// components by mounting them on a root that records every frame, and by
// asserting on rendered HTML.
//
// # Quick Start
//
//	func TestCounter_Rerenders(t *testing.T) {
//	    count := stream.New(0)
//	    h := hosttest.Mount(t, Counter, bind.Props{bind.P("count", count)})
//
//	    count.Set(1)
//
//	    h.ExpectFrames(2)
//	    hosttest.ExpectHTMLContains(t, h.Last().HTML, "1")
//	}
//
// # Frame Assertions
//
// The harness records every frame the root renders:
//
//	h.ExpectFrames(3)
//	h.ExpectReasons(host.ReasonMount, host.ReasonForce, host.ReasonForce)
//
// # Render Assertions
//
// Assert on a node tree without mounting:
//
//	hosttest.ExpectContains(t, Dashboard(props), "counter0: 0")
//	hosttest.ExpectElement(t, Dashboard(props), "ul")
//	hosttest.ExpectAttribute(t, Dashboard(props), "class", "dashboard")
//
// The harness unmounts the root in t.Cleanup unless the test already did.
package hosttest
