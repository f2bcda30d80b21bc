// Package stream provides a small push-based reactive stream.
//
// A Stream[T] holds the latest value and notifies watchers synchronously on
// every Set. Streams are identified by capability rather than by type: any
// value implementing Source is a stream, and IsStream is the test the rest of
// streambind uses to pick streams out of component props.
//
// Combine derives a single handle from N sources. The handle fires its
// callback whenever any input fires and is released with End, which detaches
// it from every input:
//
//	clock := stream.New(time.Now())
//	count := stream.New(0)
//
//	h := stream.Combine(func() { root.ForceUpdate() }, []stream.Source{clock, count})
//	count.Set(1) // callback runs
//	h.End(true)
//	count.Set(2) // callback does not run
//
// Notifications run on the goroutine that calls Set. Hosts that need a single
// UI goroutine post their Set calls onto it.
package stream
