// Package server serves the live streambind dashboard.
//
// Every WebSocket connection is a Session with its own UI loop and host
// root. The root mounts the demo dashboard, a streaming component whose
// props carry a clock stream, counter streams and a plain title. A ticker
// posts stream emissions onto the loop; each emission forces a re-render,
// and every rendered frame is written to the client as JSON:
//
//	{"root":"01J...","seq":7,"html":"<div>...</div>","reason":"force","at":"..."}
//
// Clients drive the subscription set with small JSON messages:
//
//	{"op":"add"}   watch one more counter stream
//	{"op":"clear"} stop watching every stream
//	{"op":"reset"} watch exactly the streams passed as props
//
// Routes:
//
//	GET /         page with the initial render and a tiny client
//	GET /ws       live frames
//	GET /metrics  Prometheus metrics
//	GET /healthz  liveness
package server
