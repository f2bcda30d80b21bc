// Package view is the render output of streambind components: a small node
// tree and an HTML serializer.
//
// Components build trees with the element helpers:
//
//	view.Div(view.Attrs{"class": "clock"},
//	    view.Textf("%s", now.Format(time.Kitchen)),
//	)
//
// HTML renders deterministically (attributes sorted by name) so frames can be
// compared and archived byte-for-byte.
package view
