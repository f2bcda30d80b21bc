// Package errors provides structured, actionable error messages for streambind.
//
// Every error carries a short code (e.g. "E001") that maps to a registered
// template with a category, a one-line message, a longer detail and a
// documentation link. Callers refine the template with a suggestion or a
// wrapped cause:
//
//	err := errors.New("E001").
//	    WithDetail("AddStreams received int").
//	    WithSuggestion("Pass a slice, e.g. []any{s1, s2}").
//	    Wrap(bind.ErrInvalidArgument)
//
// Wrapped sentinels stay reachable through errors.Is, so packages expose
// their own sentinels and return coded errors that unwrap to them.
//
// # Error Categories
//
//   - runtime: lifecycle misuse (bad stream arguments, unmounted components)
//   - config: configuration loading and validation
//   - storage: snapshot archive failures
//   - protocol: websocket transport failures
//   - cli: command line usage
package errors
