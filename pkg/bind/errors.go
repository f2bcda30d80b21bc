package bind

import (
	"errors"
	"reflect"

	serrors "github.com/vango-dev/streambind/internal/errors"
	"github.com/vango-dev/streambind/pkg/stream"
)

// ErrInvalidArgument is returned by AddStreams and SetStreams when the
// candidates are not a slice or array.
var ErrInvalidArgument = errors.New("bind: invalid argument")

// extractCandidates converts a slice or array into the streams it contains.
// Non-stream entries are dropped.
func extractCandidates(op string, v any) ([]stream.Source, error) {
	if v == nil {
		return nil, invalidArgument(op, "nil")
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, invalidArgument(op, rv.Type().String())
	}

	out := make([]stream.Source, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i).Interface()
		if stream.IsStream(item) {
			out = append(out, item.(stream.Source))
		}
	}
	return out, nil
}

func invalidArgument(op, got string) error {
	return serrors.New("E001").
		WithDetailf("%s received %s", op, got).
		WithSuggestion("Pass a slice of streams, e.g. []any{a, b}").
		Wrap(ErrInvalidArgument)
}
