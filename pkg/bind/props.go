package bind

import "github.com/vango-dev/streambind/pkg/stream"

// Prop is a single named component property.
type Prop struct {
	Name  string
	Value any
}

// Props is an ordered set of component properties.
// Order is significant: Extract returns streams in prop order.
type Props []Prop

// P builds a Prop.
func P(name string, value any) Prop {
	return Prop{Name: name, Value: value}
}

// Get returns the value of the first prop with the given name.
func (p Props) Get(name string) (any, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return nil, false
}

// Value returns the value of the named prop, or nil.
func (p Props) Value(name string) any {
	v, _ := p.Get(name)
	return v
}

// With returns a copy of p with name set to value. An existing prop keeps
// its position, a new one is appended.
func (p Props) With(name string, value any) Props {
	out := make(Props, len(p), len(p)+1)
	copy(out, p)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return out
		}
	}
	return append(out, Prop{Name: name, Value: value})
}

// Names returns prop names in order.
func (p Props) Names() []string {
	names := make([]string, len(p))
	for i, prop := range p {
		names[i] = prop.Name
	}
	return names
}

// Extract returns the top-level prop values that are streams, in prop order.
// Nested values (slices, maps, structs) are not searched.
func Extract(props Props) []stream.Source {
	out := make([]stream.Source, 0, len(props))
	for _, prop := range props {
		if stream.IsStream(prop.Value) {
			out = append(out, prop.Value.(stream.Source))
		}
	}
	return out
}
