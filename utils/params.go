package utils

import (
	"github.com/oarkflow/json"
)

// RestKey is the name under which a wildcard capture appears in Map.
const RestKey = "rest"

// Params holds the values captured by a successful match. The zero value is
// an empty set without a wildcard capture.
type Params struct {
	values   map[string]string
	rest     []string
	wildcard bool
}

func newParams(size int) Params {
	return Params{values: make(map[string]string, size)}
}

func (p *Params) set(name, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	p.values[name] = value
}

// Get returns the value captured for name, or "" if there is none.
func (p Params) Get(name string) string {
	return p.values[name]
}

// Lookup returns the value captured for name and whether it was captured.
func (p Params) Lookup(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Rest returns the segments absorbed by the wildcard. ok is false when the
// shape had no wildcard.
func (p Params) Rest() (rest []string, ok bool) {
	if !p.wildcard {
		return nil, false
	}
	out := make([]string, len(p.rest))
	copy(out, p.rest)
	return out, true
}

// HasRest reports whether the shape carried a wildcard.
func (p Params) HasRest() bool {
	return p.wildcard
}

// Len is the number of named captures, excluding rest.
func (p Params) Len() int {
	return len(p.values)
}

// Values returns a copy of the named captures.
func (p Params) Values() map[string]string {
	out := make(map[string]string, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// Map flattens the params into a single mapping with the wildcard capture
// stored under RestKey. The rest entry wins over a parameter of the same name.
func (p Params) Map() map[string]any {
	out := make(map[string]any, len(p.values)+1)
	for k, v := range p.values {
		out[k] = v
	}
	if p.wildcard {
		rest := make([]string, len(p.rest))
		copy(rest, p.rest)
		out[RestKey] = rest
	}
	return out
}

func (p Params) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Map())
}
