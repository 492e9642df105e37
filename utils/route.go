package utils

type segmentKind uint8

const (
	staticSegment segmentKind = iota
	paramSegment
	wildcardSegment
)

// Wildcard is the shape token that absorbs zero or more path segments.
const Wildcard = "**"

type segment struct {
	kind segmentKind
	text string // literal for static segments, name for params
}

func parseSegment(s string) segment {
	switch {
	case len(s) > 0 && s[0] == ':':
		return segment{kind: paramSegment, text: s[1:]}
	case len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']':
		return segment{kind: paramSegment, text: s[1 : len(s)-1]}
	case s == Wildcard:
		return segment{kind: wildcardSegment, text: s}
	}
	return segment{kind: staticSegment, text: s}
}

// match binds a single shape segment against a path segment. Wildcards never
// reach here: only the first "**" is special and later ones compare literally.
func (s segment) match(part string, params *Params) bool {
	if s.kind == paramSegment {
		params.set(s.text, part)
		return true
	}
	return s.text == part
}

// Shape is a compiled route shape such as "/users/:id" or "/files/**".
// It is immutable and safe for concurrent use.
type Shape struct {
	raw      string
	pre      []segment
	post     []segment
	wildcard bool
	names    []string
}

// Compile parses a route shape. Every string is a valid shape: malformed
// parameter syntax degrades to a static segment.
func Compile(shape string) *Shape {
	parts := Segments(shape)
	s := &Shape{raw: shape}
	for _, part := range parts {
		seg := parseSegment(part)
		if seg.kind == wildcardSegment {
			if !s.wildcard {
				s.wildcard = true
				continue
			}
			seg.kind = staticSegment
		}
		if seg.kind == paramSegment {
			s.names = append(s.names, seg.text)
		}
		if s.wildcard {
			s.post = append(s.post, seg)
		} else {
			s.pre = append(s.pre, seg)
		}
	}
	return s
}

func (s *Shape) String() string {
	return s.raw
}

// Names lists the parameter names in declaration order, excluding rest.
func (s *Shape) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// HasWildcard reports whether a match yields a rest capture.
func (s *Shape) HasWildcard() bool {
	return s.wildcard
}

// IsStatic reports whether the shape only contains literal segments.
func (s *Shape) IsStatic() bool {
	return !s.wildcard && len(s.names) == 0
}

// Match tests path against the shape. Without a wildcard the segment counts
// must be equal. With one, the segments before it are matched from the left,
// the segments after it from the right, and whatever lies between becomes
// the rest capture.
func (s *Shape) Match(path string) (Params, bool) {
	parts := Segments(path)
	params := newParams(len(s.names))
	if !s.wildcard {
		if len(parts) != len(s.pre) {
			return Params{}, false
		}
		for i, seg := range s.pre {
			if !seg.match(parts[i], &params) {
				return Params{}, false
			}
		}
		return params, true
	}
	if len(parts) < len(s.pre)+len(s.post) {
		return Params{}, false
	}
	for i, seg := range s.pre {
		if !seg.match(parts[i], &params) {
			return Params{}, false
		}
	}
	for i := 1; i <= len(s.post); i++ {
		if !s.post[len(s.post)-i].match(parts[len(parts)-i], &params) {
			return Params{}, false
		}
	}
	rest := parts[len(s.pre) : len(parts)-len(s.post)]
	params.rest = make([]string, len(rest))
	copy(params.rest, rest)
	params.wildcard = true
	return params, true
}

// MatchRoute compiles shape and matches path against it.
func MatchRoute(shape, path string) (Params, bool) {
	return Compile(shape).Match(path)
}

// IsDynamic reports whether shape has a parametric or wildcard segment.
func IsDynamic(shape string) bool {
	return !Compile(shape).IsStatic()
}
