package utils

import (
	"sync"
	"testing"

	"github.com/oarkflow/json"
	"github.com/rohanthewiz/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  //users//1// ", "users/1"},
		{"", ""},
		{"/", ""},
		{"////", ""},
		{"users", "users"},
		{"/a/b/c/", "a/b/c"},
		{"a///b", "a/b"},
		{"\t/x/ ", "x"},
		{" a b /c", "a b /c"},
	}
	for _, tt := range tests {
		got := Normalize(tt.in)
		assert.Equal(t, got, tt.want)
		assert.Equal(t, Normalize(got), got)
	}
}

func TestSegments(t *testing.T) {
	assert.DeepEqual(t, Segments("/users//1/"), []string{"users", "1"})
	assert.DeepEqual(t, Segments(""), []string{""})
	assert.DeepEqual(t, Segments("  /  "), []string{""})
}

func TestMatchStatic(t *testing.T) {
	shapes := []string{"/", "/users", "/users/list", "/Users", "/a/b/c"}
	paths := []string{"", "/", "users", "//users//", "/users/list/", "/users/List", "/a/b/c", "/a/b"}
	for _, shape := range shapes {
		for _, path := range paths {
			params, ok := MatchRoute(shape, path)
			assert.Equal(t, ok, Normalize(shape) == Normalize(path))
			if ok {
				assert.Equal(t, params.Len(), 0)
				assert.False(t, params.HasRest())
			}
		}
	}
}

func TestMatchParams(t *testing.T) {
	params, ok := MatchRoute("/users/:id", "/users/42")
	assert.True(t, ok)
	assert.Equal(t, params.Get("id"), "42")
	_, hasRest := params.Rest()
	assert.False(t, hasRest)
	assert.DeepEqual(t, params.Map(), map[string]any{"id": "42"})

	params, ok = MatchRoute("/user/[id]", "/user/42")
	assert.True(t, ok)
	assert.Equal(t, params.Get("id"), "42")

	params, ok = MatchRoute("/org/:org/repo/[repo]", "org/acme/repo/widgets")
	assert.True(t, ok)
	assert.DeepEqual(t, params.Values(), map[string]string{"org": "acme", "repo": "widgets"})

	params, ok = MatchRoute("/:a/:b", "/x/y")
	assert.True(t, ok)
	assert.Equal(t, params.Get("a"), "x")
	assert.Equal(t, params.Get("b"), "y")
}

func TestMatchParamValuesVerbatim(t *testing.T) {
	params, ok := MatchRoute("/q/:v", "/q/%2F a?b=c")
	assert.True(t, ok)
	assert.Equal(t, params.Get("v"), "%2F a?b=c")

	params, ok = MatchRoute("/:id", "/")
	assert.True(t, ok)
	v, found := params.Lookup("id")
	assert.True(t, found)
	assert.Equal(t, v, "")
}

func TestMatchNegative(t *testing.T) {
	tests := []struct {
		name, shape, path string
	}{
		{"too few segments", "/users/:id", "/users"},
		{"too many segments", "/users/:id", "/users/1/2"},
		{"static mismatch", "/users/:id/x", "/users/5/y"},
		{"case sensitive", "/Users/:id", "/users/5"},
		{"wildcard prefix mismatch", "/files/**", "/docs/a"},
		{"wildcard suffix mismatch", "/a/**/end", "/a/x/y/stop"},
		{"wildcard needs pre and post", "/a/:id/**/end", "/a/end"},
		{"unclosed bracket is static", "/user/[id", "/user/42"},
		{"lone bracket is static", "/user/[", "/user/42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, ok := MatchRoute(tt.shape, tt.path)
			assert.False(t, ok)
			assert.Equal(t, params.Len(), 0)
			assert.False(t, params.HasRest())
		})
	}
}

func TestMatchWildcard(t *testing.T) {
	tests := []struct {
		name   string
		shape  string
		path   string
		params map[string]string
		rest   []string
	}{
		{"absorbs many", "/files/**", "/files/a/b/c", map[string]string{}, []string{"a", "b", "c"}},
		{"absorbs none", "/files/**", "/files", map[string]string{}, []string{}},
		{"prefix and suffix", "/a/:id/**/end", "/a/5/x/y/end", map[string]string{"id": "5"}, []string{"x", "y"}},
		{"suffix param", "/**/:file", "/a/b/c.txt", map[string]string{"file": "c.txt"}, []string{"a", "b"}},
		{"suffix aligned", "/x/**/x", "/x/x/x", map[string]string{}, []string{"x"}},
		{"bare wildcard", "/**", "/a/b", map[string]string{}, []string{"a", "b"}},
		{"bare wildcard on root", "/**", "/", map[string]string{}, []string{""}},
		{"later wildcard is literal", "/a/**/b/**", "/a/1/2/b/**", map[string]string{}, []string{"1", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, ok := MatchRoute(tt.shape, tt.path)
			assert.True(t, ok)
			assert.DeepEqual(t, params.Values(), tt.params)
			rest, hasRest := params.Rest()
			assert.True(t, hasRest)
			assert.DeepEqual(t, rest, tt.rest)
		})
	}
}

func TestMatchSecondWildcardDoesNotAbsorb(t *testing.T) {
	_, ok := MatchRoute("/a/**/b/**", "/a/1/b/2/3")
	assert.False(t, ok)
}

func TestRestShadowsParamInMap(t *testing.T) {
	params, ok := MatchRoute("/:rest/**", "/a/b")
	assert.True(t, ok)
	assert.Equal(t, params.Get("rest"), "a")
	rest, _ := params.Map()[RestKey].([]string)
	assert.DeepEqual(t, rest, []string{"b"})
}

func TestParamsJSON(t *testing.T) {
	params, ok := MatchRoute("/a/:id/**", "/a/5/x")
	assert.True(t, ok)
	data, err := json.Marshal(params)
	assert.Nil(t, err)
	var decoded struct {
		ID   string   `json:"id"`
		Rest []string `json:"rest"`
	}
	assert.Nil(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, decoded.ID, "5")
	assert.DeepEqual(t, decoded.Rest, []string{"x"})
}

func TestCompile(t *testing.T) {
	s := Compile("/a/:id/**/[file]/**")
	assert.Equal(t, s.String(), "/a/:id/**/[file]/**")
	assert.DeepEqual(t, s.Names(), []string{"id", "file"})
	assert.True(t, s.HasWildcard())
	assert.False(t, s.IsStatic())

	assert.True(t, Compile("/a/b").IsStatic())
	assert.False(t, IsDynamic("//a//b"))
	assert.True(t, IsDynamic("/a/[b]"))
	assert.True(t, IsDynamic("/a/**"))
}

func TestShapeConcurrentUse(t *testing.T) {
	s := Compile("/users/:id/**")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				params, ok := s.Match("/users/7/a/b")
				if !ok || params.Get("id") != "7" {
					t.Error("unexpected match result")
					return
				}
			}
		}()
	}
	wg.Wait()
}
