package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern(t *testing.T) {
	cases := []struct {
		pattern string
		path    string
		match   bool
		params  map[string]string
	}{
		{"/", "/", true, map[string]string{}},
		{"/hello", "/hello", true, map[string]string{}},
		{"/hello", "/hello/", true, map[string]string{}},
		{"/hello", "/world", false, nil},
		{"/users/:id", "/users/42", true, map[string]string{"id": "42"}},
		{"/users/{id}", "/users/42", true, map[string]string{"id": "42"}},
		{"/users/:id", "/users/42/posts", false, nil},
		{"/users/:id/posts/:post_id", "/users/1/posts/2", true, map[string]string{"id": "1", "post_id": "2"}},
		{"/static/*filepath", "/static/css/main.css", true, map[string]string{"filepath": "css/main.css"}},
		{"/a.b", "/aXb", false, nil},
	}

	for _, tc := range cases {
		t.Run(tc.pattern+" "+tc.path, func(t *testing.T) {
			p, err := CompilePattern(tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.match, p.Match(tc.path))
			assert.Equal(t, tc.params, p.Params(tc.path))
		})
	}
}

func TestPatternShape(t *testing.T) {
	a, err := CompilePattern("/users/:id")
	require.NoError(t, err)
	b, err := CompilePattern("/users/{uid}/")
	require.NoError(t, err)
	c, err := CompilePattern("/files/*path")
	require.NoError(t, err)

	assert.Equal(t, "/users/:", a.Shape())
	assert.Equal(t, a.Shape(), b.Shape())
	assert.Equal(t, "/files/*", c.Shape())
	assert.Equal(t, "/users/:id", a.String())
}

func TestCompilePatternErrors(t *testing.T) {
	for _, bad := range []string{"", "users", "/users/:", "/users/{}", "/a/*b/c"} {
		_, err := CompilePattern(bad)
		assert.ErrorIs(t, err, ErrInvalidPattern, bad)
	}
}
