package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildwithgo/apidef/logging"
)

func TestRegistry_ResolveExactBeforePattern(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(&Schema{Method: "get", Path: "/users/:id", Key: "users.get"}))
	require.NoError(t, r.Add(&Schema{Method: "GET", Path: "/users/search", Key: "users.search"}))

	s, err := r.Resolve("GET", "/users/search")
	require.NoError(t, err)
	assert.Equal(t, "users.search", s.Key)

	s, err = r.Resolve("get", "/users/42")
	require.NoError(t, err)
	assert.Equal(t, "users.get", s.Key)

	// The literal pattern path is itself an exact entry.
	s, err = r.Resolve("GET", "/users/:id")
	require.NoError(t, err)
	assert.Equal(t, "users.get", s.Key)
}

func TestRegistry_ResolveFirstPatternWins(t *testing.T) {
	logger := logging.NewCapturingLogger()
	r := NewRegistry(WithLogger(logger))
	require.NoError(t, r.Add(&Schema{Method: "GET", Path: "/items/:id", Key: "first"}))
	require.NoError(t, r.Add(&Schema{Method: "GET", Path: "/items/{name}", Key: "second"}))
	require.NoError(t, r.Add(&Schema{Method: "GET", Path: "/*rest", Key: "catchall"}))

	s, err := r.Resolve("GET", "/items/7")
	require.NoError(t, err)
	assert.Equal(t, "first", s.Key)

	out := logger.Output()
	assert.True(t, out.Contains("WARN", "ambiguous route registration"))
	assert.True(t, out.Contains("WARN", "ambiguous route resolution"))

	s, err = r.Resolve("GET", "/other/thing")
	require.NoError(t, err)
	assert.Equal(t, "catchall", s.Key)
}

func TestRegistry_ResolveNotFound(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(&Schema{Method: "GET", Path: "/users/:id"}))

	_, err := r.Resolve("GET", "/accounts/1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRouteNotFound))
	assert.Contains(t, err.Error(), "/accounts/1")

	var routeErr *RouteError
	require.ErrorAs(t, err, &routeErr)
	assert.Equal(t, "/accounts/1", routeErr.Path)

	// Same path, different method.
	_, err = r.Resolve("POST", "/users/1")
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestRegistry_AddValidation(t *testing.T) {
	r := NewRegistry()

	assert.ErrorIs(t, r.Add(&Schema{Method: "PATCH", Path: "/x"}), ErrUnsupportedMethod)
	assert.ErrorIs(t, r.Add(&Schema{Method: "GET", Path: "x"}), ErrInvalidPattern)
	assert.ErrorIs(t, r.Add(&Schema{Method: "GET", Path: "/a/*rest/b"}), ErrInvalidPattern)

	require.NoError(t, r.Add(&Schema{Method: "GET", Path: "/x"}))
	assert.ErrorIs(t, r.Add(&Schema{Method: "get", Path: "/x"}), ErrDuplicateRoute)

	s, ok := r.Lookup("GET", "/x")
	require.True(t, ok)
	assert.Equal(t, "GET /x", s.Key, "key defaults to the route")
	assert.NotNil(t, s.Params)
}

func TestRegistry_Freeze(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(&Schema{Method: "GET", Path: "/a"}))
	r.Freeze()

	assert.True(t, r.Frozen())
	assert.ErrorIs(t, r.Add(&Schema{Method: "GET", Path: "/b"}), ErrFrozen)
	assert.ErrorIs(t, r.AddType(Type{Name: "Email"}), ErrFrozen)
	assert.Len(t, r.Schemas(), 1)
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(&Schema{Method: "GET", Path: "/a/:id"}))
	require.NoError(t, r.Add(&Schema{Method: "GET", Path: "/b"}))

	assert.True(t, r.Remove("get", "/a/:id"))
	assert.False(t, r.Remove("GET", "/a/:id"))
	_, err := r.Resolve("GET", "/a/1")
	assert.ErrorIs(t, err, ErrRouteNotFound)
	require.Len(t, r.Schemas(), 1)
	assert.Equal(t, "/b", r.Schemas()[0].Path)

	// The route can be registered again once removed.
	require.NoError(t, r.Add(&Schema{Method: "GET", Path: "/a/:id"}))

	r.Freeze()
	assert.False(t, r.Remove("GET", "/b"))
	assert.Len(t, r.Schemas(), 2)
}

func TestRegistry_Types(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.AddType(Type{Name: "Email", Description: "email address", Checker: "isEmail(v)"}))

	typ, ok := r.Type("Email")
	require.True(t, ok)
	assert.False(t, typ.IsDefault)

	typ, ok = r.Type("Integer")
	require.True(t, ok)
	assert.True(t, typ.IsDefault)

	types := r.Types()
	assert.Len(t, types, len(DefaultTypes)+1)
	for i := 1; i < len(types); i++ {
		assert.Less(t, types[i-1].Name, types[i].Name)
	}
}

func TestSchema_RouteAndID(t *testing.T) {
	s := &Schema{Method: "post", Path: "/users"}
	assert.Equal(t, "POST /users", s.Route())
	assert.Equal(t, "[POST]/users", s.ID())
	assert.True(t, s.Match("/users/"))
	assert.False(t, s.Match("/users/1"))
}
