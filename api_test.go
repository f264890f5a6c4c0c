package apidef_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildwithgo/apidef"
	"github.com/buildwithgo/apidef/logging"
	"github.com/buildwithgo/apidef/schema"
)

func TestDefinitionHandle(t *testing.T) {
	app := newApp()
	err := app.API("get", "/users/:id").
		Key("users.get").
		Title("Get user").
		Description("Returns one user.").
		Param("id", schema.Param{Type: "Integer", Comment: "user id"}).
		Param("fields", schema.Param{Type: "String", Default: "name"}).
		Required("id").
		RequiredOneOf("fields", "all").
		Example(schema.Example{Input: map[string]any{"id": 1}, Output: map[string]any{"id": 1}}).
		Handle(func(c *apidef.Context) (any, error) {
			return map[string]string{"id": c.PathParam("id")}, nil
		})
	require.NoError(t, err)

	s, ok := app.Registry().Lookup(http.MethodGet, "/users/:id")
	require.True(t, ok)
	assert.Equal(t, "GET", s.Method)
	assert.Equal(t, "users.get", s.Key)
	assert.Equal(t, "Get user", s.Title)
	assert.Equal(t, [][]string{{"fields", "all"}}, s.RequiredOneOf)
	assert.True(t, s.Params["fields"].HasDefault())
	assert.Equal(t, "api_test.go", s.SourceFile.Relative)
	assert.True(t, strings.HasSuffix(s.SourceFile.Absolute, "api_test.go"))
	assert.Len(t, s.Examples, 1)

	w := app.Test(httptest.NewRequest(http.MethodGet, "/users/7", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":null,"data":{"id":"7"}}`, w.Body.String())
}

func TestDefinitionValidation(t *testing.T) {
	app := newApp()

	err := app.API(http.MethodGet, "/a").Handle(nil)
	assert.ErrorIs(t, err, apidef.ErrInvalidDefinition)

	err = app.API(http.MethodGet, "/a").Required("missing").Handle(func(c *apidef.Context) (any, error) { return nil, nil })
	assert.ErrorIs(t, err, apidef.ErrInvalidDefinition)
	assert.ErrorContains(t, err, `"missing"`)

	err = app.API("PATCH", "/a").Handle(func(c *apidef.Context) (any, error) { return nil, nil })
	assert.ErrorIs(t, err, schema.ErrUnsupportedMethod)

	ok := func(c *apidef.Context) (any, error) { return nil, nil }
	require.NoError(t, app.API(http.MethodGet, "/a").Handle(ok))
	assert.ErrorIs(t, app.API(http.MethodGet, "/a").Handle(ok), schema.ErrDuplicateRoute)
}

func TestDefinitionRejectedByRouter(t *testing.T) {
	app := newApp()
	ok := func(c *apidef.Context) (any, error) { return nil, nil }
	require.NoError(t, app.API(http.MethodGet, "/users/:id").Handle(ok))

	err := app.API(http.MethodGet, "/users/:uid/posts").Handle(ok)
	require.Error(t, err)

	_, found := app.Registry().Lookup(http.MethodGet, "/users/:uid/posts")
	assert.False(t, found)
	_, err = app.Registry().Resolve(http.MethodGet, "/users/7/posts")
	assert.ErrorIs(t, err, schema.ErrRouteNotFound)
	assert.Len(t, app.Registry().Schemas(), 1)

	w := app.Test(httptest.NewRequest(http.MethodGet, "/users/7/posts", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDefinitionDefaultKey(t *testing.T) {
	app := newApp()
	require.NoError(t, app.API(http.MethodPost, "/login").Handle(func(c *apidef.Context) (any, error) { return nil, nil }))

	s, err := app.Registry().Resolve(http.MethodPost, "/login")
	require.NoError(t, err)
	assert.Equal(t, "POST /login", s.Key)
	assert.Equal(t, "[POST]/login", s.ID())
}

func TestAmbiguousRegistrationIsLogged(t *testing.T) {
	logger := logging.NewCapturingLogger()
	app := newApp(apidef.WithLogger(logger))
	ok := func(c *apidef.Context) (any, error) { return nil, nil }

	require.NoError(t, app.API(http.MethodGet, "/files/:name").Handle(ok))
	require.NoError(t, app.API(http.MethodGet, "/files/{name}").Handle(ok))

	assert.True(t, logger.Output().Contains("WARN", "ambiguous route registration"))
	assert.True(t, logger.Output().Contains("WARN", "component=registry"))
}

func TestGroup(t *testing.T) {
	app := newApp()
	var seen []string
	users := app.Group("users", "/users")
	users.Use(func(next apidef.Handler) apidef.Handler {
		return func(c *apidef.Context) error {
			seen = append(seen, c.Request.URL.Path)
			return next(c)
		}
	})
	admin := users.Group("admin", "/admin")
	assert.Equal(t, "/users/admin", admin.Prefix())

	require.NoError(t, users.API(http.MethodGet, "/:id").Handle(func(c *apidef.Context) (any, error) {
		return c.PathParam("id"), nil
	}))
	require.NoError(t, admin.API(http.MethodDelete, "/:id").Group("danger").Handle(func(c *apidef.Context) (any, error) {
		return true, nil
	}))

	s, ok := app.Registry().Lookup(http.MethodGet, "/users/:id")
	require.True(t, ok)
	assert.Equal(t, "users", s.Group)

	s, ok = app.Registry().Lookup(http.MethodDelete, "/users/admin/:id")
	require.True(t, ok)
	assert.Equal(t, "danger", s.Group)

	w := app.Test(httptest.NewRequest(http.MethodGet, "/users/9", nil))
	assert.JSONEq(t, `{"error":null,"data":"9"}`, w.Body.String())
	w = app.Test(httptest.NewRequest(http.MethodDelete, "/users/admin/9", nil))
	assert.JSONEq(t, `{"error":null,"data":true}`, w.Body.String())
	assert.Equal(t, []string{"/users/9", "/users/admin/9"}, seen)

	var paths []string
	for _, r := range app.Routes() {
		paths = append(paths, r.Method+" "+r.Path)
	}
	assert.Equal(t, []string{"DELETE /users/admin/:id", "GET /users/:id"}, paths)
}

func TestContextParam(t *testing.T) {
	app := newApp()
	require.NoError(t, app.API(http.MethodPost, "/items/:id").Handle(func(c *apidef.Context) (any, error) {
		return map[string]string{
			"id":   c.Param("id"),
			"q":    c.Param("q"),
			"name": c.Param("name"),
		}, nil
	}))

	form := url.Values{"name": {"box"}, "id": {"ignored"}}
	req := httptest.NewRequest(http.MethodPost, "/items/3?q=x", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := app.Test(req)
	assert.JSONEq(t, `{"error":null,"data":{"id":"3","q":"x","name":"box"}}`, w.Body.String())
}

func TestHandlerErrorsAreEnveloped(t *testing.T) {
	app := newApp()
	require.NoError(t, app.API(http.MethodGet, "/bad").Handle(func(c *apidef.Context) (any, error) {
		return nil, &apidef.OutputError{Message: "bad input"}
	}))
	require.NoError(t, app.API(http.MethodGet, "/gone").Handle(func(c *apidef.Context) (any, error) {
		return nil, apidef.NewHTTPError(http.StatusGone, "moved away")
	}))
	require.NoError(t, app.API(http.MethodGet, "/boom").Handle(func(c *apidef.Context) (any, error) {
		return nil, errors.New("boom")
	}))

	cases := []struct {
		path string
		code int
		body string
	}{
		{"/bad", http.StatusBadRequest, `{"error":{"code":400,"message":"bad input"},"data":null}`},
		{"/gone", http.StatusGone, `{"error":{"code":410,"message":"moved away"},"data":null}`},
		{"/boom", http.StatusInternalServerError, `{"error":{"code":500,"message":"boom"},"data":null}`},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.code, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
}

func TestCustomOutputFormatter(t *testing.T) {
	app := newApp(apidef.WithOutputFormatter(func(data any, err error) (int, any) {
		if err != nil {
			return http.StatusTeapot, map[string]string{"failure": err.Error()}
		}
		return http.StatusOK, map[string]any{"ok": data}
	}))
	require.NoError(t, app.API(http.MethodGet, "/a").Handle(func(c *apidef.Context) (any, error) { return 1, nil }))
	require.NoError(t, app.API(http.MethodGet, "/b").Handle(func(c *apidef.Context) (any, error) { return nil, errors.New("x") }))

	w := app.Test(httptest.NewRequest(http.MethodGet, "/a", nil))
	assert.JSONEq(t, `{"ok":1}`, w.Body.String())
	w = app.Test(httptest.NewRequest(http.MethodGet, "/b", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.JSONEq(t, `{"failure":"x"}`, w.Body.String())
}
