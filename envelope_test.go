package apidef_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildwithgo/apidef"
)

func TestDefaultReverseFormatter(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env, err := apidef.DefaultReverseFormatter([]byte(`{"error":null,"data":{"id":42}}`))
		require.NoError(t, err)
		assert.False(t, env.Failed())
		assert.Equal(t, map[string]any{"id": float64(42)}, env.Data)
	})

	t.Run("MissingErrorIsSuccess", func(t *testing.T) {
		env, err := apidef.DefaultReverseFormatter([]byte(`{"data":[1,2]}`))
		require.NoError(t, err)
		assert.Equal(t, []any{float64(1), float64(2)}, env.Data)
	})

	t.Run("NullData", func(t *testing.T) {
		env, err := apidef.DefaultReverseFormatter([]byte(`{"error":null,"data":null}`))
		require.NoError(t, err)
		assert.False(t, env.Failed())
		assert.Nil(t, env.Data)
	})

	t.Run("ErrorObject", func(t *testing.T) {
		env, err := apidef.DefaultReverseFormatter([]byte(`{"error":{"code":404,"message":"user not found"},"data":null}`))
		require.NoError(t, err)
		require.True(t, env.Failed())
		assert.Nil(t, env.Data)

		var oe *apidef.OutputError
		require.True(t, errors.As(env.Err, &oe))
		assert.Equal(t, 404, oe.Code)
		assert.Equal(t, "api error 404: user not found", oe.Error())
	})

	t.Run("ErrorString", func(t *testing.T) {
		env, err := apidef.DefaultReverseFormatter([]byte(`{"error":"nope"}`))
		require.NoError(t, err)
		assert.EqualError(t, env.Err, "api error: nope")
	})

	t.Run("NotJSON", func(t *testing.T) {
		_, err := apidef.DefaultReverseFormatter([]byte("404 page not found\n"))
		assert.Error(t, err)
	})
}

func TestOutputRoundTrip(t *testing.T) {
	status, body := apidef.DefaultOutputFormatter(nil, apidef.NewHTTPError(http.StatusUnauthorized))
	assert.Equal(t, http.StatusUnauthorized, status)

	raw := mustJSON(t, body)
	env, err := apidef.DefaultReverseFormatter(raw)
	require.NoError(t, err)
	assert.EqualError(t, env.Err, "api error 401: Unauthorized")

	input := &apidef.OutputError{Message: "bad input"}
	status, body = apidef.DefaultOutputFormatter(nil, input)
	assert.Equal(t, http.StatusBadRequest, status)
	env, err = apidef.DefaultReverseFormatter(mustJSON(t, body))
	require.NoError(t, err)
	var oe *apidef.OutputError
	require.True(t, errors.As(env.Err, &oe))
	assert.Equal(t, http.StatusBadRequest, oe.Code)
	assert.Equal(t, "bad input", oe.Message)
	assert.Zero(t, input.Code, "the handler's error is not modified")

	status, body = apidef.DefaultOutputFormatter("done", nil)
	assert.Equal(t, http.StatusOK, status)
	env, err = apidef.DefaultReverseFormatter(mustJSON(t, body))
	require.NoError(t, err)
	assert.Equal(t, "done", env.Data)
}
