package apidef_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/buildwithgo/apidef"
	"github.com/buildwithgo/apidef/logging"
)

func TestRecoveryMiddleware(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		logger := logging.NewCapturingLogger()
		handler := apidef.Recovery(apidef.WithRecoveryLogger(logger))(func(c *apidef.Context) error {
			panic("oops")
		})

		w := httptest.NewRecorder()
		c := apidef.NewContext(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if err := handler(c); err != nil {
			t.Errorf("Expected nil error (recovered), got %v", err)
		}
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
		want := `{"error":{"code":500,"message":"Internal Server Error"},"data":null}` + "\n"
		if w.Body.String() != want {
			t.Errorf("Expected %s, got %s", want, w.Body.String())
		}
		if !logger.Output().Contains("ERROR", "panic recovered panic=oops") {
			t.Error("Expected the panic to be logged")
		}
	})

	t.Run("HTMLDebug", func(t *testing.T) {
		handler := apidef.Recovery(apidef.WithHTMLDebug(true))(func(c *apidef.Context) error {
			panic("debug <me>")
		})

		w := httptest.NewRecorder()
		_ = handler(apidef.NewContext(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, "<!DOCTYPE html>") {
			t.Error("Expected HTML response")
		}
		if !strings.Contains(body, "debug &lt;me&gt;") {
			t.Error("Expected escaped panic message in body")
		}
	})

	t.Run("ThroughApp", func(t *testing.T) {
		app := newApp()
		app.Use(apidef.Recovery())
		if err := app.API(http.MethodGet, "/panic").Handle(func(c *apidef.Context) (any, error) {
			panic("in handler")
		}); err != nil {
			t.Fatal(err)
		}

		w := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
	})
}
