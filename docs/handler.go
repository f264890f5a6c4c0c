package docs

import (
	"bytes"
	"io/fs"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/buildwithgo/apidef"
)

// Handler serves the docs page for data. The label language follows the
// "lang" query parameter, then Accept-Language, then WithLanguage.
func Handler(data Data, opts ...Option) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serve(w, r, data, opts)
	})
}

func serve(w http.ResponseWriter, r *http.Request, data Data, opts []Option) {
	if tag, ok := requestLanguage(r); ok {
		opts = append(append([]Option(nil), opts...), WithLanguage(tag))
	}

	buf := &bytes.Buffer{}
	if err := Render(buf, data, opts...); err != nil {
		newConfig(opts).Logger.Error("render docs", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func requestLanguage(r *http.Request) (language.Tag, bool) {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			return Match(tag), true
		}
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		return MatchAcceptLanguage(header), true
	}
	return language.Und, false
}

// Register serves the docs of app's registry at prefix and the stylesheet
// under prefix/assets. The page is built on request, after app is ready.
func Register(app *apidef.App, prefix string, opts ...Option) error {
	prefix = "/" + strings.Trim(prefix, "/")
	assetsPrefix := strings.TrimRight(prefix, "/") + "/assets"

	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		return err
	}
	if err := app.StaticFS(assetsPrefix, sub); err != nil {
		return err
	}

	opts = append([]Option{WithAssetsURL(assetsPrefix), WithLogger(app.Logger())}, opts...)
	return app.Add(http.MethodGet, prefix, func(c *apidef.Context) error {
		if err := app.Ready(c.Request.Context()); err != nil {
			return apidef.NewHTTPError(http.StatusServiceUnavailable, "docs unavailable").SetInternal(err)
		}
		serve(c.Writer, c.Request, FromRegistry(app.Registry()), opts)
		return nil
	})
}
