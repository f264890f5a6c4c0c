package middlewares

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/buildwithgo/apidef"
)

var gzipPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(nil)
	},
}

type gzipResponseWriter struct {
	http.ResponseWriter
	gz      *gzip.Writer
	started bool
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	w.started = true
	return w.gz.Write(b)
}

func (w *gzipResponseWriter) WriteHeader(code int) {
	w.started = true
	w.ResponseWriter.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(code)
}

func (w *gzipResponseWriter) Flush() {
	w.gz.Flush()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Compress gzips responses for clients that accept it. HEAD requests are
// passed through. When the handler returns or panics without writing, the
// encoding headers are withdrawn so the error handler or an outer Recovery
// can answer uncompressed.
func Compress() apidef.Middleware {
	return func(next apidef.Handler) apidef.Handler {
		return func(c *apidef.Context) (err error) {
			if c.Request.Method == http.MethodHead || !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
				return next(c)
			}

			h := c.Writer.Header()
			h.Set("Content-Encoding", "gzip")
			h.Add("Vary", "Accept-Encoding")

			original := c.Writer
			gz := gzipPool.Get().(*gzip.Writer)
			gz.Reset(original)
			gw := &gzipResponseWriter{ResponseWriter: original, gz: gz}
			c.Writer = gw

			defer func() {
				c.Writer = original
				if gw.started {
					if cerr := gz.Close(); cerr != nil && err == nil {
						err = cerr
					}
				} else {
					h.Del("Content-Encoding")
					h.Del("Vary")
					gz.Reset(io.Discard)
				}
				gzipPool.Put(gz)
			}()

			return next(c)
		}
	}
}
