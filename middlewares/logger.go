package middlewares

import (
	"net/http"
	"time"

	"github.com/buildwithgo/apidef"
	"github.com/buildwithgo/apidef/logging"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// AccessLog logs one record per request with method, path, status,
// duration and the request id when RequestID runs before it.
func AccessLog(logger logging.Logger) apidef.Middleware {
	logger = logging.OrNop(logger)
	return func(next apidef.Handler) apidef.Handler {
		return func(c *apidef.Context) error {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: c.Writer, status: http.StatusOK}
			c.Writer = rec
			err := next(c)
			c.Writer = rec.ResponseWriter

			attrs := []any{
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			}
			if rid, ok := c.Get(RequestIDKey); ok {
				attrs = append(attrs, "request_id", rid)
			}
			if err != nil {
				attrs = append(attrs, "error", err)
				logger.Warn("request failed", attrs...)
			} else {
				logger.Info("request", attrs...)
			}
			return err
		}
	}
}
