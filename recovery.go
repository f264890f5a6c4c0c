package apidef

import (
	"fmt"
	"html/template"
	"net/http"
	"runtime"
	"strings"

	"github.com/buildwithgo/apidef/logging"
)

// RecoveryOption configures the Recovery middleware.
type RecoveryOption func(*recoveryConfig)

type recoveryConfig struct {
	htmlDebug bool
	logger    logging.Logger
}

// WithHTMLDebug enables rendering an HTML debug page for panics.
// Do not use this in production as it exposes stack traces.
func WithHTMLDebug(enabled bool) RecoveryOption {
	return func(c *recoveryConfig) {
		c.htmlDebug = enabled
	}
}

// WithRecoveryLogger sets where recovered panics are logged.
func WithRecoveryLogger(logger logging.Logger) RecoveryOption {
	return func(c *recoveryConfig) {
		c.logger = logging.OrNop(logger)
	}
}

// Recovery recovers from panics, logs the stack trace, and answers with an
// envelope-shaped 500 unless the HTML debug page is enabled.
func Recovery(opts ...RecoveryOption) Middleware {
	cfg := &recoveryConfig{logger: logging.NopLogger{}}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next Handler) Handler {
		return func(c *Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := make([]byte, 4096)
					n := runtime.Stack(stack, false)
					stackTrace := string(stack[:n])

					cfg.logger.Error("panic recovered", "panic", fmt.Sprint(r), "stack", stackTrace)

					if cfg.htmlDebug {
						err = c.HTML(http.StatusInternalServerError, renderDebugPage(r, stackTrace))
						return
					}
					status, body := DefaultOutputFormatter(nil, NewHTTPError(http.StatusInternalServerError))
					err = c.JSON(status, body)
				}
			}()
			return next(c)
		}
	}
}

var debugPage = template.Must(template.New("debug").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Internal Server Error</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; background-color: #f8f9fa; color: #212529; margin: 0; padding: 2rem; }
        .container { max-width: 1200px; margin: 0 auto; background: white; padding: 2rem; border-radius: 8px; }
        h1 { color: #dc3545; border-bottom: 2px solid #eee; padding-bottom: 0.5rem; }
        pre { background: #212529; color: #f8f9fa; padding: 1rem; border-radius: 4px; overflow-x: auto; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Internal Server Error</h1>
        <div class="error-message">Panic: {{.Error}}</div>
        <h3>Stack Trace:</h3>
        <pre>{{.Stack}}</pre>
    </div>
</body>
</html>
`))

func renderDebugPage(err interface{}, stack string) string {
	data := struct {
		Error interface{}
		Stack string
	}{
		Error: err,
		Stack: stack,
	}

	var buf strings.Builder
	if execErr := debugPage.Execute(&buf, data); execErr != nil {
		return "Internal Server Error (Failed to execute debug template)"
	}
	return buf.String()
}
