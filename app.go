// Package apidef is a small API-definition framework: routes are declared
// together with their documentation, handlers return data or an error, and
// the framework encodes the result into a {error, data} envelope.
//
// The schema registry built from those declarations drives the HTML docs
// (package docs) and the in-process test agents (package agenttest).
package apidef

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/buildwithgo/apidef/logging"
	"github.com/buildwithgo/apidef/schema"
)

// Handler is a function that handles an HTTP request.
// It returns an error which can be handled by middlewares or the framework.
type Handler func(*Context) error

// Middleware is a function that wraps a Handler to provide additional functionality.
type Middleware func(next Handler) Handler

// ErrorHandler writes the response for errors that escape the handler chain.
type ErrorHandler func(c *Context, err error, code int)

// InitHook runs once before the App reports ready.
type InitHook func(ctx context.Context) error

// App is the main entry point. It holds the router, the schema registry,
// global middlewares and the envelope formatters.
type App struct {
	router       Router
	registry     *schema.Registry
	middlewares  []Middleware
	pool         *sync.Pool
	logger       logging.Logger
	errorHandler ErrorHandler
	output       OutputFormatter
	reverse      ReverseFormatter

	mu        sync.Mutex
	initHooks []InitHook
	readyOnce sync.Once
	readyDone chan struct{}
	readyErr  error
}

// AppOption defines a function to configure the App during initialization.
type AppOption func(*App)

// WithLogger sets the logger for the App and its registry.
func WithLogger(logger logging.Logger) AppOption {
	return func(app *App) {
		app.logger = logging.OrNop(logger)
	}
}

// WithErrorHandler replaces the default plain-text error handler.
func WithErrorHandler(handler ErrorHandler) AppOption {
	return func(app *App) {
		app.errorHandler = handler
	}
}

// WithOutputFormatter sets how API results are encoded into a response.
func WithOutputFormatter(f OutputFormatter) AppOption {
	return func(app *App) {
		app.output = f
	}
}

// WithReverseFormatter sets how a response body is decoded back into an
// Envelope. It must be the inverse of the output formatter.
func WithReverseFormatter(f ReverseFormatter) AppOption {
	return func(app *App) {
		app.reverse = f
	}
}

// New creates a new App with optional configuration.
func New(options ...AppOption) *App {
	app := &App{
		middlewares:  make([]Middleware, 0),
		logger:       logging.NopLogger{},
		errorHandler: DefaultErrorHandler,
		output:       DefaultOutputFormatter,
		reverse:      DefaultReverseFormatter,
		readyDone:    make(chan struct{}),
		pool: &sync.Pool{
			New: func() interface{} {
				return NewContext(nil, nil)
			},
		},
	}

	for _, option := range options {
		option(app)
	}
	app.registry = schema.NewRegistry(schema.WithLogger(app.logger.With("component", "registry")))

	return app
}

// Use adds a global middleware to the application.
// Global middlewares are applied to all routes in the order they are added.
func (a *App) Use(middleware Middleware) {
	a.middlewares = append(a.middlewares, middleware)
}

// Add registers a plain route that is not part of the API schema.
func (a *App) Add(method, path string, handler Handler, middlewares ...Middleware) error {
	if a.router == nil {
		return ErrNoRouter
	}
	return a.router.Add(method, path, handler, middlewares...)
}

// Find looks up the route that would serve method and path.
func (a *App) Find(method, path string) (*Route, error) {
	if a.router == nil {
		return nil, ErrNoRouter
	}
	return a.router.Find(method, path, nil)
}

// Registry returns the schema registry populated by API definitions.
func (a *App) Registry() *schema.Registry {
	return a.registry
}

// ReverseFormatter returns the configured envelope decoder.
func (a *App) ReverseFormatter() ReverseFormatter {
	return a.reverse
}

// Logger returns the App logger.
func (a *App) Logger() logging.Logger {
	return a.logger
}

// OnInit registers a hook that Ready runs before the App is considered
// initialized. Hooks added after Ready has started are ignored.
func (a *App) OnInit(hook InitHook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	select {
	case <-a.readyDone:
		a.logger.Warn("init hook registered after app became ready")
		return
	default:
	}
	a.initHooks = append(a.initHooks, hook)
}

// Ready runs the init hooks once, in the background, then freezes the
// schema registry. Every caller waits for that single run to finish or
// for ctx to be done.
func (a *App) Ready(ctx context.Context) error {
	a.readyOnce.Do(func() {
		a.mu.Lock()
		hooks := append([]InitHook(nil), a.initHooks...)
		a.mu.Unlock()

		go func() {
			defer close(a.readyDone)
			for _, hook := range hooks {
				if err := hook(context.WithoutCancel(ctx)); err != nil {
					a.readyErr = err
					a.logger.Error("app init failed", "error", err)
					return
				}
			}
			a.registry.Freeze()
			a.logger.Debug("app ready", "schemas", len(a.registry.Schemas()))
		}()
	})

	select {
	case <-a.readyDone:
		return a.readyErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run starts an HTTP server on port.
func (a *App) Run(port string) error {
	compiledMiddlewares := Chain(a.middlewares...)
	a.middlewares = []Middleware{compiledMiddlewares}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	a.logger.Info("listening", "addr", port)
	return http.ListenAndServe(port, a)
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := a.pool.Get().(*Context)
	ctx.Reset(w, r)
	defer a.pool.Put(ctx)

	if a.router == nil {
		a.errorHandler(ctx, ErrNoRouter, http.StatusInternalServerError)
		return
	}

	// Pass ctx to Find so it can populate params without allocation
	route, err := a.router.Find(r.Method, r.URL.Path, ctx)
	if err != nil {
		a.errorHandler(ctx, NewHTTPError(http.StatusNotFound, "404 page not found").SetInternal(err), http.StatusNotFound)
		return
	}
	// route.Middlewares are already compiled into route.Handler
	if err := Compile(route.Handler, a.middlewares...)(ctx); err != nil {
		code := http.StatusInternalServerError
		var he *HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}
		a.errorHandler(ctx, err, code)
	}
}

// Test serves req in-process and returns the recorded response.
func (a *App) Test(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.ServeHTTP(w, req)
	return w
}

// DefaultErrorHandler writes err as plain text with the given status code.
func DefaultErrorHandler(c *Context, err error, code int) {
	msg := err.Error()
	var he *HTTPError
	if errors.As(err, &he) {
		msg = he.MessageString()
	}
	http.Error(c.Writer, msg, code)
}

// Chain composes middlewares into one, outermost first.
func Chain(middlewares ...Middleware) Middleware {
	return func(next Handler) Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// Compile wraps handler with middlewares, outermost first.
func Compile(handler Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}
