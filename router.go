package apidef

import "io/fs"

// Route is a registered handler together with the method and path it serves.
type Route struct {
	Method      string
	Path        string
	Handler     Handler
	Middlewares []Middleware
}

// Router dispatches requests. routers.TrieRouter is the stock implementation.
type Router interface {
	Add(method, path string, handler Handler, middlewares ...Middleware) error
	Use(middleware Middleware)
	Find(method, path string, ctx *Context) (*Route, error)
	Routes() []Route
	StaticFS(pathPrefix string, fsys fs.FS) error
}

// WithRouter sets the router used for dispatch.
func WithRouter(router Router) AppOption {
	return func(app *App) {
		app.router = router
	}
}

// Routes lists every route the router knows, including plain routes.
func (a *App) Routes() []Route {
	if a.router == nil {
		return nil
	}
	return a.router.Routes()
}

// StaticFS serves fsys under pathPrefix.
func (a *App) StaticFS(pathPrefix string, fsys fs.FS) error {
	if a.router == nil {
		return ErrNoRouter
	}
	return a.router.StaticFS(pathPrefix, fsys)
}
