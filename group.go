package apidef

// Group shares a path prefix, a docs group label and middlewares between
// API definitions.
type Group struct {
	name        string
	prefix      string
	app         *App
	middlewares []Middleware
}

// Group creates a group named name whose APIs live under prefix.
func (a *App) Group(name, prefix string) *Group {
	return &Group{
		name:        name,
		prefix:      prefix,
		app:         a,
		middlewares: make([]Middleware, 0),
	}
}

// Use adds a middleware applied to every API later defined in the group.
func (g *Group) Use(middleware Middleware) {
	g.middlewares = append(g.middlewares, middleware)
}

// API starts a definition under the group's prefix.
func (g *Group) API(method, path string) *Definition {
	d := g.app.API(method, path)
	d.group = g
	return d
}

// Group creates a nested group. The nested group inherits the prefix and
// middlewares; name replaces the docs label.
func (g *Group) Group(name, prefix string) *Group {
	return &Group{
		name:        name,
		prefix:      g.prefix + prefix,
		app:         g.app,
		middlewares: append([]Middleware(nil), g.middlewares...),
	}
}

// Prefix returns the full path prefix.
func (g *Group) Prefix() string {
	return g.prefix
}
