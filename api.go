package apidef

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/buildwithgo/apidef/schema"
)

// APIHandler is the handler of a documented API. Its result is encoded
// through the App's OutputFormatter.
type APIHandler func(c *Context) (any, error)

// Definition declares an API before it is registered with Handle.
//
//	app.API(http.MethodGet, "/users/:id").
//		Key("users.get").
//		Title("Get a user").
//		Param("id", schema.Param{Type: "Integer", Comment: "user id"}).
//		Required("id").
//		Handle(getUser)
type Definition struct {
	app    *App
	group  *Group
	schema schema.Schema
}

// API starts a new definition for method and path.
func (a *App) API(method, path string) *Definition {
	return &Definition{
		app: a,
		schema: schema.Schema{
			Method: strings.ToUpper(method),
			Path:   path,
			Params: make(map[string]schema.Param),
		},
	}
}

func (d *Definition) Key(key string) *Definition {
	d.schema.Key = key
	return d
}

func (d *Definition) Title(title string) *Definition {
	d.schema.Title = title
	return d
}

func (d *Definition) Description(description string) *Definition {
	d.schema.Description = description
	return d
}

func (d *Definition) Group(group string) *Definition {
	d.schema.Group = group
	return d
}

func (d *Definition) Param(name string, p schema.Param) *Definition {
	d.schema.Params[name] = p
	return d
}

// Required marks params that must all be present.
func (d *Definition) Required(names ...string) *Definition {
	d.schema.Required = append(d.schema.Required, names...)
	return d
}

// RequiredOneOf marks a set of params of which at least one must be present.
func (d *Definition) RequiredOneOf(names ...string) *Definition {
	d.schema.RequiredOneOf = append(d.schema.RequiredOneOf, names)
	return d
}

func (d *Definition) Example(ex schema.Example) *Definition {
	d.schema.Examples = append(d.schema.Examples, ex)
	return d
}

// Handle registers the definition in the schema registry and its handler
// with the router. The source file of the caller is recorded for the docs.
// A route the router rejects is taken back out of the registry.
func (d *Definition) Handle(handler APIHandler, middlewares ...Middleware) error {
	if handler == nil {
		return fmt.Errorf("%w: %s has no handler", ErrInvalidDefinition, d.schema.Route())
	}
	for _, name := range d.schema.Required {
		if _, ok := d.schema.Params[name]; !ok {
			return fmt.Errorf("%w: required param %q of %s is not declared", ErrInvalidDefinition, name, d.schema.Route())
		}
	}
	if d.app.router == nil {
		return ErrNoRouter
	}

	s := d.schema
	if d.group != nil {
		s.Path = d.group.prefix + s.Path
		if s.Group == "" {
			s.Group = d.group.name
		}
		middlewares = append(append([]Middleware(nil), d.group.middlewares...), middlewares...)
	}
	s.SourceFile = callerSource(2)

	if err := d.app.registry.Add(&s); err != nil {
		return err
	}
	if err := d.app.router.Add(s.Method, s.Path, d.app.envelope(handler), middlewares...); err != nil {
		d.app.registry.Remove(s.Method, s.Path)
		return err
	}
	return nil
}

// envelope adapts an APIHandler to a Handler writing the formatted result.
func (a *App) envelope(handler APIHandler) Handler {
	return func(c *Context) error {
		data, err := handler(c)
		status, body := a.output(data, err)
		if err != nil {
			a.logger.Debug("api returned error", "path", c.Request.URL.Path, "status", status, "error", err)
		}
		return c.JSON(status, body)
	}
}

// callerSource reports the file of the caller skip frames above.
func callerSource(skip int) schema.SourceFile {
	_, file, _, ok := runtime.Caller(skip)
	if !ok {
		return schema.SourceFile{}
	}
	sf := schema.SourceFile{Absolute: file, Relative: file}
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, file); err == nil {
			sf.Relative = filepath.ToSlash(rel)
		}
	}
	return sf
}
