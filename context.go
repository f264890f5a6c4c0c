package apidef

import (
	"encoding/json"
	"net/http"
)

type param struct {
	name  string
	value string
}

// Context carries the request, the response writer, path parameters and
// per-request values. Contexts are pooled by the App; do not retain one
// after the handler returns.
type Context struct {
	Request *http.Request
	Writer  http.ResponseWriter

	params []param
	store  map[string]interface{}
}

type ContextOption func(*Context)

// NewContext creates a new context for the request
func NewContext(w http.ResponseWriter, r *http.Request, options ...ContextOption) *Context {
	ctx := &Context{
		Request: r,
		Writer:  w,
		params:  make([]param, 0, 4),
	}
	for _, option := range options {
		option(ctx)
	}
	return ctx
}

// Reset prepares a pooled context for a new request.
func (c *Context) Reset(w http.ResponseWriter, r *http.Request) {
	c.Request = r
	c.Writer = w
	c.params = c.params[:0]
	c.store = nil
}

// AddParam records a path parameter. Routers call it while matching.
func (c *Context) AddParam(name, value string) {
	c.params = append(c.params, param{name: name, value: value})
}

// PathParam returns the value of a path parameter, or "".
func (c *Context) PathParam(name string) string {
	for _, p := range c.params {
		if p.name == name {
			return p.value
		}
	}
	return ""
}

// QueryParam returns the first value of a query parameter.
func (c *Context) QueryParam(name string) string {
	if c.Request == nil {
		return ""
	}
	return c.Request.URL.Query().Get(name)
}

// FormValue returns a form field from a urlencoded or multipart body.
func (c *Context) FormValue(name string) string {
	if c.Request == nil {
		return ""
	}
	return c.Request.FormValue(name)
}

// Param looks name up in the path parameters, then the query string, then
// the request body form.
func (c *Context) Param(name string) string {
	if v := c.PathParam(name); v != "" {
		return v
	}
	if v := c.QueryParam(name); v != "" {
		return v
	}
	return c.FormValue(name)
}

func (c *Context) GetHeader(key string) string {
	return c.Request.Header.Get(key)
}

func (c *Context) SetHeader(key, value string) {
	c.Writer.Header().Set(key, value)
}

func (c *Context) GetCookie(name string) (*http.Cookie, error) {
	return c.Request.Cookie(name)
}

func (c *Context) SetCookie(cookie *http.Cookie) {
	http.SetCookie(c.Writer, cookie)
}

// Set stores a request-scoped value.
func (c *Context) Set(key string, value interface{}) {
	if c.store == nil {
		c.store = make(map[string]interface{})
	}
	c.store[key] = value
}

// Get returns a request-scoped value stored with Set.
func (c *Context) Get(key string) (interface{}, bool) {
	v, ok := c.store[key]
	return v, ok
}

func (c *Context) String(code int, s string) error {
	c.Writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.Writer.WriteHeader(code)
	_, err := c.Writer.Write([]byte(s))
	return err
}

func (c *Context) HTML(code int, html string) error {
	c.Writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(code)
	_, err := c.Writer.Write([]byte(html))
	return err
}

func (c *Context) JSON(code int, v interface{}) error {
	c.Writer.Header().Set("Content-Type", "application/json")
	c.Writer.WriteHeader(code)
	return json.NewEncoder(c.Writer).Encode(v)
}

func (c *Context) Redirect(code int, url string) error {
	http.Redirect(c.Writer, c.Request, url, code)
	return nil
}
