// Package routers provides the trie router the App dispatches with.
package routers

import (
	"fmt"
	"io/fs"
	"net/http"
	"sort"
	"strings"

	"github.com/buildwithgo/apidef"
)

type node struct {
	// Static children
	children map[string]*node

	// Dynamic children
	paramNode *node
	paramName string

	catchAllNode *node
	catchAllName string

	apidef.Route
}

// TrieRouter is a trie-based router using a map for children.
// It supports :param, {param} and *wildcard segments with the precedence
// static > param > wildcard.
type TrieRouter struct {
	root              map[string]*node // method -> root node
	globalMiddlewares []apidef.Middleware
	routes            []apidef.Route
}

// NewTrieRouter creates a new instance of TrieRouter.
func NewTrieRouter() *TrieRouter {
	return &TrieRouter{
		root: make(map[string]*node),
	}
}

// Use adds a router-level middleware. It only wraps routes added after the call.
func (r *TrieRouter) Use(middleware apidef.Middleware) {
	r.globalMiddlewares = append(r.globalMiddlewares, middleware)
}

func (r *TrieRouter) Add(method, path string, handler apidef.Handler, middlewares ...apidef.Middleware) error {
	if len(r.globalMiddlewares) > 0 {
		combined := make([]apidef.Middleware, 0, len(r.globalMiddlewares)+len(middlewares))
		combined = append(combined, r.globalMiddlewares...)
		combined = append(combined, middlewares...)
		middlewares = combined
	}
	if _, ok := r.root[method]; !ok {
		r.root[method] = &node{children: make(map[string]*node)}
	}
	n := r.root[method]

	if path == "" {
		path = "/"
	}
	if path[0] != '/' {
		path = "/" + path
	}

	searchPath := strings.Trim(path, "/")
	if searchPath != "" {
		for _, part := range strings.Split(searchPath, "/") {
			if part == "" {
				continue
			}

			switch {
			case part[0] == ':' || (len(part) > 1 && part[0] == '{' && part[len(part)-1] == '}'):
				pName := part[1:]
				if part[0] == '{' {
					pName = part[1 : len(part)-1]
				}
				if n.paramNode == nil {
					n.paramNode = &node{children: make(map[string]*node)}
					n.paramName = pName
				}
				if n.paramName != pName {
					return fmt.Errorf("param name conflict: %s vs %s", n.paramName, pName)
				}
				n = n.paramNode
			case part[0] == '*':
				// The wildcard captures the rest of the path in Find.
				wName := part[1:]
				if n.catchAllNode == nil {
					n.catchAllNode = &node{children: make(map[string]*node)}
					n.catchAllName = wName
				}
				if n.catchAllName != wName {
					return fmt.Errorf("wildcard name conflict: %s vs %s", n.catchAllName, wName)
				}
				n = n.catchAllNode
			default:
				if _, ok := n.children[part]; !ok {
					n.children[part] = &node{children: make(map[string]*node)}
				}
				n = n.children[part]
			}
		}
	}

	finalHandler := handler
	if len(middlewares) > 0 {
		finalHandler = apidef.Compile(handler, middlewares...)
	}

	if n.Handler == nil {
		r.routes = append(r.routes, apidef.Route{Method: method, Path: path})
	}
	n.Handler = finalHandler
	n.Middlewares = middlewares
	n.Path = path
	n.Method = method

	return nil
}

func (r *TrieRouter) Find(method, path string, ctx *apidef.Context) (*apidef.Route, error) {
	n, ok := r.root[method]
	if !ok {
		return nil, fmt.Errorf("method not found")
	}

	searchPath := strings.Trim(path, "/")

	for {
		if len(searchPath) == 0 {
			if n.Handler != nil {
				return &n.Route, nil
			}
			// "/files/*path" also serves "/files" with an empty capture.
			if n.catchAllNode != nil && n.catchAllNode.Handler != nil {
				if ctx != nil {
					ctx.AddParam(n.catchAllName, "")
				}
				return &n.catchAllNode.Route, nil
			}
			return nil, fmt.Errorf("route not found")
		}

		var part string
		i := strings.IndexByte(searchPath, '/')
		if i < 0 {
			part = searchPath
			searchPath = ""
		} else {
			part = searchPath[:i]
			searchPath = searchPath[i+1:]
		}

		if part == "" {
			continue
		}

		// Priority: Static > Param > Wildcard
		if child, found := n.children[part]; found {
			n = child
			continue
		}

		if n.paramNode != nil {
			if ctx != nil {
				ctx.AddParam(n.paramName, part)
			}
			n = n.paramNode
			continue
		}

		if n.catchAllNode != nil && n.catchAllNode.Handler != nil {
			if ctx != nil {
				value := part
				if len(searchPath) > 0 {
					value += "/" + searchPath
				}
				ctx.AddParam(n.catchAllName, value)
			}
			return &n.catchAllNode.Route, nil
		}

		return nil, fmt.Errorf("route not found")
	}
}

// Routes returns every registered method and path, sorted.
func (r *TrieRouter) Routes() []apidef.Route {
	routes := append([]apidef.Route(nil), r.routes...)
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Method != routes[j].Method {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	return routes
}

// StaticFS serves fsys for GET and HEAD under pathPrefix.
func (r *TrieRouter) StaticFS(pathPrefix string, fsys fs.FS) error {
	handler := apidef.StaticHandler(apidef.StaticConfig{
		Root:   fsys,
		Prefix: pathPrefix,
	})

	wildcardPath := strings.TrimRight(pathPrefix, "/") + "/*filepath"
	for _, method := range []string{http.MethodGet, http.MethodHead} {
		if err := r.Add(method, wildcardPath, handler); err != nil {
			return err
		}
	}
	return nil
}

var _ apidef.Router = (*TrieRouter)(nil)
