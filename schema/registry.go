package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/buildwithgo/apidef/logging"
)

// DefaultTypes are the built-in parameter types. They are registered by
// NewRegistry and hidden from the custom type section of the docs.
var DefaultTypes = []Type{
	{Name: "String", Description: "string", IsDefault: true},
	{Name: "Integer", Description: "integer", IsDefault: true},
	{Name: "Number", Description: "number", IsDefault: true},
	{Name: "Boolean", Description: "boolean", IsDefault: true},
	{Name: "Date", Description: "date", IsDefault: true},
	{Name: "Object", Description: "object", IsDefault: true},
	{Name: "Array", Description: "array", IsDefault: true},
}

// Registry is the ordered set of registered schemas and types.
type Registry struct {
	mu      sync.RWMutex
	schemas []*Schema
	byRoute map[string]*Schema
	types   map[string]Type
	frozen  bool
	logger  logging.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for configuration warnings.
func WithLogger(logger logging.Logger) Option {
	return func(r *Registry) {
		r.logger = logging.OrNop(logger)
	}
}

// NewRegistry creates an empty registry holding DefaultTypes.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byRoute: make(map[string]*Schema),
		types:   make(map[string]Type),
		logger:  logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, t := range DefaultTypes {
		r.types[t.Name] = t
	}
	return r
}

// Add registers s. The method is normalized to upper case and the key
// defaults to the route string. Registering a path whose shape duplicates
// an existing entry for the same method is allowed but logged, since
// resolution then depends on registration order.
func (r *Registry) Add(s *Schema) error {
	if s == nil {
		return fmt.Errorf("schema: nil schema")
	}
	if !IsSupportedMethod(s.Method) {
		return fmt.Errorf("%w: %q", ErrUnsupportedMethod, s.Method)
	}
	s.Method = strings.ToUpper(s.Method)

	p, err := CompilePattern(s.Path)
	if err != nil {
		return err
	}
	s.pattern = p
	if s.Key == "" {
		s.Key = s.Route()
	}
	if s.Params == nil {
		s.Params = make(map[string]Param)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozen
	}
	route := s.Route()
	if _, ok := r.byRoute[route]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRoute, route)
	}
	for _, other := range r.schemas {
		if other.Method == s.Method && other.pattern.Shape() == p.Shape() {
			r.logger.Warn("ambiguous route registration",
				"route", route, "shadowed_by", other.Route(), "key", other.Key)
		}
	}

	r.schemas = append(r.schemas, s)
	r.byRoute[route] = s
	r.logger.Debug("registered schema", "route", route, "key", s.Key)
	return nil
}

// AddType registers a custom parameter type.
func (r *Registry) AddType(t Type) error {
	if t.Name == "" {
		return fmt.Errorf("schema: type name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrFrozen
	}
	r.types[t.Name] = t
	return nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Schemas returns the registered schemas in registration order.
func (r *Registry) Schemas() []*Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Schema(nil), r.schemas...)
}

// Type looks up a type by name.
func (r *Registry) Type(name string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	if ok && t.Name == "" {
		t.Name = name
	}
	return t, ok
}

// Types returns all types sorted by name.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]Type, 0, len(r.types))
	for name, t := range r.types {
		t.Name = name
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types
}

// Remove unregisters the schema for exactly method and path. It reports
// whether an entry was removed; a frozen registry is left untouched.
func (r *Registry) Remove(method, path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return false
	}
	route := strings.ToUpper(method) + " " + path
	s, ok := r.byRoute[route]
	if !ok {
		return false
	}
	delete(r.byRoute, route)
	for i, other := range r.schemas {
		if other == s {
			r.schemas = append(r.schemas[:i], r.schemas[i+1:]...)
			break
		}
	}
	return true
}

// Lookup returns the schema registered for exactly method and path.
func (r *Registry) Lookup(method, path string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byRoute[strings.ToUpper(method)+" "+path]
	return s, ok
}

// Resolve returns the schema for a request path. An entry whose path is
// exactly path wins; otherwise the first entry, in registration order,
// whose pattern matches. When several patterns match, the first is
// returned and the ambiguity is logged.
func (r *Registry) Resolve(method, path string) (*Schema, error) {
	if s, ok := r.Lookup(method, path); ok {
		return s, nil
	}

	method = strings.ToUpper(method)
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *Schema
	for _, s := range r.schemas {
		if s.Method != method || !s.pattern.Match(path) {
			continue
		}
		if found == nil {
			found = s
			continue
		}
		r.logger.Warn("ambiguous route resolution",
			"path", path, "resolved", found.Route(), "also_matches", s.Route())
	}
	if found == nil {
		return nil, &RouteError{Method: method, Path: path}
	}
	return found, nil
}
