// Package schema holds the API schema registry: route entries, their
// parameter documentation, custom types and examples.
//
// A Registry is built once at startup and frozen before it is served or
// rendered. After Freeze it is read-only and safe for concurrent readers.
package schema

import (
	"net/http"
	"strings"
)

// SupportedMethods lists the HTTP methods an API definition may use.
var SupportedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// IsSupportedMethod reports whether method (any case) is in SupportedMethods.
func IsSupportedMethod(method string) bool {
	m := strings.ToUpper(method)
	for _, s := range SupportedMethods {
		if s == m {
			return true
		}
	}
	return false
}

// SourceFile is where an API was declared.
type SourceFile struct {
	Absolute string `json:"absolute" yaml:"absolute"`
	Relative string `json:"relative" yaml:"relative"`
}

// Param documents one input parameter.
type Param struct {
	Type    string `json:"type" yaml:"type"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
	// Default is nil when the parameter has no default.
	Default any `json:"default,omitempty" yaml:"default,omitempty"`
}

// HasDefault reports whether a default value was declared.
func (p Param) HasDefault() bool {
	return p.Default != nil
}

// Example is a worked request/response pair shown in the docs.
type Example struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Input       any    `json:"input" yaml:"input"`
	Output      any    `json:"output" yaml:"output"`
}

// Type describes a parameter type. Checker and Formatter hold the
// human-readable definitions shown in the docs.
type Type struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description" yaml:"description"`
	Checker     string `json:"checker,omitempty" yaml:"checker,omitempty"`
	Formatter   string `json:"formatter,omitempty" yaml:"formatter,omitempty"`
	IsDefault   bool   `json:"isDefault,omitempty" yaml:"isDefault,omitempty"`
}

// Schema is a registered API: its route entry plus documentation.
type Schema struct {
	Method        string           `json:"method" yaml:"method"`
	Path          string           `json:"path" yaml:"path"`
	Key           string           `json:"key,omitempty" yaml:"key,omitempty"`
	Title         string           `json:"title,omitempty" yaml:"title,omitempty"`
	Description   string           `json:"description,omitempty" yaml:"description,omitempty"`
	Group         string           `json:"group,omitempty" yaml:"group,omitempty"`
	SourceFile    SourceFile       `json:"sourceFile" yaml:"sourceFile"`
	Params        map[string]Param `json:"params,omitempty" yaml:"params,omitempty"`
	Required      []string         `json:"required,omitempty" yaml:"required,omitempty"`
	RequiredOneOf [][]string       `json:"requiredOneOf,omitempty" yaml:"requiredOneOf,omitempty"`
	Examples      []Example        `json:"examples,omitempty" yaml:"examples,omitempty"`

	pattern *Pattern
}

// Route returns "METHOD /path".
func (s *Schema) Route() string {
	return strings.ToUpper(s.Method) + " " + s.Path
}

// ID returns the anchor used for the schema in rendered docs: "[METHOD]/path".
func (s *Schema) ID() string {
	return "[" + strings.ToUpper(s.Method) + "]" + s.Path
}

// Match reports whether path matches the schema's path pattern.
func (s *Schema) Match(path string) bool {
	if s.pattern == nil {
		p, err := CompilePattern(s.Path)
		if err != nil {
			return false
		}
		s.pattern = p
	}
	return s.pattern.Match(path)
}
