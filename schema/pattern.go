package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is a compiled route path pattern.
//
// Segments of the form :name or {name} match exactly one path segment,
// *name matches the rest of the path. Everything else matches literally.
type Pattern struct {
	source string
	shape  string
	names  []string
	re     *regexp.Regexp
}

// CompilePattern compiles a route path into a Pattern.
func CompilePattern(path string) (*Pattern, error) {
	if path == "" || path[0] != '/' {
		return nil, fmt.Errorf("%w: path %q must start with \"/\"", ErrInvalidPattern, path)
	}

	var expr, shape strings.Builder
	expr.WriteString("^")
	var names []string

	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if part == "" {
			continue
		}
		expr.WriteString("/")
		shape.WriteString("/")

		switch {
		case part[0] == ':' || (len(part) > 1 && part[0] == '{' && part[len(part)-1] == '}'):
			name := part[1:]
			if part[0] == '{' {
				name = part[1 : len(part)-1]
			}
			if name == "" {
				return nil, fmt.Errorf("%w: empty parameter name in %q", ErrInvalidPattern, path)
			}
			names = append(names, name)
			expr.WriteString("([^/]+)")
			shape.WriteString(":")
		case part[0] == '*':
			if i != len(parts)-1 {
				return nil, fmt.Errorf("%w: wildcard must be the last segment in %q", ErrInvalidPattern, path)
			}
			names = append(names, part[1:])
			expr.WriteString("(.*)")
			shape.WriteString("*")
		default:
			expr.WriteString(regexp.QuoteMeta(part))
			shape.WriteString(part)
		}
	}
	if shape.Len() == 0 {
		shape.WriteString("/")
	}
	expr.WriteString("/?$")

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return &Pattern{source: path, shape: shape.String(), names: names, re: re}, nil
}

// String returns the original path.
func (p *Pattern) String() string {
	return p.source
}

// Shape returns the path with every parameter replaced by ":" and every
// wildcard by "*". Two patterns with the same shape match the same paths.
func (p *Pattern) Shape() string {
	return p.shape
}

// Match reports whether path matches.
func (p *Pattern) Match(path string) bool {
	return p.re.MatchString(path)
}

// Params extracts parameter values from path. It returns nil when path
// does not match.
func (p *Pattern) Params(path string) map[string]string {
	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return nil
	}
	params := make(map[string]string, len(p.names))
	for i, name := range p.names {
		params[name] = m[i+1]
	}
	return params
}
