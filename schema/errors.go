package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrRouteNotFound is returned by Resolve when no entry matches a path.
	ErrRouteNotFound = errors.New("route not found")

	// ErrDuplicateRoute is returned when the same method and path are registered twice.
	ErrDuplicateRoute = errors.New("duplicate route")

	// ErrInvalidPattern is returned for malformed route paths.
	ErrInvalidPattern = errors.New("invalid route pattern")

	// ErrUnsupportedMethod is returned for methods outside SupportedMethods.
	ErrUnsupportedMethod = errors.New("unsupported method")

	// ErrFrozen is returned when mutating a registry after Freeze.
	ErrFrozen = errors.New("registry is frozen")
)

// RouteError names the method and path that failed to resolve.
type RouteError struct {
	Method string
	Path   string
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("try to request undefined API %s %s", e.Method, e.Path)
}

// Is makes errors.Is(err, ErrRouteNotFound) true.
func (e *RouteError) Is(target error) bool {
	return target == ErrRouteNotFound
}
