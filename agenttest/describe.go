package agenttest

import (
	"context"
	"testing"
	"time"

	"github.com/buildwithgo/apidef"
	"github.com/buildwithgo/apidef/logging"
)

// Runner is the part of *testing.T that Describe needs.
type Runner interface {
	TB
	Run(name string, f func(t *testing.T)) bool
}

// Describe runs fn as the subtest name once app is ready. The init hooks
// registered with app.OnInit finish before fn starts, and a failing hook
// fails the group.
func Describe(t Runner, app *apidef.App, name string, fn func(t *testing.T)) bool {
	if t == nil {
		panic("agenttest: Describe must be called from a running test")
	}
	t.Helper()
	if name == "" {
		t.Fatalf("%v: `name` could not be empty", ErrUsage)
		return false
	}
	if app == nil {
		t.Fatalf("%v: app instance could not be empty", ErrUsage)
		return false
	}
	if fn == nil {
		t.Fatalf("%v: describe %q has no body", ErrUsage, name)
		return false
	}

	logger := app.Logger().With("describe", name)
	return t.Run(name, func(t *testing.T) {
		if !enterGroup(t, app, name, logger) {
			return
		}
		fn(t)
	})
}

// groupT is the part of *testing.T used while entering a group.
type groupT interface {
	Fatalf(format string, args ...any)
	Cleanup(func())
	Deadline() (time.Time, bool)
	Context() context.Context
}

// enterGroup waits for app and registers the teardown log. It reports
// false after failing t when the app could not get ready.
func enterGroup(t groupT, app *apidef.App, name string, logger logging.Logger) bool {
	logger.Debug("before")
	if err := app.Ready(readyContext(t)); err != nil {
		t.Fatalf("agenttest: app not ready for %q: %v", name, err)
		return false
	}
	t.Cleanup(func() {
		logger.Debug("after")
	})
	return true
}

func readyContext(t groupT) context.Context {
	if deadline, ok := t.Deadline(); ok {
		ctx, cancel := context.WithDeadline(t.Context(), deadline)
		t.Cleanup(cancel)
		return ctx
	}
	return t.Context()
}
