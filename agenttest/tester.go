// Package agenttest issues requests against an in-process apidef.App and
// asserts on the decoded {error, data} envelope.
//
//	func TestGetUser(t *testing.T) {
//		tt := agenttest.New(t, app)
//		data, err := tt.GET("/users/42").ExpectSuccess(context.Background())
//		require.NoError(t, err)
//	}
//
// Every request path must resolve to an API registered in the App's schema
// registry; unknown paths fail the test.
package agenttest

import (
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"golang.org/x/net/publicsuffix"

	"github.com/buildwithgo/apidef"
	"github.com/buildwithgo/apidef/logging"
)

// DefaultBaseURL is the origin requests are addressed to. Nothing listens
// on it; requests are served in-process.
const DefaultBaseURL = "http://localhost"

// TB is the part of testing.TB the agents need.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Tester creates agents for one App.
type Tester struct {
	t       TB
	app     *apidef.App
	handler http.Handler
	baseURL string
	logger  logging.Logger
}

// Option configures a Tester.
type Option func(*Tester)

// WithBaseURL changes the origin used for request URLs and session cookies.
func WithBaseURL(baseURL string) Option {
	return func(t *Tester) {
		t.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the debug logger. Defaults to the App logger.
func WithLogger(logger logging.Logger) Option {
	return func(t *Tester) {
		t.logger = logging.OrNop(logger)
	}
}

// WithHandler serves requests with h instead of the App. Routes are still
// resolved against the App's registry and responses decoded with its
// reverse formatter.
func WithHandler(h http.Handler) Option {
	return func(t *Tester) {
		t.handler = h
	}
}

// New creates a Tester for app.
func New(t TB, app *apidef.App, opts ...Option) *Tester {
	t.Helper()
	if app == nil {
		t.Fatalf("%v: app instance could not be empty", ErrUsage)
		return nil
	}
	tt := &Tester{
		t:       t,
		app:     app,
		handler: app,
		baseURL: DefaultBaseURL,
		logger:  app.Logger(),
	}
	for _, opt := range opts {
		opt(tt)
	}
	tt.logger = tt.logger.With("component", "agenttest")
	return tt
}

// GET creates an agent for a GET request on a fresh client. The path must
// resolve to a registered API; a query string is allowed.
func (tt *Tester) GET(path string) *Agent {
	tt.t.Helper()
	return tt.newAgent(http.MethodGet, path, tt.freshClient())
}

// POST creates an agent for a POST request on a fresh client.
func (tt *Tester) POST(path string) *Agent {
	tt.t.Helper()
	return tt.newAgent(http.MethodPost, path, tt.freshClient())
}

// PUT creates an agent for a PUT request on a fresh client.
func (tt *Tester) PUT(path string) *Agent {
	tt.t.Helper()
	return tt.newAgent(http.MethodPut, path, tt.freshClient())
}

// DELETE creates an agent for a DELETE request on a fresh client.
func (tt *Tester) DELETE(path string) *Agent {
	tt.t.Helper()
	return tt.newAgent(http.MethodDelete, path, tt.freshClient())
}

// Request creates an agent for any supported method, in any case.
func (tt *Tester) Request(method, path string) *Agent {
	tt.t.Helper()
	return tt.newAgent(method, path, tt.freshClient())
}

// Session creates a Session whose agents share one cookie jar.
func (tt *Tester) Session() *Session {
	tt.t.Helper()
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		tt.t.Fatalf("agenttest: create cookie jar: %v", err)
		return nil
	}
	client := httphelpers.ClientFromHandler(tt.handler)
	client.Jar = jar
	tt.logger.Debug("new session")
	return &Session{tester: tt, client: client, jar: jar}
}

// freshClient returns a client with no cookie state of its own.
func (tt *Tester) freshClient() *http.Client {
	return httphelpers.ClientFromHandler(tt.handler)
}
