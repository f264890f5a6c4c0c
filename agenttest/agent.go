package agenttest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/buildwithgo/apidef"
	"github.com/buildwithgo/apidef/logging"
	"github.com/buildwithgo/apidef/schema"
)

type agentState int

const (
	stateCreated agentState = iota
	stateConfigured
	stateSent
	stateResolved
)

func (s agentState) String() string {
	switch s {
	case stateCreated:
		return "created"
	case stateConfigured:
		return "configured"
	case stateSent:
		return "sent"
	case stateResolved:
		return "resolved"
	}
	return "unknown"
}

// Agent is one pending request against a registered API. An agent is sent
// once; build a new one for every request.
type Agent struct {
	tester *Tester
	client *http.Client
	logger logging.Logger

	method string
	path   string
	key    string
	source string
	schema *schema.Schema

	header http.Header
	form   *form
	state  agentState
}

func (tt *Tester) newAgent(method, path string, client *http.Client) *Agent {
	tt.t.Helper()

	method = strings.ToUpper(method)
	if !schema.IsSupportedMethod(method) {
		tt.t.Fatalf("%v: `method` must be one of %v, got %q", ErrUsage, schema.SupportedMethods, method)
		return nil
	}
	if path == "" || path[0] != '/' {
		tt.t.Fatalf("%v: `path` must start with \"/\", got %q", ErrUsage, path)
		return nil
	}

	routePath, _, _ := strings.Cut(path, "?")
	s, err := tt.app.Registry().Resolve(method, routePath)
	if err != nil {
		tt.t.Fatalf("%v", err)
		return nil
	}

	a := &Agent{
		tester: tt,
		client: client,
		method: method,
		path:   path,
		key:    method + " " + s.Key,
		source: callerLocation(),
		schema: s,
		header: make(http.Header),
		form:   newForm(),
	}
	a.logger = tt.logger.With("agent", a.key)
	a.logger.Debug("new agent", "path", path, "source", a.source)
	return a
}

// Key returns "METHOD key" of the resolved API.
func (a *Agent) Key() string {
	return a.key
}

// Schema returns the schema the request path resolved to.
func (a *Agent) Schema() *schema.Schema {
	return a.schema
}

// Input sets request parameters. GET sends them as query parameters, the
// write methods as a multipart form in which File and *os.File values
// become attachments. Keys are written in sorted order. Attachments given
// to a GET are dropped with a warning.
func (a *Agent) Input(data map[string]any) *Agent {
	if a.state >= stateSent {
		a.logger.Warn("input on a sent agent ignored", "state", a.state)
		return a
	}
	a.logger.Debug("input", "params", len(data))
	a.form.add(data)
	if a.method == http.MethodGet && len(a.form.files) > 0 {
		a.logger.Warn("attachments are not sent with GET", "files", len(a.form.files))
	}
	a.state = stateConfigured
	return a
}

// Header sets a request header.
func (a *Agent) Header(key, value string) *Agent {
	a.header.Set(key, value)
	if a.state == stateCreated {
		a.state = stateConfigured
	}
	return a
}

// Send performs the request and returns the envelope data, or the API
// error decoded from the envelope. Transport and decoding failures are
// returned as they are.
func (a *Agent) Send(ctx context.Context) (any, error) {
	env, err := a.output(ctx)
	if err != nil {
		return nil, err
	}
	if env.Err != nil {
		return nil, env.Err
	}
	return env.Data, nil
}

// SendFunc is Send with a completion callback. cb receives the same
// values Send returns.
func (a *Agent) SendFunc(ctx context.Context, cb func(data any, err error)) (any, error) {
	data, err := a.Send(ctx)
	if cb != nil {
		cb(data, err)
	}
	return data, err
}

// ExpectSuccess returns the envelope data. An API error is reported as an
// *AssertionError whose Payload is that error.
func (a *Agent) ExpectSuccess(ctx context.Context) (any, error) {
	env, err := a.output(ctx)
	if err != nil {
		return nil, err
	}
	if env.Err != nil {
		return nil, newAssertionError(env.Err, "output expected success but got an error %s", inspect(env.Err))
	}
	return env.Data, nil
}

// ExpectSuccessFunc is ExpectSuccess with a completion callback.
func (a *Agent) ExpectSuccessFunc(ctx context.Context, cb func(data any, err error)) (any, error) {
	data, err := a.ExpectSuccess(ctx)
	if cb != nil {
		cb(data, err)
	}
	return data, err
}

// ExpectSuccessInto decodes the envelope data into out.
func (a *Agent) ExpectSuccessInto(ctx context.Context, out any) error {
	data, err := a.ExpectSuccess(ctx)
	if err != nil {
		return err
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("agenttest: re-encode %s data: %w", a.key, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("agenttest: decode %s data: %w", a.key, err)
	}
	return nil
}

// ExpectError returns the API error of the envelope. A successful
// envelope is reported as an *AssertionError whose Payload is the data.
func (a *Agent) ExpectError(ctx context.Context) (apiErr error, err error) {
	env, err := a.output(ctx)
	if err != nil {
		return nil, err
	}
	if env.Err == nil {
		return nil, newAssertionError(env.Data, "output expected an error but got result %s", inspect(env.Data))
	}
	return env.Err, nil
}

// ExpectErrorFunc is ExpectError with a completion callback.
func (a *Agent) ExpectErrorFunc(ctx context.Context, cb func(apiErr error, err error)) (error, error) {
	apiErr, err := a.ExpectError(ctx)
	if cb != nil {
		cb(apiErr, err)
	}
	return apiErr, err
}

// Raw performs the request and returns the undecoded response. The caller
// closes the body.
func (a *Agent) Raw(ctx context.Context) (*http.Response, error) {
	resp, err := a.do(ctx)
	if err != nil {
		return nil, err
	}
	a.state = stateResolved
	return resp, nil
}

func (a *Agent) output(ctx context.Context) (apidef.Envelope, error) {
	resp, err := a.do(ctx)
	if err != nil {
		return apidef.Envelope{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apidef.Envelope{}, fmt.Errorf("agenttest: read %s response: %w", a.key, err)
	}
	env, err := a.tester.app.ReverseFormatter()(body)
	if err != nil {
		a.logger.Debug("undecodable response", "status", resp.StatusCode, "body", string(body))
		return apidef.Envelope{}, err
	}
	a.state = stateResolved
	a.logger.Debug("output", "status", resp.StatusCode, "failed", env.Failed())
	return env, nil
}

func (a *Agent) do(ctx context.Context) (*http.Response, error) {
	if a.state >= stateSent {
		return nil, ErrAgentUsed
	}
	a.state = stateSent

	req, err := a.build(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("send", "url", req.URL.String())
	return a.client.Do(req)
}

func (a *Agent) build(ctx context.Context) (*http.Request, error) {
	u, err := url.Parse(a.tester.baseURL + a.path)
	if err != nil {
		return nil, fmt.Errorf("agenttest: build %s url: %w", a.key, err)
	}

	var (
		body        io.Reader
		contentType string
	)
	if a.method == http.MethodGet {
		q := u.Query()
		for k, vs := range a.form.values() {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	} else if !a.form.empty() {
		buf := &bytes.Buffer{}
		contentType, err = a.form.writeMultipart(buf)
		if err != nil {
			return nil, fmt.Errorf("agenttest: encode %s form: %w", a.key, err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, a.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("agenttest: build %s request: %w", a.key, err)
	}
	for k, vs := range a.header {
		req.Header[k] = vs
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}
