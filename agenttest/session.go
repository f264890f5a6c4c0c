package agenttest

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// Session creates agents that share one client and cookie jar, so a
// cookie set by one response is sent with the following requests. Agents
// of a session must be sent one after another.
type Session struct {
	tester *Tester
	client *http.Client
	jar    *cookiejar.Jar
}

// GET creates an agent for a GET request carrying the session cookies.
func (s *Session) GET(path string) *Agent {
	s.tester.t.Helper()
	return s.tester.newAgent(http.MethodGet, path, s.client)
}

// POST creates an agent for a POST request carrying the session cookies.
func (s *Session) POST(path string) *Agent {
	s.tester.t.Helper()
	return s.tester.newAgent(http.MethodPost, path, s.client)
}

// PUT creates an agent for a PUT request carrying the session cookies.
func (s *Session) PUT(path string) *Agent {
	s.tester.t.Helper()
	return s.tester.newAgent(http.MethodPut, path, s.client)
}

// DELETE creates an agent for a DELETE request carrying the session cookies.
func (s *Session) DELETE(path string) *Agent {
	s.tester.t.Helper()
	return s.tester.newAgent(http.MethodDelete, path, s.client)
}

// Request creates a session agent for any supported method, in any case.
func (s *Session) Request(method, path string) *Agent {
	s.tester.t.Helper()
	return s.tester.newAgent(method, path, s.client)
}

// Cookies returns the cookies the session would send to the base URL.
func (s *Session) Cookies() []*http.Cookie {
	u, err := url.Parse(s.tester.baseURL + "/")
	if err != nil {
		return nil
	}
	return s.jar.Cookies(u)
}
