package zabbix

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kidoz/zbxctl/internal/errs"
)

// recordedRequest is one JSON-RPC request as the fake server saw it.
type recordedRequest struct {
	Method string
	Params json.RawMessage
	ID     int64
	// BodyAuth is the body "auth" member, nil when absent.
	BodyAuth *string
	Header   http.Header
}

// fakeServer speaks Zabbix JSON-RPC and records every request. The
// handler receives the decoded method and params and returns the
// result value or an API error.
type fakeServer struct {
	*httptest.Server
	requests []recordedRequest
}

func newFakeServer(t *testing.T, handler func(method string, params json.RawMessage) (any, *errs.APIError)) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
			ID     int64           `json:"id"`
			Auth   *string         `json:"auth"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		fs.requests = append(fs.requests, recordedRequest{
			Method:   req.Method,
			Params:   req.Params,
			ID:       req.ID,
			BodyAuth: req.Auth,
			Header:   r.Header.Clone(),
		})

		result, apiErr := handler(req.Method, req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if apiErr != nil {
			resp["error"] = apiErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) last(t *testing.T) recordedRequest {
	t.Helper()
	if len(fs.requests) == 0 {
		t.Fatal("no requests recorded")
	}
	return fs.requests[len(fs.requests)-1]
}

// newTestClient creates a Client against the fake server with the
// version already cached, so tests control the traits directly.
func newTestClient(t *testing.T, fs *fakeServer, version string) *Client {
	t.Helper()
	v := MustParseVersion(version)
	return &Client{
		apiURL:     fs.URL,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		httpClient: fs.Client(),
		version:    v,
		traits:     TraitsFor(v),
		hasVer:     true,
	}
}

func okHandler(method string, _ json.RawMessage) (any, *errs.APIError) {
	switch method {
	case "apiinfo.version":
		return "7.0.0", nil
	case "user.login":
		return "session-id-123", nil
	case "host.get":
		return []any{map[string]any{"hostid": "10084"}}, nil
	default:
		return true, nil
	}
}

func TestLogin_TokenModernServer(t *testing.T) {
	fs := newFakeServer(t, okHandler)
	c := newTestClient(t, fs, "6.4.0")

	if err := c.Login(context.Background(), Credentials{Token: "AAA"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !c.UsingAPIToken() {
		t.Error("client should be in API token mode")
	}

	// The probe must be host.get with Bearer auth and no body auth.
	probe := fs.last(t)
	if probe.Method != "host.get" {
		t.Fatalf("probe method = %q, want host.get", probe.Method)
	}
	if got := probe.Header.Get("Authorization"); got != "Bearer AAA" {
		t.Errorf("Authorization = %q, want Bearer AAA", got)
	}
	if probe.BodyAuth != nil {
		t.Errorf("body auth = %q, want absent", *probe.BodyAuth)
	}
}

func TestLogin_PasswordLegacyServer(t *testing.T) {
	fs := newFakeServer(t, okHandler)
	c := newTestClient(t, fs, "5.2.0")

	if err := c.Login(context.Background(), Credentials{Username: "Admin", Password: "zabbix"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	login := fs.requests[0]
	if login.Method != "user.login" {
		t.Fatalf("first method = %q, want user.login", login.Method)
	}
	var params map[string]string
	if err := json.Unmarshal(login.Params, &params); err != nil {
		t.Fatalf("params: %v", err)
	}
	// 5.2 spells the login parameter "user", not "username".
	if params["user"] != "Admin" || params["username"] != "" {
		t.Errorf("login params = %v, want user=Admin", params)
	}
	if login.BodyAuth != nil {
		t.Error("user.login must not carry auth")
	}

	probe := fs.last(t)
	if probe.BodyAuth == nil || *probe.BodyAuth != "session-id-123" {
		t.Errorf("probe body auth = %v, want session-id-123", probe.BodyAuth)
	}
	if probe.Header.Get("Authorization") != "" {
		t.Error("pre-6.4 servers must not get an Authorization header")
	}
	if c.SessionID() != "session-id-123" {
		t.Errorf("SessionID = %q", c.SessionID())
	}
}

func TestLogin_ModernUsernameField(t *testing.T) {
	fs := newFakeServer(t, okHandler)
	c := newTestClient(t, fs, "6.4.0")

	if err := c.Login(context.Background(), Credentials{Username: "Admin", Password: "zabbix"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	var params map[string]string
	if err := json.Unmarshal(fs.requests[0].Params, &params); err != nil {
		t.Fatalf("params: %v", err)
	}
	if params["username"] != "Admin" {
		t.Errorf("login params = %v, want username=Admin", params)
	}
}

func TestLogin_RejectedCredentialClearsState(t *testing.T) {
	fs := newFakeServer(t, func(method string, _ json.RawMessage) (any, *errs.APIError) {
		if method == "host.get" {
			return nil, &errs.APIError{Code: -32602, Message: "Not authorized."}
		}
		return okHandler(method, nil)
	})
	c := newTestClient(t, fs, "6.4.0")

	err := c.Login(context.Background(), Credentials{Token: "BAD"})
	if !errs.IsNotAuthorized(err) {
		t.Fatalf("err = %v, want NotAuthorized kind", err)
	}
	if c.LoggedIn() {
		t.Error("a rejected login must clear the token")
	}
}

func TestRequestIDIncrements(t *testing.T) {
	calls := 0
	fs := newFakeServer(t, func(method string, _ json.RawMessage) (any, *errs.APIError) {
		calls++
		if calls == 2 {
			return nil, &errs.APIError{Code: -1, Message: "boom"}
		}
		return "7.0.0", nil
	})
	c := newTestClient(t, fs, "7.0.0")

	for i := 0; i < 3; i++ {
		_, _ = c.call(context.Background(), "apiinfo.version", nil)
	}

	// The counter moves by exactly 1 per request, failures included.
	for i, req := range fs.requests {
		if req.ID != int64(i+1) {
			t.Errorf("request %d has id %d, want %d", i, req.ID, i+1)
		}
	}
}

func TestAPIVersionCached(t *testing.T) {
	fs := newFakeServer(t, okHandler)
	c := &Client{
		apiURL:     fs.URL,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		httpClient: fs.Client(),
	}

	for i := 0; i < 3; i++ {
		v, err := c.APIVersion(context.Background())
		if err != nil {
			t.Fatalf("APIVersion: %v", err)
		}
		if v.String() != "7.0.0" {
			t.Errorf("version = %s", v)
		}
	}
	if len(fs.requests) != 1 {
		t.Errorf("apiinfo.version called %d times, want 1", len(fs.requests))
	}
	if fs.requests[0].BodyAuth != nil || fs.requests[0].Header.Get("Authorization") != "" {
		t.Error("apiinfo.version must not carry auth")
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		check func(error) bool
	}{
		{name: "token expired", data: "API token expired.", check: errs.IsTokenExpired},
		{name: "session expired", data: "Session terminated, re-login, please.", check: errs.IsSessionExpired},
		{name: "not authorized", data: "Not authorized.", check: errs.IsNotAuthorized},
		{name: "generic", data: "Incorrect arguments.", check: func(err error) bool {
			return errs.KindOf(err) == errs.KindRequest
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFakeServer(t, func(string, json.RawMessage) (any, *errs.APIError) {
				return nil, &errs.APIError{Code: -32602, Message: "Application error.", Data: tt.data}
			})
			c := newTestClient(t, fs, "7.0.0")

			_, err := c.call(context.Background(), "host.get", nil)
			if err == nil || !tt.check(err) {
				t.Errorf("err = %v, wrong kind", err)
			}
		})
	}
}

func TestErrorRedaction(t *testing.T) {
	fs := newFakeServer(t, func(method string, _ json.RawMessage) (any, *errs.APIError) {
		return nil, &errs.APIError{
			Code:    -32602,
			Message: "Invalid params.",
			Data:    `Login failed for token "secret-token-AAA" with password "hunter2".`,
		}
	})
	c := newTestClient(t, fs, "7.0.0")
	c.token = "secret-token-AAA"

	_, err := c.call(context.Background(), "user.update", map[string]any{
		"userid":   "1",
		"password": "hunter2",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if strings.Contains(msg, "secret-token-AAA") || strings.Contains(msg, "hunter2") {
		t.Errorf("error message leaks secrets: %s", msg)
	}
	if !strings.Contains(msg, "***") {
		t.Errorf("expected placeholder in message: %s", msg)
	}
}

func TestEmptyResponseBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := newTestClient(t, &fakeServer{Server: ts}, "7.0.0")
	_, err := c.call(context.Background(), "host.get", nil)
	if errs.KindOf(err) != errs.KindRequest {
		t.Errorf("err = %v, want request kind", err)
	}
}

func TestMalformedResponseBody(t *testing.T) {
	body := "<html>gateway error</html>"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, body)
	}))
	defer ts.Close()

	c := newTestClient(t, &fakeServer{Server: ts}, "7.0.0")
	_, err := c.call(context.Background(), "host.get", nil)
	if !errs.IsResponseParsing(err) {
		t.Fatalf("err = %v, want response parsing kind", err)
	}
	// The message reports the size of the garbage, never the garbage.
	if !strings.Contains(err.Error(), "26 bytes") {
		t.Errorf("message should carry the byte length: %s", err.Error())
	}
	if strings.Contains(err.Error(), "gateway") {
		t.Errorf("message must not contain the body: %s", err.Error())
	}
}

func TestHTTPStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "db down", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := newTestClient(t, &fakeServer{Server: ts}, "7.0.0")
	_, err := c.call(context.Background(), "host.get", nil)
	if errs.KindOf(err) != errs.KindRequest {
		t.Fatalf("err = %v, want request kind", err)
	}
	var e *errs.Error
	if !errors.As(err, &e) || e.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("HTTPStatus not propagated: %v", err)
	}
}

func TestLogout_APITokenMakesNoCall(t *testing.T) {
	fs := newFakeServer(t, okHandler)
	c := newTestClient(t, fs, "6.4.0")
	c.token = "AAA"
	c.useAPIToken = true

	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(fs.requests) != 0 {
		t.Errorf("token logout made %d server calls, want 0", len(fs.requests))
	}
	if c.LoggedIn() {
		t.Error("logout must clear the token")
	}
}

func TestLogout_SessionCallsServer(t *testing.T) {
	fs := newFakeServer(t, okHandler)
	c := newTestClient(t, fs, "6.4.0")
	c.token = "session-1"

	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if fs.last(t).Method != "user.logout" {
		t.Errorf("method = %q, want user.logout", fs.last(t).Method)
	}
}

func TestLogout_ExpiredSessionSwallowed(t *testing.T) {
	fs := newFakeServer(t, func(string, json.RawMessage) (any, *errs.APIError) {
		return nil, &errs.APIError{Code: -32602, Message: "Session terminated, re-login, please."}
	})
	c := newTestClient(t, fs, "6.4.0")
	c.token = "session-1"

	if err := c.Logout(context.Background()); err != nil {
		t.Errorf("expired session at logout should not error: %v", err)
	}
}
