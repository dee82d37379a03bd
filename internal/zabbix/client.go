package zabbix

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/kidoz/zbxctl/internal/buildinfo"
	"github.com/kidoz/zbxctl/internal/config"
	"github.com/kidoz/zbxctl/internal/errs"
)

// noAuthMethods are the JSON-RPC methods that must never carry an auth
// token, neither in the body nor in the Authorization header.
var noAuthMethods = map[string]bool{
	"apiinfo.version":          true,
	"user.login":               true,
	"user.checkauthentication": true,
}

// Credentials selects how Login authenticates. Exactly one of Token,
// Session, or the Username/Password pair is used, in that order.
type Credentials struct {
	Username string
	Password string
	// Token is a long-lived API token (Zabbix ≥5.4).
	Token string
	// Session is a session id obtained from an earlier user.login.
	Session string
}

// Client is a Zabbix JSON-RPC API client. One Client serves one caller
// at a time; the request id counter and the auth state are per-client
// and shared by nothing else.
type Client struct {
	apiURL     string
	log        *slog.Logger
	httpClient *http.Client

	token       string
	useAPIToken bool

	version Version
	traits  Traits
	hasVer  bool

	requestID int64
}

// NewClient creates a Zabbix API client. No network traffic happens
// here; the server version is fetched lazily and auth is established by
// Login.
func NewClient(cfg *config.Config, log *slog.Logger) *Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !cfg.API.VerifySSL, //nolint:gosec // G402: user-configurable option, defaults to VerifySSL=true
		},
	}

	return &Client{
		apiURL: cfg.APIURL(),
		log:    log,
		httpClient: &http.Client{
			// 0 means no timeout, which is also http.Client's zero value.
			Timeout:   time.Duration(cfg.API.Timeout) * time.Second,
			Transport: otelhttp.NewTransport(transport),
		},
	}
}

// APIVersion returns the server version, fetched once via
// apiinfo.version and cached for the client's lifetime.
func (c *Client) APIVersion(ctx context.Context) (Version, error) {
	if c.hasVer {
		return c.version, nil
	}

	result, err := c.call(ctx, "apiinfo.version", []string{})
	if err != nil {
		return Version{}, err
	}

	var raw string
	if err := json.Unmarshal(result, &raw); err != nil {
		return Version{}, errs.Wrap(errs.KindResponseParsing, "apiinfo.version result is not a string", err)
	}

	ver, err := ParseVersion(raw)
	if err != nil {
		return Version{}, errs.Wrap(errs.KindResponseParsing, "cannot parse server version", err)
	}

	c.version = ver
	c.traits = TraitsFor(ver)
	c.hasVer = true
	c.log.Debug("detected Zabbix API version", slog.String("version", ver.String()))
	return ver, nil
}

// Traits returns the version-sensitive parameter table for the
// connected server. The version must already be known (Login fetches
// it).
func (c *Client) Traits() Traits {
	return c.traits
}

// ensureVersion populates the cached version and traits if needed.
func (c *Client) ensureVersion(ctx context.Context) error {
	_, err := c.APIVersion(ctx)
	return err
}

// Login establishes auth state. Tokens and session ids are adopted
// as-is; a username/password pair goes through user.login. Every path
// is probed with a minimal host.get so that a dead credential is
// reported here, not on the first real operation.
func (c *Client) Login(ctx context.Context, cred Credentials) error {
	if err := c.ensureVersion(ctx); err != nil {
		return err
	}

	switch {
	case cred.Token != "":
		c.token = cred.Token
		c.useAPIToken = true
	case cred.Session != "":
		c.token = cred.Session
		c.useAPIToken = false
	case cred.Username != "":
		params := map[string]string{
			c.traits.LoginUserField: cred.Username,
			"password":              cred.Password,
		}
		result, err := c.call(ctx, "user.login", params)
		if err != nil {
			return errs.Wrap(errs.KindLogin, fmt.Sprintf("login failed for user %q", cred.Username), err)
		}
		var session string
		if err := json.Unmarshal(result, &session); err != nil {
			return errs.Wrap(errs.KindResponseParsing, "user.login result is not a string", err)
		}
		c.token = session
		c.useAPIToken = false
	default:
		return errs.New(errs.KindLogin, "no credentials given")
	}

	// Probe the credential with the cheapest authenticated call.
	if err := c.probe(ctx); err != nil {
		c.token = ""
		c.useAPIToken = false
		return err
	}

	c.log.Debug("authenticated with Zabbix API", slog.Bool("api_token", c.useAPIToken))
	return nil
}

func (c *Client) probe(ctx context.Context) error {
	_, err := c.call(ctx, "host.get", map[string]any{
		"output": []string{"hostid"},
		"limit":  1,
	})
	return err
}

// Logout releases the credential. API tokens are not server-side
// sessions, so token auth only clears local state. An expired-token
// error from user.logout is not worth surfacing.
func (c *Client) Logout(ctx context.Context) error {
	if c.token == "" {
		return nil
	}
	if c.useAPIToken {
		c.token = ""
		c.useAPIToken = false
		return nil
	}

	_, err := c.call(ctx, "user.logout", []string{})
	c.token = ""
	if err != nil {
		if errs.IsTokenExpired(err) || errs.IsSessionExpired(err) {
			c.log.Debug("session already expired at logout", slog.String("error", err.Error()))
			return nil
		}
		return errs.Wrap(errs.KindLogout, "logout failed", err)
	}
	return nil
}

// LoggedIn reports whether the client holds a credential.
func (c *Client) LoggedIn() bool {
	return c.token != ""
}

// UsingAPIToken reports whether the held credential is an API token
// rather than a session id.
func (c *Client) UsingAPIToken() bool {
	return c.useAPIToken
}

// SessionID returns the session id obtained from user.login, or ""
// when the client authenticated with an API token.
func (c *Client) SessionID() string {
	if c.useAPIToken {
		return ""
	}
	return c.token
}

// call posts one JSON-RPC request and returns the raw result member.
// Errors are classified into the errs kinds and redacted before they
// leave the transport.
func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	reqID := atomic.AddInt64(&c.requestID, 1)

	if params == nil {
		params = map[string]any{}
	}
	envelope := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      reqID,
	}

	authed := c.token != "" && !noAuthMethods[method]
	if authed && !c.traits.AuthViaHeader {
		envelope["auth"] = c.token
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return nil, errs.Wrap(errs.KindRequest, "cannot marshal request", err)
	}

	c.log.Debug("calling Zabbix API", slog.String("method", method), slog.Int64("id", reqID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, errs.Wrap(errs.KindRequest, "cannot create request", err)
	}
	req.Header.Set("Content-Type", "application/json-rpc")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	req.Header.Set("Cache-Control", "no-cache")
	if authed && c.traits.AuthViaHeader {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.KindRequest, fmt.Sprintf("%s request failed", method), err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.KindRequest, "cannot read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errs.FromAPI(errs.KindRequest,
			fmt.Sprintf("%s returned HTTP %d", method, resp.StatusCode), nil, resp.StatusCode)
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, errs.FromAPI(errs.KindRequest,
			fmt.Sprintf("%s returned an empty response", method), nil, resp.StatusCode)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		// The body may contain secrets or a server stack trace: report
		// only its length.
		return nil, errs.FromAPI(errs.KindResponseParsing,
			fmt.Sprintf("%s response is not valid JSON-RPC (%d bytes)", method, len(respBody)),
			nil, resp.StatusCode)
	}

	if apiResp.Error != nil {
		return nil, c.classifyAPIError(method, params, apiResp.Error, resp.StatusCode)
	}

	return apiResp.Result, nil
}

// classifyAPIError maps a server-reported error to a kind by the
// substrings Zabbix uses, redacting credentials first.
func (c *Client) classifyAPIError(method string, params any, apiErr *errs.APIError, httpStatus int) error {
	redacted := &errs.APIError{
		Code:    apiErr.Code,
		Message: c.redact(apiErr.Message, params),
		Data:    c.redact(apiErr.Data, params),
	}

	kind := errs.KindRequest
	combined := strings.ToLower(redacted.Message + " " + redacted.Data)
	switch {
	case strings.Contains(combined, "api token expired"):
		kind = errs.KindTokenExpired
	case strings.Contains(combined, "re-login"):
		kind = errs.KindSessionExpired
	case strings.Contains(combined, "not authorized"):
		kind = errs.KindNotAuthorized
	}

	return errs.FromAPI(kind, fmt.Sprintf("%s failed: %s", method, redacted.Error()), redacted, httpStatus)
}

// redact replaces the live auth token and any token/password parameter
// values in s with a placeholder. Server error messages quote request
// params verbatim, so this runs on everything the server sent back.
func (c *Client) redact(s string, params any) string {
	if s == "" {
		return s
	}
	if c.token != "" {
		s = strings.ReplaceAll(s, c.token, "***")
	}
	m, ok := params.(map[string]string)
	if ok {
		for key, value := range m {
			if (key == "token" || key == "password") && value != "" {
				s = strings.ReplaceAll(s, value, "***")
			}
		}
		return s
	}
	if m, ok := params.(map[string]any); ok {
		for key, value := range m {
			str, isStr := value.(string)
			if (key == "token" || key == "password") && isStr && str != "" {
				s = strings.ReplaceAll(s, str, "***")
			}
		}
	}
	return s
}

// callResult performs a call and unmarshals the result into out.
func (c *Client) callResult(ctx context.Context, method string, params any, out any) error {
	result, err := c.call(ctx, method, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(result, out); err != nil {
		return errs.Wrap(errs.KindResponseParsing,
			fmt.Sprintf("cannot decode %s result", method), err)
	}
	return nil
}
