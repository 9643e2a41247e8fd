package odoo

// Package odoo implements the Authenticator port against Odoo's HTTP/JSON
// session endpoints. Only the session contract is modeled here; the ERP's
// business API is consumed opaquely by the gateway proxy.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/mtnd/patrimoine-gateway/internal/errors"

	domainauth "github.com/mtnd/patrimoine-gateway/internal/domain/auth"
	"golang.org/x/net/publicsuffix"
)

const (
	authenticatePath = "/web/session/authenticate"
	destroyPath      = "/web/session/destroy"
	profilePath      = "/api/users/me"

	// SessionCookieName is the cookie Odoo uses for session propagation.
	SessionCookieName = "session_id"
)

// Client talks to a single Odoo instance/database pair.
type Client struct {
	baseURL    *url.URL
	db         string
	httpClient *http.Client
}

// ClientConfig holds configuration for the Odoo client.
type ClientConfig struct {
	BaseURL  string
	Database string
	Timeout  time.Duration
	// HTTPClient is optional; when nil a client with a public-suffix-aware
	// cookie jar is built so auxiliary cookies set by Odoo survive the
	// authenticate → profile sequence.
	HTTPClient *http.Client
}

// NewClient creates a new Odoo session client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if cfg.Database == "" {
		return nil, errors.New("database is required")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		jar, jarErr := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if jarErr != nil {
			return nil, fmt.Errorf("build cookie jar: %w", jarErr)
		}
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout, Jar: jar}
	}

	return &Client{baseURL: base, db: cfg.Database, httpClient: httpClient}, nil
}

// rpcRequest is the JSON-RPC style envelope Odoo's session endpoints expect.
type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Params  rpcParams `json:"params"`
}

type rpcParams struct {
	DB       string `json:"db"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

type rpcError struct {
	Message string `json:"message"`
	Data    *struct {
		Message string `json:"message"`
	} `json:"data,omitempty"`
}

// text returns the most specific backend-supplied message, or "" when none.
func (e *rpcError) text() string {
	if e == nil {
		return ""
	}
	if e.Data != nil && e.Data.Message != "" {
		return e.Data.Message
	}
	return e.Message
}

type authResult struct {
	UID       int    `json:"uid"`
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
}

type authResponse struct {
	Result *authResult `json:"result"`
	Error  *rpcError   `json:"error"`
}

// Authenticate exchanges credentials for a backend session handle.
// It never persists anything; persistence is the session store's job, invoked
// by the caller after the profile fetch succeeds.
func (c *Client) Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.SessionHandle, error) {
	var zero domainauth.SessionHandle

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Params:  rpcParams{DB: c.db, Login: creds.Login, Password: creds.Password},
	})
	if err != nil {
		return zero, fmt.Errorf("marshal authenticate request: %w", err)
	}

	resp, err := c.post(ctx, authenticatePath, bytes.NewReader(body), "")
	if err != nil {
		return zero, apperrors.Wrap(err, apperrors.ErrCodeAuthenticationFailed, "authenticate request failed")
	}
	defer closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, apperrors.AuthenticationFailedf("authenticate failed (HTTP %d)", resp.StatusCode)
	}

	var decoded authResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return zero, apperrors.Wrap(err, apperrors.ErrCodeAuthenticationFailed, "decode authenticate response")
	}

	if decoded.Error != nil {
		msg := decoded.Error.text()
		if msg == "" {
			msg = "authentication rejected by backend"
		}
		return zero, apperrors.AuthenticationFailed(msg)
	}
	if decoded.Result == nil || decoded.Result.UID == 0 {
		return zero, apperrors.AuthenticationFailed("missing user id")
	}

	sessionID := decoded.Result.SessionID
	if sessionID == "" {
		// Newer Odoo versions omit session_id from the result envelope and
		// rely on Set-Cookie alone.
		sessionID = c.sessionCookie(resp)
	}
	if sessionID == "" {
		return zero, apperrors.AuthenticationFailed("session cookie not received")
	}

	return domainauth.SessionHandle{SessionID: sessionID, UserID: decoded.Result.UID}, nil
}

// profileBody is the /api/users/me payload; some deployments wrap it in a
// result envelope, so FetchProfile accepts both shapes.
type profileBody struct {
	UID            int      `json:"uid"`
	Name           string   `json:"name"`
	Username       string   `json:"username"`
	Roles          []string `json:"roles"`
	DepartmentID   *int     `json:"department_id"`
	DepartmentName *string  `json:"department_name"`
}

// FetchProfile fetches the current user's profile for the given session
// handle. The raw role list is returned unprocessed; normalization is the role
// mapper's job.
func (c *Client) FetchProfile(ctx context.Context, handle domainauth.SessionHandle) (domainauth.Profile, error) {
	var zero domainauth.Profile

	resp, err := c.post(ctx, profilePath, strings.NewReader("{}"), handle.SessionID)
	if err != nil {
		return zero, apperrors.Wrap(err, apperrors.ErrCodeProfileFetchFailed, "profile request failed")
	}
	defer closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, apperrors.ProfileFetchFailed(fmt.Sprintf("profile fetch failed (HTTP %d)", resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, apperrors.Wrap(err, apperrors.ErrCodeProfileFetchFailed, "read profile response")
	}

	body, err := decodeProfile(raw)
	if err != nil {
		return zero, err
	}

	return domainauth.Profile{
		UserID:         body.UID,
		DisplayName:    body.Name,
		Username:       body.Username,
		DepartmentID:   body.DepartmentID,
		DepartmentName: body.DepartmentName,
		Roles:          body.Roles,
	}, nil
}

func decodeProfile(raw []byte) (profileBody, error) {
	var zero profileBody
	if len(bytes.TrimSpace(raw)) == 0 {
		return zero, apperrors.ProfileFetchFailed("empty profile response")
	}

	var wrapped struct {
		Result *profileBody `json:"result"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Result != nil {
		if wrapped.Result.UID == 0 {
			return zero, apperrors.ProfileFetchFailed("profile response missing user id")
		}
		return *wrapped.Result, nil
	}

	var flat profileBody
	if err := json.Unmarshal(raw, &flat); err != nil {
		return zero, apperrors.Wrap(err, apperrors.ErrCodeProfileFetchFailed, "decode profile response")
	}
	if flat.UID == 0 {
		return zero, apperrors.ProfileFetchFailed("profile response missing user id")
	}
	return flat, nil
}

// Destroy invalidates the backend session. Used on logout and when rolling
// back a login whose profile fetch failed.
func (c *Client) Destroy(ctx context.Context, handle domainauth.SessionHandle) error {
	if handle.SessionID == "" {
		return nil
	}

	resp, err := c.post(ctx, destroyPath, strings.NewReader("{}"), handle.SessionID)
	if err != nil {
		return fmt.Errorf("destroy session request: %w", err)
	}
	defer closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("destroy session failed (HTTP %d)", resp.StatusCode)
	}
	return nil
}

// post issues a JSON POST to path. When sessionID is non-empty the Odoo
// session cookie is attached explicitly so calls stay valid across gateway
// instances that never saw the original Set-Cookie.
func (c *Client) post(ctx context.Context, path string, body io.Reader, sessionID string) (*http.Response, error) {
	u := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	}

	return c.httpClient.Do(req)
}

// sessionCookie extracts the Odoo session cookie from a response.
func (c *Client) sessionCookie(resp *http.Response) string {
	for _, ck := range resp.Cookies() {
		if ck.Name == SessionCookieName && ck.Value != "" {
			return ck.Value
		}
	}
	return ""
}

func closeBody(resp *http.Response) {
	// Drain so the keep-alive connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
