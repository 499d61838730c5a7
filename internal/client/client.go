package client

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
	"strconv"
	"strings"
	"time"

	"smsDashboard/models"
)

// ErrRequestFailed is the only error kind the client distinguishes. It covers
// network failures, non-2xx statuses and undecodable bodies alike.
var ErrRequestFailed = errors.New("request failed")

// RequestError describes one failed call. It unwraps to ErrRequestFailed.
type RequestError struct {
	Op     string
	Method string
	Path   string
	Status int // 0 when no response was received
	Err    error
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("%s: %s %s", e.Op, e.Method, e.Path)
	if e.Status != 0 {
		msg += " -> " + strconv.Itoa(e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRequestFailed}
	}
	return []error{ErrRequestFailed, e.Err}
}

// Options configures a Client.
type Options struct {
	BaseURL string
	// WithCredentials makes the transport keep the session cookie (and any
	// bearer token returned by /token) and attach it to every request.
	WithCredentials bool
	Timeout         time.Duration
	// SOCKS5 routes all traffic through a SOCKS5 proxy, "host:port[:user:pass]".
	SOCKS5 string
	// HTTPClient overrides the underlying client; Jar and Transport are still
	// set according to the options above when they are nil.
	HTTPClient *http.Client
}

// Client talks to the SMS platform API.
type Client struct {
	base  *url.URL
	http  *http.Client
	creds *credentialTransport
}

// New builds a Client from opts.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}

	hc := &http.Client{Timeout: opts.Timeout}
	if opts.HTTPClient != nil {
		cp := *opts.HTTPClient
		hc = &cp
	}

	next := hc.Transport
	if opts.SOCKS5 != "" {
		next, err = socks5Transport(opts.SOCKS5)
		if err != nil {
			return nil, err
		}
	}
	if next == nil {
		next = http.DefaultTransport
	}

	ct := &credentialTransport{next: next, enabled: opts.WithCredentials}
	hc.Transport = ct
	if opts.WithCredentials {
		if hc.Jar == nil {
			jar, err := cookiejar.New(nil)
			if err != nil {
				return nil, fmt.Errorf("cookie jar: %w", err)
			}
			hc.Jar = jar
		}
	} else {
		hc.Jar = nil
	}

	return &Client{base: base, http: hc, creds: ct}, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.base.String() }

// CurrentUser probes the session with GET /users/me.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, "current user", http.MethodGet, "/users/me", nil, "", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login posts the credentials form-encoded to /token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("email", creds.Email)
	form.Set("password", creds.Password)

	var raw json.RawMessage
	if err := c.do(ctx, "login", http.MethodPost, "/token", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &raw); err != nil {
		return nil, err
	}
	var u models.User
	var tok models.Token
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil, &RequestError{Op: "login", Method: http.MethodPost, Path: "/token", Status: http.StatusOK, Err: err}
		}
		if err := json.Unmarshal(raw, &tok); err != nil {
			return nil, &RequestError{Op: "login", Method: http.MethodPost, Path: "/token", Status: http.StatusOK, Err: fmt.Errorf("decode token: %w", err)}
		}
	}
	if tok.AccessToken != "" {
		c.creds.setBearer(tok.AccessToken)
	}
	return &u, nil
}

// Signup posts the registration as JSON to /signup. It does not log in.
func (c *Client) Signup(ctx context.Context, creds models.Credentials) error {
	return c.doJSON(ctx, "signup", http.MethodPost, "/signup", creds, nil)
}

// Logout asks the server to end the session. The stored bearer token is dropped
// only when the server acknowledged.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, "logout", http.MethodPost, "/logout", strings.NewReader("{}"), "application/json", nil); err != nil {
		return err
	}
	c.creds.setBearer("")
	return nil
}

// ListMetrics returns the full metrics snapshot.
func (c *Client) ListMetrics(ctx context.Context) ([]models.Metric, error) {
	out := []models.Metric{}
	if err := c.do(ctx, "list metrics", http.MethodGet, "/metrics/all", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCountryOperators returns the full registry.
func (c *Client) ListCountryOperators(ctx context.Context) ([]models.CountryOperator, error) {
	out := []models.CountryOperator{}
	if err := c.do(ctx, "list country operators", http.MethodGet, "/country_operators", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

type countryOperatorBody struct {
	Country        string `json:"country"`
	Operator       string `json:"operator"`
	IsHighPriority bool   `json:"is_high_priority"`
}

// CreateCountryOperator submits a new entry; the id is assigned by the server.
func (c *Client) CreateCountryOperator(ctx context.Context, co models.CountryOperator) (*models.CountryOperator, error) {
	body := countryOperatorBody{Country: co.Country, Operator: co.Operator, IsHighPriority: co.IsHighPriority}
	var created models.CountryOperator
	if err := c.doJSON(ctx, "create country operator", http.MethodPost, "/country_operator", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCountryOperator replaces all fields of the entry with co.ID.
func (c *Client) UpdateCountryOperator(ctx context.Context, co models.CountryOperator) (*models.CountryOperator, error) {
	var updated models.CountryOperator
	p := "/country_operator/" + strconv.FormatInt(co.ID, 10)
	if err := c.doJSON(ctx, "update country operator", http.MethodPut, p, co, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCountryOperator removes the entry with the given id.
func (c *Client) DeleteCountryOperator(ctx context.Context, id int64) error {
	p := "/country_operator/" + strconv.FormatInt(id, 10)
	return c.do(ctx, "delete country operator", http.MethodDelete, p, nil, "", nil)
}

// StartSession starts sending for the (country, operator) pair.
func (c *Client) StartSession(ctx context.Context, country, operator string) error {
	return c.do(ctx, "start session", http.MethodPost, pairPath("/start_session", country, operator), strings.NewReader("{}"), "application/json", nil)
}

// StopSession stops sending for the (country, operator) pair.
func (c *Client) StopSession(ctx context.Context, country, operator string) error {
	return c.do(ctx, "stop session", http.MethodPost, pairPath("/stop_session", country, operator), strings.NewReader("{}"), "application/json", nil)
}

func pairPath(prefix, country, operator string) string {
	return prefix + "/" + url.PathEscape(country) + "/" + url.PathEscape(operator)
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return &RequestError{Op: op, Method: method, Path: path, Err: err}
	}
	return c.do(ctx, op, method, path, bytes.NewReader(b), "application/json", out)
}

// do issues one request and decodes a 2xx JSON body into out (when non-nil).
func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	fail := func(status int, err error) error {
		return &RequestError{Op: op, Method: method, Path: path, Status: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return fail(0, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fail(resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, errors.New(strings.TrimSpace(snippet(data))))
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func snippet(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	if len(b) == 0 {
		return "empty body"
	}
	return string(b)
}
