package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/matchdesk/internal/client/models"
	"github.com/dmitrijs2005/matchdesk/internal/logging"
)

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Token() (string, bool)
}

// RequestOptions describes a single call. Method defaults to GET. Body is
// JSON-encoded and sent for every method except GET.
type RequestOptions struct {
	Method   string
	Query    url.Values
	Headers  map[string]string
	Body     any
	SkipAuth bool
}

type Client struct {
	baseURL string
	hc      *http.Client
	tokens  TokenSource
	log     logging.Logger
	timeout time.Duration

	mu       sync.Mutex
	inFlight int
	lastErr  *Error
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTimeout bounds every request; zero leaves only the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{},
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.With("component", "api")
	return c
}

// Loading reports whether a request is in flight.
func (c *Client) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight > 0
}

// LastError returns the failure of the most recent call, or nil.
func (c *Client) LastError() *Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Client) ClearError() {
	c.mu.Lock()
	c.lastErr = nil
	c.mu.Unlock()
}

func (c *Client) begin() {
	c.mu.Lock()
	c.inFlight++
	c.lastErr = nil
	c.mu.Unlock()
}

func (c *Client) end(err *Error) {
	c.mu.Lock()
	c.inFlight--
	if err != nil {
		c.lastErr = err
	}
	c.mu.Unlock()
}

// Do performs the request and decodes a successful JSON body into out
// (which may be nil). Every failure is returned as *Error.
func (c *Client) Do(ctx context.Context, endpoint string, opts RequestOptions, out any) error {
	c.begin()
	apiErr := c.do(ctx, endpoint, opts, out)
	c.end(apiErr)
	if apiErr != nil {
		return apiErr
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint string, opts RequestOptions, out any) *Error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var token string
	if !opts.SkipAuth {
		var ok bool
		if c.tokens != nil {
			token, ok = c.tokens.Token()
		}
		if !ok || token == "" {
			c.log.Warn(ctx, "request without session", "endpoint", endpoint)
			return &Error{Kind: KindUnauthenticated, Message: MsgNoToken}
		}
	}

	var body io.Reader
	if method != http.MethodGet && opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return &Error{Kind: KindClient, Message: "Request body could not be encoded", Err: err}
		}
		body = bytes.NewReader(b)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.url(endpoint, opts.Query)
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &Error{Kind: KindClient, Message: "Request could not be built", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Error(ctx, "request failed", "method", method, "endpoint", endpoint, "error", err)
		return &Error{Kind: KindNetwork, Message: MsgNetwork, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, StatusCode: resp.StatusCode, Message: MsgNetwork, Err: err}
	}

	c.log.Debug(ctx, "request done",
		"method", method, "endpoint", endpoint, "status", resp.StatusCode, "elapsed", time.Since(start))

	if StatusCodeRangeOf(resp.StatusCode) == Status2xx {
		if out == nil || len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return &Error{Kind: KindServer, StatusCode: resp.StatusCode, Message: MsgBadResponse, Err: err}
		}
		return nil
	}

	var env models.Envelope
	_ = json.Unmarshal(raw, &env)

	apiErr := classify(resp.StatusCode, env)
	apiErr.Err = &models.ResponseError{StatusCode: resp.StatusCode, Data: env}
	c.log.Warn(ctx, "request rejected",
		"method", method, "endpoint", endpoint, "status", resp.StatusCode, "kind", apiErr.Kind.String())
	return apiErr
}

func (c *Client) url(endpoint string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Request performs a call and decodes the success body into a new T.
func Request[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (*T, error) {
	out := new(T)
	if err := c.Do(ctx, endpoint, opts, out); err != nil {
		return nil, err
	}
	return out, nil
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or 0 when err is not a request failure.
func KindOf(err error) Kind {
	if apiErr, ok := AsError(err); ok {
		return apiErr.Kind
	}
	return 0
}
