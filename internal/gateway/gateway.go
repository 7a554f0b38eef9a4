package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/nakamoto-negai/oshare-style-linkers/domain"
)

// TokenSource yields the persisted bearer token, "" when absent. The gateway
// reads it on every call so a token saved or cleared mid-process takes effect
// immediately.
type TokenSource interface {
	Token() (string, error)
}

// Client is the single chokepoint for all HTTP exchanges with the backend.
// It owns URL construction, header and credential attachment, and error
// normalization; it performs no schema validation.
type Client struct {
	baseURL string
	http    *fasthttp.Client
	tokens  TokenSource
	timeout time.Duration
	logger  *zap.Logger

	mu             sync.RWMutex
	onUnauthorized func()
}

// Options allows overriding client dependencies.
type Options struct {
	HTTPClient *fasthttp.Client
	Timeout    time.Duration
	Logger     *zap.Logger
}

const defaultTimeout = 15 * time.Second

// New builds a gateway rooted at baseURL (origin plus /api prefix, no
// trailing slash).
func New(baseURL string, tokens TokenSource, opts Options) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base url is empty")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		tokens:  tokens,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// SetUnauthorizedHook registers the callback fired when an authenticated
// request comes back 401. The session manager uses it to drop a revoked
// token.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// Response is the raw outcome of a single exchange.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// IsJSON reports whether the response declared a JSON body.
func (r *Response) IsJSON() bool {
	return r != nil && strings.Contains(r.ContentType, "application/json")
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.Status >= http.StatusOK && r.Status < http.StatusMultipleChoices
}

// Error describes a failed exchange with the backend.
type Error struct {
	Op     string
	Code   domain.ErrorCode
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "gateway error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Body)
}

func (e *Error) Unwrap() error { return e.Err }

// IsUnreachable reports whether err is a transport-level failure, as opposed
// to a response the backend actually sent.
func IsUnreachable(err error) bool {
	var gErr *Error
	if errors.As(err, &gErr) {
		return gErr.Code == domain.ErrCodeUnreachable
	}
	return false
}

// StatusOf returns the HTTP status attached to err, or 0.
func StatusOf(err error) int {
	var gErr *Error
	if errors.As(err, &gErr) {
		return gErr.Status
	}
	return 0
}

// Do performs one exchange and returns the raw response. The returned error
// is non-nil only for transport failures; HTTP error statuses are the
// caller's to interpret (the JSON helpers below normalize them).
func (c *Client) Do(ctx context.Context, op, method, path string, body []byte, contentType string) (*Response, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.SetContentType(contentType)
	}
	if body != nil {
		req.SetBody(body)
	}

	token := c.currentToken()
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	if err := c.http.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		c.logger.Debug("request failed",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, &Error{Op: op, Code: domain.ErrCodeUnreachable, Err: fmt.Errorf("%s %s: %w", method, path, err)}
	}

	out := &Response{
		Status:      resp.StatusCode(),
		ContentType: string(resp.Header.ContentType()),
		Body:        append([]byte(nil), resp.Body()...),
	}

	c.logger.Debug("request completed",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", out.Status),
		zap.Duration("elapsed", time.Since(start)),
	)

	if out.Status == http.StatusUnauthorized && token != "" {
		c.fireUnauthorized()
	}

	return out, nil
}

// GetJSON performs a GET and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, op, path string, out any) error {
	return c.exchange(ctx, op, http.MethodGet, path, nil, "", out)
}

// PostJSON performs a POST with a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, op, path string, in, out any) error {
	body, err := marshalBody(op, in)
	if err != nil {
		return err
	}
	return c.exchange(ctx, op, http.MethodPost, path, body, "application/json", out)
}

// PatchJSON performs a PATCH with a JSON body.
func (c *Client) PatchJSON(ctx context.Context, op, path string, in, out any) error {
	body, err := marshalBody(op, in)
	if err != nil {
		return err
	}
	return c.exchange(ctx, op, http.MethodPatch, path, body, "application/json", out)
}

// DeleteJSON performs a DELETE and decodes any JSON response into out.
func (c *Client) DeleteJSON(ctx context.Context, op, path string, out any) error {
	return c.exchange(ctx, op, http.MethodDelete, path, nil, "", out)
}

// PostMultipart posts a prebuilt multipart body. The content type carries the
// writer's boundary, so no JSON Content-Type is forced on it.
func (c *Client) PostMultipart(ctx context.Context, op, path string, body []byte, contentType string, out any) error {
	return c.exchange(ctx, op, http.MethodPost, path, body, contentType, out)
}

// Ping probes the backend's connectivity test endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.GetJSON(ctx, "Ping", "/test/", nil)
}

func (c *Client) exchange(ctx context.Context, op, method, path string, body []byte, contentType string, out any) error {
	resp, err := c.Do(ctx, op, method, path, body, contentType)
	if err != nil {
		return err
	}
	if !resp.OK() {
		code := domain.ErrCodeRejected
		if resp.Status == http.StatusUnauthorized {
			code = domain.ErrCodeUnauthorized
		}
		return &Error{Op: op, Code: code, Status: resp.Status, Body: string(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &Error{Op: op, Code: domain.ErrCodeUnexpected, Status: resp.Status, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) currentToken() string {
	if c.tokens == nil {
		return ""
	}
	token, err := c.tokens.Token()
	if err != nil {
		c.logger.Warn("token read failed", zap.Error(err))
		return ""
	}
	return token
}

func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	return deadline
}

func (c *Client) fireUnauthorized() {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func marshalBody(op string, in any) ([]byte, error) {
	if in == nil {
		return []byte("{}"), nil
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, &Error{Op: op, Code: domain.ErrCodeInvalid, Err: fmt.Errorf("encode request: %w", err)}
	}
	return body, nil
}
