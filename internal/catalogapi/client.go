package catalogapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

type (
	tokenKey     struct{}
	requestIDKey struct{}
)

// HeaderRequestID carries the caller's request id to the remote API.
const HeaderRequestID = "X-Request-ID"

// WithToken attaches the bearer token used for calls made with ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	if v, ok := ctx.Value(tokenKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID tags calls made with ctx so remote logs line up with ours.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// Client is a thin wrapper over the remote catalog REST API. Nothing is
// retried; every call is a single attempt bound to ctx.
type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	return &Client{http: r}
}

// NewWithHTTPClient lets tests point the client at an httptest server.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	r := resty.NewWithClient(hc).
		SetBaseURL(baseURL).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	return &Client{http: r}
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]string, body, out any) error {
	var eb errorBody
	req := c.http.R().SetContext(ctx).SetError(&eb)
	if tok := tokenFrom(ctx); tok != "" {
		req.SetAuthToken(tok)
	}
	if rid := requestIDFrom(ctx); rid != "" {
		req.SetHeader(HeaderRequestID, rid)
	}
	if params != nil {
		req.SetPathParams(params)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}
	if resp.IsError() {
		return &APIError{Status: resp.StatusCode(), Message: eb.text(), Method: method, Path: path}
	}
	return nil
}

func idParam(id string) map[string]string { return map[string]string{"id": id} }
