package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Options configures a RestyExecutor. Transport, when set, replaces the
// underlying round tripper.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	AuthToken string
	Headers   map[string]string
	Transport http.RoundTripper
}

// RestyExecutor adapts resty.Client to the Executor interface.
type RestyExecutor struct {
	client *resty.Client
}

// NewRestyExecutor creates a RestyExecutor rooted at opts.BaseURL.
func NewRestyExecutor(opts Options) *RestyExecutor {
	c := newRestyBaseClient(opts.Timeout)
	c.SetBaseURL(strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"))
	c.SetHeader("Accept", "application/json")
	if len(opts.Headers) > 0 {
		c.SetHeaders(opts.Headers)
	}
	if token := strings.TrimSpace(opts.AuthToken); token != "" {
		c.SetAuthToken(token)
	}
	if opts.Transport != nil {
		c.SetTransport(opts.Transport)
	}
	return &RestyExecutor{client: c}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

// Do performs the request and decodes a successful JSON body into out.
func (r *RestyExecutor) Do(ctx context.Context, method, path string, opts RequestOptions, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	req := r.client.R().SetContext(ctx)
	if params := queryParams(opts.Params); len(params) > 0 {
		req.SetQueryParams(params)
	}
	if len(opts.Headers) > 0 {
		req.SetHeaders(opts.Headers)
	}

	method = strings.ToUpper(method)
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if err := CheckResponse(method, path, resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
