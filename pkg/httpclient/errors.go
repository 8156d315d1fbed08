package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// StatusError reports a non-2xx response from the backend. Message holds the
// backend's "message" field when the body carried one.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	if snippet := readBodySnippet(e.Body); snippet != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, snippet)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// CheckResponse returns a *StatusError when resp is outside the 2xx range.
func CheckResponse(method, target string, resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}
	return newStatusError(method, target, code, resp.Body())
}

func newStatusError(method, path string, status int, body []byte) *StatusError {
	var envelope struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &envelope)
	return &StatusError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Message:    strings.TrimSpace(envelope.Message),
		Body:       body,
	}
}

func readBodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(string(body))
}
