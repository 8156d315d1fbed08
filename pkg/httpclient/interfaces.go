package httpclient

import "context"

// RequestOptions carries the per-call parts of a request. Params are encoded as the
// query string; entries with empty values are left out.
type RequestOptions struct {
	Params  map[string]string
	Headers map[string]string
}

// Executor abstracts HTTP calls so callers can inject mocks or different transports.
// On a 2xx response the JSON body is decoded into out (skipped when out is nil).
type Executor interface {
	Do(ctx context.Context, method, path string, opts RequestOptions, out any) error
}

// Request issues a request through exec and decodes the body into a fresh T.
func Request[T any](ctx context.Context, exec Executor, method, path string, opts RequestOptions) (T, error) {
	var out T
	if err := exec.Do(ctx, method, path, opts, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// queryParams drops empty values so unset optional fields never reach the query string.
func queryParams(params map[string]string) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
