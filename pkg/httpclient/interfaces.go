// Package httpclient wraps resty behind a small GET-only interface that source
// fetchers depend on, so tests can swap in canned responses.
package httpclient

import "context"

// Response exposes the parts of a reply the fetchers inspect.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client performs a single GET. Transport failures and timeouts come back as err;
// any HTTP status, including non-2xx, comes back as a Response.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
