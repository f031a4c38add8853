package httpclient

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultMaxRedirects = 10

// Options tunes the transport behind a RestyClient.
type Options struct {
	Timeout            time.Duration
	FollowRedirects    bool
	MaxRedirects       int
	InsecureSkipVerify bool
	UserAgent          string
	// MaxBodyBytes rejects responses whose decoded body is larger, while reading.
	MaxBodyBytes int
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout that follows redirects.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return NewRestyClientWithOptions(Options{Timeout: timeout, FollowRedirects: true})
}

// NewRestyClientWithOptions creates a RestyClient configured by opts.
func NewRestyClientWithOptions(opts Options) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(opts)}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(Options{Timeout: timeout, FollowRedirects: true})
}

// newRestyBaseClient creates a new resty.Client from opts.
func newRestyBaseClient(opts Options) *resty.Client {
	c := resty.New()
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}

	if opts.FollowRedirects {
		maxRedirects := opts.MaxRedirects
		if maxRedirects <= 0 {
			maxRedirects = defaultMaxRedirects
		}
		c.SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects))
	} else {
		c.SetRedirectPolicy(resty.NoRedirectPolicy())
	}

	if opts.InsecureSkipVerify {
		c.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // some scraped origins ship broken chains
	}
	if opts.UserAgent != "" {
		c.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.MaxBodyBytes > 0 {
		c.SetResponseBodyLimit(opts.MaxBodyBytes)
	}
	return c
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
