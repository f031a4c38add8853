package sources

import (
	"context"
	"fmt"
	"strings"
)

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// fetchBody performs a single GET and returns the body of a 2xx response.
// Every failure wraps ErrTransport.
func fetchBody(ctx context.Context, client HTTPClient, url, sourceID string, headers map[string]string) ([]byte, error) {
	resp, err := client.Get(ctx, url, headers)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", ErrTransport, sourceID, err)
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d body: %s", ErrTransport, sourceID, code, responseSnippet(body))
	}
	return body, nil
}
