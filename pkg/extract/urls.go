package extract

import (
	"net/url"
	"strings"
)

// ResolveLink normalizes an article href found on a page fetched from origin.
// Relative hrefs are joined onto the full origin path.
func ResolveLink(origin, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	switch {
	case hasHTTPScheme(href):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	default:
		return strings.TrimRight(origin, "/") + "/" + strings.TrimLeft(href, "/")
	}
}

// ResolveImage normalizes an image reference found on a page fetched from origin.
// Relative references resolve against the scheme and host of origin only.
// It returns "" when the reference cannot be turned into a fetchable URL.
func ResolveImage(origin, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(strings.ToLower(ref), "data:") {
		return ""
	}
	switch {
	case hasHTTPScheme(ref):
		return ref
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	}

	base := siteRoot(origin)
	if base == "" {
		return ""
	}
	if strings.HasPrefix(ref, "/") {
		return base + ref
	}
	return base + "/" + ref
}

// siteRoot returns scheme://host for raw, or "" when raw is not an absolute URL.
func siteRoot(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func hasHTTPScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
