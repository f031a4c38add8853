package extract

import "testing"

func TestResolveLink(t *testing.T) {
	const origin = "https://site.com/news/"

	cases := map[string]string{
		"article/42":                 "https://site.com/news/article/42",
		"/article/42":                "https://site.com/news/article/42",
		"//cdn.site.com/a":           "https://cdn.site.com/a",
		"https://other.com/story":    "https://other.com/story",
		"HTTP://upper.example.com/x": "HTTP://upper.example.com/x",
		"":                           "",
	}
	for href, want := range cases {
		if got := ResolveLink(origin, href); got != want {
			t.Errorf("ResolveLink(%q) = %q, want %q", href, got, want)
		}
	}
}

func TestResolveImageUsesSiteRoot(t *testing.T) {
	const origin = "https://site.com/news/"

	cases := map[string]string{
		"images/pic.jpg":                 "https://site.com/images/pic.jpg",
		"/images/pic.jpg":                "https://site.com/images/pic.jpg",
		"//cdn.site.com/pic.jpg":         "https://cdn.site.com/pic.jpg",
		"https://cdn.site.com/pic.jpg":   "https://cdn.site.com/pic.jpg",
		"data:image/gif;base64,R0lGODlh": "",
		"  ":                             "",
	}
	for ref, want := range cases {
		if got := ResolveImage(origin, ref); got != want {
			t.Errorf("ResolveImage(%q) = %q, want %q", ref, got, want)
		}
	}
}

func TestResolveImageWithoutAbsoluteOrigin(t *testing.T) {
	if got := ResolveImage("not a url", "pic.jpg"); got != "" {
		t.Fatalf("expected unresolvable image, got %q", got)
	}
}
