package parser

import (
	"net/url"
	"strings"
)

// MakeAbsoluteURL resolves an image src found on the page against the page URL.
// Relative paths are resolved against the host root, not the current directory.
func MakeAbsoluteURL(src, baseURL string) string {
	scheme, host := "https", ""
	if u, err := url.Parse(baseURL); err == nil {
		if u.Scheme != "" {
			scheme = u.Scheme
		}
		host = u.Host
	}

	switch {
	case strings.HasPrefix(src, "//"):
		return scheme + ":" + src
	case strings.HasPrefix(src, "/"):
		return scheme + "://" + host + src
	case strings.HasPrefix(src, "http"):
		return src
	default:
		return scheme + "://" + host + "/" + src
	}
}
