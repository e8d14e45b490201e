package helpdoc

import (
	"net/url"
	"strings"
)

// DefaultBaseURL is the help-center root that relative article paths are
// resolved against.
const DefaultBaseURL = "https://helpx.adobe.com/"

// ResolveURL turns a requested article location into an absolute http(s)
// URL. Absolute URLs are used as is; anything else is a path below base.
// Returns EINVALID for other schemes or an unusable base.
func ResolveURL(base, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", Errorf(EINVALID, "URL parameter required")
	}

	if u, err := url.Parse(raw); err == nil && u.IsAbs() {
		if u.Scheme != "http" && u.Scheme != "https" {
			return "", Errorf(EINVALID, "unsupported URL scheme %q", u.Scheme)
		}
		return u.String(), nil
	}

	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return "", Errorf(EINVALID, "invalid base URL %q", base)
	}
	if !strings.HasSuffix(b.Path, "/") {
		b.Path += "/"
	}
	ref, err := url.Parse(strings.TrimLeft(raw, "/"))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q", raw)
	}
	return b.ResolveReference(ref).String(), nil
}
