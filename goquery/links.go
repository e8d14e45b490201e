package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// AbsolutizeLinks resolves relative link targets in the region against
// baseURL. Script and other non-HTTP pseudo links lose their href so that
// only their text is serialized. Fragment-only links are left alone.
func AbsolutizeLinks(region *goquery.Selection, baseURL string) *goquery.Selection {
	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		return region
	}

	region.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		switch {
		case href == "", isScriptLink(href):
			a.RemoveAttr("href")
		case strings.HasPrefix(href, "#"):
		default:
			if resolved := resolveURL(base, href); resolved != "" {
				a.SetAttr("href", resolved)
			}
		}
	})
	return region
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// isScriptLink checks if a href runs script instead of navigating.
func isScriptLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "vbscript:") ||
		strings.HasPrefix(href, "data:")
}
