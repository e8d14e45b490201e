package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/helpdoc"
	"golang.org/x/net/html"
)

// removalSelectors is the shared removal set, grouped by kind of clutter.
var removalSelectors = []string{
	// Navigation, breadcrumbs, search and tables of contents.
	"nav", "[role='navigation']", ".breadcrumb", ".breadcrumbs", "[itemtype*='BreadcrumbList']",
	"[role='search']", ".search", ".search-box", "form",
	".toc", "#toc", ".table-of-contents", ".mini-toc", ".on-this-page",

	// Site header and footer furniture.
	"header[role='banner']", ".site-header", "#header", "footer", ".site-footer", "#footer",
	".globalnav", ".globalfooter", "#feds-header", "#feds-footer", ".feds-header-wrapper", ".feds-footer-wrapper",

	// Feedback, social sharing and pagination widgets.
	".feedback", ".helpful", ".was-this-helpful", ".article-feedback",
	".social-share", ".share", ".sharing", ".share-this",
	".pagination", ".pager", ".prev-next",

	// Promotional cards.
	".promo", ".promotion", ".promo-card", ".marketing-card", ".product-card", ".cta", ".banner",

	// Media.
	"img", "picture", "video", "audio", "iframe", "embed", "object", "svg", "canvas",

	// Style and script.
	"style", "script", "noscript", "link", "template",
}

// keepWhenEmpty lists elements that are meaningful without content.
var keepWhenEmpty = map[string]bool{
	"br":    true,
	"hr":    true,
	"td":    true,
	"th":    true,
	"input": true,
	"col":   true,
	"wbr":   true,
}

// Sanitize removes navigation chrome, site furniture, widgets, promotions,
// media and scripts from the region, plus the template's own removal
// selectors, then removes elements left without text or children. The region
// root itself is never removed. Running Sanitize twice removes nothing more.
func Sanitize(region *goquery.Selection, t helpdoc.Template) *goquery.Selection {
	selectors := append(append([]string{}, removalSelectors...), t.Profile().Remove...)
	for _, selector := range selectors {
		region.Find(selector).Remove()
	}

	removeEmpty(region.Get(0))
	return region
}

// removeEmpty removes empty descendants of n in post-order so that parents
// emptied by the removal of their children are removed in the same pass.
func removeEmpty(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			removeEmpty(c)
			if isEmpty(c) {
				n.RemoveChild(c)
			}
		}
		c = next
	}
}

// isEmpty reports whether an element has no element children, no
// non-whitespace text and no fragment placeholder.
func isEmpty(n *html.Node) bool {
	if keepWhenEmpty[n.Data] {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			return false
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return false
			}
		case html.CommentNode:
			if isPlaceholder(c) {
				return false
			}
		}
	}
	return true
}
