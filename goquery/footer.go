package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/helpdoc"
	"golang.org/x/net/html"
)

// TruncationState is the state of the footer truncator.
type TruncationState int

// Footer truncator states.
const (
	Scanning TruncationState = iota
	Truncated
)

// String returns the state name.
func (s TruncationState) String() string {
	if s == Truncated {
		return "truncated"
	}
	return "scanning"
}

// TruncateFooter visits headings in document order until one opens a
// boilerplate footer (see helpdoc.IsFooterHeading). Everything after that
// heading within the region is removed, then the heading itself. Regions
// without a footer heading are left untouched and the state stays Scanning.
func TruncateFooter(region *goquery.Selection) (*goquery.Selection, TruncationState) {
	state := Scanning
	root := region.Get(0)

	region.Find("h1, h2, h3, h4, h5, h6").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !helpdoc.IsFooterHeading(h.Text()) {
			return true
		}
		n := h.Get(0)
		removeFollowing(n, root)
		n.Parent.RemoveChild(n)
		state = Truncated
		return false
	})

	return region, state
}

// removeFollowing removes the following siblings of n and of each of its
// ancestors below root.
func removeFollowing(n, root *html.Node) {
	for ; n != nil && n != root; n = n.Parent {
		for s := n.NextSibling; s != nil; {
			next := s.NextSibling
			n.Parent.RemoveChild(s)
			s = next
		}
	}
}
