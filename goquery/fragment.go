package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// placeholderPrefix starts the data of every fragment placeholder comment.
const placeholderPrefix = "XF_REFERENCE_"

// fragmentSelector matches embedded, externally-referenced sub-documents.
const fragmentSelector = ".xfreference, .experiencefragment, [data-xf-reference], [data-fragment-reference]"

// fragmentNoise is removed from every preserved fragment.
const fragmentNoise = "img, picture, video, audio, iframe, embed, object, svg, canvas, script, style, noscript, link, template, button"

var placeholderRe = regexp.MustCompile(`<!--` + placeholderPrefix + `\d+-->`)

// Fragment is a preserved sub-document.
type Fragment struct {
	Index int
	HTML  string

	node        *html.Node
	placeholder *html.Node
}

// Fragments is the side table produced by PreserveFragments. It maps
// placeholder indexes to cleaned fragment content.
type Fragments struct {
	items []*Fragment
}

// Len returns the number of preserved fragments.
func (f *Fragments) Len() int {
	return len(f.items)
}

// Get returns the fragment with the given index, or nil.
func (f *Fragments) Get(index int) *Fragment {
	if index < 0 || index >= len(f.items) {
		return nil
	}
	return f.items[index]
}

// PreserveFragments detaches the outermost fragments of region so that
// generic cleanup rules cannot strip them. Each fragment is cloned and
// cleaned of attributes and media; a fragment with remaining text is replaced
// by a uniquely numbered placeholder comment, an empty one is deleted.
// The region root is never replaced.
func PreserveFragments(region *goquery.Selection) (*goquery.Selection, *Fragments) {
	fragments := &Fragments{}
	root := region.Get(0)

	region.Find(fragmentSelector).Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		// Nested fragments travel with their outermost ancestor.
		if !isDescendant(n, root) {
			return
		}

		clone := s.Clone()
		clone.Find(fragmentNoise).Remove()
		stripAttributes(clone.Get(0))

		if strings.TrimSpace(clone.Text()) == "" {
			n.Parent.RemoveChild(n)
			return
		}

		index := len(fragments.items)
		placeholder := &html.Node{
			Type: html.CommentNode,
			Data: placeholderPrefix + strconv.Itoa(index),
		}
		n.Parent.InsertBefore(placeholder, n)
		n.Parent.RemoveChild(n)

		outer, _ := goquery.OuterHtml(clone)
		fragments.items = append(fragments.items, &Fragment{
			Index:       index,
			HTML:        outer,
			node:        clone.Get(0),
			placeholder: placeholder,
		})
	})

	return region, fragments
}

// Restore puts every preserved fragment back in place of its placeholder.
// Placeholders are located by identity, not by searching serialized text.
// A placeholder that was removed from the region along with one of its
// ancestors cannot be restored; the number of such fragments is returned.
func (f *Fragments) Restore(region *goquery.Selection) (dropped int) {
	root := region.Get(0)
	for _, frag := range f.items {
		p := frag.placeholder
		if p.Parent == nil || !isDescendant(p, root) {
			dropped++
			continue
		}
		p.Parent.InsertBefore(frag.node, p)
		p.Parent.RemoveChild(p)
	}
	return dropped
}

// StripPlaceholders removes any placeholder comment left in serialized HTML.
func StripPlaceholders(s string) string {
	return placeholderRe.ReplaceAllString(s, "")
}

// isPlaceholder reports whether n is a fragment placeholder comment.
func isPlaceholder(n *html.Node) bool {
	return n.Type == html.CommentNode && strings.HasPrefix(n.Data, placeholderPrefix)
}

// isDescendant reports whether n lies strictly below root.
func isDescendant(n, root *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}

// stripAttributes removes decorative and internal attributes from n and
// all of its descendants.
func stripAttributes(n *html.Node) {
	if n.Type == html.ElementNode {
		kept := make([]html.Attribute, 0, len(n.Attr))
		for _, a := range n.Attr {
			if isInternalAttr(a.Key) {
				continue
			}
			kept = append(kept, a)
		}
		n.Attr = kept
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		stripAttributes(c)
	}
}

func isInternalAttr(key string) bool {
	key = strings.ToLower(key)
	switch key {
	case "class", "id", "style", "role", "tabindex":
		return true
	}
	return strings.HasPrefix(key, "data-") ||
		strings.HasPrefix(key, "aria-") ||
		strings.HasPrefix(key, "on")
}
