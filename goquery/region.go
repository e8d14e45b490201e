package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/helpdoc"
)

// readerRootID identifies the wrapper element around reader-mode content.
const readerRootID = "helpdoc-reader-mode"

// ReaderModeSelectorPrefix prefixes the SelectorUsed of reader-mode regions.
const ReaderModeSelectorPrefix = "reader-mode:"

// SelectRegion walks the template's candidate selectors in order and returns
// the first matching element whose trimmed text is longer than the
// template's threshold, together with the selector that matched.
// Returns ok=false for unclassified documents or when every candidate fails.
func SelectRegion(doc *goquery.Document, t helpdoc.Template) (region *goquery.Selection, selector string, ok bool) {
	profile := t.Profile()
	for _, candidate := range profile.Candidates {
		sel := doc.Find(candidate).First()
		if sel.Length() == 0 {
			continue
		}
		if textLength(sel) > profile.MinTextLength {
			return sel, candidate, true
		}
	}
	return nil, "", false
}

// SelectOverride returns the first element matching a caller-supplied
// selector. Any match with non-empty text is accepted.
// Returns ENOTFOUND when nothing usable matches.
func SelectOverride(doc *goquery.Document, selector string) (*goquery.Selection, error) {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 || textLength(sel) == 0 {
		return nil, helpdoc.Errorf(helpdoc.ENOTFOUND, "No content found with selector: %s", selector)
	}
	return sel, nil
}

// ReaderRegion wraps reader-mode content HTML in a fresh document and
// returns its root element. Returns ENOTFOUND when the content has no text.
func ReaderRegion(contentHTML string) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div id="` + readerRootID + `">` + contentHTML + `</div>`,
	))
	if err != nil {
		return nil, helpdoc.Errorf(helpdoc.EINVALID, "failed to parse reader-mode content: %v", err)
	}
	sel := doc.Find("#" + readerRootID).First()
	if sel.Length() == 0 || textLength(sel) == 0 {
		return nil, helpdoc.Errorf(helpdoc.ENOTFOUND, "reader-mode extraction found no content")
	}
	return sel, nil
}

// ListContainers returns up to limit div elements carrying an id or class,
// in document order. It helps callers pick a working selector override.
func ListContainers(html string, limit int) []helpdoc.Container {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var containers []helpdoc.Container
	doc.Find("div[id], div[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(containers) >= limit {
			return false
		}
		containers = append(containers, helpdoc.Container{
			Tag:   goquery.NodeName(s),
			ID:    s.AttrOr("id", ""),
			Class: s.AttrOr("class", ""),
		})
		return true
	})
	return containers
}

func textLength(sel *goquery.Selection) int {
	return utf8.RuneCountInString(strings.TrimSpace(sel.Text()))
}
