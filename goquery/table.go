package goquery

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	nethtml "golang.org/x/net/html"
)

// BreakMarker is the hard line break used inside normalized table cells.
const BreakMarker = "<br>"

// HoistedTablePointer replaces a table moved out of a list item.
const HoistedTablePointer = " (see table below)"

// presentationalAttrs are stripped from tables and everything inside them.
var presentationalAttrs = map[string]bool{
	"style":       true,
	"class":       true,
	"width":       true,
	"height":      true,
	"border":      true,
	"cellpadding": true,
	"cellspacing": true,
	"bgcolor":     true,
	"valign":      true,
	"frame":       true,
	"rules":       true,
}

// blockTags collapse to their inline content followed by a break marker.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "blockquote": true,
	"pre": true, "dl": true, "dt": true, "dd": true, "figure": true, "figcaption": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// inlineTags survive inside cells with their markup.
var inlineTags = map[string]bool{
	"a": true, "strong": true, "b": true, "em": true, "i": true, "code": true,
	"kbd": true, "s": true, "del": true, "strike": true, "sup": true, "sub": true,
}

var (
	breakRunRe  = regexp.MustCompile(`(?:` + BreakMarker + `){3,}`)
	breakSpanRe = regexp.MustCompile(`\s*` + BreakMarker + `\s*`)
	spaceRunRe  = regexp.MustCompile(`\s+`)
)

// NormalizeTables rewrites every table in the region into a form that
// survives line-oriented Markdown table serialization. Tables inside list
// items are hoisted after the list item, presentational attributes are
// stripped, and every cell is collapsed to inline content joined by
// BreakMarker with pipes escaped.
func NormalizeTables(region *goquery.Selection) *goquery.Selection {
	root := region.Get(0)

	region.Find("li table").Each(func(_ int, t *goquery.Selection) {
		hoistFromListItem(t.Get(0), root)
	})

	region.Find("table").Each(func(_ int, t *goquery.Selection) {
		stripPresentation(t.Get(0))
	})

	region.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		if !isDescendant(cell.Get(0), root) {
			return
		}
		cell.SetHtml(CellHTML(cell.Get(0)))
	})

	return region
}

// hoistFromListItem moves table t after its closest list item and leaves a
// textual pointer behind. Tables nested in another table are moved with it.
func hoistFromListItem(t, root *nethtml.Node) {
	var li *nethtml.Node
	for p := t.Parent; p != nil && p != root; p = p.Parent {
		if p.Type != nethtml.ElementNode {
			continue
		}
		if p.Data == "table" {
			return
		}
		if p.Data == "li" {
			li = p
			break
		}
	}
	if li == nil || li.Parent == nil {
		return
	}

	t.Parent.RemoveChild(t)
	li.Parent.InsertBefore(t, li.NextSibling)
	li.AppendChild(&nethtml.Node{Type: nethtml.TextNode, Data: HoistedTablePointer})
}

func stripPresentation(n *nethtml.Node) {
	if n.Type == nethtml.ElementNode {
		kept := make([]nethtml.Attribute, 0, len(n.Attr))
		for _, a := range n.Attr {
			if !presentationalAttrs[strings.ToLower(a.Key)] {
				kept = append(kept, a)
			}
		}
		n.Attr = kept
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		stripPresentation(c)
	}
}

// CellHTML returns the normalized inline HTML of a table cell.
func CellHTML(cell *nethtml.Node) string {
	var sb strings.Builder
	writeChildren(&sb, cell)

	s := spaceRunRe.ReplaceAllString(sb.String(), " ")
	s = breakSpanRe.ReplaceAllString(s, BreakMarker)
	s = breakRunRe.ReplaceAllString(s, BreakMarker)
	s = strings.TrimSpace(s)
	for strings.HasPrefix(s, BreakMarker) {
		s = strings.TrimSpace(strings.TrimPrefix(s, BreakMarker))
	}
	for strings.HasSuffix(s, BreakMarker) {
		s = strings.TrimSpace(strings.TrimSuffix(s, BreakMarker))
	}
	return s
}

func writeChildren(sb *strings.Builder, n *nethtml.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeInline(sb, c)
	}
}

func writeInline(sb *strings.Builder, n *nethtml.Node) {
	switch n.Type {
	case nethtml.TextNode:
		sb.WriteString(escapeCellText(n.Data))
		return
	case nethtml.ElementNode:
	default:
		return
	}

	switch tag := n.Data; {
	case tag == "br":
		sb.WriteString(BreakMarker)
	case tag == "ul" || tag == "ol":
		writeList(sb, n)
	case tag == "table":
		writeNestedTable(sb, n)
	case tag == "input":
		if attr(n, "type") == "checkbox" {
			if hasAttr(n, "checked") {
				sb.WriteString("[x] ")
			} else {
				sb.WriteString("[ ] ")
			}
		}
	case blockTags[tag]:
		writeChildren(sb, n)
		sb.WriteString(BreakMarker)
	case inlineTags[tag]:
		sb.WriteString("<" + tag)
		if tag == "a" {
			if href := attr(n, "href"); href != "" {
				sb.WriteString(` href="` + html.EscapeString(href) + `"`)
			}
		}
		sb.WriteString(">")
		writeChildren(sb, n)
		sb.WriteString("</" + tag + ">")
	case !hasElementChild(n):
		// Trivial wrapper: keep only its text.
		sb.WriteString(escapeCellText(textContent(n)))
	default:
		writeChildren(sb, n)
	}
}

// writeList renders list items as bulleted or numbered lines.
func writeList(sb *strings.Builder, list *nethtml.Node) {
	num := 1
	if list.Data == "ol" {
		if start, err := strconv.Atoi(attr(list, "start")); err == nil {
			num = start
		}
	}
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != nethtml.ElementNode || li.Data != "li" {
			continue
		}
		var item strings.Builder
		writeChildren(&item, li)
		text := strings.TrimSpace(breakSpanRe.ReplaceAllString(item.String(), BreakMarker))
		text = strings.TrimSuffix(text, BreakMarker)

		if list.Data == "ol" {
			sb.WriteString(strconv.Itoa(num) + ". ")
			num++
		} else {
			sb.WriteString("• ")
		}
		sb.WriteString(strings.TrimSpace(text))
		sb.WriteString(BreakMarker)
	}
}

// writeNestedTable flattens a table found inside a cell into one line per
// row with cells separated by semicolons.
func writeNestedTable(sb *strings.Builder, t *nethtml.Node) {
	var walk func(n *nethtml.Node)
	walk = func(n *nethtml.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != nethtml.ElementNode {
				continue
			}
			if c.Data != "tr" {
				walk(c)
				continue
			}
			var cells []string
			for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
				if cell.Type == nethtml.ElementNode && (cell.Data == "td" || cell.Data == "th") {
					cells = append(cells, escapeCellText(strings.TrimSpace(textContent(cell))))
				}
			}
			sb.WriteString(strings.Join(cells, "; "))
			sb.WriteString(BreakMarker)
		}
	}
	walk(t)
}

// escapeCellText escapes text for inclusion in cell HTML and protects the
// Markdown column delimiter.
func escapeCellText(s string) string {
	s = html.EscapeString(s)
	return strings.ReplaceAll(s, "|", `\|`)
}

func textContent(n *nethtml.Node) string {
	var sb strings.Builder
	var walk func(*nethtml.Node)
	walk = func(n *nethtml.Node) {
		if n.Type == nethtml.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func hasElementChild(n *nethtml.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == nethtml.ElementNode {
			return true
		}
	}
	return false
}

func attr(n *nethtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *nethtml.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
