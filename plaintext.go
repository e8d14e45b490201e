package helpdoc

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// PlainText flattens Markdown into a single line of text. Headings become
// "--- heading ---" dividers, list markers become "•", pipe tables become
// "header: value | header: value" rows, and inline markup is stripped down
// to its text. Code blocks keep their text verbatim.
func PlainText(markdown string) string {
	return project(markdown, true)
}

// TextLength returns the number of non-whitespace characters of the text
// carried by markdown, ignoring markup and the dividers and bullets that
// PlainText adds.
func TextLength(markdown string) int {
	n := 0
	for _, r := range project(markdown, false) {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

func project(markdown string, decorate bool) string {
	source := []byte(markdown)
	p := &projector{source: source, decorate: decorate}
	p.block(parseMarkdown(source))
	text := strings.Join(p.lines, "\n")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// projector collects the text lines of a Markdown tree.
type projector struct {
	source   []byte
	decorate bool
	lines    []string

	// bullet is set when the next emitted line opens a list item.
	bullet bool
}

func (p *projector) emit(line string) {
	if line == "" {
		return
	}
	if p.bullet {
		p.bullet = false
		if p.decorate {
			line = "• " + line
		}
	}
	p.lines = append(p.lines, line)
}

func (p *projector) block(n ast.Node) {
	switch n := n.(type) {
	case *ast.Heading:
		heading := inlineText(n, p.source)
		if heading != "" && p.decorate {
			heading = "--- " + heading + " ---"
		}
		p.emit(heading)
	case *ast.Paragraph, *ast.TextBlock:
		p.emit(inlineText(n, p.source))
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		for _, line := range blockLines(n, p.source) {
			p.emit(strings.TrimSpace(line))
		}
	case *ast.HTMLBlock:
		for _, line := range blockLines(n, p.source) {
			p.emit(strings.TrimSpace(htmlTagRe.ReplaceAllString(line, " ")))
		}
	case *ast.ThematicBreak:
	case *ast.ListItem:
		p.bullet = true
		p.children(n)
		p.bullet = false
	case *extast.Table:
		p.table(n)
	default:
		p.children(n)
	}
}

func (p *projector) children(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		p.block(c)
	}
}

// table emits one line per body row. Cells are labeled with their column
// header when the header row names any column.
func (p *projector) table(n *extast.Table) {
	var header []string
	named := false
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		cells := p.cells(row)
		if _, ok := row.(*extast.TableHeader); ok {
			header = cells
			for _, h := range header {
				if h != "" {
					named = true
				}
			}
			continue
		}

		parts := make([]string, 0, len(cells))
		for i, cell := range cells {
			if cell == "" {
				continue
			}
			if named && i < len(header) && header[i] != "" {
				cell = header[i] + ": " + cell
			}
			parts = append(parts, cell)
		}
		p.emit(strings.Join(parts, " | "))
	}
}

func (p *projector) cells(row ast.Node) []string {
	var cells []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		cells = append(cells, inlineText(c, p.source))
	}
	return cells
}
