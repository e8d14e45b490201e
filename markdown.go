package helpdoc

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// markdownParser parses GitHub-flavored Markdown, the dialect the converter
// emits.
var markdownParser parser.Parser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

var (
	breakTagRe = regexp.MustCompile(`(?i)^<br\s*/?>$`)
	htmlTagRe  = regexp.MustCompile(`<[^>]*>`)
)

// parseMarkdown returns the document tree of source.
func parseMarkdown(source []byte) ast.Node {
	return markdownParser.Parse(text.NewReader(source))
}

// inlineText returns the text of n's inline children with all markup
// removed. Hard and soft line breaks and <br> tags become spaces.
func inlineText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	writeInline(&buf, n, source)
	return strings.TrimSpace(buf.String())
}

func writeInline(buf *bytes.Buffer, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			v := c.Segment.Value(source)
			if c.HardLineBreak() {
				v = bytes.TrimSuffix(v, []byte(`\`))
			}
			buf.Write(util.UnescapePunctuations(v))
			if c.HardLineBreak() || c.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(c.Value)
		case *ast.CodeSpan:
			writeRaw(buf, c, source)
		case *ast.AutoLink:
			buf.Write(c.Label(source))
		case *ast.RawHTML:
			var raw bytes.Buffer
			for i := 0; i < c.Segments.Len(); i++ {
				seg := c.Segments.At(i)
				raw.Write(seg.Value(source))
			}
			if breakTagRe.Match(bytes.TrimSpace(raw.Bytes())) {
				buf.WriteByte(' ')
			}
		case *extast.TaskCheckBox:
			if c.IsChecked {
				buf.WriteString("[x] ")
			} else {
				buf.WriteString("[ ] ")
			}
		default:
			writeInline(buf, c, source)
		}
	}
}

// writeRaw writes the unprocessed text of a code span.
func writeRaw(buf *bytes.Buffer, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(source))
		case *ast.String:
			buf.Write(c.Value)
		}
	}
}

// blockLines returns the raw source lines of a leaf block such as a code
// block or an HTML block.
func blockLines(n ast.Node, source []byte) []string {
	lines := n.Lines()
	out := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(source)), "\r\n"))
	}
	return out
}
