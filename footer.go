package helpdoc

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// IsFooterHeading reports whether heading text opens a boilerplate footer.
// The comparison is a prefix match on the lower-cased, trimmed text.
func IsFooterHeading(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return false
	}
	for _, phrase := range FooterPhrases {
		if strings.HasPrefix(text, phrase) {
			return true
		}
	}
	return false
}

// TrimFooter cuts Markdown at the line of the first heading whose text
// starts with a footer phrase. Lines inside code blocks are never headings.
// Markdown without such a heading is returned trimmed but otherwise
// unchanged.
func TrimFooter(markdown string) string {
	source := []byte(markdown)
	cut := -1
	_ = ast.Walk(parseMarkdown(source), func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Lines().Len() == 0 || !IsFooterHeading(inlineText(h, source)) {
			return ast.WalkSkipChildren, nil
		}
		start := h.Lines().At(0).Start
		cut = bytes.LastIndexByte(source[:start], '\n') + 1
		return ast.WalkStop, nil
	})
	if cut < 0 {
		return strings.TrimSpace(markdown)
	}
	return strings.TrimSpace(markdown[:cut])
}
