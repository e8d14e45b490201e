package readability

import (
	"strings"

	"github.com/fwojciec/helpdoc"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements helpdoc.Extractor at compile time.
var _ helpdoc.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability as a reader-mode extractor for pages
// whose template has no usable content region.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Name returns "readability".
func (e *Extractor) Name() string {
	return "readability"
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*helpdoc.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, helpdoc.Errorf(helpdoc.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &helpdoc.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
