package helpdoc

import "strings"

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor is a generic reader-mode extractor. It identifies the main
// readable content of an arbitrary document without template knowledge.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)

	// Name returns the extractor's identifier (e.g., "readability").
	Name() string
}

// ExtractorChain tries each extractor in order and returns the first result
// with non-empty content.
type ExtractorChain []Extractor

// Extract returns the first non-empty extraction along with the name of the
// extractor that produced it. Returns ENOTFOUND if every extractor fails or
// produces empty content.
func (c ExtractorChain) Extract(html string) (*ExtractResult, string, error) {
	for _, e := range c {
		result, err := e.Extract(html)
		if err != nil || result == nil {
			continue
		}
		if strings.TrimSpace(result.ContentHTML) == "" {
			continue
		}
		return result, e.Name(), nil
	}
	return nil, "", Errorf(ENOTFOUND, "reader-mode extraction found no content")
}
