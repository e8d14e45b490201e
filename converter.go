package helpdoc

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be a normalized content region.
	Convert(html string) (string, error)
}
