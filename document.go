package helpdoc

import "context"

// DocumentSnapshot is the immutable input of one pipeline invocation.
type DocumentSnapshot struct {
	RawHTML   string
	SourceURL string
}

// Validate returns an error if the snapshot cannot be processed.
func (s *DocumentSnapshot) Validate() error {
	if s.SourceURL == "" {
		return Errorf(EINVALID, "source URL required")
	}
	if s.RawHTML == "" {
		return Errorf(EUNAVAILABLE, "no HTML returned for %s", s.SourceURL)
	}
	return nil
}

// ArticleMetadata holds head-level fields of an article. Every field is
// resolved independently and may be empty.
type ArticleMetadata struct {
	Title          string `json:"title"`
	SEOTitle       string `json:"seoTitle"`
	SEODescription string `json:"seoDescription"`
	PublishDate    string `json:"publishDate"`
}

// Diagnostics describes how a result was produced. It is only surfaced to
// callers that ask for debug output.
type Diagnostics struct {
	// BodyMarker is the class attribute of the document body.
	BodyMarker string `json:"bodyMarker"`

	// ContentLength is the length in runes of the final content.
	ContentLength int `json:"contentLength"`

	// ContentHash is a hex xxhash64 of the final content.
	ContentHash string `json:"contentHash"`

	// DroppedFragments counts preserved fragments whose placeholder was
	// removed from the region before restoration.
	DroppedFragments int `json:"droppedFragments"`

	// ReaderMode is true when the region came from a reader-mode extractor.
	ReaderMode bool `json:"readerMode"`
}

// ExtractionResult is the terminal value of the pipeline.
// Content is Markdown.
type ExtractionResult struct {
	Title        string
	Metadata     ArticleMetadata
	Content      string
	Template     Template
	SelectorUsed string
	SourceURL    string
	Diagnostics  Diagnostics
}

// ProcessOptions holds per-request overrides of the pipeline.
type ProcessOptions struct {
	// Selector, when set, replaces the template's candidate chain with a
	// single selector. Any non-empty match is accepted and reader-mode
	// extraction is not attempted.
	Selector string
}

// Processor runs the extraction pipeline over a single document.
type Processor interface {
	// Process extracts and normalizes the article body of the snapshot.
	// Returns ENOTFOUND if no content region can be selected.
	Process(ctx context.Context, snap *DocumentSnapshot, opts ProcessOptions) (*ExtractionResult, error)
}

// Container describes an element that could serve as a selector override.
type Container struct {
	Tag   string `json:"tag"`
	ID    string `json:"id,omitempty"`
	Class string `json:"class,omitempty"`
}
