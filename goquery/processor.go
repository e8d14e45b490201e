package goquery

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/helpdoc"
	"golang.org/x/sync/errgroup"
)

// Ensure Processor implements helpdoc.Processor at compile time.
var _ helpdoc.Processor = (*Processor)(nil)

// Processor runs the extraction pipeline:
//
//	parse → (metadata ∥ classify) → select region → preserve fragments →
//	sanitize → truncate footer → restore fragments → normalize tables →
//	serialize → convert to Markdown → trim footer
//
// Every stage receives the region it works on and returns it; the region
// root keeps its identity throughout. A Processor holds no per-request
// state and is safe for concurrent use.
type Processor struct {
	classifier *Classifier
	converter  helpdoc.Converter
	fallback   helpdoc.ExtractorChain
}

// NewProcessor creates a Processor that serializes regions with converter
// and falls back to the reader-mode extractors, in order, when no template
// candidate qualifies.
func NewProcessor(converter helpdoc.Converter, fallback ...helpdoc.Extractor) *Processor {
	return &Processor{
		classifier: NewClassifier(),
		converter:  converter,
		fallback:   helpdoc.ExtractorChain(fallback),
	}
}

// choice is the outcome of region selection.
type choice struct {
	region     *goquery.Selection
	selector   string
	readerMode bool
	title      string
}

// Process extracts and normalizes the article body of the snapshot.
func (p *Processor) Process(ctx context.Context, snap *helpdoc.DocumentSnapshot, opts helpdoc.ProcessOptions) (*helpdoc.ExtractionResult, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snap.RawHTML))
	if err != nil {
		return nil, helpdoc.Errorf(helpdoc.EINVALID, "failed to parse HTML: %v", err)
	}

	// Both readers only query the document.
	var (
		g    errgroup.Group
		meta helpdoc.ArticleMetadata
		tmpl helpdoc.Template
	)
	g.Go(func() error {
		meta = ExtractMetadata(doc)
		return nil
	})
	g.Go(func() error {
		tmpl = p.classifier.Classify(doc)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c, err := p.selectRegion(doc, tmpl, snap.RawHTML, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	region, fragments := PreserveFragments(c.region)
	region = Sanitize(region, tmpl)
	region, _ = TruncateFooter(region)
	dropped := fragments.Restore(region)
	region = NormalizeTables(region)
	region = AbsolutizeLinks(region, snap.SourceURL)

	contentHTML, err := region.Html()
	if err != nil {
		return nil, fmt.Errorf("render region: %w", err)
	}
	contentHTML = strings.TrimSpace(StripPlaceholders(contentHTML))
	if contentHTML == "" {
		return nil, helpdoc.Errorf(helpdoc.ENOTFOUND, "no content left after cleanup of %s", snap.SourceURL)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	markdown, err := p.converter.Convert(contentHTML)
	if err != nil {
		return nil, err
	}
	markdown = helpdoc.TrimFooter(markdown)

	title := meta.Title
	if title == "" {
		title = c.title
	}
	if meta.SEOTitle == "" {
		meta.SEOTitle = title
	}

	return &helpdoc.ExtractionResult{
		Title:        title,
		Metadata:     meta,
		Content:      markdown,
		Template:     tmpl,
		SelectorUsed: c.selector,
		SourceURL:    snap.SourceURL,
		Diagnostics: helpdoc.Diagnostics{
			BodyMarker:       strings.TrimSpace(doc.Find("body").AttrOr("class", "")),
			ContentLength:    utf8.RuneCountInString(markdown),
			ContentHash:      fmt.Sprintf("%016x", xxhash.Sum64String(markdown)),
			DroppedFragments: dropped,
			ReaderMode:       c.readerMode,
		},
	}, nil
}

// selectRegion applies the selector override, the template's candidate
// chain, and finally the reader-mode extractors.
func (p *Processor) selectRegion(doc *goquery.Document, tmpl helpdoc.Template, rawHTML string, opts helpdoc.ProcessOptions) (*choice, error) {
	if opts.Selector != "" {
		region, err := SelectOverride(doc, opts.Selector)
		if err != nil {
			return nil, err
		}
		return &choice{region: region, selector: opts.Selector}, nil
	}

	if region, selector, ok := SelectRegion(doc, tmpl); ok {
		return &choice{region: region, selector: selector}, nil
	}

	result, name, err := p.fallback.Extract(rawHTML)
	if err != nil {
		return nil, helpdoc.Errorf(helpdoc.ENOTFOUND, "no content region found for %s template", tmpl)
	}
	region, err := ReaderRegion(result.ContentHTML)
	if err != nil {
		return nil, err
	}
	return &choice{
		region:     region,
		selector:   ReaderModeSelectorPrefix + name,
		readerMode: true,
		title:      result.Title,
	}, nil
}
