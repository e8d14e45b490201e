package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/helpdoc"
)

// metadataSource extracts one candidate value from a document.
type metadataSource func(doc *goquery.Document) string

// Source chains, most specific first.
var (
	titleSources = []metadataSource{
		textOf("h1"),
		metaContent("meta[name='title']"),
		metaContent("meta[property='og:title']"),
		documentTitle,
	}
	seoTitleSources = []metadataSource{
		metaContent("meta[name='seo-title']"),
		metaContent("meta[property='og:title']"),
		metaContent("meta[name='twitter:title']"),
	}
	seoDescriptionSources = []metadataSource{
		metaContent("meta[name='description']"),
		metaContent("meta[property='og:description']"),
		metaContent("meta[name='twitter:description']"),
	}
	publishDateSources = []metadataSource{
		metaContent("meta[name='publishDate']"),
		metaContent("meta[name='publish-date']"),
		metaContent("meta[property='article:published_time']"),
		metaContent("meta[itemprop='datePublished']"),
		attrOf("time[datetime]", "datetime"),
	}
)

// titleSeparators end the page-specific part of a <title>, e.g.
// "Crop an image | Adobe Photoshop".
var titleSeparators = []string{" | ", " – ", " — ", " - "}

// ExtractMetadata resolves each metadata field through its own source chain.
// Missing metadata is not an error; unresolved fields are empty, except
// SEOTitle which falls back to Title.
func ExtractMetadata(doc *goquery.Document) helpdoc.ArticleMetadata {
	meta := helpdoc.ArticleMetadata{
		Title:          firstOf(doc, titleSources),
		SEOTitle:       firstOf(doc, seoTitleSources),
		SEODescription: firstOf(doc, seoDescriptionSources),
		PublishDate:    firstOf(doc, publishDateSources),
	}
	if meta.SEOTitle == "" {
		meta.SEOTitle = meta.Title
	}
	return meta
}

func firstOf(doc *goquery.Document, sources []metadataSource) string {
	for _, source := range sources {
		if v := source(doc); v != "" {
			return v
		}
	}
	return ""
}

func textOf(selector string) metadataSource {
	return func(doc *goquery.Document) string {
		return collapseSpace(doc.Find(selector).First().Text())
	}
}

func attrOf(selector, attr string) metadataSource {
	return func(doc *goquery.Document) string {
		return collapseSpace(doc.Find(selector).First().AttrOr(attr, ""))
	}
}

func metaContent(selector string) metadataSource {
	return attrOf(selector, "content")
}

func documentTitle(doc *goquery.Document) string {
	title := collapseSpace(doc.Find("head title").First().Text())
	for _, sep := range titleSeparators {
		if i := strings.LastIndex(title, sep); i > 0 {
			return strings.TrimSpace(title[:i])
		}
	}
	return title
}

// collapseSpace trims s and replaces runs of whitespace with a single space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
