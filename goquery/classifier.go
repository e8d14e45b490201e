package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/helpdoc"
)

// Ensure Classifier implements helpdoc.TemplateClassifier at compile time.
var _ helpdoc.TemplateClassifier = (*Classifier)(nil)

// Classifier identifies help-center page templates from structural markers.
// Marker sets are checked in the order of helpdoc.TemplateMarkers, so an
// earlier template wins when a page carries markers of several templates.
type Classifier struct {
	markers []helpdoc.TemplateMarker
}

// NewClassifier creates a Classifier over helpdoc.TemplateMarkers.
func NewClassifier() *Classifier {
	return &Classifier{markers: helpdoc.TemplateMarkers}
}

// Detect parses HTML and returns the identified template.
// Returns TemplateUnclassified if the HTML cannot be parsed or no marker matches.
func (c *Classifier) Detect(html string) helpdoc.Template {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return helpdoc.TemplateUnclassified
	}
	return c.Classify(doc)
}

// Classify returns the template of an already parsed document.
func (c *Classifier) Classify(doc *goquery.Document) helpdoc.Template {
	for _, m := range c.markers {
		for _, selector := range m.Markers {
			if c.hasSelector(doc, selector) {
				return m.Template
			}
		}
	}
	return helpdoc.TemplateUnclassified
}

// hasSelector checks if the document contains at least one element matching the selector.
func (c *Classifier) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}
