package helpdoc

// Template identifies a help-center page layout variant.
type Template string

// Supported page templates.
const (
	TemplateUnclassified Template = ""
	TemplateModern       Template = "modern"
	TemplateLegacy       Template = "legacy"
)

// String returns the template name, or "unclassified".
func (t Template) String() string {
	if t == TemplateUnclassified {
		return "unclassified"
	}
	return string(t)
}

// TemplateMarker binds a template to the structural markers that identify it.
type TemplateMarker struct {
	Template Template
	Markers  []string
}

// TemplateMarkers is the ordered classification table. Templates are tested
// in order and the first one with any marker present wins.
var TemplateMarkers = []TemplateMarker{
	{
		Template: TemplateModern,
		Markers: []string{
			"html[data-template='helpx-article']",
			"meta[name='template'][content='helpx-article']",
			"body.helpx-article",
			"main#main-content [data-component='article-body']",
		},
	},
	{
		Template: TemplateLegacy,
		Markers: []string{
			"meta[name='template'][content='helpx-legacy']",
			"body.helpx-legacy",
			"div#position",
			"div.helpx-content",
		},
	},
}

// TemplateProfile holds the extraction configuration of a template.
type TemplateProfile struct {
	// Candidates are content selectors tried in order.
	Candidates []string

	// MinTextLength is the rune count a candidate's trimmed text must exceed.
	MinTextLength int

	// Remove lists selectors removed by the sanitizer in addition to the
	// shared removal set.
	Remove []string
}

// TemplateProfiles maps each classified template to its profile.
var TemplateProfiles = map[Template]TemplateProfile{
	TemplateModern: {
		Candidates: []string{
			"[data-component='article-body']",
			"main#main-content .article-body",
			"main#main-content article",
			"main .content",
			"main",
		},
		MinTextLength: 150,
		Remove: []string{
			".article-rail",
			".related-articles",
			".inline-promo",
			".article-actions",
		},
	},
	TemplateLegacy: {
		Candidates: []string{
			"#position .parsys",
			"#position",
			".helpx-content .text",
			".helpx-content",
			"#root_content_flex",
		},
		MinTextLength: 100,
		Remove: []string{
			"#localnav",
			".sidebar",
			".right-rail",
			".helpx-note-banner",
		},
	},
}

// Profile returns the profile of t. The zero profile is returned for
// unclassified documents.
func (t Template) Profile() TemplateProfile {
	return TemplateProfiles[t]
}

// FooterPhrases are lower-case prefixes of headings that open a boilerplate
// footer block. Everything from such a heading onward is truncated.
var FooterPhrases = []string{
	"more like this",
	"talk to us",
	"have a question",
	"related resources",
	"share this page",
	"was this helpful",
	"get help faster",
	"still need help",
	"ask the community",
}

// TemplateClassifier identifies page templates from HTML.
type TemplateClassifier interface {
	// Detect analyzes HTML and returns the identified template.
	// Returns TemplateUnclassified if no marker set matches.
	Detect(html string) Template
}
