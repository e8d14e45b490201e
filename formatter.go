package helpdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// MinContentLength is the minimum number of non-whitespace characters a
// result must carry to be returned.
const MinContentLength = 100

// MaxMetadataLength bounds each metadata string in the JSON envelope.
const MaxMetadataLength = 500

// Format selects the output representation.
type Format string

// Supported output formats.
const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ContentType returns the MIME type of the representation.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// ParseFormat resolves a format name. An empty name means JSON; "md" and
// "txt" are accepted as aliases. Returns EINVALID for unknown names.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "plain":
		return FormatText, nil
	}
	return "", Errorf(EINVALID, "unsupported format %q", s)
}

// CheckContentLength returns ETOOSHORT when the Markdown content carries
// fewer than MinContentLength characters of text once markup and whitespace
// are removed.
func CheckContentLength(content string) error {
	if n := TextLength(content); n < MinContentLength {
		return Errorf(ETOOSHORT, "content too short: %d characters, minimum is %d", n, MinContentLength)
	}
	return nil
}

// RenderOptions controls optional parts of a representation.
type RenderOptions struct {
	// Debug adds template, selector and diagnostics fields.
	Debug bool
}

// Rendered is a serialized representation ready to be written to a client.
type Rendered struct {
	Body        []byte
	ContentType string
}

// Render serializes result in the requested format. The length gate counts
// the text of the content, so every format accepts and rejects the same
// documents.
func Render(result *ExtractionResult, format Format, opts RenderOptions) (*Rendered, error) {
	if err := CheckContentLength(result.Content); err != nil {
		return nil, err
	}

	var body []byte
	var err error
	switch format {
	case FormatMarkdown:
		body, err = renderMarkdown(result, opts)
	case FormatText:
		body = renderText(result, PlainText(result.Content), opts)
	case FormatJSON, "":
		format = FormatJSON
		body, err = renderJSON(result, opts)
	default:
		return nil, Errorf(EINVALID, "unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}

	return &Rendered{Body: body, ContentType: format.ContentType()}, nil
}

type jsonMetadata struct {
	SEOTitle       string `json:"seoTitle"`
	SEODescription string `json:"seoDescription"`
	PublishDate    string `json:"publishDate"`
	SourceURL      string `json:"sourceUrl"`
}

type jsonDebug struct {
	TemplateType string `json:"templateType"`
	SelectorUsed string `json:"selectorUsed"`
	Diagnostics
}

type jsonEnvelope struct {
	Title    string       `json:"title"`
	Metadata jsonMetadata `json:"metadata"`
	Content  string       `json:"content"`
	Debug    *jsonDebug   `json:"debug,omitempty"`
}

func renderJSON(result *ExtractionResult, opts RenderOptions) ([]byte, error) {
	env := jsonEnvelope{
		Title: result.Title,
		Metadata: jsonMetadata{
			SEOTitle:       truncate(result.Metadata.SEOTitle, MaxMetadataLength),
			SEODescription: truncate(result.Metadata.SEODescription, MaxMetadataLength),
			PublishDate:    truncate(result.Metadata.PublishDate, MaxMetadataLength),
			SourceURL:      result.SourceURL,
		},
		Content: result.Content,
	}
	if opts.Debug {
		env.Debug = &jsonDebug{
			TemplateType: result.Template.String(),
			SelectorUsed: result.SelectorUsed,
			Diagnostics:  result.Diagnostics,
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return nil, fmt.Errorf("encode json envelope: %w", err)
	}
	return buf.Bytes(), nil
}

type frontMatter struct {
	Title            string `yaml:"title"`
	SEOTitle         string `yaml:"seo_title,omitempty"`
	Description      string `yaml:"description,omitempty"`
	PublishDate      string `yaml:"publish_date,omitempty"`
	Source           string `yaml:"source,omitempty"`
	Template         string `yaml:"template,omitempty"`
	Selector         string `yaml:"selector,omitempty"`
	BodyMarker       string `yaml:"body_marker,omitempty"`
	ContentLength    int    `yaml:"content_length,omitempty"`
	ContentHash      string `yaml:"content_hash,omitempty"`
	DroppedFragments int    `yaml:"dropped_fragments,omitempty"`
}

func renderMarkdown(result *ExtractionResult, opts RenderOptions) ([]byte, error) {
	fm := frontMatter{
		Title:       result.Title,
		SEOTitle:    result.Metadata.SEOTitle,
		Description: result.Metadata.SEODescription,
		PublishDate: result.Metadata.PublishDate,
		Source:      result.SourceURL,
	}
	if opts.Debug {
		fm.Template = result.Template.String()
		fm.Selector = result.SelectorUsed
		fm.BodyMarker = result.Diagnostics.BodyMarker
		fm.ContentLength = result.Diagnostics.ContentLength
		fm.ContentHash = result.Diagnostics.ContentHash
		fm.DroppedFragments = result.Diagnostics.DroppedFragments
	}

	head, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(head)
	buf.WriteString("---\n\n")
	buf.WriteString(strings.TrimSpace(result.Content))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

func renderText(result *ExtractionResult, text string, opts RenderOptions) []byte {
	var buf bytes.Buffer
	label := func(name, value string) {
		if value != "" {
			buf.WriteString(name + ": " + value + "\n")
		}
	}

	label("Title", result.Title)
	if result.Metadata.SEOTitle != result.Title {
		label("SEO Title", result.Metadata.SEOTitle)
	}
	label("Description", result.Metadata.SEODescription)
	label("Published", result.Metadata.PublishDate)
	label("Source", result.SourceURL)
	if opts.Debug {
		label("Template", result.Template.String())
		label("Selector", result.SelectorUsed)
		label("Body Marker", result.Diagnostics.BodyMarker)
		label("Content Length", strconv.Itoa(result.Diagnostics.ContentLength))
		label("Content Hash", result.Diagnostics.ContentHash)
	}
	buf.WriteString("\n")
	buf.WriteString(text)
	buf.WriteString("\n")
	return buf.Bytes()
}

// truncate shortens s to at most n runes, ending with an ellipsis when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}
