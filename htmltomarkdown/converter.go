package htmltomarkdown

import (
	"regexp"
	"strconv"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/helpdoc"
)

// Ensure Converter implements helpdoc.Converter at compile time.
var _ helpdoc.Converter = (*Converter)(nil)

var (
	newlineRunRe  = regexp.MustCompile(`(\r?\n)+`)
	unescapedPipe = regexp.MustCompile(`(^|[^\\])\|`)
)

// Converter wraps html-to-markdown to convert HTML to GitHub-flavored
// Markdown: ATX headings, fenced code, "-" bullets, pipe tables, task lists
// and strikethrough.
//
// Text is not Markdown-escaped; table cells arrive with pipes already
// escaped by the table normalizer.
type Converter struct {
	conv *md.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := md.NewConverter("", true, &md.Options{
		HeadingStyle:     "atx",
		CodeBlockStyle:   "fenced",
		BulletListMarker: "-",
		EscapeMode:       "disabled",
	})
	conv.Use(plugin.GitHubFlavored())

	c := &Converter{conv: conv}
	conv.AddRules(
		md.Rule{
			Filter:      []string{"br"},
			Replacement: lineBreak,
		},
		md.Rule{
			Filter:      []string{"table"},
			Replacement: c.irregularTable,
		},
	)
	return c
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", helpdoc.Errorf(helpdoc.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return result, nil
}

// lineBreak renders <br> outside tables as a backslash hard break. Inside a
// cell it defers to the default rule, whose newlines the cell rule turns into
// <br>.
func lineBreak(_ string, selec *goquery.Selection, _ *md.Options) *string {
	if selec.Closest("td, th").Length() > 0 {
		return nil
	}
	return md.String("\\\n")
}

// irregularTable renders tables the GFM table rule would break: a header
// row that is not the first row, ragged rows, or spanning cells. Regular
// tables fall through to the plugin rule.
func (c *Converter) irregularTable(_ string, selec *goquery.Selection, _ *md.Options) *string {
	rows := selec.Find("tr")
	if rows.Length() == 0 || !isIrregular(selec, rows) {
		return nil
	}

	var grid [][]string
	width := 0
	rows.Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Children().Filter("td, th").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, c.cellText(cell))
			for i := 1; i < span(cell); i++ {
				row = append(row, "")
			}
		})
		if len(row) > width {
			width = len(row)
		}
		grid = append(grid, row)
	})
	if width == 0 {
		return nil
	}

	// The first row is the header only if it holds a header cell; otherwise
	// the header row is left blank.
	var header []string
	if rows.First().Children().Filter("th").Length() > 0 {
		header, grid = grid[0], grid[1:]
	}

	var sb strings.Builder
	sb.WriteString("\n\n")
	writeRow(&sb, header, width)
	sb.WriteString("|" + strings.Repeat(" --- |", width) + "\n")
	for _, row := range grid {
		writeRow(&sb, row, width)
	}
	sb.WriteString("\n")
	return md.String(sb.String())
}

func (c *Converter) cellText(cell *goquery.Selection) string {
	text := strings.TrimSpace(c.conv.Convert(cell.Clone()))
	text = newlineRunRe.ReplaceAllString(text, "<br>")
	return unescapedPipe.ReplaceAllString(text, `$1\|`)
}

// isIrregular reports whether the table has th cells without a leading
// all-th row, rows of different widths, or any colspan or rowspan.
func isIrregular(table, rows *goquery.Selection) bool {
	if table.Find("[colspan], [rowspan]").Length() > 0 {
		return true
	}

	widths := map[int]bool{}
	rows.Each(func(_ int, tr *goquery.Selection) {
		widths[tr.Children().Filter("td, th").Length()] = true
	})
	if len(widths) > 1 {
		return true
	}

	if table.Find("th").Length() == 0 || table.Find("thead").Length() > 0 {
		return false
	}
	first := rows.First().Children()
	return first.Filter("th").Length() != first.Length()
}

func span(cell *goquery.Selection) int {
	n, err := strconv.Atoi(cell.AttrOr("colspan", "1"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func writeRow(sb *strings.Builder, cells []string, width int) {
	sb.WriteString("|")
	for i := 0; i < width; i++ {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		sb.WriteString(" " + cell + " |")
	}
	sb.WriteString("\n")
}
