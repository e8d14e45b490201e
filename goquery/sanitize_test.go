package goquery_test

import (
	"testing"

	"github.com/fwojciec/helpdoc"
	"github.com/fwojciec/helpdoc/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	fixture := `<html><body><div id="article">
<nav class="breadcrumbs"><a href="/">Home</a></nav>
<div class="toc"><a href="#s1">Section</a></div>
<h2 id="s1">Steps</h2>
<p>Open the <strong>File</strong> menu.</p>
<div class="social-share"><a href="#">Share</a></div>
<div class="promo-card"><p>Try it free</p></div>
<figure><img src="a.png"></figure>
<script>track()</script>
<div class="article-rail"><p>Rail</p></div>
<table><tr><td></td><td>Value</td></tr></table>
<p>Line<br>break</p>
</div></body></html>`

	t.Run("removes chrome widgets and media", func(t *testing.T) {
		t.Parallel()

		region := goquery.Sanitize(parseRegion(t, fixture, "#article"), helpdoc.TemplateModern)

		html, err := region.Html()
		require.NoError(t, err)
		assert.Contains(t, html, "Open the <strong>File</strong> menu.")
		assert.NotContains(t, html, "Home")
		assert.NotContains(t, html, "Section")
		assert.NotContains(t, html, "Share")
		assert.NotContains(t, html, "Try it free")
		assert.NotContains(t, html, "track()")
		assert.NotContains(t, html, "Rail")
	})

	t.Run("removes elements left empty", func(t *testing.T) {
		t.Parallel()

		region := goquery.Sanitize(parseRegion(t, fixture, "#article"), helpdoc.TemplateModern)

		assert.Equal(t, 0, region.Find("figure").Length())
	})

	t.Run("keeps structural empty elements", func(t *testing.T) {
		t.Parallel()

		region := goquery.Sanitize(parseRegion(t, fixture, "#article"), helpdoc.TemplateModern)

		assert.Equal(t, 2, region.Find("td").Length())
		assert.Equal(t, 1, region.Find("br").Length())
	})

	t.Run("template removal selectors apply only to their template", func(t *testing.T) {
		t.Parallel()

		region := goquery.Sanitize(parseRegion(t, fixture, "#article"), helpdoc.TemplateLegacy)

		assert.Equal(t, 1, region.Find(".article-rail").Length())
	})

	t.Run("never removes the region root", func(t *testing.T) {
		t.Parallel()

		region := parseRegion(t, `<html><body><div id="article" class="promo"><img src="a.png"></div></body></html>`, "#article")

		region = goquery.Sanitize(region, helpdoc.TemplateModern)

		assert.Equal(t, 1, region.Length())
		assert.Equal(t, "article", region.AttrOr("id", ""))
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		region := goquery.Sanitize(parseRegion(t, fixture, "#article"), helpdoc.TemplateModern)
		once, err := region.Html()
		require.NoError(t, err)

		region = goquery.Sanitize(region, helpdoc.TemplateModern)
		twice, err := region.Html()
		require.NoError(t, err)

		assert.Equal(t, once, twice)
	})
}
