package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/helpdoc"
	"github.com/fwojciec/helpdoc/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements helpdoc.Extractor at compile time.
var _ helpdoc.Extractor = (*trafilatura.Extractor)(nil)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title from meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Crop images | Adobe Help</title>
<meta property="og:title" content="Crop images in Photoshop">
</head>
<body>
<nav>Navigation here</nav>
<main>
<h1>Crop images</h1>
<p>This is the main content of the help article about cropping.</p>
</main>
<footer>Footer content</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
	})

	t.Run("extracts main content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Keyboard shortcuts</title></head>
<body>
<nav><a href="/">Home</a><a href="/apps">Apps</a></nav>
<article>
<h1>Keyboard shortcuts</h1>
<p>This is important help content that should be extracted for readers.</p>
<pre><code>Ctrl+Shift+S  Save As</code></pre>
</article>
<aside>Sidebar content</aside>
<footer>Copyright 2024</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "important help content")
		assert.Contains(t, result.ContentHTML, "Ctrl+Shift+S")
	})

	t.Run("removes navigation boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Billing</title></head>
<body>
<nav class="main-nav">
<ul>
<li><a href="/">Home</a></li>
<li><a href="/plans">Plans</a></li>
<li><a href="/support">Support</a></li>
</ul>
</nav>
<main>
<h1>Update your billing information</h1>
<p>This paragraph contains the actual content we want.</p>
</main>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "actual content we want")
		assert.NotContains(t, result.ContentHTML, "main-nav")
	})

	t.Run("removes footer boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Billing</title></head>
<body>
<article>
<h1>Refund policy</h1>
<p>Article body with substantive content for readers.</p>
</article>
<footer>
<p>Copyright 2024 Example Corp</p>
<nav>Privacy | Terms | Contact</nav>
</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "substantive content")
		assert.NotContains(t, result.ContentHTML, "Copyright 2024 Example Corp")
	})

	t.Run("handles help-center layout with side navigation", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Install apps | Help Center</title>
</head>
<body>
<nav class="navbar">
<a href="/">Help Center</a>
<a href="/apps">Apps</a>
</nav>
<div class="sidebar">
<ul>
<li><a href="/install">Install</a></li>
<li><a href="/uninstall">Uninstall</a></li>
</ul>
</div>
<main class="article-main">
<article>
<h1>Install apps</h1>
<p>Welcome to the installation guide. This guide will help you get started.</p>
<h2>Before you begin</h2>
<p>Before you begin, make sure your computer meets the system requirements.</p>
</article>
</main>
<footer class="footer">
<p>Legal notices</p>
</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "Welcome to the installation guide")
		assert.Contains(t, result.ContentHTML, "Before you begin")
	})

	t.Run("returns EINVALID for empty input", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract("")

		require.Error(t, err)
		assert.Equal(t, helpdoc.EINVALID, helpdoc.ErrorCode(err))
	})

	t.Run("handles minimal valid HTML", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Simple content</p></body></html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "Simple content")
	})
}

func TestExtractor_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "trafilatura", trafilatura.NewExtractor().Name())
}
