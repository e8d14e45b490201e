package gin_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ginpkg "github.com/gin-gonic/gin"
	"github.com/fwojciec/helpdoc"
	helpdocgin "github.com/fwojciec/helpdoc/gin"
	"github.com/fwojciec/helpdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	ginpkg.SetMode(ginpkg.TestMode)
}

var articleBody = strings.Repeat("Select the Crop tool and drag the corner handles to frame the image. ", 3)

// newTestServer returns a server whose fetcher serves a fixed page and whose
// processor returns a fixed result.
func newTestServer(t *testing.T, fetchErr, processErr error) (*helpdocgin.Server, *bytes.Buffer, *string) {
	t.Helper()

	var logs bytes.Buffer
	var fetched string
	s := helpdocgin.NewServer(slog.New(slog.NewTextHandler(&logs, nil)))
	s.Fetcher = &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			fetched = url
			if fetchErr != nil {
				return "", fetchErr
			}
			return "<html><body><div id=\"root\"><p>page</p></div></body></html>", nil
		},
	}
	s.Processor = &mock.Processor{
		ProcessFn: func(ctx context.Context, snap *helpdoc.DocumentSnapshot, opts helpdoc.ProcessOptions) (*helpdoc.ExtractionResult, error) {
			if processErr != nil {
				return nil, processErr
			}
			return &helpdoc.ExtractionResult{
				Title:        "Crop images",
				Metadata:     helpdoc.ArticleMetadata{Title: "Crop images", SEOTitle: "Crop images"},
				Content:      "# Crop images\n\n" + articleBody,
				Template:     helpdoc.TemplateModern,
				SelectorUsed: "[data-component='article-body']",
				SourceURL:    snap.SourceURL,
				Diagnostics:  helpdoc.Diagnostics{BodyMarker: "helpx-article", ContentHash: "00000000000000ff"},
			}, nil
		},
	}
	s.Containers = func(html string, limit int) []helpdoc.Container {
		return []helpdoc.Container{{Tag: "div", ID: "root"}}
	}
	return s, &logs, &fetched
}

func serve(s http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, http.NoBody)
	s.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestServer_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns JSON by default", func(t *testing.T) {
		t.Parallel()

		s, _, fetched := newTestServer(t, nil, nil)

		w := serve(s, http.MethodGet, "/?url=photoshop/using/crop.html")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Equal(t, "https://helpx.adobe.com/photoshop/using/crop.html", *fetched)
		body := decode(t, w)
		assert.Equal(t, "Crop images", body["title"])
		assert.NotContains(t, body, "debug")
		meta := body["metadata"].(map[string]any)
		assert.Equal(t, "https://helpx.adobe.com/photoshop/using/crop.html", meta["sourceUrl"])
	})

	t.Run("serves the api proxy path", func(t *testing.T) {
		t.Parallel()

		s, _, _ := newTestServer(t, nil, nil)

		w := serve(s, http.MethodGet, "/api/proxy?url=https://helpx.adobe.com/x.html")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("includes debug fields when requested", func(t *testing.T) {
		t.Parallel()

		s, _, _ := newTestServer(t, nil, nil)

		w := serve(s, http.MethodGet, "/?url=x.html&debug=true")

		require.Equal(t, http.StatusOK, w.Code)
		debug := decode(t, w)["debug"].(map[string]any)
		assert.Equal(t, "modern", debug["templateType"])
		assert.Equal(t, "[data-component='article-body']", debug["selectorUsed"])
		assert.Equal(t, "helpx-article", debug["bodyMarker"])
		assert.Equal(t, "00000000000000ff", debug["contentHash"])
		assert.Contains(t, debug, "contentLength")
		assert.Contains(t, debug, "droppedFragments")
		assert.Contains(t, debug, "readerMode")
	})

	t.Run("renders text format", func(t *testing.T) {
		t.Parallel()

		s, _, _ := newTestServer(t, nil, nil)

		w := serve(s, http.MethodGet, "/?url=x.html&format=text")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "--- Crop images ---")
	})

	t.Run("legacy markdown flag selects markdown", func(t *testing.T) {
		t.Parallel()

		s, _, _ := newTestServer(t, nil, nil)

		w := serve(s, http.MethodGet, "/?url=x.html&markdown=1")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/markdown; charset=utf-8", w.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(w.Body.String(), "---\n"))
	})

	t.Run("rejects missing url", func(t *testing.T) {
		t.Parallel()

		s, _, _ := newTestServer(t, nil, nil)

		w := serve(s, http.MethodGet, "/")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "URL parameter required", decode(t, w)["error"])
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		t.Parallel()

		s, _, _ := newTestServer(t, nil, nil)

		w := serve(s, http.MethodGet, "/?url=x.html&format=pdf")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "https://helpx.adobe.com/x.html", decode(t, w)["url"])
	})

	t.Run("maps upstream failures to 502", func(t *testing.T) {
		t.Parallel()

		s, _, _ := newTestServer(t, helpdoc.Errorf(helpdoc.EUNAVAILABLE, "HTTP 503 for x"), nil)

		w := serve(s, http.MethodGet, "/?url=x.html")

		assert.Equal(t, http.StatusBadGateway, w.Code)
		body := decode(t, w)
		assert.Equal(t, "HTTP 503 for x", body["error"])
		assert.Equal(t, "https://helpx.adobe.com/x.html", body["url"])
	})

	t.Run("maps missing content to 404", func(t *testing.T) {
		t.Parallel()

		s, _, _ := newTestServer(t, nil, helpdoc.Errorf(helpdoc.ENOTFOUND, "no content region found"))

		w := serve(s, http.MethodGet, "/?url=x.html")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NotContains(t, decode(t, w), "availableSelectors")
	})

	t.Run("lists containers when selector override fails", func(t *testing.T) {
		t.Parallel()

		s, _, _ := newTestServer(t, nil, helpdoc.Errorf(helpdoc.ENOTFOUND, "No content found with selector: #nope"))

		w := serve(s, http.MethodGet, "/?url=x.html&selector=%23nope")

		require.Equal(t, http.StatusNotFound, w.Code)
		body := decode(t, w)
		assert.Equal(t, "No content found with selector: #nope", body["error"])
		assert.Equal(t, []any{map[string]any{"tag": "div", "id": "root"}}, body["availableSelectors"])
	})

	t.Run("maps short content to 404", func(t *testing.T) {
		t.Parallel()

		s, _, _ := newTestServer(t, nil, nil)
		s.Processor = &mock.Processor{
			ProcessFn: func(ctx context.Context, snap *helpdoc.DocumentSnapshot, opts helpdoc.ProcessOptions) (*helpdoc.ExtractionResult, error) {
				return &helpdoc.ExtractionResult{Content: "Too short"}, nil
			},
		}

		w := serve(s, http.MethodGet, "/?url=x.html")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("hides internal error details and logs them", func(t *testing.T) {
		t.Parallel()

		s, logs, _ := newTestServer(t, nil, errors.New("database exploded"))

		w := serve(s, http.MethodGet, "/?url=x.html")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal error", decode(t, w)["error"])
		assert.Contains(t, logs.String(), "database exploded")
	})
}

func TestServer_Middleware(t *testing.T) {
	t.Parallel()

	t.Run("sets CORS headers", func(t *testing.T) {
		t.Parallel()

		s, _, _ := newTestServer(t, nil, nil)

		w := serve(s, http.MethodGet, "/?url=x.html")

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("answers preflight with 200", func(t *testing.T) {
		t.Parallel()

		s, _, fetched := newTestServer(t, nil, nil)

		w := serve(s, http.MethodOptions, "/api/proxy?url=x.html")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Empty(t, *fetched)
	})

	t.Run("generates request IDs", func(t *testing.T) {
		t.Parallel()

		s, logs, _ := newTestServer(t, nil, nil)

		w := serve(s, http.MethodGet, "/health")

		id := w.Header().Get("X-Request-ID")
		assert.Len(t, id, 36)
		assert.Contains(t, logs.String(), "request_id="+id)
	})

	t.Run("preserves inbound request IDs", func(t *testing.T) {
		t.Parallel()

		s, _, _ := newTestServer(t, nil, nil)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
		req.Header.Set("X-Request-ID", "trace-abc123")

		s.ServeHTTP(w, req)

		assert.Equal(t, "trace-abc123", w.Header().Get("X-Request-ID"))
	})

	t.Run("recovers from panics", func(t *testing.T) {
		t.Parallel()

		s, logs, _ := newTestServer(t, nil, nil)
		s.Processor = &mock.Processor{
			ProcessFn: func(ctx context.Context, snap *helpdoc.DocumentSnapshot, opts helpdoc.ProcessOptions) (*helpdoc.ExtractionResult, error) {
				panic("boom")
			},
		}

		w := serve(s, http.MethodGet, "/?url=x.html")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, logs.String(), "panic recovered")
	})

	t.Run("reports health", func(t *testing.T) {
		t.Parallel()

		s, _, _ := newTestServer(t, nil, nil)

		w := serve(s, http.MethodGet, "/health")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", decode(t, w)["status"])
	})
}

func TestErrorStatusCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusBadRequest, helpdocgin.ErrorStatusCode(helpdoc.EINVALID))
	assert.Equal(t, http.StatusNotFound, helpdocgin.ErrorStatusCode(helpdoc.ENOTFOUND))
	assert.Equal(t, http.StatusNotFound, helpdocgin.ErrorStatusCode(helpdoc.ETOOSHORT))
	assert.Equal(t, http.StatusBadGateway, helpdocgin.ErrorStatusCode(helpdoc.EUNAVAILABLE))
	assert.Equal(t, http.StatusInternalServerError, helpdocgin.ErrorStatusCode(helpdoc.EINTERNAL))
}
