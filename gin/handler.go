package gin

import (
	"net/http"
	"strings"

	"github.com/fwojciec/helpdoc"
	"github.com/gin-gonic/gin"
)

// maxAvailableSelectors bounds the containers listed for a failed selector.
const maxAvailableSelectors = 10

// handleExtract fetches the requested article, runs the pipeline and writes
// the chosen representation.
func (s *Server) handleExtract(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("url"))
	target, err := helpdoc.ResolveURL(s.BaseURL, raw)
	if err != nil {
		s.writeError(c, raw, err)
		return
	}

	format, err := requestFormat(c)
	if err != nil {
		s.writeError(c, target, err)
		return
	}

	html, err := s.Fetcher.Fetch(c.Request.Context(), target)
	if err != nil {
		s.writeError(c, target, err)
		return
	}

	selector := strings.TrimSpace(c.Query("selector"))
	result, err := s.Processor.Process(c.Request.Context(), &helpdoc.DocumentSnapshot{
		RawHTML:   html,
		SourceURL: target,
	}, helpdoc.ProcessOptions{Selector: selector})
	if err != nil {
		if selector != "" && helpdoc.ErrorCode(err) == helpdoc.ENOTFOUND && s.Containers != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error":              helpdoc.ErrorMessage(err),
				"url":                target,
				"availableSelectors": s.Containers(html, maxAvailableSelectors),
			})
			return
		}
		s.writeError(c, target, err)
		return
	}

	rendered, err := helpdoc.Render(result, format, helpdoc.RenderOptions{Debug: truthy(c.Query("debug"))})
	if err != nil {
		s.writeError(c, target, err)
		return
	}

	c.Data(http.StatusOK, rendered.ContentType, rendered.Body)
}

// writeError writes the JSON error body and records internal errors on the
// context so the request logger reports them.
func (s *Server) writeError(c *gin.Context, target string, err error) {
	code, message := helpdoc.ErrorCode(err), helpdoc.ErrorMessage(err)
	if code == helpdoc.EINTERNAL {
		_ = c.Error(err)
	}

	body := gin.H{"error": message}
	if target != "" {
		body["url"] = target
	}
	c.JSON(ErrorStatusCode(code), body)
}

// requestFormat resolves the format parameter, falling back to the legacy
// markdown flag and then to JSON.
func requestFormat(c *gin.Context) (helpdoc.Format, error) {
	if v, ok := c.GetQuery("format"); ok && v != "" {
		return helpdoc.ParseFormat(v)
	}
	if truthy(c.Query("markdown")) {
		return helpdoc.FormatMarkdown, nil
	}
	return helpdoc.FormatJSON, nil
}

// ErrorStatusCode maps an application error code to an HTTP status.
func ErrorStatusCode(code string) int {
	switch code {
	case helpdoc.EINVALID:
		return http.StatusBadRequest
	case helpdoc.ENOTFOUND, helpdoc.ETOOSHORT:
		return http.StatusNotFound
	case helpdoc.EUNAVAILABLE:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// truthy reports whether a flag-like query value is set.
func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}
