package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/helpdoc"
)

// Ensure ScrapeClient implements helpdoc.Fetcher at compile time.
var _ helpdoc.Fetcher = (*ScrapeClient)(nil)

// ScrapeClient fetches pages through a hosted scrape provider that renders
// the target and returns its HTML.
type ScrapeClient struct {
	client      *http.Client
	endpoint    string
	apiKey      string
	maxBodySize int64
}

// NewScrapeClient creates a ScrapeClient posting to endpoint with apiKey as
// bearer token. Options shared with Fetcher configure the timeout and the
// response size cap.
func NewScrapeClient(endpoint, apiKey string, opts ...Option) *ScrapeClient {
	f := NewFetcher(opts...)
	return &ScrapeClient{
		client:      f.client,
		endpoint:    endpoint,
		apiKey:      apiKey,
		maxBodySize: f.maxBodySize,
	}
}

type scrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

// scrapeResponse accepts the document either at the top level or nested
// under data.
type scrapeResponse struct {
	HTML string `json:"html"`
	Data struct {
		HTML string `json:"html"`
	} `json:"data"`
}

// Fetch asks the provider for the HTML of url. A response without HTML is
// reported as EUNAVAILABLE.
func (c *ScrapeClient) Fetch(ctx context.Context, url string) (string, error) {
	payload, err := json.Marshal(scrapeRequest{URL: url, Formats: []string{"html"}})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", helpdoc.Errorf(helpdoc.EINVALID, "invalid scrape endpoint %q: %v", c.endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", helpdoc.Errorf(helpdoc.EUNAVAILABLE, "scrape %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", helpdoc.Errorf(helpdoc.EUNAVAILABLE, "scrape provider returned HTTP %d for %s", resp.StatusCode, url)
	}

	raw, err := readBody(resp.Body, c.maxBodySize)
	if err != nil {
		return "", helpdoc.Errorf(helpdoc.EUNAVAILABLE, "read scrape response for %s: %v", url, err)
	}

	var body scrapeResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", helpdoc.Errorf(helpdoc.EUNAVAILABLE, "decode scrape response for %s: %v", url, err)
	}

	html := body.HTML
	if html == "" {
		html = body.Data.HTML
	}
	if strings.TrimSpace(html) == "" {
		return "", helpdoc.Errorf(helpdoc.EUNAVAILABLE, "no HTML returned for %s", url)
	}
	return html, nil
}

// Close is a no-op.
func (c *ScrapeClient) Close() error {
	return nil
}
