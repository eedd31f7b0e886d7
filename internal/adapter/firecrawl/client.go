package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"sitedex/internal/pipeline"
)

const (
	// ModeSingle scrapes only the target page; ModeCrawl follows links from
	// it up to the configured page limit.
	ModeSingle = "single"
	ModeCrawl  = "crawl"

	defaultBaseURL = "https://api.firecrawl.dev"
	pollInterval   = 2 * time.Second
)

var (
	// ErrNoContent means the scrape succeeded but returned no extractable text.
	ErrNoContent = errors.New("no extractable content")
	// ErrCrawlFailed means the crawl job ended in a failed state.
	ErrCrawlFailed = errors.New("crawl job failed")
)

// Client fetches page text through the Firecrawl scraping API and maps the
// responses onto pipeline documents.
type Client struct {
	apiKey   string
	baseURL  string
	client   *http.Client
	pollWait time.Duration
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		client:   &http.Client{Timeout: 120 * time.Second},
		pollWait: pollInterval,
	}
}

func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

func (c *Client) SetPollInterval(d time.Duration) {
	c.pollWait = d
}

// Fetch returns the markdown text of the target page, or of every crawled
// page when mode is "crawl". Pages without markdown content are dropped.
func (c *Client) Fetch(ctx context.Context, target, mode string, maxPages int) ([]pipeline.Document, error) {
	if mode == ModeCrawl {
		return c.crawl(ctx, target, maxPages)
	}
	return c.scrape(ctx, target)
}

type page struct {
	Markdown string `json:"markdown"`
	Metadata struct {
		SourceURL string `json:"sourceURL"`
	} `json:"metadata"`
}

func (p page) document(fallbackURL string) pipeline.Document {
	url := p.Metadata.SourceURL
	if url == "" {
		url = fallbackURL
	}
	return pipeline.Document{SourceURL: url, Text: p.Markdown}
}

func (c *Client) scrape(ctx context.Context, target string) ([]pipeline.Document, error) {
	slog.InfoContext(ctx, "scraping single page", "url", target)

	body := map[string]interface{}{
		"url":     target,
		"formats": []string{"markdown"},
	}

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Data    page   `json:"data"`
	}
	if err := c.post(ctx, "/v1/scrape", body, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("scrape rejected: %s", result.Error)
	}
	if result.Data.Markdown == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoContent, target)
	}

	slog.InfoContext(ctx, "page scraped", "url", target, "chars", len(result.Data.Markdown))
	return []pipeline.Document{result.Data.document(target)}, nil
}

func (c *Client) crawl(ctx context.Context, target string, maxPages int) ([]pipeline.Document, error) {
	slog.InfoContext(ctx, "starting crawl", "url", target, "max_pages", maxPages)

	body := map[string]interface{}{
		"url":   target,
		"limit": maxPages,
		"scrapeOptions": map[string]interface{}{
			"formats": []string{"markdown"},
		},
	}

	var started struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		ID      string `json:"id"`
	}
	if err := c.post(ctx, "/v1/crawl", body, &started); err != nil {
		return nil, err
	}
	if !started.Success || started.ID == "" {
		return nil, fmt.Errorf("crawl rejected: %s", started.Error)
	}

	return c.waitForCrawl(ctx, target, started.ID)
}

// waitForCrawl polls the crawl job until it completes. The caller's context
// bounds how long we are willing to wait.
func (c *Client) waitForCrawl(ctx context.Context, target, id string) ([]pipeline.Document, error) {
	ticker := time.NewTicker(c.pollWait)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		var status struct {
			Status string `json:"status"`
			Data   []page `json:"data"`
		}
		if err := c.get(ctx, "/v1/crawl/"+id, &status); err != nil {
			return nil, err
		}

		switch status.Status {
		case "completed":
			docs := make([]pipeline.Document, 0, len(status.Data))
			fallbackUsed := false
			for _, p := range status.Data {
				if p.Markdown == "" {
					continue
				}
				if p.Metadata.SourceURL == "" {
					// Only one page may fall back to the target URL; a second
					// would collide with the first page's vector ids.
					if fallbackUsed {
						slog.WarnContext(ctx, "dropping page without sourceURL", "url", target)
						continue
					}
					fallbackUsed = true
				}
				doc := p.document(target)
				slog.InfoContext(ctx, "page crawled", "url", doc.SourceURL, "chars", len(doc.Text))
				docs = append(docs, doc)
			}
			if len(docs) == 0 {
				return nil, fmt.Errorf("%w: %s", ErrNoContent, target)
			}
			slog.InfoContext(ctx, "crawl completed", "url", target, "pages", len(docs))
			return docs, nil
		case "failed", "cancelled":
			return nil, fmt.Errorf("%w: status %s", ErrCrawlFailed, status.Status)
		default:
			slog.DebugContext(ctx, "crawl in progress", "id", id, "status", status.Status)
		}
	}
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("firecrawl api error: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
