// Package cricinfo scrapes player search results, innings-by-innings
// statsguru tables and profile pages from ESPNcricinfo.
//
// Every request goes through a shared token bucket so a full scrape of one
// player stays well under the site's tolerance.
package cricinfo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// Config holds the endpoints and politeness settings.
type Config struct {
	SearchBaseURL     string
	StatsBaseURL      string
	ProfileBaseURL    string
	RequestsPerMinute int
	Timeout           time.Duration
	Concurrency       int
	UserAgent         string
}

// Client is the shared HTTP client for all cricinfo pages.
type Client struct {
	httpClient *http.Client
	cfg        Config
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a rate-limited cricinfo client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	rps := float64(cfg.RequestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// get performs a rate-limited GET and parses the response as HTML.
func (c *Client) get(ctx context.Context, u string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("GET %s returned %d: %s", u, resp.StatusCode, body)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", u, err)
	}
	c.logger.Debug("Fetched page", "url", u, "duration", time.Since(start).Round(time.Millisecond))
	return doc, nil
}
