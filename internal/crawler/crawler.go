// Package crawler fetches campus pages and extracts their readable text
// into the category-keyed import format.
package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/peroute/hackwest-project/internal/domain/resource"
	"github.com/peroute/hackwest-project/internal/logger"
)

const (
	defaultTimeout  = 15 * time.Second
	defaultMaxChars = 2000
	maxBodyBytes    = 5 << 20
)

// Sources maps a category label to the pages crawled for it.
type Sources map[string][]string

// LoadSources reads a YAML category -> URL list file.
func LoadSources(path string) (Sources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources %s: %w", path, err)
	}
	var s Sources
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse sources %s: %w", path, err)
	}
	return s, nil
}

// Crawler downloads pages and extracts title and main text.
type Crawler struct {
	client    *http.Client
	maxChars  int
	userAgent string
	logger    *zap.Logger
}

// New creates a Crawler. Non-positive timeout and maxChars fall back to defaults.
func New(timeout time.Duration, maxChars int, userAgent string, logger *zap.Logger) *Crawler {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	return &Crawler{
		client:    &http.Client{Timeout: timeout},
		maxChars:  maxChars,
		userAgent: userAgent,
		logger:    logger,
	}
}

// Crawl fetches every source page. Pages that fail or have no readable text are
// logged and skipped; a category with no surviving pages is omitted.
func (c *Crawler) Crawl(ctx context.Context, sources Sources) resource.ImportSet {
	log := logger.FromContext(ctx, c.logger)
	out := make(resource.ImportSet, len(sources))

	for category, links := range sources {
		for _, link := range links {
			if ctx.Err() != nil {
				return out
			}
			item, err := c.Fetch(ctx, link)
			if err != nil {
				log.Warn("Skipping page",
					zap.String("category", category),
					zap.String("url", link),
					zap.Error(err),
				)
				continue
			}
			out[category] = append(out[category], item)
		}
	}

	log.Info("Crawl finished", zap.Int("categories", len(out)))
	return out
}

// Fetch downloads one page and extracts it.
func (c *Crawler) Fetch(ctx context.Context, link string) (resource.RawItem, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return resource.RawItem{}, fmt.Errorf("invalid url %q", link)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return resource.RawItem{}, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return resource.RawItem{}, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return resource.RawItem{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxBodyBytes), u)
	if err != nil {
		return resource.RawItem{}, fmt.Errorf("extract content: %w", err)
	}

	text := collapseSpace(article.TextContent)
	if text == "" {
		return resource.RawItem{}, fmt.Errorf("no readable content")
	}
	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = u.Host
	}

	return resource.RawItem{
		Title: title,
		Text:  truncateRunes(text, c.maxChars),
		URL:   u.String(),
	}, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
