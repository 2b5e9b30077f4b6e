package feed

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/patrickmn/go-cache"
)

const (
	articleCacheTTL     = 30 * time.Minute
	articleCacheCleanup = 10 * time.Minute
	articleFetchTimeout = 30 * time.Second
)

// Article is the readable form of an article page.
type Article struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Byline      string `json:"byline,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
	Excerpt     string `json:"excerpt,omitempty"`
	Image       string `json:"image,omitempty"`
	Content     string `json:"content"`
	TextContent string `json:"text_content"`
}

type ContentExtractor struct {
	fetcher *Fetcher
	cache   *cache.Cache
}

func NewContentExtractor(fetcher *Fetcher) *ContentExtractor {
	return &ContentExtractor{
		fetcher: fetcher,
		cache:   cache.New(articleCacheTTL, articleCacheCleanup),
	}
}

// Run fetches the page at link and extracts its readable content. Results
// are cached per link.
func (e *ContentExtractor) Run(ctx context.Context, link string) (*Article, error) {
	if cached, ok := e.cache.Get(link); ok {
		slog.Debug("Article served from cache", "url", link)
		return cached.(*Article), nil
	}

	pageURL, err := url.Parse(link)
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") {
		return nil, fmt.Errorf("invalid article URL: %s", link)
	}

	resp, err := e.fetcher.Fetch(ctx, link, articleFetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article: %w", err)
	}

	if !strings.Contains(strings.ToLower(resp.ContentType), "text/html") {
		return nil, fmt.Errorf("content type is not HTML: %s", resp.ContentType)
	}

	article, err := e.Extract(resp.Body, pageURL)
	if err != nil {
		return nil, err
	}

	e.cache.Set(link, article, cache.DefaultExpiration)

	return article, nil
}

// Extract runs readability over an HTML document. pageURL resolves
// relative links and may be nil.
func (e *ContentExtractor) Extract(data []byte, pageURL *url.URL) (*Article, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("HTML data is empty")
	}

	parsed, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content: %w", err)
	}

	if parsed.Content == "" {
		return nil, fmt.Errorf("no content extracted from HTML data")
	}

	article := &Article{
		Title:       parsed.Title,
		Byline:      parsed.Byline,
		SiteName:    parsed.SiteName,
		Excerpt:     parsed.Excerpt,
		Image:       parsed.Image,
		Content:     parsed.Content,
		TextContent: strings.TrimSpace(parsed.TextContent),
	}
	if pageURL != nil {
		article.URL = pageURL.String()
	}

	slog.Debug("Content extracted successfully",
		"title", article.Title,
		"content_length", len(article.Content))

	return article, nil
}
