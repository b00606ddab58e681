package post

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Fetch downloads the page at pageURL and extracts its main article as a blog post.
func Fetch(ctx context.Context, client *http.Client, pageURL string) (BlogPost, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return BlogPost{}, fmt.Errorf("%w: invalid url %q", ErrInput, pageURL)
	}
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return BlogPost{}, fmt.Errorf("%w: %v", ErrInput, err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; blog-pipeline/1.0)")

	resp, err := client.Do(req)
	if err != nil {
		return BlogPost{}, fmt.Errorf("%w: fetch %s: %v", ErrInput, pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return BlogPost{}, fmt.Errorf("%w: fetch %s: unexpected status %d", ErrInput, pageURL, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return BlogPost{}, fmt.Errorf("%w: readability extraction: %v", ErrInput, err)
	}
	return BlogPost{
		Title:   strings.TrimSpace(article.Title),
		Content: strings.TrimSpace(article.TextContent),
	}, nil
}
