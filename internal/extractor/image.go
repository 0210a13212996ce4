package extractor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/PuerkitoBio/goquery"
)

// ExtractImageURL returns the main product image URL for a page, preferring
// the structured product schema and falling back to the og:image meta tag.
func ExtractImageURL(doc *goquery.Document) (string, bool) {
	if doc == nil {
		return "", false
	}

	if entry, ok := firstProductEntry(doc); ok {
		if url := imageValue(entry["image"]); url != "" {
			return url, true
		}
	}

	if url := metaContent(doc, `meta[property="og:image"]`); url != "" {
		return url, true
	}

	slog.With("component", "extractor").Debug("no product image found")
	return "", false
}

// FetchImage downloads the image at url. Any non-200 response is an error.
func FetchImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}

	return data, nil
}
