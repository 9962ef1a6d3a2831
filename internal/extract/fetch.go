package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/devparana/vagasbot/internal/model"
)

const userAgent = "vagasbot/1.0 (+https://github.com/devparana/vagasbot)"

// PageFetcher retrieves the listing page with a single unauthenticated GET.
type PageFetcher struct {
	url    string
	client *http.Client
}

// NewPageFetcher creates a fetcher for the listing page at url.
func NewPageFetcher(url string, client *http.Client) *PageFetcher {
	return &PageFetcher{url: url, client: client}
}

// URL returns the listing page address.
func (f *PageFetcher) URL() string { return f.url }

// Fetch returns the page body. Any status other than 200 is an *model.HTTPError.
func (f *PageFetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch listing page: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch listing page: %w", &model.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch listing page: reading body: %w", err)
	}
	return body, nil
}
