package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"library-backend/internal/config"
)

// BookMetadata is the subset of Open Library data used to pre-fill a book
// record. All fields are optional.
type BookMetadata struct {
	Title         string
	PublishedYear int
	Publisher     string
	Pages         int
	CoverURL      string
}

// OpenLibraryClient looks up book metadata by ISBN. Calls are rate limited
// and retried; the catalog never depends on a lookup succeeding.
type OpenLibraryClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	maxRetries int
}

func NewOpenLibraryClient(cfg config.MetadataConfig) *OpenLibraryClient {
	rps := cfg.RPS
	if rps <= 0 {
		rps = 1
	}
	return &OpenLibraryClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		baseURL:    "https://openlibrary.org",
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
	}
}

type isbnResponse struct {
	Title         string `json:"title"`
	PublishDate   string `json:"publish_date"`
	NumberOfPages int    `json:"number_of_pages"`
	Publishers    []struct {
		Name string `json:"name"`
	} `json:"publishers"`
	Covers []int64 `json:"covers"`
}

// LookupISBN fetches metadata for an ISBN. Returns (nil, nil) when the ISBN
// is unknown to Open Library.
func (c *OpenLibraryClient) LookupISBN(ctx context.Context, isbn string) (*BookMetadata, error) {
	endpoint := fmt.Sprintf("%s/isbn/%s.json", c.baseURL, url.PathEscape(isbn))

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		meta, retryable, err := c.fetch(ctx, endpoint)
		if err == nil {
			return meta, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}

		log.Warn().Err(err).Str("isbn", isbn).Int("attempt", attempt+1).Msg("metadata lookup failed")

		if attempt < c.maxRetries {
			select {
			case <-time.After(time.Second * time.Duration(1<<uint(attempt))):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

func (c *OpenLibraryClient) fetch(ctx context.Context, endpoint string) (*BookMetadata, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("openlibrary request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("openlibrary returned status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("openlibrary returned status %d", resp.StatusCode)
	}

	var body isbnResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, false, fmt.Errorf("failed to decode openlibrary response: %w", err)
	}

	meta := &BookMetadata{
		Title: body.Title,
		Pages: body.NumberOfPages,
	}
	if len(body.Publishers) > 0 {
		meta.Publisher = body.Publishers[0].Name
	}
	if len(body.Covers) > 0 {
		meta.CoverURL = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", body.Covers[0])
	}
	meta.PublishedYear = parseYear(body.PublishDate)

	return meta, false, nil
}

// parseYear pulls a 4-digit year out of the free-form publish_date field.
func parseYear(s string) int {
	for i := 0; i+4 <= len(s); i++ {
		if y, err := strconv.Atoi(s[i : i+4]); err == nil && y >= 1000 && y <= 9999 {
			return y
		}
	}
	return 0
}
