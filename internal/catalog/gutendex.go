// Package catalog looks up books in the Gutendex catalog. The catalog is
// an untrusted, possibly slow external service: results may be empty and
// failures are surfaced as-is with no retry.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mlobanov/bookshelf/internal/entities"
)

// ErrNoResults is returned when a search matches nothing.
var ErrNoResults = errors.New("no books found")

// Client queries the Gutendex API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewClient creates a Gutendex client with rate limiting.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: newRateLimiter(500 * time.Millisecond),
	}
}

type gutendexAuthor struct {
	Name string `json:"name"`
}

type gutendexBook struct {
	ID            int               `json:"id"`
	Title         string            `json:"title"`
	Authors       []gutendexAuthor  `json:"authors"`
	Formats       map[string]string `json:"formats"`
	DownloadCount int               `json:"download_count"`
	Summaries     []string          `json:"summaries"`
}

type gutendexResponse struct {
	Count   int            `json:"count"`
	Results []gutendexBook `json:"results"`
}

// Search returns candidate records for a free-text query. Returns
// ErrNoResults when the catalog has no match.
func (c *Client) Search(ctx context.Context, query string) ([]entities.BookRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	c.rateLimiter.wait()

	reqURL := fmt.Sprintf("%s/books?search=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Bookshelf/1.0 (https://github.com/mlobanov/bookshelf)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var payload gutendexResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(payload.Results) == 0 {
		return nil, ErrNoResults
	}

	records := make([]entities.BookRecord, 0, len(payload.Results))
	for _, book := range payload.Results {
		records = append(records, convertBook(book))
	}
	return records, nil
}

// First returns the best (first) match for a query.
func (c *Client) First(ctx context.Context, query string) (entities.BookRecord, error) {
	records, err := c.Search(ctx, query)
	if err != nil {
		return entities.BookRecord{}, err
	}
	return records[0], nil
}

// convertBook maps a catalog result onto a book record. Only the cover and
// reading-page formats are kept; the rest of the catalog's format map is
// noise for a shelf entry.
func convertBook(book gutendexBook) entities.BookRecord {
	authors := make([]entities.Author, 0, len(book.Authors))
	for _, a := range book.Authors {
		authors = append(authors, entities.Author{Name: a.Name})
	}

	formats := map[string]string{}
	if cover := book.Formats[entities.CoverFormatKey]; cover != "" {
		formats[entities.CoverFormatKey] = cover
	}
	if page := book.Formats[entities.ReadPageFormatKey]; page != "" {
		formats[entities.ReadPageFormatKey] = page
	}

	record := entities.BookRecord{
		Title:         book.Title,
		Authors:       authors,
		Formats:       formats,
		CatalogID:     book.ID,
		DownloadCount: book.DownloadCount,
		Summaries:     book.Summaries,
	}
	if page := formats[entities.ReadPageFormatKey]; page != "" {
		record.ReadLink = page
	}
	return record
}
