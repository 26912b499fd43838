package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/user/top-movies-go/internal/metrics"
)

const (
	searchPath = "/search/movie"
	moviePath  = "/movie/"

	// maxBodySize caps how much of a response is read
	maxBodySize = 4 << 20
)

// TMDBClient implements the Provider interface against the TMDB v3 API
type TMDBClient struct {
	client *http.Client
	config *Config
}

// NewTMDBClient creates a new TMDB client instance
func NewTMDBClient(cfg *Config) (*TMDBClient, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("provider token is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid provider base URL: %w", err)
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &TMDBClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config: cfg,
	}, nil
}

// Search queries movies by title
func (c *TMDBClient) Search(ctx context.Context, title string) ([]SearchResult, error) {
	query := url.Values{}
	query.Set("query", title)
	query.Set("include_adult", strconv.FormatBool(c.config.IncludeAdult))
	query.Set("language", c.config.Language)

	body, err := c.fetch(ctx, "search", searchPath, query)
	if err != nil {
		return nil, err
	}

	results, err := ParseSearchResults(body)
	if err != nil {
		return nil, err
	}

	log.Info().Str("title", title).Int("count", len(results)).Msg("Provider search completed")
	return results, nil
}

// FetchDetail retrieves the detail document of a single movie
func (c *TMDBClient) FetchDetail(ctx context.Context, id int) (*Detail, error) {
	query := url.Values{}
	query.Set("language", c.config.Language)

	body, err := c.fetch(ctx, "detail", moviePath+strconv.Itoa(id), query)
	if err != nil {
		return nil, err
	}

	detail, err := ParseDetail(body)
	if err != nil {
		return nil, err
	}
	if detail.ID == 0 {
		detail.ID = id
	}
	return detail, nil
}

// fetch performs a single authenticated GET and returns the body of a 200 response
func (c *TMDBClient) fetch(ctx context.Context, operation, path string, query url.Values) ([]byte, error) {
	targetURL := strings.TrimRight(c.config.BaseURL, "/") + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrProvider, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordProviderRequest(operation, "error", time.Since(start))
		return nil, fmt.Errorf("%w: request %s: %v", ErrProvider, path, err)
	}
	defer resp.Body.Close()

	metrics.RecordProviderRequest(operation, strconv.Itoa(resp.StatusCode), time.Since(start))

	log.Debug().
		Int("status", resp.StatusCode).
		Str("operation", operation).
		Str("path", path).
		Dur("elapsed", time.Since(start)).
		Msg("Provider response")

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrProvider, err)
	}

	if resp.StatusCode != http.StatusOK {
		if msg := parseErrorMessage(body); msg != "" {
			return nil, fmt.Errorf("%w: HTTP status %d: %s", ErrProvider, resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("%w: HTTP status %d", ErrProvider, resp.StatusCode)
	}

	return body, nil
}
