package provider

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrProvider marks every failure of the metadata provider: transport errors,
// unexpected status codes and malformed or incomplete responses.
var ErrProvider = errors.New("movie provider error")

// Provider defines the interface for looking up movie metadata
type Provider interface {
	// Search returns the provider's raw results for a title query
	Search(ctx context.Context, title string) ([]SearchResult, error)

	// FetchDetail returns the detail document of a single movie
	FetchDetail(ctx context.Context, id int) (*Detail, error)
}

// SearchResult is one entry of a title search, passed through as returned
type SearchResult struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	ReleaseDate   string  `json:"release_date"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	VoteAverage   float64 `json:"vote_average"`
	Adult         bool    `json:"adult"`
}

// Detail holds the fields extracted from a movie detail document
type Detail struct {
	ID          int
	Title       string
	Year        int
	Description string
	PosterPath  string
}

// ImageURL joins the partial poster path with the image CDN base
func (d *Detail) ImageURL(imageBaseURL string) string {
	return strings.TrimRight(imageBaseURL, "/") + "/" + strings.TrimLeft(d.PosterPath, "/")
}

// Config holds configuration for the TMDB client
type Config struct {
	// BaseURL is the API root, e.g. https://api.themoviedb.org/3
	BaseURL string
	// Token is the bearer credential
	Token string
	// Language is sent as the language query parameter
	Language string
	// IncludeAdult is sent as the include_adult search parameter
	IncludeAdult bool
	// Timeout bounds each HTTP request
	Timeout time.Duration
}

// DefaultConfig returns default client configuration without a token
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      "https://api.themoviedb.org/3",
		Language:     "en-US",
		IncludeAdult: true,
		Timeout:      15 * time.Second,
	}
}
