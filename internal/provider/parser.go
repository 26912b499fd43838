package provider

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// releaseDatePattern matches a YYYY-MM-DD shaped date, capturing the year
var releaseDatePattern = regexp.MustCompile(`^(\d{4})-\d{2}-\d{2}`)

type searchResponse struct {
	Page    int            `json:"page"`
	Results []SearchResult `json:"results"`
}

// detailResponse uses pointers to tell absent fields from empty ones
type detailResponse struct {
	ID          int     `json:"id"`
	Title       *string `json:"title"`
	ReleaseDate *string `json:"release_date"`
	Overview    *string `json:"overview"`
	PosterPath  *string `json:"poster_path"`
}

type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// ParseSearchResults decodes a search response body.
// A missing results list decodes to an empty slice.
func ParseSearchResults(body []byte) ([]SearchResult, error) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", ErrProvider, err)
	}
	if resp.Results == nil {
		return []SearchResult{}, nil
	}
	return resp.Results, nil
}

// ParseDetail decodes a movie detail body and checks the fields an import needs
func ParseDetail(body []byte) (*Detail, error) {
	var resp detailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode detail response: %v", ErrProvider, err)
	}

	title := deref(resp.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: detail response has no title", ErrProvider)
	}
	if resp.Overview == nil {
		return nil, fmt.Errorf("%w: detail response for %q has no overview", ErrProvider, title)
	}
	posterPath := deref(resp.PosterPath)
	if posterPath == "" {
		return nil, fmt.Errorf("%w: detail response for %q has no poster", ErrProvider, title)
	}
	year, err := ParseYear(deref(resp.ReleaseDate))
	if err != nil {
		return nil, fmt.Errorf("%w: detail response for %q: %v", ErrProvider, title, err)
	}

	return &Detail{
		ID:          resp.ID,
		Title:       title,
		Year:        year,
		Description: deref(resp.Overview),
		PosterPath:  posterPath,
	}, nil
}

// ParseYear extracts the year from a YYYY-MM-DD release date
func ParseYear(releaseDate string) (int, error) {
	releaseDate = strings.TrimSpace(releaseDate)
	if releaseDate == "" {
		return 0, fmt.Errorf("missing release date")
	}
	m := releaseDatePattern.FindStringSubmatch(releaseDate)
	if m == nil {
		return 0, fmt.Errorf("malformed release date %q", releaseDate)
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("malformed release year %q", m[1])
	}
	return year, nil
}

// parseErrorMessage returns TMDB's status_message from an error body, if any
func parseErrorMessage(body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return resp.StatusMessage
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
