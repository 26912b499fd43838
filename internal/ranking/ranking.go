// Package ranking orders the catalogue by rating and assigns each movie its
// 1-based position.
package ranking

import (
	"context"
	"fmt"
	"sort"

	"github.com/user/top-movies-go/internal/model"
	"github.com/user/top-movies-go/internal/store"
)

// Assign returns movies sorted by rating descending with Ranking set to the
// 1-based position. Ties keep their input order. The input slice is not reordered.
func Assign(movies []*model.Movie) []*model.Movie {
	ranked := make([]*model.Movie, len(movies))
	copy(ranked, movies)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rating > ranked[j].Rating
	})

	for i, m := range ranked {
		m.Ranking = i + 1
	}
	return ranked
}

// Recompute loads every movie, assigns fresh rankings and persists them.
// The ranked slice is returned for rendering.
func Recompute(ctx context.Context, s store.Store) ([]*model.Movie, error) {
	movies, err := s.ListMovies(ctx)
	if err != nil {
		return nil, err
	}

	ranked := Assign(movies)
	if err := s.SaveRankings(ctx, ranked); err != nil {
		return nil, fmt.Errorf("failed to persist rankings: %w", err)
	}
	return ranked, nil
}
