package store

import (
	"context"
	"errors"

	"github.com/user/top-movies-go/internal/model"
)

// ErrDuplicateTitle is returned when a movie with the same title is already stored
var ErrDuplicateTitle = errors.New("movie title already exists")

// MovieUpdate carries the user-editable fields of a movie.
// Nil fields are left unchanged.
type MovieUpdate struct {
	Rating *float64
	Review *string
}

// Empty reports whether the update carries no fields
func (u MovieUpdate) Empty() bool {
	return u.Rating == nil && u.Review == nil
}

// Store defines the interface for data persistence operations
type Store interface {
	// Movie operations
	ListMovies(ctx context.Context) ([]*model.Movie, error)
	GetMovie(ctx context.Context, id uint) (*model.Movie, error)
	InsertMovie(ctx context.Context, movie *model.Movie) error
	UpdateMovie(ctx context.Context, id uint, update MovieUpdate) error
	DeleteMovie(ctx context.Context, id uint) error
	SaveRankings(ctx context.Context, movies []*model.Movie) error
	CountMovies(ctx context.Context) (int64, error)

	// Health check
	Ping(ctx context.Context) error
	Close() error
}
