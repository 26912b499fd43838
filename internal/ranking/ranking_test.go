package ranking

import (
	"context"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/user/top-movies-go/internal/model"
	"github.com/user/top-movies-go/internal/store"
)

func moviesWithRatings(ratings ...float64) []*model.Movie {
	movies := make([]*model.Movie, len(ratings))
	for i, r := range ratings {
		movies[i] = &model.Movie{ID: uint(i + 1), Title: string(rune('A' + i)), Rating: r}
	}
	return movies
}

func TestAssign(t *testing.T) {
	tests := []struct {
		name      string
		ratings   []float64
		wantOrder []uint // movie IDs in ranked order
	}{
		{"empty", nil, []uint{}},
		{"single", []float64{5}, []uint{1}},
		{"three ratings", []float64{9.0, 7.5, 8.2}, []uint{1, 3, 2}},
		{"already sorted", []float64{9, 8, 7}, []uint{1, 2, 3}},
		{"ties keep input order", []float64{5, 8, 5, 8}, []uint{2, 4, 1, 3}},
		{"all zero", []float64{0, 0, 0}, []uint{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := Assign(moviesWithRatings(tt.ratings...))
			if len(ranked) != len(tt.wantOrder) {
				t.Fatalf("Assign() len = %d, want %d", len(ranked), len(tt.wantOrder))
			}
			for i, m := range ranked {
				if m.ID != tt.wantOrder[i] {
					t.Errorf("ranked[%d].ID = %d, want %d", i, m.ID, tt.wantOrder[i])
				}
				if m.Ranking != i+1 {
					t.Errorf("ranked[%d].Ranking = %d, want %d", i, m.Ranking, i+1)
				}
			}
		})
	}
}

func TestAssign_DoesNotReorderInput(t *testing.T) {
	movies := moviesWithRatings(1, 2, 3)
	Assign(movies)

	for i, m := range movies {
		if m.ID != uint(i+1) {
			t.Errorf("movies[%d].ID = %d, want %d", i, m.ID, i+1)
		}
	}
	// rankings are written through the shared pointers
	if movies[2].Ranking != 1 {
		t.Errorf("movies[2].Ranking = %d, want 1", movies[2].Ranking)
	}
}

// Property: Dense Ranking
// For any list of ratings, rankings SHALL be exactly 1..n and a better
// ranking SHALL never carry a lower rating.
func TestProperty_DenseRanking(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("rankings are a permutation of 1..n ordered by rating", prop.ForAll(
		func(ratings []float64) bool {
			ranked := Assign(moviesWithRatings(ratings...))
			if len(ranked) != len(ratings) {
				return false
			}

			seen := make(map[int]bool, len(ranked))
			for i, m := range ranked {
				if m.Ranking < 1 || m.Ranking > len(ranked) || seen[m.Ranking] {
					return false
				}
				seen[m.Ranking] = true
				if i > 0 && ranked[i-1].Rating < m.Rating {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 10)),
	))

	properties.TestingRun(t)
}

type fakeStore struct {
	store.Store
	movies  []*model.Movie
	listErr error
	saveErr error
	saved   map[uint]int
}

func (f *fakeStore) ListMovies(ctx context.Context) ([]*model.Movie, error) {
	return f.movies, f.listErr
}

func (f *fakeStore) SaveRankings(ctx context.Context, movies []*model.Movie) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = make(map[uint]int, len(movies))
	for _, m := range movies {
		f.saved[m.ID] = m.Ranking
	}
	return nil
}

func TestRecompute(t *testing.T) {
	fs := &fakeStore{movies: moviesWithRatings(9.0, 7.5, 8.2)}

	ranked, err := Recompute(context.Background(), fs)
	if err != nil {
		t.Fatalf("Recompute() error = %v", err)
	}

	want := map[uint]int{1: 1, 3: 2, 2: 3}
	for id, rank := range want {
		if fs.saved[id] != rank {
			t.Errorf("saved ranking for movie %d = %d, want %d", id, fs.saved[id], rank)
		}
	}
	if ranked[0].Rating != 9.0 || ranked[2].Rating != 7.5 {
		t.Errorf("Recompute() order = %v, %v, %v", ranked[0].Rating, ranked[1].Rating, ranked[2].Rating)
	}
}

func TestRecompute_Errors(t *testing.T) {
	listErr := errors.New("list failed")
	if _, err := Recompute(context.Background(), &fakeStore{listErr: listErr}); !errors.Is(err, listErr) {
		t.Errorf("Recompute() error = %v, want %v", err, listErr)
	}

	saveErr := errors.New("save failed")
	fs := &fakeStore{movies: moviesWithRatings(1), saveErr: saveErr}
	if _, err := Recompute(context.Background(), fs); !errors.Is(err, saveErr) {
		t.Errorf("Recompute() error = %v, want %v", err, saveErr)
	}
}
