package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/user/top-movies-go/internal/config"
	"github.com/user/top-movies-go/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore implements Store interface on top of gorm
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the configured database, sizes the pool and migrates the schema
func NewGormStore(cfg *config.DBConfig) (*GormStore, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	maxConns := cfg.MaxConns
	if cfg.Driver == config.DriverSQLite {
		// sqlite serialises writers; a single connection avoids SQLITE_BUSY
		maxConns = 1
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(max(maxConns/2, 1))
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&model.Movie{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &GormStore{db: db}, nil
}

func dialectorFor(cfg *config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return sqlite.Open(cfg.DSN()), nil
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
}

// ListMovies retrieves every stored movie in no particular order
func (s *GormStore) ListMovies(ctx context.Context) ([]*model.Movie, error) {
	var movies []*model.Movie
	result := s.db.WithContext(ctx).Find(&movies)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list movies: %w", result.Error)
	}
	return movies, nil
}

// GetMovie retrieves a movie by its id.
// Returns nil, nil when the movie does not exist.
func (s *GormStore) GetMovie(ctx context.Context, id uint) (*model.Movie, error) {
	var movie model.Movie
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&movie)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get movie: %w", result.Error)
	}
	return &movie, nil
}

// InsertMovie stores a new movie.
// Returns ErrDuplicateTitle if a movie with the same title exists.
func (s *GormStore) InsertMovie(ctx context.Context, movie *model.Movie) error {
	if err := s.db.WithContext(ctx).Create(movie).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("failed to insert movie %q: %w", movie.Title, ErrDuplicateTitle)
		}
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	return nil
}

// UpdateMovie writes the non-nil fields of update to the movie with the given id
func (s *GormStore) UpdateMovie(ctx context.Context, id uint, update MovieUpdate) error {
	if update.Empty() {
		return nil
	}

	fields := make(map[string]interface{}, 2)
	if update.Rating != nil {
		fields["rating"] = *update.Rating
	}
	if update.Review != nil {
		fields["review"] = *update.Review
	}

	result := s.db.WithContext(ctx).
		Model(&model.Movie{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update movie: %w", result.Error)
	}
	return nil
}

// DeleteMovie removes the movie with the given id; a missing id is not an error
func (s *GormStore) DeleteMovie(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Movie{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete movie: %w", result.Error)
	}
	return nil
}

// SaveRankings persists the ranking column of every given movie in one transaction
func (s *GormStore) SaveRankings(ctx context.Context, movies []*model.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range movies {
			result := tx.Model(&model.Movie{}).
				Where("id = ?", m.ID).
				UpdateColumn("ranking", m.Ranking)
			if result.Error != nil {
				return result.Error
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save rankings: %w", err)
	}
	return nil
}

// CountMovies returns the total count of movies
func (s *GormStore) CountMovies(ctx context.Context) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&model.Movie{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count movies: %w", result.Error)
	}
	return count, nil
}

// Ping checks database connectivity
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.Close()
}

// DB returns the underlying gorm.DB instance (for testing purposes)
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// isDuplicateKey reports whether err is a unique constraint violation.
// Dialectors that do not translate errors are matched on their message.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}
