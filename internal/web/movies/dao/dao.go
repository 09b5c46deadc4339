// Package dao contains the record store and job store used by the movies service.
package dao

import (
	"context"
	"time"

	"github.com/Laisky/movie-analytics/internal/web/movies/model"
)

// WriteFailure is a document of a bulk insert that was not stored.
type WriteFailure struct {
	// Index is the position of the document in the submitted batch
	Index  int
	Reason string
}

// Store is the record store holding the movies and credits collections.
//
// Every Find method returns documents in insertion order, which is what
// first-match title lookups rely on.
type Store interface {
	// InsertMovie stores one movie and sets its MongoID.
	InsertMovie(ctx context.Context, movie *model.Movie) error
	// InsertMovies stores movies independently of each other.
	// Documents that could not be written are reported in failures,
	// err is only set when the whole batch failed.
	InsertMovies(ctx context.Context, movies []*model.Movie) (failures []WriteFailure, err error)
	// InsertCredits behaves like InsertMovies.
	InsertCredits(ctx context.Context, credits []*model.Credit) (failures []WriteFailure, err error)

	FindMoviesByTitle(ctx context.Context, title string) ([]*model.Movie, error)
	FindMoviesByTitles(ctx context.Context, titles []string) ([]*model.Movie, error)
	FindMoviesByIDs(ctx context.Context, ids []int64) ([]*model.Movie, error)
	// FindKeywordsExceptTitle loads title and keywords of every movie not titled title.
	FindKeywordsExceptTitle(ctx context.Context, title string) ([]*model.Movie, error)
	// DistinctCompaniesReleasedBetween lists production company names of movies
	// released in [start, end).
	DistinctCompaniesReleasedBetween(ctx context.Context, start, end time.Time) ([]string, error)
	// FindFinancialsByCompany loads budget, revenue and production companies of
	// every movie co-produced by company.
	FindFinancialsByCompany(ctx context.Context, company string) ([]*model.Movie, error)

	FindCreditsByTitle(ctx context.Context, title string) ([]*model.Credit, error)
	// FindCreditsByCastName loads every credit whose cast lists name.
	FindCreditsByCastName(ctx context.Context, name string) ([]*model.Credit, error)

	// EnsureIndexes creates the lookup indexes, it is idempotent.
	EnsureIndexes(ctx context.Context) error
}
