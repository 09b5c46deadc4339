package dao

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/movie-analytics/internal/web/movies/model"
)

// Memory is an in-process Store used by dry runs and tests.
// Returned documents are shared with the store and must not be modified.
type Memory struct {
	mu      sync.RWMutex
	movies  []*model.Movie
	credits []*model.Credit
}

// NewMemory create new in-memory store
func NewMemory() *Memory {
	return &Memory{}
}

// InsertMovie implements Store.
func (d *Memory) InsertMovie(ctx context.Context, movie *model.Movie) error {
	if err := ctx.Err(); err != nil {
		return model.NewStoreError("insert movie", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	movie.MongoID = primitive.NewObjectID()
	d.movies = append(d.movies, movie)
	return nil
}

// InsertMovies implements Store.
func (d *Memory) InsertMovies(ctx context.Context, movies []*model.Movie) ([]WriteFailure, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.NewStoreError("insert movies", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, m := range movies {
		m.MongoID = primitive.NewObjectID()
		d.movies = append(d.movies, m)
	}

	return nil, nil
}

// InsertCredits implements Store.
func (d *Memory) InsertCredits(ctx context.Context, credits []*model.Credit) ([]WriteFailure, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.NewStoreError("insert credits", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range credits {
		c.MongoID = primitive.NewObjectID()
		d.credits = append(d.credits, c)
	}

	return nil, nil
}

// FindMoviesByTitle implements Store.
func (d *Memory) FindMoviesByTitle(ctx context.Context, title string) ([]*model.Movie, error) {
	return d.filterMovies(ctx, func(m *model.Movie) bool { return m.Title == title })
}

// FindMoviesByTitles implements Store.
func (d *Memory) FindMoviesByTitles(ctx context.Context, titles []string) ([]*model.Movie, error) {
	set := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		set[t] = struct{}{}
	}

	return d.filterMovies(ctx, func(m *model.Movie) bool {
		_, ok := set[m.Title]
		return ok
	})
}

// FindMoviesByIDs implements Store.
func (d *Memory) FindMoviesByIDs(ctx context.Context, ids []int64) ([]*model.Movie, error) {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return d.filterMovies(ctx, func(m *model.Movie) bool {
		_, ok := set[m.ID]
		return ok
	})
}

// FindKeywordsExceptTitle implements Store.
func (d *Memory) FindKeywordsExceptTitle(ctx context.Context, title string) ([]*model.Movie, error) {
	return d.filterMovies(ctx, func(m *model.Movie) bool { return m.Title != title })
}

// DistinctCompaniesReleasedBetween implements Store.
func (d *Memory) DistinctCompaniesReleasedBetween(ctx context.Context, start, end time.Time) ([]string, error) {
	movies, err := d.filterMovies(ctx, func(m *model.Movie) bool { return m.ReleasedBetween(start, end) })
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var names []string
	for _, m := range movies {
		for _, c := range m.ProductionCompanies {
			if _, ok := seen[c.Name]; ok {
				continue
			}
			seen[c.Name] = struct{}{}
			names = append(names, c.Name)
		}
	}

	return names, nil
}

// FindFinancialsByCompany implements Store.
func (d *Memory) FindFinancialsByCompany(ctx context.Context, company string) ([]*model.Movie, error) {
	return d.filterMovies(ctx, func(m *model.Movie) bool { return m.HasCompany(company) })
}

// FindCreditsByTitle implements Store.
func (d *Memory) FindCreditsByTitle(ctx context.Context, title string) ([]*model.Credit, error) {
	return d.filterCredits(ctx, func(c *model.Credit) bool { return c.Title == title })
}

// FindCreditsByCastName implements Store.
func (d *Memory) FindCreditsByCastName(ctx context.Context, name string) ([]*model.Credit, error) {
	return d.filterCredits(ctx, func(c *model.Credit) bool { return c.HasActor(name) })
}

// EnsureIndexes implements Store.
func (d *Memory) EnsureIndexes(context.Context) error {
	return nil
}

func (d *Memory) filterMovies(ctx context.Context, keep func(*model.Movie) bool) ([]*model.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.NewStoreError("find movies", err)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	out := []*model.Movie{}
	for _, m := range d.movies {
		if keep(m) {
			out = append(out, m)
		}
	}

	return out, nil
}

func (d *Memory) filterCredits(ctx context.Context, keep func(*model.Credit) bool) ([]*model.Credit, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.NewStoreError("find credits", err)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	out := []*model.Credit{}
	for _, c := range d.credits {
		if keep(c) {
			out = append(out, c)
		}
	}

	return out, nil
}
