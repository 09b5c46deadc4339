package service

import (
	"context"
	"testing"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"

	"github.com/Laisky/movie-analytics/internal/web/movies/dao"
	"github.com/Laisky/movie-analytics/internal/web/movies/model"
)

func newTestService(t *testing.T, store dao.Store, opts ...Option) *Service {
	t.Helper()

	svc, err := New(store, dao.NewMemoryJobs(), opts...)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

func tags(names ...string) []model.Tag {
	out := make([]model.Tag, 0, len(names))
	for i, n := range names {
		out = append(out, model.Tag{ID: int64(i + 1), Name: n})
	}
	return out
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func seedMovies(t *testing.T, store dao.Store, movies ...*model.Movie) {
	t.Helper()
	failures, err := store.InsertMovies(context.Background(), movies)
	require.NoError(t, err)
	require.Empty(t, failures)
}

func seedCredits(t *testing.T, store dao.Store, credits ...*model.Credit) {
	t.Helper()
	failures, err := store.InsertCredits(context.Background(), credits)
	require.NoError(t, err)
	require.Empty(t, failures)
}

func cast(names ...string) []model.CastMember {
	out := make([]model.CastMember, 0, len(names))
	for i, n := range names {
		out = append(out, model.CastMember{Name: n, Order: i})
	}
	return out
}

// flakyStore fails selected lookups on top of the in-memory store.
type flakyStore struct {
	*dao.Memory
	failActor   string
	failCompany string
	failWrites  bool
	rejectIndex int
}

var errStoreDown = errors.New("store down")

func (f *flakyStore) FindCreditsByCastName(ctx context.Context, name string) ([]*model.Credit, error) {
	if name == f.failActor {
		return nil, model.NewStoreError("find credits by cast", errStoreDown)
	}
	return f.Memory.FindCreditsByCastName(ctx, name)
}

func (f *flakyStore) FindFinancialsByCompany(ctx context.Context, company string) ([]*model.Movie, error) {
	if company == f.failCompany {
		return nil, model.NewStoreError("find movies by company", errStoreDown)
	}
	return f.Memory.FindFinancialsByCompany(ctx, company)
}

func (f *flakyStore) InsertMovies(ctx context.Context, movies []*model.Movie) ([]dao.WriteFailure, error) {
	if f.failWrites {
		return nil, model.NewStoreError("insert movies", errStoreDown)
	}
	if f.rejectIndex >= 0 && f.rejectIndex < len(movies) {
		kept := make([]*model.Movie, 0, len(movies))
		for i, m := range movies {
			if i != f.rejectIndex {
				kept = append(kept, m)
			}
		}
		if _, err := f.Memory.InsertMovies(ctx, kept); err != nil {
			return nil, err
		}
		return []dao.WriteFailure{{Index: f.rejectIndex, Reason: "duplicate key"}}, nil
	}
	return f.Memory.InsertMovies(ctx, movies)
}

func newFlakyStore() *flakyStore {
	return &flakyStore{Memory: dao.NewMemory(), rejectIndex: -1}
}
