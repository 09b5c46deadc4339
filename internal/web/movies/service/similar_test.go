package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/movie-analytics/internal/web/movies/dao"
	"github.com/Laisky/movie-analytics/internal/web/movies/dto"
	"github.com/Laisky/movie-analytics/internal/web/movies/model"
)

var (
	k1 = model.Tag{ID: 1, Name: "K1"}
	k2 = model.Tag{ID: 2, Name: "K2"}
	k3 = model.Tag{ID: 3, Name: "K3"}
	k4 = model.Tag{ID: 4, Name: "K4"}
	k5 = model.Tag{ID: 5, Name: "K5"}
)

func seedKeywordMovies(t *testing.T, store dao.Store) {
	t.Helper()
	seedMovies(t, store,
		&model.Movie{ID: 1, Title: "Avatar", Keywords: []model.Tag{k1, k2, k3}},
		&model.Movie{ID: 2, Title: "Titanic", Keywords: []model.Tag{k2, k3, k4}},
		&model.Movie{ID: 3, Title: "Up", Keywords: []model.Tag{k5}},
	)
}

func TestSimilarMovies(t *testing.T) {
	store := dao.NewMemory()
	seedKeywordMovies(t, store)
	svc := newTestService(t, store)

	got, err := svc.SimilarMovies(context.Background(), "Avatar", 2)
	require.NoError(t, err)
	require.Equal(t, []dto.KeywordBucket{
		{MatchedKeywordCount: 2, MovieNames: []string{"Titanic"}},
		{MatchedKeywordCount: 0, MovieNames: []string{"Up"}},
	}, got)
}

func TestSimilarMoviesLimitBoundsBuckets(t *testing.T) {
	store := dao.NewMemory()
	seedKeywordMovies(t, store)
	seedMovies(t, store,
		&model.Movie{ID: 4, Title: "Heat", Keywords: []model.Tag{k4}},
		&model.Movie{ID: 5, Title: "Alien", Keywords: []model.Tag{k1}},
	)
	svc := newTestService(t, store)

	got, err := svc.SimilarMovies(context.Background(), "Avatar", 1)
	require.NoError(t, err)
	require.Equal(t, []dto.KeywordBucket{{MatchedKeywordCount: 2, MovieNames: []string{"Titanic"}}}, got)

	got, err = svc.SimilarMovies(context.Background(), "Avatar", 10)
	require.NoError(t, err)
	require.Equal(t, []dto.KeywordBucket{
		{MatchedKeywordCount: 2, MovieNames: []string{"Titanic"}},
		{MatchedKeywordCount: 1, MovieNames: []string{"Alien"}},
		{MatchedKeywordCount: 0, MovieNames: []string{"Up", "Heat"}},
	}, got)
}

func TestSimilarMoviesBucketLaw(t *testing.T) {
	store := dao.NewMemory()
	seedKeywordMovies(t, store)
	svc := newTestService(t, store)

	got, err := svc.SimilarMovies(context.Background(), "Titanic", 100)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, b := range got {
		for _, name := range b.MovieNames {
			seen[name]++
		}
	}
	require.Equal(t, map[string]int{"Avatar": 1, "Up": 1}, seen, "self excluded, every other movie in one bucket")
}

func TestSimilarMoviesErrors(t *testing.T) {
	store := dao.NewMemory()
	seedKeywordMovies(t, store)
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.SimilarMovies(ctx, "Avatar", 0)
	require.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = svc.SimilarMovies(ctx, "", 1)
	require.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = svc.SimilarMovies(ctx, "Nope", 1)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestSharedKeywordsSymmetric(t *testing.T) {
	sets := [][]model.Tag{
		{k1, k2, k3},
		{k2, k3, k4},
		{k5},
		{},
		{k2, k2, k3},
		{{ID: 2, Name: "other name"}, k3},
	}

	for _, a := range sets {
		for _, b := range sets {
			require.Equal(t, sharedKeywords(a, b), sharedKeywords(b, a), "%v %v", a, b)
		}
	}

	require.Equal(t, 2, sharedKeywords([]model.Tag{k1, k2, k3}, []model.Tag{k2, k2, k3}), "duplicates count once")
	require.Equal(t, 1, sharedKeywords([]model.Tag{k2, k3}, []model.Tag{{ID: 2, Name: "other name"}, k3}), "identity is id and name")
}
