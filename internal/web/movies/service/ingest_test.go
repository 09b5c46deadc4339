package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/movie-analytics/internal/web/movies/dao"
	"github.com/Laisky/movie-analytics/internal/web/movies/model"
	"github.com/Laisky/movie-analytics/library/csvrows"
)

func movieRow(id, title, budget string) csvrows.Row {
	row := avatarRow()
	row["id"] = id
	row["title"] = title
	row["budget"] = budget
	return row
}

func TestIngestMoviesSkipsBadRows(t *testing.T) {
	store := dao.NewMemory()
	svc := newTestService(t, store, WithBatchSize(2))
	ctx := context.Background()

	result, err := svc.IngestMovies(ctx, []csvrows.Row{
		movieRow("1", "Avatar", "100"),
		movieRow("2", "Broken", "a lot"),
		movieRow("3", "Titanic", "200"),
		movieRow("4", "Up", "300"),
	})
	require.NoError(t, err)
	require.Equal(t, 3, result.Created)
	require.Len(t, result.Failures, 1)
	require.Equal(t, 2, result.Failures[0].Row)
	require.Equal(t, "Broken", result.Failures[0].Title)
	require.Contains(t, result.Failures[0].Reason, "budget")

	for _, title := range []string{"Avatar", "Titanic", "Up"} {
		movies, err := store.FindMoviesByTitle(ctx, title)
		require.NoError(t, err)
		require.Len(t, movies, 1, title)
	}
}

func TestIngestMoviesWriteFailures(t *testing.T) {
	store := newFlakyStore()
	store.rejectIndex = 1
	svc := newTestService(t, store, WithBatchSize(10))

	result, err := svc.IngestMovies(context.Background(), []csvrows.Row{
		movieRow("1", "Avatar", "100"),
		movieRow("2", "Avatar", "100"),
		movieRow("3", "Up", "100"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.Created)
	require.Equal(t, []model.RowFailure{{Row: 2, Title: "Avatar", Reason: "duplicate key"}}, result.Failures)
}

func TestIngestMoviesBatchFailureKeepsGoing(t *testing.T) {
	store := newFlakyStore()
	store.failWrites = true
	svc := newTestService(t, store, WithBatchSize(1))

	result, err := svc.IngestMovies(context.Background(), []csvrows.Row{
		movieRow("1", "Avatar", "100"),
		movieRow("2", "Up", "100"),
	})
	require.NoError(t, err)
	require.Zero(t, result.Created)
	require.Len(t, result.Failures, 2)
}

func TestIngestMoviesCanceled(t *testing.T) {
	svc := newTestService(t, dao.NewMemory())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.IngestMovies(ctx, []csvrows.Row{movieRow("1", "Avatar", "100")})
	require.ErrorIs(t, err, context.Canceled)
}

func TestIngestCredits(t *testing.T) {
	store := dao.NewMemory()
	svc := newTestService(t, store)
	ctx := context.Background()

	result, err := svc.IngestCredits(ctx, []csvrows.Row{
		{"movie_id": "1", "title": "Avatar", "cast": `[{"name": "Sam Worthington"}]`, "crew": "[]"},
		{"movie_id": "x", "title": "Broken", "cast": "[]", "crew": "[]"},
		{"movie_id": "3", "title": "Up", "cast": `[{"name": "Ed Asner"}]`, "crew": "[]"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.Created)
	require.Len(t, result.Failures, 1)
	require.Equal(t, 2, result.Failures[0].Row)

	credits, err := store.FindCreditsByCastName(ctx, "Ed Asner")
	require.NoError(t, err)
	require.Len(t, credits, 1)
}

func TestInsertMovie(t *testing.T) {
	store := dao.NewMemory()
	svc := newTestService(t, store)
	ctx := context.Background()

	m, err := svc.InsertMovie(ctx, avatarRow())
	require.NoError(t, err)
	require.False(t, m.MongoID.IsZero())

	stored, err := store.FindMoviesByTitle(ctx, "Avatar")
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestInsertMovieValidation(t *testing.T) {
	svc := newTestService(t, dao.NewMemory())
	ctx := context.Background()

	row := avatarRow()
	row["title"] = ""
	_, err := svc.InsertMovie(ctx, row)
	require.ErrorIs(t, err, model.ErrInvalidArgument)

	row = avatarRow()
	row["budget"] = "-5"
	_, err = svc.InsertMovie(ctx, row)
	require.ErrorIs(t, err, model.ErrInvalidArgument)

	row = avatarRow()
	row["id"] = "abc"
	_, err = svc.InsertMovie(ctx, row)
	var perr *model.ParseError
	require.ErrorAs(t, err, &perr)
}
