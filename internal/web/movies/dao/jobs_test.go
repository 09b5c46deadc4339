package dao

import (
	"context"
	"testing"
	"time"

	"github.com/Laisky/errors/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Laisky/movie-analytics/internal/web/movies/model"
	"github.com/Laisky/movie-analytics/library/db/redis"
)

func TestMemoryJobs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	jobs := NewMemoryJobs()

	job := &model.Job{
		ID:       "job-1",
		Kind:     model.JobKindMovies,
		Status:   model.JobStatusRunning,
		Failures: []model.RowFailure{{Row: 2, Reason: "bad id"}},
	}
	require.NoError(t, jobs.SaveJob(ctx, job))

	// later changes to the caller's job are not visible until saved again
	job.Status = model.JobStatusDone
	job.Failures[0].Reason = "changed"

	got, err := jobs.LoadJob(ctx, "job-1")
	require.NoError(t, err)
	require.Equal(t, model.JobStatusRunning, got.Status)
	require.Equal(t, "bad id", got.Failures[0].Reason)

	got.Status = model.JobStatusFailed
	again, err := jobs.LoadJob(ctx, "job-1")
	require.NoError(t, err)
	require.Equal(t, model.JobStatusRunning, again.Status)

	_, err = jobs.LoadJob(ctx, "missing")
	require.ErrorIs(t, err, model.ErrJobNotFound)
}

func TestRedisJobsUnreachable(t *testing.T) {
	t.Parallel()

	db := redis.NewDB(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = db.Close() })
	jobs := NewRedisJobs(db, time.Minute)

	err := jobs.SaveJob(context.Background(), &model.Job{ID: "job-1"})
	var storeErr *model.StoreError
	require.True(t, errors.As(err, &storeErr))
	require.Equal(t, "save job", storeErr.Op)

	_, err = jobs.LoadJob(context.Background(), "job-1")
	require.Error(t, err)
	require.NotErrorIs(t, err, model.ErrJobNotFound)
}
