package dao

import (
	"context"
	"sync"
	"time"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/movie-analytics/internal/web/movies/model"
	"github.com/Laisky/movie-analytics/library/db/redis"
)

// JobStore persists snapshots of bulk load jobs.
type JobStore interface {
	SaveJob(ctx context.Context, job *model.Job) error
	// LoadJob returns model.ErrJobNotFound for unknown ids.
	LoadJob(ctx context.Context, id string) (*model.Job, error)
}

// MemoryJobs keeps job snapshots in process.
type MemoryJobs struct {
	mu   sync.RWMutex
	jobs map[string]*model.Job
}

// NewMemoryJobs create new in-memory job store
func NewMemoryJobs() *MemoryJobs {
	return &MemoryJobs{jobs: map[string]*model.Job{}}
}

// SaveJob implements JobStore.
func (d *MemoryJobs) SaveJob(_ context.Context, job *model.Job) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs[job.ID] = job.Clone()
	return nil
}

// LoadJob implements JobStore.
func (d *MemoryJobs) LoadJob(_ context.Context, id string) (*model.Job, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	job, ok := d.jobs[id]
	if !ok {
		return nil, errors.Wrap(model.ErrJobNotFound, id)
	}

	return job.Clone(), nil
}

// RedisJobs keeps job snapshots in redis so that every api replica can report them.
type RedisJobs struct {
	db  *redis.DB
	ttl time.Duration
}

// NewRedisJobs create new redis job store, snapshots expire after ttl
func NewRedisJobs(db *redis.DB, ttl time.Duration) *RedisJobs {
	return &RedisJobs{db: db, ttl: ttl}
}

// SaveJob implements JobStore.
func (d *RedisJobs) SaveJob(ctx context.Context, job *model.Job) error {
	if err := d.db.SetJSON(ctx, redis.KeyPrefixIngestJob+job.ID, job, d.ttl); err != nil {
		return model.NewStoreError("save job", err)
	}

	return nil
}

// LoadJob implements JobStore.
func (d *RedisJobs) LoadJob(ctx context.Context, id string) (*model.Job, error) {
	job := new(model.Job)
	if err := d.db.GetJSON(ctx, redis.KeyPrefixIngestJob+id, job); err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return nil, errors.Wrap(model.ErrJobNotFound, id)
		}
		return nil, model.NewStoreError("load job", err)
	}

	return job, nil
}
