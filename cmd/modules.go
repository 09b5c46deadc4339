package cmd

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	gutils "github.com/Laisky/go-utils/v6"
	"github.com/Laisky/zap"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Laisky/movie-analytics/internal/web/movies/dao"
	"github.com/Laisky/movie-analytics/internal/web/movies/model"
	"github.com/Laisky/movie-analytics/internal/web/movies/service"
	"github.com/Laisky/movie-analytics/library/db/redis"
	"github.com/Laisky/movie-analytics/library/log"
)

// modules is everything built from the settings, close it on exit.
type modules struct {
	svc     *service.Service
	closers []func(context.Context) error
}

func (m *modules) Close(ctx context.Context) {
	if m.svc != nil {
		m.svc.Close()
	}

	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](ctx); err != nil {
			log.Logger.Error("close module", zap.Error(err))
		}
	}
}

func setupModules(ctx context.Context) (*modules, error) {
	mods := new(modules)
	store, err := setupStore(ctx, mods)
	if err != nil {
		mods.Close(context.WithoutCancel(ctx))
		return nil, errors.Wrap(err, "setup store")
	}

	jobs, err := setupJobStore(ctx, mods)
	if err != nil {
		mods.Close(context.WithoutCancel(ctx))
		return nil, errors.Wrap(err, "setup job store")
	}

	mods.svc, err = service.New(store, jobs,
		service.WithLogger(log.Logger.Named("movies")),
		service.WithClock(gutils.Clock.GetUTCNow),
		service.WithBatchSize(gconfig.Shared.GetInt("settings.ingest.batch_size")),
		service.WithMaxJobFailures(gconfig.Shared.GetInt("settings.ingest.max_failures")),
		service.WithConcurrency(gconfig.Shared.GetInt("settings.analytics.concurrency")),
		service.WithTitleMatch(gconfig.Shared.GetString("settings.analytics.title_match")),
	)
	if err != nil {
		mods.Close(context.WithoutCancel(ctx))
		return nil, errors.Wrap(err, "new movies service")
	}

	return mods, nil
}

func setupStore(ctx context.Context, mods *modules) (dao.Store, error) {
	if gconfig.Shared.GetBool("dry") {
		log.Logger.Info("dry run, keep data in memory")
		return dao.NewMemory(), nil
	}

	db, err := model.NewDB(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "connect movies db")
	}
	mods.closers = append(mods.closers, db.Close)

	store := dao.NewMongo(db)
	if err = store.EnsureIndexes(ctx); err != nil {
		return nil, errors.Wrap(err, "ensure indexes")
	}

	return store, nil
}

func setupJobStore(ctx context.Context, mods *modules) (dao.JobStore, error) {
	addr := gconfig.Shared.GetString("settings.jobs.redis.addr")
	if addr == "" {
		return dao.NewMemoryJobs(), nil
	}

	rdb := redis.NewDB(&goredis.Options{
		Addr:     addr,
		Password: gconfig.Shared.GetString("settings.jobs.redis.pwd"),
		DB:       gconfig.Shared.GetInt("settings.jobs.redis.db"),
	})
	mods.closers = append(mods.closers, func(context.Context) error {
		return rdb.Close()
	})

	if err := rdb.Ping(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	ttl := time.Duration(gconfig.Shared.GetInt("settings.jobs.redis.ttl_seconds")) * time.Second
	log.Logger.Info("store ingest jobs in redis", zap.String("addr", addr), zap.Duration("ttl", ttl))
	return dao.NewRedisJobs(rdb, ttl), nil
}
