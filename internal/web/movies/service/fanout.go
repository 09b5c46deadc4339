package service

import (
	"context"

	"github.com/Laisky/errors/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Laisky/movie-analytics/internal/web/movies/model"
)

// pickByTitle resolves a title lookup to one document.
// Several matches resolve to the first one unless strict is set.
func pickByTitle[T any](docs []T, title string, strict bool) (T, error) {
	var zero T
	switch {
	case len(docs) == 0:
		return zero, errors.Wrapf(model.ErrNotFound, "title %q", title)
	case len(docs) > 1 && strict:
		return zero, errors.Wrapf(model.ErrAmbiguousTitle, "title %q matches %d documents", title, len(docs))
	}

	return docs[0], nil
}

// fanOut runs fn once per key with at most s.concurrency calls in flight.
// fn must only write the result slot of its own index.
// The first failure cancels the remaining calls and is returned as a
// *model.AggregationError.
func (s *Service) fanOut(ctx context.Context, keys []string, fn func(ctx context.Context, i int, key string) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, key := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return &model.AggregationError{Key: key, Err: err}
			}
			if err := fn(gctx, i, key); err != nil {
				return &model.AggregationError{Key: key, Err: err}
			}

			return nil
		})
	}

	return g.Wait()
}
