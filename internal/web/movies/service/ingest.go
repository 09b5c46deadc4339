package service

import (
	"context"
	"sort"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/movie-analytics/internal/web/movies/dao"
	"github.com/Laisky/movie-analytics/internal/web/movies/dto"
	"github.com/Laisky/movie-analytics/internal/web/movies/model"
	"github.com/Laisky/movie-analytics/library/csvrows"
)

// progressFunc observes the running totals after every written batch.
type progressFunc func(*dto.IngestResult)

// IngestMovies maps and stores rows of the movies file.
// A row that fails to map or to be written is skipped and reported,
// the returned error is only set when ctx is done.
func (s *Service) IngestMovies(ctx context.Context, rows []csvrows.Row) (*dto.IngestResult, error) {
	return s.ingestMovies(ctx, rows, nil)
}

// IngestCredits maps and stores rows of the credits file, see IngestMovies.
func (s *Service) IngestCredits(ctx context.Context, rows []csvrows.Row) (*dto.IngestResult, error) {
	return s.ingestCredits(ctx, rows, nil)
}

func (s *Service) ingestMovies(ctx context.Context, rows []csvrows.Row, progress progressFunc) (*dto.IngestResult, error) {
	return ingestRows(ctx, s, model.JobKindMovies, rows,
		MovieFromRow,
		func(m *model.Movie) string { return m.Title },
		s.store.InsertMovies,
		progress,
	)
}

func (s *Service) ingestCredits(ctx context.Context, rows []csvrows.Row, progress progressFunc) (*dto.IngestResult, error) {
	return ingestRows(ctx, s, model.JobKindCredits, rows,
		CreditFromRow,
		func(c *model.Credit) string { return c.Title },
		s.store.InsertCredits,
		progress,
	)
}

// InsertMovie validates and stores a single movie given in the column
// layout of the movies file.
func (s *Service) InsertMovie(ctx context.Context, row csvrows.Row) (*model.Movie, error) {
	movie, err := MovieFromRow(row)
	if err != nil {
		return nil, errors.Wrap(err, "map movie")
	}

	if err = s.validate.Struct(movie); err != nil {
		return nil, errors.Wrap(model.ErrInvalidArgument, err.Error())
	}

	if err = s.store.InsertMovie(ctx, movie); err != nil {
		return nil, errors.Wrap(err, "insert movie")
	}

	s.logger.Info("movie inserted",
		zap.Int64("id", movie.ID),
		zap.String("title", movie.Title))
	return movie, nil
}

// ingestRows maps every row and writes the mapped documents in batches.
func ingestRows[T any](ctx context.Context, s *Service, kind model.JobKind,
	rows []csvrows.Row,
	mapRow func(csvrows.Row) (*T, error),
	titleOf func(*T) string,
	write func(context.Context, []*T) ([]dao.WriteFailure, error),
	progress progressFunc,
) (*dto.IngestResult, error) {
	logger := s.logger.Named("ingest").With(zap.String("kind", string(kind)))
	result := &dto.IngestResult{Failures: []model.RowFailure{}}

	fail := func(row int, title, reason string) {
		result.Failures = append(result.Failures, model.RowFailure{
			Row:    row,
			Title:  title,
			Reason: reason,
		})
	}

	var (
		batch     = make([]*T, 0, s.batchSize)
		batchRows = make([]int, 0, s.batchSize)
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}

		failures, err := write(ctx, batch)
		switch {
		case err != nil && ctx.Err() != nil:
			return errors.Wrap(err, "write batch")
		case err != nil:
			logger.Error("write batch", zap.Error(err), zap.Int("size", len(batch)))
			for i := range batch {
				fail(batchRows[i], titleOf(batch[i]), err.Error())
			}
		default:
			for _, f := range failures {
				logger.Warn("skip row, write failed",
					zap.Int("row", batchRows[f.Index]),
					zap.String("reason", f.Reason))
				fail(batchRows[f.Index], titleOf(batch[f.Index]), f.Reason)
			}
			result.Created += len(batch) - len(failures)
		}

		batch = make([]*T, 0, s.batchSize)
		batchRows = make([]int, 0, s.batchSize)
		if progress != nil {
			progress(result)
		}

		return nil
	}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, errors.Wrap(err, "ingest canceled")
		}

		doc, err := mapRow(row)
		if err != nil {
			logger.Warn("skip row, parse failed", zap.Int("row", i+1), zap.Error(err))
			fail(i+1, row.Get("title"), err.Error())
			continue
		}

		batch = append(batch, doc)
		batchRows = append(batchRows, i+1)
		if len(batch) >= s.batchSize {
			if err = flush(); err != nil {
				return result, err
			}
		}
	}

	if err := flush(); err != nil {
		return result, err
	}

	sort.SliceStable(result.Failures, func(i, j int) bool {
		return result.Failures[i].Row < result.Failures[j].Row
	})
	logger.Info("ingest done",
		zap.Int("rows", len(rows)),
		zap.Int("created", result.Created),
		zap.Int("failed", len(result.Failures)))
	return result, nil
}
