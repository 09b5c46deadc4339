package service

import (
	"context"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/google/uuid"

	"github.com/Laisky/movie-analytics/internal/web/movies/dto"
	"github.com/Laisky/movie-analytics/internal/web/movies/model"
	"github.com/Laisky/movie-analytics/library/csvrows"
)

const jobSaveTimeout = 10 * time.Second

type loadFunc func(ctx context.Context, rows []csvrows.Row, progress progressFunc) (*dto.IngestResult, error)

// StartMovieLoad registers a job loading the movies file at path and
// returns it right away, the load itself runs in the background.
// The outcome is only visible through GetJob.
func (s *Service) StartMovieLoad(ctx context.Context, path string) (*model.Job, error) {
	return s.startLoad(ctx, model.JobKindMovies, path, s.ingestMovies)
}

// StartCreditLoad is StartMovieLoad for the credits file.
func (s *Service) StartCreditLoad(ctx context.Context, path string) (*model.Job, error) {
	return s.startLoad(ctx, model.JobKindCredits, path, s.ingestCredits)
}

// GetJob returns the latest snapshot of a bulk load.
func (s *Service) GetJob(ctx context.Context, id string) (*model.Job, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.Wrap(model.ErrInvalidArgument, "empty job id")
	}

	job, err := s.jobs.LoadJob(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "load job")
	}

	return job, nil
}

func (s *Service) startLoad(ctx context.Context, kind model.JobKind, path string, run loadFunc) (*model.Job, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.Wrap(model.ErrInvalidArgument, "empty file path")
	}

	now := s.clock()
	job := &model.Job{
		ID:        uuid.NewString(),
		Kind:      kind,
		File:      path,
		Status:    model.JobStatusReceived,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.jobs.SaveJob(ctx, job); err != nil {
		return nil, errors.Wrap(err, "save job")
	}

	ack := job.Clone()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoad(job, run)
	}()

	return ack, nil
}

// runLoad owns job until it finishes.
func (s *Service) runLoad(job *model.Job, run loadFunc) {
	logger := s.logger.Named("load").With(
		zap.String("job", job.ID),
		zap.String("kind", string(job.Kind)),
		zap.String("file", job.File),
	)
	logger.Info("bulk load started")

	job.Status = model.JobStatusRunning
	s.saveJob(logger, job)

	rows, err := csvrows.ReadFile(job.File)
	if err != nil {
		s.finishJob(logger, job, nil, errors.Wrap(err, "read file"))
		return
	}

	job.Rows = len(rows)
	s.saveJob(logger, job)

	result, err := run(s.ctx, rows, func(r *dto.IngestResult) {
		s.applyResult(job, r)
		s.saveJob(logger, job)
	})
	s.finishJob(logger, job, result, err)
}

func (s *Service) applyResult(job *model.Job, r *dto.IngestResult) {
	job.Created = r.Created
	job.Failed = len(r.Failures)
	n := min(len(r.Failures), s.maxJobFailures)
	job.Failures = append(job.Failures[:0], r.Failures[:n]...)
}

func (s *Service) finishJob(logger logSDK.Logger, job *model.Job, result *dto.IngestResult, err error) {
	if result != nil {
		s.applyResult(job, result)
	}

	now := s.clock()
	job.FinishedAt = &now
	if err != nil {
		job.Status = model.JobStatusFailed
		job.Error = err.Error()
		logger.Error("bulk load failed", zap.Error(err))
	} else {
		job.Status = model.JobStatusDone
		logger.Info("bulk load done",
			zap.Int("rows", job.Rows),
			zap.Int("created", job.Created),
			zap.Int("failed", job.Failed))
	}

	s.saveJob(logger, job)
}

// saveJob persists a snapshot, it still runs after Close so that the final
// status of a canceled load is recorded.
func (s *Service) saveJob(logger logSDK.Logger, job *model.Job) {
	job.UpdatedAt = s.clock()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), jobSaveTimeout)
	defer cancel()
	if err := s.jobs.SaveJob(ctx, job); err != nil {
		logger.Error("save job snapshot", zap.Error(err))
	}
}
