// Package service implements ingestion and the analytical queries over movies and credits.
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/go-playground/validator/v10"

	"github.com/Laisky/movie-analytics/internal/web/movies/dao"
	"github.com/Laisky/movie-analytics/library/log"
)

// Title match modes, see WithTitleMatch.
const (
	// TitleMatchFirst resolves an ambiguous title to the first stored document.
	TitleMatchFirst = "first"
	// TitleMatchStrict rejects an ambiguous title with model.ErrAmbiguousTitle.
	TitleMatchStrict = "strict"
)

const (
	defaultBatchSize      = 500
	defaultConcurrency    = 8
	defaultMaxJobFailures = 100
)

// Service answers the movie queries and runs ingestion.
type Service struct {
	store  dao.Store
	jobs   dao.JobStore
	logger logSDK.Logger
	clock  func() time.Time

	validate       *validator.Validate
	batchSize      int
	concurrency    int
	maxJobFailures int
	strictTitles   bool

	// bulk loads run under ctx so that Close can stop them
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets the logger, the default is a child of the process logger.
func WithLogger(logger logSDK.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			return errors.New("nil logger")
		}

		s.logger = logger
		return nil
	}
}

// WithBatchSize sets how many documents a bulk insert writes at once.
func WithBatchSize(n int) Option {
	return func(s *Service) error {
		if n < 1 {
			return errors.Errorf("batch size must be >= 1, got %d", n)
		}

		s.batchSize = n
		return nil
	}
}

// WithConcurrency bounds how many fan-out branches of one query run at once.
func WithConcurrency(n int) Option {
	return func(s *Service) error {
		if n < 1 {
			return errors.Errorf("concurrency must be >= 1, got %d", n)
		}

		s.concurrency = n
		return nil
	}
}

// WithMaxJobFailures bounds how many skipped rows a job snapshot lists.
func WithMaxJobFailures(n int) Option {
	return func(s *Service) error {
		if n < 0 {
			return errors.Errorf("max job failures must be >= 0, got %d", n)
		}

		s.maxJobFailures = n
		return nil
	}
}

// WithTitleMatch sets how title lookups treat several matching documents,
// TitleMatchFirst or TitleMatchStrict.
func WithTitleMatch(mode string) Option {
	return func(s *Service) error {
		switch strings.ToLower(strings.TrimSpace(mode)) {
		case TitleMatchFirst:
			s.strictTitles = false
		case TitleMatchStrict:
			s.strictTitles = true
		default:
			return errors.Errorf("unknown title match mode %q", mode)
		}

		return nil
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) error {
		s.clock = clock
		return nil
	}
}

// New create new service
func New(store dao.Store, jobs dao.JobStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("nil store")
	}
	if jobs == nil {
		return nil, errors.New("nil job store")
	}

	s := &Service{
		store:          store,
		jobs:           jobs,
		logger:         log.Logger.Named("movies"),
		clock:          time.Now,
		validate:       validator.New(),
		batchSize:      defaultBatchSize,
		concurrency:    defaultConcurrency,
		maxJobFailures: defaultMaxJobFailures,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, errors.Wrap(err, "apply option")
		}
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s, nil
}

// Close cancels running bulk loads and waits for them to record their final status.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}
