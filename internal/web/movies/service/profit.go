package service

import (
	"context"
	"sort"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/movie-analytics/internal/web/movies/model"
)

// ProfitWindow is the release window attributed to year: from February 1st
// of year to February 1st of the next year, UTC.
func ProfitWindow(year int) (start, end time.Time) {
	start = time.Date(year, time.February, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

// ProductionCompanyProfit computes the profit of every production company
// that co-produced a movie released in the window of year.
//
// A company's profit covers all of its movies, not only those of the window.
// Each movie's revenue and budget are split evenly between its companies.
func (s *Service) ProductionCompanyProfit(ctx context.Context, year int) (map[string]float64, error) {
	if year < 1 || year > 9998 {
		return nil, errors.Wrapf(model.ErrInvalidArgument, "year out of range: %d", year)
	}

	start, end := ProfitWindow(year)
	companies, err := s.store.DistinctCompaniesReleasedBetween(ctx, start, end)
	if err != nil {
		return nil, errors.Wrap(err, "find companies")
	}
	sort.Strings(companies)

	profits := make([]float64, len(companies))
	err = s.fanOut(ctx, companies, func(ctx context.Context, i int, company string) error {
		movies, err := s.store.FindFinancialsByCompany(ctx, company)
		if err != nil {
			return errors.Wrap(err, "find movies by company")
		}

		profits[i] = companyProfit(movies)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "production company profit")
	}

	result := make(map[string]float64, len(companies))
	for i, company := range companies {
		result[company] = profits[i]
	}

	s.logger.Debug("production company profit",
		zap.Int("year", year),
		zap.Int("companies", len(result)))
	return result, nil
}

// distribute is the share of a movie's revenue and budget attributed to each
// of its production companies.
func distribute(m *model.Movie) (revenue, budget float64) {
	n := len(m.ProductionCompanies)
	if n == 0 {
		return 0, 0
	}

	return float64(m.Revenue) / float64(n), float64(m.Budget) / float64(n)
}

// companyProfit sums the distributed revenue minus the distributed budget.
func companyProfit(movies []*model.Movie) float64 {
	var revenue, budget float64
	for _, m := range movies {
		r, b := distribute(m)
		revenue += r
		budget += b
	}

	return revenue - budget
}
