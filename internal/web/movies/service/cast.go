package service

import (
	"context"
	"sort"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/movie-analytics/internal/web/movies/dto"
	"github.com/Laisky/movie-analytics/internal/web/movies/model"
)

// CastGenreDistribution counts, for every actor in the cast of the movie
// titled title, the genres of all the movies the actor appears in.
//
// The cast comes from the credit titled title. Actors are computed
// concurrently and any failure fails the whole query.
func (s *Service) CastGenreDistribution(ctx context.Context, title string) ([]dto.ActorGenres, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.Wrap(model.ErrInvalidArgument, "empty movie name")
	}

	credits, err := s.store.FindCreditsByTitle(ctx, title)
	if err != nil {
		return nil, errors.Wrap(err, "find credits")
	}

	credit, err := pickByTitle(credits, title, s.strictTitles)
	if err != nil {
		return nil, errors.Wrap(err, "credit")
	}

	names := castNames(credit.Cast)
	result := make([]dto.ActorGenres, len(names))
	err = s.fanOut(ctx, names, func(ctx context.Context, i int, name string) error {
		genres, err := s.actorGenres(ctx, name)
		if err != nil {
			return err
		}

		result[i] = dto.ActorGenres{ActorName: name, Genres: genres}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "cast genre distribution")
	}

	s.logger.Debug("cast genre distribution",
		zap.String("title", title),
		zap.Int("actors", len(result)))
	return result, nil
}

// actorGenres joins every credit listing name to its movie and counts genres.
func (s *Service) actorGenres(ctx context.Context, name string) ([]dto.GenreCount, error) {
	credits, err := s.store.FindCreditsByCastName(ctx, name)
	if err != nil {
		return nil, errors.Wrap(err, "find credits by cast")
	}

	movies, err := s.joinMovies(ctx, credits)
	if err != nil {
		return nil, err
	}

	return countGenres(movies), nil
}

// joinMovies resolves each credit to at most one movie, by movie id when the
// id is known to the store and by title otherwise. Credits without a movie
// are dropped. A movie is returned once per credit that resolved to it.
func (s *Service) joinMovies(ctx context.Context, credits []*model.Credit) ([]*model.Movie, error) {
	var ids []int64
	seenID := map[int64]struct{}{}
	for _, c := range credits {
		if c.MovieID == 0 {
			continue
		}
		if _, ok := seenID[c.MovieID]; !ok {
			seenID[c.MovieID] = struct{}{}
			ids = append(ids, c.MovieID)
		}
	}

	byID := map[int64]*model.Movie{}
	if len(ids) != 0 {
		movies, err := s.store.FindMoviesByIDs(ctx, ids)
		if err != nil {
			return nil, errors.Wrap(err, "find movies by ids")
		}
		for _, m := range movies {
			if _, ok := byID[m.ID]; !ok {
				byID[m.ID] = m
			}
		}
	}

	var titles []string
	seenTitle := map[string]struct{}{}
	for _, c := range credits {
		if _, ok := byID[c.MovieID]; ok && c.MovieID != 0 {
			continue
		}
		if _, ok := seenTitle[c.Title]; !ok {
			seenTitle[c.Title] = struct{}{}
			titles = append(titles, c.Title)
		}
	}

	byTitle := map[string]*model.Movie{}
	if len(titles) != 0 {
		movies, err := s.store.FindMoviesByTitles(ctx, titles)
		if err != nil {
			return nil, errors.Wrap(err, "find movies by titles")
		}
		for _, m := range movies {
			if _, ok := byTitle[m.Title]; !ok {
				byTitle[m.Title] = m
			}
		}
	}

	joined := make([]*model.Movie, 0, len(credits))
	for _, c := range credits {
		if m, ok := byID[c.MovieID]; ok && c.MovieID != 0 {
			joined = append(joined, m)
		} else if m, ok := byTitle[c.Title]; ok {
			joined = append(joined, m)
		}
	}

	return joined, nil
}

// countGenres groups the genre occurrences of movies by genre name.
// The result is ordered by count desc, then genre name.
func countGenres(movies []*model.Movie) []dto.GenreCount {
	counts := map[string]int{}
	for _, m := range movies {
		for _, g := range m.Genres {
			counts[g.Name]++
		}
	}

	out := make([]dto.GenreCount, 0, len(counts))
	for genre, n := range counts {
		out = append(out, dto.GenreCount{Genre: genre, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Genre < out[j].Genre
	})

	return out
}

// castNames lists the distinct actor names in cast order.
func castNames(cast []model.CastMember) []string {
	seen := make(map[string]struct{}, len(cast))
	names := make([]string, 0, len(cast))
	for _, m := range cast {
		if m.Name == "" {
			continue
		}
		if _, ok := seen[m.Name]; ok {
			continue
		}
		seen[m.Name] = struct{}{}
		names = append(names, m.Name)
	}

	return names
}
