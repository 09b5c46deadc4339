package service

import (
	"context"
	"sort"
	"strings"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/movie-analytics/internal/web/movies/dto"
	"github.com/Laisky/movie-analytics/internal/web/movies/model"
)

// SimilarMovies ranks every other movie by how many keywords it shares with
// the movie titled title. Movies sharing the same number of keywords form one
// bucket, buckets are sorted by that number desc and limit bounds the number
// of buckets, not movies.
func (s *Service) SimilarMovies(ctx context.Context, title string, limit int) ([]dto.KeywordBucket, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.Wrap(model.ErrInvalidArgument, "empty movie name")
	}
	if limit < 1 {
		return nil, errors.Wrapf(model.ErrInvalidArgument, "limit must be >= 1, got %d", limit)
	}

	refs, err := s.store.FindMoviesByTitle(ctx, title)
	if err != nil {
		return nil, errors.Wrap(err, "find movie")
	}

	ref, err := pickByTitle(refs, title, s.strictTitles)
	if err != nil {
		return nil, errors.Wrap(err, "movie")
	}

	candidates, err := s.store.FindKeywordsExceptTitle(ctx, title)
	if err != nil {
		return nil, errors.Wrap(err, "find keywords")
	}

	return rankBySharedKeywords(ref.Keywords, candidates, limit), nil
}

// sharedKeywords is the size of the intersection of two keyword sets.
func sharedKeywords(a, b []model.Tag) int {
	set := make(map[model.Tag]struct{}, len(a))
	for _, k := range a {
		set[k] = struct{}{}
	}

	n := 0
	for _, k := range b {
		if _, ok := set[k]; ok {
			n++
			delete(set, k)
		}
	}

	return n
}

// rankBySharedKeywords buckets candidates by shared keyword count. Titles in
// a bucket keep the order of candidates.
func rankBySharedKeywords(ref []model.Tag, candidates []*model.Movie, limit int) []dto.KeywordBucket {
	buckets := map[int]*dto.KeywordBucket{}
	for _, m := range candidates {
		n := sharedKeywords(ref, m.Keywords)
		b, ok := buckets[n]
		if !ok {
			b = &dto.KeywordBucket{MatchedKeywordCount: n}
			buckets[n] = b
		}
		b.MovieNames = append(b.MovieNames, m.Title)
	}

	out := make([]dto.KeywordBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MatchedKeywordCount > out[j].MatchedKeywordCount
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out
}
