package service

import (
	"bytes"
	"strconv"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/goccy/go-json"

	"github.com/Laisky/movie-analytics/internal/web/movies/model"
	"github.com/Laisky/movie-analytics/library/csvrows"
)

// releaseDateLayouts are tried in order.
var releaseDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
}

// MovieFromRow maps a row of the movies file.
//
// id, budget and revenue must be integers. Other numbers may be empty.
// An unparsable release date is stored as nil.
// Structured columns hold json arrays.
func MovieFromRow(row csvrows.Row) (*model.Movie, error) {
	m := &model.Movie{
		Title:            row.Get("title"),
		OriginalTitle:    row.Get("original_title"),
		Homepage:         row.Get("homepage"),
		Overview:         row.Get("overview"),
		OriginalLanguage: row.Get("original_language"),
		Status:           row.Get("status"),
		Tagline:          row.Get("tagline"),
		ReleaseDate:      parseReleaseDate(row.Get("release_date")),
	}

	var err error
	if m.ID, err = requiredInt(row, "id"); err != nil {
		return nil, err
	}
	if m.Budget, err = requiredInt(row, "budget"); err != nil {
		return nil, err
	}
	if m.Revenue, err = requiredInt(row, "revenue"); err != nil {
		return nil, err
	}
	if m.Popularity, err = optionalFloat(row, "popularity"); err != nil {
		return nil, err
	}
	if m.VoteAverage, err = optionalFloat(row, "vote_average"); err != nil {
		return nil, err
	}
	if m.VoteCount, err = optionalInt(row, "vote_count"); err != nil {
		return nil, err
	}
	if m.Runtime, err = optionalFloat(row, "runtime"); err != nil {
		return nil, err
	}

	if m.Genres, err = parseSet[model.Tag](row, "genres"); err != nil {
		return nil, err
	}
	if m.Keywords, err = parseSet[model.Tag](row, "keywords"); err != nil {
		return nil, err
	}
	if m.ProductionCompanies, err = parseSet[model.Tag](row, "production_companies"); err != nil {
		return nil, err
	}
	if m.ProductionCountries, err = parseSet[model.Country](row, "production_countries"); err != nil {
		return nil, err
	}
	if m.SpokenLanguages, err = parseSet[model.Language](row, "spoken_languages"); err != nil {
		return nil, err
	}

	return m, nil
}

// CreditFromRow maps a row of the credits file.
func CreditFromRow(row csvrows.Row) (*model.Credit, error) {
	c := &model.Credit{Title: row.Get("title")}

	var err error
	if c.MovieID, err = requiredInt(row, "movie_id"); err != nil {
		return nil, err
	}
	if c.Cast, err = parseList[model.CastMember](row, "cast"); err != nil {
		return nil, err
	}
	if c.Crew, err = parseList[model.CrewMember](row, "crew"); err != nil {
		return nil, err
	}

	return c, nil
}

// RowFromJSON turns a json object into a row, so that single inserts share
// the mapping of the file loader. String values are taken verbatim, any
// other value keeps its json text, null becomes an empty cell.
func RowFromJSON(payload []byte) (csvrows.Row, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, errors.Wrap(model.ErrInvalidArgument, "body must be a json object")
	}

	row := make(csvrows.Row, len(fields))
	for key, raw := range fields {
		raw = bytes.TrimSpace(raw)
		switch {
		case bytes.Equal(raw, []byte("null")):
			row[key] = ""
		case len(raw) > 0 && raw[0] == '"':
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, errors.Wrapf(model.ErrInvalidArgument, "field %s", key)
			}
			row[key] = s
		default:
			row[key] = string(raw)
		}
	}

	return row, nil
}

func requiredInt(row csvrows.Row, field string) (int64, error) {
	val := row.Get(field)
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, &model.ParseError{Field: field, Value: val, Err: errors.New("not an integer")}
	}

	return n, nil
}

func optionalInt(row csvrows.Row, field string) (int64, error) {
	if row.Get(field) == "" {
		return 0, nil
	}

	return requiredInt(row, field)
}

func optionalFloat(row csvrows.Row, field string) (float64, error) {
	val := row.Get(field)
	if val == "" {
		return 0, nil
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, &model.ParseError{Field: field, Value: val, Err: errors.New("not a number")}
	}

	return f, nil
}

func parseReleaseDate(val string) *time.Time {
	if val == "" {
		return nil
	}

	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			t = t.UTC()
			return &t
		}
	}

	return nil
}

// parseList decodes a json array cell, an empty cell is an empty list.
func parseList[T any](row csvrows.Row, field string) ([]T, error) {
	val := row.Get(field)
	items := []T{}
	if val == "" {
		return items, nil
	}

	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, &model.ParseError{Field: field, Value: val, Err: errors.Wrap(err, "decode json")}
	}
	if items == nil {
		items = []T{}
	}

	return items, nil
}

// parseSet is parseList with duplicates removed, first occurrence kept.
func parseSet[T comparable](row csvrows.Row, field string) ([]T, error) {
	items, err := parseList[T](row, field)
	if err != nil {
		return nil, err
	}

	seen := make(map[T]struct{}, len(items))
	uniq := items[:0]
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		uniq = append(uniq, it)
	}

	return uniq, nil
}
