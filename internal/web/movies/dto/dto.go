// Package dto holds the response payloads of the movies service.
package dto

import "github.com/Laisky/movie-analytics/internal/web/movies/model"

// GenreCount is how many of an actor's movies carry a genre.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// ActorGenres is the genre distribution of one actor's filmography.
type ActorGenres struct {
	ActorName string       `json:"actor_name"`
	Genres    []GenreCount `json:"genres"`
}

// KeywordBucket groups the movies sharing the same number of keywords
// with the reference movie.
type KeywordBucket struct {
	MatchedKeywordCount int      `json:"matched_keyword_count"`
	MovieNames          []string `json:"movie_names"`
}

// IngestResult summarises a bulk ingestion.
type IngestResult struct {
	Created  int                `json:"created"`
	Failures []model.RowFailure `json:"failures"`
}

// LoadAck is returned as soon as a bulk load is accepted.
type LoadAck struct {
	Status string `json:"status"`
	JobID  string `json:"job_id"`
}
