// Package model holds the documents stored in the movies database.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names.
const (
	ColMovies  = "movies"
	ColCredits = "credits"
)

// Tag is an {id, name} pair, used for genres, keywords and production companies.
// Two tags are the same tag only when both fields match.
type Tag struct {
	ID   int64  `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// Country is a production country.
type Country struct {
	ISO31661 string `bson:"iso_3166_1" json:"iso_3166_1"`
	Name     string `bson:"name" json:"name"`
}

// Language is a spoken language.
type Language struct {
	ISO6391 string `bson:"iso_639_1" json:"iso_639_1"`
	Name    string `bson:"name" json:"name"`
}

// Movie is one row of the movies file.
type Movie struct {
	// MongoID is assigned by the store
	MongoID primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	// ID is the upstream numeric id, credits reference it as movieId
	ID    int64  `bson:"id" json:"id" validate:"gte=1"`
	Title string `bson:"title" json:"title" validate:"required"`
	// OriginalTitle is the title in the original language
	OriginalTitle    string  `bson:"originalTitle" json:"originalTitle"`
	Budget           int64   `bson:"budget" json:"budget" validate:"gte=0"`
	Revenue          int64   `bson:"revenue" json:"revenue" validate:"gte=0"`
	Popularity       float64 `bson:"popularity" json:"popularity"`
	VoteAverage      float64 `bson:"voteAverage" json:"voteAverage"`
	VoteCount        int64   `bson:"voteCount" json:"voteCount"`
	Runtime          float64 `bson:"runtime" json:"runtime"`
	Status           string  `bson:"status" json:"status"`
	Tagline          string  `bson:"tagline" json:"tagline"`
	Homepage         string  `bson:"homepage" json:"homepage"`
	Overview         string  `bson:"overview" json:"overview"`
	OriginalLanguage string  `bson:"originalLanguage" json:"originalLanguage"`
	// ReleaseDate is nil when the source date was missing or invalid
	ReleaseDate *time.Time `bson:"releaseDate" json:"releaseDate"`

	Genres              []Tag      `bson:"genres" json:"genres"`
	Keywords            []Tag      `bson:"keywords" json:"keywords"`
	ProductionCompanies []Tag      `bson:"productionCompanies" json:"productionCompanies"`
	ProductionCountries []Country  `bson:"productionCountries" json:"productionCountries"`
	SpokenLanguages     []Language `bson:"spokenLanguages" json:"spokenLanguages"`
}

// ReleasedBetween reports whether the release date falls in [start, end).
func (m *Movie) ReleasedBetween(start, end time.Time) bool {
	if m.ReleaseDate == nil {
		return false
	}

	return !m.ReleaseDate.Before(start) && m.ReleaseDate.Before(end)
}

// HasCompany reports whether name is one of the production companies.
func (m *Movie) HasCompany(name string) bool {
	for _, c := range m.ProductionCompanies {
		if c.Name == name {
			return true
		}
	}

	return false
}
