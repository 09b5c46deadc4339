package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// CastMember is one entry of a credit's cast list.
type CastMember struct {
	CastID    int64  `bson:"cast_id" json:"cast_id"`
	Character string `bson:"character" json:"character"`
	CreditID  string `bson:"credit_id" json:"credit_id"`
	Gender    int    `bson:"gender" json:"gender"`
	// PersonID identifies the actor
	PersonID int64  `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Order    int    `bson:"order" json:"order"`
}

// CrewMember is one entry of a credit's crew list.
type CrewMember struct {
	CreditID   string `bson:"credit_id" json:"credit_id"`
	Department string `bson:"department" json:"department"`
	Gender     int    `bson:"gender" json:"gender"`
	PersonID   int64  `bson:"id" json:"id"`
	Job        string `bson:"job" json:"job"`
	Name       string `bson:"name" json:"name"`
}

// Credit is the cast and crew of one movie.
//
// Title is how the original data links credits to movies, MovieID is the
// surrogate key and is preferred when it resolves.
type Credit struct {
	MongoID primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	MovieID int64              `bson:"movieId" json:"movieId"`
	Title   string             `bson:"title" json:"title"`
	Cast    []CastMember       `bson:"Cast" json:"Cast"`
	Crew    []CrewMember       `bson:"Crew" json:"Crew"`
}

// HasActor reports whether name appears in the cast.
func (c *Credit) HasActor(name string) bool {
	for _, m := range c.Cast {
		if m.Name == name {
			return true
		}
	}

	return false
}
