package dao

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoLib "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/Laisky/movie-analytics/internal/web/movies/model"
	"github.com/Laisky/movie-analytics/library/db/mongo"
)

var naturalOrder = bson.D{{Key: "_id", Value: 1}}

// Mongo is the MongoDB backed Store.
type Mongo struct {
	db mongo.DB
}

// NewMongo create new mongo store
func NewMongo(db mongo.DB) *Mongo {
	return &Mongo{db: db}
}

// GetMoviesCol get movies collection
func (d *Mongo) GetMoviesCol() *mongoLib.Collection {
	return d.db.GetCol(model.ColMovies)
}

// GetCreditsCol get credits collection
func (d *Mongo) GetCreditsCol() *mongoLib.Collection {
	return d.db.GetCol(model.ColCredits)
}

// InsertMovie implements Store.
func (d *Mongo) InsertMovie(ctx context.Context, movie *model.Movie) error {
	ret, err := d.GetMoviesCol().InsertOne(ctx, movie)
	if err != nil {
		return model.NewStoreError("insert movie", err)
	}

	if oid, ok := ret.InsertedID.(primitive.ObjectID); ok {
		movie.MongoID = oid
	}

	return nil
}

// InsertMovies implements Store.
func (d *Mongo) InsertMovies(ctx context.Context, movies []*model.Movie) ([]WriteFailure, error) {
	docs := make([]any, len(movies))
	for i := range movies {
		docs[i] = movies[i]
	}

	return d.insertMany(ctx, d.GetMoviesCol(), "insert movies", docs)
}

// InsertCredits implements Store.
func (d *Mongo) InsertCredits(ctx context.Context, credits []*model.Credit) ([]WriteFailure, error) {
	docs := make([]any, len(credits))
	for i := range credits {
		docs[i] = credits[i]
	}

	return d.insertMany(ctx, d.GetCreditsCol(), "insert credits", docs)
}

// insertMany runs an unordered insert so that one bad document does not stop the rest.
func (d *Mongo) insertMany(ctx context.Context, col *mongoLib.Collection, op string, docs []any) ([]WriteFailure, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	_, err := col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err == nil {
		return nil, nil
	}

	perDoc, ok := mongo.WriteFailures(err)
	if !ok {
		return nil, model.NewStoreError(op, err)
	}

	failures := make([]WriteFailure, 0, len(perDoc))
	for idx, reason := range perDoc {
		failures = append(failures, WriteFailure{Index: idx, Reason: reason})
	}

	return failures, nil
}

// FindMoviesByTitle implements Store.
func (d *Mongo) FindMoviesByTitle(ctx context.Context, title string) ([]*model.Movie, error) {
	return d.findMovies(ctx, "find movies by title", bson.M{"title": title})
}

// FindMoviesByTitles implements Store.
func (d *Mongo) FindMoviesByTitles(ctx context.Context, titles []string) ([]*model.Movie, error) {
	if len(titles) == 0 {
		return nil, nil
	}

	return d.findMovies(ctx, "find movies by titles",
		bson.M{"title": bson.M{"$in": titles}},
		options.Find().SetProjection(bson.M{"id": 1, "title": 1, "genres": 1}),
	)
}

// FindMoviesByIDs implements Store.
func (d *Mongo) FindMoviesByIDs(ctx context.Context, ids []int64) ([]*model.Movie, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	return d.findMovies(ctx, "find movies by ids",
		bson.M{"id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"id": 1, "title": 1, "genres": 1}),
	)
}

// FindKeywordsExceptTitle implements Store.
func (d *Mongo) FindKeywordsExceptTitle(ctx context.Context, title string) ([]*model.Movie, error) {
	return d.findMovies(ctx, "find keywords",
		bson.M{"title": bson.M{"$ne": title}},
		options.Find().SetProjection(bson.M{"title": 1, "keywords": 1}),
	)
}

// DistinctCompaniesReleasedBetween implements Store.
func (d *Mongo) DistinctCompaniesReleasedBetween(ctx context.Context, start, end time.Time) ([]string, error) {
	vals, err := d.GetMoviesCol().Distinct(ctx, "productionCompanies.name",
		bson.M{"releaseDate": bson.M{"$gte": start, "$lt": end}})
	if err != nil {
		return nil, model.NewStoreError("distinct companies", err)
	}

	names := make([]string, 0, len(vals))
	for _, v := range vals {
		name, ok := v.(string)
		if !ok {
			return nil, model.NewStoreError("distinct companies",
				errors.Errorf("unexpected company name type %T", v))
		}
		names = append(names, name)
	}

	return names, nil
}

// FindFinancialsByCompany implements Store.
func (d *Mongo) FindFinancialsByCompany(ctx context.Context, company string) ([]*model.Movie, error) {
	return d.findMovies(ctx, "find movies by company",
		bson.M{"productionCompanies.name": company},
		options.Find().SetProjection(bson.M{
			"title": 1, "budget": 1, "revenue": 1, "productionCompanies": 1,
		}),
	)
}

// FindCreditsByTitle implements Store.
func (d *Mongo) FindCreditsByTitle(ctx context.Context, title string) ([]*model.Credit, error) {
	return d.findCredits(ctx, "find credits by title", bson.M{"title": title})
}

// FindCreditsByCastName implements Store.
func (d *Mongo) FindCreditsByCastName(ctx context.Context, name string) ([]*model.Credit, error) {
	return d.findCredits(ctx, "find credits by cast",
		bson.M{"Cast.name": name},
		options.Find().SetProjection(bson.M{"movieId": 1, "title": 1}),
	)
}

// EnsureIndexes implements Store.
func (d *Mongo) EnsureIndexes(ctx context.Context) error {
	asc := func(key string) mongoLib.IndexModel {
		return mongoLib.IndexModel{Keys: bson.D{{Key: key, Value: 1}}}
	}

	var pool errgroup.Group
	pool.Go(func() error {
		_, err := d.GetMoviesCol().Indexes().CreateMany(ctx, []mongoLib.IndexModel{
			asc("title"),
			asc("id"),
			asc("productionCompanies.name"),
			asc("releaseDate"),
		})
		return model.NewStoreError("create movies indexes", err)
	})
	pool.Go(func() error {
		_, err := d.GetCreditsCol().Indexes().CreateMany(ctx, []mongoLib.IndexModel{
			asc("title"),
			asc("Cast.name"),
		})
		return model.NewStoreError("create credits indexes", err)
	})

	return pool.Wait()
}

func (d *Mongo) findMovies(ctx context.Context, op string, filter any, opts ...*options.FindOptions) ([]*model.Movie, error) {
	cur, err := d.GetMoviesCol().Find(ctx, filter,
		append([]*options.FindOptions{options.Find().SetSort(naturalOrder)}, opts...)...)
	if err != nil {
		return nil, model.NewStoreError(op, err)
	}
	defer cur.Close(ctx) // nolint: errcheck

	movies := []*model.Movie{}
	if err = cur.All(ctx, &movies); err != nil {
		return nil, model.NewStoreError(op, err)
	}

	return movies, nil
}

func (d *Mongo) findCredits(ctx context.Context, op string, filter any, opts ...*options.FindOptions) ([]*model.Credit, error) {
	cur, err := d.GetCreditsCol().Find(ctx, filter,
		append([]*options.FindOptions{options.Find().SetSort(naturalOrder)}, opts...)...)
	if err != nil {
		return nil, model.NewStoreError(op, err)
	}
	defer cur.Close(ctx) // nolint: errcheck

	credits := []*model.Credit{}
	if err = cur.All(ctx, &credits); err != nil {
		return nil, model.NewStoreError(op, err)
	}

	return credits, nil
}
