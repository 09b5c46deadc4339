package model

import (
	"context"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/movie-analytics/library/db/mongo"
	"github.com/Laisky/movie-analytics/library/log"
)

// NewDB connects to the movies database described by settings.db.movies.
func NewDB(ctx context.Context) (mongo.DB, error) {
	db, err := mongo.NewDB(ctx,
		mongo.DialInfo{
			Addr:   gconfig.Shared.GetString("settings.db.movies.addr"),
			DBName: gconfig.Shared.GetString("settings.db.movies.db"),
			User:   gconfig.Shared.GetString("settings.db.movies.user"),
			Pwd:    gconfig.Shared.GetString("settings.db.movies.pwd"),
			AuthDB: gconfig.Shared.GetString("settings.db.movies.auth_db"),
		},
	)
	if err != nil {
		return nil, err
	}

	log.Logger.Info("connected movies db",
		zap.String("addr", gconfig.Shared.GetString("settings.db.movies.addr")))
	return db, nil
}
