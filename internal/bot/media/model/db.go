package model

import (
	"context"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	"gorm.io/gorm"

	"github.com/Laisky/laisky-media-bot/library/db/postgres"
)

// New dials the media database configured under settings.db.media.
func New(ctx context.Context) (db *gorm.DB, err error) {
	db, err = postgres.NewDB(ctx,
		postgres.DialInfo{
			Addr:   gconfig.Shared.GetString("settings.db.media.addr"),
			DBName: gconfig.Shared.GetString("settings.db.media.db"),
			User:   gconfig.Shared.GetString("settings.db.media.user"),
			Pwd:    gconfig.Shared.GetString("settings.db.media.pwd"),
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, "dial media db")
	}

	return db, nil
}
