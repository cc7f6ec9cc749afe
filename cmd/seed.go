package cmd

import (
	"context"

	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/laisky-media-bot/internal/bot/media/dao"
	"github.com/Laisky/laisky-media-bot/internal/bot/media/model"
	"github.com/Laisky/laisky-media-bot/library/log"
)

// seed guilds are reserved for local development, wiped on every run.
var seedGuildIDs = []string{"test-guild-123", "test-guild-456"}

var seedMedia = []*model.Media{
	{
		Name:       "test-image-1",
		URL:        "https://example.com/test-image-1.jpg",
		UploadedBy: "user-123",
		GuildID:    seedGuildIDs[0],
		FileKey:    "images/test-image-1.jpg",
		MimeType:   "image/jpeg",
		FileSize:   1024,
	},
	{
		Name:       "test-image-2",
		URL:        "https://example.com/test-image-2.jpg",
		UploadedBy: "user-123",
		GuildID:    seedGuildIDs[0],
		FileKey:    "images/test-image-2.jpg",
		MimeType:   "image/jpeg",
		FileSize:   2048,
	},
	{
		Name:       "test-gif",
		URL:        "https://example.com/test-animation.gif",
		UploadedBy: "user-456",
		GuildID:    seedGuildIDs[1],
		FileKey:    "images/test-animation.gif",
		MimeType:   "image/gif",
		FileSize:   4096,
	},
}

var seedCMD = &cobra.Command{
	Use:   "seed",
	Short: "seed",
	Long:  `seed db with sample media records`,
	Args:  gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		db, err := model.New(ctx)
		if err != nil {
			log.Logger.Panic("dial db", zap.Error(err))
		}

		if err := db.WithContext(ctx).
			Where("guild_id IN ?", seedGuildIDs).
			Delete(&model.Media{}).Error; err != nil {
			log.Logger.Panic("clean seed guilds", zap.Error(err))
		}

		repo := dao.NewMediaRepo(db)
		for _, media := range seedMedia {
			if _, err := repo.Create(ctx, media); err != nil {
				log.Logger.Panic("seed media",
					zap.Error(err), zap.String("name", media.Name))
			}
		}

		log.Logger.Info("seed done", zap.Int("records", len(seedMedia)))
	},
}

func init() {
	rootCMD.AddCommand(seedCMD)
}
