package cmd

import (
	"context"

	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/laisky-media-bot/internal/bot/media/model"
	"github.com/Laisky/laisky-media-bot/library/log"
)

var migrateCMD = &cobra.Command{
	Use:   "migrate",
	Short: "migrate",
	Long:  `migrate db`,
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

		if err := db.AutoMigrate(
			model.Media{},
		); err != nil {
			log.Logger.Panic("migrate", zap.Error(err))
		}

		log.Logger.Info("migrate done")
	},
}

func init() {
	rootCMD.AddCommand(migrateCMD)
}
