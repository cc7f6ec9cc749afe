package cmd

import (
	"context"
	"os/signal"
	"syscall"

	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/laisky-media-bot/internal/bot/media/controller"
	"github.com/Laisky/laisky-media-bot/internal/bot/media/dao"
	"github.com/Laisky/laisky-media-bot/internal/bot/media/model"
	"github.com/Laisky/laisky-media-bot/internal/bot/media/service"
	"github.com/Laisky/laisky-media-bot/library/log"
)

var botCMD = &cobra.Command{
	Use:   "bot",
	Short: "bot",
	Long:  `run the telegram media bot`,
	Args:  gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(),
			syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := runBot(ctx); err != nil {
			log.Logger.Panic("run bot", zap.Error(err))
		}
	},
}

func runBot(ctx context.Context) error {
	db, err := model.New(ctx)
	if err != nil {
		return err
	}

	store, err := dao.NewImageStore(ctx, dao.ImageStoreOpt{
		Endpoint:     gconfig.Shared.GetString("settings.s3.endpoint"),
		AccessKey:    gconfig.Shared.GetString("settings.s3.access_key"),
		SecretKey:    gconfig.Shared.GetString("settings.s3.secret_key"),
		Bucket:       gconfig.Shared.GetString("settings.s3.bucket"),
		BasePath:     gconfig.Shared.GetString("settings.media.base_path"),
		PublicPrefix: gconfig.Shared.GetString("settings.s3.public_prefix"),
		UseSSL:       gconfig.Shared.GetBool("settings.s3.use_ssl"),
	})
	if err != nil {
		return err
	}

	repo := dao.NewMediaRepo(db)
	media := service.NewMediaService(repo, nil,
		gconfig.Shared.GetString("settings.media.base_path"))
	uploader := service.NewUploadHandler(media, store, nil, nil)
	viewer := service.NewMediaViewer(media, nil)

	bot, err := controller.New(ctx, controller.Config{
		Token:     gconfig.Shared.GetString("settings.telegram.token"),
		API:       gconfig.Shared.GetString("settings.telegram.api"),
		Prefix:    gconfig.Shared.GetString("settings.telegram.prefix"),
		MaxSizeMB: gconfig.Shared.GetInt64("settings.media.max_file_size_mb"),
	}, media, uploader, viewer)
	if err != nil {
		return err
	}
	defer bot.Stop()

	log.Logger.Info("bot started")
	<-ctx.Done()
	log.Logger.Info("bot stopped", zap.Error(ctx.Err()))
	return nil
}

func init() {
	rootCMD.AddCommand(botCMD)
}
