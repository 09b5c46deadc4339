package cmd

import (
	"context"
	"os/signal"
	"syscall"

	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/movie-analytics/internal/web"
	"github.com/Laisky/movie-analytics/internal/web/movies/controller"
	"github.com/Laisky/movie-analytics/library/config"
	"github.com/Laisky/movie-analytics/library/log"
)

var apiCMD = &cobra.Command{
	Use:   "api",
	Short: "api",
	Long:  `http API service for movie analytics`,
	Args:  gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		mods, err := setupModules(ctx)
		if err != nil {
			log.Logger.Panic("setup modules", zap.Error(err))
		}
		defer mods.Close(context.Background())

		ctl := controller.New(mods.svc,
			config.DataFile("settings.ingest.movies_file"),
			config.DataFile("settings.ingest.credits_file"),
		)
		if err = web.RunServer(ctx, gconfig.Shared.GetString("listen"), ctl); err != nil {
			log.Logger.Error("http server", zap.Error(err))
		}
	},
}

func init() {
	rootCMD.AddCommand(apiCMD)
}
