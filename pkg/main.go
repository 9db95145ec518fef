package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	pkg "git.solsynth.dev/hypernet/conference/pkg/internal"
	"git.solsynth.dev/hypernet/conference/pkg/internal/cache"
	"git.solsynth.dev/hypernet/conference/pkg/internal/database"
	"git.solsynth.dev/hypernet/conference/pkg/internal/grpc"
	webs "git.solsynth.dev/hypernet/conference/pkg/internal/http"
	"git.solsynth.dev/hypernet/conference/pkg/internal/http/api"
	"git.solsynth.dev/hypernet/conference/pkg/internal/services"
	"git.solsynth.dev/hypernet/conference/pkg/internal/storage"
	"git.solsynth.dev/hypernet/conference/pkg/internal/video"
	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	color.New(color.FgHiCyan, color.Bold).Printf("HyperNet.Conference v%s\n", pkg.AppVersion)

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Connect to database
	if err := database.NewSource(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Initialize cache
	if err := cache.NewCache(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	// Connect external collaborators
	bucket, err := storage.NewBucket(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connecting to recording storage.")
	}
	lk := video.NewLiveKit(bucket)

	notekeeper, err := services.NewNotekeeper(context.Background(), database.C)
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connecting to the notes model.")
	}

	// Wire services
	syncer := services.NewSyncer(database.C)
	reconciler := services.NewReconciler(lk, syncer)
	meetings := services.NewMeetings(lk, syncer)

	// Server
	webs.NewServer(api.Deps{
		Meetings:   meetings,
		Reconciler: reconciler,
		Syncer:     syncer,
		Notes:      notekeeper,
	})
	go webs.Listen()

	rpc := grpc.NewGrpc()
	go func() {
		if err := rpc.Listen(); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when starting grpc server...")
		}
	}()

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.Start()

	log.Info().Msgf("Conference v%s is started...", pkg.AppVersion)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msgf("Conference v%s is quitting...", pkg.AppVersion)

	quartz.Stop()
}
