package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	pkg "github.com/hashtagwatch/monitor/pkg/internal"
	"github.com/hashtagwatch/monitor/pkg/internal/cache"
	"github.com/hashtagwatch/monitor/pkg/internal/database"
	"github.com/hashtagwatch/monitor/pkg/internal/http"
	"github.com/hashtagwatch/monitor/pkg/internal/http/api"
	"github.com/hashtagwatch/monitor/pkg/internal/scheduler"
	"github.com/hashtagwatch/monitor/pkg/internal/services"
	"github.com/hashtagwatch/monitor/pkg/internal/twitter"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString(" _   _           _     _              __  __             _ _\n| | | | __ _ ___| |__ | |_ __ _  __ _|  \\/  | ___  _ __ (_) |_ ___  _ __\n| |_| |/ _` / __| '_ \\| __/ _` |/ _` | |\\/| |/ _ \\| '_ \\| | __/ _ \\| '__|\n|  _  | (_| \\__ \\ | | | || (_| | (_| | |  | | (_) | | | | | || (_) | |\n|_| |_|\\__,_|___/_| |_|\\__\\__,_|\\__, |_|  |_|\\___/|_| |_|_|\\__\\___/|_|\n                                |___/"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Hashtag Monitor"), pkg.AppVersion)
	fmt.Printf("The live hashtag tracking dashboard\n")
	color.HiBlack("=====================================================\n")

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
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Local cache for dashboard snapshots
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when setting up local cache.")
	}

	// Search capability and background work
	source := twitter.NewHTTPClient()
	quartz := scheduler.New()

	syncInterval := viper.GetString("monitor.sync_interval")
	if len(syncInterval) == 0 {
		syncInterval = "@every 5m"
	}
	if err := quartz.Periodic(syncInterval, func() {
		services.SyncAllHashtags(quartz, source)
	}); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when configuring the sync cycle.")
	}

	cleanupInterval := viper.GetString("monitor.cleanup_interval")
	if len(cleanupInterval) == 0 {
		cleanupInterval = "@every 60m"
	}
	if err := quartz.Periodic(cleanupInterval, services.DoAutoDatabaseCleanup); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when configuring the cleanup cycle.")
	}

	quartz.Start()

	// Server
	api.Quartz = quartz
	api.Source = source
	go http.NewServer().Listen()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
}
