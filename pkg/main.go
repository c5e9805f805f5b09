package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	pkg "github.com/skilllink/skilllink/pkg/internal"
	"github.com/skilllink/skilllink/pkg/internal/cache"
	"github.com/skilllink/skilllink/pkg/internal/database"
	"github.com/skilllink/skilllink/pkg/internal/feed"
	"github.com/skilllink/skilllink/pkg/internal/http"
	"github.com/skilllink/skilllink/pkg/internal/http/api"
	"github.com/skilllink/skilllink/pkg/internal/services"
	"github.com/skilllink/skilllink/pkg/internal/storage"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString(" ____  _    _ _ _ _     _       _\n/ ___|| | _(_) | | |   (_)_ __ | | __\n\\___ \\| |/ / | | | |   | | '_ \\| |/ /\n ___) |   <| | | | |___| | | | |   <\n|____/|_|\\_\\_|_|_|_____|_|_| |_|_|\\_\\"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("SkillLink"), pkg.AppVersion)
	fmt.Printf("The social posting service for sharing skills\n")
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

	// Local cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing local cache.")
	}

	// Connect to object storage
	if err := storage.NewClient(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connecting to object storage.")
	}

	// Feed synchronization store
	store := feed.NewStore(services.NewFeedSource(), storage.C)
	api.Feed = store
	if _, err := store.FetchAll(context.Background(), nil); err != nil {
		log.Warn().Err(err).Msg("An error occurred when warming up the feed, will retry on schedule...")
	}

	services.OnSessionChange(func(sess *feed.Session) {
		if sess != nil {
			log.Debug().Str("user", sess.User.ID).Msg("A session is opened.")
		}
	})

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.AddFunc("@every 10m", func() {
		if _, err := store.FetchAll(context.Background(), nil); err != nil {
			log.Warn().Err(err).Msg("An error occurred when refreshing the feed...")
		}
	})
	quartz.Start()

	// Server
	go http.NewServer().Listen()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
}
