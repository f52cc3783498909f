package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/recshelf/recshelf/internal/api"
	"github.com/recshelf/recshelf/internal/auth"
	"github.com/recshelf/recshelf/internal/catalog"
	"github.com/recshelf/recshelf/internal/catalog/openlibrary"
	"github.com/recshelf/recshelf/internal/catalog/rawg"
	"github.com/recshelf/recshelf/internal/catalog/tmdb"
	"github.com/recshelf/recshelf/internal/config"
	"github.com/recshelf/recshelf/internal/database"
	"github.com/recshelf/recshelf/internal/logger"
	"github.com/recshelf/recshelf/internal/media"
	"github.com/recshelf/recshelf/internal/oracle"
	"github.com/recshelf/recshelf/internal/preferences"
	"github.com/recshelf/recshelf/internal/recommend"
	"github.com/recshelf/recshelf/internal/scheduler"
)

func main() {
	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	log.Info().
		Str("version", config.Version).
		Str("logLevel", cfg.Logging.Level).
		Msg("starting recshelf")

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	log.Info().Msg("running database migrations")
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	catalogs := catalog.NewRegistry()
	catalogs.Register(media.TypeMovie, tmdb.NewClient(cfg.TMDB, media.TypeMovie, log.Logger))
	catalogs.Register(media.TypeTV, tmdb.NewClient(cfg.TMDB, media.TypeTV, log.Logger))
	catalogs.Register(media.TypeGame, rawg.NewClient(cfg.RAWG, log.Logger))
	catalogs.Register(media.TypeBook, openlibrary.NewClient(cfg.OpenLibrary, log.Logger))

	oracleClient := oracle.NewClient(cfg.Oracle, log.Logger)
	if !oracleClient.IsConfigured() {
		log.Warn().Msg("oracle API key not set, movie and TV recommendations will be unavailable")
	}

	authService, err := auth.NewService(db.Conn(), cfg.Auth.JWTSecret, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize auth service")
	}

	prefService := preferences.NewService(db.Conn(), log.Logger)

	trendingCache := catalog.NewTrendingCache(time.Duration(cfg.Trending.CacheTTL) * time.Minute)
	engine := recommend.NewEngine(catalogs, oracleClient, prefService, trendingCache, log.Logger)

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	warmTask := scheduler.NewTrendingWarmTask(
		catalogs,
		trendingCache,
		time.Duration(cfg.Trending.RefreshMinutes)*time.Minute,
		log.Logger,
	)
	if err := sched.RegisterTask(warmTask); err != nil {
		log.Fatal().Err(err).Msg("failed to register trending warm task")
	}
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	server := api.NewServer(cfg, authService, prefService, engine, catalogs, trendingCache, oracleClient, log.Logger)

	go func() {
		if err := server.Start(cfg.Server.Address()); err != nil {
			log.Info().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sched.Stop(); err != nil {
		log.Warn().Err(err).Msg("scheduler shutdown failed")
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server shutdown failed")
	}
}
