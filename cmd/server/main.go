package main

import (
	"context"
	"fmt"

	"github.com/ashenlk/tenant-keeper/internal/config"
	"github.com/ashenlk/tenant-keeper/internal/crypto"
	handlerhttp "github.com/ashenlk/tenant-keeper/internal/handler/http"
	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/internal/server"
	"github.com/ashenlk/tenant-keeper/internal/service"
	"github.com/ashenlk/tenant-keeper/internal/store"
	"github.com/ashenlk/tenant-keeper/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.New("tenant-keeper-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Str("address", cfg.Server.HTTPAddress).Msg("received configs")

	ctx := log.WithContext(context.Background())

	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err := migrations.Migrate(db.DB, db.Driver()); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	codec, err := crypto.NewPiiCodec(cfg.App.EncryptionSecret, cfg.App.EncryptionSalt)
	if err != nil {
		log.Fatal().Err(err).Msg("error deriving encryption keys")
	}

	repos := store.NewRepositories(db, log)
	services := service.NewServices(repos, codec, log)

	// Counters must cover every persisted id before the first allocation.
	if err := services.ResyncSequences(ctx); err != nil {
		log.Fatal().Err(err).Msg("error resyncing sequence counters")
	}

	handler := handlerhttp.NewHandler(services, log)

	srv, err := server.NewServer(handler.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
