package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"clubhub/cmd/buildCFG"
	"clubhub/internal/api/api"
	rabbitReader "clubhub/internal/consumerWorker"
	"clubhub/internal/notify"
	"clubhub/internal/rabbit"
	"clubhub/internal/repo"
	"clubhub/internal/schemacheck"
	"clubhub/internal/service"
)

func main() {
	zlog.Init()
	log := zlog.Logger

	cfg := config.New()
	if err := cfg.Load("config.yaml", "", "'"); err != nil {
		log.Fatal().Msgf("failed to load configuration: %v", err)
	}
	serverCfg := buildCFG.BuildServerConfig(cfg, &log)
	port := serverCfg.Port

	masterDSN, slaveDSNs, poolOptions, err := buildCFG.BuildDBConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build DB config")
	}
	db, err := dbpg.New(masterDSN, slaveDSNs, poolOptions)
	if err != nil {
		log.Fatal().Msgf("failed to connect to DB: %v", err)
	}
	if err := db.Master.Ping(); err != nil {
		log.Fatal().Msgf("DB ping failed: %v", err)
	}
	log.Info().Msg("Database connected successfully")

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot get working directory")
	}
	migrationPath := filepath.Join(cwd, "migrations/postgres")
	if err := repo.RunMigrations(masterDSN, migrationPath, &log); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	repository, err := repo.NewRepository(db, &log)
	if err != nil {
		log.Fatal().Msgf("failed to initialize repository: %v", err)
	}

	// Defensive pass behind the migration ledger: any drift left by older
	// deployments is corrected additively before handlers run.
	checker := schemacheck.New(db, &log)
	report, err := checker.Run(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("schema check failed")
	}
	for _, action := range report.Actions {
		log.Warn().Str("action", action).Msg("schema drift corrected")
	}
	for _, schemaErr := range report.Errors {
		log.Error().Str("error", schemaErr).Msg("schema check error")
	}

	notifyCfg := buildCFG.BuildNotifyConfig(cfg, &log)
	smtpCfg := buildCFG.BuildSMTPConfig(cfg, &log)

	renderer := notify.NewRenderer(notifyCfg.Locale, notifyCfg.BaseURL, &log)
	mailer := notify.NewSMTPMailer(smtpCfg, &log)
	links := notify.NewLinkBuilder(notifyCfg.DefaultCountryCode)
	sender := notify.NewSender(repository, mailer, links, renderer, &log)

	rabbitCfg, err := buildCFG.BuildRabbitConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load RabbitMQ config")
	}
	rmq, err := rabbit.New(rabbitCfg.Url, rabbitCfg.Exchange, rabbitCfg.Queue, &log)
	if err != nil {
		log.Fatal().Msgf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rmq.Close()

	workerCtx, cancelWorkers := context.WithCancel(context.Background())

	rabbitReaderer := rabbitReader.NewReader(rmq, repository, sender)
	go rabbitReaderer.Start(workerCtx)

	serviceInstance := service.NewService(repository, &log, rmq, sender, renderer, checker)
	app := api.NewRouters(&api.Routers{Service: serviceInstance})

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", port)
		if err := app.Run(":" + port); err != nil {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErrChan:
		log.Error().Msgf("Server error: %v", err)
	}

	cancelWorkers()
	rabbitReaderer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if closer, ok := interface{}(app).(interface{ Close(context.Context) error }); ok {
		if err := closer.Close(shutdownCtx); err != nil {
			log.Error().Msgf("Error shutting down server: %v", err)
		}
	}

	log.Info().Msg("Shutdown complete")
}
