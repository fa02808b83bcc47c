package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/rpupo63/consultancy-site-backend/api"
	"github.com/rpupo63/consultancy-site-backend/config"
	"github.com/rpupo63/consultancy-site-backend/database"
	"github.com/rpupo63/consultancy-site-backend/models"
	"github.com/rpupo63/consultancy-site-backend/services"
	"github.com/rpupo63/consultancy-site-backend/storage"
)

func main() {
	c := config.New()
	setupLogging(c)
	log.Info().Msg("Initializing app...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := config.LoadSSM(ctx, c); err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration from SSM")
	}

	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	if config.GetBool(c, "AUTO_MIGRATE", false) {
		log.Info().Msg("Running migrations...")
		if err := models.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Error running migrations")
		}
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		models.GenerateModels(db)
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		models.GenerateColumnMismatchReportStandalone(db)
		return
	}

	currentDB := database.New(db)
	deps := api.Dependencies{
		Stores: api.StoresFrom(currentDB),
		DB:     currentDB,
	}

	if storageConfigured(c) {
		uploader, err := storage.New(ctx, c)
		if err != nil {
			log.Fatal().Err(err).Msg("Error configuring object storage")
		}
		deps.Uploader = uploader
	} else {
		log.Warn().Msg("Object storage is not configured, file uploads are disabled")
	}

	mailer, err := services.NewMailer(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring mail transport")
	}
	sms := services.NewSMSNotifier(c)
	if mailer != nil || sms != nil {
		deps.Notifier = services.NewContactNotifier(mailer, sms, config.GetStrings(c, "CONTACT_NOTIFY_EMAIL"))
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(c, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// setupLogging applies LOG_LEVEL and uses a console writer outside production
func setupLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if !config.IsProduction(c) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func storageConfigured(c map[string]string) bool {
	for _, key := range []string{"STORAGE_ENDPOINT", "SUPABASE_URL", "STORAGE_ACCESS_KEY_ID"} {
		if config.GetString(c, key, "") != "" {
			return true
		}
	}
	return false
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
