package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/cubdefi/farmboard/internal/config"
	"github.com/cubdefi/farmboard/internal/datafetcher"
	"github.com/cubdefi/farmboard/internal/engine"
	"github.com/cubdefi/farmboard/internal/logger"
	"github.com/cubdefi/farmboard/internal/state"
	"github.com/cubdefi/farmboard/internal/web"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// main is the entry point for the farmboard service.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	// Load configuration from environment variables
	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("Farmboard starting...")

	// Load the static farm registry for the configured chain
	registry, err := config.LoadFarms(config.Chain)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load farm registry")
	}
	log.Info().Int("farms", len(registry)).Msg("Farm registry loaded")

	// Initialize Database Connection (refresh-cycle history, optional)
	var history engine.CycleStore
	useHistory := os.Getenv("DB_HOST") != ""
	if useHistory {
		dbCfg := state.DBConfig{
			Host: os.Getenv("DB_HOST"), Port: mustAtoi(os.Getenv("DB_PORT"), 5432),
			User: os.Getenv("DB_USER"), Password: os.Getenv("DB_PASSWORD"),
			DBName: os.Getenv("DB_NAME"), SSLMode: os.Getenv("DB_SSLMODE"),
		}
		if err := state.InitDB(dbCfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer state.CloseDB()
		if err := state.EnsureSchema(); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure database schema")
		}
		history = state.History{}
	} else {
		log.Info().Msg("DB_HOST not set, refresh history disabled")
	}

	// --- 2. Data Source Initialization ---
	publicSource, err := datafetcher.NewFarmStatsClient(config.FarmStatsAPI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create farm stats client")
	}
	userSource, err := datafetcher.NewUserStatsClient(config.UserStatsAPI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create user stats client")
	}
	priceSource, err := datafetcher.NewPriceClient(config.PriceAPI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create price client")
	}

	// --- 3. Create Engine Instance with Dependency Injection ---
	engineConfig := engine.Config{
		Chain:          config.Chain,
		Registry:       registry,
		Archived:       config.ArchivedPoolIDs,
		RewardToken:    config.TokenCub,
		PublicSource:   publicSource,
		UserSource:     userSource,
		PriceSource:    priceSource,
		History:        history,
		PublicInterval: config.PublicRefreshInterval,
		UserInterval:   config.UserRefreshInterval,
		WindowSize:     config.VisibleWindow,
	}

	eng, err := engine.New(engineConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create farm engine")
	}

	// --- 4. Start Web Server ---
	webPort := os.Getenv("WEB_PORT")
	if webPort == "" {
		webPort = "8080"
	}

	webServer := web.NewWebServer(webPort, eng, useHistory)
	go func() {
		log.Info().Str("port", webPort).Str("url", "http://localhost:"+webPort).Msg("Starting farmboard API server")
		if err := webServer.Start(); err != nil {
			log.Error().Err(err).Msg("Web server failed to start")
		}
	}()

	// --- 5. Start Refresh Loops ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng.RunLoop(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("Shutting down")
}

// Helper to convert string to int with a default value
func mustAtoi(s string, defaultValue int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return i
}
