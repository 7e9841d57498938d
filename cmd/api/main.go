package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"anglegen/internal/catalog"
	"anglegen/internal/genai"
	"anglegen/internal/generation"
	"anglegen/internal/http/handlers"
	httpapi "anglegen/internal/http/httpapi"
	"anglegen/internal/i18n"
	"anglegen/internal/infra"
	"anglegen/internal/infra/geoip"
	"anglegen/internal/sessions"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	// Fail boot on an incomplete translation catalog or angle/style table
	// instead of surfacing blanks at request time.
	if err := i18n.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("translation catalog is inconsistent")
	}
	if err := catalog.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("angle/style catalog is inconsistent")
	}

	countries, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	if countries == nil {
		logger.Info().Msg("geoip database not configured, locale falls back to headers")
	}

	client := genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  &logger,
	})
	orchestrator := generation.NewOrchestrator(client, logger)

	store := sessions.NewStore(sessions.Options{
		TTL:    cfg.SessionTTL,
		Logger: logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.StartCleanup(ctx)

	app := handlers.NewApp(store, orchestrator, cfg, logger)
	router := httpapi.NewRouter(app, countries)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("model", client.Model()).Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
