package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/plantworks/backend/internal/ai"
	"github.com/plantworks/backend/internal/config"
	"github.com/plantworks/backend/internal/db"
	httpapi "github.com/plantworks/backend/internal/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "maintenance-backend").Logger()

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	var assistant ai.Assistant
	if cfg.AssistantBaseURL == "" {
		assistant = ai.MockAssistant{ModelVersion: "mock-v1"}
		logger.Info().Msg("using mock assistant")
	} else {
		assistant = ai.OpenAICompatAssistant{
			BaseURL:   cfg.AssistantBaseURL,
			Model:     cfg.AssistantModel,
			APIKey:    cfg.AssistantAPIKey,
			MaxTokens: cfg.AssistantMaxTokens,
		}
	}

	router := httpapi.Router(cfg, store, assistant, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
