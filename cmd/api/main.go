package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jwebster45206/dungeon-engine/internal/combat"
	"github.com/jwebster45206/dungeon-engine/internal/config"
	"github.com/jwebster45206/dungeon-engine/internal/engine"
	"github.com/jwebster45206/dungeon-engine/internal/forge"
	"github.com/jwebster45206/dungeon-engine/internal/handlers"
	"github.com/jwebster45206/dungeon-engine/internal/interpreter"
	"github.com/jwebster45206/dungeon-engine/internal/logger"
	"github.com/jwebster45206/dungeon-engine/internal/narrator"
	"github.com/jwebster45206/dungeon-engine/internal/resolver"
	"github.com/jwebster45206/dungeon-engine/internal/services"
	"github.com/jwebster45206/dungeon-engine/internal/storage"
	"github.com/jwebster45206/dungeon-engine/pkg/dice"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Dungeon Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	var llm services.TextService
	switch strings.ToLower(cfg.LLMProvider) {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Error("Anthropic API key is required when using anthropic provider")
			os.Exit(1)
		}
		llm = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, log)
		log.Info("Using Anthropic LLM provider")
	case "ollama":
		llm = services.NewOllamaService(cfg.OllamaURL, cfg.ModelName, log)
		log.Info("Using Ollama LLM provider")
	default:
		log.Error("Invalid LLM provider specified",
			"provider", cfg.LLMProvider, "supported", []string{"anthropic", "ollama"})
		os.Exit(1)
	}

	store := storage.NewRedisStorage(cfg.RedisURL, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}

	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer initCancel()
	if err := llm.InitModel(initCtx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	roller := dice.NewSource(time.Now().UnixNano())
	e := engine.New(
		interpreter.NewGateway(llm, log),
		resolver.New(forge.New(llm, log), roller, log),
		narrator.New(llm, roller, log),
		combat.New(roller, log),
		roller,
		log,
	)

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(store, log))

	gameStateHandler := handlers.NewGameStateHandler(store, log)
	mux.Handle("/v1/gamestate", gameStateHandler)
	mux.Handle("/v1/gamestate/", gameStateHandler)

	mux.Handle("/v1/action", handlers.NewActionHandler(e, store, log))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
