package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpapi "bouquet/internal/http"
	"bouquet/internal/http/handlers"
	"bouquet/internal/infra"
	"bouquet/internal/merge"
	"bouquet/internal/providers"
	"bouquet/internal/providers/gemini"
	"bouquet/internal/providers/openai"
	"bouquet/internal/providers/static"
	"bouquet/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.Debug)

	store, err := storage.NewTempStore(cfg.TempDir, cfg.PublicBaseURL+"/temp-generated-images", cfg.TempRetention, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare temp storage")
	}
	store.Sweep()

	var (
		describer providers.Describer
		text      providers.TextGenerator
		imageGen  providers.ImageGenerator
		composing providers.ImageComposer
	)

	if cfg.OpenAIAPIKey != "" {
		client, err := openai.NewClient(openai.Options{
			APIKey:       cfg.OpenAIAPIKey,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			VisionModel:  cfg.VisionModel,
			ChatModel:    cfg.ChatModel,
			HTTPClient:   &http.Client{Timeout: cfg.AITimeout},
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build openai client")
		}
		describer, text, imageGen = client, client, client
	} else {
		// Development without credentials runs on the deterministic backend.
		logger.Warn().Msg("OPENAI_API_KEY not set, using static backend")
		backend := static.NewBackend()
		describer, text, imageGen = backend, backend, backend
		composing = backend
	}

	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(context.Background(), gemini.Options{
			APIKey:     cfg.GeminiAPIKey,
			ImageModel: cfg.GeminiImageModel,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build gemini client")
		}
		composing = client
	}

	limits := merge.Limits{
		MinCount:     cfg.MinImagesPerRequest,
		MaxCount:     cfg.MaxImagesPerRequest,
		MaxFileSize:  cfg.MaxFileSize,
		MaxTotalSize: cfg.MaxRequestSize,
	}

	synthesizer := merge.NewSynthesizer(imageGen, cfg.ImageModelPrimary, cfg.ImageModelFallback, store, logger)
	orchestrator := merge.NewOrchestrator(describer, text, synthesizer, merge.Options{
		Limits:       limits,
		ComposeStyle: cfg.ComposeStyle,
		Debug:        cfg.Debug,
	}, logger)

	var composer handlers.FlowerComposer
	if composing != nil {
		composer = merge.NewComposer(composing, store, cfg.MaxImagesPerRequest, logger)
	}

	app := handlers.NewApp(cfg, logger, orchestrator, composer)
	router := httpapi.NewRouter(app, logger, store.Dir())
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
