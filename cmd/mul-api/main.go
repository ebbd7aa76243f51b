package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	httpadapter "github.com/PabloGalante/mul/internal/adapters/http"
	"github.com/PabloGalante/mul/internal/adapters/llm"
	memstore "github.com/PabloGalante/mul/internal/adapters/storage/memory"
	"github.com/PabloGalante/mul/internal/app/companion"
	"github.com/PabloGalante/mul/internal/app/conversation"
	journalapp "github.com/PabloGalante/mul/internal/app/journal"
	"github.com/PabloGalante/mul/internal/audio"
	"github.com/PabloGalante/mul/internal/config"
	"github.com/PabloGalante/mul/internal/domain"
	"github.com/PabloGalante/mul/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	observability.Init(cfg.LogLevel)
	log := observability.Logger()

	if cfg.Mode == config.ModeCloud {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Conversation: mock, Gemini/Vertex, or fallbacks only
	convSvc := conversation.NewService(newLLMClient(ctx, cfg, log))
	if err := convSvc.InitializeSession(ctx); err != nil {
		log.Warn("chat session not ready, continuing on fallbacks", "error", err)
	}

	engine := audio.NewEngine(audio.WithSampleRate(cfg.SampleRate))
	scheduler := cron.New()

	session, err := companion.NewSession(cfg, companion.Deps{
		Conversation: convSvc,
		Sound:        engine,
		Messages:     memstore.NewMessageStore(),
		Todos:        memstore.NewTodoStore(),
		Journal:      journalapp.NewService(memstore.NewJournalStore(), nil, nil),
		Cron:         scheduler,
		Logger:       log,
	})
	if err != nil {
		log.Error("error creating companion session", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpadapter.NewServer(session, engine, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Mul API listening", "port", cfg.Port, "mode", cfg.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "error", err)
	}

	<-scheduler.Stop().Done()
	session.Close()
	engine.Stop()
	log.Info("bye")
}

// newLLMClient picks the model backend. A nil client is valid: the
// companion then answers with its fallback replies.
func newLLMClient(ctx context.Context, cfg *config.Config, log *slog.Logger) domain.LLMClient {
	if cfg.UseMockLLM {
		log.Info("using mock LLM client")
		return llm.NewMockLLM()
	}
	if !cfg.HasCredentials() {
		log.Warn("no model credentials configured", "backend", cfg.Backend)
		return nil
	}

	client, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		APIKey:    cfg.APIKey,
		Vertex:    cfg.Backend == config.BackendVertex,
		ProjectID: cfg.GCPProjectID,
		Location:  cfg.GCPLocation,
		ModelName: cfg.ModelName,
	})
	if err != nil {
		log.Error("error initializing Gemini client", "error", err)
		return nil
	}

	log.Info("using Gemini client", "backend", cfg.Backend, "model", cfg.ModelName)
	return client
}
