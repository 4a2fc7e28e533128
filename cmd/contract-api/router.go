// Package main provides the API router setup.
package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/clausewise/contract-engine/cmd/contract-api/handlers"
	"github.com/clausewise/contract-engine/cmd/contract-api/middleware"
	"github.com/clausewise/contract-engine/internal/config"
	"github.com/clausewise/contract-engine/internal/extract"
	"github.com/clausewise/contract-engine/internal/llm"
	"github.com/clausewise/contract-engine/internal/observability"
	"github.com/clausewise/contract-engine/internal/ocr"
	"github.com/clausewise/contract-engine/internal/query"
	"github.com/clausewise/contract-engine/internal/session"
)

// NewRouter wires the full service and returns the HTTP handler plus the
// session store for shutdown.
func NewRouter(logger *observability.Logger, cfg *config.Config) (http.Handler, session.Store, error) {
	client, err := llm.NewClient(llm.Config{
		APIKey:     cfg.LLM.APIKey,
		Model:      cfg.LLM.Model,
		BaseURL:    cfg.LLM.BaseURL,
		Timeout:    cfg.LLM.Timeout,
		MaxRetries: cfg.LLM.MaxRetries,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create llm client: %w", err)
	}

	sessions, err := newSessionStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create session store: %w", err)
	}

	fallback := ocr.NewAdapter(client, ocr.Config{
		Enabled:       cfg.Extraction.OCR.Enabled,
		MaxPages:      cfg.Extraction.OCR.MaxPages,
		ImageQuality:  cfg.Extraction.OCR.ImageQuality,
		MinTextLength: cfg.Extraction.MinTextLength,
	}, logger)

	cascade := extract.NewCascade(cfg.Extraction.MinTextLength, fallback, logger)
	queries := query.NewService(client, sessions, logger)

	documentHandler := handlers.NewDocumentHandler(logger, cascade, sessions, cfg.Server.MaxUploadBytes)
	analysisHandler := handlers.NewAnalysisHandler(logger, queries)
	chatHandler := handlers.NewChatHandler(logger, queries)
	rewriteHandler := handlers.NewRewriteHandler(logger, queries)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(cfg.Server.WriteTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"contract-engine"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/documents", documentHandler.Upload)

		r.Route("/sessions/{sessionId}", func(r chi.Router) {
			r.Post("/analyze", analysisHandler.Analyze)
			r.Post("/chat", chatHandler.Chat)
		})

		r.Post("/rewrite", rewriteHandler.Rewrite)
	})

	return r, sessions, nil
}

// newSessionStore builds the configured session store driver.
func newSessionStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Sessions.Driver {
	case "redis":
		return session.NewRedisStore(session.RedisConfig{
			Addr:     cfg.Sessions.Redis.Addr,
			Password: cfg.Sessions.Redis.Password,
			DB:       cfg.Sessions.Redis.DB,
			PoolSize: cfg.Sessions.Redis.PoolSize,
			TTL:      cfg.Sessions.TTL,
		})
	default:
		return session.NewMemoryStore(), nil
	}
}
