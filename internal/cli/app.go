// Package cli holds the commands of the controle-prazos binary
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/promotoria-nhamunda/controle-prazos/internal/assistant"
	"github.com/promotoria-nhamunda/controle-prazos/internal/cache"
	"github.com/promotoria-nhamunda/controle-prazos/internal/config"
	"github.com/promotoria-nhamunda/controle-prazos/internal/database"
	"github.com/promotoria-nhamunda/controle-prazos/internal/extraction"
	"github.com/promotoria-nhamunda/controle-prazos/internal/gemini"
	"github.com/promotoria-nhamunda/controle-prazos/internal/storage"
	"github.com/promotoria-nhamunda/controle-prazos/internal/store"
	"github.com/promotoria-nhamunda/controle-prazos/pkg/logger"
)

// app is the wired set of services shared by the commands
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	backend   *database.Backend
	store     *store.Store
	cache     cache.Cache
	extractor extraction.Extractor
	assistant *assistant.Assistant
	closers   []io.Closer
}

// bootstrap loads the configuration and opens the local database
func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	backend := database.NewBackend(db)
	repo := storage.NewRepository(backend, log, cfg.SeedData)

	return &app{
		cfg:     cfg,
		log:     log,
		backend: backend,
		store:   store.New(repo, log),
	}, nil
}

// withExtraction wires the extractor and the assistant. Without an API key
// deadlines are read from HTML listings and pasted text with patterns, and
// the assistant stays disabled.
func (a *app) withExtraction(ctx context.Context) error {
	var inner extraction.Extractor

	if a.cfg.AIEnabled() {
		models, err := gemini.NewGenerator(ctx, a.cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create AI client: %w", err)
		}
		inner = extraction.NewGeminiExtractor(models, a.cfg.ExtractionModel, a.cfg.ExtractionTimeout, a.log)
		a.assistant = assistant.New(models, a.cfg.ExtractionModel, a.cfg.ChatModel, a.log)
	} else {
		a.log.Warn("GEMINI_API_KEY not set, using pattern extraction for deadlines only")
		rows := extraction.NewBrowserRows(a.cfg.HeadlessMode, a.cfg.BrowserPath, a.log)
		inner = extraction.NewPatternExtractor(rows, a.log)
		a.closers = append(a.closers, rows)
	}

	a.cache = cache.NewCache(a.cfg.CacheSize, a.cfg.CacheTTL)
	a.extractor = extraction.NewCachedExtractor(inner, a.cache, cache.GenerateCacheKey, a.log)
	return nil
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn("Failed to release resource", "error", err)
		}
	}
	a.log.Sync()
}
