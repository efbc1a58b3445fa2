// Package app wires configuration into a ready dialogue engine.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/easeaico/project-integrate/internal/config"
	"github.com/easeaico/project-integrate/internal/dialogue"
	"github.com/easeaico/project-integrate/internal/emotion"
	"github.com/easeaico/project-integrate/internal/entity"
	"github.com/easeaico/project-integrate/internal/models"
	"github.com/easeaico/project-integrate/internal/practice"
	"github.com/easeaico/project-integrate/internal/prompt"
	"github.com/easeaico/project-integrate/internal/session"
	"github.com/easeaico/project-integrate/internal/storage"
)

// App holds the long-lived dependencies of a process.
type App struct {
	Config  config.Config
	Engine  *dialogue.Engine
	Library *practice.Library
	// Store is nil when no DATABASE_URL is configured.
	Store *storage.Store
}

// New builds the engine described by cfg. Sessions are kept in memory when
// cfg.DatabaseURL is empty.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	library, err := practice.LoadLibrary(cfg.PracticeLibrary)
	if err != nil {
		return nil, fmt.Errorf("failed to load practice library: %w", err)
	}

	llm, err := models.NewLLM(ctx, cfg.LLMProvider, cfg.LLMModel, cfg.APIKey())
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM model: %w", err)
	}

	keyword := emotion.NewKeywordClassifier()
	opts := dialogue.Options{
		Classifier:  keyword,
		Extractor:   entity.NewExtractor(),
		Recommender: practice.NewRecommender(library),
		Builder:     prompt.NewBuilder(cfg.HistoryTurns),
		MaxTokens:   cfg.MaxTokens,
		StallLimit:  cfg.StallLimit,
		Therapeutic: cfg.Therapeutic,
	}
	if llm != nil {
		opts.Completer = models.NewLLMCompleter(llm, cfg.RemoteTimeout)
		if cfg.Classifier == config.ClassifierModel {
			opts.Classifier = emotion.NewModelClassifier(llm, keyword, cfg.RemoteTimeout)
		}
		slog.Info("remote model configured", "provider", cfg.LLMProvider, "model", cfg.LLMModel)
	} else {
		slog.Info("no remote model configured, replies use the fallback table")
	}

	a := &App{Config: cfg, Library: library}
	var store session.Store
	if cfg.DatabaseURL != "" {
		a.Store, err = storage.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := a.Store.Migrate(ctx); err != nil {
			a.Store.Close()
			return nil, err
		}
		store = a.Store.Sessions
		slog.Info("session store ready", "driver", storage.Driver(cfg.DatabaseURL))
	} else {
		store = session.NewMemoryStore()
		slog.Info("DATABASE_URL not set, sessions are kept in memory")
	}

	a.Engine = dialogue.NewEngine(dialogue.NewGenerator(opts), store)
	return a, nil
}

// Close releases the database connection.
func (a *App) Close() {
	if a.Store != nil {
		a.Store.Close()
	}
}
