package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/peroute/hackwest-project/internal/config"
	dbRedis "github.com/peroute/hackwest-project/internal/db/redis"
	"github.com/peroute/hackwest-project/internal/db/sqldb"
	"github.com/peroute/hackwest-project/internal/domain"
	"github.com/peroute/hackwest-project/internal/domain/resource"
	logpkg "github.com/peroute/hackwest-project/internal/logger"
	"github.com/peroute/hackwest-project/internal/metrics"
	"github.com/peroute/hackwest-project/internal/repository/embcache"
	questionrepo "github.com/peroute/hackwest-project/internal/repository/question"
	resrepo "github.com/peroute/hackwest-project/internal/repository/resource"
	searchlogrepo "github.com/peroute/hackwest-project/internal/repository/searchlog"
	userrepo "github.com/peroute/hackwest-project/internal/repository/user"
	openaiTransport "github.com/peroute/hackwest-project/internal/transport/openai"
	analyticsuc "github.com/peroute/hackwest-project/internal/usecase/analytics"
	"github.com/peroute/hackwest-project/internal/usecase/answer"
	askuc "github.com/peroute/hackwest-project/internal/usecase/ask"
	cataloguc "github.com/peroute/hackwest-project/internal/usecase/catalog"
	conversationuc "github.com/peroute/hackwest-project/internal/usecase/conversation"
	embeddinguc "github.com/peroute/hackwest-project/internal/usecase/embedding"
	healthuc "github.com/peroute/hackwest-project/internal/usecase/health"
	intentuc "github.com/peroute/hackwest-project/internal/usecase/intent"
	"github.com/peroute/hackwest-project/internal/usecase/retrieval"
	useruc "github.com/peroute/hackwest-project/internal/usecase/user"
)

// resourceStore is what both document store drivers provide.
type resourceStore interface {
	cataloguc.Repository
	Candidates(ctx context.Context, n int) ([]resource.Resource, error)
}

// app is the composition root shared by the subcommands.
type app struct {
	cfg    config.Config
	env    string
	logger *zap.Logger

	db        *sqldb.DB
	redis     *dbRedis.Store // nil for the memory driver
	resources resourceStore
	docstore  healthuc.Pinger

	embedder  *embeddinguc.Service
	completer *openaiTransport.Completer // nil when no AI provider is configured

	conversation *conversationuc.Service
	catalog      *cataloguc.Service
	ask          *askuc.Service
	users        *useruc.Service
	analytics    *analyticsuc.Service
	health       *healthuc.Service
}

// loadConfig reads the environment's config file and builds the logger.
func loadConfig(env string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}

// newApp opens the stores and wires every service.
func newApp(ctx context.Context, env string) (*app, error) {
	cfg, logger, err := loadConfig(env)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, env: env, logger: logger}

	a.db, err = sqldb.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := a.openDocStore(ctx); err != nil {
		a.close()
		return nil, err
	}

	metrics.RegisterPipelineMetrics()

	a.embedder = embeddinguc.New(a.buildModelEmbedder(), cfg.Embedding.Dimensions, logger)

	// Pass a nil interface, not a typed nil pointer, when AI is off.
	var completer answer.Completer
	if cfg.AI.Provider == "openai" {
		a.completer = openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
			APIKey:      cfg.AI.APIKey,
			BaseURL:     cfg.AI.BaseURL,
			Model:       cfg.AI.Model,
			MaxTokens:   cfg.AI.MaxTokens,
			Temperature: cfg.AI.Temperature,
			Logger:      logger,
		})
		completer = a.completer
	}

	turns := questionrepo.New(a.db)
	logs := searchlogrepo.New(a.db)
	users := userrepo.New(a.db)

	scorer := retrieval.NewScorer(cfg.Retrieval.CategoryTerms, cfg.Retrieval.KeyTerms)
	retriever := retrieval.New(a.resources, scorer, cfg.Retrieval.MaxCandidates)

	a.conversation = conversationuc.New(turns, cfg.Conversation.AnswerBudget, logger)
	a.catalog = cataloguc.New(a.resources, a.embedder, retriever, logger).
		WithPagination(cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize).
		WithMaxBatchSize(cfg.Catalog.MaxBatchSize)
	a.ask = askuc.New(
		intentuc.NewClassifier(cfg.Intent.Greetings, cfg.Intent.ResourcePhrases, cfg.Intent.EducationalPhrases),
		retriever,
		a.conversation,
		answer.New(completer, time.Duration(cfg.AI.TimeoutSec)*time.Second, logger),
		turns, logs, logger,
	).
		WithRetrieval(cfg.Retrieval.AskLimit, cfg.Retrieval.AskThreshold).
		WithMaxTurns(cfg.Conversation.MaxTurns)
	a.users = useruc.New(users).WithPagination(cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize)
	a.analytics = analyticsuc.New(turns, logs, users, a.resources)

	a.health = healthuc.New(a.db, a.docstore)
	if a.completer != nil {
		a.health = a.health.WithAI(a.completer)
	}
	if cfg.Embedding.Provider == "openai" {
		a.health = a.health.WithEmbedding(a.embedder)
	}

	return a, nil
}

func (a *app) openDocStore(ctx context.Context) error {
	cfg := a.cfg.DocStore
	switch cfg.Driver {
	case "redis":
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Addrs,
			Username:  cfg.Username,
			Password:  cfg.Password,
			DB:        cfg.DB,
			ScanCount: cfg.ScanCount,
		})
		if err != nil {
			return fmt.Errorf("create docstore: %w", err)
		}
		if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
			store.Close()
			return fmt.Errorf("docstore not ready: %w", err)
		}
		a.redis = store
		a.resources = resrepo.New(store, cfg.KeyPrefix)
		a.docstore = store
		a.logger.Info("Connected to docstore", zap.Strings("addrs", cfg.Addrs))
	default:
		mem := resrepo.NewMemory()
		a.resources = mem
		a.docstore = mem
		a.logger.Warn("Using in-memory docstore, resources are lost on restart")
	}
	return nil
}

// buildModelEmbedder assembles OpenAI -> Cached. Returns nil when no model is configured.
func (a *app) buildModelEmbedder() domain.Embedder {
	cfg := a.cfg.Embedding
	if cfg.Provider != "openai" {
		return nil
	}
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Logger:     a.logger,
	})
	if a.redis == nil || !cfg.Cache {
		return base
	}
	return embcache.New(base, a.redis, a.cfg.DocStore.KeyPrefix, cfg.Model, metrics.EmbeddingCacheTotal, a.logger).
		WithTTL(time.Duration(cfg.CacheTTLH) * time.Hour)
}

func (a *app) close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("Failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
