package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/lifeclover-platform/lifeclover/internal/config"
	"github.com/lifeclover-platform/lifeclover/internal/database"
	"github.com/lifeclover-platform/lifeclover/internal/dedup"
	"github.com/lifeclover-platform/lifeclover/internal/embeddings"
	"github.com/lifeclover-platform/lifeclover/internal/events"
	"github.com/lifeclover-platform/lifeclover/internal/llm"
	"github.com/lifeclover-platform/lifeclover/internal/orchestrator"
	iredis "github.com/lifeclover-platform/lifeclover/internal/redis"
	"github.com/lifeclover-platform/lifeclover/internal/server"
	"github.com/lifeclover-platform/lifeclover/internal/session"
	"github.com/lifeclover-platform/lifeclover/internal/tools"
	"github.com/lifeclover-platform/lifeclover/internal/vector"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	ctx := context.Background()

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("connecting to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(cfg.DB.DSN(), cfg.Migrations.Path); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// NATS JetStream
	natsClient, err := events.NewClient(ctx, cfg.NATS)
	if err != nil {
		slog.Error("connecting to nats", "error", err)
		os.Exit(1)
	}
	defer natsClient.Close()

	// Model-side clients
	chatClient := llm.NewOpenAI(cfg.LLM)
	embedder := embeddings.NewOpenAI(cfg.Embeddings)
	index := vector.NewPostgresIndex(pool)

	// Session store
	var store session.Store
	switch cfg.Session.Backend {
	case "redis":
		store = session.NewRedisStore(redisClient)
	default:
		store = session.NewPostgresStore(pool)
	}

	// Seen-sets for recommendations and questions
	var seen dedup.Store
	switch cfg.Dedup.Backend {
	case "memory":
		memSeen := dedup.NewMemoryStore(cfg.Dedup.TTL)
		defer memSeen.Close()
		seen = memSeen
	default:
		seen = dedup.NewRedisStore(redisClient, cfg.Dedup.TTL)
	}

	// Tool registries
	rules := tools.LoadRules(cfg.Dialog.RulesPath)
	companion := tools.NewRegistry()
	companion.Register(tools.NewRecommendTool(embedder, index, seen, rules))
	companion.Register(tools.NewQuestionsTool(embedder, index, seen))
	information := tools.NewRegistry()
	for _, tool := range tools.NewInfoSearchTools(embedder, index) {
		information.Register(tool)
	}

	// Engine
	publisher := events.NewPublisher(natsClient.JetStream())
	engine := orchestrator.NewEngine(
		store,
		chatClient,
		orchestrator.NewRouter(companion, information),
		orchestrator.NewExecutor(chatClient, cfg.Dialog.ToolTimeout),
		orchestrator.NewWelcomePolicy(cfg.Dialog.WelcomeCooldown),
		publisher,
		cfg.Dialog,
	)

	// Dialog intake
	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()

	consumer := events.NewDialogConsumer(natsClient, publisher, engine, store)
	go func() {
		if err := consumer.Start(consumerCtx); err != nil {
			slog.Error("dialog consumer stopped", "error", err)
		}
	}()

	// Ops server, blocks until SIGINT/SIGTERM
	router := server.NewRouter(pool, redisClient, natsClient)
	srv := server.New(cfg.Server, router)
	if err := srv.Start(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
