package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/orb-ai/backend/internal/api/handlers"
	"github.com/orb-ai/backend/internal/embedding"
	"github.com/orb-ai/backend/internal/kb"
	"github.com/orb-ai/backend/internal/metrics"
	"github.com/orb-ai/backend/internal/middleware/validation"
	"github.com/orb-ai/backend/internal/nlu"
	"github.com/orb-ai/backend/internal/ranker"
	"github.com/orb-ai/backend/internal/resolver"
	"github.com/orb-ai/backend/internal/session"
	"github.com/orb-ai/backend/internal/storage/sqlite"
	"github.com/orb-ai/backend/pkg/config"
	appLogger "github.com/orb-ai/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting ORB AI API Server")

	metrics.Register()

	graph, err := kb.Load(cfg.Knowledge.Path)
	if err != nil {
		appLogger.Fatal("Failed to load knowledge graph", zap.Error(err))
	}
	appLogger.Info("Knowledge graph loaded", zap.Int("entities", graph.Len()))

	provider := buildProvider(cfg)

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	if err := sqliteClient.InitSchema(); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	analyzerTimeout := time.Duration(cfg.Embedding.TimeoutSec) * time.Second
	analyzer := nlu.NewAnalyzer(provider, analyzerTimeout)
	sessions := session.NewStore(cfg.Engine.AcceptThreshold, cfg.Session.MaxHistory)
	rk := ranker.NewRanker(provider, analyzerTimeout, cfg.Engine.TopK)

	engine := resolver.NewEngine(graph, analyzer, sessions, rk, sqliteClient,
		cfg.Engine.AcceptThreshold, cfg.Engine.SimilarityFloor)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(validation.Middleware(validation.Config{
		Logger: appLogger.GetLogger(),
	}))

	chatHandler := handlers.NewChatHandler(engine, sqliteClient)
	sessionHandler := handlers.NewSessionHandler(sessions)
	wsHandler := handlers.NewWebSocketHandler(engine)

	api := app.Group("/api/v1")

	api.Post("/chat", chatHandler.HandleChat)
	api.Get("/chat/history", chatHandler.GetHistory)

	api.Post("/sessions", sessionHandler.CreateSession)
	api.Get("/sessions/:id/summary", sessionHandler.GetSummary)
	api.Delete("/sessions/:id", sessionHandler.DeleteSession)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.Handler())

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", websocket.New(wsHandler.HandleConnection))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}

// buildProvider wires the configured embedding backend. The local provider
// needs no credentials and is the default; OpenAI gets the Redis cache in
// front of it when Redis is enabled.
func buildProvider(cfg *config.Config) embedding.Provider {
	if cfg.Embedding.Provider != "openai" {
		return embedding.NewLocalProvider(cfg.Embedding.Dimension)
	}

	var cache *embedding.Cache
	if cfg.Redis.Enabled {
		var err error
		cache, err = embedding.NewCache(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Embedding.CacheTTL)*time.Second,
		)
		if err != nil {
			appLogger.Warn("Failed to connect to Redis, embedding cache disabled", zap.Error(err))
			cache = nil
		}
	}

	return embedding.NewOpenAIProvider(
		cfg.Embedding.APIKey,
		cfg.Embedding.Model,
		cfg.Embedding.Dimension,
		cfg.Embedding.TimeoutSec,
		cache,
	)
}
