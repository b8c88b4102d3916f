package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"investigation-server/internal/auth"
	"investigation-server/internal/catalog"
	"investigation-server/internal/config"
	"investigation-server/internal/database"
	"investigation-server/internal/events"
	"investigation-server/internal/game"
	"investigation-server/internal/handler"
	"investigation-server/internal/logger"
	"investigation-server/internal/messaging"
	"investigation-server/internal/photography"
	"investigation-server/internal/repository"
	"investigation-server/internal/service"
	"investigation-server/internal/storage"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	issueToken := flag.String("issue-token", "", "print a one-day JWT for the given player UUID and exit")
	flag.Parse()

	// .env нужен только для локального запуска
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	verifier, err := auth.NewJWTVerifier(cfg.JWTSecret, log)
	if err != nil {
		log.Fatal("Failed to create JWT verifier", zap.Error(err))
	}
	if *issueToken != "" {
		printToken(verifier, *issueToken)
		return
	}

	log.Info("Starting investigation-server", cfg.LogFields()...)

	cat, err := loadCatalog(cfg.ContentPath)
	if err != nil {
		log.Fatal("Failed to load content catalog", zap.Error(err))
	}
	rules, err := catalog.LoadRules(cfg.RulesPath)
	if err != nil {
		log.Fatal("Failed to load gameplay rules", zap.Error(err))
	}
	log.Info("Content loaded",
		zap.String("startScene", cat.StartScene()),
		zap.Strings("scenes", cat.SceneNames()),
		zap.Int("maxPhotosPerDay", rules.MaxPhotosPerDay))

	ctx := context.Background()

	repo, closeRepo := setupRepository(ctx, cfg, log)
	defer closeRepo()

	photos := setupPhotoStore(ctx, cfg, log)

	broker, closeBroker := setupEventBroker(cfg, log)
	defer closeBroker()

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	hub := handler.NewHub(log)
	go hub.Run(hubCtx)

	sink := events.FanOut{hub}
	if broker != nil {
		sink = append(sink, broker)
	}

	gameService := service.NewGameService(repo, game.NewRegistry(), sink, game.Deps{
		Catalog: cat,
		Rules:   rules,
		Photos:  photos,
		Clock:   time.Now,
		Logger:  log,
	}, log)

	e := handler.NewEcho(handler.NewGameHandler(gameService, verifier, hub, log), log)

	go func() {
		log.Info("HTTP server listening", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down investigation-server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown of HTTP server failed", zap.Error(err))
	}
	stopHub()
	log.Info("investigation-server stopped")
}

func printToken(v *auth.JWTVerifier, raw string) {
	id, err := uuid.Parse(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid player id %q: %v\n", raw, err)
		os.Exit(2)
	}
	token, err := v.IssueToken(id, 24*time.Hour)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.LoadDefault()
	}
	return catalog.LoadFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// setupRepository выбирает хранилище сессий: PostgreSQL с Redis-кэшем
// или память процесса, если БД не настроена.
func setupRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.SessionRepository, func()) {
	if !cfg.DatabaseEnabled() {
		log.Warn("DB_HOST is not set, sessions are kept in memory")
		return repository.NewMemorySessionRepository(), func() {}
	}

	if cfg.DBCreateIfMissing {
		if err := database.EnsureDatabase(ctx, cfg.AdminDSN(), cfg.DBName, log); err != nil {
			log.Fatal("Failed to ensure database exists", zap.Error(err))
		}
	}
	pool, err := database.NewPool(ctx, database.PoolConfig{
		DSN:         cfg.GetDSN(),
		MaxConns:    cfg.DBMaxConns,
		IdleTimeout: cfg.DBIdleTimeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.NewMigrator(pool, log).Up(ctx); err != nil {
		pool.Close()
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	var repo repository.SessionRepository = repository.NewPgSessionRepository(pool, log)
	if !cfg.CacheEnabled() {
		return repo, pool.Close
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis is unavailable, session cache disabled", zap.Error(err))
		_ = rdb.Close()
		return repo, pool.Close
	}
	log.Info("Session cache enabled", zap.String("addr", cfg.RedisAddr))
	repo = repository.NewCachedSessionRepository(repo, rdb, cfg.RedisCacheTTL, log)
	return repo, func() {
		_ = rdb.Close()
		pool.Close()
	}
}

func setupPhotoStore(ctx context.Context, cfg *config.Config, log *zap.Logger) photography.PhotoStore {
	if !cfg.MinioEnabled() {
		log.Warn("MINIO_ENDPOINT is not set, photos are kept in memory")
		return storage.NewMemoryPhotoStore()
	}
	store, err := storage.NewMinioPhotoStore(ctx, storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
		URLExpiry: cfg.PhotoURLExpiry,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize photo storage", zap.Error(err))
	}
	return store
}

// setupEventBroker возвращает nil-приемник, если брокер отключен.
func setupEventBroker(cfg *config.Config, log *zap.Logger) (events.Sink, func()) {
	switch cfg.EventBroker {
	case config.BrokerRabbitMQ:
		conn, err := messaging.ConnectRabbitMQ(cfg.RabbitMQURL, 5, 5*time.Second, log)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		pub, err := messaging.NewRabbitMQPublisher(conn, cfg.EventsQueue, log)
		if err != nil {
			_ = conn.Close()
			log.Fatal("Failed to create RabbitMQ publisher", zap.Error(err))
		}
		log.Info("Publishing game events to RabbitMQ", zap.String("queue", cfg.EventsQueue))
		return pub, func() {
			_ = pub.Close()
			_ = conn.Close()
		}
	case config.BrokerKafka:
		pub := messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		log.Info("Publishing game events to Kafka", zap.String("topic", cfg.KafkaTopic))
		return pub, func() { _ = pub.Close() }
	default:
		log.Warn("Event broker disabled, events go to WebSocket clients only")
		return nil, func() {}
	}
}
