package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openai/openai-go/option"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ayush/exploring-space/internal/archive"
	"github.com/ayush/exploring-space/internal/article"
	"github.com/ayush/exploring-space/internal/chat"
	"github.com/ayush/exploring-space/internal/config"
	"github.com/ayush/exploring-space/internal/content"
	"github.com/ayush/exploring-space/internal/explore"
	"github.com/ayush/exploring-space/internal/inference"
	"github.com/ayush/exploring-space/internal/logging"
	"github.com/ayush/exploring-space/internal/metrics"
	"github.com/ayush/exploring-space/internal/nasa"
	"github.com/ayush/exploring-space/internal/server"
	"github.com/ayush/exploring-space/internal/session"
	"github.com/ayush/exploring-space/internal/store"
)

func main() {
	boot := zap.Must(zap.NewProduction())
	cfg, err := config.Load()
	if err != nil {
		boot.Fatal("load config", zap.Error(err))
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		boot.Fatal("build logger", zap.Error(err))
	}
	defer logger.Sync()

	ctx := context.Background()
	m := metrics.New(prometheus.DefaultRegisterer)
	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	// ── Redis ────────────────────────────────────────────────
	nasaOpts := []nasa.Option{nasa.WithHTTPClient(httpClient), nasa.WithMetrics(m), nasa.WithLogger(logger)}
	var states explore.StateStore = session.NewMemoryStore(cfg.SessionTTL)
	if cfg.RedisAddr == "" {
		logger.Info("redis not configured, using in-memory sessions and no NASA cache")
	} else {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("redis connect", zap.Error(err))
		}
		defer rdb.Close()
		nasaOpts = append(nasaOpts, nasa.WithCache(store.NewRedisCache(rdb), cfg.CacheTTL))
		states = session.NewRedisStore(rdb, cfg.SessionTTL)
	}

	// ── MongoDB ──────────────────────────────────────────────
	var articles archive.ArticleStore
	if cfg.MongoURI == "" {
		logger.Info("mongo not configured, article archive disabled")
	} else {
		mongoClient, err := store.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			logger.Fatal("mongo connect", zap.Error(err))
		}
		defer mongoClient.Disconnect(ctx)
		articles = store.NewMongoArchive(mongoClient.Database(cfg.MongoDB))
	}

	// ── MinIO ────────────────────────────────────────────────
	var files archive.FileStore
	if cfg.MinioEndpoint == "" {
		logger.Info("minio not configured, article snapshots disabled")
	} else {
		minioStore, err := store.NewMinioStore(
			ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
		)
		if err != nil {
			logger.Fatal("minio connect", zap.Error(err))
		}
		files = minioStore
	}

	// ── PostgreSQL ───────────────────────────────────────────
	var (
		searchLog *store.PostgresSearchLog
		orchOpts  = []explore.Option{explore.WithFanoutLimit(cfg.FanoutLimit)}
		recent    explore.RecentSearches
	)
	if cfg.PostgresDSN == "" {
		logger.Info("postgres not configured, search log disabled")
	} else {
		pool, err := store.NewPostgresPool(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Fatal("postgres connect", zap.Error(err))
		}
		defer pool.Close()
		searchLog = store.NewPostgresSearchLog(pool)
		if err := searchLog.Migrate(ctx); err != nil {
			logger.Fatal("postgres migrate", zap.Error(err))
		}
		orchOpts = append(orchOpts, explore.WithSearchLog(searchLog))
		recent = searchLog
	}

	// ── Text generation ──────────────────────────────────────
	var gen inference.Generator
	switch cfg.AIProvider {
	case "openai":
		var extra []option.RequestOption
		if cfg.UpstreamTimeout > 0 {
			extra = append(extra, option.WithRequestTimeout(cfg.UpstreamTimeout))
		}
		gen = inference.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, m, extra...)
	default:
		gen = inference.NewCloudflareClient(cfg.CFAPIURL, cfg.CFAccountID, cfg.CFAPIToken, cfg.AIModel, httpClient, m)
	}
	logger.Info("text generation", zap.String("provider", cfg.AIProvider))

	// ── Services ─────────────────────────────────────────────
	nasaClient := nasa.NewClient(cfg.NasaAPIURL, cfg.NasaImagesURL, cfg.NasaAPIKey, nasaOpts...)
	rnd := content.NewTimeRand()
	normalizer := content.NewNormalizer(nasaClient, nasaClient, rnd, logger, m)

	var synthOpts []article.Option
	if articles != nil {
		synthOpts = append(synthOpts, article.WithRecorder(archive.NewRecorder(articles, files, logger)))
	}
	synth := article.NewSynthesizer(gen, logger, m, synthOpts...)
	orch := explore.NewOrchestrator(normalizer, synth, rnd, logger, orchOpts...)

	// ── Router ───────────────────────────────────────────────
	router := server.NewRouter(server.Deps{
		Nasa:       nasa.NewHandler(nasaClient, logger),
		Article:    article.NewHandler(synth, logger),
		Chat:       chat.NewHandler(gen, logger),
		Explore:    explore.NewHandler(orch, states, recent, logger),
		Archive:    archive.NewHandler(articles, files, logger),
		Metrics:    m,
		Gatherer:   prometheus.DefaultGatherer,
		Logger:     logger,
		Origins:    cfg.Origins(),
		SessionTTL: cfg.SessionTTL,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}

	go func() {
		logger.Info("backend listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
