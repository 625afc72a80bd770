package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/scholarstream/scholarstream/internal/ai"
	"github.com/scholarstream/scholarstream/internal/api"
	"github.com/scholarstream/scholarstream/internal/config"
	"github.com/scholarstream/scholarstream/internal/discovery"
	"github.com/scholarstream/scholarstream/internal/enrich"
	"github.com/scholarstream/scholarstream/internal/jobs"
	"github.com/scholarstream/scholarstream/internal/logger"
	"github.com/scholarstream/scholarstream/internal/scrape"
	"github.com/scholarstream/scholarstream/internal/store"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	// Redis is optional. Without it everything runs in-process, which is
	// fine for a single instance but loses state on restart.
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = store.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
	}

	var (
		st      store.Store
		cache   enrich.Cache
		limiter enrich.Limiter
	)
	if redisClient != nil {
		st = store.NewRedisStore(redisClient, zlog)
		cache = enrich.NewRedisCache(redisClient)
		limiter = enrich.NewRedisLimiter(redisClient, cfg.AI.RateLimitPerHour)
		zlog.Info("using redis persistence")
	} else {
		st = store.NewMemoryStore()
		cache = enrich.NewMemoryCache()
		limiter = enrich.NewWindowLimiter(cfg.AI.RateLimitPerHour)
		zlog.Info("using in-memory persistence")
	}

	fetcher := scrape.NewHTTPFetcher(scrape.FetchConfig{
		TimeoutSeconds: cfg.Scraper.TimeoutSeconds,
		MaxRetries:     cfg.Scraper.MaxRetries,
		RateLimitRPS:   cfg.Scraper.RateLimitRPS,
	})
	scrapers := []scrape.Scraper{
		scrape.NewScholarshipsScraper(zlog),
		scrape.NewDevpostScraper(fetcher, zlog),
		scrape.NewMLHScraper(fetcher, zlog),
		scrape.NewKaggleScraper(fetcher, zlog),
		scrape.NewGitcoinScraper(fetcher, zlog),
	}
	aggregator := scrape.NewAggregator(zlog, cfg.Discovery.MaxParallelSources, scrapers...)

	// Enrichment degrades to scraped metadata when no API key is set.
	var enricher discovery.Enricher
	if cfg.AI.APIKey != "" {
		generator, err := ai.NewGeminiGenerator(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			zlog.Fatal("failed to create ai client", zap.Error(err))
		}
		enricher = enrich.NewService(generator, cache, limiter, zlog, enrich.Config{
			CacheTTL:   cfg.AI.CacheTTL,
			BatchSize:  cfg.AI.BatchSize,
			BatchDelay: time.Duration(cfg.AI.BatchDelaySeconds) * time.Second,
		})
	} else {
		zlog.Warn("no ai api key configured, enrichment disabled")
	}

	tracker := jobs.NewTracker(st, zlog)
	runner := discovery.NewRunner(zlog, cfg.Discovery.Workers, cfg.Discovery.QueueSize)
	defer runner.Shutdown()

	orchestrator := discovery.NewOrchestrator(st, tracker, runner, aggregator, enricher, zlog, discovery.Config{
		TopResults:  cfg.Discovery.TopResults,
		SourceCount: len(scrapers),
	})

	refreshCtx, stopRefresh := context.WithCancel(ctx)
	defer stopRefresh()
	refresher := discovery.NewRefresher(st, aggregator, zlog, cfg.Discovery.RefreshInterval)
	go refresher.Run(refreshCtx)

	srv := api.NewServer(orchestrator, st, zlog)
	port := strconv.Itoa(cfg.Server.Port)
	zlog.Info("server starting", zap.String("port", port))
	if err := srv.Start(port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
