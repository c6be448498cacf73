package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"google.golang.org/genai"

	"ksi-core/internal/adapter/api"
	"ksi-core/internal/adapter/client"
	"ksi-core/internal/adapter/store"
	"ksi-core/internal/config"
	"ksi-core/internal/domain/repository"
	"ksi-core/internal/usecase"
)

const embeddingDim = 768

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		log.Println("Warning: .env.dev file not found, using system environment variables")
	}
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Redis backs both the data cache and the rate limiter; without an
	// address everything degrades to in-process equivalents.
	var cache repository.Cache
	var limiter repository.RequestLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cache = store.NewRedisCache(rdb)
		limiter = store.NewRedisLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window.Std())
	} else {
		log.Println("[MAIN] REDIS_ADDR not set, using in-process cache and limiter")
		cache = store.NewMemoryCache()
		limiter = store.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window.Std())
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.GoogleProject,
		Location: cfg.GoogleLocation,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		log.Fatalf("failed to init genai client: %v", err)
	}

	primaryModel := client.NewGeminiClientFromClient(genaiClient, cfg.Model.Primary)
	fallbackModel := client.NewGeminiClientFromClient(genaiClient, cfg.Model.Fallback)
	provider := usecase.NewFallbackProvider(primaryModel, fallbackModel)

	// Data sources. Keyless sources are always on; the others shut
	// themselves off when their key is missing.
	sportsDB := client.NewSportsDB(cfg.League, cfg.Limits, cache, cfg.Cache.Stats.Std(), cfg.Cache.H2H.Std())
	players := client.NewAPIFootball(cfg.APIFootballKey, cfg.League, cache, cfg.Cache.Stats.Std())
	odds := client.NewOddsAPI(cfg.OddsAPIKey, cfg.League, cache, cfg.Cache.Odds.Std())
	rss := client.NewKickerRSS(cfg.Feeds, cache, cfg.Cache.News.Std())
	search := client.NewBraveSearch(cfg.BraveSearchKey, store.NewMemoryCache(), cfg.Cache.Search.Std())

	newsChain := usecase.NewNewsChain(search, rss, cfg.Limits.SearchArticles, cfg.Limits.RSSArticles)
	assembler := usecase.NewAssembler(newsChain, sportsDB, players, odds, cfg.Limits, cfg.League)

	orchestrator := usecase.NewOrchestrator(limiter, assembler, provider)

	// Semantic answer cache is optional; the pipeline just skips it
	// when Qdrant is not configured.
	if cfg.HasQdrant() {
		qClient, err := qdrant.NewClient(&qdrant.Config{
			Host: cfg.QdrantHost,
			Port: cfg.QdrantPort,
		})
		if err != nil {
			log.Fatalf("failed to connect to qdrant: %v", err)
		}

		answerStore := store.NewQdrantStore(qClient, cfg.QdrantCollection)
		if err := answerStore.InitCollection(ctx, embeddingDim); err != nil {
			log.Fatalf("failed to init qdrant collection: %v", err)
		}

		embedder := client.NewEmbedderFromClient(genaiClient, cfg.Model.Embedding)
		judge := client.NewGeminiEvaluator(genaiClient, cfg.Model.Primary)
		orchestrator.WithAnswerCache(embedder, answerStore, judge, cfg.Model.AnswerSimilarity)
	}

	feed := usecase.NewFeed(newsChain)

	app := fiber.New(fiber.Config{
		AppName: "KSI Core",
	})

	handler := api.NewHandler(orchestrator, feed, cfg)
	api.SetupRouter(app, handler)

	log.Printf("KSI Core serving %s on port %s", cfg.League.Name, cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
