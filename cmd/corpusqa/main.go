package main

// @title           CorpusQA API
// @version         1.0
// @description     Retrieval-augmented question answering over a plain-text corpus. Ask a question, get an answer grounded in the indexed documents with follow-up suggestions and source citations.

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/docentlabs/corpusqa/internal/adapters/driven/ai"
	"github.com/docentlabs/corpusqa/internal/adapters/driven/corpus"
	"github.com/docentlabs/corpusqa/internal/adapters/driven/querylog"
	redisadapter "github.com/docentlabs/corpusqa/internal/adapters/driven/redis"
	"github.com/docentlabs/corpusqa/internal/adapters/driven/vectorstore"
	httpadapter "github.com/docentlabs/corpusqa/internal/adapters/driving/http"
	"github.com/docentlabs/corpusqa/internal/chunker"
	"github.com/docentlabs/corpusqa/internal/core/domain"
	"github.com/docentlabs/corpusqa/internal/core/ports/driven"
	"github.com/docentlabs/corpusqa/internal/core/services"
	"github.com/docentlabs/corpusqa/internal/runtime"
)

var version = "dev"

func main() {
	// Load .env if present; real environment wins.
	_ = godotenv.Load()

	// Run mode from environment (RUN_MODE) or command line arg
	mode := getEnv("RUN_MODE", "api")
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	log.Printf("corpusqa %s starting in %s mode", version, mode)

	corpusDir := getEnv("CORPUS_DIR", "./training-data")
	indexDir := getEnv("INDEX_DIR", "./data/index")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// ===== AI providers =====
	appServices := runtime.NewServices()
	defer appServices.Close()

	embeddingService, err := ai.CreateEmbeddingService(ai.EmbeddingSettings{
		Provider: getEnv("EMBEDDING_PROVIDER", "openai"),
		APIKey:   getEnv("OPENAI_API_KEY", ""),
		Model:    getEnv("EMBEDDING_MODEL", ""),
		BaseURL:  getEnv("EMBEDDING_BASE_URL", ""),
	})
	if err != nil {
		log.Fatalf("Failed to configure embedding provider: %v", err)
	}
	appServices.SetEmbeddingService(embeddingService)

	generationService, err := ai.CreateGenerationService(ai.GenerationSettings{
		Provider: getEnv("GENERATION_PROVIDER", "openai"),
		APIKey:   getEnv("OPENAI_API_KEY", ""),
		Model:    getEnv("GENERATION_MODEL", ""),
		BaseURL:  getEnv("GENERATION_BASE_URL", ""),
	})
	if err != nil {
		log.Fatalf("Failed to configure generation provider: %v", err)
	}
	appServices.SetGenerationService(generationService)

	// ===== Vector index =====
	index := vectorstore.New()

	switch mode {
	case "ingest":
		runIngest(ctx, appServices, index, corpusDir, indexDir)
	case "api":
		runAPI(ctx, appServices, index, indexDir)
	default:
		log.Fatalf("Unknown mode %q (want ingest or api)", mode)
	}
}

func runIngest(ctx context.Context, appServices *runtime.Services, index driven.VectorIndex, corpusDir, indexDir string) {
	ck, err := chunker.New(chunker.Config{
		ChunkSize: getEnvInt("CHUNK_SIZE", 500),
		Overlap:   getEnvInt("CHUNK_OVERLAP", 50),
	})
	if err != nil {
		log.Fatalf("Invalid chunking configuration: %v", err)
	}

	// Optional cross-instance write lock.
	var lock driven.DistributedLock
	if redisURL := getEnv("REDIS_URL", ""); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer client.Close()
		lock = redisadapter.NewLock(client)
		log.Println("Redis ingest lock enabled")
	}

	ingestService := services.NewIngestService(services.IngestServiceConfig{
		Loader:    corpus.NewDirLoader(),
		Chunker:   ck,
		Index:     index,
		Services:  appServices,
		Lock:      lock,
		CorpusDir: corpusDir,
		IndexDir:  indexDir,
		BatchSize: getEnvInt("EMBED_BATCH_SIZE", 0),
	})

	result, err := ingestService.Ingest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrIngestInProgress) {
			log.Fatal("Another ingestion is already running")
		}
		log.Fatalf("Ingestion failed: %v", err)
	}

	log.Printf("Ingested %d documents into %d chunks in %v", result.Documents, result.Chunks, result.Took)
	for _, path := range result.Skipped {
		log.Printf("Skipped unreadable file: %s", path)
	}
	log.Printf("Index written to %s", indexDir)
}

func runAPI(ctx context.Context, appServices *runtime.Services, index driven.VectorIndex, indexDir string) {
	if err := index.Load(indexDir); err != nil {
		if errors.Is(err, domain.ErrIndexNotFound) {
			log.Fatalf("No index found in %s; run `corpusqa ingest` first", indexDir)
		}
		log.Fatalf("Failed to load index: %v", err)
	}
	log.Printf("Index loaded: %d entries, %d dimensions, model %s", index.Len(), index.Dimensions(), index.Model())

	if emb := appServices.EmbeddingService(); emb != nil && index.Model() != "" && emb.Model() != index.Model() {
		log.Fatalf("Index was built with embedding model %q but %q is configured; re-run ingestion: %v",
			index.Model(), emb.Model(), domain.ErrModelMismatch)
	}

	// ===== Query log (PostgreSQL if configured, file otherwise) =====
	var queryLog driven.QueryLog
	if databaseURL := getEnv("DATABASE_URL", ""); databaseURL != "" {
		pgLog, err := querylog.NewPostgresLog(ctx, databaseURL)
		if err != nil {
			log.Fatalf("Failed to connect query log database: %v", err)
		}
		queryLog = pgLog
		log.Println("Using PostgreSQL query log")
	} else {
		fileLog, err := querylog.NewFileLog(getEnv("QA_LOG_PATH", "./qa-logs.jsonl"))
		if err != nil {
			log.Fatalf("Failed to open query log file: %v", err)
		}
		queryLog = fileLog
		log.Println("Using file query log")
	}
	defer queryLog.Close()

	synthesizer := services.NewSynthesizer(appServices, services.SynthesizerConfig{
		Language:      getEnv("ANSWER_LANGUAGE", "Dutch"),
		ExcerptLength: getEnvInt("EXCERPT_LENGTH", 0),
	}, slog.Default())

	queryService := services.NewQueryService(services.QueryServiceConfig{
		Index:       index,
		Services:    appServices,
		Synthesizer: synthesizer,
		QueryLog:    queryLog,
		TopK:        getEnvInt("TOP_K", 0),
	})

	server := httpadapter.NewServer(httpadapter.Config{
		Host:    getEnv("HOST", "0.0.0.0"),
		Port:    getEnvInt("PORT", 8080),
		Version: version,
	}, queryService)

	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
