package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/karanmanglani/RiskSentinel/internal/config"
	"github.com/karanmanglani/RiskSentinel/internal/database"
	"github.com/karanmanglani/RiskSentinel/internal/edgar"
	"github.com/karanmanglani/RiskSentinel/internal/embedding"
	"github.com/karanmanglani/RiskSentinel/internal/handler"
	"github.com/karanmanglani/RiskSentinel/internal/loader"
	"github.com/karanmanglani/RiskSentinel/internal/middleware"
	"github.com/karanmanglani/RiskSentinel/internal/pkg/googleauth"
	"github.com/karanmanglani/RiskSentinel/internal/pkg/jwt"
	"github.com/karanmanglani/RiskSentinel/internal/rag"
	"github.com/karanmanglani/RiskSentinel/internal/repository"
	"github.com/karanmanglani/RiskSentinel/internal/service"
	"github.com/karanmanglani/RiskSentinel/internal/splitter"
	"github.com/karanmanglani/RiskSentinel/internal/vectorstore"
)

func main() {
	// Load .env file if exists
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()

	// Embedding provider: hosted when a credential is configured, otherwise
	// the deterministic local embedder (degraded offline mode).
	var embedder embedding.Embedder
	if cfg.EmbeddingAPIKey != "" {
		embedder, err = embedding.NewOpenAIEmbedder(cfg.EmbeddingAPIKey, cfg.EmbeddingBaseURL, cfg.EmbeddingModel, cfg.EmbeddingDimensions)
		if err != nil {
			log.Fatalf("Failed to create embedding provider: %v", err)
		}
	} else {
		log.Printf("EMBEDDING_API_KEY not set, using local embedder")
		embedder = embedding.NewLocalEmbedder(cfg.EmbeddingDimensions)
	}

	store := vectorstore.NewPgStore(db, embedder.Dimensions())

	// Generation requires a credential and fails closed without one.
	var generators []rag.Generator
	if cfg.HFAPIToken != "" {
		generators, err = rag.NewGenerators(ctx, cfg.HFAPIToken, cfg.LLMBaseURL, cfg.ModelCandidates())
		if err != nil {
			log.Fatalf("Failed to create generation providers: %v", err)
		}
	} else {
		log.Printf("HUGGINGFACEHUB_API_TOKEN not set, generation is disabled")
	}

	engine := rag.NewEngine(embedder, store, generators, cfg.RetrievalTopK)

	sp, err := splitter.NewRecursiveSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("Invalid chunking configuration: %v", err)
	}
	fetcher := edgar.NewClient(cfg.SECStorage, cfg.SECUserAgent)
	ingestor := rag.NewIngestor(fetcher, loader.New(), sp, embedder, store)

	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	jwtManager := jwt.NewManager(cfg.JWTSecret, cfg.AccessTokenExpireMin)
	verifier := googleauth.NewVerifier(cfg.GoogleClientID)

	deps := &handler.Deps{
		AuthService:    service.NewAuthService(userRepo, jwtManager, verifier),
		ChatService:    service.NewChatService(messageRepo, engine),
		Ingestor:       ingestor,
		Store:          store,
		AuthMiddleware: middleware.NewAuthMiddleware(jwtManager, userRepo),
	}

	r := handler.SetupRouter(cfg, deps)

	addr := ":" + cfg.Port
	log.Printf("RiskSentinel starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
