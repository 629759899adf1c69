package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karanmanglani/RiskSentinel/internal/config"
	"github.com/karanmanglani/RiskSentinel/internal/middleware"
	"github.com/karanmanglani/RiskSentinel/internal/rag"
	"github.com/karanmanglani/RiskSentinel/internal/service"
	"github.com/karanmanglani/RiskSentinel/internal/vectorstore"
)

// Deps bundles the constructed services the router wires into handlers.
// Building them once at process start (instead of package-level singletons)
// lets tests run with their own store and providers.
type Deps struct {
	AuthService    *service.AuthService
	ChatService    *service.ChatService
	Ingestor       *rag.Ingestor
	Store          vectorstore.Store
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupRouter(cfg *config.Config, deps *Deps) *gin.Engine {
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestID())

	r.GET("/", healthCheck)
	r.GET("/health", healthCheck)

	authHandler := NewAuthHandler(deps.AuthService)
	analyzeHandler := NewAnalyzeHandler(deps.ChatService)
	ingestHandler := NewIngestHandler(deps.Ingestor, deps.Store)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/google", authHandler.GoogleLogin)
			auth.GET("/me", deps.AuthMiddleware.JWTAuth(), authHandler.Me)
		}

		protected := api.Group("")
		protected.Use(deps.AuthMiddleware.JWTAuth())
		{
			protected.POST("/analyze", analyzeHandler.Analyze)
			protected.GET("/history", analyzeHandler.History)
			protected.POST("/ingest", ingestHandler.Ingest)
			protected.DELETE("/filings/:ticker", ingestHandler.DeleteFiling)
		}
	}

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "active",
		"service": "RiskSentinel Brain",
	})
}
