package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"konsultabot/classifier"
	"konsultabot/config"
	"konsultabot/database"
	"konsultabot/handlers"
	"konsultabot/knowledge"
	"konsultabot/netcheck"
	"konsultabot/responder"
	"konsultabot/services"
	"konsultabot/store"
	"konsultabot/websearch"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("Starting Konsultabot campus assistant")

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.RunMigrations(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	st := store.New(database.GetDB())

	// Background connectivity monitor
	monitor := netcheck.NewMonitor(cfg.NetCheckInterval, nil)
	monitor.Start()
	defer monitor.Stop()

	// Collaborators
	search, err := websearch.New(cfg.GoogleAPIKey, cfg.GeminiModel, cfg.SearchTimeout)
	if err != nil {
		log.Fatalf("Failed to create web search client: %v", err)
	}

	router := services.NewRouter(
		st.Sessions,
		st.Conversations,
		classifier.NewComplexProblemPolicy(),
		classifier.NewTechnicalKeywordPolicy(),
		knowledge.NewCatalog(),
		responder.New(st.Knowledge),
		search,
		monitor,
	)

	chatHandler := handlers.NewHandler(router, st.Conversations, st.Sessions)
	knowledgeHandler := handlers.NewKnowledgeHandler(st.Knowledge)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: setupRouter(chatHandler, knowledgeHandler),
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func setupRouter(chat *handlers.Handler, kb *handlers.KnowledgeHandler) *gin.Engine {
	// Set Gin to release mode in production
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// API routes
	api := router.Group("/api/chat", handlers.RequireUser())
	{
		api.POST("/send", chat.SendMessage)
		api.GET("/history", chat.ConversationHistory)
		api.GET("/sessions", chat.ChatSessions)
		api.POST("/sessions/end", chat.EndSession)

		api.GET("/knowledge", kb.KnowledgeBase)
		api.GET("/campus-info", kb.CampusInfo)
		api.GET("/search", kb.SearchKnowledge)
	}

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}
