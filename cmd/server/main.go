package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/voicegenapp/api-voicegen/internal/config"
	"github.com/voicegenapp/api-voicegen/internal/device"
	"github.com/voicegenapp/api-voicegen/internal/handler"
	"github.com/voicegenapp/api-voicegen/internal/metrics"
	"github.com/voicegenapp/api-voicegen/internal/middleware"
	"github.com/voicegenapp/api-voicegen/internal/repository"
	"github.com/voicegenapp/api-voicegen/internal/service"
	"github.com/voicegenapp/api-voicegen/pkg/audiostore"
	"github.com/voicegenapp/api-voicegen/pkg/tts"
)

// @title           Voicegen API
// @version         1.0
// @description     Device-identity text-to-speech API with a credit ledger reconciled between Firestore and a local offline cache.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	// ==================== Load Config ====================
	cfg := config.Load()
	log.Printf("🚀 Starting Voicegen API Server [env=%s]", cfg.App.Env)

	// ==================== Local Cache (SQLite) ====================
	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		log.Fatalf("❌ Failed to create data dir: %v", err)
	}
	kv, err := repository.OpenKV(cfg.Data.Dir)
	if err != nil {
		log.Fatalf("❌ Failed to open local cache: %v", err)
	}
	log.Println("✅ Local cache ready")

	// ==================== Remote Ledger (Firestore) ====================
	ctx := context.Background()
	remote, err := repository.NewRemoteLedger(ctx, cfg.Firebase.CredentialsFile, cfg.Firebase.ProjectID)
	if err != nil {
		log.Fatalf("❌ Failed to initialize remote ledger: %v", err)
	}
	defer remote.Close()

	// ==================== Synthesizer (+ optional Redis cache) ====================
	var synth tts.Synthesizer = tts.NewClient(cfg.TTS.BaseURL)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		log.Printf("⚠️  Redis not available: %v (audio caching disabled)", err)
	} else {
		log.Println("✅ Connected to Redis")
		synth = tts.NewCached(synth, rdb, cfg.TTS.CacheTTL)
	}
	cancel()

	// ==================== Clip Storage (optional MinIO) ====================
	var clips audiostore.Storage
	minioStorage, err := audiostore.NewMinIO(audiostore.Config{
		Endpoint:  cfg.MinIO.Endpoint,
		PublicURL: cfg.MinIO.PublicURL,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		log.Printf("⚠️  MinIO not available: %v (clip storage disabled)", err)
	} else {
		log.Println("✅ Connected to MinIO")
		clips = minioStorage
	}

	// ==================== Initialize Layers ====================
	identity := device.New(kv)
	cache := repository.NewLedgerCache(kv)

	ledgerService := service.NewLedgerService(identity, remote, cache)
	sessionController := service.NewSessionController(ledgerService, identity)

	// Load the session once at startup so the first UI request sees a
	// settled state.
	snap := sessionController.Start(ctx)
	log.Printf("👤 Device %s session: %s", identity.Resolve(), snap.State)

	sessionHandler := handler.NewSessionHandler(sessionController)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	speechHandler := handler.NewSpeechHandler(ledgerService, synth, clips)

	// ==================== Gin Router ====================
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Swagger configuration
	// Serve swagger.json at /docs/swagger.json to avoid conflict with /swagger/* wildcard
	router.StaticFile("/docs/swagger.json", "./docs/swagger.json")

	url := ginSwagger.URL("/docs/swagger.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, url))

	// Global middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origins))
	router.Use(middleware.MetricsMiddleware())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "voicegen-api",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// Prometheus
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ==================== API Routes ====================
	api := router.Group("/api/v1")
	{
		api.GET("/voices", speechHandler.Voices)

		sessionGroup := api.Group("/session")
		{
			sessionGroup.GET("", sessionHandler.Get)
			sessionGroup.POST("/register", sessionHandler.Register)
			sessionGroup.POST("/logout", sessionHandler.Logout)
			sessionGroup.DELETE("", sessionHandler.Delete)
			sessionGroup.POST("/transfer", sessionHandler.Transfer)
		}

		ledgerGroup := api.Group("/ledger")
		{
			ledgerGroup.GET("", ledgerHandler.Get)
			ledgerGroup.PATCH("/username", ledgerHandler.UpdateUsername)
			ledgerGroup.POST("/spend", ledgerHandler.Spend)
			ledgerGroup.POST("/ads/watch", ledgerHandler.WatchAd)
			ledgerGroup.GET("/history", ledgerHandler.History)
		}

		api.POST("/speech", speechHandler.Generate)
	}

	// ==================== Start Server ====================
	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	log.Printf("🌐 Voicegen API running on http://0.0.0.0:%s", cfg.App.Port)
	log.Printf("📋 API docs: http://0.0.0.0:%s/swagger/index.html", cfg.App.Port)
	log.Printf("📈 Metrics: http://0.0.0.0:%s/metrics", cfg.App.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	// Give ongoing requests 5 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	log.Println("👋 Server exited")
}
