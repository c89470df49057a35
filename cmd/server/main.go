package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/campuspulse/campuspulse/internal/cache"
	"github.com/campuspulse/campuspulse/internal/config"
	"github.com/campuspulse/campuspulse/internal/database"
	"github.com/campuspulse/campuspulse/internal/services"
	"github.com/campuspulse/campuspulse/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger.Init(cfg.LogLevel, cfg.AppEnv)
	defer logger.Sync()

	logger.Info("Starting CampusPulse matching engine...")

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	// Run GORM auto-migration
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Suggestion cache is optional: without Redis the feed is computed fresh
	// on every request.
	var suggestions *cache.SuggestionCache
	if cfg.RedisEnabled() {
		suggestions, err = cache.NewSuggestionCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.GetSuggestionCacheTTL())
		if err != nil {
			logger.Warn("Redis unavailable, suggestion caching disabled", "error", err)
			suggestions = nil
		} else {
			defer suggestions.Close()
			logger.Info("Suggestion cache connected", "addr", cfg.RedisAddr)
		}
	}

	// Wire repositories and services
	engine := services.NewEngine(db, suggestions, cfg)

	// Background sweep: lapsed pending handshakes become expired.
	stopCleanup := make(chan struct{})
	go runCleanup(engine.Friendships, cfg.GetCleanupInterval(), stopCleanup)

	logger.Info("Engine started", "env", cfg.AppEnv)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	close(stopCleanup)
	logger.Info("Engine stopped")
}

func runCleanup(friendships *services.FriendshipService, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			expired, err := friendships.CleanupExpiredFriendships()
			if err != nil {
				logger.Error("Expired friendship sweep failed", "error", err)
				continue
			}
			if expired > 0 {
				logger.Info("Expired lapsed pulse handshakes", "count", expired)
			}
		case <-stop:
			return
		}
	}
}
