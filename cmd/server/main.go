package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/mindfulplate/backend/config"
	httpDelivery "github.com/mindfulplate/backend/internal/delivery/http"
	"github.com/mindfulplate/backend/internal/domain"
	"github.com/mindfulplate/backend/internal/infrastructure/cache"
	"github.com/mindfulplate/backend/internal/infrastructure/dictionary"
	"github.com/mindfulplate/backend/internal/infrastructure/history"
	"github.com/mindfulplate/backend/internal/infrastructure/oracle"
	"github.com/mindfulplate/backend/internal/usecase"
)

func main() {
	// Load .env if present; real environment variables win
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting MindfulPlate Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	// Food dictionary with optional overlay
	dict := dictionary.Builtin()
	if cfg.Dictionary.OverlayPath != "" {
		// A configured overlay that fails to load means the dictionary the
		// operator asked for does not exist; refuse to start.
		if err := dict.LoadOverlay(cfg.Dictionary.OverlayPath); err != nil {
			log.Fatalf("Failed to load dictionary overlay %s: %v", cfg.Dictionary.OverlayPath, err)
		}
		log.Printf("Dictionary overlay loaded: %s (%d foods total)", cfg.Dictionary.OverlayPath, dict.Len())
	}
	log.Printf("Food dictionary: %d foods", dict.Len())

	// Nutrient cache
	var nutrientCache domain.NutrientCache
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		if err := redisCache.Ping(context.Background()); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		nutrientCache = redisCache
		log.Printf("Redis cache connected")
	default:
		nutrientCache = cache.NewMemoryCache()
	}
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	// Nutrition oracle is optional; without an API key the pipeline falls
	// back to ingredient decomposition directly
	var nutritionOracle domain.NutritionOracle
	if cfg.Oracle.APIKey != "" {
		client := oracle.NewClient(cfg.Oracle.APIKey, cfg.Oracle.BaseURL, cfg.Oracle.RequestsPerHour)
		if cfg.Server.Environment == "development" {
			client.SetDebug(true)
			log.Printf("Oracle client debug mode enabled")
		}
		nutritionOracle = client
		log.Printf("Nutrition oracle configured: %s", cfg.Oracle.BaseURL)
	} else {
		log.Printf("Nutrition oracle not configured; unknown foods fall back to ingredient estimates")
	}

	// Meal history storage
	historyRepo, err := history.NewSQLiteRepository(cfg.History.DBPath)
	if err != nil {
		log.Fatalf("Failed to open history database: %v", err)
	}
	defer historyRepo.Close()
	log.Printf("History database: %s", cfg.History.DBPath)

	// Initialize usecase layer
	pipeline := usecase.NewPipeline(dict, nutrientCache, nutritionOracle, usecase.PipelineConfig{
		CacheTTL: cfg.Cache.TTL,
	})
	analyzer := usecase.NewPatternAnalyzer(usecase.PatternConfig{
		WindowDays:   cfg.Patterns.WindowDays,
		LowProtein:   cfg.Thresholds.LowProtein,
		HighCalories: cfg.Thresholds.HighCalories,
	})
	recommender := usecase.NewRecommender(usecase.Thresholds{
		LowProtein:         cfg.Thresholds.LowProtein,
		GoodProtein:        cfg.Thresholds.GoodProtein,
		TargetProtein:      cfg.Thresholds.ProteinTarget,
		LowCalories:        cfg.Thresholds.LowCalories,
		HighCalories:       cfg.Thresholds.HighCalories,
		TargetCalories:     cfg.Thresholds.CalorieTarget,
		FoodFrequencyAlert: cfg.Thresholds.PatternAlertAfter,
	}, nil, nil)
	logService := usecase.NewLogService(pipeline, analyzer, recommender, historyRepo, usecase.LogServiceConfig{
		WindowDays: cfg.Patterns.WindowDays,
	})

	log.Printf("Pattern window: %d days", cfg.Patterns.WindowDays)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(logService, usecase.NewKeywordIntentClassifier())

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
