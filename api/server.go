package api

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "pscan/docs"
	"pscan/logging"
)

//	@title			pscan API
//	@version		1.0
//	@description	Asynchronous TCP reachability scans over HTTP.
//	@BasePath		/api/v1

// Run loads configuration, connects dependencies and starts the API
// server. It blocks until the listener fails.
func Run() error {
	// A missing .env is fine; the environment alone may carry config.
	_ = godotenv.Load()
	logger := logging.Configure()

	redisAddr := getenv("REDIS_ADDR", "localhost:6379")
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", redisAddr, err)
	}

	store := NewRedisStore(redisClient)
	registry := NewRegistry()
	StartWorkers(store, registry, getenvInt("SCAN_WORKERS", 5))

	router := gin.New()
	router.Use(gin.Recovery(), RequestLoggingMiddleware(logger), SecurityHeadersMiddleware())

	v1 := router.Group("/api/v1")
	if apiKey := os.Getenv("API_KEY"); apiKey != "" {
		v1.Use(AuthMiddleware(apiKey, logger))
	}
	v1.Use(RateLimitMiddleware(redisClient, int64(getenvInt("RATE_LIMIT", 60)), time.Minute, logger))

	NewServer(store, registry).RegisterRoutes(v1)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	listenAddr := getenv("LISTEN_ADDR", ":8080")
	logger.Info("starting pscan API server", "addr", listenAddr)
	return router.Run(listenAddr)
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
