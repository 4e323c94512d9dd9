package main

import (
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"faresearch/internal/auth"
	"faresearch/internal/cache"
	"faresearch/internal/combos"
	"faresearch/internal/handler"
	"faresearch/internal/nlparse"
	"faresearch/internal/offers"
	"faresearch/internal/orchestrator"
	"faresearch/internal/ratelimit"
)

type Config struct {
	Port         string
	LogLevel     string
	TokenURL     string
	APIBaseURL   string
	ClientID     string
	ClientSecret string
	CacheEnabled bool
	RedisHost    string
	RedisPort    string
	RedisTTL     time.Duration
}

func main() {
	cfg := loadConfig()
	log := newLogger(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	limiter := ratelimit.New(ratelimit.DefaultConfig())
	limiter.SetLimit("offers", 10, 20)
	limiter.SetLimit("oauth", 2, 4)

	tokens := auth.NewTokenCache(auth.Config{
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Skew:         30 * time.Second,
		Limiter:      limiter,
	}, log)

	client := offers.NewClient(offers.Config{BaseURL: cfg.APIBaseURL}, tokens, limiter, log)

	orch := orchestrator.New(client, combos.StaticProposer{}, orchestrator.DefaultConfig(), log)

	var outcomeCache cache.Cache
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host: cfg.RedisHost,
			Port: cfg.RedisPort,
			TTL:  cfg.RedisTTL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		outcomeCache = redisCache
		log.Info().Str("host", cfg.RedisHost+":"+cfg.RedisPort).Dur("ttl", cfg.RedisTTL).Msg("redis cache enabled")
	} else {
		outcomeCache = cache.NewNoOpCache()
		log.Info().Msg("cache disabled")
	}

	searchHandler := handler.NewSearchHandler(orch, nlparse.HeuristicParser{}, outcomeCache)

	api := e.Group("/api/v1")
	api.POST("/flights/search", searchHandler.Search)
	e.GET("/health", handler.HealthHandler)

	log.Info().Str("port", cfg.Port).Msg("starting fare search server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Str("service", "faresearch").Logger()
}

func loadConfig() Config {
	return Config{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		TokenURL:     getEnv("FLIGHT_API_TOKEN_URL", "https://test.api.amadeus.com/v1/security/oauth2/token"),
		APIBaseURL:   getEnv("FLIGHT_API_BASE_URL", "https://test.api.amadeus.com"),
		ClientID:     getEnv("FLIGHT_API_CLIENT_ID", ""),
		ClientSecret: getEnv("FLIGHT_API_CLIENT_SECRET", ""),
		CacheEnabled: getEnvBool("CACHE_ENABLED", false),
		RedisHost:    getEnv("REDIS_HOST", "localhost"),
		RedisPort:    getEnv("REDIS_PORT", "6379"),
		RedisTTL:     getEnvDuration("REDIS_TTL", 5*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
