package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv          string
	Port            string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSSLMode       string
	JWTSecret       string
	JWTExpiry       string
	UpstreamAPIURL  string
	RedisAddr       string
	RedisPassword   string
	GuestCartTTL    time.Duration
	SearchCacheTTL  time.Duration
	UpstreamTimeout time.Duration
}

var AppConfig *Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	guestCartDays, _ := strconv.Atoi(os.Getenv("GUEST_CART_TTL_DAYS"))
	if guestCartDays == 0 {
		guestCartDays = 30
	}

	searchCacheSeconds, _ := strconv.Atoi(os.Getenv("SEARCH_CACHE_SECONDS"))
	if searchCacheSeconds == 0 {
		searchCacheSeconds = 30
	}

	upstreamTimeoutSeconds, _ := strconv.Atoi(os.Getenv("UPSTREAM_TIMEOUT_SECONDS"))
	if upstreamTimeoutSeconds == 0 {
		upstreamTimeoutSeconds = 15
	}

	AppConfig = &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		Port:            getEnv("APP_PORT", getEnv("PORT", "8082")),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "furniture_shop"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		JWTExpiry:       getEnv("JWT_EXPIRY", "24h"),
		UpstreamAPIURL:  getEnv("UPSTREAM_API_URL", "https://sopa-deal-production.up.railway.app"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		GuestCartTTL:    time.Duration(guestCartDays) * 24 * time.Hour,
		SearchCacheTTL:  time.Duration(searchCacheSeconds) * time.Second,
		UpstreamTimeout: time.Duration(upstreamTimeoutSeconds) * time.Second,
	}

	log.Println("Configuration loaded successfully")
	log.Printf("Environment: %s", AppConfig.AppEnv)
	log.Printf("Server will run on port: %s", AppConfig.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
