package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config holds all runtime settings of the presence service.
type Config struct {
	Port              string
	MongoURI          string
	DBName            string
	StoreBackend      string
	LogLevel          string
	AllowedOrigins    []string
	RequestTimeout    time.Duration
	StrictStatusCodes bool
	LegacyHeartbeat   bool
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment only")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (*Config, error) {
	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}

	strict, err := strconv.ParseBool(getEnv("STRICT_STATUS_CODES", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid STRICT_STATUS_CODES: %w", err)
	}

	legacy, err := strconv.ParseBool(getEnv("LEGACY_HEARTBEAT", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEGACY_HEARTBEAT: %w", err)
	}

	backend := strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", BackendMongo)))
	if backend != BackendMongo && backend != BackendMemory {
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:            getEnv("DB_NAME", "presence"),
		StoreBackend:      backend,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:    parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		RequestTimeout:    timeout,
		StrictStatusCodes: strict,
		LegacyHeartbeat:   legacy,
	}, nil
}

func parseOrigins(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
