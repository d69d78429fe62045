package infrastructure

import (
	"errors"
	"os"
)

const (
	StorePostgres = "postgres"
	StoreDynamoDB = "dynamodb"
)

type Config struct {
	Port          string
	APIBaseURL    string
	SessionSecret string
	StoreBackend  string
	DatabaseURL   string
	TableName     string
	Region        string
}

// LoadConfig reads configuration from the environment. SESSION_SECRET is
// mandatory, as is the connection setting for whichever store backend is
// selected.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:          readEnv("PORT", "8080"),
		APIBaseURL:    readEnv("BASE_URL", "https://api.bigmelo.com"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		StoreBackend:  readEnv("STORE_BACKEND", StorePostgres),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		TableName:     readEnv("TABLE_NAME", "bigmelo-dashboard"),
		Region:        readEnv("AWS_REGION", "us-east-1"),
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET must be set")
	}
	switch cfg.StoreBackend {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL must be set for the postgres backend")
		}
	case StoreDynamoDB:
	default:
		return Config{}, errors.New("unknown STORE_BACKEND: " + cfg.StoreBackend)
	}
	return cfg, nil
}

func readEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
