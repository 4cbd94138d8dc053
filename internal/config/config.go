package config

import (
	"fmt"
	"os"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port           string
	PostgresDSN    string
	MongoURI       string
	MongoDB        string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	JWTSecret      string
}

// Load reads configuration from the environment. Required values (database
// addresses, object-store credentials, token signing secret) cause an error
// when absent so misconfiguration surfaces at startup, not on the first
// request.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getenv("PORT", "8080"),
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		MongoURI:       os.Getenv("MONGO_URI"),
		MongoDB:        getenv("MONGO_DB", "recipe_share"),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", "minio:9000"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getenv("MINIO_BUCKET", "recipe-images"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",
		JWTSecret:      os.Getenv("JWT_SECRET"),
	}

	required := []struct{ name, value string }{
		{"POSTGRES_DSN", cfg.PostgresDSN},
		{"MONGO_URI", cfg.MongoURI},
		{"MINIO_ACCESS_KEY", cfg.MinioAccessKey},
		{"MINIO_SECRET_KEY", cfg.MinioSecretKey},
		{"JWT_SECRET", cfg.JWTSecret},
	}
	for _, req := range required {
		if req.value == "" {
			return nil, fmt.Errorf("required environment variable %s is not set", req.name)
		}
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
