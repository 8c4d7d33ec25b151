package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config carries every runtime setting the process needs. It is built once
// in main and handed to the packages that need it; nothing else reads the
// environment after startup.
type Config struct {
	Port      string
	MongoURI  string
	JWTSecret string
	AdminCode string
	UploadDir string
	RedisAddr string // optional; empty disables token revocation checks
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	// .env is optional in containers; only the variables are mandatory.
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getenv("PORT", "5000"),
		MongoURI:  os.Getenv("MONGODB_URI"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		AdminCode: os.Getenv("ADMIN_CODE"),
		UploadDir: getenv("UPLOAD_DIR", "./static/uploads"),
		RedisAddr: os.Getenv("REDIS_ADDR"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI environment variable is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
