package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env              string
	Port             string
	MongoURI         string
	MongoDB          string
	JWTSecret        string
	JWTExpire        time.Duration
	JWTCookieExpire  time.Duration
	SMTPHost         string
	SMTPPort         string
	SMTPUsername     string
	SMTPPassword     string
	SMTPFrom         string
	GeocoderURL      string
	GeocoderKey      string
	FileUploadPath   string
	MaxFileUpload    int64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:             getEnv("ENV", "development"),
		Port:            getEnv("PORT", "5000"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "devcamper"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTExpire:       getDurationEnv("JWT_EXPIRE", 72*time.Hour),
		JWTCookieExpire: getDurationEnv("JWT_COOKIE_EXPIRE", 72*time.Hour),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getEnv("SMTP_PORT", "465"),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:        getEnv("SMTP_FROM", "noreply@devcamper.io"),
		GeocoderURL:     getEnv("GEOCODER_URL", "https://www.mapquestapi.com/geocoding/v1/address"),
		GeocoderKey:     getEnv("GEOCODER_API_KEY", ""),
		FileUploadPath:  getEnv("FILE_UPLOAD_PATH", "./public/uploads"),
		MaxFileUpload:   getInt64Env("MAX_FILE_UPLOAD", 1_000_000),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getInt64Env(key string, fallback int64) int64 {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
