package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret    string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	ResetTTL     time.Duration
	AuthDisabled bool

	SMTPAddr     string
	SMTPFrom     string
	SMTPPassword string
	SMTPHost     string
	ResetURL     string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "microblog"),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		AccessTTL:    getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL:   getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		ResetTTL:     getDuration("RESET_TOKEN_TTL", 1*time.Hour),
		AuthDisabled: getBool("AUTH_DISABLED", false),

		SMTPAddr:     getEnv("SMTP_ADDR", "smtp.example.com:587"),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPHost:     getEnv("SMTP_HOST", "smtp.example.com"),
		ResetURL:     getEnv("RESET_URL", "http://localhost:3000/reset-password"),
	}

	log.Println("✅ Config loaded")
	return cfg
}

// ValidateJWTSecret rejects missing or weak signing keys at startup.
func (c *Config) ValidateJWTSecret() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long (current: %d)", len(c.JWTSecret))
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("Invalid duration in %s, using default %s", key, fallback)
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
