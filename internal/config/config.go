package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Port      string
	Database  DatabaseConfig
	JWT       JWTConfig
	Media     MediaConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string // mysql | sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// JWTConfig holds the signing secret for session tokens
type JWTConfig struct {
	Secret string
	Issuer string
}

// MediaConfig holds upload storage configuration
type MediaConfig struct {
	Dir         string
	URL         string
	MaxUploadMB int
}

// RateLimitConfig holds per-IP request limits (requests per minute)
type RateLimitConfig struct {
	General int
	Auth    int
}

// AdminConfig holds the optional staff account created by the seeder
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	database := loadDatabaseConfig(appMode)
	if database.Driver != "mysql" && database.Driver != "sqlite" {
		return nil, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql' or 'sqlite')", database.Driver)
	}

	config := &Config{
		AppMode:   appMode,
		Port:      getEnv("PORT", "8000"),
		Database:  database,
		JWT:       loadJWTConfig(appMode),
		Media:     loadMediaConfig(),
		RateLimit: loadRateLimitConfig(),
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", ""),
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	if config.IsProd() && config.JWT.Secret == "default_secret" {
		return nil, fmt.Errorf("PROD_JWT_SECRET must be set in prod mode")
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DB: %s]", appMode, database.Driver)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Driver:     strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", "mysql"))),
		Host:       getEnv(prefix+"DB_HOST", "localhost"),
		Port:       getEnv(prefix+"DB_PORT", "3306"),
		User:       getEnv(prefix+"DB_USER", "root"),
		Password:   getEnv(prefix+"DB_PASS", ""),
		DBName:     getEnv(prefix+"DB_NAME", "coderr"),
		SQLitePath: getEnv("SQLITE_PATH", "coderr.db"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return JWTConfig{
		Secret: getEnv(prefix+"JWT_SECRET", "default_secret"),
		Issuer: getEnv("JWT_ISSUER", "coderr"),
	}
}

func loadMediaConfig() MediaConfig {
	maxMB, err := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "5"))
	if err != nil || maxMB < 1 {
		maxMB = 5
	}

	return MediaConfig{
		Dir:         getEnv("MEDIA_DIR", "media"),
		URL:         strings.TrimRight(getEnv("MEDIA_URL", "/media"), "/"),
		MaxUploadMB: maxMB,
	}
}

func loadRateLimitConfig() RateLimitConfig {
	general, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "100"))
	if err != nil || general < 1 {
		general = 100
	}
	auth, err := strconv.Atoi(getEnv("AUTH_RATE_LIMIT_PER_MINUTE", "10"))
	if err != nil || auth < 1 {
		auth = 10
	}

	return RateLimitConfig{General: general, Auth: auth}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:5500,http://127.0.0.1:5500"
	}
	return origins
}

// MaxUploadBytes returns the upload size limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Media.MaxUploadMB) * 1024 * 1024
}
