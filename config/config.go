package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// SMTP configuration
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	AdminEmail   string

	// Blob storage
	S3Bucket string
}

// LoadConfig creates a new Config instance with values from environment
// variables or secret files
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		loadDevConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig loads configuration for CI from environment variables only
func loadCIConfig(cfg *Config) {
	loadFromEnv(cfg)
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("TEST_JWT_SECRET")
	}
	if cfg.DBPassword == "" {
		cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	}
}

// loadDevConfig loads configuration for development with local defaults
func loadDevConfig(cfg *Config) {
	loadFromEnv(cfg)
	setDefault(&cfg.ServerHost, "localhost")
	setDefault(&cfg.ServerPort, "8080")
	setDefault(&cfg.DBHost, "localhost")
	setDefault(&cfg.DBPort, "5432")
	setDefault(&cfg.DBUser, "postgres")
	setDefault(&cfg.DBName, "alumnihub")
	setDefault(&cfg.DBSSLMode, "disable")
	setDefault(&cfg.RedisHost, "localhost")
	setDefault(&cfg.RedisPort, "6379")
	setDefault(&cfg.FromName, "AlumniHub")
	// Local development only; production refuses short secrets.
	setDefault(&cfg.JWTSecret, "dev-insecure-jwt-secret")
}

// loadProdConfig loads configuration for production using Docker secrets,
// falling back to environment variables
func loadProdConfig(cfg *Config) {
	cfg.ServerPort = readSecret("server_port")
	cfg.ServerHost = readSecret("server_host")
	cfg.DBHost = readSecret("db_host")
	cfg.DBPort = readSecret("db_port")
	cfg.DBUser = readSecret("db_user")
	cfg.DBPassword = readSecret("db_password")
	cfg.DBName = readSecret("db_name")
	cfg.DBSSLMode = readSecret("db_ssl_mode")
	cfg.RedisHost = readSecret("redis_host")
	cfg.RedisPort = readSecret("redis_port")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.RedisURL = readSecret("redis_url")
	cfg.JWTSecret = readSecret("jwt_secret")
	cfg.SMTPHost = readSecret("smtp_host")
	cfg.SMTPPort = readSecret("smtp_port")
	cfg.SMTPUsername = readSecret("smtp_username")
	cfg.SMTPPassword = readSecret("smtp_password")
	cfg.FromEmail = readSecret("from_email")
	cfg.FromName = readSecret("from_name")
	cfg.AdminEmail = readSecret("admin_email")
	cfg.S3Bucket = readSecret("s3_bucket")
}

func loadFromEnv(cfg *Config) {
	setFromEnv(&cfg.ServerPort, "SERVER_PORT")
	setFromEnv(&cfg.ServerHost, "SERVER_HOST")
	setFromEnv(&cfg.DBHost, "DB_HOST")
	setFromEnv(&cfg.DBPort, "DB_PORT")
	setFromEnv(&cfg.DBUser, "DB_USER")
	setFromEnv(&cfg.DBPassword, "DB_PASSWORD")
	setFromEnv(&cfg.DBName, "DB_NAME")
	setFromEnv(&cfg.DBSSLMode, "DB_SSL_MODE")
	setFromEnv(&cfg.RedisHost, "REDIS_HOST")
	setFromEnv(&cfg.RedisPort, "REDIS_PORT")
	setFromEnv(&cfg.RedisPassword, "REDIS_PASSWORD")
	setFromEnv(&cfg.RedisURL, "REDIS_URL")
	setFromEnv(&cfg.JWTSecret, "JWT_SECRET")
	setFromEnv(&cfg.SMTPHost, "SMTP_HOST")
	setFromEnv(&cfg.SMTPPort, "SMTP_PORT")
	setFromEnv(&cfg.SMTPUsername, "SMTP_USERNAME")
	setFromEnv(&cfg.SMTPPassword, "SMTP_PASSWORD")
	setFromEnv(&cfg.FromEmail, "FROM_EMAIL")
	setFromEnv(&cfg.FromName, "FROM_NAME")
	setFromEnv(&cfg.AdminEmail, "ADMIN_EMAIL")
	setFromEnv(&cfg.S3Bucket, "S3_BUCKET_NAME")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDefault(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
