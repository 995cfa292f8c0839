package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidateConfig checks that every setting the server cannot run without is
// present and well-formed.
func ValidateConfig(cfg *Config) error {
	var missing []string

	required := map[string]string{
		"SERVER_PORT": cfg.ServerPort,
		"DB_HOST":     cfg.DBHost,
		"DB_PORT":     cfg.DBPort,
		"DB_USER":     cfg.DBUser,
		"DB_NAME":     cfg.DBName,
		"JWT_SECRET":  cfg.JWTSecret,
	}
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		return fmt.Errorf("SERVER_PORT must be numeric, got %q", cfg.ServerPort)
	}
	if _, err := strconv.Atoi(cfg.DBPort); err != nil {
		return fmt.Errorf("DB_PORT must be numeric, got %q", cfg.DBPort)
	}

	if IsProduction() {
		if len(cfg.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
		if cfg.SMTPHost == "" || cfg.FromEmail == "" {
			return fmt.Errorf("SMTP_HOST and FROM_EMAIL are required in production")
		}
	}

	return nil
}
