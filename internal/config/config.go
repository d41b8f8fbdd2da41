// Package config loads server settings from a .env file, an optional YAML
// file and the environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dukerupert/menuboard/internal/upload"
)

type Config struct {
	Port           string        `yaml:"port"`
	DBPath         string        `yaml:"db_path"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	// TrustProxy makes the login rate limit key clients by X-Real-IP or
	// X-Forwarded-For. Enable it only behind a reverse proxy that sets them.
	TrustProxy     bool          `yaml:"trust_proxy"`

	Admin    AdminConfig    `yaml:"admin"`
	S3       upload.Config  `yaml:"s3"`
	Telegram TelegramConfig `yaml:"telegram"`
}

// AdminConfig seeds the platform admin account on first start.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Port:           "8080",
		DBPath:         "menuboard.db",
		LogLevel:       "info",
		LogFormat:      "text",
		AllowedOrigins: []string{"http://localhost:5173"},
		SessionTTL:     24 * time.Hour,
		Admin:          AdminConfig{Username: "admin"},
	}
}

// Load reads .env if present, then the YAML file named by MENUBOARD_CONFIG,
// then MENUBOARD_* environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("MENUBOARD_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Port, "MENUBOARD_PORT")
	set(&cfg.DBPath, "MENUBOARD_DB_PATH")
	set(&cfg.LogLevel, "MENUBOARD_LOG_LEVEL")
	set(&cfg.LogFormat, "MENUBOARD_LOG_FORMAT")
	set(&cfg.Admin.Username, "MENUBOARD_ADMIN_USERNAME")
	set(&cfg.Admin.Password, "MENUBOARD_ADMIN_PASSWORD")
	set(&cfg.S3.Endpoint, "MENUBOARD_S3_ENDPOINT")
	set(&cfg.S3.Bucket, "MENUBOARD_S3_BUCKET")
	set(&cfg.S3.Region, "MENUBOARD_S3_REGION")
	set(&cfg.S3.AccessKey, "MENUBOARD_S3_ACCESS_KEY")
	set(&cfg.S3.SecretKey, "MENUBOARD_S3_SECRET_KEY")
	set(&cfg.S3.PublicBaseURL, "MENUBOARD_S3_PUBLIC_URL")
	set(&cfg.Telegram.Token, "MENUBOARD_TELEGRAM_TOKEN")

	if v := getenv("MENUBOARD_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := getenv("MENUBOARD_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MENUBOARD_SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}
	if v := getenv("MENUBOARD_TRUST_PROXY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MENUBOARD_TRUST_PROXY: %w", err)
		}
		cfg.TrustProxy = b
	}
	if v := getenv("MENUBOARD_TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MENUBOARD_TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.Telegram.ChatID = id
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if f := strings.ToLower(c.LogFormat); f != "" && f != "text" && f != "json" {
		return fmt.Errorf("log format must be text or json, got %q", c.LogFormat)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	if c.Telegram.Token != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram chat id is required when a token is set")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
