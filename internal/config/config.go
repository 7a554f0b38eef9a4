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
)

// Config aggregates all runtime settings required by the client.
type Config struct {
	AppName string
	API     APIConfig
	Store   StoreConfig
	Logger  LoggerConfig
}

type APIConfig struct {
	// BaseURL is the backend origin plus the /api prefix.
	BaseURL string
	Timeout time.Duration
}

type StoreConfig struct {
	// Path locates the bbolt file holding the persisted bearer token.
	Path string
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// fileConfig is the YAML profile shape (~/.oshare/config.yaml).
type fileConfig struct {
	APIBaseURL string `yaml:"api_base_url"`
	Timeout    string `yaml:"timeout"`
	TokenDB    string `yaml:"token_db"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
}

// Load reads configuration from the optional YAML profile and environment
// variables (optionally .env), applying sane defaults so the client can run
// with no configuration at all. Environment variables win over the profile.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	appDir := defaultAppDir()

	profile, err := loadProfile(profilePath(appDir))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppName: getString("OSHARE_APP_NAME", "oshare"),
		API: APIConfig{
			BaseURL: getString("OSHARE_API_URL", fallback(profile.APIBaseURL, "http://localhost:8000/api")),
			Timeout: getDuration("OSHARE_TIMEOUT", profileDuration(profile.Timeout, 15*time.Second)),
		},
		Store: StoreConfig{
			Path: getString("OSHARE_TOKEN_DB", fallback(profile.TokenDB, filepath.Join(appDir, "auth.db"))),
		},
		Logger: LoggerConfig{
			Level:    getString("OSHARE_LOG_LEVEL", fallback(profile.LogLevel, "info")),
			Encoding: getString("OSHARE_LOG_FORMAT", fallback(profile.LogFormat, "console")),
		},
	}

	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("api base url is empty")
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func defaultAppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".oshare"
	}
	return filepath.Join(home, ".oshare")
}

func profilePath(appDir string) string {
	if path := os.Getenv("OSHARE_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(appDir, "config.yaml")
}

// loadProfile reads the YAML profile. A missing file is not an error; the
// defaults cover it.
func loadProfile(path string) (fileConfig, error) {
	var profile fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return profile, nil
		}
		return profile, fmt.Errorf("read profile %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return profile, nil
}

func profileDuration(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	if parsed, err := time.ParseDuration(raw); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return def
}

func fallback(value, def string) string {
	if value != "" {
		return value
	}
	return def
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
