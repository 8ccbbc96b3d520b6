package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"transitctl/pkg/transit"
)

// AppConfig holds all user-defined persistent settings
type AppConfig struct {
	Endpoint         string `json:"endpoint,omitempty"`
	UserAgent        string `json:"user_agent,omitempty"`
	Identifier       string `json:"identifier,omitempty"`
	TimeEncoding     string `json:"time_encoding,omitempty"`
	StrictValidation bool   `json:"strict_validation,omitempty"`
	HomeAddress      string `json:"home_address,omitempty"`
	HomeStationID    string `json:"home_station_id,omitempty"`
	AccentColor      string `json:"accent_color,omitempty"`
}

// Logging selects the process logger. It only comes from the environment.
type Logging struct {
	Level  slog.Level
	Format string
}

// getConfigPath returns the absolute path to ~/.transitctl.json
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".transitctl.json"), nil
}

// Load reads the application configuration from disk.
// Returns an empty struct if the file does not exist.
func Load() (*AppConfig, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just return an empty default configuration
		if os.IsNotExist(err) {
			return &AppConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Save writes the application configuration back to disk.
func Save(cfg *AppConfig) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvFile loads KEY=value pairs from path into the process
// environment. Variables already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays the TRANSIT_* environment variables on cfg.
func (cfg *AppConfig) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv("TRANSIT_ENDPOINT")); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv("TRANSIT_USER_AGENT")); v != "" {
		cfg.UserAgent = v
	}
	if v := strings.TrimSpace(os.Getenv("TRANSIT_IDENTIFIER")); v != "" {
		cfg.Identifier = v
	}
	if v := strings.TrimSpace(os.Getenv("TRANSIT_TIME_ENCODING")); v != "" {
		if _, err := transit.ParseTimeEncoding(v); err != nil {
			return fmt.Errorf("invalid TRANSIT_TIME_ENCODING: %w", err)
		}
		cfg.TimeEncoding = v
	}
	if v := strings.TrimSpace(os.Getenv("TRANSIT_STRICT")); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TRANSIT_STRICT %q: %w", v, err)
		}
		cfg.StrictValidation = strict
	}
	return nil
}

// ClientOptions turns the settings into options for transit.NewClient.
func (cfg *AppConfig) ClientOptions(logger *slog.Logger) (transit.Options, error) {
	opts := transit.DefaultOptions()
	if cfg.Endpoint != "" {
		opts.Endpoint = cfg.Endpoint
	}
	if cfg.UserAgent != "" {
		opts.UserAgent = cfg.UserAgent
	}
	enc, err := transit.ParseTimeEncoding(cfg.TimeEncoding)
	if err != nil {
		return transit.Options{}, err
	}
	opts.TimeEncoding = enc
	if enc == transit.EncodingUnixSeconds {
		// Unix seconds are only served by the first generation API, which has the old routes.
		opts.Paths = transit.LegacyPaths()
	}
	opts.Identifier = cfg.Identifier
	opts.StrictValidation = cfg.StrictValidation
	opts.Logger = logger
	return opts, nil
}

// LoggingFromEnv reads LOG_LEVEL and LOG_FORMAT.
func LoggingFromEnv() (Logging, error) {
	levelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if levelStr == "" {
		levelStr = "warn"
	}
	level, err := parseLogLevel(levelStr)
	if err != nil {
		return Logging{}, err
	}

	format := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if format == "" {
		format = "text"
	}
	switch format {
	case "text", "json":
	default:
		return Logging{}, fmt.Errorf("invalid LOG_FORMAT %q (allowed: text, json)", format)
	}

	return Logging{Level: level, Format: format}, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
