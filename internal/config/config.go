package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the client settings for PLUS ULTRA.
type Config struct {
	APIURL         string
	RequestTimeout time.Duration
	SearchDebounce time.Duration
	PollInterval   time.Duration
	SessionPath    string
	LogPath        string
	LogLevel       string
}

const (
	defaultConfigPath     = "~/.config/plusultra/config.toml"
	defaultAPIURL         = "http://localhost:3000/api"
	defaultRequestTimeout = 10 * time.Second
	defaultSearchDebounce = 500 * time.Millisecond
	defaultPollInterval   = 30 * time.Second
	defaultSessionPath    = "~/.config/plusultra/session.json"
	defaultLogPath        = "~/.local/state/plusultra/plusultra.log"
	defaultLogLevel       = "info"
)

// fileConfig mirrors the on-disk TOML layout. Durations are Go duration strings.
type fileConfig struct {
	APIURL         string `toml:"api_url"`
	RequestTimeout string `toml:"request_timeout"`
	SearchDebounce string `toml:"search_debounce"`
	PollInterval   string `toml:"poll_interval"`
	SessionPath    string `toml:"session_path"`
	LogPath        string `toml:"log_path"`
	LogLevel       string `toml:"log_level"`
}

// envConfig lists the environment overrides. Unset variables keep the file value.
type envConfig struct {
	APIURL      string `env:"PLUSULTRA_API_URL"`
	LogLevel    string `env:"PLUSULTRA_LOG_LEVEL"`
	LogPath     string `env:"PLUSULTRA_LOG_PATH"`
	SessionPath string `env:"PLUSULTRA_SESSION_PATH"`
}

// Default returns the built-in configuration with paths expanded.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		RequestTimeout: defaultRequestTimeout,
		SearchDebounce: defaultSearchDebounce,
		PollInterval:   defaultPollInterval,
		SessionPath:    mustExpand(defaultSessionPath),
		LogPath:        mustExpand(defaultLogPath),
		LogLevel:       defaultLogLevel,
	}
}

// Load locates and parses the client config, falling back to defaults when
// missing. Environment overrides are applied last.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		if err := parseFile(file, &cfg); err != nil {
			return Config{}, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ResolvedPath reports the config file that Load would read for path.
func ResolvedPath(path string) string {
	resolved, err := resolvePath(path)
	if err != nil {
		return path
	}
	return resolved
}

func parseFile(r io.Reader, cfg *Config) error {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout, cfg.RequestTimeout); err != nil {
		return err
	}
	if cfg.SearchDebounce, err = parseDuration("search_debounce", raw.SearchDebounce, cfg.SearchDebounce); err != nil {
		return err
	}
	if cfg.PollInterval, err = parseDuration("poll_interval", raw.PollInterval, cfg.PollInterval); err != nil {
		return err
	}
	if v := strings.TrimSpace(raw.SessionPath); v != "" {
		cfg.SessionPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		cfg.LogPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	if v := strings.TrimSpace(env.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(env.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(env.LogPath); v != "" {
		cfg.LogPath = mustExpand(v)
	}
	if v := strings.TrimSpace(env.SessionPath); v != "" {
		cfg.SessionPath = mustExpand(v)
	}
	return nil
}

func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", key, err)
	}
	if d <= 0 {
		return fallback, nil
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath trims path, expands a leading ~ to the home directory and makes
// the result absolute.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
