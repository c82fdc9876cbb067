package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DiscordToken              string         `yaml:"discord_token"`
	DatabasePath              string         `yaml:"database_path"`
	DatabaseURL               string         `yaml:"database_url"`
	LogLevel                  string         `yaml:"log_level"`
	DefaultSecurityLogChannel string         `yaml:"default_security_log_channel"`
	DefaultLanguage           string         `yaml:"default_language"`
	RetentionDays             int            `yaml:"retention_days"`
	Mode                      string         `yaml:"mode"`
	Health                    HealthConfig   `yaml:"health"`
	Denylist                  DenylistConfig `yaml:"denylist"`
	Notifications             NotifyConfig   `yaml:"notifications"`
}

type HealthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// DenylistConfig controls where the denylist comes from and how often it is
// re-fetched.
type DenylistConfig struct {
	URL            string `yaml:"url"`
	RefreshSeconds int    `yaml:"refresh_seconds"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
	MaxBytes       int64  `yaml:"max_bytes"`
	ExpandIDN      bool   `yaml:"expand_idn"`
	MatchCacheSize int    `yaml:"match_cache_size"`
}

type NotifyConfig struct {
	AuditToChannel bool        `yaml:"audit_to_channel"`
	EmbedColors    EmbedColors `yaml:"embed_colors"`
}

type EmbedColors struct {
	Action  int `yaml:"action"`
	Warning int `yaml:"warning"`
	Error   int `yaml:"error"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel:                  "info",
		RetentionDays:             14,
		Mode:                      "normal",
		DefaultSecurityLogChannel: "",
		DefaultLanguage:           "en",
		Health:                    HealthConfig{Enabled: false, Addr: ":8080"},
		Denylist: DenylistConfig{
			RefreshSeconds: 3600,
			TimeoutSeconds: 20,
			MaxRetries:     2,
			MaxBytes:       8 << 20,
			ExpandIDN:      false,
			MatchCacheSize: 4096,
		},
		Notifications: NotifyConfig{
			AuditToChannel: true,
			EmbedColors: EmbedColors{
				Action:  0xF59E0B,
				Warning: 0xEF4444,
				Error:   0xF97316,
			},
		},
	}
}

func Load() (Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if cfg.DiscordToken == "" {
		return Config{}, errors.New("DISCORD_TOKEN is required")
	}
	if cfg.Denylist.URL == "" {
		return Config{}, errors.New("DENYLIST_URL is required")
	}

	cfg.Mode = normalizeMode(cfg.Mode)
	cfg.DefaultLanguage = normalizeLanguage(cfg.DefaultLanguage)
	applyDenylistDefaults(&cfg.Denylist)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DiscordToken = envString("DISCORD_TOKEN", cfg.DiscordToken)
	cfg.DatabasePath = envString("DATABASE_PATH", cfg.DatabasePath)
	cfg.DatabaseURL = envString("DATABASE_URL", cfg.DatabaseURL)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.DefaultSecurityLogChannel = envString("DEFAULT_SECURITY_LOG_CHANNEL", cfg.DefaultSecurityLogChannel)
	cfg.DefaultLanguage = envString("DEFAULT_LANGUAGE", cfg.DefaultLanguage)
	cfg.RetentionDays = envInt("RETENTION_DAYS", cfg.RetentionDays)
	cfg.Mode = envString("MODE", cfg.Mode)
	cfg.Health.Enabled = envBool("HEALTH_ENABLED", cfg.Health.Enabled)
	cfg.Health.Addr = envString("HEALTH_ADDR", cfg.Health.Addr)
	cfg.Denylist.URL = envString("DENYLIST_URL", cfg.Denylist.URL)
	cfg.Denylist.RefreshSeconds = envInt("DENYLIST_REFRESH_SECONDS", cfg.Denylist.RefreshSeconds)
	cfg.Denylist.TimeoutSeconds = envInt("DENYLIST_TIMEOUT_SECONDS", cfg.Denylist.TimeoutSeconds)
	cfg.Denylist.MaxRetries = envInt("DENYLIST_MAX_RETRIES", cfg.Denylist.MaxRetries)
	cfg.Denylist.MaxBytes = int64(envInt("DENYLIST_MAX_BYTES", int(cfg.Denylist.MaxBytes)))
	cfg.Denylist.ExpandIDN = envBool("DENYLIST_EXPAND_IDN", cfg.Denylist.ExpandIDN)
	cfg.Denylist.MatchCacheSize = envInt("DENYLIST_MATCH_CACHE_SIZE", cfg.Denylist.MatchCacheSize)
	cfg.Notifications.AuditToChannel = envBool("AUDIT_TO_CHANNEL", cfg.Notifications.AuditToChannel)
	cfg.Notifications.EmbedColors.Action = envInt("EMBED_COLOR_ACTION", cfg.Notifications.EmbedColors.Action)
	cfg.Notifications.EmbedColors.Warning = envInt("EMBED_COLOR_WARNING", cfg.Notifications.EmbedColors.Warning)
	cfg.Notifications.EmbedColors.Error = envInt("EMBED_COLOR_ERROR", cfg.Notifications.EmbedColors.Error)
}

func BuildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl := strings.ToLower(level)
	switch lvl {
	case "debug", "info", "warn", "error":
		cfg.Level = zap.NewAtomicLevelAt(parseLevel(lvl))
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		lower := strings.ToLower(value)
		return lower == "1" || lower == "true" || lower == "yes"
	}
	return fallback
}

func normalizeMode(value string) string {
	switch strings.ToLower(value) {
	case "audit":
		return "audit"
	default:
		return "normal"
	}
}

func normalizeLanguage(value string) string {
	switch strings.ToLower(value) {
	case "en", "fr", "es":
		return strings.ToLower(value)
	default:
		return "en"
	}
}

// applyDenylistDefaults replaces non-positive values with the defaults so a
// partial yaml block cannot disable the refresh interval.
func applyDenylistDefaults(cfg *DenylistConfig) {
	defaults := DefaultConfig().Denylist
	if cfg.RefreshSeconds <= 0 {
		cfg.RefreshSeconds = defaults.RefreshSeconds
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaults.MaxBytes
	}
	if cfg.MatchCacheSize < 0 {
		cfg.MatchCacheSize = 0
	}
}
