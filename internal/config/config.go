package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	apperrors "github.com/gmsas95/lifetrack/internal/errors"
)

// Config holds all configuration for Lifetrack
type Config struct {
	Server    ServerConfig   `mapstructure:"server" yaml:"server"`
	LLM       LLMConfig      `mapstructure:"llm" yaml:"llm"`
	Storage   StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Security  SecurityConfig `mapstructure:"security" yaml:"security"`
	Reminders ReminderConfig `mapstructure:"reminders" yaml:"reminders"`
	Logging   LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Channels  ChannelsConfig `mapstructure:"channels" yaml:"channels"`
	Location  string         `mapstructure:"location" yaml:"location"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Address      string `mapstructure:"address" yaml:"address"`
	Port         int    `mapstructure:"port" yaml:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// LLMConfig holds the local language model settings
type LLMConfig struct {
	Enabled       bool    `mapstructure:"enabled" yaml:"enabled"`
	BaseURL       string  `mapstructure:"base_url" yaml:"base_url"`
	Model         string  `mapstructure:"model" yaml:"model"`
	Timeout       int     `mapstructure:"timeout" yaml:"timeout"`
	HealthTimeout int     `mapstructure:"health_timeout" yaml:"health_timeout"`
	Temperature   float64 `mapstructure:"temperature" yaml:"temperature"`
	NumPredict    int     `mapstructure:"num_predict" yaml:"num_predict"`
	RPM           int     `mapstructure:"rpm" yaml:"rpm"`
	Burst         int     `mapstructure:"burst" yaml:"burst"`
	MaxFailures   uint32  `mapstructure:"max_failures" yaml:"max_failures"`
	OpenTimeout   int     `mapstructure:"open_timeout" yaml:"open_timeout"`
}

// StorageConfig holds database settings
type StorageConfig struct {
	DataDir    string `mapstructure:"data_dir" yaml:"data_dir"`
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	BadgerPath string `mapstructure:"badger_path" yaml:"badger_path"`
	ChatLimit  int    `mapstructure:"chat_limit" yaml:"chat_limit"`
}

// SecurityConfig holds API authentication settings
type SecurityConfig struct {
	JWTSecret     string   `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	AdminPassword string   `mapstructure:"admin_password" yaml:"admin_password"`
	TokenTTL      int      `mapstructure:"token_ttl" yaml:"token_ttl"`
	AllowOrigins  []string `mapstructure:"allow_origins" yaml:"allow_origins"`
}

// ReminderConfig controls the reminder scheduler
type ReminderConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	Schedule    string `mapstructure:"schedule" yaml:"schedule"`
	LeadMinutes int    `mapstructure:"lead_minutes" yaml:"lead_minutes"`
}

type LoggingConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

// ChannelsConfig holds chat integration settings
type ChannelsConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram" yaml:"telegram"`
	Discord  DiscordConfig  `mapstructure:"discord" yaml:"discord"`
}

// TelegramConfig holds Telegram bot settings
type TelegramConfig struct {
	Enabled   bool    `mapstructure:"enabled" yaml:"enabled"`
	BotToken  string  `mapstructure:"bot_token" yaml:"bot_token"`
	AllowList []int64 `mapstructure:"allow_list" yaml:"allow_list"`
}

// DiscordConfig holds Discord bot settings
type DiscordConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Token   string `mapstructure:"token" yaml:"token"`
	GuildID string `mapstructure:"guild_id" yaml:"guild_id"`
}

// Loader wraps the viper instance so the file can be watched after Load.
type Loader struct {
	v   *viper.Viper
	cfg *Config
}

// Load loads configuration from file, env, and defaults
func Load(configPath, dataDir string) (*Config, error) {
	l, err := NewLoader(configPath, dataDir)
	if err != nil {
		return nil, err
	}
	return l.Config(), nil
}

// NewLoader reads the configuration and keeps the viper instance for Watch.
func NewLoader(configPath, dataDir string) (*Loader, error) {
	v := viper.New()
	setDefaults(v)

	if dataDir == "" {
		dataDir = os.Getenv("LIFETRACK_STORAGE_DATA_DIR")
	}
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrConfigInvalid.Code, "failed to create data directory")
	}

	v.SetDefault("storage.data_dir", dataDir)
	v.SetDefault("storage.sqlite_path", filepath.Join(dataDir, "lifetrack.db"))
	v.SetDefault("storage.badger_path", filepath.Join(dataDir, "badger"))

	if configPath == "" {
		configPath = filepath.Join(dataDir, "lifetrack.yaml")
	}

	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrConfigInvalid.Code, "failed to read config")
		}
	}

	// LIFETRACK_SERVER_PORT, LIFETRACK_LLM_MODEL, ...
	v.SetEnvPrefix("LIFETRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	return &Loader{v: v, cfg: cfg}, nil
}

// Config returns the most recently decoded configuration.
func (l *Loader) Config() *Config {
	return l.cfg
}

// Watch reloads the config file on change and hands the new value to onChange.
// Invalid edits are reported through onError and the previous value is kept.
func (l *Loader) Watch(onChange func(*Config, fsnotify.Event), onError func(error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(l.v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		l.cfg = cfg
		if onChange != nil {
			onChange(cfg, e)
		}
	})
	l.v.WatchConfig()
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrConfigInvalid.Code, "failed to unmarshal config")
	}

	applyAliases(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)

	v.SetDefault("llm.enabled", true)
	v.SetDefault("llm.base_url", "http://localhost:11434")
	v.SetDefault("llm.model", "qwen2.5-coder")
	v.SetDefault("llm.timeout", 60)
	v.SetDefault("llm.health_timeout", 2)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.num_predict", 500)
	v.SetDefault("llm.rpm", 30)
	v.SetDefault("llm.burst", 5)
	v.SetDefault("llm.max_failures", 3)
	v.SetDefault("llm.open_timeout", 30)

	v.SetDefault("storage.chat_limit", 50)

	v.SetDefault("security.jwt_secret", "")
	v.SetDefault("security.admin_password", "")
	v.SetDefault("security.token_ttl", 24)
	v.SetDefault("security.allow_origins", []string{"*"})

	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.schedule", "@every 1m")
	v.SetDefault("reminders.lead_minutes", 15)

	v.SetDefault("channels.telegram.enabled", false)
	v.SetDefault("channels.telegram.bot_token", "")
	v.SetDefault("channels.discord.enabled", false)
	v.SetDefault("channels.discord.token", "")
	v.SetDefault("channels.discord.guild_id", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", true)

	v.SetDefault("location", "Asia/Ho_Chi_Minh")
}

// DefaultDataDir returns $XDG_DATA_HOME/lifetrack or ~/.local/share/lifetrack.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "lifetrack")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}

	return filepath.Join(home, ".local", "share", "lifetrack")
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return apperrors.New(apperrors.ErrConfigInvalid.Code, fmt.Sprintf("server.port %d out of range", cfg.Server.Port))
	}
	if cfg.LLM.Enabled && cfg.LLM.BaseURL == "" {
		return apperrors.New(apperrors.ErrConfigInvalid.Code, "llm.base_url is required when llm.enabled is set")
	}
	if cfg.Reminders.LeadMinutes < 0 {
		return apperrors.New(apperrors.ErrConfigInvalid.Code, "reminders.lead_minutes must not be negative")
	}
	if cfg.Channels.Telegram.Enabled && cfg.Channels.Telegram.BotToken == "" {
		return apperrors.New(apperrors.ErrConfigInvalid.Code, "channels.telegram.bot_token is required")
	}
	if cfg.Channels.Discord.Enabled && cfg.Channels.Discord.Token == "" {
		return apperrors.New(apperrors.ErrConfigInvalid.Code, "channels.discord.token is required")
	}
	if _, err := time.LoadLocation(cfg.Location); err != nil {
		return apperrors.Wrap(err, apperrors.ErrConfigInvalid.Code, "unknown location")
	}

	if cfg.Security.JWTSecret == "" {
		cfg.Security.JWTSecret = randomSecret(32)
	}

	return nil
}

func randomSecret(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("lifetrack-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// TimeLocation resolves Location, falling back to the local zone.
func (c *Config) TimeLocation() *time.Location {
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return time.Local
	}
	return loc
}

// ListenAddr returns host:port for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

func (c LLMConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c LLMConfig) HealthCheckTimeout() time.Duration {
	return time.Duration(c.HealthTimeout) * time.Second
}
