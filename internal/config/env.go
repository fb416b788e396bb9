package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvFilePaths lists the .env files consulted, nearest first.
func EnvFilePaths() []string {
	paths := []string{"./.env"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".lifetrack", ".env"),
			filepath.Join(home, ".config", "lifetrack", ".env"),
		)
	}
	return paths
}

// LoadEnvFiles loads every existing file from EnvFilePaths.
// Variables already set in the environment win.
func LoadEnvFiles() error {
	return loadEnvFiles(EnvFilePaths()...)
}

func loadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return err
		}
	}
	return nil
}

var envAliases = map[string][]string{
	"LIFETRACK_CHANNELS_TELEGRAM_BOT_TOKEN": {"TELEGRAM_BOT_TOKEN"},
	"LIFETRACK_CHANNELS_DISCORD_TOKEN":      {"DISCORD_BOT_TOKEN", "DISCORD_TOKEN"},
	"LIFETRACK_SECURITY_JWT_SECRET":         {"JWT_SECRET"},
	"LIFETRACK_SECURITY_ADMIN_PASSWORD":     {"ADMIN_PASSWORD"},
	"LIFETRACK_LLM_BASE_URL":                {"OLLAMA_URL", "OLLAMA_HOST"},
	"LIFETRACK_LLM_MODEL":                   {"OLLAMA_MODEL"},
}

// ResolveEnvWithAliases returns the canonical variable or the first set alias.
func ResolveEnvWithAliases(canonicalKey string) string {
	if val := os.Getenv(canonicalKey); val != "" {
		return val
	}

	for _, alias := range envAliases[canonicalKey] {
		if val := os.Getenv(alias); val != "" {
			return val
		}
	}

	return ""
}

// applyAliases fills values viper could not see because only a short alias was set.
func applyAliases(cfg *Config) {
	setIfEmpty := func(dst *string, key string) {
		if *dst != "" && os.Getenv(key) == "" {
			return
		}
		if val := ResolveEnvWithAliases(key); val != "" {
			*dst = val
		}
	}

	setIfEmpty(&cfg.Channels.Telegram.BotToken, "LIFETRACK_CHANNELS_TELEGRAM_BOT_TOKEN")
	setIfEmpty(&cfg.Channels.Discord.Token, "LIFETRACK_CHANNELS_DISCORD_TOKEN")
	setIfEmpty(&cfg.Security.JWTSecret, "LIFETRACK_SECURITY_JWT_SECRET")
	setIfEmpty(&cfg.Security.AdminPassword, "LIFETRACK_SECURITY_ADMIN_PASSWORD")
	setIfEmpty(&cfg.LLM.Model, "LIFETRACK_LLM_MODEL")

	// base_url always has a default, so an alias overrides it only when the canonical key is unset
	if os.Getenv("LIFETRACK_LLM_BASE_URL") == "" {
		if val := ResolveEnvWithAliases("LIFETRACK_LLM_BASE_URL"); val != "" {
			cfg.LLM.BaseURL = val
		}
	}
}
