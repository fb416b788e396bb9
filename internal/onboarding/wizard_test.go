package onboarding

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmsas95/lifetrack/internal/config"
)

func TestWizard_Run(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, CheckFirstRun(dir))

	input := strings.Join([]string{
		"n",       // ollama
		"hunter2", // admin password
		"",        // timezone
		"y",       // telegram
		"123:abc", // telegram token
		"",        // discord
	}, "\n") + "\n"

	var out bytes.Buffer
	w := NewWizard(strings.NewReader(input), &out, dir, nil)
	w.now = func() time.Time { return time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC) }

	path, err := w.Run()
	require.NoError(t, err)
	assert.Equal(t, ConfigPath(dir), path)
	assert.False(t, CheckFirstRun(dir))
	assert.Contains(t, out.String(), "Cài đặt hoàn tất")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "# Lifetrack configuration\n# Generated on 2025-03-12T10:00:00Z"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	cfg, err := config.Load(path, dir)
	require.NoError(t, err)
	assert.False(t, cfg.LLM.Enabled)
	assert.Equal(t, "hunter2", cfg.Security.AdminPassword)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Location)
	assert.True(t, cfg.Channels.Telegram.Enabled)
	assert.Equal(t, "123:abc", cfg.Channels.Telegram.BotToken)
	assert.False(t, cfg.Channels.Discord.Enabled)
	assert.NotEmpty(t, cfg.Security.JWTSecret)
}

func TestWizard_SecretSurvivesReload(t *testing.T) {
	dir := t.TempDir()

	w := NewWizard(strings.NewReader(""), &bytes.Buffer{}, dir, nil)
	path, err := w.Run()
	require.NoError(t, err)

	first, err := config.Load(path, dir)
	require.NoError(t, err)
	second, err := config.Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, first.Security.JWTSecret, second.Security.JWTSecret)
	assert.True(t, first.LLM.Enabled, "defaults are kept on empty input")
}

func TestApply(t *testing.T) {
	base := &config.Config{Location: "UTC"}
	base.LLM.Model = "qwen2.5-coder"

	cfg := Apply(base, Answers{LLMEnabled: true, DiscordToken: "tok"})
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "qwen2.5-coder", cfg.LLM.Model)
	assert.Equal(t, "UTC", cfg.Location)
	assert.True(t, cfg.Channels.Discord.Enabled)
	assert.False(t, cfg.Channels.Telegram.Enabled)
	assert.False(t, base.LLM.Enabled, "input config is not modified")
}
