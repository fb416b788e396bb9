// Package onboarding implements the interactive "lifetrack init" wizard that
// writes the first configuration file.
package onboarding

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gmsas95/lifetrack/internal/config"
	apperrors "github.com/gmsas95/lifetrack/internal/errors"
)

const configFile = "lifetrack.yaml"

// Wizard handles the interactive setup process
type Wizard struct {
	reader  *bufio.Reader
	out     io.Writer
	logger  *zap.Logger
	dataDir string
	answers Answers
	now     func() time.Time
}

// Answers holds what the user chose during setup
type Answers struct {
	LLMEnabled    bool
	LLMBaseURL    string
	LLMModel      string
	AdminPassword string
	TelegramToken string
	DiscordToken  string
	Location      string
}

// NewWizard creates a new setup wizard reading answers from in
func NewWizard(in io.Reader, out io.Writer, dataDir string, logger *zap.Logger) *Wizard {
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Wizard{
		reader:  bufio.NewReader(in),
		out:     out,
		logger:  logger,
		dataDir: dataDir,
		now:     time.Now,
	}
}

// Run asks the questions and writes the config file, returning its path
func (w *Wizard) Run() (string, error) {
	fmt.Fprint(w.out, SetupWizardWelcome)

	defaults, err := config.Load(ConfigPath(w.dataDir), w.dataDir)
	if err != nil {
		return "", err
	}

	w.step("Bước 1: Mô hình ngôn ngữ")
	w.answers.LLMEnabled = w.confirm("Dùng Ollama để hiểu câu phức tạp hơn?", defaults.LLM.Enabled)
	w.answers.LLMBaseURL = defaults.LLM.BaseURL
	w.answers.LLMModel = defaults.LLM.Model
	if w.answers.LLMEnabled {
		w.answers.LLMBaseURL = w.ask("Địa chỉ Ollama", defaults.LLM.BaseURL)
		w.answers.LLMModel = w.ask("Tên model", defaults.LLM.Model)
	}

	w.step("Bước 2: Bảo mật")
	w.answers.AdminPassword = w.ask("Mật khẩu đăng nhập API (bỏ trống = không cần)", defaults.Security.AdminPassword)
	w.answers.Location = w.ask("Múi giờ", defaults.Location)

	w.step("Bước 3: Kết nối (tùy chọn)")
	if w.confirm("Bật bot Telegram?", defaults.Channels.Telegram.Enabled) {
		w.answers.TelegramToken = w.ask("Telegram bot token", defaults.Channels.Telegram.BotToken)
	}
	if w.confirm("Bật bot Discord?", defaults.Channels.Discord.Enabled) {
		w.answers.DiscordToken = w.ask("Discord bot token", defaults.Channels.Discord.Token)
	}

	cfg := Apply(defaults, w.answers)
	path := ConfigPath(w.dataDir)
	if err := WriteConfig(path, cfg, w.now()); err != nil {
		return "", err
	}
	w.logger.Info("Config written", zap.String("path", path))

	msg := strings.ReplaceAll(SetupCompleteMessage, "{{.DataDir}}", w.dataDir)
	msg = strings.ReplaceAll(msg, "{{.ConfigPath}}", path)
	fmt.Fprint(w.out, msg)

	return path, nil
}

func (w *Wizard) step(title string) {
	fmt.Fprintln(w.out)
	fmt.Fprintf(w.out, banner, title)
}

func (w *Wizard) ask(question, def string) string {
	if def != "" {
		fmt.Fprintf(w.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(w.out, "%s: ", question)
	}
	line, _ := w.reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func (w *Wizard) confirm(question string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	switch strings.ToLower(w.ask(fmt.Sprintf("%s (%s)", question, hint), "")) {
	case "y", "yes", "c", "có", "co":
		return true
	case "n", "no", "k", "không", "khong":
		return false
	default:
		return def
	}
}

// Apply copies the answers onto a loaded configuration
func Apply(cfg *config.Config, a Answers) *config.Config {
	out := *cfg
	out.LLM.Enabled = a.LLMEnabled
	if a.LLMBaseURL != "" {
		out.LLM.BaseURL = a.LLMBaseURL
	}
	if a.LLMModel != "" {
		out.LLM.Model = a.LLMModel
	}
	out.Security.AdminPassword = a.AdminPassword
	if a.Location != "" {
		out.Location = a.Location
	}
	out.Channels.Telegram.Enabled = a.TelegramToken != ""
	out.Channels.Telegram.BotToken = a.TelegramToken
	out.Channels.Discord.Enabled = a.DiscordToken != ""
	out.Channels.Discord.Token = a.DiscordToken
	return &out
}

// WriteConfig marshals cfg as YAML. The file holds secrets, so it is private.
func WriteConfig(path string, cfg *config.Config, now time.Time) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrConfigInvalid.Code, "failed to encode config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.Wrap(err, apperrors.ErrConfigInvalid.Code, "failed to create config directory")
	}

	content := fmt.Sprintf(configHeader, now.Format(time.RFC3339)) + string(data)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return apperrors.Wrap(err, apperrors.ErrConfigInvalid.Code, "failed to write config")
	}
	return nil
}

// ConfigPath returns where the config file of dataDir lives
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, configFile)
}

// CheckFirstRun reports whether dataDir has no config file yet
func CheckFirstRun(dataDir string) bool {
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	_, err := os.Stat(ConfigPath(dataDir))
	return os.IsNotExist(err)
}
