package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gmsas95/lifetrack/internal/assistant"
	"github.com/gmsas95/lifetrack/internal/batch"
	"github.com/gmsas95/lifetrack/internal/channels"
	"github.com/gmsas95/lifetrack/internal/config"
	"github.com/gmsas95/lifetrack/internal/interpreter"
	"github.com/gmsas95/lifetrack/internal/store"
)

var Version = "dev"

// Handler records one chat message
type Handler interface {
	Handle(ctx context.Context, text string) (*assistant.Response, error)
}

// StatsReader loads the monthly summary
type StatsReader interface {
	MonthlyStats(ctx context.Context, month string) (*store.MonthlyStats, error)
	TotalBalance(ctx context.Context) (float64, error)
}

// ModelChecker reports on the language model backend
type ModelChecker interface {
	Available(ctx context.Context) bool
	Models(ctx context.Context) ([]string, error)
	Model() string
}

// HandleParseCommand prints the interpreter result for text as JSON without
// storing anything
func HandleParseCommand(args []string, now time.Time, out io.Writer) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		fmt.Fprintln(out, `Usage: lifetrack parse "<câu>"`)
		return nil
	}

	data, err := json.MarshalIndent(interpreter.Interpret(text, now), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// HandleStatsCommand prints the summary of a month (default: the current one)
func HandleStatsCommand(ctx context.Context, r StatsReader, args []string, now time.Time, out io.Writer) error {
	month := now.Format(store.MonthLayout)
	if len(args) > 0 {
		month = args[0]
	}

	stats, err := r.MonthlyStats(ctx, month)
	if err != nil {
		return err
	}
	balance, err := r.TotalBalance(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, channels.FormatStats(stats))
	fmt.Fprintf(out, "\n💼 Số dư tổng: %sđ\n", interpreter.FormatAmount(balance))
	return nil
}

// HandleImportCommand records every line of a file through h
func HandleImportCommand(ctx context.Context, h Handler, args []string, out io.Writer) error {
	inputFile := ""
	outputFile := ""
	cfg := batch.DefaultConfig()

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				outputFile = args[i+1]
				i++
			}
		case "-c", "--concurrency":
			if i+1 < len(args) {
				fmt.Sscanf(args[i+1], "%d", &cfg.MaxConcurrency)
				i++
			}
		case "-h", "--help":
			PrintImportHelp(out)
			return nil
		default:
			inputFile = args[i]
		}
	}

	if inputFile == "" {
		PrintImportHelp(out)
		return nil
	}

	fmt.Fprintf(out, "📥 Đang nhập %s...\n\n", inputFile)

	result, err := batch.NewProcessor(h, cfg, nil).ProcessFile(ctx, inputFile, outputFile)
	if err != nil {
		return err
	}

	fmt.Fprint(out, result.Summary())
	if outputFile != "" {
		fmt.Fprintf(out, "✓ Đã lưu báo cáo: %s\n", outputFile)
	}
	for _, item := range result.Items {
		if !item.Success {
			fmt.Fprintf(out, "  - %s: %s\n", item.ID, item.Error)
		}
	}
	return nil
}

func HandleStatusCommand(cfg *config.Config, configPath string, out io.Writer) {
	fmt.Fprintln(out, "Lifetrack Status")
	fmt.Fprintln(out, "================")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Version: %s\n", Version)
	fmt.Fprintf(out, "Config:  %s\n", configPath)
	fmt.Fprintf(out, "Data:    %s\n", cfg.Storage.DataDir)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Server:")
	fmt.Fprintf(out, "  Address: %s\n", cfg.ListenAddr())
	fmt.Fprintf(out, "  Login:   %s\n", passwordStatus(cfg.Security.AdminPassword))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "LLM:")
	fmt.Fprintf(out, "  Ollama: %s\n", channelStatus(cfg.LLM.Enabled))
	fmt.Fprintf(out, "  Model:  %s @ %s\n", cfg.LLM.Model, cfg.LLM.BaseURL)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Reminders:")
	fmt.Fprintf(out, "  %s (%s, %d phút trước)\n", channelStatus(cfg.Reminders.Enabled), cfg.Reminders.Schedule, cfg.Reminders.LeadMinutes)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Channels:")
	fmt.Fprintf(out, "  Telegram: %s\n", channelStatus(cfg.Channels.Telegram.Enabled))
	if cfg.Channels.Telegram.Enabled {
		fmt.Fprintf(out, "    Bot Token: %s\n", maskToken(cfg.Channels.Telegram.BotToken))
		fmt.Fprintf(out, "    Allow List: %d users\n", len(cfg.Channels.Telegram.AllowList))
	}
	fmt.Fprintf(out, "  Discord:  %s\n", channelStatus(cfg.Channels.Discord.Enabled))
	if cfg.Channels.Discord.Enabled {
		fmt.Fprintf(out, "    Token: %s\n", maskToken(cfg.Channels.Discord.Token))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'lifetrack doctor' for diagnostics")
}

// HandleDoctorCommand runs the diagnostics and returns the number of issues
func HandleDoctorCommand(ctx context.Context, cfg *config.Config, st *store.Store, llm ModelChecker, out io.Writer) int {
	fmt.Fprintln(out, "Lifetrack Diagnostics")
	fmt.Fprintln(out, "=====================")
	fmt.Fprintln(out)

	issues := 0

	if _, err := os.Stat(cfg.Storage.DataDir); err != nil {
		fmt.Fprintln(out, "❌ Data Directory: Does not exist")
		issues++
	} else {
		fmt.Fprintln(out, "✅ Data Directory: Exists")
	}

	if st == nil {
		fmt.Fprintln(out, "❌ Database: Not opened")
		issues++
	} else if err := st.Ping(ctx); err != nil {
		fmt.Fprintf(out, "❌ Database: %v\n", err)
		issues++
	} else {
		fmt.Fprintln(out, "✅ Database: OK")
	}

	switch {
	case !cfg.LLM.Enabled || llm == nil:
		fmt.Fprintln(out, "ℹ️  Ollama: Disabled, using rule-based parsing only")
	case !llm.Available(ctx):
		fmt.Fprintf(out, "⚠️  Ollama: Not reachable at %s\n", cfg.LLM.BaseURL)
		fmt.Fprintln(out, "   Messages will be parsed by rules until it is back")
		issues++
	default:
		models, err := llm.Models(ctx)
		switch {
		case err != nil:
			fmt.Fprintf(out, "⚠️  Ollama: Could not read model list: %v\n", err)
			issues++
		case !hasModel(models, llm.Model()):
			fmt.Fprintf(out, "⚠️  Ollama: Model %s not pulled\n", llm.Model())
			fmt.Fprintf(out, "   Run: ollama pull %s\n", llm.Model())
			issues++
		default:
			fmt.Fprintf(out, "✅ Ollama: %s\n", llm.Model())
		}
	}

	if cfg.Security.AdminPassword == "" {
		fmt.Fprintln(out, "⚠️  API Login: No admin password, anyone can log in")
		issues++
	} else {
		fmt.Fprintln(out, "✅ API Login: Password set")
	}

	fmt.Fprintln(out)
	if issues == 0 {
		fmt.Fprintln(out, "✅ All checks passed!")
	} else {
		fmt.Fprintf(out, "⚠️  Found %d issue(s). Run 'lifetrack init' to fix configuration.\n", issues)
	}
	return issues
}

// hasModel accepts "name" for an installed "name:latest"
func hasModel(models []string, want string) bool {
	for _, m := range models {
		if m == want || strings.TrimSuffix(m, ":latest") == want {
			return true
		}
	}
	return false
}

func channelStatus(enabled bool) string {
	if enabled {
		return "✅ enabled"
	}
	return "❌ disabled"
}

func passwordStatus(password string) string {
	if password == "" {
		return "⚠️  open (no admin password)"
	}
	return "🔒 password"
}

func maskToken(token string) string {
	if len(token) < 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
