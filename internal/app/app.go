// Package app wires configuration, storage, the assistant and every front-end
// into one process.
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gmsas95/lifetrack/internal/api"
	"github.com/gmsas95/lifetrack/internal/assistant"
	"github.com/gmsas95/lifetrack/internal/channels/discord"
	"github.com/gmsas95/lifetrack/internal/channels/telegram"
	"github.com/gmsas95/lifetrack/internal/config"
	"github.com/gmsas95/lifetrack/internal/llm"
	"github.com/gmsas95/lifetrack/internal/metrics"
	"github.com/gmsas95/lifetrack/internal/reminder"
	"github.com/gmsas95/lifetrack/internal/store"
)

type App struct {
	Config      *config.Config
	Loader      *config.Loader
	Store       *store.Store
	LLM         *llm.Client
	Assistant   *assistant.Assistant
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
	TelegramBot *telegram.Bot
	DiscordBot  *discord.Bot
	Reminders   *reminder.Runner
	Version     string
}

// NewLogger builds the zap logger described by the logging section
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// New opens the store and builds the assistant. The LLM client always exists
// so a config reload can switch it on.
func New(loader *config.Loader, logger *zap.Logger, version string) (*App, error) {
	cfg := loader.Config()
	m := metrics.Default()

	st, err := store.Open(cfg.Storage)
	if err != nil {
		return nil, err
	}

	client := llm.NewClient(llm.OptionsFromConfig(cfg.LLM), logger, m)

	a := assistant.New(client, st, logger,
		assistant.WithMetrics(m),
		assistant.WithLocation(cfg.TimeLocation()),
	)
	a.SetLLMEnabled(cfg.LLM.Enabled)

	return &App{
		Config:    cfg,
		Loader:    loader,
		Store:     st,
		LLM:       client,
		Assistant: a,
		Metrics:   m,
		Logger:    logger,
		Version:   version,
	}, nil
}

func (app *App) Close() error {
	return app.Store.Close()
}

// RunServer starts the API, the reminder runner and the chat bots, then
// blocks until SIGINT or SIGTERM
func (app *App) RunServer() error {
	api.Version = app.Version
	server := api.New(app.Config, app.Store, app.Assistant, app.Metrics, app.Logger)

	if app.Config.Reminders.Enabled {
		runner, err := reminder.NewRunner(reminder.Config{
			Schedule: app.Config.Reminders.Schedule,
			Lead:     time.Duration(app.Config.Reminders.LeadMinutes) * time.Minute,
			Location: app.Config.TimeLocation(),
		}, app.Store, app.Logger, app.Metrics)
		if err != nil {
			return err
		}
		runner.AddNotifier(server.Hub())
		app.Reminders = runner
	}

	app.startChannels()

	if app.Reminders != nil {
		if err := app.Reminders.Start(); err != nil {
			app.Logger.Error("Failed to start reminder runner", zap.Error(err))
		} else {
			app.Logger.Info("Reminder runner started", zap.String("schedule", app.Config.Reminders.Schedule))
		}
	}

	app.Loader.Watch(app.onConfigChange, func(err error) {
		app.Logger.Error("Config reload rejected", zap.Error(err))
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	app.Logger.Info("Server started",
		zap.String("address", app.Config.ListenAddr()),
		zap.Bool("llm", app.Assistant.LLMEnabled()),
		zap.String("model", app.LLM.Model()),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case runErr = <-errCh:
		app.Logger.Error("Server error", zap.Error(runErr))
	}

	app.Logger.Info("Shutting down...")

	if app.TelegramBot != nil {
		app.TelegramBot.Stop()
	}
	if app.DiscordBot != nil {
		if err := app.DiscordBot.Stop(); err != nil {
			app.Logger.Warn("Discord shutdown error", zap.Error(err))
		}
	}
	if app.Reminders != nil {
		app.Reminders.Stop()
	}
	if err := server.Shutdown(); err != nil {
		app.Logger.Error("Server shutdown error", zap.Error(err))
	}
	return runErr
}

// startChannels connects the configured bots. A bot that fails to connect is
// logged and skipped.
func (app *App) startChannels() {
	tg := app.Config.Channels.Telegram
	if tg.Enabled {
		bot, err := telegram.NewBot(telegram.Config{
			Token:     tg.BotToken,
			AllowList: tg.AllowList,
		}, app.Assistant, app.Store, app.Logger)
		if err != nil {
			app.Logger.Error("Failed to create Telegram bot", zap.Error(err))
		} else if err := bot.Start(); err != nil {
			app.Logger.Error("Failed to start Telegram bot", zap.Error(err))
		} else {
			app.TelegramBot = bot
			if app.Reminders != nil {
				app.Reminders.AddNotifier(bot)
			}
			app.Logger.Info("Telegram bot started")
		}
	}

	dc := app.Config.Channels.Discord
	if dc.Enabled {
		bot, err := discord.NewBot(discord.Config{
			Token:   dc.Token,
			GuildID: dc.GuildID,
		}, app.Assistant, app.Store, app.Logger)
		if err != nil {
			app.Logger.Error("Failed to create Discord bot", zap.Error(err))
		} else if err := bot.Start(); err != nil {
			app.Logger.Error("Failed to start Discord bot", zap.Error(err))
		} else {
			app.DiscordBot = bot
			if app.Reminders != nil {
				app.Reminders.AddNotifier(bot)
			}
			app.Logger.Info("Discord bot started")
		}
	}
}

// onConfigChange applies the settings that can change without a restart
func (app *App) onConfigChange(cfg *config.Config, e fsnotify.Event) {
	app.Metrics.RecordConfigReload()
	app.Assistant.SetLLMEnabled(cfg.LLM.Enabled)
	app.Logger.Info("Config reloaded",
		zap.String("file", e.Name),
		zap.Bool("llm", app.Assistant.LLMEnabled()),
	)
}

// Handle records one message, for the one-shot and chat commands
func (app *App) Handle(ctx context.Context, text string) (*assistant.Response, error) {
	return app.Assistant.Handle(ctx, text)
}
