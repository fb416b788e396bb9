package telegram

import (
	"context"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/gmsas95/lifetrack/internal/channels"
	apperrors "github.com/gmsas95/lifetrack/internal/errors"
)

const (
	lastChatKey  = "telegram:last_chat"
	maxMessage   = 4096
	replyTimeout = 60 * time.Second
)

// sender is the part of tgbotapi.BotAPI the bot uses to talk back
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot represents a Telegram bot integration
type Bot struct {
	api       *tgbotapi.BotAPI
	send      sender
	assistant channels.Assistant
	records   channels.Records
	logger    *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	allowList map[int64]bool // empty = allow all
}

// Config holds Telegram bot configuration
type Config struct {
	Token     string
	AllowList []int64
}

// NewBot creates a new Telegram bot
func NewBot(cfg Config, a channels.Assistant, r channels.Records, logger *zap.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, apperrors.New(apperrors.ErrChannelNotConfigured.Code, "telegram bot token is required")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrChannelUnavailable.Code, "failed to create telegram bot")
	}
	api.Debug = false
	logger.Info("Telegram bot authorized", zap.String("username", api.Self.UserName))

	b := newBot(api, a, r, cfg.AllowList, logger)
	b.api = api
	return b, nil
}

func newBot(s sender, a channels.Assistant, r channels.Records, allow []int64, logger *zap.Logger) *Bot {
	ctx, cancel := context.WithCancel(context.Background())

	allowList := make(map[int64]bool)
	for _, id := range allow {
		allowList[id] = true
	}

	return &Bot{
		send:      s,
		assistant: a,
		records:   r,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		allowList: allowList,
	}
}

// Start begins long polling for updates
func (b *Bot) Start() error {
	b.wg.Add(1)
	go b.run()
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() {
	b.cancel()
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
	b.wg.Wait()
}

func (b *Bot) run() {
	defer b.wg.Done()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-b.ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := b.handleUpdate(update); err != nil {
				b.logger.Error("Failed to handle update", zap.Error(err))
			}
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return nil
	}
	chatID := msg.Chat.ID

	if len(b.allowList) > 0 && !b.allowList[msg.From.ID] {
		return b.sendMessage(chatID, "⛔ Bạn không có quyền sử dụng bot này.")
	}

	if err := b.records.SetKV(lastChatKey, []byte(strconv.FormatInt(chatID, 10))); err != nil {
		b.logger.Warn("Failed to remember telegram chat", zap.Error(err))
	}

	_, _ = b.send.Send(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))

	ctx, cancel := context.WithTimeout(b.ctx, replyTimeout)
	defer cancel()

	reply, err := channels.Reply(ctx, b.assistant, b.records, msg.Text)
	if err != nil {
		b.logger.Error("Assistant error", zap.Error(err))
		return b.sendMessage(chatID, "❌ Có lỗi xảy ra, vui lòng thử lại.")
	}
	return b.sendMessage(chatID, reply)
}

func (b *Bot) sendMessage(chatID int64, text string) error {
	for _, part := range channels.SplitMessage(text, maxMessage) {
		if _, err := b.send.Send(tgbotapi.NewMessage(chatID, part)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) Name() string {
	return "telegram"
}

// Notify sends a reminder to the last chat that talked to the bot
func (b *Bot) Notify(ctx context.Context, message string) error {
	raw, err := b.records.GetKV(lastChatKey)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return apperrors.New(apperrors.ErrChannelUnavailable.Code, "no telegram chat yet")
		}
		return err
	}
	chatID, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrChannelUnavailable.Code, "invalid telegram chat id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.sendMessage(chatID, message)
}
