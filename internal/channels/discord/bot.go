// Package discord provides Discord bot integration
package discord

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/gmsas95/lifetrack/internal/channels"
	apperrors "github.com/gmsas95/lifetrack/internal/errors"
)

const (
	lastChannelKey = "discord:last_channel"
	maxMessage     = 2000
	replyTimeout   = 60 * time.Second
)

// Config holds Discord bot configuration
type Config struct {
	Token   string
	GuildID string // Optional: restrict to specific server
}

// sender is the part of discordgo.Session the bot uses to talk back
type sender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
}

// Bot represents a Discord bot instance
type Bot struct {
	session   *discordgo.Session
	send      sender
	assistant channels.Assistant
	records   channels.Records
	config    Config
	logger    *zap.Logger
}

// NewBot creates a new Discord bot
func NewBot(cfg Config, a channels.Assistant, r channels.Records, logger *zap.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, apperrors.New(apperrors.ErrChannelNotConfigured.Code, "discord token is required")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrChannelUnavailable.Code, "failed to create discord session")
	}

	bot := &Bot{
		session:   session,
		send:      session,
		assistant: a,
		records:   r,
		config:    cfg,
		logger:    logger,
	}

	session.AddHandler(bot.messageCreate)
	session.AddHandler(bot.ready)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent

	return bot, nil
}

// Start opens the gateway connection
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrChannelUnavailable.Code, "failed to open discord connection")
	}
	return nil
}

// Stop stops the Discord bot
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) ready(s *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info("Discord bot ready",
		zap.String("username", event.User.Username),
		zap.Int("guilds", len(event.Guilds)),
	)
}

func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	content, ok := b.accept(s.State.User.ID, m)
	if !ok {
		return
	}
	b.respond(m.ChannelID, content)
}

// accept filters messages and strips the bot mention. In guilds the bot only
// answers when mentioned.
func (b *Bot) accept(botID string, m *discordgo.MessageCreate) (string, bool) {
	if m.Author == nil || m.Author.ID == botID || m.Author.Bot {
		return "", false
	}
	isDM := m.GuildID == ""
	if !isDM && b.config.GuildID != "" && m.GuildID != b.config.GuildID {
		return "", false
	}

	isMentioned := false
	for _, mention := range m.Mentions {
		if mention.ID == botID {
			isMentioned = true
			break
		}
	}
	if !isDM && !isMentioned {
		return "", false
	}

	content := strings.ReplaceAll(m.Content, "<@"+botID+">", "")
	content = strings.ReplaceAll(content, "<@!"+botID+">", "")
	content = strings.TrimSpace(content)
	return content, content != ""
}

func (b *Bot) respond(channelID, content string) {
	if err := b.records.SetKV(lastChannelKey, []byte(channelID)); err != nil {
		b.logger.Warn("Failed to remember discord channel", zap.Error(err))
	}
	_ = b.send.ChannelTyping(channelID)

	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	reply, err := channels.Reply(ctx, b.assistant, b.records, content)
	if err != nil {
		b.logger.Error("Assistant error", zap.Error(err))
		reply = "❌ Có lỗi xảy ra, vui lòng thử lại."
	}
	if err := b.sendMessage(channelID, reply); err != nil {
		b.logger.Error("Failed to send discord message", zap.Error(err))
	}
}

func (b *Bot) sendMessage(channelID, text string) error {
	for _, part := range channels.SplitMessage(text, maxMessage) {
		if _, err := b.send.ChannelMessageSend(channelID, part); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) Name() string {
	return "discord"
}

// Notify sends a reminder to the last channel that talked to the bot
func (b *Bot) Notify(ctx context.Context, message string) error {
	raw, err := b.records.GetKV(lastChannelKey)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return apperrors.New(apperrors.ErrChannelUnavailable.Code, "no discord channel yet")
		}
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.sendMessage(string(raw), message)
}
