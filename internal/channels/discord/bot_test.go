package discord

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gmsas95/lifetrack/internal/assistant"
	apperrors "github.com/gmsas95/lifetrack/internal/errors"
	"github.com/gmsas95/lifetrack/internal/store"
)

type sentMessage struct {
	channelID string
	content   string
}

type fakeSender struct {
	sent []sentMessage
}

func (f *fakeSender) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.sent = append(f.sent, sentMessage{channelID, content})
	return &discordgo.Message{}, nil
}

func (f *fakeSender) ChannelTyping(channelID string, options ...discordgo.RequestOption) error {
	return nil
}

type fakeAssistant struct{}

func (fakeAssistant) Handle(ctx context.Context, text string) (*assistant.Response, error) {
	return &assistant.Response{Reply: "✅ " + text}, nil
}

func (fakeAssistant) Now() time.Time {
	return time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
}

type fakeRecords struct {
	kv map[string][]byte
}

func (f *fakeRecords) MonthlyStats(ctx context.Context, month string) (*store.MonthlyStats, error) {
	return &store.MonthlyStats{Month: month, ByCategory: map[string]float64{}}, nil
}

func (f *fakeRecords) EventsByDate(ctx context.Context, date string) ([]store.Event, error) {
	return nil, nil
}

func (f *fakeRecords) SetKV(key string, value []byte) error {
	f.kv[key] = value
	return nil
}

func (f *fakeRecords) GetKV(key string) ([]byte, error) {
	v, ok := f.kv[key]
	if !ok {
		return nil, apperrors.New(apperrors.ErrNotFound.Code, "key not found")
	}
	return v, nil
}

func newTestBot(guildID string) (*Bot, *fakeSender, *fakeRecords) {
	s := &fakeSender{}
	r := &fakeRecords{kv: map[string][]byte{}}
	return &Bot{
		send:      s,
		assistant: fakeAssistant{},
		records:   r,
		config:    Config{GuildID: guildID},
		logger:    zap.NewNop(),
	}, s, r
}

func message(guildID, authorID, content string, mentions ...string) *discordgo.MessageCreate {
	m := &discordgo.Message{
		GuildID:   guildID,
		ChannelID: "chan-1",
		Author:    &discordgo.User{ID: authorID},
		Content:   content,
	}
	for _, id := range mentions {
		m.Mentions = append(m.Mentions, &discordgo.User{ID: id})
	}
	return &discordgo.MessageCreate{Message: m}
}

func TestAccept(t *testing.T) {
	b, _, _ := newTestBot("guild-1")

	content, ok := b.accept("bot", message("", "user", "chi 50k"))
	assert.True(t, ok, "direct messages are answered")
	assert.Equal(t, "chi 50k", content)

	_, ok = b.accept("bot", message("guild-1", "user", "chi 50k"))
	assert.False(t, ok, "guild messages need a mention")

	content, ok = b.accept("bot", message("guild-1", "user", "<@bot> chi 50k", "bot"))
	assert.True(t, ok)
	assert.Equal(t, "chi 50k", content)

	_, ok = b.accept("bot", message("guild-2", "user", "<@bot> chi 50k", "bot"))
	assert.False(t, ok, "other guilds are ignored")

	_, ok = b.accept("bot", message("", "bot", "hello"))
	assert.False(t, ok, "own messages are ignored")

	_, ok = b.accept("bot", message("guild-1", "user", "<@!bot>", "bot"))
	assert.False(t, ok, "empty content after the mention")
}

func TestRespond_RemembersChannel(t *testing.T) {
	b, s, r := newTestBot("")

	b.respond("chan-1", "chi 50k ăn trưa")

	require.Len(t, s.sent, 1)
	assert.Equal(t, sentMessage{"chan-1", "✅ chi 50k ăn trưa"}, s.sent[0])
	assert.Equal(t, []byte("chan-1"), r.kv[lastChannelKey])
}

func TestNotify(t *testing.T) {
	b, s, r := newTestBot("")
	assert.Equal(t, "discord", b.Name())

	err := b.Notify(context.Background(), "⏰ Nhắc nhở")
	assert.True(t, apperrors.Is(err, apperrors.ErrChannelUnavailable))

	r.kv[lastChannelKey] = []byte("chan-9")
	require.NoError(t, b.Notify(context.Background(), "⏰ Nhắc nhở"))
	assert.Equal(t, []sentMessage{{"chan-9", "⏰ Nhắc nhở"}}, s.sent)
}
