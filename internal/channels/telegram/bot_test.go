package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gmsas95/lifetrack/internal/assistant"
	apperrors "github.com/gmsas95/lifetrack/internal/errors"
	"github.com/gmsas95/lifetrack/internal/store"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

type fakeAssistant struct{ texts []string }

func (f *fakeAssistant) Handle(ctx context.Context, text string) (*assistant.Response, error) {
	f.texts = append(f.texts, text)
	return &assistant.Response{Reply: "✅ " + text}, nil
}

func (f *fakeAssistant) Now() time.Time {
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

func newTestBot(allow ...int64) (*Bot, *fakeSender, *fakeAssistant, *fakeRecords) {
	s := &fakeSender{}
	a := &fakeAssistant{}
	r := &fakeRecords{kv: map[string][]byte{}}
	return newBot(s, a, r, allow, zap.NewNop()), s, a, r
}

func textUpdate(userID, chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: text,
	}}
}

func TestHandleUpdate_ForwardsAndRemembersChat(t *testing.T) {
	b, s, a, r := newTestBot()

	require.NoError(t, b.handleUpdate(textUpdate(1, 42, "chi 50k ăn trưa")))

	assert.Equal(t, []string{"chi 50k ăn trưa"}, a.texts)
	require.Len(t, s.sent, 1)
	assert.Equal(t, int64(42), s.sent[0].ChatID)
	assert.Equal(t, "✅ chi 50k ăn trưa", s.sent[0].Text)
	assert.Equal(t, []byte("42"), r.kv[lastChatKey])
}

func TestHandleUpdate_AllowList(t *testing.T) {
	b, s, a, _ := newTestBot(7)

	require.NoError(t, b.handleUpdate(textUpdate(8, 42, "chi 50k")))
	assert.Empty(t, a.texts)
	require.Len(t, s.sent, 1)
	assert.Contains(t, s.sent[0].Text, "không có quyền")

	require.NoError(t, b.handleUpdate(textUpdate(7, 42, "chi 50k")))
	assert.Len(t, a.texts, 1)
}

func TestHandleUpdate_IgnoresNonText(t *testing.T) {
	b, s, a, _ := newTestBot()

	require.NoError(t, b.handleUpdate(tgbotapi.Update{}))
	require.NoError(t, b.handleUpdate(textUpdate(1, 42, "")))
	assert.Empty(t, s.sent)
	assert.Empty(t, a.texts)
}

func TestNotify(t *testing.T) {
	b, s, _, r := newTestBot()
	assert.Equal(t, "telegram", b.Name())

	err := b.Notify(context.Background(), "⏰ Nhắc nhở: Họp lúc 15:00")
	assert.True(t, apperrors.Is(err, apperrors.ErrChannelUnavailable))

	r.kv[lastChatKey] = []byte("99")
	require.NoError(t, b.Notify(context.Background(), "⏰ Nhắc nhở: Họp lúc 15:00"))
	require.Len(t, s.sent, 1)
	assert.Equal(t, int64(99), s.sent[0].ChatID)
}
