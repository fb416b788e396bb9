package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmsas95/lifetrack/internal/store"
)

func typeText(m *ChatModel, text string) {
	m.input.SetValue(text)
}

func TestChatModel_SubmitAndReply(t *testing.T) {
	h := &echoHandler{}
	m := NewChatModel(h, nil, WithGlamourStyle(""))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	typeText(m, "chi 50k ăn trưa")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.waiting)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "đang xử lý")

	msg := cmd()
	reply, ok := msg.(replyMsg)
	require.True(t, ok)
	require.NoError(t, reply.err)

	m.Update(reply)
	assert.False(t, m.waiting)
	assert.Equal(t, []string{"chi 50k ăn trưa"}, h.seen)
	require.Len(t, m.entries, 2)
	assert.Contains(t, m.entries[1], "✅ chi 50k ăn trưa")
	assert.Contains(t, m.entries[1], "(rules)")
}

func TestChatModel_IgnoresEmptyAndBusy(t *testing.T) {
	m := NewChatModel(&echoHandler{}, nil, WithGlamourStyle(""))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	m.waiting = true
	typeText(m, "cafe 30k")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestChatModel_ErrorReply(t *testing.T) {
	m := NewChatModel(&echoHandler{}, nil, WithGlamourStyle(""))

	typeText(m, "boom")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m.Update(cmd())

	require.Len(t, m.entries, 2)
	assert.Contains(t, m.entries[1], "exploded")
}

func TestChatModel_HistoryAndClear(t *testing.T) {
	m := NewChatModel(&echoHandler{}, []store.ChatMessage{
		{Role: "user", Content: "cafe 30k"},
		{Role: "assistant", Content: "✅ Đã thêm chi tiêu", Source: "rules"},
	}, WithGlamourStyle(""))
	require.Len(t, m.entries, 2)

	typeText(m, "clear")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, m.entries)
}

func TestChatModel_Quit(t *testing.T) {
	m := NewChatModel(&echoHandler{}, nil, WithGlamourStyle(""))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)

	typeText(m, "exit")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, ok = cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestChatModel_RendersMarkdown(t *testing.T) {
	m := NewChatModel(&echoHandler{}, nil, WithGlamourStyle("dark"))
	require.NotNil(t, m.renderer)

	entry := m.botEntry("**Đã ghi**", "")
	assert.Contains(t, entry, "Đã ghi")
	assert.NotContains(t, entry, "**")
}
