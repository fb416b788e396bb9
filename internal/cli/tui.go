package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/gmsas95/lifetrack/internal/assistant"
	"github.com/gmsas95/lifetrack/internal/store"
)

const (
	headerHeight = 2
	footerHeight = 3
	replyTimeout = 90 * time.Second
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2E7D32")).
			Padding(0, 1)
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#64B5F6")).Bold(true)
	botStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#81C784")).Bold(true)
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E")).Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E57373"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#757575"))
)

type replyMsg struct {
	resp *assistant.Response
	err  error
}

// ChatModel is the bubbletea model of "lifetrack chat"
type ChatModel struct {
	handler  Handler
	renderer *glamour.TermRenderer
	style    string
	viewport viewport.Model
	input    textinput.Model
	entries  []string
	waiting  bool
	ready    bool
	width    int
}

type ChatOption func(*ChatModel)

// WithGlamourStyle picks the markdown style for replies; "" renders plain text
func WithGlamourStyle(style string) ChatOption {
	return func(m *ChatModel) { m.style = style }
}

// NewChatModel builds the TUI, showing history as earlier turns
func NewChatModel(h Handler, history []store.ChatMessage, opts ...ChatOption) *ChatModel {
	ti := textinput.New()
	ti.Placeholder = "chi 50k ăn trưa, họp team 3h chiều mai..."
	ti.Prompt = "› "
	ti.CharLimit = 500
	ti.Focus()

	m := &ChatModel{
		handler:  h,
		style:    "dark",
		input:    ti,
		viewport: viewport.New(80, 20),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.setWidth(80)

	for _, msg := range history {
		if msg.Role == "user" {
			m.entries = append(m.entries, m.userEntry(msg.Content))
		} else {
			m.entries = append(m.entries, m.botEntry(msg.Content, msg.Source))
		}
	}
	m.refresh()
	return m
}

func (m *ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 3)
		m.input.Width = msg.Width - 4
		m.ready = true
		m.setWidth(msg.Width)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.submit()
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.entries = append(m.entries, errorStyle.Render("❌ "+msg.err.Error()))
		} else {
			m.entries = append(m.entries, m.botEntry(msg.resp.Reply, string(msg.resp.Source)))
		}
		m.refresh()
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *ChatModel) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return nil
	}
	m.input.Reset()

	switch strings.ToLower(text) {
	case "exit", "quit", "/quit":
		return tea.Quit
	case "clear", "/clear":
		m.entries = nil
		m.refresh()
		return nil
	}

	m.entries = append(m.entries, m.userEntry(text))
	m.waiting = true
	m.refresh()

	h := m.handler
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
		defer cancel()
		resp, err := h.Handle(ctx, text)
		return replyMsg{resp: resp, err: err}
	}
}

func (m *ChatModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📒 Lifetrack"))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.waiting {
		b.WriteString(helpStyle.Render("đang xử lý..."))
	} else {
		b.WriteString(helpStyle.Render("enter: gửi • esc: thoát • clear: xóa màn hình"))
	}
	return b.String()
}

func (m *ChatModel) setWidth(width int) {
	m.width = width
	if m.style == "" {
		m.renderer = nil
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err == nil {
		m.renderer = r
	}
}

func (m *ChatModel) refresh() {
	m.viewport.SetContent(strings.Join(m.entries, "\n"))
	m.viewport.GotoBottom()
}

func (m *ChatModel) userEntry(text string) string {
	return userStyle.Render("👤 Bạn: ") + text
}

func (m *ChatModel) botEntry(text, source string) string {
	body := text
	if m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			body = strings.TrimRight(out, "\n")
		}
	}
	line := botStyle.Render("📒 Lifetrack:")
	if source != "" {
		line += " " + sourceStyle.Render(fmt.Sprintf("(%s)", source))
	}
	return line + "\n" + body
}

// RunChat starts the full-screen chat
func RunChat(h Handler, history []store.ChatMessage) error {
	_, err := tea.NewProgram(NewChatModel(h, history), tea.WithAltScreen()).Run()
	return err
}
