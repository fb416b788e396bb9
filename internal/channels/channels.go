// Package channels holds what the chat front-ends share: the assistant and
// record interfaces they talk to, and the text they send back.
package channels

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gmsas95/lifetrack/internal/assistant"
	"github.com/gmsas95/lifetrack/internal/interpreter"
	"github.com/gmsas95/lifetrack/internal/store"
)

// Assistant handles one chat message
type Assistant interface {
	Handle(ctx context.Context, text string) (*assistant.Response, error)
	Now() time.Time
}

// Records is the read side used by the /stats and /today commands, plus the
// KV used to remember the last active chat
type Records interface {
	MonthlyStats(ctx context.Context, month string) (*store.MonthlyStats, error)
	EventsByDate(ctx context.Context, date string) ([]store.Event, error)
	SetKV(key string, value []byte) error
	GetKV(key string) ([]byte, error)
}

const HelpText = `📒 Lifetrack

Ghi chi tiêu, thu nhập và lịch hẹn bằng tiếng Việt tự nhiên:
• chi 50k ăn trưa
• nhận 10tr lương
• họp team 3h chiều mai

Lệnh:
/help - Hướng dẫn
/today - Lịch hôm nay
/stats - Thống kê tháng này`

// FormatStats renders the monthly summary sent by /stats
func FormatStats(s *store.MonthlyStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Tháng %s\n", s.Month)
	fmt.Fprintf(&b, "Thu: %sđ\n", interpreter.FormatAmount(s.Income))
	fmt.Fprintf(&b, "Chi: %sđ\n", interpreter.FormatAmount(s.Expense))
	fmt.Fprintf(&b, "Còn lại: %sđ", interpreter.FormatAmount(s.Balance))

	cats := make([]string, 0, len(s.ByCategory))
	for c := range s.ByCategory {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return s.ByCategory[cats[i]] > s.ByCategory[cats[j]] })
	for _, c := range cats {
		fmt.Fprintf(&b, "\n%s: %sđ", interpreter.ExpenseCategory(c).Label(), interpreter.FormatAmount(s.ByCategory[c]))
	}

	for _, u := range s.Budgets {
		mark := "✅"
		if u.Exceeded {
			mark = "⚠️"
		}
		fmt.Fprintf(&b, "\n%s Ngân sách %s: %s/%sđ (%.0f%%)", mark,
			interpreter.ExpenseCategory(u.Category).Label(),
			interpreter.FormatAmount(u.Spent), interpreter.FormatAmount(u.Budget), u.Percent)
	}
	return b.String()
}

// FormatEvents renders the agenda of one day
func FormatEvents(date string, events []store.Event) string {
	if len(events) == 0 {
		return "📅 Không có lịch nào hôm nay."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📅 Lịch ngày %s", date)
	for _, e := range events {
		mark := "⬜"
		if e.Completed {
			mark = "✅"
		}
		fmt.Fprintf(&b, "\n%s %s %s", mark, e.StartTime, e.Title)
	}
	return b.String()
}

// Reply answers a plain message or one of the shared commands
func Reply(ctx context.Context, a Assistant, r Records, text string) (string, error) {
	text = strings.TrimSpace(text)
	now := a.Now()

	switch command(text) {
	case "/start", "/help":
		return HelpText, nil
	case "/stats":
		stats, err := r.MonthlyStats(ctx, now.Format(store.MonthLayout))
		if err != nil {
			return "", err
		}
		return FormatStats(stats), nil
	case "/today":
		date := now.Format(store.DateLayout)
		events, err := r.EventsByDate(ctx, date)
		if err != nil {
			return "", err
		}
		return FormatEvents(date, events), nil
	}

	resp, err := a.Handle(ctx, text)
	if err != nil {
		return "", err
	}
	return resp.Reply, nil
}

// SplitMessage cuts text into chunks of at most maxLen bytes, on line breaks
// where possible
func SplitMessage(text string, maxLen int) []string {
	var parts []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for _, line := range strings.Split(text, "\n") {
		for len(line) > maxLen {
			flush()
			cut := maxLen
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = maxLen
			}
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if current.Len() > 0 && current.Len()+len(line)+1 > maxLen {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()
	return parts
}

func command(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	// Telegram appends @botname in groups
	cmd, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(cmd)
}
