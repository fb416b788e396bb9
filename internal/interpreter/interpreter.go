// Package interpreter turns colloquial Vietnamese chat messages into expense,
// income and event records using ordered pattern batteries. It performs no I/O
// and keeps no mutable state, so one Interpreter can serve concurrent callers.
package interpreter

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var (
	eventKeywordRe = regexp.MustCompile(`(?:họp|meeting|lịch|hẹn|gặp|call|học|tập|gym|nhắc|reminder|cuộc họp|cuộc hẹn)`)
	timePatternRe  = regexp.MustCompile(`\d{1,2}\s*(?:h|:|giờ)\s*(?:\d{0,2})?\s*(?:sáng|chiều|tối|am|pm)?`)
	eventPhraseRe  = regexp.MustCompile(`(?:có|cần|phải)\s+(?:cuộc\s+)?(?:họp|hẹn|gặp|meeting)`)
)

// globalRandom delegates to the goroutine-safe top-level math/rand functions
type globalRandom struct{}

func (globalRandom) Intn(n int) int { return rand.Intn(n) }

// Interpreter classifies utterances. The zero value is not usable; call New.
type Interpreter struct {
	rnd Random
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithRandom sets the source used to pick greeting and thanks variants
func WithRandom(r Random) Option {
	return func(in *Interpreter) {
		if r != nil {
			in.rnd = r
		}
	}
}

// New creates an interpreter
func New(opts ...Option) *Interpreter {
	in := &Interpreter{rnd: globalRandom{}}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

var defaultInterpreter = New()

// Interpret classifies text with the default interpreter
func Interpret(text string, now time.Time) *Result {
	return defaultInterpreter.Interpret(text, now)
}

// Interpret classifies text relative to now. It always returns a result;
// unrecognized input yields KindUnknown with a guidance reply.
func (in *Interpreter) Interpret(text string, now time.Time) *Result {
	original := strings.TrimSpace(text)
	lower := strings.ToLower(original)

	if !looksLikeEvent(lower) {
		if m, ok := matchTransaction(expenseRules, lower); ok {
			return expenseResult(m, lower, now)
		}
	}

	if m, ok := matchTransaction(incomeRules, lower); ok {
		return incomeResult(m, lower, now)
	}

	if ev, ok := matchEvent(lower); ok {
		return eventResult(ev, lower, now)
	}

	kind, reply := matchConversation(replyContext{lower: lower, original: original, rnd: in.rnd})
	return &Result{Kind: kind, Reply: reply}
}

// looksLikeEvent guards expense matching against phrases such as "họp 3h chiều"
func looksLikeEvent(lower string) bool {
	return (eventKeywordRe.MatchString(lower) && timePatternRe.MatchString(lower)) ||
		eventPhraseRe.MatchString(lower)
}

func expenseResult(m *transactionMatch, lower string, now time.Time) *Result {
	category := CategorizeExpense(m.description)
	return &Result{
		Kind: KindExpense,
		Expense: &ExpensePayload{
			Amount:      m.amount,
			Description: capitalize(m.description),
			Category:    category,
			OccursOn:    dateOnly(ResolveDate(lower, now)),
		},
		Reply: fmt.Sprintf("✅ Đã thêm chi tiêu: %s - %sđ (%s)", m.description, FormatAmount(m.amount), category.Label()),
	}
}

func incomeResult(m *transactionMatch, lower string, now time.Time) *Result {
	category := CategorizeIncome(m.description)
	return &Result{
		Kind: KindIncome,
		Income: &IncomePayload{
			Amount:      m.amount,
			Description: capitalize(m.description),
			Category:    category,
			OccursOn:    dateOnly(ResolveDate(lower, now)),
		},
		Reply: fmt.Sprintf("✅ Đã thêm thu nhập: %s - %sđ (%s)", m.description, FormatAmount(m.amount), category.Label()),
	}
}

func eventResult(ev *eventMatch, lower string, now time.Time) *Result {
	date := dateOnly(ResolveDate(lower, now))
	start := ev.startTime()
	return &Result{
		Kind: KindEvent,
		Event: &EventPayload{
			Title:     capitalize(ev.title),
			OccursOn:  date,
			StartTime: start,
			Category:  CategorizeEvent(lower),
		},
		Reply: fmt.Sprintf("✅ Đã thêm sự kiện: %s lúc %s ngày %s", ev.title, start, date.Format("02/01/2006")),
	}
}

// capitalize upper-cases the first letter
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
