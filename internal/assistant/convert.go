package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/gmsas95/lifetrack/internal/interpreter"
	"github.com/gmsas95/lifetrack/internal/llm"
	"github.com/gmsas95/lifetrack/internal/store"
)

// fromResult maps an interpreter result onto a response with unsaved records
func (a *Assistant) fromResult(r *interpreter.Result) *Response {
	resp := &Response{Kind: r.Kind, Source: SourceRules, Reply: r.Reply}

	switch {
	case r.Expense != nil:
		resp.Transaction = &store.Transaction{
			Type:        store.TypeExpense,
			Amount:      r.Expense.Amount,
			Description: r.Expense.Description,
			Category:    string(r.Expense.Category),
			Date:        r.Expense.OccursOn.Format(store.DateLayout),
		}
	case r.Income != nil:
		resp.Transaction = &store.Transaction{
			Type:        store.TypeIncome,
			Amount:      r.Income.Amount,
			Description: r.Income.Description,
			Category:    string(r.Income.Category),
			Date:        r.Income.OccursOn.Format(store.DateLayout),
		}
	case r.Event != nil:
		resp.Event = &store.Event{
			Title:     r.Event.Title,
			Date:      r.Event.OccursOn.Format(store.DateLayout),
			StartTime: r.Event.StartTime,
			Category:  string(r.Event.Category),
			Reminder:  true,
		}
	}
	return resp
}

// fromAction builds a response from a model action.
// It reports false when the action lacks what a record needs.
func (a *Assistant) fromAction(act *llm.Action, now time.Time) (*Response, bool) {
	date := now.Format(store.DateLayout)
	if d, err := time.Parse(store.DateLayout, strings.TrimSpace(act.Date)); err == nil {
		date = d.Format(store.DateLayout)
	}

	switch act.Action {
	case "expense", "income":
		if act.Amount <= 0 {
			return nil, false
		}
		tx := &store.Transaction{
			Type:        act.Action,
			Amount:      act.Amount,
			Description: strings.TrimSpace(act.Description),
			Date:        date,
		}
		var kind interpreter.Kind
		if act.Action == "expense" {
			kind = interpreter.KindExpense
			tx.Category = expenseCategory(act.Category)
			if tx.Description == "" {
				tx.Description = "Chi tiêu"
			}
		} else {
			kind = interpreter.KindIncome
			tx.Category = incomeCategory(act.Category)
			if tx.Description == "" {
				tx.Description = "Thu nhập"
			}
		}
		label := map[string]string{"expense": "chi tiêu", "income": "thu nhập"}[act.Action]
		return &Response{
			Kind:        kind,
			Source:      SourceLLM,
			Transaction: tx,
			Reply:       fmt.Sprintf("Đã thêm %s: %s - %sđ", label, tx.Description, interpreter.FormatAmount(tx.Amount)),
		}, true

	case "event":
		title := strings.TrimSpace(act.Title)
		start, ok := normalizeClock(act.StartTime)
		if title == "" || !ok {
			return nil, false
		}
		ev := &store.Event{
			Title:     title,
			Date:      date,
			StartTime: start,
			Category:  eventCategory(act.Category),
			Reminder:  true,
		}
		return &Response{
			Kind:   interpreter.KindEvent,
			Source: SourceLLM,
			Event:  ev,
			Reply:  fmt.Sprintf("Đã thêm sự kiện: %s lúc %s", ev.Title, ev.StartTime),
		}, true
	}
	return nil, false
}

// normalizeClock accepts H:MM or HH:MM and returns HH:MM
func normalizeClock(s string) (string, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return t.Format("15:04"), true
}

func expenseCategory(s string) string {
	if c := interpreter.ExpenseCategory(s); c.Valid() {
		return s
	}
	return string(interpreter.ExpenseOther)
}

func incomeCategory(s string) string {
	if c := interpreter.IncomeCategory(s); c.Valid() {
		return s
	}
	return string(interpreter.IncomeOther)
}

func eventCategory(s string) string {
	if c := interpreter.EventCategory(s); c.Valid() {
		return s
	}
	return string(interpreter.EventOther)
}
