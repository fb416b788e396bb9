package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeExpense = "expense"
	TypeIncome  = "income"

	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	ClockLayout = "15:04"
)

// Transaction is a recorded expense or income
type Transaction struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Type        string    `gorm:"index:idx_tx_type_date" json:"type"` // expense, income
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Category    string    `gorm:"index" json:"category"`
	Date        string    `gorm:"index:idx_tx_type_date" json:"date"` // YYYY-MM-DD
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Event is a scheduled item on a given day
type Event struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        string    `gorm:"index:idx_event_date_start" json:"date"`       // YYYY-MM-DD
	StartTime   string    `gorm:"index:idx_event_date_start" json:"start_time"` // HH:MM
	EndTime     string    `json:"end_time,omitempty"`
	Category    string    `json:"category"`
	Reminder    bool      `json:"reminder"`
	Completed   bool      `json:"completed"`
	Reminded    bool      `json:"reminded"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Budget caps spending of one expense category in one month
type Budget struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Category  string    `gorm:"uniqueIndex:idx_budget_category_month" json:"category"`
	Amount    float64   `json:"amount"`
	Month     string    `gorm:"uniqueIndex:idx_budget_category_month" json:"month"` // YYYY-MM
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatMessage is one turn of the assistant conversation, kept in BadgerDB
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TransactionFilter narrows ListTransactions; empty fields match everything
type TransactionFilter struct {
	Month    string
	Type     string
	Category string
	Limit    int
}

// EventFilter narrows ListEvents; Date wins over Month
type EventFilter struct {
	Date  string
	Month string
}

// MonthlyStats summarises one month of transactions
type MonthlyStats struct {
	Month      string             `json:"month"`
	Income     float64            `json:"income"`
	Expense    float64            `json:"expense"`
	Balance    float64            `json:"balance"`
	ByCategory map[string]float64 `json:"by_category"`
	Budgets    []BudgetUsage      `json:"budgets"`
}

// BudgetUsage compares a budget with what was spent in its category
type BudgetUsage struct {
	BudgetID  string  `json:"budget_id"`
	Category  string  `json:"category"`
	Budget    float64 `json:"budget"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
	Percent   float64 `json:"percent"`
	Exceeded  bool    `json:"exceeded"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Category == "" {
		t.Category = "other"
	}
	return nil
}

// BeforeCreate hook for Event
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Category == "" {
		e.Category = "other"
	}
	return nil
}

// BeforeCreate hook for Budget
func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// StartAt combines Date and StartTime in loc
func (e *Event) StartAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+ClockLayout, e.Date+" "+e.StartTime, loc)
}
