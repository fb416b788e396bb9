package interpreter

import "time"

// Kind is the classified intent of an utterance
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
	KindEvent   Kind = "event"
	KindQuery   Kind = "query"
	KindUnknown Kind = "unknown"
)

// ExpenseCategory is the closed set of expense tags
type ExpenseCategory string

const (
	ExpenseFood          ExpenseCategory = "food"
	ExpenseTransport     ExpenseCategory = "transport"
	ExpenseShopping      ExpenseCategory = "shopping"
	ExpenseBills         ExpenseCategory = "bills"
	ExpenseHealth        ExpenseCategory = "health"
	ExpenseEntertainment ExpenseCategory = "entertainment"
	ExpenseEducation     ExpenseCategory = "education"
	ExpenseOther         ExpenseCategory = "other"
)

var expenseLabels = map[ExpenseCategory]string{
	ExpenseFood:          "🍜 Ăn uống",
	ExpenseTransport:     "🚗 Di chuyển",
	ExpenseShopping:      "🛒 Mua sắm",
	ExpenseBills:         "📄 Hóa đơn",
	ExpenseHealth:        "💊 Sức khỏe",
	ExpenseEntertainment: "🎮 Giải trí",
	ExpenseEducation:     "📚 Học tập",
	ExpenseOther:         "📌 Khác",
}

// Label returns the display label with emoji
func (c ExpenseCategory) Label() string {
	if l, ok := expenseLabels[c]; ok {
		return l
	}
	return expenseLabels[ExpenseOther]
}

// Valid reports whether c is one of the known expense categories
func (c ExpenseCategory) Valid() bool {
	_, ok := expenseLabels[c]
	return ok
}

// IncomeCategory is the closed set of income tags
type IncomeCategory string

const (
	IncomeSalary     IncomeCategory = "salary"
	IncomeBonus      IncomeCategory = "bonus"
	IncomeInvestment IncomeCategory = "investment"
	IncomeOther      IncomeCategory = "other"
)

var incomeLabels = map[IncomeCategory]string{
	IncomeSalary:     "💰 Lương",
	IncomeBonus:      "🎁 Thưởng",
	IncomeInvestment: "📈 Đầu tư",
	IncomeOther:      "📌 Khác",
}

// Label returns the display label with emoji
func (c IncomeCategory) Label() string {
	if l, ok := incomeLabels[c]; ok {
		return l
	}
	return incomeLabels[IncomeOther]
}

// Valid reports whether c is one of the known income categories
func (c IncomeCategory) Valid() bool {
	_, ok := incomeLabels[c]
	return ok
}

// EventCategory is the closed set of event tags
type EventCategory string

const (
	EventWork      EventCategory = "work"
	EventPersonal  EventCategory = "personal"
	EventHealth    EventCategory = "health"
	EventEducation EventCategory = "education"
	EventMeeting   EventCategory = "meeting"
	EventOther     EventCategory = "other"
)

// Valid reports whether c is one of the known event categories
func (c EventCategory) Valid() bool {
	switch c {
	case EventWork, EventPersonal, EventHealth, EventEducation, EventMeeting, EventOther:
		return true
	}
	return false
}

// ExpensePayload is the structured data of an expense intent
type ExpensePayload struct {
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	Category    ExpenseCategory `json:"category"`
	OccursOn    time.Time       `json:"occursOn"`
}

// IncomePayload is the structured data of an income intent
type IncomePayload struct {
	Amount      float64        `json:"amount"`
	Description string         `json:"description"`
	Category    IncomeCategory `json:"category"`
	OccursOn    time.Time      `json:"occursOn"`
}

// EventPayload is the structured data of an event intent
type EventPayload struct {
	Title     string        `json:"title"`
	OccursOn  time.Time     `json:"occursOn"`
	StartTime string        `json:"startTime"`
	Category  EventCategory `json:"category"`
}

// Result is the outcome of interpreting one utterance.
// At most one payload is set, and only for expense, income and event kinds.
type Result struct {
	Kind    Kind            `json:"kind"`
	Expense *ExpensePayload `json:"expense,omitempty"`
	Income  *IncomePayload  `json:"income,omitempty"`
	Event   *EventPayload   `json:"event,omitempty"`
	Reply   string          `json:"reply"`
}

// HasPayload reports whether the result carries structured data
func (r *Result) HasPayload() bool {
	return r.Expense != nil || r.Income != nil || r.Event != nil
}

// DateLayout is the wire format of OccursOn dates
const DateLayout = "2006-01-02"
