package interpreter

import (
	"regexp"
	"strings"
)

// transactionRule is one entry of the expense or income battery.
// The first rule whose pattern matches decides; a rejected extraction ends the search.
type transactionRule struct {
	name    string
	pattern *regexp.Regexp
	extract func(m []string) (description string, amount float64)
}

type transactionMatch struct {
	rule        string
	description string
	amount      float64
}

// Expense rules in priority order
var expenseRules = []transactionRule{
	{
		name:    "verb-first",
		pattern: regexp.MustCompile(`^(?:chi|mua|tiêu|trả|thanh toán|đóng|nạp|chuyển|gửi)\s+(.+)`),
		extract: func(m []string) (string, float64) {
			return stripAmounts(m[1]), ExtractAmount(m[1])
		},
	},
	{
		name:    "subject-prefixed",
		pattern: regexp.MustCompile(`(?:tôi|mình|em|anh|chị)?\s*(?:đã|vừa|mới)?\s*(?:chi|mua|tiêu|trả)\s+` + amountToken + `\s+(?:cho|để|vào)?\s*(.+)`),
		extract: func(m []string) (string, float64) {
			return strings.TrimSpace(m[2]), ExtractAmount(m[1])
		},
	},
	{
		name:    "negative-sign",
		pattern: regexp.MustCompile(`^[-−]\s*` + amountToken + `\s+(.+)`),
		extract: func(m []string) (string, float64) {
			return strings.TrimSpace(m[2]), ExtractAmount(m[1])
		},
	},
	{
		name:    "tien-item",
		pattern: regexp.MustCompile(`^tiền\s+(.+?)\s+(?:hết|mất|tốn|là|:)?\s*` + amountToken + `$`),
		extract: func(m []string) (string, float64) {
			return "Tiền " + strings.TrimSpace(m[1]), ExtractAmount(m[2])
		},
	},
	{
		name:    "meal",
		pattern: regexp.MustCompile(`^(?:bữa\s+)?(sáng|trưa|tối|khuya)\s+(?:hết|mất|tốn|là|:)?\s*` + amountToken + `$`),
		extract: func(m []string) (string, float64) {
			return "Bữa " + strings.TrimSpace(m[1]), ExtractAmount(m[2])
		},
	},
	{
		name:    "di-activity",
		pattern: regexp.MustCompile(`^đi\s+(.+?)\s+(?:hết|mất|tốn)?\s*` + amountToken + `$`),
		extract: func(m []string) (string, float64) {
			return "Đi " + strings.TrimSpace(m[1]), ExtractAmount(m[2])
		},
	},
	{
		name:    "bare-verb",
		pattern: regexp.MustCompile(`^(ăn|uống|nhậu|lai rai)\s+` + amountToken + `$`),
		extract: func(m []string) (string, float64) {
			return capitalize(m[1]), ExtractAmount(m[2])
		},
	},
	{
		name:    "time-prefixed",
		pattern: regexp.MustCompile(`(?:hôm nay|sáng nay|trưa nay|chiều nay|tối nay|hôm qua|vừa|mới|sáng|trưa|chiều|tối)\s+(.+?)\s+(?:hết|mất|tốn)?\s*` + amountToken),
		extract: func(m []string) (string, float64) {
			return strings.TrimSpace(m[1]), ExtractAmount(m[2])
		},
	},
	{
		name:    "amount-first",
		pattern: regexp.MustCompile(`^` + amountToken + `\s+(?:cho|để|vào)?\s*(.+)`),
		extract: func(m []string) (string, float64) {
			return strings.TrimSpace(m[2]), ExtractAmount(m[1])
		},
	},
	{
		// Most permissive rule: only accepted when the description has a known category
		name:    "description-first",
		pattern: regexp.MustCompile(`^(.+?)\s+(?:hết|mất|tốn|là|:)?\s*` + amountToken + `$`),
		extract: func(m []string) (string, float64) {
			desc := strings.TrimSpace(m[1])
			if CategorizeExpense(desc) == ExpenseOther {
				return "", 0
			}
			return desc, ExtractAmount(m[2])
		},
	},
}

// Income rules in priority order
var incomeRules = []transactionRule{
	{
		name:    "plus-sign",
		pattern: regexp.MustCompile(`^\+\s*` + amountToken + `\s*(.*)$`),
		extract: func(m []string) (string, float64) {
			return orDefault(strings.TrimSpace(m[2]), "Thu nhập"), ExtractAmount(m[1])
		},
	},
	{
		name:    "side-job",
		pattern: regexp.MustCompile(`^(?:bán|làm|làm thêm|part.?time|freelance)\s+.+?\s+(?:được|kiếm|thu)\s+` + amountToken),
		extract: func(m []string) (string, float64) {
			return "Làm thêm", ExtractAmount(m[1])
		},
	},
	{
		name:    "client-paid",
		pattern: regexp.MustCompile(`(?:khách|sếp|công ty|cty|boss|client)\s+(?:trả|cho|gửi|chuyển)\s+` + amountToken + `\s*(.*)$`),
		extract: func(m []string) (string, float64) {
			return orDefault(strings.TrimSpace(m[2]), "Thu từ khách"), ExtractAmount(m[1])
		},
	},
	{
		name:    "receipt-verb",
		pattern: regexp.MustCompile(`^(?:nhận|thu|được|có|lãi|nhận được|kiếm được|earn)\s+(.+)`),
		extract: func(m []string) (string, float64) {
			return orDefault(stripAmounts(m[1]), "Thu nhập"), ExtractAmount(m[1])
		},
	},
	{
		name:    "amount-then-noun",
		pattern: regexp.MustCompile(`^` + amountToken + `\s+(?:tiền\s+)?(lương|thưởng|thu nhập|freelance|bonus|hoa hồng)`),
		extract: func(m []string) (string, float64) {
			return strings.TrimSpace(m[2]), ExtractAmount(m[1])
		},
	},
	{
		name:    "noun-first",
		pattern: regexp.MustCompile(`^(lương|thưởng|tiền|thu nhập|freelance|dự án|bonus|tiền công|công|hoa hồng|commission)\s+(.+)`),
		extract: func(m []string) (string, float64) {
			return strings.TrimSpace(m[1] + " " + stripAmounts(m[2])), ExtractAmount(m[2])
		},
	},
}

// matchTransaction runs a battery against lower-cased input.
// Only the first matching rule is consulted.
func matchTransaction(rules []transactionRule, lower string) (*transactionMatch, bool) {
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		desc, amount := r.extract(m)
		if amount <= 0 || strings.TrimSpace(desc) == "" {
			return nil, false
		}
		return &transactionMatch{rule: r.name, description: desc, amount: amount}, true
	}
	return nil, false
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
