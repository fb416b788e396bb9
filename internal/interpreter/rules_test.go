package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseRules_Priority(t *testing.T) {
	tests := []struct {
		input string
		rule  string
	}{
		{"chi 50k ăn trưa", "verb-first"},
		{"tôi đã trả 200k cho điện", "subject-prefixed"},
		{"-30k trà sữa", "negative-sign"},
		{"tiền điện 500k", "tien-item"},
		{"bữa tối 120k", "meal"},
		{"đi taxi 80k", "di-activity"},
		{"nhậu 300k", "bare-verb"},
		{"trưa nay cơm gà 45k", "time-prefixed"},
		{"100k cho xăng xe", "amount-first"},
		{"bánh mì 20k", "description-first"},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			m, ok := matchTransaction(expenseRules, test.input)
			require.True(t, ok)
			assert.Equal(t, test.rule, m.rule)
		})
	}
}

func TestExpenseRules_FirstMatchDecides(t *testing.T) {
	// verb-first matches but finds no amount, so no later rule is consulted
	_, ok := matchTransaction(expenseRules, "mua sắm linh tinh")
	assert.False(t, ok)
}

func TestIncomeRules_Priority(t *testing.T) {
	tests := []struct {
		input string
		rule  string
	}{
		{"+500k", "plus-sign"},
		{"làm thêm dịch thuật được 2tr", "side-job"},
		{"khách trả 1tr5 tiền thiết kế", "client-paid"},
		{"nhận 10tr lương", "receipt-verb"},
		{"3tr tiền thưởng", "amount-then-noun"},
		{"hoa hồng 700k", "noun-first"},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			m, ok := matchTransaction(incomeRules, test.input)
			require.True(t, ok)
			assert.Equal(t, test.rule, m.rule)
		})
	}
}

func TestEventRules_SoftRuleLetsLaterRulesTry(t *testing.T) {
	// "đi" rule rejects hour 25; nothing later matches
	_, ok := matchEvent("đi chơi 25h")
	assert.False(t, ok)

	ev, ok := matchEvent("đi bơi 7h sáng")
	require.True(t, ok)
	assert.Equal(t, "bơi", ev.title)
	assert.Equal(t, "07:00", ev.startTime())
}

func TestNormalizeHour(t *testing.T) {
	tests := []struct {
		hour     int
		period   string
		expected int
	}{
		{3, "chiều", 15},
		{12, "chiều", 12},
		{9, "pm", 21},
		{9, "sáng", 9},
		{9, "am", 9},
		{9, "", 9},
		{3, "tối", 21},
		{5, "tối", 23},
		{6, "tối", 18},
		{11, "tối", 23},
		{12, "tối", 24},
		{19, "tối", 19},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, normalizeHour(test.hour, test.period), "%d %s", test.hour, test.period)
	}
}
