package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeExpense(t *testing.T) {
	tests := []struct {
		input    string
		expected ExpenseCategory
	}{
		{"ăn trưa", ExpenseFood},
		{"Trà sữa", ExpenseFood},
		{"grab", ExpenseTransport},
		{"taxi", ExpenseTransport},
		{"shopee", ExpenseShopping},
		{"quần jean", ExpenseShopping},
		{"internet", ExpenseBills},
		{"netflix", ExpenseBills},
		{"thuốc", ExpenseHealth},
		{"massage", ExpenseHealth},
		{"karaoke", ExpenseEntertainment},
		{"sách", ExpenseEducation},
		{"linh tinh", ExpenseOther},
		{"", ExpenseOther},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			assert.Equal(t, test.expected, CategorizeExpense(test.input))
		})
	}
}

func TestCategorizeExpense_FirstGroupWins(t *testing.T) {
	// "kem" is both food and shopping; food is checked first
	assert.Equal(t, ExpenseFood, CategorizeExpense("kem"))
	// "tiền điện nước" hits "nước" in the food group before bills
	assert.Equal(t, ExpenseFood, CategorizeExpense("tiền điện nước"))
}

func TestCategorizeIncome(t *testing.T) {
	tests := []struct {
		input    string
		expected IncomeCategory
	}{
		{"lương", IncomeSalary},
		{"salary tháng 3", IncomeSalary},
		{"thưởng tết", IncomeBonus},
		{"cổ tức", IncomeInvestment},
		{"crypto", IncomeInvestment},
		{"freelance", IncomeOther},
		{"bán đồ cũ", IncomeOther},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			assert.Equal(t, test.expected, CategorizeIncome(test.input))
		})
	}
}

func TestCategorizeEvent(t *testing.T) {
	tests := []struct {
		input    string
		expected EventCategory
	}{
		{"họp team 3h", EventMeeting},
		{"call khách", EventMeeting},
		{"học tiếng anh", EventEducation},
		{"làm báo cáo", EventWork},
		{"gym 6h", EventHealth},
		{"chơi game", EventPersonal},
		{"đi siêu thị", EventOther},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			assert.Equal(t, test.expected, CategorizeEvent(test.input))
		})
	}
}

func TestCategoryLabels(t *testing.T) {
	assert.Equal(t, "🍜 Ăn uống", ExpenseFood.Label())
	assert.Equal(t, "📌 Khác", ExpenseCategory("bogus").Label())
	assert.Equal(t, "💰 Lương", IncomeSalary.Label())
	assert.True(t, EventMeeting.Valid())
	assert.False(t, EventCategory("party").Valid())
}
