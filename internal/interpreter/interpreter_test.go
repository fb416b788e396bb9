package interpreter

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRandom int

func (f fixedRandom) Intn(n int) int { return int(f) % n }

func TestInterpret_Expense(t *testing.T) {
	tests := []struct {
		input       string
		amount      float64
		description string
		category    ExpenseCategory
	}{
		{"chi 50k ăn trưa", 50000, "Ăn trưa", ExpenseFood},
		{"cafe 30k", 30000, "Cafe", ExpenseFood},
		{"ăn 50k", 50000, "Ăn", ExpenseFood},
		{"grab 25 ngàn", 25000, "Grab", ExpenseTransport},
		{"tiền nhà 5tr", 5000000, "Tiền nhà", ExpenseBills},
		{"trưa 45k", 45000, "Bữa trưa", ExpenseFood},
		{"đi grab 30k", 30000, "Đi grab", ExpenseTransport},
		{"-200k mua sách", 200000, "Mua sách", ExpenseShopping},
		{"sáng nay ăn phở 30k", 30000, "Ăn phở", ExpenseFood},
		{"tôi vừa mua 100k cho áo", 100000, "Áo", ExpenseShopping},
		{"50k cho gửi xe", 50000, "Gửi xe", ExpenseTransport},
		{"bún bò 40", 40000, "Bún bò", ExpenseFood},
		{"Chi 1.200.000 tiền internet", 1200000, "Tiền internet", ExpenseBills},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			result := Interpret(test.input, testNow)
			require.Equal(t, KindExpense, result.Kind)
			require.NotNil(t, result.Expense)
			assert.Nil(t, result.Income)
			assert.Nil(t, result.Event)
			assert.Equal(t, test.amount, result.Expense.Amount)
			assert.Equal(t, test.description, result.Expense.Description)
			assert.Equal(t, test.category, result.Expense.Category)
			assert.Equal(t, "2025-03-12", result.Expense.OccursOn.Format(DateLayout))
		})
	}
}

func TestInterpret_ExpenseReply(t *testing.T) {
	result := Interpret("chi 50k ăn trưa", testNow)
	assert.Equal(t, "✅ Đã thêm chi tiêu: ăn trưa - 50,000đ (🍜 Ăn uống)", result.Reply)
}

func TestInterpret_ExpenseDate(t *testing.T) {
	result := Interpret("hôm qua chi 120k đổ xăng", testNow)
	require.Equal(t, KindExpense, result.Kind)
	assert.Equal(t, "2025-03-11", result.Expense.OccursOn.Format(DateLayout))
	assert.Equal(t, 120000.0, result.Expense.Amount)
}

func TestInterpret_GenericPatternNeedsKnownCategory(t *testing.T) {
	result := Interpret("abc 50k", testNow)
	assert.Equal(t, KindUnknown, result.Kind)
	assert.False(t, result.HasPayload())
	assert.Equal(t, FallbackReply, result.Reply)
}

func TestInterpret_Income(t *testing.T) {
	tests := []struct {
		input       string
		amount      float64
		description string
		category    IncomeCategory
	}{
		{"nhận 10tr lương", 10000000, "Lương", IncomeSalary},
		{"+5tr thưởng", 5000000, "Thưởng", IncomeBonus},
		{"+2tr", 2000000, "Thu nhập", IncomeOther},
		{"lương 15tr", 15000000, "Lương", IncomeSalary},
		{"bán đồ cũ được 500k", 500000, "Làm thêm", IncomeOther},
		{"sếp chuyển 3tr tiền thưởng", 3000000, "Tiền thưởng", IncomeBonus},
		{"được 200k", 200000, "Thu nhập", IncomeOther},
		{"nhận 2 triệu cổ tức", 2000000, "Cổ tức", IncomeInvestment},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			result := Interpret(test.input, testNow)
			require.Equal(t, KindIncome, result.Kind)
			require.NotNil(t, result.Income)
			assert.Nil(t, result.Expense)
			assert.Equal(t, test.amount, result.Income.Amount)
			assert.Equal(t, test.description, result.Income.Description)
			assert.Equal(t, test.category, result.Income.Category)
		})
	}
}

func TestInterpret_IncomeReply(t *testing.T) {
	result := Interpret("nhận 10tr lương", testNow)
	assert.Equal(t, "✅ Đã thêm thu nhập: lương - 10,000,000đ (💰 Lương)", result.Reply)
}

func TestInterpret_Event(t *testing.T) {
	tests := []struct {
		input     string
		title     string
		startTime string
		date      string
		category  EventCategory
	}{
		{"họp 3h chiều", "Họp", "15:00", "2025-03-12", EventMeeting},
		{"họp 10h", "Họp", "10:00", "2025-03-12", EventMeeting},
		{"họp team lúc 14:30", "Team", "14:30", "2025-03-12", EventMeeting},
		{"học tiếng anh 9h sáng", "Học tiếng anh", "09:00", "2025-03-12", EventEducation},
		{"tập gym 6h tối", "Gym", "18:00", "2025-03-12", EventHealth},
		{"9h đi siêu thị", "Đi siêu thị", "09:00", "2025-03-12", EventOther},
		{"nhắc uống thuốc 8h tối", "Uống thuốc", "20:00", "2025-03-12", EventOther},
		{"lịch họp dự án 10h", "Họp dự án", "10:00", "2025-03-12", EventMeeting},
		{"mai có cuộc họp 9h", "Họp", "09:00", "2025-03-13", EventMeeting},
		{"chiều nay 3h có họp team", "Họp team", "15:00", "2025-03-12", EventMeeting},
		{"gặp khách 10h30 thứ 6", "Khách", "10:30", "2025-03-14", EventOther},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			result := Interpret(test.input, testNow)
			require.Equal(t, KindEvent, result.Kind)
			require.NotNil(t, result.Event)
			assert.Nil(t, result.Expense)
			assert.Equal(t, test.title, result.Event.Title)
			assert.Equal(t, test.startTime, result.Event.StartTime)
			assert.Equal(t, test.date, result.Event.OccursOn.Format(DateLayout))
			assert.Equal(t, test.category, result.Event.Category)
		})
	}
}

func TestInterpret_EventReply(t *testing.T) {
	result := Interpret("họp 3h chiều", testNow)
	assert.Equal(t, "✅ Đã thêm sự kiện: Họp lúc 15:00 ngày 12/03/2025", result.Reply)
}

func TestInterpret_EventGuardBlocksExpense(t *testing.T) {
	for _, input := range []string{"họp 3h chiều", "có cuộc họp với sếp", "gym 7h"} {
		result := Interpret(input, testNow)
		assert.NotEqual(t, KindExpense, result.Kind, input)
	}
}

func TestInterpret_EveningHours(t *testing.T) {
	expected := map[int]string{
		1: "19:00", 2: "20:00", 3: "21:00", 4: "22:00", 5: "23:00",
		6: "18:00", 7: "19:00", 8: "20:00", 9: "21:00", 10: "22:00", 11: "23:00",
	}

	for hour, startTime := range expected {
		result := Interpret(fmt.Sprintf("họp %dh tối", hour), testNow)
		require.Equal(t, KindEvent, result.Kind, hour)
		assert.Equal(t, startTime, result.Event.StartTime, hour)
	}
}

func TestInterpret_OutOfRangeHourIsRejected(t *testing.T) {
	result := Interpret("họp 12h tối", testNow)
	assert.Equal(t, KindUnknown, result.Kind)
	assert.Nil(t, result.Event)

	result = Interpret("họp 3:75", testNow)
	assert.Nil(t, result.Event)
}

func TestInterpret_Conversation(t *testing.T) {
	in := New(WithRandom(fixedRandom(0)))

	tests := []struct {
		input string
		kind  Kind
		reply string
	}{
		{"help", KindUnknown, HelpReply},
		{"hướng dẫn", KindUnknown, HelpReply},
		{"xin chào", KindUnknown, GreetingReplies[0]},
		{"chào buổi sáng", KindUnknown, GreetingReplies[0]},
		{"cảm ơn nhé", KindUnknown, ThanksReplies[0]},
		{"tổng chi tiêu tháng này", KindQuery, "📊 Để xem tổng quan chi tiêu, vui lòng vào tab **Tổng quan** hoặc **Chi tiêu** nhé!"},
		{"hôm nay có gì", KindQuery, "📅 Để xem lịch trình, vui lòng vào tab **Lịch trình** nhé!"},
		{"good evening", KindUnknown, "Chào buổi tối! 🌙 Bạn muốn ghi lại chi tiêu hôm nay không?"},
		{"how are you", KindUnknown, "Tôi vẫn hoạt động tốt! 💪 Cảm ơn bạn đã hỏi thăm. Bạn cần gì hôm nay?"},
		{"what can you do", KindUnknown, capabilityReply},
		{"ok", KindUnknown, "Tuyệt! 👍 Còn gì khác không?"},
		{"xóa giao dịch", KindUnknown, "✏️ Để xóa hoặc sửa, vui lòng vào tab **Chi tiêu** hoặc **Lịch trình** nhé!"},
		{"bye", KindUnknown, "Tạm biệt! 👋 Hẹn gặp lại bạn!"},
		{"abc xyz", KindUnknown, FallbackReply},
		{"", KindUnknown, FallbackReply},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			result := in.Interpret(test.input, testNow)
			assert.Equal(t, test.kind, result.Kind)
			assert.Equal(t, test.reply, result.Reply)
			assert.False(t, result.HasPayload())
		})
	}
}

func TestInterpret_GreetingVariants(t *testing.T) {
	for i, variant := range GreetingReplies {
		in := New(WithRandom(fixedRandom(i)))
		assert.Equal(t, variant, in.Interpret("xin chào", testNow).Reply)
	}

	result := Interpret("hello", testNow)
	assert.Contains(t, GreetingReplies, result.Reply)
}

func TestInterpret_BareAmountAsksForIntent(t *testing.T) {
	result := Interpret("50k", testNow)
	assert.Equal(t, KindUnknown, result.Kind)
	assert.False(t, result.HasPayload())
	assert.Equal(t, "💡 Bạn muốn ghi **50,000đ** là chi tiêu hay thu nhập?\n\nVí dụ:\n• \"chi 50k ăn trưa\"\n• \"nhận 50k lương\"", result.Reply)
}

func TestInterpret_BareFoodAsksForAmount(t *testing.T) {
	result := Interpret("  Phở ", testNow)
	assert.Equal(t, KindUnknown, result.Kind)
	assert.Equal(t, "💡 Bạn muốn ghi chi tiêu \"Phở\"? Hãy thêm số tiền nhé!\n\nVí dụ: \"Phở 50k\"", result.Reply)
}

func TestInterpret_HelpHasUsage(t *testing.T) {
	result := Interpret("help", testNow)
	assert.Equal(t, KindUnknown, result.Kind)
	assert.Contains(t, result.Reply, "chi 50k ăn trưa")
	assert.Nil(t, result.Expense)
}

func TestInterpret_Idempotent(t *testing.T) {
	inputs := []string{"chi 50k ăn trưa", "nhận 10tr lương", "họp 3h chiều", "tổng chi tiêu", "lung tung"}
	for _, input := range inputs {
		first := Interpret(input, testNow)
		second := Interpret(input, testNow)
		assert.Equal(t, first, second, input)
	}
}

func TestInterpret_Concurrent(t *testing.T) {
	in := New()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := in.Interpret("chi 50k ăn trưa", testNow)
			assert.Equal(t, 50000.0, result.Expense.Amount)
			in.Interpret("xin chào", testNow)
		}()
	}
	wg.Wait()
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Ăn trưa", capitalize("ăn trưa"))
	assert.Equal(t, "Đi grab", capitalize("đi grab"))
	assert.Equal(t, "", capitalize(""))
}
