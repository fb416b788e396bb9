package interpreter

import (
	"regexp"
	"strings"
)

var expenseCategoryRules = []struct {
	pattern  *regexp.Regexp
	category ExpenseCategory
}{
	{regexp.MustCompile(`ăn|cơm|phở|bún|mì|bánh|cafe|cà phê|trà|coffee|uống|nhậu|bia|rượu|đồ ăn|thức ăn|bữa|sáng|trưa|tối|lẩu|nướng|gà|vịt|heo|bò|cá|tôm|cua|ốc|chè|kem|nước|milk tea|trà sữa|pizza|burger|gỏi|salad|cháo|xôi|hủ tiếu`), ExpenseFood},
	{regexp.MustCompile(`grab|taxi|xe|xăng|dầu|gửi xe|đỗ xe|uber|be|gojek|bus|xe buýt|tàu|máy bay|vé|đi lại|di chuyển|ship|giao hàng|vận chuyển`), ExpenseTransport},
	{regexp.MustCompile(`shopee|lazada|tiki|sendo|mua|quần|áo|giày|dép|túi|ví|đồng hồ|mỹ phẩm|son|kem|nước hoa|thời trang|phụ kiện|online|order|đặt hàng`), ExpenseShopping},
	{regexp.MustCompile(`điện|nước|internet|wifi|4g|5g|điện thoại|thuê|rent|phòng|nhà|gas|truyền hình|netflix|spotify|youtube|subscription|đăng ký|hóa đơn|bill`), ExpenseBills},
	{regexp.MustCompile(`thuốc|khám|bệnh|viện|doctor|bác sĩ|y tế|sức khỏe|gym|tập|thể dục|spa|massage|răng|mắt|vitamin|thực phẩm chức năng`), ExpenseHealth},
	{regexp.MustCompile(`game|phim|giải trí|cinema|rạp|karaoke|du lịch|travel|chơi|vui|party|tiệc|sinh nhật|event|sự kiện|concert|show|vé xem`), ExpenseEntertainment},
	{regexp.MustCompile(`học|sách|course|khóa học|udemy|coursera|học phí|trường|lớp|thầy|cô|gia sư|tài liệu|giáo trình`), ExpenseEducation},
}

var incomeCategoryRules = []struct {
	pattern  *regexp.Regexp
	category IncomeCategory
}{
	{regexp.MustCompile(`lương|salary|wage`), IncomeSalary},
	{regexp.MustCompile(`thưởng|bonus|thưởng tết|thưởng quý`), IncomeBonus},
	{regexp.MustCompile(`đầu tư|invest|cổ tức|lãi|profit|trading|crypto|coin`), IncomeInvestment},
	{regexp.MustCompile(`freelance|dự án|project|làm thêm|part.?time`), IncomeOther},
}

var eventCategoryRules = []struct {
	pattern  *regexp.Regexp
	category EventCategory
}{
	{regexp.MustCompile(`họp|meeting|call|gọi`), EventMeeting},
	{regexp.MustCompile(`học|lớp|course|khóa`), EventEducation},
	{regexp.MustCompile(`làm|việc|work|office`), EventWork},
	{regexp.MustCompile(`gym|tập|thể dục|chạy|yoga`), EventHealth},
	{regexp.MustCompile(`chơi|game|phim|giải trí|party`), EventPersonal},
}

// CategorizeExpense classifies an expense description, defaulting to ExpenseOther
func CategorizeExpense(text string) ExpenseCategory {
	lower := strings.ToLower(text)
	for _, r := range expenseCategoryRules {
		if r.pattern.MatchString(lower) {
			return r.category
		}
	}
	return ExpenseOther
}

// CategorizeIncome classifies an income description, defaulting to IncomeOther
func CategorizeIncome(text string) IncomeCategory {
	lower := strings.ToLower(text)
	for _, r := range incomeCategoryRules {
		if r.pattern.MatchString(lower) {
			return r.category
		}
	}
	return IncomeOther
}

// CategorizeEvent classifies an event from the whole utterance, defaulting to EventOther
func CategorizeEvent(text string) EventCategory {
	lower := strings.ToLower(text)
	for _, r := range eventCategoryRules {
		if r.pattern.MatchString(lower) {
			return r.category
		}
	}
	return EventOther
}
