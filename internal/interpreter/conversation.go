package interpreter

import (
	"fmt"
	"regexp"
)

// Random picks reply variants. *math/rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
}

type replyContext struct {
	lower    string
	original string
	rnd      Random
}

// conversationRule answers small talk and redirects. A rule whose reply
// returns false is skipped and later rules are tried.
type conversationRule struct {
	name    string
	pattern *regexp.Regexp
	kind    Kind
	reply   func(c replyContext) (string, bool)
}

func fixed(s string) func(replyContext) (string, bool) {
	return func(replyContext) (string, bool) { return s, true }
}

func oneOf(variants ...string) func(replyContext) (string, bool) {
	return func(c replyContext) (string, bool) {
		return variants[c.rnd.Intn(len(variants))], true
	}
}

// GreetingReplies are the variants returned for a greeting
var GreetingReplies = []string{
	`Xin chào! 👋 Tôi là Lifetrack Guy, có thể giúp bạn quản lý chi tiêu và lịch trình. Gõ "help" để xem hướng dẫn!`,
	"Chào bạn! 😊 Tôi sẵn sàng hỗ trợ bạn quản lý tài chính và lịch trình.",
	"Hello! 👋 Bạn cần ghi chi tiêu hay tạo lịch hẹn gì không?",
}

// ThanksReplies are the variants returned for thanks
var ThanksReplies = []string{
	"Không có gì! 😊",
	"Rất vui được giúp bạn! 🙌",
	"Cứ gọi tôi khi cần nhé! 😄",
}

const capabilityReply = `🤖 Tôi là **Lifetrack Guy**, có thể giúp bạn:

💰 **Quản lý chi tiêu**: Ghi nhận thu chi, theo dõi ngân sách
📅 **Quản lý lịch trình**: Tạo sự kiện, nhắc nhở
📊 **Xem thống kê**: Phân tích chi tiêu theo danh mục

Gõ "help" để xem chi tiết cách sử dụng!`

// HelpReply is the usage guide
const HelpReply = `📖 **Hướng dẫn sử dụng:**

💸 **Chi tiêu:**
• "chi 50k ăn trưa"
• "cafe 30k" / "ăn 50k"
• "grab 25 ngàn"

💰 **Thu nhập:**
• "nhận 10tr lương"
• "+5tr thưởng"

📅 **Sự kiện:**
• "họp 3h chiều"
• "học tiếng anh 9h sáng"

💡 Tip: "k" = nghìn, "tr" = triệu`

// FallbackReply is returned when nothing matched
const FallbackReply = `🤔 Tôi chưa hiểu ý bạn. Gõ **"help"** để xem hướng dẫn sử dụng nhé!`

// Conversational rules in priority order
var conversationRules = []conversationRule{
	{
		name:    "stats-query",
		pattern: regexp.MustCompile(`(?:tổng|bao nhiêu|còn lại|đã chi|đã tiêu|chi tiêu|thống kê|summary|report|báo cáo)`),
		kind:    KindQuery,
		reply:   fixed("📊 Để xem tổng quan chi tiêu, vui lòng vào tab **Tổng quan** hoặc **Chi tiêu** nhé!"),
	},
	{
		name:    "schedule-query",
		pattern: regexp.MustCompile(`(?:lịch|hôm nay có gì|mai có gì|tuần này|kế hoạch|schedule|plan|sự kiện|events?)`),
		kind:    KindQuery,
		reply:   fixed("📅 Để xem lịch trình, vui lòng vào tab **Lịch trình** nhé!"),
	},
	{
		name:    "list-query",
		pattern: regexp.MustCompile(`^(?:xem|show|list|liệt kê|hiện|hiển thị)\s+(?:chi tiêu|giao dịch|transactions?|lịch|events?)`),
		kind:    KindQuery,
		reply:   fixed("📋 Vui lòng vào tab tương ứng để xem danh sách chi tiết nhé!"),
	},
	{
		name:    "greeting",
		pattern: regexp.MustCompile(`^(?:hi|hello|xin chào|chào|hey|yo|ê|ơi|alo|a lô)`),
		kind:    KindUnknown,
		reply:   oneOf(GreetingReplies...),
	},
	{
		name:    "good-morning",
		pattern: regexp.MustCompile(`^(?:chào buổi sáng|good morning|morning)`),
		kind:    KindUnknown,
		reply:   fixed("Chào buổi sáng! ☀️ Chúc bạn một ngày mới tràn đầy năng lượng!"),
	},
	{
		name:    "good-evening",
		pattern: regexp.MustCompile(`^(?:chào buổi tối|good evening|evening|good night)`),
		kind:    KindUnknown,
		reply:   fixed("Chào buổi tối! 🌙 Bạn muốn ghi lại chi tiêu hôm nay không?"),
	},
	{
		name:    "small-talk",
		pattern: regexp.MustCompile(`^(?:bạn khỏe không|how are you|bạn có khỏe không|khỏe không|what's up|sup)`),
		kind:    KindUnknown,
		reply:   fixed("Tôi vẫn hoạt động tốt! 💪 Cảm ơn bạn đã hỏi thăm. Bạn cần gì hôm nay?"),
	},
	{
		name:    "capabilities",
		pattern: regexp.MustCompile(`(?:bạn làm được gì|bạn có thể làm gì|what can you do|chức năng|features?)`),
		kind:    KindUnknown,
		reply:   fixed(capabilityReply),
	},
	{
		name:    "help",
		pattern: regexp.MustCompile(`^(?:help|hướng dẫn|giúp|cách dùng|how|hướng dẫn sử dụng|\?|menu)`),
		kind:    KindUnknown,
		reply:   fixed(HelpReply),
	},
	{
		name:    "thanks",
		pattern: regexp.MustCompile(`^(?:cảm ơn|thank|thanks|cám ơn|camon)`),
		kind:    KindUnknown,
		reply:   oneOf(ThanksReplies...),
	},
	{
		name:    "affirmation",
		pattern: regexp.MustCompile(`^(?:ok|okay|được|tốt|good|great|nice|oke|okie|okê|ổn|đc|dc|👍|👌)$`),
		kind:    KindUnknown,
		reply:   fixed("Tuyệt! 👍 Còn gì khác không?"),
	},
	{
		name:    "edit-request",
		pattern: regexp.MustCompile(`(?:xóa|xoá|delete|remove|hủy|cancel|sửa|edit|update|chỉnh)`),
		kind:    KindUnknown,
		reply:   fixed("✏️ Để xóa hoặc sửa, vui lòng vào tab **Chi tiêu** hoặc **Lịch trình** nhé!"),
	},
	{
		name:    "farewell",
		pattern: regexp.MustCompile(`^(?:bye|goodbye|tạm biệt|tạm biệt nhé|bai|bb|see you|hẹn gặp lại)`),
		kind:    KindUnknown,
		reply:   fixed("Tạm biệt! 👋 Hẹn gặp lại bạn!"),
	},
	{
		name:    "bare-amount",
		pattern: regexp.MustCompile(`^` + amountToken + `$`),
		kind:    KindUnknown,
		reply: func(c replyContext) (string, bool) {
			amount := ExtractAmount(c.lower)
			if amount <= 0 {
				return "", false
			}
			return fmt.Sprintf("💡 Bạn muốn ghi **%sđ** là chi tiêu hay thu nhập?\n\nVí dụ:\n• \"chi %s ăn trưa\"\n• \"nhận %s lương\"",
				FormatAmount(amount), c.lower, c.lower), true
		},
	},
	{
		name:    "bare-food",
		pattern: regexp.MustCompile(`^(?:ăn|uống|cafe|cà phê|phở|bún|cơm|trà sữa|milk tea)$`),
		kind:    KindUnknown,
		reply: func(c replyContext) (string, bool) {
			return fmt.Sprintf("💡 Bạn muốn ghi chi tiêu \"%s\"? Hãy thêm số tiền nhé!\n\nVí dụ: \"%s 50k\"", c.original, c.original), true
		},
	},
}

func matchConversation(c replyContext) (Kind, string) {
	for _, r := range conversationRules {
		if !r.pattern.MatchString(c.lower) {
			continue
		}
		if reply, ok := r.reply(c); ok {
			return r.kind, reply
		}
	}
	return KindUnknown, FallbackReply
}
