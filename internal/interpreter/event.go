package interpreter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// timeOfDay matches an optional "lúc", an hour, an optional h/: separator,
// optional minutes and an optional period word. The word boundary keeps a
// lazy title group from swallowing the first digit of "10h".
const timeOfDay = `(?:lúc\s*)?\b(\d{1,2})(?:h|:)?(\d{0,2})?\s*(sáng|chiều|tối|am|pm)?`

// eventRule is one entry of the event battery. A soft rule that matches but is
// rejected lets later rules try; a hard rule ends the search either way.
type eventRule struct {
	name    string
	pattern *regexp.Regexp
	soft    bool
	extract func(m []string, lower string) eventMatch
}

type eventMatch struct {
	title  string
	hour   int
	minute int
}

// Event rules in priority order
var eventRules = []eventRule{
	{
		name:    "meeting-verb",
		pattern: regexp.MustCompile(`^(?:họp|meeting|gặp|hẹn|phỏng vấn|interview|call|gọi điện)\s*(.+?)?\s*` + timeOfDay),
		soft:    true,
		extract: func(m []string, _ string) eventMatch {
			return eventMatch{
				title:  orDefault(strings.TrimSpace(m[1]), "Họp"),
				hour:   normalizeHour(atoi(m[2]), m[4]),
				minute: atoi(m[3]),
			}
		},
	},
	{
		name:    "class",
		pattern: regexp.MustCompile(`^(?:học|đi học|lớp|khóa|course)\s+(.+?)\s+` + timeOfDay),
		soft:    true,
		extract: func(m []string, _ string) eventMatch {
			return eventMatch{
				title:  "Học " + strings.TrimSpace(m[1]),
				hour:   normalizeHour(atoi(m[2]), m[4]),
				minute: atoi(m[3]),
			}
		},
	},
	{
		name:    "activity",
		pattern: regexp.MustCompile(`^(?:đi|tập|chơi|xem|ăn)\s+(.+?)\s+` + timeOfDay),
		soft:    true,
		extract: func(m []string, _ string) eventMatch {
			return eventMatch{
				title:  strings.TrimSpace(m[1]),
				hour:   normalizeHour(atoi(m[2]), m[4]),
				minute: atoi(m[3]),
			}
		},
	},
	{
		name:    "time-first",
		pattern: regexp.MustCompile(`^(\d{1,2})(?:h|:)(\d{0,2})?\s*(sáng|chiều|tối|am|pm)?\s+(.+)`),
		extract: func(m []string, _ string) eventMatch {
			return eventMatch{
				title:  orDefault(strings.TrimSpace(m[4]), "Sự kiện"),
				hour:   normalizeHour(atoi(m[1]), m[3]),
				minute: atoi(m[2]),
			}
		},
	},
	{
		name:    "reminder",
		pattern: regexp.MustCompile(`^(?:nhắc|nhắc nhở|reminder|đặt lịch|tạo lịch|thêm lịch)\s+(.+?)\s+` + timeOfDay),
		soft:    true,
		extract: func(m []string, _ string) eventMatch {
			return eventMatch{
				title:  strings.TrimSpace(m[1]),
				hour:   normalizeHour(atoi(m[2]), m[4]),
				minute: atoi(m[3]),
			}
		},
	},
	{
		name:    "schedule-type",
		pattern: regexp.MustCompile(`^lịch\s+(họp|hẹn|gặp|meeting|call|làm việc|work|học|tập)\s*(.+?)?\s*` + timeOfDay),
		extract: func(m []string, _ string) eventMatch {
			return eventMatch{
				title:  typedTitle(m[1], m[2]),
				hour:   normalizeHour(atoi(m[3]), m[5]),
				minute: atoi(m[4]),
			}
		},
	},
	{
		name:    "have-appointment",
		pattern: regexp.MustCompile(`(?:có|cần|phải)\s+(?:cuộc\s+)?(họp|hẹn|gặp|meeting|call|học|tập)\s*(.+?)?\s*` + timeOfDay),
		extract: func(m []string, _ string) eventMatch {
			return eventMatch{
				title:  typedTitle(m[1], m[2]),
				hour:   normalizeHour(atoi(m[3]), m[5]),
				minute: atoi(m[4]),
			}
		},
	},
	{
		name:    "time-then-appointment",
		pattern: regexp.MustCompile(`^(?:sáng|chiều|tối)?\s*(?:nay|mai|mốt|hôm nay|ngày mai)?\s*(\d{1,2})\s*(?:h|giờ|:)\s*(\d{0,2})?\s*(?:sáng|chiều|tối)?\s*(?:có|cần|phải)\s+(?:cuộc\s+)?(họp|hẹn|gặp|meeting|call|học|tập|lịch)\s*(.+)?`),
		extract: func(m []string, lower string) eventMatch {
			var period string
			switch {
			case strings.HasPrefix(lower, "chiều"):
				period = "chiều"
			case strings.HasPrefix(lower, "tối"):
				period = "tối"
			}
			return eventMatch{
				title:  typedTitle(m[3], m[4]),
				hour:   normalizeHour(atoi(m[1]), period),
				minute: atoi(m[2]),
			}
		},
	},
}

// normalizeHour converts a spoken hour to 24-hour time.
// "chiều"/"pm" add 12 below noon. "tối" adds 12 below 18, or 18 when the hour is below 6.
func normalizeHour(hour int, period string) int {
	switch period {
	case "chiều", "pm":
		if hour < 12 {
			hour += 12
		}
	case "tối":
		if hour < 18 {
			if hour < 6 {
				hour += 18
			} else {
				hour += 12
			}
		}
	}
	return hour
}

func (e eventMatch) valid() bool {
	return e.hour >= 0 && e.hour <= 23 && e.minute >= 0 && e.minute <= 59
}

func (e eventMatch) startTime() string {
	return fmt.Sprintf("%02d:%02d", e.hour, e.minute)
}

// matchEvent runs the event battery against lower-cased input
func matchEvent(lower string) (*eventMatch, bool) {
	for _, r := range eventRules {
		m := r.pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		ev := r.extract(m, lower)
		if ev.valid() && ev.title != "" {
			return &ev, true
		}
		if !r.soft {
			return nil, false
		}
	}
	return nil, false
}

func typedTitle(kind, extra string) string {
	title := capitalize(kind)
	if extra = strings.TrimSpace(extra); extra != "" {
		title += " " + extra
	}
	return title
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
