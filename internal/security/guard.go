// Package security screens incoming chat messages before they reach the
// interpreter or the language model.
package security

import (
	"regexp"
	"strings"
	"unicode"

	apperrors "github.com/gmsas95/lifetrack/internal/errors"
)

const (
	DefaultMaxSize       = 4 * 1024
	DefaultMaxRepetition = 64
)

var injectionLiterals = []string{
	"ignore previous instructions",
	"ignore all previous",
	"disregard all previous",
	"forget all previous",
	"your new instructions",
	"system override",
	"jailbreak",
	"developer mode",
	"bỏ qua mọi hướng dẫn",
	"bỏ qua các hướng dẫn",
	"quên hết hướng dẫn",
}

var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|above)\s+(instructions?|prompts?|rules?)`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an)\s+\w+`),
	regexp.MustCompile(`(?i)(pretend|act)\s+(that\s+)?you\s+are`),
	regexp.MustCompile(`(?i)system:\s*you\s+must`),
	regexp.MustCompile(`<\|.*\|>`),
	regexp.MustCompile(`(?i)###\s*(instruction|system)`),
}

// Guard validates message text
type Guard struct {
	MaxSize       int
	MaxRepetition int
}

func NewGuard() *Guard {
	return &Guard{
		MaxSize:       DefaultMaxSize,
		MaxRepetition: DefaultMaxRepetition,
	}
}

// Check rejects messages that are too large, contain NUL bytes or
// repeat one character excessively.
func (g *Guard) Check(text string) error {
	if g.MaxSize > 0 && len(text) > g.MaxSize {
		return apperrors.New(apperrors.ErrBadRequest.Code, "message is too long")
	}
	if strings.IndexByte(text, 0) >= 0 {
		return apperrors.New(apperrors.ErrBadRequest.Code, "message contains a null byte")
	}
	if g.MaxRepetition > 0 && repeats(text, g.MaxRepetition) {
		return apperrors.New(apperrors.ErrBadRequest.Code, "message is repetitive")
	}
	return nil
}

// Suspicious reports whether text looks like an attempt to steer the model.
// Such messages are still handled, but only by the rule-based interpreter.
func (g *Guard) Suspicious(text string) bool {
	lower := strings.ToLower(text)
	for _, lit := range injectionLiterals {
		if strings.Contains(lower, lit) {
			return true
		}
	}
	for _, re := range injectionPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func repeats(text string, limit int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev && !unicode.IsDigit(r) {
			run++
			if run > limit {
				return true
			}
			continue
		}
		prev = r
		run = 1
	}
	return false
}
