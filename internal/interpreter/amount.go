package interpreter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Shared fragments of the pattern battery. The unit list keeps "triệu" ahead of "tr"
// so that stripping amounts out of a description removes the whole word.
// amountToken captures the number together with its unit.
const (
	numberGroup = `(\d+(?:\.\d+)?)`
	unitSuffix  = `(?:k|ngàn|nghìn|triệu|tr|đồng|vnd|đ)?`
	amountToken = `(\d+(?:\.\d+)?\s*` + unitSuffix + `)`
)

var (
	millionRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:triệu|tr)`)
	thousandRe   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:ngàn|nghìn|k)`)
	commaGroupRe = regexp.MustCompile(`(\d+(?:,\d{3})+)`)
	dotGroupRe   = regexp.MustCompile(`\d+(?:\.\d{3})+`)
	trAfterRe    = regexp.MustCompile(`^\s*tr`)
	bareNumberRe = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

	amountTokenRe = regexp.MustCompile(`\d+(?:[.,]\d+)*\s*` + unitSuffix)
)

// ExtractAmount pulls a monetary quantity out of text. It returns 0 when no amount is found.
//
// Candidates are tried in order: millions ("5tr", "5.5 triệu"), thousands ("50k", "50 nghìn"),
// comma-grouped ("50,000"), dot-grouped not followed by "tr" ("50.000"), then a bare number.
// A bare number below 1000 is read as thousands ("50" means 50,000).
func ExtractAmount(text string) float64 {
	lower := strings.ToLower(text)

	if m := millionRe.FindStringSubmatch(lower); m != nil {
		return parseNumber(m[1]) * 1_000_000
	}
	if m := thousandRe.FindStringSubmatch(lower); m != nil {
		return parseNumber(m[1]) * 1_000
	}
	if m := commaGroupRe.FindStringSubmatch(lower); m != nil {
		return parseNumber(strings.ReplaceAll(m[1], ",", ""))
	}
	if s, ok := findDotGrouped(lower); ok {
		return parseNumber(strings.ReplaceAll(s, ".", ""))
	}
	if m := bareNumberRe.FindStringSubmatch(lower); m != nil {
		v := parseNumber(m[1])
		if v > 0 && v < 1000 {
			return v * 1000
		}
		return v
	}
	return 0
}

// findDotGrouped finds a dot-grouped integer that is not directly followed by "tr".
// When the full run is followed by "tr", dropping its last group leaves a prefix
// followed by a dot, which is accepted instead.
func findDotGrouped(s string) (string, bool) {
	for _, loc := range dotGroupRe.FindAllStringIndex(s, -1) {
		run := s[loc[0]:loc[1]]
		if !trAfterRe.MatchString(s[loc[1]:]) {
			return run, true
		}
		if i := strings.LastIndex(run, "."); strings.Count(run, ".") > 1 {
			return run[:i], true
		}
	}
	return "", false
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// stripAmounts removes every amount token (number plus optional unit) from text
func stripAmounts(text string) string {
	return strings.TrimSpace(amountTokenRe.ReplaceAllString(text, ""))
}

// FormatAmount renders an amount with thousands separators, e.g. 1500000 -> "1,500,000"
func FormatAmount(v float64) string {
	return humanize.Commaf(v)
}
