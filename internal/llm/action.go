package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Action is the structured instruction a model may embed in its answer
type Action struct {
	Action      string  `json:"action"`
	Amount      float64 `json:"amount,omitempty"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Title       string  `json:"title,omitempty"`
	Date        string  `json:"date,omitempty"`
	StartTime   string  `json:"startTime,omitempty"`
}

// IsRecord reports whether the action asks to store an expense, income or event
func (a *Action) IsRecord() bool {
	switch a.Action {
	case "expense", "income", "event":
		return true
	}
	return false
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*?\}`)

// ExtractAction decodes the first brace-delimited object in text.
// On success it also returns text with that object removed and trimmed.
// When no object decodes, text is returned unchanged.
func ExtractAction(text string) (*Action, string, bool) {
	loc := jsonObjectRe.FindStringIndex(text)
	if loc == nil {
		return nil, text, false
	}

	var action Action
	if err := json.Unmarshal([]byte(text[loc[0]:loc[1]]), &action); err != nil {
		return nil, text, false
	}

	rest := strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
	return &action, rest, true
}
