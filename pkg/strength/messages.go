package strength

import "strings"

// Message identifiers shared with the locale files.
const (
	MsgTooShort        = "suggestion.too_short"
	MsgNoUpper         = "suggestion.no_upper"
	MsgNoLower         = "suggestion.no_lower"
	MsgNoDigits        = "suggestion.no_digits"
	MsgNoSpecial       = "suggestion.no_special"
	MsgRepeats         = "suggestion.repeats"
	MsgSequential      = "suggestion.sequential"
	MsgKeyboard        = "suggestion.keyboard"
	MsgLeaked          = "suggestion.leaked"
	MsgFallbackWeak    = "suggestion.fallback_weak"
	MsgFallbackMedium  = "suggestion.fallback_medium"
	MsgFallbackStrong  = "suggestion.fallback_strong"
	MsgCrackCompromise = "crack.compromised"
	MsgCrackInstant    = "crack.instant"
	MsgCrackSeconds    = "crack.seconds"
	MsgCrackMinutes    = "crack.minutes"
	MsgCrackHours      = "crack.hours"
	MsgCrackDays       = "crack.days"
	MsgCrackYears      = "crack.years"
	MsgCrackCenturies  = "crack.centuries"
	MsgCrackMillennia  = "crack.millennia"
	MsgCrackForever    = "crack.forever"
)

// Localizer resolves a message ID to display text. Templates reference their
// data as {{.Key}}.
type Localizer interface {
	Localize(messageID string, data map[string]string) string
}

var englishMessages = map[string]string{
	MsgTooShort:        "Increase the password length to at least 8 characters.",
	MsgNoUpper:         "Add uppercase letters.",
	MsgNoLower:         "Add lowercase letters.",
	MsgNoDigits:        "Add numbers.",
	MsgNoSpecial:       "Add special characters (e.g. !, @, #, $).",
	MsgRepeats:         "Avoid repeated characters or patterns.",
	MsgSequential:      "Avoid sequential characters like 'abc' or '123'.",
	MsgKeyboard:        "Avoid keyboard patterns like 'qwerty' or 'asdf'.",
	MsgLeaked:          "This password has appeared in a data breach. Choose a different one.",
	MsgFallbackWeak:    "Your password is too weak. Make it longer and mix different character types.",
	MsgFallbackMedium:  "Your password is moderately strong. Add more variety to make it stronger.",
	MsgFallbackStrong:  "Your password is strong. Keep maintaining this level of complexity.",
	MsgCrackCompromise: "Instantly (password already compromised)",
	MsgCrackInstant:    "Instantly",
	MsgCrackSeconds:    "{{.Value}} seconds",
	MsgCrackMinutes:    "{{.Value}} minutes",
	MsgCrackHours:      "{{.Value}} hours",
	MsgCrackDays:       "{{.Value}} days",
	MsgCrackYears:      "{{.Value}} years",
	MsgCrackCenturies:  "{{.Value}} centuries",
	MsgCrackMillennia:  "{{.Value}} millennia",
	MsgCrackForever:    "Effectively forever",
}

// English is the built-in Localizer. Unknown IDs are returned as is.
type English struct{}

func (English) Localize(messageID string, data map[string]string) string {
	text, ok := englishMessages[messageID]
	if !ok {
		return messageID
	}

	for key, value := range data {
		text = strings.ReplaceAll(text, "{{."+key+"}}", value)
	}

	return text
}

// DefaultMessages returns a copy of the English templates keyed by message ID.
func DefaultMessages() map[string]string {
	out := make(map[string]string, len(englishMessages))
	for id, text := range englishMessages {
		out[id] = text
	}

	return out
}
