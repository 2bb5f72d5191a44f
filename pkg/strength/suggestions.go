package strength

type suggestionRule struct {
	messageID string
	applies   func(f Features) bool
}

// suggestionRules are evaluated in order; every matching rule contributes one
// message.
var suggestionRules = []suggestionRule{
	{MsgTooShort, func(f Features) bool { return f.Length < 8 }},
	{MsgNoUpper, func(f Features) bool { return f.Upper == 0 }},
	{MsgNoLower, func(f Features) bool { return f.Lower == 0 }},
	{MsgNoDigits, func(f Features) bool { return f.Digits == 0 }},
	{MsgNoSpecial, func(f Features) bool { return f.Special == 0 }},
	{MsgRepeats, func(f Features) bool { return f.Repeats > 2 }},
	{MsgSequential, func(f Features) bool { return f.Sequential > 1 }},
	{MsgKeyboard, func(f Features) bool { return float64(f.Proximity) > 0.5*float64(f.Length) }},
	{MsgLeaked, func(f Features) bool { return f.IsLeaked }},
}

// Suggest returns the advice for a password. When no rule matches, a single
// message chosen by score band is returned instead. A nil Localizer falls
// back to English.
func Suggest(f Features, score int, l Localizer) []string {
	if l == nil {
		l = English{}
	}

	var out []string
	for _, rule := range suggestionRules {
		if rule.applies(f) {
			out = append(out, l.Localize(rule.messageID, nil))
		}
	}

	if len(out) > 0 {
		return out
	}

	switch {
	case score < 50:
		return []string{l.Localize(MsgFallbackWeak, nil)}
	case score < 70:
		return []string{l.Localize(MsgFallbackMedium, nil)}
	default:
		return []string{l.Localize(MsgFallbackStrong, nil)}
	}
}
