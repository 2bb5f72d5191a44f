package strength

// Category is the named strength band of a score.
type Category string

const (
	VeryWeak   Category = "Very Weak"
	Weak       Category = "Weak"
	Medium     Category = "Medium"
	Strong     Category = "Strong"
	VeryStrong Category = "Very Strong"
)

// Categorize maps a score to its band. Bands are closed on the lower end.
func Categorize(score int) Category {
	switch {
	case score < 30:
		return VeryWeak
	case score < 50:
		return Weak
	case score < 70:
		return Medium
	case score < 85:
		return Strong
	default:
		return VeryStrong
	}
}
