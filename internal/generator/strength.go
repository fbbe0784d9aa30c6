package generator

import "unicode/utf8"

// MaxStrength is the top of the Strength scale.
const MaxStrength = 5

// Strength scores a password from 0 to MaxStrength: one point each for
// length >= 12, length >= 16, mixed case, a digit and a non-alphanumeric
// character. The score is advisory only.
func Strength(password string) int {
	var lower, upper, digit, other bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			other = true
		}
	}

	n := utf8.RuneCountInString(password)
	score := 0
	for _, ok := range []bool{n >= 12, n >= 16, lower && upper, digit, other} {
		if ok {
			score++
		}
	}
	return min(score, MaxStrength)
}

// StrengthLabel names a Strength score.
func StrengthLabel(score int) string {
	switch {
	case score <= 2:
		return "Weak"
	case score == 3:
		return "Medium"
	case score == 4:
		return "Strong"
	default:
		return "Very Strong"
	}
}
