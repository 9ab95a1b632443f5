// Package cpf validates Brazilian individual taxpayer numbers.
package cpf

// Digits returns the decimal digits of s, dropping punctuation.
func Digits(s string) []int {
	digits := make([]int, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	return digits
}

// Valid reports whether s has 11 digits, not all equal, with both check
// digits correct. Formatting characters are ignored.
func Valid(s string) bool {
	digits := Digits(s)
	if len(digits) != 11 || repeated(digits) {
		return false
	}
	return checkDigit(digits[:9], 10) == digits[9] &&
		checkDigit(digits[:10], 11) == digits[10]
}

func checkDigit(digits []int, weight int) int {
	sum := 0
	for i, d := range digits {
		sum += d * (weight - i)
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

func repeated(digits []int) bool {
	for _, d := range digits[1:] {
		if d != digits[0] {
			return false
		}
	}
	return true
}
