package cleaner

import (
	"math"
	"unicode/utf8"
)

// EstimateTokens gives a fast token count estimate: utf8 rune count / 3.
//
// English averages about 4 characters per token and CJK about 1.5; 3 sits
// between them and over-estimates slightly for English, so reported savings
// are never inflated.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	est := n / 3
	if est < 1 {
		return 1
	}
	return est
}

// SavingsPercent is the share of tokens removed going from original to
// cleaned, rounded to two decimals. It is negative when the output grew.
func SavingsPercent(original, cleaned int) float64 {
	if original <= 0 {
		return 0
	}
	pct := float64(original-cleaned) / float64(original) * 100
	return math.Round(pct*100) / 100
}
