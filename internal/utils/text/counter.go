// Package text provides utilities for text processing used when formatting
// notification messages for length-constrained media such as SMS.
package text

// CountRunes counts the number of Unicode characters (runes) in the given
// text. Counting runes instead of bytes correctly handles multi-byte
// characters including accented names, non-Latin scripts and emoji, which
// matters when enforcing SMS character budgets.
//
// Examples:
//
//	CountRunes("hello")     // returns 5 (ASCII text)
//	CountRunes("héllo")     // returns 5 (accented text)
//	CountRunes("")          // returns 0 (empty string)
func CountRunes(text string) int {
	return len([]rune(text))
}

// TruncateRunes shortens text to at most max runes, replacing the tail with
// the given suffix when truncation occurs. The suffix counts against the
// budget, so the returned string never exceeds max runes. Text already
// within the budget is returned unchanged.
func TruncateRunes(text string, max int, suffix string) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	keep := max - len([]rune(suffix))
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + suffix
}
