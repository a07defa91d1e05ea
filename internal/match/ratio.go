package match

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// Ratio returns a case-insensitive similarity score in [0, 100] derived from
// the Levenshtein edit distance: round(100 * (1 - distance/maxLen)), with
// lengths counted in runes. Two empty strings score 100.
func Ratio(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 100
	}
	d := levenshtein.Distance(a, b, nil)
	return int(math.Round(100 * (1 - float64(d)/float64(maxLen))))
}
