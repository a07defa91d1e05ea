// Package normalize turns free-text district names into comparison keys.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// adminLabels are removed wherever they occur, in this order. Matching is
// case-sensitive.
var adminLabels = []string{" District", " district", "District ", "district "}

// maxPasses bounds the fixed-point loop in Normalize.
const maxPasses = 16

// Normalize standardizes a district name for matching by:
//  1. NFKC-folding, trimming and collapsing whitespace runs to one space
//  2. Removing the literal labels " District", " district", "District " and
//     "district " anywhere in the name
//  3. Title-casing each word
//
// The steps repeat until the name stops changing, so labels exposed by
// title-casing ("hyderabad DISTRICT" -> "Hyderabad District") are removed
// too and Normalize(Normalize(s)) == Normalize(s). A lone "District" has no
// surrounding space and is kept. Empty or whitespace-only input returns "".
func Normalize(raw string) string {
	s := strings.ToValidUTF8(raw, "\uFFFD")
	for range maxPasses {
		next := pass(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func pass(s string) string {
	s = collapse(norm.NFKC.String(s))
	for _, label := range adminLabels {
		s = strings.ReplaceAll(s, label, "")
	}
	// cases.Caser is stateful: one per call.
	s = cases.Title(language.Und).String(collapse(s))
	return collapse(norm.NFKC.String(s))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Equal reports whether two raw names share a comparison key.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Key normalizes a raw cell value. nil yields ""; numbers are formatted
// without a trailing ".0" so a numeric district code keys the same as its text.
func Key(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return Normalize(v)
	case float64:
		return Normalize(strconv.FormatFloat(v, 'f', -1, 64))
	case float32:
		return Normalize(strconv.FormatFloat(float64(v), 'f', -1, 32))
	default:
		return Normalize(fmt.Sprint(v))
	}
}
