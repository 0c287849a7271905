// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// gramSize is the character n-gram length used by Similarity.
const gramSize = 3

// Similarity returns the Sørensen–Dice coefficient over character trigrams of
// a and b after case folding, accent stripping, and whitespace removal.
// Identical strings score 1 and strings sharing no trigram score 0.
func Similarity(a, b string) float64 {
	a, b = normalize(a), normalize(b)
	if a == b {
		return 1
	}
	ga, gb := grams(a), grams(b)
	if len(ga) == 0 || len(gb) == 0 {
		return 0
	}

	counts := make(map[string]int, len(ga))
	for _, g := range ga {
		counts[g]++
	}
	shared := 0
	for _, g := range gb {
		if counts[g] > 0 {
			counts[g]--
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(ga)+len(gb))
}

// normalize folds case, strips combining marks, and drops whitespace. A
// Caser is stateful, so one is built per call.
func normalize(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	folded := cases.Fold().String(stripped)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, folded)
}

// grams returns the overlapping n-grams of s, as a multiset.
func grams(s string) []string {
	rs := []rune(s)
	if len(rs) < gramSize {
		return nil
	}
	out := make([]string, 0, len(rs)-gramSize+1)
	for i := 0; i+gramSize <= len(rs); i++ {
		out = append(out, string(rs[i:i+gramSize]))
	}
	return out
}

var priceToken = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ParsePrice extracts the first numeric amount from free-form price text,
// ignoring any currency symbol and thousands separators. "$1,200.50" parses
// as 1200.5; "Free" does not parse.
func ParsePrice(s string) (float64, bool) {
	tok := priceToken.FindString(s)
	if tok == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
