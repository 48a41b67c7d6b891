// Package transform normalizes raw spreadsheet values: community names, case
// counts, and month column headers.
package transform

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeCommunity returns the join key for a community name: NFC-normalized,
// Unicode case-folded, trimmed, with internal whitespace runs collapsed to a
// single space. Punctuation is significant.
func NormalizeCommunity(name string) string {
	name = norm.NFC.String(name)
	name = cases.Fold().String(name)
	return strings.Join(strings.Fields(name), " ")
}

// SameCommunity reports whether two community names share a join key.
func SameCommunity(a, b string) bool {
	return NormalizeCommunity(a) == NormalizeCommunity(b)
}
