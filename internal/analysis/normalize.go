// Package analysis is the performance-aggregation and answer-normalization
// engine: it reconciles loosely formatted, AI-produced question data and
// user-entered answers into strict accounting. Everything here is pure; the
// caller passes the already-filtered attempt collection explicitly.
package analysis

import (
	"strings"
	"unicode"
)

// NormalizeAnswer canonicalizes an answer token for equality comparison:
// "a)", "A.", " a " all normalize to "A". Dots, closing parens and all
// whitespace are stripped and the remainder is uppercased. A token that
// normalizes to empty is not evaluable and must never be graded against
// another empty token.
func NormalizeAnswer(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	for _, r := range token {
		if r == '.' || r == ')' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
