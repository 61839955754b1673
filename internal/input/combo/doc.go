// Package combo evaluates combination patterns against the set of keys
// currently held down.
//
// # Pattern Grammar
//
//	pattern     = alternative { "|" alternative }
//	alternative = token { "+" token }
//
// Tokens are compared case-insensitively and may name either a logical key
// identifier ("control", "a") or a physical code ("keya", "controlleft").
// Whitespace around tokens and separators is ignored, so "Control + A" and
// "control+a" are the same pattern.
//
// # Exact Cardinality
//
// An alternative matches only when its token count equals the number of
// keys currently held (counted by identifier) and every token is held. This
// is deliberately not a subset test: holding an unrelated extra key defeats
// the match.
//
//	combo.Match("control+a", ids("control", "a"), nil)          // true
//	combo.Match("control+a", ids("control", "a", "shift"), nil) // false
//
// Malformed patterns are not rejected; they simply never match. Problems
// reports them for tooling.
package combo
