package combo

import (
	"fmt"
	"strings"

	"github.com/dshills/keychord/internal/input/key"
)

// Set is the read side of a pressed-key set.
type Set interface {
	Has(v string) bool
	Len() int
}

// Pattern is a compiled combination pattern.
type Pattern struct {
	raw  string
	alts [][]string
}

// Compile splits a pattern into its alternatives and tokens.
// Compile never fails; see Problems for malformed input.
func Compile(pattern string) Pattern {
	lower := key.Normalize(pattern)
	parts := strings.Split(lower, "|")
	alts := make([][]string, 0, len(parts))
	for _, part := range parts {
		raw := strings.Split(part, "+")
		tokens := make([]string, len(raw))
		for i, tok := range raw {
			tokens[i] = strings.TrimSpace(tok)
		}
		alts = append(alts, tokens)
	}
	return Pattern{raw: pattern, alts: alts}
}

// Match reports whether pattern matches the pressed identifiers and codes.
func Match(pattern string, ids, codes Set) bool {
	return Compile(pattern).Match(ids, codes)
}

// Match reports whether any alternative of p matches the pressed state.
func (p Pattern) Match(ids, codes Set) bool {
	for _, alt := range p.alts {
		if matchAlternative(alt, ids, codes) {
			return true
		}
	}
	return false
}

func matchAlternative(tokens []string, ids, codes Set) bool {
	if len(tokens) != setLen(ids) {
		return false
	}
	for _, tok := range tokens {
		if !setHas(ids, tok) && !setHas(codes, tok) {
			return false
		}
	}
	return true
}

// setLen and setHas treat a nil interface as the empty set.
func setLen(s Set) int {
	if s == nil {
		return 0
	}
	return s.Len()
}

func setHas(s Set, v string) bool {
	if s == nil {
		return false
	}
	return s.Has(v)
}

// String returns the pattern as it was written.
func (p Pattern) String() string {
	return p.raw
}

// Alternatives returns the lower-cased, trimmed tokens of each alternative.
func (p Pattern) Alternatives() [][]string {
	out := make([][]string, len(p.alts))
	for i, alt := range p.alts {
		out[i] = append([]string(nil), alt...)
	}
	return out
}

// Problems lists reasons an alternative can never match.
// Dispatch does not consult it.
func (p Pattern) Problems() []string {
	var problems []string
	for i, alt := range p.alts {
		seen := make(map[string]bool, len(alt))
		for _, tok := range alt {
			if tok == "" {
				if len(alt) == 1 {
					problems = append(problems, formatProblem(i, "empty alternative"))
				} else {
					problems = append(problems, formatProblem(i, "empty token"))
				}
				continue
			}
			if seen[tok] {
				problems = append(problems, formatProblem(i, fmt.Sprintf("duplicate token %q", tok)))
			}
			seen[tok] = true
		}
	}
	return problems
}

func formatProblem(alt int, msg string) string {
	return fmt.Sprintf("alternative %d: %s", alt+1, msg)
}
