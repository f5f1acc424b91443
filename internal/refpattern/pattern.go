// Package refpattern resolves branch-name glob patterns against the set of
// known branches. Only `*` is interpreted (it matches any substring,
// including separators); every other character is literal.
package refpattern

import (
	"strings"
)

// Pattern is a compiled branch-name pattern. It is represented as the
// literal runs between wildcards rather than a compiled regular
// expression, so the matching semantics stay independent of any regex
// dialect.
type Pattern struct {
	raw   string
	parts []string // literal runs; a wildcard sits between consecutive runs
}

// Compile parses a pattern string into its literal/wildcard segments
func Compile(raw string) Pattern {
	return Pattern{
		raw:   raw,
		parts: strings.Split(raw, "*"),
	}
}

// String returns the original pattern text
func (p Pattern) String() string {
	return p.raw
}

// IsLiteral reports whether the pattern contains no wildcard and thus
// names exactly one branch.
func (p Pattern) IsLiteral() bool {
	return len(p.parts) == 1
}

// Match reports whether name matches the pattern. Matching is
// case-sensitive and anchored at both ends.
func (p Pattern) Match(name string) bool {
	// No wildcard: exact match only
	if len(p.parts) == 1 {
		return name == p.raw
	}

	first := p.parts[0]
	if !strings.HasPrefix(name, first) {
		return false
	}
	rest := name[len(first):]

	// Greedy leftmost placement of each middle literal run
	for _, mid := range p.parts[1 : len(p.parts)-1] {
		idx := strings.Index(rest, mid)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(mid):]
	}

	return strings.HasSuffix(rest, p.parts[len(p.parts)-1])
}
