package search

import (
	"fmt"
	"regexp"
	"strings"
)

// Syntax selects how a pattern string is interpreted.
type Syntax int

const (
	// SyntaxWildcard treats the pattern as a shell-style wildcard: `*`
	// matches any run of characters, `?` matches exactly one, and every
	// other character matches itself, including regexp metacharacters.
	SyntaxWildcard Syntax = iota

	// SyntaxRegex hands the pattern to regexp unmodified. The expression
	// is still anchored to the whole name.
	SyntaxRegex
)

// Matcher is a compiled name predicate plus the fuzzy inputs derived from
// the same pattern string. Matching is case-insensitive and anchored at
// both ends: the entire name has to satisfy the pattern, not a substring.
// A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	re        *regexp.Regexp
	folded    string // lower-cased pattern for fuzzy comparison
	threshold int
}

// Compile builds a Matcher for pattern under the given syntax. Wildcard
// compilation accepts any input; regex compilation reports malformed
// expressions. threshold bounds the edit distance accepted by FuzzyDistance.
func Compile(pattern string, syntax Syntax, threshold int) (*Matcher, error) {
	m := &Matcher{
		folded:    strings.ToLower(pattern),
		threshold: threshold,
	}
	switch syntax {
	case SyntaxRegex:
		re, err := regexp.Compile(anchor(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		m.re = re
	default:
		m.re = compileWildcard(pattern)
	}
	return m, nil
}

// compileWildcard converts a wildcard expression into an anchored,
// case-insensitive regular expression. Escaping happens before the
// substitution so metacharacters in the pattern stay literal.
func compileWildcard(pattern string) *regexp.Regexp {
	expr := regexp.QuoteMeta(pattern)
	expr = strings.ReplaceAll(expr, `\*`, `.*`)
	expr = strings.ReplaceAll(expr, `\?`, `.`)
	return regexp.MustCompile(anchor(expr))
}

// anchor wraps expr so it must cover the whole subject, case-insensitively.
// The non-capturing group keeps alternations in expr from escaping the
// anchors.
func anchor(expr string) string {
	return `(?i)^(?:` + expr + `)$`
}

// Match reports whether the whole subject satisfies the compiled pattern.
// The same predicate serves file names, directory names, and content lines.
func (m *Matcher) Match(subject string) bool {
	return m.re.MatchString(subject)
}

// FuzzyDistance returns the case-folded edit distance between subject and
// the original pattern text, and whether it falls within the threshold.
func (m *Matcher) FuzzyDistance(subject string) (int, bool) {
	d := Distance(strings.ToLower(subject), m.folded)
	return d, d <= m.threshold
}
