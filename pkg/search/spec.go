package search

// DefaultFuzzyThreshold is the edit distance bound used when fuzzy matching
// is enabled without explicit tuning: generous enough that a bare name still
// matches its dotted-extension sibling.
const DefaultFuzzyThreshold = 4

// Spec is the immutable description of one search: where to start, what to
// match, and how. Callers build it once before the walk and only read it
// afterwards; nothing mutates a Spec mid-traversal.
type Spec struct {
	// Root is the start directory. It is canonicalized by NewWalker.
	Root string

	// Pattern is the raw pattern string, interpreted per Syntax for exact
	// matching and compared literally (case-folded) for fuzzy matching.
	Pattern string
	Syntax  Syntax

	// Fuzzy switches name and content matching from the compiled pattern
	// to edit distance. The two modes are mutually exclusive.
	Fuzzy          bool
	FuzzyThreshold int

	// SearchContent additionally scans the lines of text-eligible files.
	SearchContent bool

	// ContentExtensions widens the recognized text extension set.
	ContentExtensions []string

	// MatchDirs evaluates directory names against the pattern too.
	MatchDirs bool

	// Workers sets traversal parallelism. 1 walks in strict depth-first
	// pre-order; higher values trade ordering for throughput.
	Workers int
}
