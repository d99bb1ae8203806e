package search

import "fmt"

// Kind tags every event a walk emits: the four match kinds plus the
// per-item conditions the walk recovers from and reports inline.
type Kind int

const (
	KindNameMatch Kind = iota
	KindNameFuzzy
	KindContentMatch
	KindContentFuzzy
	KindExcluded
	KindAccessDenied
	KindUnreadable
)

// String returns the stable wire name used by the JSON output.
func (k Kind) String() string {
	switch k {
	case KindNameMatch:
		return "name"
	case KindNameFuzzy:
		return "name-fuzzy"
	case KindContentMatch:
		return "content"
	case KindContentFuzzy:
		return "content-fuzzy"
	case KindExcluded:
		return "excluded"
	case KindAccessDenied:
		return "access-denied"
	case KindUnreadable:
		return "unreadable"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsMatch reports whether the kind announces a match rather than a notice.
func (k Kind) IsMatch() bool {
	switch k {
	case KindNameMatch, KindNameFuzzy, KindContentMatch, KindContentFuzzy:
		return true
	}
	return false
}

// Event is one record in a walk's output stream. Fuzzy kinds carry the
// edit distance, content kinds the line number, notice kinds the error
// that was recovered when there was one. Name and content matches for the
// same file are independent events; nothing deduplicates them.
type Event struct {
	Kind     Kind
	Path     string
	IsDir    bool
	Distance int
	Line     int
	Err      error
}
