package search

import (
	"path/filepath"
	"strings"
)

// Policy is the set of path prefixes pruned from traversal together with
// the exception prefixes that override them. Policies are plain data passed
// in by the caller; the package keeps no hidden tables.
type Policy struct {
	excluded   []string
	exceptions []string
}

// NewPolicy builds a Policy from excluded and exception path prefixes.
// Entries are canonicalized up front so later prefix tests compare like
// with like. Blank entries are dropped.
func NewPolicy(excluded, exceptions []string) *Policy {
	return &Policy{
		excluded:   canonicalizeAll(excluded),
		exceptions: canonicalizeAll(exceptions),
	}
}

// DefaultPolicy returns the stock exclusion tables: virtual filesystems,
// scratch space, and mount roots that are rarely useful search targets.
// The data mounts stay reachable as carve-outs, and a search rooted inside
// any excluded tree overrides the table, so the defaults never lock a user
// out of a target they named explicitly.
func DefaultPolicy() *Policy {
	return NewPolicy(
		[]string{"/proc", "/sys", "/dev", "/run", "/tmp", "/var/cache", "/mnt", "/media"},
		[]string{"/mnt/data", "/media/data"},
	)
}

// Excluded reports whether dir should be pruned from a search rooted at
// root. An excluded prefix applies unless the root itself lies inside it:
// explicitly rooting a search in an excluded tree lifts that tree's
// exclusion for the whole search, while every other excluded tree keeps
// getting pruned. A dir covered by a surviving excluded prefix is still
// kept when an exception prefix covers it.
//
// Prefix tests are plain string comparisons on canonical paths. That keeps
// the decision cheap and order-independent, at the cost of not seeing
// through symlinked aliases of an excluded tree.
func (p *Policy) Excluded(dir, root string) bool {
	d := Canonical(dir)
	r := Canonical(root)
	hit := false
	for _, prefix := range p.excluded {
		if !strings.HasPrefix(d, prefix) {
			continue
		}
		if strings.HasPrefix(r, prefix) {
			// The search was deliberately rooted inside this tree.
			continue
		}
		hit = true
		break
	}
	if !hit {
		return false
	}
	for _, prefix := range p.exceptions {
		if strings.HasPrefix(d, prefix) {
			return false
		}
	}
	return true
}

// Canonical returns path in the form the engine compares everywhere:
// absolute when the working directory is resolvable, cleaned, and
// slash-separated.
func Canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.ToSlash(filepath.Clean(path))
}

func canonicalizeAll(prefixes []string) []string {
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, Canonical(p))
	}
	return out
}
