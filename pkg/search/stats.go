package search

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

// Stats counts what a walk touched. Counters are atomic so the parallel
// walker shares one instance without locking.
type Stats struct {
	Dirs       atomic.Int64
	Entries    atomic.Int64
	Matches    atomic.Int64
	Excluded   atomic.Int64
	Denied     atomic.Int64
	Unreadable atomic.Int64
	Bytes      atomic.Int64
}

// StatsSnapshot is the plain-value copy of Stats used for JSON output.
type StatsSnapshot struct {
	Dirs       int64 `json:"dirs"`
	Entries    int64 `json:"entries"`
	Matches    int64 `json:"matches"`
	Excluded   int64 `json:"excluded"`
	Denied     int64 `json:"denied"`
	Unreadable int64 `json:"unreadable"`
	Bytes      int64 `json:"bytes_scanned"`
}

// Snapshot copies the counters at a point in time.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Dirs:       s.Dirs.Load(),
		Entries:    s.Entries.Load(),
		Matches:    s.Matches.Load(),
		Excluded:   s.Excluded.Load(),
		Denied:     s.Denied.Load(),
		Unreadable: s.Unreadable.Load(),
		Bytes:      s.Bytes.Load(),
	}
}

// Summary renders the one-line human report printed after a walk. Counts of
// zero for the trouble categories are left out.
func (s *Stats) Summary(elapsed time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s matches in %s entries across %s directories in %s",
		humanize.Comma(s.Matches.Load()),
		humanize.Comma(s.Entries.Load()),
		humanize.Comma(s.Dirs.Load()),
		elapsed.Round(time.Millisecond))
	if n := s.Bytes.Load(); n > 0 {
		fmt.Fprintf(&b, ", %s of content scanned", humanize.Bytes(uint64(n)))
	}
	if n := s.Excluded.Load(); n > 0 {
		fmt.Fprintf(&b, ", %d subtrees excluded", n)
	}
	if n := s.Denied.Load(); n > 0 {
		fmt.Fprintf(&b, ", %d access denied", n)
	}
	if n := s.Unreadable.Load(); n > 0 {
		fmt.Fprintf(&b, ", %d unreadable", n)
	}
	return b.String()
}
