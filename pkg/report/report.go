// Package report renders walk events for people and for pipelines. Text
// mode writes match lines to one writer and notices to another so matches
// stay cleanly pipeable; JSON mode emits one self-contained object per
// line on the match writer only.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/ngpepin/finder/pkg/search"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidFormat reports whether name is a known output format.
func ValidFormat(name string) bool {
	return name == FormatText || name == FormatJSON
}

// Printer renders walk events and the closing summary. Write errors are
// sticky: the first one is kept and later calls become no-ops, so callers
// check Err once at the end instead of after every event.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	format string
	err    error
}

// New builds a Printer. out receives matches (and all JSON records); errOut
// receives human-facing notices and the text summary.
func New(out, errOut io.Writer, format string) *Printer {
	return &Printer{out: out, errOut: errOut, format: format}
}

// Event renders one walk event.
func (p *Printer) Event(ev search.Event) {
	if p.format == FormatJSON {
		p.writeJSON(newRecord(ev))
		return
	}
	switch ev.Kind {
	case search.KindNameMatch, search.KindContentMatch, search.KindNameFuzzy, search.KindContentFuzzy:
		p.printf(p.out, "%s%s\n", ev.Path, matchSuffix(ev))
	case search.KindExcluded:
		p.printf(p.errOut, "%s\n", color.YellowString("Excluded: %s", ev.Path))
	case search.KindAccessDenied:
		p.printf(p.errOut, "%s\n", color.YellowString("Access denied: %s", ev.Path))
	case search.KindUnreadable:
		p.printf(p.errOut, "%s\n", color.YellowString("Unreadable: %s", ev.Path))
	}
}

// matchSuffix returns the annotation appended after a matched path. Exact
// name matches have none.
func matchSuffix(ev search.Event) string {
	switch ev.Kind {
	case search.KindNameFuzzy:
		return " " + color.CyanString("(fuzzy match, distance: %d)", ev.Distance)
	case search.KindContentMatch:
		return " " + color.GreenString("(content match)")
	case search.KindContentFuzzy:
		return " " + color.GreenString("(content fuzzy match, distance: %d)", ev.Distance)
	}
	return ""
}

// Summary renders the closing line: humanized counters on errOut in text
// mode, a summary record on out in JSON mode.
func (p *Printer) Summary(stats *search.Stats, elapsed time.Duration) {
	if p.format == FormatJSON {
		p.writeJSON(summaryRecord{
			Summary:   stats.Snapshot(),
			ElapsedMS: elapsed.Milliseconds(),
		})
		return
	}
	p.printf(p.errOut, "%s\n", stats.Summary(elapsed))
}

// Err returns the first write error encountered, if any.
func (p *Printer) Err() error { return p.err }

// record is the JSON schema for one event.
type record struct {
	Kind     string `json:"kind"`
	Path     string `json:"path"`
	Dir      bool   `json:"dir,omitempty"`
	Distance int    `json:"distance,omitempty"`
	Line     int    `json:"line,omitempty"`
	Error    string `json:"error,omitempty"`
}

type summaryRecord struct {
	Summary   search.StatsSnapshot `json:"summary"`
	ElapsedMS int64                `json:"elapsed_ms"`
}

func newRecord(ev search.Event) record {
	rec := record{
		Kind:     ev.Kind.String(),
		Path:     ev.Path,
		Dir:      ev.IsDir,
		Distance: ev.Distance,
		Line:     ev.Line,
	}
	if ev.Err != nil {
		rec.Error = ev.Err.Error()
	}
	return rec
}

func (p *Printer) writeJSON(v any) {
	if p.err != nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		p.err = fmt.Errorf("failed to marshal record: %w", err)
		return
	}
	_, p.err = fmt.Fprintln(p.out, string(data))
}

func (p *Printer) printf(w io.Writer, format string, a ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(w, format, a...)
}
