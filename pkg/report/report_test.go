package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngpepin/finder/pkg/search"
)

func init() {
	// Keep expected output byte-comparable.
	color.NoColor = true
}

func TestTextEvents(t *testing.T) {
	var out, errOut bytes.Buffer
	p := New(&out, &errOut, FormatText)

	p.Event(search.Event{Kind: search.KindNameMatch, Path: "/a/b.txt"})
	p.Event(search.Event{Kind: search.KindNameFuzzy, Path: "/a/readme.md", Distance: 3})
	p.Event(search.Event{Kind: search.KindContentMatch, Path: "/a/notes.txt", Line: 7})
	p.Event(search.Event{Kind: search.KindContentFuzzy, Path: "/a/close.txt", Distance: 2, Line: 1})
	p.Event(search.Event{Kind: search.KindExcluded, Path: "/mnt", IsDir: true})
	p.Event(search.Event{Kind: search.KindAccessDenied, Path: "/a/locked", IsDir: true, Err: errors.New("permission denied")})
	p.Event(search.Event{Kind: search.KindUnreadable, Path: "/a/fake.txt", Err: errors.New("binary content")})
	require.NoError(t, p.Err())

	wantOut := strings.Join([]string{
		"/a/b.txt",
		"/a/readme.md (fuzzy match, distance: 3)",
		"/a/notes.txt (content match)",
		"/a/close.txt (content fuzzy match, distance: 2)",
	}, "\n") + "\n"
	assert.Equal(t, wantOut, out.String())

	wantErr := strings.Join([]string{
		"Excluded: /mnt",
		"Access denied: /a/locked",
		"Unreadable: /a/fake.txt",
	}, "\n") + "\n"
	assert.Equal(t, wantErr, errOut.String())
}

func TestTextSummaryGoesToErrOut(t *testing.T) {
	var out, errOut bytes.Buffer
	p := New(&out, &errOut, FormatText)

	stats := &search.Stats{}
	stats.Matches.Add(2)
	stats.Entries.Add(10)
	stats.Dirs.Add(3)
	p.Summary(stats, 1500*time.Millisecond)
	require.NoError(t, p.Err())

	assert.Empty(t, out.String(), "the summary must not pollute the match stream")
	assert.Contains(t, errOut.String(), "2 matches in 10 entries across 3 directories in 1.5s")
}

func TestJSONEvents(t *testing.T) {
	var out, errOut bytes.Buffer
	p := New(&out, &errOut, FormatJSON)

	p.Event(search.Event{Kind: search.KindNameFuzzy, Path: "/a/readme.md", Distance: 3})
	p.Event(search.Event{Kind: search.KindContentMatch, Path: "/a/notes.txt", Line: 7})
	p.Event(search.Event{Kind: search.KindAccessDenied, Path: "/locked", IsDir: true, Err: errors.New("permission denied")})
	require.NoError(t, p.Err())

	assert.Empty(t, errOut.String(), "JSON mode writes records to out only")
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "name-fuzzy", rec["kind"])
	assert.Equal(t, "/a/readme.md", rec["path"])
	assert.Equal(t, float64(3), rec["distance"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, "content", rec["kind"])
	assert.Equal(t, float64(7), rec["line"])

	require.NoError(t, json.Unmarshal([]byte(lines[2]), &rec))
	assert.Equal(t, "access-denied", rec["kind"])
	assert.Equal(t, true, rec["dir"])
	assert.Equal(t, "permission denied", rec["error"])
}

func TestJSONSummary(t *testing.T) {
	var out, errOut bytes.Buffer
	p := New(&out, &errOut, FormatJSON)

	stats := &search.Stats{}
	stats.Matches.Add(5)
	p.Summary(stats, 250*time.Millisecond)
	require.NoError(t, p.Err())

	var rec struct {
		Summary   search.StatsSnapshot `json:"summary"`
		ElapsedMS int64                `json:"elapsed_ms"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.Equal(t, int64(5), rec.Summary.Matches)
	assert.Equal(t, int64(250), rec.ElapsedMS)
}

func TestStickyWriteError(t *testing.T) {
	p := New(failWriter{}, failWriter{}, FormatText)
	p.Event(search.Event{Kind: search.KindNameMatch, Path: "/a"})
	first := p.Err()
	require.Error(t, first)
	p.Event(search.Event{Kind: search.KindNameMatch, Path: "/b"})
	assert.Same(t, first, p.Err(), "later events must not replace the first error")
}

func TestValidFormat(t *testing.T) {
	assert.True(t, ValidFormat(FormatText))
	assert.True(t, ValidFormat(FormatJSON))
	assert.False(t, ValidFormat("yaml"))
	assert.False(t, ValidFormat(""))
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }
