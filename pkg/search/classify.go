package search

import (
	"path/filepath"
	"strings"
)

// textExtensions is the stock set of extensions recognized as scannable
// text. Content search never opens anything outside the recognized set, so
// binary formats are skipped by name before a single byte is read.
var textExtensions = map[string]bool{
	// plain text
	".txt": true, ".text": true, ".log": true, ".csv": true,
	// markup
	".md": true, ".xml": true, ".html": true, ".htm": true, ".css": true,
	// data and config
	".json": true, ".yaml": true, ".yml": true, ".toml": true, ".ini": true,
	".cfg": true, ".conf": true, ".properties": true, ".env": true,
	// source
	".go": true, ".py": true, ".js": true, ".ts": true, ".java": true,
	".c": true, ".h": true, ".cpp": true, ".hpp": true, ".cs": true,
	".rb": true, ".rs": true, ".sh": true, ".bat": true, ".ps1": true,
	".sql": true,
}

// ContentScanner decides which files are worth opening and scans their
// lines for a pattern. The recognized extension set can only grow: callers
// add extensions, they never remove stock ones.
type ContentScanner struct {
	eligible map[string]bool
	stats    *Stats
}

// NewContentScanner builds a scanner recognizing the stock text extensions
// plus extra. Extra entries are normalized to lower-case dotted form, so
// "Tex" and ".tex" configure the same thing. stats may be nil; when set,
// scanned byte counts are accumulated there.
func NewContentScanner(extra []string, stats *Stats) *ContentScanner {
	m := make(map[string]bool, len(textExtensions)+len(extra))
	for ext := range textExtensions {
		m[ext] = true
	}
	for _, ext := range extra {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		m[ext] = true
	}
	return &ContentScanner{eligible: m, stats: stats}
}

// Eligible reports whether path's extension marks it as scannable text.
// Extensionless files are never eligible.
func (c *ContentScanner) Eligible(path string) bool {
	return c.eligible[strings.ToLower(filepath.Ext(path))]
}
