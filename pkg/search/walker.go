package search

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Walker drives one search: it owns the compiled matcher, the exclusion
// policy, the content scanner, and the stats for a single Spec. A Walker
// may be reused for repeated walks of the same spec; repeated walks of an
// unchanged tree produce the same results.
type Walker struct {
	spec    Spec
	policy  *Policy
	matcher *Matcher
	scanner *ContentScanner
	stats   *Stats
	logger  *zap.Logger
}

// NewWalker wires a Walker from a spec and an exclusion policy. The pattern
// is compiled here, so the only possible failure is a malformed expression
// in regex syntax. A nil policy means nothing is excluded.
func NewWalker(spec Spec, policy *Policy, logger *zap.Logger) (*Walker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy == nil {
		policy = NewPolicy(nil, nil)
	}
	spec.Root = Canonical(spec.Root)
	if spec.Workers < 1 {
		spec.Workers = 1
	}
	if spec.FuzzyThreshold < 0 {
		spec.FuzzyThreshold = 0
	}
	m, err := Compile(spec.Pattern, spec.Syntax, spec.FuzzyThreshold)
	if err != nil {
		return nil, err
	}
	stats := &Stats{}
	return &Walker{
		spec:    spec,
		policy:  policy,
		matcher: m,
		scanner: NewContentScanner(spec.ContentExtensions, stats),
		stats:   stats,
		logger:  logger,
	}, nil
}

// Stats exposes the counters accumulated by this Walker's walks. The
// counters are live: reading them mid-walk is safe and approximate.
func (w *Walker) Stats() *Stats { return w.stats }

// Spec returns the spec the Walker was built from, after normalization.
func (w *Walker) Spec() Spec { return w.spec }

// Walk traverses the spec's root and streams every match and notice through
// emit. With one worker the stream is strict depth-first pre-order: a
// directory's own entries are reported before anything under its
// subdirectories, siblings in listing order. With more workers the order is
// best-effort but the set of events is the same. emit is never called
// concurrently.
//
// Per-item failures never abort the walk: unlistable directories and
// unreadable files become notice events and traversal moves on. The only
// error Walk returns is the context's, when the walk is cancelled.
func (w *Walker) Walk(ctx context.Context, emit func(Event)) error {
	if w.spec.Workers > 1 {
		return w.walkParallel(ctx, emit)
	}
	return w.walkSequential(ctx, emit)
}

// walkSequential runs the traversal on an explicit stack instead of the
// call stack, so directory depth is bounded only by memory. Subdirectories
// are pushed in reverse so the leftmost one is processed first, preserving
// pre-order.
func (w *Walker) walkSequential(ctx context.Context, emit func(Event)) error {
	visited := map[string]bool{dirIdentity(w.spec.Root): true}
	pending := []string{w.spec.Root}
	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		subdirs := w.processDir(ctx, dir, emit)
		for i := len(subdirs) - 1; i >= 0; i-- {
			id := dirIdentity(subdirs[i])
			if visited[id] {
				w.logger.Debug("skipping already-visited directory",
					zap.String("dir", subdirs[i]), zap.String("identity", id))
				continue
			}
			visited[id] = true
			pending = append(pending, subdirs[i])
		}
	}
	return ctx.Err()
}

// walkParallel fans the directory frontier out to at most Workers
// concurrently-processed directories. Exclusion decisions are pure
// functions of the path, so scheduling order cannot change what gets
// pruned; only emission order varies. Emission and the visited set are
// each serialized under their own mutex.
func (w *Walker) walkParallel(ctx context.Context, emit func(Event)) error {
	var (
		emitMu  sync.Mutex
		visitMu sync.Mutex
		wg      sync.WaitGroup
	)
	visited := map[string]bool{dirIdentity(w.spec.Root): true}
	sem := make(chan struct{}, w.spec.Workers)
	serialized := func(ev Event) {
		emitMu.Lock()
		defer emitMu.Unlock()
		emit(ev)
	}

	var walk func(dir string)
	walk = func(dir string) {
		defer wg.Done()
		sem <- struct{}{}
		subdirs := w.processDir(ctx, dir, serialized)
		<-sem
		for _, sub := range subdirs {
			if ctx.Err() != nil {
				return
			}
			id := dirIdentity(sub)
			visitMu.Lock()
			seen := visited[id]
			if !seen {
				visited[id] = true
			}
			visitMu.Unlock()
			if seen {
				w.logger.Debug("skipping already-visited directory",
					zap.String("dir", sub), zap.String("identity", id))
				continue
			}
			wg.Add(1)
			go walk(sub)
		}
	}
	wg.Add(1)
	go walk(w.spec.Root)
	wg.Wait()
	return ctx.Err()
}

// processDir handles a single directory: the exclusion check, the listing,
// name matching, and content scanning. It returns the subdirectories to
// descend into; the caller owns the visited set and the descent itself.
func (w *Walker) processDir(ctx context.Context, dir string, emit func(Event)) []string {
	if w.policy.Excluded(dir, w.spec.Root) {
		w.stats.Excluded.Add(1)
		w.logger.Debug("excluded directory", zap.String("dir", dir))
		emit(Event{Kind: KindExcluded, Path: dir, IsDir: true})
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.stats.Denied.Add(1)
		w.logger.Debug("cannot list directory", zap.String("dir", dir), zap.Error(err))
		emit(Event{Kind: KindAccessDenied, Path: dir, IsDir: true, Err: err})
		return nil
	}
	w.stats.Dirs.Add(1)
	w.logger.Debug("walking directory", zap.String("dir", dir), zap.Int("entries", len(entries)))

	// Partition once so a directory's files are reported before any
	// descent. Symlinks resolving to directories count as directories
	// here; the caller's visited set keeps link cycles from walking
	// forever.
	var files, dirs []fs.DirEntry
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry)
			continue
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(dir, entry.Name())); err == nil && info.IsDir() {
				dirs = append(dirs, entry)
				continue
			}
		}
		files = append(files, entry)
	}

	for _, entry := range files {
		if ctx.Err() != nil {
			return nil
		}
		w.stats.Entries.Add(1)
		path := filepath.Join(dir, entry.Name())
		w.matchName(entry.Name(), path, false, emit)
		// Content search opens regular files only. Symlinked files get
		// their names matched but are never followed into.
		if w.spec.SearchContent && entry.Type().IsRegular() && w.scanner.Eligible(path) {
			w.scanContent(path, emit)
		}
	}

	subdirs := make([]string, 0, len(dirs))
	for _, entry := range dirs {
		if ctx.Err() != nil {
			return subdirs
		}
		w.stats.Entries.Add(1)
		path := filepath.Join(dir, entry.Name())
		if w.spec.MatchDirs {
			w.matchName(entry.Name(), path, true, emit)
		}
		subdirs = append(subdirs, path)
	}
	return subdirs
}

// matchName evaluates one entry name against the pattern and emits on
// success. Exact and fuzzy matching are mutually exclusive modes.
func (w *Walker) matchName(name, path string, isDir bool, emit func(Event)) {
	if w.spec.Fuzzy {
		if d, ok := w.matcher.FuzzyDistance(name); ok {
			w.stats.Matches.Add(1)
			emit(Event{Kind: KindNameFuzzy, Path: path, IsDir: isDir, Distance: d})
		}
		return
	}
	if w.matcher.Match(name) {
		w.stats.Matches.Add(1)
		emit(Event{Kind: KindNameMatch, Path: path, IsDir: isDir})
	}
}

// scanContent runs the content scanner over one eligible file and emits
// either a content match or an unreadable notice.
func (w *Walker) scanContent(path string, emit func(Event)) {
	hit, ok, err := w.scanner.Scan(path, w.matcher, w.spec.Fuzzy)
	if err != nil {
		w.stats.Unreadable.Add(1)
		w.logger.Debug("content scan failed", zap.String("file", path), zap.Error(err))
		emit(Event{Kind: KindUnreadable, Path: path, Err: err})
		return
	}
	if !ok {
		return
	}
	w.stats.Matches.Add(1)
	if w.spec.Fuzzy {
		emit(Event{Kind: KindContentFuzzy, Path: path, Distance: hit.Distance, Line: hit.Line})
		return
	}
	emit(Event{Kind: KindContentMatch, Path: path, Line: hit.Line})
}

// dirIdentity returns the canonical identity used for cycle detection: the
// symlink-resolved path when resolvable, the canonical path otherwise.
func dirIdentity(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return filepath.ToSlash(resolved)
	}
	return Canonical(path)
}
