package cmd

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/ngpepin/finder/pkg/search"
)

// searchProgress renders a live spinner with the number of entries examined
// so far. Totals are unknowable up front, so it polls the walker's counters
// instead of hooking the traversal hot path.
type searchProgress struct {
	p       *mpb.Progress
	bar     *mpb.Bar
	stats   *search.Stats
	done    chan struct{}
	stopped atomic.Bool
}

func startProgress(ctx context.Context, stats *search.Stats) *searchProgress {
	p := mpb.NewWithContext(ctx, mpb.WithOutput(os.Stderr))
	bar := p.New(-1,
		mpb.SpinnerStyle(),
		mpb.PrependDecorators(decor.Name("Searching ")),
		mpb.AppendDecorators(decor.CurrentNoUnit("%d entries")),
		mpb.BarRemoveOnComplete(),
	)
	sp := &searchProgress{p: p, bar: bar, stats: stats, done: make(chan struct{})}
	go sp.poll()
	return sp
}

func (sp *searchProgress) poll() {
	ticker := time.NewTicker(120 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-sp.done:
			return
		case <-ticker.C:
			sp.bar.SetCurrent(sp.stats.Entries.Load())
		}
	}
}

// Write forwards through the renderer so foreign lines print above the live
// spinner instead of tearing it. Once the renderer has shut down it writes
// straight to stderr.
func (sp *searchProgress) Write(b []byte) (int, error) {
	if sp.stopped.Load() {
		return os.Stderr.Write(b)
	}
	return sp.p.Write(b)
}

// Stop completes and removes the spinner and blocks until rendering has
// shut down.
func (sp *searchProgress) Stop() {
	close(sp.done)
	sp.bar.SetTotal(sp.stats.Entries.Load(), true)
	sp.p.Wait()
	sp.stopped.Store(true)
}
