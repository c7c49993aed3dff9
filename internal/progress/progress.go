// Package progress renders a scan progress bar for long streaming reads.
package progress

import (
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Tracker receives row-count updates during a table scan.
type Tracker interface {
	Add(n int64)
	Done()
}

// Manager creates trackers backed by a shared mpb container.
type Manager struct {
	container *mpb.Progress
}

// NewManager creates an mpb-backed progress manager.
func NewManager() *Manager {
	return &Manager{container: mpb.New(mpb.WithWidth(60))}
}

// NewTracker adds a bar for scanning `name` with a known row total.
func (m *Manager) NewTracker(name string, total int64) Tracker {
	bar := m.container.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(name+" ", decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d / %d rows"),
		),
		mpb.AppendDecorators(decor.Percentage()),
		mpb.BarRemoveOnComplete(),
	)
	return &barTracker{bar: bar, total: total}
}

// Wait blocks until all bars have completed rendering.
func (m *Manager) Wait() {
	m.container.Wait()
}

type barTracker struct {
	bar   *mpb.Bar
	total int64
}

func (t *barTracker) Add(n int64) { t.bar.IncrInt64(n) }

func (t *barTracker) Done() {
	t.bar.SetCurrent(t.total)
}

// NopManager has the same factory shape as Manager but discards updates,
// for json log mode and tests.
type NopManager struct{}

// NewTracker returns a tracker that discards updates.
func (NopManager) NewTracker(string, int64) Tracker { return Nop() }

// Wait is a no-op.
func (NopManager) Wait() {}

// Nop returns a tracker that discards updates.
func Nop() Tracker { return nopTracker{} }

type nopTracker struct{}

func (nopTracker) Add(int64) {}
func (nopTracker) Done()     {}
