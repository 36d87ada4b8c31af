package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystatus/internal/app/services"
)

// refreshTimer is the repeating status timer. Ticks carry the generation
// they were scheduled under so a pause or reset drops ticks already queued.
type refreshTimer struct {
	interval   time.Duration
	generation int
	paused     bool
}

func newRefreshTimer(interval time.Duration) refreshTimer {
	if interval > 0 && interval < time.Second {
		interval = time.Second
	}
	return refreshTimer{interval: interval}
}

func (t *refreshTimer) enabled() bool {
	return t.interval > 0
}

func (t *refreshTimer) schedule() tea.Cmd {
	if t.paused || !t.enabled() {
		return nil
	}
	gen := t.generation
	return tea.Tick(t.interval, func(time.Time) tea.Msg {
		return refreshTickMsg{gen: gen}
	})
}

func (t *refreshTimer) current(msg refreshTickMsg) bool {
	return msg.gen == t.generation
}

// togglePause flips the paused state and returns the next tick, if any.
func (t *refreshTimer) togglePause() tea.Cmd {
	t.paused = !t.paused
	t.generation++
	return t.schedule()
}

func (m *Model) collect() tea.Cmd {
	if m.loading || m.service == nil {
		return nil
	}
	m.loading = true
	ctx := m.ctx
	svc := m.service
	return func() tea.Msg {
		snap, err := svc.Collect(ctx)
		return statusMsg{snap: snap, err: err}
	}
}

func (m *Model) startWatcher() tea.Cmd {
	if m.watch != nil && m.watch.Started {
		return nil
	}
	if m.service == nil {
		return nil
	}
	resolver, ok := m.service.Source().(services.WatchPathsResolver)
	if !ok {
		return nil
	}
	if m.watch == nil {
		m.watch = services.NewWatchService(resolver, m.debugf)
	}
	started, err := m.watch.Start(m.ctx, m.config)
	if err != nil {
		return func() tea.Msg {
			return errMsg{err: err}
		}
	}
	if !started {
		return nil
	}
	return m.waitForWatchEvent()
}

func (m *Model) stopWatcher() {
	if m.watch == nil || !m.watch.Started {
		return
	}
	m.watch.Stop()
}

func (m *Model) waitForWatchEvent() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	events := m.watch.NextEvent()
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		_, ok := <-events
		if !ok {
			return nil
		}
		return fsChangedMsg{}
	}
}

func (m *Model) shouldRefreshWatchEvent(now time.Time) bool {
	if m.watch == nil {
		return false
	}
	return m.watch.ShouldRefresh(now)
}
