// Package app implements the Bubble Tea model that shows repository status.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazystatus/internal/app/services"
	"github.com/chmouel/lazystatus/internal/config"
	"github.com/chmouel/lazystatus/internal/git"
	log "github.com/chmouel/lazystatus/internal/log"
	"github.com/chmouel/lazystatus/internal/theme"
)

// Model is the status viewer. The current snapshot and the refresh timer
// live here; nothing is kept in package state.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	config  *config.AppConfig
	theme   *theme.Theme
	service *git.Service
	watch   *services.WatchService
	tree    *services.TreeService

	keys     keyMap
	help     help.Model
	viewport viewport.Model

	snapshot *git.Snapshot
	lastErr  error
	loading  bool
	timer    refreshTimer

	treeView bool
	cursor   int
	width    int
	height   int
	ready    bool
	quitting bool
	now      func() time.Time
}

// NewModel builds the model. A nil config or theme falls back to defaults.
func NewModel(cfg *config.AppConfig, thm *theme.Theme, svc *git.Service) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if thm == nil {
		thm = theme.GetTheme(cfg.Theme)
	}
	ctx, cancel := context.WithCancel(context.Background())

	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(thm.Accent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(thm.MutedFg)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(thm.Border)
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc
	h.Styles.FullSeparator = h.Styles.ShortSeparator

	return &Model{
		ctx:      ctx,
		cancel:   cancel,
		config:   cfg,
		theme:    thm,
		service:  svc,
		tree:     services.NewTreeService(),
		keys:     defaultKeyMap(),
		help:     h,
		viewport: viewport.New(80, 20),
		timer:    newRefreshTimer(cfg.RefreshDuration()),
		now:      time.Now,
	}
}

// Init loads the first snapshot and arms the timer and watcher.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.collect(), m.timer.schedule(), m.startWatcher())
}

// Close releases the watcher and cancels in-flight collections.
func (m *Model) Close() {
	m.stopWatcher()
	if m.cancel != nil {
		m.cancel()
	}
}

// Snapshot returns the last successfully collected status.
func (m *Model) Snapshot() *git.Snapshot {
	return m.snapshot
}

// Err returns the error from the last collection, if it failed.
func (m *Model) Err() error {
	return m.lastErr
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case statusMsg:
		m.loading = false
		if msg.err != nil {
			m.lastErr = msg.err
			m.debugf("status collection failed: %v", msg.err)
		} else {
			m.lastErr = nil
			m.snapshot = msg.snap
			m.tree.SetChanges(msg.snap.Changes)
			m.clampCursor()
		}
		m.layout()
		return m, nil

	case refreshTickMsg:
		if !m.timer.current(msg) {
			return m, nil
		}
		return m, tea.Batch(m.collect(), m.timer.schedule())

	case fsChangedMsg:
		if m.watch != nil {
			m.watch.ResetWaiting()
		}
		var cmds []tea.Cmd
		if m.shouldRefreshWatchEvent(m.now()) {
			cmds = append(cmds, m.collect())
		}
		cmds = append(cmds, m.waitForWatchEvent())
		return m, tea.Batch(cmds...)

	case errMsg:
		m.lastErr = msg.err
		m.layout()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		return m, m.collect()
	case key.Matches(msg, m.keys.Pause):
		cmd := m.timer.togglePause()
		m.layout()
		return m, cmd
	case key.Matches(msg, m.keys.Tree):
		m.treeView = !m.treeView
		m.cursor = 0
		m.layout()
	case key.Matches(msg, m.keys.Toggle):
		if m.treeView && m.cursor < len(m.tree.TreeFlat) {
			node := m.tree.TreeFlat[m.cursor]
			if node.IsDir() {
				m.tree.ToggleCollapse(node.Path)
				m.clampCursor()
				m.layout()
			}
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-max(1, m.viewport.Height))
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(max(1, m.viewport.Height))
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-m.rowCount())
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(m.rowCount())
	}
	return m, nil
}

func (m *Model) rowCount() int {
	if m.treeView {
		return len(m.tree.TreeFlat)
	}
	if m.snapshot == nil {
		return 0
	}
	return len(m.snapshot.Changes)
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
	m.refreshContent()
}

func (m *Model) clampCursor() {
	n := m.rowCount()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) debugf(format string, args ...any) {
	log.Printf(format, args...)
}
