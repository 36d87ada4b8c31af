package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazystatus/internal/config"
	"github.com/chmouel/lazystatus/internal/git"
	"github.com/chmouel/lazystatus/internal/status"
	"github.com/chmouel/lazystatus/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.AppConfig {
	cfg := config.DefaultConfig()
	cfg.Source = config.SourceSample
	cfg.RefreshInterval = 0
	cfg.ShowIcons = false
	return cfg
}

func newTestModel(t *testing.T, cfg *config.AppConfig) *Model {
	t.Helper()
	m := NewModel(cfg, theme.Classic(), git.NewService(git.SampleSource{}))
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func sampleSnapshot(t *testing.T) *git.Snapshot {
	t.Helper()
	snap, err := git.NewService(git.SampleSource{}).Collect(context.Background())
	require.NoError(t, err)
	return snap
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel(nil, nil, nil)
	t.Cleanup(m.Close)

	require.NotNil(t, m.config)
	require.NotNil(t, m.theme)
	assert.Equal(t, 5*time.Second, m.timer.interval)
	assert.Nil(t, m.Snapshot())
	assert.Equal(t, "Loading...", m.View())
}

func TestStatusMsgRendersRows(t *testing.T) {
	m := newTestModel(t, testConfig())
	m.Update(statusMsg{snap: sampleSnapshot(t)})

	view := m.View()
	for _, want := range []string{"D lorem", "A ipsum", "?? sit", "AM consecteur", "MM adipiscing"} {
		assert.Contains(t, view, want)
	}
	assert.Contains(t, view, "sample")
	assert.Contains(t, view, "1 deleted")
	assert.Len(t, m.Snapshot().Changes, 7)
}

func TestStatusErrorKeepsPreviousRows(t *testing.T) {
	m := newTestModel(t, testConfig())
	m.Update(statusMsg{snap: sampleSnapshot(t)})
	m.Update(statusMsg{err: errors.New("git went away")})

	require.Error(t, m.Err())
	view := m.View()
	assert.Contains(t, view, "git went away")
	assert.Contains(t, view, "lorem")

	m.Update(statusMsg{snap: sampleSnapshot(t)})
	assert.NoError(t, m.Err())
	assert.NotContains(t, m.View(), "git went away")
}

func TestEmptySnapshotShowsClean(t *testing.T) {
	m := newTestModel(t, testConfig())
	m.Update(statusMsg{snap: &git.Snapshot{Source: "sample", Changes: []status.FileChange{}}})

	view := m.View()
	assert.Contains(t, view, "Working tree clean.")
	assert.Contains(t, view, "clean")
}

func TestSkippedLinesShownInFooter(t *testing.T) {
	m := newTestModel(t, testConfig())
	snap := sampleSnapshot(t)
	snap.Skipped = []*status.LineError{{Line: 2, Text: "R  a -> b", Reason: `unknown code "R "`}}
	m.Update(statusMsg{snap: snap})

	assert.Contains(t, m.View(), "skipped 1 unrecognized line")
}

func TestInitCollectsSample(t *testing.T) {
	m := newTestModel(t, testConfig())

	cmd := m.collect()
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Nil(t, m.collect(), "collection already in flight")

	msg, ok := cmd().(statusMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.Len(t, msg.snap.Changes, 7)

	m.Update(msg)
	assert.False(t, m.loading)
}

func TestRefreshTickGenerations(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshInterval = 5
	m := newTestModel(t, cfg)

	require.True(t, m.timer.enabled())
	require.NotNil(t, m.timer.schedule())

	_, cmd := m.Update(refreshTickMsg{gen: m.timer.generation + 1})
	assert.Nil(t, cmd, "stale tick is dropped")

	_, cmd = m.Update(refreshTickMsg{gen: m.timer.generation})
	assert.NotNil(t, cmd)
	assert.True(t, m.loading)
}

func TestPauseDropsQueuedTicks(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshInterval = 5
	m := newTestModel(t, cfg)
	gen := m.timer.generation

	_, cmd := m.Update(runeKey("p"))
	assert.Nil(t, cmd)
	assert.True(t, m.timer.paused)
	assert.Contains(t, m.View(), "paused")

	_, cmd = m.Update(refreshTickMsg{gen: gen})
	assert.Nil(t, cmd)

	_, cmd = m.Update(runeKey("p"))
	assert.NotNil(t, cmd)
	assert.False(t, m.timer.paused)
}

func TestRefreshTimerInterval(t *testing.T) {
	disabled := newRefreshTimer(0)
	assert.False(t, disabled.enabled())
	assert.Nil(t, (&refreshTimer{}).schedule())
	assert.Equal(t, time.Second, newRefreshTimer(10*time.Millisecond).interval)
	assert.Equal(t, 5*time.Second, newRefreshTimer(5*time.Second).interval)
}

func TestManualRefreshKey(t *testing.T) {
	m := newTestModel(t, testConfig())
	_, cmd := m.Update(runeKey("r"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(statusMsg)
	require.True(t, ok)
	assert.Len(t, msg.snap.Changes, 7)
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t, testConfig())
	_, cmd := m.Update(runeKey("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.Empty(t, m.View())
}

func TestCursorMovement(t *testing.T) {
	m := newTestModel(t, testConfig())
	m.Update(statusMsg{snap: sampleSnapshot(t)})

	m.Update(runeKey("k"))
	assert.Equal(t, 0, m.cursor)
	m.Update(runeKey("j"))
	m.Update(runeKey("j"))
	assert.Equal(t, 2, m.cursor)
	m.Update(runeKey("G"))
	assert.Equal(t, 6, m.cursor)
	m.Update(runeKey("j"))
	assert.Equal(t, 6, m.cursor)
	m.Update(runeKey("g"))
	assert.Equal(t, 0, m.cursor)
}

func TestTreeViewToggleAndCollapse(t *testing.T) {
	m := newTestModel(t, testConfig())
	changes, err := status.Parse(" M internal/app/app.go\n M internal/app/view.go\n?? README.md\n")
	require.NoError(t, err)
	m.Update(statusMsg{snap: &git.Snapshot{Source: "exec", Branch: "main", Changes: changes}})

	m.Update(runeKey("t"))
	require.True(t, m.treeView)
	require.Len(t, m.tree.TreeFlat, 4)
	view := m.View()
	assert.Contains(t, view, "internal/app/ (2)")
	assert.Contains(t, view, "M app.go")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.tree.CollapsedDirs["internal/app"])
	assert.Len(t, m.tree.TreeFlat, 2)
	assert.NotContains(t, m.View(), "view.go")

	m.Update(runeKey("t"))
	assert.False(t, m.treeView)
	assert.Contains(t, m.View(), "M internal/app/view.go")
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t, testConfig())
	assert.NotContains(t, m.View(), "page down")
	m.Update(runeKey("?"))
	assert.Contains(t, m.View(), "page down")
}

func TestFsChangedDebounces(t *testing.T) {
	m := newTestModel(t, testConfig())
	_, cmd := m.Update(fsChangedMsg{})
	assert.Nil(t, cmd, "no watcher means nothing to refresh")
}

func TestErrMsgShown(t *testing.T) {
	m := newTestModel(t, testConfig())
	m.Update(errMsg{err: errors.New("watch failed")})
	assert.Contains(t, m.View(), "watch failed")
}

func TestRenderRows(t *testing.T) {
	changes, err := status.Parse(git.SampleStatus)
	require.NoError(t, err)

	plain := RenderRows(changes, theme.Classic(), RowOptions{Plain: true})
	assert.Equal(t, strings.TrimSuffix(git.SampleStatus, "\n"), plain)

	styled := RenderRows(changes, theme.Classic(), RowOptions{})
	assert.Len(t, strings.Split(styled, "\n"), 7)
	assert.Contains(t, styled, "consecteur")

	assert.Empty(t, RenderRows(nil, theme.Classic(), RowOptions{Plain: true}))
}

func TestRenderRowsTruncates(t *testing.T) {
	change, err := status.NewFileChange(status.Modified, "a/very/long/path/that/does/not/fit.go")
	require.NoError(t, err)

	out := RenderRows([]status.FileChange{change}, theme.Classic(), RowOptions{Width: 16})
	assert.Contains(t, out, "…")
	assert.Equal(t, 16, lipgloss.Width(out))
}
