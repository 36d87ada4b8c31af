package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazystatus/internal/status"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
)

// View renders the UI.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	header := m.renderHeader()
	footer := m.renderFooter()
	body := m.viewport.View()
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// layout sizes the viewport to what header and footer leave over.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	used := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderFooter())
	m.viewport.Width = m.width
	m.viewport.Height = max(1, m.height-used)
	m.refreshContent()
}

func (m *Model) refreshContent() {
	m.viewport.SetContent(m.renderBody())
	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m *Model) rowOptions() RowOptions {
	return RowOptions{Width: m.width, Icons: m.config.ShowIcons}
}

func (m *Model) renderBody() string {
	opts := m.rowOptions()
	panel := lipgloss.NewStyle().Background(m.theme.Panel).Foreground(m.theme.MutedFg).Width(max(1, m.width))

	if m.snapshot == nil {
		if m.lastErr != nil {
			return panel.Render("No status available.")
		}
		return panel.Render("Collecting status...")
	}
	if len(m.snapshot.Changes) == 0 {
		return panel.Render(iconWithSpace(iconClean) + "Working tree clean.")
	}

	var lines []string
	if m.treeView {
		lines = make([]string, 0, len(m.tree.TreeFlat))
		for i, node := range m.tree.TreeFlat {
			lines = append(lines, renderTreeRow(node, m.tree.CollapsedDirs[node.Path], m.theme, opts, i == m.cursor))
		}
	} else {
		lines = make([]string, 0, len(m.snapshot.Changes))
		for i, c := range m.snapshot.Changes {
			lines = append(lines, renderChangeRow(c, m.theme, opts, i == m.cursor))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.theme.AccentFg).
		Background(m.theme.Accent).
		Padding(0, 1).
		Render("lazystatus")

	meta := lipgloss.NewStyle().Foreground(m.theme.TextFg).Padding(0, 1)
	muted := lipgloss.NewStyle().Foreground(m.theme.MutedFg)

	parts := []string{title}
	if m.snapshot != nil {
		branch := m.snapshot.Branch
		if branch == "" {
			branch = "detached"
		}
		parts = append(parts,
			meta.Render(iconWithSpace(iconBranch)+branch),
			muted.Render(m.snapshot.Source),
		)
	}
	if m.timer.paused {
		parts = append(parts, meta.Render(iconWithSpace(iconPaused)+"paused"))
	}
	if m.loading {
		parts = append(parts, muted.Render(" refreshing..."))
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if m.width > 0 {
		line = truncate.String(line, uint(m.width))
	}

	summary := "no data"
	if m.snapshot != nil {
		summary = status.Summarize(m.snapshot.Changes).String()
		if !m.snapshot.TakenAt.IsZero() {
			summary += " · " + m.snapshot.TakenAt.Format("15:04:05")
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, muted.Padding(0, 1).Render(summary))
}

func (m *Model) renderFooter() string {
	var lines []string
	width := max(20, m.width-2)

	if m.lastErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(m.theme.ErrorFg).Padding(0, 1)
		lines = append(lines, errStyle.Render(wrap.String("Error: "+m.lastErr.Error(), width)))
	}
	if m.snapshot != nil && len(m.snapshot.Skipped) > 0 {
		muted := lipgloss.NewStyle().Foreground(m.theme.MutedFg).Padding(0, 1)
		noun := "lines"
		if len(m.snapshot.Skipped) == 1 {
			noun = "line"
		}
		lines = append(lines, muted.Render(fmt.Sprintf("skipped %d unrecognized %s", len(m.snapshot.Skipped), noun)))
	}
	lines = append(lines, lipgloss.NewStyle().Padding(0, 1).Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
