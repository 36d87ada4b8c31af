package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazystatus/internal/app/services"
	"github.com/chmouel/lazystatus/internal/status"
	"github.com/chmouel/lazystatus/internal/theme"
	"github.com/muesli/reflow/truncate"
)

// RowOptions controls how change rows are drawn.
type RowOptions struct {
	Width int  // Row width; 0 leaves rows unpadded and untruncated
	Icons bool // Prefix paths with Nerd Font icons
	Plain bool // Emit raw `XY PATH` lines without styling
}

// RenderRows renders one line per change, colored by kind.
func RenderRows(changes []status.FileChange, thm *theme.Theme, opts RowOptions) string {
	lines := make([]string, 0, len(changes))
	for _, c := range changes {
		if opts.Plain {
			lines = append(lines, c.String())
			continue
		}
		lines = append(lines, renderChangeRow(c, thm, opts, false))
	}
	return strings.Join(lines, "\n")
}

func renderChangeRow(c status.FileChange, thm *theme.Theme, opts RowOptions, selected bool) string {
	return renderRow(c.Kind(), c.Kind().Code(), c.Path(), 0, thm, opts, selected)
}

func renderRow(kind status.ChangeKind, code, path string, indent int, thm *theme.Theme, opts RowOptions, selected bool) string {
	fg := thm.KindColor(kind)
	bg := thm.Panel
	if selected {
		fg = thm.AccentFg
		bg = thm.Accent
	}
	style := lipgloss.NewStyle().Foreground(fg).Background(bg)

	prefix := strings.Repeat("  ", indent) + code + " "
	if opts.Icons {
		prefix += iconWithSpace(deviconForName(filepath.Base(path), false))
	}
	text := prefix + path
	if opts.Width > 0 {
		text = truncate.StringWithTail(text, uint(opts.Width), "…")
		style = style.Width(opts.Width)
	}
	return style.Render(text)
}

func renderTreeRow(node *services.TreeNode, collapsed bool, thm *theme.Theme, opts RowOptions, selected bool) string {
	if !node.IsDir() {
		return renderRow(node.Change.Kind(), node.Change.Kind().Code(), node.Name(), node.Depth, thm, opts, selected)
	}

	fg := thm.TextFg
	bg := thm.Panel
	if selected {
		fg = thm.AccentFg
		bg = thm.Accent
	}
	style := lipgloss.NewStyle().Foreground(fg).Background(bg).Bold(true)

	marker := iconExpanded
	if collapsed {
		marker = iconCollapsed
	}
	text := strings.Repeat("  ", node.Depth) + marker + " "
	if opts.Icons {
		text += iconWithSpace(deviconForName(node.Name(), true))
	}
	text += fmt.Sprintf("%s/ (%d)", node.Name(), node.CountChanges())
	if opts.Width > 0 {
		text = truncate.StringWithTail(text, uint(opts.Width), "…")
		style = style.Width(opts.Width)
	}
	return style.Render(text)
}
