// Package theme provides theme definitions and the change-kind color table.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazystatus/internal/status"
)

// Theme defines all colors used by the status view.
type Theme struct {
	Name       string
	Background lipgloss.Color
	Panel      lipgloss.Color // Row area background
	Accent     lipgloss.Color
	AccentFg   lipgloss.Color // Foreground color for text on Accent background
	Border     lipgloss.Color
	MutedFg    lipgloss.Color
	TextFg     lipgloss.Color
	ErrorFg    lipgloss.Color
	Kinds      KindColors
}

// Theme names.
const (
	ClassicName      = "classic"
	DraculaName      = "dracula"
	DraculaLightName = "dracula-light"
	NordName         = "nord"
	GruvboxDarkName  = "gruvbox-dark"
)

// Classic is a white panel with the saturated primary palette.
func Classic() *Theme {
	return &Theme{
		Name:       ClassicName,
		Background: lipgloss.Color("#FFFFFF"),
		Panel:      lipgloss.Color("#FFFFFF"),
		Accent:     lipgloss.Color("#1E1E1E"),
		AccentFg:   lipgloss.Color("#FFFFFF"),
		Border:     lipgloss.Color("#C0C0C0"),
		MutedFg:    lipgloss.Color("#808080"),
		TextFg:     lipgloss.Color("#1E1E1E"),
		ErrorFg:    lipgloss.Color("#E60000"),
		Kinds:      ClassicKindColors(),
	}
}

// Dracula returns the Dracula theme (dark background, vibrant colors).
func Dracula() *Theme {
	return &Theme{
		Name:       DraculaName,
		Background: lipgloss.Color("#282A36"),
		Panel:      lipgloss.Color("#282A36"),
		Accent:     lipgloss.Color("#BD93F9"), // Purple
		AccentFg:   lipgloss.Color("#282A36"),
		Border:     lipgloss.Color("#6272A4"), // Comment
		MutedFg:    lipgloss.Color("#6272A4"),
		TextFg:     lipgloss.Color("#F8F8F2"),
		ErrorFg:    lipgloss.Color("#FF5555"),
		Kinds: KindColors{
			status.Deleted:              hex("#FF5555"),
			status.Modified:             hex("#F1FA8C"),
			status.NotTracked:           hex("#6272A4"),
			status.Added:                hex("#50FA7B"),
			status.ModifiedInBothStages: hex("#8BE9FD"),
			status.AddedThenModified:    hex("#FF79C6"),
		},
	}
}

// DraculaLight returns the Dracula theme adapted for light backgrounds.
func DraculaLight() *Theme {
	return &Theme{
		Name:       DraculaLightName,
		Background: lipgloss.Color("#FFFFFF"),
		Panel:      lipgloss.Color("#FFFFFF"),
		Accent:     lipgloss.Color("#c6dbe5"),
		AccentFg:   lipgloss.Color("#24292F"),
		Border:     lipgloss.Color("#D0D7DE"),
		MutedFg:    lipgloss.Color("#6E7781"),
		TextFg:     lipgloss.Color("#24292F"),
		ErrorFg:    lipgloss.Color("#DC2626"),
		Kinds: KindColors{
			status.Deleted:              hex("#DC2626"),
			status.Modified:             hex("#CA8A04"),
			status.NotTracked:           hex("#6E7781"),
			status.Added:                hex("#059669"),
			status.ModifiedInBothStages: hex("#0891B2"),
			status.AddedThenModified:    hex("#DB2777"),
		},
	}
}

// Nord returns the Nord theme.
func Nord() *Theme {
	return &Theme{
		Name:       NordName,
		Background: lipgloss.Color("#2E3440"),
		Panel:      lipgloss.Color("#3B4252"),
		Accent:     lipgloss.Color("#88C0D0"),
		AccentFg:   lipgloss.Color("#2E3440"),
		Border:     lipgloss.Color("#4C566A"),
		MutedFg:    lipgloss.Color("#81A1C1"),
		TextFg:     lipgloss.Color("#E5E9F0"),
		ErrorFg:    lipgloss.Color("#BF616A"),
		Kinds: KindColors{
			status.Deleted:              hex("#BF616A"),
			status.Modified:             hex("#EBCB8B"),
			status.NotTracked:           hex("#81A1C1"),
			status.Added:                hex("#A3BE8C"),
			status.ModifiedInBothStages: hex("#88C0D0"),
			status.AddedThenModified:    hex("#B48EAD"),
		},
	}
}

// GruvboxDark returns the Gruvbox dark theme.
func GruvboxDark() *Theme {
	return &Theme{
		Name:       GruvboxDarkName,
		Background: lipgloss.Color("#282828"),
		Panel:      lipgloss.Color("#282828"),
		Accent:     lipgloss.Color("#FABD2F"),
		AccentFg:   lipgloss.Color("#282828"),
		Border:     lipgloss.Color("#504945"),
		MutedFg:    lipgloss.Color("#928374"),
		TextFg:     lipgloss.Color("#EBDBB2"),
		ErrorFg:    lipgloss.Color("#FB4934"),
		Kinds: KindColors{
			status.Deleted:              hex("#FB4934"),
			status.Modified:             hex("#FABD2F"),
			status.NotTracked:           hex("#928374"),
			status.Added:                hex("#B8BB26"),
			status.ModifiedInBothStages: hex("#83A598"),
			status.AddedThenModified:    hex("#D3869B"),
		},
	}
}

// GetTheme returns a theme by name, or Dracula if not found.
func GetTheme(name string) *Theme {
	switch name {
	case ClassicName:
		return Classic()
	case DraculaLightName:
		return DraculaLight()
	case NordName:
		return Nord()
	case GruvboxDarkName:
		return GruvboxDark()
	default:
		return Dracula()
	}
}

// IsLight returns true if the theme is a light theme.
func IsLight(name string) bool {
	switch name {
	case ClassicName, DraculaLightName:
		return true
	default:
		return false
	}
}

// AvailableThemes returns a list of available theme names.
func AvailableThemes() []string {
	return []string{
		DraculaName,
		DraculaLightName,
		NordName,
		GruvboxDarkName,
		ClassicName,
	}
}

// KindColor returns the terminal color for a change kind, blended over the
// panel background when the palette entry is translucent.
func (t *Theme) KindColor(kind status.ChangeKind) lipgloss.Color {
	c, ok := t.Kinds[kind]
	if !ok {
		return t.TextFg
	}
	return lipgloss.Color(c.Over(string(t.Panel)))
}
