package theme

import (
	"fmt"
	"sort"

	"github.com/chmouel/lazystatus/internal/status"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBA is a color with components in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// KindColors maps every change kind to a display color.
type KindColors map[status.ChangeKind]RGBA

func hex(s string) RGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("MustParseHex: " + err.Error())
	}
	return RGBA{R: c.R, G: c.G, B: c.B, A: 1}
}

// ClassicKindColors is the palette the first version of the viewer used.
func ClassicKindColors() KindColors {
	return KindColors{
		status.Deleted:              {R: 0.9, G: 0, B: 0, A: 1},
		status.Modified:             {R: 1, G: 1, B: 0, A: 1},
		status.Added:                {R: 0, G: 0, B: 0.8, A: 1},
		status.NotTracked:           {R: 0.6, G: 0.6, B: 0.6, A: 1},
		status.ModifiedInBothStages: {R: 0, G: 0.6, B: 0.6, A: 1},
		status.AddedThenModified:    {R: 0, G: 0.2, B: 0.9, A: 1},
	}
}

// Hex renders the opaque part of the color as #rrggbb.
func (c RGBA) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// Over composites c on top of the background hex color. Terminals have no
// alpha channel so translucent colors are flattened here.
func (c RGBA) Over(background string) string {
	if c.A >= 1 {
		return c.Hex()
	}
	bg, err := colorful.Hex(background)
	if err != nil {
		return c.Hex()
	}
	fg := colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped()
	return bg.BlendRgb(fg, clamp01(c.A)).Hex()
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// WithOverrides returns a copy of the theme whose kind colors are replaced
// by the given hex values.
func (t *Theme) WithOverrides(overrides map[status.ChangeKind]string) (*Theme, error) {
	if len(overrides) == 0 {
		return t, nil
	}
	out := *t
	out.Kinds = make(KindColors, len(t.Kinds))
	for k, v := range t.Kinds {
		out.Kinds[k] = v
	}

	kinds := make([]status.ChangeKind, 0, len(overrides))
	for k := range overrides {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, k := range kinds {
		c, err := colorful.Hex(overrides[k])
		if err != nil {
			return nil, fmt.Errorf("color for %s: %w", k, err)
		}
		out.Kinds[k] = RGBA{R: c.R, G: c.G, B: c.B, A: 1}
	}
	return &out, nil
}
