package home

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/wheninja/wheninja/internal/ui/theme"
)

// MascotVariant selects which guide art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // nothing answered yet
	MascotCheering                         // play in progress
	MascotCelebrating                      // every category complete
)

const mascotIdle = ` /\_/\
( o.o )
 > ^ <`

const mascotCheering = ` /\_/\
( ^.^ )
 /つ🍡`

const mascotCelebrating = ` /\_/\  ★
( ★.★ )
 \ ω /
  🏆`

// RenderMascot returns the guide cat art for the given variant.
func RenderMascot(variant MascotVariant) string {
	art := mascotIdle
	var fg color.Color = theme.Primary

	switch variant {
	case MascotCheering:
		art = mascotCheering
		fg = theme.Secondary
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Highlight
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
