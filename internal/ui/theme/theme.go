// Package theme holds the palette and shared styles. Call SetDark to
// switch palettes; styles are rebuilt from the active palette.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is one complete set of colors.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Highlight color.Color
	Success   color.Color
	Warning   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	Bg        color.Color
	BgCard    color.Color
	Border    color.Color
}

// Dark is the night palette: indigo sky with lantern accents.
var Dark = Palette{
	Primary:   lipgloss.Color("#E11D48"), // Torii red
	Secondary: lipgloss.Color("#14B8A6"), // Matcha teal
	Accent:    lipgloss.Color("#F59E0B"), // Lantern amber
	Highlight: lipgloss.Color("#FACC15"),
	Success:   lipgloss.Color("#22C55E"),
	Warning:   lipgloss.Color("#F97316"),
	Error:     lipgloss.Color("#F43F5E"),
	Text:      lipgloss.Color("#F8FAFC"),
	TextDim:   lipgloss.Color("#94A3B8"),
	Bg:        lipgloss.Color("#0F172A"),
	BgCard:    lipgloss.Color("#1E293B"),
	Border:    lipgloss.Color("#334155"),
}

// Light is the day palette: washi paper with sumi ink.
var Light = Palette{
	Primary:   lipgloss.Color("#BE123C"),
	Secondary: lipgloss.Color("#0F766E"),
	Accent:    lipgloss.Color("#B45309"),
	Highlight: lipgloss.Color("#A16207"),
	Success:   lipgloss.Color("#15803D"),
	Warning:   lipgloss.Color("#C2410C"),
	Error:     lipgloss.Color("#BE123C"),
	Text:      lipgloss.Color("#1C1917"),
	TextDim:   lipgloss.Color("#78716C"),
	Bg:        lipgloss.Color("#FAF7F0"),
	BgCard:    lipgloss.Color("#F1ECE1"),
	Border:    lipgloss.Color("#D6CFC2"),
}

// Active colors.
var (
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Highlight color.Color
	Success   color.Color
	Warning   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	Bg        color.Color
	BgCard    color.Color
	Border    color.Color
)

// Shared styles.
var (
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Body       lipgloss.Style
	Hint       lipgloss.Style
	Card       lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Correct    lipgloss.Style
	Partial    lipgloss.Style
	Incorrect  lipgloss.Style
)

var dark = true

func init() {
	apply(Dark)
}

// SetDark selects the dark or light palette.
func SetDark(on bool) {
	dark = on
	if on {
		apply(Dark)
	} else {
		apply(Light)
	}
}

// IsDark reports whether the dark palette is active.
func IsDark() bool { return dark }

func apply(p Palette) {
	Primary, Secondary, Accent, Highlight = p.Primary, p.Secondary, p.Accent, p.Highlight
	Success, Warning, Error = p.Success, p.Warning, p.Error
	Text, TextDim = p.Text, p.TextDim
	Bg, BgCard, Border = p.Bg, p.BgCard, p.Border

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
		Foreground(TextDim).
		Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Selected = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Unselected = lipgloss.NewStyle().
		Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Partial = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
}
