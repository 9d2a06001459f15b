package components

import (
	"charm.land/lipgloss/v2"

	"github.com/wheninja/wheninja/internal/ui/theme"
)

// TitleArt is the block-letter game title.
const TitleArt = `██╗    ██╗██╗  ██╗███████╗███╗   ██╗██╗███╗   ██╗     ██╗ █████╗
██║    ██║██║  ██║██╔════╝████╗  ██║██║████╗  ██║     ██║██╔══██╗
██║ █╗ ██║███████║█████╗  ██╔██╗ ██║██║██╔██╗ ██║     ██║███████║
██║███╗██║██╔══██║██╔══╝  ██║╚██╗██║██║██║╚██╗██║██   ██║██╔══██║
╚███╔███╔╝██║  ██║███████╗██║ ╚████║██║██║ ╚████║╚█████╔╝██║  ██║
 ╚══╝╚══╝ ╚═╝  ╚═╝╚══════╝╚═╝  ╚═══╝╚═╝╚═╝  ╚═══╝ ╚════╝ ╚═╝  ╚═╝`

// TitleCompact replaces TitleArt when it does not fit.
const TitleCompact = "W · H · E · N · I · N · J · A"

// Title renders the game title centered at width, falling back to the
// compact form when the block letters are too wide or compact is set.
func Title(width int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	art := TitleArt
	if compact || lipgloss.Width(TitleArt) > width {
		art = TitleCompact
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(style.Render(art))
}
