package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/wheninja/wheninja/internal/ui/theme"
)

// Gauge renders a fraction in [0, 1] as a bar of fixed width. Values outside
// the range are clamped.
func Gauge(fraction float64, width int, withPercent bool) string {
	fraction = max(0, min(fraction, 1))

	suffix := ""
	if withPercent {
		suffix = fmt.Sprintf(" %3d%%", int(fraction*100+0.5))
	}
	cells := max(width-lipgloss.Width(suffix), 4)
	lit := int(float64(cells) * fraction)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("━", lit)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cells-lit)))
	if suffix != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix))
	}
	return b.String()
}
