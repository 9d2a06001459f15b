package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/locale"
	"github.com/wheninja/wheninja/internal/progress"
	"github.com/wheninja/wheninja/internal/progression"
	"github.com/wheninja/wheninja/internal/ui/theme"
)

// renderStatsBar renders the player's standing in a bordered box matching
// content width.
func renderStatsBar(p *progress.UserProgress, lang locale.Language, cw int, compact bool) string {
	levelStyle := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	pointStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	itemStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)

	done := fmt.Sprintf("🏁 %d/%d", len(p.CompletedCategories), category.Count)
	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			levelStyle.Render(fmt.Sprintf("Lv.%d", p.CurrentLevel)),
			pointStyle.Render(fmt.Sprintf("★%d", p.TotalPoints)),
			itemStyle.Render(done),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s  %s",
			levelStyle.Render(fmt.Sprintf("Lv.%d %s", p.CurrentLevel, progression.LevelTitle(p.CurrentLevel, lang))),
			pointStyle.Render(fmt.Sprintf("★ %d", p.TotalPoints)),
			itemStyle.Render(fmt.Sprintf("🎁 %d  🍡 %d", len(p.Souvenirs), len(p.Snacks))),
			itemStyle.Render(done),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderMascotBox renders the guide centered at content width, with an
// optional speech line beside it.
func renderMascotBox(variant MascotVariant, speech string, cw int) string {
	art := RenderMascot(variant)
	if speech != "" {
		bubble := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Foreground(theme.Text).
			Padding(0, 1).
			MaxWidth(cw - lipgloss.Width(art) - 4).
			Render(speech)
		art = lipgloss.JoinHorizontal(lipgloss.Center, art, "  ", bubble)
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(art)
}

// renderMenuBox frames the menu at content width.
func renderMenuBox(menu string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Render(menu)
}

// renderNotice renders a one-line status note.
func renderNotice(text string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Warning).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}

// categoryDetail is the right-hand progress text for a category row.
func categoryDetail(answered, total, pct int, done bool) string {
	if done {
		return fmt.Sprintf("✓ %d/%d", answered, total)
	}
	return fmt.Sprintf("%d/%d %3d%%", answered, total, pct)
}

func joinSections(sections []string) string {
	return strings.Join(sections, "\n\n")
}
