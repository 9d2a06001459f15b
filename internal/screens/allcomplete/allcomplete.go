// Package allcomplete is shown once every category is complete.
package allcomplete

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/progression"
	"github.com/wheninja/wheninja/internal/rewards"
	"github.com/wheninja/wheninja/internal/router"
	"github.com/wheninja/wheninja/internal/screen"
	"github.com/wheninja/wheninja/internal/session"
	"github.com/wheninja/wheninja/internal/ui/layout"
	"github.com/wheninja/wheninja/internal/ui/theme"
)

// Screen congratulates the player and offers collection and profile.
type Screen struct {
	ctrl       *session.Controller
	collection func() screen.Screen
	profile    func() screen.Screen
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the screen. The factories may be nil.
func New(ctrl *session.Controller, collection, profile func() screen.Screen) *Screen {
	return &Screen{ctrl: ctrl, collection: collection, profile: profile}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return s.ctrl.Language().Pick("全カテゴリ制覇", "All Complete")
}

func (s *Screen) KeyHints() []layout.KeyHint {
	l := s.ctrl.Language()
	return []layout.KeyHint{
		{Key: "C", Description: l.Pick("コレクション", "Collection")},
		{Key: "P", Description: l.Pick("プロフィール", "Profile")},
		{Key: "Enter", Description: l.Pick("ホーム", "Home")},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "c":
		return s, push(s.collection)
	case "p":
		return s, push(s.profile)
	}
	return s, nil
}

func push(factory func() screen.Screen) tea.Cmd {
	if factory == nil {
		return nil
	}
	next := factory()
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *Screen) View(width, height int) string {
	l := s.ctrl.Language()
	p := s.ctrl.Progress()
	center := func(text string, style lipgloss.Style) string {
		return layout.Centered(text, width, style)
	}
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	body := lipgloss.NewStyle().Foreground(theme.Text)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center("🎌 🏯 🎌", body))
	b.WriteString("\n\n")
	b.WriteString(center(l.Pick("おめでとうございます！", "Congratulations!"), theme.Title))
	b.WriteString("\n")
	b.WriteString(center(l.Pick(
		"日本のマナーをすべて学びました。",
		"You have learned every part of Japanese etiquette."), dim))
	b.WriteString("\n\n")

	b.WriteString(center(fmt.Sprintf("Lv.%d %s   ★ %d",
		p.CurrentLevel, progression.LevelTitle(p.CurrentLevel, l), p.TotalPoints),
		lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)))
	b.WriteString("\n")
	b.WriteString(center(fmt.Sprintf("%s %d   %s %d   %s %d/%d",
		rewards.Souvenir.Icon(), len(p.Souvenirs),
		rewards.Snack.Icon(), len(p.Snacks),
		"🏁", len(p.CompletedCategories), category.Count), body))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render(l.Pick("今回のプレイ", "This session"))))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	sum := s.ctrl.Summary()
	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(fmt.Sprintf("%s %d    %s %d    %s %.0f%%    %d:%02d",
		l.Pick("回答", "Answered"), sum.Answered,
		l.Pick("正解", "Correct"), sum.Correct,
		l.Pick("正答率", "Accuracy"), sum.Accuracy*100,
		mins, secs), body))
	b.WriteString("\n")

	for _, a := range sum.Awards {
		line := fmt.Sprintf("%s %s %s", a.Kind.Icon(), a.Item.ID, a.Item.Name.In(l))
		b.WriteString("\n")
		b.WriteString(center(line, lipgloss.NewStyle().Foreground(kindColor(a.Kind))))
	}
	return b.String()
}

func kindColor(k rewards.Kind) color.Color {
	if k == rewards.Snack {
		return theme.Accent
	}
	return theme.Secondary
}
