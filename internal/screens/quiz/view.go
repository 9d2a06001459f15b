package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/wheninja/wheninja/internal/catalog"
	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/progress"
	"github.com/wheninja/wheninja/internal/progression"
	"github.com/wheninja/wheninja/internal/session"
	"github.com/wheninja/wheninja/internal/ui/components"
	"github.com/wheninja/wheninja/internal/ui/layout"
	"github.com/wheninja/wheninja/internal/ui/theme"
)

func lookupCategory(ctrl *session.Controller) (string, bool) {
	info, ok := category.Lookup(ctrl.Category())
	if !ok {
		return "", false
	}
	return info.Icon + " " + info.Name.In(ctrl.Language()), true
}

func (s *QuizScreen) View(width, height int) string {
	var body string
	switch s.ctrl.Phase() {
	case session.PhaseAnswering:
		body = s.renderQuestion(width)
	case session.PhaseFeedback:
		body = s.renderFeedback(width)
	case session.PhaseInterlude:
		body = s.renderInterlude(width)
	default:
		body = layout.Centered(s.lang().Pick("読み込み中…", "Loading..."), width, lipgloss.NewStyle().Foreground(theme.TextDim))
	}

	var notes []string
	if s.errMsg != "" {
		notes = append(notes, layout.Centered("⚠ "+s.errMsg, width, lipgloss.NewStyle().Foreground(theme.Error)))
	}
	if s.ctrl.SaveError() != nil {
		notes = append(notes, layout.Centered(
			s.lang().Pick("⚠ 進捗を保存できませんでした", "⚠ Progress could not be saved"),
			width, lipgloss.NewStyle().Foreground(theme.Warning)))
	}
	if len(notes) > 0 {
		body += "\n\n" + strings.Join(notes, "\n")
	}
	return body
}

// renderInfoLine shows category progress and the current streak.
func (s *QuizScreen) renderInfoLine(width int) string {
	p := s.ctrl.Catalog().CategoryProgress(s.ctrl.Category(), s.ctrl.Progress())
	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("  %s %d/%d", s.lang().Pick("進捗", "Progress"), p.Answered, p.Total))
	right := lipgloss.NewStyle().Foreground(theme.Accent).
		Render(fmt.Sprintf("🔥 %d  ", s.ctrl.Streak()))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right); pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
	return line + "\n  " + divider + "\n\n"
}

func (s *QuizScreen) renderQuestion(width int) string {
	q := s.ctrl.Question()
	if q == nil {
		return ""
	}
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString(s.renderPrompt(q, cw, width))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View(cw)))
	return b.String()
}

func (s *QuizScreen) renderPrompt(q *catalog.Question, cw, width int) string {
	prompt := lipgloss.NewStyle().
		Width(cw).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Prompt.In(s.lang()))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, prompt)
}

func (s *QuizScreen) renderFeedback(width int) string {
	fb := s.ctrl.Feedback()
	if fb == nil {
		return ""
	}
	l := s.lang()
	cw := components.ContentWidth(width)

	var heading string
	var style lipgloss.Style
	switch fb.Result.Outcome {
	case catalog.Best:
		heading, style = l.Pick("素晴らしい！", "Excellent!"), theme.Correct
	case catalog.Conditional:
		heading, style = l.Pick("状況によってはOK", "Okay in some situations"), theme.Partial
	default:
		heading, style = l.Pick("惜しい！", "Not quite"), theme.Incorrect
	}
	heading = fmt.Sprintf("%s  +%d", heading, fb.Result.Points)

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString(layout.Centered(heading, width, style))
	b.WriteString("\n\n")
	b.WriteString(s.renderPrompt(fb.Question, cw, width))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View(cw)))
	b.WriteString("\n")

	text := lipgloss.NewStyle().Width(cw - 8).Foreground(theme.Text)
	var card strings.Builder
	card.WriteString(text.Bold(true).Render("💡 " + fb.Question.Feedback.Point.In(l)))
	if d := fb.Question.Feedback.Detail.In(l); d != "" {
		card.WriteString("\n\n" + text.Render(d))
	}
	if c := fb.Question.Feedback.Comparison.In(l); c != "" {
		card.WriteString("\n\n" + text.Foreground(theme.TextDim).Render("🌏 "+c))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(card.String(), cw+2)))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(l.Pick("Enterで次へ", "Press Enter to continue"), width, theme.Hint))
	return b.String()
}

func (s *QuizScreen) renderInterlude(width int) string {
	it := s.ctrl.Interlude()
	if it == nil {
		return ""
	}
	l := s.lang()
	cw := components.ContentWidth(width)
	title := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	body := lipgloss.NewStyle().Foreground(theme.Text)

	var content string
	switch it.Kind {
	case session.InterludeSouvenir:
		content = title.Render(l.Pick("🎁 おみやげをゲット！", "🎁 New souvenir!")) + "\n\n" +
			body.Render(it.Item.ID+"  "+it.Item.Name.In(l))
	case session.InterludeLevelUp:
		content = title.Render(l.Pick("🎉 レベルアップ！", "🎉 Level up!")) + "\n\n" +
			body.Render(fmt.Sprintf("Lv.%d  %s", it.Level, progression.LevelTitle(it.Level, l)))
	case session.InterludeChat:
		icon := "🐱"
		if ch, ok := progress.LookupCharacter(s.ctrl.Progress().CharacterID()); ok {
			icon = ch.Icon
		}
		text := ""
		if it.Chat != nil {
			text = it.Chat.Text.In(l)
		}
		content = title.Render(icon+" "+l.Pick("ひとこと", "A quick word")) + "\n\n" +
			body.Width(cw-8).Render(text)
	case session.InterludeSnack:
		content = title.Render(l.Pick("🏆 カテゴリ制覇！", "🏆 Category complete!")) + "\n\n" +
			body.Render(l.Pick("ごほうびのおやつ: ", "A snack for you: ")+it.Item.ID+"  "+it.Item.Name.In(l))
	}

	popup := components.Popup(content+"\n\n"+theme.Hint.Render(l.Pick("Enterで閉じる", "Press Enter")), cw)
	return "\n\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, popup)
}
