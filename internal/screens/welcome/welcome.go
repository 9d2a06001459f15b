// Package welcome shows the splash animation and the first-run steps: the
// storage notice and the guide character choice.
package welcome

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/wheninja/wheninja/internal/locale"
	"github.com/wheninja/wheninja/internal/progress"
	"github.com/wheninja/wheninja/internal/router"
	"github.com/wheninja/wheninja/internal/screen"
	"github.com/wheninja/wheninja/internal/session"
	"github.com/wheninja/wheninja/internal/ui/components"
	"github.com/wheninja/wheninja/internal/ui/layout"
	"github.com/wheninja/wheninja/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1200 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

const toriiArt = `▄▄████████████████▄▄
  ▀█▀▀▀▀▀▀▀▀▀▀▀▀█▀
 ━━█━━━━━━━━━━━━█━━
   █            █
   █   /\_/\    █
   █  ( o.o )   █
   █   > ^ <    █`

var sparkleFrames = []string{"🌸", "✿"}

type tickMsg time.Time

type stage int

const (
	stageSplash stage = iota
	stageWarning
	stageCharacter
)

// WelcomeScreen runs the splash and first-run steps before replacing
// itself with the screen produced by homeFactory.
type WelcomeScreen struct {
	ctrl        *session.Controller
	homeFactory func() screen.Screen
	logger      *zap.Logger

	stage        stage
	elapsed      time.Duration
	tickCount    int
	chars        []progress.Character
	menu         components.Menu
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen.
func New(ctrl *session.Controller, homeFactory func() screen.Screen, logger *zap.Logger) *WelcomeScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WelcomeScreen{ctrl: ctrl, homeFactory: homeFactory, logger: logger}
}

func (w *WelcomeScreen) Title() string {
	switch w.stage {
	case stageWarning:
		return w.lang().Pick("はじめに", "Before you start")
	case stageCharacter:
		return w.lang().Pick("ガイドを選ぶ", "Choose your guide")
	}
	return ""
}

func (w *WelcomeScreen) lang() locale.Language { return w.ctrl.Language() }

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	l := w.lang()
	switch w.stage {
	case stageWarning:
		return []layout.KeyHint{
			{Key: "Enter", Description: l.Pick("了解", "Got it")},
			{Key: "L", Description: "日本語 / English"},
		}
	case stageCharacter:
		return []layout.KeyHint{
			{Key: "↑↓", Description: l.Pick("選択", "Move")},
			{Key: "Enter", Description: l.Pick("決定", "Choose")},
		}
	}
	return []layout.KeyHint{{Key: l.Pick("なにかキー", "Any key"), Description: l.Pick("スタート", "Start")}}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tickMsg); ok {
		if w.stage != stageSplash {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return w, nil
	}
	ctx := context.Background()

	switch w.stage {
	case stageSplash:
		// Any key skips the rest of the animation.
		return w, w.next(ctx)

	case stageWarning:
		switch kmsg.String() {
		case "l":
			w.ctrl.ToggleLanguage(ctx)
		case "enter":
			if err := w.ctrl.Store().SetSeenWarning(ctx); err != nil {
				w.logger.Warn("store warning flag", zap.Error(err))
			}
			return w, w.next(ctx)
		}

	case stageCharacter:
		var cmd tea.Cmd
		w.menu, cmd = w.menu.Update(msg)
		return w, cmd
	}
	return w, nil
}

// next moves to the first outstanding step, or leaves once none remain.
func (w *WelcomeScreen) next(ctx context.Context) tea.Cmd {
	switch {
	case w.stage < stageWarning && !w.ctrl.Store().HasSeenWarning(ctx):
		w.stage = stageWarning
		return nil
	case w.stage < stageCharacter && w.ctrl.Progress().SelectedCharacter == nil:
		w.stage = stageCharacter
		w.buildMenu()
		return nil
	}
	return w.transition()
}

func (w *WelcomeScreen) buildMenu() {
	l := w.lang()
	w.chars = progress.Characters()
	items := make([]components.MenuItem, len(w.chars))
	for i, ch := range w.chars {
		item := components.MenuItem{
			Label:    ch.Icon + "  " + ch.Name.In(l),
			Disabled: ch.Locked,
			Action:   func() tea.Cmd { return w.choose(ch.ID) },
		}
		if ch.Locked {
			item.Detail = "🔒 " + l.Pick("近日公開", "Coming soon")
		}
		items[i] = item
	}
	w.menu = components.NewMenu(items)
}

func (w *WelcomeScreen) choose(id string) tea.Cmd {
	if err := w.ctrl.SelectCharacter(context.Background(), id); err != nil {
		w.logger.Error("select character", zap.String("id", id), zap.Error(err))
		return nil
	}
	return w.transition()
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var content string
	switch w.stage {
	case stageWarning:
		content = w.viewWarning(width)
	case stageCharacter:
		content = w.viewCharacters(width)
	default:
		content = w.viewSplash(width)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (w *WelcomeScreen) viewSplash(width int) string {
	l := w.lang()
	var sections []string

	rendered := lipgloss.NewStyle().Foreground(theme.Primary).Render(toriiArt)
	if w.elapsed >= phase1End {
		sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
		lines := strings.Split(rendered, "\n")
		for _, i := range []int{0, 3, 6} {
			if i < len(lines) {
				lines[i] = sparkle + "  " + lines[i] + "  " + sparkle
			}
		}
		rendered = strings.Join(lines, "\n")
	}
	sections = append(sections, rendered)

	if w.elapsed >= phase2End {
		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(l.Pick("日本のマナーを楽しく学ぼう！", "Learn Japanese etiquette the fun way!"))
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render(l.Pick("なにかキーを押してください", "press any key to continue"))
		sections = append(sections, "", components.Title(width, width < 80), "", tagline, "", hint)
	}
	return strings.Join(sections, "\n")
}

func (w *WelcomeScreen) viewWarning(width int) string {
	l := w.lang()
	cw := components.ContentWidth(width)
	body := strings.Join([]string{
		theme.Title.Render("💾 " + l.Pick("進捗の保存について", "About saving")),
		"",
		l.Pick(
			"進捗はこのコンピューターのデータベースに保存されます。",
			"Your progress is saved in a database on this computer.",
		),
		l.Pick(
			"ファイルを削除すると進捗は失われます。",
			"Deleting that file deletes your progress.",
		),
		l.Pick(
			"プロフィール画面の「書き出し」でバックアップできます。",
			"Use Export on the Profile page to keep a backup.",
		),
	}, "\n")
	return components.Card(body, cw)
}

func (w *WelcomeScreen) viewCharacters(width int) string {
	l := w.lang()
	cw := components.ContentWidth(width)
	heading := theme.Title.Render(l.Pick("一緒に旅するガイドを選んでね", "Pick a guide for your trip"))
	return heading + "\n\n" + components.Card(w.menu.View(cw-8), cw)
}
