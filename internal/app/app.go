// Package app is the root Bubble Tea model: a screen router framed by the
// header and footer.
package app

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/wheninja/wheninja/internal/progress"
	"github.com/wheninja/wheninja/internal/router"
	"github.com/wheninja/wheninja/internal/screen"
	"github.com/wheninja/wheninja/internal/screens/home"
	"github.com/wheninja/wheninja/internal/screens/welcome"
	"github.com/wheninja/wheninja/internal/session"
	"github.com/wheninja/wheninja/internal/store"
	"github.com/wheninja/wheninja/internal/ui/layout"
	"github.com/wheninja/wheninja/internal/ui/theme"
)

// Options configure the TUI.
type Options struct {
	Controller *session.Controller
	Events     store.EventRepo
	// ExportDir is where backups are written.
	ExportDir string
	Logger    *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	ctrl   *session.Controller
	width  int
	height int
}

// newAppModel creates an AppModel that starts on the welcome screen.
func newAppModel(opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	homeFactory := func() screen.Screen {
		return home.New(opts.Controller, opts.Events, opts.ExportDir, logger)
	}
	m := AppModel{
		router: router.New(welcome.New(opts.Controller, homeFactory, logger)),
		ctrl:   opts.Controller,
	}
	m.syncTheme()
	return m
}

// syncTheme applies the player's theme to the shared palette.
func (m AppModel) syncTheme() {
	if dark := m.ctrl.Theme() == progress.Dark; dark != theme.IsDark() {
		theme.SetDark(dark)
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	m.syncTheme()
	return m, cmd
}

func (m AppModel) status() layout.Status {
	p := m.ctrl.Progress()
	st := layout.Status{Level: p.CurrentLevel, Points: p.TotalPoints, Lang: m.ctrl.Language().Label()}
	if ch, ok := progress.LookupCharacter(p.CharacterID()); ok {
		st.Icon = ch.Icon
	}
	return st
}

func (m AppModel) hints() []layout.KeyHint {
	var hints []layout.KeyHint
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{{Key: "Esc", Description: m.ctrl.Language().Pick("戻る", "Back")}}
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: m.ctrl.Language().Pick("終了", "Quit")})
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status(), m.width)
	footer := layout.RenderFooter(m.hints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits. The
// controller is closed on return and its session summary returned.
func Run(ctx context.Context, opts Options) (session.Summary, error) {
	if opts.Controller == nil {
		return session.Summary{}, errors.New("app: controller is required")
	}
	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	_, err := p.Run()
	summary := opts.Controller.Close()
	if err != nil {
		return summary, fmt.Errorf("run tui: %w", err)
	}
	return summary, nil
}
