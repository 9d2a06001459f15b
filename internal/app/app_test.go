package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/wheninja/wheninja/internal/progress"
	"github.com/wheninja/wheninja/internal/router"
	"github.com/wheninja/wheninja/internal/screens/profile"
	"github.com/wheninja/wheninja/internal/screens/screentest"
	"github.com/wheninja/wheninja/internal/screens/welcome"
	"github.com/wheninja/wheninja/internal/ui/theme"
)

func withCharacter(p *progress.UserProgress) {
	ch := "fuji-cat"
	p.SelectedCharacter = &ch
	p.CurrentLevel = 3
	p.TotalPoints = 120
}

func newTestModel(t *testing.T) (AppModel, *screentest.Fixture) {
	t.Helper()
	f := screentest.New(t, screentest.Options{Seed: withCharacter})
	m := newAppModel(Options{Controller: f.Ctrl, Events: f.DB.EventRepo(), ExportDir: t.TempDir()})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(AppModel), f
}

func send(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestStartsOnWelcome(t *testing.T) {
	m, _ := newTestModel(t)
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Fatalf("active = %T, want welcome", m.router.Active())
	}
}

func TestViewShowsHeaderStatus(t *testing.T) {
	m, _ := newTestModel(t)

	content := m.render()
	for _, want := range []string{"WHENINJA", "Lv.3", "★ 120", "Ctrl+C"} {
		if !strings.Contains(content, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTooSmall(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(m, tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(m.render(), "Terminal too small") {
		t.Error("expected the minimum size message")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := send(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestEscAtRootIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	if _, cmd := send(m, screentest.Key("esc")); cmd != nil {
		t.Error("esc at the root should do nothing")
	}
}

func TestEscRespectsEscapeHandler(t *testing.T) {
	m, f := newTestModel(t)
	p := profile.New(f.Ctrl, nil, t.TempDir())
	m, _ = send(m, router.PushScreenMsg{Screen: p})

	m, _ = send(m, screentest.Key("i"))
	if !p.HandlesEscape() {
		t.Fatal("profile should be in import mode")
	}

	m, cmd := send(m, screentest.Key("esc"))
	if cmd != nil {
		if _, ok := cmd().(router.PopScreenMsg); ok {
			t.Fatal("esc should close the dialog, not pop")
		}
	}
	if p.HandlesEscape() {
		t.Error("dialog still open")
	}

	_, cmd = send(m, screentest.Key("esc"))
	if cmd == nil {
		t.Fatal("expected pop")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("esc should pop once the dialog is closed")
	}
}

func TestThemeFollowsSettings(t *testing.T) {
	m, f := newTestModel(t)
	t.Cleanup(func() { theme.SetDark(true) })
	if !theme.IsDark() {
		t.Fatal("expected the dark palette")
	}

	f.Ctrl.ToggleTheme(context.Background())
	send(m, tea.KeyPressMsg{Code: 'z', Text: "z"})
	if theme.IsDark() {
		t.Error("palette should switch to light")
	}
}

func TestRunRequiresController(t *testing.T) {
	if _, err := Run(context.Background(), Options{}); err == nil {
		t.Error("expected error")
	}
}
