package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/locale"
	"github.com/wheninja/wheninja/internal/router"
	"github.com/wheninja/wheninja/internal/screens/allcomplete"
	"github.com/wheninja/wheninja/internal/screens/collection"
	"github.com/wheninja/wheninja/internal/screens/quiz"
	"github.com/wheninja/wheninja/internal/screens/screentest"
	"github.com/wheninja/wheninja/internal/screens/welcome"
	"github.com/wheninja/wheninja/internal/session"
)

func pushed(t *testing.T, cmd tea.Cmd) router.PushScreenMsg {
	t.Helper()
	msg, ok := screentest.Run(cmd).(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", msg)
	}
	return msg
}

func TestHomeListsCategories(t *testing.T) {
	f := screentest.New(t, screentest.Options{})
	h := New(f.Ctrl, nil, t.TempDir(), nil)

	view := h.View(120, 40)
	for _, info := range category.All() {
		if !strings.Contains(view, info.Name.En) {
			t.Errorf("category %s missing from menu", info.ID)
		}
	}
	if !strings.Contains(view, "0/2") {
		t.Error("progress detail missing")
	}
	if len(h.menu.Items) != category.Count+3 {
		t.Errorf("menu items = %d, want categories plus 3", len(h.menu.Items))
	}
}

func TestHomeStartPushesQuiz(t *testing.T) {
	f := screentest.New(t, screentest.Options{})
	h := New(f.Ctrl, nil, t.TempDir(), nil)

	_, cmd := h.Update(screentest.Key("enter"))
	msg := pushed(t, cmd)
	if _, ok := msg.Screen.(*quiz.QuizScreen); !ok {
		t.Fatalf("pushed %T, want quiz", msg.Screen)
	}
	if f.Ctrl.Phase() != session.PhaseAnswering {
		t.Errorf("phase = %v, want answering", f.Ctrl.Phase())
	}
	if f.Ctrl.Category() != category.Transport {
		t.Errorf("category = %q", f.Ctrl.Category())
	}
}

func TestHomeResumeLeavesCategory(t *testing.T) {
	f := screentest.New(t, screentest.Options{Seed: screentest.CompleteAllBut(2, category.Transport)})
	h := New(f.Ctrl, nil, t.TempDir(), nil)

	h.Update(screentest.Key("enter"))
	f.Ctrl.Answer(t.Context(), f.Ctrl.Options()[0].Index)

	h.Resume()
	if f.Ctrl.Phase() != session.PhaseIdle {
		t.Errorf("phase = %v, want idle", f.Ctrl.Phase())
	}
	if !strings.Contains(h.View(120, 40), "1/2") {
		t.Error("menu not refreshed after resume")
	}
}

func TestHomeResumeAfterResetRunsWelcome(t *testing.T) {
	f := screentest.New(t, screentest.Options{Seed: screentest.CompleteAllBut(2, category.Food)})
	h := New(f.Ctrl, nil, t.TempDir(), nil)

	if err := f.Ctrl.Reset(t.Context()); err != nil {
		t.Fatal(err)
	}
	msg, ok := screentest.Run(h.Resume()).(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if _, ok := msg.Screen.(*welcome.WelcomeScreen); !ok {
		t.Errorf("replaced with %T, want welcome", msg.Screen)
	}
}

func TestHomeCompletedCategoryNotice(t *testing.T) {
	f := screentest.New(t, screentest.Options{Seed: screentest.CompleteAllBut(2, category.Food)})
	h := New(f.Ctrl, nil, t.TempDir(), nil)

	_, cmd := h.Update(screentest.Key("enter"))
	if cmd != nil {
		t.Fatalf("completed category should not push, got %T", screentest.Run(cmd))
	}
	if !strings.Contains(h.View(120, 40), "already complete") {
		t.Error("notice missing")
	}

	h.Update(screentest.Key("down"))
	h.Update(screentest.Key("down"))
	_, cmd = h.Update(screentest.Key("enter"))
	if _, ok := pushed(t, cmd).Screen.(*quiz.QuizScreen); !ok {
		t.Error("food should start")
	}
}

func TestHomeAllCompleteDisablesCategories(t *testing.T) {
	f := screentest.New(t, screentest.Options{Seed: screentest.CompleteAllBut(2)})
	h := New(f.Ctrl, nil, t.TempDir(), nil)

	if _, ok := pushed(t, h.Init()).Screen.(*allcomplete.Screen); !ok {
		t.Error("Init should show the all-complete screen")
	}
	for i := range category.Count {
		if !h.menu.Items[i].Disabled {
			t.Errorf("item %d enabled", i)
		}
	}
	if h.menu.Selected != category.Count {
		t.Errorf("selected = %d, want the all-complete item", h.menu.Selected)
	}
	if _, ok := pushed(t, h.menu.Items[h.menu.Selected].Action()).Screen.(*allcomplete.Screen); !ok {
		t.Error("all-complete item should push its screen")
	}
}

func TestHomeCollectionItem(t *testing.T) {
	f := screentest.New(t, screentest.Options{})
	h := New(f.Ctrl, f.DB.EventRepo(), t.TempDir(), nil)

	for range category.Count {
		h.Update(screentest.Key("down"))
	}
	_, cmd := h.Update(screentest.Key("enter"))
	if _, ok := pushed(t, cmd).Screen.(*collection.CollectionScreen); !ok {
		t.Error("expected collection screen")
	}
}

func TestHomeLanguageToggle(t *testing.T) {
	f := screentest.New(t, screentest.Options{})
	h := New(f.Ctrl, nil, t.TempDir(), nil)

	h.Update(screentest.Key("l"))
	if f.Ctrl.Language() != locale.Japanese {
		t.Fatal("language not toggled")
	}
	if h.Title() != "ホーム" {
		t.Errorf("title = %q", h.Title())
	}
	if !strings.Contains(h.View(120, 40), "食事") {
		t.Error("menu not localized")
	}
}

func TestHomeMascotVariant(t *testing.T) {
	f := screentest.New(t, screentest.Options{})
	h := New(f.Ctrl, nil, t.TempDir(), nil)
	if h.mascot() != MascotIdle {
		t.Errorf("fresh mascot = %v", h.mascot())
	}

	f = screentest.New(t, screentest.Options{Seed: screentest.CompleteAllBut(2)})
	h = New(f.Ctrl, nil, t.TempDir(), nil)
	if h.mascot() != MascotCelebrating {
		t.Errorf("complete mascot = %v", h.mascot())
	}
	if !strings.Contains(h.greeting(), "Fuji Cat") {
		t.Errorf("greeting = %q", h.greeting())
	}
}
