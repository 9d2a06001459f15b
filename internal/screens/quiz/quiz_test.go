package quiz

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/router"
	"github.com/wheninja/wheninja/internal/screen"
	"github.com/wheninja/wheninja/internal/screens/screentest"
	"github.com/wheninja/wheninja/internal/session"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "done" }
func (s *stubScreen) Title() string                           { return "Done" }

func started(t *testing.T, o screentest.Options, cat category.ID) (*screentest.Fixture, *QuizScreen) {
	t.Helper()
	f := screentest.New(t, o)
	if err := f.Ctrl.StartCategory(context.Background(), cat); err != nil {
		t.Fatalf("start category: %v", err)
	}
	return f, New(f.Ctrl, nil, func() screen.Screen { return &stubScreen{} })
}

func TestQuizShowsQuestion(t *testing.T) {
	_, s := started(t, screentest.Options{}, category.Food)

	view := s.View(80, 30)
	if !strings.Contains(view, "Food & Dining question 1?") {
		t.Errorf("question prompt missing from view:\n%s", view)
	}
	if !strings.Contains(view, "Queue politely") {
		t.Error("options missing from view")
	}
	if s.Init() != nil {
		t.Error("Init should not navigate while answering")
	}
}

func TestQuizAnswerShowsFeedback(t *testing.T) {
	f, s := started(t, screentest.Options{}, category.Food)

	s.Update(screentest.BestKey(f.Ctrl))

	if f.Ctrl.Phase() != session.PhaseFeedback {
		t.Fatalf("phase = %v, want feedback", f.Ctrl.Phase())
	}
	view := s.View(80, 30)
	if !strings.Contains(view, "Excellent!") || !strings.Contains(view, "+10") {
		t.Errorf("feedback heading missing:\n%s", view)
	}
	if !strings.Contains(view, "Queues matter.") {
		t.Error("feedback point missing")
	}
}

func TestQuizArrowAndEnterAnswer(t *testing.T) {
	f, s := started(t, screentest.Options{}, category.Food)

	s.Update(screentest.Key("down"))
	s.Update(screentest.Key("enter"))

	if f.Ctrl.Phase() != session.PhaseFeedback {
		t.Fatalf("phase = %v, want feedback", f.Ctrl.Phase())
	}
}

func TestQuizContinueMovesToNextQuestion(t *testing.T) {
	f, s := started(t, screentest.Options{}, category.Food)

	s.Update(screentest.BestKey(f.Ctrl))
	_, cmd := s.Update(screentest.Key("enter"))

	if cmd != nil {
		t.Error("continuing to the next question should not navigate")
	}
	if f.Ctrl.Phase() != session.PhaseAnswering {
		t.Fatalf("phase = %v, want answering", f.Ctrl.Phase())
	}
	if !strings.Contains(s.View(80, 30), "question 2?") {
		t.Error("second question not shown")
	}
	if s.choices.Revealed {
		t.Error("choices were not reset for the new question")
	}
}

func TestQuizCompletionPopsToHome(t *testing.T) {
	f, s := started(t, screentest.Options{}, category.Food)

	for i := 0; i < 2; i++ {
		s.Update(screentest.BestKey(f.Ctrl))
		s.Update(screentest.Key("enter"))
	}
	if f.Ctrl.Phase() != session.PhaseInterlude || f.Ctrl.Interlude().Kind != session.InterludeSnack {
		t.Fatalf("phase = %v, want snack interlude", f.Ctrl.Phase())
	}
	if !strings.Contains(s.View(80, 30), "Category complete!") {
		t.Error("snack popup not shown")
	}

	_, cmd := s.Update(screentest.Key("enter"))
	if _, ok := screentest.Run(cmd).(router.PopScreenMsg); !ok {
		t.Fatalf("expected PopScreenMsg after the snack, got %T", screentest.Run(cmd))
	}
	if f.Ctrl.Phase() != session.PhaseIdle {
		t.Errorf("phase = %v, want idle", f.Ctrl.Phase())
	}
}

func TestQuizLastCategoryReplacesWithFinish(t *testing.T) {
	f, s := started(t, screentest.Options{Seed: screentest.CompleteAllBut(2, category.Temple)}, category.Temple)

	for i := 0; i < 2; i++ {
		s.Update(screentest.BestKey(f.Ctrl))
		s.Update(screentest.Key("enter"))
	}
	for f.Ctrl.Phase() == session.PhaseInterlude && f.Ctrl.Interlude().Kind != session.InterludeSnack {
		s.Update(screentest.Key("enter"))
	}

	_, cmd := s.Update(screentest.Key("enter"))
	msg, ok := screentest.Run(cmd).(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", screentest.Run(cmd))
	}
	if msg.Screen.Title() != "Done" {
		t.Errorf("replacement = %q", msg.Screen.Title())
	}
	if f.Ctrl.Phase() != session.PhaseAllComplete {
		t.Errorf("phase = %v, want all complete", f.Ctrl.Phase())
	}
}

func TestQuizIgnoresKeysOutOfRange(t *testing.T) {
	f, s := started(t, screentest.Options{}, category.Food)

	s.Update(screentest.Key("9"))
	if f.Ctrl.Phase() != session.PhaseAnswering {
		t.Errorf("phase = %v, want answering", f.Ctrl.Phase())
	}
}

func TestQuizKeyHintsFollowPhase(t *testing.T) {
	f, s := started(t, screentest.Options{}, category.Food)
	if got := s.KeyHints()[0].Key; got != "1-3" {
		t.Errorf("answering hint = %q", got)
	}
	s.Update(screentest.BestKey(f.Ctrl))
	if got := s.KeyHints()[0].Key; got != "Enter" {
		t.Errorf("feedback hint = %q", got)
	}
}

func TestQuizTitleNamesCategory(t *testing.T) {
	_, s := started(t, screentest.Options{}, category.Food)
	if !strings.Contains(s.Title(), "Food & Dining") {
		t.Errorf("title = %q", s.Title())
	}
}
