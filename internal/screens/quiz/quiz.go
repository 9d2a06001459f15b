// Package quiz is the play screen: question, feedback and interludes,
// driven by the session controller's phase.
package quiz

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/wheninja/wheninja/internal/catalog"
	"github.com/wheninja/wheninja/internal/locale"
	"github.com/wheninja/wheninja/internal/router"
	"github.com/wheninja/wheninja/internal/screen"
	"github.com/wheninja/wheninja/internal/session"
	"github.com/wheninja/wheninja/internal/ui/components"
	"github.com/wheninja/wheninja/internal/ui/layout"
)

// QuizScreen implements screen.Screen for an active category.
type QuizScreen struct {
	ctrl     *session.Controller
	logger   *zap.Logger
	choices  components.Choices
	shownFor catalog.QuestionID
	finish   func() screen.Screen
	errMsg   string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a QuizScreen over a controller that has started a category.
// finish builds the screen that replaces this one once every category is
// complete; when nil the screen is popped instead.
func New(ctrl *session.Controller, logger *zap.Logger, finish func() screen.Screen) *QuizScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &QuizScreen{ctrl: ctrl, logger: logger, finish: finish}
	s.sync()
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.route()
}

func (s *QuizScreen) Title() string {
	info, _ := lookupCategory(s.ctrl)
	return info
}

func (s *QuizScreen) lang() locale.Language { return s.ctrl.Language() }

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	l := s.lang()
	switch s.ctrl.Phase() {
	case session.PhaseAnswering:
		return []layout.KeyHint{
			{Key: "1-3", Description: l.Pick("回答", "Answer")},
			{Key: "↑↓ Enter", Description: l.Pick("選択", "Select")},
			{Key: "Esc", Description: l.Pick("カテゴリへ", "Categories")},
		}
	case session.PhaseFeedback, session.PhaseInterlude:
		return []layout.KeyHint{
			{Key: "Enter", Description: l.Pick("次へ", "Continue")},
			{Key: "Esc", Description: l.Pick("カテゴリへ", "Categories")},
		}
	}
	return nil
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	ctx := context.Background()

	switch s.ctrl.Phase() {
	case session.PhaseAnswering:
		s.choices, _ = s.choices.Update(kmsg)
		if s.choices.Chosen < 0 {
			return s, nil
		}
		return s, s.answer(ctx)

	case session.PhaseFeedback:
		if isAdvanceKey(kmsg) {
			s.check(s.ctrl.Continue(ctx))
			s.sync()
			return s, s.route()
		}

	case session.PhaseInterlude:
		if isAdvanceKey(kmsg) {
			s.check(s.ctrl.Dismiss(ctx))
			s.sync()
			return s, s.route()
		}

	default:
		return s, s.route()
	}
	return s, nil
}

func isAdvanceKey(k tea.KeyPressMsg) bool {
	switch k.String() {
	case "enter", "space", " ":
		return true
	}
	return false
}

// answer submits the chosen display option.
func (s *QuizScreen) answer(ctx context.Context) tea.Cmd {
	opts := s.ctrl.Options()
	chosen := s.choices.Chosen
	if chosen >= len(opts) {
		s.choices.Chosen = -1
		return nil
	}

	if _, err := s.ctrl.Answer(ctx, opts[chosen].Index); err != nil {
		s.check(err)
		s.choices.Chosen = -1
		return nil
	}

	marks := make([]components.Mark, len(opts))
	for i, o := range opts {
		marks[i] = markFor(o.Type)
	}
	s.choices.Reveal(marks)
	return nil
}

func markFor(t catalog.OptionType) components.Mark {
	switch t {
	case catalog.Best:
		return components.MarkBest
	case catalog.Conditional:
		return components.MarkPartial
	default:
		return components.MarkWrong
	}
}

// sync rebuilds the option selector when a new question is shown.
func (s *QuizScreen) sync() {
	if s.ctrl.Phase() != session.PhaseAnswering {
		return
	}
	q := s.ctrl.Question()
	if q == nil || q.ID == s.shownFor {
		return
	}
	s.shownFor = q.ID
	texts := make([]string, 0, len(s.ctrl.Options()))
	for _, o := range s.ctrl.Options() {
		texts = append(texts, o.Text.In(s.lang()))
	}
	s.choices = components.NewChoices(texts)
}

// route leaves the screen once play rests between categories.
func (s *QuizScreen) route() tea.Cmd {
	switch s.ctrl.Phase() {
	case session.PhaseIdle:
		return func() tea.Msg { return router.PopScreenMsg{} }
	case session.PhaseAllComplete:
		if s.finish == nil {
			return func() tea.Msg { return router.PopScreenMsg{} }
		}
		next := s.finish()
		return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	return nil
}

func (s *QuizScreen) check(err error) {
	if err == nil {
		s.errMsg = ""
		return
	}
	s.logger.Warn("quiz action rejected", zap.Error(err), zap.Stringer("phase", s.ctrl.Phase()))
	switch {
	case errors.Is(err, session.ErrAlreadyAnswered):
		s.errMsg = s.lang().Pick("この問題は回答済みです", "This question was already answered")
	default:
		s.errMsg = err.Error()
	}
}
