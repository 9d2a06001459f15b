// Package home is the category selection screen.
package home

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/progress"
	"github.com/wheninja/wheninja/internal/router"
	"github.com/wheninja/wheninja/internal/screen"
	"github.com/wheninja/wheninja/internal/screens/allcomplete"
	"github.com/wheninja/wheninja/internal/screens/collection"
	"github.com/wheninja/wheninja/internal/screens/profile"
	"github.com/wheninja/wheninja/internal/screens/quiz"
	"github.com/wheninja/wheninja/internal/screens/welcome"
	"github.com/wheninja/wheninja/internal/session"
	"github.com/wheninja/wheninja/internal/store"
	"github.com/wheninja/wheninja/internal/ui/components"
	"github.com/wheninja/wheninja/internal/ui/layout"
)

// HomeScreen lists the categories and the other pages.
type HomeScreen struct {
	ctrl      *session.Controller
	events    store.EventRepo
	exportDir string
	logger    *zap.Logger

	menu   components.Menu
	notice string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen. events may be nil, in which case the
// collection history tab stays empty.
func New(ctrl *session.Controller, events store.EventRepo, exportDir string, logger *zap.Logger) *HomeScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &HomeScreen{ctrl: ctrl, events: events, exportDir: exportDir, logger: logger}
	h.rebuild()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	if h.ctrl.Phase() == session.PhaseAllComplete {
		return h.push(h.allComplete())
	}
	return nil
}

func (h *HomeScreen) Title() string {
	return h.ctrl.Language().Pick("ホーム", "Home")
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	l := h.ctrl.Language()
	return []layout.KeyHint{
		{Key: "↑↓", Description: l.Pick("選択", "Move")},
		{Key: "Enter", Description: l.Pick("決定", "Select")},
		{Key: "L", Description: l.Pick("言語", "Language")},
		{Key: "Q", Description: l.Pick("終了", "Quit")},
	}
}

// Resume abandons any unfinished category left behind by the quiz screen
// and refreshes the menu. After a reset the first-run steps run again.
func (h *HomeScreen) Resume() tea.Cmd {
	switch h.ctrl.Phase() {
	case session.PhaseAnswering, session.PhaseFeedback, session.PhaseInterlude:
		h.ctrl.Leave()
	}
	if h.ctrl.Progress().SelectedCharacter == nil {
		again := welcome.New(h.ctrl, func() screen.Screen {
			return New(h.ctrl, h.events, h.exportDir, h.logger)
		}, h.logger)
		return func() tea.Msg { return router.ReplaceScreenMsg{Screen: again} }
	}
	h.rebuild()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "l":
			h.ctrl.ToggleLanguage(context.Background())
			h.rebuild()
			return h, nil
		case "q":
			return h, tea.Quit
		}
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// rebuild recreates the menu from the current progress, keeping the cursor.
func (h *HomeScreen) rebuild() {
	l := h.ctrl.Language()
	p := h.ctrl.Progress()
	cat := h.ctrl.Catalog()
	allDone := h.ctrl.Phase() == session.PhaseAllComplete || p.AllCategoriesComplete()

	var items []components.MenuItem
	for _, info := range category.All() {
		prog := cat.CategoryProgress(info.ID, p)
		items = append(items, components.MenuItem{
			Label:    info.Icon + " " + info.Name.In(l),
			Detail:   categoryDetail(prog.Answered, prog.Total, prog.Percentage, p.HasCompleted(info.ID)),
			Action:   func() tea.Cmd { return h.start(info.ID) },
			Disabled: allDone,
		})
	}
	if allDone {
		items = append(items, components.MenuItem{
			Label:  "🏆 " + l.Pick("全カテゴリ制覇", "All complete"),
			Action: func() tea.Cmd { return h.push(h.allComplete()) },
		})
	}
	items = append(items,
		components.MenuItem{
			Label:  "🎁 " + l.Pick("コレクション", "Collection"),
			Action: func() tea.Cmd { return h.push(h.collection()) },
		},
		components.MenuItem{
			Label:  "👤 " + l.Pick("プロフィール", "Profile"),
			Action: func() tea.Cmd { return h.push(h.profile()) },
		},
		components.MenuItem{
			Label:  "🚪 " + l.Pick("終了", "Exit"),
			Action: func() tea.Cmd { return tea.Quit },
		},
	)

	prev := h.menu.Selected
	h.menu = components.NewMenu(items)
	if len(h.menu.Items) > 0 && prev > 0 {
		h.menu.Select(min(prev, len(items)-1))
	}
}

func (h *HomeScreen) start(id category.ID) tea.Cmd {
	l := h.ctrl.Language()
	h.notice = ""
	err := h.ctrl.StartCategory(context.Background(), id)
	switch {
	case errors.Is(err, session.ErrAllComplete):
		h.rebuild()
		return h.push(h.allComplete())
	case err != nil:
		h.logger.Error("start category", zap.String("category", string(id)), zap.Error(err))
		h.notice = l.Pick("開始できません: ", "Cannot start: ") + err.Error()
		return nil
	}

	if h.ctrl.Phase() == session.PhaseIdle {
		h.notice = l.Pick("このカテゴリはもう完了しています", "This category is already complete")
		return nil
	}
	return h.push(quiz.New(h.ctrl, h.logger, h.allComplete))
}

func (h *HomeScreen) allComplete() screen.Screen {
	return allcomplete.New(h.ctrl, h.collection, h.profile)
}

func (h *HomeScreen) collection() screen.Screen {
	return collection.New(h.ctrl, h.events)
}

func (h *HomeScreen) profile() screen.Screen {
	return profile.New(h.ctrl, h.logger, h.exportDir)
}

func (h *HomeScreen) push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) mascot() MascotVariant {
	p := h.ctrl.Progress()
	switch {
	case p.AllCategoriesComplete():
		return MascotCelebrating
	case len(p.AnsweredQuestions) > 0:
		return MascotCheering
	}
	return MascotIdle
}

func (h *HomeScreen) greeting() string {
	l := h.ctrl.Language()
	name := l.Pick("ねこ", "Cat")
	if ch, ok := progress.LookupCharacter(h.ctrl.Progress().CharacterID()); ok {
		name = ch.Name.In(l)
	}
	switch h.mascot() {
	case MascotCelebrating:
		return name + l.Pick("「すごい！全部制覇だにゃ！」", `: "You did it all, nya!"`)
	case MascotCheering:
		return name + l.Pick("「その調子だにゃ！」", `: "Keep it up, nya!"`)
	}
	return name + l.Pick("「どこから始める？」", `: "Where shall we start?"`)
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back the header and footer
	termHeight := height + 8
	compact := termHeight < 30 || width < 100
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, components.Title(width-6, compact))
	if !compact {
		sections = append(sections, renderMascotBox(h.mascot(), h.greeting(), cw))
	}
	sections = append(sections, renderStatsBar(h.ctrl.Progress(), h.ctrl.Language(), cw, compact))
	sections = append(sections, renderMenuBox(h.menu.View(cw-4), cw))
	if h.notice != "" {
		sections = append(sections, renderNotice(h.notice, cw))
	}

	return components.CabinetFrame(joinSections(sections), width, height)
}
