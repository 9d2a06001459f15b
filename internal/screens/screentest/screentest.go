// Package screentest builds controllers and key messages for screen tests.
package screentest

import (
	"context"
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/wheninja/wheninja/internal/catalog"
	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/locale"
	"github.com/wheninja/wheninja/internal/progress"
	"github.com/wheninja/wheninja/internal/session"
	"github.com/wheninja/wheninja/internal/store"
)

// Settings are the defaults used by test controllers.
var Settings = progress.Settings{Language: locale.English, Theme: progress.Dark}

// fixedSource always picks index 0 and never rolls a chat.
type fixedSource struct{}

func (fixedSource) IntN(int) int     { return 0 }
func (fixedSource) Float64() float64 { return 0.99 }

// Fixture is a controller over an in-memory database.
type Fixture struct {
	DB    *store.Store
	Store *progress.Store
	Ctrl  *session.Controller
}

// Options tweak the fixture.
type Options struct {
	// QuestionsPerCategory defaults to 2.
	QuestionsPerCategory int
	// Seed edits the stored record before the controller loads it.
	Seed func(p *progress.UserProgress)
}

// Catalog returns n questions per category with options ordered
// other, best, conditional.
func Catalog(n int) *catalog.Catalog {
	opts := []catalog.Option{
		{Type: catalog.Other, Text: locale.Text{En: "Push in"}},
		{Type: catalog.Best, Text: locale.Text{En: "Queue politely"}},
		{Type: catalog.Conditional, Text: locale.Text{En: "Ask staff"}},
	}
	var qs []catalog.Question
	var chats []catalog.ChatLine
	for _, info := range category.All() {
		for i := 1; i <= n; i++ {
			qs = append(qs, catalog.Question{
				ID:       catalog.QuestionID(fmt.Sprintf("%s-%d", info.ID, i)),
				Category: info.Name,
				Prompt:   locale.Text{En: fmt.Sprintf("%s question %d?", info.NameEn, i)},
				Options:  opts,
				Feedback: catalog.Feedback{Point: locale.Text{En: "Queues matter."}},
			})
		}
		chats = append(chats, catalog.ChatLine{Category: info.NameEn, Text: locale.Text{En: "Nice!"}})
	}
	return catalog.New(catalog.Dataset{Questions: qs, Chats: chats})
}

// New builds a Fixture.
func New(t *testing.T, o Options) *Fixture {
	t.Helper()
	db, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ps := progress.NewStore(db.KV(), Settings, nil)
	if o.Seed != nil {
		p := progress.NewDefault(Settings)
		o.Seed(p)
		if err := ps.Save(context.Background(), p); err != nil {
			t.Fatalf("seed progress: %v", err)
		}
	}
	if o.QuestionsPerCategory == 0 {
		o.QuestionsPerCategory = 2
	}

	ctrl := session.New(context.Background(), session.Options{
		Store:      ps,
		Catalog:    Catalog(o.QuestionsPerCategory),
		Events:     db.EventRepo(),
		Rand:       fixedSource{},
		ChatChance: -1,
	})
	return &Fixture{DB: db, Store: ps, Ctrl: ctrl}
}

// CompleteAllBut marks every category except keep as complete with all of
// its questions answered.
func CompleteAllBut(n int, keep ...category.ID) func(p *progress.UserProgress) {
	return func(p *progress.UserProgress) {
		character := "fuji-cat"
		p.SelectedCharacter = &character
		for _, info := range category.All() {
			skip := false
			for _, k := range keep {
				skip = skip || k == info.ID
			}
			if skip {
				continue
			}
			p.CompletedCategories = append(p.CompletedCategories, info.ID)
			for i := 1; i <= n; i++ {
				p.AnsweredQuestions[fmt.Sprintf("%s-%d", info.ID, i)] = progress.AnswerRecord{Answered: true, Correct: true}
			}
		}
	}
}

// BestKey returns the number key that picks the best displayed option.
func BestKey(ctrl *session.Controller) tea.KeyPressMsg {
	for i, o := range ctrl.Options() {
		if o.Type == catalog.Best {
			return Key(fmt.Sprint(i + 1))
		}
	}
	return Key("0")
}

// Key builds a key press from its String() form.
func Key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

// Type sends each rune of s as a key press to update.
func Type(s string, update func(tea.Msg)) {
	for _, r := range s {
		update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// Run executes cmd and returns its message, or nil.
func Run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
