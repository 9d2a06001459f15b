package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheninja/wheninja/internal/catalog"
	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/locale"
	"github.com/wheninja/wheninja/internal/progress"
	"github.com/wheninja/wheninja/internal/progression"
	"github.com/wheninja/wheninja/internal/store"
)

// fixedSource always picks index 0 and returns f from Float64.
type fixedSource struct{ f float64 }

func (fixedSource) IntN(int) int       { return 0 }
func (s fixedSource) Float64() float64 { return s.f }

var testSettings = progress.Settings{Language: locale.English, Theme: progress.Light}

func testCatalog(foodQuestions int) *catalog.Catalog {
	info, _ := category.Lookup(category.Food)
	stay, _ := category.Lookup(category.Stay)
	opts := []catalog.Option{{Type: catalog.Other}, {Type: catalog.Best}, {Type: catalog.Conditional}}

	var qs []catalog.Question
	for i := 1; i <= foodQuestions; i++ {
		qs = append(qs, catalog.Question{ID: catalog.QuestionID(fmt.Sprintf("f%d", i)), Category: info.Name, Options: opts})
	}
	qs = append(qs, catalog.Question{ID: "s1", Category: stay.Name, Options: opts})
	return catalog.New(catalog.Dataset{
		Questions: qs,
		Chats:     []catalog.ChatLine{{Category: info.NameEn, Text: locale.Text{En: "meow"}}},
	})
}

type fixture struct {
	db    *store.Store
	store *progress.Store
	c     *Controller
}

type fixtureOpts struct {
	foodQuestions int
	chatRoll      float64
	chatChance    float64
	seed          func(p *progress.UserProgress)
	kv            store.KeyValue
}

func newFixture(t *testing.T, o fixtureOpts) *fixture {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	kv := o.kv
	if kv == nil {
		kv = db.KV()
	}
	ps := progress.NewStore(kv, testSettings, nil)
	if o.seed != nil {
		p := progress.NewDefault(testSettings)
		o.seed(p)
		require.NoError(t, ps.Save(context.Background(), p))
	}
	if o.foodQuestions == 0 {
		o.foodQuestions = 3
	}

	c := New(context.Background(), Options{
		Store:      ps,
		Catalog:    testCatalog(o.foodQuestions),
		Events:     db.EventRepo(),
		Rand:       fixedSource{f: o.chatRoll},
		ChatChance: o.chatChance,
	})
	return &fixture{db: db, store: ps, c: c}
}

// bestIndex returns the dataset index of the best option.
func bestIndex(q *catalog.Question) int {
	for i, o := range q.Options {
		if o.Type == catalog.Best {
			return i
		}
	}
	return -1
}

func answerBest(t *testing.T, c *Controller) *Feedback {
	t.Helper()
	require.Equal(t, PhaseAnswering, c.Phase())
	fb, err := c.Answer(context.Background(), bestIndex(c.Question()))
	require.NoError(t, err)
	return fb
}

func interludeKinds(t *testing.T, c *Controller) []InterludeKind {
	t.Helper()
	var kinds []InterludeKind
	for c.Phase() == PhaseInterlude {
		kinds = append(kinds, c.Interlude().Kind)
		require.NoError(t, c.Dismiss(context.Background()))
	}
	return kinds
}

func TestNewStartsIdle(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	assert.Equal(t, PhaseIdle, f.c.Phase())
	assert.Equal(t, progress.SourceDefault, f.c.LoadSource())
	assert.NotEmpty(t, f.c.SessionID())
}

func TestAnswerScoresPersistsAndLogs(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	ctx := context.Background()

	require.NoError(t, f.c.StartCategory(ctx, category.Food))
	require.Equal(t, catalog.QuestionID("f1"), f.c.Question().ID)
	assert.Len(t, f.c.Options(), 3)

	fb := answerBest(t, f.c)
	assert.Equal(t, PhaseFeedback, f.c.Phase())
	assert.Equal(t, progression.Result{Outcome: catalog.Best, Points: 10, Correct: true}, fb.Result)
	assert.Equal(t, 1, f.c.Streak())

	stored := f.store.Load(ctx).Progress
	assert.Equal(t, 10, stored.TotalPoints)
	assert.True(t, stored.AnsweredQuestions["f1"].Correct)

	events, err := f.db.EventRepo().QueryAnswerEvents(ctx, store.QueryOpts{SessionID: f.c.SessionID()})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "f1", events[0].QuestionID)
	assert.Equal(t, "best", events[0].Outcome)

	require.NoError(t, f.c.Continue(ctx))
	assert.Equal(t, PhaseAnswering, f.c.Phase())
	assert.Equal(t, catalog.QuestionID("f2"), f.c.Question().ID)
}

func TestWrongAnswerKeepsStreak(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	ctx := context.Background()
	require.NoError(t, f.c.StartCategory(ctx, category.Food))
	answerBest(t, f.c)
	require.NoError(t, f.c.Continue(ctx))

	fb, err := f.c.Answer(ctx, 0)
	require.NoError(t, err)
	assert.False(t, fb.Result.Correct)
	assert.Equal(t, 1, f.c.Streak())
	assert.Equal(t, 10, f.c.Progress().TotalPoints)
}

func TestPhaseGuards(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	ctx := context.Background()

	_, err := f.c.Answer(ctx, 0)
	assert.True(t, errors.Is(err, ErrInvalidPhase))
	assert.True(t, errors.Is(f.c.Continue(ctx), ErrInvalidPhase))
	assert.True(t, errors.Is(f.c.Dismiss(ctx), ErrInvalidPhase))
	assert.True(t, errors.Is(f.c.StartCategory(ctx, "mars"), ErrUnknownCategory))

	require.NoError(t, f.c.StartCategory(ctx, category.Food))
	assert.True(t, errors.Is(f.c.StartCategory(ctx, category.Stay), ErrInvalidPhase))

	_, err = f.c.Answer(ctx, 7)
	assert.True(t, errors.Is(err, progression.ErrOptionRange))
	assert.Equal(t, PhaseAnswering, f.c.Phase())
}

func TestAnswerRejectsAnsweredQuestion(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	ctx := context.Background()
	require.NoError(t, f.c.StartCategory(ctx, category.Food))

	f.c.Progress().AnsweredQuestions["f1"] = progress.AnswerRecord{Answered: true}
	_, err := f.c.Answer(ctx, 1)
	assert.True(t, errors.Is(err, ErrAlreadyAnswered))
	assert.Equal(t, 0, f.c.Progress().TotalPoints)
}

func TestInterludeOrderSouvenirLevelUpChat(t *testing.T) {
	f := newFixture(t, fixtureOpts{
		foodQuestions: 4,
		seed:          func(p *progress.UserProgress) { p.TotalPoints = 20 },
	})
	ctx := context.Background()
	require.NoError(t, f.c.StartCategory(ctx, category.Food))

	for i := 0; i < 2; i++ {
		answerBest(t, f.c)
		require.NoError(t, f.c.Continue(ctx))
	}
	fb := answerBest(t, f.c)
	require.NotNil(t, fb.Souvenir)
	assert.Equal(t, progression.LevelUp{LeveledUp: true, NewLevel: 2}, fb.LevelUp)

	require.NoError(t, f.c.Continue(ctx))
	assert.Equal(t, InterludeSouvenir, f.c.Interlude().Kind)
	kinds := interludeKinds(t, f.c)
	assert.Equal(t, []InterludeKind{InterludeSouvenir, InterludeLevelUp, InterludeChat}, kinds)
	assert.Equal(t, 0, f.c.Streak(), "dismissing a chat resets the streak")
	assert.Equal(t, PhaseAnswering, f.c.Phase())
	assert.Equal(t, catalog.QuestionID("f4"), f.c.Question().ID)
}

func TestChatRollAboveChanceSkipsChat(t *testing.T) {
	f := newFixture(t, fixtureOpts{foodQuestions: 4, chatRoll: 0.9})
	ctx := context.Background()
	require.NoError(t, f.c.StartCategory(ctx, category.Food))

	for i := 0; i < 2; i++ {
		answerBest(t, f.c)
		require.NoError(t, f.c.Continue(ctx))
	}
	answerBest(t, f.c)
	require.NoError(t, f.c.Continue(ctx))

	assert.Equal(t, []InterludeKind{InterludeSouvenir}, interludeKinds(t, f.c))
	assert.Equal(t, 3, f.c.Streak())
}

func TestChatsDisabled(t *testing.T) {
	f := newFixture(t, fixtureOpts{foodQuestions: 4, chatChance: -1})
	ctx := context.Background()
	require.NoError(t, f.c.StartCategory(ctx, category.Food))
	for i := 0; i < 3; i++ {
		answerBest(t, f.c)
		require.NoError(t, f.c.Continue(ctx))
		for f.c.Phase() == PhaseInterlude {
			assert.NotEqual(t, InterludeChat, f.c.Interlude().Kind)
			require.NoError(t, f.c.Dismiss(ctx))
		}
	}
}

func TestCategoryCompletionGrantsSnackThenIdle(t *testing.T) {
	f := newFixture(t, fixtureOpts{foodQuestions: 1})
	ctx := context.Background()
	require.NoError(t, f.c.StartCategory(ctx, category.Food))

	answerBest(t, f.c)
	require.NoError(t, f.c.Continue(ctx))

	require.Equal(t, PhaseInterlude, f.c.Phase())
	snack := f.c.Interlude()
	assert.Equal(t, InterludeSnack, snack.Kind)
	assert.Equal(t, []category.ID{category.Food}, f.c.Progress().CompletedCategories)
	assert.Equal(t, []string{snack.Item.ID}, f.c.Progress().Snacks)

	require.NoError(t, f.c.Dismiss(ctx))
	assert.Equal(t, PhaseIdle, f.c.Phase())
	assert.True(t, f.store.Load(ctx).Progress.HasCompleted(category.Food))
}

func TestRepeatCompletionRoutesDirectly(t *testing.T) {
	f := newFixture(t, fixtureOpts{
		foodQuestions: 1,
		seed: func(p *progress.UserProgress) {
			p.AnsweredQuestions["f1"] = progress.AnswerRecord{Answered: true, Correct: true}
			p.CompletedCategories = []category.ID{category.Food}
			p.Snacks = []string{"🍡"}
		},
	})
	ctx := context.Background()

	require.NoError(t, f.c.StartCategory(ctx, category.Food))
	assert.Equal(t, PhaseIdle, f.c.Phase())
	assert.Equal(t, []string{"🍡"}, f.c.Progress().Snacks)
	assert.Len(t, f.c.Awards(), 0)
}

func TestUnansweredButRecordedCompleteCategory(t *testing.T) {
	// A category completed before new questions were added is played
	// again without a second snack.
	f := newFixture(t, fixtureOpts{
		foodQuestions: 1,
		seed: func(p *progress.UserProgress) {
			p.CompletedCategories = []category.ID{category.Food}
		},
	})
	ctx := context.Background()

	require.NoError(t, f.c.StartCategory(ctx, category.Food))
	answerBest(t, f.c)
	require.NoError(t, f.c.Continue(ctx))
	assert.Equal(t, PhaseIdle, f.c.Phase())
	assert.Empty(t, f.c.Progress().Snacks)
}

func TestLastCategoryRoutesToAllComplete(t *testing.T) {
	f := newFixture(t, fixtureOpts{
		foodQuestions: 1,
		seed: func(p *progress.UserProgress) {
			for _, id := range category.IDs() {
				if id != category.Food {
					p.CompletedCategories = append(p.CompletedCategories, id)
				}
			}
		},
	})
	ctx := context.Background()

	require.NoError(t, f.c.StartCategory(ctx, category.Food))
	answerBest(t, f.c)
	require.NoError(t, f.c.Continue(ctx))
	assert.Equal(t, []InterludeKind{InterludeSnack}, interludeKinds(t, f.c))
	assert.Equal(t, PhaseAllComplete, f.c.Phase())

	assert.True(t, errors.Is(f.c.StartCategory(ctx, category.Stay), ErrAllComplete))
	assert.Equal(t, PhaseAllComplete, f.c.Phase())
	f.c.Leave()
	assert.Equal(t, PhaseAllComplete, f.c.Phase())
}

func TestNewWithAllCompleteIsTerminal(t *testing.T) {
	f := newFixture(t, fixtureOpts{
		seed: func(p *progress.UserProgress) { p.CompletedCategories = category.IDs() },
	})
	assert.Equal(t, PhaseAllComplete, f.c.Phase())
	assert.True(t, errors.Is(f.c.StartCategory(context.Background(), category.Food), ErrAllComplete))
}

func TestLeaveResetsStreak(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	ctx := context.Background()
	require.NoError(t, f.c.StartCategory(ctx, category.Food))
	answerBest(t, f.c)

	f.c.Leave()
	assert.Equal(t, PhaseIdle, f.c.Phase())
	assert.Equal(t, 0, f.c.Streak())
	assert.Nil(t, f.c.Question())

	require.NoError(t, f.c.StartCategory(ctx, category.Food))
	assert.Equal(t, catalog.QuestionID("f2"), f.c.Question().ID)
}

// failingKV reads from an inner store but refuses every write.
type failingKV struct{ store.KeyValue }

func (failingKV) Set(context.Context, string, string) error { return errors.New("quota exceeded") }

func TestSaveFailureIsNotFatal(t *testing.T) {
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := newFixture(t, fixtureOpts{kv: failingKV{db.KV()}})
	ctx := context.Background()
	require.NoError(t, f.c.StartCategory(ctx, category.Food))

	answerBest(t, f.c)
	assert.True(t, errors.Is(f.c.SaveError(), progress.ErrStorageWrite))
	assert.Equal(t, 10, f.c.Progress().TotalPoints)
	require.NoError(t, f.c.Continue(ctx))
	assert.Equal(t, PhaseAnswering, f.c.Phase())
}

func TestSettings(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	ctx := context.Background()

	assert.True(t, errors.Is(f.c.SelectCharacter(ctx, "dog"), ErrUnknownCharacter))
	assert.True(t, errors.Is(f.c.SelectCharacter(ctx, "kuro-cat"), ErrLockedCharacter))
	require.NoError(t, f.c.SelectCharacter(ctx, "fuji-cat"))

	f.c.ToggleLanguage(ctx)
	f.c.ToggleTheme(ctx)
	assert.Error(t, f.c.SetLanguage(ctx, "fr"))

	stored := f.store.Load(ctx).Progress
	assert.Equal(t, "fuji-cat", stored.CharacterID())
	assert.Equal(t, locale.Japanese, stored.Settings.Language)
	assert.Equal(t, progress.Dark, stored.Settings.Theme)

	require.NoError(t, f.c.SetLanguage(ctx, locale.English))
	assert.Equal(t, locale.English, f.c.Language())
}

func TestReset(t *testing.T) {
	f := newFixture(t, fixtureOpts{seed: func(p *progress.UserProgress) { p.TotalPoints = 90 }})
	ctx := context.Background()
	require.NoError(t, f.store.SetSeenWarning(ctx))

	require.NoError(t, f.c.Reset(ctx))
	assert.Equal(t, 0, f.c.Progress().TotalPoints)
	assert.Equal(t, PhaseIdle, f.c.Phase())
	assert.False(t, f.store.HasSeenWarning(ctx))
	assert.Equal(t, progress.SourceDefault, f.store.Load(ctx).Source)
}

func TestRestore(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	ctx := context.Background()

	p := progress.NewDefault(testSettings)
	p.TotalPoints = 120
	p.CurrentLevel = 3
	p.CompletedCategories = category.IDs()
	var buf bytes.Buffer
	require.NoError(t, progress.WriteBackup(&buf, p, time.Now()))

	require.NoError(t, f.c.Restore(ctx, &buf))
	assert.Equal(t, 120, f.c.Progress().TotalPoints)
	assert.Equal(t, PhaseAllComplete, f.c.Phase())

	err := f.c.Restore(ctx, strings.NewReader(`{"data":{}}`))
	assert.True(t, errors.Is(err, progress.ErrInvalidBackup))
	assert.Equal(t, 120, f.c.Progress().TotalPoints)
}

func TestSummary(t *testing.T) {
	f := newFixture(t, fixtureOpts{foodQuestions: 2})
	ctx := context.Background()
	require.NoError(t, f.c.StartCategory(ctx, category.Food))
	answerBest(t, f.c)
	require.NoError(t, f.c.Continue(ctx))
	_, err := f.c.Answer(ctx, 2) // conditional
	require.NoError(t, err)
	require.NoError(t, f.c.Continue(ctx))

	s := f.c.Close()
	assert.Equal(t, 2, s.Answered)
	assert.Equal(t, 2, s.Correct)
	assert.Equal(t, 15, s.Points)
	assert.InDelta(t, 1.0, s.Accuracy, 1e-9)
	assert.Len(t, s.Awards, 1, "completing food grants a snack")
}
