// Package progression scores answers and decides level-ups, souvenir
// unlocks and category completion rewards.
package progression

import (
	"context"
	"errors"
	"fmt"

	"github.com/wheninja/wheninja/internal/catalog"
	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/locale"
	"github.com/wheninja/wheninja/internal/progress"
	"github.com/wheninja/wheninja/internal/random"
	"github.com/wheninja/wheninja/internal/rewards"
)

// Points per outcome.
const (
	PointsBest        = 10
	PointsConditional = 5
	PointsOther       = 0
)

// PointsPerLevel is the step between level thresholds.
const PointsPerLevel = 50

// SouvenirEvery is how many correct answers in a category unlock a souvenir.
const SouvenirEvery = 3

// ErrOptionRange is returned when an answer index does not name an option.
var ErrOptionRange = errors.New("option index out of range")

// Result is the score of one answer.
type Result struct {
	Outcome catalog.OptionType
	Points  int
	Correct bool
}

// LevelUp reports the outcome of CheckLevelUp.
type LevelUp struct {
	LeveledUp bool
	NewLevel  int
}

var levelTitles = map[int]locale.Text{
	1: {Ja: "観光客", En: "Tourist"},
	2: {Ja: "旅行者", En: "Traveler"},
	3: {Ja: "生活者", En: "Resident"},
	4: {Ja: "文化通", En: "Culture Enthusiast"},
	5: {Ja: "文化忍者", En: "Culture Ninja"},
	6: {Ja: "マスター忍者", En: "Master Ninja"},
}

// Engine applies the game rules to a progress record.
type Engine struct {
	catalog   *catalog.Catalog
	rewards   *rewards.Service
	rng       random.Source
	SessionID string
}

// NewEngine creates an Engine over cat. Grants are recorded through svc.
func NewEngine(cat *catalog.Catalog, svc *rewards.Service, rng random.Source) *Engine {
	if svc == nil {
		svc = rewards.NewService(nil, nil)
	}
	if rng == nil {
		rng = random.New()
	}
	return &Engine{catalog: cat, rewards: svc, rng: rng}
}

// Score classifies the option at idx. It does not touch any record.
func (e *Engine) Score(q *catalog.Question, idx int) (Result, error) {
	if idx < 0 || idx >= len(q.Options) {
		return Result{}, fmt.Errorf("%w: %d of %d", ErrOptionRange, idx, len(q.Options))
	}
	switch q.Options[idx].Type {
	case catalog.Best:
		return Result{Outcome: catalog.Best, Points: PointsBest, Correct: true}, nil
	case catalog.Conditional:
		return Result{Outcome: catalog.Conditional, Points: PointsConditional, Correct: true}, nil
	default:
		return Result{Outcome: catalog.Other, Points: PointsOther}, nil
	}
}

// RecordAnswer stores the answer and adds its points, saturating at the
// maximum a record may hold.
func (e *Engine) RecordAnswer(p *progress.UserProgress, q *catalog.Question, r Result) {
	p.AnsweredQuestions[string(q.ID)] = progress.AnswerRecord{Answered: true, Correct: r.Correct}
	p.TotalPoints = min(p.TotalPoints+r.Points, progress.MaxPoints)
}

// CheckLevelUp raises the level while the points reach the next threshold.
func (e *Engine) CheckLevelUp(p *progress.UserProgress) LevelUp {
	level := p.CurrentLevel
	for level < progress.MaxLevel && p.TotalPoints >= level*PointsPerLevel {
		level++
	}
	if level == p.CurrentLevel {
		return LevelUp{}
	}
	p.CurrentLevel = level
	return LevelUp{LeveledUp: true, NewLevel: level}
}

// CorrectInCategory counts correct answers among the category's questions.
func (e *Engine) CorrectInCategory(p *progress.UserProgress, cat category.ID) int {
	n := 0
	for _, q := range e.catalog.QuestionsByCategory(cat) {
		if rec, ok := p.AnsweredQuestions[string(q.ID)]; ok && rec.Correct {
			n++
		}
	}
	return n
}

// CheckSouvenirUnlock grants the category's next souvenir when its correct
// count is a positive multiple of SouvenirEvery. An exhausted pool grants
// nothing.
func (e *Engine) CheckSouvenirUnlock(ctx context.Context, p *progress.UserProgress, cat category.ID) (rewards.Item, bool) {
	n := e.CorrectInCategory(p, cat)
	if n == 0 || n%SouvenirEvery != 0 {
		return rewards.Item{}, false
	}
	it, ok := rewards.NextSouvenir(cat, p.Souvenirs)
	if !ok {
		return rewards.Item{}, false
	}
	p.Souvenirs = append(p.Souvenirs, it.ID)
	e.rewards.AwardSouvenir(ctx, it, cat, e.SessionID)
	return it, true
}

// CheckCategoryCompletion reports whether every question has an answer.
func (e *Engine) CheckCategoryCompletion(p *progress.UserProgress, questions []*catalog.Question) bool {
	for _, q := range questions {
		if !p.IsAnswered(string(q.ID)) {
			return false
		}
	}
	return true
}

// GrantCategoryCompletionReward marks the category complete and grants a
// snack, once per category. Later calls return ok=false and change nothing.
func (e *Engine) GrantCategoryCompletionReward(ctx context.Context, p *progress.UserProgress, cat category.ID) (rewards.Item, bool) {
	if p.HasCompleted(cat) {
		return rewards.Item{}, false
	}
	p.CompletedCategories = append(p.CompletedCategories, cat)

	snack := rewards.PickSnack(e.rng, p.Snacks)
	if !p.HasSnack(snack.ID) {
		p.Snacks = append(p.Snacks, snack.ID)
	}
	e.rewards.AwardSnack(ctx, snack, cat, e.SessionID)
	return snack, true
}

// PointsForNextLevel returns the total points needed to leave level. ok is
// false at the top level.
func PointsForNextLevel(level int) (int, bool) {
	if level >= progress.MaxLevel {
		return 0, false
	}
	return level * PointsPerLevel, true
}

// LevelTitle returns the title for level, or the first title when level is
// unknown.
func LevelTitle(level int, lang locale.Language) string {
	t, ok := levelTitles[level]
	if !ok {
		t = levelTitles[progress.MinLevel]
	}
	return t.In(lang)
}

// LevelProgress returns how far the points are between the current level's
// floor and the next threshold, in [0, 1]. The top level is always 1.
func LevelProgress(p *progress.UserProgress) float64 {
	next, ok := PointsForNextLevel(p.CurrentLevel)
	if !ok {
		return 1
	}
	floor := (p.CurrentLevel - 1) * PointsPerLevel
	f := float64(p.TotalPoints-floor) / float64(next-floor)
	return max(0, min(1, f))
}
