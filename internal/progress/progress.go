// Package progress owns the player's persisted progress record: its model,
// integrity checksum, load/save against the key-value store, the legacy
// two-key format, and backup files.
package progress

import (
	"slices"
	"strconv"
	"strings"

	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/locale"
)

// Bounds enforced on every load.
const (
	MinLevel  = 1
	MaxLevel  = 6
	MaxPoints = 500
)

// Theme is the UI color scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == Light || t == Dark
}

// Other returns the opposite theme.
func (t Theme) Other() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Settings are the player's display preferences.
type Settings struct {
	Language locale.Language `json:"language"`
	Theme    Theme           `json:"theme"`
}

// AnswerRecord marks a question as answered and whether it was correct.
type AnswerRecord struct {
	Answered bool `json:"answered"`
	Correct  bool `json:"correct"`
}

// UserProgress is the single persisted record. Field order is part of the
// serialized form and therefore of the checksum input.
type UserProgress struct {
	SelectedCharacter   *string                 `json:"selectedCharacter"`
	CurrentLevel        int                     `json:"currentLevel"`
	TotalPoints         int                     `json:"totalPoints"`
	CompletedCategories []category.ID           `json:"completedCategories"`
	AnsweredQuestions   map[string]AnswerRecord `json:"answeredQuestions"`
	Souvenirs           []string                `json:"souvenirs"`
	Snacks              []string                `json:"snacks"`
	Settings            Settings                `json:"settings"`
}

// NewDefault returns a fresh record using the given settings.
func NewDefault(s Settings) *UserProgress {
	return &UserProgress{
		CurrentLevel:        MinLevel,
		CompletedCategories: []category.ID{},
		AnsweredQuestions:   map[string]AnswerRecord{},
		Souvenirs:           []string{},
		Snacks:              []string{},
		Settings:            s,
	}
}

// Clone returns a deep copy of p.
func (p *UserProgress) Clone() *UserProgress {
	c := *p
	if p.SelectedCharacter != nil {
		ch := *p.SelectedCharacter
		c.SelectedCharacter = &ch
	}
	c.CompletedCategories = slices.Clone(p.CompletedCategories)
	c.Souvenirs = slices.Clone(p.Souvenirs)
	c.Snacks = slices.Clone(p.Snacks)
	c.AnsweredQuestions = make(map[string]AnswerRecord, len(p.AnsweredQuestions))
	for k, v := range p.AnsweredQuestions {
		c.AnsweredQuestions[k] = v
	}
	return &c
}

// IsAnswered reports whether the question has an answer record.
func (p *UserProgress) IsAnswered(questionID string) bool {
	_, ok := p.AnsweredQuestions[questionID]
	return ok
}

// HasCompleted reports whether the category's completion was recorded.
func (p *UserProgress) HasCompleted(id category.ID) bool {
	return slices.Contains(p.CompletedCategories, id)
}

// AllCategoriesComplete reports whether every fixed category is complete.
func (p *UserProgress) AllCategoriesComplete() bool {
	return len(p.CompletedCategories) >= category.Count
}

// HasSouvenir reports whether the souvenir is owned.
func (p *UserProgress) HasSouvenir(id string) bool {
	return slices.Contains(p.Souvenirs, id)
}

// HasSnack reports whether the snack is owned.
func (p *UserProgress) HasSnack(id string) bool {
	return slices.Contains(p.Snacks, id)
}

// CharacterID returns the selected character id, or "" if none.
func (p *UserProgress) CharacterID() string {
	if p.SelectedCharacter == nil {
		return ""
	}
	return *p.SelectedCharacter
}

// DetectTheme resolves the default theme. pref is an explicit "light" or
// "dark"; otherwise the terminal background is read from a COLORFGBG value
// such as "15;0", where a background of 0-6 or 8 is dark.
func DetectTheme(pref, colorfgbg string) Theme {
	if t := Theme(strings.ToLower(pref)); t.Valid() {
		return t
	}
	parts := strings.Split(colorfgbg, ";")
	bg, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return Light
	}
	if (bg >= 0 && bg <= 6) || bg == 8 {
		return Dark
	}
	return Light
}

// Sanitize repairs out-of-range values in place and returns the names of
// the fields it changed.
func Sanitize(p *UserProgress, defaults Settings) []string {
	var changed []string

	if p.CurrentLevel < MinLevel || p.CurrentLevel > MaxLevel {
		p.CurrentLevel = MinLevel
		changed = append(changed, "currentLevel")
	}
	if p.TotalPoints < 0 || p.TotalPoints > MaxPoints {
		p.TotalPoints = 0
		changed = append(changed, "totalPoints")
	}

	completed := make([]category.ID, 0, len(p.CompletedCategories))
	for _, id := range p.CompletedCategories {
		if id.Valid() && !slices.Contains(completed, id) {
			completed = append(completed, id)
		}
	}
	if len(completed) != len(p.CompletedCategories) {
		changed = append(changed, "completedCategories")
	}
	p.CompletedCategories = completed

	if p.AnsweredQuestions == nil {
		p.AnsweredQuestions = map[string]AnswerRecord{}
	}
	if p.Souvenirs == nil {
		p.Souvenirs = []string{}
	}
	if p.Snacks == nil {
		p.Snacks = []string{}
	}

	if !p.Settings.Language.Valid() {
		p.Settings.Language = defaults.Language
		changed = append(changed, "settings.language")
	}
	if !p.Settings.Theme.Valid() {
		p.Settings.Theme = defaults.Theme
		changed = append(changed, "settings.theme")
	}
	return changed
}
