// Package session sequences quiz play: category selection, questions,
// feedback, and the interludes that follow an answer.
package session

import (
	"errors"

	"github.com/wheninja/wheninja/internal/catalog"
	"github.com/wheninja/wheninja/internal/progression"
	"github.com/wheninja/wheninja/internal/rewards"
)

// Phase is the controller state.
type Phase int

const (
	PhaseIdle        Phase = iota // choosing a category
	PhaseAnswering                // a question is shown
	PhaseFeedback                 // the answer's feedback is shown
	PhaseInterlude                // a popup is shown
	PhaseAllComplete              // every category is complete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAnswering:
		return "answering"
	case PhaseFeedback:
		return "feedback"
	case PhaseInterlude:
		return "interlude"
	case PhaseAllComplete:
		return "all_complete"
	default:
		return "unknown"
	}
}

// InterludeKind identifies a popup shown between questions.
type InterludeKind int

const (
	InterludeSouvenir InterludeKind = iota
	InterludeLevelUp
	InterludeChat
	InterludeSnack
)

func (k InterludeKind) String() string {
	switch k {
	case InterludeSouvenir:
		return "souvenir"
	case InterludeLevelUp:
		return "level_up"
	case InterludeChat:
		return "chat"
	case InterludeSnack:
		return "snack"
	default:
		return "unknown"
	}
}

// Interlude is one pending popup.
type Interlude struct {
	Kind  InterludeKind
	Item  rewards.Item      // souvenir or snack
	Level int               // new level
	Chat  *catalog.ChatLine // chat line
}

// Feedback is the outcome of an answer, shown in PhaseFeedback.
type Feedback struct {
	Question *catalog.Question
	Result   progression.Result
	Souvenir *rewards.Item
	LevelUp  progression.LevelUp
}

var (
	ErrInvalidPhase     = errors.New("operation not allowed in the current phase")
	ErrAlreadyAnswered  = errors.New("question already answered")
	ErrAllComplete      = errors.New("all categories are complete")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownCharacter = errors.New("unknown character")
	ErrLockedCharacter  = errors.New("character is locked")
)
