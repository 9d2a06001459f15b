package session

import (
	"time"

	"github.com/wheninja/wheninja/internal/rewards"
)

// Summary holds what happened during one run of the game.
type Summary struct {
	Duration time.Duration
	Answered int
	Correct  int
	Accuracy float64
	Points   int
	Awards   []rewards.Award
}

// Summary builds the summary of the session so far.
func (c *Controller) Summary() Summary {
	var accuracy float64
	if c.answered > 0 {
		accuracy = float64(c.correct) / float64(c.answered)
	}
	return Summary{
		Duration: time.Since(c.startedAt),
		Answered: c.answered,
		Correct:  c.correct,
		Accuracy: accuracy,
		Points:   c.points,
		Awards:   append([]rewards.Award(nil), c.rewards.SessionAwards...),
	}
}
