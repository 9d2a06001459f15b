package rewards

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/store"
)

// Reasons recorded with each award.
const (
	ReasonCorrectAnswers   = "correct_answers"
	ReasonCategoryComplete = "category_complete"
)

// Service records awards in the event log and keeps the ones granted in
// the current session.
type Service struct {
	eventRepo store.EventRepo
	logger    *zap.Logger

	// SessionAwards accumulates awards granted during the current session.
	SessionAwards []Award
}

// NewService creates a Service. eventRepo may be nil, in which case awards
// are only kept in memory.
func NewService(eventRepo store.EventRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{eventRepo: eventRepo, logger: logger}
}

// AwardSouvenir records a souvenir unlocked by correct answers.
func (s *Service) AwardSouvenir(ctx context.Context, it Item, cat category.ID, sessionID string) *Award {
	return s.record(ctx, &Award{
		Kind:      Souvenir,
		Item:      it,
		Category:  cat,
		SessionID: sessionID,
		Reason:    ReasonCorrectAnswers,
		AwardedAt: time.Now(),
	})
}

// AwardSnack records a snack granted for completing a category.
func (s *Service) AwardSnack(ctx context.Context, it Item, cat category.ID, sessionID string) *Award {
	return s.record(ctx, &Award{
		Kind:      Snack,
		Item:      it,
		Category:  cat,
		SessionID: sessionID,
		Reason:    ReasonCategoryComplete,
		AwardedAt: time.Now(),
	})
}

// ResetSession clears the session accumulator.
func (s *Service) ResetSession() {
	s.SessionAwards = nil
}

func (s *Service) record(ctx context.Context, award *Award) *Award {
	s.persist(ctx, award)
	s.SessionAwards = append(s.SessionAwards, *award)
	return award
}

func (s *Service) persist(ctx context.Context, award *Award) {
	if s.eventRepo == nil {
		return
	}
	err := s.eventRepo.AppendRewardEvent(ctx, store.RewardEventData{
		SessionID: award.SessionID,
		Kind:      string(award.Kind),
		ItemID:    award.Item.ID,
		Category:  string(award.Category),
		Reason:    award.Reason,
	})
	if err != nil {
		s.logger.Warn("append reward event",
			zap.String("kind", string(award.Kind)),
			zap.String("item", award.Item.ID),
			zap.Error(err))
	}
}
