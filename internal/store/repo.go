package store

import (
	"context"
	"time"
)

// KeyValue is a string-keyed document store. Values are opaque strings.
type KeyValue interface {
	// Get returns the value for key. ok is false if the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// DeletePrefix removes every key starting with prefix and returns the
	// number of keys removed.
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	SessionID string    // exact match when set
}

// AnswerEventData captures one scored answer.
type AnswerEventData struct {
	SessionID  string
	QuestionID string
	Category   string
	Outcome    string
	Points     int
	Correct    bool
}

// AnswerEventRecord is a persisted answer event.
type AnswerEventRecord struct {
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// RewardEventData captures one granted souvenir or snack.
type RewardEventData struct {
	SessionID string
	Kind      string
	ItemID    string
	Category  string // empty for snacks
	Reason    string
}

// RewardEventRecord is a persisted reward event.
type RewardEventRecord struct {
	Sequence  int64
	Timestamp time.Time
	RewardEventData
}

// EventRepo provides append and query access to the play history log.
type EventRepo interface {
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	QueryAnswerEvents(ctx context.Context, opts QueryOpts) ([]AnswerEventRecord, error)

	AppendRewardEvent(ctx context.Context, data RewardEventData) error
	QueryRewardEvents(ctx context.Context, opts QueryOpts) ([]RewardEventRecord, error)
}
