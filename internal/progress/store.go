package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wheninja/wheninja/internal/store"
)

// Storage keys. Every key the game writes starts with KeyPrefix.
const (
	KeyPrefix      = "wheninjapan_"
	RecordKey      = KeyPrefix + "progress"
	LegacyDataKey  = KeyPrefix + "userData"
	LegacyHashKey  = KeyPrefix + "dataHash"
	SeenWarningKey = KeyPrefix + "hasSeenWarning"
)

var (
	// ErrIntegrity means a stored record failed its checksum or could not
	// be decoded. Load recovers from it by returning defaults.
	ErrIntegrity = errors.New("progress record failed integrity check")

	// ErrStorageWrite means a save did not reach durable storage. The
	// in-memory record stays authoritative.
	ErrStorageWrite = errors.New("progress record could not be written")
)

// Source says where a loaded record came from.
type Source int

const (
	SourceDefault   Source = iota // no stored record
	SourceStored                  // current {data, hash} record
	SourceLegacy                  // legacy two-key record
	SourceRecovered               // stored record rejected, defaults used
)

func (s Source) String() string {
	switch s {
	case SourceStored:
		return "stored"
	case SourceLegacy:
		return "legacy"
	case SourceRecovered:
		return "recovered"
	default:
		return "default"
	}
}

// LoadResult is the outcome of Load.
type LoadResult struct {
	Progress *UserProgress
	Source   Source
	Clamped  []string // fields repaired after the integrity check
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Hash string          `json:"hash"`
}

// Store reads and writes the progress record in a key-value store.
type Store struct {
	kv            store.KeyValue
	defaults      Settings
	logger        *zap.Logger
	legacyPending bool
}

// NewStore creates a Store. defaults are the detected settings used for
// fresh records and for repairing invalid settings.
func NewStore(kv store.KeyValue, defaults Settings, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, defaults: defaults, logger: logger}
}

// Defaults returns the settings used for fresh records.
func (s *Store) Defaults() Settings {
	return s.defaults
}

// Load reads the record. It never fails: storage and integrity problems
// are logged and answered with a default record.
func (s *Store) Load(ctx context.Context) LoadResult {
	raw, ok, err := s.kv.Get(ctx, RecordKey)
	if err != nil {
		s.logger.Warn("read progress record", zap.Error(err))
		return s.recovered()
	}
	if ok {
		p, err := decodeRecord(raw)
		if err != nil {
			s.logger.Warn("discarding progress record", zap.Error(err))
			return s.recovered()
		}
		return s.accept(p, SourceStored)
	}
	return s.loadLegacy(ctx)
}

func (s *Store) loadLegacy(ctx context.Context) LoadResult {
	data, ok, err := s.kv.Get(ctx, LegacyDataKey)
	if err != nil {
		s.logger.Warn("read legacy progress record", zap.Error(err))
		return s.recovered()
	}
	if !ok {
		return LoadResult{Progress: NewDefault(s.defaults), Source: SourceDefault}
	}

	hash, ok, err := s.kv.Get(ctx, LegacyHashKey)
	if err != nil {
		s.logger.Warn("read legacy progress hash", zap.Error(err))
		return s.recovered()
	}
	if !ok {
		s.logger.Warn("discarding legacy progress record", zap.Error(fmt.Errorf("%w: hash missing", ErrIntegrity)))
		return s.recovered()
	}

	p, err := verify([]byte(data), hash)
	if err != nil {
		s.logger.Warn("discarding legacy progress record", zap.Error(err))
		return s.recovered()
	}
	s.legacyPending = true
	return s.accept(p, SourceLegacy)
}

func (s *Store) accept(p *UserProgress, src Source) LoadResult {
	clamped := Sanitize(p, s.defaults)
	if len(clamped) > 0 {
		s.logger.Warn("repaired out-of-range progress fields", zap.Strings("fields", clamped))
	}
	return LoadResult{Progress: p, Source: src, Clamped: clamped}
}

func (s *Store) recovered() LoadResult {
	return LoadResult{Progress: NewDefault(s.defaults), Source: SourceRecovered}
}

func decodeRecord(raw string) (*UserProgress, error) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIntegrity, err)
	}
	if len(env.Data) == 0 {
		return nil, fmt.Errorf("%w: data missing", ErrIntegrity)
	}
	return verify(env.Data, env.Hash)
}

// verify checks data against hash and decodes it.
func verify(data []byte, hash string) (*UserProgress, error) {
	if got := Checksum(data); got != hash {
		return nil, fmt.Errorf("%w: checksum %s, stored %s", ErrIntegrity, got, hash)
	}
	var p UserProgress
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIntegrity, err)
	}
	return &p, nil
}

// Encode serializes p into the stored {data, hash} form.
func Encode(p *UserProgress) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal progress: %w", err)
	}
	return json.Marshal(envelope{Data: data, Hash: Checksum(data)})
}

// Save writes p and its checksum in a single upsert. A failure wraps
// ErrStorageWrite.
func (s *Store) Save(ctx context.Context, p *UserProgress) error {
	rec, err := Encode(p)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}
	if err := s.kv.Set(ctx, RecordKey, string(rec)); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}

	if s.legacyPending {
		if err := s.kv.Delete(ctx, LegacyDataKey, LegacyHashKey); err != nil {
			s.logger.Warn("remove legacy progress keys", zap.Error(err))
		} else {
			s.legacyPending = false
		}
	}
	return nil
}

// Clear removes the record and the legacy keys.
func (s *Store) Clear(ctx context.Context) error {
	s.legacyPending = false
	return s.kv.Delete(ctx, RecordKey, LegacyDataKey, LegacyHashKey)
}

// Reset removes every key the game has written.
func (s *Store) Reset(ctx context.Context) error {
	s.legacyPending = false
	n, err := s.kv.DeletePrefix(ctx, KeyPrefix)
	if err != nil {
		return err
	}
	s.logger.Info("storage reset", zap.Int64("keys", n))
	return nil
}

// HasSeenWarning reports whether the first-run storage notice was shown.
func (s *Store) HasSeenWarning(ctx context.Context) bool {
	v, ok, err := s.kv.Get(ctx, SeenWarningKey)
	if err != nil {
		s.logger.Warn("read warning flag", zap.Error(err))
		return false
	}
	return ok && v == "true"
}

// SetSeenWarning records that the storage notice was shown.
func (s *Store) SetSeenWarning(ctx context.Context) error {
	return s.kv.Set(ctx, SeenWarningKey, "true")
}
