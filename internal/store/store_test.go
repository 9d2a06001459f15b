package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"kv_items", "answer_events", "reward_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestKVGetMissing(t *testing.T) {
	kv := openTestStore(t).KV()

	_, ok, err := kv.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expected missing key")
	}
}

func TestKVSetOverwrites(t *testing.T) {
	kv := openTestStore(t).KV()
	ctx := context.Background()

	if err := kv.Set(ctx, "k", "one"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "k", "two"); err != nil {
		t.Fatalf("set again: %v", err)
	}

	got, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != "two" {
		t.Errorf("value = %q, want %q", got, "two")
	}
}

func TestKVDelete(t *testing.T) {
	kv := openTestStore(t).KV()
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		if err := kv.Set(ctx, k, k); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	if err := kv.Delete(ctx, "a", "b", "missing"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := kv.Delete(ctx); err != nil {
		t.Fatalf("delete none: %v", err)
	}

	for k, want := range map[string]bool{"a": false, "b": false, "c": true} {
		_, ok, err := kv.Get(ctx, k)
		if err != nil {
			t.Fatalf("get %s: %v", k, err)
		}
		if ok != want {
			t.Errorf("key %s present = %v, want %v", k, ok, want)
		}
	}
}

func TestKVDeletePrefix(t *testing.T) {
	kv := openTestStore(t).KV()
	ctx := context.Background()

	for _, k := range []string{"app_progress", "app_flag", "other"} {
		if err := kv.Set(ctx, k, "x"); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}

	n, err := kv.DeletePrefix(ctx, "app_")
	if err != nil {
		t.Fatalf("delete prefix: %v", err)
	}
	if n != 2 {
		t.Errorf("removed = %d, want 2", n)
	}
	if _, ok, _ := kv.Get(ctx, "other"); !ok {
		t.Error("unrelated key was removed")
	}
}

func TestKVPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.KV().Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, ok, err := s.KV().Get(ctx, "k")
	if err != nil || !ok || got != "v" {
		t.Errorf("get after reopen = %q, %v, %v", got, ok, err)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		if want := int64(i + 1); seq != want {
			t.Errorf("seq[%d] = %d, want %d", i, seq, want)
		}
	}
}

func TestAnswerEvents(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	for i, correct := range []bool{true, false, true} {
		err := repo.AppendAnswerEvent(ctx, AnswerEventData{
			SessionID:  "s1",
			QuestionID: string(rune('a' + i)),
			Category:   "food",
			Outcome:    "best",
			Points:     10,
			Correct:    correct,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if err := repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s2", QuestionID: "z"}); err != nil {
		t.Fatalf("append s2: %v", err)
	}

	all, err := repo.QueryAnswerEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len = %d, want 4", len(all))
	}
	if all[0].QuestionID != "z" {
		t.Errorf("newest question = %q, want z", all[0].QuestionID)
	}

	s1, err := repo.QueryAnswerEvents(ctx, QueryOpts{SessionID: "s1", Limit: 2})
	if err != nil {
		t.Fatalf("query s1: %v", err)
	}
	if len(s1) != 2 {
		t.Fatalf("len = %d, want 2", len(s1))
	}
	if s1[0].QuestionID != "c" || !s1[0].Correct {
		t.Errorf("first = %+v, want question c correct", s1[0])
	}
	if s1[1].Correct {
		t.Error("second record should be incorrect")
	}

	after, err := repo.QueryAnswerEvents(ctx, QueryOpts{After: 2})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("after=2 len = %d, want 2", len(after))
	}
}

func TestRewardEventsShareSequence(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	if err := repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s", QuestionID: "1"}); err != nil {
		t.Fatalf("append answer: %v", err)
	}
	if err := repo.AppendRewardEvent(ctx, RewardEventData{SessionID: "s", Kind: "snack", ItemID: "🍡", Reason: "category_complete"}); err != nil {
		t.Fatalf("append snack: %v", err)
	}
	if err := repo.AppendRewardEvent(ctx, RewardEventData{SessionID: "s", Kind: "souvenir", ItemID: "🍣", Category: "food", Reason: "threshold"}); err != nil {
		t.Fatalf("append souvenir: %v", err)
	}

	got, err := repo.QueryRewardEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Sequence != 3 || got[0].Category != "food" {
		t.Errorf("newest = %+v, want sequence 3 in food", got[0])
	}
	if got[1].Sequence != 2 || got[1].Category != "" {
		t.Errorf("oldest = %+v, want sequence 2 without category", got[1])
	}
}

func TestKVDeletePrefixIsLiteral(t *testing.T) {
	kv := openTestStore(t).KV()
	ctx := context.Background()

	for _, k := range []string{"a_b", "axb", "a_", "a`"} {
		if err := kv.Set(ctx, k, "x"); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}

	n, err := kv.DeletePrefix(ctx, "a_")
	if err != nil {
		t.Fatalf("delete prefix: %v", err)
	}
	if n != 2 {
		t.Errorf("removed = %d, want 2", n)
	}
	for _, k := range []string{"axb", "a`"} {
		if _, ok, _ := kv.Get(ctx, k); !ok {
			t.Errorf("key %s should survive", k)
		}
	}
}

func TestPrefixUpperBound(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"app_", "app`", true},
		{"a\xff", "b", true},
		{"\xff\xff", "", false},
	}
	for _, tt := range tests {
		got, ok := prefixUpperBound(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("prefixUpperBound(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestClearEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s", QuestionID: "1"}); err != nil {
		t.Fatalf("append answer: %v", err)
	}
	if err := repo.AppendRewardEvent(ctx, RewardEventData{SessionID: "s", Kind: "snack", ItemID: "🍡"}); err != nil {
		t.Fatalf("append reward: %v", err)
	}
	if err := s.KV().Set(ctx, "keep", "me"); err != nil {
		t.Fatalf("set: %v", err)
	}

	n, err := s.ClearEvents(ctx)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n != 2 {
		t.Errorf("removed = %d, want 2", n)
	}
	if got, _ := repo.QueryAnswerEvents(ctx, QueryOpts{}); len(got) != 0 {
		t.Errorf("answer events left: %d", len(got))
	}
	if _, ok, _ := s.KV().Get(ctx, "keep"); !ok {
		t.Error("key-value data should survive")
	}
}
