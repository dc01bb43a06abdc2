package callstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"call-assistant/internal/classify"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(NewFileJournal(filepath.Join(t.TempDir(), "call-logs.json")), NewMemoryRegistry())
	return s
}

func TestStore_AppendAssignsIDAndTimestamp(t *testing.T) {
	s := newTestStore(t)
	before := time.Now().UTC()

	e, err := s.Append(context.Background(), CallLogEntry{
		PhoneNumber: "+15550001111",
		SessionKey:  "CA1",
		Topic:       "General Call",
		Category:    classify.CategoryCasual,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if e.CreatedAt.Before(before) {
		t.Fatalf("timestamp %v before call time %v", e.CreatedAt, before)
	}

	logs, err := s.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 1 || logs[0].ID != e.ID {
		t.Fatalf("expected exactly the appended entry, got %+v", logs)
	}
}

func TestStore_ListAllSortedDescending(t *testing.T) {
	s := newTestStore(t)
	base := time.Unix(1700000000, 0).UTC()
	times := []time.Time{base.Add(2 * time.Minute), base, base.Add(5 * time.Minute)}
	i := 0
	s.clock = func() time.Time { ts := times[i%len(times)]; i++; return ts }

	for _, key := range []string{"CA1", "CA2", "CA3"} {
		if _, err := s.Append(context.Background(), CallLogEntry{SessionKey: key, PhoneNumber: "+1555", Category: classify.CategoryCasual}); err != nil {
			t.Fatalf("append %s: %v", key, err)
		}
	}

	logs, err := s.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for j := 1; j < len(logs); j++ {
		if logs[j].CreatedAt.After(logs[j-1].CreatedAt) {
			t.Fatalf("not sorted descending: %v after %v", logs[j].CreatedAt, logs[j-1].CreatedAt)
		}
	}
}

func TestStore_UpdateMergesInPlace(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Append(context.Background(), CallLogEntry{SessionKey: "CA1", PhoneNumber: "+1555", Category: classify.CategoryImportant}); err != nil {
		t.Fatalf("append: %v", err)
	}

	info := "please call back after five"
	if err := s.Update(context.Background(), "CA1", Update{AdditionalInfo: &info}); err != nil {
		t.Fatalf("update: %v", err)
	}

	logs, _ := s.ListAll(context.Background())
	if len(logs) != 1 {
		t.Fatalf("update must never duplicate, got %d entries", len(logs))
	}
	if logs[0].AdditionalInfo != info {
		t.Fatalf("expected merged info, got %q", logs[0].AdditionalInfo)
	}
	if logs[0].Category != classify.CategoryImportant {
		t.Fatalf("untouched field changed: %q", logs[0].Category)
	}
}

func TestStore_UpdateUnknownKeyIsNoOp(t *testing.T) {
	s := newTestStore(t)
	d := 30
	if err := s.Update(context.Background(), "missing", Update{DurationSeconds: &d}); err != nil {
		t.Fatalf("update: %v", err)
	}
	logs, _ := s.ListAll(context.Background())
	if len(logs) != 0 {
		t.Fatalf("no-op update created an entry: %+v", logs)
	}
}

func TestStore_DurationUpdateDeactivates(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Append(context.Background(), CallLogEntry{SessionKey: "CA1", PhoneNumber: "+1555"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if v, _ := s.GetActive(context.Background()); v == nil {
		t.Fatalf("expected active call after append")
	}

	d := 45
	if err := s.Update(context.Background(), "CA1", Update{DurationSeconds: &d}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if v, _ := s.GetActive(context.Background()); v != nil {
		t.Fatalf("duration update must deactivate, still active: %+v", v)
	}

	logs, _ := s.ListAll(context.Background())
	if logs[0].DurationSeconds != 45 {
		t.Fatalf("expected recorded duration 45, got %d", logs[0].DurationSeconds)
	}
}

func TestStore_GetActiveReturnsMostRecent(t *testing.T) {
	s := newTestStore(t)
	base := time.Unix(1700000000, 0).UTC()
	now := base
	s.clock = func() time.Time { return now }

	if _, err := s.Append(context.Background(), CallLogEntry{SessionKey: "CA1", PhoneNumber: "+1"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	now = base.Add(time.Minute)
	if _, err := s.Append(context.Background(), CallLogEntry{SessionKey: "CA2", PhoneNumber: "+2"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	now = base.Add(time.Minute + 90*time.Second)
	v, err := s.GetActive(context.Background())
	if err != nil {
		t.Fatalf("getActive: %v", err)
	}
	if v == nil || v.SessionKey != "CA2" {
		t.Fatalf("expected most recent CA2, got %+v", v)
	}
	if v.Duration != "1:30" {
		t.Fatalf("expected live duration 1:30, got %q", v.Duration)
	}
}

func TestStore_SweepEvictsStaleSessions(t *testing.T) {
	s := newTestStore(t)
	base := time.Unix(1700000000, 0).UTC()
	now := base
	s.clock = func() time.Time { return now }

	if _, err := s.Append(context.Background(), CallLogEntry{SessionKey: "old", PhoneNumber: "+1"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	now = base.Add(9 * time.Minute)
	if _, err := s.Append(context.Background(), CallLogEntry{SessionKey: "fresh", PhoneNumber: "+2"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	now = base.Add(11 * time.Minute)
	n, err := s.sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}

	v, _ := s.GetActive(context.Background())
	if v == nil || v.SessionKey != "fresh" {
		t.Fatalf("expected fresh session to survive, got %+v", v)
	}
}

func TestStore_GetActiveEmptyRegistry(t *testing.T) {
	s := newTestStore(t)
	v, err := s.GetActive(context.Background())
	if err != nil {
		t.Fatalf("getActive: %v", err)
	}
	if v != nil {
		t.Fatalf("expected nil, got %+v", v)
	}
}
