package dashboard

import (
	"context"
	"path/filepath"
	"testing"

	"call-assistant/internal/callstore"
	"call-assistant/internal/classify"
)

func newTestService(t *testing.T) (*Service, *callstore.Store) {
	t.Helper()
	store := callstore.New(
		callstore.NewFileJournal(filepath.Join(t.TempDir(), "call-logs.json")),
		callstore.NewMemoryRegistry(),
	)
	return NewService(store), store
}

func TestStats_EmptyStore(t *testing.T) {
	svc, _ := newTestService(t)
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalCalls != 0 || stats.AverageDuration != "0:00" {
		t.Fatalf("unexpected empty stats: %+v", stats)
	}
}

func TestStats_CountsByCategoryAndAverages(t *testing.T) {
	svc, store := newTestService(t)
	seed := []struct {
		key      string
		category classify.Category
		duration int
	}{
		{"CA1", classify.CategoryImportant, 120},
		{"CA2", classify.CategoryCasual, 60},
		{"CA3", classify.CategorySpam, 0},
	}
	for _, s := range seed {
		if _, err := store.Append(context.Background(), callstore.CallLogEntry{
			SessionKey: s.key, PhoneNumber: "+1555", Category: s.category,
		}); err != nil {
			t.Fatalf("append %s: %v", s.key, err)
		}
		d := s.duration
		if err := store.Update(context.Background(), s.key, callstore.Update{DurationSeconds: &d}); err != nil {
			t.Fatalf("update %s: %v", s.key, err)
		}
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalCalls != 3 || stats.ImportantCalls != 1 || stats.CasualCalls != 1 || stats.SpamCalls != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.AverageDurationSeconds != 60 || stats.AverageDuration != "1:00" {
		t.Fatalf("unexpected average: %+v", stats)
	}
}
