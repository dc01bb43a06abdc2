package dashboard

import (
	"context"
	"fmt"

	"call-assistant/internal/callstore"
	"call-assistant/internal/classify"
)

// Service aggregates the Store's query surface for the dashboard UI.
// Read-only: the dashboard never mutates call records.
type Service struct {
	store *callstore.Store
}

func NewService(store *callstore.Store) *Service { return &Service{store: store} }

// Stats summarizes the call history for the dashboard header cards.
type Stats struct {
	TotalCalls     int `json:"total_calls"`
	ImportantCalls int `json:"important_calls"`
	CasualCalls    int `json:"casual_calls"`
	SpamCalls      int `json:"spam_calls"`

	// AverageDuration is formatted m:ss over all logged calls.
	AverageDurationSeconds int    `json:"average_duration_seconds"`
	AverageDuration        string `json:"average_duration"`
}

func (s *Service) Logs(ctx context.Context) ([]callstore.CallLogEntry, error) {
	return s.store.ListAll(ctx)
}

func (s *Service) Active(ctx context.Context) (*callstore.ActiveCallView, error) {
	return s.store.GetActive(ctx)
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	logs, err := s.store.ListAll(ctx)
	if err != nil {
		return Stats{}, err
	}

	out := Stats{TotalCalls: len(logs)}
	total := 0
	for _, e := range logs {
		total += e.DurationSeconds
		switch e.Category {
		case classify.CategoryImportant:
			out.ImportantCalls++
		case classify.CategoryCasual:
			out.CasualCalls++
		case classify.CategorySpam:
			out.SpamCalls++
		}
	}
	if out.TotalCalls > 0 {
		out.AverageDurationSeconds = total / out.TotalCalls
	}
	out.AverageDuration = fmt.Sprintf("%d:%02d",
		out.AverageDurationSeconds/60, out.AverageDurationSeconds%60)
	return out, nil
}
