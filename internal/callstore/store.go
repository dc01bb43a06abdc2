package callstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"call-assistant/pkg/logger"

	"github.com/google/uuid"
)

const (
	// DefaultSweepPeriod is how often the staleness sweep runs.
	DefaultSweepPeriod = time.Minute

	// DefaultStaleAfter is the inactivity age at which an active session is
	// presumed abandoned (e.g., the terminating webhook never arrived).
	DefaultStaleAfter = 10 * time.Minute
)

// Store owns the durable call log and the volatile active-call registry.
//
// All mutations are serialized through a single mutex so that concurrent
// webhook turns, the staleness sweep, and the journal's whole-log
// read-modify-write never corrupt each other. Reads (ListAll, GetActive)
// take no part in that serialization.
type Store struct {
	journal  Journal
	registry Registry

	mu sync.Mutex // serializes journal + registry mutations

	sweepPeriod time.Duration
	staleAfter  time.Duration

	clock func() time.Time
	newID func() string
}

func New(journal Journal, registry Registry) *Store {
	return &Store{
		journal:     journal,
		registry:    registry,
		sweepPeriod: DefaultSweepPeriod,
		staleAfter:  DefaultStaleAfter,
		clock:       time.Now,
		newID:       uuid.NewString,
	}
}

// Append assigns an id and creation timestamp, persists the entry, and
// registers the session as active. The returned entry carries the assigned
// fields.
func (s *Store) Append(ctx context.Context, e CallLogEntry) (CallLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.newID()
	e.CreatedAt = s.clock().UTC()

	if err := s.journal.Append(ctx, e); err != nil {
		return CallLogEntry{}, err
	}
	if err := s.registry.Put(ctx, ActiveCall{
		SessionKey:  e.SessionKey,
		PhoneNumber: e.PhoneNumber,
		CallerName:  e.CallerName,
		StartTime:   e.CreatedAt,
	}); err != nil {
		// The durable entry exists; a registry failure only degrades the
		// active-call indicator.
		return e, err
	}
	return e, nil
}

// Update merges fields into the entry matching sessionKey. No-op when no
// such entry exists; it never creates one. A duration update additionally
// deactivates the session.
func (s *Store) Update(ctx context.Context, sessionKey string, u Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.journal.Update(ctx, sessionKey, u); err != nil {
		return err
	}
	if u.DurationSeconds != nil {
		return s.registry.Remove(ctx, sessionKey)
	}
	return nil
}

// ListAll returns every entry, most recent first.
func (s *Store) ListAll(ctx context.Context) ([]CallLogEntry, error) {
	logs, err := s.journal.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].CreatedAt.After(logs[j].CreatedAt)
	})
	return logs, nil
}

// GetActive returns the most recently started active call with its duration
// computed live, or nil when no call is in progress.
func (s *Store) GetActive(ctx context.Context) (*ActiveCallView, error) {
	calls, err := s.registry.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if len(calls) == 0 {
		return nil, nil
	}

	mostRecent := calls[0]
	for _, c := range calls[1:] {
		if c.StartTime.After(mostRecent.StartTime) {
			mostRecent = c
		}
	}

	elapsed := int(s.clock().Sub(mostRecent.StartTime) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	return &ActiveCallView{
		ActiveCall: mostRecent,
		Duration:   fmt.Sprintf("%d:%02d", elapsed/60, elapsed%60),
	}, nil
}

// Run drives the staleness sweep until ctx is canceled. Owned by the Store's
// lifecycle: started from main alongside the HTTP server.
func (s *Store) Run(ctx context.Context) {
	log := logger.From(ctx)
	ticker := time.NewTicker(s.sweepPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.sweep(ctx); err != nil {
				log.Warn("active-call sweep failed", "err", err)
			} else if n > 0 {
				log.Info("evicted stale active calls", "count", n)
			}
		}
	}
}

// sweep removes active entries older than staleAfter. It runs under the same
// mutation serialization as Update so a legitimate termination update is
// never lost to a racing eviction.
func (s *Store) sweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	calls, err := s.registry.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	now := s.clock()
	evicted := 0
	for _, c := range calls {
		if now.Sub(c.StartTime) > s.staleAfter {
			if err := s.registry.Remove(ctx, c.SessionKey); err != nil {
				return evicted, err
			}
			evicted++
		}
	}
	return evicted, nil
}
