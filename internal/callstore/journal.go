package callstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrStorage wraps failures of the durable medium. Callers treat it as
// non-fatal to the conversation: log and keep speaking.
var ErrStorage = errors.New("callstore: storage unavailable")

// Journal is the persistence contract for call log entries.
//
// Update must be a no-op returning found=false when no entry matches the
// session key; journals never create entries implicitly.
type Journal interface {
	Append(ctx context.Context, e CallLogEntry) error
	Update(ctx context.Context, sessionKey string, u Update) (found bool, err error)
	List(ctx context.Context) ([]CallLogEntry, error)
}

// FileJournal keeps the whole log as one JSON array on disk and rewrites it
// on every mutation. Best-effort single-writer durability; the Store
// serializes all calls into it.
type FileJournal struct {
	path string
}

func NewFileJournal(path string) *FileJournal {
	return &FileJournal{path: path}
}

func (j *FileJournal) Append(ctx context.Context, e CallLogEntry) error {
	logs, err := j.load()
	if err != nil {
		return err
	}
	logs = append(logs, e)
	return j.save(logs)
}

func (j *FileJournal) Update(ctx context.Context, sessionKey string, u Update) (bool, error) {
	logs, err := j.load()
	if err != nil {
		return false, err
	}
	for i := range logs {
		if logs[i].SessionKey == sessionKey {
			u.apply(&logs[i])
			return true, j.save(logs)
		}
	}
	return false, nil
}

func (j *FileJournal) List(ctx context.Context) ([]CallLogEntry, error) {
	return j.load()
}

// load self-initializes: a missing file or empty file reads as an empty log.
func (j *FileJournal) load() ([]CallLogEntry, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []CallLogEntry{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, j.path, err)
	}
	if len(data) == 0 {
		return []CallLogEntry{}, nil
	}
	var logs []CallLogEntry
	if err := json.Unmarshal(data, &logs); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStorage, j.path, err)
	}
	return logs, nil
}

// save replaces the log atomically: a concurrent reader sees the old file or
// the new file, never a partial write.
func (j *FileJournal) save(logs []CallLogEntry) error {
	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir: %v", ErrStorage, err)
	}
	data, err := json.MarshalIndent(logs, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrStorage, err)
	}

	tmp, err := os.CreateTemp(dir, "call-logs-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: temp file: %v", ErrStorage, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write %s: %v", ErrStorage, j.path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: chmod %s: %v", ErrStorage, j.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: close %s: %v", ErrStorage, j.path, err)
	}
	if err := os.Rename(tmp.Name(), j.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: replace %s: %v", ErrStorage, j.path, err)
	}
	return nil
}
