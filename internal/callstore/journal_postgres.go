package callstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"call-assistant/internal/classify"
)

// PostgresJournal persists call log entries in a single table. Same contract
// as FileJournal; selected via STORE_BACKEND=postgres.
//
// Schema (applied out of band):
//
//	CREATE TABLE IF NOT EXISTS call_logs (
//	    id                TEXT PRIMARY KEY,
//	    phone_number      TEXT NOT NULL,
//	    caller_name       TEXT NOT NULL DEFAULT '',
//	    session_key       TEXT NOT NULL UNIQUE,
//	    created_at        TIMESTAMPTZ NOT NULL,
//	    duration          INT NOT NULL DEFAULT 0,
//	    topic             TEXT NOT NULL,
//	    category          TEXT NOT NULL,
//	    notification_sent BOOLEAN NOT NULL DEFAULT FALSE,
//	    transcript        TEXT NOT NULL DEFAULT '',
//	    additional_info   TEXT NOT NULL DEFAULT ''
//	);
type PostgresJournal struct {
	db *sql.DB
}

func NewPostgresJournal(db *sql.DB) *PostgresJournal {
	return &PostgresJournal{db: db}
}

func (j *PostgresJournal) Append(ctx context.Context, e CallLogEntry) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO call_logs
			(id, phone_number, caller_name, session_key, created_at, duration,
			 topic, category, notification_sent, transcript, additional_info)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.PhoneNumber, e.CallerName, e.SessionKey, e.CreatedAt, e.DurationSeconds,
		e.Topic, string(e.Category), e.NotificationSent, e.Transcript, e.AdditionalInfo,
	)
	if err != nil {
		return fmt.Errorf("%w: insert: %v", ErrStorage, err)
	}
	return nil
}

func (j *PostgresJournal) Update(ctx context.Context, sessionKey string, u Update) (bool, error) {
	sets := make([]string, 0, 7)
	args := make([]any, 0, 8)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if u.CallerName != nil {
		add("caller_name", *u.CallerName)
	}
	if u.Topic != nil {
		add("topic", *u.Topic)
	}
	if u.Category != nil {
		add("category", string(*u.Category))
	}
	if u.NotificationSent != nil {
		add("notification_sent", *u.NotificationSent)
	}
	if u.Transcript != nil {
		add("transcript", *u.Transcript)
	}
	if u.AdditionalInfo != nil {
		add("additional_info", *u.AdditionalInfo)
	}
	if u.DurationSeconds != nil {
		add("duration", *u.DurationSeconds)
	}
	if len(sets) == 0 {
		return j.exists(ctx, sessionKey)
	}

	args = append(args, sessionKey)
	q := fmt.Sprintf("UPDATE call_logs SET %s WHERE session_key = $%d",
		strings.Join(sets, ", "), len(args))

	res, err := j.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, fmt.Errorf("%w: update: %v", ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: update result: %v", ErrStorage, err)
	}
	return n > 0, nil
}

func (j *PostgresJournal) List(ctx context.Context) ([]CallLogEntry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, phone_number, caller_name, session_key, created_at, duration,
		       topic, category, notification_sent, transcript, additional_info
		FROM call_logs`)
	if err != nil {
		return nil, fmt.Errorf("%w: select: %v", ErrStorage, err)
	}
	defer rows.Close()

	out := []CallLogEntry{}
	for rows.Next() {
		var e CallLogEntry
		var category string
		if err := rows.Scan(&e.ID, &e.PhoneNumber, &e.CallerName, &e.SessionKey,
			&e.CreatedAt, &e.DurationSeconds, &e.Topic, &category,
			&e.NotificationSent, &e.Transcript, &e.AdditionalInfo); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrStorage, err)
		}
		e.Category = classify.Category(category)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrStorage, err)
	}
	return out, nil
}

func (j *PostgresJournal) exists(ctx context.Context, sessionKey string) (bool, error) {
	var one int
	err := j.db.QueryRowContext(ctx,
		"SELECT 1 FROM call_logs WHERE session_key = $1", sessionKey).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: exists: %v", ErrStorage, err)
	}
	return true, nil
}
