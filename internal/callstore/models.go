package callstore

import (
	"time"

	"call-assistant/internal/classify"
)

// CallLogEntry is the durable record of one answered call.
//
// Invariant: exactly one entry exists per session key. Follow-up turns and
// call-end events update the entry in place; nothing ever duplicates it.
//
// Optional fields use omitempty so that later additions stay backward
// compatible with journals written by older builds.
type CallLogEntry struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phone_number"`
	CallerName  string `json:"caller_name,omitempty"`

	// SessionKey is the telephony provider's call identifier (Twilio CallSid),
	// the sole correlation token across webhook turns.
	SessionKey string `json:"session_key"`

	CreatedAt time.Time `json:"created_at"`

	// DurationSeconds stays 0 until the provider reports call end.
	DurationSeconds int `json:"duration"`

	Topic            string            `json:"topic"`
	Category         classify.Category `json:"category"`
	NotificationSent bool              `json:"notification_sent"`

	Transcript     string `json:"transcript,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// Update is a partial merge applied to the entry matching a session key.
// Nil fields are left untouched. Setting DurationSeconds signals call
// termination and removes the session from the active registry.
type Update struct {
	CallerName       *string
	Topic            *string
	Category         *classify.Category
	NotificationSent *bool
	Transcript       *string
	AdditionalInfo   *string
	DurationSeconds  *int
}

func (u Update) apply(e *CallLogEntry) {
	if u.CallerName != nil {
		e.CallerName = *u.CallerName
	}
	if u.Topic != nil {
		e.Topic = *u.Topic
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
	if u.NotificationSent != nil {
		e.NotificationSent = *u.NotificationSent
	}
	if u.Transcript != nil {
		e.Transcript = *u.Transcript
	}
	if u.AdditionalInfo != nil {
		e.AdditionalInfo = *u.AdditionalInfo
	}
	if u.DurationSeconds != nil {
		e.DurationSeconds = *u.DurationSeconds
	}
}

// ActiveCall is the volatile view of a session between its first logged turn
// and its terminating update or staleness eviction.
type ActiveCall struct {
	SessionKey  string    `json:"session_key"`
	PhoneNumber string    `json:"phone_number"`
	CallerName  string    `json:"caller_name,omitempty"`
	StartTime   time.Time `json:"start_time"`
}

// ActiveCallView is what external queriers see: the most recently started
// active call with its duration computed at read time.
type ActiveCallView struct {
	ActiveCall

	// Duration is formatted m:ss for display.
	Duration string `json:"duration"`
}
