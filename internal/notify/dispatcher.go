package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"call-assistant/pkg/logger"
)

// ErrDispatch wraps notification channel failures. Dispatch is best-effort:
// callers log the error and keep going, it never reaches the phone line.
var ErrDispatch = errors.New("notify: dispatch failed")

// Notification is what the subscriber receives for an important call.
type Notification struct {
	PhoneNumber string    `json:"phone_number"`
	CallerName  string    `json:"caller_name,omitempty"`
	Topic       string    `json:"topic"`
	Summary     string    `json:"summary"`
	Timestamp   time.Time `json:"timestamp"`
}

// Dispatcher is the outbound notification contract. Implementations must be
// safe for concurrent use.
type Dispatcher interface {
	Notify(ctx context.Context, n Notification) error
}

// LogDispatcher records notifications in the structured log. Default when no
// webhook bridge is configured; useful in development and tests.
type LogDispatcher struct{}

func (LogDispatcher) Notify(ctx context.Context, n Notification) error {
	logger.From(ctx).Info("subscriber notification",
		"phone_number", n.PhoneNumber,
		"caller_name", n.CallerName,
		"topic", n.Topic,
		"summary", n.Summary,
	)
	return nil
}

// WebhookDispatcher POSTs the notification as JSON to a configured bridge
// endpoint (email/WhatsApp relay). The relay's delivery semantics are its
// own concern.
type WebhookDispatcher struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

func NewWebhookDispatcher(url string, timeout time.Duration) *WebhookDispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookDispatcher{
		URL:     url,
		Client:  &http.Client{Timeout: timeout},
		Timeout: timeout,
	}
}

func (d *WebhookDispatcher) Notify(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrDispatch, err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: request: %v", ErrDispatch, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDispatch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: bridge returned %d", ErrDispatch, resp.StatusCode)
	}
	return nil
}
