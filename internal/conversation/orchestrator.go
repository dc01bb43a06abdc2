package conversation

import (
	"context"
	"strings"
	"time"

	"call-assistant/internal/callstore"
	"call-assistant/internal/classify"
	"call-assistant/internal/notify"
	"call-assistant/pkg/logger"
)

// Orchestrator turns stateless webhook invocations into a coherent dialogue.
//
// There is no in-process continuation: every turn rebuilds what it needs from
// the Store using the session key, decides the next Script, and returns. The
// per-session state machine is Greeting -> AwaitingIntent -> Responding ->
// AwaitingFollowup -> Closed; which handler fires encodes the current state,
// the Store carries everything that must survive between turns.
//
// Invariant: every handler returns a valid Script no matter what fails
// underneath. Storage and dispatch errors degrade to logging.
type Orchestrator struct {
	store      *callstore.Store
	dispatcher notify.Dispatcher
	clock      func() time.Time
}

func New(store *callstore.Store, dispatcher notify.Dispatcher) *Orchestrator {
	return &Orchestrator{store: store, dispatcher: dispatcher, clock: time.Now}
}

// StartTurn is the first inbound event for a session.
type StartTurn struct {
	PhoneNumber string
	SessionKey  string
}

// IntentTurn carries the caller's first transcribed utterance. Utterance is
// empty when speech recognition failed or timed out.
type IntentTurn struct {
	PhoneNumber string
	SessionKey  string
	Utterance   string
}

// FollowupTurn carries the second utterance after a needs-more-info probe.
type FollowupTurn struct {
	SessionKey string
	Utterance  string
}

// EndTurn is the provider's call-terminated event with the final duration.
type EndTurn struct {
	SessionKey      string
	DurationSeconds int
}

// HandleCallStart greets the caller and prompts for the reason of the call.
// No Store interaction yet: an unengaged call must leave no record.
func (o *Orchestrator) HandleCallStart(ctx context.Context, turn StartTurn) Script {
	return o.run(ctx, Fallback(), func() Script {
		logger.From(ctx).Info("call started",
			"session_key", turn.SessionKey, "phone_number", turn.PhoneNumber)
		return Script{
			Say:         []string{lineGreeting},
			Gather:      &GatherPrompt{Prompt: lineIntentPrompt, Stage: StageIntent},
			AfterGather: []string{lineNoInput},
		}
	})
}

// HandleIntentTurn classifies the utterance, creates the call record,
// notifies the subscriber for important calls, and either probes for more
// detail or signs off.
func (o *Orchestrator) HandleIntentTurn(ctx context.Context, turn IntentTurn) Script {
	return o.run(ctx, Fallback(), func() Script {
		log := logger.From(ctx)

		utterance := strings.TrimSpace(turn.Utterance)
		if utterance == "" {
			// Unengaged call: close without logging empty noise.
			return Script{Say: []string{lineNotUnderstood}, Hangup: true}
		}

		analysis := classify.Classify(utterance)
		response := classify.Respond(analysis.Category, analysis.NeedsMoreInfo)

		_, err := o.store.Append(ctx, callstore.CallLogEntry{
			PhoneNumber:      turn.PhoneNumber,
			CallerName:       analysis.CallerName,
			SessionKey:       turn.SessionKey,
			Topic:            analysis.Topic,
			Category:         analysis.Category,
			Transcript:       utterance,
			NotificationSent: analysis.Category == classify.CategoryImportant,
		})
		if err != nil {
			// The spoken response is already decided; a storage failure must
			// not break the conversation.
			log.Error("call log append failed", "session_key", turn.SessionKey, "err", err)
		}

		if analysis.Category == classify.CategoryImportant {
			o.dispatch(ctx, notify.Notification{
				PhoneNumber: turn.PhoneNumber,
				CallerName:  analysis.CallerName,
				Topic:       analysis.Topic,
				Summary:     analysis.Summary,
				Timestamp:   o.clock().UTC(),
			})
		}

		if analysis.NeedsMoreInfo {
			return Script{
				Say:    []string{response},
				Gather: &GatherPrompt{Prompt: lineFollowupPrompt, Stage: StageFollowup},
			}
		}

		signoff := lineCasualSignoff
		if analysis.Category == classify.CategoryImportant {
			signoff = lineImportantSignoff
		}
		return Script{Say: []string{response, signoff}, Hangup: true}
	})
}

// HandleFollowupTurn records the caller's additional detail and closes.
func (o *Orchestrator) HandleFollowupTurn(ctx context.Context, turn FollowupTurn) Script {
	return o.run(ctx, fallbackFollowupScript(), func() Script {
		utterance := strings.TrimSpace(turn.Utterance)
		if utterance == "" {
			// The original entry already exists; leave it as-is.
			return Script{Say: []string{lineFollowupEmpty}, Hangup: true}
		}

		if err := o.store.Update(ctx, turn.SessionKey, callstore.Update{
			AdditionalInfo: &utterance,
		}); err != nil {
			logger.From(ctx).Error("call log update failed",
				"session_key", turn.SessionKey, "err", err)
		}

		return Script{
			Say:    []string{classify.FollowupAcknowledgment(), lineFollowupSignoff},
			Hangup: true,
		}
	})
}

// HandleCallEnd records the final duration reported by the provider, which
// also removes the session from the active registry. Status callbacks expect
// no voice script, so this returns only an error for the caller to log.
func (o *Orchestrator) HandleCallEnd(ctx context.Context, turn EndTurn) error {
	return o.store.Update(ctx, turn.SessionKey, callstore.Update{
		DurationSeconds: &turn.DurationSeconds,
	})
}

// dispatchTimeout bounds a single notification attempt once it has been
// detached from the request.
const dispatchTimeout = 10 * time.Second

// dispatch notifies the subscriber, fire-and-forget: the voice response must
// not wait on the bridge, so the attempt runs in its own goroutine with a
// detached context. Failures are logged and never reach the caller.
func (o *Orchestrator) dispatch(ctx context.Context, n notify.Notification) {
	if o.dispatcher == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
		defer cancel()
		if err := o.dispatcher.Notify(ctx, n); err != nil {
			logger.From(ctx).Error("notification dispatch failed",
				"phone_number", n.PhoneNumber, "err", err)
		}
	}()
}

// run executes a turn with panic containment: whatever happens, the voice
// channel gets a coherent script.
func (o *Orchestrator) run(ctx context.Context, fallback Script, fn func() Script) (s Script) {
	defer func() {
		if r := recover(); r != nil {
			logger.From(ctx).Error("turn handler panicked", "panic", r)
			s = fallback
		}
	}()
	return fn()
}
