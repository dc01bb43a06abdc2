package telephony

import (
	"net/http"

	"call-assistant/internal/conversation"
	"call-assistant/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handler converts Twilio voice webhooks to orchestrator turns and writes
// TwiML back. One endpoint per conversation stage.
//
// Contract with the voice channel: every request gets a well-formed TwiML
// response, HTTP 200, no matter what failed. An error page or 5xx would
// leave the caller in dead air.
type Handler struct {
	Orchestrator *conversation.Orchestrator
	Actions      StageActions
}

func NewHandler(o *conversation.Orchestrator) *Handler {
	return &Handler{Orchestrator: o, Actions: DefaultStageActions()}
}

// HandleIncoming answers a new call: greeting plus intent prompt.
func (h *Handler) HandleIncoming(c *gin.Context) {
	form, ok := h.parse(c)
	if !ok {
		return
	}
	script := h.Orchestrator.HandleCallStart(c.Request.Context(), conversation.StartTurn{
		PhoneNumber: form.From,
		SessionKey:  form.CallSid,
	})
	h.respond(c, script)
}

// HandleProcess receives the first transcribed utterance.
func (h *Handler) HandleProcess(c *gin.Context) {
	form, ok := h.parse(c)
	if !ok {
		return
	}
	script := h.Orchestrator.HandleIntentTurn(c.Request.Context(), conversation.IntentTurn{
		PhoneNumber: form.From,
		SessionKey:  form.CallSid,
		Utterance:   form.SpeechResult,
	})
	h.respond(c, script)
}

// HandleFollowup receives the second utterance after a probe.
func (h *Handler) HandleFollowup(c *gin.Context) {
	form, ok := h.parse(c)
	if !ok {
		return
	}
	script := h.Orchestrator.HandleFollowupTurn(c.Request.Context(), conversation.FollowupTurn{
		SessionKey: form.CallSid,
		Utterance:  form.SpeechResult,
	})
	h.respond(c, script)
}

// HandleStatus receives Twilio status callbacks and records the final call
// duration on terminal states. No TwiML expected here.
func (h *Handler) HandleStatus(c *gin.Context) {
	log := logger.FromGin(c)

	form, err := ParseVoiceForm(c.Request)
	if err != nil {
		log.Warn("status callback parse failed", "err", err)
		c.Status(http.StatusOK)
		return
	}
	if !form.IsTerminal() {
		c.Status(http.StatusOK)
		return
	}

	err = h.Orchestrator.HandleCallEnd(c.Request.Context(), conversation.EndTurn{
		SessionKey:      form.CallSid,
		DurationSeconds: form.CallDuration,
	})
	if err != nil {
		// Best effort: the sweep will eventually evict the session anyway.
		log.Error("call end update failed", "session_key", form.CallSid, "err", err)
	}
	c.Status(http.StatusOK)
}

func (h *Handler) parse(c *gin.Context) (VoiceForm, bool) {
	form, err := ParseVoiceForm(c.Request)
	if err != nil {
		logger.FromGin(c).Warn("voice webhook parse failed", "err", err)
		h.respond(c, conversation.Fallback())
		return VoiceForm{}, false
	}
	return form, true
}

func (h *Handler) respond(c *gin.Context, script conversation.Script) {
	xml, err := RenderTwiML(script, h.Actions)
	if err != nil {
		logger.FromGin(c).Error("twiml render failed", "err", err)
		// Last resort: a bare hangup document is always renderable.
		xml, _ = RenderTwiML(conversation.Script{Hangup: true}, h.Actions)
	}
	c.Header("Content-Type", "text/xml")
	c.String(http.StatusOK, xml)
}
