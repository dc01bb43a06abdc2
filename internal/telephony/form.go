package telephony

import (
	"net/http"
	"strconv"
	"strings"
)

// VoiceForm captures the subset of Twilio voice webhook fields this service
// consumes. Twilio posts application/x-www-form-urlencoded by default.
//
// Keep it minimal and provider-adapter-only; conversation logic never sees
// raw form fields.
type VoiceForm struct {
	CallSid      string
	From         string
	To           string
	CallStatus   string
	SpeechResult string

	// CallDuration is only present on status callbacks, in whole seconds.
	CallDuration int
}

func ParseVoiceForm(r *http.Request) (VoiceForm, error) {
	if err := r.ParseForm(); err != nil {
		return VoiceForm{}, err
	}
	f := VoiceForm{
		CallSid:      r.PostFormValue("CallSid"),
		From:         strings.TrimSpace(r.PostFormValue("From")),
		To:           strings.TrimSpace(r.PostFormValue("To")),
		CallStatus:   r.PostFormValue("CallStatus"),
		SpeechResult: r.PostFormValue("SpeechResult"),
	}
	if v := r.PostFormValue("CallDuration"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.CallDuration = n
		}
	}
	return f, nil
}

// IsTerminal reports whether a status callback marks the end of the call.
func (f VoiceForm) IsTerminal() bool {
	switch f.CallStatus {
	case "completed", "failed", "busy", "no-answer", "canceled":
		return true
	default:
		return false
	}
}
