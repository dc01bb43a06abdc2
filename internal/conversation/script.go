package conversation

// Stage names the webhook endpoint that should receive the next speech turn.
type Stage string

const (
	StageIntent   Stage = "intent"
	StageFollowup Stage = "followup"
)

// GatherPrompt asks the caller to speak and routes the transcription to the
// named stage.
type GatherPrompt struct {
	Prompt string
	Stage  Stage
}

// Script is the provider-agnostic voice document one turn produces. The
// telephony adapter renders it to the provider's markup (TwiML).
//
// Playback order: Say lines, then the gather (if any), then AfterGather
// lines, which the provider only reaches when the gather produced no speech.
type Script struct {
	Say         []string
	Gather      *GatherPrompt
	AfterGather []string
	Hangup      bool
}

// Fixed dialogue lines. The assistant persona and subscriber name are part
// of the product script, not configuration.
const (
	lineGreeting     = "Assalamualaikum. This is Iqra, Syed Eman Ali Shah's virtual assistant. How may I help you today?"
	lineIntentPrompt = "Please tell me the reason for your call."
	lineNoInput      = "I did not receive any input. Please call back. Goodbye."

	lineNotUnderstood  = "I could not understand you. Please call back. Goodbye."
	lineFollowupPrompt = "Please provide more details."

	lineImportantSignoff = "I have notified Mr. Shah about your call. He will get back to you shortly. Thank you for calling."
	lineCasualSignoff    = "Thank you for reaching out. Have a peaceful day ahead. Allah Hafiz."

	lineFollowupEmpty   = "Thank you for your time. Goodbye."
	lineFollowupSignoff = "Thank you for the information. Have a peaceful day ahead. Allah Hafiz."

	lineFallback         = "I apologize, but I am experiencing technical difficulties. Please try calling back later. Goodbye."
	lineFallbackFollowup = "Thank you. Goodbye."
)

// Fallback is the apologetic script used when a turn cannot be handled at
// all (for example, an unparsable webhook). The voice channel must always
// receive something coherent.
func Fallback() Script {
	return Script{Say: []string{lineFallback}, Hangup: true}
}

func fallbackFollowupScript() Script {
	return Script{Say: []string{lineFallbackFollowup}, Hangup: true}
}
