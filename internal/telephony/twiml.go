package telephony

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"call-assistant/internal/conversation"
)

// Minimal TwiML response builder. It intentionally avoids any provider SDK
// dependency; only the verbs this assistant speaks are modeled.

const (
	sayVoice    = "Polly.Joanna"
	sayLanguage = "en-US"
)

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type twimlSay struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr"`
	Language string   `xml:"language,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

type twimlGather struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr"`
	Action        string   `xml:"action,attr"`
	Method        string   `xml:"method,attr"`
	SpeechTimeout string   `xml:"speechTimeout,attr"`
	Language      string   `xml:"language,attr"`
	Say           twimlSay `xml:"Say"`
}

type twimlHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// StageActions maps a conversation stage to the webhook path Twilio should
// post the gathered speech to.
type StageActions struct {
	Intent   string
	Followup string
}

func DefaultStageActions() StageActions {
	return StageActions{
		Intent:   "/webhooks/twilio/process",
		Followup: "/webhooks/twilio/followup",
	}
}

func (a StageActions) actionFor(stage conversation.Stage) (string, error) {
	switch stage {
	case conversation.StageIntent:
		return a.Intent, nil
	case conversation.StageFollowup:
		return a.Followup, nil
	default:
		return "", fmt.Errorf("telephony: unknown gather stage %q", stage)
	}
}

// RenderTwiML maps a voice Script to TwiML.
func RenderTwiML(s conversation.Script, actions StageActions) (string, error) {
	var r twimlResponse

	for _, line := range s.Say {
		r.Verbs = append(r.Verbs, say(line))
	}
	if s.Gather != nil {
		action, err := actions.actionFor(s.Gather.Stage)
		if err != nil {
			return "", err
		}
		r.Verbs = append(r.Verbs, twimlGather{
			Input:         "speech",
			Action:        action,
			Method:        "POST",
			SpeechTimeout: "auto",
			Language:      sayLanguage,
			Say:           say(s.Gather.Prompt),
		})
	}
	for _, line := range s.AfterGather {
		r.Verbs = append(r.Verbs, say(line))
	}
	if s.Hangup {
		r.Verbs = append(r.Verbs, twimlHangup{})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func say(text string) twimlSay {
	return twimlSay{Voice: sayVoice, Language: sayLanguage, Text: text}
}
