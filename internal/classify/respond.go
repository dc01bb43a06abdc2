package classify

// Fixed response templates spoken back to the caller. Selection precedence:
// spam > needs-more-info > important > casual > follow-up default.
const (
	responseSpam = "Thank you for your call, but I'm afraid we are not interested at this time. Have a good day."

	responseNeedsMoreInfo = "I understand. Could you please provide more details about the purpose of your call? This will help me assist you better."

	responseImportant = "Thank you for sharing this information. I have noted all the details and will immediately notify Mr. Shah. He will review your message and get back to you as soon as possible. Is there anything else you would like me to relay?"

	responseCasual = "Thank you for calling. I have noted your message. If this matter becomes urgent, please feel free to call again, and I will ensure Mr. Shah is notified immediately."

	responseFollowup = "Thank you for the additional information. I have recorded everything. Mr. Shah will be in touch with you soon."
)

// Respond picks the spoken response for an analysis outcome.
// Pure; the orchestrator composes the returned text into a voice script.
func Respond(category Category, needsMoreInfo bool) string {
	switch {
	case category == CategorySpam:
		return responseSpam
	case needsMoreInfo:
		return responseNeedsMoreInfo
	case category == CategoryImportant:
		return responseImportant
	case category == CategoryCasual:
		return responseCasual
	default:
		return responseFollowup
	}
}

// FollowupAcknowledgment is the fixed closing line for the follow-up turn.
func FollowupAcknowledgment() string {
	return responseFollowup
}
