package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Category buckets every call into one of three handling classes.
type Category string

const (
	CategoryImportant Category = "important"
	CategoryCasual    Category = "casual"
	CategorySpam      Category = "spam"
)

// Analysis is the classifier output for a single utterance.
//
// CallerName is empty unless the caller introduced themselves explicitly;
// it is never guessed.
type Analysis struct {
	Category      Category `json:"category"`
	Topic         string   `json:"topic"`
	CallerName    string   `json:"caller_name,omitempty"`
	Summary       string   `json:"summary"`
	NeedsMoreInfo bool     `json:"needs_more_info"`
}

// Vocabulary driving the rule table. Matching is case-insensitive substring.
var importantKeywords = []string{
	"urgent", "emergency", "business", "meeting", "interview", "job", "project",
	"client", "deadline", "important", "contract", "proposal", "deal",
	"payment", "invoice", "delivery", "order", "appointment",
}

var spamKeywords = []string{
	"lottery", "prize", "winner", "congratulations", "free", "offer",
	"promotion", "discount", "sale", "limited time", "act now",
	"credit card", "loan", "debt", "insurance", "warranty",
}

// topicRules are evaluated in order; the first rule with a matching keyword wins.
var topicRules = []struct {
	keywords []string
	topic    string
}{
	{[]string{"meeting", "appointment", "schedule"}, "Meeting/Appointment Request"},
	{[]string{"job", "interview", "position", "hiring"}, "Job/Interview Related"},
	{[]string{"project", "work", "collaboration"}, "Project Discussion"},
	{[]string{"business", "client", "deal"}, "Business Inquiry"},
	{[]string{"payment", "invoice", "bill"}, "Payment/Financial Matter"},
	{[]string{"delivery", "order", "shipping"}, "Delivery/Order Status"},
	{[]string{"question", "inquiry", "ask"}, "General Inquiry"},
	{[]string{"help", "support", "assistance"}, "Support Request"},
}

const (
	topicSpam    = "Promotional/Spam call"
	topicDefault = "General Call"

	spamSummaryLimit = 100
	summaryLimit     = 150

	// Utterances shorter than this many words are presumed incomplete
	// and trigger a follow-up turn.
	minWordsForCompleteIntent = 10
)

// The lead-in phrase is case-insensitive but the captured name must be
// capitalized words; lowercase tails ("and I want...") are not part of a name.
var callerNameRe = regexp.MustCompile(`(?i:my name is|i am|this is)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)

// Classify maps a transcribed utterance to an Analysis.
//
// The rules run in strict precedence: spam dominates everything, then
// importance, then name/topic extraction. Pure and deterministic; callers
// must not pass an empty utterance (guard at the orchestrator boundary).
func Classify(utterance string) Analysis {
	lower := strings.ToLower(utterance)

	if containsAny(lower, spamKeywords) {
		return Analysis{
			Category: CategorySpam,
			Topic:    topicSpam,
			Summary:  prefix(utterance, spamSummaryLimit),
		}
	}

	category := CategoryCasual
	if containsAny(lower, importantKeywords) {
		category = CategoryImportant
	}

	var callerName string
	if m := callerNameRe.FindStringSubmatch(utterance); m != nil {
		callerName = m[1]
	}

	return Analysis{
		Category:      category,
		Topic:         extractTopic(lower),
		CallerName:    callerName,
		Summary:       prefix(utterance, summaryLimit),
		NeedsMoreInfo: len(strings.Fields(utterance)) < minWordsForCompleteIntent,
	}
}

func extractTopic(lower string) string {
	for _, rule := range topicRules {
		if containsAny(lower, rule.keywords) {
			return rule.topic
		}
	}
	return topicDefault
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// prefix truncates to at most n bytes without splitting a rune.
func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
