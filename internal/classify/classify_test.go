package classify

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestClassify_SpamDominates(t *testing.T) {
	// Contains both spam ("lottery") and important ("urgent") terms; spam must win.
	a := Classify("This is urgent, you won the lottery, call now")
	if a.Category != CategorySpam {
		t.Fatalf("expected spam, got %s", a.Category)
	}
	if a.NeedsMoreInfo {
		t.Fatalf("spam must never request more info")
	}
	if a.Topic != "Promotional/Spam call" {
		t.Fatalf("unexpected spam topic %q", a.Topic)
	}
}

func TestClassify_SpamSummaryTruncatedAt100(t *testing.T) {
	long := "congratulations " + strings.Repeat("x", 200)
	a := Classify(long)
	if a.Category != CategorySpam {
		t.Fatalf("expected spam")
	}
	if len(a.Summary) != 100 {
		t.Fatalf("expected 100-char summary, got %d", len(a.Summary))
	}
}

func TestClassify_SummaryTruncatesOnRuneBoundary(t *testing.T) {
	// "congratulations" is 15 bytes, so the two-byte runes start at odd
	// offsets and the 100-byte cut would land mid-rune.
	a := Classify("congratulations" + strings.Repeat("ñ", 100))
	if a.Category != CategorySpam {
		t.Fatalf("expected spam")
	}
	if !utf8.ValidString(a.Summary) {
		t.Fatalf("summary is not valid UTF-8: %q", a.Summary)
	}
	if len(a.Summary) != 99 {
		t.Fatalf("expected cut backed up to 99 bytes, got %d", len(a.Summary))
	}
}

func TestClassify_ImportantKeywords(t *testing.T) {
	a := Classify("I need to talk about an urgent deadline for the client project we discussed")
	if a.Category != CategoryImportant {
		t.Fatalf("expected important, got %s", a.Category)
	}
	if a.NeedsMoreInfo {
		t.Fatalf("13-word utterance should not need more info")
	}
}

func TestClassify_ShortUtteranceNeedsMoreInfo(t *testing.T) {
	a := Classify("hello there")
	if a.Category != CategoryCasual {
		t.Fatalf("expected casual, got %s", a.Category)
	}
	if !a.NeedsMoreInfo {
		t.Fatalf("2-word utterance must need more info")
	}
	if a.Topic != "General Call" {
		t.Fatalf("expected default topic, got %q", a.Topic)
	}
}

func TestClassify_CallerNameExtraction(t *testing.T) {
	cases := []struct {
		utterance string
		want      string
	}{
		{"This is John Smith, I have an urgent business proposal for a contract", "John Smith"},
		{"my name is Ali and I want to ask a question about the delivery", "Ali"},
		{"I am Sara Khan calling about the interview scheduled for tomorrow morning", "Sara Khan"},
		{"calling about the invoice you sent to our office last week again", ""},
	}
	for _, tc := range cases {
		a := Classify(tc.utterance)
		if a.CallerName != tc.want {
			t.Fatalf("utterance %q: expected name %q, got %q", tc.utterance, tc.want, a.CallerName)
		}
	}
}

func TestClassify_TopicPriorityOrder(t *testing.T) {
	// "meeting" outranks "business" when both appear.
	a := Classify("I want a business meeting with the team about everything next week please")
	if a.Topic != "Meeting/Appointment Request" {
		t.Fatalf("expected meeting topic to win, got %q", a.Topic)
	}
}

func TestClassify_BusinessScenario(t *testing.T) {
	a := Classify("This is John Smith, I have an urgent business proposal for a contract")
	if a.Category != CategoryImportant {
		t.Fatalf("expected important, got %s", a.Category)
	}
	if a.Topic != "Business Inquiry" {
		t.Fatalf("expected Business Inquiry, got %q", a.Topic)
	}
	if a.NeedsMoreInfo {
		t.Fatalf("12-word utterance should be complete")
	}
}

func TestClassify_Deterministic(t *testing.T) {
	u := "my name is Omar Farooq and I need help with a payment issue today"
	first := Classify(u)
	for i := 0; i < 5; i++ {
		if got := Classify(u); got != first {
			t.Fatalf("classification not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestRespond_Precedence(t *testing.T) {
	if got := Respond(CategorySpam, true); !strings.Contains(got, "not interested") {
		t.Fatalf("spam response expected, got %q", got)
	}
	if got := Respond(CategoryImportant, true); !strings.Contains(got, "more details") {
		t.Fatalf("needs-more-info must outrank important, got %q", got)
	}
	if got := Respond(CategoryImportant, false); !strings.Contains(got, "immediately notify Mr. Shah") {
		t.Fatalf("important response expected, got %q", got)
	}
	if got := Respond(CategoryCasual, false); !strings.Contains(got, "noted your message") {
		t.Fatalf("casual response expected, got %q", got)
	}
	if got := Respond("", false); got != FollowupAcknowledgment() {
		t.Fatalf("default response expected, got %q", got)
	}
}
