package wake

import "testing"

func TestClassifierExplicitTermination(t *testing.T) {
	c := NewClassifier("zed")

	tests := []struct {
		name string
		text string
	}{
		{"exact goodbye", "goodbye"},
		{"exact with punctuation", "Goodbye!"},
		{"prefix with trailing words", "goodbye, see you later"},
		{"im done", "I'm done"},
		{"im done without apostrophe", "im done"},
		{"stop session", "stop session"},
		{"end session", "end session please"},
		{"quit", "quit"},
		{"thank you with agent name", "thank you zed"},
		{"thanks with agent name embedded", "okay thanks zed that was great"},
		{"bye with agent name", "bye zed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !c.IsTermination(tt.text) {
				t.Errorf("IsTermination(%q) = false, want true", tt.text)
			}
		})
	}
}

func TestClassifierNeverMatchesAffirmations(t *testing.T) {
	c := NewClassifier("zed")

	// These occur constantly during normal tutoring and must never end
	// the session.
	tests := []string{
		"correct",
		"that's correct",
		"I got it",
		"I understand",
		"that makes sense",
		"oh I see",
		"yes",
		"no",
		"thank you",
		"thanks",
		"thanks a lot",
		"right, so the variance is zero",
	}

	for _, text := range tests {
		if c.IsTermination(text) {
			t.Errorf("IsTermination(%q) = true, want false", text)
		}
	}
}

func TestClassifierWordBoundary(t *testing.T) {
	c := NewClassifier("zed")

	// "quit" as a prefix requires a word boundary; "quite" must not
	// match.
	if c.IsTermination("quite interesting") {
		t.Error("IsTermination(\"quite interesting\") = true, want false")
	}
	if !c.IsTermination("quit now") {
		t.Error("IsTermination(\"quit now\") = false, want true")
	}
}

func TestClassifierIdempotent(t *testing.T) {
	c := NewClassifier("zed")

	for _, text := range []string{"goodbye", "thank you", "I'm done!"} {
		first := c.IsTermination(text)
		second := c.IsTermination(text)
		if first != second {
			t.Errorf("IsTermination(%q) not stable: %v then %v", text, first, second)
		}
	}
}

func TestClassifierCustomPhrases(t *testing.T) {
	c := NewClassifier("ava", "farewell ava", "hang up")

	if !c.IsTermination("hang up") {
		t.Error("Custom phrase should match exactly")
	}
	if !c.IsTermination("well, farewell ava, talk soon") {
		t.Error("Agent-qualified custom phrase should match on containment")
	}
	if c.IsTermination("goodbye") {
		t.Error("Default phrases should not apply when custom ones are given")
	}
}
