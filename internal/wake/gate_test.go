package wake

import "testing"

func TestGateDetect(t *testing.T) {
	gate := NewGate()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"plain wake phrase", "Hey Zed", true},
		{"embedded in sentence", "okay so, hey zed, wake up please", true},
		{"comma between words", "Hey, Zed!", true},
		{"misrecognized zad", "hey zad how are you", true},
		{"misrecognized said", "Hey said", true},
		{"joined spelling", "HeyZed", true},
		{"trailing period", "hey z.", true},
		{"unrelated speech", "what is the midterm worth", false},
		{"empty", "", false},
		{"just the name", "zed", false},
		{"greeting without name", "hey there", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate.Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestGateCustomSpellings(t *testing.T) {
	gate := NewGate("ok computer")

	if !gate.Detect("OK, Computer?") {
		t.Error("Custom spelling should match case/punctuation insensitively")
	}
	if gate.Detect("hey zed") {
		t.Error("Default spellings should not apply when custom ones are given")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hey, Zed!", "hey zed"},
		{"  I'm   DONE.  ", "im done"},
		{"goodbye", "goodbye"},
		{"...", ""},
	}

	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
