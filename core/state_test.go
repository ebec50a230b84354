package core

import (
	"errors"
	"testing"
)

func TestInitialState(t *testing.T) {
	s := InitialState()
	if s.Emotion != EmotionNeutral || s.Sentiment != SentimentNeutral || s.Intensity != IntensityLow {
		t.Errorf("unexpected initial state %v", s)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("initial state should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		state   EmotionalState
		wantErr bool
	}{
		{"valid", EmotionalState{EmotionSad, SentimentNegative, IntensityHigh}, false},
		{"open emotion set", EmotionalState{"bored", SentimentNeutral, IntensityMedium}, false},
		{"empty emotion", EmotionalState{"", SentimentNeutral, IntensityLow}, true},
		{"bad sentiment", EmotionalState{EmotionHappy, "ecstatic", IntensityLow}, true},
		{"bad intensity", EmotionalState{EmotionHappy, SentimentPositive, "extreme"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidState) {
					t.Errorf("expected ErrInvalidState, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	s := EmotionalState{" Happy ", "POSITIVE", "High"}.Normalize()
	want := EmotionalState{EmotionHappy, SentimentPositive, IntensityHigh}
	if s != want {
		t.Errorf("Normalize() = %v, want %v", s, want)
	}
}

func TestSentimentFor(t *testing.T) {
	if SentimentFor(EmotionExcited) != SentimentPositive {
		t.Error("excited should be positive")
	}
	if SentimentFor(EmotionAngry) != SentimentNegative {
		t.Error("angry should be negative")
	}
	if SentimentFor("whatever") != SentimentNeutral {
		t.Error("unknown should be neutral")
	}
}

func TestCueKnown(t *testing.T) {
	for _, c := range Cues {
		if !c.Known() {
			t.Errorf("%q should be known", c)
		}
	}
	if Cue("fanfare").Known() {
		t.Error("fanfare should not be known")
	}
}
