package core

import (
	"errors"
	"fmt"
	"strings"
)

// EmotionLabel tags the detected affect, the set is open
type EmotionLabel string

const (
	EmotionNeutral    EmotionLabel = "neutral"
	EmotionHappy      EmotionLabel = "happy"
	EmotionExcited    EmotionLabel = "excited"
	EmotionContent    EmotionLabel = "content"
	EmotionSad        EmotionLabel = "sad"
	EmotionAngry      EmotionLabel = "angry"
	EmotionSurprised  EmotionLabel = "surprised"
	EmotionConfused   EmotionLabel = "confused"
	EmotionFrustrated EmotionLabel = "frustrated"
	EmotionConcerned  EmotionLabel = "concerned"
	EmotionSarcastic  EmotionLabel = "sarcastic"
)

// KnownEmotions lists the labels the detection pipeline is able to produce
var KnownEmotions = []EmotionLabel{
	EmotionHappy, EmotionExcited, EmotionContent, EmotionSad, EmotionAngry,
	EmotionSurprised, EmotionConfused, EmotionFrustrated, EmotionNeutral,
	EmotionConcerned, EmotionSarcastic,
}

// SentimentLabel is one of negative, neutral, positive
type SentimentLabel string

const (
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentPositive SentimentLabel = "positive"
)

// IntensityLabel is one of low, medium, high
type IntensityLabel string

const (
	IntensityLow    IntensityLabel = "low"
	IntensityMedium IntensityLabel = "medium"
	IntensityHigh   IntensityLabel = "high"
)

// ErrInvalidState is returned by Validate for labels outside the closed sets
var ErrInvalidState = errors.New("invalid emotional state")

// EmotionalState is a value type, always replaced wholesale
type EmotionalState struct {
	Emotion   EmotionLabel   `json:"emotion" yaml:"emotion"`
	Sentiment SentimentLabel `json:"sentiment" yaml:"sentiment"`
	Intensity IntensityLabel `json:"intensity" yaml:"intensity"`
}

// InitialState is the value held at process start
func InitialState() EmotionalState {
	return EmotionalState{
		Emotion:   EmotionNeutral,
		Sentiment: SentimentNeutral,
		Intensity: IntensityLow,
	}
}

// Normalize lower-cases and trims all labels
func (s EmotionalState) Normalize() EmotionalState {
	return EmotionalState{
		Emotion:   EmotionLabel(strings.ToLower(strings.TrimSpace(string(s.Emotion)))),
		Sentiment: SentimentLabel(strings.ToLower(strings.TrimSpace(string(s.Sentiment)))),
		Intensity: IntensityLabel(strings.ToLower(strings.TrimSpace(string(s.Intensity)))),
	}
}

// Validate checks the closed label sets; emotion only needs to be non-empty
func (s EmotionalState) Validate() error {
	if s.Emotion == "" {
		return fmt.Errorf("%w: empty emotion", ErrInvalidState)
	}
	switch s.Sentiment {
	case SentimentNegative, SentimentNeutral, SentimentPositive:
	default:
		return fmt.Errorf("%w: sentiment %q", ErrInvalidState, s.Sentiment)
	}
	switch s.Intensity {
	case IntensityLow, IntensityMedium, IntensityHigh:
	default:
		return fmt.Errorf("%w: intensity %q", ErrInvalidState, s.Intensity)
	}
	return nil
}

// String returns "emotion/sentiment/intensity" for logs
func (s EmotionalState) String() string {
	return string(s.Emotion) + "/" + string(s.Sentiment) + "/" + string(s.Intensity)
}

// SentimentFor returns the conventional sentiment of a known emotion
// Unknown labels map to neutral
func SentimentFor(e EmotionLabel) SentimentLabel {
	switch e {
	case EmotionHappy, EmotionExcited, EmotionContent:
		return SentimentPositive
	case EmotionSad, EmotionAngry, EmotionFrustrated, EmotionConcerned, EmotionSarcastic:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
