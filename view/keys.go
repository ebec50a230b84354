package view

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/echolens/core"
)

// ActionKind classifies a key press
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionNavigate
	ActionEmotion
	ActionToggleDark
	ActionToggleMute
	ActionQuit
)

// Action is the intent behind a key press
type Action struct {
	Kind  ActionKind
	Route core.RouteKey       // ActionNavigate
	State core.EmotionalState // ActionEmotion
}

// SampleEmotions binds keys to injectable states
var SampleEmotions = map[rune]core.EmotionalState{
	'h': {Emotion: core.EmotionHappy, Sentiment: core.SentimentPositive, Intensity: core.IntensityHigh},
	'e': {Emotion: core.EmotionExcited, Sentiment: core.SentimentPositive, Intensity: core.IntensityHigh},
	's': {Emotion: core.EmotionSad, Sentiment: core.SentimentNegative, Intensity: core.IntensityMedium},
	'a': {Emotion: core.EmotionAngry, Sentiment: core.SentimentNegative, Intensity: core.IntensityHigh},
	'n': {Emotion: core.EmotionNeutral, Sentiment: core.SentimentNeutral, Intensity: core.IntensityLow},
}

// KeyAction maps a key event to an Action
func KeyAction(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Action{Kind: ActionQuit}
	case tcell.KeyRune:
	default:
		return Action{}
	}

	r := ev.Rune()
	switch r {
	case 'q':
		return Action{Kind: ActionQuit}
	case 'd':
		return Action{Kind: ActionToggleDark}
	case 'm':
		return Action{Kind: ActionToggleMute}
	case '1', '2', '3', '4':
		return Action{Kind: ActionNavigate, Route: core.Routes[r-'1']}
	}
	if state, ok := SampleEmotions[r]; ok {
		return Action{Kind: ActionEmotion, State: state}
	}
	return Action{}
}
