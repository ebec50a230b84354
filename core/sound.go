package core

// Cue names a short fire-and-forget audio or visual effect
type Cue string

const (
	CueClick        Cue = "click"        // Navigation, toggles
	CueSuccess      Cue = "success"      // Celebration
	CueNotification Cue = "notification" // Welcome, alerts
)

// Cues is the fixed set of cue names understood by the effect player
var Cues = []Cue{CueClick, CueSuccess, CueNotification}

// Known reports whether c belongs to the fixed cue set
func (c Cue) Known() bool {
	switch c {
	case CueClick, CueSuccess, CueNotification:
		return true
	}
	return false
}

// EffectKind identifies a bounded effect window
type EffectKind string

const (
	EffectCelebration EffectKind = "celebration"
)

// RouteKey is an opaque identifier for a navigable screen
type RouteKey string

const (
	RouteDashboard RouteKey = "/"
	RouteAnalysis  RouteKey = "/analysis"
	RouteChat      RouteKey = "/chat"
	RouteSettings  RouteKey = "/settings"
)

// Routes lists the screens of the application in menu order
var Routes = []RouteKey{RouteDashboard, RouteAnalysis, RouteChat, RouteSettings}
