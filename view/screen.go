// Package view selects and draws screens from a read-only Model
//
// Selection is pure: a route and its pending flag map to exactly one Screen.
// Nothing here schedules or mutates; all temporal behavior lives upstream.
package view

import (
	"time"

	"github.com/lixenwraith/echolens/core"
)

// Screen identifies what the body area shows
type Screen uint8

const (
	ScreenNotFound Screen = iota
	ScreenDashboard
	ScreenAnalysis
	ScreenChat
	ScreenSettings
	ScreenDashboardSkeleton
	ScreenChatSkeleton
)

var screenNames = [...]string{
	ScreenNotFound:          "not-found",
	ScreenDashboard:         "dashboard",
	ScreenAnalysis:          "analysis",
	ScreenChat:              "chat",
	ScreenSettings:          "settings",
	ScreenDashboardSkeleton: "dashboard-skeleton",
	ScreenChatSkeleton:      "chat-skeleton",
}

func (s Screen) String() string {
	if int(s) < len(screenNames) {
		return screenNames[s]
	}
	return "unknown"
}

// IsSkeleton reports whether s is a loading placeholder
func (s Screen) IsSkeleton() bool {
	return s == ScreenDashboardSkeleton || s == ScreenChatSkeleton
}

var resolved = map[core.RouteKey]Screen{
	core.RouteDashboard: ScreenDashboard,
	core.RouteAnalysis:  ScreenAnalysis,
	core.RouteChat:      ScreenChat,
	core.RouteSettings:  ScreenSettings,
}

// Select maps a route and its pending flag to a screen
// Pending chat shows the chat skeleton, any other pending known route the
// dashboard skeleton; unknown routes are not-found regardless of pending
func Select(route core.RouteKey, pending bool) Screen {
	screen, ok := resolved[route]
	if !ok {
		return ScreenNotFound
	}
	if !pending {
		return screen
	}
	if route == core.RouteChat {
		return ScreenChatSkeleton
	}
	return ScreenDashboardSkeleton
}

// Model is the read-only projection a renderer draws
type Model struct {
	State   core.EmotionalState
	Route   core.RouteKey
	Pending bool

	Celebrating        bool
	CelebrationExpires time.Time

	Initializing bool
	DarkMode     bool
	Muted        bool

	Visited []core.RouteKey
}

// Screen returns the body screen of m
func (m Model) Screen() Screen {
	return Select(m.Route, m.Pending)
}
