// Package router maps navigable paths to screens and applies the access
// policy for protected screens.
package router

import "strings"

// Screen identifies one top-level screen of the application.
type Screen string

const (
	ScreenLanding     Screen = "landing"
	ScreenInformation Screen = "information"
	ScreenLogin       Screen = "login"
	ScreenSignup      Screen = "signup"
	ScreenDashboard   Screen = "dashboard"
	ScreenNotFound    Screen = "not_found"
)

// Panel identifies one of the dashboard sub-screens.
type Panel string

const (
	PanelOverview  Panel = "overview"
	PanelDocking   Panel = "docking"
	PanelScreening Panel = "screening"
	PanelQuantum   Panel = "quantum"
	PanelDataset   Panel = "dataset"
	PanelReports   Panel = "results"
	PanelChatbot   Panel = "chatbot"
	PanelSettings  Panel = "settings"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

var publicScreens = map[string]Screen{
	"/":            ScreenLanding,
	"/information": ScreenInformation,
	"/login":       ScreenLogin,
	"/signup":      ScreenSignup,
}

var panelTitles = map[Panel]string{
	PanelOverview:  "Dashboard",
	PanelDocking:   "Molecular Docking",
	PanelScreening: "Virtual Screening",
	PanelQuantum:   "Quantum Module",
	PanelDataset:   "Dataset Explorer",
	PanelReports:   "Results & Reports",
	PanelChatbot:   "AI Assistant",
	PanelSettings:  "Profile Settings",
}

var screenTitles = map[Screen]string{
	ScreenLanding:     "Quantum Pipeline",
	ScreenInformation: "About the Platform",
	ScreenLogin:       "Welcome Back",
	ScreenSignup:      "Join Our Research",
	ScreenNotFound:    "Page Not Found",
}

// Resolution is the outcome of routing one path.
type Resolution struct {
	Screen Screen
	// Panel is set only for the dashboard screen.
	Panel Panel
	// Redirect is non-empty when the caller must navigate elsewhere instead
	// of rendering.
	Redirect string
}

// Protected reports whether rendering the resolution needs an identity.
func (r Resolution) Protected() bool {
	return r.Screen == ScreenDashboard
}

// Title is the display title of the resolved screen or panel.
func (r Resolution) Title() string {
	if r.Screen == ScreenDashboard {
		return panelTitles[r.Panel]
	}
	return screenTitles[r.Screen]
}

// Resolve routes path for a client whose authentication flag is
// authenticated. Protected paths redirect to the login screen when the
// client is not authenticated.
func Resolve(path string, authenticated bool) Resolution {
	path = normalize(path)

	if screen, ok := publicScreens[path]; ok {
		return Resolution{Screen: screen}
	}

	if path == DashboardPath || strings.HasPrefix(path, DashboardPath+"/") {
		if !authenticated {
			return Resolution{Screen: ScreenLogin, Redirect: LoginPath}
		}
		return Resolution{
			Screen: ScreenDashboard,
			Panel:  ResolvePanel(strings.TrimPrefix(path, DashboardPath)),
		}
	}

	return Resolution{Screen: ScreenNotFound}
}

// ResolvePanel maps a dashboard sub-path to its panel. Unmatched sub-paths
// fall back to the overview.
func ResolvePanel(sub string) Panel {
	sub = strings.Trim(sub, "/")
	if sub == "" {
		return PanelOverview
	}
	p := Panel(sub)
	if _, ok := panelTitles[p]; ok && p != PanelOverview {
		return p
	}
	return PanelOverview
}

// Panels lists the dashboard panels in sidebar order.
func Panels() []Panel {
	return []Panel{
		PanelOverview,
		PanelDocking,
		PanelScreening,
		PanelQuantum,
		PanelDataset,
		PanelReports,
		PanelChatbot,
		PanelSettings,
	}
}

// PanelPath is the navigable path of a panel.
func PanelPath(p Panel) string {
	if p == PanelOverview {
		return DashboardPath
	}
	return DashboardPath + "/" + string(p)
}

// PanelTitle is the sidebar label of a panel.
func PanelTitle(p Panel) string {
	return panelTitles[p]
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
