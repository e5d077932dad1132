package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var protectedPaths = []string{
	"/dashboard",
	"/dashboard/",
	"/dashboard/docking",
	"/dashboard/screening",
	"/dashboard/quantum",
	"/dashboard/dataset",
	"/dashboard/results",
	"/dashboard/chatbot",
	"/dashboard/settings",
	"/dashboard/unknown/deeper",
}

func TestResolve_ProtectedRedirectsWhenUnauthenticated(t *testing.T) {
	for _, p := range protectedPaths {
		t.Run(p, func(t *testing.T) {
			res := Resolve(p, false)
			assert.Equal(t, ScreenLogin, res.Screen)
			assert.Equal(t, LoginPath, res.Redirect)
			assert.Empty(t, res.Panel)
		})
	}
}

func TestResolve_DashboardPanels(t *testing.T) {
	cases := map[string]Panel{
		"/dashboard":               PanelOverview,
		"/dashboard/":              PanelOverview,
		"/dashboard/docking":       PanelDocking,
		"/dashboard/screening":     PanelScreening,
		"/dashboard/quantum":       PanelQuantum,
		"/dashboard/dataset":       PanelDataset,
		"/dashboard/results":       PanelReports,
		"/dashboard/chatbot":       PanelChatbot,
		"/dashboard/settings/":     PanelSettings,
		"/dashboard/overview":      PanelOverview,
		"/dashboard/nope":          PanelOverview,
		"/dashboard/docking/extra": PanelOverview,
	}
	for path, want := range cases {
		t.Run(path, func(t *testing.T) {
			res := Resolve(path, true)
			assert.Equal(t, ScreenDashboard, res.Screen)
			assert.Equal(t, want, res.Panel)
			assert.Empty(t, res.Redirect)
			assert.True(t, res.Protected())
		})
	}
}

func TestResolve_PublicScreensIgnoreAuthentication(t *testing.T) {
	cases := map[string]Screen{
		"/":             ScreenLanding,
		"":              ScreenLanding,
		"/information":  ScreenInformation,
		"/information/": ScreenInformation,
		"/login":        ScreenLogin,
		"/signup":       ScreenSignup,
	}
	for path, want := range cases {
		for _, authed := range []bool{false, true} {
			res := Resolve(path, authed)
			assert.Equal(t, want, res.Screen, "path %q authenticated=%v", path, authed)
			assert.Empty(t, res.Redirect)
			assert.False(t, res.Protected())
		}
	}
}

func TestResolve_RootStaysOnLandingWhenAuthenticated(t *testing.T) {
	res := Resolve("/", true)
	assert.Equal(t, ScreenLanding, res.Screen)
	assert.Empty(t, res.Redirect)
}

func TestResolve_UnknownPath(t *testing.T) {
	assert.Equal(t, ScreenNotFound, Resolve("/forgot-password", false).Screen)
	assert.Equal(t, ScreenNotFound, Resolve("/dashboards", true).Screen)
}

func TestPanels(t *testing.T) {
	panels := Panels()
	assert.Len(t, panels, 8)
	for _, p := range panels {
		assert.NotEmpty(t, PanelTitle(p))
		res := Resolve(PanelPath(p), true)
		assert.Equal(t, p, res.Panel)
	}
}
