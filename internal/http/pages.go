package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quantum-pipeline/internal/router"
)

// renderPage resolves the request path to a screen. Protected screens
// redirect unauthenticated clients to the login screen.
func (h *Handler) renderPage(c *gin.Context) {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/api/") || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	store := sessionStore(c)
	res := router.Resolve(path, store.IsAuthenticated())
	if res.Redirect != "" {
		c.Redirect(http.StatusFound, res.Redirect)
		return
	}

	resp := ScreenResponse{
		Screen:        string(res.Screen),
		Title:         res.Title(),
		Authenticated: store.IsAuthenticated(),
	}
	if identity, ok := store.Current(); ok {
		resp.Identity = identityToResponse(identity)
	}

	if res.Screen == router.ScreenNotFound {
		c.JSON(http.StatusNotFound, resp)
		return
	}

	if res.Protected() {
		panel, err := h.panels.Render(c.Request.Context(), sessionID(c), store, res.Panel)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		resp.Panel = string(res.Panel)
		resp.Navigation = navigation(res.Panel)
		resp.Data = panelToResponse(panel)
	}

	c.JSON(http.StatusOK, resp)
}

func navigation(active router.Panel) []NavItem {
	panels := router.Panels()
	items := make([]NavItem, len(panels))
	for i, p := range panels {
		items[i] = NavItem{
			Panel:  string(p),
			Title:  router.PanelTitle(p),
			Path:   router.PanelPath(p),
			Active: p == active,
		}
	}
	return items
}
