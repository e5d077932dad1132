package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"quantum-pipeline/internal/domain"
	"quantum-pipeline/internal/jobs"
	"quantum-pipeline/internal/metrics"
	"quantum-pipeline/internal/service"
	"quantum-pipeline/internal/session"
	"quantum-pipeline/internal/storage"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "qp_session"

	ctxSessionID    = "session_id"
	ctxSessionStore = "session_store"
)

// ChatService is the assistant as seen by the HTTP layer.
type ChatService interface {
	History(owner string) []domain.Message
	Send(ctx context.Context, owner, text string) (domain.Message, error)
}

// Dependencies lists what the handler needs. Exports and Metrics may be nil.
type Dependencies struct {
	Sessions *session.Registry
	Auth     service.AuthService
	Panels   service.PanelService
	Jobs     jobs.Manager
	Chat     ChatService
	Exports  *storage.Exporter
	Metrics  *metrics.Metrics
	Logger   *logrus.Logger
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	sessions *session.Registry
	auth     service.AuthService
	panels   service.PanelService
	jobs     jobs.Manager
	chat     ChatService
	exports  *storage.Exporter
	metrics  *metrics.Metrics
	logger   *logrus.Logger
}

func NewHandler(deps Dependencies) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		sessions: deps.Sessions,
		auth:     deps.Auth,
		panels:   deps.Panels,
		jobs:     deps.Jobs,
		chat:     deps.Chat,
		exports:  deps.Exports,
		metrics:  deps.Metrics,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.requestLogger(), corsMiddleware())

	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		sess := api.Group("/session", h.sessionMiddleware())
		sess.GET("", h.getSession)
		sess.POST("/login", h.login)
		sess.POST("/signup", h.signup)
		sess.POST("/logout", h.logout)

		protected := api.Group("", h.sessionMiddleware(), h.requireAuth())
		protected.POST("/jobs/docking", h.submitDocking)
		protected.POST("/jobs/screening", h.submitJob(domain.JobKindScreening))
		protected.POST("/jobs/quantum", h.submitJob(domain.JobKindQuantum))
		protected.GET("/jobs", h.listJobs)
		protected.GET("/jobs/:id", h.getJob)
		protected.DELETE("/jobs/:id", h.cancelJob)
		protected.POST("/jobs/:id/export", h.exportJob)
		protected.GET("/exports", h.listExports)
		protected.DELETE("/exports", h.deleteExports)
		protected.GET("/molecules", h.listMolecules)
		protected.GET("/reports", h.listReports)
		protected.GET("/chat", h.chatHistory)
		protected.POST("/chat", h.sendChat)
		protected.PUT("/profile", h.updateProfile)
		protected.PUT("/profile/settings", h.updateSettings)
		protected.POST("/profile/password", h.changePassword)
	}

	// Every other path is a screen of the application.
	router.NoRoute(h.sessionMiddleware(), h.renderPage)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		if h.metrics != nil {
			h.metrics.Request(route, strconv.Itoa(status))
		}
		h.logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  status,
			"latency": time.Since(start),
		}).Debug("request")
	}
}

// sessionMiddleware attaches the client's session, creating one and
// issuing its cookie when the request carries no usable token.
func (h *Handler) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(SessionCookie)
		id, store, fresh := h.sessions.Resolve(token)
		if fresh {
			if err := h.issueCookie(c, id); err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
		c.Set(ctxSessionID, id)
		c.Set(ctxSessionStore, store)
		c.Next()
	}
}

func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessionStore(c).IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

func (h *Handler) issueCookie(c *gin.Context, id string) error {
	token, err := h.sessions.Token(id)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(h.sessions.TTL().Seconds()), "/", "", false, true)
	return nil
}

func sessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}

func sessionStore(c *gin.Context) *session.Store {
	return c.MustGet(ctxSessionStore).(*session.Store)
}
