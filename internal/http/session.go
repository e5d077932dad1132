package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quantum-pipeline/internal/domain"
	"quantum-pipeline/internal/service"
	"quantum-pipeline/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"`
	AgreeToTerms    bool   `json:"agree_to_terms"`
}

type profileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *Handler) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, sessionToResponse(sessionStore(c)))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := h.auth.Login(c.Request.Context(), sessionStore(c), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.authError(c, err)
		return
	}
	h.signedIn(c)
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := h.auth.Signup(c.Request.Context(), sessionStore(c), service.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
		AgreeToTerms:    req.AgreeToTerms,
	})
	if err != nil {
		h.authError(c, err)
		return
	}
	h.signedIn(c)
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), sessionID(c), sessionStore(c)); err != nil {
		h.logger.WithField("session", sessionID(c)).Warnf("cancel jobs on logout: %v", err)
	}
	c.JSON(http.StatusOK, sessionToResponse(sessionStore(c)))
}

// signedIn renews the cookie so the token lifetime starts at sign-in.
func (h *Handler) signedIn(c *gin.Context) {
	if err := h.issueCookie(c, sessionID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessionToResponse(sessionStore(c)))
}

func (h *Handler) authError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials. Please try again."})
	case errors.Is(err, service.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match."})
	case errors.Is(err, service.ErrTermsNotAccepted):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please agree to the terms and conditions."})
	case errors.Is(err, service.ErrRegistrationFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Registration failed. Please try again."})
	case errors.Is(err, service.ErrUnknownRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var role domain.Role
	if req.Role != "" {
		parsed, err := domain.ParseRole(req.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		role = parsed
	}

	identity, err := sessionStore(c).UpdateProfile(req.Name, req.Email, role)
	if err != nil {
		profileError(c, err)
		return
	}
	c.JSON(http.StatusOK, identityToResponse(identity))
}

// updateSettings merges the body onto the current settings; fields the
// body leaves out keep their value.
func (h *Handler) updateSettings(c *gin.Context) {
	store := sessionStore(c)
	current, err := store.Settings()
	if err != nil {
		profileError(c, err)
		return
	}

	req := settingsToPayload(current)
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Preferences.Theme == "" || req.Preferences.Language == "" ||
		req.Preferences.Timezone == "" || req.Preferences.DefaultView == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preferences must not be empty"})
		return
	}

	if err := store.UpdateSettings(req.toDomain()); err != nil {
		profileError(c, err)
		return
	}
	settings, err := store.Settings()
	if err != nil {
		profileError(c, err)
		return
	}
	c.JSON(http.StatusOK, settingsToPayload(settings))
}

func (h *Handler) changePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := sessionStore(c).ChangeSecret(req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		profileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func profileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, session.ErrMissingField),
		errors.Is(err, session.ErrConfirmMismatch),
		errors.Is(err, session.ErrSecretMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func sessionToResponse(store *session.Store) SessionResponse {
	resp := SessionResponse{Authenticated: store.IsAuthenticated()}
	if identity, ok := store.Current(); ok {
		resp.Identity = identityToResponse(identity)
	}
	return resp
}
