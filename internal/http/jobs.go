package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"quantum-pipeline/internal/domain"
	"quantum-pipeline/internal/jobs"
	"quantum-pipeline/internal/repository"
	"quantum-pipeline/internal/storage"
)

func (h *Handler) submitDocking(c *gin.Context) {
	var input string
	if file, err := c.FormFile("structure"); err == nil {
		input = file.Filename
	}
	h.submit(c, domain.JobKindDocking, input)
}

func (h *Handler) submitJob(kind domain.JobKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.submit(c, kind, c.PostForm("input"))
	}
}

func (h *Handler) submit(c *gin.Context, kind domain.JobKind, input string) {
	owner := sessionID(c)
	job, err := h.jobs.Submit(c.Request.Context(), owner, kind, input)
	if err != nil {
		jobError(c, err)
		return
	}

	// Logout clears the store before cancelling the session's jobs, so a job
	// registered before this check is caught by one or the other.
	if !sessionStore(c).IsAuthenticated() {
		cancelCtx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 10*time.Second)
		defer cancel()
		if err := h.jobs.Cancel(cancelCtx, owner, job.ID); err != nil {
			h.logger.WithField("job_id", job.ID).Warnf("cancel job submitted during logout: %v", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusAccepted, jobToResponse(*job))
}

func (h *Handler) listJobs(c *gin.Context) {
	list, err := h.jobs.List(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, jobsToResponse(list))
}

func (h *Handler) getJob(c *gin.Context) {
	job, err := h.jobs.Get(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		jobError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobToResponse(*job))
}

func (h *Handler) cancelJob(c *gin.Context) {
	cancelCtx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	owner, id := sessionID(c), c.Param("id")
	if err := h.jobs.Cancel(cancelCtx, owner, id); err != nil {
		jobError(c, err)
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), owner, id)
	if err != nil {
		jobError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobToResponse(*job))
}

func (h *Handler) exportJob(c *gin.Context) {
	if h.exports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage service not configured"})
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		jobError(c, err)
		return
	}

	uploadCtx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()
	export, err := h.exports.Export(uploadCtx, *job)
	if err != nil {
		if errors.Is(err, storage.ErrJobNotCompleted) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, exportToResponse(export))
}

func (h *Handler) listExports(c *gin.Context) {
	if h.exports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage service not configured"})
		return
	}

	list, err := h.exports.List(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	resp := make([]ExportResponse, len(list))
	for i := range list {
		resp[i] = exportToResponse(list[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) deleteExports(c *gin.Context) {
	if h.exports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage service not configured"})
		return
	}

	remoteCtx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()
	if err := h.exports.Remove(remoteCtx, sessionID(c)); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func jobError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, jobs.ErrMissingInput), errors.Is(err, jobs.ErrUnknownKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, jobs.ErrNotStarted):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
