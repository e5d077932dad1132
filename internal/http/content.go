package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quantum-pipeline/internal/assistant"
	"quantum-pipeline/internal/catalog"
)

type chatRequest struct {
	Message string `json:"message"`
}

func (h *Handler) listMolecules(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
			return
		}
		page = n
	}

	result := h.panels.Molecules(sessionID(c), catalog.MoleculeQuery{
		Search:  c.Query("q"),
		Dataset: c.DefaultQuery("dataset", catalog.AllDatasets),
		Page:    page,
	})
	c.JSON(http.StatusOK, moleculePageToResponse(result))
}

func (h *Handler) listReports(c *gin.Context) {
	c.JSON(http.StatusOK, reportsToResponse(h.panels.Reports(sessionID(c))))
}

func (h *Handler) chatHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"messages":        messagesToResponse(h.chat.History(sessionID(c))),
		"quick_questions": assistant.QuickQuestions,
	})
}

func (h *Handler) sendChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.chat.Send(c.Request.Context(), sessionID(c), req.Message)
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, assistant.ErrConversationReset) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusRequestTimeout, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, messageToResponse(reply))
}
