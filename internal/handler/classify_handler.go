package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type classifyRequest struct {
	Text string `json:"text"`
}

// Classify 仅返回分类结果，不写入存储，用于调试词表。
func (a *API) Classify(c *gin.Context) {
	var payload classifyRequest
	if !bindJSON(c, &payload, "text is required") {
		return
	}
	text := strings.TrimSpace(payload.Text)
	if text == "" {
		respondError(c, http.StatusBadRequest, "text is required")
		return
	}

	result := a.activities.Classify(c.Request.Context(), text)
	c.JSON(http.StatusOK, gin.H{
		"category":     result.Category,
		"subtype":      result.Subtype,
		"autoDetected": result.AutoDetected,
		"details":      result.Details.Map(),
	})
}
