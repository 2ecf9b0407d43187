package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/activitylog/internal/service"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// respondServiceError maps service errors onto status codes.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrInvalidSetting), errors.Is(err, service.ErrInvalidMood):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}

// parseDaysQuery reads ?days=. Missing means 0 so services apply their default.
func parseDaysQuery(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("days"))
	if raw == "" {
		return 0, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		respondError(c, http.StatusBadRequest, "days must be a positive integer")
		return 0, false
	}
	return days, true
}

func userIDParam(c *gin.Context) string {
	return strings.TrimSpace(c.Param("id"))
}
