package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DailySummary 返回用户当天的汇总。
func (a *API) DailySummary(c *gin.Context) {
	summary, err := a.summaries.Daily(c.Request.Context(), userIDParam(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// WeeklySummary 返回最近 7 天的汇总。
func (a *API) WeeklySummary(c *gin.Context) {
	summary, err := a.summaries.Weekly(c.Request.Context(), userIDParam(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (a *API) Diet(c *gin.Context) {
	days, ok := parseDaysQuery(c)
	if !ok {
		return
	}
	diet, err := a.summaries.Diet(c.Request.Context(), userIDParam(c), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, diet)
}

func (a *API) Exercise(c *gin.Context) {
	days, ok := parseDaysQuery(c)
	if !ok {
		return
	}
	exercise, err := a.summaries.Exercise(c.Request.Context(), userIDParam(c), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (a *API) Goals(c *gin.Context) {
	goals, err := a.summaries.Goals(c.Request.Context(), userIDParam(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

func (a *API) Hydration(c *gin.Context) {
	hydration, err := a.summaries.Hydration(c.Request.Context(), userIDParam(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, hydration)
}

// Moods 返回情绪统计，支持 ?days=。
func (a *API) Moods(c *gin.Context) {
	days, ok := parseDaysQuery(c)
	if !ok {
		return
	}
	stats, err := a.moods.Stats(c.Request.Context(), userIDParam(c), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
