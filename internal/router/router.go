package router

import (
	"github.com/activitylog/internal/handler"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(log))

	r.GET("/healthz", api.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Telegram 推送入口
	r.POST("/telegram/webhook", api.TelegramWebhook)

	v1 := r.Group("/api")
	{
		v1.POST("/classify", api.Classify)

		users := v1.Group("/users/:id")
		{
			users.GET("/summary/daily", api.DailySummary)
			users.GET("/summary/weekly", api.WeeklySummary)
			users.GET("/diet", api.Diet)
			users.GET("/exercise", api.Exercise)
			users.GET("/goals", api.Goals)
			users.GET("/hydration", api.Hydration)
			users.GET("/moods", api.Moods)
			users.GET("/export.csv", api.ExportCSV)
			users.GET("/report", api.WeeklyReport)
		}
	}

	return r
}
