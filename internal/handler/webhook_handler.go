package handler

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/activitylog/internal/telegram"
	"github.com/gin-gonic/gin"
)

// SecretTokenHeader carries the secret registered with setWebhook.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

const webhookTimeout = 60 * time.Second

// TelegramWebhook 接收 Telegram 推送的更新。处理失败仍返回 200，避免 Telegram 反复重投。
func (a *API) TelegramWebhook(c *gin.Context) {
	if a.updates == nil {
		respondError(c, http.StatusServiceUnavailable, "bot is not configured")
		return
	}
	if a.webhookSecret != "" {
		got := c.GetHeader(SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(a.webhookSecret)) != 1 {
			respondError(c, http.StatusUnauthorized, "invalid secret token")
			return
		}
	}

	var update telegram.Update
	if !bindJSON(c, &update, "invalid update payload") {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), webhookTimeout)
	defer cancel()
	if err := a.updates.HandleUpdate(ctx, update); err != nil {
		a.log.Warn().Err(err).Int64("update_id", update.UpdateID).Msg("webhook update failed")
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
