package handler

import (
	"github.com/activitylog/internal/locale"
	"github.com/gin-gonic/gin"
)

// requestLanguage picks the report language: ?lang= first, then
// Accept-Language. Empty means the user's own setting.
func requestLanguage(c *gin.Context) string {
	if lang := locale.NormalizeLanguage(c.Query("lang")); lang != "" {
		return lang
	}
	return locale.LanguageFromAcceptLanguage(c.GetHeader("Accept-Language"))
}
