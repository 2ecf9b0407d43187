package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

var reportPage = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<main>
{{.Body}}
</main>
</body>
</html>
`))

// ExportCSV 以附件形式下载最近 days 天的活动。
func (a *API) ExportCSV(c *gin.Context) {
	days, ok := parseDaysQuery(c)
	if !ok {
		return
	}
	userID := userIDParam(c)

	var buf bytes.Buffer
	if _, err := a.exports.Export(c.Request.Context(), userID, days, &buf); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.exports.FileName(userID)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// WeeklyReport 渲染周报页面。语言取 ?lang= 或 Accept-Language，缺省用用户设置。
func (a *API) WeeklyReport(c *gin.Context) {
	report, err := a.reports.Weekly(c.Request.Context(), userIDParam(c), requestLanguage(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var page bytes.Buffer
	err = reportPage.Execute(&page, gin.H{
		"Lang":  report.Lang,
		"Title": "Activity report",
		// report.HTML has already been through bluemonday.
		"Body": template.HTML(report.HTML),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page.Bytes())
}
