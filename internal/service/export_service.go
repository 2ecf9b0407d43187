package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/activitylog/internal/store"
	"github.com/google/uuid"
)

// DefaultExportDays 是导出的默认窗口。
const DefaultExportDays = 30

// ExportHeader 是 CSV 的表头。
var ExportHeader = []string{"Date", "Time", "Category", "Subtype", "RawText", "DetailsBlob"}

// ExportService 把活动记录导出为 CSV。
type ExportService struct {
	store *store.Store
	users *UserService
	now   func() time.Time
}

// NewExportService 构造 ExportService。
func NewExportService(s *store.Store, users *UserService) *ExportService {
	return &ExportService{store: s, users: users, now: time.Now}
}

// WithClock 替换当前时间来源，便于测试。
func (s *ExportService) WithClock(now func() time.Time) *ExportService {
	if now != nil {
		s.now = now
	}
	return s
}

// FileName 返回导出文件名，带随机后缀避免覆盖。
func (s *ExportService) FileName(userID string) string {
	return fmt.Sprintf("activities-%s-%s.csv", userID, uuid.NewString()[:8])
}

// Export 将最近 days 天的记录写入 w，返回写入的行数（不含表头）。
// 时间按用户时区输出。
func (s *ExportService) Export(ctx context.Context, userID string, days int, w io.Writer) (int, error) {
	days = clampDays(days, DefaultExportDays)
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	loc := s.users.Location(user)
	now := s.now().In(loc)

	records, err := s.store.QueryActivities(ctx, store.ActivityQuery{
		UserID: userID,
		From:   now.AddDate(0, 0, -days),
		To:     now,
	})
	if err != nil {
		return 0, err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		details := string(r.Details)
		if details == "" {
			details = "{}"
		}
		row := []string{
			r.DateKey,
			r.Timestamp.In(loc).Format("15:04"),
			r.Category,
			r.Subtype,
			r.RawText,
			details,
		}
		if err := writer.Write(row); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return len(records), nil
}
