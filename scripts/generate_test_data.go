package main

import (
	"context"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/activitylog/internal/activity"
	"github.com/activitylog/internal/config"
	"github.com/activitylog/internal/db"
	"github.com/activitylog/internal/logger"
	"github.com/activitylog/internal/service"
	"github.com/activitylog/internal/store"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// sampleDay 是一天的典型消息，时间前缀决定记录时刻。
var sampleDay = []string{
	"08:00 снідаю, яйця і хліб",
	"09:30 почав роботу над проектом",
	"випив 2 склянки води",
	"12:45 роблю обід, курку і макарон",
	"15:30 зробив 20 присідань",
	"прибираю кухню",
	"19:30 вечеряю, риба і салат",
	"23:00 йду спати",
}

// 每隔两天加一次甜食，便于观察无甜食连续天数。
const sweetsSnack = "16:00 перекус, шоколад"

// 测试数据生成器
func main() {
	var (
		userID string
		days   int
	)
	cmd := &cobra.Command{
		Use:   "generate_test_data",
		Short: "Seed sample activities for one user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			gdb, err := db.Open(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("数据库初始化失败: %w", err)
			}
			s := store.New(gdb)
			users := service.NewUserService(s, cfg.Defaults)
			activities := service.NewActivityService(s, users, offlineClassifier(), logger.New("seed", cfg.LogLevel))

			fmt.Println("开始生成测试数据...")
			n, err := seedActivities(cmd.Context(), activities, users, service.Profile{ExternalID: userID, FirstName: "Тест"}, days, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("✅ 已为用户 %s 生成 %d 条活动（%d 天）\n", userID, n, days)
			return nil
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "1000", "Telegram user id to seed")
	cmd.Flags().IntVarP(&days, "days", "d", 14, "Number of days to seed")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// offlineClassifier 只用内置词表，不调用 AI。
func offlineClassifier() *activity.Classifier {
	return activity.NewClassifier(nil, activity.FallbackFunc(func(ctx context.Context, text string) activity.Classification {
		return activity.Unclassified(text)
	}), zerolog.Nop())
}

// seedActivities 从 end 往前 days 天逐日写入样例消息，返回写入条数。
func seedActivities(ctx context.Context, activities *service.ActivityService, users *service.UserService, profile service.Profile, days int, end time.Time) (int, error) {
	user, _, err := users.GetOrCreate(ctx, profile)
	if err != nil {
		return 0, err
	}
	loc := users.Location(user)
	end = end.In(loc)

	count := 0
	for d := days - 1; d >= 0; d-- {
		day := end.AddDate(0, 0, -d)
		received := time.Date(day.Year(), day.Month(), day.Day(), 23, 30, 0, 0, loc)

		messages := sampleDay
		if d%3 == 0 {
			messages = append(append([]string{}, sampleDay...), sweetsSnack)
		}
		for _, text := range messages {
			if _, err := activities.Record(ctx, profile, text, received); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}
