package service

import (
	"context"
	"sort"
	"time"

	"github.com/activitylog/internal/activity"
	"github.com/activitylog/internal/db"
	"github.com/activitylog/internal/store"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultAnalysisDays 是饮食与运动分析的默认窗口。
	DefaultAnalysisDays = 7
	// MaxAnalysisDays 限制单次查询窗口。
	MaxAnalysisDays = 365

	weekWindow        = 7 * 24 * time.Hour
	topN              = 5
	maxStreakLookback = 90
)

// CategoryCount 是某一类别的记录数。
type CategoryCount struct {
	Category activity.Category `json:"category"`
	Count    int               `json:"count"`
}

// NameCount 是按名称统计的次数。
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DailySummary 汇总某一天的活动。
type DailySummary struct {
	DateKey    string          `json:"date"`
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
	Empty      bool            `json:"empty"`
}

// WeeklySummary 汇总 [now-7d, now] 区间的活动。
type WeeklySummary struct {
	From            time.Time       `json:"from"`
	To              time.Time       `json:"to"`
	Total           int             `json:"total"`
	MostActiveDay   string          `json:"most_active_day"`
	MostActiveCount int             `json:"most_active_count"`
	Categories      []CategoryCount `json:"categories"`
}

// DietAnalysis 汇总饮食记录。
type DietAnalysis struct {
	Days      int         `json:"days"`
	Meals     int         `json:"meals"`
	MealTypes []NameCount `json:"meal_types"`
	TopFoods  []NameCount `json:"top_foods"`
}

// ExerciseAnalysis 汇总运动记录。
type ExerciseAnalysis struct {
	Days             int         `json:"days"`
	Sessions         int         `json:"sessions"`
	TotalRepetitions int         `json:"total_repetitions"`
	Types            []NameCount `json:"types"`
}

// GoalProgress 描述目标完成情况。
type GoalProgress struct {
	ExerciseGoal   int  `json:"exercise_goal"`
	ExerciseCount  int  `json:"exercise_count"`
	ExerciseDone   bool `json:"exercise_done"`
	NoSweetsGoal   int  `json:"no_sweets_goal"`
	NoSweetsStreak int  `json:"no_sweets_streak"`
	NoSweetsDone   bool `json:"no_sweets_done"`
}

// Hydration 描述当天的饮水量。
type Hydration struct {
	DateKey string      `json:"date"`
	Glasses int         `json:"glasses"`
	Goal    int         `json:"goal"`
	Reached bool        `json:"reached"`
	Drinks  []NameCount `json:"drinks"`
}

// Overview 聚合 /stats 需要的全部报表。
type Overview struct {
	Daily  DailySummary  `json:"daily"`
	Weekly WeeklySummary `json:"weekly"`
	Goals  GoalProgress  `json:"goals"`
}

// SummaryService 从存储读取记录并在内存中聚合。
type SummaryService struct {
	store   *store.Store
	users   *UserService
	lexicon *activity.Lexicon
	now     func() time.Time
}

// NewSummaryService 构造 SummaryService。
func NewSummaryService(s *store.Store, users *UserService, lexicon *activity.Lexicon) *SummaryService {
	if lexicon == nil {
		lexicon = activity.DefaultLexicon()
	}
	return &SummaryService{store: s, users: users, lexicon: lexicon, now: time.Now}
}

// WithClock 替换当前时间来源，便于测试。
func (s *SummaryService) WithClock(now func() time.Time) *SummaryService {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *SummaryService) userNow(ctx context.Context, userID string) (*db.User, time.Time, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, time.Time{}, err
	}
	return user, s.now().In(s.users.Location(user)), nil
}

// Daily 返回用户时区下当天的汇总。
func (s *SummaryService) Daily(ctx context.Context, userID string) (DailySummary, error) {
	_, now, err := s.userNow(ctx, userID)
	if err != nil {
		return DailySummary{}, err
	}
	dateKey := activity.DateKey(now)
	records, err := s.store.QueryActivities(ctx, store.ActivityQuery{UserID: userID, DateKey: dateKey})
	if err != nil {
		return DailySummary{}, err
	}
	return SummarizeDay(records, dateKey), nil
}

// Weekly 返回最近 7 天的汇总。
func (s *SummaryService) Weekly(ctx context.Context, userID string) (WeeklySummary, error) {
	_, now, err := s.userNow(ctx, userID)
	if err != nil {
		return WeeklySummary{}, err
	}
	from := now.Add(-weekWindow)
	records, err := s.store.QueryActivities(ctx, store.ActivityQuery{UserID: userID, From: from, To: now})
	if err != nil {
		return WeeklySummary{}, err
	}
	return SummarizeWeek(records, from, now), nil
}

// Diet 分析最近 days 天的饮食，days<=0 时使用默认窗口。
func (s *SummaryService) Diet(ctx context.Context, userID string, days int) (DietAnalysis, error) {
	days = clampDays(days, DefaultAnalysisDays)
	_, now, err := s.userNow(ctx, userID)
	if err != nil {
		return DietAnalysis{}, err
	}
	records, err := s.store.QueryActivities(ctx, store.ActivityQuery{
		UserID:   userID,
		Category: string(activity.CategoryMeal),
		From:     now.AddDate(0, 0, -days),
		To:       now,
	})
	if err != nil {
		return DietAnalysis{}, err
	}
	return AnalyzeDiet(records, days), nil
}

// Exercise 分析最近 days 天的运动。
func (s *SummaryService) Exercise(ctx context.Context, userID string, days int) (ExerciseAnalysis, error) {
	days = clampDays(days, DefaultAnalysisDays)
	_, now, err := s.userNow(ctx, userID)
	if err != nil {
		return ExerciseAnalysis{}, err
	}
	records, err := s.store.QueryActivities(ctx, store.ActivityQuery{
		UserID:   userID,
		Category: string(activity.CategoryExercise),
		From:     now.AddDate(0, 0, -days),
		To:       now,
	})
	if err != nil {
		return ExerciseAnalysis{}, err
	}
	return AnalyzeExercise(records, days), nil
}

// Goals 计算每周运动目标与不吃甜食连续天数。
func (s *SummaryService) Goals(ctx context.Context, userID string) (GoalProgress, error) {
	user, now, err := s.userNow(ctx, userID)
	if err != nil {
		return GoalProgress{}, err
	}

	exercises, err := s.store.QueryActivities(ctx, store.ActivityQuery{
		UserID:   userID,
		Category: string(activity.CategoryExercise),
		From:     now.Add(-weekWindow),
		To:       now,
	})
	if err != nil {
		return GoalProgress{}, err
	}

	meals, err := s.store.QueryActivities(ctx, store.ActivityQuery{
		UserID:   userID,
		Category: string(activity.CategoryMeal),
		From:     now.AddDate(0, 0, -maxStreakLookback),
		To:       now,
	})
	if err != nil {
		return GoalProgress{}, err
	}

	progress := ExerciseGoalProgress(len(exercises), user.Goals.ExercisePerWeek)
	since := user.CreatedAt.In(now.Location())
	progress.NoSweetsGoal = user.Goals.NoSweetsDays
	progress.NoSweetsStreak = NoSweetsStreak(meals, s.lexicon, now, since)
	progress.NoSweetsDone = progress.NoSweetsGoal > 0 && progress.NoSweetsStreak >= progress.NoSweetsGoal
	return progress, nil
}

// Hydration 统计当天饮水量，water_goal 以杯计。
func (s *SummaryService) Hydration(ctx context.Context, userID string) (Hydration, error) {
	user, now, err := s.userNow(ctx, userID)
	if err != nil {
		return Hydration{}, err
	}
	dateKey := activity.DateKey(now)
	records, err := s.store.QueryActivities(ctx, store.ActivityQuery{
		UserID:   userID,
		DateKey:  dateKey,
		Category: string(activity.CategoryDrink),
	})
	if err != nil {
		return Hydration{}, err
	}
	h := SummarizeHydration(records, dateKey)
	h.Goal = user.Settings.WaterGoal
	h.Reached = h.Goal > 0 && h.Glasses >= h.Goal
	return h, nil
}

// Overview 并发计算当日、本周与目标报表。
func (s *SummaryService) Overview(ctx context.Context, userID string) (Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		daily, err := s.Daily(gctx, userID)
		out.Daily = daily
		return err
	})
	g.Go(func() error {
		weekly, err := s.Weekly(gctx, userID)
		out.Weekly = weekly
		return err
	})
	g.Go(func() error {
		goals, err := s.Goals(gctx, userID)
		out.Goals = goals
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

// SummarizeDay 统计 dateKey 当天各类别数量。
func SummarizeDay(records []db.Activity, dateKey string) DailySummary {
	counts := make(map[activity.Category]int)
	total := 0
	for _, r := range records {
		if r.DateKey != dateKey {
			continue
		}
		category, _ := activity.ParseCategory(r.Category)
		counts[category]++
		total++
	}
	return DailySummary{
		DateKey:    dateKey,
		Total:      total,
		Categories: sortCategoryCounts(counts),
		Empty:      total == 0,
	}
}

// SummarizeWeek 统计 [from, to] 内的记录。最活跃日期在并列时取最早的一天。
func SummarizeWeek(records []db.Activity, from, to time.Time) WeeklySummary {
	counts := make(map[activity.Category]int)
	perDay := make(map[string]int)
	total := 0
	for _, r := range records {
		if r.Timestamp.Before(from) || r.Timestamp.After(to) {
			continue
		}
		category, _ := activity.ParseCategory(r.Category)
		counts[category]++
		perDay[r.DateKey]++
		total++
	}

	summary := WeeklySummary{From: from, To: to, Total: total}
	for day, n := range perDay {
		if n > summary.MostActiveCount || (n == summary.MostActiveCount && day < summary.MostActiveDay) {
			summary.MostActiveDay = day
			summary.MostActiveCount = n
		}
	}
	summary.Categories = topCategories(sortCategoryCounts(counts), topN)
	return summary
}

// AnalyzeDiet 统计餐次类型与食物出现次数。
func AnalyzeDiet(records []db.Activity, days int) DietAnalysis {
	mealTypes := make(map[string]int)
	foods := make(map[string]int)
	meals := 0
	for _, r := range records {
		if r.Category != string(activity.CategoryMeal) {
			continue
		}
		meals++
		mealTypes[r.Subtype]++
		details, err := activity.DecodeDetails(activity.CategoryMeal, r.Details)
		if err != nil || details.Meal == nil {
			continue
		}
		for _, food := range details.Meal.FoodItems {
			foods[food]++
		}
	}
	return DietAnalysis{
		Days:      days,
		Meals:     meals,
		MealTypes: sortNameCounts(mealTypes, 0),
		TopFoods:  sortNameCounts(foods, topN),
	}
}

// AnalyzeExercise 统计运动次数、总重复数与各类型分布。
func AnalyzeExercise(records []db.Activity, days int) ExerciseAnalysis {
	types := make(map[string]int)
	out := ExerciseAnalysis{Days: days}
	for _, r := range records {
		if r.Category != string(activity.CategoryExercise) {
			continue
		}
		out.Sessions++
		details, err := activity.DecodeDetails(activity.CategoryExercise, r.Details)
		if err != nil || details.Exercise == nil {
			types["general"]++
			continue
		}
		types[details.Exercise.ExerciseType]++
		out.TotalRepetitions += details.Exercise.Repetitions
	}
	out.Types = sortNameCounts(types, 0)
	return out
}

// ExerciseGoalProgress 比较最近 7 天运动次数与每周目标。
func ExerciseGoalProgress(count, goal int) GoalProgress {
	return GoalProgress{
		ExerciseGoal:  goal,
		ExerciseCount: count,
		ExerciseDone:  goal > 0 && count >= goal,
	}
}

// NoSweetsStreak 返回截至 today（含）连续没有甜食的天数，不早于 since 所在的日期。
func NoSweetsStreak(meals []db.Activity, lexicon *activity.Lexicon, today, since time.Time) int {
	sweetDays := make(map[string]bool)
	for _, r := range meals {
		details, err := activity.DecodeDetails(activity.CategoryMeal, r.Details)
		if err != nil || details.Meal == nil {
			continue
		}
		for _, food := range details.Meal.FoodItems {
			if lexicon.IsSweet(food) {
				sweetDays[r.DateKey] = true
				break
			}
		}
	}

	first := activity.DateKey(since)
	streak := 0
	for day := today; streak < maxStreakLookback; day = day.AddDate(0, 0, -1) {
		key := activity.DateKey(day)
		if sweetDays[key] || (!since.IsZero() && key < first) {
			break
		}
		streak++
	}
	return streak
}

// SummarizeHydration 统计当天水的杯数和各饮品数量。
func SummarizeHydration(records []db.Activity, dateKey string) Hydration {
	drinks := make(map[string]int)
	h := Hydration{DateKey: dateKey}
	for _, r := range records {
		if r.DateKey != dateKey || r.Category != string(activity.CategoryDrink) {
			continue
		}
		details, err := activity.DecodeDetails(activity.CategoryDrink, r.Details)
		if err != nil || details.Drink == nil {
			continue
		}
		drinks[details.Drink.DrinkType] += details.Drink.Amount
		if details.Drink.DrinkType == "water" {
			h.Glasses += details.Drink.Amount
		}
	}
	h.Drinks = sortNameCounts(drinks, 0)
	return h
}

func sortCategoryCounts(counts map[activity.Category]int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return activity.Rank(out[i].Category) < activity.Rank(out[j].Category)
	})
	return out
}

func topCategories(counts []CategoryCount, n int) []CategoryCount {
	if len(counts) > n {
		return counts[:n]
	}
	return counts
}

// sortNameCounts 按次数降序、名称升序排序，limit<=0 表示不截断。
func sortNameCounts(counts map[string]int, limit int) []NameCount {
	out := make([]NameCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, NameCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func clampDays(days, fallback int) int {
	if days <= 0 {
		return fallback
	}
	if days > MaxAnalysisDays {
		return MaxAnalysisDays
	}
	return days
}
