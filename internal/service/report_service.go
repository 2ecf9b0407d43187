package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/activitylog/internal/locale"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"golang.org/x/sync/errgroup"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	reportSanitizer = bluemonday.UGCPolicy()
)

// Report 是渲染后的周报。
type Report struct {
	Markdown string
	HTML     string
	Lang     string
}

// ReportService 生成 Markdown 周报并渲染为净化后的 HTML。
type ReportService struct {
	summaries *SummaryService
	moods     *MoodService
	users     *UserService
}

// NewReportService 构造 ReportService。
func NewReportService(summaries *SummaryService, moods *MoodService, users *UserService) *ReportService {
	return &ReportService{summaries: summaries, moods: moods, users: users}
}

// Weekly 汇总最近 7 天的数据。language 为空时使用用户设置的语言。
func (s *ReportService) Weekly(ctx context.Context, userID, language string) (Report, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return Report{}, err
	}
	if locale.NormalizeLanguage(language) == "" {
		language = user.Settings.Language
	}

	var (
		weekly   WeeklySummary
		diet     DietAnalysis
		exercise ExerciseAnalysis
		goals    GoalProgress
		moods    MoodStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		weekly, err = s.summaries.Weekly(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		diet, err = s.summaries.Diet(gctx, userID, DefaultAnalysisDays)
		return err
	})
	g.Go(func() (err error) {
		exercise, err = s.summaries.Exercise(gctx, userID, DefaultAnalysisDays)
		return err
	})
	g.Go(func() (err error) {
		goals, err = s.summaries.Goals(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		moods, err = s.moods.Stats(gctx, userID, DefaultAnalysisDays)
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	name := user.FirstName
	if name == "" {
		name = user.Username
	}
	md := WeeklyMarkdown(language, name, weekly, diet, exercise, goals, moods)
	rendered, err := RenderMarkdown(md)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Markdown: md,
		HTML:     rendered,
		Lang:     locale.PreferenceForLanguage(language).HTMLLang,
	}, nil
}

// RenderMarkdown 将 Markdown 渲染为 HTML 并做白名单净化。
func RenderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return string(reportSanitizer.SanitizeBytes(buf.Bytes())), nil
}

// WeeklyMarkdown 生成周报正文，用户提供的文本会先转义 Markdown 特殊字符。
func WeeklyMarkdown(language, name string, weekly WeeklySummary, diet DietAnalysis, exercise ExerciseAnalysis, goals GoalProgress, moods MoodStats) string {
	pick := func(en, uk string) string { return locale.Pick(language, en, uk) }

	var b strings.Builder
	title := pick("Weekly report", "Тижневий звіт")
	if name != "" {
		title += ": " + escapeMarkdown(name)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "%s %s – %s\n\n", pick("Period:", "Період:"), weekly.From.Format("02.01.2006"), weekly.To.Format("02.01.2006"))

	fmt.Fprintf(&b, "## %s\n\n", pick("Activities", "Активності"))
	if weekly.Total == 0 {
		b.WriteString(pick("No activity this week.", "За цей тиждень не було жодної активності."))
		b.WriteString("\n\n")
	} else {
		fmt.Fprintf(&b, "%s: **%d**\n\n", pick("Total", "Всього активностей"), weekly.Total)
		fmt.Fprintf(&b, "%s: **%s** (%d)\n\n", pick("Most active day", "Найактивніший день"), weekly.MostActiveDay, weekly.MostActiveCount)
		fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", pick("Category", "Категорія"), pick("Count", "Кількість"))
		for _, c := range weekly.Categories {
			fmt.Fprintf(&b, "| %s %s | %d |\n", locale.CategoryEmoji(string(c.Category)), locale.CategoryLabel(language, string(c.Category)), c.Count)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## %s\n\n", pick("Diet", "Раціон"))
	fmt.Fprintf(&b, "%s: **%d**\n\n", pick("Meals", "Прийомів їжі"), diet.Meals)
	if len(diet.TopFoods) > 0 {
		fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", pick("Food", "Продукт"), pick("Count", "Кількість"))
		for _, f := range diet.TopFoods {
			fmt.Fprintf(&b, "| %s | %d |\n", escapeMarkdown(f.Name), f.Count)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## %s\n\n", pick("Exercise", "Фізичні вправи"))
	fmt.Fprintf(&b, "%s: **%d**, %s: **%d**\n\n", pick("Sessions", "Тренувань"), exercise.Sessions, pick("repetitions", "повторень"), exercise.TotalRepetitions)

	fmt.Fprintf(&b, "## %s\n\n", pick("Goals", "Цілі"))
	fmt.Fprintf(&b, "- %s: %d/%d %s\n", pick("Exercise per week", "Тренувань на тиждень"), goals.ExerciseCount, goals.ExerciseGoal, doneMarker(goals.ExerciseDone))
	fmt.Fprintf(&b, "- %s: %d/%d %s\n\n", pick("Days without sweets", "Днів без солодкого"), goals.NoSweetsStreak, goals.NoSweetsGoal, doneMarker(goals.NoSweetsDone))

	if moods.Entries > 0 {
		fmt.Fprintf(&b, "## %s\n\n", pick("Mood", "Настрій"))
		fmt.Fprintf(&b, "%s: **%.1f**/5, %s: %s\n", pick("Average", "Середній"), moods.Average, pick("latest", "останній"), locale.MoodLabel(language, moods.Latest))
	}
	return b.String()
}

func doneMarker(done bool) string {
	if done {
		return "✅"
	}
	return "⏳"
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`",
	"[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;", "#", `\#`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
