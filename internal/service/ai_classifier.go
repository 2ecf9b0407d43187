package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/activitylog/internal/activity"
	"github.com/activitylog/internal/metrics"
	"github.com/rs/zerolog"
)

const aiClassifyMaxTokens = 400

// aiDescriptionKey holds the model's own description; Description stays the raw message.
const aiDescriptionKey = "ai_description"

const aiClassifySystemPrompt = "Ти класифікуєш записи щоденника активностей. Відповідай лише одним JSON-об'єктом без пояснень."

type aiClassification struct {
	Type         string         `json:"type"`
	Subtype      any            `json:"subtype"`
	Details      map[string]any `json:"details"`
	AutoDetected any            `json:"auto_detected"`
}

// AIClassifier 是词库未命中时使用的 AI 兜底分类器，实现 activity.Fallback。
type AIClassifier struct {
	client *aiChatClient
	log    zerolog.Logger
}

// NewAIClassifier 基于单一配置的聊天接口创建分类器。
func NewAIClassifier(cfg AIClientConfig, log zerolog.Logger) *AIClassifier {
	return &AIClassifier{
		client: newAIChatClient(cfg),
		log:    log.With().Str("component", "ai_classifier").Logger(),
	}
}

// SetHTTPClient 替换底层 HTTP 客户端，主要用于测试。
func (c *AIClassifier) SetHTTPClient(client httpDoer) {
	c.client.SetHTTPClient(client)
}

// ClassifyFallback 调用 AI 接口分类文本；任何失败都会记录日志并退化为 Unclassified。
func (c *AIClassifier) ClassifyFallback(ctx context.Context, text string) activity.Classification {
	result, err := c.classify(ctx, text)
	if err != nil {
		kind := metrics.OutcomeTransport
		var aiErr *AIError
		if errors.As(err, &aiErr) {
			kind = aiErr.Kind
		}
		metrics.AIFallbackTotal.WithLabelValues(kind).Inc()
		event := c.log.Warn()
		if kind == metrics.OutcomeMissingKey {
			event = c.log.Debug()
		}
		event.Err(err).Str("outcome", kind).Msg("ai fallback failed")
		return activity.Unclassified(text)
	}
	metrics.AIFallbackTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return result
}

func (c *AIClassifier) classify(ctx context.Context, text string) (activity.Classification, error) {
	prompt := buildClassifyPrompt(text)
	logAIExchange(c.log, "classify", "request", prompt)

	resp, err := c.client.call(ctx, aiChatRequest{
		SystemPrompt: aiClassifySystemPrompt,
		UserPrompt:   prompt,
		MaxTokens:    aiClassifyMaxTokens,
	})
	if err != nil {
		return activity.Classification{}, err
	}
	logAIExchange(c.log, "classify", "response", resp.Content)

	return parseAIClassification(resp.Content, text)
}

func buildClassifyPrompt(text string) string {
	names := make([]string, 0, len(activity.AllCategories()))
	for _, c := range activity.AllCategories() {
		names = append(names, string(c))
	}

	var b strings.Builder
	b.WriteString("Проаналізуй цю активність користувача і визнач:\n")
	fmt.Fprintf(&b, "1. Тип активності (%s)\n", strings.Join(names, ", "))
	b.WriteString("2. Підтип (якщо є)\n")
	b.WriteString("3. Деталі активності\n\n")
	fmt.Fprintf(&b, "Текст: %q\n\n", text)
	b.WriteString("Відповідь дай у форматі JSON:\n")
	b.WriteString(`{"type": "тип_активності", "subtype": "підтип", "details": {"description": "опис", "додаткові_поля": "значення"}, "auto_detected": false}`)
	return b.String()
}

// parseAIClassification 解析模型回复。未知类型映射为 other，描述始终为原始文本。
func parseAIClassification(content, text string) (activity.Classification, error) {
	payload := extractJSONObject(content)
	if payload == "" {
		return activity.Classification{}, aiFailure(metrics.OutcomeMalformed, errors.New("no json object in reply"))
	}

	var parsed aiClassification
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return activity.Classification{}, aiFailure(metrics.OutcomeMalformed, fmt.Errorf("decode reply: %w", err))
	}

	category, _ := activity.ParseCategory(parsed.Type)

	subtype, _ := parsed.Subtype.(string)
	subtype = strings.TrimSpace(subtype)

	details := activity.DetailsFromMap(category, parsed.Details)
	if aiDesc := strings.TrimSpace(details.Description); aiDesc != "" && aiDesc != text {
		if details.Extra == nil {
			details.Extra = make(map[string]any)
		}
		details.Extra[aiDescriptionKey] = aiDesc
	}
	details.Description = text

	return activity.Classification{
		Category:     category,
		Subtype:      subtype,
		Details:      details,
		AutoDetected: false,
	}, nil
}

// extractJSONObject 去掉 Markdown 代码块，返回第一个 '{' 到最后一个 '}' 之间的内容。
func extractJSONObject(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
			trimmed = trimmed[nl+1:]
		}
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	start := strings.IndexByte(trimmed, '{')
	end := strings.LastIndexByte(trimmed, '}')
	if start < 0 || end <= start {
		return ""
	}
	return trimmed[start : end+1]
}
