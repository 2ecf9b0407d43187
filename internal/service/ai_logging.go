package service

import (
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const maxAILogSnippetRunes = 1024

// logAIExchange 用于输出 AI 请求与响应的关键信息，方便排查模型行为。
func logAIExchange(log zerolog.Logger, kind, phase, content string) {
	trimmed := strings.TrimSpace(content)
	event := log.Debug().Str("kind", kind).Str("phase", phase)
	if trimmed == "" {
		event.Msg("<empty>")
		return
	}

	runeCount := utf8.RuneCountInString(trimmed)
	snippet := trimmed
	if runeCount > maxAILogSnippetRunes {
		snippet = string([]rune(trimmed)[:maxAILogSnippetRunes]) + "…(truncated)"
	}
	event.Int("runes", runeCount).Msg(snippet)
}
