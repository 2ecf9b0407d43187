package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/activitylog/internal/metrics"
)

const defaultAITimeout = 30 * time.Second

// ErrAIAPIKeyMissing 表示未配置 AI 平台 API Key。
var ErrAIAPIKeyMissing = errors.New("api key is required")

// AIError 描述一次失败的 AI 调用，Kind 取 metrics.Outcome* 中的失败类型。
type AIError struct {
	Kind string
	Err  error
}

func (e *AIError) Error() string {
	return fmt.Sprintf("ai %s: %v", e.Kind, e.Err)
}

func (e *AIError) Unwrap() error {
	return e.Err
}

func aiFailure(kind string, err error) *AIError {
	return &AIError{Kind: kind, Err: err}
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type aiChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

type aiChatResponse struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// AIClientConfig 描述单一的 OpenAI 兼容聊天接口。
type AIClientConfig struct {
	APIKey   string
	Endpoint string // 完整的 chat 接口地址
	Model    string
	Timeout  time.Duration
}

type aiChatClient struct {
	http     httpDoer
	apiKey   string
	endpoint string
	model    string
	timeout  time.Duration
}

func newAIChatClient(cfg AIClientConfig) *aiChatClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultAITimeout
	}
	return &aiChatClient{
		http:     &http.Client{Timeout: timeout},
		apiKey:   strings.TrimSpace(cfg.APIKey),
		endpoint: strings.TrimSpace(cfg.Endpoint),
		model:    strings.TrimSpace(cfg.Model),
		timeout:  timeout,
	}
}

func (c *aiChatClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: c.timeout}
		return
	}
	c.http = client
}

// call 发送单轮对话，所有失败都以 *AIError 返回。
func (c *aiChatClient) call(ctx context.Context, req aiChatRequest) (aiChatResponse, error) {
	if c.apiKey == "" {
		return aiChatResponse{}, aiFailure(metrics.OutcomeMissingKey, ErrAIAPIKeyMissing)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]chatMessage, 0, 2)
	if system := strings.TrimSpace(req.SystemPrompt); system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.UserPrompt})

	maxTokens := req.MaxTokens
	if maxTokens < 0 {
		maxTokens = 0
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return aiChatResponse{}, aiFailure(metrics.OutcomeTransport, fmt.Errorf("encode request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return aiChatResponse{}, aiFailure(metrics.OutcomeTransport, fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "activitylog-ai/1.0")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if isTimeout(ctx, err) {
			return aiChatResponse{}, aiFailure(metrics.OutcomeTimeout, err)
		}
		return aiChatResponse{}, aiFailure(metrics.OutcomeTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if isTimeout(ctx, err) {
			return aiChatResponse{}, aiFailure(metrics.OutcomeTimeout, err)
		}
		return aiChatResponse{}, aiFailure(metrics.OutcomeTransport, fmt.Errorf("read response: %w", err))
	}

	var completion chatCompletionResponse
	decodeErr := json.Unmarshal(respBody, &completion)

	if resp.StatusCode != http.StatusOK {
		errMsg := strings.TrimSpace(completion.Error.Message)
		if errMsg == "" {
			errMsg = strings.TrimSpace(string(respBody))
		}
		if errMsg == "" {
			errMsg = resp.Status
		}
		return aiChatResponse{}, aiFailure(metrics.OutcomeStatus, fmt.Errorf("status %d: %s", resp.StatusCode, errMsg))
	}
	if decodeErr != nil {
		return aiChatResponse{}, aiFailure(metrics.OutcomeMalformed, fmt.Errorf("decode response: %w", decodeErr))
	}
	if len(completion.Choices) == 0 {
		return aiChatResponse{}, aiFailure(metrics.OutcomeMalformed, errors.New("no choices in response"))
	}

	return aiChatResponse{
		Content:          strings.TrimSpace(completion.Choices[0].Message.Content),
		PromptTokens:     completion.Usage.PromptTokens,
		CompletionTokens: completion.Usage.CompletionTokens,
	}, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
