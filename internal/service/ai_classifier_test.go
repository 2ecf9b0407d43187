package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/activitylog/internal/activity"
	"github.com/activitylog/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAIClassifier(apiKey string, handler func(*http.Request) (*http.Response, error)) *AIClassifier {
	c := NewAIClassifier(AIClientConfig{
		APIKey:   apiKey,
		Endpoint: "https://ai.test/chatllm/v1/chat",
		Model:    "claude-3-sonnet",
		Timeout:  time.Second,
	}, zerolog.Nop())
	c.SetHTTPClient(fakeHTTPClient{handler: handler})
	return c
}

func TestAIClassifierSendsConfiguredRequest(t *testing.T) {
	text := "прогулянка в парку"
	c := newTestAIClassifier("sk-test", func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chatllm/v1/chat", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var payload chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "claude-3-sonnet", payload.Model)
		require.NotEmpty(t, payload.Messages)
		prompt := payload.Messages[len(payload.Messages)-1].Content
		assert.Contains(t, prompt, text)
		for _, c := range activity.AllCategories() {
			assert.Contains(t, prompt, string(c))
		}
		return completionResponse(`{"type":"rest","subtype":"walk","details":{"description":"Прогулянка"},"auto_detected":false}`), nil
	})

	got := c.ClassifyFallback(context.Background(), text)
	assert.Equal(t, activity.CategoryRest, got.Category)
	assert.Equal(t, "walk", got.Subtype)
	assert.False(t, got.AutoDetected)
}

func TestAIClassifierHardensReply(t *testing.T) {
	text := "copied notes"
	content := "```json\n" +
		`{"type":"Drink","subtype":7,"details":{"description":"Notes","drink_type":"tea","amount":"3","mood":"calm"},"auto_detected":true}` +
		"\n```"
	c := newTestAIClassifier("sk-test", func(r *http.Request) (*http.Response, error) {
		return completionResponse(content), nil
	})

	got := c.ClassifyFallback(context.Background(), text)
	assert.Equal(t, activity.CategoryDrink, got.Category)
	assert.Equal(t, "", got.Subtype, "non-string subtype is dropped")
	assert.False(t, got.AutoDetected, "fallback results are never auto-detected")
	assert.Equal(t, text, got.Details.Description)
	require.NotNil(t, got.Details.Drink)
	assert.Equal(t, "tea", got.Details.Drink.DrinkType)
	assert.Equal(t, 3, got.Details.Drink.Amount)
	assert.Equal(t, "Notes", got.Details.Extra[aiDescriptionKey])
	assert.Equal(t, "calm", got.Details.Extra["mood"])
}

func TestAIClassifierMapsUnknownTypeToOther(t *testing.T) {
	c := newTestAIClassifier("sk-test", func(r *http.Request) (*http.Response, error) {
		return completionResponse(`{"type":"gardening","subtype":"roses","details":{}}`), nil
	})

	got := c.ClassifyFallback(context.Background(), "planted roses")
	assert.Equal(t, activity.CategoryOther, got.Category)
	assert.Equal(t, "roses", got.Subtype)
	assert.Equal(t, "planted roses", got.Details.Description)
}

func TestAIClassifierFailuresDegradeToUnclassified(t *testing.T) {
	cases := []struct {
		name    string
		apiKey  string
		handler func(*http.Request) (*http.Response, error)
		outcome string
	}{
		{
			name:   "server error",
			apiKey: "sk-test",
			handler: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusInternalServerError, `{"error":{"message":"boom"}}`), nil
			},
			outcome: metrics.OutcomeStatus,
		},
		{
			name:   "transport error",
			apiKey: "sk-test",
			handler: func(r *http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
			outcome: metrics.OutcomeTransport,
		},
		{
			name:   "timeout",
			apiKey: "sk-test",
			handler: func(r *http.Request) (*http.Response, error) {
				return nil, context.DeadlineExceeded
			},
			outcome: metrics.OutcomeTimeout,
		},
		{
			name:   "malformed content",
			apiKey: "sk-test",
			handler: func(r *http.Request) (*http.Response, error) {
				return completionResponse("I think this is about resting"), nil
			},
			outcome: metrics.OutcomeMalformed,
		},
		{
			name:   "malformed body",
			apiKey: "sk-test",
			handler: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, "<html>"), nil
			},
			outcome: metrics.OutcomeMalformed,
		},
		{
			name:   "no choices",
			apiKey: "sk-test",
			handler: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"choices":[]}`), nil
			},
			outcome: metrics.OutcomeMalformed,
		},
		{
			name:   "missing key",
			apiKey: "",
			handler: func(r *http.Request) (*http.Response, error) {
				t.Errorf("request must not be sent without a key")
				return nil, errors.New("unexpected")
			},
			outcome: metrics.OutcomeMissingKey,
		},
	}

	text := "quiet afternoon thinking"
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			counter := metrics.AIFallbackTotal.WithLabelValues(tc.outcome)
			before := testutil.ToFloat64(counter)

			c := newTestAIClassifier(tc.apiKey, tc.handler)
			got := c.ClassifyFallback(context.Background(), text)

			assert.Equal(t, activity.Unclassified(text), got)
			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestAIChatClientReportsFailureKind(t *testing.T) {
	client := newAIChatClient(AIClientConfig{APIKey: "sk-test", Endpoint: "https://ai.test/chat", Timeout: time.Second})
	client.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, ""), nil
	}})

	_, err := client.call(context.Background(), aiChatRequest{UserPrompt: "hi"})
	require.Error(t, err)
	var aiErr *AIError
	require.True(t, errors.As(err, &aiErr))
	assert.Equal(t, metrics.OutcomeStatus, aiErr.Kind)
	assert.True(t, strings.Contains(err.Error(), "429"))
}

func TestAIChatClientDefaultTimeout(t *testing.T) {
	client := newAIChatClient(AIClientConfig{})

	httpClient, ok := client.http.(*http.Client)
	require.True(t, ok)
	assert.Equal(t, defaultAITimeout, httpClient.Timeout)

	client.SetHTTPClient(nil)
	httpClient, ok = client.http.(*http.Client)
	require.True(t, ok)
	assert.Equal(t, defaultAITimeout, httpClient.Timeout)
}

func TestClassifierWithFailingAIFallback(t *testing.T) {
	ai := newTestAIClassifier("sk-test", func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, "internal error"), nil
	})
	classifier := activity.NewClassifier(nil, ai, zerolog.Nop())

	text := "quiet afternoon thinking"
	got := classifier.Classify(context.Background(), text)
	assert.Equal(t, activity.Classification{
		Category:     activity.CategoryOther,
		Subtype:      "",
		Details:      activity.Details{Description: text},
		AutoDetected: false,
	}, got)
}

func TestExtractJSONObject(t *testing.T) {
	cases := map[string]string{
		`{"type":"meal"}`:                       `{"type":"meal"}`,
		"```json\n{\"type\":\"meal\"}\n```":     `{"type":"meal"}`,
		"Here you go: {\"type\":\"meal\"} done": `{"type":"meal"}`,
		"no json":                               "",
		"} backwards {":                         "",
	}
	for input, want := range cases {
		assert.Equal(t, want, extractJSONObject(input), input)
	}
}
