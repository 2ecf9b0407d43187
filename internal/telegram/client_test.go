package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		Token:       "123:ABC",
		APIBase:     srv.URL,
		Timeout:     2 * time.Second,
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  5 * time.Millisecond,
	}, zerolog.Nop())
}

func TestSendMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot123:ABC/sendMessage", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var msg OutgoingMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		assert.Equal(t, int64(99), msg.ChatID)
		assert.Equal(t, "✅ Записав: meal (lunch)", msg.Text)
		require.NotNil(t, msg.ReplyMarkup)
		assert.Equal(t, "📊 Статистика", msg.ReplyMarkup.Keyboard[1][0].Text)

		io.WriteString(w, `{"ok":true,"result":{"message_id":1}}`)
	})

	err := client.SendMessage(context.Background(), OutgoingMessage{
		ChatID:      99,
		Text:        "✅ Записав: meal (lunch)",
		ReplyMarkup: Keyboard([]string{"➕ Додати активність"}, []string{"📊 Статистика", "📝 Підсумок дня"}),
	})
	assert.NoError(t, err)
}

func TestCallRetriesOnServerErrors(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			io.WriteString(w, `{"ok":false,"error_code":429,"description":"Too Many Requests","parameters":{"retry_after":1}}`)
			return
		}
		io.WriteString(w, `{"ok":true,"result":true}`)
	})

	require.NoError(t, client.SendMessage(context.Background(), OutgoingMessage{ChatID: 1, Text: "hi"}))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestCallGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	err := client.SendMessage(context.Background(), OutgoingMessage{ChatID: 1, Text: "hi"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Code)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "one attempt plus two retries")
}

func TestCallDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
	})

	err := client.SendMessage(context.Background(), OutgoingMessage{ChatID: 1, Text: "hi"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
	assert.Contains(t, apiErr.Description, "chat not found")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetUpdates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot123:ABC/getUpdates", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(11), body["offset"])
		assert.Equal(t, float64(30), body["timeout"])

		io.WriteString(w, `{"ok":true,"result":[{"update_id":11,"message":{"message_id":5,"from":{"id":42,"is_bot":false,"first_name":"Оля"},"chat":{"id":42,"type":"private"},"date":1760511600,"text":"обід"}}]}`)
	})

	updates, err := client.GetUpdates(context.Background(), 11, 30*time.Second)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	msg := updates[0].Message
	require.NotNil(t, msg)
	assert.Equal(t, "обід", msg.Text)
	assert.Equal(t, "42", msg.From.IDString())
	assert.Equal(t, time.Unix(1760511600, 0).UTC(), msg.Time())
}

func TestSendDocumentUploadsMultipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot123:ABC/sendDocument", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "42", r.FormValue("chat_id"))
		assert.Equal(t, "export", r.FormValue("caption"))

		file, header, err := r.FormFile("document")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "activities.csv", header.Filename)
		assert.Equal(t, "Date,Time\n", string(content))

		io.WriteString(w, `{"ok":true,"result":{}}`)
	})

	err := client.SendDocument(context.Background(), Document{
		ChatID:   42,
		FileName: "activities.csv",
		Content:  []byte("Date,Time\n"),
		Caption:  "export",
	})
	assert.NoError(t, err)
}

func TestSetWebhookSendsSecret(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://bot.example/telegram/webhook", body["url"])
		assert.Equal(t, "s3cret", body["secret_token"])
		io.WriteString(w, `{"ok":true,"result":true}`)
	})

	assert.NoError(t, client.SetWebhook(context.Background(), "https://bot.example/telegram/webhook", "s3cret"))
}

func TestCallWithoutToken(t *testing.T) {
	client := New(Config{}, zerolog.Nop())
	assert.Error(t, client.SendMessage(context.Background(), OutgoingMessage{ChatID: 1, Text: "hi"}))
}
