package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/activitylog/internal/metrics"
	backoff "github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Config configures the Bot API client.
type Config struct {
	Token      string
	APIBase    string
	Timeout    time.Duration
	MaxRetries uint64
	// BaseBackoff is the first retry delay; it doubles up to MaxBackoff.
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// Client calls the Bot API. Requests that fail with a transport error, 429 or
// 5xx are retried with exponential backoff.
type Client struct {
	http *resty.Client
	cfg  Config
	log  zerolog.Logger
}

// New builds a client. Zero values in cfg get defaults.
func New(cfg Config, log zerolog.Logger) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api.telegram.org"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 500 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 10 * time.Second
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIBase, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)

	return &Client{
		http: c,
		cfg:  cfg,
		log:  log.With().Str("component", "telegram").Logger(),
	}
}

// SendMessage sends a text reply.
func (c *Client) SendMessage(ctx context.Context, msg OutgoingMessage) error {
	return c.call(ctx, "sendMessage", nil, func(r *resty.Request) *resty.Request {
		return r.SetHeader("Content-Type", "application/json").SetBody(msg)
	})
}

// SendDocument uploads a file as a multipart form.
func (c *Client) SendDocument(ctx context.Context, doc Document) error {
	fields := map[string]string{"chat_id": strconv.FormatInt(doc.ChatID, 10)}
	if doc.Caption != "" {
		fields["caption"] = doc.Caption
	}
	return c.call(ctx, "sendDocument", nil, func(r *resty.Request) *resty.Request {
		return r.SetMultipartFormData(fields).
			SetFileReader("document", doc.FileName, bytes.NewReader(doc.Content))
	})
}

// GetUpdates long-polls for updates after offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	body := map[string]any{
		"offset":          offset,
		"timeout":         int(timeout.Seconds()),
		"allowed_updates": []string{"message"},
	}
	var updates []Update
	err := c.call(ctx, "getUpdates", &updates, func(r *resty.Request) *resty.Request {
		return r.SetHeader("Content-Type", "application/json").SetBody(body)
	})
	return updates, err
}

// SetWebhook registers url for update delivery. secret is echoed back by
// Telegram in the X-Telegram-Bot-Api-Secret-Token header.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	body := map[string]any{"url": url, "allowed_updates": []string{"message"}}
	if secret != "" {
		body["secret_token"] = secret
	}
	return c.call(ctx, "setWebhook", nil, func(r *resty.Request) *resty.Request {
		return r.SetHeader("Content-Type", "application/json").SetBody(body)
	})
}

// DeleteWebhook switches the bot back to getUpdates delivery.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	return c.call(ctx, "deleteWebhook", nil, func(r *resty.Request) *resty.Request {
		return r.SetHeader("Content-Type", "application/json").SetBody(map[string]any{})
	})
}

// call runs one Bot API method. build is invoked for every attempt so request
// bodies backed by readers are fresh.
func (c *Client) call(ctx context.Context, method string, out any, build func(*resty.Request) *resty.Request) error {
	if c.cfg.Token == "" {
		return errors.New("telegram: bot token is not configured")
	}
	path := fmt.Sprintf("/bot%s/%s", c.cfg.Token, method)

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = c.cfg.MaxBackoff
	exp.MaxElapsedTime = 0
	exp.Reset()
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, c.cfg.MaxRetries), ctx)

	attempt := 0
	op := func() error {
		attempt++
		resp, err := build(c.http.R().SetContext(ctx)).Post(path)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			// Transport errors embed the request URL, which carries the token.
			return fmt.Errorf("telegram %s: %s", method, strings.ReplaceAll(err.Error(), c.cfg.Token, "<token>"))
		}

		var envelope apiResponse
		decodeErr := json.Unmarshal(resp.Body(), &envelope)

		status := resp.StatusCode()
		if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
			return &APIError{Method: method, Code: status, Description: envelope.Description}
		}
		if decodeErr != nil {
			return backoff.Permanent(fmt.Errorf("telegram %s: decode response: %w", method, decodeErr))
		}
		if !envelope.OK {
			code := envelope.ErrorCode
			if code == 0 {
				code = status
			}
			return backoff.Permanent(&APIError{Method: method, Code: code, Description: envelope.Description})
		}
		if out != nil && len(envelope.Result) > 0 {
			if err := json.Unmarshal(envelope.Result, out); err != nil {
				return backoff.Permanent(fmt.Errorf("telegram %s: decode result: %w", method, err))
			}
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		metrics.TelegramRequestsTotal.WithLabelValues(method, "retry").Inc()
		c.log.Warn().Err(err).Str("method", method).Int("attempt", attempt).Dur("wait", wait).Msg("retrying bot api call")
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		metrics.TelegramRequestsTotal.WithLabelValues(method, "error").Inc()
		return err
	}
	metrics.TelegramRequestsTotal.WithLabelValues(method, "ok").Inc()
	return nil
}
