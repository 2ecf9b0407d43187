package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/activitylog/internal/bot"
	"github.com/activitylog/internal/handler"
	"github.com/activitylog/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	gin.SetMode(a.cfg.GinMode)

	var updates handler.UpdateHandler
	var poller *bot.Poller
	if a.cfg.TelegramToken != "" {
		client := a.telegramClient()
		b := a.newBot(client)
		updates = b
		if a.cfg.PollingEnabled {
			if err := client.DeleteWebhook(ctx); err != nil {
				return err
			}
			poller = bot.NewPoller(client, b, bot.PollerConfig{Workers: a.cfg.PollWorkers}, a.log)
		} else if a.cfg.WebhookURL != "" {
			if err := client.SetWebhook(ctx, a.cfg.WebhookURL, a.cfg.WebhookSecret); err != nil {
				return err
			}
			a.log.Info().Str("url", a.cfg.WebhookURL).Msg("webhook registered")
		}
	} else {
		a.log.Warn().Msg("telegram token not set; bot disabled")
	}

	srv := &http.Server{
		Addr:              a.cfg.ListenAddr,
		Handler:           router.SetupRouter(a.api(updates), a.log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if poller != nil {
		g.Go(func() error {
			return poller.Run(gctx)
		})
	}

	err = g.Wait()
	a.log.Info().Msg("server stopped")
	return err
}
