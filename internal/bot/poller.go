package bot

import (
	"context"
	"strconv"
	"time"

	"github.com/activitylog/internal/telegram"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// UpdateSource long-polls the Bot API. *telegram.Client satisfies it.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error)
}

// UpdateHandler processes a single update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update telegram.Update) error
}

// PollerConfig tunes the getUpdates loop.
type PollerConfig struct {
	Workers     int
	PollTimeout time.Duration
	RetryDelay  time.Duration
}

// Poller fetches update batches and fans them out to a bounded set of
// workers. Updates from the same user stay in arrival order.
type Poller struct {
	source  UpdateSource
	handler UpdateHandler
	cfg     PollerConfig
	log     zerolog.Logger
}

// NewPoller builds a Poller. Zero values in cfg get defaults.
func NewPoller(source UpdateSource, handler UpdateHandler, cfg PollerConfig, log zerolog.Logger) *Poller {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 3 * time.Second
	}
	return &Poller{
		source:  source,
		handler: handler,
		cfg:     cfg,
		log:     log.With().Str("component", "poller").Logger(),
	}
}

// Run polls until ctx is cancelled. It returns nil on cancellation.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64
	p.log.Info().Int("workers", p.cfg.Workers).Msg("polling for updates")
	for {
		updates, err := p.source.GetUpdates(ctx, offset, p.cfg.PollTimeout)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			p.log.Error().Err(err).Msg("get updates failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(p.cfg.RetryDelay):
			}
			continue
		}
		if len(updates) == 0 {
			continue
		}

		p.Dispatch(ctx, updates)
		offset = nextOffset(offset, updates)
	}
}

// Dispatch handles one batch and waits for it to finish.
func (p *Poller) Dispatch(ctx context.Context, updates []telegram.Update) {
	var order []string
	groups := make(map[string][]telegram.Update)
	for _, u := range updates {
		key := updateKey(u)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], u)
	}

	var g errgroup.Group
	g.SetLimit(p.cfg.Workers)
	for _, key := range order {
		batch := groups[key]
		g.Go(func() error {
			for _, u := range batch {
				if err := p.handler.HandleUpdate(ctx, u); err != nil {
					p.log.Warn().Err(err).Int64("update_id", u.UpdateID).Msg("update not handled")
				}
			}
			return nil
		})
	}
	_ = g.Wait()
}

func updateKey(u telegram.Update) string {
	if u.Message != nil && u.Message.From != nil {
		return u.Message.From.IDString()
	}
	return "update:" + strconv.FormatInt(u.UpdateID, 10)
}

func nextOffset(current int64, updates []telegram.Update) int64 {
	for _, u := range updates {
		if u.UpdateID >= current {
			current = u.UpdateID + 1
		}
	}
	return current
}
