package push

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pusher/pusher-http-go/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/suniorfit/backend/pkg/config"
)

// Pusher delivers a payload to a user's private channel. Implementations are
// best-effort; callers treat errors as non-fatal.
type Pusher interface {
	Trigger(ctx context.Context, channel, event string, payload any) error
}

type client struct {
	pusher *pusher.Client
}

// New builds the real-time push client. When credentials are absent it
// returns a disabled client that drops every trigger with a warning, so the
// rest of the system never has to nil-check the transport.
func New(cfg *cfgpkg.Config, log *zap.SugaredLogger) Pusher {
	if !cfg.Pusher.Configured() {
		log.Warnw("pusher credentials missing, realtime push disabled")
		return &disabled{log: log}
	}

	p := &pusher.Client{
		AppID:   cfg.Pusher.AppID,
		Key:     cfg.Pusher.Key,
		Secret:  cfg.Pusher.Secret,
		Cluster: cfg.Pusher.Cluster,
		Secure:  cfg.Pusher.Secure,
	}
	if cfg.Pusher.Host != "" {
		p.Host = cfg.Pusher.Host
	}
	if cfg.Pusher.Timeout > 0 {
		// keep slow push transport from ever stalling a webhook response
		p.HTTPClient = &http.Client{Timeout: cfg.Pusher.Timeout}
	}
	return &client{pusher: p}
}

func (c *client) Trigger(_ context.Context, channel, event string, payload any) error {
	if err := c.pusher.Trigger(channel, event, payload); err != nil {
		return fmt.Errorf("pusher trigger %s/%s: %w", channel, event, err)
	}
	return nil
}

type disabled struct {
	log *zap.SugaredLogger
}

func (d *disabled) Trigger(_ context.Context, channel, event string, _ any) error {
	d.log.Debugw("push_skipped_disabled", "channel", channel, "event", event)
	return nil
}

// UserChannel is the private channel a user's devices subscribe to.
func UserChannel(userID int64) string {
	return fmt.Sprintf("private-user.%d", userID)
}

var Module = fx.Options(
	fx.Provide(New),
)
