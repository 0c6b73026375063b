package vault

import (
	"context"
	"time"

	vault "github.com/hashicorp/vault/api"
)

// retryDelay spaces out failed renewals.
const retryDelay = 30 * time.Second

// keepTokenAlive renews the client token for as long as ctx lives.  A
// token that cannot be renewed (root or periodic-less) ends the loop.
func (c *Client) keepTokenAlive(ctx context.Context) {
	for ctx.Err() == nil {
		sec, err := c.api.Auth().Token().RenewSelfWithContext(ctx, 0)
		if err != nil {
			c.log.Warnw("vault token renew failed", "err", err)
			sleep(ctx, retryDelay)
			continue
		}
		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			c.log.Infow("vault token is not renewable, watcher stopped")
			return
		}

		w, err := c.api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{Secret: sec})
		if err != nil {
			c.log.Warnw("vault token watcher", "err", err)
			sleep(ctx, retryDelay)
			continue
		}
		c.watch(ctx, w)
	}
}

// watch runs w until the token can no longer be renewed or ctx ends.
func (c *Client) watch(ctx context.Context, w *vault.LifetimeWatcher) {
	go w.Start()
	defer w.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.DoneCh():
			if err != nil {
				c.log.Warnw("vault token watcher stopped", "err", err)
			}
			sleep(ctx, retryDelay)
			return
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				c.log.Debugw("vault token renewed", "ttl_s", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
