// Package daemon hosts the corkboard state over HTTP: a bbolt-backed note
// and message store, JSON endpoints for mutations, SSE endpoints that push
// a full snapshot to every watcher after each write, and the chat-bot
// webhook.
package daemon

import (
	"context"
	"errors"
	"net/http"
	"time"

	"corkboard/internal/config"
	"corkboard/internal/logging"
	"corkboard/internal/store"
)

type Daemon struct {
	addr    string
	token   string
	version string
	server  *http.Server
	stores  *Stores
	webhook config.WebhookConfig
	logger  logging.Logger
}

type Stores struct {
	Notes    store.NoteStore
	Messages store.MessageStore
}

func New(addr, token, version string, stores *Stores, webhook config.WebhookConfig, logger logging.Logger) *Daemon {
	return &Daemon{
		addr:    addr,
		token:   token,
		version: version,
		stores:  stores,
		webhook: webhook,
		logger:  logger,
	}
}

func (d *Daemon) Run(ctx context.Context) error {
	api := &API{
		Version: d.version,
		Stores:  d.stores,
		Notes:   newNoteHub(),
		Chat:    newMessageHub(),
		Limiter: newWebhookLimiter(d.webhook.EffectiveRatePerMinute()),
		Logger:  d.logger,
	}

	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	handler := TokenAuthMiddleware(d.token, mux)
	d.server = &http.Server{
		Addr:    d.addr,
		Handler: handler,
	}
	api.Shutdown = d.server.Shutdown

	errCh := make(chan error, 1)
	go func() {
		if d.logger != nil {
			d.logger.Info("daemon_listening", logging.F("addr", d.addr))
		}
		errCh <- d.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
