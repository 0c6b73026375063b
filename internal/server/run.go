package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Run serves srv until ctx is cancelled, then shuts down gracefully within
// grace.  A nil ln makes Run listen on srv.Addr.
func Run(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration, log *zap.SugaredLogger) error {
	if log == nil {
		log = zap.S()
	}
	if ln == nil {
		var err error
		if ln, err = net.Listen("tcp", srv.Addr); err != nil {
			return fmt.Errorf("server: listen %s: %w", srv.Addr, err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("http server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	log.Infow("http server shutting down", "grace", orDefault(grace, DefaultShutdownTimeout))
	sctx, cancel := context.WithTimeout(context.Background(), orDefault(grace, DefaultShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	<-errCh
	return nil
}
