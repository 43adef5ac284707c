package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/andrebq/greeter/config"
	"github.com/andrebq/maestro"
)

func Run(ctx context.Context, cfg config.Server) error {
	ln, err := Listen(cfg)
	if err != nil {
		return err
	}
	return Serve(ctx, ln, cfg)
}

// Listen binds the TCP port from cfg. A port already in use is reported here,
// before anything is served.
func Listen(cfg config.Server) (net.Listener, error) {
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("listen on %v: %w", cfg.Addr(), err)
	}
	return ln, nil
}

// Serve answers requests on ln until ctx is cancelled. ln is closed on return.
func Serve(ctx context.Context, ln net.Listener, cfg config.Server) error {
	defer ln.Close()
	var accessLog io.Writer
	if cfg.AccessLog {
		accessLog = os.Stdout
	}
	srv := &http.Server{
		Handler:           NewHandler(accessLog),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	mctx := maestro.New(ctx)
	mctx.Spawn(func(ctx maestro.Context) error {
		defer mctx.Shutdown()
		slog.Info(fmt.Sprintf("Backend server running on port %d", boundPort(ln)), "address", ln.Addr().String())
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
		return err
	})

	<-mctx.Done()
	slog.Info("Shutting down server", "address", ln.Addr().String())
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-sctx.Done():
	}
	return nil
}

func boundPort(ln net.Listener) int {
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}
