package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dmorgan81/dallebot/internal/dalle"
	"github.com/dmorgan81/dallebot/internal/inject"
	"github.com/dmorgan81/dallebot/internal/log"
	"github.com/dmorgan81/dallebot/internal/metrics"
	"github.com/samber/do"
)

type args struct {
	port int
	size dalle.Size
}

// parseArgs reads "<port> [size]". An unknown or missing size selects Mini.
func parseArgs(argv []string) (args, error) {
	if len(argv) < 1 {
		return args{}, errors.New("usage: dallebot <port> [mini|mega|mega_full]")
	}
	port, err := strconv.Atoi(argv[0])
	if err != nil || port < 0 || port > 65535 {
		return args{}, fmt.Errorf("invalid port %q", argv[0])
	}
	var size dalle.Size
	if len(argv) > 1 {
		size, _ = dalle.ParseSize(argv[1])
	}
	return args{port: port, size: size}, nil
}

func main() {
	logger := log.New(os.Stderr, log.ParseLevel(os.Getenv("LOG_LEVEL")))

	a, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.NewContext(ctx, logger)

	if err := run(ctx, a); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, a args) error {
	logger := log.FromContextOrDiscard(ctx)
	logger.Info("starting server, this might take up to two minutes", "size", a.size.String())

	injector := inject.Setup(ctx, a.size)
	defer func() {
		if err := injector.Shutdown(); err != nil {
			logger.Warn("injector shutdown", "error", err)
		}
	}()

	model, err := do.Invoke[dalle.Model](injector)
	if err != nil {
		return err
	}
	if err := dalle.WarmUp(ctx, model); err != nil {
		return err
	}
	handler, err := do.Invoke[http.Handler](injector)
	if err != nil {
		return err
	}
	metrics.SetBuildInfo(os.Getenv("VERSION"), a.size.String())

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", a.port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()
	logger.Info("server is up and running", "addr", srv.Addr, "model", a.size.Artifact())

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
