// Command master keeps the list of running arena servers for the browser.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/arenaball/shared/logging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	port := flag.Int("port", 8080, "HTTP listen port")
	ttl := flag.Duration("ttl", 90*time.Second, "Server TTL before expiry")
	logFile := flag.String("logfile", "", "Also write logs to this rotating file")
	logLevel := flag.String("loglevel", "info", "Log level")
	flag.Parse()

	log, err := logging.New(logging.Options{FilePath: *logFile, Level: *logLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	log = log.Named("master")
	defer logging.Sync(log)

	reg := NewRegistry(*ttl, log)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           NewHandler(reg, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting", zap.String("addr", srv.Addr), zap.Duration("ttl", *ttl))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				reg.Sweep()
			}
		}
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("fatal", zap.Error(err))
		logging.Sync(log)
		os.Exit(1)
	}
}
