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

	"github.com/automoto/arenaball/assets"
	"github.com/automoto/arenaball/config"
	"github.com/automoto/arenaball/server/core"
	"github.com/automoto/arenaball/shared/logging"
	"github.com/automoto/arenaball/shared/protocol"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	port := flag.Uint("port", 7373, "Game websocket port")
	adminAddr := flag.String("admin", "127.0.0.1:7374", "Admin HTTP listen address (empty disables)")
	tuningPath := flag.String("tuning", "", "JSON tuning file overlaid on the defaults")
	arenaName := flag.String("arena", "court", "Arena map to load")
	tickRate := flag.Int("tickrate", 0, "Override tick rate (updates per second)")
	name := flag.String("name", "", "Override server display name")
	version := flag.String("version", "", "Required client version (empty = accept any)")
	logFile := flag.String("logfile", "", "Also write logs to this rotating file")
	logLevel := flag.String("loglevel", "info", "Log level: debug, info, warn, error")
	masterURL := flag.String("master", "", "Master server URL (empty disables registration)")
	publicAddr := flag.String("public", "", "Address advertised to the master, host:port")
	region := flag.String("region", "", "Region advertised to the master")
	flag.Parse()

	log, err := logging.New(logging.Options{FilePath: *logFile, Level: *logLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync(log)

	if err := run(log, options{
		port:       *port,
		adminAddr:  *adminAddr,
		tuningPath: *tuningPath,
		arena:      *arenaName,
		tickRate:   *tickRate,
		name:       *name,
		version:    *version,
		masterURL:  *masterURL,
		publicAddr: *publicAddr,
		region:     *region,
	}); err != nil {
		log.Error("server exited", zap.Error(err))
		logging.Sync(log)
		os.Exit(1)
	}
}

type options struct {
	port       uint
	adminAddr  string
	tuningPath string
	arena      string
	tickRate   int
	name       string
	version    string
	masterURL  string
	publicAddr string
	region     string
}

func run(log *zap.Logger, opts options) error {
	if err := protocol.RegisterComponents(); err != nil {
		return fmt.Errorf("register components: %w", err)
	}

	tuning := config.Default()
	if opts.tuningPath != "" {
		t, err := config.Load(opts.tuningPath)
		if err != nil {
			return err
		}
		tuning = t
	}
	if opts.tickRate > 0 {
		tuning.Server.TickRate = opts.tickRate
	}
	if opts.name != "" {
		tuning.Server.Name = opts.name
	}
	if opts.version != "" {
		tuning.Server.Version = opts.version
	}
	if err := tuning.Validate(); err != nil {
		return fmt.Errorf("tuning: %w", err)
	}

	arenas, names, err := core.LoadArenas(assets.Arenas, assets.ArenaDir)
	if err != nil {
		return err
	}
	level, ok := arenas[opts.arena]
	if !ok {
		return fmt.Errorf("unknown arena %q (have %v)", opts.arena, names)
	}

	server, err := core.NewServer(tuning, level, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return server.Run(ctx) })

	// The necs transport has no shutdown hook, so it is not part of the
	// group; a listen failure cancels everything else.
	listenErr := make(chan error, 1)
	go func() { listenErr <- server.Listen(opts.port) }()
	g.Go(func() error {
		select {
		case err := <-listenErr:
			return fmt.Errorf("game transport: %w", err)
		case <-ctx.Done():
			return nil
		}
	})

	if opts.adminAddr != "" {
		admin := &http.Server{
			Addr:              opts.adminAddr,
			Handler:           core.AdminHandler(server),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Info("admin listening", zap.String("addr", opts.adminAddr))
			if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("admin http: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			return admin.Shutdown(shutdownCtx)
		})
	}

	if opts.masterURL != "" {
		addr := opts.publicAddr
		if addr == "" {
			addr = fmt.Sprintf("localhost:%d", opts.port)
		}
		reg := core.NewRegistration(opts.masterURL, core.ListingInfo{
			Name:       tuning.Server.Name,
			Address:    addr,
			Arena:      level.Name,
			MaxPlayers: tuning.Server.MaxPlayers,
			Version:    tuning.Server.Version,
			Region:     opts.region,
		}, server, log)
		g.Go(func() error { return reg.Run(ctx) })
	}

	log.Info("arena server starting",
		zap.String("name", tuning.Server.Name),
		zap.String("arena", level.Name),
		zap.Uint("port", opts.port),
		zap.Int("tick_rate", tuning.Server.TickRate),
		zap.String("version", tuning.Server.Version),
	)

	err = g.Wait()
	log.Info("arena server stopped")
	return err
}
