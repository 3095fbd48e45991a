// Command arenabot joins an arena server and plays: it wanders, picks up balls
// and throws them. Run several to soak-test a server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/arenaball/network"
	"github.com/automoto/arenaball/shared/logging"
	"github.com/automoto/arenaball/shared/protocol"
	"go.uber.org/zap"
)

func main() {
	addr := flag.String("addr", "localhost:7373", "Server host:port")
	name := flag.String("name", "bot", "Player name when no profile exists")
	version := flag.String("version", "", "Client version sent on join")
	duration := flag.Duration("duration", 0, "Stop after this long (0 runs until interrupted)")
	rate := flag.Int("rate", 20, "Input sends per second")
	charge := flag.Duration("charge", time.Second, "How long to charge each throw")
	sweep := flag.Duration("sweep", 4*time.Second, "Period of the yaw sweep")
	app := flag.String("profile", "arenaball-bot", "gdata app name for the persisted profile (empty disables)")
	logLevel := flag.String("loglevel", "info", "Log level")
	flag.Parse()

	log, err := logging.New(logging.Options{Level: *logLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync(log)

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatal("register components", zap.Error(err))
	}

	var store *profileStore
	prof := profile{Name: *name}
	if *app != "" {
		if store, err = openProfileStore(*app); err != nil {
			log.Warn("profile disabled", zap.Error(err))
		} else if prof, err = store.load(*name); err != nil {
			log.Warn("profile reset", zap.Error(err))
		}
	}
	prof.Runs++

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	client := network.NewClient(log)
	client.Connect(*addr, *version, prof.Name)
	defer client.Disconnect()

	b := newBrain(sweep.Seconds(), charge.Seconds())
	play(ctx, log, client, b, *rate, &prof)

	log.Info("bot finished",
		zap.String("name", prof.Name),
		zap.Int("runs", prof.Runs),
		zap.Int("throws", prof.Throws),
		zap.Int("hits", prof.Hits),
	)
	if store != nil {
		if err := store.save(prof); err != nil {
			log.Warn("profile not saved", zap.Error(err))
		}
	}
}

func play(ctx context.Context, log *zap.Logger, c *network.Client, b *brain, rate int, prof *profile) {
	if rate < 1 {
		rate = 1
	}
	dt := 1.0 / float64(rate)
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		switch c.State() {
		case network.StateError:
			log.Error("connection failed", zap.Error(c.LastError()))
			return
		case network.StateJoinedGame:
		default:
			continue
		}

		me := c.PlayerID()
		for _, e := range c.DrainPickupEvents() {
			if e.PlayerID == me {
				b.setHolding(true)
				prof.Pickups++
			}
		}
		for _, e := range c.DrainDropEvents() {
			if e.PlayerID == me {
				b.setHolding(false)
			}
		}
		for _, e := range c.DrainThrowEvents() {
			if e.PlayerID == me {
				prof.Throws++
			}
		}
		for _, e := range c.DrainHitEvents() {
			if e.AttackerID == me {
				prof.Hits++
				prof.Damage += e.Damage
			}
		}
		c.DrainChargeEvents()
		c.LatestSnapshot()

		x, y, yaw, acts := b.step(dt)
		if err := c.Move(x, y, yaw); err != nil {
			log.Debug("send move", zap.Error(err))
		}
		for _, a := range acts {
			if err := send(c, a); err != nil {
				log.Debug("send action", zap.Int("action", int(a)), zap.Error(err))
			}
		}
	}
}

func send(c *network.Client, a action) error {
	switch a {
	case actPickup:
		return c.Pickup()
	case actStartCharge:
		return c.StartCharge()
	case actRelease:
		return c.ReleaseThrow()
	case actJump:
		return c.Jump()
	}
	return nil
}
