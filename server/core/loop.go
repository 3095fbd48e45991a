package core

import (
	"context"
	"time"

	"github.com/automoto/arenaball/config"
	"github.com/leap-fish/necs/esync/srvsync"
	"go.uber.org/zap"
)

type GameLoop struct {
	server   *Server
	tickRate int
	dt       float64
	log      *zap.Logger
}

func NewGameLoop(server *Server, tuning config.Tuning, log *zap.Logger) *GameLoop {
	if tuning.Server.TickRate < 1 {
		tuning.Server.TickRate = 1
	}
	return &GameLoop{
		server:   server,
		tickRate: tuning.Server.TickRate,
		dt:       tuning.TickDelta(),
		log:      log.Named("loop"),
	}
}

// Run ticks at the fixed rate until ctx is done.
func (g *GameLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	g.log.Info("game loop started", zap.Int("tick_rate", g.tickRate))

	for {
		select {
		case <-ctx.Done():
			g.log.Info("game loop stopped")
			return nil
		case <-ticker.C:
			g.tick()
		}
	}
}

func (g *GameLoop) tick() {
	g.server.ProcessCommands()
	g.server.arena.Tick(g.dt)

	if err := srvsync.DoSync(); err != nil {
		g.log.Warn("sync error", zap.Error(err))
	}
}
