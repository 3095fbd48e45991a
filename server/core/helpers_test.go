package core

import (
	"testing"

	"github.com/automoto/arenaball/config"
	"github.com/automoto/arenaball/server/physics"
	"github.com/automoto/arenaball/shared/leveldata"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap/zaptest"
)

const testDT = 1.0 / 30

// recorder collects published events on the tick goroutine.
type recorder struct {
	events []any
}

func (r *recorder) Publish(event any) { r.events = append(r.events, event) }

func eventsOf[T any](r *recorder) []T {
	var out []T
	for _, e := range r.events {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// openLevel is a wall-less 20x20 floor.
func openLevel(players []leveldata.SpawnPoint, balls []leveldata.SpawnPoint) *leveldata.ArenaData {
	return &leveldata.ArenaData{
		Name:         "test",
		Width:        20,
		Depth:        20,
		PlayerSpawns: players,
		BallSpawns:   balls,
	}
}

func spawn(x, z float64) leveldata.SpawnPoint {
	return leveldata.SpawnPoint{X: x, Z: z}
}

func newTestArena(t *testing.T, level *leveldata.ArenaData) (*Arena, *recorder) {
	t.Helper()
	rec := &recorder{}
	a, err := NewArena(config.Default(), level, zaptest.NewLogger(t), WithEvents(rec))
	if err != nil {
		t.Fatalf("NewArena: %v", err)
	}
	return a, rec
}

func addPlayer(t *testing.T, a *Arena, name string) *Player {
	t.Helper()
	p, err := a.AddPlayer(name)
	if err != nil {
		t.Fatalf("AddPlayer(%s): %v", name, err)
	}
	return p
}

func newTestWorld() *physics.World {
	return NewLevelWorld(openLevel(nil, nil), config.Default().Physics)
}

func addTestPlayer(w *physics.World, id uint32, x, z float64) *Player {
	cfg := config.Default().Player
	return &Player{
		ID:      id,
		Mailbox: &InputMailbox{},
		Body: w.AddBody(physics.BodyDesc{
			Kind:       physics.KindPlayer,
			Position:   mgl64.Vec3{x, cfg.HalfHeight, z},
			Radius:     cfg.Radius,
			HalfHeight: cfg.HalfHeight,
			Mass:       cfg.Mass,
			Drag:       cfg.Drag,
			UseGravity: true,
		}),
	}
}

func addTestBall(w *physics.World, id uint32, x, z float64) *Ball {
	cfg := config.Default().Ball
	return &Ball{
		ID: id,
		Body: w.AddBody(physics.BodyDesc{
			Kind:        physics.KindBall,
			Position:    mgl64.Vec3{x, cfg.Radius, z},
			Radius:      cfg.Radius,
			HalfHeight:  cfg.Radius,
			Mass:        cfg.Mass,
			Restitution: cfg.Restitution,
			UseGravity:  true,
		}),
	}
}
