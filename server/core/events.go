package core

import "github.com/yohamta/donburi"

// EventSink receives gameplay events (values from shared/messages) on the
// tick goroutine. Implementations must not block.
type EventSink interface {
	Publish(event any)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(event any)

func (f EventSinkFunc) Publish(event any) { f(event) }

type discardEvents struct{}

func (discardEvents) Publish(any) {}

// FanOut publishes every event to each sink in order.
type FanOut []EventSink

func (f FanOut) Publish(event any) {
	for _, s := range f {
		s.Publish(event)
	}
}

// Replicator marks new entities for network sync.
type Replicator interface {
	TrackPlayer(world donburi.World, entity donburi.Entity) error
	TrackBall(world donburi.World, entity donburi.Entity) error
}

type localOnly struct{}

func (localOnly) TrackPlayer(donburi.World, donburi.Entity) error { return nil }
func (localOnly) TrackBall(donburi.World, donburi.Entity) error { return nil }
