package core

import (
	"github.com/automoto/arenaball/shared/netcomponents"
	"github.com/yohamta/donburi"
)

// ReplicatedHealthStore keeps each player's health in the replicated
// NetPlayerState component. Clients only ever read it; the server changes it
// only through combat.
type ReplicatedHealthStore struct {
	world donburi.World
}

func NewReplicatedHealthStore(world donburi.World) *ReplicatedHealthStore {
	return &ReplicatedHealthStore{world: world}
}

// Health returns the player's current health, and false if the player has no
// live entity.
func (h *ReplicatedHealthStore) Health(p *Player) (int, bool) {
	state := h.state(p)
	if state == nil {
		return 0, false
	}
	return state.Health, true
}

func (h *ReplicatedHealthStore) set(p *Player, hp int) {
	if state := h.state(p); state != nil {
		state.Health = hp
	}
}

// apply subtracts damage with no lower bound and returns the new value.
func (h *ReplicatedHealthStore) apply(p *Player, damage int) (int, bool) {
	state := h.state(p)
	if state == nil {
		return 0, false
	}
	state.Health -= damage
	return state.Health, true
}

func (h *ReplicatedHealthStore) state(p *Player) *netcomponents.NetPlayerStateData {
	if p == nil || !h.world.Valid(p.Entity) {
		return nil
	}
	entry := h.world.Entry(p.Entity)
	if !entry.HasComponent(netcomponents.NetPlayerState) {
		return nil
	}
	return netcomponents.NetPlayerState.Get(entry)
}
