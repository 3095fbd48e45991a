package protocol

import (
	"github.com/automoto/arenaball/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetTransform   uint = 10
	SyncIDNetPlayerState uint = 11
	SyncIDNetBall        uint = 12
)

// Interpolation IDs (uint8 for WithInterpFn)
const (
	InterpIDNetTransform uint8 = 10
)

// RegisterComponents registers all network components with necs for serialization.
// This must be called by both server and client before any network operations.
func RegisterComponents() error {
	if err := esync.RegisterComponent(
		SyncIDNetTransform,
		netcomponents.NetTransformData{},
		netcomponents.NetTransform,
		esync.WithInterpFn(InterpIDNetTransform, netcomponents.LerpNetTransform),
	); err != nil {
		return err
	}

	// Discrete state: no interpolation
	if err := esync.RegisterComponent(
		SyncIDNetPlayerState,
		netcomponents.NetPlayerStateData{},
		netcomponents.NetPlayerState,
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetBall,
		netcomponents.NetBallData{},
		netcomponents.NetBall,
	); err != nil {
		return err
	}

	return nil
}
