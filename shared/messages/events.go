package messages

// BallPickedUpEvent is broadcast when a player takes possession of a ball.
type BallPickedUpEvent struct {
	BallID   uint32
	PlayerID uint32
}

// ChargeStartedEvent is broadcast when a holder begins charging.
type ChargeStartedEvent struct {
	PlayerID uint32
}

// BallThrownEvent is broadcast when a held ball is released.
type BallThrownEvent struct {
	BallID     uint32
	PlayerID   uint32
	Power      float64 // 0.0 to 1.0
	Force      float64
	DirX, DirY float64
	DirZ       float64
}

// BallHitEvent is broadcast when a thrown ball damages a player.
type BallHitEvent struct {
	BallID     uint32
	AttackerID uint32
	TargetID   uint32
	Damage     int
	Health     int // target health after the hit
	Power      float64
	KnockbackX float64
	KnockbackY float64
	KnockbackZ float64
}

// BallDroppedEvent is broadcast when a holder loses the ball without throwing,
// e.g. on disconnect.
type BallDroppedEvent struct {
	BallID   uint32
	PlayerID uint32
}
