package core

import (
	"sync/atomic"

	"github.com/automoto/arenaball/shared/messages"
	"github.com/automoto/arenaball/shared/netconfig"
)

// InputMailbox is a player's single-slot input holder. The connection
// goroutine writes, the tick reads. Movement input is overwritten, never
// queued; each discrete action is a latch stamped with its receipt number.
//
// There are no sequence numbers: a late packet overwrites a newer one.
type InputMailbox struct {
	move    atomic.Pointer[messages.MoveInput]
	actions [netconfig.ActionCount]atomic.Uint64
}

// Frame is what the tick takes out of a mailbox.
type Frame struct {
	Move    messages.MoveInput
	HasMove bool
	// Actions holds the receipt number of each latched action, 0 if none.
	Actions [netconfig.ActionCount]uint64
}

// Has reports whether the action was latched.
func (f Frame) Has(a netconfig.ActionID) bool {
	return f.Actions[a] != 0
}

// Submit replaces the movement and look input.
func (m *InputMailbox) Submit(in messages.MoveInput) {
	m.move.Store(&in)
}

// Latch records an action. receipt must be non-zero; a later latch of the
// same action before the next Consume replaces the earlier one.
func (m *InputMailbox) Latch(a netconfig.ActionID, receipt uint64) {
	if a < 0 || a >= netconfig.ActionCount || receipt == 0 {
		return
	}
	m.actions[a].Store(receipt)
}

// Consume returns the latest movement input, which stays in place for later
// ticks, and clears every action latch.
func (m *InputMailbox) Consume() Frame {
	var f Frame
	if in := m.move.Load(); in != nil {
		f.Move = *in
		f.HasMove = true
	}
	for i := range m.actions {
		f.Actions[i] = m.actions[i].Swap(0)
	}
	return f
}
