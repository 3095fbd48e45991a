package core

import "sync/atomic"

// Metrics are gameplay counters read by the admin endpoint while the tick
// writes them.
type Metrics struct {
	Ticks          atomic.Int64
	TotalTickNs    atomic.Int64
	InputsReceived atomic.Int64
	ActionsLatched atomic.Int64
	ActionsIgnored atomic.Int64
	Pickups        atomic.Int64
	Throws         atomic.Int64
	Drops          atomic.Int64
	Hits           atomic.Int64
	HitsSkipped    atomic.Int64
	DamageDealt    atomic.Int64
}

func (m *Metrics) AddTick(ns int64) {
	m.Ticks.Add(1)
	m.TotalTickNs.Add(ns)
}

// Snapshot returns a copy suitable for JSON output.
func (m *Metrics) Snapshot() map[string]any {
	ticks := m.Ticks.Load()
	var avgMs float64
	if ticks > 0 {
		avgMs = float64(m.TotalTickNs.Load()) / float64(ticks) / 1e6
	}
	return map[string]any{
		"tick_count":      ticks,
		"avg_tick_ms":     avgMs,
		"inputs_received": m.InputsReceived.Load(),
		"actions_latched": m.ActionsLatched.Load(),
		"actions_ignored": m.ActionsIgnored.Load(),
		"pickups":         m.Pickups.Load(),
		"throws":          m.Throws.Load(),
		"drops":           m.Drops.Load(),
		"hits":            m.Hits.Load(),
		"hits_skipped":    m.HitsSkipped.Load(),
		"damage_dealt":    m.DamageDealt.Load(),
	}
}
