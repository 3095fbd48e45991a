package main

import (
	"crypto/rand"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ServerInfo describes an arena server visible in the browser.
type ServerInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Arena      string `json:"arena"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Version    string `json:"version"`
	Region     string `json:"region"`
}

type serverRecord struct {
	ServerInfo
	lastSeen time.Time
}

// Registry is an in-memory set of live servers. Entries not heard from within
// the TTL are dropped by Sweep.
type Registry struct {
	mu      sync.RWMutex
	servers map[string]*serverRecord
	ttl     time.Duration
	now     func() time.Time
	log     *zap.Logger
}

func NewRegistry(ttl time.Duration, log *zap.Logger) *Registry {
	return &Registry{
		servers: make(map[string]*serverRecord),
		ttl:     ttl,
		now:     time.Now,
		log:     log,
	}
}

func (r *Registry) Register(info ServerInfo) string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	info.ID = fmt.Sprintf("%x", b)

	r.mu.Lock()
	r.servers[info.ID] = &serverRecord{ServerInfo: info, lastSeen: r.now()}
	r.mu.Unlock()

	return info.ID
}

// Heartbeat refreshes a listing. It returns false for unknown ids so the game
// server knows to register again.
func (r *Registry) Heartbeat(id string, players int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.servers[id]
	if !ok {
		return false
	}
	rec.lastSeen = r.now()
	rec.Players = players
	return true
}

// List returns live servers, optionally limited to one region, ordered by
// name then id.
func (r *Registry) List(region string) []ServerInfo {
	r.mu.RLock()
	result := make([]ServerInfo, 0, len(r.servers))
	for _, rec := range r.servers {
		if region != "" && rec.Region != region {
			continue
		}
		result = append(result, rec.ServerInfo)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Sweep removes expired listings and returns how many were dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, rec := range r.servers {
		if age := now.Sub(rec.lastSeen); age >= r.ttl {
			r.log.Info("expired server",
				zap.String("name", rec.Name),
				zap.String("id", id),
				zap.Duration("last_seen", age.Round(time.Second)),
			)
			delete(r.servers, id)
			removed++
		}
	}
	return removed
}
