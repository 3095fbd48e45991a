package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultHeartbeatInterval keeps a listing alive under the master's default TTL.
const DefaultHeartbeatInterval = 30 * time.Second

var errNotRegistered = errors.New("master has no record of this server")

// ListingInfo is what the master server shows in its server browser.
type ListingInfo struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Arena      string `json:"arena"`
	MaxPlayers int    `json:"maxPlayers"`
	Version    string `json:"version"`
	Region     string `json:"region"`
}

type listingRequest struct {
	ListingInfo
	Players int `json:"players"`
}

type listingResponse struct {
	ID string `json:"id"`
}

type heartbeatRequest struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
}

// PlayerCounter reports current occupancy. *Server satisfies it.
type PlayerCounter interface {
	PlayerCount() int
}

// Registration advertises a running server to a master and keeps the listing
// alive with heartbeats.
type Registration struct {
	masterURL string
	info      ListingInfo
	players   PlayerCounter
	interval  time.Duration
	client    *http.Client
	log       *zap.Logger

	serverID string
}

func NewRegistration(masterURL string, info ListingInfo, players PlayerCounter, log *zap.Logger) *Registration {
	return &Registration{
		masterURL: masterURL,
		info:      info,
		players:   players,
		interval:  DefaultHeartbeatInterval,
		client:    &http.Client{Timeout: 5 * time.Second},
		log:       log.Named("registration"),
	}
}

// SetInterval overrides the heartbeat period.
func (r *Registration) SetInterval(d time.Duration) {
	if d > 0 {
		r.interval = d
	}
}

// ServerID is the id assigned by the master, empty until registered.
func (r *Registration) ServerID() string { return r.serverID }

// Run registers and heartbeats until ctx is done. Master outages are logged
// and retried on the next interval; they never stop the game server.
func (r *Registration) Run(ctx context.Context) error {
	if err := r.register(ctx); err != nil {
		r.log.Warn("initial registration failed", zap.String("master", r.masterURL), zap.Error(err))
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.beat(ctx); err != nil {
				r.log.Warn("heartbeat failed", zap.Error(err))
			}
		}
	}
}

func (r *Registration) beat(ctx context.Context) error {
	if r.serverID == "" {
		return r.register(ctx)
	}
	err := r.sendHeartbeat(ctx)
	if errors.Is(err, errNotRegistered) {
		r.log.Info("master lost our listing, re-registering")
		return r.register(ctx)
	}
	return err
}

func (r *Registration) register(ctx context.Context) error {
	resp, err := r.post(ctx, "/servers/register", listingRequest{
		ListingInfo: r.info,
		Players:     r.players.PlayerCount(),
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("register: unexpected status %d", resp.StatusCode)
	}

	var result listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("register: decode: %w", err)
	}

	r.serverID = result.ID
	r.log.Info("registered with master", zap.String("id", r.serverID), zap.String("master", r.masterURL))
	return nil
}

func (r *Registration) sendHeartbeat(ctx context.Context) error {
	resp, err := r.post(ctx, "/servers/heartbeat", heartbeatRequest{
		ID:      r.serverID,
		Players: r.players.PlayerCount(),
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		r.serverID = ""
		return errNotRegistered
	default:
		return fmt.Errorf("heartbeat: unexpected status %d", resp.StatusCode)
	}
}

func (r *Registration) post(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.masterURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	return resp, nil
}
