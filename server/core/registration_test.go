package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type fixedCount int

func (c fixedCount) PlayerCount() int { return int(c) }

// fakeMaster forgets the server after its first heartbeat.
type fakeMaster struct {
	mu         sync.Mutex
	registered []listingRequest
	heartbeats int
}

func (m *fakeMaster) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /servers/register", func(w http.ResponseWriter, r *http.Request) {
		var req listingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		m.mu.Lock()
		m.registered = append(m.registered, req)
		m.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(listingResponse{ID: "srv-1"})
	})
	mux.HandleFunc("POST /servers/heartbeat", func(w http.ResponseWriter, _ *http.Request) {
		m.mu.Lock()
		m.heartbeats++
		first := m.heartbeats == 1
		m.mu.Unlock()
		if first {
			http.Error(w, "unknown", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (m *fakeMaster) counts() (registers, heartbeats int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.registered), m.heartbeats
}

func TestRegistrationReRegistersWhenForgotten(t *testing.T) {
	master := &fakeMaster{}
	srv := httptest.NewServer(master.handler())
	defer srv.Close()

	reg := NewRegistration(srv.URL, ListingInfo{
		Name:       "Court",
		Address:    "127.0.0.1:7373",
		Arena:      "court",
		MaxPlayers: 8,
		Region:     "eu",
	}, fixedCount(3), zaptest.NewLogger(t))
	reg.SetInterval(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reg.Run(ctx) }()

	deadline := time.Now().Add(3 * time.Second)
	for {
		r, h := master.counts()
		if r >= 2 && h >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("registers=%d heartbeats=%d, want a re-register and a later heartbeat", r, h)
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	master.mu.Lock()
	first := master.registered[0]
	master.mu.Unlock()
	if first.Name != "Court" || first.Arena != "court" || first.Players != 3 || first.Region != "eu" {
		t.Fatalf("listing %+v", first)
	}
	if reg.ServerID() != "srv-1" {
		t.Fatalf("server id %q", reg.ServerID())
	}
}

func TestRegistrationSurvivesMasterOutage(t *testing.T) {
	reg := NewRegistration("http://127.0.0.1:1", ListingInfo{Name: "x", Address: "y"}, fixedCount(0), zaptest.NewLogger(t))
	reg.SetInterval(5 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := reg.Run(ctx); err != nil {
		t.Fatalf("Run returned %v; outages should only be logged", err)
	}
	if reg.ServerID() != "" {
		t.Fatal("registered against a dead master")
	}
}
