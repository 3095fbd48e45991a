package main

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type registerRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Arena      string `json:"arena"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Version    string `json:"version"`
	Region     string `json:"region"`
}

type registerResponse struct {
	ID string `json:"id"`
}

type heartbeatRequest struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
}

const maxRequestBody = 1 << 16 // 64 KB

// NewHandler routes the master server API.
func NewHandler(reg *Registry, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /servers", ListServers(reg, log))
	mux.HandleFunc("POST /servers/register", RegisterServer(reg, log))
	mux.HandleFunc("POST /servers/heartbeat", Heartbeat(reg))
	mux.HandleFunc("GET /health", Health())
	return mux
}

func ListServers(reg *Registry, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		servers := reg.List(r.URL.Query().Get("region"))
		if err := json.NewEncoder(w).Encode(servers); err != nil {
			log.Warn("list encode error", zap.Error(err))
		}
	}
}

func RegisterServer(reg *Registry, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
			return
		}
		if req.Name == "" || req.Address == "" {
			http.Error(w, `{"error":"name and address required"}`, http.StatusBadRequest)
			return
		}

		id := reg.Register(ServerInfo{
			Name:       req.Name,
			Address:    req.Address,
			Arena:      req.Arena,
			Players:    req.Players,
			MaxPlayers: req.MaxPlayers,
			Version:    req.Version,
			Region:     req.Region,
		})

		log.Info("registered server",
			zap.String("name", req.Name),
			zap.String("address", req.Address),
			zap.String("arena", req.Arena),
			zap.String("id", id),
		)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(registerResponse{ID: id})
	}
}

func Heartbeat(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req heartbeatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
			return
		}

		if !reg.Heartbeat(req.ID, req.Players) {
			http.Error(w, `{"error":"unknown server"}`, http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
