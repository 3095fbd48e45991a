package core

import (
	"encoding/json"
	"net/http"
)

// AdminHandler serves health, metrics, tuning and the live event stream.
//
//	GET /healthz        liveness
//	GET /metrics        gameplay counters
//	GET /admin/tuning   active tuning
//	GET /admin/events   websocket stream of gameplay events
func AdminHandler(s *Server) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"players":     s.PlayerCount(),
			"subscribers": s.hub.Subscribers(),
			"metrics":     s.metrics.Snapshot(),
		})
	})
	mux.HandleFunc("GET /admin/tuning", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, s.tuning)
	})
	mux.Handle("GET /admin/events", s.hub)
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
