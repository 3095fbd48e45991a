package core

import (
	"encoding/json"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	hubSendBuffer = 64
	hubWriteWait  = 5 * time.Second
	hubPongWait   = 60 * time.Second
)

// EventHub streams gameplay events as JSON to admin websocket subscribers.
// Publish never blocks the tick: slow subscribers lose messages.
type EventHub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu   sync.RWMutex
	subs map[*hubConn]struct{}
}

type hubConn struct {
	ws   *websocket.Conn
	send chan []byte
}

// hubMessage is the JSON envelope sent to subscribers.
type hubMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func NewEventHub(log *zap.Logger) *EventHub {
	return &EventHub{
		log:  log.Named("hub"),
		subs: make(map[*hubConn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Publish implements EventSink.
func (h *EventHub) Publish(event any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.subs) == 0 {
		return
	}

	payload, err := json.Marshal(hubMessage{Type: reflect.TypeOf(event).Name(), Data: event})
	if err != nil {
		h.log.Warn("encode event", zap.Error(err))
		return
	}
	for c := range h.subs {
		select {
		case c.send <- payload:
		default:
		}
	}
}

// Subscribers returns the number of connected admin streams.
func (h *EventHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// ServeHTTP upgrades the request and streams events until the peer leaves.
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("upgrade failed", zap.Error(err))
		return
	}
	c := &hubConn{ws: ws, send: make(chan []byte, hubSendBuffer)}

	h.mu.Lock()
	h.subs[c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()
	c.readPump()

	h.mu.Lock()
	delete(h.subs, c)
	close(c.send)
	h.mu.Unlock()
}

func (c *hubConn) writePump() {
	defer c.ws.Close()
	for msg := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(hubWriteWait))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump discards client frames and returns when the connection closes.
func (c *hubConn) readPump() {
	c.ws.SetReadLimit(1 << 10)
	_ = c.ws.SetReadDeadline(time.Now().Add(hubPongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(hubPongWait))
	})
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}
