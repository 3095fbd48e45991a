package network

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/automoto/arenaball/shared/messages"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"go.uber.org/zap"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoinedGame:
		return "joined"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("ClientState(%d)", int(s))
	}
}

var errNotConnected = errors.New("not connected")

// eventBuffer bounds each event queue between drains.
const eventBuffer = 16

// Client manages a WebSocket connection to an arena server.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu  sync.RWMutex
	log *zap.Logger

	state      ClientState
	lastError  error
	networkID  esync.NetworkId
	playerID   uint32
	serverName string
	tickRate   int
	conn       *websocket.Conn

	snapshotCh chan esync.WorldSnapshot // size-1 buffered; latest wins

	pickupCh chan messages.BallPickedUpEvent
	chargeCh chan messages.ChargeStartedEvent
	throwCh  chan messages.BallThrownEvent
	hitCh    chan messages.BallHitEvent
	dropCh   chan messages.BallDroppedEvent
}

func NewClient(log *zap.Logger) *Client {
	return &Client{
		log:        log.Named("client"),
		state:      StateDisconnected,
		snapshotCh: make(chan esync.WorldSnapshot, 1),
		pickupCh:   make(chan messages.BallPickedUpEvent, eventBuffer),
		chargeCh:   make(chan messages.ChargeStartedEvent, eventBuffer),
		throwCh:    make(chan messages.BallThrownEvent, eventBuffer),
		hitCh:      make(chan messages.BallHitEvent, eventBuffer),
		dropCh:     make(chan messages.BallDroppedEvent, eventBuffer),
	}
}

// Connect dials the server in a background goroutine and sends a JoinRequest
// once the socket is up.
func (c *Client) Connect(address, version, playerName string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		c.log.Info("connected", zap.String("address", address))
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		if err := c.SendMessage(messages.JoinRequest{Version: version, PlayerName: playerName}); err != nil {
			c.setError(fmt.Errorf("send join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		c.log.Info("join accepted",
			zap.Uint32("player_id", msg.PlayerID),
			zap.String("server", msg.ServerName),
			zap.Int("tick_rate", msg.TickRate),
		)
		c.mu.Lock()
		c.networkID = msg.NetworkID
		c.playerID = msg.PlayerID
		c.serverName = msg.ServerName
		c.tickRate = msg.TickRate
		c.state = StateJoinedGame
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		c.log.Warn("join rejected", zap.String("reason", msg.Reason))
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, snapshot esync.WorldSnapshot) {
		select { // drain stale, push latest
		case <-c.snapshotCh:
		default:
		}
		c.snapshotCh <- snapshot
	})

	router.On(func(_ *router.NetworkClient, evt messages.BallPickedUpEvent) { offer(c.pickupCh, evt) })
	router.On(func(_ *router.NetworkClient, evt messages.ChargeStartedEvent) { offer(c.chargeCh, evt) })
	router.On(func(_ *router.NetworkClient, evt messages.BallThrownEvent) { offer(c.throwCh, evt) })
	router.On(func(_ *router.NetworkClient, evt messages.BallHitEvent) { offer(c.hitCh, evt) })
	router.On(func(_ *router.NetworkClient, evt messages.BallDroppedEvent) { offer(c.dropCh, evt) })

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		c.log.Info("disconnected", zap.Error(err))
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		c.log.Warn("router error", zap.Error(err))
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) NetworkID() esync.NetworkId {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.networkID
}

// PlayerID is the arena id assigned on join; events refer to players by it.
func (c *Client) PlayerID() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

func (c *Client) ServerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverName
}

func (c *Client) TickRate() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickRate
}

// LatestSnapshot returns the most recent WorldSnapshot, or nil. Non-blocking.
func (c *Client) LatestSnapshot() *esync.WorldSnapshot {
	select {
	case snap := <-c.snapshotCh:
		return &snap
	default:
		return nil
	}
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return errNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

// Move sends the current stick axes and camera yaw.
func (c *Client) Move(x, y, yaw float64) error {
	return c.SendMessage(messages.MoveInput{X: x, Y: y, Yaw: yaw})
}

func (c *Client) Jump() error         { return c.SendMessage(messages.Jump{}) }
func (c *Client) Pickup() error       { return c.SendMessage(messages.PickupBall{}) }
func (c *Client) StartCharge() error  { return c.SendMessage(messages.StartCharge{}) }
func (c *Client) ReleaseThrow() error { return c.SendMessage(messages.ReleaseThrow{}) }

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

// DrainPickupEvents returns all pending pickup events, non-blocking.
func (c *Client) DrainPickupEvents() []messages.BallPickedUpEvent {
	return drainChan(c.pickupCh)
}

// DrainChargeEvents returns all pending charge events, non-blocking.
func (c *Client) DrainChargeEvents() []messages.ChargeStartedEvent {
	return drainChan(c.chargeCh)
}

// DrainThrowEvents returns all pending throw events, non-blocking.
func (c *Client) DrainThrowEvents() []messages.BallThrownEvent {
	return drainChan(c.throwCh)
}

// DrainHitEvents returns all pending hit events, non-blocking.
func (c *Client) DrainHitEvents() []messages.BallHitEvent {
	return drainChan(c.hitCh)
}

// DrainDropEvents returns all pending drop events, non-blocking.
func (c *Client) DrainDropEvents() []messages.BallDroppedEvent {
	return drainChan(c.dropCh)
}

// offer queues v unless the buffer is full; events are cosmetic on the client.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
