package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/automoto/arenaball/config"
	"github.com/automoto/arenaball/shared/leveldata"
	"github.com/automoto/arenaball/shared/messages"
	"github.com/automoto/arenaball/shared/netcomponents"
	"github.com/automoto/arenaball/shared/netconfig"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"
	"go.uber.org/zap"
)

// commandQueueSize bounds join/leave work waiting for the next tick.
const commandQueueSize = 256

// session is one websocket client. player is set once the join is accepted.
type session struct {
	client *router.NetworkClient
	name   string
	player *Player
}

// Server connects necs clients to an Arena. Router callbacks run on necs
// goroutines and only touch mailboxes and the command queue; the arena itself
// is driven from the GameLoop.
type Server struct {
	tuning config.Tuning
	log    *zap.Logger

	world   donburi.World
	arena   *Arena
	loop    *GameLoop
	metrics *Metrics
	hub     *EventHub

	commands chan func()
	receipts atomic.Uint64
	players  atomic.Int32

	sessions map[*router.NetworkClient]*session
	mu       sync.RWMutex
}

// NewServer creates a server for the given arena map.
func NewServer(tuning config.Tuning, level *leveldata.ArenaData, log *zap.Logger) (*Server, error) {
	world := donburi.NewWorld()
	srvsync.UseEsync(world)

	s := &Server{
		tuning:   tuning,
		log:      log.Named("server"),
		world:    world,
		metrics:  &Metrics{},
		hub:      NewEventHub(log),
		commands: make(chan func(), commandQueueSize),
		sessions: make(map[*router.NetworkClient]*session),
	}

	arena, err := NewArena(tuning, level, log,
		WithWorld(world),
		WithReplicator(esyncReplicator{}),
		WithEvents(FanOut{EventSinkFunc(s.broadcast), s.hub}),
		WithMetrics(s.metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("create arena: %w", err)
	}
	s.arena = arena
	s.loop = NewGameLoop(s, tuning, log)

	s.setupRouterCallbacks()
	return s, nil
}

// Run drives the game loop until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.loop.Run(ctx)
}

// Listen serves websocket clients on port. It blocks.
func (s *Server) Listen(port uint) error {
	transport := transports.NewWsServerTransport(port, "", nil)
	return transport.Start()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		s.onConnect(client)
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.onDisconnect(client, err)
	})

	router.On(func(client *router.NetworkClient, req messages.JoinRequest) {
		s.onJoinRequest(client, req)
	})

	router.On(func(client *router.NetworkClient, in messages.MoveInput) {
		if mb := s.mailbox(client); mb != nil {
			mb.Submit(in)
			s.metrics.InputsReceived.Add(1)
		}
	})
	router.On(func(client *router.NetworkClient, _ messages.Jump) {
		s.latch(client, netconfig.ActionJump)
	})
	router.On(func(client *router.NetworkClient, _ messages.PickupBall) {
		s.latch(client, netconfig.ActionPickup)
	})
	router.On(func(client *router.NetworkClient, _ messages.StartCharge) {
		s.latch(client, netconfig.ActionStartCharge)
	})
	router.On(func(client *router.NetworkClient, _ messages.ReleaseThrow) {
		s.latch(client, netconfig.ActionReleaseThrow)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		s.log.Warn("client error", zap.String("client", client.Id()), zap.Error(err))
	})
}

func (s *Server) onConnect(client *router.NetworkClient) {
	s.log.Info("client connected", zap.String("client", client.Id()))
	s.mu.Lock()
	s.sessions[client] = &session{client: client}
	s.mu.Unlock()
}

func (s *Server) onJoinRequest(client *router.NetworkClient, req messages.JoinRequest) {
	if v := s.tuning.Server.Version; v != "" && req.Version != v {
		s.reject(client, fmt.Sprintf("version mismatch: server %s, client %s", v, req.Version))
		return
	}
	if int(s.players.Load()) >= s.tuning.Server.MaxPlayers {
		s.reject(client, "server full")
		return
	}

	s.enqueue(func() {
		p, err := s.admit(client, req.PlayerName)
		switch {
		case errors.Is(err, errSessionGone):
			s.log.Info("client left before join completed", zap.String("client", client.Id()))
			return
		case errors.Is(err, errAlreadyJoined):
			return
		case errors.Is(err, errServerFull):
			s.reject(client, "server full")
			return
		case err != nil:
			s.log.Error("failed to add player", zap.String("client", client.Id()), zap.Error(err))
			s.reject(client, "internal error")
			return
		}

		var netID esync.NetworkId
		if nid := esync.GetNetworkId(s.world.Entry(p.Entity)); nid != nil {
			netID = *nid
		}
		s.send(client, messages.JoinAccepted{
			NetworkID:  netID,
			PlayerID:   p.ID,
			ServerName: s.tuning.Server.Name,
			TickRate:   s.tuning.Server.TickRate,
		})
	})
}

var (
	errSessionGone   = errors.New("session closed")
	errAlreadyJoined = errors.New("already joined")
	errServerFull    = errors.New("server full")
)

// admit spawns a player for client. It runs on the tick goroutine.
func (s *Server) admit(client *router.NetworkClient, name string) (*Player, error) {
	s.mu.RLock()
	sess, ok := s.sessions[client]
	joined := ok && sess.player != nil
	s.mu.RUnlock()
	switch {
	case !ok:
		return nil, errSessionGone
	case joined:
		return nil, errAlreadyJoined
	case int(s.players.Load()) >= s.tuning.Server.MaxPlayers:
		return nil, errServerFull
	}

	p, err := s.arena.AddPlayer(name)
	if err != nil {
		return nil, err
	}
	if !s.claim(client, sess, name, p) {
		return nil, errSessionGone
	}
	return p, nil
}

// claim attaches p to sess if the client is still connected. A disconnect
// that ran first has already deleted the session without queueing a removal
// for p, so p is removed here instead.
func (s *Server) claim(client *router.NetworkClient, sess *session, name string, p *Player) bool {
	s.mu.Lock()
	current := s.sessions[client] == sess
	if current {
		sess.name = name
		sess.player = p
		s.players.Add(1)
	}
	s.mu.Unlock()

	if !current {
		s.arena.RemovePlayer(p.ID)
	}
	return current
}

func (s *Server) onDisconnect(client *router.NetworkClient, err error) {
	if err != nil {
		s.log.Info("client disconnected", zap.String("client", client.Id()), zap.Error(err))
	} else {
		s.log.Info("client disconnected", zap.String("client", client.Id()))
	}

	s.mu.Lock()
	sess, ok := s.sessions[client]
	delete(s.sessions, client)
	s.mu.Unlock()

	if !ok || sess.player == nil {
		return
	}
	id := sess.player.ID
	s.players.Add(-1)
	s.enqueue(func() { s.arena.RemovePlayer(id) })
}

func (s *Server) reject(client *router.NetworkClient, reason string) {
	s.log.Info("join rejected", zap.String("client", client.Id()), zap.String("reason", reason))
	s.send(client, messages.JoinRejected{Reason: reason})
}

func (s *Server) mailbox(client *router.NetworkClient) *InputMailbox {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[client]
	if !ok || sess.player == nil {
		return nil
	}
	return sess.player.Mailbox
}

func (s *Server) latch(client *router.NetworkClient, action netconfig.ActionID) {
	mb := s.mailbox(client)
	if mb == nil {
		return
	}
	mb.Latch(action, s.receipts.Add(1))
	s.metrics.ActionsLatched.Add(1)
}

func (s *Server) enqueue(cmd func()) {
	select {
	case s.commands <- cmd:
	default:
		s.log.Warn("command queue full, dropping command")
	}
}

// ProcessCommands runs queued join/leave work on the tick goroutine.
func (s *Server) ProcessCommands() {
	for {
		select {
		case cmd := <-s.commands:
			cmd()
		default:
			return
		}
	}
}

// broadcast sends a gameplay event to every joined client.
func (s *Server) broadcast(event any) {
	s.mu.RLock()
	clients := make([]*router.NetworkClient, 0, len(s.sessions))
	for c, sess := range s.sessions {
		if sess.player != nil {
			clients = append(clients, c)
		}
	}
	s.mu.RUnlock()

	for _, c := range clients {
		s.send(c, event)
	}
}

func (s *Server) send(client *router.NetworkClient, msg any) {
	if err := client.SendMessage(msg); err != nil {
		s.log.Debug("send failed", zap.String("client", client.Id()), zap.Error(err))
	}
}

// Arena returns the match this server runs.
func (s *Server) Arena() *Arena { return s.arena }

// Hub returns the admin event stream hub.
func (s *Server) Hub() *EventHub { return s.hub }

// Metrics returns the gameplay counters.
func (s *Server) Metrics() *Metrics { return s.metrics }

// PlayerCount returns the number of joined players.
func (s *Server) PlayerCount() int { return int(s.players.Load()) }

type esyncReplicator struct{}

func (esyncReplicator) TrackPlayer(world donburi.World, entity donburi.Entity) error {
	return srvsync.NetworkSync(world, &entity,
		srvsync.WithInterp(netcomponents.NetTransform),
		netcomponents.NetPlayerState,
	)
}

func (esyncReplicator) TrackBall(world donburi.World, entity donburi.Entity) error {
	return srvsync.NetworkSync(world, &entity,
		srvsync.WithInterp(netcomponents.NetTransform),
		netcomponents.NetBall,
	)
}
