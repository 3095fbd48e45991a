package core

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/automoto/arenaball/config"
	"github.com/automoto/arenaball/server/physics"
	"github.com/automoto/arenaball/shared/netconfig"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap/zaptest"
)

func newTestPossession(t *testing.T) (*PossessionManager, *physics.World) {
	t.Helper()
	tuning := config.Default()
	w := newTestWorld()
	charge := NewChargeThrowModel(tuning.Throw)
	return NewPossessionManager(tuning.Ball, w, charge, zaptest.NewLogger(t)), w
}

func TestPickupTakesNearestFreeBall(t *testing.T) {
	pm, w := newTestPossession(t)
	p := addTestPlayer(w, 1, 10, 10)
	near := addTestBall(w, 1, 10.8, 10)
	far := addTestBall(w, 2, 11.2, 10)
	pm.Track(far)
	pm.Track(near)

	b, ok := pm.Pickup(p)
	if !ok || b != near {
		t.Fatalf("Pickup = %v, %v; want the nearer ball", b, ok)
	}
	if b.State != netconfig.BallHeld || b.Holder != p || p.HeldBall != b {
		t.Fatalf("ball not held by p: state=%v holder=%v", b.State, b.Holder)
	}
	if b.LastOwner != p.ID || b.Power != 0 {
		t.Fatalf("lastOwner=%d power=%v, want %d and 0", b.LastOwner, b.Power, p.ID)
	}

	body := w.Body(b.Body)
	if !body.Kinematic() || body.UseGravity() {
		t.Fatal("held ball should be kinematic without gravity")
	}
	if !w.Ignored(b.Body, p.Body) {
		t.Fatal("held ball should not collide with its holder")
	}
	socket := mgl64.Vec3{10, 0.9, 10}.Add(config.Default().Ball.HoldSocket)
	if !body.Position().ApproxEqualThreshold(socket, 1e-9) {
		t.Fatalf("held ball at %v, want socket %v", body.Position(), socket)
	}
}

func TestPickupOutOfReach(t *testing.T) {
	pm, w := newTestPossession(t)
	p := addTestPlayer(w, 1, 2, 2)
	pm.Track(addTestBall(w, 1, 15, 15))

	if _, ok := pm.Pickup(p); ok {
		t.Fatal("picked up a ball across the arena")
	}
}

func TestPickupOfHeldBallIgnored(t *testing.T) {
	pm, w := newTestPossession(t)
	a := addTestPlayer(w, 1, 10, 10)
	b := addTestPlayer(w, 2, 10, 11.2)
	ball := addTestBall(w, 1, 10.8, 10)
	pm.Track(ball)

	if _, ok := pm.Pickup(a); !ok {
		t.Fatal("first pickup failed")
	}
	if _, ok := pm.Pickup(b); ok {
		t.Fatal("second player took a held ball")
	}
	if ball.Holder != a || b.HeldBall != nil {
		t.Fatalf("holder changed to %v", ball.Holder)
	}
	if _, ok := pm.Pickup(a); ok {
		t.Fatal("holder picked up a second time")
	}
}

func TestThrowReleasesBall(t *testing.T) {
	pm, w := newTestPossession(t)
	a := addTestPlayer(w, 1, 10, 10)
	other := addTestPlayer(w, 2, 12, 12)
	ball := addTestBall(w, 1, 10.8, 10)
	pm.Track(ball)
	pm.Pickup(a)
	a.Charging, a.ChargeTime = true, 1

	if _, ok := pm.Throw(other, mgl64.Vec3{1, 0, 0}, 1, 25); ok {
		t.Fatal("non-holder threw the ball")
	}

	got, ok := pm.Throw(a, mgl64.Vec3{1, 0, 0}, 0.5, 15)
	if !ok || got != ball {
		t.Fatal("holder could not throw")
	}
	if ball.State != netconfig.BallThrown || ball.Holder != nil || a.HeldBall != nil {
		t.Fatalf("after throw: state=%v holder=%v", ball.State, ball.Holder)
	}
	if ball.Power != 0.5 || ball.LastOwner != a.ID {
		t.Fatalf("power=%v lastOwner=%d", ball.Power, ball.LastOwner)
	}
	if a.Charging || a.ChargeTime != 0 {
		t.Fatal("throw did not reset charge")
	}

	body := w.Body(ball.Body)
	if body.Kinematic() || !body.UseGravity() || w.Ignored(ball.Body, a.Body) {
		t.Fatal("thrown ball should be simulated and collide with everyone")
	}
	if v := body.Velocity(); !v.ApproxEqualThreshold(mgl64.Vec3{15, 0, 0}, 1e-9) {
		t.Fatalf("velocity %v, want 15 along +X", v)
	}
}

func TestDropAndSettle(t *testing.T) {
	pm, w := newTestPossession(t)
	a := addTestPlayer(w, 1, 10, 10)
	ball := addTestBall(w, 1, 10.8, 10)
	pm.Track(ball)

	pm.Pickup(a)
	if b, ok := pm.Drop(a); !ok || b.State != netconfig.BallFree || b.Power != 0 {
		t.Fatalf("Drop = %v, %v", b, ok)
	}
	if _, ok := pm.Drop(a); ok {
		t.Fatal("dropped twice")
	}

	pm.Pickup(a)
	pm.Throw(a, mgl64.Vec3{}, 0.3, 0)
	if settled := pm.Settle(); len(settled) != 0 {
		t.Fatal("airborne ball settled")
	}
	for i := 0; i < 90; i++ {
		w.Step(testDT)
	}
	settled := pm.Settle()
	if len(settled) != 1 || ball.State != netconfig.BallFree {
		t.Fatalf("ball at rest not freed: state=%v", ball.State)
	}
	if ball.LastOwner != a.ID {
		t.Fatal("settling should keep the last owner")
	}
}

func TestFollowKeepsHeldBallAtSocket(t *testing.T) {
	pm, w := newTestPossession(t)
	a := addTestPlayer(w, 1, 10, 10)
	ball := addTestBall(w, 1, 10.8, 10)
	pm.Track(ball)
	pm.Pickup(a)

	w.Move(a.Body, mgl64.Vec3{2, 0, 0})
	w.SetYaw(a.Body, 0)
	pm.Follow()

	want := w.Body(a.Body).Position().Add(config.Default().Ball.HoldSocket)
	if got := w.Body(ball.Body).Position(); !got.ApproxEqualThreshold(want, 1e-9) {
		t.Fatalf("ball at %v, want %v", got, want)
	}
}

// Players race to pick up and throw two balls. No ball may ever have more
// than one holder, and every holder link must be mirrored on both sides.
func TestConcurrentPossessionSingleHolder(t *testing.T) {
	pm, w := newTestPossession(t)

	var players []*Player
	for i := 1; i <= 6; i++ {
		players = append(players, addTestPlayer(w, uint32(i), 10, 10))
	}
	balls := []*Ball{addTestBall(w, 1, 10.5, 10), addTestBall(w, 2, 9.5, 10)}
	for _, b := range balls {
		pm.Track(b)
	}

	var pickups, violations atomic.Int64
	check := func() {
		pm.mu.Lock()
		defer pm.mu.Unlock()
		for _, b := range balls {
			holders := 0
			for _, p := range players {
				if p.HeldBall == b {
					holders++
					if b.Holder != p {
						violations.Add(1)
					}
				}
			}
			if holders > 1 || (b.Holder != nil && b.Holder.HeldBall != b) {
				violations.Add(1)
			}
			if (b.Holder != nil) != (b.State == netconfig.BallHeld) {
				violations.Add(1)
			}
		}
	}

	stop := make(chan struct{})
	checked := make(chan struct{})
	go func() {
		defer close(checked)
		for {
			select {
			case <-stop:
				return
			default:
				check()
			}
		}
	}()

	var wg sync.WaitGroup
	for i, p := range players {
		wg.Add(1)
		go func(p *Player, seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for n := 0; n < 500; n++ {
				if rng.Intn(3) == 0 {
					pm.Throw(p, mgl64.Vec3{}, rng.Float64(), 0)
					continue
				}
				if _, ok := pm.Pickup(p); ok {
					pickups.Add(1)
				}
			}
		}(p, int64(i+1))
	}
	wg.Wait()
	close(stop)
	<-checked
	check()

	if v := violations.Load(); v != 0 {
		t.Fatalf("%d single-holder violations", v)
	}
	if pickups.Load() == 0 {
		t.Fatal("no pickup ever succeeded")
	}
}
