package controller

import (
	"errors"
	"math"
	"testing"

	"github.com/milk9111/motion/tunables"
)

const testDT = 1.0 / 60.0

type fakeInput struct {
	moveX, moveY  float64
	run           bool
	jumpHeld      bool
	jumpPressed   bool
	jumpBuffer    int
	dashPressed   bool
	attackPressed bool
	attackHeld    bool
}

// pressJump arms a buffered press that stays visible for the given number
// of ticks unless a jump consumes it, matching the keyboard source.
func (f *fakeInput) pressJump(ticks int) { f.jumpBuffer = ticks }

func (f *fakeInput) Update() {
	if f.jumpBuffer > 0 {
		f.jumpBuffer--
	}
}

func (f *fakeInput) MovementAxis() (x, y float64) { return f.moveX, f.moveY }
func (f *fakeInput) RunHeld() bool                { return f.run }
func (f *fakeInput) JumpPressed() bool            { return f.jumpPressed || f.jumpBuffer > 0 }
func (f *fakeInput) ConsumeJump()                 { f.jumpPressed = false; f.jumpBuffer = 0 }
func (f *fakeInput) JumpHeld() bool               { return f.jumpHeld }
func (f *fakeInput) DashPressed() bool            { return f.dashPressed }
func (f *fakeInput) AttackPressed() bool          { return f.attackPressed }
func (f *fakeInput) AttackHeld() bool             { return f.attackHeld }

type fakeBody struct {
	x, y     float64
	vx, vy   float64
	mass     float64
	gravity  float64
	boosted  bool
	forces   [][2]float64
	impulses [][2]float64
}

func newFakeBody() *fakeBody { return &fakeBody{mass: 1, gravity: 1} }

func (b *fakeBody) Velocity() (x, y float64) { return b.vx, b.vy }
func (b *fakeBody) SetVelocity(x, y float64) { b.vx, b.vy = x, y }
func (b *fakeBody) Position() (x, y float64) { return b.x, b.y }
func (b *fakeBody) Mass() float64            { return b.mass }

func (b *fakeBody) ApplyForce(x, y float64) {
	b.forces = append(b.forces, [2]float64{x, y})
}

func (b *fakeBody) ApplyImpulse(x, y float64) {
	b.impulses = append(b.impulses, [2]float64{x, y})
	b.vx += x / b.mass
	b.vy += y / b.mass
}

func (b *fakeBody) ClampVelocity(maxH, maxRise, maxFall float64) {
	if b.vx > maxH {
		b.vx = maxH
	} else if b.vx < -maxH {
		b.vx = -maxH
	}
	if b.vy < -maxRise {
		b.vy = -maxRise
	} else if b.vy > maxFall {
		b.vy = maxFall
	}
}

func (b *fakeBody) SetGravityScale(s float64) { b.gravity = s }
func (b *fakeBody) BoostSolver(on bool)       { b.boosted = on }

type fakeSensor struct {
	grounded bool
	wall     int
}

func (s *fakeSensor) Grounded() bool      { return s.grounded }
func (s *fakeSensor) Wall(facing int) int { return s.wall }

type recordSink struct {
	triggers []string
	floats   map[string]float64
}

func newRecordSink() *recordSink { return &recordSink{floats: make(map[string]float64)} }

func (s *recordSink) Names() []string {
	return []string{
		"idle", "walk", "run", "jump", "fall",
		"wall_cling", "dash", "attack", "slide",
		"speed", "grounded",
	}
}

func (s *recordSink) Trigger(name string)             { s.triggers = append(s.triggers, name) }
func (s *recordSink) SetFloat(name string, v float64) { s.floats[name] = v }

type rig struct {
	in     *fakeInput
	body   *fakeBody
	sensor *fakeSensor
	sink   *recordSink
	tun    *tunables.Tunables
	m      *Machine
}

func newRig(t *testing.T, mutate func(*tunables.Tunables)) *rig {
	t.Helper()
	tun, err := tunables.Default()
	if err != nil {
		t.Fatalf("default tunables: %v", err)
	}
	if mutate != nil {
		mutate(tun)
	}
	r := &rig{
		in:     &fakeInput{},
		body:   newFakeBody(),
		sensor: &fakeSensor{grounded: true},
		sink:   newRecordSink(),
		tun:    tun,
	}
	r.m = NewMachine(r.in, r.body, r.sensor, r.sink, tun)
	return r
}

func (r *rig) tick(n int) {
	for i := 0; i < n; i++ {
		r.in.Update()
		r.m.Tick(testDT)
	}
}

func TestGroundJumpResetsRatherThanConsumes(t *testing.T) {
	r := newRig(t, nil)
	r.in.jumpPressed = true

	r.tick(1)

	if got := r.m.State(); got != "jump" {
		t.Fatalf("state = %q, want jump", got)
	}
	if len(r.body.impulses) != 1 {
		t.Fatalf("impulses = %d, want 1", len(r.body.impulses))
	}
	imp := r.body.impulses[0]
	if imp[0] != 0 || imp[1] != -r.tun.Jump.Force {
		t.Fatalf("impulse = %v, want [0 %g]", imp, -r.tun.Jump.Force)
	}
	if got := r.m.JumpsRemaining(); got != r.tun.Jump.MaxJumps {
		t.Fatalf("jumps remaining = %d, want %d (ground jump must not consume)", got, r.tun.Jump.MaxJumps)
	}
	if r.m.Facing() != 1 {
		t.Fatalf("facing changed to %d", r.m.Facing())
	}
}

func TestAirJumpConsumesChargeThenRefuses(t *testing.T) {
	r := newRig(t, func(tun *tunables.Tunables) {
		tun.Jump.CoyoteWindow = 0.0001
		tun.Jump.Cooldown = 0.0001
	})
	r.sensor.grounded = false

	r.tick(2)
	if got := r.m.State(); got != "fall" {
		t.Fatalf("state = %q, want fall", got)
	}

	r.in.jumpPressed = true
	r.tick(1)
	if got := r.m.State(); got != "jump" {
		t.Fatalf("state = %q, want jump after air jump", got)
	}
	if got := r.m.JumpsRemaining(); got != 0 {
		t.Fatalf("jumps remaining = %d, want 0 after air jump", got)
	}

	// a second press in the same airborne excursion: refused
	r.in.jumpPressed = true
	r.tick(3)
	if got := r.m.State(); got != "jump" {
		t.Fatalf("state = %q, want jump (second air jump refused)", got)
	}
	if len(r.body.impulses) != 1 {
		t.Fatalf("impulses = %d, want 1 (no second kick)", len(r.body.impulses))
	}
}

func TestDashCooldownRefusesSecondDash(t *testing.T) {
	r := newRig(t, nil)
	r.in.moveX = 1
	r.tick(1)
	if got := r.m.State(); got != "walk" {
		t.Fatalf("state = %q, want walk", got)
	}

	r.in.dashPressed = true
	r.tick(1)
	if got := r.m.State(); got != "dash" {
		t.Fatalf("state = %q, want dash", got)
	}
	r.in.dashPressed = false

	// ride out the dash window, well inside the cooldown
	steps := int(r.tun.Dash.Duration/testDT) + 2
	r.tick(steps)
	if got := r.m.State(); got != "walk" {
		t.Fatalf("state = %q, want walk after dash", got)
	}

	r.in.dashPressed = true
	r.tick(1)
	if got := r.m.State(); got != "walk" {
		t.Fatalf("state = %q, want walk (dash refused during cooldown)", got)
	}
	if got := r.m.AirDashesRemaining(); got != r.tun.Dash.MaxAirDashes {
		t.Fatalf("air dashes = %d, want %d", got, r.tun.Dash.MaxAirDashes)
	}
}

func TestFallSpeedClampedToMaxFall(t *testing.T) {
	r := newRig(t, func(tun *tunables.Tunables) {
		tun.Limits.MaxFall = 20
		tun.Jump.CoyoteWindow = 0.0001
	})
	r.sensor.grounded = false
	r.body.vy = 25

	r.tick(1)

	if r.body.vy != 20 {
		t.Fatalf("vy = %g, want exactly 20 after clamp", r.body.vy)
	}
}

func TestWallClingThenWallJump(t *testing.T) {
	r := newRig(t, func(tun *tunables.Tunables) {
		tun.Jump.CoyoteWindow = 0.0001
		tun.Jump.Cooldown = 0.0001
	})
	r.sensor.grounded = false
	r.sensor.wall = 1
	r.body.vy = 50

	r.tick(2)
	if got := r.m.State(); got != "wall_cling" {
		t.Fatalf("state = %q, want wall_cling", got)
	}
	if r.body.gravity != r.tun.Wall.ClingGravity {
		t.Fatalf("gravity scale = %g, want %g while clinging", r.body.gravity, r.tun.Wall.ClingGravity)
	}

	jumpsBefore := r.m.JumpsRemaining()
	r.in.jumpPressed = true
	r.tick(1)
	if got := r.m.State(); got != "jump" {
		t.Fatalf("state = %q, want jump", got)
	}
	if r.body.gravity != 1 {
		t.Fatalf("gravity scale = %g, want 1 restored on cling exit", r.body.gravity)
	}
	if got := r.m.JumpsRemaining(); got != jumpsBefore {
		t.Fatalf("jumps remaining = %d, want %d (wall jump must not consume)", got, jumpsBefore)
	}
	if r.m.Facing() != -1 {
		t.Fatalf("facing = %d, want -1 away from the wall", r.m.Facing())
	}

	wantX, wantY := r.tun.WallJumpComponents(1)
	if math.Abs(r.body.vx-wantX) > 1e-9 || math.Abs(r.body.vy-wantY) > 1e-9 {
		t.Fatalf("velocity = (%g, %g), want (%g, %g)", r.body.vx, r.body.vy, wantX, wantY)
	}
}

func TestWallJumpHoldLockout(t *testing.T) {
	r := newRig(t, func(tun *tunables.Tunables) {
		tun.Jump.CoyoteWindow = 0.0001
	})
	r.sensor.grounded = false
	r.sensor.wall = 1
	r.body.vy = 50
	r.in.jumpHeld = true

	r.tick(2)
	if got := r.m.State(); got != "wall_cling" {
		t.Fatalf("state = %q, want wall_cling", got)
	}

	// jump stays held from before the grab: no instant wall jump
	r.in.jumpPressed = true
	r.tick(3)
	if got := r.m.State(); got != "wall_cling" {
		t.Fatalf("state = %q, want wall_cling (lockout active)", got)
	}

	// release, then press again
	r.in.jumpHeld = false
	r.in.jumpPressed = false
	r.tick(1)
	r.in.jumpPressed = true
	r.tick(1)
	if got := r.m.State(); got != "jump" {
		t.Fatalf("state = %q, want jump after lockout clears", got)
	}
}

func TestSlideFromGroundedRunDash(t *testing.T) {
	r := newRig(t, nil)
	r.in.moveX = 1
	r.in.run = true
	r.tick(1)
	if got := r.m.State(); got != "run" {
		t.Fatalf("state = %q, want run", got)
	}

	r.in.dashPressed = true
	r.tick(1)
	r.in.dashPressed = false
	if got := r.m.State(); got != "slide" {
		t.Fatalf("state = %q, want slide (grounded dash with run held)", got)
	}
	if r.body.vx != r.tun.Slide.Speed {
		t.Fatalf("vx = %g, want slide speed %g", r.body.vx, r.tun.Slide.Speed)
	}

	steps := int(r.tun.Slide.Duration/testDT) + 2
	r.tick(steps)
	if got := r.m.State(); got != "run" {
		t.Fatalf("state = %q, want run after slide duration", got)
	}
}

type spyState struct {
	name     string
	log      *[]string
	enterErr error
	tickErr  error
}

func (s *spyState) Name() string { return s.name }

func (s *spyState) Enter(ctx *Context) error {
	*s.log = append(*s.log, "enter "+s.name)
	return s.enterErr
}

func (s *spyState) Tick(ctx *Context) error {
	*s.log = append(*s.log, "tick "+s.name)
	return s.tickErr
}

func (s *spyState) Exit(ctx *Context) error {
	*s.log = append(*s.log, "exit "+s.name)
	return nil
}

func TestEveryEnterPairedWithExit(t *testing.T) {
	r := newRig(t, nil)
	var events []string
	a := &spyState{name: "a", log: &events}
	b := &spyState{name: "b", log: &events}

	r.m.switchTo(a)
	r.m.switchTo(b)
	r.m.switchTo(stateIdle)

	want := []string{"enter a", "exit a", "enter b", "exit b"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events[%d] = %q, want %q (full: %v)", i, events[i], want[i], events)
		}
	}
}

func TestEnterFaultFallsBackToIdle(t *testing.T) {
	r := newRig(t, nil)
	var events []string
	bad := &spyState{name: "bad", log: &events, enterErr: errors.New("boom")}

	r.m.switchTo(bad)

	if got := r.m.State(); got != "idle" {
		t.Fatalf("state = %q, want idle after enter fault", got)
	}
}

func TestTickFaultForcesIdle(t *testing.T) {
	r := newRig(t, nil)
	var events []string
	bad := &spyState{name: "bad", log: &events, tickErr: errors.New("boom")}

	r.m.switchTo(bad)
	r.tick(1)

	if got := r.m.State(); got != "idle" {
		t.Fatalf("state = %q, want idle after tick fault", got)
	}
}

func TestNilTransitionIgnored(t *testing.T) {
	r := newRig(t, nil)
	r.m.switchTo(nil)
	if got := r.m.State(); got != "idle" {
		t.Fatalf("state = %q, want idle (nil target ignored)", got)
	}
}

func TestSolverBoostTracksFallSpeed(t *testing.T) {
	r := newRig(t, func(tun *tunables.Tunables) {
		tun.Jump.CoyoteWindow = 0.0001
	})
	r.sensor.grounded = false
	r.body.vy = r.tun.Limits.SolverBoostFallSpeed + 100

	r.tick(1)
	if !r.body.boosted {
		t.Fatalf("solver not boosted at fall speed %g", r.body.vy)
	}

	r.body.vy = 0
	r.tick(1)
	if r.body.boosted {
		t.Fatalf("solver still boosted after fall slowed")
	}
}

func TestBufferedPressFiresExactlyOneJump(t *testing.T) {
	// shipped defaults: the 9-tick press buffer outlives the 0.12s jump
	// cooldown, so the press must be spent when the first jump fires
	r := newRig(t, nil)
	r.in.pressJump(9)

	r.tick(1)
	if got := r.m.State(); got != "jump" {
		t.Fatalf("state = %q, want jump", got)
	}

	r.sensor.grounded = false
	r.tick(12)
	if len(r.body.impulses) != 1 {
		t.Fatalf("impulses = %d, want 1 (one press, one jump)", len(r.body.impulses))
	}
	if got := r.m.JumpsRemaining(); got != r.tun.Jump.MaxJumps {
		t.Fatalf("jumps remaining = %d, want %d (air charge kept without a second press)", got, r.tun.Jump.MaxJumps)
	}
}

func TestSlideSharesDashCooldown(t *testing.T) {
	r := newRig(t, nil)
	r.in.moveX = 1
	r.in.run = true
	r.tick(1)

	r.in.dashPressed = true
	r.tick(1)
	r.in.dashPressed = false
	if got := r.m.State(); got != "slide" {
		t.Fatalf("state = %q, want slide", got)
	}

	steps := int(r.tun.Slide.Duration/testDT) + 2
	r.tick(steps)
	if got := r.m.State(); got != "run" {
		t.Fatalf("state = %q, want run after the slide", got)
	}

	// well inside the dash cooldown: no back-to-back slide
	r.in.dashPressed = true
	r.tick(1)
	if got := r.m.State(); got != "run" {
		t.Fatalf("state = %q, want run (slide refused during cooldown)", got)
	}
}

func TestLandingReportsParameterAndResetsCharges(t *testing.T) {
	r := newRig(t, func(tun *tunables.Tunables) {
		tun.Jump.CoyoteWindow = 0.0001
		tun.Jump.Cooldown = 0.0001
	})
	r.sensor.grounded = false
	r.tick(2)
	r.in.jumpPressed = true
	r.tick(1)
	r.in.jumpPressed = false
	if got := r.m.JumpsRemaining(); got != 0 {
		t.Fatalf("jumps remaining = %d, want 0 before landing", got)
	}

	r.body.vy = 10
	r.sensor.grounded = true
	r.tick(2)
	if got := r.m.JumpsRemaining(); got != r.tun.Jump.MaxJumps {
		t.Fatalf("jumps remaining = %d, want %d after landing", got, r.tun.Jump.MaxJumps)
	}
	if got := r.sink.floats["grounded"]; got != 1 {
		t.Fatalf("grounded param = %g, want 1 on landing", got)
	}
}
