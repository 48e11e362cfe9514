package controller

import (
	"github.com/milk9111/motion/input"
	"github.com/milk9111/motion/tunables"
)

// Body is the narrow physics surface states act through. The physics package
// provides the Chipmunk-backed implementation; tests provide fakes.
type Body interface {
	Velocity() (x, y float64)
	SetVelocity(x, y float64)
	Position() (x, y float64)
	Mass() float64
	ApplyForce(x, y float64)
	ApplyImpulse(x, y float64)
	ClampVelocity(maxH, maxRise, maxFall float64)
	SetGravityScale(s float64)
	BoostSolver(on bool)
}

// Sensor answers the per-tick contact queries for the actor.
type Sensor interface {
	Grounded() bool
	Wall(facing int) int
}

// State is one motion behavior. Lifecycle calls return an error instead of
// panicking; the Machine treats a non-nil error as a transition fault and
// falls back to Idle.
type State interface {
	Name() string
	Enter(ctx *Context) error
	Tick(ctx *Context) error
	Exit(ctx *Context) error
}

// Context gives states controlled access to input, physics, and resources
// for the current tick. The callbacks are owned by the Machine; states never
// mutate Resources directly. The transient fields at the bottom are
// state-scoped scratch data, reset by each state's Enter.
type Context struct {
	Input    input.Source
	Tunables *tunables.Tunables
	Body     Body

	DT  float64
	Now float64

	// Sensed this tick, before the state runs. Grounded is
	// coyote-adjusted; WallSide is -1, 0, or +1.
	Grounded bool
	WallSide int

	Facing    int
	SetFacing func(facing int)

	CanJump        func() bool
	CanDash        func() bool
	JumpsRemaining func() int
	NoteJump       func(wallJump bool)
	NoteDash       func()
	WallBuffered   func() bool

	Switch  func(target State)
	Trigger func(name string)

	// Jump state scratch.
	jumpWasWall   bool
	jumpHoldLeft  float64
	wallJumpKickX float64

	// WallCling scratch.
	clingSide   int
	jumpLockout bool

	// Dash scratch.
	dashDir   int
	dashUntil float64

	// Slide scratch.
	slideDir   int
	slideUntil float64
}

// facingFromInput updates facing from horizontal input, keeping the current
// facing when there is none.
func facingFromInput(ctx *Context) {
	x, _ := ctx.Input.MovementAxis()
	if x > 0 {
		ctx.SetFacing(1)
	} else if x < 0 {
		ctx.SetFacing(-1)
	}
}

// applyHorizontal drives horizontal velocity toward target with the
// configured deceleration rate: force = (target - current) * rate.
func applyHorizontal(ctx *Context, target, rate float64) {
	vx, _ := ctx.Body.Velocity()
	ctx.Body.ApplyForce((target-vx)*rate*ctx.Body.Mass(), 0)
}

// applyVerticalDecel applies a braking force opposing the current vertical
// velocity sign only; it never accelerates the actor vertically.
func applyVerticalDecel(ctx *Context, rate float64) {
	_, vy := ctx.Body.Velocity()
	if vy == 0 {
		return
	}
	ctx.Body.ApplyForce(0, -vy*rate*ctx.Body.Mass())
}

// groundedTarget picks the locomotion state matching current input.
func groundedTarget(ctx *Context) State {
	x, _ := ctx.Input.MovementAxis()
	if x == 0 {
		return stateIdle
	}
	if ctx.Input.RunHeld() {
		return stateRun
	}
	return stateWalk
}

// airborneTarget picks WallCling when falling against a wall, Fall otherwise.
func airborneTarget(ctx *Context) State {
	_, vy := ctx.Body.Velocity()
	if ctx.WallSide != 0 && vy > 0 {
		return stateWallCling
	}
	return stateFall
}
