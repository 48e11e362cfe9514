package controller

// State singletons (avoid allocations on transitions). Per-activation data
// lives in Context scratch fields, reset by Enter.
var (
	stateIdle      State = &idleState{}
	stateWalk      State = &moveState{name: "walk", run: false}
	stateRun       State = &moveState{name: "run", run: true}
	stateJump      State = &jumpState{}
	stateFall      State = &fallState{}
	stateWallCling State = &wallClingState{}
	stateDash      State = &dashState{}
	stateAttack    State = &attackState{}
	stateSlide     State = &slideState{}
)

type idleState struct{}

func (idleState) Name() string { return "idle" }

func (idleState) Enter(ctx *Context) error {
	ctx.Trigger("idle")
	// drop any horizontal residue so the actor does not creep
	_, vy := ctx.Body.Velocity()
	ctx.Body.SetVelocity(0, vy)
	return nil
}

func (idleState) Exit(ctx *Context) error { return nil }

func (idleState) Tick(ctx *Context) error {
	if !ctx.Grounded {
		ctx.Switch(airborneTarget(ctx))
		return nil
	}
	if ctx.Input.AttackPressed() {
		ctx.Switch(stateAttack)
		return nil
	}
	if ctx.Input.JumpPressed() && ctx.CanJump() {
		ctx.Switch(stateJump)
		return nil
	}
	if x, _ := ctx.Input.MovementAxis(); x != 0 {
		if ctx.Input.RunHeld() {
			ctx.Switch(stateRun)
		} else {
			ctx.Switch(stateWalk)
		}
		return nil
	}

	applyHorizontal(ctx, 0, ctx.Tunables.Move.GroundDecel)
	return nil
}

// moveState covers Walk and Run; they differ only in target speed and the
// run-toggle direction.
type moveState struct {
	name string
	run  bool
}

func (s *moveState) Name() string { return s.name }

func (s *moveState) Enter(ctx *Context) error {
	ctx.Trigger(s.name)
	return nil
}

func (s *moveState) Exit(ctx *Context) error { return nil }

func (s *moveState) Tick(ctx *Context) error {
	if !ctx.Grounded {
		ctx.Switch(airborneTarget(ctx))
		return nil
	}
	x, _ := ctx.Input.MovementAxis()
	if x == 0 {
		ctx.Switch(stateIdle)
		return nil
	}
	if ctx.Input.RunHeld() != s.run {
		if s.run {
			ctx.Switch(stateWalk)
		} else {
			ctx.Switch(stateRun)
		}
		return nil
	}
	if ctx.Input.JumpPressed() && ctx.CanJump() {
		ctx.Switch(stateJump)
		return nil
	}
	if ctx.Input.AttackPressed() {
		ctx.Switch(stateAttack)
		return nil
	}

	facingFromInput(ctx)
	speed := ctx.Tunables.Move.WalkSpeed
	if s.run {
		speed = ctx.Tunables.Move.RunSpeed
	}
	applyHorizontal(ctx, x*speed, ctx.Tunables.Move.GroundDecel)
	return nil
}

type slideState struct{}

func (slideState) Name() string { return "slide" }

func (slideState) Enter(ctx *Context) error {
	ctx.Trigger("slide")
	dir := ctx.Facing
	if x, _ := ctx.Input.MovementAxis(); x > 0 {
		dir = 1
	} else if x < 0 {
		dir = -1
	}
	ctx.slideDir = dir
	ctx.slideUntil = ctx.Now + ctx.Tunables.Slide.Duration
	ctx.SetFacing(dir)
	_, vy := ctx.Body.Velocity()
	ctx.Body.SetVelocity(float64(dir)*ctx.Tunables.Slide.Speed, vy)

	// a slide is the grounded dash, so it shares the dash cooldown
	ctx.NoteDash()
	return nil
}

func (slideState) Exit(ctx *Context) error { return nil }

func (slideState) Tick(ctx *Context) error {
	if !ctx.Grounded {
		ctx.Switch(airborneTarget(ctx))
		return nil
	}
	if ctx.Now >= ctx.slideUntil {
		ctx.Switch(groundedTarget(ctx))
		return nil
	}

	_, vy := ctx.Body.Velocity()
	ctx.Body.SetVelocity(float64(ctx.slideDir)*ctx.Tunables.Slide.Speed, vy)
	return nil
}
