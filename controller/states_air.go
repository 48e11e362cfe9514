package controller

type jumpState struct{}

func (jumpState) Name() string { return "jump" }

// Enter classifies the jump (ground, wall, or air) from the contact state at
// entry, resets vertical velocity so chained jumps get the full kick, and
// applies the impulse. Charge consumption is decided by the resource manager:
// only an airborne non-wall jump consumes.
func (jumpState) Enter(ctx *Context) error {
	ctx.Trigger("jump")

	// one physical press fires one jump; without this the buffered press
	// outlives the cooldown and re-fires through the chained-jump guard
	ctx.Input.ConsumeJump()

	wall := !ctx.Grounded && (ctx.WallSide != 0 || ctx.WallBuffered())
	ctx.jumpWasWall = wall
	ctx.jumpHoldLeft = ctx.Tunables.Jump.HoldTime

	vx, _ := ctx.Body.Velocity()
	ctx.Body.SetVelocity(vx, 0)

	m := ctx.Body.Mass()
	if wall {
		side := ctx.WallSide
		if side == 0 {
			side = ctx.clingSide
		}
		if side == 0 {
			side = ctx.Facing
		}
		kx, ky := ctx.Tunables.WallJumpComponents(side)
		ctx.Body.ApplyImpulse(kx*m, ky*m)
		ctx.SetFacing(-side)
	} else {
		ctx.Body.ApplyImpulse(0, -ctx.Tunables.Jump.Force*m)
	}

	ctx.NoteJump(wall)
	return nil
}

func (jumpState) Exit(ctx *Context) error { return nil }

func (jumpState) Tick(ctx *Context) error {
	_, vy := ctx.Body.Velocity()

	if ctx.Grounded {
		ctx.Switch(groundedTarget(ctx))
		return nil
	}
	if vy > 0 && ctx.WallSide != 0 {
		ctx.Switch(stateWallCling)
		return nil
	}
	if ctx.Input.JumpPressed() && ctx.JumpsRemaining() > 0 && ctx.CanJump() {
		ctx.Switch(stateJump)
		return nil
	}
	if ctx.Input.AttackPressed() {
		ctx.Switch(stateAttack)
		return nil
	}
	if vy > 0 {
		ctx.Switch(stateFall)
		return nil
	}

	facingFromInput(ctx)
	x, _ := ctx.Input.MovementAxis()
	applyHorizontal(ctx, x*ctx.Tunables.Move.AirControlSpeed, ctx.Tunables.Move.AirDecel)

	// variable jump height: extend the rise while jump stays held
	if ctx.Input.JumpHeld() && ctx.jumpHoldLeft > 0 {
		ctx.Body.ApplyForce(0, -ctx.Tunables.Jump.HoldBoost*ctx.Body.Mass())
		ctx.jumpHoldLeft -= ctx.DT
	}
	return nil
}

type fallState struct{}

func (fallState) Name() string { return "fall" }

func (fallState) Enter(ctx *Context) error {
	ctx.Trigger("fall")
	return nil
}

func (fallState) Exit(ctx *Context) error { return nil }

func (fallState) Tick(ctx *Context) error {
	// The corrective high-speed ground check already ran this tick inside
	// the sensor; a snap shows up here as Grounded.
	if ctx.Grounded {
		ctx.Switch(groundedTarget(ctx))
		return nil
	}
	_, vy := ctx.Body.Velocity()
	if ctx.WallSide != 0 && vy > 0 {
		ctx.Switch(stateWallCling)
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
	x, _ := ctx.Input.MovementAxis()
	applyHorizontal(ctx, x*ctx.Tunables.Move.AirControlSpeed, ctx.Tunables.Move.AirDecel)
	applyVerticalDecel(ctx, ctx.Tunables.Move.AirDecel)
	return nil
}

type wallClingState struct{}

func (wallClingState) Name() string { return "wall_cling" }

func (wallClingState) Enter(ctx *Context) error {
	ctx.Trigger("wall_cling")

	side := ctx.WallSide
	if side == 0 {
		side = ctx.Facing
	}
	ctx.clingSide = side
	ctx.SetFacing(side)

	// holding jump through the grab must not fire an instant wall jump
	ctx.jumpLockout = ctx.Input.JumpHeld()

	ctx.Body.SetGravityScale(ctx.Tunables.Wall.ClingGravity)

	// kill horizontal drift and press into the wall
	_, vy := ctx.Body.Velocity()
	ctx.Body.SetVelocity(0, vy)
	return nil
}

func (wallClingState) Exit(ctx *Context) error {
	ctx.Body.SetGravityScale(1)
	return nil
}

func (wallClingState) Tick(ctx *Context) error {
	if ctx.jumpLockout && !ctx.Input.JumpHeld() {
		ctx.jumpLockout = false
	}

	if ctx.Grounded {
		ctx.Switch(groundedTarget(ctx))
		return nil
	}
	if ctx.WallSide == 0 {
		ctx.Switch(stateFall)
		return nil
	}
	if ctx.Input.JumpPressed() && !ctx.jumpLockout {
		ctx.Switch(stateJump)
		return nil
	}
	if ctx.Input.AttackPressed() {
		ctx.Switch(stateAttack)
		return nil
	}

	// bounded slide plus a light stick force that maintains the snap
	vx, vy := ctx.Body.Velocity()
	if vy > ctx.Tunables.Wall.SlideSpeed {
		ctx.Body.SetVelocity(vx, ctx.Tunables.Wall.SlideSpeed)
	}
	ctx.Body.ApplyForce(float64(ctx.clingSide)*ctx.Tunables.Wall.StickForce*ctx.Body.Mass(), 0)
	return nil
}
