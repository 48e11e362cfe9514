package controller

type dashState struct{}

func (dashState) Name() string { return "dash" }

func (dashState) Enter(ctx *Context) error {
	ctx.Trigger("dash")

	ctx.dashDir = ctx.Facing
	ctx.dashUntil = ctx.Now + ctx.Tunables.Dash.Duration

	// gravity off and a fixed velocity for the whole dash window
	ctx.Body.SetGravityScale(0)
	ctx.Body.SetVelocity(float64(ctx.dashDir)*ctx.Tunables.Dash.Speed, 0)

	ctx.NoteDash()
	return nil
}

func (dashState) Exit(ctx *Context) error {
	ctx.Body.SetGravityScale(1)
	return nil
}

// Tick ignores movement input for the dash duration, then routes to the
// state matching the post-dash contact situation.
func (dashState) Tick(ctx *Context) error {
	if ctx.Now >= ctx.dashUntil {
		if ctx.Grounded {
			ctx.Switch(groundedTarget(ctx))
			return nil
		}
		if ctx.WallSide != 0 {
			ctx.Switch(stateWallCling)
			return nil
		}
		ctx.Switch(stateFall)
		return nil
	}

	ctx.Body.SetVelocity(float64(ctx.dashDir)*ctx.Tunables.Dash.Speed, 0)
	return nil
}

type attackState struct{}

func (attackState) Name() string { return "attack" }

func (attackState) Enter(ctx *Context) error {
	ctx.Trigger("attack")
	return nil
}

func (attackState) Exit(ctx *Context) error { return nil }

// Tick holds the pose: grounded it brakes to a stop like Idle, airborne it
// keeps the air rules with no steering. Releasing attack routes back by
// contact state; a valid jump press interrupts the pose.
func (attackState) Tick(ctx *Context) error {
	if !ctx.Input.AttackHeld() {
		if ctx.Grounded {
			ctx.Switch(groundedTarget(ctx))
			return nil
		}
		if ctx.WallSide != 0 {
			ctx.Switch(stateWallCling)
			return nil
		}
		ctx.Switch(stateFall)
		return nil
	}
	if ctx.Input.JumpPressed() && ctx.CanJump() {
		ctx.Switch(stateJump)
		return nil
	}

	if ctx.Grounded {
		applyHorizontal(ctx, 0, ctx.Tunables.Move.GroundDecel)
	} else {
		applyHorizontal(ctx, 0, ctx.Tunables.Move.AirDecel)
		applyVerticalDecel(ctx, ctx.Tunables.Move.AirDecel)
	}
	return nil
}
