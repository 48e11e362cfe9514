package controller

import (
	"github.com/milk9111/motion/tunables"
)

// Resources owns the consumable motion resources for one actor: jump and
// air-dash charges plus the coyote, cooldown, and buffer timers. The Machine
// is its only writer; states observe it through Context accessors.
type Resources struct {
	maxJumps     int
	maxAirDashes int
	policy       tunables.AirChargePolicy

	jumps     int
	airDashes int

	coyoteWindow   float64
	jumpCooldown   float64
	dashCooldown   float64
	wallJumpBuffer float64

	coyoteUntil         float64
	jumpCooldownUntil   float64
	dashCooldownUntil   float64
	wallJumpBufferUntil float64

	rawGrounded bool
	effGrounded bool
	wasOnWall   bool
}

func NewResources(t *tunables.Tunables) *Resources {
	return &Resources{
		maxJumps:       t.Jump.MaxJumps,
		maxAirDashes:   t.Dash.MaxAirDashes,
		policy:         t.Jump.ChargePolicy,
		jumps:          t.Jump.MaxJumps,
		airDashes:      t.Dash.MaxAirDashes,
		coyoteWindow:   t.Jump.CoyoteWindow,
		jumpCooldown:   t.Jump.Cooldown,
		dashCooldown:   t.Dash.Cooldown,
		wallJumpBuffer: t.Wall.JumpBufferWindow,
		rawGrounded:    true,
		effGrounded:    true,
	}
}

func (r *Resources) JumpsRemaining() int     { return r.jumps }
func (r *Resources) AirDashesRemaining() int { return r.airDashes }

// EffectiveGrounded is the single coyote-time function. The chosen policy:
// grounded stays true for the coyote window after leaving the ground, and a
// recent jump suppresses grounded entirely until its cooldown elapses so the
// sensor cannot re-ground the actor on the launch frame.
func (r *Resources) EffectiveGrounded(raw bool, now float64) bool {
	if now < r.jumpCooldownUntil {
		return false
	}
	return raw || now < r.coyoteUntil
}

// SenseGrounded folds this tick's raw sensor reading into the resource
// state. It opens the coyote window when the actor walks off the ground
// (never when a jump caused the edge), resolves the effective grounded
// signal, and on the airborne-to-grounded edge restores all charges, exactly
// once per landing event.
func (r *Resources) SenseGrounded(raw bool, now float64) (grounded, landed bool) {
	if !raw && r.rawGrounded && now >= r.jumpCooldownUntil {
		r.coyoteUntil = now + r.coyoteWindow
	}
	r.rawGrounded = raw

	grounded = r.EffectiveGrounded(raw, now)
	landed = grounded && !r.effGrounded
	if landed {
		r.jumps = r.maxJumps
		r.airDashes = r.maxAirDashes
	}
	r.effGrounded = grounded
	return grounded, landed
}

// ObserveWall records wall contact. On the contact edge it restores charges
// (wall contact counts as a landing for charge purposes) and keeps the
// wall-jump buffer open while contact persists plus a grace window after.
func (r *Resources) ObserveWall(onWall bool, now float64) {
	if onWall {
		if !r.wasOnWall {
			r.jumps = r.maxJumps
			r.airDashes = r.maxAirDashes
		}
		r.wallJumpBufferUntil = now + r.wallJumpBuffer
	}
	r.wasOnWall = onWall
}

// WallBuffered reports whether the actor left a wall recently enough that a
// wall jump is still honored.
func (r *Resources) WallBuffered(now float64) bool {
	return now < r.wallJumpBufferUntil
}

// CanJump: grounded, or wall contact (including the buffer window), or a
// charge remains and the jump cooldown has elapsed.
func (r *Resources) CanJump(grounded bool, wallSide int, now float64) bool {
	if now < r.jumpCooldownUntil {
		return false
	}
	if grounded || wallSide != 0 || r.WallBuffered(now) {
		return true
	}
	return r.jumps > 0
}

// CanDash: cooldown elapsed and either surface contact or an air charge left.
func (r *Resources) CanDash(grounded bool, wallSide int, now float64) bool {
	if now < r.dashCooldownUntil {
		return false
	}
	return grounded || wallSide != 0 || r.airDashes > 0
}

// NoteJump commits a jump: starts the cooldown, cancels the coyote window,
// and consumes a charge only for an airborne non-wall jump, per the
// configured policy.
func (r *Resources) NoteJump(now float64, airborne, wallJump bool) {
	r.jumpCooldownUntil = now + r.jumpCooldown
	r.coyoteUntil = 0
	if airborne && !wallJump {
		r.consumeJumpCharge()
	}
}

func (r *Resources) consumeJumpCharge() {
	switch r.policy {
	case tunables.ConsumeAll:
		r.jumps = 0
	default:
		if r.jumps > 0 {
			r.jumps--
		}
	}
}

// NoteDash commits a dash: starts the cooldown and consumes an air charge
// when airborne. Grounded dashes are free.
func (r *Resources) NoteDash(now float64, airborne bool) {
	r.dashCooldownUntil = now + r.dashCooldown
	if airborne && r.airDashes > 0 {
		r.airDashes--
	}
}
