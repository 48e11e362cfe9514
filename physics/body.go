package physics

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/motion/common"
)

// Body adapts one dynamic Chipmunk body for the motion controller. Rotation
// is locked (infinite moment) so the actor stays upright.
type Body struct {
	world *World
	body  *cp.Body
	shape *cp.Shape

	width  float64
	height float64

	gravityScale float64
	boosted      bool
	boostIters   uint
}

// NewActorBody creates a box-shaped dynamic body centered at (x, y) and adds
// it to the world. A non-positive mass is replaced with a safe default and
// logged once, per the configuration-error policy.
func NewActorBody(w *World, x, y, width, height, mass, friction float64) *Body {
	if w == nil || w.space == nil {
		return nil
	}
	if mass <= 0 {
		log.Printf("physics: actor mass %g invalid, defaulting to 1", mass)
		mass = 1
	}
	if width <= 0 || height <= 0 {
		log.Printf("physics: actor size %gx%g invalid, defaulting to 28x44", width, height)
		width, height = 28, 44
	}

	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: x, Y: y})
	body.SetAngle(0)
	body.SetAngularVelocity(0)

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(friction)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeActor)
	shape.SetFilter(actorFilter)

	w.space.AddBody(body)
	w.space.AddShape(shape)

	b := &Body{
		world:        w,
		body:         body,
		shape:        shape,
		width:        width,
		height:       height,
		gravityScale: 1,
	}

	// Scale world gravity per body so wall cling and dash can weaken or
	// disable it without touching the shared space.
	body.SetVelocityUpdateFunc(func(cb *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(cb, gravity.Mult(b.gravityScale), damping, dt)
	})

	return b
}

func (b *Body) Velocity() (x, y float64) {
	v := b.body.Velocity()
	return v.X, v.Y
}

func (b *Body) SetVelocity(x, y float64) {
	b.body.SetVelocity(x, y)
}

func (b *Body) Position() (x, y float64) {
	p := b.body.Position()
	return p.X, p.Y
}

func (b *Body) SetPosition(x, y float64) {
	b.body.SetPosition(cp.Vector{X: x, Y: y})
}

func (b *Body) Mass() float64 {
	return b.body.Mass()
}

// Size returns the collider extents.
func (b *Body) Size() (w, h float64) {
	return b.width, b.height
}

// ApplyForce accumulates a continuous force consumed over the next fixed
// sub-steps.
func (b *Body) ApplyForce(x, y float64) {
	b.body.ApplyForceAtWorldPoint(cp.Vector{X: x, Y: y}, b.body.Position())
}

// ApplyImpulse changes velocity instantaneously; used for jump and dash kicks.
func (b *Body) ApplyImpulse(x, y float64) {
	b.body.ApplyImpulseAtWorldPoint(cp.Vector{X: x, Y: y}, b.body.Position())
}

// ClampVelocity bounds the body's velocity. maxH limits horizontal magnitude,
// maxRise limits upward speed, maxFall limits downward speed (+Y is down).
func (b *Body) ClampVelocity(maxH, maxRise, maxFall float64) {
	v := b.body.Velocity()
	cx := common.Clamp(v.X, -maxH, maxH)
	cy := common.Clamp(v.Y, -maxRise, maxFall)
	if cx != v.X || cy != v.Y {
		b.body.SetVelocityVector(cp.Vector{X: cx, Y: cy})
	}
}

// SetGravityScale scales world gravity for this body. 1 = normal, 0 = none.
func (b *Body) SetGravityScale(s float64) {
	if s < 0 {
		s = 0
	}
	b.gravityScale = s
}

// SetBoostIterations configures the iteration count used while boosted.
// Zero keeps the default of twice the base count.
func (b *Body) SetBoostIterations(n uint) {
	b.boostIters = n
}

// BoostSolver transiently raises the space's iteration count while the actor
// falls fast enough to risk tunneling. The sensor's corrective rays remain
// the primary defense; this only helps the engine's own resolution.
func (b *Body) BoostSolver(on bool) {
	if b == nil || b.world == nil {
		return
	}
	if on == b.boosted {
		return
	}
	b.boosted = on
	if on {
		iters := b.boostIters
		if iters == 0 {
			iters = b.world.baseIterations() * 2
		}
		b.world.setIterations(iters)
	} else {
		b.world.setIterations(b.world.baseIterations())
	}
}
