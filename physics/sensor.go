package physics

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/motion/tunables"
)

// Sensor answers grounded and wall-contact queries for one actor body.
//
// Grounded runs a cheap overlap check of a thin box under the actor first.
// When that misses and the actor is falling, it escalates to three downward
// segment queries whose length scales with fall speed; a hit inside that
// window snaps the actor onto the surface and damps the fall instead of
// letting a single fixed step carry it through the geometry.
type Sensor struct {
	space *cp.Space
	body  *Body
	geo   tunables.Sensor
}

// NewSensor binds a sensor to a body. Missing or non-positive geometry values
// are replaced with defaults derived from the collider and logged once; a bad
// configuration never surfaces to the caller.
func NewSensor(w *World, body *Body, geo tunables.Sensor) *Sensor {
	if w == nil || body == nil {
		return nil
	}
	width, height := body.Size()

	provisioned := false
	if geo.GroundInset <= 0 || geo.GroundInset > 1 {
		geo.GroundInset = 0.9
		provisioned = true
	}
	if geo.GroundDepth <= 0 {
		geo.GroundDepth = 3
		provisioned = true
	}
	if geo.RaySpread <= 0 {
		geo.RaySpread = width * 0.35
		provisioned = true
	}
	if geo.RayBase <= 0 {
		geo.RayBase = 6
		provisioned = true
	}
	if geo.SnapSpeedScale <= 0 {
		geo.SnapSpeedScale = 2 * FixedStep
		provisioned = true
	}
	if geo.SnapEpsilon <= 0 {
		geo.SnapEpsilon = 0.5
		provisioned = true
	}
	if geo.SnapDamp <= 0 || geo.SnapDamp >= 1 {
		geo.SnapDamp = 0.35
		provisioned = true
	}
	if geo.WallRayLength <= 0 {
		geo.WallRayLength = 4
		provisioned = true
	}
	if len(geo.WallRayHeights) == 0 {
		geo.WallRayHeights = []float64{-0.35, 0, 0.35}
		provisioned = true
	}
	if provisioned {
		log.Printf("physics: sensor geometry incomplete for %gx%g actor, provisioned defaults", width, height)
	}

	return &Sensor{space: w.space, body: body, geo: geo}
}

// Grounded reports whether the actor rests on solid geometry, applying the
// corrective snap when a fast fall would otherwise pass through it. Calling
// it twice without an intervening physics step returns the same result and,
// if the snap fired, leaves the actor at the same corrected position.
func (s *Sensor) Grounded() bool {
	if s == nil || s.space == nil || s.body == nil {
		return false
	}

	x, y := s.body.Position()
	width, height := s.body.Size()
	halfW := width / 2
	halfH := height / 2

	inset := halfW * s.geo.GroundInset
	bb := cp.BB{
		L: x - inset,
		R: x + inset,
		B: y + halfH,
		T: y + halfH + s.geo.GroundDepth,
	}
	hit := false
	s.space.BBQuery(bb, solidQueryFilter, func(shape *cp.Shape, _ interface{}) {
		hit = true
	}, nil)
	if hit {
		return true
	}

	_, vy := s.body.Velocity()
	if vy <= 0 {
		// not falling; no tunneling risk to correct
		return false
	}

	rayLen := s.geo.RayBase + vy*s.geo.SnapSpeedScale
	base := y + halfH
	for _, off := range []float64{-s.geo.RaySpread, 0, s.geo.RaySpread} {
		start := cp.Vector{X: x + off, Y: base - 1}
		end := cp.Vector{X: x + off, Y: base + rayLen}
		info := s.space.SegmentQueryFirst(start, end, 0, solidQueryFilter)
		if info.Shape == nil {
			continue
		}
		// Rest the actor on the hit point plus a minimal epsilon and damp,
		// not zero, the fall so momentum survives the correction.
		vx, _ := s.body.Velocity()
		s.body.SetPosition(x, info.Point.Y-halfH-s.geo.SnapEpsilon)
		s.body.SetVelocity(vx, vy*s.geo.SnapDamp)
		return true
	}
	return false
}

// Wall casts rays at three heights toward facing (+1 right, -1 left) and
// returns the wall side on contact: facing on a hit, 0 otherwise.
func (s *Sensor) Wall(facing int) int {
	if s == nil || s.space == nil || s.body == nil || facing == 0 {
		return 0
	}

	x, y := s.body.Position()
	width, height := s.body.Size()
	halfW := width / 2

	dir := float64(facing)
	reach := halfW + s.geo.WallRayLength
	for _, frac := range s.geo.WallRayHeights {
		yy := y + frac*height
		start := cp.Vector{X: x, Y: yy}
		end := cp.Vector{X: x + dir*reach, Y: yy}
		info := s.space.SegmentQueryFirst(start, end, 0, solidQueryFilter)
		if info.Shape != nil {
			return facing
		}
	}
	return 0
}
