// Package physics wraps the Chipmunk space behind the narrow surface the
// motion controller needs: a fixed-step simulation, one dynamic actor body,
// static level geometry, and the ground/wall sensor queries.
package physics

import (
	"github.com/jakecoffman/cp"
)

// FixedStep is the physics sub-step duration. The logic tick runs at a
// variable rate; Advance converts frame time into zero or more sub-steps.
const FixedStep = 1.0 / 120.0

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeActor
)

const (
	categorySolid uint = 1 << iota
	categoryActor
)

var (
	solidFilter = cp.NewShapeFilter(cp.NO_GROUP, categorySolid, cp.ALL_CATEGORIES)
	actorFilter = cp.NewShapeFilter(cp.NO_GROUP, categoryActor, cp.ALL_CATEGORIES)

	// solidQueryFilter is used by sensor queries so they see level geometry
	// but never the actor's own shape.
	solidQueryFilter = cp.NewShapeFilter(cp.NO_GROUP, categoryActor, categorySolid)
)

// World owns the Chipmunk space and its static collision shapes.
type World struct {
	space       *cp.Space
	iterations  uint
	accumulator float64
}

// NewWorld creates a space with downward gravity (screen coordinates, +Y down).
func NewWorld(gravity float64) *World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravity})
	return &World{space: space, iterations: space.Iterations}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// Advance accumulates frame time and runs whole fixed sub-steps, returning
// how many ran. Forces applied during the logic tick are consumed here.
func (w *World) Advance(frameDT float64) int {
	if w == nil || w.space == nil || frameDT <= 0 {
		return 0
	}
	w.accumulator += frameDT
	steps := 0
	for w.accumulator >= FixedStep {
		w.space.Step(FixedStep)
		w.accumulator -= FixedStep
		steps++
	}
	return steps
}

// Step runs exactly one fixed sub-step regardless of the accumulator.
// Tests use this to pump the simulation deterministically.
func (w *World) Step() {
	if w == nil || w.space == nil {
		return
	}
	w.space.Step(FixedStep)
}

// AddTileGrid builds static solid shapes from a tile grid, merging runs of
// solid tiles into larger boxes, and closes the level with boundary segments.
// tiles is row-major, width*height entries, nonzero means solid.
func (w *World) AddTileGrid(tiles []int, width, height, tileSize int) {
	if w == nil || w.space == nil || width <= 0 || height <= 0 || len(tiles) != width*height {
		return
	}

	processed := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if processed[idx] {
				continue
			}
			if tiles[idx] == 0 {
				processed[idx] = true
				continue
			}

			runW := 1
			for x+runW < width {
				idx2 := y*width + (x + runW)
				if processed[idx2] || tiles[idx2] == 0 {
					break
				}
				runW++
			}

			runH := 1
		heightLoop:
			for y+runH < height {
				for xi := x; xi < x+runW; xi++ {
					idx2 := (y+runH)*width + xi
					if processed[idx2] || tiles[idx2] == 0 {
						break heightLoop
					}
				}
				runH++
			}

			x0 := float64(x * tileSize)
			y0 := float64(y * tileSize)
			bb := cp.BB{
				L: x0,
				B: y0,
				R: x0 + float64(runW*tileSize),
				T: y0 + float64(runH*tileSize),
			}
			w.AddStaticBox(bb)

			for yy := y; yy < y+runH; yy++ {
				for xx := x; xx < x+runW; xx++ {
					processed[yy*width+xx] = true
				}
			}
		}
	}

	worldW := float64(width * tileSize)
	worldH := float64(height * tileSize)
	thickness := 1.0
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: worldW, Y: 0}},
		{a: cp.Vector{X: 0, Y: worldH}, b: cp.Vector{X: worldW, Y: worldH}},
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: worldH}},
		{a: cp.Vector{X: worldW, Y: 0}, b: cp.Vector{X: worldW, Y: worldH}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(w.space.StaticBody, seg.a, seg.b, thickness)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeSolid)
		shape.SetFilter(solidFilter)
		w.space.AddShape(shape)
	}
}

// AddStaticBox adds one solid axis-aligned box to the level geometry.
func (w *World) AddStaticBox(bb cp.BB) {
	if w == nil || w.space == nil {
		return
	}
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeSolid)
	shape.SetFilter(solidFilter)
	w.space.AddShape(shape)
}

func (w *World) setIterations(n uint) {
	if w == nil || w.space == nil || n == 0 {
		return
	}
	w.space.Iterations = n
}

func (w *World) baseIterations() uint {
	if w == nil {
		return 0
	}
	return w.iterations
}
