// Package controller implements the per-tick motion state machine for one
// platformer actor: nine states over a shared context, a single-writer
// resource manager, and a fault policy that always degrades back to Idle.
package controller

import (
	"log"
	"math"

	"github.com/milk9111/motion/input"
	"github.com/milk9111/motion/tunables"
)

// ambiguityRiseSpeed is the upward speed past which a simultaneous grounded
// report is considered contradictory and logged.
const ambiguityRiseSpeed = 60.0

// dashableStates lists the states whose guard table includes the dash action.
var dashableStates = map[string]bool{
	"walk":       true,
	"run":        true,
	"jump":       true,
	"fall":       true,
	"wall_cling": true,
}

// Machine owns one actor's current state and is the sole writer of its
// Resources. Tick runs the deterministic per-frame order: advance timers,
// sense contacts and fire the landing edge, process the dash action, then
// delegate to the active state; transitions run Exit/Enter synchronously
// within the same tick.
type Machine struct {
	in     input.Source
	body   Body
	sensor Sensor
	sink   *guardedSink
	tun    *tunables.Tunables
	res    *Resources

	ctx     Context
	current State
	facing  int
	now     float64

	safeHalted      bool
	ambiguityLogged bool
}

func NewMachine(in input.Source, body Body, sensor Sensor, sink Sink, tun *tunables.Tunables) *Machine {
	m := &Machine{
		in:      in,
		body:    body,
		sensor:  sensor,
		sink:    newGuardedSink(sink),
		tun:     tun,
		res:     NewResources(tun),
		current: stateIdle,
		facing:  1,
	}
	m.ctx = Context{
		Input:    in,
		Tunables: tun,
		Body:     body,
		Facing:   1,
		SetFacing: func(f int) {
			if f != 1 && f != -1 {
				return
			}
			m.facing = f
			m.ctx.Facing = f
		},
		CanJump:        func() bool { return m.res.CanJump(m.ctx.Grounded, m.ctx.WallSide, m.now) },
		CanDash:        func() bool { return m.res.CanDash(m.ctx.Grounded, m.ctx.WallSide, m.now) },
		JumpsRemaining: func() int { return m.res.JumpsRemaining() },
		NoteJump:       func(wallJump bool) { m.res.NoteJump(m.now, !m.ctx.Grounded, wallJump) },
		NoteDash:       func() { m.res.NoteDash(m.now, !m.ctx.Grounded) },
		WallBuffered:   func() bool { return m.res.WallBuffered(m.now) },
		Switch:         m.switchTo,
		Trigger:        func(name string) { m.sink.Trigger(name) },
	}
	m.ctx.Grounded = true
	if err := m.current.Enter(&m.ctx); err != nil {
		log.Printf("controller: initial idle enter fault: %v", err)
	}
	return m
}

// Tick drives the actor for one variable-rate logic tick. Nothing thrown by a
// state escapes this call.
func (m *Machine) Tick(dt float64) {
	if m == nil || dt <= 0 {
		return
	}
	m.now += dt
	m.ctx.DT = dt
	m.ctx.Now = m.now

	raw := m.sensor.Grounded()
	grounded, landed := m.res.SenseGrounded(raw, m.now)
	wall := m.sensor.Wall(m.facing)
	m.res.ObserveWall(wall != 0, m.now)

	_, vy := m.body.Velocity()
	if raw && vy < -ambiguityRiseSpeed {
		if !m.ambiguityLogged {
			log.Printf("controller: sensor reports grounded while rising at %.1f, check sensor geometry", -vy)
			m.ambiguityLogged = true
		}
	} else {
		m.ambiguityLogged = false
	}

	m.ctx.Grounded = grounded
	m.ctx.WallSide = wall

	if landed {
		m.sink.SetFloat("grounded", 1)
	} else if !grounded {
		m.sink.SetFloat("grounded", 0)
	}

	// Single highest-priority discretionary action before the state tick:
	// a dash press preempts the state's own guards. A grounded dash with
	// run held becomes a slide.
	if m.in.DashPressed() && dashableStates[m.current.Name()] && m.ctx.CanDash() {
		if grounded && m.in.RunHeld() {
			m.switchTo(stateSlide)
		} else {
			m.switchTo(stateDash)
		}
	}

	if err := m.current.Tick(&m.ctx); err != nil {
		log.Printf("controller: %s tick fault: %v, forcing idle", m.current.Name(), err)
		m.switchTo(stateIdle)
	}

	// clamp after force application, before the next physics sub-step
	m.body.ClampVelocity(m.tun.Limits.MaxHorizontal, m.tun.Limits.MaxRise, m.tun.Limits.MaxFall)

	_, vy = m.body.Velocity()
	m.body.BoostSolver(vy > m.tun.Limits.SolverBoostFallSpeed)

	vx, vy := m.body.Velocity()
	m.sink.SetFloat("speed", math.Hypot(vx, vy))
}

// switchTo performs an immediate, synchronous transition. States call this
// through ctx.Switch and must return right after. Faults in Exit are logged
// and ignored; faults in Enter force Idle; a fault in Idle's own Enter
// leaves the actor motionless and is logged once.
func (m *Machine) switchTo(target State) {
	if target == nil {
		log.Printf("controller: ignoring transition to nil state from %s", m.current.Name())
		return
	}
	if err := m.current.Exit(&m.ctx); err != nil {
		log.Printf("controller: %s exit fault: %v", m.current.Name(), err)
	}
	m.current = target
	if err := target.Enter(&m.ctx); err != nil {
		log.Printf("controller: %s enter fault: %v, falling back to idle", target.Name(), err)
		m.current = stateIdle
		if err := m.current.Enter(&m.ctx); err != nil {
			if !m.safeHalted {
				log.Printf("controller: idle enter fault: %v, halting actor", err)
				m.safeHalted = true
			}
			m.body.SetVelocity(0, 0)
		}
	}
}

// State returns the active state's name.
func (m *Machine) State() string {
	if m == nil || m.current == nil {
		return ""
	}
	return m.current.Name()
}

// Facing returns the facing direction, +1 right or -1 left.
func (m *Machine) Facing() int { return m.facing }

// Now returns the machine's accumulated game clock in seconds.
func (m *Machine) Now() float64 { return m.now }

func (m *Machine) JumpsRemaining() int     { return m.res.JumpsRemaining() }
func (m *Machine) AirDashesRemaining() int { return m.res.AirDashesRemaining() }

// Grounded reports the coyote-adjusted grounded signal from the last tick.
func (m *Machine) Grounded() bool { return m.ctx.Grounded }

// WallSide reports the wall contact side from the last tick.
func (m *Machine) WallSide() int { return m.ctx.WallSide }
