package input

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Script drives input from a tengo program, one evaluation per tick. The
// script sees the global `tick` (0-based) and sets any of: move_x, move_y,
// run, jump, jump_pressed, dash, attack. Useful for deterministic demo
// playback and long soak runs without a device attached.
//
//	move_x := 0.0
//	jump_pressed := false
//	if tick % 120 == 0 { jump_pressed = true }
type Script struct {
	compiled *tengo.Compiled
	tick     int64

	moveX, moveY  float64
	run           bool
	jump          bool
	jumpPressed   bool
	dashPressed   bool
	attackPressed bool
	attackHeld    bool
	prevAttack    bool
}

// NewScript compiles src. Compilation errors are returned; runtime errors
// during a tick freeze the previous frame's values and are surfaced via
// Update's internal state only once the script next succeeds.
func NewScript(src []byte) (*Script, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("math", "rand"))
	_ = script.Add("tick", int64(0))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("input: compile script: %w", err)
	}
	return &Script{compiled: compiled}, nil
}

func (s *Script) Update() {
	if s == nil || s.compiled == nil {
		return
	}
	if err := s.compiled.Set("tick", s.tick); err != nil {
		return
	}
	s.tick++
	if err := s.compiled.Run(); err != nil {
		return
	}

	s.moveX = scriptFloat(s.compiled, "move_x", s.moveX)
	s.moveY = scriptFloat(s.compiled, "move_y", s.moveY)
	s.run = scriptBool(s.compiled, "run", s.run)
	s.jump = scriptBool(s.compiled, "jump", s.jump)
	s.jumpPressed = scriptBool(s.compiled, "jump_pressed", false)
	s.dashPressed = scriptBool(s.compiled, "dash", false)

	attack := scriptBool(s.compiled, "attack", false)
	s.attackPressed = attack && !s.prevAttack
	s.attackHeld = attack
	s.prevAttack = attack
}

func scriptFloat(c *tengo.Compiled, name string, fallback float64) float64 {
	if !c.IsDefined(name) {
		return fallback
	}
	v := c.Get(name)
	if v.ValueType() == "int" {
		return float64(v.Int64())
	}
	return v.Float()
}

func scriptBool(c *tengo.Compiled, name string, fallback bool) bool {
	if !c.IsDefined(name) {
		return fallback
	}
	return c.Get(name).Bool()
}

func (s *Script) MovementAxis() (x, y float64) { return s.moveX, s.moveY }
func (s *Script) RunHeld() bool                { return s.run }
func (s *Script) JumpPressed() bool            { return s.jumpPressed }
func (s *Script) ConsumeJump()                 { s.jumpPressed = false }
func (s *Script) JumpHeld() bool               { return s.jump }
func (s *Script) DashPressed() bool            { return s.dashPressed }
func (s *Script) AttackPressed() bool          { return s.attackPressed }
func (s *Script) AttackHeld() bool             { return s.attackHeld }
