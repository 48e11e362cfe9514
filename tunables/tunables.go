// Package tunables loads the per-actor motion configuration. Values are
// merged from an embedded defaults file and an optional user override file,
// validated once, and treated as immutable for the actor's lifetime.
package tunables

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// AirChargePolicy names the rule for when an airborne jump consumes charges.
type AirChargePolicy string

const (
	// ConsumeOne decrements one charge per airborne non-wall jump.
	ConsumeOne AirChargePolicy = "consume-one"
	// ConsumeAll zeroes all remaining charges on the first airborne jump.
	ConsumeAll AirChargePolicy = "consume-all"
)

// Tunables holds every numeric motion parameter for one actor.
type Tunables struct {
	Actor  Actor  `yaml:"actor"`
	Move   Move   `yaml:"move"`
	Jump   Jump   `yaml:"jump"`
	Wall   Wall   `yaml:"wall"`
	Dash   Dash   `yaml:"dash"`
	Slide  Slide  `yaml:"slide"`
	Limits Limits `yaml:"limits"`
	Sensor Sensor `yaml:"sensor"`

	Gravity float64 `yaml:"gravity"`
}

type Actor struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Mass     float64 `yaml:"mass"`
	Friction float64 `yaml:"friction"`
}

type Move struct {
	WalkSpeed       float64 `yaml:"walk_speed"`
	RunSpeed        float64 `yaml:"run_speed"`
	AirControlSpeed float64 `yaml:"air_control_speed"`
	GroundDecel     float64 `yaml:"ground_decel"`
	AirDecel        float64 `yaml:"air_decel"`
}

type Jump struct {
	Force        float64 `yaml:"force"`
	MaxJumps     int     `yaml:"max_jumps"`
	Cooldown     float64 `yaml:"cooldown"`
	CoyoteWindow float64 `yaml:"coyote_window"`
	HoldBoost    float64 `yaml:"hold_boost"`
	HoldTime     float64 `yaml:"hold_time"`
	BufferFrames int     `yaml:"buffer_frames"`

	// ChargePolicy selects when an airborne jump consumes charges.
	ChargePolicy AirChargePolicy `yaml:"air_charge_policy"`
}

type Wall struct {
	SlideSpeed       float64 `yaml:"slide_speed"`
	ClingGravity     float64 `yaml:"cling_gravity_scale"`
	StickForce       float64 `yaml:"stick_force"`
	JumpForce        float64 `yaml:"jump_force"`
	JumpAngleDeg     float64 `yaml:"jump_angle_deg"`
	JumpBufferWindow float64 `yaml:"jump_buffer_window"`
}

type Dash struct {
	Speed        float64 `yaml:"speed"`
	Duration     float64 `yaml:"duration"`
	Cooldown     float64 `yaml:"cooldown"`
	MaxAirDashes int     `yaml:"max_air_dashes"`
}

type Slide struct {
	Speed    float64 `yaml:"speed"`
	Duration float64 `yaml:"duration"`
}

type Limits struct {
	MaxHorizontal float64 `yaml:"max_horizontal"`
	MaxRise       float64 `yaml:"max_rise"`
	MaxFall       float64 `yaml:"max_fall"`

	// SolverBoostFallSpeed is the fall speed past which the controller asks
	// the physics engine for extra solver iterations.
	SolverBoostFallSpeed float64 `yaml:"solver_boost_fall_speed"`
	SolverBoostIters     uint    `yaml:"solver_boost_iterations"`
}

type Sensor struct {
	GroundInset    float64   `yaml:"ground_inset"`
	GroundDepth    float64   `yaml:"ground_depth"`
	RaySpread      float64   `yaml:"ray_spread"`
	RayBase        float64   `yaml:"ray_base"`
	SnapSpeedScale float64   `yaml:"snap_speed_scale"`
	SnapEpsilon    float64   `yaml:"snap_epsilon"`
	SnapDamp       float64   `yaml:"snap_damp"`
	WallRayLength  float64   `yaml:"wall_ray_length"`
	WallRayHeights []float64 `yaml:"wall_ray_heights"`
}

// Default returns the embedded defaults.
func Default() (*Tunables, error) {
	var t Tunables
	if err := yaml.Unmarshal(defaultsYAML, &t); err != nil {
		return nil, fmt.Errorf("tunables: unmarshal defaults: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("tunables: defaults: %w", err)
	}
	return &t, nil
}

// Load reads tunables from path layered over the embedded defaults.
// An empty path returns the defaults.
func Load(path string) (*Tunables, error) {
	t, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tunables: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("tunables: unmarshal %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("tunables: %s: %w", path, err)
	}
	return t, nil
}

// Validate rejects values the controller cannot run with.
func (t *Tunables) Validate() error {
	if t.Actor.Width <= 0 || t.Actor.Height <= 0 {
		return fmt.Errorf("actor size must be positive, got %gx%g", t.Actor.Width, t.Actor.Height)
	}
	if t.Actor.Mass <= 0 {
		return fmt.Errorf("actor mass must be positive, got %g", t.Actor.Mass)
	}
	if t.Move.WalkSpeed <= 0 || t.Move.RunSpeed <= 0 || t.Move.AirControlSpeed <= 0 {
		return fmt.Errorf("move speeds must be positive")
	}
	if t.Move.GroundDecel <= 0 || t.Move.AirDecel <= 0 {
		return fmt.Errorf("deceleration rates must be positive")
	}
	if t.Jump.Force <= 0 {
		return fmt.Errorf("jump force must be positive, got %g", t.Jump.Force)
	}
	if t.Jump.MaxJumps < 0 {
		return fmt.Errorf("max_jumps must not be negative, got %d", t.Jump.MaxJumps)
	}
	switch t.Jump.ChargePolicy {
	case ConsumeOne, ConsumeAll:
	default:
		return fmt.Errorf("unknown air_charge_policy %q", t.Jump.ChargePolicy)
	}
	if t.Dash.Speed <= 0 || t.Dash.Duration <= 0 {
		return fmt.Errorf("dash speed and duration must be positive")
	}
	if t.Dash.MaxAirDashes < 0 {
		return fmt.Errorf("max_air_dashes must not be negative, got %d", t.Dash.MaxAirDashes)
	}
	if t.Slide.Speed <= 0 || t.Slide.Duration <= 0 {
		return fmt.Errorf("slide speed and duration must be positive")
	}
	if t.Limits.MaxHorizontal <= 0 || t.Limits.MaxRise <= 0 || t.Limits.MaxFall <= 0 {
		return fmt.Errorf("velocity limits must be positive")
	}
	if t.Wall.SlideSpeed < 0 || t.Wall.ClingGravity < 0 {
		return fmt.Errorf("wall slide speed and cling gravity must not be negative")
	}
	if t.Gravity <= 0 {
		return fmt.Errorf("gravity must be positive, got %g", t.Gravity)
	}
	return nil
}

// WallJumpComponents resolves the configured wall-jump force and angle into
// horizontal and vertical velocity components. side is the wall direction
// (-1 wall on the left, +1 wall on the right); the kick pushes away from it.
func (t *Tunables) WallJumpComponents(side int) (x, y float64) {
	rad := t.Wall.JumpAngleDeg * math.Pi / 180
	x = -float64(side) * t.Wall.JumpForce * math.Cos(rad)
	y = -t.Wall.JumpForce * math.Sin(rad)
	return x, y
}
