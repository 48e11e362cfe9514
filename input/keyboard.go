package input

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/motion/common"
)

const stickDeadzone = 0.2

// Keyboard polls Ebiten keys and the first standard gamepad.
//
// WASD/arrows move, shift runs, space jumps, K or left mouse attacks,
// J dashes. A jump press is buffered for a few frames so pressing slightly
// before landing still counts.
type Keyboard struct {
	bufferFrames int

	moveX, moveY  float64
	run           bool
	jump          bool
	jumpBuffer    int
	dashPressed   bool
	attackPressed bool
	attackHeld    bool
}

// NewKeyboard creates a keyboard source with the given jump buffer length in
// frames. Non-positive means no buffering.
func NewKeyboard(bufferFrames int) *Keyboard {
	if bufferFrames < 0 {
		bufferFrames = 0
	}
	return &Keyboard{bufferFrames: bufferFrames}
}

func (k *Keyboard) Update() {
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	up := ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	down := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)

	k.moveX = 0
	if left {
		k.moveX -= 1
	}
	if right {
		k.moveX += 1
	}
	k.moveY = 0
	if up {
		k.moveY -= 1
	}
	if down {
		k.moveY += 1
	}

	k.run = ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	k.jump = ebiten.IsKeyPressed(ebiten.KeySpace)
	jumpPressed := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	k.dashPressed = inpututil.IsKeyJustPressed(ebiten.KeyJ)
	k.attackPressed = inpututil.IsKeyJustPressed(ebiten.KeyK) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	k.attackHeld = ebiten.IsKeyPressed(ebiten.KeyK) ||
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Abs(lx) > stickDeadzone {
			k.moveX = common.Clamp(lx, -1, 1)
		}
		if math.Abs(ly) > stickDeadzone {
			k.moveY = common.Clamp(ly, -1, 1)
		}

		k.jump = k.jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		jumpPressed = jumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		k.dashPressed = k.dashPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightRight)
		k.attackPressed = k.attackPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
		k.attackHeld = k.attackHeld || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightLeft)
		k.run = k.run || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
	}

	if jumpPressed {
		k.jumpBuffer = k.bufferFrames + 1
	} else if k.jumpBuffer > 0 {
		k.jumpBuffer--
	}
}

func (k *Keyboard) MovementAxis() (x, y float64) { return k.moveX, k.moveY }
func (k *Keyboard) RunHeld() bool                { return k.run }
func (k *Keyboard) JumpPressed() bool            { return k.jumpBuffer > 0 }
func (k *Keyboard) ConsumeJump()                 { k.jumpBuffer = 0 }
func (k *Keyboard) JumpHeld() bool               { return k.jump }
func (k *Keyboard) DashPressed() bool            { return k.dashPressed }
func (k *Keyboard) AttackPressed() bool          { return k.attackPressed }
func (k *Keyboard) AttackHeld() bool             { return k.attackHeld }
