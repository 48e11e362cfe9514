// Package input abstracts device polling behind a per-tick query interface.
// Sources deliver edge- and buffer-processed signals; the controller never
// talks to a device directly.
package input

// Source provides one actor's input for the current tick. Update is called
// once at the top of each logic tick, before any queries.
type Source interface {
	Update()

	// MovementAxis returns the movement vector, each component in [-1, 1].
	// +X is right, +Y is down (screen coordinates).
	MovementAxis() (x, y float64)
	RunHeld() bool
	// JumpPressed reports a fresh press, widened by a short buffer so a
	// press just before landing still registers on landing.
	JumpPressed() bool
	// ConsumeJump clears the buffered press once a jump has fired, so one
	// physical press never triggers two jumps across the buffer window.
	ConsumeJump()
	JumpHeld() bool
	DashPressed() bool
	AttackPressed() bool
	AttackHeld() bool
}
