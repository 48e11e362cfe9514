package input

import "testing"

func TestScriptDrivesInputPerTick(t *testing.T) {
	src := []byte(`
move_x := 0.5
run := tick >= 2
jump_pressed := tick == 1
attack := tick >= 3 && tick <= 4
`)
	s, err := NewScript(src)
	if err != nil {
		t.Fatalf("NewScript: %v", err)
	}

	// tick 0
	s.Update()
	if x, _ := s.MovementAxis(); x != 0.5 {
		t.Fatalf("move x = %g, want 0.5", x)
	}
	if s.RunHeld() || s.JumpPressed() || s.AttackPressed() {
		t.Fatal("unexpected inputs on tick 0")
	}

	// tick 1: jump fires for exactly one tick
	s.Update()
	if !s.JumpPressed() {
		t.Fatal("jump not pressed on tick 1")
	}

	// tick 2: jump released, run picks up
	s.Update()
	if s.JumpPressed() {
		t.Fatal("jump still pressed on tick 2")
	}
	if !s.RunHeld() {
		t.Fatal("run not held on tick 2")
	}

	// tick 3: attack edge
	s.Update()
	if !s.AttackPressed() || !s.AttackHeld() {
		t.Fatal("attack edge missed on tick 3")
	}

	// tick 4: still held, no longer an edge
	s.Update()
	if s.AttackPressed() {
		t.Fatal("attack edge repeated on tick 4")
	}
	if !s.AttackHeld() {
		t.Fatal("attack released early on tick 4")
	}

	// tick 5: released
	s.Update()
	if s.AttackHeld() {
		t.Fatal("attack still held on tick 5")
	}
}

func TestScriptIntCoercesToFloat(t *testing.T) {
	s, err := NewScript([]byte(`move_x := 1`))
	if err != nil {
		t.Fatalf("NewScript: %v", err)
	}
	s.Update()
	if x, _ := s.MovementAxis(); x != 1 {
		t.Fatalf("move x = %g, want 1 from an int script value", x)
	}
}

func TestScriptCompileError(t *testing.T) {
	if _, err := NewScript([]byte(`move_x := (`)); err == nil {
		t.Fatal("compile of a broken script succeeded")
	}
}
