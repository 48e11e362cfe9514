package main

import "log"

// animSink is the demo's presentation sink: it records the current animation
// trigger and the parameters the controller reports. In debug mode every
// transition is logged.
type animSink struct {
	debug   bool
	current string
	params  map[string]float64
}

func newAnimSink(debug bool) *animSink {
	return &animSink{params: make(map[string]float64), debug: debug}
}

func (s *animSink) Names() []string {
	return []string{
		"idle", "walk", "run", "jump", "fall",
		"wall_cling", "dash", "attack", "slide",
		"speed", "grounded",
	}
}

func (s *animSink) Trigger(name string) {
	if s.current == name {
		return
	}
	if s.debug {
		log.Printf("anim: %s -> %s", s.current, name)
	}
	s.current = name
}

func (s *animSink) SetFloat(name string, value float64) {
	s.params[name] = value
}
