package controller

import "log"

// Sink receives fire-and-forget presentation events: animation triggers and
// numeric parameter updates. Delivery is best-effort; the controller never
// blocks or branches on a sink's behavior.
type Sink interface {
	Trigger(name string)
	SetFloat(name string, value float64)

	// Names lists every trigger and parameter the sink understands. It is
	// queried once, at controller construction.
	Names() []string
}

// guardedSink wraps a Sink with a capability set resolved once, so unknown
// names are dropped without per-call probing. Each unknown name is logged at
// most once. A nil inner sink makes every call a no-op.
type guardedSink struct {
	sink   Sink
	known  map[string]struct{}
	warned map[string]struct{}
}

func newGuardedSink(s Sink) *guardedSink {
	g := &guardedSink{sink: s, warned: make(map[string]struct{})}
	if s == nil {
		return g
	}
	names := s.Names()
	g.known = make(map[string]struct{}, len(names))
	for _, n := range names {
		g.known[n] = struct{}{}
	}
	return g
}

func (g *guardedSink) allows(name string) bool {
	if g.sink == nil {
		return false
	}
	if _, ok := g.known[name]; ok {
		return true
	}
	if _, ok := g.warned[name]; !ok {
		g.warned[name] = struct{}{}
		log.Printf("controller: sink does not know %q, dropping", name)
	}
	return false
}

func (g *guardedSink) Trigger(name string) {
	if g.allows(name) {
		g.sink.Trigger(name)
	}
}

func (g *guardedSink) SetFloat(name string, value float64) {
	if g.allows(name) {
		g.sink.SetFloat(name, value)
	}
}
