// Package telemetry records per-tick motion samples during play-test and
// soak sessions so tunables can be adjusted from data instead of feel.
package telemetry

import (
	"fmt"
	"io"
	"math"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sample is one logic tick of motion data.
type Sample struct {
	Tick     int     `csv:"tick"`
	State    string  `csv:"state"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	VelX     float64 `csv:"vel_x"`
	VelY     float64 `csv:"vel_y"`
	Grounded bool    `csv:"grounded"`
	WallSide int     `csv:"wall_side"`
	Jumps    int     `csv:"jumps_remaining"`
	Dashes   int     `csv:"air_dashes_remaining"`
}

// Stats summarizes a run.
type Stats struct {
	Samples        int
	MeanSpeed      float64
	MaxSpeed       float64
	MaxFallSpeed   float64
	GroundedFrac   float64
	StateOccupancy map[string]float64
}

// Collector keeps a bounded ring of the most recent samples.
type Collector struct {
	capacity int
	samples  []Sample
	start    int
	total    int
}

// NewCollector creates a collector holding at most capacity samples; older
// samples are dropped first. Non-positive capacity gets a default.
func NewCollector(capacity int) *Collector {
	if capacity <= 0 {
		capacity = 36000 // ten minutes at 60 ticks/s
	}
	return &Collector{capacity: capacity}
}

func (c *Collector) Observe(s Sample) {
	if c == nil {
		return
	}
	if len(c.samples) < c.capacity {
		c.samples = append(c.samples, s)
	} else {
		c.samples[c.start] = s
		c.start = (c.start + 1) % c.capacity
	}
	c.total++
}

// Len returns the number of retained samples.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	return len(c.samples)
}

// Total returns how many samples were ever observed.
func (c *Collector) Total() int {
	if c == nil {
		return 0
	}
	return c.total
}

// ordered returns samples oldest first.
func (c *Collector) ordered() []Sample {
	out := make([]Sample, 0, len(c.samples))
	for i := 0; i < len(c.samples); i++ {
		out = append(out, c.samples[(c.start+i)%len(c.samples)])
	}
	return out
}

// Stats aggregates the retained samples.
func (c *Collector) Stats() Stats {
	st := Stats{StateOccupancy: make(map[string]float64)}
	if c == nil || len(c.samples) == 0 {
		return st
	}

	speeds := make([]float64, 0, len(c.samples))
	grounded := 0
	counts := make(map[string]int)
	maxFall := 0.0
	for _, s := range c.samples {
		speeds = append(speeds, math.Hypot(s.VelX, s.VelY))
		if s.Grounded {
			grounded++
		}
		if s.VelY > maxFall {
			maxFall = s.VelY
		}
		counts[s.State]++
	}

	st.Samples = len(c.samples)
	st.MeanSpeed = stat.Mean(speeds, nil)
	st.MaxSpeed = floats.Max(speeds)
	st.MaxFallSpeed = maxFall
	st.GroundedFrac = float64(grounded) / float64(len(c.samples))
	for name, n := range counts {
		st.StateOccupancy[name] = float64(n) / float64(len(c.samples))
	}
	return st
}

// WriteCSV writes the retained samples, oldest first, with a header row.
func (c *Collector) WriteCSV(w io.Writer) error {
	if c == nil || len(c.samples) == 0 {
		return nil
	}
	if err := gocsv.Marshal(c.ordered(), w); err != nil {
		return fmt.Errorf("telemetry: write csv: %w", err)
	}
	return nil
}
