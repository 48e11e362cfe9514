package main

import (
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/motion/controller"
	"github.com/milk9111/motion/input"
	"github.com/milk9111/motion/physics"
	"github.com/milk9111/motion/telemetry"
	"github.com/milk9111/motion/tunables"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	frames int
	debug  bool

	level *Level
	tun   *tunables.Tunables
	src   input.Source

	world   *physics.World
	body    *physics.Body
	machine *controller.Machine
	sink    *animSink

	collector    *telemetry.Collector
	telemetryOut string

	watcher      *tunables.Watcher
	tunablesPath string
}

func NewGame(level *Level, tun *tunables.Tunables, src input.Source, tunablesPath, telemetryOut string, debug bool) *Game {
	g := &Game{
		level:        level,
		tun:          tun,
		src:          src,
		debug:        debug,
		collector:    telemetry.NewCollector(0),
		telemetryOut: telemetryOut,
		tunablesPath: tunablesPath,
	}
	g.spawn()
	return g
}

// spawn builds a fresh physics world and actor from the current tunables.
// Tunables are immutable per actor, so a reload means a respawn.
func (g *Game) spawn() {
	g.world = physics.NewWorld(g.tun.Gravity)
	g.world.AddTileGrid(g.level.Tiles, g.level.Width, g.level.Height, tileSize)

	g.body = physics.NewActorBody(
		g.world,
		g.level.SpawnX, g.level.SpawnY,
		g.tun.Actor.Width, g.tun.Actor.Height,
		g.tun.Actor.Mass, g.tun.Actor.Friction,
	)
	g.body.SetBoostIterations(g.tun.Limits.SolverBoostIters)

	sensor := physics.NewSensor(g.world, g.body, g.tun.Sensor)
	g.sink = newAnimSink(g.debug)
	g.machine = controller.NewMachine(g.src, g.body, sensor, g.sink, g.tun)
}

// WatchTunables starts live reload of the tunables file. A change respawns
// the actor with the freshly loaded values.
func (g *Game) WatchTunables(dir string) {
	w, err := tunables.NewWatcher(dir)
	if err != nil {
		log.Printf("game: tunables watch failed: %v", err)
		return
	}
	g.watcher = w
}

func (g *Game) pollTunables() {
	if g.watcher == nil {
		return
	}
	select {
	case path, ok := <-g.watcher.Events:
		if !ok {
			g.watcher = nil
			return
		}
		tun, err := tunables.Load(g.tunablesPath)
		if err != nil {
			log.Printf("game: reload %s: %v", path, err)
			return
		}
		g.tun = tun
		g.spawn()
		log.Printf("game: tunables reloaded from %s, actor respawned", path)
	default:
	}
}

func (g *Game) Update() error {
	g.frames++
	g.pollTunables()

	dt := 1.0 / float64(ebiten.TPS())

	g.src.Update()
	g.machine.Tick(dt)
	g.world.Advance(dt)

	x, y := g.body.Position()
	vx, vy := g.body.Velocity()
	g.collector.Observe(telemetry.Sample{
		Tick:     g.frames,
		State:    g.machine.State(),
		X:        x,
		Y:        y,
		VelX:     vx,
		VelY:     vy,
		Grounded: g.machine.Grounded(),
		WallSide: g.machine.WallSide(),
		Jumps:    g.machine.JumpsRemaining(),
		Dashes:   g.machine.AirDashesRemaining(),
	})

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	for y := 0; y < g.level.Height; y++ {
		for x := 0; x < g.level.Width; x++ {
			if g.level.Tiles[y*g.level.Width+x] == 0 {
				continue
			}
			vector.DrawFilledRect(
				screen,
				float32(x*tileSize), float32(y*tileSize),
				tileSize, tileSize,
				color.RGBA{0x3a, 0x3a, 0x46, 0xff}, false,
			)
		}
	}

	x, y := g.body.Position()
	w, h := g.tun.Actor.Width, g.tun.Actor.Height
	actorColor := color.RGBA{0xd8, 0x5a, 0x2a, 0xff}
	if g.machine.Grounded() {
		actorColor = color.RGBA{0x2a, 0xa0, 0x5a, 0xff}
	}
	vector.DrawFilledRect(
		screen,
		float32(x-w/2), float32(y-h/2),
		float32(w), float32(h),
		actorColor, false,
	)

	if g.debug {
		g.drawSensors(screen, x, y, w, h)
	}

	msg := fmt.Sprintf("FPS: %.1f  state: %s  jumps: %d  dashes: %d",
		ebiten.ActualFPS(), g.machine.State(),
		g.machine.JumpsRemaining(), g.machine.AirDashesRemaining())
	if g.debug {
		vx, vy := g.body.Velocity()
		msg += fmt.Sprintf("\npos: %.0f,%.0f  vel: %.0f,%.0f  wall: %d",
			x, y, vx, vy, g.machine.WallSide())
	}
	ebitenutil.DebugPrint(screen, msg)
}

// drawSensors overlays the ground-check box and the wall rays.
func (g *Game) drawSensors(screen *ebiten.Image, x, y, w, h float64) {
	geo := g.tun.Sensor
	sensorColor := color.RGBA{0xe8, 0xd0, 0x2a, 0xff}

	inset := float32(geo.GroundInset * w / 2)
	bottom := float32(y + h/2)
	vector.StrokeRect(
		screen,
		float32(x)-inset, bottom,
		inset*2, float32(geo.GroundDepth),
		1, sensorColor, false,
	)

	reach := float32(w/2 + geo.WallRayLength)
	dir := float32(g.machine.Facing())
	for _, frac := range geo.WallRayHeights {
		yy := float32(y + frac*h)
		vector.StrokeLine(screen, float32(x), yy, float32(x)+dir*reach, yy, 1, sensorColor, false)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

// Shutdown flushes telemetry and stops the watcher.
func (g *Game) Shutdown() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.telemetryOut == "" {
		return
	}
	f, err := os.Create(g.telemetryOut)
	if err != nil {
		log.Printf("game: telemetry out: %v", err)
		return
	}
	defer f.Close()
	if err := g.collector.WriteCSV(f); err != nil {
		log.Printf("game: telemetry write: %v", err)
		return
	}
	st := g.collector.Stats()
	log.Printf("game: wrote %d samples to %s (mean speed %.1f, grounded %.0f%%)",
		st.Samples, g.telemetryOut, st.MeanSpeed, st.GroundedFrac*100)
}
