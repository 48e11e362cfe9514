package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/motion/input"
	"github.com/milk9111/motion/tunables"
)

func main() {
	tunablesPath := flag.String("tunables", "", "yaml tunables file layered over the defaults")
	levelPath := flag.String("level", "", "text-grid level file ('#' solid, 'P' spawn)")
	scriptPath := flag.String("script", "", "tengo input script for deterministic playback")
	telemetryOut := flag.String("telemetry", "", "write per-tick motion samples to this CSV on exit")
	debug := flag.Bool("debug", false, "enable debug overlay and transition logging")
	flag.Parse()

	tun, err := tunables.Load(*tunablesPath)
	if err != nil {
		log.Fatal(err)
	}

	level, err := LoadLevel(*levelPath)
	if err != nil {
		log.Fatal(err)
	}

	var src input.Source
	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			log.Fatal(err)
		}
		src, err = input.NewScript(data)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		src = input.NewKeyboard(tun.Jump.BufferFrames)
	}

	game := NewGame(level, tun, src, *tunablesPath, *telemetryOut, *debug)
	if *tunablesPath != "" {
		game.WatchTunables(filepath.Dir(*tunablesPath))
	}
	defer game.Shutdown()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("motion")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
