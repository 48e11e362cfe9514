package main

import (
	"fmt"
	"os"
	"strings"
)

const tileSize = 32

// defaultLevel is a small test arena: a floor, two platforms, and a tall
// wall for exercising cling and wall jumps.
const defaultLevel = `
########################################
#......................................#
#......................................#
#..............................#########
#......................................#
#...........####.......................#
#......................................#
#..P.................####..............#
#......................................#
########################################
`

// Level is a row-major solid-tile grid with a spawn point.
type Level struct {
	Width  int
	Height int
	Tiles  []int
	SpawnX float64
	SpawnY float64
}

// LoadLevel reads a text-grid level: '#' solid, 'P' spawn, anything else
// empty. An empty path returns the built-in arena.
func LoadLevel(path string) (*Level, error) {
	if path == "" {
		return parseLevel(defaultLevel)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: read %s: %w", path, err)
	}
	lvl, err := parseLevel(string(data))
	if err != nil {
		return nil, fmt.Errorf("level: parse %s: %w", path, err)
	}
	return lvl, nil
}

func parseLevel(text string) (*Level, error) {
	var rows []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("level: empty grid")
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	height := len(rows)

	lvl := &Level{
		Width:  width,
		Height: height,
		Tiles:  make([]int, width*height),
		// fallback spawn near the top-left if the grid has no 'P'
		SpawnX: float64(2 * tileSize),
		SpawnY: float64(2 * tileSize),
	}
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			switch row[x] {
			case '#':
				lvl.Tiles[y*width+x] = 1
			case 'P':
				lvl.SpawnX = float64(x*tileSize) + tileSize/2
				lvl.SpawnY = float64(y*tileSize) + tileSize/2
			}
		}
	}
	return lvl, nil
}
