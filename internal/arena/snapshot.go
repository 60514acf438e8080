package arena

import (
	"strings"
)

// Snapshot is the visible state of a world after a tick. It is what
// observers, the spectator feed and the run history see.
type Snapshot struct {
	Tick    int         `json:"tick"`
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	Robots  []RobotView `json:"robots"`
	Barrels []Barrel    `json:"barrels"`
}

// RobotView is the visible state of one robot.
type RobotView struct {
	Name       string `json:"name"`
	Pos        Point  `json:"pos"`
	Heading    string `json:"heading"`
	Fuel       int    `json:"fuel"`
	Shield     bool   `json:"shield"`
	LastAction string `json:"last_action,omitempty"`
	Actions    int    `json:"actions"`
	Bumps      int    `json:"bumps"`
	Rams       int    `json:"rams"`
}

// Cell describes what occupies a grid cell.
type Cell struct {
	// Robot is the index of the robot on the cell, or -1.
	Robot  int
	Barrel bool
}

// CellAt returns the occupant of p.
func (s Snapshot) CellAt(p Point) Cell {
	c := Cell{Robot: -1}
	for i, r := range s.Robots {
		if r.Pos == p {
			c.Robot = i
		}
	}
	for _, b := range s.Barrels {
		if b.Pos == p {
			c.Barrel = true
		}
	}
	return c
}

// Glyph returns the arrow for a heading name.
func Glyph(heading string) rune {
	switch heading {
	case "north":
		return '^'
	case "east":
		return '>'
	case "south":
		return 'v'
	case "west":
		return '<'
	}
	return '?'
}

// String renders the grid as text: robots as heading arrows, barrels as 'o'
// and empty cells as '.'.
func (s Snapshot) String() string {
	var b strings.Builder
	b.WriteString("+" + strings.Repeat("-", s.Width) + "+\n")
	for y := 0; y < s.Height; y++ {
		b.WriteByte('|')
		for x := 0; x < s.Width; x++ {
			c := s.CellAt(Point{x, y})
			switch {
			case c.Robot >= 0:
				b.WriteRune(Glyph(s.Robots[c.Robot].Heading))
			case c.Barrel:
				b.WriteByte('o')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteString("|\n")
	}
	b.WriteString("+" + strings.Repeat("-", s.Width) + "+\n")
	return b.String()
}
