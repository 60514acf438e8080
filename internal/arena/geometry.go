// Package arena simulates the grid world robots are scripted for.
//
// The arena is a rectangle of Width x Height cells surrounded by walls.
// X grows to the east, Y grows to the south. Sensor readings are relative
// to the reading robot: LR is positive to its right, FB positive ahead.
package arena

import (
	"fmt"
	"strings"
)

// Heading is the direction a robot faces.
type Heading int

const (
	North Heading = iota
	East
	South
	West
)

var headingNames = [...]string{"north", "east", "south", "west"}

func (h Heading) String() string {
	if h < North || h > West {
		return fmt.Sprintf("Heading(%d)", int(h))
	}
	return headingNames[h]
}

// Left returns the heading after a left turn.
func (h Heading) Left() Heading { return (h + 3) % 4 }

// Right returns the heading after a right turn.
func (h Heading) Right() Heading { return (h + 1) % 4 }

// Reverse returns the opposite heading.
func (h Heading) Reverse() Heading { return (h + 2) % 4 }

// Vector is the unit step in direction h.
func (h Heading) Vector() Point {
	switch h {
	case North:
		return Point{0, -1}
	case East:
		return Point{1, 0}
	case South:
		return Point{0, 1}
	default:
		return Point{-1, 0}
	}
}

// ParseHeading accepts full names and their first letter.
func ParseHeading(s string) (Heading, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north", "":
		return North, nil
	case "e", "east":
		return East, nil
	case "s", "south":
		return South, nil
	case "w", "west":
		return West, nil
	}
	return North, fmt.Errorf("unknown heading %q", s)
}

// Point is a cell position.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Manhattan returns the grid distance between p and q.
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Relative converts the offset from p to target into (LR, FB) as seen by a
// robot at p facing h.
func Relative(p Point, h Heading, target Point) (lr, fb int) {
	d := target.Sub(p)
	ahead := h.Vector()
	right := h.Right().Vector()
	return d.X*right.X + d.Y*right.Y, d.X*ahead.X + d.Y*ahead.Y
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
