package arena

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	rgerror "github.com/msto63/robogame/foundation/core/error"
)

// Scenario fixes the layout of an arena. Zero values keep the rules'
// defaults; a missing barrels list keeps random placement while an empty
// list means no barrels at all.
type Scenario struct {
	Name    string        `yaml:"name"`
	Width   int           `yaml:"width"`
	Height  int           `yaml:"height"`
	Robots  []RobotStart  `yaml:"robots"`
	Barrels []Barrel      `yaml:"-"`
	Raw     []BarrelStart `yaml:"barrels"`
}

// RobotStart positions one robot.
type RobotStart struct {
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Heading string `yaml:"heading"`
	Fuel    int    `yaml:"fuel"`
}

// BarrelStart positions one barrel.
type BarrelStart struct {
	X    int `yaml:"x"`
	Y    int `yaml:"y"`
	Fuel int `yaml:"fuel"`
}

func (rs RobotStart) apply(r *robotState) error {
	h, err := ParseHeading(rs.Heading)
	if err != nil {
		return err
	}
	r.pos = Point{rs.X, rs.Y}
	r.heading = h
	if rs.Fuel > 0 {
		r.fuel = rs.Fuel
	}
	return nil
}

// ParseScenario decodes a YAML scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, rgerror.Wrap(err, "failed to parse scenario").
			WithCode(rgerror.CodeInvalidArena)
	}

	if len(sc.Robots) > 2 {
		return nil, rgerror.Newf("scenario places %d robots, at most 2 are supported", len(sc.Robots)).
			WithCode(rgerror.CodeInvalidArena)
	}
	if sc.Raw != nil {
		sc.Barrels = make([]Barrel, 0, len(sc.Raw))
		for _, b := range sc.Raw {
			if b.Fuel < 0 {
				return nil, rgerror.New("scenario barrel fuel must not be negative").
					WithCode(rgerror.CodeInvalidArena)
			}
			sc.Barrels = append(sc.Barrels, Barrel{Pos: Point{b.X, b.Y}, Fuel: b.Fuel})
		}
	}
	return &sc, nil
}

// LoadScenario reads a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rgerror.Wrap(err, fmt.Sprintf("failed to read scenario %s", path)).
			WithCode(rgerror.CodeNotFound)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}
