package arena

import (
	"cmp"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	rgerror "github.com/msto63/robogame/foundation/core/error"
)

// ErrOutOfFuel is returned by every action of a robot without fuel.
var ErrOutOfFuel = rgerror.New("robot is out of fuel").WithCode(rgerror.CodeRobotHalted)

// Action is one actuator command.
type Action int

const (
	ActionWait Action = iota
	ActionMove
	ActionTurnLeft
	ActionTurnRight
	ActionTurnAround
	ActionTakeFuel
	ActionShieldOn
	ActionShieldOff
)

var actionNames = [...]string{"wait", "move", "turnL", "turnR", "turnAround", "takeFuel", "shieldOn", "shieldOff"}

func (a Action) String() string {
	if a < ActionWait || a > ActionShieldOff {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// Rules are the parameters of a world.
type Rules struct {
	Width      int
	Height     int
	Barrels    int
	StartFuel  int
	BarrelFuel int
	MoveCost   int
	ShieldCost int
	RamDamage  int
	Seed       int64
}

// DefaultRules returns the rules of the standard arena.
func DefaultRules() Rules {
	return Rules{
		Width:      16,
		Height:     12,
		Barrels:    4,
		StartFuel:  100,
		BarrelFuel: 40,
		MoveCost:   1,
		ShieldCost: 2,
		RamDamage:  20,
		Seed:       1,
	}
}

// Validate checks that the rules describe a playable world.
func (r Rules) Validate() error {
	var problems []error
	if r.Width < 3 || r.Height < 3 {
		problems = append(problems, fmt.Errorf("arena %dx%d is smaller than 3x3", r.Width, r.Height))
	}
	if r.Barrels < 0 || r.Barrels > r.Width*r.Height/2 {
		problems = append(problems, fmt.Errorf("%d barrels do not fit the arena", r.Barrels))
	}
	if r.StartFuel <= 0 {
		problems = append(problems, errors.New("start fuel must be positive"))
	}
	if r.BarrelFuel < 0 || r.MoveCost < 0 || r.ShieldCost < 0 || r.RamDamage < 0 {
		problems = append(problems, errors.New("fuel amounts and costs must not be negative"))
	}
	if len(problems) == 0 {
		return nil
	}
	return rgerror.Wrap(errors.Join(problems...), "invalid arena rules").
		WithCode(rgerror.CodeInvalidArena)
}

// Barrel is a fuel barrel lying on a cell.
type Barrel struct {
	Pos  Point `json:"pos"`
	Fuel int   `json:"fuel"`
}

type robotState struct {
	name    string
	pos     Point
	heading Heading
	fuel    int
	shield  bool
	last    Action
	acted   bool
	actions int
	bumps   int
	rams    int
}

// World is the state of one arena. All methods are safe for concurrent use.
type World struct {
	mu      sync.RWMutex
	rules   Rules
	rng     *rand.Rand
	robots  []*robotState
	barrels []Barrel
	tick    int
}

// New creates a world for the named robots. A scenario, if given, overrides
// the arena size, robot starts and barrel positions.
func New(rules Rules, sc *Scenario, names ...string) (*World, error) {
	if sc != nil {
		if sc.Width > 0 {
			rules.Width = sc.Width
		}
		if sc.Height > 0 {
			rules.Height = sc.Height
		}
		if sc.Barrels != nil {
			rules.Barrels = len(sc.Barrels)
		}
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if len(names) == 0 || len(names) > 2 {
		return nil, rgerror.Newf("arena holds one or two robots, got %d", len(names)).
			WithCode(rgerror.CodeInvalidArena)
	}
	if len(names) == 2 && names[0] == names[1] {
		return nil, rgerror.Newf("robot names must differ, both are %q", names[0]).
			WithCode(rgerror.CodeInvalidArena)
	}

	w := &World{
		rules: rules,
		rng:   rand.New(rand.NewPCG(uint64(rules.Seed), uint64(rules.Seed)^0x9e3779b97f4a7c15)),
	}

	starts := defaultStarts(rules, len(names))
	for i, name := range names {
		r := &robotState{
			name:    name,
			pos:     starts[i].pos,
			heading: starts[i].heading,
			fuel:    rules.StartFuel,
		}
		if sc != nil && i < len(sc.Robots) {
			if err := sc.Robots[i].apply(r); err != nil {
				return nil, rgerror.Wrap(err, "invalid scenario robot").
					WithCode(rgerror.CodeInvalidArena).
					WithDetail("robot", name)
			}
		}
		if !w.inside(r.pos) {
			return nil, rgerror.Newf("robot %s starts outside the arena at %s", name, r.pos).
				WithCode(rgerror.CodeInvalidArena)
		}
		if other := w.robotAt(r.pos); other != nil {
			return nil, rgerror.Newf("robots %s and %s start on the same cell", other.name, name).
				WithCode(rgerror.CodeInvalidArena)
		}
		w.robots = append(w.robots, r)
	}

	if sc != nil && sc.Barrels != nil {
		for _, b := range sc.Barrels {
			if !w.inside(b.Pos) || w.barrelAt(b.Pos) >= 0 {
				return nil, rgerror.Newf("invalid barrel position %s", b.Pos).
					WithCode(rgerror.CodeInvalidArena)
			}
			if b.Fuel == 0 {
				b.Fuel = rules.BarrelFuel
			}
			w.barrels = append(w.barrels, b)
		}
	} else {
		for i := 0; i < rules.Barrels; i++ {
			w.barrels = append(w.barrels, Barrel{Pos: w.freeCell(), Fuel: rules.BarrelFuel})
		}
	}

	return w, nil
}

type start struct {
	pos     Point
	heading Heading
}

func defaultStarts(r Rules, n int) []start {
	mid := r.Height / 2
	if n == 1 {
		return []start{{Point{1, mid}, East}}
	}
	return []start{{Point{1, mid}, East}, {Point{r.Width - 2, mid}, West}}
}

// Rules returns the effective rules of the world.
func (w *World) Rules() Rules {
	return w.rules
}

// Robots returns the number of robots.
func (w *World) Robots() int {
	return len(w.robots)
}

// Name returns the name of robot id.
func (w *World) Name(id int) string {
	return w.robots[id].name
}

// Tick returns the number of completed ticks.
func (w *World) Tick() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tick
}

// Apply performs one action of robot id.
func (w *World) Apply(id int, a Action) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	r := w.robots[id]
	if r.fuel <= 0 {
		return ErrOutOfFuel
	}
	r.last, r.acted = a, true
	r.actions++

	switch a {
	case ActionWait:
	case ActionMove:
		r.fuel = max(r.fuel-w.rules.MoveCost, 0)
		next := r.pos.Add(r.heading.Vector())
		if !w.inside(next) {
			r.bumps++
			return nil
		}
		if other := w.robotAt(next); other != nil {
			r.rams++
			if !other.shield {
				other.fuel = max(other.fuel-w.rules.RamDamage, 0)
			}
			return nil
		}
		r.pos = next
	case ActionTurnLeft:
		r.heading = r.heading.Left()
	case ActionTurnRight:
		r.heading = r.heading.Right()
	case ActionTurnAround:
		r.heading = r.heading.Reverse()
	case ActionTakeFuel:
		if i := w.barrelAt(r.pos); i >= 0 {
			r.fuel += w.barrels[i].Fuel
			w.barrels[i] = Barrel{Pos: w.freeCell(), Fuel: w.rules.BarrelFuel}
		}
	case ActionShieldOn:
		r.shield = true
	case ActionShieldOff:
		r.shield = false
	default:
		return rgerror.Newf("unknown action %v", a).WithCode(rgerror.CodeInvalidInput)
	}
	return nil
}

// EndTick charges shield upkeep and advances the tick counter.
func (w *World) EndTick() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, r := range w.robots {
		if r.shield && r.fuel > 0 {
			r.fuel = max(r.fuel-w.rules.ShieldCost, 0)
		}
		if r.fuel == 0 {
			r.shield = false
		}
	}
	w.tick++
}

// Fuel returns the fuel of robot id.
func (w *World) Fuel(id int) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.robots[id].fuel
}

// Opponent returns the position of the other robot relative to robot id,
// or zeros when id is alone.
func (w *World) Opponent(id int) (lr, fb int) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if len(w.robots) < 2 {
		return 0, 0
	}
	r, other := w.robots[id], w.robots[1-id]
	return Relative(r.pos, r.heading, other.pos)
}

// NumBarrels returns the number of barrels in the arena.
func (w *World) NumBarrels() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.barrels)
}

// Barrel returns the position of the i-th closest barrel relative to robot
// id. ok is false when i is out of range.
func (w *World) Barrel(id, i int) (lr, fb int, ok bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if i < 0 || i >= len(w.barrels) {
		return 0, 0, false
	}
	r := w.robots[id]
	sorted := slices.Clone(w.barrels)
	slices.SortStableFunc(sorted, func(a, b Barrel) int {
		return cmp.Or(
			cmp.Compare(r.pos.Manhattan(a.Pos), r.pos.Manhattan(b.Pos)),
			cmp.Compare(a.Pos.Y, b.Pos.Y),
			cmp.Compare(a.Pos.X, b.Pos.X),
		)
	})
	lr, fb = Relative(r.pos, r.heading, sorted[i].Pos)
	return lr, fb, true
}

// WallDistance returns the number of cells between robot id and the wall
// it faces.
func (w *World) WallDistance(id int) int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	r := w.robots[id]
	switch r.heading {
	case North:
		return r.pos.Y
	case East:
		return w.rules.Width - 1 - r.pos.X
	case South:
		return w.rules.Height - 1 - r.pos.Y
	default:
		return r.pos.X
	}
}

// Snapshot returns a copy of the visible state.
func (w *World) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s := Snapshot{
		Tick:    w.tick,
		Width:   w.rules.Width,
		Height:  w.rules.Height,
		Barrels: slices.Clone(w.barrels),
	}
	for _, r := range w.robots {
		view := RobotView{
			Name:    r.name,
			Pos:     r.pos,
			Heading: r.heading.String(),
			Fuel:    r.fuel,
			Shield:  r.shield,
			Actions: r.actions,
			Bumps:   r.bumps,
			Rams:    r.rams,
		}
		if r.acted {
			view.LastAction = r.last.String()
		}
		s.Robots = append(s.Robots, view)
	}
	return s
}

func (w *World) inside(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < w.rules.Width && p.Y < w.rules.Height
}

func (w *World) robotAt(p Point) *robotState {
	for _, r := range w.robots {
		if r.pos == p {
			return r
		}
	}
	return nil
}

func (w *World) barrelAt(p Point) int {
	for i, b := range w.barrels {
		if b.Pos == p {
			return i
		}
	}
	return -1
}

// freeCell picks a random cell without robot or barrel. Rules.Validate
// guarantees that one exists.
func (w *World) freeCell() Point {
	for {
		p := Point{w.rng.IntN(w.rules.Width), w.rng.IntN(w.rules.Height)}
		if w.robotAt(p) == nil && w.barrelAt(p) < 0 {
			return p
		}
	}
}
