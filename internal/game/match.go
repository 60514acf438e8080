// Package game runs robot scripts against each other in an arena.
package game

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	rgerror "github.com/msto63/robogame/foundation/core/error"
	rglog "github.com/msto63/robogame/foundation/core/log"
	"github.com/msto63/robogame/foundation/script"
	rgast "github.com/msto63/robogame/foundation/script/ast"
	rgexecutor "github.com/msto63/robogame/foundation/script/executor"
	"github.com/msto63/robogame/internal/arena"
	"github.com/msto63/robogame/pkg/core/config"
)

// Reasons a match ends
const (
	ReasonMaxTicks  = "max-ticks"
	ReasonOutOfFuel = "out-of-fuel"
	ReasonFinished  = "scripts-finished"
)

// Contestant is a named robot script.
type Contestant struct {
	Name   string
	Source string
}

// Observer receives the arena state after every tick. Observe runs on the
// match loop and must not block for long.
type Observer interface {
	Observe(arena.Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(arena.Snapshot)

// Observe calls f(s).
func (f ObserverFunc) Observe(s arena.Snapshot) { f(s) }

// Options configures a match
type Options struct {
	Logger   *rglog.Logger
	Engine   *script.Engine
	Rules    arena.Rules
	Scenario *arena.Scenario

	// MaxTicks ends the match, 0 selects 1000.
	MaxTicks int
	// TickRate in ticks per second, 0 runs unthrottled.
	TickRate float64
	// TickTimeout is how long a tick waits for robots still computing,
	// 0 selects 250ms.
	TickTimeout time.Duration

	Observers []Observer

	// RunID tags log entries of the match.
	RunID string
}

// OptionsFromConfig builds match options from the arena configuration.
func OptionsFromConfig(cfg *config.Config, engine *script.Engine, logger *rglog.Logger) Options {
	a := cfg.Arena
	if a.Seed == 0 {
		a.Seed = time.Now().UnixNano()
	}
	return Options{
		Logger: logger,
		Engine: engine,
		Rules: arena.Rules{
			Width:      a.Width,
			Height:     a.Height,
			Barrels:    a.Barrels,
			StartFuel:  a.StartFuel,
			BarrelFuel: a.BarrelFuel,
			MoveCost:   a.MoveCost,
			ShieldCost: a.ShieldCost,
			RamDamage:  a.RamDamage,
			Seed:       a.Seed,
		},
		MaxTicks:    a.MaxTicks,
		TickRate:    a.TickRate,
		TickTimeout: a.TickTimeout.Duration,
	}
}

// RobotResult is the fate of one contestant.
type RobotResult struct {
	Name       string
	Fuel       int
	Actions    int64
	Iterations int64
	Variables  map[string]int64
	// Finished is set when the script ran to its end.
	Finished bool
	// Err is the error that stopped the script, nil when it finished or
	// was stopped by the end of the match.
	Err error
}

// Outcome describes a finished match.
type Outcome struct {
	// Winner is empty on a draw.
	Winner   string
	Reason   string
	Ticks    int
	Robots   []RobotResult
	Final    arena.Snapshot
	Started  time.Time
	Duration time.Duration
}

// Match runs contestants in a fresh world per Run call.
type Match struct {
	opts   Options
	logger *rglog.Logger
}

// New creates a match runner
func New(opts Options) (*Match, error) {
	if opts.Logger == nil {
		opts.Logger = rglog.GetDefault()
	}
	if opts.Engine == nil {
		engine, err := script.NewEngine(script.Options{Logger: opts.Logger})
		if err != nil {
			return nil, err
		}
		opts.Engine = engine
	}
	if opts.MaxTicks <= 0 {
		opts.MaxTicks = 1000
	}
	if opts.TickTimeout <= 0 {
		opts.TickTimeout = 250 * time.Millisecond
	}
	if opts.TickRate < 0 {
		return nil, rgerror.New("tick rate must not be negative").
			WithCode(rgerror.CodeInvalidInput)
	}

	logger := opts.Logger.WithField("component", "match")
	if opts.RunID != "" {
		logger = logger.WithRun(opts.RunID)
	}
	return &Match{opts: opts, logger: logger}, nil
}

// Run plays one match. Script errors are reported in the outcome; the
// returned error covers setup failures and cancellation of ctx.
func (m *Match) Run(ctx context.Context, contestants ...Contestant) (*Outcome, error) {
	if len(contestants) == 0 || len(contestants) > 2 {
		return nil, rgerror.Newf("a match needs one or two contestants, got %d", len(contestants)).
			WithCode(rgerror.CodeInvalidInput).
			WithOperation("game.Run")
	}

	names := make([]string, len(contestants))
	progs := make([]*rgast.Sequence, len(contestants))
	for i, c := range contestants {
		prog, err := m.opts.Engine.Parse(c.Source)
		if err != nil {
			return nil, rgerror.Wrapf(err, "script of %s", c.Name).
				WithOperation("game.Run").
				WithDetail("robot", c.Name)
		}
		names[i], progs[i] = c.Name, prog
	}

	world, err := arena.New(m.opts.Rules, m.opts.Scenario, names...)
	if err != nil {
		return nil, err
	}

	n := len(contestants)
	outcome := &Outcome{Started: time.Now(), Robots: make([]RobotResult, n)}
	m.logger.Info("match started", rglog.Fields{"robots": names, "maxTicks": m.opts.MaxTicks})

	matchCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(matchCtx)

	requests := make(chan arena.Request)
	finished := make(chan int, n)

	for i := range progs {
		g.Go(func() error {
			defer func() { finished <- i }()
			outcome.Robots[i] = m.play(gctx, world, i, progs[i], requests)
			return nil
		})
	}

	g.Go(func() error {
		defer stop()
		reason, err := m.loop(gctx, world, requests, finished, n)
		outcome.Reason = reason
		return err
	})

	if err := g.Wait(); err != nil {
		code := rgerror.CodeCanceled
		if errors.Is(err, context.DeadlineExceeded) {
			code = rgerror.CodeTimeout
		}
		return nil, rgerror.Wrap(err, "match aborted").
			WithCode(code).
			WithOperation("game.Run")
	}

	outcome.Final = world.Snapshot()
	outcome.Ticks = outcome.Final.Tick
	outcome.Duration = time.Since(outcome.Started)
	for i := range outcome.Robots {
		outcome.Robots[i].Fuel = outcome.Final.Robots[i].Fuel
	}
	outcome.Winner = decide(outcome.Robots)

	m.logger.Info("match finished", rglog.Fields{
		"winner":   outcome.Winner,
		"reason":   outcome.Reason,
		"ticks":    outcome.Ticks,
		"duration": outcome.Duration.String(),
	})
	return outcome, nil
}

// play runs the script of robot id until it ends or the match stops it.
func (m *Match) play(ctx context.Context, world *arena.World, id int, prog *rgast.Sequence, requests chan<- arena.Request) RobotResult {
	logger := m.logger.WithRobot(world.Name(id))
	env := rgexecutor.NewEnvironment()

	res, err := m.opts.Engine.Execute(ctx, prog, world.Controller(ctx, id, requests), env)

	out := RobotResult{
		Name:       world.Name(id),
		Actions:    res.Actions,
		Iterations: res.Iterations,
		Variables:  env.Snapshot(),
	}
	switch {
	case err == nil:
		out.Finished = true
		logger.Debug("script finished")
	case errors.Is(err, context.Canceled):
		logger.Debug("script stopped by end of match")
	default:
		out.Err = err
		logger.LogError(err)
	}
	return out
}

// loop is the tick loop. Each tick it collects at most one action per
// running robot, waiting up to TickTimeout, applies them and notifies the
// observers.
func (m *Match) loop(ctx context.Context, world *arena.World, requests <-chan arena.Request, finished <-chan int, n int) (string, error) {
	var limiter *rate.Limiter
	if m.opts.TickRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(m.opts.TickRate), 1)
	}

	running := n
	for {
		if world.Tick() >= m.opts.MaxTicks {
			return ReasonMaxTicks, nil
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		pending := make([]*arena.Request, n)
		acted := 0
		waiting := running
		timer := time.NewTimer(m.opts.TickTimeout)
	collect:
		for waiting > 0 {
			select {
			case req := <-requests:
				pending[req.Robot] = &req
				acted++
				waiting--
			case <-finished:
				running--
				waiting--
			case <-timer.C:
				break collect
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			}
		}
		timer.Stop()

		if running == 0 && acted == 0 {
			return ReasonFinished, nil
		}

		// alternate who moves first
		tick := world.Tick()
		for k := 0; k < n; k++ {
			id := (k + tick) % n
			if req := pending[id]; req != nil {
				req.Complete(world.Apply(id, req.Action))
			}
		}
		world.EndTick()

		snap := world.Snapshot()
		for _, o := range m.opts.Observers {
			o.Observe(snap)
		}
		m.logger.Trace("tick", rglog.Fields{"tick": snap.Tick, "actions": acted})

		for _, r := range snap.Robots {
			if r.Fuel == 0 {
				return ReasonOutOfFuel, nil
			}
		}
	}
}

// decide picks the winner: a robot still able to act beats one that is
// not, otherwise the one with more fuel wins.
func decide(robots []RobotResult) string {
	alive := func(r RobotResult) bool { return r.Err == nil && r.Fuel > 0 }

	if len(robots) == 1 {
		if alive(robots[0]) {
			return robots[0].Name
		}
		return ""
	}

	a, b := robots[0], robots[1]
	switch {
	case alive(a) && !alive(b):
		return a.Name
	case alive(b) && !alive(a):
		return b.Name
	case a.Fuel > b.Fuel:
		return a.Name
	case b.Fuel > a.Fuel:
		return b.Name
	}
	return ""
}
