// File: executor.go
// Title: Tree-Walking Evaluator
// Description: Executes statements and evaluates expressions against a
//              Robot and an Environment, reporting trace events and honoring
//              context cancellation between iterations.
// Author: msto63
// Version: v0.1.1
// Created: 2026-09-30
// Modified: 2026-10-16
//
// Change History:
// - 2026-09-30 v0.1.0: Initial evaluator
// - 2026-10-04 v0.1.0: Trace events, iteration limit and run statistics
// - 2026-10-16 v0.1.1: Typed nil nodes and misplaced sensor indexes are malformed

package executor

import (
	"context"
	"math"
	"time"

	rglog "github.com/msto63/robogame/foundation/core/log"
	rgast "github.com/msto63/robogame/foundation/script/ast"
)

// Options configures the executor
type Options struct {
	Logger *rglog.Logger

	// Trace, when set, receives an Event for every action, assignment and
	// loop iteration. It runs on the executing goroutine.
	Trace func(Event)

	// MaxIterations bounds the total number of loop and while iterations
	// of one run. Zero means unlimited.
	MaxIterations int64
}

// Result summarizes a run, including one that ended with an error.
type Result struct {
	Statements int64
	Actions    int64
	Iterations int64
	Duration   time.Duration
}

// Executor runs syntax trees. It holds no per-run state and may be shared.
type Executor struct {
	logger  *rglog.Logger
	options Options
}

// New creates an executor with the given options
func New(opts Options) *Executor {
	if opts.Logger == nil {
		opts.Logger = rglog.GetDefault()
	}
	return &Executor{
		logger:  opts.Logger.WithField("component", "script-executor"),
		options: opts,
	}
}

var defaultExecutor = New(Options{Logger: rglog.Discard()})

// Execute runs stmt with a default executor.
func Execute(ctx context.Context, stmt rgast.Statement, robot Robot, env *Environment) error {
	_, err := defaultExecutor.Execute(ctx, stmt, robot, env)
	return err
}

// Execute runs stmt to completion, to its first error, or until ctx is
// done. Variables are read from and written to env.
func (x *Executor) Execute(ctx context.Context, stmt rgast.Statement, robot Robot, env *Environment) (Result, error) {
	r := &run{
		ctx:   ctx,
		robot: robot,
		env:   env,
		opts:  &x.options,
		start: time.Now(),
	}

	x.emit(Event{Kind: EventRunStart, Time: r.start})
	timer := x.logger.StartTimer("script execution")

	err := r.exec(stmt)

	r.res.Duration = time.Since(r.start)
	x.emit(Event{Kind: EventRunEnd, Err: err, Time: time.Now()})
	timer.WithField("actions", r.res.Actions).WithField("iterations", r.res.Iterations)
	if err != nil {
		timer.StopWithError(err)
	} else {
		timer.Stop()
	}
	return r.res, err
}

func (x *Executor) emit(ev Event) {
	if x.options.Trace != nil {
		x.options.Trace(ev)
	}
}

// run is the state of one Execute call.
type run struct {
	ctx   context.Context
	robot Robot
	env   *Environment
	opts  *Options
	start time.Time
	res   Result
}

func (r *run) emit(ev Event) {
	if r.opts.Trace != nil {
		ev.Time = time.Now()
		r.opts.Trace(ev)
	}
}

// checkpoint is the cancellation hook, consulted before every loop
// iteration and every action repetition.
func (r *run) checkpoint(pos rgast.Position, op string) error {
	if err := r.ctx.Err(); err != nil {
		return &RuntimeError{Pos: pos, Op: op, Err: err}
	}
	return nil
}

func (r *run) iterate(pos rgast.Position, op string) error {
	if err := r.checkpoint(pos, op); err != nil {
		return err
	}
	r.res.Iterations++
	if r.opts.MaxIterations > 0 && r.res.Iterations > r.opts.MaxIterations {
		return &RuntimeError{Pos: pos, Op: op, Err: ErrIterationLimit}
	}
	r.emit(Event{Kind: EventIteration, Op: op, Iteration: r.res.Iterations, Pos: pos})
	return nil
}

func (r *run) act(op string, pos rgast.Position, call func() error) error {
	if err := call(); err != nil {
		r.emit(Event{Kind: EventAction, Op: op, Pos: pos, Err: err})
		return &RuntimeError{Pos: pos, Op: op, Err: err}
	}
	r.res.Actions++
	r.emit(Event{Kind: EventAction, Op: op, Pos: pos})
	return nil
}

func (r *run) repeat(op string, pos rgast.Position, count rgast.IntExpr, call func() error) error {
	n, err := r.evalInt(count, op)
	if err != nil {
		return err
	}
	for i := int64(0); i < n; i++ {
		if err := r.checkpoint(pos, op); err != nil {
			return err
		}
		if err := r.act(op, pos, call); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) block(owner rgast.Node, body *rgast.Sequence) error {
	if body == nil {
		return malformed(owner, "block")
	}
	return r.exec(body)
}

func (r *run) exec(stmt rgast.Statement) error {
	r.res.Statements++
	if rgast.IsNil(stmt) {
		return malformed(nil, "statement")
	}

	switch n := stmt.(type) {
	case *rgast.Sequence:
		for _, s := range n.Statements {
			if err := r.exec(s); err != nil {
				return err
			}
		}
		return nil

	case *rgast.Move:
		return r.repeat("move", n.Pos, n.Steps, r.robot.Move)
	case *rgast.Wait:
		return r.repeat("wait", n.Pos, n.Ticks, r.robot.IdleWait)
	case *rgast.TurnLeft:
		return r.act("turnL", n.Pos, r.robot.TurnLeft)
	case *rgast.TurnRight:
		return r.act("turnR", n.Pos, r.robot.TurnRight)
	case *rgast.TurnAround:
		return r.act("turnAround", n.Pos, r.robot.TurnAround)
	case *rgast.TakeFuel:
		return r.act("takeFuel", n.Pos, r.robot.TakeFuel)
	case *rgast.ShieldOn:
		return r.act("shieldOn", n.Pos, func() error { return r.robot.SetShield(true) })
	case *rgast.ShieldOff:
		return r.act("shieldOff", n.Pos, func() error { return r.robot.SetShield(false) })

	case *rgast.Loop:
		for {
			if err := r.iterate(n.Pos, "loop"); err != nil {
				return err
			}
			if err := r.block(n, n.Body); err != nil {
				return err
			}
		}

	case *rgast.While:
		for {
			if err := r.iterate(n.Pos, "while"); err != nil {
				return err
			}
			ok, err := r.evalBool(n.Cond, "while")
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if err := r.block(n, n.Body); err != nil {
				return err
			}
		}

	case *rgast.If:
		ok, err := r.evalBool(n.Cond, "if")
		if err != nil {
			return err
		}
		if ok {
			return r.block(n, n.Then)
		}
		for _, elif := range n.Elifs {
			ok, err := r.evalBool(elif.Cond, "elif")
			if err != nil {
				return err
			}
			if ok {
				return r.block(n, elif.Body)
			}
		}
		if n.Else != nil {
			return r.exec(n.Else)
		}
		return nil

	case *rgast.SetVariable:
		v, err := r.evalInt(n.Value, "assignment")
		if err != nil {
			return err
		}
		r.env.Set(n.Name, v)
		r.emit(Event{Kind: EventAssign, Op: n.Name, Value: v, Pos: n.Pos})
		return nil

	default:
		return malformed(stmt, "statement")
	}
}

func (r *run) evalInt(e rgast.IntExpr, parent string) (int64, error) {
	if rgast.IsNil(e) {
		return 0, malformed(nil, "operand of "+parent)
	}

	switch n := e.(type) {
	case *rgast.Literal:
		return n.Value, nil

	case *rgast.VariableRef:
		return r.env.Get(n.Name), nil

	case *rgast.Sensor:
		return r.sense(n)

	case *rgast.BinaryOp:
		left, err := r.evalInt(n.Left, n.Op.String())
		if err != nil {
			return 0, err
		}
		right, err := r.evalInt(n.Right, n.Op.String())
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case rgast.Add:
			return left + right, nil
		case rgast.Sub:
			return left - right, nil
		case rgast.Mul:
			return left * right, nil
		case rgast.Div:
			if right == 0 {
				return 0, &RuntimeError{Pos: n.Pos, Op: "div", Err: ErrDivisionByZero}
			}
			return left / right, nil
		default:
			return 0, malformed(n, "arithmetic operator")
		}

	default:
		return 0, malformed(e, "operand of "+parent)
	}
}

func (r *run) sense(n *rgast.Sensor) (int64, error) {
	if n.Index != nil && !n.Kind.Indexable() {
		return 0, malformed(n, "sensor index")
	}

	switch n.Kind {
	case rgast.FuelLeft:
		return int64(r.robot.Fuel()), nil
	case rgast.OppLR:
		return int64(r.robot.OpponentLR()), nil
	case rgast.OppFB:
		return int64(r.robot.OpponentFB()), nil
	case rgast.NumBarrels:
		return int64(r.robot.NumBarrels()), nil
	case rgast.WallDist:
		return int64(r.robot.DistanceToWall()), nil
	case rgast.BarrelLR, rgast.BarrelFB:
		if n.Index == nil {
			if n.Kind == rgast.BarrelLR {
				return int64(r.robot.ClosestBarrelLR()), nil
			}
			return int64(r.robot.ClosestBarrelFB()), nil
		}
		idx, err := r.evalInt(n.Index, n.Kind.String())
		if err != nil {
			return 0, err
		}
		if n.Kind == rgast.BarrelLR {
			return int64(r.robot.BarrelLR(clampInt(idx))), nil
		}
		return int64(r.robot.BarrelFB(clampInt(idx))), nil
	default:
		return 0, malformed(n, "sensor")
	}
}

func clampInt(v int64) int {
	if v > math.MaxInt {
		return math.MaxInt
	}
	if v < math.MinInt {
		return math.MinInt
	}
	return int(v)
}

func (r *run) evalBool(e rgast.BoolExpr, parent string) (bool, error) {
	if rgast.IsNil(e) {
		return false, malformed(nil, "condition of "+parent)
	}

	switch n := e.(type) {
	case *rgast.Relational:
		left, err := r.evalInt(n.Left, n.Op.String())
		if err != nil {
			return false, err
		}
		right, err := r.evalInt(n.Right, n.Op.String())
		if err != nil {
			return false, err
		}
		switch n.Op {
		case rgast.Less:
			return left < right, nil
		case rgast.Greater:
			return left > right, nil
		case rgast.Equal:
			return left == right, nil
		default:
			return false, malformed(n, "relational operator")
		}

	case *rgast.Logical:
		left, err := r.evalBool(n.Left, n.Op.String())
		if err != nil {
			return false, err
		}
		right, err := r.evalBool(n.Right, n.Op.String())
		if err != nil {
			return false, err
		}
		switch n.Op {
		case rgast.And:
			return left && right, nil
		case rgast.Or:
			return left || right, nil
		default:
			return false, malformed(n, "logical operator")
		}

	case *rgast.Not:
		v, err := r.evalBool(n.Operand, "not")
		if err != nil {
			return false, err
		}
		return !v, nil

	default:
		return false, malformed(e, "condition of "+parent)
	}
}
