package arena

import (
	"context"

	rgexecutor "github.com/msto63/robogame/foundation/script/executor"
)

var (
	_ rgexecutor.Robot = (*Controller)(nil)
	_ rgexecutor.Robot = (*DirectRobot)(nil)
)

// Request is an action waiting to be applied by the match loop.
type Request struct {
	Robot  int
	Action Action
	done   chan error
}

// Complete hands the outcome of the action back to the waiting robot. It
// must be called exactly once per request.
func (r Request) Complete(err error) {
	r.done <- err
}

// Controller is the robot seen by a script during a match. Actions block
// until the match loop applies them or ctx is done; sensors read the world
// directly.
type Controller struct {
	world    *World
	id       int
	ctx      context.Context
	requests chan<- Request
}

// Controller returns the robot for id whose actions are sent to requests.
func (w *World) Controller(ctx context.Context, id int, requests chan<- Request) *Controller {
	return &Controller{world: w, id: id, ctx: ctx, requests: requests}
}

func (c *Controller) do(a Action) error {
	req := Request{Robot: c.id, Action: a, done: make(chan error, 1)}
	select {
	case c.requests <- req:
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
	select {
	case err := <-req.done:
		return err
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

func (c *Controller) Move() error       { return c.do(ActionMove) }
func (c *Controller) TurnLeft() error   { return c.do(ActionTurnLeft) }
func (c *Controller) TurnRight() error  { return c.do(ActionTurnRight) }
func (c *Controller) TurnAround() error { return c.do(ActionTurnAround) }
func (c *Controller) TakeFuel() error   { return c.do(ActionTakeFuel) }
func (c *Controller) IdleWait() error   { return c.do(ActionWait) }

func (c *Controller) SetShield(on bool) error {
	if on {
		return c.do(ActionShieldOn)
	}
	return c.do(ActionShieldOff)
}

func (c *Controller) Fuel() int            { return c.world.Fuel(c.id) }
func (c *Controller) NumBarrels() int      { return c.world.NumBarrels() }
func (c *Controller) DistanceToWall() int  { return c.world.WallDistance(c.id) }
func (c *Controller) ClosestBarrelLR() int { return c.BarrelLR(0) }
func (c *Controller) ClosestBarrelFB() int { return c.BarrelFB(0) }

func (c *Controller) OpponentLR() int {
	lr, _ := c.world.Opponent(c.id)
	return lr
}

func (c *Controller) OpponentFB() int {
	_, fb := c.world.Opponent(c.id)
	return fb
}

func (c *Controller) BarrelLR(i int) int {
	lr, _, _ := c.world.Barrel(c.id, i)
	return lr
}

func (c *Controller) BarrelFB(i int) int {
	_, fb, _ := c.world.Barrel(c.id, i)
	return fb
}

// DirectRobot applies every action immediately, one action per tick. It
// suits single robot sessions without a match loop.
type DirectRobot struct {
	Controller
}

// Direct returns a robot for id that drives the world by itself.
func (w *World) Direct(id int) *DirectRobot {
	return &DirectRobot{Controller{world: w, id: id}}
}

func (d *DirectRobot) do(a Action) error {
	err := d.world.Apply(d.id, a)
	d.world.EndTick()
	return err
}

func (d *DirectRobot) Move() error       { return d.do(ActionMove) }
func (d *DirectRobot) TurnLeft() error   { return d.do(ActionTurnLeft) }
func (d *DirectRobot) TurnRight() error  { return d.do(ActionTurnRight) }
func (d *DirectRobot) TurnAround() error { return d.do(ActionTurnAround) }
func (d *DirectRobot) TakeFuel() error   { return d.do(ActionTakeFuel) }
func (d *DirectRobot) IdleWait() error   { return d.do(ActionWait) }

func (d *DirectRobot) SetShield(on bool) error {
	if on {
		return d.do(ActionShieldOn)
	}
	return d.do(ActionShieldOff)
}
