// File: robot.go
// Title: Robot Boundary
// Description: The interface through which scripts act on and observe the
//              game world.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-30
// Modified: 2026-09-30
//
// Change History:
// - 2026-09-30 v0.1.0: Initial definition

package executor

// Robot is implemented by the game host. Actuators may block until the
// world has applied the action; a non-nil error stops the script and is
// returned from Execute wrapped in a *RuntimeError.
//
// Sensor offsets are relative to the robot's heading: LR is positive to the
// right, FB is positive ahead.
type Robot interface {
	Move() error
	TurnLeft() error
	TurnRight() error
	TurnAround() error
	TakeFuel() error
	IdleWait() error
	SetShield(on bool) error

	Fuel() int
	OpponentLR() int
	OpponentFB() int
	NumBarrels() int
	ClosestBarrelLR() int
	ClosestBarrelFB() int
	// BarrelLR and BarrelFB address barrels ordered by distance, 0 being
	// the closest.
	BarrelLR(index int) int
	BarrelFB(index int) int
	DistanceToWall() int
}
