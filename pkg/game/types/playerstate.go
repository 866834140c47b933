package types

import (
	"github.com/cbodonnell/sus/pkg/game/constants"
	"github.com/cbodonnell/sus/pkg/kinematic"
)

// Direction is a single-axis movement input.
type Direction uint8

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "none"
	}
}

// PlayerState is one actor of the roster.
// Position, liveness and role are only mutated through the methods below.
type PlayerState struct {
	ID       uint32
	Provider string
	Color    constants.Color

	position kinematic.Vector
	dead     bool
	role     Role
}

func NewPlayerState(id uint32, position kinematic.Vector, provider string, color constants.Color) *PlayerState {
	return &PlayerState{
		ID:       id,
		Provider: provider,
		Color:    color,
		position: position,
	}
}

func (p *PlayerState) Position() kinematic.Vector {
	return p.position
}

func (p *PlayerState) IsAlive() bool {
	return !p.dead
}

// Kill marks the actor dead. It returns false if the actor was already dead.
func (p *PlayerState) Kill() bool {
	if p.dead {
		return false
	}
	p.dead = true
	return true
}

func (p *PlayerState) Role() Role {
	return p.role
}

func (p *PlayerState) IsImpostor() bool {
	return p.role == RoleImpostor
}

// AssignRole sets the role once. Later calls, or assigning RoleUnassigned, are rejected.
func (p *PlayerState) AssignRole(role Role) bool {
	if p.role != RoleUnassigned || role == RoleUnassigned {
		return false
	}
	p.role = role
	return true
}

func (p *PlayerState) DistanceTo(other *PlayerState) float64 {
	return kinematic.Distance(p.position, other.position)
}

func (p *PlayerState) DistanceToPoint(point kinematic.Vector) float64 {
	return kinematic.Distance(p.position, point)
}

// Move steps the actor one speed unit along an axis.
// It returns true if the actor moved.
func (p *PlayerState) Move(direction Direction, oracle LocationOracle) bool {
	if p.dead {
		return false
	}

	next := p.position
	switch direction {
	case DirectionUp:
		next.Y -= constants.PlayerSpeed
	case DirectionDown:
		next.Y += constants.PlayerSpeed
	case DirectionLeft:
		next.X -= constants.PlayerSpeed
	case DirectionRight:
		next.X += constants.PlayerSpeed
	default:
		return false
	}

	return p.commit(next, oracle)
}

// MoveTowards steps the actor one speed unit towards the target point.
// Nothing happens once the actor is within one step of the target.
func (p *PlayerState) MoveTowards(target kinematic.Vector, oracle LocationOracle) bool {
	if p.dead {
		return false
	}

	next, ok := kinematic.Step(p.position, target, constants.PlayerSpeed)
	if !ok {
		return false
	}

	return p.commit(next, oracle)
}

func (p *PlayerState) commit(next kinematic.Vector, oracle LocationOracle) bool {
	if !oracle.IsWalkable(next.X, next.Y) {
		return false
	}
	p.position = next
	return true
}

// Copy returns a detached copy of the actor.
func (p *PlayerState) Copy() *PlayerState {
	c := *p
	return &c
}
