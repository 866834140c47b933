package types

import "github.com/cbodonnell/sus/pkg/kinematic"

// ActionType identifies an intended actor action arriving from a driver.
type ActionType uint8

const (
	ActionTypeMove ActionType = iota
	ActionTypeCallMeeting
	ActionTypeCastVote
	ActionTypeAdvancePhase
	ActionTypeKill
)

func (a ActionType) String() string {
	switch a {
	case ActionTypeMove:
		return "move"
	case ActionTypeCallMeeting:
		return "call_meeting"
	case ActionTypeCastVote:
		return "cast_vote"
	case ActionTypeAdvancePhase:
		return "advance_phase"
	case ActionTypeKill:
		return "kill"
	default:
		return "unknown"
	}
}

// Action is one (actor, action) pair submitted for the next tick.
type Action interface {
	Actor() uint32
	Type() ActionType
}

// MoveAction moves an actor either one step in Direction,
// or one step towards Target when Target is set.
type MoveAction struct {
	PlayerID  uint32
	Direction Direction
	Target    *kinematic.Vector
}

func (a *MoveAction) Actor() uint32    { return a.PlayerID }
func (a *MoveAction) Type() ActionType { return ActionTypeMove }

type CallMeetingAction struct {
	PlayerID uint32
}

func (a *CallMeetingAction) Actor() uint32    { return a.PlayerID }
func (a *CallMeetingAction) Type() ActionType { return ActionTypeCallMeeting }

// CastVoteAction votes for TargetID. A TargetID of 0 skips.
type CastVoteAction struct {
	PlayerID uint32
	TargetID uint32
}

func (a *CastVoteAction) Actor() uint32    { return a.PlayerID }
func (a *CastVoteAction) Type() ActionType { return ActionTypeCastVote }

// AdvancePhaseAction opens voting from discussion, or closes voting.
type AdvancePhaseAction struct {
	PlayerID uint32
}

func (a *AdvancePhaseAction) Actor() uint32    { return a.PlayerID }
func (a *AdvancePhaseAction) Type() ActionType { return ActionTypeAdvancePhase }

type KillAction struct {
	PlayerID uint32
	TargetID uint32
}

func (a *KillAction) Actor() uint32    { return a.PlayerID }
func (a *KillAction) Type() ActionType { return ActionTypeKill }
