package game

import "github.com/cbodonnell/sus/pkg/game/types"

type operation uint8

const (
	opStart operation = iota
	opMove
	opKill
	opCallMeeting
	opOpenVoting
	opCastVote
	opCloseVoting
	opEliminate
)

func (o operation) String() string {
	switch o {
	case opStart:
		return "start"
	case opMove:
		return "move"
	case opKill:
		return "kill"
	case opCallMeeting:
		return "call_meeting"
	case opOpenVoting:
		return "open_voting"
	case opCastVote:
		return "cast_vote"
	case opCloseVoting:
		return "close_voting"
	case opEliminate:
		return "eliminate"
	default:
		return "unknown"
	}
}

// transitionGuards lists, per phase, the operations that are applied.
// Anything missing from a phase's set is ignored.
var transitionGuards = map[types.Phase]map[operation]bool{
	types.PhaseLobby: {
		opStart: true,
	},
	types.PhasePlaying: {
		opMove:        true,
		opKill:        true,
		opCallMeeting: true,
		opEliminate:   true,
	},
	types.PhaseDiscussion: {
		opOpenVoting: true,
		opEliminate:  true,
	},
	types.PhaseVoting: {
		opCastVote:    true,
		opCloseVoting: true,
		opEliminate:   true,
	},
	types.PhaseGameOver: {},
}

func allowed(phase types.Phase, op operation) bool {
	return transitionGuards[phase][op]
}
