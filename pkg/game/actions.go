package game

import (
	"github.com/cbodonnell/sus/pkg/game/types"
)

// Apply validates one (actor, action) pair against the current phase and
// liveness and applies it. Unknown actors and illegal actions are dropped.
func (m *Machine) Apply(action types.Action, oracle types.LocationOracle) bool {
	if m.roster == nil {
		return false
	}
	if _, ok := m.roster.Lookup(action.Actor()); !ok {
		m.logger.Debug("Dropping %s from unknown player %d", action.Type(), action.Actor())
		return false
	}

	var applied bool
	switch a := action.(type) {
	case *types.MoveAction:
		if a.Target != nil {
			applied = m.MoveTowards(a.PlayerID, *a.Target, oracle)
		} else {
			applied = m.Move(a.PlayerID, a.Direction, oracle)
		}
	case *types.CallMeetingAction:
		applied = m.CallMeeting(a.PlayerID)
	case *types.CastVoteAction:
		applied = m.CastVote(a.PlayerID, a.TargetID)
	case *types.AdvancePhaseAction:
		if _, ok := m.living(a.PlayerID); !ok {
			break
		}
		applied = m.AdvancePhase()
	case *types.KillAction:
		applied = m.Kill(a.PlayerID, a.TargetID)
	default:
		m.logger.Warn("Unknown action type: %T", action)
		return false
	}

	if !applied {
		m.logger.Trace("Ignored %s from player %d in phase %s", action.Type(), action.Actor(), m.state.Phase)
	}
	return applied
}

// AdvancePhase opens voting from Discussion, or closes voting from Voting.
// It does nothing in any other phase.
func (m *Machine) AdvancePhase() bool {
	switch m.state.Phase {
	case types.PhaseDiscussion:
		return m.OpenVoting()
	case types.PhaseVoting:
		m.CloseVoting()
		return true
	default:
		return false
	}
}
