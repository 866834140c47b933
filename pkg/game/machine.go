package game

import (
	"fmt"
	"math/rand"

	"github.com/cbodonnell/sus/pkg/game/constants"
	"github.com/cbodonnell/sus/pkg/game/types"
	"github.com/cbodonnell/sus/pkg/kinematic"
	"github.com/cbodonnell/sus/pkg/log"
	"github.com/cbodonnell/sus/pkg/roster"
)

// Machine owns the phase, round, votes and role assignment of one game.
// It is not safe for concurrent use; the GameManager serializes access on its tick.
type Machine struct {
	roster *roster.Roster
	state  *types.GameState
	rng    *rand.Rand
	logger *log.Logger
}

type StartOptions struct {
	// ImpostorCount is the requested number of impostors. Zero picks a default from the roster size.
	ImpostorCount int
}

func NewMachine(rng *rand.Rand) *Machine {
	return &Machine{
		state:  types.NewGameState(),
		rng:    rng,
		logger: log.With("component", "machine"),
	}
}

// ImpostorCountFor resolves the number of impostors for a roster of n actors.
// A requested count of 0 means automatic; explicit counts are clamped to n/3.
func ImpostorCountFor(n int, requested int) (int, error) {
	if requested < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidImpostorCount, requested)
	}
	if requested == 0 {
		if n <= constants.SmallRosterMaxPlayers {
			return constants.SmallRosterImpostors, nil
		}
		return constants.LargeRosterImpostors, nil
	}
	limit := n / constants.ImpostorRatio
	if requested > limit {
		return limit, nil
	}
	return requested, nil
}

// Start assigns roles from a seeded shuffle of the roster and enters Playing at round 1.
func (m *Machine) Start(r *roster.Roster, opts StartOptions) error {
	if !allowed(m.state.Phase, opStart) {
		return ErrAlreadyStarted
	}
	if r == nil {
		return ErrNoRoster
	}
	if r.Len() < constants.MinPlayers {
		return fmt.Errorf("%w: have %d, need at least %d", ErrInsufficientPlayers, r.Len(), constants.MinPlayers)
	}

	count, err := ImpostorCountFor(r.Len(), opts.ImpostorCount)
	if err != nil {
		return err
	}

	players := r.Players()
	for _, p := range players {
		if p.Role() != types.RoleUnassigned {
			return fmt.Errorf("player %d already has role %s", p.ID, p.Role())
		}
	}
	m.rng.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})

	for i, p := range players {
		role := types.RoleCrew
		if i < count {
			role = types.RoleImpostor
		}
		p.AssignRole(role)
		m.state.Roles[p.ID] = role
	}

	m.roster = r
	m.state.ImpostorCount = count
	m.state.Phase = types.PhasePlaying
	m.state.Round = 1

	m.logger.Info("Game started with %d players and %d impostors", r.Len(), count)
	m.logger.Debug("Impostors: %v", m.state.Impostors())
	return nil
}

// CallMeeting moves Playing to Discussion. The caller must be a living actor.
func (m *Machine) CallMeeting(callerID uint32) bool {
	if !allowed(m.state.Phase, opCallMeeting) {
		return false
	}
	if _, ok := m.living(callerID); !ok {
		return false
	}
	m.state.Phase = types.PhaseDiscussion
	m.state.MeetingCallerID = callerID
	m.logger.Info("Player %d called a meeting in round %d", callerID, m.state.Round)
	return true
}

// OpenVoting moves Discussion to Voting with an empty ledger.
func (m *Machine) OpenVoting() bool {
	if !allowed(m.state.Phase, opOpenVoting) {
		return false
	}
	m.state.Phase = types.PhaseVoting
	m.state.Votes = make(map[uint32]uint32)
	m.logger.Debug("Voting opened in round %d", m.state.Round)
	return true
}

// CastVote records, or replaces, a living voter's vote. A target of 0 skips.
func (m *Machine) CastVote(voterID, targetID uint32) bool {
	if !allowed(m.state.Phase, opCastVote) {
		return false
	}
	if _, ok := m.living(voterID); !ok {
		return false
	}
	m.state.Votes[voterID] = targetID
	m.logger.Debug("Player %d voted for %d", voterID, targetID)
	return true
}

// CloseVoting tallies the ledger, ejects the unique plurality target if there is one,
// and returns to Playing with the next round unless the game ended.
func (m *Machine) CloseVoting() (uint32, bool) {
	if !allowed(m.state.Phase, opCloseVoting) {
		return 0, false
	}

	tally := TallyVotes(m.state.Votes)
	m.state.Votes = make(map[uint32]uint32)

	var ejected uint32
	var ok bool
	if tally.HasEjected {
		if p, living := m.living(tally.Ejected); living {
			p.Kill()
			ejected, ok = p.ID, true
			m.logger.Info("Player %d was ejected with %d votes", p.ID, tally.Counts[p.ID])
		}
	}
	if !ok {
		m.logger.Info("No one was ejected in round %d", m.state.Round)
	}

	m.state.MeetingCallerID = 0
	if m.CheckWinConditions() {
		return ejected, ok
	}
	m.state.Phase = types.PhasePlaying
	m.state.Round++
	return ejected, ok
}

// CheckWinConditions ends the game when impostors reach parity with the crew,
// or when no impostor is left alive. It is idempotent.
func (m *Machine) CheckWinConditions() bool {
	switch m.state.Phase {
	case types.PhaseGameOver:
		return true
	case types.PhaseLobby:
		return false
	}

	impostors, crew := m.aliveCounts()
	switch {
	case impostors >= crew:
		m.end(types.RoleImpostor, types.WinReasonCrewEliminated)
	case impostors == 0:
		m.end(types.RoleCrew, types.WinReasonImpostorsEjected)
	default:
		return false
	}
	return true
}

func (m *Machine) end(winner types.Role, reason types.WinReason) {
	m.state.Phase = types.PhaseGameOver
	m.state.Winner = winner
	m.state.WinReason = reason
	m.state.Votes = make(map[uint32]uint32)
	m.logger.Info("Game over: %s win, %s", winner, reason)
}

// Kill lets a living impostor kill a living crewmate within constants.KillRange.
func (m *Machine) Kill(killerID, targetID uint32) bool {
	if !allowed(m.state.Phase, opKill) || killerID == targetID {
		return false
	}
	killer, ok := m.living(killerID)
	if !ok || m.state.Roles[killerID] != types.RoleImpostor {
		return false
	}
	target, ok := m.living(targetID)
	if !ok || m.state.Roles[targetID] == types.RoleImpostor {
		return false
	}
	if killer.DistanceTo(target) > constants.KillRange {
		return false
	}

	target.Kill()
	m.logger.Info("Player %d was killed", targetID)
	m.CheckWinConditions()
	return true
}

// Eliminate marks an actor dead on behalf of the host, then checks win conditions.
func (m *Machine) Eliminate(id uint32) bool {
	if !allowed(m.state.Phase, opEliminate) {
		return false
	}
	p, ok := m.living(id)
	if !ok {
		return false
	}
	p.Kill()
	delete(m.state.Votes, id)
	m.logger.Info("Player %d was eliminated", id)
	m.CheckWinConditions()
	return true
}

// Move steps a living actor during Playing.
func (m *Machine) Move(id uint32, direction types.Direction, oracle types.LocationOracle) bool {
	if !allowed(m.state.Phase, opMove) {
		return false
	}
	return m.roster.Move(id, direction, oracle)
}

// MoveTowards steps a living actor towards target during Playing.
func (m *Machine) MoveTowards(id uint32, target kinematic.Vector, oracle types.LocationOracle) bool {
	if !allowed(m.state.Phase, opMove) {
		return false
	}
	return m.roster.MoveTowards(id, target, oracle)
}

func (m *Machine) living(id uint32) (*types.PlayerState, bool) {
	if m.roster == nil {
		return nil, false
	}
	p, ok := m.roster.Lookup(id)
	if !ok || !p.IsAlive() {
		return nil, false
	}
	return p, true
}

func (m *Machine) aliveCounts() (impostors, crew int) {
	if m.roster == nil {
		return 0, 0
	}
	for _, p := range m.roster.Alive() {
		switch m.state.Roles[p.ID] {
		case types.RoleImpostor:
			impostors++
		case types.RoleCrew:
			crew++
		}
	}
	return impostors, crew
}

func (m *Machine) Phase() types.Phase {
	return m.state.Phase
}

func (m *Machine) Round() int {
	return m.state.Round
}

// Impostors returns every impostor ID, dead or alive.
func (m *Machine) Impostors() []uint32 {
	return m.state.Impostors()
}

func (m *Machine) IsOver() bool {
	return m.state.IsOver()
}

func (m *Machine) Roster() *roster.Roster {
	return m.roster
}

// State returns a copy of the game state.
func (m *Machine) State() *types.GameState {
	return m.state.Copy()
}

// Summary returns the role-free public summary.
func (m *Machine) Summary() types.StateSummary {
	impostors, crew := m.aliveCounts()
	return types.StateSummary{
		Phase:          m.state.Phase,
		Round:          m.state.Round,
		AlivePlayers:   impostors + crew,
		AliveImpostors: impostors,
		AliveCrew:      crew,
		Winner:         m.state.Winner,
		WinReason:      m.state.WinReason,
	}
}
