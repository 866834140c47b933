package types

import "sort"

type GameState struct {
	// Phase is the current state machine phase
	Phase Phase
	// Round starts at 1 and increments after every completed vote
	Round int
	// ImpostorCount is fixed when the game starts
	ImpostorCount int
	// Winner is RoleUnassigned until the game is over
	Winner Role
	// WinReason is set together with Winner
	WinReason WinReason
	// Votes maps voter IDs to target IDs, where 0 is a skip
	Votes map[uint32]uint32
	// Roles maps actor IDs to their assigned role
	Roles map[uint32]Role
	// MeetingCallerID is the actor that called the current meeting
	MeetingCallerID uint32
}

func NewGameState() *GameState {
	return &GameState{
		Phase: PhaseLobby,
		Votes: make(map[uint32]uint32),
		Roles: make(map[uint32]Role),
	}
}

// IsOver reports whether a winner has been decided.
func (g *GameState) IsOver() bool {
	return g.Phase == PhaseGameOver
}

// Impostors returns the sorted IDs of every impostor, dead or alive.
func (g *GameState) Impostors() []uint32 {
	return g.idsWithRole(RoleImpostor)
}

// Crew returns the sorted IDs of every crewmate, dead or alive.
func (g *GameState) Crew() []uint32 {
	return g.idsWithRole(RoleCrew)
}

func (g *GameState) idsWithRole(role Role) []uint32 {
	ids := make([]uint32, 0, len(g.Roles))
	for id, r := range g.Roles {
		if r == role {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (g *GameState) Copy() *GameState {
	c := *g
	c.Votes = make(map[uint32]uint32, len(g.Votes))
	for k, v := range g.Votes {
		c.Votes[k] = v
	}
	c.Roles = make(map[uint32]Role, len(g.Roles))
	for k, v := range g.Roles {
		c.Roles[k] = v
	}
	return &c
}
