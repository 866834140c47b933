package types

import (
	"github.com/cbodonnell/sus/pkg/game/constants"
	"github.com/cbodonnell/sus/pkg/kinematic"
)

// Observation is what one actor is allowed to know at one instant.
// It is rebuilt on every request and never stored by the engine.
type Observation struct {
	Self            SelfObservation `json:"self"`
	Location        string          `json:"location"`
	VisiblePlayers  []VisiblePlayer `json:"visible_players"`
	FellowImpostors []uint32        `json:"fellow_impostors,omitempty"`
	Phase           Phase           `json:"phase"`
	Round           int             `json:"round"`
}

type SelfObservation struct {
	ID       uint32           `json:"id"`
	Role     Role             `json:"role"`
	Alive    bool             `json:"alive"`
	Position kinematic.Vector `json:"position"`
}

// VisiblePlayer describes another actor in view.
// Role is nil unless the observer is entitled to know it.
type VisiblePlayer struct {
	ID       uint32          `json:"id"`
	Alive    bool            `json:"alive"`
	Provider string          `json:"provider"`
	Color    constants.Color `json:"color"`
	Location string          `json:"location"`
	Role     *Role           `json:"role,omitempty"`
}

// VisibleIDs returns the IDs of the visible players in order.
func (o *Observation) VisibleIDs() []uint32 {
	ids := make([]uint32, 0, len(o.VisiblePlayers))
	for _, vp := range o.VisiblePlayers {
		ids = append(ids, vp.ID)
	}
	return ids
}

// AgentObservation is the compact view handed to agent prompts.
type AgentObservation struct {
	You             AgentSelf          `json:"you"`
	VisiblePlayers  []AgentVisibleInfo `json:"visible_players"`
	GamePhase       Phase              `json:"game_phase"`
	Round           int                `json:"round"`
	FellowImpostors []uint32           `json:"fellow_impostors,omitempty"`
}

type AgentSelf struct {
	ID          uint32 `json:"id"`
	Role        Role   `json:"role"`
	Alive       bool   `json:"alive"`
	CurrentRoom string `json:"current_room"`
}

type AgentVisibleInfo struct {
	ID       uint32 `json:"id"`
	Location string `json:"location"`
	Alive    bool   `json:"alive"`
}

// StateSummary is the public, role-free summary of a game.
type StateSummary struct {
	Phase          Phase     `json:"phase"`
	Round          int       `json:"round"`
	AlivePlayers   int       `json:"alive_players"`
	AliveImpostors int       `json:"alive_impostors"`
	AliveCrew      int       `json:"alive_crewmates"`
	Winner         Role      `json:"winner"`
	WinReason      WinReason `json:"win_reason"`
}

// Snapshot is the committed, read-only result of one tick.
type Snapshot struct {
	Tick         uint64                  `json:"tick"`
	Summary      StateSummary            `json:"summary"`
	Observations map[uint32]*Observation `json:"observations"`
}
