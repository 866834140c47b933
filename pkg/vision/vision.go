package vision

import (
	"github.com/cbodonnell/sus/pkg/game/constants"
	"github.com/cbodonnell/sus/pkg/game/types"
	"github.com/cbodonnell/sus/pkg/roster"
)

// GameReader is the read-only view of the state machine the engine needs.
type GameReader interface {
	Phase() types.Phase
	Round() int
	Impostors() []uint32
}

// Engine derives per-actor observations. It holds no state of its own;
// every observation is computed on demand from the roster and the game.
type Engine struct {
	roster *roster.Roster
	oracle types.LocationOracle
	game   GameReader
}

func NewEngine(r *roster.Roster, oracle types.LocationOracle, game GameReader) *Engine {
	return &Engine{
		roster: r,
		oracle: oracle,
		game:   game,
	}
}

// VisionRadius returns how far a living actor can see.
func VisionRadius(p *types.PlayerState) float64 {
	if p.IsImpostor() {
		return constants.VisionRadiusImpostor
	}
	return constants.VisionRadiusCrew
}

// canSee is the single visibility predicate. Ghosts see everyone, the living see
// the living within their radius, and every corpse is visible to everyone.
func canSee(observer, target *types.PlayerState) bool {
	if observer.ID == target.ID {
		return false
	}
	if !observer.IsAlive() || !target.IsAlive() {
		return true
	}
	return observer.DistanceTo(target) <= VisionRadius(observer)
}

// canSeeRole reports whether observer may learn target's role.
func canSeeRole(observer, target *types.PlayerState) bool {
	return observer.IsAlive() && observer.IsImpostor() && target.IsImpostor()
}

// IsVisible reports whether observer currently sees target.
func (e *Engine) IsVisible(observer, target *types.PlayerState) bool {
	return canSee(observer, target)
}

// VisiblePlayers returns the actors observer can see, in roster order.
func (e *Engine) VisiblePlayers(observer *types.PlayerState) []*types.PlayerState {
	var out []*types.PlayerState
	for _, target := range e.roster.Players() {
		if canSee(observer, target) {
			out = append(out, target)
		}
	}
	return out
}

// BuildObservation snapshots everything observer is entitled to know.
func (e *Engine) BuildObservation(observer *types.PlayerState) *types.Observation {
	obs := &types.Observation{
		Self: types.SelfObservation{
			ID:       observer.ID,
			Role:     observer.Role(),
			Alive:    observer.IsAlive(),
			Position: observer.Position(),
		},
		Location:       e.location(observer),
		VisiblePlayers: make([]types.VisiblePlayer, 0),
		Phase:          e.game.Phase(),
		Round:          e.game.Round(),
	}

	for _, target := range e.VisiblePlayers(observer) {
		vp := types.VisiblePlayer{
			ID:       target.ID,
			Alive:    target.IsAlive(),
			Provider: target.Provider,
			Color:    target.Color,
			Location: e.location(target),
		}
		if canSeeRole(observer, target) {
			role := target.Role()
			vp.Role = &role
		}
		obs.VisiblePlayers = append(obs.VisiblePlayers, vp)
	}

	if observer.IsImpostor() {
		for _, id := range e.game.Impostors() {
			if id != observer.ID {
				obs.FellowImpostors = append(obs.FellowImpostors, id)
			}
		}
	}

	return obs
}

// Observation builds the observation for an actor by ID.
func (e *Engine) Observation(id uint32) (*types.Observation, bool) {
	p, ok := e.roster.Lookup(id)
	if !ok {
		return nil, false
	}
	return e.BuildObservation(p), true
}

// Observations builds the observation of every actor.
func (e *Engine) Observations() map[uint32]*types.Observation {
	out := make(map[uint32]*types.Observation, e.roster.Len())
	for _, p := range e.roster.Players() {
		out[p.ID] = e.BuildObservation(p)
	}
	return out
}

// BuildAgentObservation builds the compact agent view for observer.
func (e *Engine) BuildAgentObservation(observer *types.PlayerState) *types.AgentObservation {
	return ToAgentObservation(e.BuildObservation(observer))
}

// ToAgentObservation reduces a full observation to the agent view.
func ToAgentObservation(obs *types.Observation) *types.AgentObservation {
	agent := &types.AgentObservation{
		You: types.AgentSelf{
			ID:          obs.Self.ID,
			Role:        obs.Self.Role,
			Alive:       obs.Self.Alive,
			CurrentRoom: obs.Location,
		},
		VisiblePlayers: make([]types.AgentVisibleInfo, 0, len(obs.VisiblePlayers)),
		GamePhase:      obs.Phase,
		Round:          obs.Round,
	}
	for _, vp := range obs.VisiblePlayers {
		agent.VisiblePlayers = append(agent.VisiblePlayers, types.AgentVisibleInfo{
			ID:       vp.ID,
			Location: vp.Location,
			Alive:    vp.Alive,
		})
	}
	if len(obs.FellowImpostors) > 0 {
		agent.FellowImpostors = append([]uint32(nil), obs.FellowImpostors...)
	}
	return agent
}

func (e *Engine) location(p *types.PlayerState) string {
	pos := p.Position()
	region, ok := e.oracle.RegionAt(pos.X, pos.Y)
	if !ok || region == types.RegionNone {
		return constants.InTransitLabel
	}
	return string(region)
}
