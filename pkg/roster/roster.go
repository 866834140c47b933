package roster

import (
	"fmt"

	"github.com/cbodonnell/sus/pkg/game/constants"
	"github.com/cbodonnell/sus/pkg/game/types"
	"github.com/cbodonnell/sus/pkg/kinematic"
)

// Roster is the ordered, fixed set of actors of one game instance.
type Roster struct {
	players []*types.PlayerState
	byID    map[uint32]*types.PlayerState
	opts    Options
}

type Options struct {
	// RejectCollisions rejects moves that would overlap another living actor's body
	RejectCollisions bool
}

// New creates count actors with IDs 1..count laid out on a grid centred on anchor.
// Missing provider tags default to constants.DefaultProvider.
func New(count int, providers []string, anchor kinematic.Vector, opts Options) *Roster {
	if count < 0 {
		count = 0
	}
	positions := SpawnPositions(anchor, count, constants.SpawnSpread)
	players := make([]*types.PlayerState, 0, count)
	for i := 0; i < count; i++ {
		provider := constants.DefaultProvider
		if i < len(providers) && providers[i] != "" {
			provider = providers[i]
		}
		color := constants.PlayerColors[i%len(constants.PlayerColors)]
		players = append(players, types.NewPlayerState(uint32(i+1), positions[i], provider, color))
	}
	r, _ := FromPlayers(opts, players...)
	return r
}

// FromPlayers builds a roster from existing actors, for hosts with their own spawn logic.
// IDs must be unique and non-zero, since 0 is reserved for skip votes.
func FromPlayers(opts Options, players ...*types.PlayerState) (*Roster, error) {
	r := &Roster{
		players: make([]*types.PlayerState, 0, len(players)),
		byID:    make(map[uint32]*types.PlayerState, len(players)),
		opts:    opts,
	}
	for _, p := range players {
		if p.ID == constants.SkipVote {
			return nil, fmt.Errorf("player ID %d is reserved", p.ID)
		}
		if _, ok := r.byID[p.ID]; ok {
			return nil, fmt.Errorf("duplicate player ID %d", p.ID)
		}
		r.players = append(r.players, p)
		r.byID[p.ID] = p
	}
	return r, nil
}

// SpawnPositions lays out count points row-major with min(count, 4) columns,
// spread apart and centred on anchor.
func SpawnPositions(anchor kinematic.Vector, count int, spread float64) []kinematic.Vector {
	if count <= 0 {
		return nil
	}
	cols := constants.SpawnColumns
	if count < cols {
		cols = count
	}
	rows := (count + cols - 1) / cols

	startX := anchor.X - float64(cols-1)*spread/2
	startY := anchor.Y - float64(rows-1)*spread/2

	positions := make([]kinematic.Vector, 0, count)
	for i := 0; i < count; i++ {
		row := i / cols
		col := i % cols
		positions = append(positions, kinematic.Vector{
			X: startX + float64(col)*spread,
			Y: startY + float64(row)*spread,
		})
	}
	return positions
}

func (r *Roster) Len() int {
	return len(r.players)
}

// Players returns every actor in roster order.
func (r *Roster) Players() []*types.PlayerState {
	out := make([]*types.PlayerState, len(r.players))
	copy(out, r.players)
	return out
}

func (r *Roster) Lookup(id uint32) (*types.PlayerState, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Alive returns the living actors in roster order.
func (r *Roster) Alive() []*types.PlayerState {
	alive := make([]*types.PlayerState, 0, len(r.players))
	for _, p := range r.players {
		if p.IsAlive() {
			alive = append(alive, p)
		}
	}
	return alive
}

// InRegion returns the actors whose position resolves to region.
func (r *Roster) InRegion(region types.Region, oracle types.LocationOracle) []*types.PlayerState {
	var out []*types.PlayerState
	for _, p := range r.players {
		pos := p.Position()
		if current, ok := oracle.RegionAt(pos.X, pos.Y); ok && current == region {
			out = append(out, p)
		}
	}
	return out
}

// Within returns the other living actors at most radius away from player.
func (r *Roster) Within(player *types.PlayerState, radius float64) []*types.PlayerState {
	var out []*types.PlayerState
	for _, other := range r.players {
		if other.ID == player.ID || !other.IsAlive() {
			continue
		}
		if player.DistanceTo(other) <= radius {
			out = append(out, other)
		}
	}
	return out
}

// Move steps an actor in a direction. Unknown actors and blocked moves report false.
func (r *Roster) Move(id uint32, direction types.Direction, oracle types.LocationOracle) bool {
	p, ok := r.byID[id]
	if !ok {
		return false
	}
	return p.Move(direction, r.guard(p, oracle))
}

// MoveTowards steps an actor towards a target point.
func (r *Roster) MoveTowards(id uint32, target kinematic.Vector, oracle types.LocationOracle) bool {
	p, ok := r.byID[id]
	if !ok {
		return false
	}
	return p.MoveTowards(target, r.guard(p, oracle))
}

func (r *Roster) guard(p *types.PlayerState, oracle types.LocationOracle) types.LocationOracle {
	if !r.opts.RejectCollisions {
		return oracle
	}
	return &collisionGuard{LocationOracle: oracle, roster: r, self: p}
}

// collisionGuard wraps an oracle so that points overlapping another
// living actor's body are not walkable for self.
type collisionGuard struct {
	types.LocationOracle
	roster *Roster
	self   *types.PlayerState
}

func (g *collisionGuard) IsWalkable(x, y float64) bool {
	if !g.LocationOracle.IsWalkable(x, y) {
		return false
	}
	return !g.roster.Collides(g.self, kinematic.Vector{X: x, Y: y})
}

// Collides reports whether player standing at point would overlap another living actor.
func (r *Roster) Collides(player *types.PlayerState, point kinematic.Vector) bool {
	for _, other := range r.players {
		if other.ID == player.ID || !other.IsAlive() {
			continue
		}
		if other.DistanceToPoint(point) < 2*constants.PlayerRadius {
			return true
		}
	}
	return false
}
