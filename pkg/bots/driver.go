package bots

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/cbodonnell/sus/pkg/game/constants"
	"github.com/cbodonnell/sus/pkg/game/types"
	"github.com/cbodonnell/sus/pkg/kinematic"
	"github.com/cbodonnell/sus/pkg/log"
	"github.com/cbodonnell/sus/pkg/queue"
)

// Options tune the scripted behaviour. Chances are per observation, in [0, 1].
type Options struct {
	KillChance    float64
	MeetingChance float64
	SkipChance    float64
	TurnChance    float64
	// AdvanceAfter is how many ticks a meeting phase runs before a bot advances it.
	// Zero leaves advancing to the host.
	AdvanceAfter uint64
}

func DefaultOptions() Options {
	return Options{
		KillChance:    0.2,
		MeetingChance: 0.5,
		SkipChance:    0.2,
		TurnChance:    0.1,
		AdvanceAfter:  20,
	}
}

// Driver is a scripted driver for every actor. It reads only the observations
// it is handed and submits actions to the action queue, like any other driver.
type Driver struct {
	actionQueue queue.Queue
	rng         *rand.Rand
	opts        Options
	waypoints   []kinematic.Vector
	logger      *log.Logger

	mu         sync.Mutex
	headings   map[uint32]types.Direction
	goals      map[uint32]kinematic.Vector
	reported   map[uint32]bool
	votedRound map[uint32]int
	phase      types.Phase
	phaseSince uint64
	advanced   bool
}

type NewDriverOptions struct {
	ActionQueue queue.Queue
	Rand        *rand.Rand
	Options     Options
	// Waypoints are points bots wander between, typically room centres.
	// Without waypoints bots take a random walk.
	Waypoints []kinematic.Vector
}

func NewDriver(opts NewDriverOptions) *Driver {
	return &Driver{
		actionQueue: opts.ActionQueue,
		rng:         opts.Rand,
		opts:        opts.Options,
		waypoints:   opts.Waypoints,
		logger:      log.With("component", "bots"),
		headings:    make(map[uint32]types.Direction),
		goals:       make(map[uint32]kinematic.Vector),
		reported:    make(map[uint32]bool),
		votedRound:  make(map[uint32]int),
	}
}

// Deliver decides and enqueues playerID's action for the next tick.
func (d *Driver) Deliver(ctx context.Context, tick uint64, playerID uint32, obs *types.Observation) error {
	d.mu.Lock()
	action := d.decide(tick, obs)
	d.mu.Unlock()

	if action == nil {
		return nil
	}
	d.logger.Trace("player %d: %s", playerID, action.Type())
	if err := d.actionQueue.Enqueue(action); err != nil {
		return fmt.Errorf("failed to enqueue %s for player %d: %v", action.Type(), playerID, err)
	}
	return nil
}

func (d *Driver) decide(tick uint64, obs *types.Observation) types.Action {
	if obs.Phase != d.phase {
		d.phase = obs.Phase
		d.phaseSince = tick
		d.advanced = false
	}
	if !obs.Self.Alive {
		return nil
	}

	switch obs.Phase {
	case types.PhasePlaying:
		return d.play(obs)
	case types.PhaseDiscussion:
		d.markBodiesReported(obs)
		return d.maybeAdvance(tick, obs)
	case types.PhaseVoting:
		if action := d.vote(obs); action != nil {
			return action
		}
		return d.maybeAdvance(tick, obs)
	default:
		return nil
	}
}

func (d *Driver) play(obs *types.Observation) types.Action {
	self := obs.Self.ID

	if obs.Self.Role == types.RoleImpostor && d.chance(d.opts.KillChance) {
		if target, ok := d.pickVictim(obs); ok {
			return &types.KillAction{PlayerID: self, TargetID: target}
		}
	}

	for _, vp := range obs.VisiblePlayers {
		if !vp.Alive && !d.reported[vp.ID] {
			if obs.Self.Role == types.RoleImpostor || !d.chance(d.opts.MeetingChance) {
				continue
			}
			d.markBodiesReported(obs)
			return &types.CallMeetingAction{PlayerID: self}
		}
	}

	return d.move(obs)
}

// pickVictim picks a living crew member sharing the impostor's location.
// The machine rejects the kill if they are not actually in range.
func (d *Driver) pickVictim(obs *types.Observation) (uint32, bool) {
	var candidates []uint32
	for _, vp := range obs.VisiblePlayers {
		if vp.Alive && vp.Role == nil && vp.Location == obs.Location {
			candidates = append(candidates, vp.ID)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[d.rng.Intn(len(candidates))], true
}

func (d *Driver) move(obs *types.Observation) types.Action {
	self := obs.Self.ID

	if len(d.waypoints) > 0 {
		goal, ok := d.goals[self]
		if !ok || kinematic.Distance(obs.Self.Position, goal) < 2*constants.PlayerSpeed {
			goal = d.waypoints[d.rng.Intn(len(d.waypoints))]
			d.goals[self] = goal
		}
		return &types.MoveAction{PlayerID: self, Target: &goal}
	}

	heading, ok := d.headings[self]
	if !ok || d.chance(d.opts.TurnChance) {
		heading = types.Direction(d.rng.Intn(4) + 1)
		d.headings[self] = heading
	}
	return &types.MoveAction{PlayerID: self, Direction: heading}
}

func (d *Driver) vote(obs *types.Observation) types.Action {
	self := obs.Self.ID
	if d.votedRound[self] == obs.Round {
		return nil
	}
	d.votedRound[self] = obs.Round

	target := constants.SkipVote
	if !d.chance(d.opts.SkipChance) {
		var candidates []uint32
		for _, vp := range obs.VisiblePlayers {
			// impostors never vote for a known teammate
			if vp.Alive && vp.Role == nil {
				candidates = append(candidates, vp.ID)
			}
		}
		if len(candidates) > 0 {
			target = candidates[d.rng.Intn(len(candidates))]
		}
	}
	return &types.CastVoteAction{PlayerID: self, TargetID: target}
}

// maybeAdvance has one bot advance a meeting phase that has run long enough.
func (d *Driver) maybeAdvance(tick uint64, obs *types.Observation) types.Action {
	if d.opts.AdvanceAfter == 0 || d.advanced || tick-d.phaseSince < d.opts.AdvanceAfter {
		return nil
	}
	d.advanced = true
	return &types.AdvancePhaseAction{PlayerID: obs.Self.ID}
}

func (d *Driver) markBodiesReported(obs *types.Observation) {
	for _, vp := range obs.VisiblePlayers {
		if !vp.Alive {
			d.reported[vp.ID] = true
		}
	}
}

func (d *Driver) chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return d.rng.Float64() < p
}
