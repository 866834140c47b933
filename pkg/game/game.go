package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/cbodonnell/sus/pkg/game/types"
	"github.com/cbodonnell/sus/pkg/log"
	"github.com/cbodonnell/sus/pkg/queue"
	"github.com/cbodonnell/sus/pkg/repositories/models"
	"github.com/cbodonnell/sus/pkg/roster"
	"github.com/cbodonnell/sus/pkg/state"
	"github.com/cbodonnell/sus/pkg/vision"
	"github.com/cbodonnell/sus/pkg/workers"
	"github.com/google/uuid"
)

// PhaseTimers are host deadlines, in ticks, after which a meeting moves on
// without anyone advancing it. Zero disables a deadline.
type PhaseTimers struct {
	Discussion int
	Voting     int
}

type GameManager struct {
	actionQueue      queue.Queue
	roster           *roster.Roster
	oracle           types.LocationOracle
	machine          *Machine
	engine           *vision.Engine
	stateManager     state.StateManager
	matchResultChan  chan<- *models.MatchResult
	observationChan  chan<- workers.ObservationBatch
	gameLoopInterval time.Duration
	phaseTimers      PhaseTimers
	maxTicks         uint64
	startOptions     StartOptions
	seed             int64
	matchID          uuid.UUID

	tick       uint64
	phase      types.Phase
	phaseTicks int
	startedAt  time.Time
	resultSent bool
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	ActionQueue      queue.Queue
	Roster           *roster.Roster
	Oracle           types.LocationOracle
	StateManager     state.StateManager
	MatchResultChan  chan<- *models.MatchResult
	ObservationChan  chan<- workers.ObservationBatch
	GameLoopInterval time.Duration
	PhaseTimers      PhaseTimers
	// MaxTicks stops the loop after this many ticks. Zero runs until the game is over.
	MaxTicks      uint64
	ImpostorCount int
	Seed          int64
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	machine := NewMachine(rand.New(rand.NewSource(opts.Seed)))
	return &GameManager{
		actionQueue:      opts.ActionQueue,
		roster:           opts.Roster,
		oracle:           opts.Oracle,
		machine:          machine,
		engine:           vision.NewEngine(opts.Roster, opts.Oracle, machine),
		stateManager:     opts.StateManager,
		matchResultChan:  opts.MatchResultChan,
		observationChan:  opts.ObservationChan,
		gameLoopInterval: opts.GameLoopInterval,
		phaseTimers:      opts.PhaseTimers,
		maxTicks:         opts.MaxTicks,
		startOptions:     StartOptions{ImpostorCount: opts.ImpostorCount},
		seed:             opts.Seed,
		matchID:          uuid.New(),
	}
}

// Start starts the game and runs the game loop until the game is over,
// the tick limit is reached, or the context is cancelled.
func (gm *GameManager) Start(ctx context.Context) error {
	if err := gm.initializeGameState(ctx); err != nil {
		return fmt.Errorf("failed to initialize game state: %w", err)
	}

	ticker := time.NewTicker(gm.gameLoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			err := gm.gameTick(ctx, t)
			if err != nil {
				log.Error("Failed to run game tick: %v", err)
			}
			if gm.machine.IsOver() {
				return nil
			}
			if gm.maxTicks > 0 && gm.tick >= gm.maxTicks {
				log.Warn("Stopping match %s after %d ticks without a winner", gm.matchID, gm.tick)
				return nil
			}
		}
	}
}

func (gm *GameManager) initializeGameState(ctx context.Context) error {
	if err := gm.machine.Start(gm.roster, gm.startOptions); err != nil {
		return err
	}
	gm.startedAt = time.Now()
	gm.phase = gm.machine.Phase()
	log.Info("Match %s started with seed %d", gm.matchID, gm.seed)

	if _, err := gm.commitSnapshot(ctx); err != nil {
		return err
	}
	return nil
}

// gameTick runs one iteration of the game loop.
func (gm *GameManager) gameTick(ctx context.Context, t time.Time) error {
	gm.tick++
	gm.processActions()
	gm.enforcePhaseTimers()

	snapshot, err := gm.commitSnapshot(ctx)
	if err != nil {
		return err
	}
	gm.publishObservations(snapshot)

	if gm.machine.IsOver() && !gm.resultSent {
		gm.sendMatchResult(ctx, t)
	}
	return nil
}

// processActions applies every pending action in the queue in arrival order.
func (gm *GameManager) processActions() {
	pendingActions, err := gm.actionQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read actions: %v", err)
		return
	}
	for _, item := range pendingActions {
		action, ok := item.(types.Action)
		if !ok {
			log.Error("Unhandled queue item type: %T", item)
			continue
		}
		gm.machine.Apply(action, gm.oracle)
	}
}

// enforcePhaseTimers advances meetings whose deadline has passed.
func (gm *GameManager) enforcePhaseTimers() {
	current := gm.machine.Phase()
	if current != gm.phase {
		gm.phase = current
		gm.phaseTicks = 0
	}
	gm.phaseTicks++

	switch current {
	case types.PhaseDiscussion:
		if gm.phaseTimers.Discussion > 0 && gm.phaseTicks >= gm.phaseTimers.Discussion {
			log.Debug("Discussion time is up in round %d", gm.machine.Round())
			gm.machine.OpenVoting()
		}
	case types.PhaseVoting:
		if gm.phaseTimers.Voting > 0 && gm.phaseTicks >= gm.phaseTimers.Voting {
			log.Debug("Voting time is up in round %d", gm.machine.Round())
			gm.machine.CloseVoting()
		}
	}
}

// commitSnapshot builds the read-only result of the tick and hands it to the state manager.
func (gm *GameManager) commitSnapshot(ctx context.Context) (*types.Snapshot, error) {
	snapshot := &types.Snapshot{
		Tick:         gm.tick,
		Summary:      gm.machine.Summary(),
		Observations: gm.engine.Observations(),
	}
	if err := gm.stateManager.Set(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %v", err)
	}
	return snapshot, nil
}

// publishObservations offers the tick's observations to the observation worker.
// A busy worker skips the tick rather than stalling the loop.
func (gm *GameManager) publishObservations(snapshot *types.Snapshot) {
	if gm.observationChan == nil {
		return
	}
	batch := workers.ObservationBatch{
		Tick:         snapshot.Tick,
		Observations: snapshot.Observations,
	}
	select {
	case gm.observationChan <- batch:
	default:
		log.Trace("Observation worker busy, skipping tick %d", snapshot.Tick)
	}
}

func (gm *GameManager) sendMatchResult(ctx context.Context, t time.Time) {
	gm.resultSent = true
	if gm.matchResultChan == nil {
		return
	}
	select {
	case gm.matchResultChan <- gm.MatchResult(t):
	case <-ctx.Done():
		log.Warn("Match result %s was not sent: %v", gm.matchID, ctx.Err())
	}
}

// MatchResult describes the match as of t.
func (gm *GameManager) MatchResult(t time.Time) *models.MatchResult {
	return MatchResultFromState(gm.matchID, gm.seed, gm.startedAt, t, gm.machine.State(), gm.roster)
}

func (gm *GameManager) MatchID() uuid.UUID {
	return gm.matchID
}

// Summary returns the summary of the last committed snapshot.
func (gm *GameManager) Summary(ctx context.Context) (types.StateSummary, error) {
	snapshot, err := gm.stateManager.Get(ctx)
	if err != nil {
		return types.StateSummary{}, err
	}
	return snapshot.Summary, nil
}
