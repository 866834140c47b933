package game

import (
	"context"
	"errors"
	"testing"
	"time"

	mocks "github.com/cbodonnell/sus/mocks/github.com/cbodonnell/sus/pkg/queue"
	"github.com/cbodonnell/sus/pkg/collisions"
	"github.com/cbodonnell/sus/pkg/game/constants"
	"github.com/cbodonnell/sus/pkg/game/types"
	"github.com/cbodonnell/sus/pkg/queue"
	"github.com/cbodonnell/sus/pkg/repositories/models"
	"github.com/cbodonnell/sus/pkg/roster"
	"github.com/cbodonnell/sus/pkg/state"
	"github.com/cbodonnell/sus/pkg/workers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testGame struct {
	gm           *GameManager
	roster       *roster.Roster
	stateManager *state.InMemoryStateManager
	results      chan *models.MatchResult
	observations chan workers.ObservationBatch
}

func newTestGameManager(t *testing.T, actionQueue queue.Queue, players int, timers PhaseTimers) *testGame {
	m := collisions.NewDefaultMap()
	r := roster.New(players, nil, m.SpawnPoint(), roster.Options{})
	stateManager := state.NewInMemoryStateManager()
	results := make(chan *models.MatchResult, 1)
	observations := make(chan workers.ObservationBatch, 1)

	gm := NewGameManager(NewGameManagerOptions{
		ActionQueue:      actionQueue,
		Roster:           r,
		Oracle:           m,
		StateManager:     stateManager,
		MatchResultChan:  results,
		ObservationChan:  observations,
		GameLoopInterval: time.Millisecond,
		PhaseTimers:      timers,
		Seed:             7,
	})
	require.NoError(t, gm.initializeGameState(context.Background()))

	return &testGame{
		gm:           gm,
		roster:       r,
		stateManager: stateManager,
		results:      results,
		observations: observations,
	}
}

func TestGameManager_initializeGameState(t *testing.T) {
	g := newTestGameManager(t, mocks.NewQueue(t), 5, PhaseTimers{})

	snapshot, err := g.stateManager.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), snapshot.Tick)
	assert.Equal(t, types.PhasePlaying, snapshot.Summary.Phase)
	assert.Equal(t, 1, snapshot.Summary.Round)
	assert.Len(t, snapshot.Observations, 5)

	assert.ErrorIs(t, g.gm.initializeGameState(context.Background()), ErrAlreadyStarted)
}

func TestGameManager_initializeGameStateTooFewPlayers(t *testing.T) {
	m := collisions.NewDefaultMap()
	gm := NewGameManager(NewGameManagerOptions{
		ActionQueue:      mocks.NewQueue(t),
		Roster:           roster.New(3, nil, m.SpawnPoint(), roster.Options{}),
		Oracle:           m,
		StateManager:     state.NewInMemoryStateManager(),
		GameLoopInterval: time.Millisecond,
	})
	err := gm.Start(context.Background())
	assert.ErrorIs(t, err, ErrInsufficientPlayers)
}

func TestGameManager_processActions(t *testing.T) {
	mockQueue := mocks.NewQueue(t)
	g := newTestGameManager(t, mockQueue, 5, PhaseTimers{})
	p1, _ := g.roster.Lookup(1)
	start := p1.Position()

	tests := []struct {
		name  string
		setup func()
		check func(t *testing.T)
	}{
		{
			name: "movement",
			setup: func() {
				mockQueue.EXPECT().ReadAllMessages().Return([]interface{}{
					&types.MoveAction{PlayerID: 1, Direction: types.DirectionDown},
					&types.MoveAction{PlayerID: 1, Direction: types.DirectionDown},
				}, nil).Once()
			},
			check: func(t *testing.T) {
				assert.Equal(t, start.Y+2*constants.PlayerSpeed, p1.Position().Y)
			},
		},
		{
			name: "unknown items are skipped",
			setup: func() {
				mockQueue.EXPECT().ReadAllMessages().Return([]interface{}{
					"not an action",
					&types.CallMeetingAction{PlayerID: 2},
				}, nil).Once()
			},
			check: func(t *testing.T) {
				assert.Equal(t, types.PhaseDiscussion, g.gm.machine.Phase())
			},
		},
		{
			name: "read error",
			setup: func() {
				mockQueue.EXPECT().ReadAllMessages().Return(nil, errors.New("closed")).Once()
			},
			check: func(t *testing.T) {
				assert.Equal(t, types.PhaseDiscussion, g.gm.machine.Phase())
			},
		},
		{
			name: "actions illegal in the phase are dropped",
			setup: func() {
				mockQueue.EXPECT().ReadAllMessages().Return([]interface{}{
					&types.MoveAction{PlayerID: 1, Direction: types.DirectionUp},
					&types.CastVoteAction{PlayerID: 1, TargetID: 2},
				}, nil).Once()
			},
			check: func(t *testing.T) {
				assert.Equal(t, start.Y+2*constants.PlayerSpeed, p1.Position().Y)
				assert.Empty(t, g.gm.machine.State().Votes)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			g.gm.processActions()
			tt.check(t)
		})
	}
}

func TestGameManager_gameTickPhaseTimers(t *testing.T) {
	actionQueue := queue.NewInMemoryQueue(queue.QueueBufferSize)
	g := newTestGameManager(t, actionQueue, 7, PhaseTimers{Discussion: 2, Voting: 3})
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, actionQueue.Enqueue(&types.CallMeetingAction{PlayerID: 1}))
	require.NoError(t, g.gm.gameTick(ctx, now))
	assert.Equal(t, types.PhaseDiscussion, g.gm.machine.Phase())

	require.NoError(t, g.gm.gameTick(ctx, now))
	assert.Equal(t, types.PhaseVoting, g.gm.machine.Phase(), "discussion ends after two ticks")

	require.NoError(t, actionQueue.Enqueue(&types.CastVoteAction{PlayerID: 1, TargetID: constants.SkipVote}))
	require.NoError(t, g.gm.gameTick(ctx, now))
	require.NoError(t, g.gm.gameTick(ctx, now))
	assert.Equal(t, types.PhaseVoting, g.gm.machine.Phase())
	require.NoError(t, g.gm.gameTick(ctx, now))
	assert.Equal(t, types.PhasePlaying, g.gm.machine.Phase(), "voting closes after three ticks")
	assert.Equal(t, 2, g.gm.machine.Round())

	snapshot, err := g.stateManager.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), snapshot.Tick)
	assert.Equal(t, 2, snapshot.Summary.Round)

	select {
	case batch := <-g.observations:
		assert.Len(t, batch.Observations, 7)
	default:
		t.Fatal("expected an observation batch")
	}
}

func TestGameManager_gameTickWithoutTimers(t *testing.T) {
	actionQueue := queue.NewInMemoryQueue(queue.QueueBufferSize)
	g := newTestGameManager(t, actionQueue, 5, PhaseTimers{})
	ctx := context.Background()

	require.NoError(t, actionQueue.Enqueue(&types.CallMeetingAction{PlayerID: 1}))
	for i := 0; i < 10; i++ {
		require.NoError(t, g.gm.gameTick(ctx, time.Now()))
	}
	assert.Equal(t, types.PhaseDiscussion, g.gm.machine.Phase(), "meetings wait for an explicit advance")
}

func TestGameManager_gameTickSendsMatchResult(t *testing.T) {
	actionQueue := queue.NewInMemoryQueue(queue.QueueBufferSize)
	g := newTestGameManager(t, actionQueue, 4, PhaseTimers{})
	ctx := context.Background()
	impostor := g.gm.machine.Impostors()[0]

	require.NoError(t, actionQueue.Enqueue(&types.CallMeetingAction{PlayerID: impostor}))
	require.NoError(t, actionQueue.Enqueue(&types.AdvancePhaseAction{PlayerID: impostor}))
	for _, p := range g.roster.Players() {
		require.NoError(t, actionQueue.Enqueue(&types.CastVoteAction{PlayerID: p.ID, TargetID: impostor}))
	}
	require.NoError(t, actionQueue.Enqueue(&types.AdvancePhaseAction{PlayerID: impostor}))

	end := time.Now()
	require.NoError(t, g.gm.gameTick(ctx, end))
	require.True(t, g.gm.machine.IsOver())

	var result *models.MatchResult
	select {
	case result = <-g.results:
	default:
		t.Fatal("expected a match result")
	}
	assert.Equal(t, g.gm.MatchID(), result.ID)
	assert.Equal(t, int64(7), result.Seed)
	assert.Equal(t, end, result.EndedAt)
	assert.Equal(t, "crewmate", result.Winner)
	assert.Equal(t, "impostors ejected", result.WinReason)
	require.Len(t, result.Players, 4)
	for _, p := range result.Players {
		if p.ID == impostor {
			assert.Equal(t, "impostor", p.Role)
			assert.False(t, p.Alive)
		} else {
			assert.Equal(t, "crewmate", p.Role)
			assert.True(t, p.Alive)
		}
	}

	require.NoError(t, g.gm.gameTick(ctx, end))
	assert.Empty(t, g.results, "the result is sent once")

	summary, err := g.gm.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseGameOver, summary.Phase)
	assert.Equal(t, types.RoleCrew, summary.Winner)
}

func TestGameManager_StartStopsAtTickLimit(t *testing.T) {
	m := collisions.NewDefaultMap()
	gm := NewGameManager(NewGameManagerOptions{
		ActionQueue:      queue.NewInMemoryQueue(queue.QueueBufferSize),
		Roster:           roster.New(6, nil, m.SpawnPoint(), roster.Options{}),
		Oracle:           m,
		StateManager:     state.NewInMemoryStateManager(),
		GameLoopInterval: time.Millisecond,
		MaxTicks:         3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, gm.Start(ctx))
	assert.Equal(t, uint64(3), gm.tick)
	assert.False(t, gm.machine.IsOver())
}
