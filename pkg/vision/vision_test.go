package vision

import (
	"testing"

	"github.com/cbodonnell/sus/pkg/collisions"
	"github.com/cbodonnell/sus/pkg/game/constants"
	"github.com/cbodonnell/sus/pkg/game/types"
	"github.com/cbodonnell/sus/pkg/kinematic"
	"github.com/cbodonnell/sus/pkg/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGame struct {
	phase     types.Phase
	round     int
	impostors []uint32
}

func (g *fakeGame) Phase() types.Phase  { return g.phase }
func (g *fakeGame) Round() int          { return g.round }
func (g *fakeGame) Impostors() []uint32 { return g.impostors }

type actor struct {
	id   uint32
	pos  kinematic.Vector
	role types.Role
}

// newTestEngine builds an engine over the default map with the given actors.
func newTestEngine(t *testing.T, actors ...actor) (*Engine, *roster.Roster, *fakeGame) {
	players := make([]*types.PlayerState, 0, len(actors))
	game := &fakeGame{phase: types.PhasePlaying, round: 1}
	for i, a := range actors {
		p := types.NewPlayerState(a.id, a.pos, "Bot", constants.PlayerColors[i])
		require.True(t, p.AssignRole(a.role))
		if a.role == types.RoleImpostor {
			game.impostors = append(game.impostors, a.id)
		}
		players = append(players, p)
	}
	r, err := roster.FromPlayers(roster.Options{}, players...)
	require.NoError(t, err)
	return NewEngine(r, collisions.NewDefaultMap(), game), r, game
}

func lookup(t *testing.T, r *roster.Roster, id uint32) *types.PlayerState {
	p, ok := r.Lookup(id)
	require.True(t, ok)
	return p
}

func ids(players []*types.PlayerState) []uint32 {
	out := []uint32{}
	for _, p := range players {
		out = append(out, p.ID)
	}
	return out
}

func TestVisionRadius(t *testing.T) {
	crew := types.NewPlayerState(1, kinematic.Vector{}, "Bot", constants.PlayerColors[0])
	crew.AssignRole(types.RoleCrew)
	impostor := types.NewPlayerState(2, kinematic.Vector{}, "Bot", constants.PlayerColors[1])
	impostor.AssignRole(types.RoleImpostor)

	assert.Equal(t, constants.VisionRadiusCrew, VisionRadius(crew))
	assert.Equal(t, constants.VisionRadiusImpostor, VisionRadius(impostor))
	assert.Greater(t, VisionRadius(impostor), VisionRadius(crew))
}

func TestEngine_VisiblePlayers(t *testing.T) {
	origin := kinematic.Vector{X: 640, Y: 360}
	e, r, _ := newTestEngine(t,
		actor{id: 1, pos: origin, role: types.RoleCrew},
		actor{id: 2, pos: origin.Add(kinematic.Vector{X: constants.VisionRadiusCrew}), role: types.RoleCrew},
		actor{id: 3, pos: origin.Add(kinematic.Vector{Y: constants.VisionRadiusCrew + 1}), role: types.RoleCrew},
		actor{id: 4, pos: origin.Add(kinematic.Vector{X: -170}), role: types.RoleImpostor},
		actor{id: 5, pos: kinematic.Vector{X: 1200, Y: 700}, role: types.RoleCrew},
	)
	lookup(t, r, 5).Kill()

	tests := []struct {
		name     string
		observer uint32
		want     []uint32
	}{
		{
			// 2 sits exactly on the radius, 3 is one unit outside, 5 is a far corpse
			name:     "living crew",
			observer: 1,
			want:     []uint32{2, 5},
		},
		{
			name:     "living impostor sees further",
			observer: 4,
			want:     []uint32{1, 5},
		},
		{
			name:     "ghost sees everyone",
			observer: 5,
			want:     []uint32{1, 2, 3, 4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer := lookup(t, r, tt.observer)
			got := e.VisiblePlayers(observer)
			assert.Equal(t, tt.want, ids(got))

			for _, p := range r.Players() {
				want := false
				for _, id := range tt.want {
					if id == p.ID {
						want = true
					}
				}
				assert.Equal(t, want, e.IsVisible(observer, p), "IsVisible disagrees for %d", p.ID)
			}
		})
	}
}

func TestEngine_BuildObservation_MutualImpostorRecognition(t *testing.T) {
	origin := kinematic.Vector{X: 640, Y: 360}
	e, r, _ := newTestEngine(t,
		actor{id: 1, pos: origin, role: types.RoleImpostor},
		actor{id: 2, pos: origin.Add(kinematic.Vector{X: 40}), role: types.RoleImpostor},
		actor{id: 3, pos: origin.Add(kinematic.Vector{X: -40}), role: types.RoleCrew},
		actor{id: 4, pos: origin.Add(kinematic.Vector{Y: 40}), role: types.RoleCrew},
	)

	for _, id := range []uint32{1, 2} {
		obs := e.BuildObservation(lookup(t, r, id))
		require.Len(t, obs.VisiblePlayers, 3)
		for _, vp := range obs.VisiblePlayers {
			if vp.ID == 1 || vp.ID == 2 {
				require.NotNil(t, vp.Role)
				assert.Equal(t, types.RoleImpostor, *vp.Role)
			} else {
				assert.Nil(t, vp.Role, "crew roles are never exposed")
			}
		}
		assert.Len(t, obs.FellowImpostors, 1)
		assert.NotContains(t, obs.FellowImpostors, id)
	}

	for _, id := range []uint32{3, 4} {
		obs := e.BuildObservation(lookup(t, r, id))
		require.Len(t, obs.VisiblePlayers, 3)
		for _, vp := range obs.VisiblePlayers {
			assert.Nil(t, vp.Role, "crew observers never see roles")
		}
		assert.Empty(t, obs.FellowImpostors)
	}
}

func TestEngine_BuildObservation_GhostImpostor(t *testing.T) {
	origin := kinematic.Vector{X: 640, Y: 360}
	e, r, _ := newTestEngine(t,
		actor{id: 1, pos: origin, role: types.RoleImpostor},
		actor{id: 2, pos: kinematic.Vector{X: 300, Y: 360}, role: types.RoleImpostor},
		actor{id: 3, pos: origin, role: types.RoleCrew},
		actor{id: 4, pos: origin, role: types.RoleCrew},
	)
	ghost := lookup(t, r, 1)
	ghost.Kill()

	obs := e.BuildObservation(ghost)
	assert.False(t, obs.Self.Alive)
	assert.Equal(t, []uint32{2, 3, 4}, obs.VisibleIDs())
	for _, vp := range obs.VisiblePlayers {
		assert.Nil(t, vp.Role, "ghosts never see roles")
	}
	assert.Equal(t, []uint32{2}, obs.FellowImpostors, "impostors always know their teammates")
}

func TestEngine_BuildObservation_Snapshot(t *testing.T) {
	e, r, game := newTestEngine(t,
		actor{id: 1, pos: kinematic.Vector{X: 640, Y: 360}, role: types.RoleCrew},
		actor{id: 2, pos: kinematic.Vector{X: 500, Y: 360}, role: types.RoleCrew},
		actor{id: 3, pos: kinematic.Vector{X: 900, Y: 360}, role: types.RoleCrew},
		actor{id: 4, pos: kinematic.Vector{X: 640, Y: 600}, role: types.RoleImpostor},
	)
	game.round = 3

	obs, ok := e.Observation(1)
	require.True(t, ok)
	assert.Equal(t, types.SelfObservation{
		ID:       1,
		Role:     types.RoleCrew,
		Alive:    true,
		Position: kinematic.Vector{X: 640, Y: 360},
	}, obs.Self)
	assert.Equal(t, "Cafeteria", obs.Location)
	assert.Equal(t, types.PhasePlaying, obs.Phase)
	assert.Equal(t, 3, obs.Round)
	require.Equal(t, []uint32{2}, obs.VisibleIDs())
	assert.Equal(t, constants.InTransitLabel, obs.VisiblePlayers[0].Location)
	assert.Equal(t, "Bot", obs.VisiblePlayers[0].Provider)

	game.phase = types.PhaseDiscussion
	game.round = 4
	assert.Equal(t, types.PhasePlaying, obs.Phase, "observations do not track later changes")
	assert.Equal(t, 3, obs.Round)

	lookup(t, r, 3).Kill()
	again, _ := e.Observation(1)
	assert.Equal(t, []uint32{2, 3}, again.VisibleIDs())
	assert.Equal(t, types.PhaseDiscussion, again.Phase)

	_, ok = e.Observation(99)
	assert.False(t, ok)
}

func TestEngine_Observations(t *testing.T) {
	e, _, _ := newTestEngine(t,
		actor{id: 1, pos: kinematic.Vector{X: 640, Y: 360}, role: types.RoleCrew},
		actor{id: 2, pos: kinematic.Vector{X: 660, Y: 360}, role: types.RoleImpostor},
	)
	all := e.Observations()
	require.Len(t, all, 2)
	assert.Equal(t, []uint32{2}, all[1].VisibleIDs())
	assert.Equal(t, []uint32{1}, all[2].VisibleIDs())
}

func TestToAgentObservation(t *testing.T) {
	e, r, _ := newTestEngine(t,
		actor{id: 1, pos: kinematic.Vector{X: 640, Y: 360}, role: types.RoleImpostor},
		actor{id: 2, pos: kinematic.Vector{X: 660, Y: 360}, role: types.RoleImpostor},
		actor{id: 3, pos: kinematic.Vector{X: 300, Y: 360}, role: types.RoleCrew},
	)
	lookup(t, r, 3).Kill()

	agent := e.BuildAgentObservation(lookup(t, r, 1))
	assert.Equal(t, types.AgentSelf{ID: 1, Role: types.RoleImpostor, Alive: true, CurrentRoom: "Cafeteria"}, agent.You)
	assert.Equal(t, []types.AgentVisibleInfo{
		{ID: 2, Location: "Cafeteria", Alive: true},
		{ID: 3, Location: "Electrical", Alive: false},
	}, agent.VisiblePlayers)
	assert.Equal(t, []uint32{2}, agent.FellowImpostors)
	assert.Equal(t, types.PhasePlaying, agent.GamePhase)
	assert.Equal(t, 1, agent.Round)
}
