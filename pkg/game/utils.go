package game

import (
	"time"

	"github.com/cbodonnell/sus/pkg/game/types"
	"github.com/cbodonnell/sus/pkg/repositories/models"
	"github.com/cbodonnell/sus/pkg/roster"
	"github.com/google/uuid"
)

// MatchResultFromState builds the ledger record of a match.
func MatchResultFromState(id uuid.UUID, seed int64, startedAt, endedAt time.Time, state *types.GameState, r *roster.Roster) *models.MatchResult {
	return &models.MatchResult{
		ID:        id,
		Seed:      seed,
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Rounds:    state.Round,
		Winner:    state.Winner.String(),
		WinReason: state.WinReason.String(),
		Players:   MatchPlayersFromRoster(r, state.Roles),
	}
}

func MatchPlayersFromRoster(r *roster.Roster, roles map[uint32]types.Role) []models.MatchPlayer {
	players := make([]models.MatchPlayer, 0, r.Len())
	for _, p := range r.Players() {
		players = append(players, models.MatchPlayer{
			ID:       p.ID,
			Provider: p.Provider,
			Role:     roles[p.ID].String(),
			Alive:    p.IsAlive(),
		})
	}
	return players
}
