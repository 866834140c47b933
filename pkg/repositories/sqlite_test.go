package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cbodonnell/sus/pkg/repositories/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMigrationsRoot = "../../migrations"

func newTestSQLiteRepository(t *testing.T) Repository {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sus.db")
	repository, err := NewSQLiteRepository(ctx, path, filepath.Join(testMigrationsRoot, "sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { repository.Close(ctx) })
	return repository
}

func newTestMatchResult(endedAt time.Time) *models.MatchResult {
	return &models.MatchResult{
		ID:        uuid.New(),
		Seed:      42,
		StartedAt: endedAt.Add(-time.Minute),
		EndedAt:   endedAt,
		Rounds:    3,
		Winner:    "crewmate",
		WinReason: "impostors ejected",
		Players: []models.MatchPlayer{
			{ID: 1, Provider: "Bot", Role: "impostor", Alive: false},
			{ID: 2, Provider: "GPT", Role: "crewmate", Alive: true},
		},
	}
}

func TestSQLiteRepository_MatchResults(t *testing.T) {
	ctx := context.Background()
	repository := newTestSQLiteRepository(t)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	first := newTestMatchResult(base)
	second := newTestMatchResult(base.Add(time.Hour))
	require.NoError(t, repository.SaveMatchResult(ctx, first))
	require.NoError(t, repository.SaveMatchResult(ctx, second))

	got, err := repository.GetMatchResult(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	_, err = repository.GetMatchResult(ctx, uuid.New())
	assert.True(t, IsNotFound(err))

	list, err := repository.ListMatchResults(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "most recent first")
	assert.Equal(t, first.ID, list[1].ID)

	list, err = repository.ListMatchResults(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	first.Rounds = 5
	require.NoError(t, repository.SaveMatchResult(ctx, first))
	got, err = repository.GetMatchResult(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Rounds)
}

func TestNewRepositoryFromURL(t *testing.T) {
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "url.db")
	repository, err := NewRepositoryFromURL(ctx, "sqlite://"+path, testMigrationsRoot)
	require.NoError(t, err)
	require.NoError(t, repository.Close(ctx))

	_, err = NewRepositoryFromURL(ctx, "mysql://localhost/sus", testMigrationsRoot)
	assert.Error(t, err)

	_, err = NewSQLiteRepository(ctx, filepath.Join(t.TempDir(), "x.db"), "does-not-exist")
	assert.Error(t, err)
}
