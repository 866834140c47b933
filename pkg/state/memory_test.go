package state

import (
	"context"
	"testing"

	"github.com/cbodonnell/sus/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStateManager(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryStateManager()

	_, err := m.Get(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)
	assert.Error(t, m.Set(ctx, nil))

	snapshot := &types.Snapshot{
		Tick:    7,
		Summary: types.StateSummary{Phase: types.PhaseVoting, Round: 2},
	}
	require.NoError(t, m.Set(ctx, snapshot))

	got, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got.Tick)
	assert.Equal(t, types.PhaseVoting, got.Summary.Phase)
}
