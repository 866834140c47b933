package state

import (
	"context"

	"github.com/cbodonnell/sus/pkg/game/types"
)

// StateManager provides shared access to the last committed snapshot.
// Implementations must be thread-safe.
type StateManager interface {
	// Get returns the current snapshot.
	Get(ctx context.Context) (*types.Snapshot, error)
	// Set replaces the current snapshot.
	Set(ctx context.Context, snapshot *types.Snapshot) error
}
