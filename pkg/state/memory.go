package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/cbodonnell/sus/pkg/game/types"
)

var ErrNoSnapshot = fmt.Errorf("no snapshot committed")

// InMemoryStateManager holds the latest snapshot in memory.
// Snapshots are treated as immutable once set, so Get hands out the stored pointer.
type InMemoryStateManager struct {
	lock     sync.RWMutex
	snapshot *types.Snapshot
}

func NewInMemoryStateManager() *InMemoryStateManager {
	return &InMemoryStateManager{}
}

func (m *InMemoryStateManager) Get(ctx context.Context) (*types.Snapshot, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.snapshot == nil {
		return nil, ErrNoSnapshot
	}
	return m.snapshot, nil
}

func (m *InMemoryStateManager) Set(ctx context.Context, snapshot *types.Snapshot) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}

	m.snapshot = snapshot
	return nil
}
