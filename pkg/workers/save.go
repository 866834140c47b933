package workers

import (
	"context"

	"github.com/cbodonnell/sus/pkg/log"
	"github.com/cbodonnell/sus/pkg/repositories"
	"github.com/cbodonnell/sus/pkg/repositories/models"
)

type MatchResultWorker struct {
	repository      repositories.Repository
	matchResultChan <-chan *models.MatchResult
	done            chan struct{}
}

type NewMatchResultWorkerOptions struct {
	Repository      repositories.Repository
	MatchResultChan <-chan *models.MatchResult
}

// NewMatchResultWorker creates a new MatchResultWorker.
// The worker saves the results of completed games sent by the game loop.
func NewMatchResultWorker(opts NewMatchResultWorkerOptions) *MatchResultWorker {
	return &MatchResultWorker{
		repository:      opts.Repository,
		matchResultChan: opts.MatchResultChan,
		done:            make(chan struct{}),
	}
}

// Start saves results until the context is cancelled, then saves whatever is still buffered.
func (w *MatchResultWorker) Start(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case result := <-w.matchResultChan:
			w.saveMatchResult(ctx, result)
		}
	}
}

// Done is closed once Start has returned.
func (w *MatchResultWorker) Done() <-chan struct{} {
	return w.done
}

func (w *MatchResultWorker) drain() {
	for {
		select {
		case result := <-w.matchResultChan:
			w.saveMatchResult(context.Background(), result)
		default:
			return
		}
	}
}

func (w *MatchResultWorker) saveMatchResult(ctx context.Context, result *models.MatchResult) {
	if result == nil {
		return
	}
	if err := w.repository.SaveMatchResult(ctx, result); err != nil {
		log.Error("Failed to save match result %s: %v", result.ID, err)
		return
	}
	log.Info("Saved match result %s: %s win, %s", result.ID, result.Winner, result.WinReason)
}
