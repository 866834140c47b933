package workers

import (
	"context"

	"github.com/cbodonnell/sus/pkg/log"
	"github.com/cbodonnell/sus/pkg/messages"
	"github.com/cbodonnell/sus/pkg/queue"
)

type ActionMessageWorker struct {
	actionMessageChan <-chan *messages.Message
	actionQueue       queue.Queue
}

type NewActionMessageWorkerOptions struct {
	ActionMessageChan <-chan *messages.Message
	ActionQueue       queue.Queue
}

// NewActionMessageWorker creates a new ActionMessageWorker.
// The worker decodes action messages submitted by external drivers
// and writes the actions to a queue for the game loop to process.
func NewActionMessageWorker(opts NewActionMessageWorkerOptions) *ActionMessageWorker {
	return &ActionMessageWorker{
		actionMessageChan: opts.ActionMessageChan,
		actionQueue:       opts.ActionQueue,
	}
}

func (w *ActionMessageWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.actionMessageChan:
			w.handleMessage(msg)
		}
	}
}

func (w *ActionMessageWorker) handleMessage(msg *messages.Message) {
	if msg == nil {
		return
	}
	action, err := msg.ToAction()
	if err != nil {
		log.Warn("Dropping message from player %d: %v", msg.PlayerID, err)
		return
	}
	if err := w.actionQueue.Enqueue(action); err != nil {
		log.Error("Failed to enqueue %s for player %d: %v", action.Type(), msg.PlayerID, err)
	}
}
