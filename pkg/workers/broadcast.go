package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cbodonnell/sus/pkg/game/types"
	"github.com/cbodonnell/sus/pkg/log"
	"github.com/cbodonnell/sus/pkg/vision"
)

// ObservationSink consumes the per-actor observations committed on a tick,
// typically to build an agent prompt.
type ObservationSink interface {
	Deliver(ctx context.Context, tick uint64, playerID uint32, obs *types.Observation) error
}

// ObservationBatch holds every observation committed on one tick.
type ObservationBatch struct {
	Tick         uint64
	Observations map[uint32]*types.Observation
}

type ObservationWorker struct {
	sinks           []ObservationSink
	observationChan <-chan ObservationBatch
}

type NewObservationWorkerOptions struct {
	Sinks           []ObservationSink
	ObservationChan <-chan ObservationBatch
}

func NewObservationWorker(opts NewObservationWorkerOptions) *ObservationWorker {
	return &ObservationWorker{
		sinks:           opts.Sinks,
		observationChan: opts.ObservationChan,
	}
}

func (w *ObservationWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch := <-w.observationChan:
			if err := w.handleBatch(ctx, batch); err != nil {
				log.Error("Failed to deliver observations for tick %d: %v", batch.Tick, err)
			}
		}
	}
}

// handleBatch delivers observations to every sink in actor ID order.
// A failing sink does not stop delivery to the others.
func (w *ObservationWorker) handleBatch(ctx context.Context, batch ObservationBatch) error {
	ids := make([]uint32, 0, len(batch.Observations))
	for id := range batch.Observations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var failed int
	for _, sink := range w.sinks {
		for _, id := range ids {
			if err := sink.Deliver(ctx, batch.Tick, id, batch.Observations[id]); err != nil {
				log.Warn("Sink %T failed for player %d: %v", sink, id, err)
				failed++
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d deliveries failed", failed)
	}
	return nil
}

// LogSink writes the agent view of each observation to a logger at trace level.
type LogSink struct {
	Logger *log.Logger
}

func (s *LogSink) Deliver(_ context.Context, tick uint64, playerID uint32, obs *types.Observation) error {
	payload, err := json.Marshal(vision.ToAgentObservation(obs))
	if err != nil {
		return fmt.Errorf("failed to marshal agent observation: %v", err)
	}
	s.Logger.Trace("tick=%d player=%d observation=%s", tick, playerID, payload)
	return nil
}
