package store

import (
	"context"
	"sync"

	"github.com/msto63/robogame/internal/arena"
)

// DefaultBatchSize is the number of events buffered before a write
const DefaultBatchSize = 256

// Recorder buffers the per-tick state of a match and writes it in batches.
// It satisfies game.Observer.
type Recorder struct {
	store *Store
	ctx   context.Context
	runID string
	size  int

	mu    sync.Mutex
	batch []Event
	count int
	err   error
}

// Recorder returns a recorder writing events for runID
func (s *Store) Recorder(ctx context.Context, runID string, batchSize int) *Recorder {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Recorder{
		store: s,
		ctx:   ctx,
		runID: runID,
		size:  batchSize,
		batch: make([]Event, 0, batchSize),
	}
}

// RunID returns the run the recorder writes to
func (r *Recorder) RunID() string { return r.runID }

// Observe records the robots of snap. Write errors are kept for Flush.
func (r *Recorder) Observe(snap arena.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return
	}
	for _, rv := range snap.Robots {
		r.batch = append(r.batch, Event{
			RunID:   r.runID,
			Tick:    snap.Tick,
			Robot:   rv.Name,
			Action:  rv.LastAction,
			X:       rv.Pos.X,
			Y:       rv.Pos.Y,
			Heading: rv.Heading,
			Fuel:    rv.Fuel,
			Shield:  rv.Shield,
		})
	}
	if len(r.batch) >= r.size {
		r.err = r.flushLocked()
	}
}

// Flush writes buffered events and returns the first write error seen
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	r.err = r.flushLocked()
	return r.err
}

// Count returns the number of events written so far
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

func (r *Recorder) flushLocked() error {
	if len(r.batch) == 0 {
		return nil
	}
	if err := r.store.AppendEvents(r.ctx, r.batch); err != nil {
		return err
	}
	r.count += len(r.batch)
	r.batch = r.batch[:0]
	return nil
}
