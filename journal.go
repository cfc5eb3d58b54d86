package rewind

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type (
	// JournalStore persists Transitions as an append-only audit trail. Only
	// the last sequence is ever read back into a Processor
	JournalStore interface {
		Append(context.Context, *Transition) error
		Records(context.Context, string) ([]*Transition, error)
		LastSequence(context.Context, string) (int64, error)
		Close() error
	}

	// Journal writes Transitions to a JournalStore from a pool of background
	// workers so that Processor calls never wait on I/O
	Journal struct {
		store  JournalStore
		logger *zap.Logger
		ctx    context.Context
		cancel context.CancelFunc
		queue  chan *Transition
		config JournalConfig
		wg     sync.WaitGroup
		mu     sync.RWMutex
		closed bool
		seen   map[string]int64
		seenMu sync.Mutex
	}
)

// NewJournal starts the configured number of workers writing to store
func NewJournal(
	store JournalStore, cfg JournalConfig, logger *zap.Logger,
) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultJournalWorkers
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = DefaultJournalQueueSize
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = DefaultJournalSaveTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	j := &Journal{
		store:  store,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		queue:  make(chan *Transition, cfg.MaxQueueSize),
		config: cfg,
		seen:   map[string]int64{},
	}

	for i := range cfg.WorkerCount {
		j.wg.Add(1)
		go j.worker(i)
	}
	return j
}

// Observer returns an Observer that enqueues Transitions for writing
func (j *Journal) Observer() Observer {
	return func(tr *Transition) {
		j.enqueue(tr)
	}
}

// LastSequence returns the highest Transition sequence issued under the
// named processor, whether already written or still queued. Seed a rebuilt
// Processor with it through WithSequence so that its Transitions do not
// reuse sequences already in the journal
func (j *Journal) LastSequence(
	ctx context.Context, processor string,
) (int64, error) {
	seq, err := j.store.LastSequence(ctx, processor)
	if err != nil {
		return 0, err
	}
	j.seenMu.Lock()
	defer j.seenMu.Unlock()
	return max(seq, j.seen[processor]), nil
}

// Close stops accepting Transitions, waits for the queued ones to be
// written, then stops the workers. The store is left open
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	close(j.queue)
	j.mu.Unlock()

	j.wg.Wait()
	j.cancel()
	return nil
}

func (j *Journal) worker(id int) {
	defer j.wg.Done()
	for tr := range j.queue {
		j.save(id, tr)
	}
}

func (j *Journal) save(workerID int, tr *Transition) {
	ctx, cancel := context.WithTimeout(j.ctx, j.config.SaveTimeout)
	defer cancel()

	start := time.Now()
	err := j.store.Append(ctx, tr)
	duration := time.Since(start)

	if err != nil {
		j.logger.Error("Failed to journal transition",
			zap.Int("worker_id", workerID),
			zap.String("processor", tr.Processor),
			zap.Int64("sequence", tr.Sequence),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	j.logger.Debug("Transition journaled",
		zap.Int("worker_id", workerID),
		zap.String("processor", tr.Processor),
		zap.Int64("sequence", tr.Sequence),
		zap.Duration("duration", duration),
	)
}

func (j *Journal) enqueue(tr *Transition) bool {
	j.seenMu.Lock()
	j.seen[tr.Processor] = max(j.seen[tr.Processor], tr.Sequence)
	j.seenMu.Unlock()

	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		j.logger.Warn("Journal closed, dropping transition",
			zap.String("processor", tr.Processor),
			zap.Int64("sequence", tr.Sequence),
		)
		return false
	}

	select {
	case j.queue <- tr:
		return true
	default:
		j.logger.Warn("Journal queue full, dropping transition",
			zap.String("processor", tr.Processor),
			zap.Int64("sequence", tr.Sequence),
			zap.Int("queue_size", len(j.queue)),
		)
		return false
	}
}
