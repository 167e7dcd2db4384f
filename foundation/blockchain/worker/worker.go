// Package worker implements the background tasks for the ledger: periodic
// mining, neighbour refresh, fork choice, and transaction sharing.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/robfig/cron/v3"
)

// Default intervals between task runs.
const (
	DefaultMiningInterval = 20 * time.Second
	DefaultSyncInterval   = 20 * time.Second
	DefaultConsensusSpec  = "@every 1m"
)

// ErrMiningInProgress is returned when a mining run is requested while
// another one has not finished.
var ErrMiningInProgress = errors.New("mining already in progress")

// =============================================================================

// Config represents the scheduling options for the worker.
type Config struct {
	MiningInterval time.Duration
	SyncInterval   time.Duration
	ConsensusSpec  string
	AutoMine       bool
	EvHandler      state.EventHandler
}

// Worker manages the background workflows for the ledger. Every task is
// guarded by its own busy flag so it never overlaps with itself.
type Worker struct {
	state     *state.State
	evHandler state.EventHandler

	miningInterval time.Duration
	syncInterval   time.Duration

	mining        atomic.Bool
	syncing       atomic.Bool
	resolving     atomic.Bool
	miningEnabled atomic.Bool

	mu           sync.Mutex
	miningTimer  *time.Timer
	syncTimer    *time.Timer
	cancelMining context.CancelFunc

	ctx       context.Context
	cancel    context.CancelFunc
	cron      *cron.Cron
	wg        sync.WaitGroup
	shut      chan struct{}
	txSharing chan database.SignedTx
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, cfg Config) (*Worker, error) {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.MiningInterval <= 0 {
		cfg.MiningInterval = DefaultMiningInterval
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = DefaultSyncInterval
	}
	if cfg.ConsensusSpec == "" {
		cfg.ConsensusSpec = DefaultConsensusSpec
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := Worker{
		state:          st,
		evHandler:      ev,
		miningInterval: cfg.MiningInterval,
		syncInterval:   cfg.SyncInterval,
		ctx:            ctx,
		cancel:         cancel,
		cron:           cron.New(cron.WithSeconds()),
		shut:           make(chan struct{}),
		txSharing:      make(chan database.SignedTx, maxTxShareRequests),
	}

	if _, err := w.cron.AddFunc(cfg.ConsensusSpec, w.consensusTask); err != nil {
		cancel()
		return nil, fmt.Errorf("consensus schedule %q: %w", cfg.ConsensusSpec, err)
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Update this node before starting any support G's.
	w.syncTask()
	w.consensusTask()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.shareTxOperations()
	}()

	w.cron.Start()

	if cfg.AutoMine {
		w.StartMining()
	}

	return &w, nil
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates every task and waits for them to return.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop timers")
	w.mu.Lock()
	select {
	case <-w.shut:
		w.mu.Unlock()
		return
	default:
		close(w.shut)
	}
	w.stopTimer(&w.miningTimer)
	w.stopTimer(&w.syncTimer)
	w.mu.Unlock()

	w.evHandler("worker: shutdown: cancel in flight work")
	w.cancel()

	w.evHandler("worker: shutdown: stop cron")
	<-w.cron.Stop().Done()

	w.evHandler("worker: shutdown: terminate goroutines")
	w.wg.Wait()
}

// SignalCancelMining stops the mining run in flight, if any.
func (w *Worker) SignalCancelMining() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancelMining != nil {
		w.cancelMining()
		w.evHandler("worker: SignalCancelMining: MINING: CANCEL: signaled")
	}
}

// SignalShareTx queues a transaction to be shared with the neighbours. If
// maxTxShareRequests signals exist in the channel, the transaction is not
// shared.
func (w *Worker) SignalShareTx(tx database.SignedTx) {
	select {
	case w.txSharing <- tx:
		w.evHandler("worker: SignalShareTx: share Tx signaled")
	default:
		w.evHandler("worker: SignalShareTx: queue full, transactions won't be shared.")
	}
}

// =============================================================================

// schedule arms the timer slot to run fn after d, replacing any run that
// is still pending in the slot.
func (w *Worker) schedule(slot **time.Timer, d time.Duration, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isShutdown() {
		return
	}

	w.stopTimer(slot)

	w.wg.Add(1)
	*slot = time.AfterFunc(d, func() {
		defer w.wg.Done()
		fn()
	})
}

// stopTimer cancels the pending run in the slot. The caller must hold
// the mutex.
func (w *Worker) stopTimer(slot **time.Timer) {
	if *slot != nil && (*slot).Stop() {
		w.wg.Done()
	}
	*slot = nil
}

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
