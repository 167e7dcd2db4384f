package worker

import (
	"context"
	"errors"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// StartMining enables the periodic mining task and runs it right away. It
// reports false if periodic mining was already enabled.
func (w *Worker) StartMining() bool {
	if !w.miningEnabled.CompareAndSwap(false, true) {
		return false
	}

	w.evHandler("worker: StartMining: periodic mining enabled")
	w.schedule(&w.miningTimer, 0, w.miningTask)

	return true
}

// StopMining disables the periodic mining task. A run in flight finishes.
func (w *Worker) StopMining() {
	w.miningEnabled.Store(false)

	w.mu.Lock()
	w.stopTimer(&w.miningTimer)
	w.mu.Unlock()

	w.evHandler("worker: StopMining: periodic mining disabled")
}

// IsMining reports whether a mining run is in flight.
func (w *Worker) IsMining() bool {
	return w.mining.Load()
}

// IsMiningEnabled reports whether the periodic mining task is enabled.
func (w *Worker) IsMiningEnabled() bool {
	return w.miningEnabled.Load()
}

// MineOnce performs a single mining run on the caller's goroutine. It fails
// with ErrMiningInProgress if a run is already in flight.
func (w *Worker) MineOnce() (database.Block, error) {
	if !w.mining.CompareAndSwap(false, true) {
		return database.Block{}, ErrMiningInProgress
	}

	defer func() {
		w.mining.Store(false)

		// A periodic run that fired meanwhile was a no-op, so re-arm.
		if w.miningEnabled.Load() {
			w.schedule(&w.miningTimer, w.miningInterval, w.miningTask)
		}
	}()

	return w.runMiningOperation()
}

// =============================================================================

// miningTask is the periodic mining task. It is a no-op when a run is
// already in flight.
func (w *Worker) miningTask() {
	if !w.mining.CompareAndSwap(false, true) {
		w.evHandler("worker: miningTask: MINING: busy, skipped")
		return
	}

	if !w.isShutdown() && w.miningEnabled.Load() {
		w.runMiningOperation()
	}

	if w.miningEnabled.Load() {
		w.schedule(&w.miningTimer, w.miningInterval, w.miningTask)
	}

	w.mining.Store(false)
}

// runMiningOperation mines a block from the pool and tells the neighbours
// about it. The caller must hold the mining flag.
func (w *Worker) runMiningOperation() (database.Block, error) {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	// Create a context so mining can be cancelled.
	ctx, cancel := context.WithCancel(w.ctx)
	defer cancel()

	w.mu.Lock()
	w.cancelMining = cancel
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.cancelMining = nil
		w.mu.Unlock()
	}()

	t := time.Now()
	block, err := w.state.MineNewBlock(ctx)
	duration := time.Since(t)

	w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", duration)

	if err != nil {
		switch {
		case errors.Is(err, state.ErrStaleChainTip):
			w.evHandler("worker: runMiningOperation: MINING: WARNING: chain tip moved")
		case ctx.Err() != nil:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")
		default:
			w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
		}
		return database.Block{}, err
	}

	// WOW, we mined a block. Ask the neighbours to drop the transactions
	// it carries and to run fork choice against it.
	w.state.NetSendClearPoolToPeers(w.ctx)
	w.state.NetSendConsensusToPeers(w.ctx)

	return block, nil
}
