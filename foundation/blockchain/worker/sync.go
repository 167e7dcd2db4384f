package worker

// syncTask is the periodic neighbour refresh task. It is a no-op when a
// refresh is already in flight.
func (w *Worker) syncTask() {
	if !w.syncing.CompareAndSwap(false, true) {
		w.evHandler("worker: syncTask: busy, skipped")
		return
	}

	if !w.isShutdown() {
		w.runSyncOperation()
	}

	w.schedule(&w.syncTimer, w.syncInterval, w.syncTask)

	w.syncing.Store(false)
}

// runSyncOperation refreshes the neighbour list.
func (w *Worker) runSyncOperation() {
	w.evHandler("worker: runSyncOperation: started")
	defer w.evHandler("worker: runSyncOperation: completed")

	if err := w.state.RefreshNeighbours(w.ctx); err != nil {
		w.evHandler("worker: runSyncOperation: WARNING: %s", err)
	}
}
