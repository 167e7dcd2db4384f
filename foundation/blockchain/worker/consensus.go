package worker

// consensusTask runs fork choice against the neighbours. It is a no-op
// when a previous run has not finished.
func (w *Worker) consensusTask() {
	if !w.resolving.CompareAndSwap(false, true) {
		w.evHandler("worker: consensusTask: busy, skipped")
		return
	}
	defer w.resolving.Store(false)

	if w.isShutdown() {
		return
	}

	replaced := w.state.Resolve(w.ctx)
	w.evHandler("worker: consensusTask: replaced[%v]", replaced)
}
