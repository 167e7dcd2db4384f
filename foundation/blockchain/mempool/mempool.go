// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Mempool represents the ordered set of admitted transactions that have not
// been mined yet. Identical transactions may sit in the pool more than once.
type Mempool struct {
	pool []database.Tx
	mu   sync.RWMutex
}

// New constructs a new empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Append adds a transaction to the end of the pool.
func (mp *Mempool) Append(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Copy returns a snapshot of the pool in admission order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	copy(cpy, mp.pool)

	return cpy
}

// Delete removes one occurrence of every specified transaction from the pool.
// Transactions not found are ignored and the order of what remains is kept.
func (mp *Mempool) Delete(txs []database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	remove := make(map[database.Tx]int, len(txs))
	for _, tx := range txs {
		remove[tx]++
	}

	keep := make([]database.Tx, 0, len(mp.pool))
	for _, tx := range mp.pool {
		if remove[tx] > 0 {
			remove[tx]--
			continue
		}
		keep = append(keep, tx)
	}

	mp.pool = keep
}

// DeleteLast removes the most recently appended occurrence of the transaction.
func (mp *Mempool) DeleteLast(tx database.Tx) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for i := len(mp.pool) - 1; i >= 0; i-- {
		if mp.pool[i] == tx {
			mp.pool = append(mp.pool[:i], mp.pool[i+1:]...)
			return true
		}
	}

	return false
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
