package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// CreateBlock appends a block carrying every pending transaction, linked
// by prevHash and sealed by nonce, and empties the pool. The nonce is not
// checked here.
func (s *State) CreateBlock(nonce uint64, prevHash string) database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	trans := s.mempool.Copy()

	return s.appendBlock(database.NewBlock(trans, nonce, prevHash))
}

// IsValidProof reports whether the nonce solves the puzzle for the
// transactions and parent hash at the ledger's difficulty.
func (s *State) IsValidProof(trans []database.Tx, prevHash string, nonce uint64) bool {
	return database.IsValidProof(trans, prevHash, nonce, s.genesis.Difficulty)
}

// ValidateChain reports whether every block after genesis links to its
// parent and carries a valid proof at the ledger's difficulty.
func (s *State) ValidateChain(chain []database.Block) bool {
	if err := database.ValidateChain(chain, s.genesis.Difficulty); err != nil {
		s.evHandler("state: ValidateChain: %s", err)
		return false
	}

	return true
}

// =============================================================================

// appendBlock adds the block to the chain and removes the block's
// transactions from the pool. The caller must hold the mutex.
func (s *State) appendBlock(block database.Block) database.Block {
	s.chain = append(s.chain, block)
	s.mempool.Delete(block.Transactions)

	s.evHandler("viewer: block: appended: length[%d] hash[%s] trans[%d]", len(s.chain), block.Hash(), len(block.Transactions))
	s.metrics.blocksAppended.Inc()

	return block
}
