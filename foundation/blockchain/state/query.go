package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// QueryBalance returns the confirmed balance for the address: the sum of
// values received minus the sum of values sent across every block.
func (s *State) QueryBalance(address string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balance(address)
}

// balance walks the chain. The caller must hold the mutex.
func (s *State) balance(address string) float64 {
	return database.Balance(s.chain, address)
}

// =============================================================================

// RetrieveChain returns a copy of the chain.
func (s *State) RetrieveChain() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chain := make([]database.Block, len(s.chain))
	copy(chain, s.chain)

	return chain
}

// RetrieveChainLength returns the number of blocks including genesis.
func (s *State) RetrieveChainLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.chain)
}

// RetrieveLatestBlock returns the tip of the chain.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain[len(s.chain)-1]
}

// RetrieveMempool returns a copy of the pending transactions in arrival
// order.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// RetrieveGenesis returns the chain parameters.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveMinerAddress returns the address mining rewards are paid to.
func (s *State) RetrieveMinerAddress() string {
	return s.minerAddress
}

// RetrieveHost returns the address this node is reachable on.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveKnownPeers retrieves a copy of the neighbour list excluding
// this node.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// RetrieveStatus summarizes the node for its neighbours.
func (s *State) RetrieveStatus() peer.PeerStatus {
	s.mu.RLock()
	latest := s.chain[len(s.chain)-1]
	length := len(s.chain)
	s.mu.RUnlock()

	return peer.PeerStatus{
		LatestBlockHash: latest.Hash(),
		ChainLength:     length,
		PoolLength:      s.mempool.Count(),
		Neighbours:      s.RetrieveKnownPeers(),
	}
}
