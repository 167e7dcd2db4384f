package state

import (
	"context"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Resolve asks every neighbour for its chain and adopts the longest valid
// one that is strictly longer than the local chain. It reports whether the
// local chain was replaced. Unreachable neighbours are skipped.
func (s *State) Resolve(ctx context.Context) bool {
	s.evHandler("state: Resolve: started")
	defer s.evHandler("state: Resolve: completed")

	maxLength := s.RetrieveChainLength()

	var longest []database.Block
	for _, pr := range s.RetrieveKnownPeers() {
		if ctx.Err() != nil {
			break
		}

		chain, err := s.NetRequestPeerChain(ctx, pr)
		if err != nil {
			s.evHandler("state: Resolve: peer[%s]: WARNING: %s", pr, err)
			continue
		}

		if len(chain) > maxLength && s.ValidateChain(chain) {
			maxLength = len(chain)
			longest = chain
		}
	}

	if longest == nil {
		s.evHandler("state: Resolve: chain not replaced")
		return false
	}

	s.mu.Lock()

	// The local chain may have grown while the neighbours were queried.
	if local := len(s.chain); len(longest) <= local {
		s.mu.Unlock()
		s.evHandler("state: Resolve: chain not replaced: local grew to[%d]", local)
		return false
	}

	s.chain = longest
	s.mu.Unlock()

	// Any block being mined now builds on a replaced tip.
	s.Worker.SignalCancelMining()

	s.evHandler("viewer: chain: replaced: length[%d]", len(longest))
	s.metrics.chainsReplaced.Inc()

	return true
}
