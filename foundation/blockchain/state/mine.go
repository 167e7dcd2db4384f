package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ErrStaleChainTip is returned when the chain moved on while a block was
// being mined.
var ErrStaleChainTip = errors.New("chain tip changed during mining")

// =============================================================================

// MineNewBlock admits the mining reward, solves the proof of work for a
// snapshot of the pool outside the lock, and appends the block if the
// chain tip is still the one the snapshot was taken against.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: started")
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	job := s.startMining()

	s.evHandler("state: MineNewBlock: MINING: perform POW: trans[%d]", len(job.trans))

	// Attempt to solve the POW puzzle. This can be cancelled.
	nonce, err := database.POW(ctx, job.trans, job.prevHash, s.genesis.Difficulty, s.evHandler)
	if err != nil {
		s.withdrawReward(job.reward)
		return database.Block{}, fmt.Errorf("pow: %w", err)
	}

	return s.finishMining(job, nonce)
}

// =============================================================================

// miningJob is the snapshot a block is mined against.
type miningJob struct {
	reward   database.Tx
	trans    []database.Tx
	prevHash string
}

// startMining admits the reward and snapshots the pool and the chain tip.
func (s *State) startMining() miningJob {
	reward := database.NewTx(s.genesis.MiningSender, s.minerAddress, s.genesis.MiningReward)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.mempool.Append(reward)

	return miningJob{
		reward:   reward,
		trans:    s.mempool.Copy(),
		prevHash: s.chain[len(s.chain)-1].Hash(),
	}
}

// finishMining appends the solved block unless the chain tip moved since
// the snapshot, in which case the reward is withdrawn.
func (s *State) finishMining(job miningJob, nonce uint64) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chain[len(s.chain)-1].Hash() != job.prevHash {
		s.mempool.DeleteLast(job.reward)
		s.metrics.miningStale.Inc()
		s.evHandler("state: MineNewBlock: MINING: WARNING: chain tip moved, block dropped")
		return database.Block{}, ErrStaleChainTip
	}

	block := s.appendBlock(database.NewBlock(job.trans, nonce, job.prevHash))

	s.evHandler("viewer: block: mined: nonce[%d] hash[%s]", block.Nonce, block.Hash())
	s.metrics.blocksMined.Inc()

	return block, nil
}

// withdrawReward removes the reward added for an abandoned mining run.
func (s *State) withdrawReward(reward database.Tx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mempool.DeleteLast(reward)
}
