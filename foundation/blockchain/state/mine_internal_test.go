package state

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// cancelWorker records mining cancellation signals.
type cancelWorker struct {
	cancels atomic.Int32
	cancel  context.CancelFunc
}

func (w *cancelWorker) Shutdown()                          {}
func (w *cancelWorker) SignalShareTx(tx database.SignedTx) {}
func (w *cancelWorker) SignalCancelMining() {
	w.cancels.Add(1)
	w.cancel()
}

func Test_MinedOnReplacedTip(t *testing.T) {
	const difficulty = 1
	ev := func(v string, args ...any) {}

	// Neighbour chain of three blocks.
	chain := []database.Block{database.Genesis()}
	for len(chain) < 3 {
		trans := []database.Tx{database.NewTx(genesis.DefaultMiningSender, "peer-miner", 1)}
		prevHash := chain[len(chain)-1].Hash()

		nonce, err := database.POW(context.Background(), trans, prevHash, difficulty, ev)
		if err != nil {
			t.Fatalf("Should be able to mine the neighbour chain: %s", err)
		}
		chain = append(chain, database.NewBlock(trans, nonce, prevHash))
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"chain": chain})
	}))
	defer srv.Close()

	ps := peer.NewPeerSet()
	ps.Add(peer.New(strings.TrimPrefix(srv.URL, "http://")))

	gen := genesis.Default()
	gen.Difficulty = difficulty

	s, err := New(Config{MinerAddress: "miner", Host: "127.0.0.1:9080", Genesis: gen, KnownPeers: ps})
	if err != nil {
		t.Fatalf("Should be able to construct the ledger: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := cancelWorker{cancel: cancel}
	s.Worker = &worker

	// Snapshot taken against genesis, then the chain is replaced.
	job := s.startMining()

	if n := s.mempool.Count(); n != 1 {
		t.Fatalf("Should have the reward pending, got %d.", n)
	}

	if !s.Resolve(context.Background()) {
		t.Fatalf("Should replace the local chain with the neighbour chain.")
	}

	if n := worker.cancels.Load(); n != 1 {
		t.Fatalf("Should signal the mining run to cancel once, got %d.", n)
	}

	if ctx.Err() == nil {
		t.Fatalf("Should cancel the mining context.")
	}

	nonce, err := database.POW(context.Background(), job.trans, job.prevHash, difficulty, ev)
	if err != nil {
		t.Fatalf("Should be able to solve the snapshot: %s", err)
	}

	if _, err := s.finishMining(job, nonce); !errors.Is(err, ErrStaleChainTip) {
		t.Fatalf("Should get back ErrStaleChainTip, got %v.", err)
	}

	if n := s.mempool.Count(); n != 0 {
		t.Fatalf("Should withdraw the reward from the pool, got %d pending.", n)
	}

	if n := s.RetrieveChainLength(); n != 3 {
		t.Fatalf("Should keep the neighbour chain, got %d blocks.", n)
	}

	if s.RetrieveLatestBlock().Hash() != chain[2].Hash() {
		t.Fatalf("Should not append the stale block.")
	}
}
