package state_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/discovery"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const difficulty = 2

func newState(t *testing.T, miner string, knownPeers *peer.PeerSet) *state.State {
	gen := genesis.Genesis{
		Difficulty:   difficulty,
		MiningReward: 10,
		MiningSender: genesis.DefaultMiningSender,
	}

	st, err := state.New(state.Config{
		MinerAddress: miner,
		Host:         "127.0.0.1:9080",
		Genesis:      gen,
		KnownPeers:   knownPeers,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the ledger: %v", failed, err)
	}

	return st
}

func newWallet(t *testing.T) *wallet.Wallet {
	w, err := wallet.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a wallet: %v", failed, err)
	}
	return w
}

func fund(t *testing.T, st *state.State, address string, value float64) {
	reward := database.SignedTx{Tx: database.NewTx(genesis.DefaultMiningSender, address, value)}
	if err := st.AddTransaction(reward); err != nil {
		t.Fatalf("\t%s\tShould be able to admit a reward: %v", failed, err)
	}
	mine(t, st)
}

// mine appends the pending transactions with a valid proof.
func mine(t *testing.T, st *state.State) {
	prevHash := st.RetrieveLatestBlock().Hash()

	nonce, err := database.POW(context.Background(), st.RetrieveMempool(), prevHash, difficulty, func(string, ...any) {})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to solve the proof: %v", failed, err)
	}

	st.CreateBlock(nonce, prevHash)
}

func signTx(t *testing.T, w *wallet.Wallet, recipient string, value float64) database.SignedTx {
	tx, err := w.SignTx(recipient, value)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to sign a transaction: %v", failed, err)
	}
	return tx
}

// mineChain builds a valid chain with the specified number of blocks.
func mineChain(t *testing.T, length int) []database.Block {
	chain := []database.Block{database.Genesis()}

	for len(chain) < length {
		trans := []database.Tx{database.NewTx(genesis.DefaultMiningSender, "peer-miner", 10)}
		prevHash := chain[len(chain)-1].Hash()

		nonce, err := database.POW(context.Background(), trans, prevHash, difficulty, func(string, ...any) {})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
		}

		chain = append(chain, database.NewBlock(trans, nonce, prevHash))
	}

	return chain
}

// chainServer serves the chain the way a node's private API does.
func chainServer(chain []database.Block) *httptest.Server {
	h := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/node/chain" {
			http.NotFound(w, r)
			return
		}

		resp := struct {
			Chain []database.Block `json:"chain"`
		}{
			Chain: chain,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}

	return httptest.NewServer(http.HandlerFunc(h))
}

func hostOf(srv *httptest.Server) string {
	return strings.TrimPrefix(srv.URL, "http://")
}

// =============================================================================

func Test_Balance(t *testing.T) {
	t.Log("Given the need to compute balances from the chain.")
	{
		a := newWallet(t)
		b := newWallet(t)
		st := newState(t, a.Address(), nil)

		fund(t, st, a.Address(), 10)

		if err := st.AddTransaction(signTx(t, a, b.Address(), 5)); err != nil {
			t.Fatalf("\t%s\tShould be able to admit A->B: %v", failed, err)
		}
		mine(t, st)

		if err := st.AddTransaction(signTx(t, b, a.Address(), 2)); err != nil {
			t.Fatalf("\t%s\tShould be able to admit B->A: %v", failed, err)
		}
		mine(t, st)

		if got := st.QueryBalance(a.Address()); got != 7 {
			t.Fatalf("\t%s\tShould have a balance of 7 for A, got %g.", failed, got)
		}
		t.Logf("\t%s\tShould have a balance of 7 for A.", success)

		if got := st.QueryBalance(b.Address()); got != 3 {
			t.Fatalf("\t%s\tShould have a balance of 3 for B, got %g.", failed, got)
		}
		t.Logf("\t%s\tShould have a balance of 3 for B.", success)

		if got := st.QueryBalance("unknown"); got != 0 {
			t.Fatalf("\t%s\tShould have a zero balance for an unknown address, got %g.", failed, got)
		}
		t.Logf("\t%s\tShould have a zero balance for an unknown address.", success)
	}
}

func Test_Admission(t *testing.T) {
	a := newWallet(t)
	b := newWallet(t)

	type table struct {
		name string
		tx   func() database.SignedTx
		err  error
	}

	tt := []table{
		{
			name: "valid",
			tx:   func() database.SignedTx { return signTx(t, a, b.Address(), 4) },
		},
		{
			name: "exactbalance",
			tx:   func() database.SignedTx { return signTx(t, a, b.Address(), 10) },
		},
		{
			name: "insufficient",
			tx:   func() database.SignedTx { return signTx(t, a, b.Address(), 10.5) },
			err:  state.ErrInsufficientBalance,
		},
		{
			name: "unfunded",
			tx:   func() database.SignedTx { return signTx(t, b, a.Address(), 1) },
			err:  state.ErrInsufficientBalance,
		},
		{
			name: "tampered",
			tx: func() database.SignedTx {
				tx := signTx(t, a, b.Address(), 1)
				tx.Value = 2
				return tx
			},
			err: state.ErrInvalidSignature,
		},
		{
			name: "wrongkey",
			tx: func() database.SignedTx {
				tx := signTx(t, a, b.Address(), 1)
				tx.PublicKey = b.PublicKeyHex()
				return tx
			},
			err: state.ErrInvalidSignature,
		},
		{
			name: "negative",
			tx:   func() database.SignedTx { return signTx(t, a, b.Address(), -1) },
			err:  state.ErrInvalidValue,
		},
		{
			name: "reward",
			tx: func() database.SignedTx {
				return database.SignedTx{Tx: database.NewTx(genesis.DefaultMiningSender, b.Address(), 1000)}
			},
		},
	}

	t.Log("Given the need to admit transactions to the pool.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s transaction.", testID, tst.name)
			{
				f := func(t *testing.T) {
					st := newState(t, a.Address(), nil)
					fund(t, st, a.Address(), 10)

					err := st.AddTransaction(tst.tx())
					if !errors.Is(err, tst.err) {
						t.Fatalf("\t%s\tTest %d:\tShould get back %v, got %v.", failed, testID, tst.err, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get back %v.", success, testID, tst.err)

					exp := 0
					if tst.err == nil {
						exp = 1
					}
					if got := len(st.RetrieveMempool()); got != exp {
						t.Fatalf("\t%s\tTest %d:\tShould have %d pending transactions, got %d.", failed, testID, exp, got)
					}
					t.Logf("\t%s\tTest %d:\tShould have %d pending transactions.", success, testID, exp)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_PendingNotCounted(t *testing.T) {
	t.Log("Given two spends that together exceed the confirmed balance.")
	{
		a := newWallet(t)
		b := newWallet(t)
		st := newState(t, a.Address(), nil)
		fund(t, st, a.Address(), 10)

		for i := range 2 {
			if err := st.AddTransaction(signTx(t, a, b.Address(), 6)); err != nil {
				t.Fatalf("\t%s\tShould admit spend %d against the confirmed balance: %v", failed, i, err)
			}
		}
		t.Logf("\t%s\tShould admit both spends against the confirmed balance.", success)
	}
}

func Test_SubmitReservedSender(t *testing.T) {
	st := newState(t, "miner", nil)

	tx := database.SignedTx{Tx: database.NewTx(genesis.DefaultMiningSender, "someone", 50)}

	if err := st.SubmitWalletTransaction(tx); !errors.Is(err, state.ErrReservedSender) {
		t.Fatalf("Should refuse a wallet transaction from the mining sender, got %v.", err)
	}

	if err := st.SubmitNodeTransaction(tx); !errors.Is(err, state.ErrReservedSender) {
		t.Fatalf("Should refuse a node transaction from the mining sender, got %v.", err)
	}

	if n := len(st.RetrieveMempool()); n != 0 {
		t.Fatalf("Should leave the pool empty, got %d.", n)
	}
}

func Test_CreateBlock(t *testing.T) {
	t.Log("Given the need to append a block with the pending transactions.")
	{
		st := newState(t, "miner", nil)

		reward := database.SignedTx{Tx: database.NewTx(genesis.DefaultMiningSender, "x", 1)}
		st.AddTransaction(reward)

		prevHash := st.RetrieveLatestBlock().Hash()
		block := st.CreateBlock(42, prevHash)

		if block.Nonce != 42 || block.PrevHash != prevHash || len(block.Transactions) != 1 {
			t.Fatalf("\t%s\tShould build the block from the arguments and pool: %+v", failed, block)
		}
		t.Logf("\t%s\tShould build the block from the arguments and pool.", success)

		if st.RetrieveChainLength() != 2 || len(st.RetrieveMempool()) != 0 {
			t.Fatalf("\t%s\tShould append the block and empty the pool.", failed)
		}
		t.Logf("\t%s\tShould append the block and empty the pool.", success)

		if st.RetrieveLatestBlock().Hash() != block.Hash() {
			t.Fatalf("\t%s\tShould make the block the new tip.", failed)
		}
		t.Logf("\t%s\tShould make the block the new tip.", success)
	}
}

func Test_MineNewBlock(t *testing.T) {
	t.Log("Given the need to mine the pending transactions.")
	{
		a := newWallet(t)
		b := newWallet(t)
		st := newState(t, a.Address(), nil)
		fund(t, st, a.Address(), 10)

		t1 := signTx(t, a, b.Address(), 3)
		t2 := signTx(t, a, b.Address(), 2)
		st.AddTransaction(t1)
		st.AddTransaction(t2)

		prevHash := st.RetrieveLatestBlock().Hash()

		block, err := st.MineNewBlock(context.Background())
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine a block.", success)

		exp := []database.Tx{t1.Tx, t2.Tx, database.NewTx(genesis.DefaultMiningSender, a.Address(), 10)}
		if len(block.Transactions) != len(exp) {
			t.Fatalf("\t%s\tShould carry %d transactions, got %d.", failed, len(exp), len(block.Transactions))
		}
		for i := range exp {
			if block.Transactions[i] != exp[i] {
				t.Logf("\t%s\tgot: %s", failed, block.Transactions[i])
				t.Logf("\t%s\texp: %s", failed, exp[i])
				t.Fatalf("\t%s\tShould carry the transactions in arrival order with the reward last.", failed)
			}
		}
		t.Logf("\t%s\tShould carry the transactions in arrival order with the reward last.", success)

		if block.PrevHash != prevHash || !st.IsValidProof(block.Transactions, block.PrevHash, block.Nonce) {
			t.Fatalf("\t%s\tShould link to the previous tip with a valid proof.", failed)
		}
		t.Logf("\t%s\tShould link to the previous tip with a valid proof.", success)

		if len(st.RetrieveMempool()) != 0 {
			t.Fatalf("\t%s\tShould empty the pool.", failed)
		}
		t.Logf("\t%s\tShould empty the pool.", success)

		if !st.ValidateChain(st.RetrieveChain()) {
			t.Fatalf("\t%s\tShould keep the local chain valid.", failed)
		}
		t.Logf("\t%s\tShould keep the local chain valid.", success)

		if got := st.QueryBalance(a.Address()); got != 15 {
			t.Fatalf("\t%s\tShould credit the miner, got %g.", failed, got)
		}
		t.Logf("\t%s\tShould credit the miner.", success)
	}
}

func Test_MineCancelled(t *testing.T) {
	st := newState(t, "miner", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := st.MineNewBlock(ctx); err == nil {
		t.Fatalf("Should fail to mine with a cancelled context.")
	}

	if n := len(st.RetrieveMempool()); n != 0 {
		t.Fatalf("Should withdraw the reward from the pool, got %d pending.", n)
	}

	if st.RetrieveChainLength() != 1 {
		t.Fatalf("Should leave the chain untouched.")
	}
}

func Test_Resolve(t *testing.T) {
	short := chainServer(mineChain(t, 2))
	defer short.Close()

	long := chainServer(mineChain(t, 5))
	defer long.Close()

	invalid := mineChain(t, 5)
	invalid[3].PrevHash = strings.Repeat("f", 64)
	bad := chainServer(invalid)
	defer bad.Close()

	type table struct {
		name     string
		local    int
		peers    []string
		replaced bool
		length   int
	}

	tt := []table{
		{name: "longest", local: 1, peers: []string{hostOf(short), hostOf(long)}, replaced: true, length: 5},
		{name: "invalid", local: 1, peers: []string{hostOf(bad)}, replaced: false, length: 1},
		{name: "skipinvalid", local: 1, peers: []string{hostOf(bad), hostOf(short)}, replaced: true, length: 2},
		{name: "equal", local: 2, peers: []string{hostOf(short)}, replaced: false, length: 2},
		{name: "unreachable", local: 1, peers: []string{"127.0.0.1:1", hostOf(short)}, replaced: true, length: 2},
		{name: "nopeers", local: 1, replaced: false, length: 1},
		{name: "grownlocal", local: 3, peers: []string{hostOf(short), hostOf(long)}, replaced: true, length: 5},
		{name: "grownlocalinvalid", local: 3, peers: []string{hostOf(bad)}, replaced: false, length: 3},
		{name: "grownlocalshorter", local: 3, peers: []string{hostOf(short)}, replaced: false, length: 3},
	}

	t.Log("Given the need to adopt the longest valid neighbour chain.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling the %s case.", testID, tst.name)
			{
				f := func(t *testing.T) {
					ps := peer.NewPeerSet()
					for _, host := range tst.peers {
						ps.Add(peer.New(host))
					}

					st := newState(t, "miner", ps)
					for st.RetrieveChainLength() < tst.local {
						fund(t, st, "miner", 1)
					}

					got := st.Resolve(context.Background())
					if got != tst.replaced {
						t.Fatalf("\t%s\tTest %d:\tShould get back replaced %v, got %v.", failed, testID, tst.replaced, got)
					}
					t.Logf("\t%s\tTest %d:\tShould get back replaced %v.", success, testID, tst.replaced)

					if n := st.RetrieveChainLength(); n != tst.length {
						t.Fatalf("\t%s\tTest %d:\tShould have a chain of %d blocks, got %d.", failed, testID, tst.length, n)
					}
					t.Logf("\t%s\tTest %d:\tShould have a chain of %d blocks.", success, testID, tst.length)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_RefreshNeighbours(t *testing.T) {
	st, err := state.New(state.Config{
		MinerAddress: "miner",
		Host:         "127.0.0.1:9080",
		Genesis:      genesis.Default(),
		Discovery:    discovery.Static{Hosts: []string{"127.0.0.1:9080", "127.0.0.1:9081", "127.0.0.2:9080"}},
	})
	if err != nil {
		t.Fatalf("Should be able to construct the ledger: %s", err)
	}

	if err := st.RefreshNeighbours(context.Background()); err != nil {
		t.Fatalf("Should be able to refresh the neighbours: %s", err)
	}

	peers := st.RetrieveKnownPeers()
	if len(peers) != 2 || peers[0].Host != "127.0.0.1:9081" || peers[1].Host != "127.0.0.2:9080" {
		t.Logf("got: %v", peers)
		t.Fatalf("Should get back every neighbour except this node.")
	}
}

func Test_Concurrency(t *testing.T) {
	st := newState(t, "miner", nil)

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				tx := database.SignedTx{Tx: database.NewTx(genesis.DefaultMiningSender, "miner", float64(w*perWriter+i))}
				st.AddTransaction(tx)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 20 {
			st.CreateBlock(0, st.RetrieveLatestBlock().Hash())
		}
	}()

	wg.Wait()

	total := len(st.RetrieveMempool())
	for _, block := range st.RetrieveChain() {
		total += len(block.Transactions)
	}

	if total != writers*perWriter {
		t.Fatalf("Should account for every transaction exactly once, got %d exp %d.", total, writers*perWriter)
	}
}

func Test_ClearPool(t *testing.T) {
	st := newState(t, "miner", nil)
	st.AddTransaction(database.SignedTx{Tx: database.NewTx(genesis.DefaultMiningSender, "x", 1)})

	st.ClearPool()

	if n := len(st.RetrieveMempool()); n != 0 {
		t.Fatalf("Should empty the pool, got %d.", n)
	}
}
