package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/app/services/node/handlers"
	"github.com/ardanlabs/ledger/business/web/metrics"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/ledger/foundation/blockchain/worker"
	"github.com/ardanlabs/ledger/foundation/events"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

type node struct {
	state   *state.State
	public  http.Handler
	private http.Handler
	miner   *wallet.Wallet
}

func newNode(t *testing.T) node {
	miner, err := wallet.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to create the miner wallet: %v", failed, err)
	}

	gen := genesis.Default()
	gen.Difficulty = 1

	st, err := state.New(state.Config{
		MinerAddress: miner.Address(),
		Host:         "127.0.0.1:9080",
		Genesis:      gen,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the ledger: %v", failed, err)
	}

	w, err := worker.Run(st, worker.Config{
		MiningInterval: time.Hour,
		SyncInterval:   time.Hour,
		ConsensusSpec:  "@every 1h",
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to start the worker: %v", failed, err)
	}
	t.Cleanup(func() { st.Shutdown() })

	cfg := handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		Worker:   w,
		Evts:     events.New(),
		Metrics:  metrics.New(),
	}

	return node{
		state:   st,
		public:  handlers.PublicMux(cfg),
		private: handlers.PrivateMux(cfg),
		miner:   miner,
	}
}

func do(h http.Handler, method string, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(method, url, &buf)
	h.ServeHTTP(w, r)

	return w
}

// =============================================================================

func Test_PublicAPI(t *testing.T) {
	t.Log("Given the need to drive the ledger through the public API.")
	{
		n := newNode(t)

		w := do(n.public, http.MethodGet, "/v1/mine", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("\t%s\tShould be able to mine a block: %d %s", failed, w.Code, w.Body)
		}
		t.Logf("\t%s\tShould be able to mine a block.", success)

		w = do(n.public, http.MethodGet, "/v1/amount?blockchain_address="+n.miner.Address(), nil)
		var amt struct {
			Amount float64 `json:"amount"`
		}
		json.NewDecoder(w.Body).Decode(&amt)
		if w.Code != http.StatusOK || amt.Amount != genesis.DefaultMiningReward {
			t.Fatalf("\t%s\tShould credit the miner with the reward: %d %v", failed, w.Code, amt.Amount)
		}
		t.Logf("\t%s\tShould credit the miner with the reward.", success)

		tx, err := n.miner.SignTx("bob", 0.5)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign a transaction: %v", failed, err)
		}

		w = do(n.public, http.MethodPost, "/v1/transactions", tx)
		if w.Code != http.StatusCreated {
			t.Fatalf("\t%s\tShould accept a funded transaction: %d %s", failed, w.Code, w.Body)
		}
		t.Logf("\t%s\tShould accept a funded transaction.", success)

		tx, _ = n.miner.SignTx("bob", 100)
		w = do(n.public, http.MethodPost, "/v1/transactions", tx)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould refuse an unfunded transaction: %d %s", failed, w.Code, w.Body)
		}
		t.Logf("\t%s\tShould refuse an unfunded transaction.", success)

		w = do(n.public, http.MethodPost, "/v1/transactions", database.SignedTx{Tx: database.NewTx("a", "", 1)})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould refuse a malformed transaction: %d %s", failed, w.Code, w.Body)
		}
		t.Logf("\t%s\tShould refuse a malformed transaction.", success)

		w = do(n.public, http.MethodGet, "/v1/transactions", nil)
		var pool struct {
			Transactions []database.Tx `json:"transactions"`
			Length       int           `json:"length"`
		}
		json.NewDecoder(w.Body).Decode(&pool)
		if pool.Length != 1 || len(pool.Transactions) != 1 || pool.Transactions[0].Recipient != "bob" {
			t.Fatalf("\t%s\tShould list the pending transaction: %+v", failed, pool)
		}
		t.Logf("\t%s\tShould list the pending transaction.", success)

		w = do(n.public, http.MethodPut, "/v1/consensus", nil)
		var cons struct {
			Replaced bool `json:"replaced"`
		}
		json.NewDecoder(w.Body).Decode(&cons)
		if w.Code != http.StatusOK || cons.Replaced {
			t.Fatalf("\t%s\tShould not replace the chain without neighbours: %d", failed, w.Code)
		}
		t.Logf("\t%s\tShould not replace the chain without neighbours.", success)

		w = do(n.public, http.MethodDelete, "/v1/transactions", nil)
		if w.Code != http.StatusOK || len(n.state.RetrieveMempool()) != 0 {
			t.Fatalf("\t%s\tShould clear the pool: %d", failed, w.Code)
		}
		t.Logf("\t%s\tShould clear the pool.", success)

		w = do(n.public, http.MethodGet, "/v1/amount", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould require an address: %d", failed, w.Code)
		}
		t.Logf("\t%s\tShould require an address.", success)
	}
}

func Test_PrivateAPI(t *testing.T) {
	t.Log("Given the need to serve neighbours through the private API.")
	{
		n := newNode(t)

		w := do(n.private, http.MethodGet, "/v1/node/chain", nil)
		var resp struct {
			Chain []database.Block `json:"chain"`
		}
		json.NewDecoder(w.Body).Decode(&resp)
		if w.Code != http.StatusOK || len(resp.Chain) != 1 {
			t.Fatalf("\t%s\tShould serve the genesis chain: %d", failed, w.Code)
		}
		t.Logf("\t%s\tShould serve the genesis chain.", success)

		reward := database.SignedTx{Tx: database.NewTx(genesis.DefaultMiningSender, "mallory", 1)}
		w = do(n.private, http.MethodPut, "/v1/node/transactions", reward)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould refuse a forged reward: %d %s", failed, w.Code, w.Body)
		}
		t.Logf("\t%s\tShould refuse a forged reward.", success)

		w = do(n.private, http.MethodGet, "/v1/node/status", nil)
		var status struct {
			LatestBlockHash string `json:"latest_block_hash"`
			ChainLength     int    `json:"chain_length"`
		}
		json.NewDecoder(w.Body).Decode(&status)
		if status.ChainLength != 1 || status.LatestBlockHash != n.state.RetrieveLatestBlock().Hash() {
			t.Fatalf("\t%s\tShould report the node status: %+v", failed, status)
		}
		t.Logf("\t%s\tShould report the node status.", success)

		w = do(n.private, http.MethodDelete, "/v1/node/transactions", nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("\t%s\tShould clear the pool: %d", failed, w.Code)
		}
		t.Logf("\t%s\tShould clear the pool.", success)
	}
}
