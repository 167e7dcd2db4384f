// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"errors"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/discovery"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/go-resty/resty/v2"
)

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining, neighbour updates, and transaction
// sharing.
type Worker interface {
	Shutdown()
	SignalCancelMining()
	SignalShareTx(tx database.SignedTx)
}

// =============================================================================

// Config represents the configuration required to start the ledger.
type Config struct {
	MinerAddress string
	Host         string
	Genesis      genesis.Genesis
	KnownPeers   *peer.PeerSet
	Discovery    discovery.Provider
	PeerTimeout  time.Duration
	EvHandler    EventHandler
}

// State manages the chain and the transaction pool. The mutex guards the
// chain and every pool mutation that depends on it.
type State struct {
	minerAddress string
	host         string
	evHandler    EventHandler

	mu    sync.RWMutex
	chain []database.Block

	genesis    genesis.Genesis
	mempool    *mempool.Mempool
	knownPeers *peer.PeerSet
	discovery  discovery.Provider
	client     *resty.Client
	metrics    *metrics

	Worker Worker
}

// New constructs a ledger holding only the genesis block.
func New(cfg Config) (*State, error) {
	if cfg.MinerAddress == "" {
		return nil, errors.New("miner address is required")
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	provider := cfg.Discovery
	if provider == nil {
		provider = discovery.Static{}
	}

	timeout := cfg.PeerTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	state := State{
		minerAddress: cfg.MinerAddress,
		host:         cfg.Host,
		evHandler:    ev,
		chain:        []database.Block{database.Genesis()},

		genesis:    cfg.Genesis,
		mempool:    mempool.New(),
		knownPeers: knownPeers,
		discovery:  provider,
		client:     resty.New().SetTimeout(timeout),

		// The Worker is not set here. The call to worker.Run will assign
		// itself and start everything up and running for the node.
		Worker: nopWorker{},
	}

	state.metrics = newMetrics(&state)

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all ledger writing activity.
	s.Worker.Shutdown()

	return nil
}

// =============================================================================

// nopWorker is used until a real worker is attached.
type nopWorker struct{}

func (nopWorker) Shutdown()                          {}
func (nopWorker) SignalCancelMining()                {}
func (nopWorker) SignalShareTx(tx database.SignedTx) {}
