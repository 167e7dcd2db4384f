package state

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the ledger's Prometheus collectors. They are not registered
// here so several ledgers can live in one process during tests.
type metrics struct {
	txAdmitted     prometheus.Counter
	txRejected     *prometheus.CounterVec
	blocksAppended prometheus.Counter
	blocksMined    prometheus.Counter
	miningStale    prometheus.Counter
	chainsReplaced prometheus.Counter
	chainLength    prometheus.GaugeFunc
	poolLength     prometheus.GaugeFunc
}

func newMetrics(s *State) *metrics {
	return &metrics{
		txAdmitted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_transactions_admitted_total",
				Help: "Number of transactions admitted to the pool",
			},
		),
		txRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transactions_rejected_total",
				Help: "Number of transactions refused admission",
			},
			[]string{"reason"},
		),
		blocksAppended: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_blocks_appended_total",
				Help: "Number of blocks appended to the local chain",
			},
		),
		blocksMined: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_blocks_mined_total",
				Help: "Number of blocks mined by this node",
			},
		),
		miningStale: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_mining_stale_total",
				Help: "Number of mined blocks dropped because the chain tip moved",
			},
		),
		chainsReplaced: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_chains_replaced_total",
				Help: "Number of times a neighbour chain replaced the local chain",
			},
		),
		chainLength: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "ledger_chain_length",
				Help: "Number of blocks in the local chain",
			},
			func() float64 { return float64(s.RetrieveChainLength()) },
		),
		poolLength: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "ledger_pool_length",
				Help: "Number of pending transactions",
			},
			func() float64 { return float64(s.mempool.Count()) },
		),
	}
}

// Collectors returns the ledger's metrics for registration.
func (s *State) Collectors() []prometheus.Collector {
	m := s.metrics

	return []prometheus.Collector{
		m.txAdmitted,
		m.txRejected,
		m.blocksAppended,
		m.blocksMined,
		m.miningStale,
		m.chainsReplaced,
		m.chainLength,
		m.poolLength,
	}
}
