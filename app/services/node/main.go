package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/ledger/app/services/node/handlers"
	"github.com/ardanlabs/ledger/business/web/metrics"
	"github.com/ardanlabs/ledger/foundation/blockchain/discovery"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/ledger/foundation/blockchain/worker"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// This is all the configuration for the application and the default values.
	// Configuration values will be passed through the application as individual
	// values.
	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10m"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
			PrivateHost     string        `conf:"default:0.0.0.0:9080"`
		}
		State struct {
			MinerKeyPath string        `conf:"default:zblock/miner.ecdsa"`
			GenesisPath  string        `conf:"help:optional genesis file overriding the chain parameters"`
			KnownPeers   []string      `conf:"help:static neighbour list used instead of scanning"`
			PeerTimeout  time.Duration `conf:"default:5s"`
			AutoMine     bool          `conf:"default:true"`
		}
		Scheduler struct {
			MiningInterval time.Duration `conf:"default:20s"`
			SyncInterval   time.Duration `conf:"default:20s"`
			ConsensusSpec  string        `conf:"default:@every 1m"`
		}
		Discovery struct {
			IPRangeStart   int           `conf:"default:0"`
			IPRangeEnd     int           `conf:"default:1"`
			PortRangeStart int           `conf:"default:9080"`
			PortRangeEnd   int           `conf:"default:9083"`
			DialTimeout    time.Duration `conf:"default:1s"`
		}
		Log struct {
			File       string `conf:"help:rotating log file written next to stdout"`
			MaxSizeMB  int    `conf:"default:100"`
			MaxBackups int    `conf:"default:3"`
			MaxAgeDays int    `conf:"default:28"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "proof of work ledger node",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// Switch to the rotating file logger when one is configured.
	if cfg.Log.File != "" {
		fileLog, err := logger.NewWithFile("NODE", logger.FileConfig{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		})
		if err != nil {
			return fmt.Errorf("constructing file logger: %w", err)
		}
		defer fileLog.Sync()
		log = fileLog
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Ledger Support

	// Load the chain parameters every node in the network must agree on.
	gen := genesis.Default()
	if cfg.State.GenesisPath != "" {
		if gen, err = genesis.Load(cfg.State.GenesisPath); err != nil {
			return fmt.Errorf("unable to load genesis file: %w", err)
		}
	}
	log.Infow("startup", "status", "genesis", "difficulty", gen.Difficulty, "reward", gen.MiningReward)

	// Need the miner wallet so the node can get credited with mining rewards.
	// A new wallet is created on first start.
	miner, err := loadMiner(cfg.State.MinerKeyPath)
	if err != nil {
		return fmt.Errorf("unable to load miner wallet: %w", err)
	}
	log.Infow("startup", "status", "miner", "address", miner.Address())

	// The address neighbours reach this node on, so it can be excluded
	// from its own neighbour list.
	_, portStr, err := net.SplitHostPort(cfg.Web.PrivateHost)
	if err != nil {
		return fmt.Errorf("parsing private host: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("parsing private port: %w", err)
	}
	localIP := discovery.LocalHost()
	self := net.JoinHostPort(localIP, portStr)

	// The blockchain packages accept a function of this signature to allow the
	// application to log. For now, these raw messages are sent to any websocket
	// client that is connected into the system through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	// A peer set is the collection of neighbours transactions, pool clears
	// and consensus signals are sent to.
	peerSet := peer.NewPeerSet()

	var provider discovery.Provider
	switch {
	case len(cfg.State.KnownPeers) > 0:
		for _, host := range cfg.State.KnownPeers {
			peerSet.Add(peer.New(host))
		}
		provider = discovery.Static{Hosts: cfg.State.KnownPeers}

	default:
		provider = discovery.Scanner{
			Host:           localIP,
			Port:           port,
			IPRangeStart:   cfg.Discovery.IPRangeStart,
			IPRangeEnd:     cfg.Discovery.IPRangeEnd,
			PortRangeStart: cfg.Discovery.PortRangeStart,
			PortRangeEnd:   cfg.Discovery.PortRangeEnd,
			DialTimeout:    cfg.Discovery.DialTimeout,
		}
	}

	// The state value represents the ledger node and manages the chain and
	// pool and provides an API for application support.
	st, err := state.New(state.Config{
		MinerAddress: miner.Address(),
		Host:         self,
		Genesis:      gen,
		KnownPeers:   peerSet,
		Discovery:    provider,
		PeerTimeout:  cfg.State.PeerTimeout,
		EvHandler:    ev,
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	// The worker package implements the background workflows such as mining,
	// neighbour refresh, fork choice and transaction sharing. The worker will
	// register itself with the state.
	wrk, err := worker.Run(st, worker.Config{
		MiningInterval: cfg.Scheduler.MiningInterval,
		SyncInterval:   cfg.Scheduler.SyncInterval,
		ConsensusSpec:  cfg.Scheduler.ConsensusSpec,
		AutoMine:       cfg.State.AutoMine,
		EvHandler:      ev,
	})
	if err != nil {
		return err
	}

	// =========================================================================
	// Metrics Support

	webMetrics := metrics.New()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reg.MustRegister(st.Collectors()...)
	reg.MustRegister(webMetrics.Collectors()...)

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	// The Debug function returns a mux to listen and serve on for all the debug
	// related endpoints. This includes the standard library endpoints.

	// Construct the mux for the debug calls.
	debugMux := handlers.DebugMux(build, log, reg)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	muxCfg := handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
		Worker:   wrk,
		Evts:     evts,
		Metrics:  webMetrics,
	}

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	// Construct a server to service the requests against the mux. The write
	// timeout covers a synchronous mining request.
	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      handlers.PublicMux(muxCfg),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Start Private Service

	log.Infow("startup", "status", "initializing V1 private API support")

	// Construct a server to service the requests against the mux.
	private := http.Server{
		Addr:         cfg.Web.PrivateHost,
		Handler:      handlers.PrivateMux(muxCfg),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "private api router started", "host", private.Addr)
		serverErrors <- private.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancelPri := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPri()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown private API started")
		if err := private.Shutdown(ctx); err != nil {
			private.Close()
			return fmt.Errorf("could not stop private service gracefully: %w", err)
		}

		// Give outstanding requests a deadline for completion.
		ctx, cancelPub := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPub()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}

// loadMiner reads the miner wallet from disk, creating and saving a new
// one when the file does not exist.
func loadMiner(path string) (*wallet.Wallet, error) {
	w, err := wallet.Load(path)
	if err == nil {
		return w, nil
	}

	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if w, err = wallet.New(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	if err := w.Save(path); err != nil {
		return nil, err
	}

	return w, nil
}
