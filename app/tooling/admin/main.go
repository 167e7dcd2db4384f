// This program performs administrative tasks for the ledger nodes.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/ledger/app/tooling/admin/commands"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/logger"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		if !errors.Is(err, commands.ErrHelp) {
			log.Errorw("admin", "ERROR", err)
		}
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Args        conf.Args
		NodeURL     string        `conf:"default:http://localhost:8080"`
		GenesisPath string        `conf:"help:genesis file with the chain parameters to validate against"`
		WalletsPath string        `conf:"default:zblock/wallets/"`
		Timeout     time.Duration `conf:"default:30s"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "ledger admin tool",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	gen := genesis.Default()
	if cfg.GenesisPath != "" {
		if gen, err = genesis.Load(cfg.GenesisPath); err != nil {
			return fmt.Errorf("loading genesis: %w", err)
		}
	}

	ns, err := nameservice.New(cfg.WalletsPath)
	if err != nil {
		return fmt.Errorf("loading wallet names: %w", err)
	}

	node := commands.NewNode(cfg.NodeURL, cfg.Timeout)

	return processCommands(cfg.Args, log, node, ns, gen)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, log *zap.SugaredLogger, node *commands.Node, ns *nameservice.NameService, gen genesis.Genesis) error {
	switch args.Num(0) {
	case "genesis":
		if err := commands.Genesis(os.Stdout, args.Num(1)); err != nil {
			return fmt.Errorf("writing genesis: %w", err)
		}
	case "bals":
		if err := commands.Balances(os.Stdout, node, ns, args.Num(1)); err != nil {
			return fmt.Errorf("getting balances: %w", err)
		}
	case "trans":
		if err := commands.Transactions(os.Stdout, node, ns, args.Num(1)); err != nil {
			return fmt.Errorf("getting transactions: %w", err)
		}
	case "validate":
		if err := commands.Validate(os.Stdout, node, gen); err != nil {
			return fmt.Errorf("validating chain: %w", err)
		}
	default:
		fmt.Println("genesis <path>:   write the default chain parameters to the file")
		fmt.Println("bals [address]:   show the confirmed balances held by the node")
		fmt.Println("trans [address]:  show the confirmed transactions held by the node")
		fmt.Println("validate:         check the node's chain against the chain parameters")
		return commands.ErrHelp
	}

	log.Infow("admin", "status", "completed", "command", args.Num(0))

	return nil
}
