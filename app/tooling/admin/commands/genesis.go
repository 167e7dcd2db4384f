package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
)

// Genesis writes the default chain parameters to the specified file so they
// can be tuned and shared by every node in the network.
func Genesis(w io.Writer, path string) error {
	if path == "" {
		return fmt.Errorf("path to the genesis file is required")
	}

	data, err := json.MarshalIndent(genesis.Default(), "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	fmt.Fprintf(w, "genesis written to %s\n", path)

	return nil
}
