package commands

import (
	"fmt"
	"io"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
)

// Validate checks every block of the node's chain links to its parent and
// carries a solved proof for the chain parameters.
func Validate(w io.Writer, n *Node, gen genesis.Genesis) error {
	chain, err := n.Chain()
	if err != nil {
		return err
	}

	if err := database.ValidateChain(chain, gen.Difficulty); err != nil {
		return err
	}

	fmt.Fprintf(w, "chain of %d blocks is valid at difficulty %d\n", len(chain), gen.Difficulty)

	return nil
}
