package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/olekukonko/tablewriter"
)

// Balances prints the confirmed balance of every address, or only the
// specified one.
func Balances(w io.Writer, n *Node, ns *nameservice.NameService, address string) error {
	chain, err := n.Chain()
	if err != nil {
		return err
	}

	if len(chain) == 0 {
		return fmt.Errorf("node returned an empty chain")
	}

	fmt.Fprintf(w, "LatestBlockHash: %s\n\n", chain[len(chain)-1].Hash())

	bals := database.Balances(chain)
	if address != "" {
		bals = map[string]float64{address: database.Balance(chain, address)}
	}

	addresses := make([]string, 0, len(bals))
	for addr := range bals {
		addresses = append(addresses, addr)
	}
	sort.Strings(addresses)

	data := make([][]string, 0, len(addresses))
	for _, addr := range addresses {
		data = append(data, []string{ns.Lookup(addr), fmt.Sprint(bals[addr])})
	}

	table := tablewriter.NewTable(w)
	table.Header([]string{"Address", "Balance"})
	table.Bulk(data)

	return table.Render()
}
