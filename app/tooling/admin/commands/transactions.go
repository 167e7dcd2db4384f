package commands

import (
	"fmt"
	"io"

	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/olekukonko/tablewriter"
)

// Transactions prints every confirmed transaction, or only the ones the
// specified address takes part in.
func Transactions(w io.Writer, n *Node, ns *nameservice.NameService, address string) error {
	chain, err := n.Chain()
	if err != nil {
		return err
	}

	var data [][]string
	for i, block := range chain {
		for _, tx := range block.Transactions {
			if address != "" && tx.Sender != address && tx.Recipient != address {
				continue
			}
			data = append(data, []string{fmt.Sprint(i), ns.Lookup(tx.Sender), ns.Lookup(tx.Recipient), fmt.Sprint(tx.Value)})
		}
	}

	table := tablewriter.NewTable(w)
	table.Header([]string{"Block", "Sender", "Recipient", "Value"})
	table.Bulk(data)

	return table.Render()
}
