package cmd

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Print the node's pending transactions",
	Run:   poolRun,
}

func init() {
	rootCmd.AddCommand(poolCmd)
}

func poolRun(cmd *cobra.Command, args []string) {
	var resp poolResponse
	if err := call(http.MethodGet, "/v1/transactions", nil, &resp); err != nil {
		log.Fatal(err)
	}

	ns, err := nameservice.New(walletPath)
	if err != nil {
		log.Fatal(err)
	}

	data := make([][]string, 0, resp.Length)
	for _, tx := range resp.Transactions {
		data = append(data, []string{ns.Lookup(tx.Sender), ns.Lookup(tx.Recipient), fmt.Sprint(tx.Value)})
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"Sender", "Recipient", "Value"})
	table.Bulk(data)
	table.Render()
}
