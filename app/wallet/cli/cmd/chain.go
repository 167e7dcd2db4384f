package cmd

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the node's chain",
	Run:   chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
}

func chainRun(cmd *cobra.Command, args []string) {
	var resp chainResponse
	if err := call(http.MethodGet, "/v1/chain", nil, &resp); err != nil {
		log.Fatal(err)
	}

	data := make([][]string, 0, len(resp.Chain))
	for i, block := range resp.Chain {
		data = append(data, []string{
			fmt.Sprint(i),
			time.Unix(int64(block.TimeStamp), 0).UTC().Format(time.RFC3339),
			fmt.Sprint(len(block.Transactions)),
			fmt.Sprint(block.Nonce),
			block.Hash(),
		})
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"Index", "Time", "Txs", "Nonce", "Hash"})
	table.Bulk(data)
	table.Render()
}
