package cmd

import (
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	w, err := wallet.Load(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("For Address:", w.Address())

	var resp amountResponse
	path := "/v1/amount?blockchain_address=" + url.QueryEscape(w.Address())
	if err := call(http.MethodGet, path, nil, &resp); err != nil {
		log.Fatal(err)
	}

	fmt.Println(resp.Amount)
}
