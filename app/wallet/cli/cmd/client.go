package cmd

import (
	"fmt"
	"net/http"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

type chainResponse struct {
	Chain []database.Block `json:"chain"`
}

type poolResponse struct {
	Transactions []database.Tx `json:"transactions"`
	Length       int           `json:"length"`
}

type amountResponse struct {
	Amount float64 `json:"amount"`
}

// call performs the request against the node and decodes the result.
func call(method string, path string, body any, result any) error {
	var er errs.Response

	req := client.R().
		SetResult(result).
		SetError(&er).
		ForceContentType("application/json")

	if body != nil {
		req = req.SetBody(body)
	}

	resp, err := req.Execute(method, nodeURL+path)
	if err != nil {
		return err
	}

	if resp.IsError() {
		if er.Error != "" {
			return fmt.Errorf("%s: %s", http.StatusText(resp.StatusCode()), er.Error)
		}
		return fmt.Errorf("%s", resp.Status())
	}

	return nil
}
