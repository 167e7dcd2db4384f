package public

import "github.com/ardanlabs/ledger/foundation/blockchain/database"

type message struct {
	Message string `json:"message"`
}

type chain struct {
	Chain []database.Block `json:"chain"`
}

type mempool struct {
	Transactions []database.Tx `json:"transactions"`
	Length       int           `json:"length"`
}

type mined struct {
	Message string         `json:"message"`
	Block   database.Block `json:"block"`
}

type consensus struct {
	Replaced bool `json:"replaced"`
}

type amount struct {
	Amount float64 `json:"amount"`
}
