package database

import (
	"context"
	"strings"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/codec"
	"github.com/dustin/go-humanize"
)

// Block represents a group of transactions batched together.
type Block struct {
	TimeStamp    uint64 `json:"timestamp"`     // Time the block was created.
	Transactions []Tx   `json:"transactions"`  // Pool snapshot the block was mined over.
	Nonce        uint64 `json:"nonce"`         // Value identified to solve the hash solution.
	PrevHash     string `json:"previous_hash"` // Hash of the previous block in the chain.
}

// NewBlock constructs a block stamped with the current time.
func NewBlock(trans []Tx, nonce uint64, prevHash string) Block {
	return Block{
		TimeStamp:    uint64(time.Now().UTC().Unix()),
		Transactions: normalize(trans),
		Nonce:        nonce,
		PrevHash:     prevHash,
	}
}

// Genesis constructs the first block of a chain. It carries no transactions,
// a zero nonce, and the hash of an empty map as its previous hash.
func Genesis() Block {
	return NewBlock(nil, 0, codec.Hash(map[string]any{}))
}

// Hash returns the unique hash for the Block.
func (b Block) Hash() string {
	return codec.Hash(b)
}

// =============================================================================

// proof is the subset of a block the POW puzzle is solved over.
type proof struct {
	Transactions []Tx   `json:"transactions"`
	Nonce        uint64 `json:"nonce"`
	PrevHash     string `json:"previous_hash"`
}

// IsValidProof recomputes the hash of the transactions, nonce and previous
// hash and checks it starts with difficulty zero characters.
func IsValidProof(trans []Tx, prevHash string, nonce uint64, difficulty int) bool {
	guess := proof{
		Transactions: normalize(trans),
		Nonce:        nonce,
		PrevHash:     prevHash,
	}

	return isHashSolved(difficulty, codec.Hash(guess))
}

// POW performs the work of mining to find the first nonce, counting up from
// zero, that solves the puzzle for the transactions and previous hash. The
// search is only bounded by the context.
func POW(ctx context.Context, trans []Tx, prevHash string, difficulty int, ev func(v string, args ...any)) (uint64, error) {
	ev("database: POW: MINING: started: txs[%d]", len(trans))
	defer ev("database: POW: MINING: completed")

	t := time.Now()

	var nonce uint64
	for {
		if nonce > 0 && nonce%1_000_000 == 0 {
			ev("database: POW: MINING: attempts[%s]", humanize.Comma(int64(nonce)))
		}

		// Did we get asked to stop trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: POW: MINING: CANCELLED")
			return 0, ctx.Err()
		}

		if IsValidProof(trans, prevHash, nonce, difficulty) {
			ev("database: POW: MINING: SOLVED: prevBlk[%s]: nonce[%d]: took[%s]", prevHash, nonce, time.Since(t))
			return nonce, nil
		}

		nonce++
	}
}

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty int, hash string) bool {
	if difficulty < 0 || difficulty > len(hash) {
		return false
	}

	return hash[:difficulty] == strings.Repeat("0", difficulty)
}

// normalize makes sure an empty transaction list is encoded as an empty
// array and never as null.
func normalize(trans []Tx) []Tx {
	if trans == nil {
		return []Tx{}
	}
	return trans
}
