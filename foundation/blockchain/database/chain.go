package database

import "fmt"

// ValidateChain walks the chain from the block after genesis and checks that
// every block links to the hash of its parent and carries a solved proof at
// the specified difficulty. The genesis block is trusted as given.
func ValidateChain(chain []Block, difficulty int) error {
	if len(chain) == 0 {
		return fmt.Errorf("empty chain")
	}

	prevBlock := chain[0]
	for i := 1; i < len(chain); i++ {
		block := chain[i]

		if hash := prevBlock.Hash(); block.PrevHash != hash {
			return fmt.Errorf("block[%d]: parent block hash doesn't match, got %s, exp %s", i, block.PrevHash, hash)
		}

		if !IsValidProof(block.Transactions, block.PrevHash, block.Nonce, difficulty) {
			return fmt.Errorf("block[%d]: invalid proof of work, nonce %d", i, block.Nonce)
		}

		prevBlock = block
	}

	return nil
}

// IsValidChain is the boolean form of ValidateChain.
func IsValidChain(chain []Block, difficulty int) bool {
	return ValidateChain(chain, difficulty) == nil
}
