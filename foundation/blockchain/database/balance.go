package database

// Balance returns the sum of values received minus the sum of values sent
// by the address across every block of the chain.
func Balance(chain []Block, address string) float64 {
	var total float64

	for _, block := range chain {
		for _, tx := range block.Transactions {
			if tx.Recipient == address {
				total += tx.Value
			}
			if tx.Sender == address {
				total -= tx.Value
			}
		}
	}

	return total
}

// Balances computes the balance of every address that appears in the chain.
func Balances(chain []Block) map[string]float64 {
	bals := make(map[string]float64)

	for _, block := range chain {
		for _, tx := range block.Transactions {
			bals[tx.Recipient] += tx.Value
			bals[tx.Sender] -= tx.Value
		}
	}

	return bals
}
