// Package genesis maintains access to the chain parameters every node in a
// network must agree on.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
)

// Default chain parameters.
const (
	DefaultDifficulty   = 3
	DefaultMiningReward = 1.0
	DefaultMiningSender = "THE BLOCKCHAIN"
)

// Genesis represents the genesis file.
type Genesis struct {
	Difficulty   int     `json:"difficulty"`    // Number of leading hex zeros a block hash needs.
	MiningReward float64 `json:"mining_reward"` // Reward for mining a block.
	MiningSender string  `json:"mining_sender"` // Reserved sender identity for mining rewards.
}

// Default returns the parameters used when no genesis file is provided.
func Default() Genesis {
	return Genesis{
		Difficulty:   DefaultDifficulty,
		MiningReward: DefaultMiningReward,
		MiningSender: DefaultMiningSender,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Fields missing from the file
// keep their default values.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the parameters are usable.
func (g Genesis) Validate() error {
	if g.Difficulty < 0 || g.Difficulty > 64 {
		return fmt.Errorf("difficulty %d out of range [0, 64]", g.Difficulty)
	}

	if g.MiningReward < 0 {
		return fmt.Errorf("mining reward %g is negative", g.MiningReward)
	}

	if g.MiningSender == "" {
		return fmt.Errorf("mining sender is required")
	}

	return nil
}
