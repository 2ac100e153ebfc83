package ledger

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// Seed transactions are compiled into the binary. The dataset is static:
// there is no backend to fetch from, and the store never persists across
// restarts.
//
//go:embed transactions.json
var seedData []byte

// LoadSeed decodes and validates the embedded seed transactions
func LoadSeed() ([]Transaction, error) {
	var records []Transaction
	if err := json.Unmarshal(seedData, &records); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}

	for i := range records {
		if err := records[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid seed record at index %d: %w", i, err)
		}
	}

	return records, nil
}
