package library

import (
	_ "embed"
	"fmt"
)

//go:embed seed/library.yaml
var seedDocument []byte

// SeedReader returns a MemoryReader over the embedded development snapshot.
func SeedReader() (*MemoryReader, error) {
	snap, err := ParseSnapshot(seedDocument)
	if err != nil {
		return nil, fmt.Errorf("seed library: %w", err)
	}
	return NewMemoryReader(snap), nil
}
