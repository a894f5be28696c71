// Package schema holds the process-wide catalog of every known record.
package schema

import (
	"sync"

	"solana-governance-kit/internal/aggregator"
	"solana-governance-kit/internal/codec"
	"solana-governance-kit/internal/governance"
)

var (
	once    sync.Once
	catalog *codec.Catalog
)

// Catalog returns the catalog of the governance and aggregator families.
// It is built on first use and must not be registered into afterwards.
func Catalog() *codec.Catalog {
	once.Do(func() {
		catalog = codec.NewCatalog()
		governance.Register(catalog)
		aggregator.Register(catalog)
	})
	return catalog
}

// IdentifyInstruction returns the family's instruction whose discriminator
// prefixes data.
func IdentifyInstruction(c *codec.Catalog, family codec.Family, data []byte) (string, bool) {
	for _, name := range c.InstructionNames(family) {
		ix, err := c.Instruction(name)
		if err == nil && ix.Discriminator().Matches(data) {
			return name, true
		}
	}
	return "", false
}
