package indexer

import (
	"solana-governance-kit/internal/address"
	"solana-governance-kit/internal/codec"
)

// Targets lists the account records of family owned by program. Records
// without a discriminator are left out since a size alone cannot single
// them out.
func Targets(c *codec.Catalog, family codec.Family, program address.PublicKey) []Target {
	var targets []Target
	for _, name := range c.AccountNames(family) {
		qf, err := c.QueryFilter(name)
		if err != nil || len(qf.Memcmp) == 0 {
			continue
		}
		targets = append(targets, Target{Program: program, Record: name})
	}
	return targets
}
