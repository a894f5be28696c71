// Package voterweight resolves which voter-weight record a governing token
// owner votes with when a plugin holds several.
package voterweight

import (
	"solana-governance-kit/internal/address"
	"solana-governance-kit/internal/aggregator"
)

// Candidate is a decoded voter-weight record and the address it was read from.
type Candidate struct {
	Address address.PublicKey
	Record  aggregator.VoterWeightRecord
}

// Select picks the authoritative record among candidates in input order.
//
// Records scoped to an action or an action target are ignored. A record
// whose expiry is later than the best so far replaces it regardless of
// weight, and a never-expiring record beats any expiring one. Among equal
// expiries the strictly larger weight wins, so the first of equal records
// stays. The running best starts as an expiry of zero with zero weight,
// which means a zero-weight record expiring at zero is never selected.
func Select(candidates []Candidate, owner, plugin address.PublicKey) (Candidate, error) {
	var (
		best      *Candidate
		maxExpiry = new(int64)
		maxPower  uint64
	)

	for i := range candidates {
		c := &candidates[i]
		rec := &c.Record
		if rec.WeightAction != nil || rec.WeightActionTarget != nil {
			continue
		}

		expiry := rec.VoterWeightExpiry
		switch {
		case expiry == nil && maxExpiry != nil,
			expiry != nil && maxExpiry != nil && *expiry > *maxExpiry:
			best, maxExpiry, maxPower = c, expiry, rec.VoterWeight
		case expiry == nil && maxExpiry == nil,
			expiry != nil && maxExpiry != nil && *expiry == *maxExpiry:
			if rec.VoterWeight > maxPower {
				best, maxPower = c, rec.VoterWeight
			}
		}
	}

	if best == nil {
		return Candidate{}, &NoWeightRecordFoundError{Owner: owner, Plugin: plugin}
	}
	return *best, nil
}
