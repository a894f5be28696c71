package voterweight

import (
	"solana-governance-kit/internal/aggregator"
)

// Retag returns a copy of data in which a legacy voter-weight discriminator
// is replaced by the Anchor one, so both generations decode as the same
// record. Other buffers are copied unchanged. data is never modified.
func Retag(data []byte) []byte {
	out := append([]byte(nil), data...)
	if aggregator.LegacyVoterWeightRecordDiscriminator.Matches(out) {
		copy(out, aggregator.VoterWeightRecordDiscriminator)
	}
	return out
}
