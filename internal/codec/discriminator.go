package codec

import (
	"bytes"
	"crypto/sha256"
)

// Family identifies an on-chain program's discriminator space.
type Family string

const (
	// FamilyGovernance uses a one-byte account-type enum and one-byte instruction tags.
	FamilyGovernance Family = "spl-governance"
	// FamilyAggregator uses Anchor's eight-byte hash-derived tags.
	FamilyAggregator Family = "vote-aggregator"
)

// AnchorDiscriminatorLength is the width of Anchor account and instruction tags.
const AnchorDiscriminatorLength = 8

// Discriminator is the leading tag of an account or instruction buffer.
type Discriminator []byte

// Matches reports whether data starts with d.
func (d Discriminator) Matches(data []byte) bool {
	return len(data) >= len(d) && bytes.Equal(data[:len(d)], d)
}

// Tag returns a single-byte discriminator.
func Tag(b uint8) Discriminator {
	return Discriminator{b}
}

// AnchorAccount returns sha256("account:<name>")[:8].
func AnchorAccount(name string) Discriminator {
	return anchorHash("account:" + name)
}

// AnchorInstruction returns sha256("global:<name>")[:8] for a snake_case
// instruction name.
func AnchorInstruction(name string) Discriminator {
	return anchorHash("global:" + name)
}

func anchorHash(preimage string) Discriminator {
	sum := sha256.Sum256([]byte(preimage))
	out := make(Discriminator, AnchorDiscriminatorLength)
	copy(out, sum[:AnchorDiscriminatorLength])
	return out
}
