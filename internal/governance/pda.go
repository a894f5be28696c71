package governance

import (
	"solana-governance-kit/internal/address"
)

// DefaultProgramID is the SPL governance deployment used by the aggregator.
var DefaultProgramID = address.MustParsePublicKey("GovER5Lthms3bLBqWub97yVrMmEogzX7xNjdXpPPCVZw")

const (
	governanceSeed  = "governance"
	realmConfigSeed = "realm-config"
)

// TokenOwnerRecordAddress derives the deposit record of owner in realm for
// the governing mint.
func TokenOwnerRecordAddress(program, realm, mint, owner address.PublicKey) (address.PublicKey, uint8, error) {
	return address.FindProgramAddress([][]byte{
		[]byte(governanceSeed), realm.Bytes(), mint.Bytes(), owner.Bytes(),
	}, program)
}

// TokenHoldingAddress derives the realm's token holding account for mint.
func TokenHoldingAddress(program, realm, mint address.PublicKey) (address.PublicKey, uint8, error) {
	return address.FindProgramAddress([][]byte{
		[]byte(governanceSeed), realm.Bytes(), mint.Bytes(),
	}, program)
}

// RealmConfigAddress derives the realm's config account.
func RealmConfigAddress(program, realm address.PublicKey) (address.PublicKey, uint8, error) {
	return address.FindProgramAddress([][]byte{
		[]byte(realmConfigSeed), realm.Bytes(),
	}, program)
}
