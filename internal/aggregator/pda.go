package aggregator

import (
	"solana-governance-kit/internal/address"
	"solana-governance-kit/internal/governance"
)

// DefaultProgramID is the vote-aggregator deployment.
var DefaultProgramID = address.MustParsePublicKey("VoTaGDreyne7jk59uwbgRRbaAzxvNbyNipaJMrRXhjT")

func find(program address.PublicKey, seed string, keys ...address.PublicKey) (address.PublicKey, uint8, error) {
	seeds := make([][]byte, 0, len(keys)+1)
	seeds = append(seeds, []byte(seed))
	for _, k := range keys {
		seeds = append(seeds, k.Bytes())
	}
	return address.FindProgramAddress(seeds, program)
}

// RootAddress derives the root of a realm's governing mint.
func RootAddress(program, realm, mint address.PublicKey) (address.PublicKey, uint8, error) {
	return find(program, "root", realm, mint)
}

func MaxVoterWeightAddress(program, root address.PublicKey) (address.PublicKey, uint8, error) {
	return find(program, "max-voter-weight", root)
}

// VoterAuthorityAddress derives the clan's signing authority, which owns the
// clan's token owner record.
func VoterAuthorityAddress(program, clan address.PublicKey) (address.PublicKey, uint8, error) {
	return find(program, "voter-authority", clan)
}

// ClanVoterWeightAddress derives the voter-weight record a clan votes with.
func ClanVoterWeightAddress(program, clan address.PublicKey) (address.PublicKey, uint8, error) {
	return find(program, "voter-weight", clan)
}

func MemberAddress(program, root, owner address.PublicKey) (address.PublicKey, uint8, error) {
	return find(program, "member", root, owner)
}

func LockAuthorityAddress(program, root address.PublicKey) (address.PublicKey, uint8, error) {
	return find(program, "lock-authority", root)
}

// ClanTokenOwnerRecordAddress derives the governance token owner record a
// clan votes through. Its owner is the clan's voter authority.
func ClanTokenOwnerRecordAddress(program, governanceProgram, clan, realm, mint address.PublicKey) (address.PublicKey, error) {
	authority, _, err := VoterAuthorityAddress(program, clan)
	if err != nil {
		return address.PublicKey{}, err
	}
	record, _, err := governance.TokenOwnerRecordAddress(governanceProgram, realm, mint, authority)
	return record, err
}
