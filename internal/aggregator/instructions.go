package aggregator

import (
	"solana-governance-kit/internal/address"
	"solana-governance-kit/internal/borsh"
)

type CreateRootArgs struct {
	MaxProposalLifetime uint64
}

type SetMaxProposalLifetimeArgs struct {
	NewMaxProposalLifetime uint64
}

type SetVoterWeightResetArgs struct {
	NewStep          uint64
	NewNextResetTime *int64
}

// OwnerArgs is the argument of create-clan and set-clan-owner.
type OwnerArgs struct {
	Owner address.PublicKey
}

type ResizeClanArgs struct {
	Size uint32
}

type SetClanNameArgs struct {
	Name string
}

type SetClanDescriptionArgs struct {
	Description string
}

type JoinClanArgs struct {
	// ShareBp is the share of the member's weight given to the clan, in basis points.
	ShareBp uint16
}

type SetVotingDelegateArgs struct {
	NewVotingDelegate address.PublicKey
}

var (
	createRootLayout = borsh.Struct(
		borsh.F("max_proposal_lifetime", func(a *CreateRootArgs) *uint64 { return &a.MaxProposalLifetime }, u64Layout),
	)

	setMaxProposalLifetimeLayout = borsh.Struct(
		borsh.F("new_max_proposal_lifetime", func(a *SetMaxProposalLifetimeArgs) *uint64 { return &a.NewMaxProposalLifetime }, u64Layout),
	)

	setVoterWeightResetLayout = borsh.Struct(
		borsh.F("new_step", func(a *SetVoterWeightResetArgs) *uint64 { return &a.NewStep }, u64Layout),
		borsh.F("new_next_reset_time", func(a *SetVoterWeightResetArgs) **int64 { return &a.NewNextResetTime }, optI64),
	)

	ownerLayout = borsh.Struct(
		borsh.F("owner", func(a *OwnerArgs) *address.PublicKey { return &a.Owner }, keyLayout),
	)

	resizeClanLayout = borsh.Struct(
		borsh.F("size", func(a *ResizeClanArgs) *uint32 { return &a.Size }, u32Layout),
	)

	setClanNameLayout = borsh.Struct(
		borsh.F("name", func(a *SetClanNameArgs) *string { return &a.Name }, stringLayout),
	)

	setClanDescriptionLayout = borsh.Struct(
		borsh.F("description", func(a *SetClanDescriptionArgs) *string { return &a.Description }, stringLayout),
	)

	joinClanLayout = borsh.Struct(
		borsh.F("share_bp", func(a *JoinClanArgs) *uint16 { return &a.ShareBp }, u16Layout),
	)

	setVotingDelegateLayout = borsh.Struct(
		borsh.F("new_voting_delegate", func(a *SetVotingDelegateArgs) *address.PublicKey { return &a.NewVotingDelegate }, keyLayout),
	)
)
