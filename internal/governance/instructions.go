package governance

import (
	"solana-governance-kit/internal/address"
	"solana-governance-kit/internal/borsh"
)

// Instruction tags, in program order.
const (
	IxCreateRealm uint8 = iota
	IxDepositGoverningTokens
	IxWithdrawGoverningTokens
	IxSetGovernanceDelegate
	IxCreateGovernance
	IxCreateProgramGovernance
	IxCreateProposal
	IxAddSignatory
	IxInsertTransaction
	IxRemoveTransaction
	IxCancelProposal
	IxSignOffProposal
	IxCastVote
	IxFinalizeVote
	IxRelinquishVote
	IxExecuteTransaction
	IxCreateMintGovernance
	IxCreateTokenGovernance
	IxSetGovernanceConfig
	IxFlagTransactionError
	IxSetRealmAuthority
	IxSetRealmConfig
	IxCreateTokenOwnerRecord
	IxCreateNativeTreasury
	IxRevokeGoverningTokens
	IxRefundProposalDeposit
	IxCompleteProposal
	IxAddRequiredSignatory
	IxRemoveRequiredSignatory
	IxSetTokenOwnerRecordLock
	IxRemoveTokenOwnerRecordLock
	IxSetRealmConfigItem
)

type GoverningTokenConfigArgs struct {
	UseVoterWeightAddin    bool
	UseMaxVoterWeightAddin bool
	TokenType              GoverningTokenType
}

type RealmConfigArgs struct {
	UseCouncilMint                       bool
	MinCommunityWeightToCreateGovernance uint64
	CommunityMintMaxVoterWeightSource    MintMaxVoterWeightSource
	CommunityTokenConfigArgs             GoverningTokenConfigArgs
	CouncilTokenConfigArgs               GoverningTokenConfigArgs
}

type CreateRealmArgs struct {
	Name       string
	ConfigArgs RealmConfigArgs
}

type AmountArgs struct {
	Amount uint64
}

type SetGovernanceDelegateArgs struct {
	NewGovernanceDelegate *address.PublicKey
}

type GovernanceConfigArgs struct {
	Config GovernanceConfig
}

type CreateProgramGovernanceArgs struct {
	Config                   GovernanceConfig
	TransferUpgradeAuthority bool
}

type CreateMintGovernanceArgs struct {
	Config                  GovernanceConfig
	TransferMintAuthorities bool
}

type CreateTokenGovernanceArgs struct {
	Config                     GovernanceConfig
	TransferAccountAuthorities bool
}

type CreateProposalArgs struct {
	Name            string
	DescriptionLink string
	VoteType        VoteType
	Options         []string
	UseDenyOption   bool
	ProposalSeed    address.PublicKey
}

type SignatoryArgs struct {
	Signatory address.PublicKey
}

type InsertTransactionArgs struct {
	OptionIndex  uint8
	Index        uint16
	HoldUpTime   uint32
	Instructions []InstructionData
}

type CastVoteArgs struct {
	Vote Vote
}

type SetRealmAuthorityArgs struct {
	Action SetRealmAuthorityAction
}

type SetRealmConfigArgs struct {
	ConfigArgs RealmConfigArgs
}

type SetTokenOwnerRecordLockArgs struct {
	LockType uint8
	Expiry   *int64
}

type RemoveTokenOwnerRecordLockArgs struct {
	LockType uint8
}

type SetRealmConfigItemArgs struct {
	Item RealmConfigItem
}

var (
	governingTokenConfigArgsLayout = borsh.Struct(
		borsh.F("use_voter_weight_addin", func(a *GoverningTokenConfigArgs) *bool { return &a.UseVoterWeightAddin }, boolLayout),
		borsh.F("use_max_voter_weight_addin", func(a *GoverningTokenConfigArgs) *bool { return &a.UseMaxVoterWeightAddin }, boolLayout),
		borsh.F("token_type", func(a *GoverningTokenConfigArgs) *GoverningTokenType { return &a.TokenType }, tokenTypeLayout),
	)

	realmConfigArgsLayout = borsh.Struct(
		borsh.F("use_council_mint", func(a *RealmConfigArgs) *bool { return &a.UseCouncilMint }, boolLayout),
		borsh.F("min_community_weight_to_create_governance", func(a *RealmConfigArgs) *uint64 { return &a.MinCommunityWeightToCreateGovernance }, u64Layout),
		borsh.F("community_mint_max_voter_weight_source", func(a *RealmConfigArgs) *MintMaxVoterWeightSource { return &a.CommunityMintMaxVoterWeightSource }, maxVoterWeightSourceLayout),
		borsh.F("community_token_config_args", func(a *RealmConfigArgs) *GoverningTokenConfigArgs { return &a.CommunityTokenConfigArgs }, governingTokenConfigArgsLayout),
		borsh.F("council_token_config_args", func(a *RealmConfigArgs) *GoverningTokenConfigArgs { return &a.CouncilTokenConfigArgs }, governingTokenConfigArgsLayout),
	)

	createRealmLayout = borsh.Struct(
		borsh.F("name", func(a *CreateRealmArgs) *string { return &a.Name }, stringLayout),
		borsh.F("config_args", func(a *CreateRealmArgs) *RealmConfigArgs { return &a.ConfigArgs }, realmConfigArgsLayout),
	)

	amountLayout = borsh.Struct(
		borsh.F("amount", func(a *AmountArgs) *uint64 { return &a.Amount }, u64Layout),
	)

	setGovernanceDelegateLayout = borsh.Struct(
		borsh.F("new_governance_delegate", func(a *SetGovernanceDelegateArgs) **address.PublicKey { return &a.NewGovernanceDelegate }, optKeyLayout),
	)

	governanceConfigArgsLayout = borsh.Struct(
		borsh.F("config", func(a *GovernanceConfigArgs) *GovernanceConfig { return &a.Config }, governanceConfigLayout),
	)

	createProgramGovernanceLayout = borsh.Struct(
		borsh.F("config", func(a *CreateProgramGovernanceArgs) *GovernanceConfig { return &a.Config }, governanceConfigLayout),
		borsh.F("transfer_upgrade_authority", func(a *CreateProgramGovernanceArgs) *bool { return &a.TransferUpgradeAuthority }, boolLayout),
	)

	createMintGovernanceLayout = borsh.Struct(
		borsh.F("config", func(a *CreateMintGovernanceArgs) *GovernanceConfig { return &a.Config }, governanceConfigLayout),
		borsh.F("transfer_mint_authorities", func(a *CreateMintGovernanceArgs) *bool { return &a.TransferMintAuthorities }, boolLayout),
	)

	createTokenGovernanceLayout = borsh.Struct(
		borsh.F("config", func(a *CreateTokenGovernanceArgs) *GovernanceConfig { return &a.Config }, governanceConfigLayout),
		borsh.F("transfer_account_authorities", func(a *CreateTokenGovernanceArgs) *bool { return &a.TransferAccountAuthorities }, boolLayout),
	)

	createProposalLayout = borsh.Struct(
		borsh.F("name", func(a *CreateProposalArgs) *string { return &a.Name }, stringLayout),
		borsh.F("description_link", func(a *CreateProposalArgs) *string { return &a.DescriptionLink }, stringLayout),
		borsh.F("vote_type", func(a *CreateProposalArgs) *VoteType { return &a.VoteType }, voteTypeLayout),
		borsh.F("options", func(a *CreateProposalArgs) *[]string { return &a.Options }, borsh.Vec(stringLayout)),
		borsh.F("use_deny_option", func(a *CreateProposalArgs) *bool { return &a.UseDenyOption }, boolLayout),
		borsh.F("proposal_seed", func(a *CreateProposalArgs) *address.PublicKey { return &a.ProposalSeed }, keyLayout),
	)

	signatoryLayout = borsh.Struct(
		borsh.F("signatory", func(a *SignatoryArgs) *address.PublicKey { return &a.Signatory }, keyLayout),
	)

	insertTransactionLayout = borsh.Struct(
		borsh.F("option_index", func(a *InsertTransactionArgs) *uint8 { return &a.OptionIndex }, u8Layout),
		borsh.F("index", func(a *InsertTransactionArgs) *uint16 { return &a.Index }, u16Layout),
		borsh.F("hold_up_time", func(a *InsertTransactionArgs) *uint32 { return &a.HoldUpTime }, u32Layout),
		borsh.F("instructions", func(a *InsertTransactionArgs) *[]InstructionData { return &a.Instructions }, borsh.Vec(instructionDataLayout)),
	)

	castVoteLayout = borsh.Struct(
		borsh.F("vote", func(a *CastVoteArgs) *Vote { return &a.Vote }, voteLayout),
	)

	setRealmAuthorityLayout = borsh.Struct(
		borsh.F("action", func(a *SetRealmAuthorityArgs) *SetRealmAuthorityAction { return &a.Action }, realmAuthorityActionLayout),
	)

	setRealmConfigLayout = borsh.Struct(
		borsh.F("config_args", func(a *SetRealmConfigArgs) *RealmConfigArgs { return &a.ConfigArgs }, realmConfigArgsLayout),
	)

	setTokenOwnerRecordLockLayout = borsh.Struct(
		borsh.F("lock_type", func(a *SetTokenOwnerRecordLockArgs) *uint8 { return &a.LockType }, u8Layout),
		borsh.F("expiry", func(a *SetTokenOwnerRecordLockArgs) **int64 { return &a.Expiry }, optI64),
	)

	removeTokenOwnerRecordLockLayout = borsh.Struct(
		borsh.F("lock_type", func(a *RemoveTokenOwnerRecordLockArgs) *uint8 { return &a.LockType }, u8Layout),
	)

	setRealmConfigItemLayout = borsh.Struct(
		borsh.F("args", func(a *SetRealmConfigItemArgs) *RealmConfigItem { return &a.Item }, realmConfigItemLayout),
	)
)
