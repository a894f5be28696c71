// Package governance holds the wire schemas of the SPL governance program:
// its accounts, its instructions and the addresses derived from them.
package governance

import (
	"solana-governance-kit/internal/address"
	"solana-governance-kit/internal/borsh"
)

// AccountType is the leading byte of every governance account.
type AccountType uint8

const (
	AccountUninitialized AccountType = iota
	AccountRealmV1
	AccountTokenOwnerRecordV1
	AccountGovernanceV1
	AccountProgramGovernanceV1
	AccountProposalV1
	AccountSignatoryRecordV1
	AccountVoteRecordV1
	AccountProposalInstructionV1
	AccountMintGovernanceV1
	AccountTokenGovernanceV1
	AccountRealmConfig
	AccountVoteRecordV2
	AccountProposalTransactionV2
	AccountProposalV2
	AccountProgramMetadata
	AccountRealmV2
	AccountTokenOwnerRecordV2
	AccountGovernanceV2
	AccountProgramGovernanceV2
	AccountMintGovernanceV2
	AccountTokenGovernanceV2
	AccountSignatoryRecordV2
	AccountProposalDeposit
	AccountRequiredSignatory
)

// VoteThreshold is one of YesVotePercentage, QuorumPercentage or
// VoteThresholdDisabled.
type VoteThreshold interface {
	isVoteThreshold()
}

type YesVotePercentage struct{ Percent uint8 }
type QuorumPercentage struct{ Percent uint8 }
type VoteThresholdDisabled struct{}

func (YesVotePercentage) isVoteThreshold() {}
func (QuorumPercentage) isVoteThreshold() {}
func (VoteThresholdDisabled) isVoteThreshold() {}

// VoteTipping controls whether voting ends early once the outcome is certain.
type VoteTipping uint8

const (
	VoteTippingStrict VoteTipping = iota
	VoteTippingEarly
	VoteTippingDisabled
)

// MintMaxVoterWeightSource is SupplyFraction or AbsoluteWeight.
type MintMaxVoterWeightSource interface {
	isMaxVoterWeightSource()
}

// SupplyFraction is a fraction of the mint supply scaled by 10^10.
type SupplyFraction struct{ Fraction uint64 }
type AbsoluteWeight struct{ Weight uint64 }

func (SupplyFraction) isMaxVoterWeightSource() {}
func (AbsoluteWeight) isMaxVoterWeightSource() {}

type GoverningTokenType uint8

const (
	TokenTypeLiquid GoverningTokenType = iota
	TokenTypeMembership
	TokenTypeDormant
)

type ProposalState uint8

const (
	ProposalDraft ProposalState = iota
	ProposalSigningOff
	ProposalVoting
	ProposalSucceeded
	ProposalExecuting
	ProposalCompleted
	ProposalCancelled
	ProposalDefeated
	ProposalExecutingWithErrors
	ProposalVetoed
)

type InstructionExecutionFlags uint8

const (
	ExecutionFlagsNone InstructionExecutionFlags = iota
	ExecutionFlagsOrdered
	ExecutionFlagsUseTransaction
)

// VoteType is SingleChoice or MultiChoice.
type VoteType interface {
	isVoteType()
}

type SingleChoice struct{}

type MultiChoice struct {
	ChoiceType        MultiChoiceType
	MinVoterOptions   uint8
	MaxVoterOptions   uint8
	MaxWinningOptions uint8
}

func (SingleChoice) isVoteType() {}
func (MultiChoice) isVoteType() {}

type MultiChoiceType uint8

const (
	MultiChoiceFullWeight MultiChoiceType = iota
	MultiChoiceWeighted
)

type OptionVoteResult uint8

const (
	OptionVoteNone OptionVoteResult = iota
	OptionVoteSucceeded
	OptionVoteDefeated
)

type TransactionExecutionStatus uint8

const (
	ExecutionStatusNone TransactionExecutionStatus = iota
	ExecutionStatusSuccess
	ExecutionStatusError
)

// Vote is the choice cast by a voter: Approve, Deny, Abstain or Veto.
type Vote interface {
	isVote()
}

type VoteChoice struct {
	Rank             uint8
	WeightPercentage uint8
}

type Approve struct{ Choices []VoteChoice }
type Deny struct{}
type Abstain struct{}
type Veto struct{}

func (Approve) isVote() {}
func (Deny) isVote() {}
func (Abstain) isVote() {}
func (Veto) isVote() {}

// VoteWeightV1 is the two-option vote of V1 vote records.
type VoteWeightV1 interface {
	isVoteWeightV1()
}

type VoteYes struct{ Weight uint64 }
type VoteNo struct{ Weight uint64 }

func (VoteYes) isVoteWeightV1() {}
func (VoteNo) isVoteWeightV1() {}

type SetRealmAuthorityAction uint8

const (
	SetRealmAuthorityUnchecked SetRealmAuthorityAction = iota
	SetRealmAuthorityChecked
	RemoveRealmAuthority
)

// RealmConfigItem is the argument of set-realm-config-item.
type RealmConfigItem interface {
	isRealmConfigItem()
}

type ConfigItemAction uint8

const (
	ConfigItemAdd ConfigItemAction = iota
	ConfigItemRemove
)

type TokenOwnerRecordLockAuthority struct {
	Action             ConfigItemAction
	GoverningTokenMint address.PublicKey
	Authority          address.PublicKey
}

func (TokenOwnerRecordLockAuthority) isRealmConfigItem() {}

// GovernanceConfig is shared by governance accounts and the instructions
// that create or reconfigure them.
type GovernanceConfig struct {
	CommunityVoteThreshold             VoteThreshold
	MinCommunityWeightToCreateProposal uint64
	MinTransactionHoldUpTime           uint32
	VotingBaseTime                     uint32
	CommunityVoteTipping               VoteTipping
	CouncilVoteThreshold               VoteThreshold
	CouncilVetoVoteThreshold           VoteThreshold
	MinCouncilWeightToCreateProposal   uint64
	CouncilVoteTipping                 VoteTipping
	CommunityVetoVoteThreshold         VoteThreshold
	VotingCoolOffTime                  uint32
	DepositExemptProposalCount         uint8
}

type AccountMetaData struct {
	PublicKey  address.PublicKey
	IsSigner   bool
	IsWritable bool
}

// InstructionData is a serialized instruction stored in a proposal transaction.
type InstructionData struct {
	ProgramID address.PublicKey
	Accounts  []AccountMetaData
	Data      []byte
}

var (
	keyLayout    = borsh.Key[address.PublicKey]()
	optKeyLayout = borsh.Option(keyLayout)
	u8Layout     = borsh.U8[uint8]()
	u16Layout    = borsh.U16[uint16]()
	u32Layout    = borsh.U32[uint32]()
	u64Layout    = borsh.U64[uint64]()
	i64Layout    = borsh.I64[int64]()
	optU32       = borsh.Option(u32Layout)
	optU64       = borsh.Option(u64Layout)
	optI64       = borsh.Option(i64Layout)
	boolLayout   = borsh.Bool()
	stringLayout = borsh.String()

	voteThresholdLayout = borsh.Union(
		borsh.Case[VoteThreshold](0, borsh.Struct(
			borsh.F("percent", func(v *YesVotePercentage) *uint8 { return &v.Percent }, u8Layout),
		)),
		borsh.Case[VoteThreshold](1, borsh.Struct(
			borsh.F("percent", func(v *QuorumPercentage) *uint8 { return &v.Percent }, u8Layout),
		)),
		borsh.Case[VoteThreshold](2, borsh.Unit[VoteThresholdDisabled]()),
	)
	optVoteThresholdLayout = borsh.Option(voteThresholdLayout)

	voteTippingLayout = borsh.Enum[VoteTipping](3)

	maxVoterWeightSourceLayout = borsh.Union(
		borsh.Case[MintMaxVoterWeightSource](0, borsh.Struct(
			borsh.F("fraction", func(v *SupplyFraction) *uint64 { return &v.Fraction }, u64Layout),
		)),
		borsh.Case[MintMaxVoterWeightSource](1, borsh.Struct(
			borsh.F("weight", func(v *AbsoluteWeight) *uint64 { return &v.Weight }, u64Layout),
		)),
	)

	tokenTypeLayout            = borsh.Enum[GoverningTokenType](3)
	proposalStateLayout        = borsh.Enum[ProposalState](10)
	executionFlagsLayout       = borsh.Enum[InstructionExecutionFlags](3)
	optionVoteResultLayout     = borsh.Enum[OptionVoteResult](3)
	executionStatusLayout      = borsh.Enum[TransactionExecutionStatus](3)
	realmAuthorityActionLayout = borsh.Enum[SetRealmAuthorityAction](3)

	voteTypeLayout = borsh.Union(
		borsh.Case[VoteType](0, borsh.Unit[SingleChoice]()),
		borsh.Case[VoteType](1, borsh.Struct(
			borsh.F("choice_type", func(v *MultiChoice) *MultiChoiceType { return &v.ChoiceType }, borsh.Enum[MultiChoiceType](2)),
			borsh.F("min_voter_options", func(v *MultiChoice) *uint8 { return &v.MinVoterOptions }, u8Layout),
			borsh.F("max_voter_options", func(v *MultiChoice) *uint8 { return &v.MaxVoterOptions }, u8Layout),
			borsh.F("max_winning_options", func(v *MultiChoice) *uint8 { return &v.MaxWinningOptions }, u8Layout),
		)),
	)

	voteChoiceLayout = borsh.Struct(
		borsh.F("rank", func(v *VoteChoice) *uint8 { return &v.Rank }, u8Layout),
		borsh.F("weight_percentage", func(v *VoteChoice) *uint8 { return &v.WeightPercentage }, u8Layout),
	)

	voteLayout = borsh.Union(
		borsh.Case[Vote](0, borsh.Struct(
			borsh.F("choices", func(v *Approve) *[]VoteChoice { return &v.Choices }, borsh.Vec(voteChoiceLayout)),
		)),
		borsh.Case[Vote](1, borsh.Unit[Deny]()),
		borsh.Case[Vote](2, borsh.Unit[Abstain]()),
		borsh.Case[Vote](3, borsh.Unit[Veto]()),
	)

	voteWeightV1Layout = borsh.Union(
		borsh.Case[VoteWeightV1](0, borsh.Struct(
			borsh.F("weight", func(v *VoteYes) *uint64 { return &v.Weight }, u64Layout),
		)),
		borsh.Case[VoteWeightV1](1, borsh.Struct(
			borsh.F("weight", func(v *VoteNo) *uint64 { return &v.Weight }, u64Layout),
		)),
	)

	realmConfigItemLayout = borsh.Union(
		borsh.Case[RealmConfigItem](0, borsh.Struct(
			borsh.F("action", func(v *TokenOwnerRecordLockAuthority) *ConfigItemAction { return &v.Action }, borsh.U8[ConfigItemAction]()),
			borsh.F("governing_token_mint", func(v *TokenOwnerRecordLockAuthority) *address.PublicKey { return &v.GoverningTokenMint }, keyLayout),
			borsh.F("authority", func(v *TokenOwnerRecordLockAuthority) *address.PublicKey { return &v.Authority }, keyLayout),
		)),
	)

	governanceConfigLayout = borsh.Struct(
		borsh.F("community_vote_threshold", func(c *GovernanceConfig) *VoteThreshold { return &c.CommunityVoteThreshold }, voteThresholdLayout),
		borsh.F("min_community_weight_to_create_proposal", func(c *GovernanceConfig) *uint64 { return &c.MinCommunityWeightToCreateProposal }, u64Layout),
		borsh.F("min_transaction_hold_up_time", func(c *GovernanceConfig) *uint32 { return &c.MinTransactionHoldUpTime }, u32Layout),
		borsh.F("voting_base_time", func(c *GovernanceConfig) *uint32 { return &c.VotingBaseTime }, u32Layout),
		borsh.F("community_vote_tipping", func(c *GovernanceConfig) *VoteTipping { return &c.CommunityVoteTipping }, voteTippingLayout),
		borsh.F("council_vote_threshold", func(c *GovernanceConfig) *VoteThreshold { return &c.CouncilVoteThreshold }, voteThresholdLayout),
		borsh.F("council_veto_vote_threshold", func(c *GovernanceConfig) *VoteThreshold { return &c.CouncilVetoVoteThreshold }, voteThresholdLayout),
		borsh.F("min_council_weight_to_create_proposal", func(c *GovernanceConfig) *uint64 { return &c.MinCouncilWeightToCreateProposal }, u64Layout),
		borsh.F("council_vote_tipping", func(c *GovernanceConfig) *VoteTipping { return &c.CouncilVoteTipping }, voteTippingLayout),
		borsh.F("community_veto_vote_threshold", func(c *GovernanceConfig) *VoteThreshold { return &c.CommunityVetoVoteThreshold }, voteThresholdLayout),
		borsh.F("voting_cool_off_time", func(c *GovernanceConfig) *uint32 { return &c.VotingCoolOffTime }, u32Layout),
		borsh.F("deposit_exempt_proposal_count", func(c *GovernanceConfig) *uint8 { return &c.DepositExemptProposalCount }, u8Layout),
	)

	accountMetaLayout = borsh.Struct(
		borsh.F("pubkey", func(m *AccountMetaData) *address.PublicKey { return &m.PublicKey }, keyLayout),
		borsh.F("is_signer", func(m *AccountMetaData) *bool { return &m.IsSigner }, boolLayout),
		borsh.F("is_writable", func(m *AccountMetaData) *bool { return &m.IsWritable }, boolLayout),
	)

	instructionDataLayout = borsh.Struct(
		borsh.F("program_id", func(d *InstructionData) *address.PublicKey { return &d.ProgramID }, keyLayout),
		borsh.F("accounts", func(d *InstructionData) *[]AccountMetaData { return &d.Accounts }, borsh.Vec(accountMetaLayout)),
		borsh.F("data", func(d *InstructionData) *[]byte { return &d.Data }, borsh.Bytes()),
	)
)
