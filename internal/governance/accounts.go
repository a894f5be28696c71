package governance

import (
	"solana-governance-kit/internal/address"
	"solana-governance-kit/internal/borsh"
)

// Reserved field widths.
const (
	realmReservedLen        = 6
	realmReservedV2Len      = 128
	tokenOwnerReservedLen   = 6
	tokenOwnerReservedV2Len = 124
	proposalReservedLen     = 64
	metadataReservedLen     = 64
	depositReservedLen      = 64
	recordReservedV2Len     = 8
	tokenConfigReservedLen  = 4
)

type RealmConfig struct {
	Legacy1                              uint8
	Legacy2                              uint8
	Reserved                             []byte
	MinCommunityWeightToCreateGovernance uint64
	CommunityMintMaxVoterWeightSource    MintMaxVoterWeightSource
	CouncilMint                          *address.PublicKey
}

type RealmV1 struct {
	CommunityMint       address.PublicKey
	Config              RealmConfig
	Reserved            []byte
	VotingProposalCount uint16
	Authority           *address.PublicKey
	Name                string
}

type RealmV2 struct {
	CommunityMint address.PublicKey
	Config        RealmConfig
	Reserved      []byte
	Legacy1       uint16
	Authority     *address.PublicKey
	Name          string
	ReservedV2    []byte
}

type TokenOwnerRecordV1 struct {
	Realm                       address.PublicKey
	GoverningTokenMint          address.PublicKey
	GoverningTokenOwner         address.PublicKey
	GoverningTokenDepositAmount uint64
	UnrelinquishedVotesCount    uint64
	OutstandingProposalCount    uint8
	Version                     uint8
	Reserved                    []byte
	GovernanceDelegate          *address.PublicKey
}

type TokenOwnerRecordLock struct {
	LockType  uint8
	Authority address.PublicKey
	Expiry    *int64
}

type TokenOwnerRecordV2 struct {
	Realm                       address.PublicKey
	GoverningTokenMint          address.PublicKey
	GoverningTokenOwner         address.PublicKey
	GoverningTokenDepositAmount uint64
	UnrelinquishedVotesCount    uint64
	OutstandingProposalCount    uint8
	Version                     uint8
	Reserved                    []byte
	GovernanceDelegate          *address.PublicKey
	ReservedV2                  []byte
	Locks                       []TokenOwnerRecordLock
}

// GovernanceV1 is also the body of program, mint and token governance V1
// accounts.
type GovernanceV1 struct {
	Realm           address.PublicKey
	GovernedAccount address.PublicKey
	ProposalsCount  uint32
	Config          GovernanceConfig
}

// GovernanceV2 is also the body of program, mint and token governance V2
// accounts.
type GovernanceV2 struct {
	Realm                    address.PublicKey
	GovernedAccount          address.PublicKey
	Reserved1                uint32
	Config                   GovernanceConfig
	ReservedV2               uint8
	RequiredSignatoriesCount uint8
	ActiveProposalCount      uint64
}

type ProposalV1 struct {
	Governance                address.PublicKey
	GoverningTokenMint        address.PublicKey
	State                     ProposalState
	TokenOwnerRecord          address.PublicKey
	SignatoriesCount          uint8
	SignatoriesSignedOffCount uint8
	YesVotesCount             uint64
	NoVotesCount              uint64
	InstructionsExecutedCount uint16
	InstructionsCount         uint16
	InstructionsNextIndex     uint16
	DraftAt                   int64
	SigningOffAt              *int64
	VotingAt                  *int64
	VotingAtSlot              *uint64
	VotingCompletedAt         *int64
	ExecutingAt               *int64
	ClosedAt                  *int64
	ExecutionFlags            InstructionExecutionFlags
	MaxVoteWeight             *uint64
	VoteThreshold             *VoteThreshold
	Name                      string
	DescriptionLink           string
}

type ProposalOption struct {
	Label                     string
	VoteWeight                uint64
	VoteResult                OptionVoteResult
	TransactionsExecutedCount uint16
	TransactionsCount         uint16
	TransactionsNextIndex     uint16
}

type ProposalV2 struct {
	Governance                address.PublicKey
	GoverningTokenMint        address.PublicKey
	State                     ProposalState
	TokenOwnerRecord          address.PublicKey
	SignatoriesCount          uint8
	SignatoriesSignedOffCount uint8
	VoteType                  VoteType
	Options                   []ProposalOption
	DenyVoteWeight            *uint64
	Reserved1                 uint8
	AbstainVoteWeight         *uint64
	StartVotingAt             *int64
	DraftAt                   int64
	SigningOffAt              *int64
	VotingAt                  *int64
	VotingAtSlot              *uint64
	VotingCompletedAt         *int64
	ExecutingAt               *int64
	ClosedAt                  *int64
	ExecutionFlags            InstructionExecutionFlags
	MaxVoteWeight             *uint64
	MaxVotingTime             *uint32
	VoteThreshold             *VoteThreshold
	Reserved                  []byte
	Name                      string
	DescriptionLink           string
	VetoVoteWeight            uint64
}

type SignatoryRecordV1 struct {
	Proposal  address.PublicKey
	Signatory address.PublicKey
	SignedOff bool
}

type SignatoryRecordV2 struct {
	Proposal   address.PublicKey
	Signatory  address.PublicKey
	SignedOff  bool
	ReservedV2 []byte
}

type VoteRecordV1 struct {
	Proposal            address.PublicKey
	GoverningTokenOwner address.PublicKey
	IsRelinquished      bool
	VoteWeight          VoteWeightV1
}

type VoteRecordV2 struct {
	Proposal            address.PublicKey
	GoverningTokenOwner address.PublicKey
	IsRelinquished      bool
	VoterWeight         uint64
	Vote                Vote
	ReservedV2          []byte
}

// NativeTreasury has no data; it only holds lamports.
type NativeTreasury struct{}

type ProgramMetadata struct {
	UpdatedAt uint64
	Version   string
	Reserved  []byte
}

type ProposalDeposit struct {
	Proposal     address.PublicKey
	DepositPayer address.PublicKey
	Reserved     []byte
}

type ProposalTransactionV2 struct {
	Proposal         address.PublicKey
	OptionIndex      uint8
	TransactionIndex uint16
	HoldUpTime       uint32
	Instructions     []InstructionData
	ExecutedAt       *int64
	ExecutionStatus  TransactionExecutionStatus
	ReservedV2       []byte
}

type GoverningTokenConfig struct {
	VoterWeightAddin    *address.PublicKey
	MaxVoterWeightAddin *address.PublicKey
	TokenType           GoverningTokenType
	Reserved            []byte
	LockAuthorities     []address.PublicKey
}

type RealmConfigAccount struct {
	Realm                address.PublicKey
	CommunityTokenConfig GoverningTokenConfig
	CouncilTokenConfig   GoverningTokenConfig
	Reserved             uint8
}

type RequiredSignatory struct {
	AccountVersion uint8
	Governance     address.PublicKey
	Signatory      address.PublicKey
}

var (
	realmConfigLayout = borsh.Struct(
		borsh.F("legacy1", func(c *RealmConfig) *uint8 { return &c.Legacy1 }, u8Layout),
		borsh.F("legacy2", func(c *RealmConfig) *uint8 { return &c.Legacy2 }, u8Layout),
		borsh.F("reserved", func(c *RealmConfig) *[]byte { return &c.Reserved }, borsh.FixedBytes(realmReservedLen)),
		borsh.F("min_community_weight_to_create_governance", func(c *RealmConfig) *uint64 { return &c.MinCommunityWeightToCreateGovernance }, u64Layout),
		borsh.F("community_mint_max_voter_weight_source", func(c *RealmConfig) *MintMaxVoterWeightSource { return &c.CommunityMintMaxVoterWeightSource }, maxVoterWeightSourceLayout),
		borsh.F("council_mint", func(c *RealmConfig) **address.PublicKey { return &c.CouncilMint }, optKeyLayout),
	)

	realmV1Layout = borsh.Struct(
		borsh.F("community_mint", func(r *RealmV1) *address.PublicKey { return &r.CommunityMint }, keyLayout),
		borsh.F("config", func(r *RealmV1) *RealmConfig { return &r.Config }, realmConfigLayout),
		borsh.F("reserved", func(r *RealmV1) *[]byte { return &r.Reserved }, borsh.FixedBytes(realmReservedLen)),
		borsh.F("voting_proposal_count", func(r *RealmV1) *uint16 { return &r.VotingProposalCount }, u16Layout),
		borsh.F("authority", func(r *RealmV1) **address.PublicKey { return &r.Authority }, optKeyLayout),
		borsh.F("name", func(r *RealmV1) *string { return &r.Name }, stringLayout),
	)

	realmV2Layout = borsh.Struct(
		borsh.F("community_mint", func(r *RealmV2) *address.PublicKey { return &r.CommunityMint }, keyLayout),
		borsh.F("config", func(r *RealmV2) *RealmConfig { return &r.Config }, realmConfigLayout),
		borsh.F("reserved", func(r *RealmV2) *[]byte { return &r.Reserved }, borsh.FixedBytes(realmReservedLen)),
		borsh.F("legacy1", func(r *RealmV2) *uint16 { return &r.Legacy1 }, u16Layout),
		borsh.F("authority", func(r *RealmV2) **address.PublicKey { return &r.Authority }, optKeyLayout),
		borsh.F("name", func(r *RealmV2) *string { return &r.Name }, stringLayout),
		borsh.F("reserved_v2", func(r *RealmV2) *[]byte { return &r.ReservedV2 }, borsh.FixedBytes(realmReservedV2Len)),
	)

	tokenOwnerRecordV1Layout = borsh.Struct(
		borsh.F("realm", func(r *TokenOwnerRecordV1) *address.PublicKey { return &r.Realm }, keyLayout),
		borsh.F("governing_token_mint", func(r *TokenOwnerRecordV1) *address.PublicKey { return &r.GoverningTokenMint }, keyLayout),
		borsh.F("governing_token_owner", func(r *TokenOwnerRecordV1) *address.PublicKey { return &r.GoverningTokenOwner }, keyLayout),
		borsh.F("governing_token_deposit_amount", func(r *TokenOwnerRecordV1) *uint64 { return &r.GoverningTokenDepositAmount }, u64Layout),
		borsh.F("unrelinquished_votes_count", func(r *TokenOwnerRecordV1) *uint64 { return &r.UnrelinquishedVotesCount }, u64Layout),
		borsh.F("outstanding_proposal_count", func(r *TokenOwnerRecordV1) *uint8 { return &r.OutstandingProposalCount }, u8Layout),
		borsh.F("version", func(r *TokenOwnerRecordV1) *uint8 { return &r.Version }, u8Layout),
		borsh.F("reserved", func(r *TokenOwnerRecordV1) *[]byte { return &r.Reserved }, borsh.FixedBytes(tokenOwnerReservedLen)),
		borsh.F("governance_delegate", func(r *TokenOwnerRecordV1) **address.PublicKey { return &r.GovernanceDelegate }, optKeyLayout),
	)

	tokenOwnerRecordLockLayout = borsh.Struct(
		borsh.F("lock_type", func(l *TokenOwnerRecordLock) *uint8 { return &l.LockType }, u8Layout),
		borsh.F("authority", func(l *TokenOwnerRecordLock) *address.PublicKey { return &l.Authority }, keyLayout),
		borsh.F("expiry", func(l *TokenOwnerRecordLock) **int64 { return &l.Expiry }, optI64),
	)

	tokenOwnerRecordV2Layout = borsh.Struct(
		borsh.F("realm", func(r *TokenOwnerRecordV2) *address.PublicKey { return &r.Realm }, keyLayout),
		borsh.F("governing_token_mint", func(r *TokenOwnerRecordV2) *address.PublicKey { return &r.GoverningTokenMint }, keyLayout),
		borsh.F("governing_token_owner", func(r *TokenOwnerRecordV2) *address.PublicKey { return &r.GoverningTokenOwner }, keyLayout),
		borsh.F("governing_token_deposit_amount", func(r *TokenOwnerRecordV2) *uint64 { return &r.GoverningTokenDepositAmount }, u64Layout),
		borsh.F("unrelinquished_votes_count", func(r *TokenOwnerRecordV2) *uint64 { return &r.UnrelinquishedVotesCount }, u64Layout),
		borsh.F("outstanding_proposal_count", func(r *TokenOwnerRecordV2) *uint8 { return &r.OutstandingProposalCount }, u8Layout),
		borsh.F("version", func(r *TokenOwnerRecordV2) *uint8 { return &r.Version }, u8Layout),
		borsh.F("reserved", func(r *TokenOwnerRecordV2) *[]byte { return &r.Reserved }, borsh.FixedBytes(tokenOwnerReservedLen)),
		borsh.F("governance_delegate", func(r *TokenOwnerRecordV2) **address.PublicKey { return &r.GovernanceDelegate }, optKeyLayout),
		borsh.F("reserved_v2", func(r *TokenOwnerRecordV2) *[]byte { return &r.ReservedV2 }, borsh.FixedBytes(tokenOwnerReservedV2Len)),
		borsh.F("locks", func(r *TokenOwnerRecordV2) *[]TokenOwnerRecordLock { return &r.Locks }, borsh.Vec(tokenOwnerRecordLockLayout)),
	)

	governanceV1Layout = borsh.Struct(
		borsh.F("realm", func(g *GovernanceV1) *address.PublicKey { return &g.Realm }, keyLayout),
		borsh.F("governed_account", func(g *GovernanceV1) *address.PublicKey { return &g.GovernedAccount }, keyLayout),
		borsh.F("proposals_count", func(g *GovernanceV1) *uint32 { return &g.ProposalsCount }, u32Layout),
		borsh.F("config", func(g *GovernanceV1) *GovernanceConfig { return &g.Config }, governanceConfigLayout),
	)

	governanceV2Layout = borsh.Struct(
		borsh.F("realm", func(g *GovernanceV2) *address.PublicKey { return &g.Realm }, keyLayout),
		borsh.F("governed_account", func(g *GovernanceV2) *address.PublicKey { return &g.GovernedAccount }, keyLayout),
		borsh.F("reserved1", func(g *GovernanceV2) *uint32 { return &g.Reserved1 }, u32Layout),
		borsh.F("config", func(g *GovernanceV2) *GovernanceConfig { return &g.Config }, governanceConfigLayout),
		borsh.F("reserved_v2", func(g *GovernanceV2) *uint8 { return &g.ReservedV2 }, u8Layout),
		borsh.F("required_signatories_count", func(g *GovernanceV2) *uint8 { return &g.RequiredSignatoriesCount }, u8Layout),
		borsh.F("active_proposal_count", func(g *GovernanceV2) *uint64 { return &g.ActiveProposalCount }, u64Layout),
	)

	proposalV1Layout = borsh.Struct(
		borsh.F("governance", func(p *ProposalV1) *address.PublicKey { return &p.Governance }, keyLayout),
		borsh.F("governing_token_mint", func(p *ProposalV1) *address.PublicKey { return &p.GoverningTokenMint }, keyLayout),
		borsh.F("state", func(p *ProposalV1) *ProposalState { return &p.State }, proposalStateLayout),
		borsh.F("token_owner_record", func(p *ProposalV1) *address.PublicKey { return &p.TokenOwnerRecord }, keyLayout),
		borsh.F("signatories_count", func(p *ProposalV1) *uint8 { return &p.SignatoriesCount }, u8Layout),
		borsh.F("signatories_signed_off_count", func(p *ProposalV1) *uint8 { return &p.SignatoriesSignedOffCount }, u8Layout),
		borsh.F("yes_votes_count", func(p *ProposalV1) *uint64 { return &p.YesVotesCount }, u64Layout),
		borsh.F("no_votes_count", func(p *ProposalV1) *uint64 { return &p.NoVotesCount }, u64Layout),
		borsh.F("instructions_executed_count", func(p *ProposalV1) *uint16 { return &p.InstructionsExecutedCount }, u16Layout),
		borsh.F("instructions_count", func(p *ProposalV1) *uint16 { return &p.InstructionsCount }, u16Layout),
		borsh.F("instructions_next_index", func(p *ProposalV1) *uint16 { return &p.InstructionsNextIndex }, u16Layout),
		borsh.F("draft_at", func(p *ProposalV1) *int64 { return &p.DraftAt }, i64Layout),
		borsh.F("signing_off_at", func(p *ProposalV1) **int64 { return &p.SigningOffAt }, optI64),
		borsh.F("voting_at", func(p *ProposalV1) **int64 { return &p.VotingAt }, optI64),
		borsh.F("voting_at_slot", func(p *ProposalV1) **uint64 { return &p.VotingAtSlot }, optU64),
		borsh.F("voting_completed_at", func(p *ProposalV1) **int64 { return &p.VotingCompletedAt }, optI64),
		borsh.F("executing_at", func(p *ProposalV1) **int64 { return &p.ExecutingAt }, optI64),
		borsh.F("closed_at", func(p *ProposalV1) **int64 { return &p.ClosedAt }, optI64),
		borsh.F("execution_flags", func(p *ProposalV1) *InstructionExecutionFlags { return &p.ExecutionFlags }, executionFlagsLayout),
		borsh.F("max_vote_weight", func(p *ProposalV1) **uint64 { return &p.MaxVoteWeight }, optU64),
		borsh.F("vote_threshold", func(p *ProposalV1) **VoteThreshold { return &p.VoteThreshold }, optVoteThresholdLayout),
		borsh.F("name", func(p *ProposalV1) *string { return &p.Name }, stringLayout),
		borsh.F("description_link", func(p *ProposalV1) *string { return &p.DescriptionLink }, stringLayout),
	)

	proposalOptionLayout = borsh.Struct(
		borsh.F("label", func(o *ProposalOption) *string { return &o.Label }, stringLayout),
		borsh.F("vote_weight", func(o *ProposalOption) *uint64 { return &o.VoteWeight }, u64Layout),
		borsh.F("vote_result", func(o *ProposalOption) *OptionVoteResult { return &o.VoteResult }, optionVoteResultLayout),
		borsh.F("transactions_executed_count", func(o *ProposalOption) *uint16 { return &o.TransactionsExecutedCount }, u16Layout),
		borsh.F("transactions_count", func(o *ProposalOption) *uint16 { return &o.TransactionsCount }, u16Layout),
		borsh.F("transactions_next_index", func(o *ProposalOption) *uint16 { return &o.TransactionsNextIndex }, u16Layout),
	)

	proposalV2Layout = borsh.Struct(
		borsh.F("governance", func(p *ProposalV2) *address.PublicKey { return &p.Governance }, keyLayout),
		borsh.F("governing_token_mint", func(p *ProposalV2) *address.PublicKey { return &p.GoverningTokenMint }, keyLayout),
		borsh.F("state", func(p *ProposalV2) *ProposalState { return &p.State }, proposalStateLayout),
		borsh.F("token_owner_record", func(p *ProposalV2) *address.PublicKey { return &p.TokenOwnerRecord }, keyLayout),
		borsh.F("signatories_count", func(p *ProposalV2) *uint8 { return &p.SignatoriesCount }, u8Layout),
		borsh.F("signatories_signed_off_count", func(p *ProposalV2) *uint8 { return &p.SignatoriesSignedOffCount }, u8Layout),
		borsh.F("vote_type", func(p *ProposalV2) *VoteType { return &p.VoteType }, voteTypeLayout),
		borsh.F("options", func(p *ProposalV2) *[]ProposalOption { return &p.Options }, borsh.Vec(proposalOptionLayout)),
		borsh.F("deny_vote_weight", func(p *ProposalV2) **uint64 { return &p.DenyVoteWeight }, optU64),
		borsh.F("reserved1", func(p *ProposalV2) *uint8 { return &p.Reserved1 }, u8Layout),
		borsh.F("abstain_vote_weight", func(p *ProposalV2) **uint64 { return &p.AbstainVoteWeight }, optU64),
		borsh.F("start_voting_at", func(p *ProposalV2) **int64 { return &p.StartVotingAt }, optI64),
		borsh.F("draft_at", func(p *ProposalV2) *int64 { return &p.DraftAt }, i64Layout),
		borsh.F("signing_off_at", func(p *ProposalV2) **int64 { return &p.SigningOffAt }, optI64),
		borsh.F("voting_at", func(p *ProposalV2) **int64 { return &p.VotingAt }, optI64),
		borsh.F("voting_at_slot", func(p *ProposalV2) **uint64 { return &p.VotingAtSlot }, optU64),
		borsh.F("voting_completed_at", func(p *ProposalV2) **int64 { return &p.VotingCompletedAt }, optI64),
		borsh.F("executing_at", func(p *ProposalV2) **int64 { return &p.ExecutingAt }, optI64),
		borsh.F("closed_at", func(p *ProposalV2) **int64 { return &p.ClosedAt }, optI64),
		borsh.F("execution_flags", func(p *ProposalV2) *InstructionExecutionFlags { return &p.ExecutionFlags }, executionFlagsLayout),
		borsh.F("max_vote_weight", func(p *ProposalV2) **uint64 { return &p.MaxVoteWeight }, optU64),
		borsh.F("max_voting_time", func(p *ProposalV2) **uint32 { return &p.MaxVotingTime }, optU32),
		borsh.F("vote_threshold", func(p *ProposalV2) **VoteThreshold { return &p.VoteThreshold }, optVoteThresholdLayout),
		borsh.F("reserved", func(p *ProposalV2) *[]byte { return &p.Reserved }, borsh.FixedBytes(proposalReservedLen)),
		borsh.F("name", func(p *ProposalV2) *string { return &p.Name }, stringLayout),
		borsh.F("description_link", func(p *ProposalV2) *string { return &p.DescriptionLink }, stringLayout),
		borsh.F("veto_vote_weight", func(p *ProposalV2) *uint64 { return &p.VetoVoteWeight }, u64Layout),
	)

	signatoryRecordV1Layout = borsh.Struct(
		borsh.F("proposal", func(r *SignatoryRecordV1) *address.PublicKey { return &r.Proposal }, keyLayout),
		borsh.F("signatory", func(r *SignatoryRecordV1) *address.PublicKey { return &r.Signatory }, keyLayout),
		borsh.F("signed_off", func(r *SignatoryRecordV1) *bool { return &r.SignedOff }, boolLayout),
	)

	signatoryRecordV2Layout = borsh.Struct(
		borsh.F("proposal", func(r *SignatoryRecordV2) *address.PublicKey { return &r.Proposal }, keyLayout),
		borsh.F("signatory", func(r *SignatoryRecordV2) *address.PublicKey { return &r.Signatory }, keyLayout),
		borsh.F("signed_off", func(r *SignatoryRecordV2) *bool { return &r.SignedOff }, boolLayout),
		borsh.F("reserved_v2", func(r *SignatoryRecordV2) *[]byte { return &r.ReservedV2 }, borsh.FixedBytes(recordReservedV2Len)),
	)

	voteRecordV1Layout = borsh.Struct(
		borsh.F("proposal", func(r *VoteRecordV1) *address.PublicKey { return &r.Proposal }, keyLayout),
		borsh.F("governing_token_owner", func(r *VoteRecordV1) *address.PublicKey { return &r.GoverningTokenOwner }, keyLayout),
		borsh.F("is_relinquished", func(r *VoteRecordV1) *bool { return &r.IsRelinquished }, boolLayout),
		borsh.F("vote_weight", func(r *VoteRecordV1) *VoteWeightV1 { return &r.VoteWeight }, voteWeightV1Layout),
	)

	voteRecordV2Layout = borsh.Struct(
		borsh.F("proposal", func(r *VoteRecordV2) *address.PublicKey { return &r.Proposal }, keyLayout),
		borsh.F("governing_token_owner", func(r *VoteRecordV2) *address.PublicKey { return &r.GoverningTokenOwner }, keyLayout),
		borsh.F("is_relinquished", func(r *VoteRecordV2) *bool { return &r.IsRelinquished }, boolLayout),
		borsh.F("voter_weight", func(r *VoteRecordV2) *uint64 { return &r.VoterWeight }, u64Layout),
		borsh.F("vote", func(r *VoteRecordV2) *Vote { return &r.Vote }, voteLayout),
		borsh.F("reserved_v2", func(r *VoteRecordV2) *[]byte { return &r.ReservedV2 }, borsh.FixedBytes(recordReservedV2Len)),
	)

	nativeTreasuryLayout = borsh.Unit[NativeTreasury]()

	programMetadataLayout = borsh.Struct(
		borsh.F("updated_at", func(m *ProgramMetadata) *uint64 { return &m.UpdatedAt }, u64Layout),
		borsh.F("version", func(m *ProgramMetadata) *string { return &m.Version }, stringLayout),
		borsh.F("reserved", func(m *ProgramMetadata) *[]byte { return &m.Reserved }, borsh.FixedBytes(metadataReservedLen)),
	)

	proposalDepositLayout = borsh.Struct(
		borsh.F("proposal", func(d *ProposalDeposit) *address.PublicKey { return &d.Proposal }, keyLayout),
		borsh.F("deposit_payer", func(d *ProposalDeposit) *address.PublicKey { return &d.DepositPayer }, keyLayout),
		borsh.F("reserved", func(d *ProposalDeposit) *[]byte { return &d.Reserved }, borsh.FixedBytes(depositReservedLen)),
	)

	proposalTransactionV2Layout = borsh.Struct(
		borsh.F("proposal", func(t *ProposalTransactionV2) *address.PublicKey { return &t.Proposal }, keyLayout),
		borsh.F("option_index", func(t *ProposalTransactionV2) *uint8 { return &t.OptionIndex }, u8Layout),
		borsh.F("transaction_index", func(t *ProposalTransactionV2) *uint16 { return &t.TransactionIndex }, u16Layout),
		borsh.F("hold_up_time", func(t *ProposalTransactionV2) *uint32 { return &t.HoldUpTime }, u32Layout),
		borsh.F("instructions", func(t *ProposalTransactionV2) *[]InstructionData { return &t.Instructions }, borsh.Vec(instructionDataLayout)),
		borsh.F("executed_at", func(t *ProposalTransactionV2) **int64 { return &t.ExecutedAt }, optI64),
		borsh.F("execution_status", func(t *ProposalTransactionV2) *TransactionExecutionStatus { return &t.ExecutionStatus }, executionStatusLayout),
		borsh.F("reserved_v2", func(t *ProposalTransactionV2) *[]byte { return &t.ReservedV2 }, borsh.FixedBytes(recordReservedV2Len)),
	)

	governingTokenConfigLayout = borsh.Struct(
		borsh.F("voter_weight_addin", func(c *GoverningTokenConfig) **address.PublicKey { return &c.VoterWeightAddin }, optKeyLayout),
		borsh.F("max_voter_weight_addin", func(c *GoverningTokenConfig) **address.PublicKey { return &c.MaxVoterWeightAddin }, optKeyLayout),
		borsh.F("token_type", func(c *GoverningTokenConfig) *GoverningTokenType { return &c.TokenType }, tokenTypeLayout),
		borsh.F("reserved", func(c *GoverningTokenConfig) *[]byte { return &c.Reserved }, borsh.FixedBytes(tokenConfigReservedLen)),
		borsh.F("lock_authorities", func(c *GoverningTokenConfig) *[]address.PublicKey { return &c.LockAuthorities }, borsh.Vec(keyLayout)),
	)

	realmConfigAccountLayout = borsh.Struct(
		borsh.F("realm", func(r *RealmConfigAccount) *address.PublicKey { return &r.Realm }, keyLayout),
		borsh.F("community_token_config", func(r *RealmConfigAccount) *GoverningTokenConfig { return &r.CommunityTokenConfig }, governingTokenConfigLayout),
		borsh.F("council_token_config", func(r *RealmConfigAccount) *GoverningTokenConfig { return &r.CouncilTokenConfig }, governingTokenConfigLayout),
		borsh.F("reserved", func(r *RealmConfigAccount) *uint8 { return &r.Reserved }, u8Layout),
	)

	requiredSignatoryLayout = borsh.Struct(
		borsh.F("account_version", func(r *RequiredSignatory) *uint8 { return &r.AccountVersion }, u8Layout),
		borsh.F("governance", func(r *RequiredSignatory) *address.PublicKey { return &r.Governance }, keyLayout),
		borsh.F("signatory", func(r *RequiredSignatory) *address.PublicKey { return &r.Signatory }, keyLayout),
	)
)
