// Package aggregator holds the wire schemas of the vote-aggregator program,
// an Anchor program that pools member voting power into clans, together
// with the voter-weight plugin records it shares with SPL governance.
package aggregator

import (
	"solana-governance-kit/internal/address"
	"solana-governance-kit/internal/borsh"
)

// VoterWeightAction scopes a voter-weight record to one governance action.
type VoterWeightAction uint8

const (
	ActionCastVote VoterWeightAction = iota
	ActionCommentProposal
	ActionCreateGovernance
	ActionCreateProposal
	ActionSignOffProposal
)

const recordReservedLen = 8

// VoterWeightRecord is the plugin record SPL governance reads a voter's
// weight from. VoterWeightExpiry is the slot the weight expires at; nil
// never expires.
type VoterWeightRecord struct {
	Realm               address.PublicKey
	GoverningTokenMint  address.PublicKey
	GoverningTokenOwner address.PublicKey
	VoterWeight         uint64
	VoterWeightExpiry   *int64
	WeightAction        *VoterWeightAction
	WeightActionTarget  *address.PublicKey
	Reserved            []byte
}

type MaxVoterWeightRecord struct {
	Realm                address.PublicKey
	GoverningTokenMint   address.PublicKey
	MaxVoterWeight       uint64
	MaxVoterWeightExpiry *uint64
	Reserved             []byte
}

type VoterWeightReset struct {
	NextResetTime int64
	Step          uint64
}

type RootBumps struct {
	Root           uint8
	MaxVoterWeight uint8
	LockAuthority  uint8
}

type Root struct {
	GovernanceProgram   address.PublicKey
	Realm               address.PublicKey
	GoverningTokenMint  address.PublicKey
	VotingWeightPlugin  address.PublicKey
	MaxProposalLifetime uint64
	VoterWeightReset    *VoterWeightReset
	ClanCount           uint64
	MemberCount         uint64
	Bumps               RootBumps
}

type ClanBumps struct {
	VoterAuthority    uint8
	TokenOwnerRecord  uint8
	VoterWeightRecord uint8
}

type Clan struct {
	Root                     address.PublicKey
	Owner                    address.PublicKey
	Delegate                 address.PublicKey
	VoterAuthority           address.PublicKey
	TokenOwnerRecord         address.PublicKey
	VoterWeightRecord        address.PublicKey
	MinVotingWeightToJoin    uint64
	PermanentMembers         uint64
	TemporaryMembers         uint64
	UpdatedTemporaryMembers  uint64
	LeavingMembers           uint64
	AcceptTemporaryMembers   bool
	PermanentVoterWeight     uint64
	NextVoterWeightResetTime *int64
	Name                     string
	Description              string
	Bumps                    ClanBumps
}

type MembershipEntry struct {
	Clan       address.PublicKey
	ShareBp    uint16
	ExitableAt *int64
}

type MemberBumps struct {
	Address          uint8
	TokenOwnerRecord uint8
}

type Member struct {
	Root                     address.PublicKey
	Owner                    address.PublicKey
	Delegate                 address.PublicKey
	TokenOwnerRecord         address.PublicKey
	VoterWeightRecord        address.PublicKey
	VoterWeight              uint64
	VoterWeightExpiry        *uint64
	NextVoterWeightResetTime *int64
	Membership               []MembershipEntry
	Bumps                    MemberBumps
}

var (
	keyLayout    = borsh.Key[address.PublicKey]()
	u8Layout     = borsh.U8[uint8]()
	u16Layout    = borsh.U16[uint16]()
	u32Layout    = borsh.U32[uint32]()
	u64Layout    = borsh.U64[uint64]()
	i64Layout    = borsh.I64[int64]()
	optI64       = borsh.Option(i64Layout)
	optU64       = borsh.Option(u64Layout)
	boolLayout   = borsh.Bool()
	stringLayout = borsh.String()

	voterWeightRecordLayout = borsh.Struct(
		borsh.F("realm", func(r *VoterWeightRecord) *address.PublicKey { return &r.Realm }, keyLayout),
		borsh.F("governing_token_mint", func(r *VoterWeightRecord) *address.PublicKey { return &r.GoverningTokenMint }, keyLayout),
		borsh.F("governing_token_owner", func(r *VoterWeightRecord) *address.PublicKey { return &r.GoverningTokenOwner }, keyLayout),
		borsh.F("voter_weight", func(r *VoterWeightRecord) *uint64 { return &r.VoterWeight }, u64Layout),
		borsh.F("voter_weight_expiry", func(r *VoterWeightRecord) **int64 { return &r.VoterWeightExpiry }, optI64),
		borsh.F("weight_action", func(r *VoterWeightRecord) **VoterWeightAction { return &r.WeightAction }, borsh.Option(borsh.Enum[VoterWeightAction](5))),
		borsh.F("weight_action_target", func(r *VoterWeightRecord) **address.PublicKey { return &r.WeightActionTarget }, borsh.Option(keyLayout)),
		borsh.F("reserved", func(r *VoterWeightRecord) *[]byte { return &r.Reserved }, borsh.FixedBytes(recordReservedLen)),
	)

	maxVoterWeightRecordLayout = borsh.Struct(
		borsh.F("realm", func(r *MaxVoterWeightRecord) *address.PublicKey { return &r.Realm }, keyLayout),
		borsh.F("governing_token_mint", func(r *MaxVoterWeightRecord) *address.PublicKey { return &r.GoverningTokenMint }, keyLayout),
		borsh.F("max_voter_weight", func(r *MaxVoterWeightRecord) *uint64 { return &r.MaxVoterWeight }, u64Layout),
		borsh.F("max_voter_weight_expiry", func(r *MaxVoterWeightRecord) **uint64 { return &r.MaxVoterWeightExpiry }, optU64),
		borsh.F("reserved", func(r *MaxVoterWeightRecord) *[]byte { return &r.Reserved }, borsh.FixedBytes(recordReservedLen)),
	)

	voterWeightResetLayout = borsh.Struct(
		borsh.F("next_reset_time", func(r *VoterWeightReset) *int64 { return &r.NextResetTime }, i64Layout),
		borsh.F("step", func(r *VoterWeightReset) *uint64 { return &r.Step }, u64Layout),
	)

	rootLayout = borsh.Struct(
		borsh.F("governance_program", func(r *Root) *address.PublicKey { return &r.GovernanceProgram }, keyLayout),
		borsh.F("realm", func(r *Root) *address.PublicKey { return &r.Realm }, keyLayout),
		borsh.F("governing_token_mint", func(r *Root) *address.PublicKey { return &r.GoverningTokenMint }, keyLayout),
		borsh.F("voting_weight_plugin", func(r *Root) *address.PublicKey { return &r.VotingWeightPlugin }, keyLayout),
		borsh.F("max_proposal_lifetime", func(r *Root) *uint64 { return &r.MaxProposalLifetime }, u64Layout),
		borsh.F("voter_weight_reset", func(r *Root) **VoterWeightReset { return &r.VoterWeightReset }, borsh.Option(voterWeightResetLayout)),
		borsh.F("clan_count", func(r *Root) *uint64 { return &r.ClanCount }, u64Layout),
		borsh.F("member_count", func(r *Root) *uint64 { return &r.MemberCount }, u64Layout),
		borsh.F("bumps", func(r *Root) *RootBumps { return &r.Bumps }, borsh.Struct(
			borsh.F("root", func(b *RootBumps) *uint8 { return &b.Root }, u8Layout),
			borsh.F("max_voter_weight", func(b *RootBumps) *uint8 { return &b.MaxVoterWeight }, u8Layout),
			borsh.F("lock_authority", func(b *RootBumps) *uint8 { return &b.LockAuthority }, u8Layout),
		)),
	)

	clanLayout = borsh.Struct(
		borsh.F("root", func(c *Clan) *address.PublicKey { return &c.Root }, keyLayout),
		borsh.F("owner", func(c *Clan) *address.PublicKey { return &c.Owner }, keyLayout),
		borsh.F("delegate", func(c *Clan) *address.PublicKey { return &c.Delegate }, keyLayout),
		borsh.F("voter_authority", func(c *Clan) *address.PublicKey { return &c.VoterAuthority }, keyLayout),
		borsh.F("token_owner_record", func(c *Clan) *address.PublicKey { return &c.TokenOwnerRecord }, keyLayout),
		borsh.F("voter_weight_record", func(c *Clan) *address.PublicKey { return &c.VoterWeightRecord }, keyLayout),
		borsh.F("min_voting_weight_to_join", func(c *Clan) *uint64 { return &c.MinVotingWeightToJoin }, u64Layout),
		borsh.F("permanent_members", func(c *Clan) *uint64 { return &c.PermanentMembers }, u64Layout),
		borsh.F("temporary_members", func(c *Clan) *uint64 { return &c.TemporaryMembers }, u64Layout),
		borsh.F("updated_temporary_members", func(c *Clan) *uint64 { return &c.UpdatedTemporaryMembers }, u64Layout),
		borsh.F("leaving_members", func(c *Clan) *uint64 { return &c.LeavingMembers }, u64Layout),
		borsh.F("accept_temporary_members", func(c *Clan) *bool { return &c.AcceptTemporaryMembers }, boolLayout),
		borsh.F("permanent_voter_weight", func(c *Clan) *uint64 { return &c.PermanentVoterWeight }, u64Layout),
		borsh.F("next_voter_weight_reset_time", func(c *Clan) **int64 { return &c.NextVoterWeightResetTime }, optI64),
		borsh.F("name", func(c *Clan) *string { return &c.Name }, stringLayout),
		borsh.F("description", func(c *Clan) *string { return &c.Description }, stringLayout),
		borsh.F("bumps", func(c *Clan) *ClanBumps { return &c.Bumps }, borsh.Struct(
			borsh.F("voter_authority", func(b *ClanBumps) *uint8 { return &b.VoterAuthority }, u8Layout),
			borsh.F("token_owner_record", func(b *ClanBumps) *uint8 { return &b.TokenOwnerRecord }, u8Layout),
			borsh.F("voter_weight_record", func(b *ClanBumps) *uint8 { return &b.VoterWeightRecord }, u8Layout),
		)),
	)

	membershipEntryLayout = borsh.Struct(
		borsh.F("clan", func(e *MembershipEntry) *address.PublicKey { return &e.Clan }, keyLayout),
		borsh.F("share_bp", func(e *MembershipEntry) *uint16 { return &e.ShareBp }, u16Layout),
		borsh.F("exitable_at", func(e *MembershipEntry) **int64 { return &e.ExitableAt }, optI64),
	)

	memberLayout = borsh.Struct(
		borsh.F("root", func(m *Member) *address.PublicKey { return &m.Root }, keyLayout),
		borsh.F("owner", func(m *Member) *address.PublicKey { return &m.Owner }, keyLayout),
		borsh.F("delegate", func(m *Member) *address.PublicKey { return &m.Delegate }, keyLayout),
		borsh.F("token_owner_record", func(m *Member) *address.PublicKey { return &m.TokenOwnerRecord }, keyLayout),
		borsh.F("voter_weight_record", func(m *Member) *address.PublicKey { return &m.VoterWeightRecord }, keyLayout),
		borsh.F("voter_weight", func(m *Member) *uint64 { return &m.VoterWeight }, u64Layout),
		borsh.F("voter_weight_expiry", func(m *Member) **uint64 { return &m.VoterWeightExpiry }, optU64),
		borsh.F("next_voter_weight_reset_time", func(m *Member) **int64 { return &m.NextVoterWeightResetTime }, optI64),
		borsh.F("membership", func(m *Member) *[]MembershipEntry { return &m.Membership }, borsh.Vec(membershipEntryLayout)),
		borsh.F("bumps", func(m *Member) *MemberBumps { return &m.Bumps }, borsh.Struct(
			borsh.F("address", func(b *MemberBumps) *uint8 { return &b.Address }, u8Layout),
			borsh.F("token_owner_record", func(b *MemberBumps) *uint8 { return &b.TokenOwnerRecord }, u8Layout),
		)),
	)
)
