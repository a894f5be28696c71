package aggregator

import (
	"strings"

	"solana-governance-kit/internal/borsh"
	"solana-governance-kit/internal/codec"
)

// Account record names.
const (
	VoterWeightRecordName    = "voter-weight-record"
	MaxVoterWeightRecordName = "max-voter-weight-record"
	RootName                 = "root"
	ClanName                 = "clan"
	MemberName               = "member"
)

// Declared account sizes, discriminator included.
const (
	VoterWeightRecordSize    = 164
	MaxVoterWeightRecordSize = 97
)

var (
	// VoterWeightRecordDiscriminator tags voter-weight records written by
	// Anchor plugins.
	VoterWeightRecordDiscriminator = codec.AnchorAccount("VoterWeightRecord")

	// LegacyVoterWeightRecordDiscriminator tags voter-weight records written by
	// plugins built on the original addin API: the ASCII bytes "2ef99b4b".
	LegacyVoterWeightRecordDiscriminator = codec.Discriminator("2ef99b4b")

	MaxVoterWeightRecordDiscriminator = codec.AnchorAccount("MaxVoterWeightRecord")
)

// Instruction names.
const (
	CreateRoot             = "create-root"
	UpdateRoot             = "update-root"
	SetMaxProposalLifetime = "set-max-proposal-lifetime"
	SetVoterWeightReset    = "set-voter-weight-reset"
	CreateClan             = "create-clan"
	UpdateClan             = "update-clan"
	SetClanOwner           = "set-clan-owner"
	ResizeClan             = "resize-clan"
	SetClanName            = "set-clan-name"
	SetClanDescription     = "set-clan-description"
	UpdateProposalVote     = "update-proposal-vote"
	ForcedCancelProposal   = "forced-cancel-proposal"
	CreateMember           = "create-member"
	JoinClan               = "join-clan"
	StartLeavingClan       = "start-leaving-clan"
	ExitClan               = "exit-clan"
	SetVotingDelegate      = "set-voting-delegate"
	UpdateVoterWeight      = "update-voter-weight"
	SetVoterWeightRecord   = "set-voter-weight-record"
)

// Register adds the aggregator accounts and instructions to c.
func Register(c *codec.Catalog) {
	account(c, VoterWeightRecordName, VoterWeightRecordDiscriminator, voterWeightRecordLayout, VoterWeightRecordSize)
	account(c, MaxVoterWeightRecordName, MaxVoterWeightRecordDiscriminator, maxVoterWeightRecordLayout, MaxVoterWeightRecordSize)
	account(c, RootName, codec.AnchorAccount("Root"), rootLayout, codec.VariableSize)
	account(c, ClanName, codec.AnchorAccount("Clan"), clanLayout, codec.VariableSize)
	account(c, MemberName, codec.AnchorAccount("Member"), memberLayout, codec.VariableSize)

	noArgs := codec.NoArgsLayout
	instruction(c, CreateRoot, createRootLayout)
	instruction(c, UpdateRoot, noArgs)
	instruction(c, SetMaxProposalLifetime, setMaxProposalLifetimeLayout)
	instruction(c, SetVoterWeightReset, setVoterWeightResetLayout)
	instruction(c, CreateClan, ownerLayout)
	instruction(c, UpdateClan, noArgs)
	instruction(c, SetClanOwner, ownerLayout)
	instruction(c, ResizeClan, resizeClanLayout)
	instruction(c, SetClanName, setClanNameLayout)
	instruction(c, SetClanDescription, setClanDescriptionLayout)
	instruction(c, UpdateProposalVote, noArgs)
	instruction(c, ForcedCancelProposal, noArgs)
	instruction(c, CreateMember, noArgs)
	instruction(c, JoinClan, joinClanLayout)
	instruction(c, StartLeavingClan, noArgs)
	instruction(c, ExitClan, noArgs)
	instruction(c, SetVotingDelegate, setVotingDelegateLayout)
	instruction(c, UpdateVoterWeight, noArgs)
	instruction(c, SetVoterWeightRecord, noArgs)
}

func account[T any](c *codec.Catalog, name string, disc codec.Discriminator, layout borsh.Layout[T], size int) {
	codec.RegisterAccount(c, codec.AccountSpec[T]{
		Name:          name,
		Family:        codec.FamilyAggregator,
		Discriminator: disc,
		Layout:        layout,
		StaticSize:    size,
	})
}

// instruction derives the Anchor sighash from the kebab-case name.
func instruction[T any](c *codec.Catalog, name string, layout borsh.Layout[T]) {
	codec.RegisterInstruction(c, codec.InstructionSpec[T]{
		Name:          name,
		Family:        codec.FamilyAggregator,
		Discriminator: codec.AnchorInstruction(strings.ReplaceAll(name, "-", "_")),
		Layout:        layout,
	})
}
