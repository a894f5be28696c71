package governance

import (
	"solana-governance-kit/internal/borsh"
	"solana-governance-kit/internal/codec"
)

// Account record names.
const (
	RealmV1Name               = "realm-v1"
	TokenOwnerRecordV1Name    = "token-owner-record-v1"
	GovernanceV1Name          = "governance-v1"
	ProgramGovernanceV1Name   = "program-governance-v1"
	ProposalV1Name            = "proposal-v1"
	SignatoryRecordV1Name     = "signatory-record-v1"
	VoteRecordV1Name          = "vote-record-v1"
	MintGovernanceV1Name      = "mint-governance-v1"
	TokenGovernanceV1Name     = "token-governance-v1"
	RealmConfigName           = "realm-config"
	VoteRecordV2Name          = "vote-record-v2"
	ProposalTransactionV2Name = "proposal-transaction-v2"
	ProposalV2Name            = "proposal-v2"
	ProgramMetadataName       = "program-metadata"
	RealmV2Name               = "realm-v2"
	TokenOwnerRecordV2Name    = "token-owner-record-v2"
	GovernanceV2Name          = "governance-v2"
	ProgramGovernanceV2Name   = "program-governance-v2"
	MintGovernanceV2Name      = "mint-governance-v2"
	TokenGovernanceV2Name     = "token-governance-v2"
	SignatoryRecordV2Name     = "signatory-record-v2"
	ProposalDepositName       = "proposal-deposit"
	RequiredSignatoryName     = "required-signatory"
	NativeTreasuryName        = "native-treasury"
)

// Declared account sizes of the fixed-size records.
const (
	GovernanceV1Size      = 108
	SignatoryRecordV1Size = 66
	VoteRecordV1Size      = 75
	NativeTreasurySize    = 0
	ProposalDepositSize   = 129
	RequiredSignatorySize = 66
	SignatoryRecordV2Size = 74
	VoteRecordV2Size      = 83
)

// Register adds every governance account and instruction to c.
func Register(c *codec.Catalog) {
	registerAccounts(c)
	registerInstructions(c)
}

func account[T any](c *codec.Catalog, name string, tag AccountType, layout borsh.Layout[T], size int) {
	codec.RegisterAccount(c, codec.AccountSpec[T]{
		Name:          name,
		Family:        codec.FamilyGovernance,
		Discriminator: codec.Tag(uint8(tag)),
		Layout:        layout,
		StaticSize:    size,
	})
}

func registerAccounts(c *codec.Catalog) {
	const variable = codec.VariableSize

	account(c, RealmV1Name, AccountRealmV1, realmV1Layout, variable)
	account(c, TokenOwnerRecordV1Name, AccountTokenOwnerRecordV1, tokenOwnerRecordV1Layout, variable)
	account(c, GovernanceV1Name, AccountGovernanceV1, governanceV1Layout, GovernanceV1Size)
	account(c, ProgramGovernanceV1Name, AccountProgramGovernanceV1, governanceV1Layout, GovernanceV1Size)
	account(c, MintGovernanceV1Name, AccountMintGovernanceV1, governanceV1Layout, GovernanceV1Size)
	account(c, TokenGovernanceV1Name, AccountTokenGovernanceV1, governanceV1Layout, GovernanceV1Size)
	account(c, ProposalV1Name, AccountProposalV1, proposalV1Layout, variable)
	account(c, SignatoryRecordV1Name, AccountSignatoryRecordV1, signatoryRecordV1Layout, SignatoryRecordV1Size)
	account(c, VoteRecordV1Name, AccountVoteRecordV1, voteRecordV1Layout, VoteRecordV1Size)
	account(c, RealmConfigName, AccountRealmConfig, realmConfigAccountLayout, variable)
	account(c, VoteRecordV2Name, AccountVoteRecordV2, voteRecordV2Layout, VoteRecordV2Size)
	account(c, ProposalTransactionV2Name, AccountProposalTransactionV2, proposalTransactionV2Layout, variable)
	account(c, ProposalV2Name, AccountProposalV2, proposalV2Layout, variable)
	account(c, ProgramMetadataName, AccountProgramMetadata, programMetadataLayout, variable)
	account(c, RealmV2Name, AccountRealmV2, realmV2Layout, variable)
	account(c, TokenOwnerRecordV2Name, AccountTokenOwnerRecordV2, tokenOwnerRecordV2Layout, variable)
	account(c, GovernanceV2Name, AccountGovernanceV2, governanceV2Layout, variable)
	account(c, ProgramGovernanceV2Name, AccountProgramGovernanceV2, governanceV2Layout, variable)
	account(c, MintGovernanceV2Name, AccountMintGovernanceV2, governanceV2Layout, variable)
	account(c, TokenGovernanceV2Name, AccountTokenGovernanceV2, governanceV2Layout, variable)
	account(c, SignatoryRecordV2Name, AccountSignatoryRecordV2, signatoryRecordV2Layout, SignatoryRecordV2Size)
	account(c, ProposalDepositName, AccountProposalDeposit, proposalDepositLayout, ProposalDepositSize)
	account(c, RequiredSignatoryName, AccountRequiredSignatory, requiredSignatoryLayout, RequiredSignatorySize)

	// The treasury is a bare system account with no type byte.
	codec.RegisterAccount(c, codec.AccountSpec[NativeTreasury]{
		Name:       NativeTreasuryName,
		Family:     codec.FamilyGovernance,
		Layout:     nativeTreasuryLayout,
		StaticSize: NativeTreasurySize,
	})
}

func instruction[T any](c *codec.Catalog, name string, tag uint8, layout borsh.Layout[T]) {
	codec.RegisterInstruction(c, codec.InstructionSpec[T]{
		Name:          name,
		Family:        codec.FamilyGovernance,
		Discriminator: codec.Tag(tag),
		Layout:        layout,
	})
}

func registerInstructions(c *codec.Catalog) {
	noArgs := codec.NoArgsLayout

	instruction(c, "create-realm", IxCreateRealm, createRealmLayout)
	instruction(c, "deposit-governing-tokens", IxDepositGoverningTokens, amountLayout)
	instruction(c, "withdraw-governing-tokens", IxWithdrawGoverningTokens, noArgs)
	instruction(c, "set-governance-delegate", IxSetGovernanceDelegate, setGovernanceDelegateLayout)
	instruction(c, "create-governance", IxCreateGovernance, governanceConfigArgsLayout)
	instruction(c, "create-program-governance", IxCreateProgramGovernance, createProgramGovernanceLayout)
	instruction(c, "create-proposal", IxCreateProposal, createProposalLayout)
	instruction(c, "add-signatory", IxAddSignatory, signatoryLayout)
	instruction(c, "insert-transaction", IxInsertTransaction, insertTransactionLayout)
	instruction(c, "remove-transaction", IxRemoveTransaction, noArgs)
	instruction(c, "cancel-proposal", IxCancelProposal, noArgs)
	instruction(c, "sign-off-proposal", IxSignOffProposal, noArgs)
	instruction(c, "cast-vote", IxCastVote, castVoteLayout)
	instruction(c, "finalize-vote", IxFinalizeVote, noArgs)
	instruction(c, "relinquish-vote", IxRelinquishVote, noArgs)
	instruction(c, "execute-transaction", IxExecuteTransaction, noArgs)
	instruction(c, "create-mint-governance", IxCreateMintGovernance, createMintGovernanceLayout)
	instruction(c, "create-token-governance", IxCreateTokenGovernance, createTokenGovernanceLayout)
	instruction(c, "set-governance-config", IxSetGovernanceConfig, governanceConfigArgsLayout)
	instruction(c, "flag-transaction-error", IxFlagTransactionError, noArgs)
	instruction(c, "set-realm-authority", IxSetRealmAuthority, setRealmAuthorityLayout)
	instruction(c, "set-realm-config", IxSetRealmConfig, setRealmConfigLayout)
	instruction(c, "create-token-owner-record", IxCreateTokenOwnerRecord, noArgs)
	instruction(c, "create-native-treasury", IxCreateNativeTreasury, noArgs)
	instruction(c, "revoke-governing-tokens", IxRevokeGoverningTokens, amountLayout)
	instruction(c, "refund-proposal-deposit", IxRefundProposalDeposit, noArgs)
	instruction(c, "complete-proposal", IxCompleteProposal, noArgs)
	instruction(c, "add-required-signatory", IxAddRequiredSignatory, signatoryLayout)
	instruction(c, "remove-required-signatory", IxRemoveRequiredSignatory, noArgs)
	instruction(c, "set-token-owner-record-lock", IxSetTokenOwnerRecordLock, setTokenOwnerRecordLockLayout)
	instruction(c, "remove-token-owner-record-lock", IxRemoveTokenOwnerRecordLock, removeTokenOwnerRecordLockLayout)
	instruction(c, "set-realm-config-item", IxSetRealmConfigItem, setRealmConfigItemLayout)
}
