package aggregator

import "fmt"

// FirstErrorCode is the Anchor custom error offset the program's codes start at.
const FirstErrorCode = 6000

// ProgramError is a custom error the aggregator program can fail a
// transaction with.
type ProgramError struct {
	Code uint32
	Name string
	Msg  string
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Msg)
}

var programErrors = []ProgramError{
	{6000, "EmptyRealmAuthority", "Realm has no authority. Please create another realm with authority set"},
	{6001, "WrongRealmAuthority", "Wrong realm authority"},
	{6002, "WrongMemberAuthority", "Wrong member authority"},
	{6003, "WrongClanAuthority", "Wrong clan authority"},
	{6004, "TooLowVotingPower", "Your voting power is not enough to join this clan"},
	{6005, "TooEarlyToExitClan", "Can not exit clan waiting for the leave time"},
	{6006, "UnexpectedExitingClan", "Must start leaving clan first"},
	{6007, "NoNeedToUpdateProposalVote", "Proposal vote has correct weight already"},
	{6008, "WrongCommunityVoterWeightAddin", "Wrong community voter addin (must be this program ID)"},
	{6009, "EmptyCommunityVoterWeightAddin", "Must use this program ID as community voter weight addin"},
	{6010, "WrongMaxCommunityVoterWeightAddin", "Wrong max community voter weight addin (must be this program ID)"},
	{6011, "EmptyMaxCommunityVoterWeightAddin", "Must use this program ID as max community voter weight addin"},
	{6012, "WrongCouncilVoterWeightAddin", "Wrong council voter weight addin (must be this program ID)"},
	{6013, "MustUseCouncilVoterWeightAddin", "Must use this program ID as council voter weight addin"},
	{6014, "WrongCouncilMaxVoteWeightAddin", "Wrong council max vote weight addin (must be this program ID)"},
	{6015, "MustUseCouncilMaxVoteWeightAddin", "Must use this program ID as council max vote weight addin"},
	{6016, "ChangingVoteDelegatedClanOwner", "Reset voting delegate before changing clan owner"},
	{6017, "ClanIsRequired", "Must provide clan account"},
	{6018, "ClanVoterWeightRecordIsRequired", ""},
	{6019, "VotingWeightRecordIsRequired", "Must provide voting weight record account"},
	{6020, "MaxVoterWeightIsRequired", "Must provide max voter weight"},
	{6021, "ClanAuthorityIsRequired", "Must provide clan authority"},
	{6022, "RerequestingLeavingClan", "Requesting leaving clan when already leaving"},
	{6023, "CancelingNonExistentLeavingClanRequest", "Canceling leaving clan while not leaving"},
	{6024, "AlreadyJoinedClan", "Requesting to join a clan while already participating in some clan. Must exit first"},
	{6025, "MaxMembershipExceeded", ""},
	{6026, "InvalidShareBp", ""},
	{6027, "UnknownGoverningTokenMint", ""},
	{6028, "InvalidCouncilMint", ""},
	{6029, "CouncilMintRequired", ""},
	{6030, "CouncilTokenHoldingsRequired", ""},
	{6031, "CircularPluginChain", ""},
	{6032, "VoterWeightExpiryIsNotImplemented", ""},
	{6033, "UnexpectedWeightAction", ""},
	{6034, "UnexpectedWeightActionTarget", ""},
	{6035, "NextInstructionMustBeSetRealmConfig", ""},
	{6036, "VoterWeightExpired", ""},
	{6037, "TemporaryMembersNotAllowed", ""},
	{6038, "TemporaryMembersNotUpdated", ""},
	{6039, "UnexpectedClan", ""},
	{6040, "MemberHasUnrelinquishedVotes", ""},
	{6041, "MemberHasOutstandingProposals", ""},
	{6042, "CanNotChangeNextResetTime", ""},
	{6043, "InvalidResetStep", ""},
	{6044, "InvalidNextResetTime", ""},
}

// LookupError maps a custom program error code to its definition. Codes
// declared without a message use their name as the message.
func LookupError(code uint32) (*ProgramError, bool) {
	if code < FirstErrorCode || int(code-FirstErrorCode) >= len(programErrors) {
		return nil, false
	}
	e := programErrors[code-FirstErrorCode]
	if e.Msg == "" {
		e.Msg = e.Name
	}
	return &e, true
}
