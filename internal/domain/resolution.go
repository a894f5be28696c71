package domain

// VoterWeightResolution records one voter-weight lookup and the record it
// settled on. Corresponds to voter_weight_resolutions table in ClickHouse.
type VoterWeightResolution struct {
	Root         string // aggregator root account
	Owner        string // governing token owner
	Plugin       string // voting weight plugin program
	Selected     string // chosen voter-weight record address
	VoterWeight  uint64
	Expiry       *int64 // nil when the selected weight never expires
	Candidates   uint32 // records considered
	ResolvedAtMs int64  // Unix timestamp in milliseconds
}
