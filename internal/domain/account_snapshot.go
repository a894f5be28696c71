package domain

// AccountSnapshot is the raw data of one program account observed at a slot.
// Corresponds to account_snapshots table in PostgreSQL.
type AccountSnapshot struct {
	Address    string // base58 account address
	Slot       int64  // slot the data was observed at
	ProgramID  string // owning program
	RecordType string // catalog record name, e.g. "voter-weight-record"
	Data       []byte // raw account data including the discriminator
	Lamports   int64
	FetchedAt  int64 // Unix timestamp in milliseconds
}
