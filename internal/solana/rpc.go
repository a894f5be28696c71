package solana

import (
	"context"

	"solana-governance-kit/internal/address"
)

// RPCClient defines the Solana RPC HTTP interface used to fetch account buffers.
type RPCClient interface {
	// GetAccountInfo retrieves one account. Returns nil if the account does not exist.
	GetAccountInfo(ctx context.Context, pubkey address.PublicKey) (*Account, error)

	// GetMultipleAccounts retrieves accounts in request order; missing accounts are nil.
	GetMultipleAccounts(ctx context.Context, pubkeys []address.PublicKey) ([]*Account, error)

	// GetProgramAccounts scans every account owned by program that passes all filters.
	GetProgramAccounts(ctx context.Context, program address.PublicKey, filters ...Filter) ([]KeyedAccount, error)

	// GetSlot retrieves the current slot.
	GetSlot(ctx context.Context) (uint64, error)
}

// Account represents Solana account information with decoded data.
type Account struct {
	Lamports   uint64
	Owner      address.PublicKey
	Data       []byte
	Executable bool
	RentEpoch  uint64
	// Slot is the context slot of the response, zero when the node omits it.
	Slot uint64
}

// KeyedAccount pairs an account with its address.
type KeyedAccount struct {
	Address address.PublicKey
	Account Account
}

// Filter is one getProgramAccounts filter: either an exact data size or a
// byte comparison at an offset.
type Filter struct {
	DataSize *uint64
	Memcmp   *MemcmpFilter
}

// MemcmpFilter matches Bytes at Offset in the account data.
type MemcmpFilter struct {
	Offset uint64
	Bytes  []byte
}

// DataSize returns a filter on the exact account data length.
func DataSize(n uint64) Filter {
	return Filter{DataSize: &n}
}

// Memcmp returns a filter on data[offset:offset+len(b)] == b.
func Memcmp(offset uint64, b []byte) Filter {
	return Filter{Memcmp: &MemcmpFilter{Offset: offset, Bytes: append([]byte(nil), b...)}}
}
