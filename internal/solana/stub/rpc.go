// Package stub provides an in-memory solana.RPCClient for tests.
package stub

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"solana-governance-kit/internal/address"
	"solana-governance-kit/internal/solana"
)

// RPCClient implements solana.RPCClient over a map of accounts.
type RPCClient struct {
	mu       sync.RWMutex
	accounts map[address.PublicKey]solana.Account
	slot     uint64

	// Calls counts requests per method.
	Calls map[string]int
	// Err, when set, is returned by every method.
	Err error
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		accounts: make(map[address.PublicKey]solana.Account),
		Calls:    make(map[string]int),
	}
}

// SetAccount stores data under key, owned by owner.
func (c *RPCClient) SetAccount(key, owner address.PublicKey, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accounts[key] = solana.Account{
		Lamports: uint64(len(data)) * 6960,
		Owner:    owner,
		Data:     append([]byte(nil), data...),
		Slot:     c.slot,
	}
}

// SetSlot sets the slot returned by GetSlot and stamped on later accounts.
func (c *RPCClient) SetSlot(slot uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slot = slot
}

func (c *RPCClient) enter(method string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls[method]++
	return c.Err
}

// GetAccountInfo returns the stored account or nil.
func (c *RPCClient) GetAccountInfo(_ context.Context, pubkey address.PublicKey) (*solana.Account, error) {
	if err := c.enter("getAccountInfo"); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	acc, ok := c.accounts[pubkey]
	if !ok {
		return nil, nil
	}
	return &acc, nil
}

// GetMultipleAccounts returns stored accounts in request order.
func (c *RPCClient) GetMultipleAccounts(_ context.Context, pubkeys []address.PublicKey) ([]*solana.Account, error) {
	if err := c.enter("getMultipleAccounts"); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*solana.Account, len(pubkeys))
	for i, k := range pubkeys {
		if acc, ok := c.accounts[k]; ok {
			out[i] = &acc
		}
	}
	return out, nil
}

// GetProgramAccounts applies the filters the way a validator does and
// returns matches sorted by address.
func (c *RPCClient) GetProgramAccounts(_ context.Context, program address.PublicKey, filters ...solana.Filter) ([]solana.KeyedAccount, error) {
	if err := c.enter("getProgramAccounts"); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []solana.KeyedAccount
	for key, acc := range c.accounts {
		if acc.Owner == program && matches(acc.Data, filters) {
			out = append(out, solana.KeyedAccount{Address: key, Account: acc})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].Address[:], out[j].Address[:]) < 0
	})
	return out, nil
}

// GetSlot returns the configured slot.
func (c *RPCClient) GetSlot(context.Context) (uint64, error) {
	if err := c.enter("getSlot"); err != nil {
		return 0, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.slot, nil
}

func matches(data []byte, filters []solana.Filter) bool {
	for _, f := range filters {
		if f.DataSize != nil && uint64(len(data)) != *f.DataSize {
			return false
		}
		if m := f.Memcmp; m != nil {
			end := m.Offset + uint64(len(m.Bytes))
			if end > uint64(len(data)) || !bytes.Equal(data[m.Offset:end], m.Bytes) {
				return false
			}
		}
	}
	return true
}
