package voterweight

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-governance-kit/internal/address"
	"solana-governance-kit/internal/aggregator"
	"solana-governance-kit/internal/codec"
	"solana-governance-kit/internal/solana/stub"
)

type fixture struct {
	rpc     *stub.RPCClient
	catalog *codec.Catalog
	root    address.PublicKey
	plugin  address.PublicKey
	realm   address.PublicKey
	mint    address.PublicKey
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		rpc:     stub.NewRPCClient(),
		catalog: codec.NewCatalog(),
		plugin:  address.PublicKey{0x50},
		realm:   address.PublicKey{0x51},
		mint:    address.PublicKey{0x52},
	}
	aggregator.Register(f.catalog)

	root, _, err := aggregator.RootAddress(aggregator.DefaultProgramID, f.realm, f.mint)
	require.NoError(t, err)
	f.root = root

	data, err := f.catalog.Encode(aggregator.RootName, aggregator.Root{
		Realm:              f.realm,
		GoverningTokenMint: f.mint,
		VotingWeightPlugin: f.plugin,
	})
	require.NoError(t, err)
	f.rpc.SetAccount(root, aggregator.DefaultProgramID, data)
	return f
}

func (f *fixture) addRecord(t *testing.T, at byte, owner address.PublicKey, weight uint64, exp *int64, legacy bool) {
	t.Helper()
	data, err := f.catalog.Encode(aggregator.VoterWeightRecordName, aggregator.VoterWeightRecord{
		Realm:               f.realm,
		GoverningTokenMint:  f.mint,
		GoverningTokenOwner: owner,
		VoterWeight:         weight,
		VoterWeightExpiry:   exp,
		Reserved:            make([]byte, 8),
	})
	require.NoError(t, err)
	if legacy {
		copy(data, aggregator.LegacyVoterWeightRecordDiscriminator)
	}
	f.rpc.SetAccount(address.PublicKey{at}, f.plugin, data)
}

func TestFinder_Find(t *testing.T) {
	f := newFixture(t)
	owner := address.PublicKey{0x0A}

	f.addRecord(t, 1, owner, 30, expiry(500), false)
	f.addRecord(t, 2, owner, 70, expiry(500), true)
	f.addRecord(t, 3, address.PublicKey{0x0B}, 1_000, nil, false)

	res, err := NewFinder(f.rpc, f.catalog).Find(context.Background(), f.root, owner)
	require.NoError(t, err)

	assert.Equal(t, address.PublicKey{2}, res.Selected.Address)
	assert.Equal(t, uint64(70), res.Selected.Record.VoterWeight)
	assert.Len(t, res.Candidates, 2)
	assert.Equal(t, f.plugin, res.Plugin())
	assert.Equal(t, 2, f.rpc.Calls["getProgramAccounts"])
}

func TestFinder_FindByRealm(t *testing.T) {
	f := newFixture(t)
	owner := address.PublicKey{0x0A}
	f.addRecord(t, 1, owner, 5, nil, true)

	res, err := NewFinder(f.rpc, f.catalog).FindByRealm(context.Background(), f.realm, f.mint, owner)
	require.NoError(t, err)
	assert.Equal(t, f.root, res.RootAddress)
	assert.Equal(t, address.PublicKey{1}, res.Selected.Address)
}

func TestFinder_NotFound(t *testing.T) {
	f := newFixture(t)
	owner := address.PublicKey{0x0A}
	f.addRecord(t, 1, address.PublicKey{0x0C}, 5, nil, false)

	_, err := NewFinder(f.rpc, f.catalog).Find(context.Background(), f.root, owner)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "in the plugin "+f.plugin.String())
}

func TestFinder_RootMissing(t *testing.T) {
	f := newFixture(t)

	_, err := NewFinder(f.rpc, f.catalog).Find(context.Background(), address.PublicKey{0xEE}, address.PublicKey{1})
	assert.ErrorIs(t, err, ErrRootNotFound)
}

func TestFinder_RPCError(t *testing.T) {
	f := newFixture(t)
	f.rpc.Err = errors.New("node down")

	_, err := NewFinder(f.rpc, f.catalog).Find(context.Background(), f.root, address.PublicKey{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node down")
}

func TestFinder_CorruptRecord(t *testing.T) {
	f := newFixture(t)
	owner := address.PublicKey{0x0A}
	f.addRecord(t, 1, owner, 5, nil, false)

	// Invalid option presence byte for the expiry.
	acc, err := f.rpc.GetAccountInfo(context.Background(), address.PublicKey{1})
	require.NoError(t, err)
	data := acc.Data
	data[112] = 7
	f.rpc.SetAccount(address.PublicKey{1}, f.plugin, data)

	_, err = NewFinder(f.rpc, f.catalog).Find(context.Background(), f.root, owner)
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}
