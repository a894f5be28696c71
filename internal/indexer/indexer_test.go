package indexer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-governance-kit/internal/address"
	"solana-governance-kit/internal/aggregator"
	"solana-governance-kit/internal/codec"
	"solana-governance-kit/internal/governance"
	"solana-governance-kit/internal/solana"
	"solana-governance-kit/internal/solana/stub"
	"solana-governance-kit/internal/storage"
	"solana-governance-kit/internal/storage/memory"
)

var program = aggregator.DefaultProgramID

type fixture struct {
	rpc       *stub.RPCClient
	catalog   *codec.Catalog
	snapshots *memory.AccountSnapshotStore
	ix        *Indexer
}

func newFixture(t *testing.T, ws solana.WSClient) *fixture {
	t.Helper()
	f := &fixture{
		rpc:       stub.NewRPCClient(),
		catalog:   codec.NewCatalog(),
		snapshots: memory.NewAccountSnapshotStore(),
	}
	aggregator.Register(f.catalog)
	governance.Register(f.catalog)
	f.rpc.SetSlot(100)
	f.ix = New(Options{
		RPC:       f.rpc,
		WS:        ws,
		Catalog:   f.catalog,
		Snapshots: f.snapshots,
		Now:       func() time.Time { return time.UnixMilli(1700000000000) },
	})
	return f
}

func (f *fixture) clanData(t *testing.T, name string) []byte {
	t.Helper()
	data, err := f.catalog.Encode(aggregator.ClanName, aggregator.Clan{Name: name, Description: "d"})
	require.NoError(t, err)
	return data
}

// voterWeightData returns a record padded to its allocated size, as stored on chain.
func (f *fixture) voterWeightData(t *testing.T, weight uint64, legacy bool) []byte {
	t.Helper()
	data, err := f.catalog.Encode(aggregator.VoterWeightRecordName, aggregator.VoterWeightRecord{
		VoterWeight: weight,
		Reserved:    make([]byte, 8),
	})
	require.NoError(t, err)
	out := make([]byte, aggregator.VoterWeightRecordSize)
	copy(out, data)
	if legacy {
		copy(out, aggregator.LegacyVoterWeightRecordDiscriminator)
	}
	return out
}

func TestFilters(t *testing.T) {
	f := newFixture(t, nil)

	filters, err := Filters(f.catalog, aggregator.VoterWeightRecordName)
	require.NoError(t, err)
	require.Len(t, filters, 2)
	require.NotNil(t, filters[0].DataSize)
	assert.Equal(t, uint64(aggregator.VoterWeightRecordSize), *filters[0].DataSize)
	require.NotNil(t, filters[1].Memcmp)
	assert.Equal(t, uint64(0), filters[1].Memcmp.Offset)
	assert.Equal(t, []byte(aggregator.VoterWeightRecordDiscriminator), filters[1].Memcmp.Bytes)

	filters, err = Filters(f.catalog, aggregator.ClanName)
	require.NoError(t, err)
	require.Len(t, filters, 1)
	assert.Nil(t, filters[0].DataSize)

	filters, err = Filters(f.catalog, governance.VoteRecordV2Name)
	require.NoError(t, err)
	require.Len(t, filters, 2)
	assert.Equal(t, uint64(governance.VoteRecordV2Size), *filters[0].DataSize)
	assert.Equal(t, []byte{byte(governance.AccountVoteRecordV2)}, filters[1].Memcmp.Bytes)

	_, err = Filters(f.catalog, "no-such-record")
	assert.ErrorIs(t, err, codec.ErrUnknownRecordType)
}

func TestWithDiscriminator(t *testing.T) {
	filters := []solana.Filter{solana.DataSize(164), solana.Memcmp(0, []byte{1, 2}), solana.Memcmp(8, []byte{3})}

	out := withDiscriminator(filters, codec.Discriminator{9, 9})
	require.Len(t, out, 3)
	assert.Equal(t, []byte{9, 9}, out[1].Memcmp.Bytes)
	assert.Equal(t, []byte{3}, out[2].Memcmp.Bytes)
	assert.Equal(t, []byte{1, 2}, filters[1].Memcmp.Bytes, "input filters must not change")
}

func TestTargets(t *testing.T) {
	f := newFixture(t, nil)

	agg := Targets(f.catalog, codec.FamilyAggregator, program)
	assert.Len(t, agg, 5)

	gov := Targets(f.catalog, codec.FamilyGovernance, governance.DefaultProgramID)
	assert.Len(t, gov, len(f.catalog.AccountNames(codec.FamilyGovernance))-1)
	for _, target := range gov {
		assert.NotEqual(t, governance.NativeTreasuryName, target.Record)
		assert.Equal(t, governance.DefaultProgramID, target.Program)
	}
}

func TestSync_StoresOnlyChanges(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	target := Target{Program: program, Record: aggregator.ClanName}

	f.rpc.SetAccount(address.PublicKey{1}, program, f.clanData(t, "alpha"))
	f.rpc.SetAccount(address.PublicKey{2}, program, f.clanData(t, "beta"))
	// Owned by another program.
	f.rpc.SetAccount(address.PublicKey{3}, address.PublicKey{0xEE}, f.clanData(t, "gamma"))

	res, err := f.ix.Sync(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Fetched)
	assert.Equal(t, 2, res.Stored)
	assert.Equal(t, uint64(100), res.Slot)

	res, err = f.ix.Sync(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Stored)
	assert.Equal(t, 2, res.Unchanged)

	f.rpc.SetSlot(200)
	f.rpc.SetAccount(address.PublicKey{2}, program, f.clanData(t, "beta-renamed"))

	res, err = f.ix.Sync(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stored)
	assert.Equal(t, 1, res.Unchanged)

	latest, err := f.snapshots.GetLatest(ctx, address.PublicKey{2}.String())
	require.NoError(t, err)
	assert.Equal(t, int64(200), latest.Slot)
	assert.Equal(t, aggregator.ClanName, latest.RecordType)
	assert.Equal(t, program.String(), latest.ProgramID)
	assert.Equal(t, int64(1700000000000), latest.FetchedAt)

	clan, err := codec.DecodeAccount[aggregator.Clan](f.catalog, aggregator.ClanName, latest.Data)
	require.NoError(t, err)
	assert.Equal(t, "beta-renamed", clan.Name)

	all, err := f.snapshots.GetByRecordType(ctx, aggregator.ClanName)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSync_IncludesLegacyVoterWeightRecords(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.rpc.SetAccount(address.PublicKey{1}, program, f.voterWeightData(t, 10, false))
	f.rpc.SetAccount(address.PublicKey{2}, program, f.voterWeightData(t, 20, true))

	res, err := f.ix.Sync(ctx, Target{Program: program, Record: aggregator.VoterWeightRecordName})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Fetched)
	assert.Equal(t, 2, res.Stored)
	assert.Equal(t, 0, res.Invalid)

	legacy, err := f.snapshots.GetLatest(ctx, address.PublicKey{2}.String())
	require.NoError(t, err)
	assert.True(t, aggregator.LegacyVoterWeightRecordDiscriminator.Matches(legacy.Data), "stored data keeps its original discriminator")
}

func TestSync_SkipsUndecodableAccounts(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.rpc.SetAccount(address.PublicKey{1}, program, f.clanData(t, "ok"))
	f.rpc.SetAccount(address.PublicKey{2}, program, f.clanData(t, "truncated")[:20])

	res, err := f.ix.Sync(ctx, Target{Program: program, Record: aggregator.ClanName})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Fetched)
	assert.Equal(t, 1, res.Stored)
	assert.Equal(t, 1, res.Invalid)

	_, err = f.snapshots.GetLatest(ctx, address.PublicKey{2}.String())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSync_RPCError(t *testing.T) {
	f := newFixture(t, nil)
	f.rpc.Err = errors.New("node unavailable")

	_, err := f.ix.Sync(context.Background(), Target{Program: program, Record: aggregator.ClanName})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node unavailable")
}

func TestSyncAll(t *testing.T) {
	f := newFixture(t, nil)
	f.rpc.SetAccount(address.PublicKey{1}, program, f.clanData(t, "alpha"))

	results, err := f.ix.SyncAll(context.Background(), Targets(f.catalog, codec.FamilyAggregator, program))
	require.NoError(t, err)
	require.Len(t, results, 5)

	stored := 0
	for _, r := range results {
		stored += r.Stored
	}
	assert.Equal(t, 1, stored)
}

type fakeWS struct {
	ch      chan solana.AccountNotification
	program address.PublicKey
	filters []solana.Filter
}

func (w *fakeWS) SubscribeAccount(context.Context, address.PublicKey) (<-chan solana.AccountNotification, error) {
	return nil, errors.New("not supported")
}

func (w *fakeWS) SubscribeProgram(_ context.Context, program address.PublicKey, filters ...solana.Filter) (<-chan solana.AccountNotification, error) {
	w.program = program
	w.filters = filters
	return w.ch, nil
}

func (w *fakeWS) Close() error { return nil }

func TestWatch(t *testing.T) {
	ws := &fakeWS{ch: make(chan solana.AccountNotification, 4)}
	f := newFixture(t, ws)
	ctx := context.Background()

	good := f.clanData(t, "live")
	ws.ch <- solana.AccountNotification{Address: address.PublicKey{1}, Account: solana.Account{Data: good}, Slot: 300}
	ws.ch <- solana.AccountNotification{Address: address.PublicKey{1}, Account: solana.Account{Data: good}, Slot: 301}
	ws.ch <- solana.AccountNotification{Address: address.PublicKey{2}, Account: solana.Account{Data: good[:10]}, Slot: 302}
	close(ws.ch)

	require.NoError(t, f.ix.Watch(ctx, Target{Program: program, Record: aggregator.ClanName}))
	assert.Equal(t, program, ws.program)
	assert.Len(t, ws.filters, 1)

	snaps, err := f.snapshots.GetByRecordType(ctx, aggregator.ClanName)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, int64(300), snaps[0].Slot, "unchanged data is not stored again")
}

func TestWatch_ContextCancelled(t *testing.T) {
	ws := &fakeWS{ch: make(chan solana.AccountNotification)}
	f := newFixture(t, ws)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.ix.Watch(ctx, Target{Program: program, Record: aggregator.ClanName})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatch_RequiresWebsocket(t *testing.T) {
	f := newFixture(t, nil)

	err := f.ix.Watch(context.Background(), Target{Program: program, Record: aggregator.ClanName})
	assert.Error(t, err)
}
