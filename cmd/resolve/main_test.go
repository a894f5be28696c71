package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-governance-kit/internal/address"
	"solana-governance-kit/internal/aggregator"
	"solana-governance-kit/internal/schema"
	"solana-governance-kit/internal/solana/stub"
	"solana-governance-kit/internal/voterweight"
)

var (
	realm  = address.PublicKey{0x51}
	mint   = address.PublicKey{0x52}
	plugin = address.PublicKey{0x50}
	owner  = address.PublicKey{0x0A}
)

func newRPC(t *testing.T) (*stub.RPCClient, address.PublicKey) {
	t.Helper()
	t.Setenv("GOVKIT_CONFIG", "")
	rpc := stub.NewRPCClient()

	root, _, err := aggregator.RootAddress(aggregator.DefaultProgramID, realm, mint)
	require.NoError(t, err)
	data, err := schema.Catalog().Encode(aggregator.RootName, aggregator.Root{
		Realm:              realm,
		GoverningTokenMint: mint,
		VotingWeightPlugin: plugin,
	})
	require.NoError(t, err)
	rpc.SetAccount(root, aggregator.DefaultProgramID, data)
	return rpc, root
}

func addRecord(t *testing.T, rpc *stub.RPCClient, at byte, weight uint64, expiry *int64) {
	t.Helper()
	data, err := schema.Catalog().Encode(aggregator.VoterWeightRecordName, aggregator.VoterWeightRecord{
		Realm:               realm,
		GoverningTokenMint:  mint,
		GoverningTokenOwner: owner,
		VoterWeight:         weight,
		VoterWeightExpiry:   expiry,
		Reserved:            make([]byte, 8),
	})
	require.NoError(t, err)
	rpc.SetAccount(address.PublicKey{at}, plugin, data)
}

func TestResolve_ByRoot(t *testing.T) {
	rpc, root := newRPC(t)
	exp := int64(900)
	addRecord(t, rpc, 1, 10, nil)
	addRecord(t, rpc, 2, 99, &exp)

	var stdout bytes.Buffer
	err := run(context.Background(), []string{"--root", root.String(), "--owner", owner.String(), "--log-level", "error"}, &stdout, rpc)
	require.NoError(t, err)

	var out Output
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, root.String(), out.Root)
	assert.Equal(t, plugin.String(), out.Plugin)
	assert.Equal(t, address.PublicKey{1}.String(), out.Selected.Address, "a never-expiring record beats an expiring one")
	assert.Nil(t, out.Selected.Expiry)
	assert.Len(t, out.Candidates, 2)
}

func TestResolve_ByRealmPersisted(t *testing.T) {
	rpc, _ := newRPC(t)
	addRecord(t, rpc, 1, 10, nil)

	var stdout bytes.Buffer
	err := run(context.Background(), []string{
		"--realm", realm.String(), "--mint", mint.String(), "--owner", owner.String(),
		"--persist", "--use-memory", "--log-level", "error",
	}, &stdout, rpc)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), address.PublicKey{1}.String())
}

func TestResolve_NotFound(t *testing.T) {
	rpc, root := newRPC(t)

	var stdout bytes.Buffer
	err := run(context.Background(), []string{"--root", root.String(), "--owner", owner.String(), "--log-level", "error"}, &stdout, rpc)
	require.Error(t, err)
	assert.True(t, voterweight.IsNotFound(err))
	assert.Equal(t, "can not find voter weight record for "+owner.String()+" in the plugin "+plugin.String(), err.Error())
}

func TestResolve_FlagErrors(t *testing.T) {
	rpc, root := newRPC(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing owner", []string{"--root", root.String()}},
		{"bad owner", []string{"--root", root.String(), "--owner", "0OIl"}},
		{"missing root", []string{"--owner", owner.String()}},
		{"realm without mint", []string{"--realm", realm.String(), "--owner", owner.String()}},
		{"persist without storage", []string{"--root", root.String(), "--owner", owner.String(), "--persist"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CLICKHOUSE_DSN", "")
			var stdout bytes.Buffer
			err := run(context.Background(), append(tt.args, "--log-level", "error"), &stdout, rpc)
			assert.Error(t, err)
		})
	}
}

func TestToRecord(t *testing.T) {
	exp := int64(77)
	res := &voterweight.Resolution{
		RootAddress: address.PublicKey{9},
		Root:        aggregator.Root{VotingWeightPlugin: plugin},
		Owner:       owner,
		Selected: voterweight.Candidate{
			Address: address.PublicKey{1},
			Record:  aggregator.VoterWeightRecord{VoterWeight: 5, VoterWeightExpiry: &exp},
		},
		Candidates: make([]voterweight.Candidate, 3),
	}

	rec := toRecord(res, time.UnixMilli(1234))
	assert.Equal(t, address.PublicKey{9}.String(), rec.Root)
	assert.Equal(t, plugin.String(), rec.Plugin)
	assert.Equal(t, uint64(5), rec.VoterWeight)
	assert.Equal(t, int64(77), *rec.Expiry)
	assert.Equal(t, uint32(3), rec.Candidates)
	assert.Equal(t, int64(1234), rec.ResolvedAtMs)
}
