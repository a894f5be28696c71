// Package indexer mirrors program accounts into an AccountSnapshotStore.
// Sync scans one record type with the filters its catalog entry implies;
// Watch follows the same scan live over a program subscription.
package indexer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"solana-governance-kit/internal/address"
	"solana-governance-kit/internal/aggregator"
	"solana-governance-kit/internal/codec"
	"solana-governance-kit/internal/domain"
	"solana-governance-kit/internal/observability"
	"solana-governance-kit/internal/solana"
	"solana-governance-kit/internal/storage"
	"solana-governance-kit/internal/voterweight"
)

// legacyDiscriminators lists record types that also live under an older
// discriminator. Such buffers are stored as fetched and re-tagged only to
// validate them.
var legacyDiscriminators = map[string]codec.Discriminator{
	aggregator.VoterWeightRecordName: aggregator.LegacyVoterWeightRecordDiscriminator,
}

// Target is one record type under the program that owns it.
type Target struct {
	Program address.PublicKey
	Record  string
}

func (t Target) String() string {
	return t.Record + "@" + t.Program.String()
}

// SyncResult summarizes one Sync.
type SyncResult struct {
	Target    Target
	Slot      uint64
	Fetched   int
	Stored    int
	Unchanged int
	// Invalid counts accounts that matched the filters but failed to decode.
	Invalid int
}

// Indexer syncs program accounts into snapshot storage.
type Indexer struct {
	rpc       solana.RPCClient
	ws        solana.WSClient
	catalog   *codec.Catalog
	snapshots storage.AccountSnapshotStore
	now       func() time.Time
}

// Options contains configuration for creating an Indexer.
type Options struct {
	RPC       solana.RPCClient
	WS        solana.WSClient // only needed by Watch
	Catalog   *codec.Catalog
	Snapshots storage.AccountSnapshotStore
	Now       func() time.Time
}

// New creates an Indexer.
func New(opts Options) *Indexer {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Indexer{
		rpc:       opts.RPC,
		ws:        opts.WS,
		catalog:   opts.Catalog,
		snapshots: opts.Snapshots,
		now:       now,
	}
}

// Filters converts the catalog's scan constraints for record into RPC filters.
func Filters(c *codec.Catalog, record string) ([]solana.Filter, error) {
	qf, err := c.QueryFilter(record)
	if err != nil {
		return nil, err
	}
	if qf.ExactSize == nil && len(qf.Memcmp) == 0 {
		return nil, fmt.Errorf("record %s has no discriminator or size to scan by", record)
	}

	var filters []solana.Filter
	if qf.ExactSize != nil {
		filters = append(filters, solana.DataSize(uint64(*qf.ExactSize)))
	}
	for _, m := range qf.Memcmp {
		filters = append(filters, solana.Memcmp(uint64(m.Offset), m.Bytes))
	}
	return filters, nil
}

// withDiscriminator swaps the offset-0 memcmp of filters for disc.
func withDiscriminator(filters []solana.Filter, disc codec.Discriminator) []solana.Filter {
	out := make([]solana.Filter, 0, len(filters))
	for _, f := range filters {
		if f.Memcmp != nil && f.Memcmp.Offset == 0 {
			f = solana.Memcmp(0, disc)
		}
		out = append(out, f)
	}
	return out
}

// Sync fetches every account of t, stores a snapshot of each one whose data
// changed since its latest stored snapshot, and skips the rest.
func (ix *Indexer) Sync(ctx context.Context, t Target) (SyncResult, error) {
	res := SyncResult{Target: t}
	log := Logger().With(zap.Stringer("target", t))

	filters, err := Filters(ix.catalog, t.Record)
	if err != nil {
		return res, err
	}

	slot, err := ix.rpc.GetSlot(ctx)
	if err != nil {
		return res, fmt.Errorf("get slot: %w", err)
	}
	res.Slot = slot

	accounts, err := ix.rpc.GetProgramAccounts(ctx, t.Program, filters...)
	if err != nil {
		return res, fmt.Errorf("scan %s: %w", t, err)
	}
	if legacy, ok := legacyDiscriminators[t.Record]; ok {
		more, err := ix.rpc.GetProgramAccounts(ctx, t.Program, withDiscriminator(filters, legacy)...)
		if err != nil {
			return res, fmt.Errorf("scan legacy %s: %w", t, err)
		}
		accounts = append(accounts, more...)
	}
	res.Fetched = len(accounts)

	fetchedAt := ix.now().UnixMilli()
	var batch []*domain.AccountSnapshot
	for _, acc := range accounts {
		if err := ix.validate(t.Record, acc.Account.Data); err != nil {
			res.Invalid++
			log.Warn("skipping undecodable account", zap.Stringer("address", acc.Address), zap.Error(err))
			continue
		}

		changed, err := ix.changed(ctx, acc.Address, acc.Account.Data)
		if err != nil {
			return res, err
		}
		if !changed {
			res.Unchanged++
			continue
		}
		batch = append(batch, snapshotOf(t, acc.Address, acc.Account, slot, fetchedAt))
	}

	// Deterministic insert order.
	sort.Slice(batch, func(i, j int) bool {
		return batch[i].Address < batch[j].Address
	})
	if err := ix.snapshots.InsertBulk(ctx, batch); err != nil {
		return res, fmt.Errorf("store %d snapshots of %s: %w", len(batch), t, err)
	}
	res.Stored = len(batch)

	observability.RecordSync(t.Record, slot, res.Stored, res.Unchanged+res.Invalid)
	log.Info("sync finished",
		zap.Uint64("slot", slot),
		zap.Int("fetched", res.Fetched),
		zap.Int("stored", res.Stored),
		zap.Int("unchanged", res.Unchanged),
		zap.Int("invalid", res.Invalid))
	return res, nil
}

// SyncAll runs Sync for each target in order and stops at the first error.
func (ix *Indexer) SyncAll(ctx context.Context, targets []Target) ([]SyncResult, error) {
	results := make([]SyncResult, 0, len(targets))
	for _, t := range targets {
		res, err := ix.Sync(ctx, t)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Watch subscribes to t's program with t's filters and stores a snapshot for
// every notification carrying new data. It returns when ctx is cancelled or
// the subscription ends.
func (ix *Indexer) Watch(ctx context.Context, t Target) error {
	if ix.ws == nil {
		return errors.New("indexer: watch requires a websocket client")
	}
	filters, err := Filters(ix.catalog, t.Record)
	if err != nil {
		return err
	}

	ch, err := ix.ws.SubscribeProgram(ctx, t.Program, filters...)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", t, err)
	}
	log := Logger().With(zap.Stringer("target", t))
	log.Info("watching")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-ch:
			if !ok {
				log.Info("subscription closed")
				return nil
			}
			observability.RecordNotification(t.Record)
			if err := ix.apply(ctx, t, n); err != nil {
				log.Warn("notification not stored", zap.Stringer("address", n.Address), zap.Error(err))
			}
		}
	}
}

func (ix *Indexer) apply(ctx context.Context, t Target, n solana.AccountNotification) error {
	if err := ix.validate(t.Record, n.Account.Data); err != nil {
		return err
	}
	changed, err := ix.changed(ctx, n.Address, n.Account.Data)
	if err != nil || !changed {
		return err
	}
	snap := snapshotOf(t, n.Address, n.Account, n.Slot, ix.now().UnixMilli())
	if err := ix.snapshots.Insert(ctx, snap); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return err
	}
	return nil
}

func (ix *Indexer) validate(record string, data []byte) error {
	if _, ok := legacyDiscriminators[record]; ok {
		data = voterweight.Retag(data)
	}
	_, err := ix.catalog.Decode(record, data)
	observability.RecordCodecOp("decode", record, err)
	return err
}

func (ix *Indexer) changed(ctx context.Context, addr address.PublicKey, data []byte) (bool, error) {
	latest, err := ix.snapshots.GetLatest(ctx, addr.String())
	if errors.Is(err, storage.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("latest snapshot of %s: %w", addr, err)
	}
	return !bytes.Equal(latest.Data, data), nil
}

func snapshotOf(t Target, addr address.PublicKey, acc solana.Account, slot uint64, fetchedAt int64) *domain.AccountSnapshot {
	return &domain.AccountSnapshot{
		Address:    addr.String(),
		Slot:       int64(slot),
		ProgramID:  t.Program.String(),
		RecordType: t.Record,
		Data:       bytes.Clone(acc.Data),
		Lamports:   int64(acc.Lamports),
		FetchedAt:  fetchedAt,
	}
}
