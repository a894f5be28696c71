package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"solana-governance-kit/internal/domain"
	"solana-governance-kit/internal/storage"
)

// AccountSnapshotStore is an in-memory implementation of storage.AccountSnapshotStore.
type AccountSnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.AccountSnapshot // keyed by address|slot
}

// NewAccountSnapshotStore creates a new in-memory snapshot store.
func NewAccountSnapshotStore() *AccountSnapshotStore {
	return &AccountSnapshotStore{
		data: make(map[string]*domain.AccountSnapshot),
	}
}

func snapshotKey(address string, slot int64) string {
	return fmt.Sprintf("%s|%d", address, slot)
}

func cloneSnapshot(s *domain.AccountSnapshot) *domain.AccountSnapshot {
	c := *s
	c.Data = bytes.Clone(s.Data)
	return &c
}

func validSnapshot(s *domain.AccountSnapshot) bool {
	return s != nil && s.Address != "" && s.RecordType != ""
}

// Insert adds a new snapshot. Returns ErrDuplicateKey if exists.
func (s *AccountSnapshotStore) Insert(_ context.Context, snap *domain.AccountSnapshot) error {
	if !validSnapshot(snap) {
		return storage.ErrInvalidInput
	}

	key := snapshotKey(snap.Address, snap.Slot)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[key] = cloneSnapshot(snap)
	return nil
}

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
func (s *AccountSnapshotStore) InsertBulk(_ context.Context, snaps []*domain.AccountSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(snaps))
	for _, snap := range snaps {
		if !validSnapshot(snap) {
			return storage.ErrInvalidInput
		}
		key := snapshotKey(snap.Address, snap.Slot)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, snap := range snaps {
		s.data[snapshotKey(snap.Address, snap.Slot)] = cloneSnapshot(snap)
	}
	return nil
}

// GetLatest retrieves the highest-slot snapshot of address.
func (s *AccountSnapshotStore) GetLatest(_ context.Context, address string) (*domain.AccountSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.AccountSnapshot
	for _, snap := range s.data {
		if snap.Address == address && (latest == nil || snap.Slot > latest.Slot) {
			latest = snap
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	return cloneSnapshot(latest), nil
}

// GetByRecordType retrieves the latest snapshot per address for recordType, ordered by address ASC.
func (s *AccountSnapshotStore) GetByRecordType(_ context.Context, recordType string) ([]*domain.AccountSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := make(map[string]*domain.AccountSnapshot)
	for _, snap := range s.data {
		if snap.RecordType != recordType {
			continue
		}
		if cur, ok := latest[snap.Address]; !ok || snap.Slot > cur.Slot {
			latest[snap.Address] = snap
		}
	}

	result := make([]*domain.AccountSnapshot, 0, len(latest))
	for _, snap := range latest {
		result = append(result, cloneSnapshot(snap))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Address < result[j].Address
	})
	return result, nil
}

var _ storage.AccountSnapshotStore = (*AccountSnapshotStore)(nil)
