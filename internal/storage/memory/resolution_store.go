package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"solana-governance-kit/internal/domain"
	"solana-governance-kit/internal/storage"
)

// ResolutionStore is an in-memory implementation of storage.ResolutionStore.
type ResolutionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.VoterWeightResolution
}

// NewResolutionStore creates a new in-memory resolution store.
func NewResolutionStore() *ResolutionStore {
	return &ResolutionStore{
		data: make(map[string]*domain.VoterWeightResolution),
	}
}

func resolutionKey(root, owner string, resolvedAt int64) string {
	return fmt.Sprintf("%s|%s|%d", root, owner, resolvedAt)
}

func cloneResolution(r *domain.VoterWeightResolution) *domain.VoterWeightResolution {
	c := *r
	if r.Expiry != nil {
		e := *r.Expiry
		c.Expiry = &e
	}
	return &c
}

// Insert adds a resolution. Returns ErrDuplicateKey if exists.
func (s *ResolutionStore) Insert(_ context.Context, r *domain.VoterWeightResolution) error {
	if r == nil || r.Root == "" || r.Owner == "" {
		return storage.ErrInvalidInput
	}

	key := resolutionKey(r.Root, r.Owner, r.ResolvedAtMs)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[key] = cloneResolution(r)
	return nil
}

// GetByOwner retrieves all resolutions for owner, ordered by resolved_at_ms ASC.
func (s *ResolutionStore) GetByOwner(_ context.Context, owner string) ([]*domain.VoterWeightResolution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.VoterWeightResolution
	for _, r := range s.data {
		if r.Owner == owner {
			result = append(result, cloneResolution(r))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ResolvedAtMs != result[j].ResolvedAtMs {
			return result[i].ResolvedAtMs < result[j].ResolvedAtMs
		}
		return result[i].Root < result[j].Root
	})
	return result, nil
}

var _ storage.ResolutionStore = (*ResolutionStore)(nil)
