package storage

import (
	"context"

	"solana-governance-kit/internal/domain"
)

// AccountSnapshotStore provides access to account_snapshots storage.
type AccountSnapshotStore interface {
	// Insert adds a new snapshot. Returns ErrDuplicateKey if (address, slot) exists.
	Insert(ctx context.Context, s *domain.AccountSnapshot) error

	// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, snapshots []*domain.AccountSnapshot) error

	// GetLatest retrieves the highest-slot snapshot of an address. Returns ErrNotFound if none.
	GetLatest(ctx context.Context, address string) (*domain.AccountSnapshot, error)

	// GetByRecordType retrieves the latest snapshot of every address holding
	// recordType, ordered by address ASC.
	GetByRecordType(ctx context.Context, recordType string) ([]*domain.AccountSnapshot, error)
}

// ResolutionStore provides access to voter_weight_resolutions storage.
type ResolutionStore interface {
	// Insert adds a resolution. Returns ErrDuplicateKey if (root, owner, resolved_at_ms) exists.
	Insert(ctx context.Context, r *domain.VoterWeightResolution) error

	// GetByOwner retrieves all resolutions of an owner, ordered by resolved_at_ms ASC.
	GetByOwner(ctx context.Context, owner string) ([]*domain.VoterWeightResolution, error)
}
