package clickhouse

import (
	"context"
	"fmt"
	"time"

	"solana-governance-kit/internal/domain"
	"solana-governance-kit/internal/observability"
	"solana-governance-kit/internal/storage"
)

// ResolutionStore implements storage.ResolutionStore using ClickHouse.
type ResolutionStore struct {
	conn *Conn
}

// NewResolutionStore creates a new ResolutionStore.
func NewResolutionStore(conn *Conn) *ResolutionStore {
	return &ResolutionStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ResolutionStore = (*ResolutionStore)(nil)

// Insert adds a resolution. Returns ErrDuplicateKey if (root, owner, resolved_at_ms) exists.
func (s *ResolutionStore) Insert(ctx context.Context, r *domain.VoterWeightResolution) error {
	if r == nil || r.Root == "" || r.Owner == "" {
		return storage.ErrInvalidInput
	}

	// MergeTree does not enforce uniqueness.
	exists, err := s.exists(ctx, r.Root, r.Owner, r.ResolvedAtMs)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	query := `
		INSERT INTO voter_weight_resolutions (
			root, owner, plugin, selected, voter_weight, expiry, candidates, resolved_at_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	start := time.Now()
	err = s.conn.Exec(ctx, query,
		r.Root, r.Owner, r.Plugin, r.Selected,
		r.VoterWeight, r.Expiry, r.Candidates, r.ResolvedAtMs,
	)
	observability.RecordDBQuery("clickhouse", "insert_resolution", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("insert voter weight resolution: %w", err)
	}
	return nil
}

// GetByOwner retrieves all resolutions for owner, ordered by resolved_at_ms ASC.
func (s *ResolutionStore) GetByOwner(ctx context.Context, owner string) ([]*domain.VoterWeightResolution, error) {
	query := `
		SELECT root, owner, plugin, selected, voter_weight, expiry, candidates, resolved_at_ms
		FROM voter_weight_resolutions
		WHERE owner = ?
		ORDER BY resolved_at_ms ASC, root ASC
	`

	start := time.Now()
	rows, err := s.conn.Query(ctx, query, owner)
	observability.RecordDBQuery("clickhouse", "get_resolutions_by_owner", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("query by owner: %w", err)
	}
	defer rows.Close()

	var result []*domain.VoterWeightResolution
	for rows.Next() {
		var r domain.VoterWeightResolution
		if err := rows.Scan(
			&r.Root, &r.Owner, &r.Plugin, &r.Selected,
			&r.VoterWeight, &r.Expiry, &r.Candidates, &r.ResolvedAtMs,
		); err != nil {
			return nil, fmt.Errorf("scan voter weight resolution: %w", err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate voter weight resolutions: %w", err)
	}
	return result, nil
}

func (s *ResolutionStore) exists(ctx context.Context, root, owner string, resolvedAt int64) (bool, error) {
	query := `
		SELECT count(*) FROM voter_weight_resolutions
		WHERE root = ? AND owner = ? AND resolved_at_ms = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, root, owner, resolvedAt).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
