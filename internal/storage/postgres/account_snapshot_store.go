package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"solana-governance-kit/internal/domain"
	"solana-governance-kit/internal/observability"
	"solana-governance-kit/internal/storage"
)

const insertSnapshotQuery = `
	INSERT INTO account_snapshots (
		address, slot, program_id, record_type, data, lamports, fetched_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// AccountSnapshotStore implements storage.AccountSnapshotStore using PostgreSQL.
type AccountSnapshotStore struct {
	pool *Pool
}

// NewAccountSnapshotStore creates a new AccountSnapshotStore.
func NewAccountSnapshotStore(pool *Pool) *AccountSnapshotStore {
	return &AccountSnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AccountSnapshotStore = (*AccountSnapshotStore)(nil)

func observe(op string, start time.Time, err error) {
	observability.RecordDBQuery("postgres", op, time.Since(start).Seconds(), err)
}

// Insert adds a new snapshot. Returns ErrDuplicateKey if (address, slot) exists.
func (s *AccountSnapshotStore) Insert(ctx context.Context, snap *domain.AccountSnapshot) (err error) {
	start := time.Now()
	defer func() { observe("insert_snapshot", start, err) }()

	_, err = s.pool.Exec(ctx, insertSnapshotQuery,
		snap.Address,
		snap.Slot,
		snap.ProgramID,
		snap.RecordType,
		snap.Data,
		snap.Lamports,
		snap.FetchedAt,
	)
	return translate("insert account snapshot", err)
}

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
func (s *AccountSnapshotStore) InsertBulk(ctx context.Context, snaps []*domain.AccountSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, snap := range snaps {
		batch.Queue(insertSnapshotQuery,
			snap.Address,
			snap.Slot,
			snap.ProgramID,
			snap.RecordType,
			snap.Data,
			snap.Lamports,
			snap.FetchedAt,
		)
	}

	start := time.Now()
	err = tx.SendBatch(ctx, batch).Close()
	observe("insert_snapshot_bulk", start, err)
	if err != nil {
		return translate("insert account snapshots in bulk", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetLatest retrieves the highest-slot snapshot of address. Returns ErrNotFound if none.
func (s *AccountSnapshotStore) GetLatest(ctx context.Context, address string) (*domain.AccountSnapshot, error) {
	query := `
		SELECT address, slot, program_id, record_type, data, lamports, fetched_at
		FROM account_snapshots
		WHERE address = $1
		ORDER BY slot DESC
		LIMIT 1
	`

	start := time.Now()
	snap, err := scanSnapshot(s.pool.QueryRow(ctx, query, address))
	err = translate("get latest snapshot", err)
	if errors.Is(err, storage.ErrNotFound) {
		observe("get_latest_snapshot", start, nil)
		return nil, err
	}
	observe("get_latest_snapshot", start, err)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// GetByRecordType retrieves the latest snapshot per address for recordType, ordered by address ASC.
func (s *AccountSnapshotStore) GetByRecordType(ctx context.Context, recordType string) ([]*domain.AccountSnapshot, error) {
	query := `
		SELECT DISTINCT ON (address)
			address, slot, program_id, record_type, data, lamports, fetched_at
		FROM account_snapshots
		WHERE record_type = $1
		ORDER BY address ASC, slot DESC
	`

	start := time.Now()
	rows, err := s.pool.Query(ctx, query, recordType)
	observe("get_snapshots_by_record_type", start, err)
	if err != nil {
		return nil, fmt.Errorf("get snapshots by record type: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

func scanSnapshot(row pgx.Row) (*domain.AccountSnapshot, error) {
	var snap domain.AccountSnapshot
	err := row.Scan(
		&snap.Address,
		&snap.Slot,
		&snap.ProgramID,
		&snap.RecordType,
		&snap.Data,
		&snap.Lamports,
		&snap.FetchedAt,
	)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// scanSnapshots scans multiple rows into a slice of AccountSnapshot.
func scanSnapshots(rows pgx.Rows) ([]*domain.AccountSnapshot, error) {
	var snaps []*domain.AccountSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account snapshots: %w", err)
	}
	return snaps, nil
}
