package voterweight

import (
	"errors"
	"fmt"

	"solana-governance-kit/internal/address"
)

var (
	// ErrNoWeightRecord is returned when no candidate qualifies.
	ErrNoWeightRecord = errors.New("no voter weight record")

	// ErrRootNotFound is returned when the aggregator root account does not exist.
	ErrRootNotFound = errors.New("root account not found")
)

// NoWeightRecordFoundError names the owner and plugin that were searched.
type NoWeightRecordFoundError struct {
	Owner  address.PublicKey
	Plugin address.PublicKey
}

func (e *NoWeightRecordFoundError) Error() string {
	return fmt.Sprintf("can not find voter weight record for %s in the plugin %s", e.Owner, e.Plugin)
}

// Is makes errors.Is(err, ErrNoWeightRecord) hold.
func (e *NoWeightRecordFoundError) Is(target error) bool {
	return target == ErrNoWeightRecord
}
