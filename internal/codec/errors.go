package codec

import (
	"encoding/hex"
	"errors"
	"fmt"

	"solana-governance-kit/internal/borsh"
)

// Codec errors. Truncation and unknown variants come from the layout layer
// and are re-exported so callers only need this package.
var (
	// ErrUnknownRecordType is returned for a name that is not in the catalog.
	ErrUnknownRecordType = errors.New("unknown record type")

	// ErrDiscriminatorMismatch is returned when a buffer's leading tag does not
	// belong to the requested record type.
	ErrDiscriminatorMismatch = errors.New("discriminator mismatch")

	// ErrUnknownDiscriminator is returned by Identify when no record of the
	// family carries the buffer's tag.
	ErrUnknownDiscriminator = errors.New("unknown discriminator")

	// ErrSizeMismatch signals that a layout wrote a different number of bytes
	// than it computed. It indicates a catalog defect.
	ErrSizeMismatch = errors.New("size mismatch")

	// ErrWrongValueType is returned when a value of the wrong Go type is passed
	// for a record.
	ErrWrongValueType = errors.New("wrong value type")

	ErrTruncatedBuffer = borsh.ErrTruncatedBuffer
	ErrUnknownVariant  = borsh.ErrUnknownVariant
)

// DiscriminatorMismatchError carries the expected and actual tag bytes.
type DiscriminatorMismatchError struct {
	Record string
	Want   []byte
	Got    []byte
}

func (e *DiscriminatorMismatchError) Error() string {
	return fmt.Sprintf("%s: %s wants %s, got %s",
		ErrDiscriminatorMismatch, e.Record, hex.EncodeToString(e.Want), hex.EncodeToString(e.Got))
}

// Is makes errors.Is(err, ErrDiscriminatorMismatch) hold.
func (e *DiscriminatorMismatchError) Is(target error) bool {
	return target == ErrDiscriminatorMismatch
}

// SizeMismatchError reports a disagreement between computed and written length.
type SizeMismatchError struct {
	Record   string
	Computed int
	Written  int
	Err      error
}

func (e *SizeMismatchError) Error() string {
	msg := fmt.Sprintf("%s: %s computed %d bytes, wrote %d", ErrSizeMismatch, e.Record, e.Computed, e.Written)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrSizeMismatch) hold.
func (e *SizeMismatchError) Is(target error) bool {
	return target == ErrSizeMismatch
}

// Unwrap returns the encode error that exposed the mismatch, if any.
func (e *SizeMismatchError) Unwrap() error {
	return e.Err
}

func unknownRecord(kind, name string) error {
	return fmt.Errorf("%w: %s %q", ErrUnknownRecordType, kind, name)
}
