package borsh

import (
	"errors"
	"fmt"
	"strings"
)

// Codec errors.
var (
	// ErrTruncatedBuffer is returned when a buffer ends before the layout does.
	ErrTruncatedBuffer = errors.New("truncated buffer")

	// ErrUnknownVariant is returned when a union or enum tag is outside the declared variant set.
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrShortBuffer is returned when an encode target has less capacity than the value needs.
	ErrShortBuffer = errors.New("encode buffer too small")

	// ErrInvalidValue is returned when a value cannot be represented by its layout.
	ErrInvalidValue = errors.New("invalid value")
)

// UnknownVariantError reports the offending tag byte.
type UnknownVariantError struct {
	Tag uint8
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("%s: tag %d", ErrUnknownVariant, e.Tag)
}

// Is makes errors.Is(err, ErrUnknownVariant) hold.
func (e *UnknownVariantError) Is(target error) bool {
	return target == ErrUnknownVariant
}

// FieldError attaches the struct field path at which encoding or decoding failed.
type FieldError struct {
	Path []string
	Err  error
}

func (e *FieldError) Error() string {
	var b strings.Builder
	b.WriteString("field ")
	for i, p := range e.Path {
		if i > 0 && !strings.HasPrefix(p, "[") {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// atField prefixes err's path with name.
func atField(name string, err error) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		path := make([]string, 0, len(fe.Path)+1)
		path = append(path, name)
		path = append(path, fe.Path...)
		return &FieldError{Path: path, Err: fe.Err}
	}
	return &FieldError{Path: []string{name}, Err: err}
}

func truncated(need, have int) error {
	return fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedBuffer, need, have)
}

func shortBuffer(need, have int) error {
	return fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, need, have)
}

func fmtInvalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidValue}, args...)...)
}
