// Package borsh provides composable binary layouts for the Borsh wire format:
// little-endian integers, u8 option and union tags, u32 length prefixes.
package borsh

import (
	"encoding/binary"
)

// Layout encodes and decodes values of type T.
//
// Size returns the exact number of bytes Encode writes for v. Encode writes
// into buf and never past len(buf). Decode never reads past len(buf) and
// returns the number of bytes consumed.
type Layout[T any] interface {
	Size(v T) int
	StaticSize() (int, bool)
	Encode(buf []byte, v T) (int, error)
	Decode(buf []byte) (T, int, error)
}

// Marshal encodes v into a freshly allocated buffer of exactly l.Size(v) bytes.
func Marshal[T any](l Layout[T], v T) ([]byte, error) {
	buf := make([]byte, l.Size(v))
	n, err := l.Encode(buf, v)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Unmarshal decodes a value from the start of buf. Trailing bytes are ignored.
func Unmarshal[T any](l Layout[T], buf []byte) (T, error) {
	v, _, err := l.Decode(buf)
	return v, err
}

// fixed is a fixed-width scalar layout.
type fixed[T any] struct {
	width int
	put   func(b []byte, v T) error
	get   func(b []byte) (T, error)
}

func (f fixed[T]) Size(T) int { return f.width }
func (f fixed[T]) StaticSize() (int, bool) { return f.width, true }

func (f fixed[T]) Encode(buf []byte, v T) (int, error) {
	if len(buf) < f.width {
		return 0, shortBuffer(f.width, len(buf))
	}
	if err := f.put(buf[:f.width], v); err != nil {
		return 0, err
	}
	return f.width, nil
}

func (f fixed[T]) Decode(buf []byte) (T, int, error) {
	if len(buf) < f.width {
		var zero T
		return zero, 0, truncated(f.width, len(buf))
	}
	v, err := f.get(buf[:f.width])
	if err != nil {
		var zero T
		return zero, 0, err
	}
	return v, f.width, nil
}

// U8 is an unsigned 8-bit integer.
func U8[T ~uint8]() Layout[T] {
	return fixed[T]{
		width: 1,
		put:   func(b []byte, v T) error { b[0] = uint8(v); return nil },
		get:   func(b []byte) (T, error) { return T(b[0]), nil },
	}
}

// U16 is an unsigned little-endian 16-bit integer.
func U16[T ~uint16]() Layout[T] {
	return fixed[T]{
		width: 2,
		put:   func(b []byte, v T) error { binary.LittleEndian.PutUint16(b, uint16(v)); return nil },
		get:   func(b []byte) (T, error) { return T(binary.LittleEndian.Uint16(b)), nil },
	}
}

// U32 is an unsigned little-endian 32-bit integer.
func U32[T ~uint32]() Layout[T] {
	return fixed[T]{
		width: 4,
		put:   func(b []byte, v T) error { binary.LittleEndian.PutUint32(b, uint32(v)); return nil },
		get:   func(b []byte) (T, error) { return T(binary.LittleEndian.Uint32(b)), nil },
	}
}

// U64 is an unsigned little-endian 64-bit integer.
func U64[T ~uint64]() Layout[T] {
	return fixed[T]{
		width: 8,
		put:   func(b []byte, v T) error { binary.LittleEndian.PutUint64(b, uint64(v)); return nil },
		get:   func(b []byte) (T, error) { return T(binary.LittleEndian.Uint64(b)), nil },
	}
}

// I32 is a signed little-endian 32-bit integer.
func I32[T ~int32]() Layout[T] {
	return fixed[T]{
		width: 4,
		put:   func(b []byte, v T) error { binary.LittleEndian.PutUint32(b, uint32(v)); return nil },
		get:   func(b []byte) (T, error) { return T(int32(binary.LittleEndian.Uint32(b))), nil },
	}
}

// I64 is a signed little-endian 64-bit integer.
func I64[T ~int64]() Layout[T] {
	return fixed[T]{
		width: 8,
		put:   func(b []byte, v T) error { binary.LittleEndian.PutUint64(b, uint64(v)); return nil },
		get:   func(b []byte) (T, error) { return T(int64(binary.LittleEndian.Uint64(b))), nil },
	}
}

// Bool is a single byte, 0 or 1. Other values fail to decode.
func Bool() Layout[bool] {
	return fixed[bool]{
		width: 1,
		put: func(b []byte, v bool) error {
			b[0] = 0
			if v {
				b[0] = 1
			}
			return nil
		},
		get: func(b []byte) (bool, error) {
			switch b[0] {
			case 0:
				return false, nil
			case 1:
				return true, nil
			}
			return false, fmtInvalid("bool byte %d", b[0])
		},
	}
}

// Key is a raw 32-byte public key.
func Key[T ~[32]byte]() Layout[T] {
	return fixed[T]{
		width: 32,
		put:   func(b []byte, v T) error { copy(b, v[:]); return nil },
		get: func(b []byte) (T, error) {
			var v T
			copy(v[:], b)
			return v, nil
		},
	}
}
