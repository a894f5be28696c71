package borsh

import (
	"encoding/binary"
	"fmt"
)

const lengthPrefix = 4

func readLength(buf []byte) (int, error) {
	if len(buf) < lengthPrefix {
		return 0, truncated(lengthPrefix, len(buf))
	}
	return int(binary.LittleEndian.Uint32(buf)), nil
}

func writeLength(buf []byte, n int) error {
	if len(buf) < lengthPrefix {
		return shortBuffer(lengthPrefix, len(buf))
	}
	if uint64(n) > 0xFFFFFFFF {
		return fmtInvalid("length %d overflows u32", n)
	}
	binary.LittleEndian.PutUint32(buf, uint32(n))
	return nil
}

type stringLayout struct{}

// String is a u32 length-prefixed UTF-8 string.
func String() Layout[string] { return stringLayout{} }

func (stringLayout) Size(v string) int { return lengthPrefix + len(v) }
func (stringLayout) StaticSize() (int, bool) { return 0, false }

func (stringLayout) Encode(buf []byte, v string) (int, error) {
	need := lengthPrefix + len(v)
	if len(buf) < need {
		return 0, shortBuffer(need, len(buf))
	}
	if err := writeLength(buf, len(v)); err != nil {
		return 0, err
	}
	copy(buf[lengthPrefix:], v)
	return need, nil
}

func (stringLayout) Decode(buf []byte) (string, int, error) {
	n, err := readLength(buf)
	if err != nil {
		return "", 0, err
	}
	if len(buf)-lengthPrefix < n {
		return "", 0, truncated(lengthPrefix+n, len(buf))
	}
	return string(buf[lengthPrefix : lengthPrefix+n]), lengthPrefix + n, nil
}

type bytesLayout struct{}

// Bytes is a u32 length-prefixed byte blob.
func Bytes() Layout[[]byte] { return bytesLayout{} }

func (bytesLayout) Size(v []byte) int { return lengthPrefix + len(v) }
func (bytesLayout) StaticSize() (int, bool) { return 0, false }

func (bytesLayout) Encode(buf []byte, v []byte) (int, error) {
	need := lengthPrefix + len(v)
	if len(buf) < need {
		return 0, shortBuffer(need, len(buf))
	}
	if err := writeLength(buf, len(v)); err != nil {
		return 0, err
	}
	copy(buf[lengthPrefix:], v)
	return need, nil
}

func (bytesLayout) Decode(buf []byte) ([]byte, int, error) {
	n, err := readLength(buf)
	if err != nil {
		return nil, 0, err
	}
	if len(buf)-lengthPrefix < n {
		return nil, 0, truncated(lengthPrefix+n, len(buf))
	}
	out := make([]byte, n)
	copy(out, buf[lengthPrefix:])
	return out, lengthPrefix + n, nil
}

type fixedBytesLayout struct {
	n int
}

// FixedBytes is an n-byte array without a length prefix. It is used for
// reserved padding: a nil value encodes as n zero bytes and decoded content
// is kept verbatim.
func FixedBytes(n int) Layout[[]byte] { return fixedBytesLayout{n: n} }

func (l fixedBytesLayout) Size([]byte) int { return l.n }
func (l fixedBytesLayout) StaticSize() (int, bool) { return l.n, true }

func (l fixedBytesLayout) Encode(buf []byte, v []byte) (int, error) {
	if v != nil && len(v) != l.n {
		return 0, fmtInvalid("fixed array wants %d bytes, got %d", l.n, len(v))
	}
	if len(buf) < l.n {
		return 0, shortBuffer(l.n, len(buf))
	}
	if v == nil {
		clear(buf[:l.n])
	} else {
		copy(buf, v)
	}
	return l.n, nil
}

func (l fixedBytesLayout) Decode(buf []byte) ([]byte, int, error) {
	if len(buf) < l.n {
		return nil, 0, truncated(l.n, len(buf))
	}
	out := make([]byte, l.n)
	copy(out, buf)
	return out, l.n, nil
}

type arrayLayout[V any] struct {
	n    int
	elem Layout[V]
}

// Array is a sequence of exactly n elements without a length prefix.
func Array[V any](n int, elem Layout[V]) Layout[[]V] {
	return arrayLayout[V]{n: n, elem: elem}
}

func (l arrayLayout[V]) Size(v []V) int {
	if s, ok := l.elem.StaticSize(); ok {
		return s * l.n
	}
	total := 0
	for i := range v {
		total += l.elem.Size(v[i])
	}
	return total
}

func (l arrayLayout[V]) StaticSize() (int, bool) {
	s, ok := l.elem.StaticSize()
	if !ok {
		return 0, false
	}
	return s * l.n, true
}

func (l arrayLayout[V]) Encode(buf []byte, v []V) (int, error) {
	if len(v) != l.n {
		return 0, fmtInvalid("array wants %d elements, got %d", l.n, len(v))
	}
	return encodeElems(buf, l.elem, v)
}

func (l arrayLayout[V]) Decode(buf []byte) ([]V, int, error) {
	return decodeElems(buf, l.elem, l.n)
}

type vecLayout[V any] struct {
	elem Layout[V]
}

// Vec is a u32 count followed by that many elements.
func Vec[V any](elem Layout[V]) Layout[[]V] {
	return vecLayout[V]{elem: elem}
}

func (l vecLayout[V]) Size(v []V) int {
	if s, ok := l.elem.StaticSize(); ok {
		return lengthPrefix + s*len(v)
	}
	total := lengthPrefix
	for i := range v {
		total += l.elem.Size(v[i])
	}
	return total
}

func (l vecLayout[V]) StaticSize() (int, bool) { return 0, false }

func (l vecLayout[V]) Encode(buf []byte, v []V) (int, error) {
	if err := writeLength(buf, len(v)); err != nil {
		return 0, err
	}
	n, err := encodeElems(buf[lengthPrefix:], l.elem, v)
	if err != nil {
		return 0, err
	}
	return lengthPrefix + n, nil
}

func (l vecLayout[V]) Decode(buf []byte) ([]V, int, error) {
	count, err := readLength(buf)
	if err != nil {
		return nil, 0, err
	}
	if s, ok := l.elem.StaticSize(); ok && s > 0 && count > (len(buf)-lengthPrefix)/s {
		return nil, 0, truncated(lengthPrefix+count*s, len(buf))
	}
	out, n, err := decodeElems(buf[lengthPrefix:], l.elem, count)
	if err != nil {
		return nil, 0, err
	}
	return out, lengthPrefix + n, nil
}

func encodeElems[V any](buf []byte, elem Layout[V], v []V) (int, error) {
	off := 0
	for i := range v {
		n, err := elem.Encode(buf[off:], v[i])
		if err != nil {
			return 0, atField(fmt.Sprintf("[%d]", i), err)
		}
		off += n
	}
	return off, nil
}

func decodeElems[V any](buf []byte, elem Layout[V], count int) ([]V, int, error) {
	out := make([]V, 0, min(count, len(buf)))
	off := 0
	for i := 0; i < count; i++ {
		v, n, err := elem.Decode(buf[off:])
		if err != nil {
			return nil, 0, atField(fmt.Sprintf("[%d]", i), err)
		}
		out = append(out, v)
		off += n
	}
	return out, off, nil
}

type optionLayout[V any] struct {
	inner Layout[V]
}

// Option is a presence byte (0 absent, 1 present) followed by the payload
// only when present. It maps to a nil or non-nil pointer.
func Option[V any](inner Layout[V]) Layout[*V] {
	return optionLayout[V]{inner: inner}
}

func (l optionLayout[V]) Size(v *V) int {
	if v == nil {
		return 1
	}
	return 1 + l.inner.Size(*v)
}

func (l optionLayout[V]) StaticSize() (int, bool) {
	s, ok := l.inner.StaticSize()
	if ok && s == 0 {
		return 1, true
	}
	return 0, false
}

func (l optionLayout[V]) Encode(buf []byte, v *V) (int, error) {
	if len(buf) < 1 {
		return 0, shortBuffer(1, len(buf))
	}
	if v == nil {
		buf[0] = 0
		return 1, nil
	}
	buf[0] = 1
	n, err := l.inner.Encode(buf[1:], *v)
	if err != nil {
		return 0, err
	}
	return 1 + n, nil
}

func (l optionLayout[V]) Decode(buf []byte) (*V, int, error) {
	if len(buf) < 1 {
		return nil, 0, truncated(1, len(buf))
	}
	switch buf[0] {
	case 0:
		return nil, 1, nil
	case 1:
		v, n, err := l.inner.Decode(buf[1:])
		if err != nil {
			return nil, 0, err
		}
		return &v, 1 + n, nil
	}
	return nil, 0, fmtInvalid("option presence byte %d", buf[0])
}
