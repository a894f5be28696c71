package borsh

import (
	"fmt"
)

type enumLayout[E ~uint8] struct {
	count int
}

// Enum is a u8 tag for a variant set without payloads. Tags at or above
// count are rejected.
func Enum[E ~uint8](count int) Layout[E] {
	return enumLayout[E]{count: count}
}

func (enumLayout[E]) Size(E) int { return 1 }
func (enumLayout[E]) StaticSize() (int, bool) { return 1, true }

func (l enumLayout[E]) Encode(buf []byte, v E) (int, error) {
	if int(v) >= l.count {
		return 0, &UnknownVariantError{Tag: uint8(v)}
	}
	if len(buf) < 1 {
		return 0, shortBuffer(1, len(buf))
	}
	buf[0] = uint8(v)
	return 1, nil
}

func (l enumLayout[E]) Decode(buf []byte) (E, int, error) {
	if len(buf) < 1 {
		return 0, 0, truncated(1, len(buf))
	}
	if int(buf[0]) >= l.count {
		return 0, 0, &UnknownVariantError{Tag: buf[0]}
	}
	return E(buf[0]), 1, nil
}

type unitLayout[V any] struct{}

// Unit occupies no bytes and always decodes to the zero V. It is the payload
// layout of data-less union variants.
func Unit[V any]() Layout[V] { return unitLayout[V]{} }

func (unitLayout[V]) Size(V) int { return 0 }
func (unitLayout[V]) StaticSize() (int, bool) { return 0, true }
func (unitLayout[V]) Encode([]byte, V) (int, error) { return 0, nil }
func (unitLayout[V]) Decode([]byte) (V, int, error) {
	var v V
	return v, 0, nil
}

// Variant is one arm of a Union.
type Variant[U any] interface {
	variantTag() uint8
	matches(v U) bool
	payloadSize(v U) int
	payloadStatic() (int, bool)
	encodePayload(buf []byte, v U) (int, error)
	decodePayload(buf []byte) (U, int, error)
}

type variant[U, V any] struct {
	tag    uint8
	layout Layout[V]
}

// Case binds a tag to the concrete type V carried by union U. V must
// implement U; Case panics otherwise since that is a schema definition bug.
func Case[U, V any](tag uint8, layout Layout[V]) Variant[U] {
	var zero V
	if _, ok := any(zero).(U); !ok {
		panic(fmt.Sprintf("borsh: variant %T does not implement %T", zero, (*U)(nil)))
	}
	return variant[U, V]{tag: tag, layout: layout}
}

func (c variant[U, V]) variantTag() uint8 { return c.tag }

func (c variant[U, V]) matches(v U) bool {
	_, ok := any(v).(V)
	return ok
}

func (c variant[U, V]) payloadSize(v U) int {
	return c.layout.Size(any(v).(V))
}

func (c variant[U, V]) payloadStatic() (int, bool) {
	return c.layout.StaticSize()
}

func (c variant[U, V]) encodePayload(buf []byte, v U) (int, error) {
	return c.layout.Encode(buf, any(v).(V))
}

func (c variant[U, V]) decodePayload(buf []byte) (U, int, error) {
	v, n, err := c.layout.Decode(buf)
	if err != nil {
		var zero U
		return zero, 0, err
	}
	return any(v).(U), n, nil
}

type unionLayout[U any] struct {
	byTag    map[uint8]Variant[U]
	variants []Variant[U]
}

// Union is a u8 variant tag followed by the payload of that variant. U is
// normally an interface implemented by one Go type per variant.
func Union[U any](variants ...Variant[U]) Layout[U] {
	l := unionLayout[U]{
		byTag:    make(map[uint8]Variant[U], len(variants)),
		variants: variants,
	}
	for _, v := range variants {
		if _, dup := l.byTag[v.variantTag()]; dup {
			panic(fmt.Sprintf("borsh: duplicate union tag %d", v.variantTag()))
		}
		l.byTag[v.variantTag()] = v
	}
	return l
}

func (l unionLayout[U]) find(v U) Variant[U] {
	for _, c := range l.variants {
		if c.matches(v) {
			return c
		}
	}
	return nil
}

// Size counts only the tag byte for a value no variant matches; Encode
// reports that case.
func (l unionLayout[U]) Size(v U) int {
	c := l.find(v)
	if c == nil {
		return 1
	}
	return 1 + c.payloadSize(v)
}

func (l unionLayout[U]) StaticSize() (int, bool) {
	size := -1
	for _, c := range l.variants {
		s, ok := c.payloadStatic()
		if !ok || (size >= 0 && s != size) {
			return 0, false
		}
		size = s
	}
	if size < 0 {
		return 1, true
	}
	return 1 + size, true
}

func (l unionLayout[U]) Encode(buf []byte, v U) (int, error) {
	c := l.find(v)
	if c == nil {
		return 0, fmtInvalid("no union variant for %T", v)
	}
	if len(buf) < 1 {
		return 0, shortBuffer(1, len(buf))
	}
	buf[0] = c.variantTag()
	n, err := c.encodePayload(buf[1:], v)
	if err != nil {
		return 0, err
	}
	return 1 + n, nil
}

func (l unionLayout[U]) Decode(buf []byte) (U, int, error) {
	var zero U
	if len(buf) < 1 {
		return zero, 0, truncated(1, len(buf))
	}
	c, ok := l.byTag[buf[0]]
	if !ok {
		return zero, 0, &UnknownVariantError{Tag: buf[0]}
	}
	v, n, err := c.decodePayload(buf[1:])
	if err != nil {
		return zero, 0, err
	}
	return v, 1 + n, nil
}
