package borsh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testKey [32]byte

type shape interface{ isShape() }

type circle struct{ Radius uint16 }
type square struct{ Side uint64 }
type empty struct{}

func (circle) isShape() {}
func (square) isShape() {}
func (empty) isShape() {}

var shapeLayout = Union[shape](
	Case[shape](0, Struct(F("radius", func(c *circle) *uint16 { return &c.Radius }, U16[uint16]()))),
	Case[shape](1, Struct(F("side", func(s *square) *uint64 { return &s.Side }, U64[uint64]()))),
	Case[shape](2, Unit[empty]()),
)

type entry struct {
	Label    string
	Weight   uint64
	Expiry   *int64
	Shape    shape
	Reserved []byte
}

var entryLayout = Struct(
	F("label", func(e *entry) *string { return &e.Label }, String()),
	F("weight", func(e *entry) *uint64 { return &e.Weight }, U64[uint64]()),
	F("expiry", func(e *entry) **int64 { return &e.Expiry }, Option(I64[int64]())),
	F("shape", func(e *entry) *shape { return &e.Shape }, shapeLayout),
	F("reserved", func(e *entry) *[]byte { return &e.Reserved }, FixedBytes(4)),
)

func TestIntegers_LittleEndian(t *testing.T) {
	buf, err := Marshal(U32[uint32](), 0x01020304)
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 3, 2, 1}, buf)

	buf, err = Marshal(I64[int64](), -2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xfe, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, buf)

	v, err := Unmarshal(I64[int64](), buf)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), v)
}

func TestBool_RejectsOtherBytes(t *testing.T) {
	v, err := Unmarshal(Bool(), []byte{1})
	require.NoError(t, err)
	assert.True(t, v)

	_, err = Unmarshal(Bool(), []byte{2})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestKey_RoundTrip(t *testing.T) {
	var k testKey
	for i := range k {
		k[i] = byte(i)
	}
	buf, err := Marshal(Key[testKey](), k)
	require.NoError(t, err)
	require.Len(t, buf, 32)

	got, err := Unmarshal(Key[testKey](), buf)
	require.NoError(t, err)
	assert.Equal(t, k, got)
}

func TestOption_PresenceByte(t *testing.T) {
	l := Option(U64[uint64]())

	buf, err := Marshal(l, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, buf)

	got, n, err := l.Decode([]byte{0, 0xff, 0xff})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, n, "absent option consumes only the flag")

	x := uint64(7)
	buf, err = Marshal(l, &x)
	require.NoError(t, err)
	assert.Len(t, buf, 1+8)

	got, n, err = l.Decode(buf)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(7), *got)
	assert.Equal(t, 9, n)

	_, _, err = l.Decode([]byte{2})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestStringAndBytes_LengthPrefix(t *testing.T) {
	buf, err := Marshal(String(), "héllo")
	require.NoError(t, err)
	assert.Equal(t, []byte{6, 0, 0, 0, 'h', 0xc3, 0xa9, 'l', 'l', 'o'}, buf)

	s, err := Unmarshal(String(), buf)
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)

	_, err = Unmarshal(String(), buf[:7])
	assert.ErrorIs(t, err, ErrTruncatedBuffer)

	src := []byte{3, 0, 0, 0, 9, 8, 7}
	b, err := Unmarshal(Bytes(), src)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 8, 7}, b)
	src[4] = 0
	assert.Equal(t, byte(9), b[0], "decoded bytes must not alias the input")
}

func TestVec_CountPrefix(t *testing.T) {
	l := Vec(U16[uint16]())
	buf, err := Marshal(l, []uint16{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 0, 0, 0, 1, 0, 2, 0, 3, 0}, buf)
	assert.Equal(t, len(buf), l.Size([]uint16{1, 2, 3}))

	got, err := Unmarshal(l, buf)
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 2, 3}, got)

	// Count larger than the remaining bytes can hold.
	_, err = Unmarshal(l, []byte{0xff, 0xff, 0xff, 0x7f, 1, 0})
	assert.ErrorIs(t, err, ErrTruncatedBuffer)
}

func TestArray_FixedCount(t *testing.T) {
	l := Array(3, U8[uint8]())
	size, ok := l.StaticSize()
	require.True(t, ok)
	assert.Equal(t, 3, size)

	_, err := Marshal(l, []uint8{1, 2})
	assert.ErrorIs(t, err, ErrInvalidValue)

	got, err := Unmarshal(l, []byte{4, 5, 6, 7})
	require.NoError(t, err)
	assert.Equal(t, []uint8{4, 5, 6}, got)
}

func TestFixedBytes_Reserved(t *testing.T) {
	l := FixedBytes(4)

	buf, err := Marshal(l, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)

	got, err := Unmarshal(l, []byte{1, 2, 3, 4})
	require.NoError(t, err)
	buf, err = Marshal(l, got)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, buf, "reserved bytes round-trip verbatim")

	_, err = Marshal(l, []byte{1})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestEnum_UnknownTag(t *testing.T) {
	type color uint8
	l := Enum[color](3)

	v, err := Unmarshal(l, []byte{2})
	require.NoError(t, err)
	assert.Equal(t, color(2), v)

	_, err = Unmarshal(l, []byte{3})
	var uv *UnknownVariantError
	require.ErrorAs(t, err, &uv)
	assert.Equal(t, uint8(3), uv.Tag)
	assert.ErrorIs(t, err, ErrUnknownVariant)

	_, err = Marshal(l, color(9))
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestUnion_Variants(t *testing.T) {
	tests := []struct {
		name  string
		value shape
		want  []byte
	}{
		{"u16 payload", circle{Radius: 0x0102}, []byte{0, 2, 1}},
		{"u64 payload", square{Side: 1}, []byte{1, 1, 0, 0, 0, 0, 0, 0, 0}},
		{"unit", empty{}, []byte{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, len(tt.want), shapeLayout.Size(tt.value))
			buf, err := Marshal(shapeLayout, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf)

			got, err := Unmarshal(shapeLayout, buf)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}

	_, ok := shapeLayout.StaticSize()
	assert.False(t, ok, "variants of different sizes make the union variable")

	_, err := Unmarshal(shapeLayout, []byte{7})
	assert.ErrorIs(t, err, ErrUnknownVariant)

	_, err = Marshal[shape](shapeLayout, nil)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestStruct_RoundTripAndSize(t *testing.T) {
	exp := int64(1700000000)
	in := entry{
		Label:    "yes",
		Weight:   42,
		Expiry:   &exp,
		Shape:    square{Side: 9},
		Reserved: []byte{1, 0, 0, 1},
	}

	buf, err := Marshal(entryLayout, in)
	require.NoError(t, err)
	assert.Equal(t, 4+3+8+9+9+4, len(buf))
	assert.Equal(t, len(buf), entryLayout.Size(in))

	got, err := Unmarshal(entryLayout, buf)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	_, ok := entryLayout.StaticSize()
	assert.False(t, ok)
}

func TestStruct_TrailingBytesIgnored(t *testing.T) {
	in := entry{Label: "a", Shape: empty{}, Reserved: make([]byte, 4)}
	buf, err := Marshal(entryLayout, in)
	require.NoError(t, err)

	got, n, err := entryLayout.Decode(append(buf, 0xAA, 0xBB))
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, in, got)
}

func TestStruct_ErrorCarriesFieldPath(t *testing.T) {
	in := entry{Label: "a", Shape: circle{Radius: 1}}
	buf, err := Marshal(entryLayout, in)
	require.NoError(t, err)

	// Cut inside the shape payload.
	_, err = Unmarshal(entryLayout, buf[:4+1+8+1+2])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncatedBuffer)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, []string{"shape", "radius"}, fe.Path)
	assert.Contains(t, err.Error(), "field shape.radius")
}

func TestEncode_ShortBuffer(t *testing.T) {
	_, err := U64[uint64]().Encode(make([]byte, 7), 1)
	assert.ErrorIs(t, err, ErrShortBuffer)

	_, err = entryLayout.Encode(make([]byte, 3), entry{Label: "abc", Shape: empty{}})
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestStaticSize_Struct(t *testing.T) {
	type pair struct {
		A uint8
		B testKey
	}
	l := Struct(
		F("a", func(p *pair) *uint8 { return &p.A }, U8[uint8]()),
		F("b", func(p *pair) *testKey { return &p.B }, Key[testKey]()),
	)
	size, ok := l.StaticSize()
	require.True(t, ok)
	assert.Equal(t, 33, size)
}
