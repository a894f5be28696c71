package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-governance-kit/internal/borsh"
)

type counter struct {
	Owner [32]byte
	Count uint64
}

type note struct {
	Text string
}

var (
	counterLayout = borsh.Struct(
		borsh.F("owner", func(c *counter) *[32]byte { return &c.Owner }, borsh.Key[[32]byte]()),
		borsh.F("count", func(c *counter) *uint64 { return &c.Count }, borsh.U64[uint64]()),
	)
	noteLayout = borsh.Struct(
		borsh.F("text", func(n *note) *string { return &n.Text }, borsh.String()),
	)
)

// lyingLayout reports one byte fewer than it writes.
type lyingLayout struct{}

func (lyingLayout) Size(uint64) int { return 7 }
func (lyingLayout) StaticSize() (int, bool) { return 7, true }
func (lyingLayout) Decode([]byte) (uint64, int, error) { return 0, 8, nil }
func (lyingLayout) Encode(buf []byte, v uint64) (int, error) { return borsh.U64[uint64]().Encode(buf, v) }

// paddedLayout reports one byte more than it writes.
type paddedLayout struct{}

func (paddedLayout) Size(uint8) int { return 2 }
func (paddedLayout) StaticSize() (int, bool) { return 2, true }
func (paddedLayout) Decode([]byte) (uint8, int, error) { return 0, 1, nil }
func (paddedLayout) Encode(buf []byte, v uint8) (int, error) { return borsh.U8[uint8]().Encode(buf, v) }

func testCatalog() *Catalog {
	c := NewCatalog()
	RegisterAccount(c, AccountSpec[counter]{
		Name:          "counter",
		Family:        FamilyGovernance,
		Discriminator: Tag(3),
		Layout:        counterLayout,
		StaticSize:    41,
	})
	RegisterAccount(c, AccountSpec[note]{
		Name:          "note",
		Family:        FamilyGovernance,
		Discriminator: Tag(4),
		Layout:        noteLayout,
		StaticSize:    VariableSize,
	})
	RegisterAccount(c, AccountSpec[counter]{
		Name:          "anchor-counter",
		Family:        FamilyAggregator,
		Discriminator: AnchorAccount("Counter"),
		Layout:        counterLayout,
		StaticSize:    48,
	})
	RegisterInstruction(c, InstructionSpec[note]{
		Name:          "post",
		Family:        FamilyGovernance,
		Discriminator: Tag(0),
		Layout:        noteLayout,
	})
	RegisterInstruction(c, InstructionSpec[NoArgs]{
		Name:          "ping",
		Family:        FamilyGovernance,
		Discriminator: Tag(1),
		Layout:        NoArgsLayout,
	})
	RegisterInstruction(c, InstructionSpec[uint64]{
		Name:          "broken",
		Family:        FamilyGovernance,
		Discriminator: Tag(2),
		Layout:        lyingLayout{},
	})
	RegisterInstruction(c, InstructionSpec[uint8]{
		Name:          "padded",
		Family:        FamilyGovernance,
		Discriminator: Tag(3),
		Layout:        paddedLayout{},
	})
	return c
}

func TestAnchorDiscriminators(t *testing.T) {
	assert.Equal(t, Discriminator{46, 249, 155, 75, 153, 248, 116, 9}, AnchorAccount("VoterWeightRecord"))
	assert.Equal(t, Discriminator{115, 195, 96, 208, 249, 205, 56, 27}, AnchorInstruction("create_root"))
}

func TestCatalog_EncodeDecode(t *testing.T) {
	c := testCatalog()
	in := counter{Count: 9}
	in.Owner[0] = 7

	buf, err := c.Encode("counter", in)
	require.NoError(t, err)
	require.Len(t, buf, 41)
	assert.Equal(t, byte(3), buf[0])

	got, err := DecodeAccount[counter](c, "counter", buf)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	// Pointer values are accepted too.
	buf2, err := c.Encode("counter", &in)
	require.NoError(t, err)
	assert.Equal(t, buf, buf2)

	anchorBuf, err := c.Encode("anchor-counter", in)
	require.NoError(t, err)
	require.Len(t, anchorBuf, 48)
	assert.Equal(t, []byte(AnchorAccount("Counter")), anchorBuf[:8])
}

func TestCatalog_UnknownRecordType(t *testing.T) {
	c := testCatalog()

	_, err := c.Encode("missing", counter{})
	assert.ErrorIs(t, err, ErrUnknownRecordType)

	_, err = c.Decode("missing", []byte{1})
	assert.ErrorIs(t, err, ErrUnknownRecordType)

	_, _, err = c.StaticSize("missing")
	assert.ErrorIs(t, err, ErrUnknownRecordType)

	_, err = c.QueryFilter("missing")
	assert.ErrorIs(t, err, ErrUnknownRecordType)

	_, err = c.EncodeInstruction("missing", nil)
	assert.ErrorIs(t, err, ErrUnknownRecordType)
}

func TestCatalog_WrongValueType(t *testing.T) {
	c := testCatalog()
	_, err := c.Encode("counter", note{})
	assert.ErrorIs(t, err, ErrWrongValueType)

	var nilCounter *counter
	_, err = c.Encode("counter", nilCounter)
	assert.ErrorIs(t, err, ErrWrongValueType)
}

func TestCatalog_DiscriminatorIsolation(t *testing.T) {
	c := testCatalog()
	buf, err := c.Encode("note", note{Text: "hi"})
	require.NoError(t, err)

	_, err = c.Decode("counter", buf)
	require.ErrorIs(t, err, ErrDiscriminatorMismatch)

	var dm *DiscriminatorMismatchError
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, "counter", dm.Record)
	assert.Equal(t, []byte{3}, dm.Want)
	assert.Equal(t, []byte{4}, dm.Got)

	// An eight-byte tag never matches a one-byte family record.
	anchorBuf, err := c.Encode("anchor-counter", counter{})
	require.NoError(t, err)
	_, err = c.Decode("counter", anchorBuf)
	assert.ErrorIs(t, err, ErrDiscriminatorMismatch)
}

func TestCatalog_Truncated(t *testing.T) {
	c := testCatalog()
	buf, err := c.Encode("counter", counter{Count: 1})
	require.NoError(t, err)

	_, err = c.Decode("counter", buf[:20])
	assert.ErrorIs(t, err, ErrTruncatedBuffer)

	_, err = c.Decode("anchor-counter", []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrTruncatedBuffer)
}

func TestCatalog_DecodeIgnoresTrailingBytes(t *testing.T) {
	c := testCatalog()
	buf, err := c.Encode("note", note{Text: "x"})
	require.NoError(t, err)

	got, err := DecodeAccount[note](c, "note", append(buf, make([]byte, 32)...))
	require.NoError(t, err)
	assert.Equal(t, "x", got.Text)
}

func TestCatalog_StaticSizeAndQueryFilter(t *testing.T) {
	c := testCatalog()

	size, ok, err := c.StaticSize("counter")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 41, size)

	_, ok, err = c.StaticSize("note")
	require.NoError(t, err)
	assert.False(t, ok)

	f, err := c.QueryFilter("counter")
	require.NoError(t, err)
	require.NotNil(t, f.ExactSize)
	assert.Equal(t, 41, *f.ExactSize)
	assert.Equal(t, []Memcmp{{Offset: 0, Bytes: []byte{3}}}, f.Memcmp)

	f, err = c.QueryFilter("note")
	require.NoError(t, err)
	assert.Nil(t, f.ExactSize, "variable records cannot be filtered by length")
}

func TestCatalog_Identify(t *testing.T) {
	c := testCatalog()
	buf, err := c.Encode("anchor-counter", counter{})
	require.NoError(t, err)

	name, err := c.Identify(FamilyAggregator, buf)
	require.NoError(t, err)
	assert.Equal(t, "anchor-counter", name)

	noteBuf, err := c.Encode("note", note{})
	require.NoError(t, err)
	name, err = c.Identify(FamilyGovernance, noteBuf)
	require.NoError(t, err)
	assert.Equal(t, "note", name)

	_, err = c.Identify(FamilyAggregator, noteBuf)
	assert.ErrorIs(t, err, ErrUnknownDiscriminator)
}

func TestCatalog_Names(t *testing.T) {
	c := testCatalog()
	assert.Equal(t, []string{"counter", "note"}, c.AccountNames(FamilyGovernance))
	assert.Equal(t, []string{"anchor-counter", "counter", "note"}, c.AccountNames(""))
	assert.Equal(t, []string{"broken", "padded", "ping", "post"}, c.InstructionNames(FamilyGovernance))
}

func TestInstruction_EncodeExactLength(t *testing.T) {
	c := testCatalog()
	e, err := c.Instruction("post")
	require.NoError(t, err)

	args := note{Text: "hello"}
	size, err := e.Size(args)
	require.NoError(t, err)

	buf, err := c.EncodeInstruction("post", args)
	require.NoError(t, err)
	assert.Len(t, buf, size)
	assert.Equal(t, []byte{0, 5, 0, 0, 0, 'h', 'e', 'l', 'l', 'o'}, buf)

	got, err := DecodeInstructionAs[note](c, "post", buf)
	require.NoError(t, err)
	assert.Equal(t, args, got)
}

func TestInstruction_NoArgs(t *testing.T) {
	c := testCatalog()
	buf, err := c.EncodeInstruction("ping", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, buf)

	buf, err = c.EncodeInstruction("ping", NoArgs{})
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, buf)
}

func TestInstruction_SizeMismatch(t *testing.T) {
	c := testCatalog()

	_, err := c.EncodeInstruction("broken", uint64(1))
	require.ErrorIs(t, err, ErrSizeMismatch)
	assert.ErrorIs(t, err, borsh.ErrShortBuffer)

	_, err = c.EncodeInstruction("padded", uint8(1))
	require.ErrorIs(t, err, ErrSizeMismatch)
	var sm *SizeMismatchError
	require.ErrorAs(t, err, &sm)
	assert.Equal(t, 3, sm.Computed)
	assert.Equal(t, 2, sm.Written)
}

func TestRegister_DuplicatePanics(t *testing.T) {
	c := testCatalog()
	assert.Panics(t, func() {
		RegisterAccount(c, AccountSpec[note]{Name: "note", Family: FamilyGovernance, Discriminator: Tag(9), Layout: noteLayout})
	})
	assert.Panics(t, func() {
		RegisterAccount(c, AccountSpec[note]{Name: "other", Family: FamilyGovernance, Discriminator: Tag(4), Layout: noteLayout})
	})
	assert.NotPanics(t, func() {
		RegisterAccount(c, AccountSpec[note]{Name: "other", Family: FamilyAggregator, Discriminator: Tag(4), Layout: noteLayout})
	})
}
