// Package codec dispatches account and instruction encoding by record-type
// name over a catalog built once at startup and read-only afterwards.
package codec

import (
	"errors"
	"fmt"
	"sort"

	"solana-governance-kit/internal/borsh"
)

// VariableSize marks a record whose byte length depends on its content.
const VariableSize = -1

// AccountSpec describes one account record type.
type AccountSpec[T any] struct {
	Name          string
	Family        Family
	Discriminator Discriminator
	Layout        borsh.Layout[T]
	// StaticSize is the protocol-declared account size, or VariableSize.
	StaticSize int
}

// AccountEntry is the type-erased view of a registered account record.
type AccountEntry interface {
	Name() string
	Family() Family
	Discriminator() Discriminator
	StaticSize() (int, bool)
	Encode(v any) ([]byte, error)
	Decode(data []byte) (any, error)
}

// Catalog maps record-type names to their layouts.
type Catalog struct {
	accounts     map[string]AccountEntry
	instructions map[string]InstructionEntry
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		accounts:     make(map[string]AccountEntry),
		instructions: make(map[string]InstructionEntry),
	}
}

// RegisterAccount adds an account record. It panics on a duplicate name or a
// discriminator already used within the same family, both of which are
// catalog definition bugs.
func RegisterAccount[T any](c *Catalog, spec AccountSpec[T]) {
	if spec.Name == "" || spec.Layout == nil {
		panic("codec: account spec needs a name and a layout")
	}
	if _, dup := c.accounts[spec.Name]; dup {
		panic(fmt.Sprintf("codec: duplicate account %q", spec.Name))
	}
	for _, other := range c.accounts {
		if other.Family() == spec.Family && len(spec.Discriminator) > 0 &&
			string(other.Discriminator()) == string(spec.Discriminator) {
			panic(fmt.Sprintf("codec: accounts %q and %q share a discriminator", other.Name(), spec.Name))
		}
	}
	c.accounts[spec.Name] = &accountCodec[T]{spec: spec}
}

// Account looks up a registered account record.
func (c *Catalog) Account(name string) (AccountEntry, error) {
	e, ok := c.accounts[name]
	if !ok {
		return nil, unknownRecord("account", name)
	}
	return e, nil
}

// Encode serializes an account value, discriminator first.
func (c *Catalog) Encode(name string, v any) ([]byte, error) {
	e, err := c.Account(name)
	if err != nil {
		return nil, err
	}
	return e.Encode(v)
}

// Decode validates the discriminator and decodes the account body. Bytes
// after the layout are ignored.
func (c *Catalog) Decode(name string, data []byte) (any, error) {
	e, err := c.Account(name)
	if err != nil {
		return nil, err
	}
	return e.Decode(data)
}

// StaticSize returns the declared size of a fixed-size record; ok is false
// for variable-size records.
func (c *Catalog) StaticSize(name string) (size int, ok bool, err error) {
	e, err := c.Account(name)
	if err != nil {
		return 0, false, err
	}
	size, ok = e.StaticSize()
	return size, ok, nil
}

// Memcmp matches Bytes at Offset in the account data.
type Memcmp struct {
	Offset int
	Bytes  []byte
}

// QueryFilter constrains a program-wide account scan to one record type.
type QueryFilter struct {
	// ExactSize is set only for fixed-size records.
	ExactSize *int
	Memcmp    []Memcmp
}

// QueryFilter returns the scan constraints for a record type: its exact size
// when fixed, and its discriminator at offset 0 when it has one.
func (c *Catalog) QueryFilter(name string) (QueryFilter, error) {
	e, err := c.Account(name)
	if err != nil {
		return QueryFilter{}, err
	}
	var f QueryFilter
	if size, ok := e.StaticSize(); ok {
		f.ExactSize = &size
	}
	if d := e.Discriminator(); len(d) > 0 {
		f.Memcmp = append(f.Memcmp, Memcmp{Offset: 0, Bytes: append([]byte(nil), d...)})
	}
	return f, nil
}

// Identify returns the name of the family's account record whose
// discriminator prefixes data.
func (c *Catalog) Identify(family Family, data []byte) (string, error) {
	for _, name := range c.AccountNames(family) {
		d := c.accounts[name].Discriminator()
		if len(d) > 0 && d.Matches(data) {
			return name, nil
		}
	}
	n := min(len(data), AnchorDiscriminatorLength)
	return "", fmt.Errorf("%w: %s account starting %x", ErrUnknownDiscriminator, family, data[:n])
}

// AccountNames lists the family's account records in name order. An empty
// family lists all of them.
func (c *Catalog) AccountNames(family Family) []string {
	var names []string
	for name, e := range c.accounts {
		if family == "" || e.Family() == family {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// DecodeAccount decodes into the record's concrete Go type.
func DecodeAccount[T any](c *Catalog, name string, data []byte) (T, error) {
	var zero T
	v, err := c.Decode(name, data)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s decodes to %T, not %T", ErrWrongValueType, name, v, zero)
	}
	return typed, nil
}

type accountCodec[T any] struct {
	spec AccountSpec[T]
}

func (a *accountCodec[T]) Name() string { return a.spec.Name }
func (a *accountCodec[T]) Family() Family { return a.spec.Family }
func (a *accountCodec[T]) Discriminator() Discriminator { return a.spec.Discriminator }

func (a *accountCodec[T]) StaticSize() (int, bool) {
	if a.spec.StaticSize == VariableSize {
		return 0, false
	}
	return a.spec.StaticSize, true
}

func (a *accountCodec[T]) Encode(v any) ([]byte, error) {
	typed, err := asValue[T](a.spec.Name, v)
	if err != nil {
		return nil, err
	}
	return encodeTagged(a.spec.Name, a.spec.Discriminator, a.spec.Layout, typed)
}

func (a *accountCodec[T]) Decode(data []byte) (any, error) {
	return decodeTagged(a.spec.Name, a.spec.Discriminator, a.spec.Layout, data)
}

// asValue accepts T or a non-nil *T.
func asValue[T any](name string, v any) (T, error) {
	var zero T
	switch x := v.(type) {
	case T:
		return x, nil
	case *T:
		if x != nil {
			return *x, nil
		}
	case nil:
		if _, ok := any(zero).(NoArgs); ok {
			return zero, nil
		}
	}
	return zero, fmt.Errorf("%w: %s wants %T, got %T", ErrWrongValueType, name, zero, v)
}

func encodeTagged[T any](name string, disc Discriminator, layout borsh.Layout[T], v T) ([]byte, error) {
	size := len(disc) + layout.Size(v)
	buf := make([]byte, size)
	copy(buf, disc)
	n, err := layout.Encode(buf[len(disc):], v)
	if err != nil {
		if errors.Is(err, borsh.ErrShortBuffer) {
			return nil, &SizeMismatchError{Record: name, Computed: size, Err: err}
		}
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	if written := len(disc) + n; written != size {
		return nil, &SizeMismatchError{Record: name, Computed: size, Written: written}
	}
	return buf, nil
}

func decodeTagged[T any](name string, disc Discriminator, layout borsh.Layout[T], data []byte) (T, error) {
	var zero T
	if len(data) < len(disc) {
		return zero, fmt.Errorf("decode %s: %w: need %d discriminator bytes, have %d",
			name, ErrTruncatedBuffer, len(disc), len(data))
	}
	if !disc.Matches(data) {
		return zero, &DiscriminatorMismatchError{
			Record: name,
			Want:   append([]byte(nil), disc...),
			Got:    append([]byte(nil), data[:len(disc)]...),
		}
	}
	v, _, err := layout.Decode(data[len(disc):])
	if err != nil {
		return zero, fmt.Errorf("decode %s: %w", name, err)
	}
	return v, nil
}
