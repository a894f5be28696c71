package codec

import (
	"fmt"
	"sort"

	"solana-governance-kit/internal/borsh"
)

// NoArgs is the argument type of instructions that carry only their tag.
type NoArgs struct{}

// NoArgsLayout encodes NoArgs as zero bytes.
var NoArgsLayout = borsh.Unit[NoArgs]()

// InstructionSpec describes one instruction's data payload.
type InstructionSpec[T any] struct {
	Name          string
	Family        Family
	Discriminator Discriminator
	Layout        borsh.Layout[T]
}

// InstructionEntry is the type-erased view of a registered instruction.
type InstructionEntry interface {
	Name() string
	Family() Family
	Discriminator() Discriminator
	Size(args any) (int, error)
	Encode(args any) ([]byte, error)
	Decode(data []byte) (any, error)
}

// RegisterInstruction adds an instruction. Duplicate names or a tag reused
// within a family panic.
func RegisterInstruction[T any](c *Catalog, spec InstructionSpec[T]) {
	if spec.Name == "" || spec.Layout == nil || len(spec.Discriminator) == 0 {
		panic("codec: instruction spec needs a name, a discriminator and a layout")
	}
	if _, dup := c.instructions[spec.Name]; dup {
		panic(fmt.Sprintf("codec: duplicate instruction %q", spec.Name))
	}
	for _, other := range c.instructions {
		if other.Family() == spec.Family && string(other.Discriminator()) == string(spec.Discriminator) {
			panic(fmt.Sprintf("codec: instructions %q and %q share a discriminator", other.Name(), spec.Name))
		}
	}
	c.instructions[spec.Name] = &instructionCodec[T]{spec: spec}
}

// Instruction looks up a registered instruction.
func (c *Catalog) Instruction(name string) (InstructionEntry, error) {
	e, ok := c.instructions[name]
	if !ok {
		return nil, unknownRecord("instruction", name)
	}
	return e, nil
}

// EncodeInstruction builds the instruction data: tag followed by arguments.
// The output is allocated at its computed length and a disagreement with the
// bytes actually written fails with ErrSizeMismatch.
func (c *Catalog) EncodeInstruction(name string, args any) ([]byte, error) {
	e, err := c.Instruction(name)
	if err != nil {
		return nil, err
	}
	return e.Encode(args)
}

// DecodeInstruction parses instruction data built for name.
func (c *Catalog) DecodeInstruction(name string, data []byte) (any, error) {
	e, err := c.Instruction(name)
	if err != nil {
		return nil, err
	}
	return e.Decode(data)
}

// InstructionNames lists the family's instructions in name order.
func (c *Catalog) InstructionNames(family Family) []string {
	var names []string
	for name, e := range c.instructions {
		if family == "" || e.Family() == family {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// DecodeInstructionAs decodes into the instruction's concrete argument type.
func DecodeInstructionAs[T any](c *Catalog, name string, data []byte) (T, error) {
	var zero T
	v, err := c.DecodeInstruction(name, data)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s decodes to %T, not %T", ErrWrongValueType, name, v, zero)
	}
	return typed, nil
}

type instructionCodec[T any] struct {
	spec InstructionSpec[T]
}

func (i *instructionCodec[T]) Name() string { return i.spec.Name }
func (i *instructionCodec[T]) Family() Family { return i.spec.Family }
func (i *instructionCodec[T]) Discriminator() Discriminator { return i.spec.Discriminator }

func (i *instructionCodec[T]) Size(args any) (int, error) {
	typed, err := asValue[T](i.spec.Name, args)
	if err != nil {
		return 0, err
	}
	return len(i.spec.Discriminator) + i.spec.Layout.Size(typed), nil
}

func (i *instructionCodec[T]) Encode(args any) ([]byte, error) {
	typed, err := asValue[T](i.spec.Name, args)
	if err != nil {
		return nil, err
	}
	return encodeTagged(i.spec.Name, i.spec.Discriminator, i.spec.Layout, typed)
}

func (i *instructionCodec[T]) Decode(data []byte) (any, error) {
	return decodeTagged(i.spec.Name, i.spec.Discriminator, i.spec.Layout, data)
}
