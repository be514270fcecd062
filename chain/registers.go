// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"fmt"
)

// RegisterID names a non-mandatory register slot of a box.
type RegisterID uint8

const (
	R4 RegisterID = iota + 4
	R5
	R6
	R7
	R8
	R9
)

// RegisterType tags the encoded type of a register value.
type RegisterType uint8

const (
	TypeInt32 RegisterType = iota + 1
	TypeInt64
	TypeGroupElement
)

var (
	errUnknownRegister  = errors.New("unknown register id")
	errDuplicateEntry   = errors.New("duplicate register entry")
	errUnsortedEntries  = errors.New("register entries must be sorted")
	errEmptyElement     = errors.New("empty group element")
	errInvalidRegType   = errors.New("invalid register type")
	ErrRegisterMismatch = errors.New("register type mismatch")
)

// RegisterValue is a typed constant stored in a register slot.
type RegisterValue struct {
	Type  RegisterType `serialize:"true" json:"type"`
	Int   int64        `serialize:"true" json:"int"`
	Bytes []byte       `serialize:"true" json:"bytes"`
}

func Int32Value(v int32) RegisterValue {
	return RegisterValue{Type: TypeInt32, Int: int64(v)}
}

func Int64Value(v int64) RegisterValue {
	return RegisterValue{Type: TypeInt64, Int: v}
}

func GroupElementValue(b []byte) RegisterValue {
	return RegisterValue{Type: TypeGroupElement, Bytes: b}
}

func (v RegisterValue) Verify() error {
	switch v.Type {
	case TypeInt32, TypeInt64:
		return nil
	case TypeGroupElement:
		if len(v.Bytes) == 0 {
			return errEmptyElement
		}
		return nil
	default:
		return errInvalidRegType
	}
}

// AsInt64 returns the value as an int64, failing if the register holds
// a different encoded type.
func (v RegisterValue) AsInt64() (int64, error) {
	if v.Type != TypeInt64 {
		return 0, fmt.Errorf("%w: want int64, have %d", ErrRegisterMismatch, v.Type)
	}
	return v.Int, nil
}

// AsInt32 returns the value as an int32, failing if the register holds
// a different encoded type.
func (v RegisterValue) AsInt32() (int32, error) {
	if v.Type != TypeInt32 {
		return 0, fmt.Errorf("%w: want int32, have %d", ErrRegisterMismatch, v.Type)
	}
	return int32(v.Int), nil
}

// AsGroupElement returns the value as a serialized group element,
// failing if the register holds a different encoded type.
func (v RegisterValue) AsGroupElement() ([]byte, error) {
	if v.Type != TypeGroupElement {
		return nil, fmt.Errorf("%w: want group element, have %d", ErrRegisterMismatch, v.Type)
	}
	return v.Bytes, nil
}

// RegisterEntry binds a register slot to its value.
type RegisterEntry struct {
	ID    RegisterID    `serialize:"true" json:"id"`
	Value RegisterValue `serialize:"true" json:"value"`
}

// Registers is the ordered set of filled register slots of a box,
// sorted by register id.
type Registers []RegisterEntry

// Get returns the value stored in the given slot.
func (r Registers) Get(id RegisterID) (RegisterValue, bool) {
	for _, entry := range r {
		if entry.ID == id {
			return entry.Value, true
		}
	}
	return RegisterValue{}, false
}

// With returns a copy of the registers with the given slot set,
// preserving sorted order. The receiver is not modified.
func (r Registers) With(id RegisterID, v RegisterValue) Registers {
	out := make(Registers, 0, len(r)+1)
	inserted := false
	for _, entry := range r {
		switch {
		case entry.ID == id:
			out = append(out, RegisterEntry{ID: id, Value: v})
			inserted = true
		case entry.ID > id && !inserted:
			out = append(out, RegisterEntry{ID: id, Value: v})
			out = append(out, entry)
			inserted = true
		default:
			out = append(out, entry)
		}
	}
	if !inserted {
		out = append(out, RegisterEntry{ID: id, Value: v})
	}
	return out
}

func (r Registers) Verify() error {
	for i, entry := range r {
		if entry.ID < R4 || entry.ID > R9 {
			return errUnknownRegister
		}
		if i > 0 {
			switch prev := r[i-1].ID; {
			case entry.ID == prev:
				return errDuplicateEntry
			case entry.ID < prev:
				return errUnsortedEntries
			}
		}
		if err := entry.Value.Verify(); err != nil {
			return err
		}
	}
	return nil
}
